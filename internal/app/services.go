package app

import (
	"context"
	"log"

	"studioflow/internal/config"
	"studioflow/internal/infrastructure/auth"
	"studioflow/internal/infrastructure/cache"
	"studioflow/internal/infrastructure/email"
	"studioflow/internal/infrastructure/payments"
	"studioflow/internal/infrastructure/storage"
	"studioflow/internal/usecase"
	"studioflow/internal/usecase/interfaces"
	"studioflow/internal/validation"
)

// UseCases is every application service, wired to one set of repositories.
type UseCases struct {
	Auth          usecase.IAuthUseCase
	Users         usecase.IUserUseCase
	Proposals     usecase.IProposalUseCase
	Projects      usecase.IProjectUseCase
	Tasks         usecase.ITaskUseCase
	Timesheets    usecase.ITimesheetUseCase
	TimeRequests  usecase.ITimeRequestUseCase
	Deliverables  usecase.IDeliverableUseCase
	Submissions   usecase.ISubmissionUseCase
	Invoices      usecase.IInvoiceUseCase
	Payments      usecase.IPaymentUseCase
	Notifications usecase.INotificationUseCase
	Reports       usecase.IReportUseCase
	SideEffects   usecase.ISideEffects
}

// Adapters are the optional outbound integrations. A nil field means the integration is not
// configured and the dependent operations report it.
type Adapters struct {
	Tokens  *auth.Manager
	Mailer  interfaces.IMailer
	Blobs   interfaces.IBlobStore
	Gateway interfaces.IPaymentGateway
	Cache   interfaces.ICache
}

// NewAdapters builds every integration the configuration allows. Missing credentials only
// disable the integration.
func NewAdapters(ctx context.Context, cfg *config.Config, p Platform) Adapters {
	var a Adapters

	if m, err := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL); err != nil {
		log.Printf("[app][auth] token verifier not configured: %v", err)
	} else {
		a.Tokens = m
	}

	if m, err := email.NewBrevoMailer(email.Options{
		APIKey:      cfg.Email.BrevoAPIKey,
		SenderEmail: cfg.Email.SenderEmail,
		SenderName:  cfg.Email.SenderName,
		Sandbox:     cfg.Email.Sandbox,
		Mock:        cfg.Email.Mock,
		AppURL:      cfg.Email.AppURL,
	}); err != nil {
		log.Printf("[app][email] mailer not configured: %v", err)
	} else {
		a.Mailer = m
	}

	if cfg.AWS.Bucket != "" {
		client := storage.NewS3Client(p.AWS, cfg.AWS.S3Endpoint)
		a.Blobs = storage.NewS3BlobStore(client, cfg.AWS.Bucket, cfg.AWS.Region, cfg.AWS.S3Endpoint)
	} else {
		log.Printf("[app][storage] STORAGE_BUCKET not set; file uploads disabled")
	}

	if g, err := payments.NewMercadoPagoGateway(cfg.MercadoPagoToken); err != nil {
		log.Printf("[app][payment] Mercado Pago gateway not configured: %v", err)
	} else {
		a.Gateway = g
	}

	a.Cache = cache.NewNoop()
	if cfg.RedisAddr != "" {
		rc := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Printf("[app][cache] redis unreachable addr=%s err=%v; caching disabled", cfg.RedisAddr, err)
		} else {
			a.Cache = rc
		}
	}
	return a
}

func NewUseCases(cfg *config.Config, repos Repositories, a Adapters) UseCases {
	v := validation.New()

	fx := usecase.NewSideEffectDispatcher(repos.Activities, repos.Notifications, repos.Outbox, repos.Users, a.Mailer)
	notifications := usecase.NewNotificationUseCase(repos.Notifications)

	var verifier interfaces.ITokenVerifier
	if a.Tokens != nil {
		verifier = a.Tokens
	}

	return UseCases{
		Auth:          usecase.NewAuthUseCase(verifier, repos.Users),
		Users:         usecase.NewUserUseCase(repos.Users, fx, v),
		Proposals:     usecase.NewProposalUseCase(repos.Proposals, repos.ProjectNumbers, fx, v),
		Projects:      usecase.NewProjectUseCase(repos.Projects, repos.Proposals, repos.Users, fx, v),
		Tasks:         usecase.NewTaskUseCase(repos.Tasks, repos.Projects, fx, v),
		Timesheets:    usecase.NewTimesheetUseCase(repos.Timesheets, repos.Projects, repos.Ledger, fx, v),
		TimeRequests:  usecase.NewTimeRequestUseCase(repos.TimeRequests, repos.Projects, repos.Timesheets, repos.Ledger, fx, v),
		Deliverables:  usecase.NewDeliverableUseCase(repos.Deliverables, repos.Projects, a.Blobs, fx, v),
		Submissions:   usecase.NewSubmissionUseCase(repos.Submissions, repos.Deliverables, repos.Projects, fx, v),
		Invoices:      usecase.NewInvoiceUseCase(repos.Invoices, repos.Projects, repos.Counter, fx, v),
		Payments:      usecase.NewPaymentUseCase(repos.Payments, repos.Invoices, repos.Projects, a.Gateway, fx, v, cfg.OverdueThreshold),
		Notifications: notifications,
		Reports: usecase.NewReportUseCase(usecase.ReportRepositories{
			Proposals:    repos.Proposals,
			Projects:     repos.Projects,
			Tasks:        repos.Tasks,
			TimeRequests: repos.TimeRequests,
			Payments:     repos.Payments,
			Activities:   repos.Activities,
		}, notifications, a.Cache, cfg.CacheTTL),
		SideEffects: fx,
	}
}
