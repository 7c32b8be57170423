package routes

import (
	"context"
	"log"
	"net/http"
	"strconv"

	_ "studioflow/docs" // swag-generated spec
	"studioflow/internal/adapter/http/handlers"
	"studioflow/internal/adapter/http/middleware"
	"studioflow/internal/app"
	"studioflow/internal/config"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Run will start the server
func Run() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	platform, err := app.OpenPlatform(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open platform clients: %v", err)
	}
	repos := app.OpenRepositories(cfg, platform)
	adapters := app.NewAdapters(ctx, cfg, platform)
	useCases := app.NewUseCases(cfg, repos, adapters)

	router := NewRouter(useCases)
	if err := router.Run(":" + strconv.Itoa(cfg.Port)); err != nil {
		log.Fatalf("Failed to startup the application: %v", err.Error())
	}
}

// NewRouter mounts every /api route on a fresh engine.
func NewRouter(uc app.UseCases) *gin.Engine {
	router := gin.New()
	setMiddlewares(router)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	addPingRoutes(router)

	api := router.Group("/api")
	api.Use(middleware.Authenticate(uc.Auth))
	addWorkflowRoutes(api, uc)
	addBillingRoutes(api, uc)
	addAccountRoutes(api, uc)
	return router
}

func setMiddlewares(router *gin.Engine) {
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
	router.Use(middleware.CORS())
}

func addPingRoutes(router *gin.Engine) {
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
}

// resource is the GET/POST/PUT/DELETE surface shared by most handlers.
type resource interface {
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
}

type deletable interface {
	Delete(c *gin.Context)
}

func mount(rg *gin.RouterGroup, path string, h resource) {
	rg.GET(path, h.Get)
	rg.POST(path, h.Create)
	rg.PUT(path, h.Update)
	if d, ok := h.(deletable); ok {
		rg.DELETE(path, d.Delete)
	}
}

const (
	PathProposals     = "/proposals"
	PathProjects      = "/projects"
	PathTasks         = "/tasks"
	PathTimesheets    = "/timesheets"
	PathTimeRequests  = "/time-requests"
	PathDeliverables  = "/deliverables"
	PathSubmissions   = "/submissions"
	PathInvoices      = "/invoices"
	PathPayments      = "/payments"
	PathNotifications = "/notifications"
	PathUsers         = "/users"
)

func addWorkflowRoutes(rg *gin.RouterGroup, uc app.UseCases) {
	mount(rg, PathProposals, handlers.NewProposalHandler(uc.Proposals))
	mount(rg, PathProjects, handlers.NewProjectHandler(uc.Projects))
	mount(rg, PathTasks, handlers.NewTaskHandler(uc.Tasks))
	mount(rg, PathTimeRequests, handlers.NewTimeRequestHandler(uc.TimeRequests))
	mount(rg, PathDeliverables, handlers.NewDeliverableHandler(uc.Deliverables))
	mount(rg, PathSubmissions, handlers.NewSubmissionHandler(uc.Submissions))

	// Timesheet entries are immutable: no PUT.
	timesheets := handlers.NewTimesheetHandler(uc.Timesheets)
	rg.GET(PathTimesheets, timesheets.Get)
	rg.POST(PathTimesheets, timesheets.Create)
	rg.DELETE(PathTimesheets, timesheets.Delete)
}

func addBillingRoutes(rg *gin.RouterGroup, uc app.UseCases) {
	mount(rg, PathInvoices, handlers.NewInvoiceHandler(uc.Invoices))
	mount(rg, PathPayments, handlers.NewPaymentHandler(uc.Payments))
}

func addAccountRoutes(rg *gin.RouterGroup, uc app.UseCases) {
	notifications := handlers.NewNotificationHandler(uc.Notifications)
	rg.GET(PathNotifications, notifications.Get)
	rg.PUT(PathNotifications, notifications.Update)
	rg.DELETE(PathNotifications, notifications.Delete)

	users := handlers.NewUserHandler(uc.Users)
	rg.GET(PathUsers+"/me", users.Me)
	mount(rg, PathUsers, users)

	reports := handlers.NewReportHandler(uc.Reports)
	rg.GET("/dashboard", reports.Dashboard)
	rg.GET("/executive-summary", reports.ExecutiveSummary)
	rg.GET("/activities", reports.Activities)
}
