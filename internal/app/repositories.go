package app

import (
	"context"
	"fmt"
	"log"

	"studioflow/internal/adapter/persistence/memory"
	"studioflow/internal/adapter/persistence/repository"
	"studioflow/internal/config"
	"studioflow/internal/infrastructure/database"
	"studioflow/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// Repositories is the full persistence surface, backed either by DynamoDB or by the in-memory store.
type Repositories struct {
	Users          interfaces.IUserRepository
	Proposals      interfaces.IProposalRepository
	ProjectNumbers interfaces.IProjectNumberRegistry
	Projects       interfaces.IProjectRepository
	Tasks          interfaces.ITaskRepository
	Timesheets     interfaces.ITimesheetRepository
	Ledger         interfaces.IHoursLedger
	TimeRequests   interfaces.ITimeRequestRepository
	Deliverables   interfaces.IDeliverableRepository
	Submissions    interfaces.ISubmissionRepository
	Invoices       interfaces.IInvoiceRepository
	Payments       interfaces.IPaymentRepository
	Counter        interfaces.ICounter
	Notifications  interfaces.INotificationRepository
	Activities     interfaces.IActivityRepository
	Outbox         interfaces.IOutboxRepository
}

func MemoryRepositories(s *memory.Store) Repositories {
	return Repositories{
		Users:          s.Users(),
		Proposals:      s.Proposals(),
		ProjectNumbers: s.ProjectNumbers(),
		Projects:       s.Projects(),
		Tasks:          s.Tasks(),
		Timesheets:     s.Timesheets(),
		Ledger:         s.Ledger(),
		TimeRequests:   s.TimeRequests(),
		Deliverables:   s.Deliverables(),
		Submissions:    s.Submissions(),
		Invoices:       s.Invoices(),
		Payments:       s.Payments(),
		Counter:        s.Counter(),
		Notifications:  s.Notifications(),
		Activities:     s.Activities(),
		Outbox:         s.Outbox(),
	}
}

func DynamoRepositories(ddb repository.DynamoAPI, tables repository.Tables) Repositories {
	return Repositories{
		Users:          repository.NewUserDynamoRepository(ddb, tables),
		Proposals:      repository.NewProposalDynamoRepository(ddb, tables),
		ProjectNumbers: repository.NewProjectNumberDynamoRegistry(ddb, tables),
		Projects:       repository.NewProjectDynamoRepository(ddb, tables),
		Tasks:          repository.NewTaskDynamoRepository(ddb, tables),
		Timesheets:     repository.NewTimesheetDynamoRepository(ddb, tables),
		Ledger:         repository.NewHoursLedgerDynamo(ddb, tables),
		TimeRequests:   repository.NewTimeRequestDynamoRepository(ddb, tables),
		Deliverables:   repository.NewDeliverableDynamoRepository(ddb, tables),
		Submissions:    repository.NewSubmissionDynamoRepository(ddb, tables),
		Invoices:       repository.NewInvoiceDynamoRepository(ddb, tables),
		Payments:       repository.NewPaymentDynamoRepository(ddb, tables),
		Counter:        repository.NewCounterDynamoRepository(ddb, tables),
		Notifications:  repository.NewNotificationDynamoRepository(ddb, tables),
		Activities:     repository.NewActivityDynamoRepository(ddb, tables),
		Outbox:         repository.NewOutboxDynamoRepository(ddb, tables),
	}
}

// Platform holds the clients built from the platform credentials. DynamoDB is nil under the
// memory driver.
type Platform struct {
	AWS      aws.Config
	DynamoDB *dynamodb.Client
	Tables   repository.Tables
}

// OpenPlatform loads the AWS configuration and, for the dynamodb driver, connects the client.
func OpenPlatform(ctx context.Context, cfg *config.Config) (Platform, error) {
	awsCfg, err := database.NewAWSConfig(ctx, cfg.AWS)
	if err != nil {
		return Platform{}, fmt.Errorf("load aws config: %w", err)
	}
	p := Platform{AWS: awsCfg, Tables: repository.TablesFromEnv()}
	if cfg.StoreDriver == config.StoreDynamoDB {
		p.DynamoDB = database.ConnectDynamoDB(awsCfg, cfg.AWS.DynamoEndpoint)
	}
	return p, nil
}

// OpenRepositories picks the store selected by STORE_DRIVER.
func OpenRepositories(cfg *config.Config, p Platform) Repositories {
	if cfg.StoreDriver == config.StoreMemory || p.DynamoDB == nil {
		log.Printf("[app][store] using in-memory store; data is lost on restart")
		return MemoryRepositories(memory.New())
	}
	log.Printf("[app][store] using dynamodb region=%s", cfg.AWS.Region)
	return DynamoRepositories(p.DynamoDB, p.Tables)
}
