package repository

import (
	"context"
	"errors"
	"log"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	indexRole          = "role-index"
	indexStatus        = "status-index"
	indexProjectID     = "project_id-index"
	indexDesignerUID   = "designer_uid-index"
	indexRecipientUID  = "recipient_uid-index"
	indexRecipientRole = "recipient_role-index"
	indexKind          = "kind-index"
)

// Tables names every table the service uses. Each name can be overridden through its
// environment variable.
type Tables struct {
	Users          string
	Proposals      string
	ProjectNumbers string
	Projects       string
	Tasks          string
	Timesheets     string
	TimeRequests   string
	Deliverables   string
	Submissions    string
	Invoices       string
	Payments       string
	Counters       string
	Notifications  string
	Activities     string
	Outbox         string
}

func TablesFromEnv() Tables {
	return Tables{
		Users:          getenvDefault("USERS_TABLE", "users"),
		Proposals:      getenvDefault("PROPOSALS_TABLE", "proposals"),
		ProjectNumbers: getenvDefault("PROJECT_NUMBERS_TABLE", "project_numbers"),
		Projects:       getenvDefault("PROJECTS_TABLE", "projects"),
		Tasks:          getenvDefault("TASKS_TABLE", "tasks"),
		Timesheets:     getenvDefault("TIMESHEETS_TABLE", "timesheets"),
		TimeRequests:   getenvDefault("TIME_REQUESTS_TABLE", "time_requests"),
		Deliverables:   getenvDefault("DELIVERABLES_TABLE", "deliverables"),
		Submissions:    getenvDefault("SUBMISSIONS_TABLE", "submissions"),
		Invoices:       getenvDefault("INVOICES_TABLE", "invoices"),
		Payments:       getenvDefault("PAYMENTS_TABLE", "payments"),
		Counters:       getenvDefault("COUNTERS_TABLE", "counters"),
		Notifications:  getenvDefault("NOTIFICATIONS_TABLE", "notifications"),
		Activities:     getenvDefault("ACTIVITIES_TABLE", "activities"),
		Outbox:         getenvDefault("OUTBOX_TABLE", "outbox"),
	}
}

// TableSpec describes a table for local bootstrapping.
type TableSpec struct {
	Name    string
	Key     string
	Indexes []IndexSpec
}

type IndexSpec struct {
	Name string
	Hash string
	Sort string
}

func (t Tables) Specs() []TableSpec {
	byProject := []IndexSpec{{Name: indexProjectID, Hash: "project_id"}}
	return []TableSpec{
		{Name: t.Users, Key: "id", Indexes: []IndexSpec{{Name: indexRole, Hash: "role"}}},
		{Name: t.Proposals, Key: "id", Indexes: []IndexSpec{{Name: indexStatus, Hash: "status"}}},
		{Name: t.ProjectNumbers, Key: "number"},
		{Name: t.Projects, Key: "id"},
		{Name: t.Tasks, Key: "id", Indexes: append(byProject, IndexSpec{Name: indexDesignerUID, Hash: "designer_uid"})},
		{Name: t.Timesheets, Key: "id", Indexes: append(byProject, IndexSpec{Name: indexDesignerUID, Hash: "designer_uid"})},
		{Name: t.TimeRequests, Key: "id", Indexes: byProject},
		{Name: t.Deliverables, Key: "id", Indexes: byProject},
		{Name: t.Submissions, Key: "id", Indexes: byProject},
		{Name: t.Invoices, Key: "id", Indexes: byProject},
		{Name: t.Payments, Key: "id", Indexes: byProject},
		{Name: t.Counters, Key: "name"},
		{Name: t.Notifications, Key: "id", Indexes: []IndexSpec{
			{Name: indexRecipientUID, Hash: "recipient_uid"},
			{Name: indexRecipientRole, Hash: "recipient_role"},
		}},
		{Name: t.Activities, Key: "id", Indexes: []IndexSpec{{Name: indexKind, Hash: "kind", Sort: "timestamp"}}},
		{Name: t.Outbox, Key: "id", Indexes: []IndexSpec{{Name: indexStatus, Hash: "status"}}},
	}
}

// TableCreator is the part of the DynamoDB API needed to bootstrap tables.
type TableCreator interface {
	CreateTable(ctx context.Context, in *dynamodb.CreateTableInput, opts ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// EnsureTables creates every missing table with on-demand billing. Existing tables are left
// untouched.
func EnsureTables(ctx context.Context, ddb TableCreator, specs []TableSpec) (created []string, err error) {
	for _, spec := range specs {
		_, err := ddb.CreateTable(ctx, createTableInput(spec))
		if err != nil {
			var inUse *types.ResourceInUseException
			if errors.As(err, &inUse) {
				continue
			}
			return created, err
		}
		log.Printf("[dynamodb][bootstrap] created table=%s", spec.Name)
		created = append(created, spec.Name)
	}
	return created, nil
}

func createTableInput(spec TableSpec) *dynamodb.CreateTableInput {
	attrs := map[string]bool{spec.Key: true}
	in := &dynamodb.CreateTableInput{
		TableName:   aws.String(spec.Name),
		BillingMode: types.BillingModePayPerRequest,
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(spec.Key), KeyType: types.KeyTypeHash},
		},
	}
	for _, idx := range spec.Indexes {
		schema := []types.KeySchemaElement{{AttributeName: aws.String(idx.Hash), KeyType: types.KeyTypeHash}}
		attrs[idx.Hash] = true
		if idx.Sort != "" {
			schema = append(schema, types.KeySchemaElement{AttributeName: aws.String(idx.Sort), KeyType: types.KeyTypeRange})
			attrs[idx.Sort] = true
		}
		in.GlobalSecondaryIndexes = append(in.GlobalSecondaryIndexes, types.GlobalSecondaryIndex{
			IndexName:  aws.String(idx.Name),
			KeySchema:  schema,
			Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
		})
	}
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		in.AttributeDefinitions = append(in.AttributeDefinitions, types.AttributeDefinition{
			AttributeName: aws.String(name),
			AttributeType: types.ScalarAttributeTypeS,
		})
	}
	return in
}
