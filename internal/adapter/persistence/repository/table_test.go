package repository

import (
	"context"
	"errors"
	"testing"

	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDynamo records the last write and serves one stored item.
type fakeDynamo struct {
	DynamoAPI

	item    map[string]types.AttributeValue
	lastPut *dynamodb.PutItemInput
	putErr  error

	lastUpdate *dynamodb.UpdateItemInput
	updateErr  error
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.lastPut = in
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return &dynamodb.GetItemOutput{Item: f.item}, nil
}

func (f *fakeDynamo) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.lastUpdate = in
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &dynamodb.UpdateItemOutput{}, nil
}

type fakeCreator struct {
	errs    map[string]error
	created []string
}

func (f *fakeCreator) CreateTable(_ context.Context, in *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	name := aws.ToString(in.TableName)
	if err := f.errs[name]; err != nil {
		return nil, err
	}
	f.created = append(f.created, name)
	return &dynamodb.CreateTableOutput{}, nil
}

func TestIsConditionFailed(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"condition check", &types.ConditionalCheckFailedException{}, true},
		{"wrapped condition check", errors.Join(errors.New("put"), &types.ConditionalCheckFailedException{}), true},
		{"cancelled transaction", &types.TransactionCanceledException{CancellationReasons: []types.CancellationReason{
			{Code: aws.String("None")},
			{Code: aws.String("ConditionalCheckFailed")},
		}}, true},
		{"transaction cancelled for throughput", &types.TransactionCanceledException{CancellationReasons: []types.CancellationReason{
			{Code: aws.String("ThrottlingError")},
		}}, false},
		{"other", errors.New("boom"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isConditionFailed(tt.err))
		})
	}
}

func TestMapWriteError(t *testing.T) {
	assert.NoError(t, mapWriteError("projects", nil))

	err := mapWriteError("projects", &types.ConditionalCheckFailedException{})
	assert.ErrorIs(t, err, interfaces.ErrConflict)
	assert.Contains(t, err.Error(), "projects")

	cause := errors.New("timeout")
	err = mapWriteError("projects", cause)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, interfaces.ErrConflict)
}

func TestDocTable_Writes(t *testing.T) {
	ctx := context.Background()
	fake := &fakeDynamo{}
	tbl := newDocTable[entities.Task](fake, "tasks")

	require.NoError(t, tbl.create(ctx, entities.Task{ID: "t-1", Title: "Plans", Version: 1}))
	assert.Equal(t, "attribute_not_exists(#id)", aws.ToString(fake.lastPut.ConditionExpression))
	assert.Equal(t, "tasks", aws.ToString(fake.lastPut.TableName))

	require.NoError(t, tbl.replace(ctx, entities.Task{ID: "t-1", Title: "Plans B", Version: 2}, 1))
	expected, ok := fake.lastPut.ExpressionAttributeValues[":expected"].(*types.AttributeValueMemberN)
	require.True(t, ok)
	assert.Equal(t, "1", expected.Value)

	fake.putErr = &types.ConditionalCheckFailedException{}
	err := tbl.replace(ctx, entities.Task{ID: "t-1", Version: 2}, 1)
	assert.ErrorIs(t, err, interfaces.ErrConflict)
}

func TestDocTable_Get(t *testing.T) {
	ctx := context.Background()
	fake := &fakeDynamo{}
	tbl := newDocTable[entities.Task](fake, "tasks")

	missing, err := tbl.get(ctx, "t-404")
	require.NoError(t, err)
	assert.Empty(t, missing.ID)

	item, err := attributevalue.MarshalMap(entities.Task{ID: "t-1", ProjectID: "prj-1", Title: "Plans", Status: entities.TaskStatusSubmitted, Version: 3})
	require.NoError(t, err)
	fake.item = item

	got, err := tbl.get(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, "prj-1", got.ProjectID)
	assert.Equal(t, entities.TaskStatusSubmitted, got.Status)
	assert.Equal(t, int64(3), got.Version)
}

func TestActivityDynamoRepository_AppendSetsFeedKind(t *testing.T) {
	fake := &fakeDynamo{}
	repo := NewActivityDynamoRepository(fake, Tables{Activities: "activities"})

	require.NoError(t, repo.Append(context.Background(), entities.Activity{ID: "a-1", Type: "invoice_deleted"}))
	kind, ok := fake.lastPut.Item["kind"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "activity", kind.Value)
}

func TestNotificationDynamoRepository_MarkDismissedBy(t *testing.T) {
	fake := &fakeDynamo{}
	repo := NewNotificationDynamoRepository(fake, Tables{Notifications: "notifications"})

	require.NoError(t, repo.MarkDismissedBy(context.Background(), "n-1", "des-1"))
	require.NotNil(t, fake.lastUpdate)
	assert.Equal(t, "ADD #dismissed_by :uid", aws.ToString(fake.lastUpdate.UpdateExpression))
	assert.Equal(t, "dismissed_by", fake.lastUpdate.ExpressionAttributeNames["#dismissed_by"])
	uids, ok := fake.lastUpdate.ExpressionAttributeValues[":uid"].(*types.AttributeValueMemberSS)
	require.True(t, ok)
	assert.Equal(t, []string{"des-1"}, uids.Value)

	fake.updateErr = &types.ConditionalCheckFailedException{}
	assert.NoError(t, repo.MarkDismissedBy(context.Background(), "gone", "des-1"), "a deleted notification is not recreated")
}

func TestCreateTableInput(t *testing.T) {
	in := createTableInput(TableSpec{Name: "activities", Key: "id", Indexes: []IndexSpec{
		{Name: indexKind, Hash: "kind", Sort: "timestamp"},
		{Name: "actor-index", Hash: "kind"},
	}})

	assert.Equal(t, types.BillingModePayPerRequest, in.BillingMode)
	require.Len(t, in.KeySchema, 1)
	assert.Equal(t, "id", aws.ToString(in.KeySchema[0].AttributeName))

	var names []string
	for _, a := range in.AttributeDefinitions {
		names = append(names, aws.ToString(a.AttributeName))
	}
	assert.Equal(t, []string{"id", "kind", "timestamp"}, names, "attributes are deduplicated and sorted")

	require.Len(t, in.GlobalSecondaryIndexes, 2)
	assert.Len(t, in.GlobalSecondaryIndexes[0].KeySchema, 2)
	assert.Equal(t, types.KeyTypeRange, in.GlobalSecondaryIndexes[0].KeySchema[1].KeyType)
	assert.Len(t, in.GlobalSecondaryIndexes[1].KeySchema, 1)
}

func TestEnsureTables(t *testing.T) {
	ctx := context.Background()
	specs := []TableSpec{{Name: "users", Key: "id"}, {Name: "projects", Key: "id"}, {Name: "tasks", Key: "id"}}

	creator := &fakeCreator{errs: map[string]error{"projects": &types.ResourceInUseException{}}}
	created, err := EnsureTables(ctx, creator, specs)
	require.NoError(t, err)
	assert.Equal(t, []string{"users", "tasks"}, created)

	boom := errors.New("access denied")
	creator = &fakeCreator{errs: map[string]error{"projects": boom}}
	created, err = EnsureTables(ctx, creator, specs)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"users"}, created)
}

func TestTablesFromEnv(t *testing.T) {
	t.Setenv("PROJECTS_TABLE", "studio-projects")

	tables := TablesFromEnv()
	assert.Equal(t, "studio-projects", tables.Projects)
	assert.Equal(t, "users", tables.Users)

	specs := tables.Specs()
	assert.Len(t, specs, 15)
	for _, s := range specs {
		assert.NotEmpty(t, s.Name)
		assert.NotEmpty(t, s.Key)
	}
}
