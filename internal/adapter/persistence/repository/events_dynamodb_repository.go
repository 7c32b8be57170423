package repository

import (
	"context"
	"sort"

	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const activityKind = "activity"

// NotificationDynamoRepository persists notifications in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: recipient_uid-index (PK: recipient_uid)
//   - GSI: recipient_role-index (PK: recipient_role)
type NotificationDynamoRepository struct {
	table docTable[entities.Notification]
}

var _ interfaces.INotificationRepository = (*NotificationDynamoRepository)(nil)

func NewNotificationDynamoRepository(ddb DynamoAPI, tables Tables) *NotificationDynamoRepository {
	return &NotificationDynamoRepository{table: newDocTable[entities.Notification](ddb, tables.Notifications)}
}

func (r *NotificationDynamoRepository) Create(ctx context.Context, n entities.Notification) (entities.Notification, error) {
	if err := r.table.create(ctx, n); err != nil {
		return entities.Notification{}, err
	}
	return n, nil
}

func (r *NotificationDynamoRepository) GetByID(ctx context.Context, id string) (entities.Notification, error) {
	return r.table.get(ctx, id)
}

func (r *NotificationDynamoRepository) ListByUID(ctx context.Context, uid string) ([]entities.Notification, error) {
	return r.table.queryIndex(ctx, indexRecipientUID, "recipient_uid", uid)
}

func (r *NotificationDynamoRepository) ListByRole(ctx context.Context, role entities.Role) ([]entities.Notification, error) {
	return r.table.queryIndex(ctx, indexRecipientRole, "recipient_role", string(role))
}

func (r *NotificationDynamoRepository) MarkRead(ctx context.Context, id string) error {
	return r.update(ctx, id, "SET #is_read = :true", map[string]string{"#is_read": "is_read"}, map[string]types.AttributeValue{
		":true": &types.AttributeValueMemberBOOL{Value: true},
	})
}

// MarkReadBy adds uid to the read_by string set, which makes repeated calls harmless.
func (r *NotificationDynamoRepository) MarkReadBy(ctx context.Context, id, uid string) error {
	return r.update(ctx, id, "ADD #read_by :uid", map[string]string{"#read_by": "read_by"}, map[string]types.AttributeValue{
		":uid": &types.AttributeValueMemberSS{Value: []string{uid}},
	})
}

func (r *NotificationDynamoRepository) MarkDismissedBy(ctx context.Context, id, uid string) error {
	return r.update(ctx, id, "ADD #dismissed_by :uid", map[string]string{"#dismissed_by": "dismissed_by"}, map[string]types.AttributeValue{
		":uid": &types.AttributeValueMemberSS{Value: []string{uid}},
	})
}

// update applies expr to an existing notification; a notification deleted in the meantime is
// not recreated.
func (r *NotificationDynamoRepository) update(ctx context.Context, id, expr string, names map[string]string, values map[string]types.AttributeValue) error {
	_, err := r.table.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.table.name),
		Key:                       idKey(id),
		ConditionExpression:       aws.String("attribute_exists(#id)"),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  mergeNames(names, map[string]string{"#id": "id"}),
		ExpressionAttributeValues: values,
	})
	if isConditionFailed(err) {
		return nil
	}
	return mapWriteError(r.table.name, err)
}

func (r *NotificationDynamoRepository) Delete(ctx context.Context, id string) error {
	return r.table.delete(ctx, id)
}

// ActivityDynamoRepository appends audit entries. Every entry carries kind="activity" so the
// kind-index (PK: kind, SK: timestamp) serves as a time-ordered feed.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: kind-index (PK: kind, SK: timestamp)
type ActivityDynamoRepository struct {
	table docTable[entities.Activity]
}

var _ interfaces.IActivityRepository = (*ActivityDynamoRepository)(nil)

func NewActivityDynamoRepository(ddb DynamoAPI, tables Tables) *ActivityDynamoRepository {
	return &ActivityDynamoRepository{table: newDocTable[entities.Activity](ddb, tables.Activities)}
}

func (r *ActivityDynamoRepository) Append(ctx context.Context, a entities.Activity) error {
	a.Kind = activityKind
	return r.table.create(ctx, a)
}

func (r *ActivityDynamoRepository) ListRecent(ctx context.Context, limit int) ([]entities.Activity, error) {
	in := &dynamodb.QueryInput{
		TableName:              aws.String(r.table.name),
		IndexName:              aws.String(indexKind),
		KeyConditionExpression: aws.String("#kind = :kind"),
		ExpressionAttributeNames: map[string]string{
			"#kind": "kind",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":kind": str(activityKind),
		},
		ScanIndexForward: aws.Bool(false),
	}
	if limit > 0 {
		in.Limit = aws.Int32(int32(limit))
	}
	return r.table.query(ctx, in, limit)
}

// OutboxDynamoRepository tracks side effects awaiting delivery.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: status-index (PK: status)
type OutboxDynamoRepository struct {
	table docTable[entities.OutboxEvent]
}

var _ interfaces.IOutboxRepository = (*OutboxDynamoRepository)(nil)

func NewOutboxDynamoRepository(ddb DynamoAPI, tables Tables) *OutboxDynamoRepository {
	return &OutboxDynamoRepository{table: newDocTable[entities.OutboxEvent](ddb, tables.Outbox)}
}

func (r *OutboxDynamoRepository) Create(ctx context.Context, e entities.OutboxEvent) (entities.OutboxEvent, error) {
	if err := r.table.create(ctx, e); err != nil {
		return entities.OutboxEvent{}, err
	}
	return e, nil
}

func (r *OutboxDynamoRepository) Save(ctx context.Context, e entities.OutboxEvent) error {
	return r.table.save(ctx, e)
}

// ListByStatus returns the oldest events with the given status.
func (r *OutboxDynamoRepository) ListByStatus(ctx context.Context, status entities.OutboxStatus, limit int) ([]entities.OutboxEvent, error) {
	items, err := r.table.queryIndex(ctx, indexStatus, "status", string(status))
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
