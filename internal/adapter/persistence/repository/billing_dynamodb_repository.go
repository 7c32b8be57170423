package repository

import (
	"context"
	"fmt"
	"strconv"

	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// InvoiceDynamoRepository persists Invoice documents in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: project_id-index (PK: project_id)
type InvoiceDynamoRepository struct {
	table docTable[entities.Invoice]
}

var _ interfaces.IInvoiceRepository = (*InvoiceDynamoRepository)(nil)

func NewInvoiceDynamoRepository(ddb DynamoAPI, tables Tables) *InvoiceDynamoRepository {
	return &InvoiceDynamoRepository{table: newDocTable[entities.Invoice](ddb, tables.Invoices)}
}

func (r *InvoiceDynamoRepository) Create(ctx context.Context, inv entities.Invoice) (entities.Invoice, error) {
	if err := r.table.create(ctx, inv); err != nil {
		return entities.Invoice{}, err
	}
	return inv, nil
}

func (r *InvoiceDynamoRepository) GetByID(ctx context.Context, id string) (entities.Invoice, error) {
	return r.table.get(ctx, id)
}

func (r *InvoiceDynamoRepository) List(ctx context.Context, f interfaces.BillingFilter) ([]entities.Invoice, error) {
	var (
		items []entities.Invoice
		err   error
	)
	if f.ProjectID != "" {
		items, err = r.table.queryIndex(ctx, indexProjectID, "project_id", f.ProjectID)
	} else {
		items, err = r.table.scan(ctx)
	}
	if err != nil {
		return nil, err
	}
	return filter(items, f.MatchInvoice), nil
}

func (r *InvoiceDynamoRepository) Update(ctx context.Context, inv entities.Invoice) (entities.Invoice, error) {
	expected := inv.Version
	inv.Version++
	if err := r.table.replace(ctx, inv, expected); err != nil {
		return entities.Invoice{}, err
	}
	return inv, nil
}

func (r *InvoiceDynamoRepository) DeleteUnpaid(ctx context.Context, id string) error {
	_, err := r.table.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.table.name),
		Key:                 idKey(id),
		ConditionExpression: aws.String("attribute_not_exists(#id) OR #status <> :paid"),
		ExpressionAttributeNames: map[string]string{
			"#id":     "id",
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":paid": str(string(entities.InvoiceStatusPaid)),
		},
	})
	return mapWriteError(r.table.name, err)
}

// PaymentDynamoRepository persists Payment milestones in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: project_id-index (PK: project_id)
type PaymentDynamoRepository struct {
	table docTable[entities.Payment]
}

var _ interfaces.IPaymentRepository = (*PaymentDynamoRepository)(nil)

func NewPaymentDynamoRepository(ddb DynamoAPI, tables Tables) *PaymentDynamoRepository {
	return &PaymentDynamoRepository{table: newDocTable[entities.Payment](ddb, tables.Payments)}
}

func (r *PaymentDynamoRepository) Create(ctx context.Context, p entities.Payment) (entities.Payment, error) {
	if err := r.table.create(ctx, p); err != nil {
		return entities.Payment{}, err
	}
	return p, nil
}

func (r *PaymentDynamoRepository) GetByID(ctx context.Context, id string) (entities.Payment, error) {
	return r.table.get(ctx, id)
}

func (r *PaymentDynamoRepository) List(ctx context.Context, f interfaces.BillingFilter) ([]entities.Payment, error) {
	var (
		items []entities.Payment
		err   error
	)
	if f.ProjectID != "" {
		items, err = r.table.queryIndex(ctx, indexProjectID, "project_id", f.ProjectID)
	} else {
		items, err = r.table.scan(ctx)
	}
	if err != nil {
		return nil, err
	}
	return filter(items, f.MatchPayment), nil
}

func (r *PaymentDynamoRepository) Update(ctx context.Context, p entities.Payment) (entities.Payment, error) {
	expected := p.Version
	p.Version++
	if err := r.table.replace(ctx, p, expected); err != nil {
		return entities.Payment{}, err
	}
	return p, nil
}

func (r *PaymentDynamoRepository) Delete(ctx context.Context, id string) error {
	return r.table.delete(ctx, id)
}

// CounterDynamoRepository hands out sequence numbers with an atomic ADD.
//
// Table requirements:
//   - PK: name (string)
type CounterDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.ICounter = (*CounterDynamoRepository)(nil)

func NewCounterDynamoRepository(ddb DynamoAPI, tables Tables) *CounterDynamoRepository {
	return &CounterDynamoRepository{ddb: ddb, tableName: tables.Counters}
}

func (r *CounterDynamoRepository) Next(ctx context.Context, name string) (int64, error) {
	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"name": str(name),
		},
		UpdateExpression: aws.String("ADD #value :one"),
		ExpressionAttributeNames: map[string]string{
			"#value": "value",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": inum(1),
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, mapWriteError(r.tableName, err)
	}
	n, ok := out.Attributes["value"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("dynamodb %s: counter %q returned no value", r.tableName, name)
	}
	return strconv.ParseInt(n.Value, 10, 64)
}
