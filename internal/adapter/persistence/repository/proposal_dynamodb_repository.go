package repository

import (
	"context"

	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ProposalDynamoRepository persists Proposal documents in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: status-index (PK: status)
type ProposalDynamoRepository struct {
	table docTable[entities.Proposal]
}

var _ interfaces.IProposalRepository = (*ProposalDynamoRepository)(nil)

func NewProposalDynamoRepository(ddb DynamoAPI, tables Tables) *ProposalDynamoRepository {
	return &ProposalDynamoRepository{table: newDocTable[entities.Proposal](ddb, tables.Proposals)}
}

func (r *ProposalDynamoRepository) Create(ctx context.Context, p entities.Proposal) (entities.Proposal, error) {
	if err := r.table.create(ctx, p); err != nil {
		return entities.Proposal{}, err
	}
	return p, nil
}

func (r *ProposalDynamoRepository) GetByID(ctx context.Context, id string) (entities.Proposal, error) {
	return r.table.get(ctx, id)
}

func (r *ProposalDynamoRepository) List(ctx context.Context, f interfaces.ProposalFilter) ([]entities.Proposal, error) {
	var (
		items []entities.Proposal
		err   error
	)
	if f.Status != "" {
		items, err = r.table.queryIndex(ctx, indexStatus, "status", string(f.Status))
	} else {
		items, err = r.table.scan(ctx)
	}
	if err != nil {
		return nil, err
	}
	return filter(items, f.Match), nil
}

func (r *ProposalDynamoRepository) Update(ctx context.Context, p entities.Proposal) (entities.Proposal, error) {
	expected := p.Version
	p.Version++
	if err := r.table.replace(ctx, p, expected); err != nil {
		return entities.Proposal{}, err
	}
	return p, nil
}

func (r *ProposalDynamoRepository) Delete(ctx context.Context, id string) error {
	return r.table.delete(ctx, id)
}

// ProjectNumberDynamoRegistry keeps one item per project number, owned by the proposal that
// reserved it.
//
// Table requirements:
//   - PK: number (string)
type ProjectNumberDynamoRegistry struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.IProjectNumberRegistry = (*ProjectNumberDynamoRegistry)(nil)

func NewProjectNumberDynamoRegistry(ddb DynamoAPI, tables Tables) *ProjectNumberDynamoRegistry {
	return &ProjectNumberDynamoRegistry{ddb: ddb, tableName: tables.ProjectNumbers}
}

func (r *ProjectNumberDynamoRegistry) Reserve(ctx context.Context, number, owner string) error {
	_, err := r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item: map[string]types.AttributeValue{
			"number": str(number),
			"owner":  str(owner),
		},
		ConditionExpression: aws.String("attribute_not_exists(#number) OR #owner = :owner"),
		ExpressionAttributeNames: map[string]string{
			"#number": "number",
			"#owner":  "owner",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":owner": str(owner),
		},
	})
	return mapWriteError(r.tableName, err)
}

// Release frees number if owner still holds it; a number held by someone else is left alone.
func (r *ProjectNumberDynamoRegistry) Release(ctx context.Context, number, owner string) error {
	_, err := r.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"number": str(number),
		},
		ConditionExpression: aws.String("#owner = :owner"),
		ExpressionAttributeNames: map[string]string{
			"#owner": "owner",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":owner": str(owner),
		},
	})
	if isConditionFailed(err) {
		return nil
	}
	return mapWriteError(r.tableName, err)
}
