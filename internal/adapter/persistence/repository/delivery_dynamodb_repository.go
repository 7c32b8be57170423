package repository

import (
	"context"

	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase/interfaces"
)

// DeliverableDynamoRepository persists Deliverable documents in DynamoDB. File bodies live in
// the blob store; only their keys and URLs are kept here.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: project_id-index (PK: project_id)
type DeliverableDynamoRepository struct {
	table docTable[entities.Deliverable]
}

var _ interfaces.IDeliverableRepository = (*DeliverableDynamoRepository)(nil)

func NewDeliverableDynamoRepository(ddb DynamoAPI, tables Tables) *DeliverableDynamoRepository {
	return &DeliverableDynamoRepository{table: newDocTable[entities.Deliverable](ddb, tables.Deliverables)}
}

func (r *DeliverableDynamoRepository) Create(ctx context.Context, d entities.Deliverable) (entities.Deliverable, error) {
	if err := r.table.create(ctx, d); err != nil {
		return entities.Deliverable{}, err
	}
	return d, nil
}

func (r *DeliverableDynamoRepository) GetByID(ctx context.Context, id string) (entities.Deliverable, error) {
	return r.table.get(ctx, id)
}

func (r *DeliverableDynamoRepository) ListByProject(ctx context.Context, projectID string) ([]entities.Deliverable, error) {
	return r.table.queryIndex(ctx, indexProjectID, "project_id", projectID)
}

func (r *DeliverableDynamoRepository) Update(ctx context.Context, d entities.Deliverable) (entities.Deliverable, error) {
	expected := d.Version
	d.Version++
	if err := r.table.replace(ctx, d, expected); err != nil {
		return entities.Deliverable{}, err
	}
	return d, nil
}

func (r *DeliverableDynamoRepository) Delete(ctx context.Context, id string) error {
	return r.table.delete(ctx, id)
}

// SubmissionDynamoRepository persists Submission documents in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: project_id-index (PK: project_id)
type SubmissionDynamoRepository struct {
	table docTable[entities.Submission]
}

var _ interfaces.ISubmissionRepository = (*SubmissionDynamoRepository)(nil)

func NewSubmissionDynamoRepository(ddb DynamoAPI, tables Tables) *SubmissionDynamoRepository {
	return &SubmissionDynamoRepository{table: newDocTable[entities.Submission](ddb, tables.Submissions)}
}

func (r *SubmissionDynamoRepository) Create(ctx context.Context, s entities.Submission) (entities.Submission, error) {
	if err := r.table.create(ctx, s); err != nil {
		return entities.Submission{}, err
	}
	return s, nil
}

func (r *SubmissionDynamoRepository) GetByID(ctx context.Context, id string) (entities.Submission, error) {
	return r.table.get(ctx, id)
}

func (r *SubmissionDynamoRepository) ListByProject(ctx context.Context, projectID string) ([]entities.Submission, error) {
	return r.table.queryIndex(ctx, indexProjectID, "project_id", projectID)
}

func (r *SubmissionDynamoRepository) Update(ctx context.Context, s entities.Submission) (entities.Submission, error) {
	expected := s.Version
	s.Version++
	if err := r.table.replace(ctx, s, expected); err != nil {
		return entities.Submission{}, err
	}
	return s, nil
}
