package repository

import (
	"context"

	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase/interfaces"
)

// ProjectDynamoRepository persists Project documents in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//
// The project id is the id of the proposal it was created from, which guarantees one project
// per proposal through the create condition.
type ProjectDynamoRepository struct {
	table docTable[entities.Project]
}

var _ interfaces.IProjectRepository = (*ProjectDynamoRepository)(nil)

func NewProjectDynamoRepository(ddb DynamoAPI, tables Tables) *ProjectDynamoRepository {
	return &ProjectDynamoRepository{table: newDocTable[entities.Project](ddb, tables.Projects)}
}

func (r *ProjectDynamoRepository) Create(ctx context.Context, p entities.Project) (entities.Project, error) {
	if err := r.table.create(ctx, p); err != nil {
		return entities.Project{}, err
	}
	return p, nil
}

func (r *ProjectDynamoRepository) GetByID(ctx context.Context, id string) (entities.Project, error) {
	return r.table.get(ctx, id)
}

func (r *ProjectDynamoRepository) List(ctx context.Context, f interfaces.ProjectFilter) ([]entities.Project, error) {
	items, err := r.table.scan(ctx)
	if err != nil {
		return nil, err
	}
	return filter(items, f.Match), nil
}

func (r *ProjectDynamoRepository) Update(ctx context.Context, p entities.Project) (entities.Project, error) {
	expected := p.Version
	p.Version++
	if err := r.table.replace(ctx, p, expected); err != nil {
		return entities.Project{}, err
	}
	return p, nil
}

func (r *ProjectDynamoRepository) Delete(ctx context.Context, id string) error {
	return r.table.delete(ctx, id)
}
