package repository

import (
	"context"

	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase/interfaces"
)

// UserDynamoRepository persists User records in DynamoDB.
//
// Table requirements:
//   - PK: id (string, the auth provider uid)
//   - GSI: role-index (PK: role)
type UserDynamoRepository struct {
	table docTable[entities.User]
}

var _ interfaces.IUserRepository = (*UserDynamoRepository)(nil)

func NewUserDynamoRepository(ddb DynamoAPI, tables Tables) *UserDynamoRepository {
	return &UserDynamoRepository{table: newDocTable[entities.User](ddb, tables.Users)}
}

func (r *UserDynamoRepository) Create(ctx context.Context, u entities.User) (entities.User, error) {
	if err := r.table.create(ctx, u); err != nil {
		return entities.User{}, err
	}
	return u, nil
}

func (r *UserDynamoRepository) GetByID(ctx context.Context, uid string) (entities.User, error) {
	return r.table.get(ctx, uid)
}

func (r *UserDynamoRepository) List(ctx context.Context) ([]entities.User, error) {
	return r.table.scan(ctx)
}

func (r *UserDynamoRepository) ListByRole(ctx context.Context, role entities.Role) ([]entities.User, error) {
	return r.table.queryIndex(ctx, indexRole, "role", string(role))
}

func (r *UserDynamoRepository) Update(ctx context.Context, u entities.User) (entities.User, error) {
	expected := u.Version
	u.Version++
	if err := r.table.replace(ctx, u, expected); err != nil {
		return entities.User{}, err
	}
	return u, nil
}
