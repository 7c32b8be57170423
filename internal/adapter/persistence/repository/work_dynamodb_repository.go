package repository

import (
	"context"

	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase/interfaces"
)

// TaskDynamoRepository persists Task documents in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: project_id-index (PK: project_id)
//   - GSI: designer_uid-index (PK: designer_uid)
type TaskDynamoRepository struct {
	table docTable[entities.Task]
}

var _ interfaces.ITaskRepository = (*TaskDynamoRepository)(nil)

func NewTaskDynamoRepository(ddb DynamoAPI, tables Tables) *TaskDynamoRepository {
	return &TaskDynamoRepository{table: newDocTable[entities.Task](ddb, tables.Tasks)}
}

func (r *TaskDynamoRepository) Create(ctx context.Context, t entities.Task) (entities.Task, error) {
	if err := r.table.create(ctx, t); err != nil {
		return entities.Task{}, err
	}
	return t, nil
}

func (r *TaskDynamoRepository) GetByID(ctx context.Context, id string) (entities.Task, error) {
	return r.table.get(ctx, id)
}

func (r *TaskDynamoRepository) List(ctx context.Context, f interfaces.TaskFilter) ([]entities.Task, error) {
	var (
		items []entities.Task
		err   error
	)
	switch {
	case f.ProjectID != "":
		items, err = r.table.queryIndex(ctx, indexProjectID, "project_id", f.ProjectID)
	case f.DesignerUID != "":
		items, err = r.table.queryIndex(ctx, indexDesignerUID, "designer_uid", f.DesignerUID)
	default:
		items, err = r.table.scan(ctx)
	}
	if err != nil {
		return nil, err
	}
	return filter(items, f.Match), nil
}

func (r *TaskDynamoRepository) Update(ctx context.Context, t entities.Task) (entities.Task, error) {
	expected := t.Version
	t.Version++
	if err := r.table.replace(ctx, t, expected); err != nil {
		return entities.Task{}, err
	}
	return t, nil
}

func (r *TaskDynamoRepository) Delete(ctx context.Context, id string) error {
	return r.table.delete(ctx, id)
}

// TimesheetDynamoRepository is the read side of timesheets. Writes go through HoursLedger.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: project_id-index (PK: project_id)
//   - GSI: designer_uid-index (PK: designer_uid)
type TimesheetDynamoRepository struct {
	table docTable[entities.Timesheet]
}

var _ interfaces.ITimesheetRepository = (*TimesheetDynamoRepository)(nil)

func NewTimesheetDynamoRepository(ddb DynamoAPI, tables Tables) *TimesheetDynamoRepository {
	return &TimesheetDynamoRepository{table: newDocTable[entities.Timesheet](ddb, tables.Timesheets)}
}

func (r *TimesheetDynamoRepository) GetByID(ctx context.Context, id string) (entities.Timesheet, error) {
	return r.table.get(ctx, id)
}

func (r *TimesheetDynamoRepository) ListByProject(ctx context.Context, projectID string) ([]entities.Timesheet, error) {
	return r.table.queryIndex(ctx, indexProjectID, "project_id", projectID)
}

func (r *TimesheetDynamoRepository) ListByDesigner(ctx context.Context, designerUID string) ([]entities.Timesheet, error) {
	return r.table.queryIndex(ctx, indexDesignerUID, "designer_uid", designerUID)
}

// TimeRequestDynamoRepository persists TimeRequest documents in DynamoDB. Approval writes go
// through HoursLedger.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: project_id-index (PK: project_id)
type TimeRequestDynamoRepository struct {
	table docTable[entities.TimeRequest]
}

var _ interfaces.ITimeRequestRepository = (*TimeRequestDynamoRepository)(nil)

func NewTimeRequestDynamoRepository(ddb DynamoAPI, tables Tables) *TimeRequestDynamoRepository {
	return &TimeRequestDynamoRepository{table: newDocTable[entities.TimeRequest](ddb, tables.TimeRequests)}
}

func (r *TimeRequestDynamoRepository) Create(ctx context.Context, tr entities.TimeRequest) (entities.TimeRequest, error) {
	if err := r.table.create(ctx, tr); err != nil {
		return entities.TimeRequest{}, err
	}
	return tr, nil
}

func (r *TimeRequestDynamoRepository) GetByID(ctx context.Context, id string) (entities.TimeRequest, error) {
	return r.table.get(ctx, id)
}

func (r *TimeRequestDynamoRepository) List(ctx context.Context, f interfaces.TimeRequestFilter) ([]entities.TimeRequest, error) {
	var (
		items []entities.TimeRequest
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
	return filter(items, f.Match), nil
}

func (r *TimeRequestDynamoRepository) Update(ctx context.Context, tr entities.TimeRequest) (entities.TimeRequest, error) {
	expected := tr.Version
	tr.Version++
	if err := r.table.replace(ctx, tr, expected); err != nil {
		return entities.TimeRequest{}, err
	}
	return tr, nil
}
