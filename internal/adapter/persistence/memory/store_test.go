package memory

import (
	"context"
	"testing"
	"time"

	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_CreateGetUpdate(t *testing.T) {
	ctx := context.Background()
	s := New()
	repo := s.Projects()

	created, err := repo.Create(ctx, entities.Project{ID: "prj-1", ProjectName: "Tower", AssignedDesigners: []entities.AssignedDesigner{{UID: "des-1"}}})
	require.NoError(t, err)

	_, err = repo.Create(ctx, entities.Project{ID: "prj-1"})
	assert.ErrorIs(t, err, interfaces.ErrConflict)

	created.AssignedDesigners[0].UID = "mutated"
	stored, err := repo.GetByID(ctx, "prj-1")
	require.NoError(t, err)
	assert.Equal(t, "des-1", stored.AssignedDesigners[0].UID, "callers must not share slices with the store")

	stored.ProjectName = "Tower B"
	updated, err := repo.Update(ctx, stored)
	require.NoError(t, err)
	assert.Equal(t, stored.Version+1, updated.Version)

	_, err = repo.Update(ctx, stored)
	assert.ErrorIs(t, err, interfaces.ErrConflict, "a stale version must not overwrite")

	_, err = repo.Update(ctx, entities.Project{ID: "ghost"})
	assert.ErrorIs(t, err, interfaces.ErrConflict)

	missing, err := repo.GetByID(ctx, "ghost")
	require.NoError(t, err)
	assert.Empty(t, missing.ID)
}

func TestProjectNumberRegistry(t *testing.T) {
	ctx := context.Background()
	reg := New().ProjectNumbers()

	require.NoError(t, reg.Reserve(ctx, "P-100", "prop-1"))
	require.NoError(t, reg.Reserve(ctx, "P-100", "prop-1"))
	assert.ErrorIs(t, reg.Reserve(ctx, "P-100", "prop-2"), interfaces.ErrConflict)

	require.NoError(t, reg.Release(ctx, "P-100", "prop-2"))
	assert.ErrorIs(t, reg.Reserve(ctx, "P-100", "prop-2"), interfaces.ErrConflict, "only the holder can release")

	require.NoError(t, reg.Release(ctx, "P-100", "prop-1"))
	assert.NoError(t, reg.Reserve(ctx, "P-100", "prop-2"))
}

func TestCounter(t *testing.T) {
	ctx := context.Background()
	c := New().Counter()

	first, _ := c.Next(ctx, "invoice")
	second, _ := c.Next(ctx, "invoice")
	other, _ := c.Next(ctx, "other")
	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)
	assert.Equal(t, int64(1), other)
}

func TestInvoiceRepository_DeleteUnpaid(t *testing.T) {
	ctx := context.Background()
	repo := New().Invoices()

	_, err := repo.Create(ctx, entities.Invoice{ID: "inv-1", Status: entities.InvoiceStatusPaid})
	require.NoError(t, err)
	_, err = repo.Create(ctx, entities.Invoice{ID: "inv-2", Status: entities.InvoiceStatusSent})
	require.NoError(t, err)

	assert.ErrorIs(t, repo.DeleteUnpaid(ctx, "inv-1"), interfaces.ErrConflict)
	assert.NoError(t, repo.DeleteUnpaid(ctx, "inv-2"))
	assert.NoError(t, repo.DeleteUnpaid(ctx, "inv-404"))

	left, _ := repo.List(ctx, interfaces.BillingFilter{})
	require.Len(t, left, 1)
	assert.Equal(t, "inv-1", left[0].ID)
}

func TestHoursLedger_Timesheets(t *testing.T) {
	ctx := context.Background()
	s := New()
	ledger := s.Ledger()

	project, err := s.Projects().Create(ctx, entities.Project{ID: "prj-1", MaxAllocatedHours: 10})
	require.NoError(t, err)

	ts := entities.Timesheet{ID: "ts-1", ProjectID: "prj-1", Hours: 4, Date: "2026-10-01", CreatedAt: time.Now().UTC()}
	after, err := ledger.LogTimesheet(ctx, project, ts, 4)
	require.NoError(t, err)
	assert.Equal(t, 4.0, after.HoursLogged)
	assert.Equal(t, project.Version+1, after.Version)

	_, err = ledger.LogTimesheet(ctx, project, entities.Timesheet{ID: "ts-2", ProjectID: "prj-1", Hours: 1}, 5)
	assert.ErrorIs(t, err, interfaces.ErrConflict, "the project moved on since it was read")

	_, err = ledger.LogTimesheet(ctx, after, ts, 8)
	assert.ErrorIs(t, err, interfaces.ErrConflict, "the same entry cannot be logged twice")

	removed, err := ledger.RemoveTimesheet(ctx, after, ts, 0)
	require.NoError(t, err)
	assert.Zero(t, removed.HoursLogged)

	_, err = ledger.RemoveTimesheet(ctx, removed, ts, 0)
	assert.ErrorIs(t, err, interfaces.ErrConflict)

	stored, _ := s.Projects().GetByID(ctx, "prj-1")
	assert.Equal(t, removed.Version, stored.Version)
	list, _ := s.Timesheets().ListByProject(ctx, "prj-1")
	assert.Empty(t, list)
}

func TestHoursLedger_ApproveTimeRequest(t *testing.T) {
	ctx := context.Background()
	s := New()
	ledger := s.Ledger()

	project, err := s.Projects().Create(ctx, entities.Project{ID: "prj-1", MaxAllocatedHours: 10, TotalAllocatedHours: 10, HoursLogged: 10})
	require.NoError(t, err)
	tr, err := s.TimeRequests().Create(ctx, entities.TimeRequest{ID: "tr-1", ProjectID: "prj-1", Hours: 5, Status: entities.TimeRequestPending})
	require.NoError(t, err)

	approved := tr
	approved.Status = entities.TimeRequestApproved
	draft := &entities.Timesheet{ID: "ts-1", ProjectID: "prj-1", Hours: 3, Date: "2026-10-02"}

	after, err := ledger.ApproveTimeRequest(ctx, project, approved, draft, 13)
	require.NoError(t, err)
	assert.Equal(t, 5.0, after.AdditionalHours)
	assert.Equal(t, 15.0, after.TotalAllocatedHours)
	assert.Equal(t, 13.0, after.HoursLogged)

	storedTR, _ := s.TimeRequests().GetByID(ctx, "tr-1")
	assert.Equal(t, entities.TimeRequestApproved, storedTR.Status)
	assert.Equal(t, tr.Version+1, storedTR.Version)

	_, err = ledger.ApproveTimeRequest(ctx, after, approved, nil, 13)
	assert.ErrorIs(t, err, interfaces.ErrConflict, "an already approved request cannot be applied again")

	stored, _ := s.Projects().GetByID(ctx, "prj-1")
	assert.Equal(t, 15.0, stored.TotalAllocatedHours)
}

func TestNotificationRepository_ReadAndDismissAreSeparate(t *testing.T) {
	ctx := context.Background()
	repo := New().Notifications()

	_, err := repo.Create(ctx, entities.Notification{ID: "n-1", RecipientRole: entities.RoleDesigner})
	require.NoError(t, err)

	require.NoError(t, repo.MarkReadBy(ctx, "n-1", "des-1"))
	require.NoError(t, repo.MarkDismissedBy(ctx, "n-1", "des-2"))
	require.NoError(t, repo.MarkDismissedBy(ctx, "n-1", "des-2"))
	require.NoError(t, repo.MarkDismissedBy(ctx, "gone", "des-2"))

	n, err := repo.GetByID(ctx, "n-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"des-1"}, n.ReadBy)
	assert.Equal(t, []string{"des-2"}, n.DismissedBy)
	assert.True(t, n.DismissedFor("des-2"))
	assert.False(t, n.DismissedFor("des-1"))
	assert.False(t, n.ReadFor("des-2"))

	gone, _ := repo.GetByID(ctx, "gone")
	assert.Empty(t, gone.ID)
}

func TestActivityRepository_AppendAndListRecent(t *testing.T) {
	ctx := context.Background()
	repo := New().Activities()
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Append(ctx, entities.Activity{ID: "a-1", Type: "invoice_created", Timestamp: base}))
	require.NoError(t, repo.Append(ctx, entities.Activity{ID: "a-2", Type: "invoice_deleted", Timestamp: base.Add(time.Minute)}))
	assert.ErrorIs(t, repo.Append(ctx, entities.Activity{ID: "a-1"}), interfaces.ErrConflict)

	list, err := repo.ListRecent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "invoice_deleted", list[0].Type)
}
