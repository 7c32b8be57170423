package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase/interfaces"
	mock_interfaces "studioflow/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func (w *world) reports(cache interfaces.ICache, ttl time.Duration) *ReportUseCase {
	return NewReportUseCase(ReportRepositories{
		Proposals:    w.store.Proposals(),
		Projects:     w.store.Projects(),
		Tasks:        w.store.Tasks(),
		TimeRequests: w.store.TimeRequests(),
		Payments:     w.store.Payments(),
		Activities:   w.store.Activities(),
	}, NewNotificationUseCase(w.store.Notifications()), cache, ttl)
}

// seedReporting fills the store with a small portfolio whose totals are easy to check by hand.
func seedReporting(t *testing.T, w *world) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()

	proposals := []entities.Proposal{
		{ID: "p-won", Status: entities.ProposalStatusWon, Pricing: &entities.Pricing{QuoteValue: 12000, Currency: "USD"}, CreatedByUID: bdm.UID, CreatedAt: now},
		{ID: "p-pipe", Status: entities.ProposalStatusPendingApproval, Pricing: &entities.Pricing{QuoteValue: 5000, Currency: "USD"}, CreatedByUID: otherBDM.UID, CreatedAt: now},
		{ID: "p-lost", Status: entities.ProposalStatusLost, Pricing: &entities.Pricing{QuoteValue: 3000, Currency: "USD"}, CreatedByUID: bdm.UID, CreatedAt: now},
		{ID: "p-new", Status: entities.ProposalStatusPendingEstimation, CreatedByUID: bdm.UID, CreatedAt: now},
	}
	for _, p := range proposals {
		if _, err := w.store.Proposals().Create(ctx, p); err != nil {
			t.Fatalf("seed proposal %s: %v", p.ID, err)
		}
	}

	active := w.activeProject(t, "prj-1", 40)
	active.HoursLogged = 10
	active.AdditionalHours = 5
	if _, err := w.store.Projects().Update(ctx, active); err != nil {
		t.Fatalf("seed hours: %v", err)
	}
	done := w.activeProject(t, "prj-2", 20)
	done.Status = entities.ProjectStatusCompleted
	done.DesignStatus = entities.DesignStatusCompleted
	if _, err := w.store.Projects().Update(ctx, done); err != nil {
		t.Fatalf("seed completed: %v", err)
	}

	payments := []entities.Payment{
		{ID: "pay-1", ProjectID: "prj-1", InvoicedAmount: 1000, PaymentReceivedAmount: 400, PaymentStatus: entities.PaymentStatusDelayed, DueDate: now.AddDate(0, 0, -20), CreatedAt: now},
		{ID: "pay-2", ProjectID: "prj-2", InvoicedAmount: 500, PaymentReceivedAmount: 500, PaymentStatus: entities.PaymentStatusFullyPaid, DueDate: now, CreatedAt: now},
	}
	for _, p := range payments {
		if _, err := w.store.Payments().Create(ctx, p); err != nil {
			t.Fatalf("seed payment %s: %v", p.ID, err)
		}
	}

	tasks := []entities.Task{
		{ID: "t-1", ProjectID: "prj-1", DesignerUID: designer.UID, Title: "Plans", Status: entities.TaskStatusInProgress, CreatedAt: now},
		{ID: "t-2", ProjectID: "prj-1", DesignerUID: designer.UID, Title: "Sections", Status: entities.TaskStatusApproved, CreatedAt: now},
	}
	for _, task := range tasks {
		if _, err := w.store.Tasks().Create(ctx, task); err != nil {
			t.Fatalf("seed task %s: %v", task.ID, err)
		}
	}

	if _, err := w.store.TimeRequests().Create(ctx, entities.TimeRequest{ID: "tr-1", ProjectID: "prj-1", RequesterUID: lead.UID, Hours: 5, Reason: "scope", Status: entities.TimeRequestPending, CreatedAt: now}); err != nil {
		t.Fatalf("seed time request: %v", err)
	}
	seedNotification(t, w, entities.Notification{ID: "n-1", RecipientUID: designer.UID, Type: "task_assigned", CreatedAt: now})
}

func TestReportUseCase_ExecutiveSummary(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t, nil)
	seedReporting(t, w)
	uc := w.reports(nil, 0)

	if _, err := uc.ExecutiveSummary(ctx, bdm); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	s, err := uc.ExecutiveSummary(ctx, director)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if s.WonValue != 12000 || s.WonCount != 1 || s.LostCount != 1 || s.PipelineValue != 5000 {
		t.Fatalf("unexpected sales figures: %+v", s)
	}
	if s.ActiveProjects != 1 || s.HoursLogged != 10 || s.HoursAllocated != 65 {
		t.Fatalf("unexpected delivery figures: %+v", s)
	}
	if s.InvoicedAmount != 1500 || s.ReceivedAmount != 900 || s.Outstanding != 600 {
		t.Fatalf("unexpected billing figures: %+v", s)
	}
}

func TestReportUseCase_ExecutiveSummaryCache(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	cache := mock_interfaces.NewMockICache(ctrl)
	w := newWorld(t, nil)
	seedReporting(t, w)
	uc := w.reports(cache, time.Minute)

	var stored []byte
	gomock.InOrder(
		cache.EXPECT().Get(gomock.Any(), "report:executive-summary").Return(nil, false, nil),
		cache.EXPECT().Set(gomock.Any(), "report:executive-summary", gomock.Any(), time.Minute).DoAndReturn(
			func(_ context.Context, _ string, value []byte, _ time.Duration) error {
				stored = value
				return nil
			},
		),
	)
	fresh, err := uc.ExecutiveSummary(ctx, cooUser)
	if err != nil {
		t.Fatalf("fresh summary: %v", err)
	}
	var decoded ExecutiveSummary
	if err := json.Unmarshal(stored, &decoded); err != nil || decoded.WonValue != fresh.WonValue {
		t.Fatalf("expected the computed summary to be cached, got %s %v", stored, err)
	}

	cached, _ := json.Marshal(ExecutiveSummary{WonCount: 99})
	cache.EXPECT().Get(gomock.Any(), "report:executive-summary").Return(cached, true, nil)
	hit, err := uc.ExecutiveSummary(ctx, cooUser)
	if err != nil || hit.WonCount != 99 {
		t.Fatalf("expected the cached summary, got %+v %v", hit, err)
	}

	gomock.InOrder(
		cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, false, errors.New("redis: connection refused")),
		cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("redis: connection refused")),
	)
	miss, err := uc.ExecutiveSummary(ctx, cooUser)
	if err != nil || miss.WonCount != 1 {
		t.Fatalf("a broken cache must not fail the report: %+v %v", miss, err)
	}
}

func TestReportUseCase_Dashboard(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t, nil)
	seedReporting(t, w)
	uc := w.reports(nil, 0)

	d, err := uc.Dashboard(ctx, designer)
	if err != nil {
		t.Fatalf("designer dashboard: %v", err)
	}
	if d.Proposals != nil || d.Projects[entities.ProjectStatusInProgress] != 1 || d.Projects[entities.ProjectStatusCompleted] != 1 {
		t.Fatalf("unexpected designer counters: %+v", d)
	}
	if d.MyOpenTasks != 1 || d.PendingTimeRequests != 0 || d.OverduePayments != 0 || d.UnreadNotifications != 1 {
		t.Fatalf("unexpected designer counters: %+v", d)
	}

	d, _ = uc.Dashboard(ctx, bdm)
	if len(d.Proposals) != 3 || d.Proposals[entities.ProposalStatusWon] != 1 || d.Proposals[entities.ProposalStatusPendingApproval] != 0 {
		t.Fatalf("a bdm counts only their own proposals: %+v", d.Proposals)
	}

	d, _ = uc.Dashboard(ctx, estimator)
	if d.Projects != nil || len(d.Proposals) != 4 {
		t.Fatalf("unexpected estimator counters: %+v", d)
	}

	d, _ = uc.Dashboard(ctx, accounts)
	if d.OverduePayments != 1 || d.PendingTimeRequests != 0 {
		t.Fatalf("unexpected accounts counters: %+v", d)
	}

	d, _ = uc.Dashboard(ctx, cooUser)
	if d.PendingTimeRequests != 1 || d.OverduePayments != 1 || d.Role != entities.RoleCOO {
		t.Fatalf("unexpected coo counters: %+v", d)
	}
}

func TestReportUseCase_Activities(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t, nil)
	uc := w.reports(nil, 0)
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"a-1", "a-2", "a-3"} {
		if err := w.store.Activities().Append(ctx, entities.Activity{ID: id, Type: "task_created", Timestamp: base.Add(time.Duration(i) * time.Minute)}); err != nil {
			t.Fatalf("seed activity: %v", err)
		}
	}

	if _, err := uc.Activities(ctx, lead, 10); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	list, err := uc.Activities(ctx, director, 2)
	if err != nil {
		t.Fatalf("activities: %v", err)
	}
	if len(list) != 2 || list[0].ID != "a-3" || list[1].ID != "a-2" {
		t.Fatalf("expected the two most recent activities, got %+v", list)
	}
	all, _ := uc.Activities(ctx, cooUser, 0)
	if len(all) != 3 {
		t.Fatalf("expected the default limit to cover everything, got %d", len(all))
	}
}
