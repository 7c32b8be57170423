package usecase

import (
	"context"
	"errors"
	"testing"

	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase/interfaces"
)

func TestTimesheetUseCase_Log(t *testing.T) {
	ctx := context.Background()

	t.Run("exceeding the budget reports the overshoot", func(t *testing.T) {
		w := newWorld(t, nil)
		uc := w.timesheets()
		w.activeProject(t, "prj-1", 10)

		if _, err := uc.Log(ctx, designer, NewTimesheet{ProjectID: "prj-1", Date: "2026-10-01", Hours: 8}); err != nil {
			t.Fatalf("log: %v", err)
		}
		_, err := uc.Log(ctx, designer, NewTimesheet{ProjectID: "prj-1", Date: "2026-10-02", Hours: 5})
		var ae *AllocationExceededError
		if !errors.As(err, &ae) {
			t.Fatalf("expected AllocationExceededError, got %v", err)
		}
		if ae.ExceededBy != 3 || ae.Budget != 10 || ae.Logged != 8 {
			t.Fatalf("unexpected overshoot: %+v", ae)
		}
		if !errors.Is(err, ErrExceedsAllocation) {
			t.Fatalf("expected ErrExceedsAllocation in chain")
		}
		if got := w.project(t, "prj-1").HoursLogged; got != 8 {
			t.Fatalf("rejected entry must not count, hoursLogged=%v", got)
		}
	})

	t.Run("filling the budget exactly is allowed and warns the lead", func(t *testing.T) {
		w := newWorld(t, nil)
		uc := w.timesheets()
		w.activeProject(t, "prj-1", 10)

		if _, err := uc.Log(ctx, designer, NewTimesheet{ProjectID: "prj-1", Date: "2026-10-01", Hours: 10}); err != nil {
			t.Fatalf("log: %v", err)
		}
		if got := w.project(t, "prj-1").HoursLogged; got != 10 {
			t.Fatalf("expected hoursLogged 10, got %v", got)
		}
		notes, _ := w.store.Notifications().ListByUID(ctx, lead.UID)
		if len(notes) != 1 || notes[0].Type != "hours_near_budget" {
			t.Fatalf("expected a near-budget notice for the lead, got %+v", notes)
		}
	})

	t.Run("non members cannot log", func(t *testing.T) {
		w := newWorld(t, nil)
		w.activeProject(t, "prj-1", 10)
		_, err := w.timesheets().Log(ctx, outsider, NewTimesheet{ProjectID: "prj-1", Date: "2026-10-01", Hours: 1})
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("only design staff log hours", func(t *testing.T) {
		w := newWorld(t, nil)
		w.activeProject(t, "prj-1", 10)
		_, err := w.timesheets().Log(ctx, cooUser, NewTimesheet{ProjectID: "prj-1", Date: "2026-10-01", Hours: 1})
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("bad date", func(t *testing.T) {
		w := newWorld(t, nil)
		w.activeProject(t, "prj-1", 10)
		_, err := w.timesheets().Log(ctx, designer, NewTimesheet{ProjectID: "prj-1", Date: "01/10/2026", Hours: 1})
		var ve *ValidationError
		if !errors.As(err, &ve) || ve.Fields["date"] != "date" {
			t.Fatalf("expected date validation error, got %v", err)
		}
	})

	t.Run("project on hold", func(t *testing.T) {
		w := newWorld(t, nil)
		p := w.activeProject(t, "prj-1", 10)
		p.Status = entities.ProjectStatusOnHold
		if _, err := w.store.Projects().Update(ctx, p); err != nil {
			t.Fatalf("hold: %v", err)
		}
		_, err := w.timesheets().Log(ctx, designer, NewTimesheet{ProjectID: "prj-1", Date: "2026-10-01", Hours: 1})
		if !errors.Is(err, ErrProjectNotActive) {
			t.Fatalf("expected ErrProjectNotActive, got %v", err)
		}
	})

	t.Run("unknown project", func(t *testing.T) {
		w := newWorld(t, nil)
		_, err := w.timesheets().Log(ctx, designer, NewTimesheet{ProjectID: "ghost", Date: "2026-10-01", Hours: 1})
		if !errors.Is(err, ErrProjectNotFound) {
			t.Fatalf("expected ErrProjectNotFound, got %v", err)
		}
	})
}

func TestTimesheetUseCase_DeleteReaggregates(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t, nil)
	uc := w.timesheets()
	w.activeProject(t, "prj-1", 20)

	first, err := uc.Log(ctx, designer, NewTimesheet{ProjectID: "prj-1", Date: "2026-10-01", Hours: 4})
	if err != nil {
		t.Fatalf("log first: %v", err)
	}
	if _, err := uc.Log(ctx, lead, NewTimesheet{ProjectID: "prj-1", Date: "2026-10-02", Hours: 6.5}); err != nil {
		t.Fatalf("log second: %v", err)
	}
	if got := w.project(t, "prj-1").HoursLogged; got != 10.5 {
		t.Fatalf("expected 10.5 logged, got %v", got)
	}

	if err := uc.Delete(ctx, outsider, first.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for another designer, got %v", err)
	}
	if err := uc.Delete(ctx, designer, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := w.project(t, "prj-1").HoursLogged; got != 6.5 {
		t.Fatalf("expected 6.5 logged after delete, got %v", got)
	}
	if err := uc.Delete(ctx, designer, first.ID); !errors.Is(err, ErrTimesheetNotFound) {
		t.Fatalf("expected ErrTimesheetNotFound, got %v", err)
	}

	list, err := uc.List(ctx, cooUser, TimesheetQuery{ProjectID: "prj-1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].DesignerUID != lead.UID {
		t.Fatalf("unexpected remaining entries: %+v", list)
	}
	if sum := entities.SumHours(list); sum != w.project(t, "prj-1").HoursLogged {
		t.Fatalf("hoursLogged %v drifted from the entries %v", w.project(t, "prj-1").HoursLogged, sum)
	}
}

func TestTimesheetUseCase_ListScope(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t, nil)
	uc := w.timesheets()
	w.activeProject(t, "prj-1", 20)

	if _, err := uc.Log(ctx, designer, NewTimesheet{ProjectID: "prj-1", Date: "2026-10-01", Hours: 2}); err != nil {
		t.Fatalf("log: %v", err)
	}
	if _, err := uc.Log(ctx, lead, NewTimesheet{ProjectID: "prj-1", Date: "2026-10-03", Hours: 3}); err != nil {
		t.Fatalf("log: %v", err)
	}

	mine, err := uc.List(ctx, designer, TimesheetQuery{ProjectID: "prj-1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mine) != 1 || mine[0].DesignerUID != designer.UID {
		t.Fatalf("designers only see their own entries, got %+v", mine)
	}

	if _, err := uc.List(ctx, designer, TimesheetQuery{DesignerUID: lead.UID}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	all, _ := uc.List(ctx, lead, TimesheetQuery{ProjectID: "prj-1"})
	if len(all) != 2 || all[0].Date != "2026-10-03" {
		t.Fatalf("expected newest first, got %+v", all)
	}
}

func TestTimeRequestUseCase_Approve(t *testing.T) {
	ctx := context.Background()

	t.Run("approval adds hours and logs the held entry once", func(t *testing.T) {
		w := newWorld(t, nil)
		uc := w.timeRequests()
		w.activeProject(t, "prj-1", 10)
		if _, err := w.timesheets().Log(ctx, designer, NewTimesheet{ProjectID: "prj-1", Date: "2026-10-01", Hours: 8}); err != nil {
			t.Fatalf("log: %v", err)
		}

		tr, err := uc.Create(ctx, designer, NewTimeRequest{
			ProjectID:        "prj-1",
			Hours:            5,
			Reason:           "  Extra facade options  ",
			PendingTimesheet: &entities.TimesheetDraft{Date: "2026-10-02", Hours: 5},
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if tr.Status != entities.TimeRequestPending || tr.Reason != "Extra facade options" || tr.RequesterName != designer.Name {
			t.Fatalf("unexpected request: %+v", tr)
		}

		if _, err := uc.Apply(ctx, lead, tr.ID, entities.TimeRequestApprove, nil); !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected leads to be unable to approve, got %v", err)
		}

		approved, err := uc.Apply(ctx, director, tr.ID, entities.TimeRequestApprove, raw(`{"notes":"ok"}`))
		if err != nil {
			t.Fatalf("approve: %v", err)
		}
		if approved.Status != entities.TimeRequestApproved || approved.ReviewerUID != director.UID || approved.ReviewedAt == nil {
			t.Fatalf("unexpected review: %+v", approved)
		}

		p := w.project(t, "prj-1")
		if p.AdditionalHours != 5 || p.HoursLogged != 13 || p.TotalAllocatedHours != 15 {
			t.Fatalf("unexpected project counters: additional=%v logged=%v total=%v", p.AdditionalHours, p.HoursLogged, p.TotalAllocatedHours)
		}
		entries, _ := w.store.Timesheets().ListByProject(ctx, "prj-1")
		if len(entries) != 2 || entities.SumHours(entries) != 13 {
			t.Fatalf("held entry not logged: %+v", entries)
		}

		if _, err := uc.Apply(ctx, director, tr.ID, entities.TimeRequestApprove, nil); !errors.Is(err, ErrTimeRequestReviewed) {
			t.Fatalf("expected ErrTimeRequestReviewed on retry, got %v", err)
		}
		if again := w.project(t, "prj-1"); again.AdditionalHours != 5 || again.HoursLogged != 13 {
			t.Fatalf("retry must not count twice: %+v", again)
		}
	})

	t.Run("held entry that still does not fit", func(t *testing.T) {
		w := newWorld(t, nil)
		uc := w.timeRequests()
		w.activeProject(t, "prj-1", 10)
		if _, err := w.timesheets().Log(ctx, designer, NewTimesheet{ProjectID: "prj-1", Date: "2026-10-01", Hours: 8}); err != nil {
			t.Fatalf("log: %v", err)
		}
		tr, err := uc.Create(ctx, designer, NewTimeRequest{
			ProjectID:        "prj-1",
			Hours:            1,
			Reason:           "a little more",
			PendingTimesheet: &entities.TimesheetDraft{Date: "2026-10-02", Hours: 5},
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		_, err = uc.Apply(ctx, cooUser, tr.ID, entities.TimeRequestApprove, nil)
		if !errors.Is(err, ErrExceedsAllocation) {
			t.Fatalf("expected ErrExceedsAllocation, got %v", err)
		}
		stored, _ := w.store.TimeRequests().GetByID(ctx, tr.ID)
		if stored.Status != entities.TimeRequestPending {
			t.Fatalf("request must stay pending, got %s", stored.Status)
		}
		if p := w.project(t, "prj-1"); p.AdditionalHours != 0 {
			t.Fatalf("hours must not be granted, got %v", p.AdditionalHours)
		}
	})

	t.Run("stale approval conflicts", func(t *testing.T) {
		w := newWorld(t, nil)
		w.activeProject(t, "prj-1", 10)
		tr, err := w.timeRequests().Create(ctx, designer, NewTimeRequest{ProjectID: "prj-1", Hours: 2, Reason: "more"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		stale := tr
		stale.Status = entities.TimeRequestApproved
		if _, err := w.store.Ledger().ApproveTimeRequest(ctx, w.project(t, "prj-1"), stale, nil, 0); err != nil {
			t.Fatalf("first approval: %v", err)
		}
		if _, err := w.store.Ledger().ApproveTimeRequest(ctx, w.project(t, "prj-1"), stale, nil, 0); !errors.Is(err, interfaces.ErrConflict) {
			t.Fatalf("expected ErrConflict for the replayed write, got %v", err)
		}
		if p := w.project(t, "prj-1"); p.AdditionalHours != 2 {
			t.Fatalf("expected hours granted once, got %v", p.AdditionalHours)
		}
	})
}

func TestTimeRequestUseCase_InfoLoop(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t, nil)
	uc := w.timeRequests()
	w.activeProject(t, "prj-1", 10)

	if _, err := uc.Create(ctx, outsider, NewTimeRequest{ProjectID: "prj-1", Hours: 2, Reason: "more"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for a non-member, got %v", err)
	}
	tr, err := uc.Create(ctx, designer, NewTimeRequest{ProjectID: "prj-1", Hours: 2, Reason: "more"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	cooNotes, _ := w.store.Notifications().ListByRole(ctx, entities.RoleCOO)
	if len(cooNotes) != 1 || cooNotes[0].Priority != entities.PriorityHigh {
		t.Fatalf("expected a high priority coo notice, got %+v", cooNotes)
	}

	if _, err := uc.Apply(ctx, otherLead, tr.ID, entities.TimeRequestRequestInfo, raw(`{"notes":"why?"}`)); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected another lead to be refused, got %v", err)
	}
	if _, err := uc.Apply(ctx, lead, tr.ID, entities.TimeRequestRequestInfo, raw(`{}`)); !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("expected notes to be required, got %v", err)
	}
	asked, err := uc.Apply(ctx, lead, tr.ID, entities.TimeRequestRequestInfo, raw(`{"notes":"which drawings?"}`))
	if err != nil || asked.Status != entities.TimeRequestInfoRequested {
		t.Fatalf("request info: %+v %v", asked, err)
	}

	if _, err := uc.Apply(ctx, outsider, tr.ID, entities.TimeRequestProvideInfo, raw(`{"additionalInfo":"x"}`)); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected only the requester to answer, got %v", err)
	}
	answered, err := uc.Apply(ctx, designer, tr.ID, entities.TimeRequestProvideInfo, raw(`{"additionalInfo":"A-101 to A-104"}`))
	if err != nil || answered.Status != entities.TimeRequestPending || answered.AdditionalInfo != "A-101 to A-104" {
		t.Fatalf("provide info: %+v %v", answered, err)
	}

	rejected, err := uc.Apply(ctx, cooUser, tr.ID, entities.TimeRequestReject, raw(`{"notes":"out of scope"}`))
	if err != nil || rejected.Status != entities.TimeRequestRejected {
		t.Fatalf("reject: %+v %v", rejected, err)
	}
	if _, err := uc.Apply(ctx, director, tr.ID, entities.TimeRequestApprove, nil); !errors.Is(err, ErrTimeRequestReviewed) {
		t.Fatalf("expected ErrTimeRequestReviewed, got %v", err)
	}

	if _, err := uc.Get(ctx, outsider, tr.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected designers to be limited to their own requests, got %v", err)
	}
	list, _ := uc.List(ctx, outsider, interfaces.TimeRequestFilter{})
	if len(list) != 0 {
		t.Fatalf("outsider should list nothing, got %d", len(list))
	}
}
