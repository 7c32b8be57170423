package usecase

import (
	"context"
	"errors"
	"testing"

	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase/interfaces"
)

func TestProjectUseCase_CreateFromProposal(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t, nil)
	proposals := w.proposals()
	uc := w.projects()

	t.Run("proposal not won", func(t *testing.T) {
		p := newProposal(t, proposals, bdm, "Pending")
		_, err := uc.CreateFromProposal(ctx, cooUser, NewProjectFromProposal{ProposalID: p.ID})
		if !errors.Is(err, ErrProposalNotWon) {
			t.Fatalf("expected ErrProposalNotWon, got %v", err)
		}
	})

	t.Run("unknown proposal", func(t *testing.T) {
		_, err := uc.CreateFromProposal(ctx, cooUser, NewProjectFromProposal{ProposalID: "nope"})
		if !errors.Is(err, ErrProposalNotFound) {
			t.Fatalf("expected ErrProposalNotFound, got %v", err)
		}
	})

	t.Run("estimators cannot open projects", func(t *testing.T) {
		_, err := uc.CreateFromProposal(ctx, estimator, NewProjectFromProposal{ProposalID: "any"})
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	won := wonProposal(t, proposals, "P-200")
	project, err := uc.CreateFromProposal(ctx, bdm, NewProjectFromProposal{ProposalID: " " + won.ID + " "})
	if err != nil {
		t.Fatalf("create from proposal: %v", err)
	}
	if project.ID != won.ID || project.ProposalID != won.ID {
		t.Fatalf("project must reuse the proposal id, got %+v", project)
	}
	if project.QuoteValue != 12000 || project.Currency != "USD" || project.ProjectNumber != "P-200" || project.BDMUID != bdm.UID {
		t.Fatalf("pricing not carried over: %+v", project)
	}
	if project.Status != entities.ProjectStatusPendingAllocation || project.DesignStatus != entities.DesignStatusNotStarted {
		t.Fatalf("unexpected initial state: %s/%s", project.Status, project.DesignStatus)
	}

	if _, err := uc.CreateFromProposal(ctx, cooUser, NewProjectFromProposal{ProposalID: won.ID}); !errors.Is(err, ErrProjectAlreadyExists) {
		t.Fatalf("expected ErrProjectAlreadyExists, got %v", err)
	}

	notes, _ := w.store.Notifications().ListByRole(ctx, entities.RoleCOO)
	found := false
	for _, n := range notes {
		if n.Type == "project_pending_allocation" && n.RelatedIDs["projectId"] == project.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a pending allocation notice for the coo, got %+v", notes)
	}
}

func TestProjectUseCase_Lifecycle(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t, nil)
	uc := w.projects()
	won := wonProposal(t, w.proposals(), "P-300")
	if _, err := uc.CreateFromProposal(ctx, cooUser, NewProjectFromProposal{ProposalID: won.ID}); err != nil {
		t.Fatalf("create: %v", err)
	}
	id := won.ID

	apply := func(actor entities.User, action entities.ProjectAction, data string) (entities.Project, error) {
		return uc.Apply(ctx, actor, id, action, raw(data))
	}

	if _, err := apply(cooUser, entities.ProjectAllocateToDesignLead, `{"designLeadUid":"des-1","maxAllocatedHours":40,"allocationNotes":"x"}`); !errors.Is(err, ErrInvalidAssignee) {
		t.Fatalf("expected ErrInvalidAssignee for a designer as lead, got %v", err)
	}
	if _, err := apply(cooUser, entities.ProjectAllocateToDesignLead, `{"designLeadUid":"lead-1","maxAllocatedHours":40,"allocationNotes":"   "}`); !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload for blank notes, got %v", err)
	}

	p, err := apply(cooUser, entities.ProjectAllocateToDesignLead, `{"designLeadUid":"lead-1","maxAllocatedHours":40,"allocationNotes":"Phase 1"}`)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if p.Status != entities.ProjectStatusAllocated || p.DesignStatus != entities.DesignStatusAllocated || p.DesignLeadUID != lead.UID {
		t.Fatalf("unexpected allocation: %+v", p)
	}
	if p.TotalAllocatedHours != 40 || p.AllocatedAt == nil {
		t.Fatalf("expected total hours and timestamp, got %+v", p)
	}

	t.Run("another lead cannot assign", func(t *testing.T) {
		_, err := apply(otherLead, entities.ProjectAssignDesigners, `{"designers":[{"uid":"des-1","allocatedHours":10}]}`)
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("assignments cannot pass the budget", func(t *testing.T) {
		_, err := apply(lead, entities.ProjectAssignDesigners, `{"designers":[{"uid":"des-1","allocatedHours":30},{"uid":"des-2","allocatedHours":20}]}`)
		var ae *AllocationExceededError
		if !errors.As(err, &ae) || ae.ExceededBy != 10 {
			t.Fatalf("expected exceeded by 10, got %v", err)
		}
	})

	t.Run("a lead is not a designer", func(t *testing.T) {
		_, err := apply(lead, entities.ProjectAssignDesigners, `{"designers":[{"uid":"lead-2","allocatedHours":5}]}`)
		if !errors.Is(err, ErrInvalidAssignee) {
			t.Fatalf("expected ErrInvalidAssignee, got %v", err)
		}
	})

	p, err = apply(lead, entities.ProjectAssignDesigners, `{"designers":[{"uid":"des-1","allocatedHours":25},{"uid":"des-2","allocatedHours":15}]}`)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if p.Status != entities.ProjectStatusInProgress || p.DesignStatus != entities.DesignStatusDesignersAssigned || len(p.AssignedDesigners) != 2 {
		t.Fatalf("unexpected assignment: %+v", p)
	}

	p, err = apply(lead, entities.ProjectAssignDesigners, `{"designers":[{"uid":"des-2","allocatedHours":15}]}`)
	if err != nil {
		t.Fatalf("reassign: %v", err)
	}
	if len(p.AssignedDesigners) != 1 || p.HasDesigner(designer.UID) {
		t.Fatalf("assignment must replace the list, got %+v", p.AssignedDesigners)
	}

	if _, err := apply(lead, entities.ProjectUpdateDesignStatus, `{"designStatus":"completed"}`); !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("completed is reserved for mark_complete, got %v", err)
	}
	if p, err = apply(lead, entities.ProjectUpdateDesignStatus, `{"designStatus":"submitted"}`); err != nil || p.DesignStatus != entities.DesignStatusSubmitted {
		t.Fatalf("update design status: %+v %v", p, err)
	}

	if _, err := apply(lead, entities.ProjectPutOnHold, ``); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected only elevated roles to hold, got %v", err)
	}
	if p, err = apply(director, entities.ProjectPutOnHold, `{"notes":"client paused"}`); err != nil || p.Status != entities.ProjectStatusOnHold {
		t.Fatalf("hold: %+v %v", p, err)
	}
	if _, err := apply(lead, entities.ProjectUpdateDesignStatus, `{"designStatus":"in_progress"}`); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on hold, got %v", err)
	}
	if p, err = apply(cooUser, entities.ProjectResume, ``); err != nil || p.Status != entities.ProjectStatusInProgress || p.DesignStatus != entities.DesignStatusSubmitted {
		t.Fatalf("resume: %+v %v", p, err)
	}

	p, err = apply(lead, entities.ProjectMarkComplete, ``)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if p.Status != entities.ProjectStatusCompleted || p.DesignStatus != entities.DesignStatusCompleted || p.CompletedAt == nil {
		t.Fatalf("unexpected completion: %+v", p)
	}
	if !entities.ValidProjectState(p.Status, p.DesignStatus) {
		t.Fatalf("completed project in an illegal state: %s/%s", p.Status, p.DesignStatus)
	}

	accountsNotes, _ := w.store.Notifications().ListByRole(ctx, entities.RoleAccounts)
	if len(accountsNotes) == 0 {
		t.Fatalf("accounts should hear about completion")
	}
}

func TestProjectUseCase_Visibility(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t, nil)
	uc := w.projects()
	w.activeProject(t, "prj-1", 20)

	if _, err := uc.Get(ctx, outsider, "prj-1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for a non-member, got %v", err)
	}
	if _, err := uc.Get(ctx, designer, "prj-1"); err != nil {
		t.Fatalf("member get: %v", err)
	}

	list, err := uc.List(ctx, outsider, interfaces.ProjectFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("outsider should see no projects, got %d", len(list))
	}

	if err := uc.Delete(ctx, cooUser, "prj-1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected only directors to delete, got %v", err)
	}
	if err := uc.Delete(ctx, director, "prj-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := uc.Get(ctx, director, "prj-1"); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}
