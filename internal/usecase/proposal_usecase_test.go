package usecase

import (
	"context"
	"errors"
	"testing"

	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase/interfaces"
)

func newProposal(t *testing.T, uc *ProposalUseCase, by entities.User, name string) entities.Proposal {
	t.Helper()
	p, err := uc.Create(context.Background(), by, NewProposal{ProjectName: name, ClientCompany: "Harbour Ltd", ClientEmail: "client@harbour.test"})
	if err != nil {
		t.Fatalf("create proposal: %v", err)
	}
	return p
}

func mustApply(t *testing.T, uc *ProposalUseCase, actor entities.User, id string, action entities.ProposalAction, data string) entities.Proposal {
	t.Helper()
	p, err := uc.Apply(context.Background(), actor, id, action, raw(data))
	if err != nil {
		t.Fatalf("%s by %s: %v", action, actor.Role, err)
	}
	return p
}

// wonProposal drives a fresh proposal through the whole commercial flow.
func wonProposal(t *testing.T, uc *ProposalUseCase, number string) entities.Proposal {
	t.Helper()
	p := newProposal(t, uc, bdm, "Harbour Tower")
	mustApply(t, uc, estimator, p.ID, entities.ProposalAddEstimation, `{"manhours":40}`)
	mustApply(t, uc, cooUser, p.ID, entities.ProposalAddPricing, `{"quoteValue":12000,"currency":"usd","projectNumber":"`+number+`"}`)
	mustApply(t, uc, director, p.ID, entities.ProposalApproveProjectNumber, ``)
	mustApply(t, uc, director, p.ID, entities.ProposalApprove, `{"notes":"go"}`)
	mustApply(t, uc, bdm, p.ID, entities.ProposalSubmitToClient, ``)
	return mustApply(t, uc, bdm, p.ID, entities.ProposalMarkWon, `{"notes":"signed"}`)
}

func TestProposalUseCase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("designers cannot create proposals", func(t *testing.T) {
		w := newWorld(t, nil)
		_, err := w.proposals().Create(ctx, designer, NewProposal{ProjectName: "x", ClientCompany: "y"})
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("missing client company", func(t *testing.T) {
		w := newWorld(t, nil)
		_, err := w.proposals().Create(ctx, bdm, NewProposal{ProjectName: "Harbour", ClientCompany: "   "})
		var ve *ValidationError
		if !errors.As(err, &ve) || ve.Fields["clientCompany"] == "" {
			t.Fatalf("expected clientCompany validation error, got %v", err)
		}
	})

	t.Run("starts pending estimation and fans out", func(t *testing.T) {
		w := newWorld(t, nil)
		p := newProposal(t, w.proposals(), bdm, "  Harbour Tower  ")

		if p.ProjectName != "Harbour Tower" || p.Status != entities.ProposalStatusPendingEstimation || p.CreatedByUID != bdm.UID {
			t.Fatalf("unexpected proposal: %+v", p)
		}
		if len(p.ChangeLog) != 0 {
			t.Fatalf("expected empty change log, got %d entries", len(p.ChangeLog))
		}

		acts, _ := w.store.Activities().ListRecent(ctx, 10)
		if len(acts) != 1 || acts[0].Type != "proposal_created" || acts[0].ActorUID != bdm.UID {
			t.Fatalf("unexpected activities: %+v", acts)
		}
		notes, _ := w.store.Notifications().ListByRole(ctx, entities.RoleEstimator)
		if len(notes) != 1 || notes[0].RelatedIDs["proposalId"] != p.ID {
			t.Fatalf("expected one estimator notification, got %+v", notes)
		}
		failed, _ := w.store.Outbox().ListByStatus(ctx, entities.OutboxFailed, 10)
		if len(failed) != 1 || failed[0].Kind != entities.OutboxEmail || failed[0].LastError != ErrMailerNotConfigured.Error() {
			t.Fatalf("expected the email to stay failed on the outbox, got %+v", failed)
		}
	})
}

func TestProposalUseCase_FullFlow(t *testing.T) {
	w := newWorld(t, nil)
	uc := w.proposals()

	p := wonProposal(t, uc, "P-100")

	if p.Status != entities.ProposalStatusWon {
		t.Fatalf("expected won, got %s", p.Status)
	}
	if p.Pricing == nil || p.Pricing.Currency != "USD" || p.Pricing.ProjectNumberStatus != entities.ProjectNumberApproved {
		t.Fatalf("unexpected pricing: %+v", p.Pricing)
	}
	if p.DirectorApproval == nil || !p.DirectorApproval.Approved || p.DirectorApproval.By != director.UID {
		t.Fatalf("unexpected approval: %+v", p.DirectorApproval)
	}

	wantActions := []entities.ProposalAction{
		entities.ProposalAddEstimation,
		entities.ProposalAddPricing,
		entities.ProposalApproveProjectNumber,
		entities.ProposalApprove,
		entities.ProposalSubmitToClient,
		entities.ProposalMarkWon,
	}
	if len(p.ChangeLog) != len(wantActions) {
		t.Fatalf("expected %d change log entries, got %d", len(wantActions), len(p.ChangeLog))
	}
	prev := entities.ProposalStatusPendingEstimation
	for i, entry := range p.ChangeLog {
		if entry.Action != wantActions[i] {
			t.Fatalf("entry %d: expected %s, got %s", i, wantActions[i], entry.Action)
		}
		if entry.FromStatus != prev {
			t.Fatalf("entry %d: expected from %s, got %s", i, prev, entry.FromStatus)
		}
		if entry.ActorUID == "" || entry.At.IsZero() {
			t.Fatalf("entry %d: missing actor or timestamp: %+v", i, entry)
		}
		prev = entry.ToStatus
	}
	if prev != entities.ProposalStatusWon {
		t.Fatalf("last entry should end in won, got %s", prev)
	}
}

func TestProposalUseCase_Apply_Rules(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		actor  entities.User
		action entities.ProposalAction
		data   string
		want   error
	}{
		{name: "estimator cannot price", actor: estimator, action: entities.ProposalAddPricing, data: `{"quoteValue":1,"currency":"USD"}`, want: ErrForbidden},
		{name: "bdm cannot approve", actor: bdm, action: entities.ProposalApprove, want: ErrForbidden},
		{name: "coo cannot approve numbers", actor: cooUser, action: entities.ProposalApproveProjectNumber, want: ErrForbidden},
		{name: "designer cannot add links", actor: designer, action: entities.ProposalAddLinks, data: `{"links":[{"label":"brief","url":"https://x.test"}]}`, want: ErrForbidden},
		{name: "approval needs pricing first", actor: director, action: entities.ProposalApprove, want: ErrInvalidState},
		{name: "pricing needs estimation first", actor: cooUser, action: entities.ProposalAddPricing, data: `{"quoteValue":1,"currency":"USD"}`, want: ErrInvalidState},
		{name: "zero manhours", actor: estimator, action: entities.ProposalAddEstimation, data: `{"manhours":0}`, want: ErrInvalidPayload},
		{name: "malformed data", actor: estimator, action: entities.ProposalAddEstimation, data: `{"manhours":`, want: ErrInvalidPayload},
		{name: "no number to approve", actor: director, action: entities.ProposalApproveProjectNumber, want: ErrProjectNumberMissing},
		{name: "details without fields", actor: bdm, action: entities.ProposalUpdateDetails, data: `{}`, want: ErrInvalidPayload},
		{name: "unknown action", actor: director, action: "archive", want: ErrUnknownAction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorld(t, nil)
			uc := w.proposals()
			p := newProposal(t, uc, bdm, "Harbour Tower")

			_, err := uc.Apply(ctx, tt.actor, p.ID, tt.action, raw(tt.data))
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}

			stored, _ := w.store.Proposals().GetByID(ctx, p.ID)
			if len(stored.ChangeLog) != 0 || stored.Status != entities.ProposalStatusPendingEstimation {
				t.Fatalf("rejected action must not write: %+v", stored)
			}
		})
	}
}

func TestProposalUseCase_MarkLostFromAnyStatus(t *testing.T) {
	w := newWorld(t, nil)
	uc := w.proposals()
	p := newProposal(t, uc, bdm, "Harbour Tower")

	lost := mustApply(t, uc, bdm, p.ID, entities.ProposalMarkLost, `{"reason":"budget"}`)
	if lost.Status != entities.ProposalStatusLost || len(lost.ChangeLog) != 1 {
		t.Fatalf("unexpected proposal: %+v", lost)
	}
	if entry := lost.ChangeLog[0]; entry.FromStatus != entities.ProposalStatusPendingEstimation || entry.Note != "budget" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestProposalUseCase_ProjectNumbers(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t, nil)
	uc := w.proposals()

	first := newProposal(t, uc, bdm, "First")
	second := newProposal(t, uc, bdm, "Second")
	for _, p := range []entities.Proposal{first, second} {
		mustApply(t, uc, estimator, p.ID, entities.ProposalAddEstimation, `{"manhours":10}`)
	}
	mustApply(t, uc, cooUser, first.ID, entities.ProposalAddPricing, `{"quoteValue":100,"currency":"USD","projectNumber":"P-7"}`)

	_, err := uc.Apply(ctx, cooUser, second.ID, entities.ProposalAddPricing, raw(`{"quoteValue":100,"currency":"USD","projectNumber":"P-7"}`))
	if !errors.Is(err, ErrProjectNumberTaken) {
		t.Fatalf("expected ErrProjectNumberTaken, got %v", err)
	}

	t.Run("re-pricing with the same number keeps it", func(t *testing.T) {
		p := mustApply(t, uc, cooUser, first.ID, entities.ProposalAddPricing, `{"quoteValue":150,"currency":"USD","projectNumber":"P-7"}`)
		if p.Pricing.QuoteValue != 150 || p.Pricing.ProjectNumber != "P-7" {
			t.Fatalf("unexpected pricing: %+v", p.Pricing)
		}
	})

	t.Run("rejected number is released", func(t *testing.T) {
		mustApply(t, uc, director, first.ID, entities.ProposalRejectProjectNumber, `{"notes":"clash"}`)
		_, err := uc.Apply(ctx, director, first.ID, entities.ProposalRejectProjectNumber, nil)
		if !errors.Is(err, ErrProjectNumberNotPending) {
			t.Fatalf("expected ErrProjectNumberNotPending, got %v", err)
		}
		p := mustApply(t, uc, cooUser, second.ID, entities.ProposalAddPricing, `{"quoteValue":100,"currency":"USD","projectNumber":"P-7"}`)
		if p.Pricing.ProjectNumberStatus != entities.ProjectNumberPending {
			t.Fatalf("expected pending number status, got %s", p.Pricing.ProjectNumberStatus)
		}
	})

	t.Run("deleting a proposal frees its number", func(t *testing.T) {
		if err := uc.Delete(ctx, bdm, second.ID); !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden for bdm delete, got %v", err)
		}
		if err := uc.Delete(ctx, director, second.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if err := w.store.ProjectNumbers().Reserve(ctx, "P-7", "someone-else"); err != nil {
			t.Fatalf("expected P-7 to be free, got %v", err)
		}
		if _, err := uc.Get(ctx, director, second.ID); !errors.Is(err, ErrProposalNotFound) {
			t.Fatalf("expected ErrProposalNotFound, got %v", err)
		}
	})
}

func TestProposalUseCase_BDMScope(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t, nil)
	uc := w.proposals()

	mine := newProposal(t, uc, bdm, "Mine")
	newProposal(t, uc, otherBDM, "Theirs")

	if _, err := uc.Get(ctx, otherBDM, mine.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := uc.Get(ctx, cooUser, mine.ID); err != nil {
		t.Fatalf("coo get: %v", err)
	}

	list, err := uc.List(ctx, bdm, interfaces.ProposalFilter{CreatedByUID: otherBDM.UID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != mine.ID {
		t.Fatalf("bdm should only see own proposals, got %+v", list)
	}

	all, _ := uc.List(ctx, director, interfaces.ProposalFilter{})
	if len(all) != 2 {
		t.Fatalf("director should see both proposals, got %d", len(all))
	}
}

func TestProposalUseCase_DetailsAndLinks(t *testing.T) {
	w := newWorld(t, nil)
	uc := w.proposals()
	p := newProposal(t, uc, bdm, "Harbour Tower")

	updated := mustApply(t, uc, bdm, p.ID, entities.ProposalUpdateDetails, `{"scopeOfWork":"Facade and lobby"}`)
	if updated.ScopeOfWork != "Facade and lobby" || updated.ProjectName != "Harbour Tower" {
		t.Fatalf("unexpected details: %+v", updated)
	}
	if updated.Status != entities.ProposalStatusPendingEstimation {
		t.Fatalf("details must not move status, got %s", updated.Status)
	}

	linked := mustApply(t, uc, estimator, p.ID, entities.ProposalAddLinks, `{"links":[{"label":"Drive","url":"https://drive.test/brief"}]}`)
	if len(linked.Links) != 1 || linked.Links[0].Label != "Drive" {
		t.Fatalf("unexpected links: %+v", linked.Links)
	}
	if len(linked.ChangeLog) != 2 {
		t.Fatalf("expected two change log entries, got %d", len(linked.ChangeLog))
	}
}
