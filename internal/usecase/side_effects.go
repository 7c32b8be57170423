package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase/interfaces"

	"github.com/google/uuid"
)

// Effects collects what a successful operation wants recorded and announced.
type Effects struct {
	Activity *entities.Activity
	Notices  []entities.Notice
	Emails   []entities.EmailEvent
}

// Log sets the audit entry for the operation. One activity is kept per operation, so a later
// call replaces an earlier one.
func (fx *Effects) Log(kind, details string, related map[string]string) {
	fx.Activity = &entities.Activity{Type: kind, Details: details, RelatedIDs: related}
}

func (fx *Effects) NotifyRole(role entities.Role, kind, message string, priority entities.NotificationPriority, related map[string]string) {
	fx.Notices = append(fx.Notices, entities.Notice{Role: role, Type: kind, Message: message, Priority: priority, RelatedIDs: related})
}

func (fx *Effects) NotifyUser(uid, kind, message string, priority entities.NotificationPriority, related map[string]string) {
	if strings.TrimSpace(uid) == "" {
		return
	}
	fx.Notices = append(fx.Notices, entities.Notice{UID: uid, Type: kind, Message: message, Priority: priority, RelatedIDs: related})
}

func (fx *Effects) Email(ev entities.EmailEvent) {
	fx.Emails = append(fx.Emails, ev)
}

// ISideEffects records activities and dispatches notifications and emails. Dispatch never fails
// the caller; undelivered effects stay on the outbox for replay.
type ISideEffects interface {
	Dispatch(ctx context.Context, actor entities.User, fx Effects)
	Replay(ctx context.Context, limit int) (ReplayResult, error)
}

type ReplayResult struct {
	Attempted int `json:"attempted"`
	Delivered int `json:"delivered"`
	Failed    int `json:"failed"`
}

var ErrMailerNotConfigured = errors.New("mailer not configured")

type SideEffectDispatcher struct {
	activities    interfaces.IActivityRepository
	notifications interfaces.INotificationRepository
	outbox        interfaces.IOutboxRepository
	users         interfaces.IUserRepository
	mailer        interfaces.IMailer
}

var _ ISideEffects = (*SideEffectDispatcher)(nil)

func NewSideEffectDispatcher(
	activities interfaces.IActivityRepository,
	notifications interfaces.INotificationRepository,
	outbox interfaces.IOutboxRepository,
	users interfaces.IUserRepository,
	mailer interfaces.IMailer,
) *SideEffectDispatcher {
	return &SideEffectDispatcher{
		activities:    activities,
		notifications: notifications,
		outbox:        outbox,
		users:         users,
		mailer:        mailer,
	}
}

func (d *SideEffectDispatcher) Dispatch(ctx context.Context, actor entities.User, fx Effects) {
	now := time.Now().UTC()

	if fx.Activity != nil {
		a := *fx.Activity
		a.ID = uuid.NewString()
		a.ActorUID = actor.UID
		a.ActorName = actor.Name
		a.ActorRole = actor.Role
		a.Timestamp = now
		if err := d.activities.Append(ctx, a); err != nil {
			log.Printf("[effects][activity] append failed type=%s err=%v", a.Type, err)
		}
	}

	for i := range fx.Notices {
		n := fx.Notices[i]
		if n.Priority == "" {
			n.Priority = entities.PriorityNormal
		}
		d.enqueue(ctx, entities.OutboxEvent{Kind: entities.OutboxNotification, Notice: &n}, now)
	}
	for i := range fx.Emails {
		ev := fx.Emails[i]
		d.enqueue(ctx, entities.OutboxEvent{Kind: entities.OutboxEmail, Email: &ev}, now)
	}
}

func (d *SideEffectDispatcher) enqueue(ctx context.Context, ev entities.OutboxEvent, now time.Time) {
	ev.ID = uuid.NewString()
	ev.Status = entities.OutboxPending
	ev.CreatedAt = now
	ev.UpdatedAt = now

	tracked := true
	if _, err := d.outbox.Create(ctx, ev); err != nil {
		tracked = false
		log.Printf("[effects][outbox] enqueue failed id=%s kind=%s err=%v", ev.ID, ev.Kind, err)
	}
	d.attempt(ctx, ev, tracked)
}

// Replay retries pending and failed outbox events, oldest first.
func (d *SideEffectDispatcher) Replay(ctx context.Context, limit int) (ReplayResult, error) {
	if limit <= 0 {
		limit = 100
	}
	var res ReplayResult
	for _, status := range []entities.OutboxStatus{entities.OutboxFailed, entities.OutboxPending} {
		events, err := d.outbox.ListByStatus(ctx, status, limit-res.Attempted)
		if err != nil {
			return res, err
		}
		for _, ev := range events {
			res.Attempted++
			if d.attempt(ctx, ev, true) {
				res.Delivered++
			} else {
				res.Failed++
			}
		}
		if res.Attempted >= limit {
			break
		}
	}
	log.Printf("[effects][outbox] replay attempted=%d delivered=%d failed=%d", res.Attempted, res.Delivered, res.Failed)
	return res, nil
}

func (d *SideEffectDispatcher) attempt(ctx context.Context, ev entities.OutboxEvent, tracked bool) bool {
	var err error
	switch ev.Kind {
	case entities.OutboxNotification:
		err = d.deliverNotice(ctx, ev)
	case entities.OutboxEmail:
		err = d.deliverEmail(ctx, ev)
	default:
		err = errors.New("unknown outbox kind")
	}

	ev.Attempts++
	ev.UpdatedAt = time.Now().UTC()
	if err != nil {
		ev.Status = entities.OutboxFailed
		ev.LastError = err.Error()
		log.Printf("[effects][outbox] delivery failed id=%s kind=%s attempts=%d err=%v", ev.ID, ev.Kind, ev.Attempts, err)
	} else {
		ev.Status = entities.OutboxDelivered
		ev.LastError = ""
	}
	if tracked {
		if serr := d.outbox.Save(ctx, ev); serr != nil {
			log.Printf("[effects][outbox] save failed id=%s err=%v", ev.ID, serr)
		}
	}
	return err == nil
}

// deliverNotice writes the notification under the outbox event id, so a replay of an event whose
// write landed but whose status update did not is a no-op.
func (d *SideEffectDispatcher) deliverNotice(ctx context.Context, ev entities.OutboxEvent) error {
	if ev.Notice == nil {
		return errors.New("notification event without notice")
	}
	n := entities.Notification{
		ID:            ev.ID,
		RecipientUID:  ev.Notice.UID,
		RecipientRole: ev.Notice.Role,
		Type:          ev.Notice.Type,
		Message:       ev.Notice.Message,
		Priority:      ev.Notice.Priority,
		RelatedIDs:    ev.Notice.RelatedIDs,
		CreatedAt:     ev.CreatedAt,
	}
	if _, err := d.notifications.Create(ctx, n); err != nil && !errors.Is(err, interfaces.ErrConflict) {
		return err
	}
	return nil
}

func (d *SideEffectDispatcher) deliverEmail(ctx context.Context, ev entities.OutboxEvent) error {
	if ev.Email == nil {
		return errors.New("email event without payload")
	}
	if d.mailer == nil {
		return ErrMailerNotConfigured
	}

	to, err := d.resolveRecipients(ctx, *ev.Email)
	if err != nil {
		return err
	}
	if len(to) == 0 {
		log.Printf("[effects][email] no recipients event=%s id=%s", ev.Email.Event, ev.ID)
		return nil
	}

	messageID, err := d.mailer.Send(ctx, ev.Email.Event, to, ev.Email.Data)
	if err != nil {
		return err
	}
	log.Printf("[effects][email] sent event=%s id=%s recipients=%d message_id=%s", ev.Email.Event, ev.ID, len(to), messageID)
	return nil
}

func (d *SideEffectDispatcher) resolveRecipients(ctx context.Context, ev entities.EmailEvent) ([]interfaces.Recipient, error) {
	seen := map[string]bool{}
	var out []interfaces.Recipient
	add := func(email, name string) {
		key := strings.ToLower(strings.TrimSpace(email))
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, interfaces.Recipient{Email: strings.TrimSpace(email), Name: name})
	}

	for _, role := range ev.ToRoles {
		users, err := d.users.ListByRole(ctx, role)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			if u.Active() {
				add(u.Email, u.Name)
			}
		}
	}
	for _, uid := range ev.ToUIDs {
		u, err := d.users.GetByID(ctx, uid)
		if err != nil {
			return nil, err
		}
		if u.UID != "" && u.Active() {
			add(u.Email, u.Name)
		}
	}
	for _, addr := range ev.ToAddress {
		add(addr, "")
	}
	return out, nil
}
