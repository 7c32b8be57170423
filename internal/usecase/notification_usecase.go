package usecase

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"

	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase/interfaces"
)

var ErrNotificationNotFound = errors.New("notification not found")

const (
	DefaultNotificationLimit = 50
	MaxNotificationLimit     = 200
)

type NotificationAction string

const (
	NotificationMarkRead    NotificationAction = "mark_read"
	NotificationMarkAllRead NotificationAction = "mark_all_read"
)

// INotificationUseCase is the read side of the notification fan-out.
type INotificationUseCase interface {
	List(ctx context.Context, actor entities.User, limit int) ([]entities.Notification, error)
	UnreadCount(ctx context.Context, actor entities.User) (int, error)
	MarkRead(ctx context.Context, actor entities.User, id string) error
	MarkAllRead(ctx context.Context, actor entities.User) (int, error)
	Delete(ctx context.Context, actor entities.User, id string) error
}

type NotificationUseCase struct {
	notifications interfaces.INotificationRepository
}

var _ INotificationUseCase = (*NotificationUseCase)(nil)

func NewNotificationUseCase(notifications interfaces.INotificationRepository) *NotificationUseCase {
	return &NotificationUseCase{notifications: notifications}
}

// List merges the actor's own and role notifications, newest first. Read state of role
// notifications is resolved for the actor, and role notifications the actor dismissed are left out.
func (u *NotificationUseCase) List(ctx context.Context, actor entities.User, limit int) ([]entities.Notification, error) {
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}
	if limit > MaxNotificationLimit {
		limit = MaxNotificationLimit
	}
	merged, err := u.merged(ctx, actor)
	if err != nil {
		return nil, err
	}
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}

func (u *NotificationUseCase) UnreadCount(ctx context.Context, actor entities.User) (int, error) {
	merged, err := u.merged(ctx, actor)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, m := range merged {
		if !m.IsRead {
			n++
		}
	}
	return n, nil
}

func (u *NotificationUseCase) merged(ctx context.Context, actor entities.User) ([]entities.Notification, error) {
	own, err := u.notifications.ListByUID(ctx, actor.UID)
	if err != nil {
		return nil, err
	}
	byRole, err := u.notifications.ListByRole(ctx, actor.Role)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]entities.Notification, len(own)+len(byRole))
	for _, list := range [][]entities.Notification{own, byRole} {
		for _, n := range list {
			if n.DismissedFor(actor.UID) {
				continue
			}
			n.IsRead = n.ReadFor(actor.UID)
			n.ReadBy = nil
			n.DismissedBy = nil
			byID[n.ID] = n
		}
	}

	out := make([]entities.Notification, 0, len(byID))
	for _, n := range byID {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (u *NotificationUseCase) MarkRead(ctx context.Context, actor entities.User, id string) error {
	n, err := u.visible(ctx, actor, id)
	if err != nil {
		return err
	}
	if n.RecipientUID != "" {
		return u.notifications.MarkRead(ctx, n.ID)
	}
	return u.notifications.MarkReadBy(ctx, n.ID, actor.UID)
}

func (u *NotificationUseCase) MarkAllRead(ctx context.Context, actor entities.User) (int, error) {
	merged, err := u.merged(ctx, actor)
	if err != nil {
		return 0, err
	}
	marked := 0
	for _, n := range merged {
		if n.IsRead {
			continue
		}
		if n.RecipientUID != "" {
			err = u.notifications.MarkRead(ctx, n.ID)
		} else {
			err = u.notifications.MarkReadBy(ctx, n.ID, actor.UID)
		}
		if err != nil {
			return marked, err
		}
		marked++
	}
	log.Printf("[notification][usecase] mark-all-read uid=%s marked=%d", actor.UID, marked)
	return marked, nil
}

// Delete removes a personal notification. Role notifications are shared, so deleting one only
// dismisses it for the actor.
func (u *NotificationUseCase) Delete(ctx context.Context, actor entities.User, id string) error {
	n, err := u.visible(ctx, actor, id)
	if err != nil {
		return err
	}
	if n.RecipientUID != "" {
		return u.notifications.Delete(ctx, n.ID)
	}
	return u.notifications.MarkDismissedBy(ctx, n.ID, actor.UID)
}

func (u *NotificationUseCase) visible(ctx context.Context, actor entities.User, id string) (entities.Notification, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Notification{}, ErrInvalidID
	}
	n, err := u.notifications.GetByID(ctx, id)
	if err != nil {
		return entities.Notification{}, err
	}
	if n.ID == "" {
		return entities.Notification{}, ErrNotificationNotFound
	}
	if n.RecipientUID != "" && n.RecipientUID != actor.UID {
		return entities.Notification{}, ErrNotificationNotFound
	}
	if n.RecipientUID == "" && (n.RecipientRole != actor.Role || n.DismissedFor(actor.UID)) {
		return entities.Notification{}, ErrNotificationNotFound
	}
	return n, nil
}
