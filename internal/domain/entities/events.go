package entities

import "time"

type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityNormal NotificationPriority = "normal"
	PriorityHigh   NotificationPriority = "high"
)

// Notification is addressed either to one user (RecipientUID) or to every holder of a role
// (RecipientRole). Role notifications track their readers in ReadBy and the holders who
// dismissed them in DismissedBy.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI recipient_uid-index: recipient_uid
//   - GSI recipient_role-index: recipient_role
type Notification struct {
	ID            string               `json:"id" dynamodbav:"id"`
	RecipientUID  string               `json:"recipientUid,omitempty" dynamodbav:"recipient_uid,omitempty"`
	RecipientRole Role                 `json:"recipientRole,omitempty" dynamodbav:"recipient_role,omitempty"`
	Type          string               `json:"type" dynamodbav:"type"`
	Message       string               `json:"message" dynamodbav:"message"`
	Priority      NotificationPriority `json:"priority" dynamodbav:"priority"`
	RelatedIDs    map[string]string    `json:"relatedIds,omitempty" dynamodbav:"related_ids,omitempty"`
	IsRead        bool                 `json:"isRead" dynamodbav:"is_read"`
	ReadBy        []string             `json:"readBy,omitempty" dynamodbav:"read_by,stringset,omitempty"`
	DismissedBy   []string             `json:"dismissedBy,omitempty" dynamodbav:"dismissed_by,stringset,omitempty"`
	CreatedAt     time.Time            `json:"createdAt" dynamodbav:"created_at"`
}

// ReadFor reports the read state of the notification as seen by uid.
func (n Notification) ReadFor(uid string) bool {
	if n.RecipientUID != "" {
		return n.IsRead
	}
	for _, r := range n.ReadBy {
		if r == uid {
			return true
		}
	}
	return false
}

// DismissedFor reports whether uid dismissed a role notification.
func (n Notification) DismissedFor(uid string) bool {
	if n.RecipientUID != "" {
		return false
	}
	for _, d := range n.DismissedBy {
		if d == uid {
			return true
		}
	}
	return false
}

// Notice describes a notification to fan out. Exactly one of UID or Role is set.
type Notice struct {
	UID        string               `json:"uid,omitempty" dynamodbav:"uid,omitempty"`
	Role       Role                 `json:"role,omitempty" dynamodbav:"role,omitempty"`
	Type       string               `json:"type" dynamodbav:"type"`
	Message    string               `json:"message" dynamodbav:"message"`
	Priority   NotificationPriority `json:"priority,omitempty" dynamodbav:"priority,omitempty"`
	RelatedIDs map[string]string    `json:"relatedIds,omitempty" dynamodbav:"related_ids,omitempty"`
}

// EmailEvent is a named email trigger. Recipients are resolved at dispatch time from the
// listed roles and uids, plus any literal addresses.
type EmailEvent struct {
	Event     string            `json:"event" dynamodbav:"event"`
	ToRoles   []Role            `json:"toRoles,omitempty" dynamodbav:"to_roles,omitempty"`
	ToUIDs    []string          `json:"toUids,omitempty" dynamodbav:"to_uids,omitempty"`
	ToAddress []string          `json:"toAddress,omitempty" dynamodbav:"to_address,omitempty"`
	Data      map[string]string `json:"data" dynamodbav:"data"`
}

// Activity is an immutable audit entry.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI kind-index: kind + timestamp (kind is always "activity", giving a time-ordered feed)
type Activity struct {
	ID         string            `json:"id" dynamodbav:"id"`
	Kind       string            `json:"-" dynamodbav:"kind"`
	Type       string            `json:"type" dynamodbav:"type"`
	Details    string            `json:"details" dynamodbav:"details"`
	ActorUID   string            `json:"actorUid" dynamodbav:"actor_uid"`
	ActorName  string            `json:"actorName" dynamodbav:"actor_name"`
	ActorRole  Role              `json:"actorRole" dynamodbav:"actor_role"`
	RelatedIDs map[string]string `json:"relatedIds,omitempty" dynamodbav:"related_ids,omitempty"`
	Timestamp  time.Time         `json:"timestamp" dynamodbav:"timestamp"`
}

type OutboxKind string

const (
	OutboxNotification OutboxKind = "notification"
	OutboxEmail        OutboxKind = "email"
)

type OutboxStatus string

const (
	OutboxPending   OutboxStatus = "pending"
	OutboxDelivered OutboxStatus = "delivered"
	OutboxFailed    OutboxStatus = "failed"
)

// OutboxEvent tracks one side effect (notification write or email send) so that failures stay
// visible and can be replayed.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI status-index: status
type OutboxEvent struct {
	ID        string       `json:"id" dynamodbav:"id"`
	Kind      OutboxKind   `json:"kind" dynamodbav:"kind"`
	Notice    *Notice      `json:"notice,omitempty" dynamodbav:"notice,omitempty"`
	Email     *EmailEvent  `json:"email,omitempty" dynamodbav:"email,omitempty"`
	Status    OutboxStatus `json:"status" dynamodbav:"status"`
	Attempts  int          `json:"attempts" dynamodbav:"attempts"`
	LastError string       `json:"lastError,omitempty" dynamodbav:"last_error,omitempty"`
	CreatedAt time.Time    `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt time.Time    `json:"updatedAt" dynamodbav:"updated_at"`
}
