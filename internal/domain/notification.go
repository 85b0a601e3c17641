package domain

import "time"

// MatchNotificationEvent is produced exactly once per participant when a
// mutual match commits. The core never mutates or replays it; delivery is
// the collaborator's concern.
type MatchNotificationEvent struct {
	Recipient   string     `json:"recipient"`
	Counterpart string     `json:"counterpart"`
	MatchID     string     `json:"match_id"`
	Kind        SignalKind `json:"kind"`
}

// Notification is the durable inbox record backing a MatchNotificationEvent.
type Notification struct {
	NotificationID string    `json:"id" dynamodbav:"notification_id"`
	UserID         string    `json:"user_id" dynamodbav:"user_id"`
	Counterpart    string    `json:"counterpart" dynamodbav:"counterpart"`
	MatchID        string    `json:"match_id" dynamodbav:"match_id"`
	Message        string    `json:"message" dynamodbav:"message"`
	Readed         int       `json:"readed" dynamodbav:"readed"` // legacy field name preserved
	CreatedAt      time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt      time.Time `json:"updated" dynamodbav:"updated_at"`
}
