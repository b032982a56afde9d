package model

import "time"

// RoomView is the API view of a room (not GORM entity).
type RoomView struct {
	ID                   string     `json:"id"`
	Name                 string     `json:"name"`
	Description          *string    `json:"description,omitempty"`
	CreatedBy            string     `json:"created_by"`
	Status               RoomStatus `json:"status"`
	ScheduledFor         *time.Time `json:"scheduled_for,omitempty"`
	StartedAt            *time.Time `json:"started_at,omitempty"`
	EndedAt              *time.Time `json:"ended_at,omitempty"`
	IsPrivate            bool       `json:"is_private"`
	IsRecorded           bool       `json:"is_recorded"`
	ParticipantCount     int        `json:"participant_count"`
	PeakParticipantCount int        `json:"peak_participant_count"`
	CreatedAt            time.Time  `json:"created_at"`
}

// ParticipantView is the API view of a room membership.
type ParticipantView struct {
	ID            string     `json:"id"`
	RoomID        string     `json:"room_id"`
	UserID        string     `json:"user_id"`
	Role          Role       `json:"role"`
	JoinedAt      time.Time  `json:"joined_at"`
	LeftAt        *time.Time `json:"left_at,omitempty"`
	IsMuted       bool       `json:"is_muted"`
	HasRaisedHand bool       `json:"has_raised_hand"`
}

// InviteView is the API view of a direct room invitation.
type InviteView struct {
	ID        string       `json:"id"`
	RoomID    string       `json:"room_id"`
	InvitedBy string       `json:"invited_by"`
	UserID    string       `json:"user_id"`
	Status    InviteStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

// EmailInviteView is the API view of a tokenized email invitation.
// Token is included: the caller created the invite and owns the link.
type EmailInviteView struct {
	ID        string            `json:"id"`
	RoomID    string            `json:"room_id"`
	Email     string            `json:"email"`
	Token     string            `json:"token"`
	Status    EmailInviteStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// SignalView is the API view of a mailbox signal.
type SignalView struct {
	ID         string     `json:"id"`
	RoomID     string     `json:"room_id"`
	SenderID   string     `json:"sender_id"`
	ReceiverID string     `json:"receiver_id"`
	Type       SignalType `json:"type"`
	Payload    string     `json:"payload"`
	CreatedAt  time.Time  `json:"created_at"`
}
