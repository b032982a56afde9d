package model

import "time"

// User — a platform identity resolved from the external auth token (GORM).
type User struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	ExternalID string    `gorm:"size:255;not null;uniqueIndex"`
	Name       string    `gorm:"size:255"`
	Email      string    `gorm:"size:255;index"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string { return "users" }

// Room — a live audio/video room (GORM).
type Room struct {
	ID                   string     `gorm:"type:uuid;primaryKey"`
	Name                 string     `gorm:"size:255;not null"`
	Description          *string    `gorm:"size:2000"`
	CreatedBy            string     `gorm:"type:uuid;not null;index"`
	Status               string     `gorm:"size:20;not null;default:scheduled"` // scheduled, live, ended
	ScheduledFor         *time.Time `gorm:"column:scheduled_for"`
	StartedAt            *time.Time `gorm:"column:started_at"`
	EndedAt              *time.Time `gorm:"column:ended_at"`
	IsPrivate            bool       `gorm:"not null;default:false"`
	IsRecorded           bool       `gorm:"not null;default:false"`
	ParticipantCount     int        `gorm:"not null;default:0"`
	PeakParticipantCount int        `gorm:"not null;default:0"`
	IsDeleted            bool       `gorm:"not null;default:false;index"`
	DeletedAt            *time.Time `gorm:"column:deleted_at"`
	CreatedAt            time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt            time.Time  `gorm:"autoUpdateTime"`
}

func (Room) TableName() string { return "rooms" }

// Participant — a user's membership in a room (GORM).
// LeftAt == nil means the participant is currently active.
type Participant struct {
	ID            string     `gorm:"type:uuid;primaryKey"`
	RoomID        string     `gorm:"type:uuid;not null;index:idx_participants_room_user"`
	UserID        string     `gorm:"type:uuid;not null;index:idx_participants_room_user"`
	Role          string     `gorm:"size:20;not null;default:listener"` // host, co-host, speaker, listener
	JoinedAt      time.Time  `gorm:"column:joined_at;not null"`
	LeftAt        *time.Time `gorm:"column:left_at"`
	IsMuted       bool       `gorm:"not null;default:true"`
	HasRaisedHand bool       `gorm:"column:has_raised_hand;not null;default:false"`
}

func (Participant) TableName() string { return "participants" }

// Recording — recording bookkeeping for a room (GORM).
// At most one row per room may be in status "recording" at a time.
type Recording struct {
	ID        string     `gorm:"type:uuid;primaryKey"`
	RoomID    string     `gorm:"type:uuid;not null;index"`
	Status    string     `gorm:"size:20;not null;default:recording"` // recording, processing, ready, failed
	StartedAt time.Time  `gorm:"column:started_at;not null"`
	EndedAt   *time.Time `gorm:"column:ended_at"`
	Duration  *int64     `gorm:"column:duration"` // seconds
	OutputURL *string    `gorm:"size:2000"`
}

func (Recording) TableName() string { return "recordings" }

// RoomInvite — a direct room-to-user invitation (GORM).
// At most one row per (room, invited user); re-invites after decline reopen it.
type RoomInvite struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	RoomID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_room_invites_room_user"`
	InvitedBy string    `gorm:"type:uuid;not null"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_room_invites_room_user"`
	Status    string    `gorm:"size:20;not null;default:pending"` // pending, accepted, declined
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (RoomInvite) TableName() string { return "room_invites" }

// EmailInvite — a tokenized invitation sent by email (GORM).
// At most one pending unexpired row per (room, email).
type EmailInvite struct {
	ID        string     `gorm:"type:uuid;primaryKey"`
	RoomID    string     `gorm:"type:uuid;not null;index"`
	Email     string     `gorm:"size:255;not null;index"`
	Token     string     `gorm:"size:64;not null;uniqueIndex"`
	InvitedBy string     `gorm:"type:uuid;not null"`
	Status    string     `gorm:"size:20;not null;default:pending"` // pending, used, expired
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	ExpiresAt time.Time  `gorm:"column:expires_at;not null;index"`
	UsedAt    *time.Time `gorm:"column:used_at"`
}

func (EmailInvite) TableName() string { return "email_invites" }

// Signal — a peer-connection handshake message in a receiver's mailbox (GORM).
type Signal struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	RoomID     string    `gorm:"type:uuid;not null;index"`
	SenderID   string    `gorm:"type:uuid;not null"`
	ReceiverID string    `gorm:"type:uuid;not null;index"`
	Type       string    `gorm:"size:20;not null"` // offer, answer, ice-candidate
	Payload    string    `gorm:"type:text;not null"`
	Processed  bool      `gorm:"not null;default:false;index"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (Signal) TableName() string { return "signals" }
