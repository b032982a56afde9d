package model

import "time"

// RoomStatus represents room lifecycle state.
type RoomStatus string

const (
	RoomStatusScheduled RoomStatus = "scheduled"
	RoomStatusLive      RoomStatus = "live"
	RoomStatusEnded     RoomStatus = "ended"
)

// Role is a participant privilege level.
type Role string

const (
	RoleHost     Role = "host"
	RoleCoHost   Role = "co-host"
	RoleSpeaker  Role = "speaker"
	RoleListener Role = "listener"
)

// roleRanks gives roles a total order: higher rank, more privilege.
var roleRanks = map[Role]int{
	RoleListener: 0,
	RoleSpeaker:  1,
	RoleCoHost:   2,
	RoleHost:     3,
}

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	_, ok := roleRanks[r]
	return ok
}

// Rank returns the role's privilege rank (listener lowest, host highest).
func (r Role) Rank() int { return roleRanks[r] }

// RecordingStatus represents recording lifecycle state.
type RecordingStatus string

const (
	RecordingStatusRecording  RecordingStatus = "recording"
	RecordingStatusProcessing RecordingStatus = "processing"
	RecordingStatusReady      RecordingStatus = "ready"
	RecordingStatusFailed     RecordingStatus = "failed"
)

// InviteStatus represents direct room invitation state.
type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusDeclined InviteStatus = "declined"
)

// EmailInviteStatus represents tokenized email invitation state.
type EmailInviteStatus string

const (
	EmailInviteStatusPending EmailInviteStatus = "pending"
	EmailInviteStatusUsed    EmailInviteStatus = "used"
	EmailInviteStatusExpired EmailInviteStatus = "expired"
)

// SignalType is a peer-connection handshake message kind.
type SignalType string

const (
	SignalTypeOffer        SignalType = "offer"
	SignalTypeAnswer       SignalType = "answer"
	SignalTypeICECandidate SignalType = "ice-candidate"
)

// ValidSignalType reports whether t is a known handshake type.
func ValidSignalType(t SignalType) bool {
	switch t {
	case SignalTypeOffer, SignalTypeAnswer, SignalTypeICECandidate:
		return true
	}
	return false
}

// CreateRoomRequest is the request body for POST /rooms.
type CreateRoomRequest struct {
	Name         string     `json:"name" binding:"required"`
	Description  *string    `json:"description,omitempty"`
	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`
	IsPrivate    bool       `json:"is_private"`
	IsRecorded   bool       `json:"is_recorded"`
}

// ChangeRoleRequest is the request body for PATCH /rooms/:id/participants/role.
type ChangeRoleRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required"`
}

// ToggleMuteRequest is the request body for PATCH /participants/:id/mute.
type ToggleMuteRequest struct {
	IsMuted bool `json:"is_muted"`
}

// RaiseHandRequest is the request body for PATCH /rooms/:id/hand.
type RaiseHandRequest struct {
	IsRaised bool `json:"is_raised"`
}

// InviteRequest is the request body for POST /rooms/:id/invites.
type InviteRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// RespondInviteRequest is the request body for POST /invites/:id/respond.
type RespondInviteRequest struct {
	Response string `json:"response" binding:"required"` // accepted | declined
}

// EmailInviteRequest is the request body for POST /rooms/:id/email-invites.
type EmailInviteRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// SendSignalRequest is the request body for POST /signals.
type SendSignalRequest struct {
	RoomID     string `json:"room_id" binding:"required"`
	ReceiverID string `json:"receiver_id" binding:"required"`
	Type       string `json:"type" binding:"required"`
	Payload    string `json:"payload" binding:"required"`
}

// TokenValidation is the result of a read-only email invite token check.
// It never carries an error: invalid tokens are reported through Reason.
type TokenValidation struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"` // not_found, already_used, expired
	RoomID string `json:"room_id,omitempty"`
}

// RoomListFilter narrows List results.
type RoomListFilter struct {
	Status    *RoomStatus
	IsPrivate *bool
}
