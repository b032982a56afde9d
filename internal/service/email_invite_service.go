package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nextalk/room-service/internal/errs"
	"github.com/nextalk/room-service/internal/mailer"
	"github.com/nextalk/room-service/internal/model"
)

// EmailInviteService owns tokenized email invitations: minting, validation,
// consumption and the expiry sweep.
type EmailInviteService struct {
	db            *gorm.DB
	rooms         *RoomService
	mail          mailer.Mailer // nil when outbound email is disabled
	ttl           time.Duration
	inviteBaseURL string
	log           *zap.Logger
}

// NewEmailInviteService creates an email invite service. mail may be nil.
func NewEmailInviteService(db *gorm.DB, rooms *RoomService, mail mailer.Mailer, ttlHours int, inviteBaseURL string, log *zap.Logger) *EmailInviteService {
	return &EmailInviteService{
		db:            db,
		rooms:         rooms,
		mail:          mail,
		ttl:           time.Duration(ttlHours) * time.Hour,
		inviteBaseURL: inviteBaseURL,
		log:           log,
	}
}

// Create mints a tokenized invite for (room, email). Requires a resolved
// caller identity. Idempotent: an existing pending, unexpired invite for the
// pair is returned unchanged.
func (s *EmailInviteService) Create(roomID, email, invitedBy string) (*model.EmailInvite, error) {
	if invitedBy == "" {
		return nil, errs.ErrUnauthenticated
	}
	room, err := s.rooms.Get(roomID, false)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var existing model.EmailInvite
	err = s.db.Where("room_id = ? AND email = ? AND status = ? AND expires_at > ?",
		roomID, email, string(model.EmailInviteStatusPending), now).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	token, err := newInviteToken()
	if err != nil {
		return nil, err
	}
	invite := &model.EmailInvite{
		ID:        uuid.New().String(),
		RoomID:    roomID,
		Email:     email,
		Token:     token,
		InvitedBy: invitedBy,
		Status:    string(model.EmailInviteStatusPending),
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.db.Create(invite).Error; err != nil {
		return nil, err
	}

	// The row is durable at this point; a failed send is reported but does
	// not fail the call.
	if s.mail != nil {
		subject := fmt.Sprintf("You're invited to join %q", room.Name)
		body := fmt.Sprintf("Join the room %q: %s/invite/%s\nThis link expires in %s.",
			room.Name, s.inviteBaseURL, token, s.ttl)
		if err := s.mail.Send(context.Background(), email, subject, body); err != nil {
			s.log.Warn("invite email send failed",
				zap.String("invite_id", invite.ID),
				zap.String("email", email),
				zap.Error(err))
		}
	}
	return invite, nil
}

// Validate is a read-only token check. It never returns an error for an
// invalid token: the result carries the reason so the UI can render it.
func (s *EmailInviteService) Validate(token string) (*model.TokenValidation, error) {
	var invite model.EmailInvite
	if err := s.db.Where("token = ?", token).First(&invite).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.TokenValidation{Valid: false, Reason: "not_found"}, nil
		}
		return nil, err
	}
	switch invite.Status {
	case string(model.EmailInviteStatusUsed):
		return &model.TokenValidation{Valid: false, Reason: "already_used"}, nil
	case string(model.EmailInviteStatusExpired):
		return &model.TokenValidation{Valid: false, Reason: "expired"}, nil
	}
	// Pending but past expiry reads as expired even before the sweep runs.
	if time.Now().After(invite.ExpiresAt) {
		return &model.TokenValidation{Valid: false, Reason: "expired"}, nil
	}
	return &model.TokenValidation{Valid: true, RoomID: invite.RoomID}, nil
}

// Consume marks a pending, unexpired invite used and returns the room ID for
// the client-side redirect. Joining the room is a separate call.
func (s *EmailInviteService) Consume(token string) (string, error) {
	var invite model.EmailInvite
	if err := s.db.Where("token = ?", token).First(&invite).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errs.ErrInvitationNotFound
		}
		return "", err
	}
	switch invite.Status {
	case string(model.EmailInviteStatusUsed):
		return "", errs.ErrInvalidState
	case string(model.EmailInviteStatusExpired):
		return "", errs.ErrExpired
	}
	now := time.Now()
	if now.After(invite.ExpiresAt) {
		return "", errs.ErrExpired
	}
	if err := s.db.Model(&model.EmailInvite{}).Where("id = ?", invite.ID).Updates(map[string]interface{}{
		"status":  string(model.EmailInviteStatusUsed),
		"used_at": now,
	}).Error; err != nil {
		return "", err
	}
	return invite.RoomID, nil
}

// SweepExpired flips every pending invite past its expiry to expired and
// returns how many rows changed. Runs hourly from the worker scheduler.
func (s *EmailInviteService) SweepExpired() (int64, error) {
	res := s.db.Model(&model.EmailInvite{}).
		Where("status = ? AND expires_at < ?", string(model.EmailInviteStatusPending), time.Now()).
		Update("status", string(model.EmailInviteStatusExpired))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		s.log.Info("expired email invites swept", zap.Int64("count", res.RowsAffected))
	}
	return res.RowsAffected, nil
}

// newInviteToken returns a 32-char unguessable hex token.
func newInviteToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
