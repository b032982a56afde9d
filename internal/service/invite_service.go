package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nextalk/room-service/internal/errs"
	"github.com/nextalk/room-service/internal/model"
)

// Notifier delivers an in-app notification about a room invite. Delivery is
// best effort; the invitation row is already durable when it runs.
type Notifier interface {
	NotifyInvite(invite *model.RoomInvite, room *model.Room)
}

// LogNotifier is the default Notifier: it only logs.
type LogNotifier struct {
	Log *zap.Logger
}

// NotifyInvite logs the invite.
func (n *LogNotifier) NotifyInvite(invite *model.RoomInvite, room *model.Room) {
	n.Log.Info("room invite notification",
		zap.String("invite_id", invite.ID),
		zap.String("room_id", room.ID),
		zap.String("user_id", invite.UserID))
}

// InviteService owns direct room-to-user invitations.
type InviteService struct {
	db       *gorm.DB
	rooms    *RoomService
	notifier Notifier
	log      *zap.Logger
}

// NewInviteService creates an invite service.
func NewInviteService(db *gorm.DB, rooms *RoomService, notifier Notifier, log *zap.Logger) *InviteService {
	return &InviteService{db: db, rooms: rooms, notifier: notifier, log: log}
}

// Invite invites a user to a room. Requester must be an active host or
// co-host. A previously declined invitation is reopened; a pending or
// accepted one is returned unchanged.
func (s *InviteService) Invite(roomID, invitedBy, invitedUserID string) (*model.RoomInvite, error) {
	room, err := s.rooms.Get(roomID, false)
	if err != nil {
		return nil, err
	}
	requester, err := activeParticipant(s.db, roomID, invitedBy)
	if err != nil {
		if errors.Is(err, errs.ErrParticipantNotFound) {
			return nil, errs.ErrForbidden
		}
		return nil, err
	}
	reqRole := model.Role(requester.Role)
	if reqRole != model.RoleHost && reqRole != model.RoleCoHost {
		return nil, errs.ErrForbidden
	}

	var invite model.RoomInvite
	err = s.db.Where("room_id = ? AND user_id = ?", roomID, invitedUserID).First(&invite).Error
	switch {
	case err == nil:
		if invite.Status != string(model.InviteStatusDeclined) {
			return &invite, nil
		}
		if err := s.db.Model(&model.RoomInvite{}).Where("id = ?", invite.ID).Updates(map[string]interface{}{
			"status":     string(model.InviteStatusPending),
			"invited_by": invitedBy,
			"updated_at": time.Now(),
		}).Error; err != nil {
			return nil, err
		}
		invite.Status = string(model.InviteStatusPending)
		invite.InvitedBy = invitedBy
	case errors.Is(err, gorm.ErrRecordNotFound):
		invite = model.RoomInvite{
			ID:        uuid.New().String(),
			RoomID:    roomID,
			InvitedBy: invitedBy,
			UserID:    invitedUserID,
			Status:    string(model.InviteStatusPending),
		}
		if err := s.db.Create(&invite).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	s.notifier.NotifyInvite(&invite, room)
	return &invite, nil
}

// Respond accepts or declines a pending invitation. Accepting while the room
// is live auto-joins the user as listener; acceptance itself is the
// authorization, so the private-room invite check is not repeated.
func (s *InviteService) Respond(inviteID string, response model.InviteStatus) error {
	if response != model.InviteStatusAccepted && response != model.InviteStatusDeclined {
		return errs.ErrInvalidArgument
	}
	var invite model.RoomInvite
	if err := s.db.Where("id = ?", inviteID).First(&invite).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.ErrInvitationNotFound
		}
		return err
	}
	if invite.Status != string(model.InviteStatusPending) {
		return errs.ErrInvalidState
	}
	if err := s.db.Model(&model.RoomInvite{}).Where("id = ?", invite.ID).
		Update("status", string(response)).Error; err != nil {
		return err
	}
	if response != model.InviteStatusAccepted {
		return nil
	}

	room, err := s.rooms.Get(invite.RoomID, false)
	if err != nil {
		if errors.Is(err, errs.ErrRoomNotFound) {
			return nil
		}
		return err
	}
	if room.Status != string(model.RoomStatusLive) {
		return nil
	}
	if _, err := activeParticipant(s.db, room.ID, invite.UserID); err == nil {
		return nil
	} else if !errors.Is(err, errs.ErrParticipantNotFound) {
		return err
	}
	if _, err := insertParticipant(s.db, room, invite.UserID); err != nil {
		return err
	}
	s.log.Info("invite accepted, user joined",
		zap.String("room_id", room.ID),
		zap.String("user_id", invite.UserID))
	return nil
}
