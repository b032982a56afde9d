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

// ParticipantService owns the roster: membership, roles, mute and hand state.
type ParticipantService struct {
	db    *gorm.DB
	rooms *RoomService
	log   *zap.Logger
}

// NewParticipantService creates a participant service.
func NewParticipantService(db *gorm.DB, rooms *RoomService, log *zap.Logger) *ParticipantService {
	return &ParticipantService{db: db, rooms: rooms, log: log}
}

// Join adds the user to a live room as listener (host if they created it).
// Idempotent: an existing active membership is returned unchanged. Private
// rooms require an accepted invitation unless the user is the creator.
func (s *ParticipantService) Join(roomID, userID string) (*model.Participant, error) {
	room, err := s.rooms.Get(roomID, false)
	if err != nil {
		return nil, err
	}
	if room.Status != string(model.RoomStatusLive) {
		return nil, errs.ErrInvalidState
	}
	if room.IsPrivate && userID != room.CreatedBy {
		var count int64
		if err := s.db.Model(&model.RoomInvite{}).
			Where("room_id = ? AND user_id = ? AND status = ?", roomID, userID, string(model.InviteStatusAccepted)).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, errs.ErrForbidden
		}
	}

	var existing model.Participant
	err = s.db.Where("room_id = ? AND user_id = ? AND left_at IS NULL", roomID, userID).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return insertParticipant(s.db, room, userID)
}

// Leave marks a participant departed and decrements the room count.
// Leaving twice is a no-op.
func (s *ParticipantService) Leave(participantID string) error {
	var p model.Participant
	if err := s.db.Where("id = ?", participantID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.ErrParticipantNotFound
		}
		return err
	}
	if p.LeftAt != nil {
		return nil
	}
	now := time.Now()
	if err := s.db.Model(&model.Participant{}).Where("id = ?", p.ID).Update("left_at", now).Error; err != nil {
		return err
	}
	return decrementRoomCount(s.db, p.RoomID)
}

// ChangeRole changes an active participant's role, preserving the
// exactly-one-host invariant inside a single store transaction.
func (s *ParticipantService) ChangeRole(roomID, targetUserID, requestedBy string, newRole model.Role) error {
	if !newRole.Valid() {
		return errs.ErrInvalidArgument
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		requester, err := activeParticipant(tx, roomID, requestedBy)
		if err != nil {
			if errors.Is(err, errs.ErrParticipantNotFound) {
				return errs.ErrForbidden
			}
			return err
		}
		reqRole := model.Role(requester.Role)
		if reqRole != model.RoleHost && reqRole != model.RoleCoHost {
			return errs.ErrForbidden
		}

		target, err := activeParticipant(tx, roomID, targetUserID)
		if err != nil {
			return err
		}
		targetRole := model.Role(target.Role)

		// A co-host cannot touch a peer or the host.
		if reqRole == model.RoleCoHost && targetRole.Rank() >= model.RoleCoHost.Rank() {
			return errs.ErrForbidden
		}

		// Demoting the host: only the outgoing host itself may do it, and the
		// requester is patched to host alongside the requested change.
		if targetRole == model.RoleHost && newRole != model.RoleHost {
			if reqRole != model.RoleHost {
				return errs.ErrForbidden
			}
			if err := tx.Model(&model.Participant{}).Where("id = ?", requester.ID).
				Update("role", string(model.RoleHost)).Error; err != nil {
				return err
			}
		}

		// Promoting to host: demote the current host to co-host first.
		if newRole == model.RoleHost && targetRole != model.RoleHost {
			var host model.Participant
			err := tx.Where("room_id = ? AND role = ? AND left_at IS NULL", roomID, string(model.RoleHost)).
				First(&host).Error
			if err == nil && host.ID != target.ID {
				if err := tx.Model(&model.Participant{}).Where("id = ?", host.ID).
					Update("role", string(model.RoleCoHost)).Error; err != nil {
					return err
				}
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		patch := map[string]interface{}{"role": string(newRole)}
		if newRole == model.RoleListener {
			patch["is_muted"] = true
		}
		if targetRole == model.RoleListener && newRole != model.RoleListener {
			patch["has_raised_hand"] = false
		}
		if err := tx.Model(&model.Participant{}).Where("id = ?", target.ID).Updates(patch).Error; err != nil {
			return err
		}
		s.log.Info("role changed",
			zap.String("room_id", roomID),
			zap.String("user_id", targetUserID),
			zap.String("role", string(newRole)),
			zap.String("requested_by", requestedBy))
		return nil
	})
}

// ToggleMute sets a participant's mute flag.
func (s *ParticipantService) ToggleMute(participantID string, isMuted bool) error {
	res := s.db.Model(&model.Participant{}).Where("id = ?", participantID).Update("is_muted", isMuted)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.ErrParticipantNotFound
	}
	return nil
}

// ToggleRaiseHand sets the raised-hand flag on the user's active membership.
func (s *ParticipantService) ToggleRaiseHand(roomID, userID string, isRaised bool) error {
	p, err := activeParticipant(s.db, roomID, userID)
	if err != nil {
		return err
	}
	return s.db.Model(&model.Participant{}).Where("id = ?", p.ID).
		Update("has_raised_hand", isRaised).Error
}

// GetParticipants returns the full roster, active and departed, oldest first.
func (s *ParticipantService) GetParticipants(roomID string) ([]model.Participant, error) {
	if _, err := s.rooms.Get(roomID, true); err != nil {
		return nil, err
	}
	var out []model.Participant
	if err := s.db.Where("room_id = ?", roomID).Order("joined_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// activeParticipant finds the active membership for (room, user).
func activeParticipant(db *gorm.DB, roomID, userID string) (*model.Participant, error) {
	var p model.Participant
	if err := db.Where("room_id = ? AND user_id = ? AND left_at IS NULL", roomID, userID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrParticipantNotFound
		}
		return nil, err
	}
	return &p, nil
}

// insertParticipant inserts a new membership and bumps the room counters with
// a single atomic UPDATE (the peak rides the same statement, so it can never
// lag behind a concurrent increment).
func insertParticipant(db *gorm.DB, room *model.Room, userID string) (*model.Participant, error) {
	role := model.RoleListener
	muted := true
	if userID == room.CreatedBy {
		role = model.RoleHost
		muted = false
	}
	p := &model.Participant{
		ID:       uuid.New().String(),
		RoomID:   room.ID,
		UserID:   userID,
		Role:     string(role),
		JoinedAt: time.Now(),
		IsMuted:  muted,
	}
	if err := db.Create(p).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Room{}).Where("id = ?", room.ID).Updates(map[string]interface{}{
		"participant_count": gorm.Expr("participant_count + 1"),
		"peak_participant_count": gorm.Expr(
			"CASE WHEN peak_participant_count < participant_count + 1 THEN participant_count + 1 ELSE peak_participant_count END"),
	}).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// decrementRoomCount decrements the room's active count, floored at zero.
func decrementRoomCount(db *gorm.DB, roomID string) error {
	return db.Model(&model.Room{}).Where("id = ?", roomID).
		Update("participant_count",
			gorm.Expr("CASE WHEN participant_count > 0 THEN participant_count - 1 ELSE 0 END")).Error
}
