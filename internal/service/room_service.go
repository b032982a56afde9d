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

// DefaultListLimit caps List results when the caller gives no limit.
const DefaultListLimit = 50

// RoomService owns room status transitions and aggregate counters.
//
// Cascading transitions (End, SoftDelete) are applied as a sequence of
// independent patches, dependents first and the room status patch last, so a
// crash mid-cascade leaves the room in its previous status and the whole call
// can be re-invoked; every sub-step is idempotent.
type RoomService struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewRoomService creates a room service.
func NewRoomService(db *gorm.DB, log *zap.Logger) *RoomService {
	return &RoomService{db: db, log: log}
}

// Create creates a room. Without a future scheduled_for the room goes live
// immediately: the creator joins as host and a recording is opened if asked.
func (s *RoomService) Create(creatorID string, req model.CreateRoomRequest) (*model.Room, error) {
	now := time.Now()
	live := req.ScheduledFor == nil || !req.ScheduledFor.After(now)

	room := &model.Room{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Description:  req.Description,
		CreatedBy:    creatorID,
		Status:       string(model.RoomStatusScheduled),
		ScheduledFor: req.ScheduledFor,
		IsPrivate:    req.IsPrivate,
		IsRecorded:   req.IsRecorded,
	}
	if live {
		room.Status = string(model.RoomStatusLive)
		room.StartedAt = &now
		room.ParticipantCount = 1
		room.PeakParticipantCount = 1
	}
	if err := s.db.Create(room).Error; err != nil {
		return nil, err
	}
	if live {
		if err := s.insertHost(room.ID, creatorID, now); err != nil {
			return nil, err
		}
		if room.IsRecorded {
			if err := s.openRecording(room.ID, now); err != nil {
				return nil, err
			}
		}
	}
	s.log.Info("room created",
		zap.String("room_id", room.ID),
		zap.String("status", room.Status),
		zap.Bool("is_private", room.IsPrivate))
	return room, nil
}

// Start transitions a scheduled room to live. Creator only.
func (s *RoomService) Start(roomID, userID string) error {
	room, err := s.Get(roomID, false)
	if err != nil {
		return err
	}
	if room.CreatedBy != userID {
		return errs.ErrForbidden
	}
	if room.Status != string(model.RoomStatusScheduled) {
		return errs.ErrInvalidState
	}
	now := time.Now()
	if err := s.insertHost(roomID, userID, now); err != nil {
		return err
	}
	if room.IsRecorded {
		if err := s.openRecording(roomID, now); err != nil {
			return err
		}
	}
	if err := s.db.Model(&model.Room{}).Where("id = ?", roomID).Updates(map[string]interface{}{
		"status":                 string(model.RoomStatusLive),
		"started_at":             now,
		"participant_count":      1,
		"peak_participant_count": 1,
	}).Error; err != nil {
		return err
	}
	s.log.Info("room started", zap.String("room_id", roomID))
	return nil
}

// End transitions a live room to ended. Creator only. All active participants
// are soft-left and open recordings move to processing.
func (s *RoomService) End(roomID, userID string) error {
	room, err := s.Get(roomID, false)
	if err != nil {
		return err
	}
	if room.CreatedBy != userID {
		return errs.ErrForbidden
	}
	if room.Status != string(model.RoomStatusLive) {
		return errs.ErrInvalidState
	}
	now := time.Now()
	if err := s.leaveAllParticipants(roomID, now); err != nil {
		return err
	}
	if err := s.closeRecordings(roomID, now); err != nil {
		return err
	}
	if err := s.db.Model(&model.Room{}).Where("id = ?", roomID).Updates(map[string]interface{}{
		"status":            string(model.RoomStatusEnded),
		"ended_at":          now,
		"participant_count": 0,
	}).Error; err != nil {
		return err
	}
	s.log.Info("room ended", zap.String("room_id", roomID))
	return nil
}

// SoftDelete marks a room deleted. Creator only. Dependents are settled first
// (participants soft-left, recordings closed, signals marked processed), the
// room flag last, so the cascade is safe to re-invoke after a partial run.
func (s *RoomService) SoftDelete(roomID, userID string) error {
	room, err := s.Get(roomID, false)
	if err != nil {
		return err
	}
	if room.CreatedBy != userID {
		return errs.ErrForbidden
	}
	now := time.Now()
	if err := s.leaveAllParticipants(roomID, now); err != nil {
		return err
	}
	if err := s.closeRecordings(roomID, now); err != nil {
		return err
	}
	if err := s.db.Model(&model.Signal{}).
		Where("room_id = ? AND processed = ?", roomID, false).
		Update("processed", true).Error; err != nil {
		return err
	}
	if err := s.db.Model(&model.Room{}).Where("id = ?", roomID).Updates(map[string]interface{}{
		"is_deleted":        true,
		"deleted_at":        now,
		"status":            string(model.RoomStatusEnded),
		"participant_count": 0,
	}).Error; err != nil {
		return err
	}
	s.log.Info("room deleted", zap.String("room_id", roomID))
	return nil
}

// Get returns a room by ID. Soft-deleted rooms are hidden unless
// includeDeleted is set.
func (s *RoomService) Get(roomID string, includeDeleted bool) (*model.Room, error) {
	var room model.Room
	if err := s.db.Where("id = ?", roomID).First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrRoomNotFound
		}
		return nil, err
	}
	if room.IsDeleted && !includeDeleted {
		return nil, errs.ErrRoomNotFound
	}
	return &room, nil
}

// List returns non-deleted rooms, newest first, optionally filtered.
func (s *RoomService) List(filter model.RoomListFilter, limit int) ([]model.Room, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}
	q := s.db.Where("is_deleted = ?", false)
	if filter.Status != nil {
		q = q.Where("status = ?", string(*filter.Status))
	}
	if filter.IsPrivate != nil {
		q = q.Where("is_private = ?", *filter.IsPrivate)
	}
	var rooms []model.Room
	if err := q.Order("created_at DESC").Limit(limit).Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

// insertHost inserts the creator as active host unless one already is active
// for this user (keeps Start re-invocable after a partial cascade).
func (s *RoomService) insertHost(roomID, userID string, now time.Time) error {
	var existing model.Participant
	err := s.db.Where("room_id = ? AND user_id = ? AND left_at IS NULL", roomID, userID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	p := &model.Participant{
		ID:       uuid.New().String(),
		RoomID:   roomID,
		UserID:   userID,
		Role:     string(model.RoleHost),
		JoinedAt: now,
		IsMuted:  false,
	}
	return s.db.Create(p).Error
}

// openRecording opens a recording row unless one is already running.
func (s *RoomService) openRecording(roomID string, now time.Time) error {
	var count int64
	if err := s.db.Model(&model.Recording{}).
		Where("room_id = ? AND status = ?", roomID, string(model.RecordingStatusRecording)).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	rec := &model.Recording{
		ID:        uuid.New().String(),
		RoomID:    roomID,
		Status:    string(model.RecordingStatusRecording),
		StartedAt: now,
	}
	return s.db.Create(rec).Error
}

// leaveAllParticipants soft-leaves every active participant of the room.
func (s *RoomService) leaveAllParticipants(roomID string, now time.Time) error {
	return s.db.Model(&model.Participant{}).
		Where("room_id = ? AND left_at IS NULL", roomID).
		Update("left_at", now).Error
}

// closeRecordings moves running recordings to processing with their duration.
func (s *RoomService) closeRecordings(roomID string, now time.Time) error {
	var recs []model.Recording
	if err := s.db.
		Where("room_id = ? AND status = ?", roomID, string(model.RecordingStatusRecording)).
		Find(&recs).Error; err != nil {
		return err
	}
	for _, rec := range recs {
		duration := int64(now.Sub(rec.StartedAt).Seconds())
		if err := s.db.Model(&model.Recording{}).Where("id = ?", rec.ID).Updates(map[string]interface{}{
			"status":   string(model.RecordingStatusProcessing),
			"ended_at": now,
			"duration": duration,
		}).Error; err != nil {
			return err
		}
	}
	return nil
}
