package service

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nextalk/room-service/internal/model"
)

// PurgeService hard-deletes rooms and their dependents in pages. Each page is
// one worker task; the continuation cursor is the last room ID of the page,
// so a retried task re-deletes an already-empty page harmlessly.
type PurgeService struct {
	db       *gorm.DB
	pageSize int
	log      *zap.Logger
}

// NewPurgeService creates a purge service.
func NewPurgeService(db *gorm.DB, pageSize int, log *zap.Logger) *PurgeService {
	return &PurgeService{db: db, pageSize: pageSize, log: log}
}

// PageSize returns the configured rooms-per-iteration page size.
func (s *PurgeService) PageSize() int { return s.pageSize }

// RunPage deletes one page of rooms (any status) ordered by ID, starting
// after cursor. It returns the next cursor and whether more pages remain.
func (s *PurgeService) RunPage(cursor string, pageSize int) (string, bool, error) {
	if pageSize <= 0 {
		pageSize = s.pageSize
	}
	q := s.db.Model(&model.Room{}).Order("id ASC").Limit(pageSize)
	if cursor != "" {
		q = q.Where("id > ?", cursor)
	}
	var rooms []model.Room
	if err := q.Find(&rooms).Error; err != nil {
		return "", false, err
	}
	if len(rooms) == 0 {
		return cursor, false, nil
	}

	ids := make([]string, 0, len(rooms))
	for _, r := range rooms {
		ids = append(ids, r.ID)
	}
	if err := s.deleteRooms(ids); err != nil {
		return "", false, err
	}

	next := ids[len(ids)-1]
	more := len(rooms) == pageSize
	s.log.Info("purged room page",
		zap.Int("rooms", len(ids)),
		zap.String("cursor", next),
		zap.Bool("more", more))
	return next, more, nil
}

// deleteRooms hard-deletes dependents first, then the room rows.
func (s *PurgeService) deleteRooms(ids []string) error {
	deps := []interface{}{
		&model.Participant{},
		&model.Signal{},
		&model.RoomInvite{},
		&model.EmailInvite{},
		&model.Recording{},
	}
	for _, dep := range deps {
		if err := s.db.Where("room_id IN ?", ids).Delete(dep).Error; err != nil {
			return err
		}
	}
	return s.db.Where("id IN ?", ids).Delete(&model.Room{}).Error
}
