package service

import (
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nextalk/room-service/internal/errs"
	"github.com/nextalk/room-service/internal/model"
)

// SignalService is the per-receiver mailbox for peer-connection handshake
// messages. Delivery is pull-based and at-least-once: a signal stays visible
// to Receive until it is acked, even across client restarts.
type SignalService struct {
	db    *gorm.DB
	rooms *RoomService
	hub   *SignalHub // optional wake-up push; nil disables it
	log   *zap.Logger
}

// NewSignalService creates a signal service. hub may be nil.
func NewSignalService(db *gorm.DB, rooms *RoomService, hub *SignalHub, log *zap.Logger) *SignalService {
	return &SignalService{db: db, rooms: rooms, hub: hub, log: log}
}

// Send appends a handshake message to the receiver's mailbox. Both sender and
// receiver must be active participants of the room.
func (s *SignalService) Send(roomID, senderID, receiverID string, signalType model.SignalType, payload string) (*model.Signal, error) {
	if !model.ValidSignalType(signalType) {
		return nil, errs.ErrInvalidArgument
	}
	if _, err := s.rooms.Get(roomID, false); err != nil {
		return nil, err
	}
	for _, userID := range []string{senderID, receiverID} {
		if _, err := activeParticipant(s.db, roomID, userID); err != nil {
			if errors.Is(err, errs.ErrParticipantNotFound) {
				return nil, errs.ErrForbidden
			}
			return nil, err
		}
	}
	sig := &model.Signal{
		ID:         uuid.New().String(),
		RoomID:     roomID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Type:       string(signalType),
		Payload:    payload,
	}
	if err := s.db.Create(sig).Error; err != nil {
		return nil, err
	}
	if s.hub != nil {
		s.hub.Wake(receiverID)
	}
	return sig, nil
}

// Receive returns all unprocessed signals for the receiver, oldest first.
func (s *SignalService) Receive(receiverID string) ([]model.Signal, error) {
	var out []model.Signal
	if err := s.db.Where("receiver_id = ? AND processed = ?", receiverID, false).
		Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ReceiveForRoom is Receive scoped to one room.
func (s *SignalService) ReceiveForRoom(roomID, receiverID string) ([]model.Signal, error) {
	var out []model.Signal
	if err := s.db.Where("room_id = ? AND receiver_id = ? AND processed = ?", roomID, receiverID, false).
		Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Ack marks one signal processed. Acking twice is a no-op.
func (s *SignalService) Ack(signalID string) error {
	var sig model.Signal
	if err := s.db.Where("id = ?", signalID).First(&sig).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.ErrSignalNotFound
		}
		return err
	}
	if sig.Processed {
		return nil
	}
	return s.db.Model(&model.Signal{}).Where("id = ?", sig.ID).Update("processed", true).Error
}
