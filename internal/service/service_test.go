package service_test

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nextalk/room-service/internal/model"
	"github.com/nextalk/room-service/internal/service"
)

// newTestDB opens an in-memory SQLite database with the service schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One in-memory SQLite DB per connection; keep the pool to a single one.
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Room{},
		&model.Participant{},
		&model.Recording{},
		&model.RoomInvite{},
		&model.EmailInvite{},
		&model.Signal{},
	))
	return db
}

type testEnv struct {
	db           *gorm.DB
	rooms        *service.RoomService
	participants *service.ParticipantService
	invites      *service.InviteService
	emailInvites *service.EmailInviteService
	signals      *service.SignalService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	log := zap.NewNop()
	rooms := service.NewRoomService(db, log)
	return &testEnv{
		db:           db,
		rooms:        rooms,
		participants: service.NewParticipantService(db, rooms, log),
		invites:      service.NewInviteService(db, rooms, &service.LogNotifier{Log: log}, log),
		emailInvites: service.NewEmailInviteService(db, rooms, nil, 24, "", log),
		signals:      service.NewSignalService(db, rooms, nil, log),
	}
}

// createLiveRoom creates an immediately-live room owned by creatorID.
func (e *testEnv) createLiveRoom(t *testing.T, creatorID string, req model.CreateRoomRequest) *model.Room {
	t.Helper()
	room, err := e.rooms.Create(creatorID, req)
	require.NoError(t, err)
	require.Equal(t, string(model.RoomStatusLive), room.Status)
	return room
}

func (e *testEnv) reloadRoom(t *testing.T, id string) *model.Room {
	t.Helper()
	room, err := e.rooms.Get(id, true)
	require.NoError(t, err)
	return room
}

func future(d time.Duration) *time.Time {
	ts := time.Now().Add(d)
	return &ts
}
