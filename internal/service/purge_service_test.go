package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nextalk/room-service/internal/model"
	"github.com/nextalk/room-service/internal/service"
)

func TestPurge_RunPageChainsUntilDone(t *testing.T) {
	env := newTestEnv(t)
	purge := service.NewPurgeService(env.db, 2, zap.NewNop())

	for i := 0; i < 5; i++ {
		room := env.createLiveRoom(t, alice, model.CreateRoomRequest{Name: "doomed"})
		_, err := env.participants.Join(room.ID, bob)
		require.NoError(t, err)
		_, err = env.signals.Send(room.ID, alice, bob, model.SignalTypeOffer, "sdp")
		require.NoError(t, err)
		_, err = env.invites.Invite(room.ID, alice, carol)
		require.NoError(t, err)
		_, err = env.emailInvites.Create(room.ID, "x@example.com", alice)
		require.NoError(t, err)
	}

	// Drive the continuation chain by hand, as the worker task does.
	cursor, iterations := "", 0
	for {
		next, more, err := purge.RunPage(cursor, 2)
		require.NoError(t, err)
		iterations++
		if !more {
			break
		}
		cursor = next
		require.Less(t, iterations, 10, "chain must terminate")
	}
	// 5 rooms at page size 2: two full pages, one final partial page.
	assert.Equal(t, 3, iterations)

	for _, ent := range []interface{}{
		&model.Room{}, &model.Participant{}, &model.Signal{},
		&model.RoomInvite{}, &model.EmailInvite{}, &model.Recording{},
	} {
		var count int64
		require.NoError(t, env.db.Model(ent).Count(&count).Error)
		assert.Zero(t, count, "%T rows should be purged", ent)
	}
}

func TestPurge_EmptyDatabase(t *testing.T) {
	env := newTestEnv(t)
	purge := service.NewPurgeService(env.db, 100, zap.NewNop())

	next, more, err := purge.RunPage("", 0)
	require.NoError(t, err)
	assert.False(t, more)
	assert.Equal(t, "", next)
}

func TestPurge_DeletesAnyStatus(t *testing.T) {
	env := newTestEnv(t)
	purge := service.NewPurgeService(env.db, 100, zap.NewNop())

	env.createLiveRoom(t, alice, model.CreateRoomRequest{Name: "live"})
	ended := env.createLiveRoom(t, alice, model.CreateRoomRequest{Name: "ended"})
	require.NoError(t, env.rooms.End(ended.ID, alice))
	deleted := env.createLiveRoom(t, alice, model.CreateRoomRequest{Name: "deleted"})
	require.NoError(t, env.rooms.SoftDelete(deleted.ID, alice))

	_, more, err := purge.RunPage("", 0)
	require.NoError(t, err)
	assert.False(t, more)

	var count int64
	require.NoError(t, env.db.Model(&model.Room{}).Count(&count).Error)
	assert.Zero(t, count)
}
