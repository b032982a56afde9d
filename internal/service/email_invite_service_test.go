package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextalk/room-service/internal/errs"
	"github.com/nextalk/room-service/internal/model"
)

func TestEmailInvite_Create(t *testing.T) {
	env := newTestEnv(t)
	room := env.createLiveRoom(t, alice, model.CreateRoomRequest{Name: "mail"})

	invite, err := env.emailInvites.Create(room.ID, "friend@example.com", alice)
	require.NoError(t, err)
	assert.Equal(t, string(model.EmailInviteStatusPending), invite.Status)
	assert.Len(t, invite.Token, 32)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), invite.ExpiresAt, time.Minute)
}

func TestEmailInvite_CreateRequiresIdentity(t *testing.T) {
	env := newTestEnv(t)
	room := env.createLiveRoom(t, alice, model.CreateRoomRequest{Name: "mail"})

	_, err := env.emailInvites.Create(room.ID, "friend@example.com", "")
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)
}

func TestEmailInvite_CreateIdempotentWhilePending(t *testing.T) {
	env := newTestEnv(t)
	room := env.createLiveRoom(t, alice, model.CreateRoomRequest{Name: "mail"})

	first, err := env.emailInvites.Create(room.ID, "friend@example.com", alice)
	require.NoError(t, err)
	second, err := env.emailInvites.Create(room.ID, "friend@example.com", bob)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Token, second.Token)

	// A different email gets its own token.
	other, err := env.emailInvites.Create(room.ID, "other@example.com", alice)
	require.NoError(t, err)
	assert.NotEqual(t, first.Token, other.Token)
}

func TestEmailInvite_ExpiredInviteIsReplaced(t *testing.T) {
	env := newTestEnv(t)
	room := env.createLiveRoom(t, alice, model.CreateRoomRequest{Name: "mail"})

	first, err := env.emailInvites.Create(room.ID, "friend@example.com", alice)
	require.NoError(t, err)
	require.NoError(t, env.db.Model(&model.EmailInvite{}).Where("id = ?", first.ID).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	second, err := env.emailInvites.Create(room.ID, "friend@example.com", alice)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestEmailInvite_Validate(t *testing.T) {
	env := newTestEnv(t)
	room := env.createLiveRoom(t, alice, model.CreateRoomRequest{Name: "mail"})
	invite, err := env.emailInvites.Create(room.ID, "friend@example.com", alice)
	require.NoError(t, err)

	valid, err := env.emailInvites.Validate(invite.Token)
	require.NoError(t, err)
	assert.True(t, valid.Valid)
	assert.Equal(t, room.ID, valid.RoomID)

	missing, err := env.emailInvites.Validate("nope")
	require.NoError(t, err)
	assert.False(t, missing.Valid)
	assert.Equal(t, "not_found", missing.Reason)
}

func TestEmailInvite_ValidatePastExpiryWithoutSweep(t *testing.T) {
	env := newTestEnv(t)
	room := env.createLiveRoom(t, alice, model.CreateRoomRequest{Name: "mail"})
	invite, err := env.emailInvites.Create(room.ID, "friend@example.com", alice)
	require.NoError(t, err)

	// 25h later, before any sweep has run.
	require.NoError(t, env.db.Model(&model.EmailInvite{}).Where("id = ?", invite.ID).
		Update("expires_at", time.Now().Add(-time.Hour)).Error)

	result, err := env.emailInvites.Validate(invite.Token)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "expired", result.Reason)

	// Validation is read-only: the record still reads pending.
	var got model.EmailInvite
	require.NoError(t, env.db.Where("id = ?", invite.ID).First(&got).Error)
	assert.Equal(t, string(model.EmailInviteStatusPending), got.Status)
}

func TestEmailInvite_Consume(t *testing.T) {
	env := newTestEnv(t)
	room := env.createLiveRoom(t, alice, model.CreateRoomRequest{Name: "mail"})
	invite, err := env.emailInvites.Create(room.ID, "friend@example.com", alice)
	require.NoError(t, err)

	roomID, err := env.emailInvites.Consume(invite.Token)
	require.NoError(t, err)
	assert.Equal(t, room.ID, roomID)

	var got model.EmailInvite
	require.NoError(t, env.db.Where("id = ?", invite.ID).First(&got).Error)
	assert.Equal(t, string(model.EmailInviteStatusUsed), got.Status)
	require.NotNil(t, got.UsedAt)

	// Distinct failures: used, unknown, expired.
	_, err = env.emailInvites.Consume(invite.Token)
	assert.ErrorIs(t, err, errs.ErrInvalidState)
	_, err = env.emailInvites.Consume("nope")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	expired, err := env.emailInvites.Create(room.ID, "late@example.com", alice)
	require.NoError(t, err)
	require.NoError(t, env.db.Model(&model.EmailInvite{}).Where("id = ?", expired.ID).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)
	_, err = env.emailInvites.Consume(expired.Token)
	assert.ErrorIs(t, err, errs.ErrExpired)
}

func TestEmailInvite_SweepExpired(t *testing.T) {
	env := newTestEnv(t)
	room := env.createLiveRoom(t, alice, model.CreateRoomRequest{Name: "mail"})

	fresh, err := env.emailInvites.Create(room.ID, "fresh@example.com", alice)
	require.NoError(t, err)
	stale, err := env.emailInvites.Create(room.ID, "stale@example.com", alice)
	require.NoError(t, err)
	used, err := env.emailInvites.Create(room.ID, "used@example.com", alice)
	require.NoError(t, err)
	_, err = env.emailInvites.Consume(used.Token)
	require.NoError(t, err)
	require.NoError(t, env.db.Model(&model.EmailInvite{}).Where("id = ?", stale.ID).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	count, err := env.emailInvites.SweepExpired()
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	var got model.EmailInvite
	require.NoError(t, env.db.Where("id = ?", stale.ID).First(&got).Error)
	assert.Equal(t, string(model.EmailInviteStatusExpired), got.Status)
	got = model.EmailInvite{}
	require.NoError(t, env.db.Where("id = ?", fresh.ID).First(&got).Error)
	assert.Equal(t, string(model.EmailInviteStatusPending), got.Status)
	got = model.EmailInvite{}
	require.NoError(t, env.db.Where("id = ?", used.ID).First(&got).Error)
	assert.Equal(t, string(model.EmailInviteStatusUsed), got.Status)
}
