package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextalk/room-service/internal/errs"
	"github.com/nextalk/room-service/internal/model"
)

func TestInvite_RequiresHostOrCoHost(t *testing.T) {
	env := newTestEnv(t)
	room := env.createLiveRoom(t, alice, model.CreateRoomRequest{Name: "inv"})
	_, err := env.participants.Join(room.ID, bob)
	require.NoError(t, err)

	// Listener B cannot invite.
	_, err = env.invites.Invite(room.ID, bob, carol)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	// Outsider cannot invite.
	_, err = env.invites.Invite(room.ID, carol, dave)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	// Co-host can.
	require.NoError(t, env.participants.ChangeRole(room.ID, bob, alice, model.RoleCoHost))
	invite, err := env.invites.Invite(room.ID, bob, carol)
	require.NoError(t, err)
	assert.Equal(t, string(model.InviteStatusPending), invite.Status)
}

func TestInvite_PendingIsReturnedUnchanged(t *testing.T) {
	env := newTestEnv(t)
	room := env.createLiveRoom(t, alice, model.CreateRoomRequest{Name: "inv"})

	first, err := env.invites.Invite(room.ID, alice, bob)
	require.NoError(t, err)
	second, err := env.invites.Invite(room.ID, alice, bob)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, env.db.Model(&model.RoomInvite{}).
		Where("room_id = ? AND user_id = ?", room.ID, bob).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestInvite_ReopensDeclined(t *testing.T) {
	env := newTestEnv(t)
	room := env.createLiveRoom(t, alice, model.CreateRoomRequest{Name: "inv"})
	_, err := env.participants.Join(room.ID, carol)
	require.NoError(t, err)
	require.NoError(t, env.participants.ChangeRole(room.ID, carol, alice, model.RoleCoHost))

	invite, err := env.invites.Invite(room.ID, alice, bob)
	require.NoError(t, err)
	require.NoError(t, env.invites.Respond(invite.ID, model.InviteStatusDeclined))

	reopened, err := env.invites.Invite(room.ID, carol, bob)
	require.NoError(t, err)
	assert.Equal(t, invite.ID, reopened.ID)
	assert.Equal(t, string(model.InviteStatusPending), reopened.Status)
	assert.Equal(t, carol, reopened.InvitedBy)
}

func TestRespond_Validation(t *testing.T) {
	env := newTestEnv(t)
	room := env.createLiveRoom(t, alice, model.CreateRoomRequest{Name: "inv"})
	invite, err := env.invites.Invite(room.ID, alice, bob)
	require.NoError(t, err)

	assert.ErrorIs(t, env.invites.Respond(invite.ID, model.InviteStatus("maybe")), errs.ErrInvalidArgument)
	assert.ErrorIs(t, env.invites.Respond("missing", model.InviteStatusAccepted), errs.ErrNotFound)

	require.NoError(t, env.invites.Respond(invite.ID, model.InviteStatusAccepted))
	// Responding to a non-pending invitation is rejected.
	assert.ErrorIs(t, env.invites.Respond(invite.ID, model.InviteStatusDeclined), errs.ErrInvalidState)
}

func TestRespond_AcceptAutoJoinsLiveRoom(t *testing.T) {
	env := newTestEnv(t)
	room := env.createLiveRoom(t, alice, model.CreateRoomRequest{Name: "inv", IsPrivate: true})
	invite, err := env.invites.Invite(room.ID, alice, bob)
	require.NoError(t, err)

	require.NoError(t, env.invites.Respond(invite.ID, model.InviteStatusAccepted))

	var p model.Participant
	require.NoError(t, env.db.
		Where("room_id = ? AND user_id = ? AND left_at IS NULL", room.ID, bob).First(&p).Error)
	assert.Equal(t, string(model.RoleListener), p.Role)
	assert.Equal(t, 2, env.reloadRoom(t, room.ID).ParticipantCount)
}

func TestRespond_AcceptOnScheduledRoomDoesNotJoin(t *testing.T) {
	env := newTestEnv(t)
	room, err := env.rooms.Create(alice, model.CreateRoomRequest{Name: "later", ScheduledFor: future(time.Hour)})
	require.NoError(t, err)
	invite := model.RoomInvite{
		ID:        "10000000-0000-0000-0000-000000000001",
		RoomID:    room.ID,
		InvitedBy: alice,
		UserID:    bob,
		Status:    string(model.InviteStatusPending),
	}
	require.NoError(t, env.db.Create(&invite).Error)

	require.NoError(t, env.invites.Respond(invite.ID, model.InviteStatusAccepted))

	var count int64
	require.NoError(t, env.db.Model(&model.Participant{}).
		Where("room_id = ?", room.ID).Count(&count).Error)
	assert.Zero(t, count)
	assert.Zero(t, env.reloadRoom(t, room.ID).ParticipantCount)
}

func TestRespond_AcceptWhenAlreadyActiveDoesNotDoubleCount(t *testing.T) {
	env := newTestEnv(t)
	room := env.createLiveRoom(t, alice, model.CreateRoomRequest{Name: "inv"})
	invite, err := env.invites.Invite(room.ID, alice, bob)
	require.NoError(t, err)
	_, err = env.participants.Join(room.ID, bob)
	require.NoError(t, err)

	require.NoError(t, env.invites.Respond(invite.ID, model.InviteStatusAccepted))
	assert.Equal(t, 2, env.reloadRoom(t, room.ID).ParticipantCount)
}
