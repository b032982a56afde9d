package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nextalk/room-service/internal/handler"
	"github.com/nextalk/room-service/pkg/constants"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Rooms        *handler.RoomHandler
	Participants *handler.ParticipantHandler
	Invites      *handler.InviteHandler
	Signals      *handler.SignalHandler
	SignalWS     *handler.SignalWSHandler
	Admin        *handler.AdminHandler
	Health       *handler.HealthHandler
}

// New builds the HTTP router. identity resolves the caller on every request;
// requireAuth gates the mutating routes.
func New(h Handlers, identity, requireAuth gin.HandlerFunc) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(identity)

	r.GET(constants.PathHealth, h.Health.Health)
	r.GET(constants.PathReady, h.Health.Ready)

	rooms := r.Group("/rooms")
	{
		rooms.GET("", h.Rooms.ListRooms)
		rooms.GET("/:id", h.Rooms.GetRoom)
		rooms.POST("", requireAuth, h.Rooms.CreateRoom)
		rooms.POST("/:id/start", requireAuth, h.Rooms.StartRoom)
		rooms.POST("/:id/end", requireAuth, h.Rooms.EndRoom)
		rooms.DELETE("/:id", requireAuth, h.Rooms.DeleteRoom)

		rooms.POST("/:id/join", requireAuth, h.Participants.JoinRoom)
		rooms.GET("/:id/participants", h.Participants.GetParticipants)
		rooms.PATCH("/:id/participants/role", requireAuth, h.Participants.ChangeRole)
		rooms.PATCH("/:id/hand", requireAuth, h.Participants.RaiseHand)

		rooms.POST("/:id/invites", requireAuth, h.Invites.InviteUser)
		rooms.POST("/:id/email-invites", requireAuth, h.Invites.CreateEmailInvite)

		rooms.GET("/:id/signals", requireAuth, h.Signals.ReceiveRoomSignals)
	}

	participants := r.Group("/participants")
	{
		participants.POST("/:id/leave", requireAuth, h.Participants.LeaveRoom)
		participants.PATCH("/:id/mute", requireAuth, h.Participants.ToggleMute)
	}

	invites := r.Group("/invites")
	{
		invites.POST("/:id/respond", requireAuth, h.Invites.RespondInvite)
	}

	emailInvites := r.Group("/email-invites")
	{
		emailInvites.GET("/:token", h.Invites.ValidateEmailInvite)
		emailInvites.POST("/:token/consume", requireAuth, h.Invites.ConsumeEmailInvite)
	}

	signals := r.Group("/signals")
	{
		signals.POST("", requireAuth, h.Signals.SendSignal)
		signals.GET("", requireAuth, h.Signals.ReceiveSignals)
		signals.POST("/:id/ack", requireAuth, h.Signals.AckSignal)
	}

	admin := r.Group("/admin", requireAuth)
	{
		admin.POST("/purge", h.Admin.PurgeRooms)
		admin.POST("/sweep-invites", h.Admin.SweepInvites)
	}

	// WebSocket: mailbox wake-up subscription
	r.GET("/ws/signals/:user_id", h.SignalWS.ServeWS)

	return r
}
