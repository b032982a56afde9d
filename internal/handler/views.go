package handler

import "github.com/nextalk/room-service/internal/model"

func roomView(r *model.Room) model.RoomView {
	return model.RoomView{
		ID:                   r.ID,
		Name:                 r.Name,
		Description:          r.Description,
		CreatedBy:            r.CreatedBy,
		Status:               model.RoomStatus(r.Status),
		ScheduledFor:         r.ScheduledFor,
		StartedAt:            r.StartedAt,
		EndedAt:              r.EndedAt,
		IsPrivate:            r.IsPrivate,
		IsRecorded:           r.IsRecorded,
		ParticipantCount:     r.ParticipantCount,
		PeakParticipantCount: r.PeakParticipantCount,
		CreatedAt:            r.CreatedAt,
	}
}

func participantView(p *model.Participant) model.ParticipantView {
	return model.ParticipantView{
		ID:            p.ID,
		RoomID:        p.RoomID,
		UserID:        p.UserID,
		Role:          model.Role(p.Role),
		JoinedAt:      p.JoinedAt,
		LeftAt:        p.LeftAt,
		IsMuted:       p.IsMuted,
		HasRaisedHand: p.HasRaisedHand,
	}
}

func inviteView(i *model.RoomInvite) model.InviteView {
	return model.InviteView{
		ID:        i.ID,
		RoomID:    i.RoomID,
		InvitedBy: i.InvitedBy,
		UserID:    i.UserID,
		Status:    model.InviteStatus(i.Status),
		CreatedAt: i.CreatedAt,
	}
}

func emailInviteView(i *model.EmailInvite) model.EmailInviteView {
	return model.EmailInviteView{
		ID:        i.ID,
		RoomID:    i.RoomID,
		Email:     i.Email,
		Token:     i.Token,
		Status:    model.EmailInviteStatus(i.Status),
		CreatedAt: i.CreatedAt,
		ExpiresAt: i.ExpiresAt,
	}
}

func signalView(s *model.Signal) model.SignalView {
	return model.SignalView{
		ID:         s.ID,
		RoomID:     s.RoomID,
		SenderID:   s.SenderID,
		ReceiverID: s.ReceiverID,
		Type:       model.SignalType(s.Type),
		Payload:    s.Payload,
		CreatedAt:  s.CreatedAt,
	}
}
