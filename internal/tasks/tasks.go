package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task type names routed by the worker mux.
const (
	TypePurgePage   = "room:purge_page"
	TypeInviteSweep = "invite:sweep_expired"
)

// PurgePagePayload carries one purge iteration's continuation state.
type PurgePagePayload struct {
	Cursor   string `json:"cursor"` // last room ID of the previous page, "" for the first
	PageSize int    `json:"page_size"`
}

// NewPurgePageTask builds the task for one purge iteration.
func NewPurgePageTask(cursor string, pageSize int) (*asynq.Task, error) {
	payload, err := json.Marshal(PurgePagePayload{Cursor: cursor, PageSize: pageSize})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePurgePage, payload, asynq.MaxRetry(5)), nil
}

// NewInviteSweepTask builds the hourly expiry-sweep task. No payload.
func NewInviteSweepTask() *asynq.Task {
	return asynq.NewTask(TypeInviteSweep, nil, asynq.MaxRetry(3))
}
