package api

import (
	"encoding/json"
	"net/http"
	"time"

	"gopkg.in/guregu/null.v3"

	"github.com/fairq/fairq/types"
)

// Status reports the server's pool occupancy.
type Status struct {
	Capacity null.Int `json:"capacity"`
	InUse    null.Int `json:"in_use"`
	Idle     null.Int `json:"idle"`
	Waiting  null.Int `json:"waiting"`

	Uptime   types.Duration `json:"uptime"`
	WorkDone int64          `json:"work_done"`
}

// NewStatus snapshots the control surface into a Status document.
func NewStatus(cs *ControlSurface) Status {
	stats := cs.Pool.Stats()
	return Status{
		Capacity: null.IntFrom(stats.Capacity),
		InUse:    null.IntFrom(stats.InUse),
		Idle:     null.IntFrom(stats.Idle),
		Waiting:  null.IntFrom(stats.Waiting),
		Uptime:   types.Duration(time.Since(cs.StartedAt)),
		WorkDone: cs.workDone.Load(),
	}
}

func handleGetStatus(cs *ControlSurface, rw http.ResponseWriter, _ *http.Request) {
	data, err := json.Marshal(NewStatus(cs))
	if err != nil {
		apiError(rw, "Encoding error", err.Error(), http.StatusInternalServerError)
		return
	}
	rw.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = rw.Write(data)
}
