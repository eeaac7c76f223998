package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/fairq/fairq"
	"github.com/fairq/fairq/types"
)

// defaultWorkDuration is how long a work request holds its session when the
// request does not say.
const defaultWorkDuration = 50 * time.Millisecond

// WorkResult describes one completed unit of simulated work.
type WorkResult struct {
	Session *Session       `json:"session"`
	Reused  bool           `json:"reused"`
	Waited  types.Duration `json:"waited"`
}

// handleWork checks a session out of the pool, holds it for the duration
// given in the "d" query parameter and returns what it got. Bare numbers in
// "d" are milliseconds.
func handleWork(cs *ControlSurface, rw http.ResponseWriter, r *http.Request) {
	rw.Header().Set("Content-Type", "application/json; charset=utf-8")

	workDuration := defaultWorkDuration
	if q := r.URL.Query().Get("d"); q != "" {
		var err error
		workDuration, err = types.ParseDuration(q)
		if err != nil {
			apiError(rw, "Invalid duration", err.Error(), http.StatusBadRequest)
			return
		}
	}

	start := time.Now()
	session, err := cs.Pool.GetContext(r.Context())
	if err != nil {
		if errors.Is(err, fairq.ErrNotAvailable) {
			apiError(rw, "Pool exhausted", err.Error(), http.StatusServiceUnavailable)
			return
		}
		apiError(rw, "Session error", err.Error(), http.StatusInternalServerError)
		return
	}
	waited := time.Since(start)
	defer cs.Pool.Put(session)

	reused := session.Uses > 0
	session.Uses++

	if workDuration > 0 {
		select {
		case <-time.After(workDuration):
		case <-r.Context().Done():
			return // client gone, just hand the session back
		}
	}
	cs.workDone.Add(1)

	data, err := json.Marshal(WorkResult{
		Session: session,
		Reused:  reused,
		Waited:  types.Duration(waited),
	})
	if err != nil {
		apiError(rw, "Encoding error", err.Error(), http.StatusInternalServerError)
		return
	}
	_, _ = rw.Write(data)
}
