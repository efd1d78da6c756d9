package web

import (
	"encoding/json"
	"io/fs"
	"net/http"
	"time"

	"github.com/cjeanneret/SumoGo/internal/config"
	"github.com/cjeanneret/SumoGo/internal/logic/action"
)

// ActionTrigger queues a discrete action request into the control loop.
// It reports whether the request was taken; the scheduler still applies
// its own admission rules on the next tick.
type ActionTrigger interface {
	Request(a action.Action) bool
}

// actionRequest is the POST /action body.
type actionRequest struct {
	Action string `json:"action"`
}

// calibrationView is the GET /config response: the active calibration,
// read-only (the config surface is startup-only, never runtime-mutable).
type calibrationView struct {
	Drive         config.DriveConfig   `json:"drive"`
	SpeedCurve    config.CurveConfig   `json:"speed_curve"`
	RotationCurve config.CurveConfig   `json:"rotation_curve"`
	Actions       config.ActionsConfig `json:"actions"`
}

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	Broadcaster *StatusBroadcaster
	Trigger     ActionTrigger
	cfg         *config.Config
	staticFS    fs.FS
}

// NewHandlers creates handlers with the given dependencies.
// If trigger is nil, POST /action will return 503 Service Unavailable.
func NewHandlers(broadcaster *StatusBroadcaster, trigger ActionTrigger, cfg *config.Config, staticFS fs.FS) *Handlers {
	return &Handlers{
		Broadcaster: broadcaster,
		Trigger:     trigger,
		cfg:         cfg,
		staticFS:    staticFS,
	}
}

// HandleConfig returns the active calibration as JSON.
func (h *Handlers) HandleConfig(w http.ResponseWriter, r *http.Request) {
	view := calibrationView{
		Drive:         h.cfg.Drive,
		SpeedCurve:    h.cfg.SpeedCurve,
		RotationCurve: h.cfg.RotationCurve,
		Actions:       h.cfg.Actions,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(view)
}

// ServeIndex serves the console page (root path only).
func (h *Handlers) ServeIndex(w http.ResponseWriter, r *http.Request) {
	data, err := fs.ReadFile(h.staticFS, "index.html")
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// HandleAction handles POST /action to queue a discrete action. The
// request goes through the same admission path as a gamepad button.
func (h *Handlers) HandleAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	a, err := action.Parse(req.Action)
	if err != nil || a == action.Neutral {
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}

	if h.Trigger == nil {
		http.Error(w, "control loop not running", http.StatusServiceUnavailable)
		return
	}

	if !h.Trigger.Request(a) {
		http.Error(w, "a request is already pending", http.StatusConflict)
		return
	}

	h.Broadcaster.BroadcastMsg("Action requested from console: " + a.String())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"status": "queued", "action": a.String()})
}

// HandleStatusStream handles GET /status/stream for SSE.
func (h *Handlers) HandleStatusStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // nginx

	ch, unsub := h.Broadcaster.Subscribe()
	defer unsub()

	// Send initial comment to establish connection
	w.Write([]byte(": connected\n\n"))
	flusher.Flush()

	// Heartbeat while idle
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			w.Write([]byte("data: " + msg + "\n\n"))
			flusher.Flush()

		case <-ticker.C:
			w.Write([]byte(": heartbeat\n\n"))
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
