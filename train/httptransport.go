package train

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/gorgonia/agora/wire"
)

// DefaultExchangeTimeout bounds how long either side of the decision
// exchange waits for the other before giving up.
const DefaultExchangeTimeout = 30 * time.Second

// HTTPTransport serves the trainer boundary over HTTP with JSON bodies. The
// trainer drives the session as a client:
//
//	GET  /definition  the published training definition
//	POST /start       {"auto_reset_mode": "..."} begins a session
//	POST /update      a state update; the response body is the state
//	                  produced by the step it triggers
//
// A POST to /update parks the trainer's request until the connector resolves
// it and submits the resulting state, completing the exchange.
type HTTPTransport struct {
	mu      sync.Mutex
	def     *wire.TrainingDefinitionMsg
	started bool
	mode    AutoResetMode

	timeout time.Duration
	updates chan *pendingUpdate
	pending *pendingUpdate

	mux *http.ServeMux
}

type pendingUpdate struct {
	update *StateUpdate
	reply  chan *wire.StateMsg
}

// NewHTTPTransport builds a transport whose exchange waits are bounded by
// timeout. A timeout of zero waits forever, which stalls the simulation tick
// whenever the trainer does.
func NewHTTPTransport(timeout time.Duration) *HTTPTransport {
	t := &HTTPTransport{
		timeout: timeout,
		updates: make(chan *pendingUpdate, 1),
	}
	t.mux = http.NewServeMux()
	t.mux.HandleFunc("/definition", t.handleDefinition)
	t.mux.HandleFunc("/start", t.handleStart)
	t.mux.HandleFunc("/update", t.handleUpdate)
	return t
}

func (t *HTTPTransport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	t.mux.ServeHTTP(w, r)
}

// Init publishes the definition served at /definition.
func (t *HTTPTransport) Init(def *wire.TrainingDefinitionMsg) error {
	if def == nil {
		return errors.New("train: nil training definition")
	}
	t.mu.Lock()
	t.def = def
	t.mu.Unlock()
	return nil
}

// CheckForStart consumes a posted start request, if any.
func (t *HTTPTransport) CheckForStart() (AutoResetMode, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.started {
		return AutoResetDisabled, false
	}
	t.started = false
	return t.mode, true
}

// Resolve waits for the trainer's next update. When the timeout elapses
// first, the session is considered dead and an error is returned.
func (t *HTTPTransport) Resolve() (*StateUpdate, error) {
	if t.timeout <= 0 {
		p := <-t.updates
		t.pending = p
		return p.update, nil
	}
	select {
	case p := <-t.updates:
		t.pending = p
		return p.update, nil
	case <-time.After(t.timeout):
		return nil, errors.Errorf("train: no update within %v", t.timeout)
	}
}

// Submit answers the pending update's HTTP request with the state.
func (t *HTTPTransport) Submit(msg *wire.StateMsg) error {
	if t.pending == nil {
		return errors.New("train: no pending decision to answer")
	}
	t.pending.reply <- msg
	t.pending = nil
	return nil
}

func (t *HTTPTransport) handleDefinition(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	t.mu.Lock()
	def := t.def
	t.mu.Unlock()
	if def == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, def)
}

func (t *HTTPTransport) handleStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		AutoResetMode string `json:"auto_reset_mode"`
	}
	if r.Body != nil {
		// An empty body is a plain start with auto-reset disabled.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	mode, err := ParseAutoResetMode(req.AutoResetMode)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	t.mu.Lock()
	t.started = true
	t.mode = mode
	t.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (t *HTTPTransport) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var msg wire.StateUpdateMsg
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	update, err := UpdateFromWire(&msg)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	p := &pendingUpdate{update: update, reply: make(chan *wire.StateMsg, 1)}
	if !t.enqueue(p, w) {
		return
	}

	// Closing or erroring the connector produces no submission; the empty
	// state answer unblocks the trainer either way.
	if t.timeout <= 0 {
		writeJSON(w, <-p.reply)
		return
	}
	select {
	case reply := <-p.reply:
		writeJSON(w, reply)
	case <-time.After(t.timeout):
		writeJSON(w, &wire.StateMsg{})
	}
}

func (t *HTTPTransport) enqueue(p *pendingUpdate, w http.ResponseWriter) bool {
	if t.timeout <= 0 {
		t.updates <- p
		return true
	}
	select {
	case t.updates <- p:
		return true
	case <-time.After(t.timeout):
		// Nobody is stepping the connector.
		w.WriteHeader(http.StatusServiceUnavailable)
		return false
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}
