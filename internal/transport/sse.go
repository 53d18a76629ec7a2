package transport

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/exa-labs/exa-mcp-server-go/internal/errors"
	"github.com/exa-labs/exa-mcp-server-go/internal/protocol"
)

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 5 * time.Second

// session is one live SSE client connection. Messages posted for the session
// flow through inbox and are handled one at a time, so ordering holds within
// a session but not across sessions.
type session struct {
	id      string
	w       http.ResponseWriter
	flusher http.Flusher

	inbox chan []byte
	done  chan struct{}
	once  sync.Once

	writeMu sync.Mutex // serializes stream writes
}

// close marks the session dead. Results still in flight are discarded on the
// next send.
func (s *session) close() {
	s.once.Do(func() { close(s.done) })
}

// send writes one SSE event to the stream.
func (s *session) send(event string, data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	select {
	case <-s.done:
		return errors.ErrTransportClosed
	default:
	}

	fmt.Fprintf(s.w, "event: %s\n", event)

	for _, line := range bytes.Split(data, []byte{'\n'}) {
		fmt.Fprintf(s.w, "data: %s\n", line)
	}

	fmt.Fprint(s.w, "\n")
	s.flusher.Flush()

	return nil
}

// SSE serves the protocol over HTTP: a long-lived GET /sse event stream per
// session plus POST /messages for client-to-server messages. Session
// establishment is gated by a static bearer token.
type SSE struct {
	log    *slog.Logger
	server *protocol.Server
	addr   string
	token  string

	baseCtx    context.Context
	httpServer *http.Server

	mu       sync.Mutex
	sessions map[string]*session
}

// Compile-time verification that SSE implements Transport.
var _ Transport = (*SSE)(nil)

// NewSSE creates an SSE transport listening on addr. token is the shared
// secret for session establishment; an empty token rejects all sessions.
func NewSSE(log *slog.Logger, server *protocol.Server, addr, token string) *SSE {
	return &SSE{
		log:      log.With("component", "sse_transport"),
		server:   server,
		addr:     addr,
		token:    token,
		baseCtx:  context.Background(),
		sessions: make(map[string]*session, 8),
	}
}

// Handler returns the HTTP handler serving both endpoints. Exposed so tests
// can drive the transport through httptest without a listener.
func (t *SSE) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /sse", RequireBearer(t.log, t.token, http.HandlerFunc(t.handleSSE)))
	mux.HandleFunc("POST /messages", t.handleMessages)

	return mux
}

// Run serves HTTP until ctx is cancelled.
func (t *SSE) Run(ctx context.Context) error {
	t.baseCtx = ctx
	t.httpServer = &http.Server{
		Addr:        t.addr,
		Handler:     t.Handler(),
		ReadTimeout: 0, // the SSE stream stays open indefinitely
	}

	t.log.Info("Serving on HTTP", "addr", t.addr)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := t.httpServer.ListenAndServe()
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	})

	g.Go(func() error {
		<-gCtx.Done()

		t.closeSessions()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return t.httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// handleSSE establishes a new session and streams protocol responses to the
// client until it disconnects. Auth has already passed by the time this runs.
func (t *SSE) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// ULIDs draw from crypto/rand, so ids are unpredictable and never reused.
	sess := &session{
		id:      ulid.Make().String(),
		w:       w,
		flusher: flusher,
		inbox:   make(chan []byte, 16),
		done:    make(chan struct{}),
	}

	t.mu.Lock()
	t.sessions[sess.id] = sess
	t.mu.Unlock()

	t.log.Info("Session established", "sessionId", sess.id)

	// Connection close is the sole destructor path for a session.
	defer func() {
		sess.close()

		t.mu.Lock()
		delete(t.sessions, sess.id)
		t.mu.Unlock()

		t.log.Info("Session closed", "sessionId", sess.id)
	}()

	// Tell the client where to post its messages.
	if err := sess.send("endpoint", []byte("/messages?sessionId="+sess.id)); err != nil {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return

		case <-sess.done:
			return

		case msg := <-sess.inbox:
			// Handler invocations outlive the session on purpose: closing
			// the connection never aborts an in-flight upstream call, the
			// result is simply dropped by send once the session is gone.
			resp := t.server.Handle(t.baseCtx, msg)
			if resp == nil {
				continue
			}

			if err := sess.send("message", resp); err != nil {
				return
			}
		}
	}
}

// handleMessages forwards one client message into its session.
func (t *SSE) handleMessages(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		http.Error(w, "missing sessionId query parameter", http.StatusBadRequest)
		return
	}

	t.mu.Lock()
	sess, ok := t.sessions[sessionID]
	t.mu.Unlock()

	if !ok {
		// Unknown, expired, or never-authenticated session. Sessions are
		// never created implicitly here.
		t.log.Warn("Message for unknown session", "sessionId", sessionID)
		http.Error(w, errors.ErrSessionNotFound.Error()+": "+sessionID, http.StatusBadRequest)

		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxScanTokenSize))
	if err != nil {
		http.Error(w, "failed to read message body", http.StatusBadRequest)
		return
	}

	select {
	case sess.inbox <- body:
	case <-sess.done:
		http.Error(w, errors.ErrSessionNotFound.Error()+": "+sessionID, http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusAccepted)
	w.Write([]byte("Accepted"))
}

// closeSessions tears down all live sessions during shutdown.
func (t *SSE) closeSessions() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, sess := range t.sessions {
		sess.close()
	}
}
