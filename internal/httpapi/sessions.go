package httpapi

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"memory-companion-go/internal/session"
	"memory-companion-go/internal/types"
)

const (
	defaultMaxSessions = 1000
	defaultSessionIdle = 30 * time.Minute
)

// errStoreFull is returned when every live-session slot is taken by a
// session that has not been idle long enough to evict.
var errStoreFull = errors.New("too many live sessions")

type storedSession struct {
	sess    *session.Session
	touched time.Time
}

// sessionStore keeps live conversations until they are completed. Sessions
// untouched for longer than idle are dropped on the next put or get, and put
// refuses new sessions once limit live ones remain.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*storedSession
	limit    int
	idle     time.Duration
	now      func() time.Time
}

func newSessionStore(limit int, idle time.Duration) *sessionStore {
	if limit <= 0 {
		limit = defaultMaxSessions
	}
	if idle <= 0 {
		idle = defaultSessionIdle
	}
	return &sessionStore{
		sessions: make(map[string]*storedSession),
		limit:    limit,
		idle:     idle,
		now:      time.Now,
	}
}

func (st *sessionStore) put(s *session.Session) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sweep()
	if len(st.sessions) >= st.limit {
		return errStoreFull
	}
	st.sessions[s.ID()] = &storedSession{sess: s, touched: st.now()}
	return nil
}

// get returns a live session and marks it as used.
func (st *sessionStore) get(id string) (*session.Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	e, ok := st.sessions[id]
	if !ok {
		return nil, false
	}
	now := st.now()
	if now.Sub(e.touched) > st.idle {
		delete(st.sessions, id)
		return nil, false
	}
	e.touched = now
	return e.sess, true
}

func (st *sessionStore) remove(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

func (st *sessionStore) size() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// sweep drops idle sessions. st.mu must be held.
func (st *sessionStore) sweep() {
	now := st.now()
	for id, e := range st.sessions {
		if now.Sub(e.touched) > st.idle {
			delete(st.sessions, id)
		}
	}
}

type sessionView struct {
	ID       string               `json:"id"`
	Chapter  string               `json:"chapter,omitempty"`
	State    session.State        `json:"state"`
	Question string               `json:"question,omitempty"`
	Display  string               `json:"display,omitempty"`
	History  []types.QA           `json:"history"`
	Report   *types.SessionReport `json:"report,omitempty"`
}

func viewOf(s *session.Session) sessionView {
	return sessionView{
		ID:       s.ID(),
		Chapter:  s.Chapter(),
		State:    s.State(),
		Question: s.Question(),
		Display:  s.Display(),
		History:  s.History(),
	}
}

type createSessionRequest struct {
	Chapter string `json:"chapter"`
}

func (s *Server) handleSessionCreate(w http.ResponseWriter, r *http.Request) {
	reqLog := s.reqLog(r, "sessions.create")
	var req createSessionRequest
	if err := decode(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		writeError(w, http.StatusBadRequest, err.Error(), reqLog)
		return
	}
	sess := session.New(req.Chapter)
	if err := s.sessions.put(sess); err != nil {
		reqLog.WithError(err).Warn("session rejected")
		writeError(w, http.StatusServiceUnavailable, err.Error(), reqLog)
		return
	}
	reqLog.WithField("session_id", sess.ID()).Info("session created")
	writeJSON(w, http.StatusCreated, viewOf(sess), reqLog)
}

// lookup resolves the {id} path value, writing a 404 when it is unknown.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request, handler string) (*session.Session, bool) {
	id := r.PathValue("id")
	sess, ok := s.sessions.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown session "+id, s.reqLog(r, handler))
	}
	return sess, ok
}

func (s *Server) transitionError(w http.ResponseWriter, err error, handler string, r *http.Request) {
	reqLog := s.reqLog(r, handler)
	if errors.Is(err, session.ErrInvalidTransition) {
		writeError(w, http.StatusConflict, err.Error(), reqLog)
		return
	}
	reqLog.WithError(err).Warn("session operation failed")
	writeError(w, http.StatusInternalServerError, err.Error(), reqLog)
}

func (s *Server) handleSessionGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r, "sessions.get")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess), s.reqLog(r, "sessions.get"))
}

func (s *Server) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r, "sessions.start")
	if !ok {
		return
	}
	if err := sess.Start(); err != nil {
		s.transitionError(w, err, "sessions.start", r)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess), s.reqLog(r, "sessions.start"))
}

type fragmentsRequest struct {
	Fragments []types.TranscriptFragment `json:"fragments"`
}

// handleSessionFragments records speech for the current turn. A session
// waiting on a question starts its answer with these fragments.
func (s *Server) handleSessionFragments(w http.ResponseWriter, r *http.Request) {
	reqLog := s.reqLog(r, "sessions.fragments")
	sess, ok := s.lookup(w, r, "sessions.fragments")
	if !ok {
		return
	}
	var req fragmentsRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), reqLog)
		return
	}
	src := session.Fragments(req.Fragments...)
	var err error
	if sess.State() == session.StateQuestionAsked {
		err = sess.Answer(r.Context(), src)
	} else {
		err = sess.Record(r.Context(), src)
	}
	if err != nil {
		s.transitionError(w, err, "sessions.fragments", r)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess), reqLog)
}

func (s *Server) handleSessionAsk(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r, "sessions.ask")
	if !ok {
		return
	}
	if _, err := sess.AskNext(); err != nil {
		s.transitionError(w, err, "sessions.ask", r)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess), s.reqLog(r, "sessions.ask"))
}

// handleSessionComplete ends the conversation, analyses the whole narrative
// and forgets the session.
func (s *Server) handleSessionComplete(w http.ResponseWriter, r *http.Request) {
	reqLog := s.reqLog(r, "sessions.complete")
	sess, ok := s.lookup(w, r, "sessions.complete")
	if !ok {
		return
	}
	history, err := sess.Complete()
	if err != nil {
		s.transitionError(w, err, "sessions.complete", r)
		return
	}
	s.sessions.remove(sess.ID())

	rep := s.proc.ProcessSession(r.Context(), types.SessionRecord{
		SessionID:  sess.ID(),
		Chapter:    sess.Chapter(),
		Transcript: sess.Transcript(),
	})
	view := viewOf(sess)
	view.Report = &rep
	reqLog.WithField("session_id", sess.ID()).WithField("turns", len(history)).Info("session completed")
	writeJSON(w, http.StatusOK, view, reqLog)
}
