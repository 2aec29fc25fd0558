// Package session drives one multi-turn reminiscence session:
//
//	idle -> recording -> question-asked -> recording -> ... -> complete
//
// Speech arrives through a FragmentSource. Final fragments are punctuated and
// committed, interim fragments only affect Display. Asking the next question
// commits the current transcript as the answer to the previous one.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"

	"memory-companion-go/internal/narrative"
	"memory-companion-go/internal/punctuation"
	"memory-companion-go/internal/types"
)

// State is a session lifecycle state.
type State string

const (
	StateIdle          State = "idle"
	StateRecording     State = "recording"
	StateQuestionAsked State = "question-asked"
	StateComplete      State = "complete"
)

// ErrInvalidTransition is returned when an operation is not allowed in the
// session's current state.
var ErrInvalidTransition = errors.New("session: invalid transition")

// FragmentSource delivers recognizer output one fragment at a time. Next
// returns io.EOF once the speaker stops.
type FragmentSource interface {
	Next(ctx context.Context) (types.TranscriptFragment, error)
}

// QuestionGenerator proposes follow-up questions for a chapter given every
// answer so far, oldest first.
type QuestionGenerator func(chapter string, priorResponses []string) []string

// Option configures a Session.
type Option func(*Session)

// WithID overrides the generated session ID.
func WithID(id string) Option {
	return func(s *Session) {
		s.id = id
	}
}

// WithQuestionGenerator replaces narrative.GenerateFollowUps.
func WithQuestionGenerator(g QuestionGenerator) Option {
	return func(s *Session) {
		s.generate = g
	}
}

// Session holds the caller-owned state of one conversation. All methods are
// safe for concurrent use, but fragments for one session must be fed by a
// single producer to keep the committed transcript in order.
type Session struct {
	mu       sync.Mutex
	id       string
	chapter  string
	state    State
	current  punctuation.Transcript
	question string
	asked    map[string]struct{}
	history  []types.QA
	generate QuestionGenerator
}

// New returns an idle session for chapter.
func New(chapter string, opts ...Option) *Session {
	s := &Session{
		id:       uuid.NewString(),
		chapter:  chapter,
		state:    StateIdle,
		asked:    make(map[string]struct{}),
		generate: narrative.GenerateFollowUps,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) Chapter() string { return s.chapter }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start moves an idle session to recording.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transition(StateRecording, StateIdle)
}

// Feed applies one fragment to the transcript being recorded.
func (s *Session) Feed(f types.TranscriptFragment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRecording {
		return fmt.Errorf("%w: feed in state %s", ErrInvalidTransition, s.state)
	}
	s.current = s.current.Apply(f)
	return nil
}

// Record feeds fragments from src until it returns io.EOF. The lock is not
// held while waiting on src.
func (s *Session) Record(ctx context.Context, src FragmentSource) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		f, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("next fragment: %w", err)
		}
		if err := s.Feed(f); err != nil {
			return err
		}
	}
}

// AskNext commits the recorded transcript as the answer to the current
// question and returns the next question. It prefers a generated question
// that has not been asked yet.
func (s *Session) AskNext() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.transition(StateQuestionAsked, StateRecording); err != nil {
		return "", err
	}
	s.commit()

	candidates := s.generate(s.chapter, s.answers())
	next := ""
	for _, q := range candidates {
		if _, done := s.asked[q]; !done {
			next = q
			break
		}
	}
	if next == "" && len(candidates) > 0 {
		next = candidates[0]
	}
	s.question = next
	s.asked[next] = struct{}{}
	return next, nil
}

// Answer records the reply to the pending question from src.
func (s *Session) Answer(ctx context.Context, src FragmentSource) error {
	s.mu.Lock()
	err := s.transition(StateRecording, StateQuestionAsked)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.Record(ctx, src)
}

// Complete ends the session, committing any recorded answer, and returns the
// question and answer history.
func (s *Session) Complete() ([]types.QA, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.state
	if err := s.transition(StateComplete, StateRecording, StateQuestionAsked); err != nil {
		return nil, err
	}
	if prev == StateRecording {
		s.commit()
	}
	return append([]types.QA(nil), s.history...), nil
}

// History returns a copy of the committed question and answer pairs.
func (s *Session) History() []types.QA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.QA(nil), s.history...)
}

// Question returns the pending question, if any.
func (s *Session) Question() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.question
}

// Display returns the committed transcript of the current turn followed by
// any interim text.
func (s *Session) Display() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Display()
}

// Transcript joins every committed answer into one narrative.
func (s *Session) Transcript() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.Join(s.answers(), " ")
}

func (s *Session) transition(to State, from ...State) error {
	for _, f := range from {
		if s.state == f {
			s.state = to
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.state, to)
}

// commit stores the current turn. An empty opening turn is not recorded.
func (s *Session) commit() {
	answer := strings.TrimSpace(s.current.Committed)
	s.current = punctuation.Transcript{}
	if answer == "" && s.question == "" {
		return
	}
	s.history = append(s.history, types.QA{Question: s.question, Answer: answer})
}

func (s *Session) answers() []string {
	out := make([]string, 0, len(s.history))
	for _, qa := range s.history {
		if qa.Answer != "" {
			out = append(out, qa.Answer)
		}
	}
	return out
}

// Fragments returns a FragmentSource that replays fs and then reports io.EOF.
func Fragments(fs ...types.TranscriptFragment) FragmentSource {
	return &replaySource{fragments: fs}
}

type replaySource struct {
	mu        sync.Mutex
	fragments []types.TranscriptFragment
}

func (r *replaySource) Next(ctx context.Context) (types.TranscriptFragment, error) {
	if err := ctx.Err(); err != nil {
		return types.TranscriptFragment{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.fragments) == 0 {
		return types.TranscriptFragment{}, io.EOF
	}
	f := r.fragments[0]
	r.fragments = r.fragments[1:]
	return f, nil
}
