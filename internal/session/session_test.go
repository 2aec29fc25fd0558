package session

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"memory-companion-go/internal/types"
)

type sliceSource struct {
	fragments []types.TranscriptFragment
	err       error
}

func (s *sliceSource) Next(ctx context.Context) (types.TranscriptFragment, error) {
	if len(s.fragments) == 0 {
		if s.err != nil {
			return types.TranscriptFragment{}, s.err
		}
		return types.TranscriptFragment{}, io.EOF
	}
	f := s.fragments[0]
	s.fragments = s.fragments[1:]
	return f, nil
}

func final(text string) types.TranscriptFragment   { return types.TranscriptFragment{Text: text, IsFinal: true} }
func interim(text string) types.TranscriptFragment { return types.TranscriptFragment{Text: text} }

func fixedQuestions(qs ...string) QuestionGenerator {
	return func(string, []string) []string { return qs }
}

func TestSession_FullConversation(t *testing.T) {
	ctx := context.Background()
	s := New(types.ChapterCareer, WithID("s1"), WithQuestionGenerator(fixedQuestions("Q1", "Q2")))
	require.Equal(t, "s1", s.ID())
	require.Equal(t, StateIdle, s.State())

	require.NoError(t, s.Start())
	require.NoError(t, s.Record(ctx, &sliceSource{fragments: []types.TranscriptFragment{
		interim("i was a"),
		final("i was a teacher"),
	}}))
	require.Equal(t, "I was a teacher.", s.Display())

	q, err := s.AskNext()
	require.NoError(t, err)
	require.Equal(t, "Q1", q)
	require.Equal(t, StateQuestionAsked, s.State())
	require.Equal(t, []types.QA{{Question: "", Answer: "I was a teacher."}}, s.History())
	require.Empty(t, s.Display())

	_, err = s.AskNext()
	require.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, s.Answer(ctx, &sliceSource{fragments: []types.TranscriptFragment{
		final("for thirty years"),
		interim("and"),
	}}))
	require.Equal(t, StateRecording, s.State())
	require.Equal(t, "For thirty years. and", s.Display())

	q, err = s.AskNext()
	require.NoError(t, err)
	require.Equal(t, "Q2", q)

	history, err := s.Complete()
	require.NoError(t, err)
	require.Equal(t, []types.QA{
		{Question: "", Answer: "I was a teacher."},
		{Question: "Q1", Answer: "For thirty years."},
	}, history)
	require.Equal(t, StateComplete, s.State())
	require.Equal(t, "I was a teacher. For thirty years.", s.Transcript())

	require.ErrorIs(t, s.Start(), ErrInvalidTransition)
	_, err = s.Complete()
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSession_CompleteWhileRecordingCommits(t *testing.T) {
	s := New("", WithQuestionGenerator(fixedQuestions("Q1")))
	require.NoError(t, s.Start())
	_, err := s.AskNext()
	require.NoError(t, err)
	require.NoError(t, s.Answer(context.Background(), &sliceSource{fragments: []types.TranscriptFragment{final("my garden")}}))

	history, err := s.Complete()
	require.NoError(t, err)
	require.Equal(t, []types.QA{{Question: "Q1", Answer: "My garden."}}, history)
}

func TestSession_RepeatsWhenAllAsked(t *testing.T) {
	s := New("", WithQuestionGenerator(fixedQuestions("Only")))
	require.NoError(t, s.Start())
	q, err := s.AskNext()
	require.NoError(t, err)
	require.Equal(t, "Only", q)
	require.NoError(t, s.Answer(context.Background(), &sliceSource{}))
	q, err = s.AskNext()
	require.NoError(t, err)
	require.Equal(t, "Only", q)
	require.Equal(t, "Only", s.Question())
}

func TestSession_DefaultGenerator(t *testing.T) {
	s := New(types.ChapterTravel)
	require.NotEmpty(t, s.ID())
	require.NoError(t, s.Start())
	q, err := s.AskNext()
	require.NoError(t, err)
	require.NotEmpty(t, q)
	require.Empty(t, s.History())
}

func TestSession_InvalidTransitions(t *testing.T) {
	s := New("")
	require.ErrorIs(t, s.Feed(final("hello")), ErrInvalidTransition)
	_, err := s.AskNext()
	require.ErrorIs(t, err, ErrInvalidTransition)
	require.ErrorIs(t, s.Answer(context.Background(), &sliceSource{}), ErrInvalidTransition)
	_, err = s.Complete()
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSession_RecordErrors(t *testing.T) {
	s := New("")
	require.NoError(t, s.Start())

	mic := errors.New("microphone unplugged")
	err := s.Record(context.Background(), &sliceSource{
		fragments: []types.TranscriptFragment{final("hello there")},
		err:       mic,
	})
	require.ErrorIs(t, err, mic)
	require.Equal(t, "Hello there.", s.Display())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, s.Record(ctx, &sliceSource{}), context.Canceled)
}

func TestFragments(t *testing.T) {
	s := New("")
	require.NoError(t, s.Start())
	require.NoError(t, s.Record(context.Background(), Fragments(final("one two"), interim("three"))))
	require.Equal(t, "One two. three", s.Display())
}
