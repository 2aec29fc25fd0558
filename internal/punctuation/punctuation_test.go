package punctuation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memory-companion-go/internal/types"
)

func TestPunctuate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"question word", "what is your favorite color", "What is your favorite color?"},
		{"statement", "the garden was lovely", "The garden was lovely."},
		{"auxiliary question", "did you see the birds", "Did you see the birds?"},
		{"trailing tag question", "you were there right", "You were there right?"},
		{"trailing terminal is replaced", "where did we park...", "Where did we park?"},
		{"pronoun capitalised", "i think i'm ready", "I think I'm ready."},
		{"split after filler", "i went to the store and then i bought milk", "I went to the store and then. I bought milk."},
		{"split at capitalised connective", "we lived in the old house on elm street However we moved later", "We lived in the old house on elm street. However we moved later."},
		{"short input is never split", "we left and Then came back", "We left and Then came back."},
		{"comma spacing", "well , it was fine,really", "Well, it was fine, really."},
		{"digit groups keep commas", "it cost 1,000 dollars", "It cost 1,000 dollars."},
		{"whitespace collapsed", "  so   many   spaces  ", "So many spaces."},
		{"empty", "", ""},
		{"only punctuation", "?!.", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Punctuate(tt.in))
		})
	}
}

func TestPunctuate_BoundaryNeedsFiveWords(t *testing.T) {
	// "Then" directly follows "and" but only three words precede it.
	got := Punctuate("we went and Then we came back home to rest for the night")
	require.Equal(t, "We went and Then we came back home to rest for the night.", got)
}

func TestIsQuestion(t *testing.T) {
	assert.True(t, IsQuestion("How are you"))
	assert.True(t, IsQuestion("Could you help"))
	assert.False(t, IsQuestion("Is"))
	assert.True(t, IsQuestion("That was fun, eh"))
	assert.False(t, IsQuestion("I like tea"))
	assert.False(t, IsQuestion(""))
}

func TestMergeSpeechResult(t *testing.T) {
	tests := []struct {
		name     string
		final    string
		interim  string
		existing string
		want     string
	}{
		{"first final", "hello there", "", "", "Hello there."},
		{"final appended after committed", "how are you", "", "Hello there.", "Hello there. How are you?"},
		{"interim appended verbatim", "", "and then we", "Hello there.", "Hello there. and then we"},
		{"final and interim", "good morning", "it is", "", "Good morning. it is"},
		{"no fragments leaves existing", "", "", "Hello there.", "Hello there."},
		{"blank fragments leave existing", "  ", "\t", "Hello there.", "Hello there."},
		{"existing ending in space", "yes", "", "Hello there. ", "Hello there. Yes."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, MergeSpeechResult(tt.final, tt.interim, tt.existing))
		})
	}
}

func TestMergeSpeechResult_CommittedTextIsIdempotent(t *testing.T) {
	existing := ""
	for _, f := range []string{"i grew up on a farm", "we had cows and chickens", "did you ever milk a cow"} {
		existing = MergeSpeechResult(f, "", existing)
	}
	require.Equal(t, existing, MergeSpeechResult("", "", existing))
}

func TestMergeSpeechResult_MonotonicGrowth(t *testing.T) {
	existing := "We met in Paris."
	cases := [][2]string{{"it was spring", ""}, {"", "and the"}, {"we danced", "all"}}
	for _, c := range cases {
		got := MergeSpeechResult(c[0], c[1], existing)
		require.GreaterOrEqual(t, len(got), len(existing))
		require.Contains(t, got, existing)
	}
}

func TestTranscript_Apply(t *testing.T) {
	var tr Transcript
	tr = tr.Apply(types.TranscriptFragment{Text: "my mother", IsFinal: false})
	require.Equal(t, "", tr.Committed)
	require.Equal(t, "my mother", tr.Display())

	tr = tr.Apply(types.TranscriptFragment{Text: "my mother baked bread", IsFinal: false})
	require.Equal(t, "my mother baked bread", tr.Display())

	tr = tr.Apply(types.TranscriptFragment{Text: "my mother baked bread every sunday", IsFinal: true})
	require.Equal(t, "My mother baked bread every sunday.", tr.Committed)
	require.Empty(t, tr.Interim)

	tr = tr.Apply(types.TranscriptFragment{Text: "it smelled"})
	require.Equal(t, "My mother baked bread every sunday. it smelled", tr.Display())
	require.Equal(t, "My mother baked bread every sunday.", tr.Committed)
}
