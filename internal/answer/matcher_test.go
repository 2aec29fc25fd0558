package answer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatcher_Explain(t *testing.T) {
	tests := []struct {
		name    string
		user    string
		correct string
		want    bool
		stage   Stage
	}{
		{"exact after fold", "  PARIS ", "paris", true, StageExact},
		{"containment", "Paris, France", "paris", true, StageContains},
		{"number words", "thirty years", "30 years", true, StageNumbers},
		{"digit vs word", "3", "three", true, StageNumbers},
		{"synonyms", "my grandkids", "grandchildren", true, StageSynonyms},
		{"abbreviated unit", "about thirty yrs", "30 years", true, StageSynonyms},
		{"numeric with short remainder", "1965 ok", "it was 1965", true, StageNumeric},
		{"stop words", "the dog is brown", "a dog brown", true, StageStopWords},
		{"word overlap", "red green blue yellow", "red green blue purple", true, StageOverlap},
		{"phonetic typo", "shakespere", "shakespeare", true, StagePhonetic},
		{"negative control", "apple", "banana", false, StageNone},
		{"different numbers", "1964", "1965", false, StageNone},
		{"empty user", "", "anything", false, StageNone},
		{"empty correct", "anything", "", false, StageNone},
		{"whitespace only", "   ", "x", false, StageNone},
	}
	m := NewMatcher()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, stage := m.Explain(tt.user, tt.correct)
			require.Equal(t, tt.want, ok)
			require.Equal(t, tt.stage, stage, "stage %s", stage)
		})
	}
}

func TestMatch_PackageLevel(t *testing.T) {
	require.True(t, Match("thirty years", "30 years"))
	require.True(t, Match("3", "three"))
	require.False(t, Match("apple", "banana"))
	require.False(t, Match("", "anything"))
}

func TestMatcher_OverlapThreshold(t *testing.T) {
	strict := NewMatcher(WithOverlapThreshold(0.8))
	require.False(t, strict.Match("red green blue yellow", "red green blue purple"))
}

func TestMatcher_PhoneticThreshold(t *testing.T) {
	never := NewMatcher(WithPhoneticThreshold(1.01))
	require.False(t, never.Match("shakespere", "shakespeare"))
}

func TestMatcher_PhoneticSkipsShortWords(t *testing.T) {
	ok, _ := NewMatcher().Explain("cat", "cap")
	require.False(t, ok)
}

func TestOverlap(t *testing.T) {
	require.InDelta(t, 2.0/3.0, Overlap("a b c", "a b d"), 1e-9)
	require.Equal(t, 1.0, Overlap("blue, red", "red blue"))
	require.Equal(t, 0.0, Overlap("", "x"))
}

func TestStage_String(t *testing.T) {
	require.Equal(t, "numbers", StageNumbers.String())
	require.Equal(t, "none", Stage(99).String())
}
