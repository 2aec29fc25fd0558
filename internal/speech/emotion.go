package speech

import (
	"regexp"
	"strings"

	"memory-companion-go/internal/types"
)

// neutralBaseline is the score every other emotion has to beat.
const neutralBaseline = 1

type emotionRule struct {
	state types.EmotionalState
	re    *regexp.Regexp
}

// emotionRules is evaluated in order. A later emotion only wins with a
// strictly higher score, so ties go to the earlier entry and any tie with the
// neutral baseline stays neutral.
var emotionRules = []emotionRule{
	newEmotionRule(types.EmotionCalm,
		"calm", "peaceful", "relaxed", "content", "serene", "quiet", "comfortable",
		"rested", "gentle", "at ease", "soothing"),
	newEmotionRule(types.EmotionHappy,
		"happy", "joy", "joyful", "glad", "wonderful", "love", "loved", "lovely",
		"great", "delighted", "fun", "laugh", "laughed", "smile", "smiled",
		"excited", "grateful", "blessed"),
	newEmotionRule(types.EmotionAnxious,
		"worried", "worry", "anxious", "nervous", "afraid", "scared", "fear",
		"concerned", "uneasy", "panic", "stress", "stressed"),
	newEmotionRule(types.EmotionSad,
		"sad", "lonely", "miss", "missed", "cry", "cried", "tears", "grief",
		"unhappy", "depressed", "heartbroken", "gloomy"),
	newEmotionRule(types.EmotionAgitated,
		"angry", "mad", "annoyed", "frustrated", "upset", "furious", "irritated",
		"hate", "fed up", "sick of"),
}

func newEmotionRule(state types.EmotionalState, keywords ...string) emotionRule {
	quoted := make([]string, len(keywords))
	for i, k := range keywords {
		quoted[i] = regexp.QuoteMeta(k)
	}
	return emotionRule{
		state: state,
		re:    regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`),
	}
}

// EmotionScores counts whole-word keyword hits per emotion. Neutral always
// carries the baseline score.
func EmotionScores(text string) map[types.EmotionalState]int {
	scores := map[types.EmotionalState]int{types.EmotionNeutral: neutralBaseline}
	for _, r := range emotionRules {
		scores[r.state] = len(r.re.FindAllStringIndex(text, -1))
	}
	return scores
}

// DetectEmotion returns the emotion with the strictly highest keyword score.
func DetectEmotion(text string) types.EmotionalState {
	best, bestScore := types.EmotionNeutral, neutralBaseline
	for _, r := range emotionRules {
		if n := len(r.re.FindAllStringIndex(text, -1)); n > bestScore {
			best, bestScore = r.state, n
		}
	}
	return best
}
