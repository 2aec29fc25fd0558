package aggregator

import (
	"math"

	"memory-companion-go/internal/types"
)

// Insight summarises a batch of session reports for the caregiver dashboard.
type Insight struct {
	Sessions               int                `json:"sessions"`
	Failed                 int                `json:"failed"`
	EmotionCounts          map[string]int     `json:"emotion_counts"`
	NegativeEmotionRate    float64            `json:"negative_emotion_rate"`
	AvgComplexity          float64            `json:"avg_complexity"`
	AvgComplexityByChapter map[string]float64 `json:"avg_complexity_by_chapter"`
	ComplexityTrend        float64            `json:"complexity_trend"`
	IntentCounts           map[string]int     `json:"intent_counts"`
	UndatedEvents          int                `json:"undated_events"`
	UndatedRate            float64            `json:"undated_rate"`
}

var negativeEmotions = map[types.EmotionalState]bool{
	types.EmotionAnxious:  true,
	types.EmotionSad:      true,
	types.EmotionAgitated: true,
}

// Aggregate folds reports, given oldest first, into an Insight. Failed
// reports are counted but excluded from every rate and average.
// ComplexityTrend is the mean score of the newer half minus the older half.
func Aggregate(reports []types.SessionReport) Insight {
	ins := Insight{
		Sessions:               len(reports),
		EmotionCounts:          map[string]int{},
		AvgComplexityByChapter: map[string]float64{},
		IntentCounts:           map[string]int{},
	}
	chapterSum := map[string]float64{}
	chapterN := map[string]int{}
	var scores []float64
	negative := 0

	for _, r := range reports {
		if r.Error != "" {
			ins.Failed++
			continue
		}
		scores = append(scores, r.ComplexityScore)
		ins.EmotionCounts[string(r.EmotionalState)]++
		if negativeEmotions[r.EmotionalState] {
			negative++
		}
		chapter := r.Chapter
		if chapter == "" {
			chapter = "unspecified"
		}
		chapterSum[chapter] += r.ComplexityScore
		chapterN[chapter]++
		if r.HealthIntent != "" {
			ins.IntentCounts[string(r.HealthIntent)]++
		}
		if r.UndatedEvent {
			ins.UndatedEvents++
		}
	}

	ok := len(scores)
	if ok == 0 {
		return ins
	}
	for ch, sum := range chapterSum {
		ins.AvgComplexityByChapter[ch] = round1(sum / float64(chapterN[ch]))
	}
	ins.AvgComplexity = round1(mean(scores))
	ins.NegativeEmotionRate = float64(negative) / float64(ok)
	ins.UndatedRate = float64(ins.UndatedEvents) / float64(ok)
	if ok >= 2 {
		half := ok / 2
		ins.ComplexityTrend = round1(mean(scores[ok-half:]) - mean(scores[:half]))
	}
	return ins
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
