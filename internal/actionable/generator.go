package actionable

import (
	"fmt"

	"memory-companion-go/internal/aggregator"
	"memory-companion-go/internal/types"
)

type ActionCard struct {
	Insight string `json:"insight"`
	Action  string `json:"action"`
	Impact  string `json:"impact"`
}

const (
	distressThreshold   = 0.35
	declineThreshold    = -10.0
	complaintThreshold  = 2
	sleepThreshold      = 2
	undatedThreshold    = 0.5
	minSessionsForTrend = 4
)

// Generate turns an Insight into caregiver action cards, most urgent first.
// A batch with nothing notable yields a single monitoring card.
func Generate(ins aggregator.Insight) []ActionCard {
	var cards []ActionCard
	analysed := ins.Sessions - ins.Failed

	if ins.NegativeEmotionRate >= distressThreshold {
		cards = append(cards, ActionCard{
			Insight: fmt.Sprintf("Frequent distress in journal sessions (%.0f%%)", ins.NegativeEmotionRate*100),
			Action:  "Schedule a check-in call and review recent sessions together",
			Impact:  "Earlier support for low mood or anxiety",
		})
	}
	if analysed >= minSessionsForTrend && ins.ComplexityTrend <= declineThreshold {
		cards = append(cards, ActionCard{
			Insight: fmt.Sprintf("Language complexity fell by %.1f points across recent sessions", -ins.ComplexityTrend),
			Action:  "Share the trend with the care team at the next appointment",
			Impact:  "Early signal for cognitive change",
		})
	}
	if n := ins.IntentCounts[string(types.IntentPain)] + ins.IntentCounts[string(types.IntentSymptom)]; n >= complaintThreshold {
		cards = append(cards, ActionCard{
			Insight: fmt.Sprintf("Physical complaints mentioned in %d sessions", n),
			Action:  "Ask about pain and symptoms and consider a GP visit",
			Impact:  "Catch untreated pain or illness",
		})
	}
	if ins.IntentCounts[string(types.IntentMedication)] > 0 {
		cards = append(cards, ActionCard{
			Insight: "Medication came up in conversation",
			Action:  "Check the pill organiser and upcoming refills",
			Impact:  "Better medication adherence",
		})
	}
	if ins.IntentCounts[string(types.IntentSleep)] >= sleepThreshold {
		cards = append(cards, ActionCard{
			Insight: "Repeated mentions of poor sleep or tiredness",
			Action:  "Review evening routine and daytime naps",
			Impact:  "Improved rest and daytime alertness",
		})
	}
	if analysed > 0 && ins.UndatedRate >= undatedThreshold {
		cards = append(cards, ActionCard{
			Insight: fmt.Sprintf("%d life events were told without a date", ins.UndatedEvents),
			Action:  "Look through photo albums together to anchor the stories in time",
			Impact:  "Richer, better ordered memory book",
		})
	}

	if len(cards) == 0 {
		cards = append(cards, ActionCard{
			Insight: "No concerning pattern detected",
			Action:  "Keep up regular journaling sessions",
			Impact:  "Low immediate intervention",
		})
	}
	return cards
}
