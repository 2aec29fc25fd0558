package actionable

import (
	"testing"

	"github.com/stretchr/testify/require"

	"memory-companion-go/internal/aggregator"
)

func TestGenerate_Quiet(t *testing.T) {
	cards := Generate(aggregator.Insight{Sessions: 3})
	require.Len(t, cards, 1)
	require.Equal(t, "No concerning pattern detected", cards[0].Insight)
}

func TestGenerate_AllSignals(t *testing.T) {
	cards := Generate(aggregator.Insight{
		Sessions:            6,
		NegativeEmotionRate: 0.5,
		ComplexityTrend:     -12.5,
		IntentCounts:        map[string]int{"pain": 1, "symptom": 1, "medication": 1, "sleep": 2},
		UndatedEvents:       3,
		UndatedRate:         0.5,
	})

	require.Len(t, cards, 6)
	require.Equal(t, "Frequent distress in journal sessions (50%)", cards[0].Insight)
	require.Equal(t, "Language complexity fell by 12.5 points across recent sessions", cards[1].Insight)
	require.Equal(t, "Physical complaints mentioned in 2 sessions", cards[2].Insight)
	require.Equal(t, "3 life events were told without a date", cards[5].Insight)
}

func TestGenerate_TrendNeedsEnoughSessions(t *testing.T) {
	cards := Generate(aggregator.Insight{Sessions: 3, ComplexityTrend: -30})
	require.Len(t, cards, 1)
	require.Equal(t, "No concerning pattern detected", cards[0].Insight)
}
