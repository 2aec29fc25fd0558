package narrative

import (
	"regexp"

	"memory-companion-go/internal/types"
)

type intentRule struct {
	intent   types.HealthIntent
	re       *regexp.Regexp
	followUp string
}

// intentRules are checked in order and the first match wins. Keyword sets do
// not overlap, so the order only matters for text that touches several
// intents at once.
var intentRules = []intentRule{
	{
		intent: types.IntentSymptom,
		re: keywordRe("symptom", "symptoms", "dizzy", "dizziness", "fever", "cough",
			"coughing", "nausea", "nauseous", "short of breath", "breathless", "rash",
			"swelling", "swollen", "vomiting", "chills", "blurry", "numb"),
		followUp: "When did you first notice that, and has it changed since?",
	},
	{
		intent: types.IntentMedication,
		re: keywordRe("medication", "medications", "medicine", "medicines", "pill",
			"pills", "tablet", "tablets", "prescription", "dose", "dosage", "refill",
			"pharmacy", "insulin", "vitamins"),
		followUp: "Have you been able to take your medication as prescribed today?",
	},
	{
		intent: types.IntentPain,
		re: keywordRe("pain", "painful", "hurt", "hurts", "ache", "aches", "aching",
			"headache", "backache", "sore", "cramp", "cramps", "stiff", "arthritis"),
		followUp: "On a scale from one to ten, how strong is the pain right now?",
	},
	{
		intent: types.IntentAppointment,
		re: keywordRe("appointment", "appointments", "doctor", "dentist", "clinic",
			"hospital", "checkup", "check-up", "nurse", "specialist", "physio"),
		followUp: "Would you like me to remind you about that appointment?",
	},
	{
		intent: types.IntentMood,
		re: keywordRe("mood", "lonely", "depressed", "anxious", "worried", "stressed",
			"upset", "down", "blue", "miserable", "cheerful"),
		followUp: "Would you like to talk about what is on your mind?",
	},
	{
		intent: types.IntentSleep,
		re: keywordRe("sleep", "slept", "sleeping", "insomnia", "tired", "exhausted",
			"nap", "awake", "nightmare", "nightmares", "fatigue"),
		followUp: "How many hours of sleep did you get last night?",
	},
	{
		intent: types.IntentNutrition,
		re: keywordRe("eat", "ate", "eating", "appetite", "meal", "meals", "breakfast",
			"lunch", "dinner", "hungry", "thirsty", "diet", "food", "drink", "water"),
		followUp: "What have you had to eat and drink today?",
	},
	{
		intent: types.IntentGeneral,
		re: keywordRe("health", "healthy", "unwell", "sick", "ill", "better", "worse",
			"exercise", "blood pressure", "wellbeing"),
		followUp: "How are you feeling overall today?",
	},
}

// DetectHealthIntent classifies text into a health intent. The second result
// is false when no rule matches.
func DetectHealthIntent(text string) (types.HealthIntent, bool) {
	for _, r := range intentRules {
		if r.re.MatchString(text) {
			return r.intent, true
		}
	}
	return "", false
}

// HealthFollowUp returns the check-in question for intent, or the general
// question for an unknown intent.
func HealthFollowUp(intent types.HealthIntent) string {
	for _, r := range intentRules {
		if r.intent == intent {
			return r.followUp
		}
	}
	return intentRules[len(intentRules)-1].followUp
}

// Intents lists the supported intents in evaluation order.
func Intents() []types.HealthIntent {
	out := make([]types.HealthIntent, len(intentRules))
	for i, r := range intentRules {
		out[i] = r.intent
	}
	return out
}
