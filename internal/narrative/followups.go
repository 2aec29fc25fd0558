package narrative

import (
	"fmt"
	"regexp"
	"strings"

	"memory-companion-go/internal/types"
)

// MaxFollowUps bounds the questions returned by GenerateFollowUps.
const MaxFollowUps = 10

// followUpContext is what the rules see of the latest response.
type followUpContext struct {
	response  string
	name      string
	locations []string
}

// followUpRule appends questions when its keywords appear in the response.
type followUpRule struct {
	category  string
	re        *regexp.Regexp
	questions func(followUpContext) []string
}

func keywordRe(keywords ...string) *regexp.Regexp {
	quoted := make([]string, len(keywords))
	for i, k := range keywords {
		quoted[i] = regexp.QuoteMeta(k)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

func fixed(questions ...string) func(followUpContext) []string {
	return func(followUpContext) []string { return questions }
}

// categoryRules run in order against the latest response. Every matching
// rule contributes its questions.
var categoryRules = []followUpRule{
	{
		category: "people",
		re: keywordRe("mother", "father", "mom", "dad", "brother", "sister", "wife",
			"husband", "friend", "friends", "son", "daughter", "grandmother",
			"grandfather", "grandma", "grandpa", "aunt", "uncle", "cousin",
			"teacher", "neighbor", "neighbour"),
		questions: func(c followUpContext) []string {
			if c.name != "" {
				return []string{
					fmt.Sprintf("What else do you remember about %s?", c.name),
					fmt.Sprintf("How did %s influence your life?", c.name),
				}
			}
			return []string{
				"Who else was important to you during that time?",
				"What was that person like?",
				"How did they influence your life?",
			}
		},
	},
	{
		category: "time_period",
		re: regexp.MustCompile(`(?i)\b(?:19\d{2}|20\d{2}|back then|years ago|when i was|` +
			`those days|in the (?:\d0s|fifties|sixties|seventies|eighties|nineties))\b`),
		questions: fixed(
			"What was life like back then?",
			"How was the world different at that time?",
			"What do you miss most about those days?",
		),
	},
	{
		category: "emotions",
		re: keywordRe("happy", "sad", "love", "loved", "scared", "excited", "miss",
			"missed", "afraid", "joy", "angry", "cried", "laughed", "felt", "feel"),
		questions: fixed(
			"How did that make you feel at the time?",
			"What feelings come up when you think about it now?",
		),
	},
	{
		category: "challenges",
		re: keywordRe("difficult", "hard", "struggle", "struggled", "challenge",
			"problem", "tough", "lost", "sick", "war", "poor", "hardship"),
		questions: fixed(
			"How did you get through that difficult time?",
			"What gave you strength back then?",
			"What did that experience teach you?",
		),
	},
	{
		category: "achievements",
		re: keywordRe("proud", "accomplished", "won", "award", "achieved", "success",
			"promoted", "promotion", "built", "finished", "graduated"),
		questions: fixed(
			"What are you most proud of about that?",
			"Who helped you get there?",
		),
	},
}

// chapterQuestions are appended after the category rules for the declared
// life chapter. Travel is handled separately.
var chapterQuestions = map[string][]string{
	types.ChapterCareer: {
		"What was your very first job?",
		"Who was the best colleague you ever worked with?",
		"What part of your work are you proudest of?",
	},
	types.ChapterMarriage: {
		"How did you first meet your spouse?",
		"What do you remember most about your wedding day?",
		"What kept your partnership strong over the years?",
	},
	types.ChapterFamily: {
		"What family traditions did you keep?",
		"What was a typical family dinner like?",
		"What do you hope your family remembers about you?",
	},
	types.ChapterChildhood: {
		"What games did you play as a child?",
		"What did your childhood home look like?",
		"Who was your best friend growing up?",
	},
	types.ChapterHobbies: {
		"How did you first get into that hobby?",
		"What do you enjoy most about it?",
		"Have you shared it with anyone in your family?",
	},
}

var locationTemplates = []string{
	"What was your first impression of %s?",
	"What food do you remember from %s?",
	"Who did you travel to %s with?",
	"What is your favourite memory of %s?",
	"Would you like to go back to %s one day?",
}

// travelContentRules are tried in order when the response names no place;
// the first matching category wins.
var travelContentRules = []followUpRule{
	{category: "culture", re: keywordRe("culture", "tradition", "traditions", "festival", "local", "language", "customs"),
		questions: fixed("What local customs surprised you most?", "Did you pick up any of the language?")},
	{category: "beach", re: keywordRe("beach", "ocean", "sea", "sand", "swim", "swimming", "coast"),
		questions: fixed("What did you love most about being by the sea?", "Did you swim every day?")},
	{category: "mountain", re: keywordRe("mountain", "mountains", "hike", "hiking", "climb", "climbed", "ski", "skiing"),
		questions: fixed("What was the view like from the top?", "Who did you go hiking with?")},
	{category: "museum", re: keywordRe("museum", "gallery", "art", "history", "cathedral", "castle", "monument"),
		questions: fixed("Which sight impressed you the most?", "Do you remember a painting or building from that trip?")},
	{category: "family", re: keywordRe("family", "kids", "children", "parents", "relatives"),
		questions: fixed("Which family members came along?", "What did the children enjoy most on that trip?")},
	{category: "adventure", re: keywordRe("adventure", "explore", "explored", "camping", "safari", "road trip"),
		questions: fixed("What was the most adventurous thing you did?", "Did anything unexpected happen on the way?")},
}

var genericTravelQuestions = []string{
	"Where was the most memorable place you ever visited?",
	"How did people usually travel in those days?",
	"What did you always bring with you on a trip?",
}

var genericFollowUps = []string{
	"Can you tell me more about that?",
	"What happened next?",
	"Who else was there with you?",
	"How did that make you feel?",
	"What do you remember most clearly about it?",
	"Why is that memory important to you?",
}

// GenerateFollowUps suggests the next questions for a reminiscence session
// about chapter, driven by the latest non-empty prior response. The result is
// never empty and holds at most MaxFollowUps questions.
func GenerateFollowUps(chapter string, priorResponses []string) []string {
	c := followUpContext{response: latestResponse(priorResponses)}
	facts := ExtractBiographicalFacts(c.response)
	c.name = firstPerson(facts)
	c.locations = facts.Locations

	var out orderedSet
	for _, r := range categoryRules {
		if r.re.MatchString(c.response) {
			addAll(&out, r.questions(c))
		}
	}

	switch ch := strings.ToLower(strings.TrimSpace(chapter)); ch {
	case types.ChapterTravel:
		addAll(&out, travelQuestions(c))
	default:
		addAll(&out, chapterQuestions[ch])
	}

	if len(out.items) == 0 {
		addAll(&out, genericFollowUps)
	}
	if len(out.items) > MaxFollowUps {
		return out.items[:MaxFollowUps]
	}
	return out.items
}

func travelQuestions(c followUpContext) []string {
	if len(c.locations) > 0 {
		qs := make([]string, len(locationTemplates))
		for i, t := range locationTemplates {
			qs[i] = fmt.Sprintf(t, c.locations[0])
		}
		return qs
	}
	for _, r := range travelContentRules {
		if r.re.MatchString(c.response) {
			return r.questions(c)
		}
	}
	return genericTravelQuestions
}

func latestResponse(responses []string) string {
	for i := len(responses) - 1; i >= 0; i-- {
		if s := strings.TrimSpace(responses[i]); s != "" {
			return s
		}
	}
	return ""
}

func addAll(o *orderedSet, qs []string) {
	for _, q := range qs {
		o.add(q, 0)
	}
}

// firstPerson returns the first extracted name that is not also a place.
func firstPerson(facts types.BiographicalFacts) string {
	places := make(map[string]struct{}, len(facts.Locations))
	for _, l := range facts.Locations {
		places[strings.ToLower(l)] = struct{}{}
	}
	for _, n := range facts.Names {
		if _, isPlace := places[strings.ToLower(n)]; !isPlace {
			return n
		}
	}
	return ""
}
