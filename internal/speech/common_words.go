package speech

// commonWords is an allowlist of frequent everyday words. Long words on this
// list do not count towards vocabulary complexity.
var commonWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"the", "be", "to", "of", "and", "a", "in", "that", "have", "i",
		"it", "for", "not", "on", "with", "he", "as", "you", "do", "at",
		"this", "but", "his", "by", "from", "they", "we", "say", "her", "she",
		"or", "an", "will", "my", "one", "all", "would", "there", "their", "what",
		"so", "up", "out", "if", "about", "who", "get", "which", "go", "me",
		"when", "make", "can", "like", "time", "no", "just", "him", "know", "take",
		"people", "into", "year", "your", "good", "some", "could", "them", "see", "other",
		"than", "then", "now", "look", "only", "come", "its", "over", "think", "also",
		"back", "after", "use", "two", "how", "our", "work", "first", "well", "way",
		"even", "new", "want", "because", "any", "these", "give", "day", "most", "us",
		"something", "everything", "nothing", "anything", "everyone", "someone", "remember",
		"different", "another", "through", "without", "thought", "himself", "herself",
		"myself", "yourself", "between", "however", "morning", "evening", "husband",
		"children", "brother", "sisters", "brothers", "mother", "father", "family",
		"friends", "together", "country", "kitchen", "weekend", "holiday", "birthday",
		"christmas", "village", "started", "working", "married", "learned", "finally",
		"already", "usually", "probably", "actually", "really", "always", "getting",
		"looking", "walking", "talking", "playing", "nothing", "beautiful", "wonderful",
		"remembered", "important", "school", "teacher", "church", "doctor", "hospital",
		"grandchildren", "grandmother", "grandfather", "daughter", "daughters", "special",
	} {
		commonWords[w] = struct{}{}
	}
}

func isCommonWord(w string) bool {
	_, ok := commonWords[w]
	return ok
}
