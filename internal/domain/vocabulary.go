package domain

// CoreVocabulary is the static board: a small subset of common AAC words.
var CoreVocabulary = []Pictogram{
	// Social
	NewPictogram(2227, "Yes", ColorSocial, "ok", "agree"),
	NewPictogram(2228, "No", ColorSocial, "disagree", "not"),
	NewPictogram(6916, "Hello", ColorSocial, "hi", "greetings"),
	NewPictogram(6924, "Bye", ColorSocial, "goodbye", "later"),
	NewPictogram(6551, "Please", ColorSocial),
	NewPictogram(6552, "Thanks", ColorSocial, "thank you"),

	// People
	NewPictogram(2238, "I / Me", ColorPeople, "i", "me", "my"),
	NewPictogram(2239, "You", ColorPeople, "your"),
	NewPictogram(2839, "Mom", ColorPeople, "mother"),
	NewPictogram(2840, "Dad", ColorPeople, "father"),

	// Actions
	NewPictogram(2243, "Want", ColorAction, "desire", "need"),
	NewPictogram(2256, "Eat", ColorAction, "food", "hungry"),
	NewPictogram(2258, "Drink", ColorAction, "water", "thirsty"),
	NewPictogram(2270, "Go", ColorAction, "leave"),
	NewPictogram(2280, "Stop", ColorAction, "wait"),
	NewPictogram(2266, "Play", ColorAction, "game", "fun"),
	NewPictogram(2264, "Sleep", ColorAction, "tired", "bed"),
	NewPictogram(2250, "Like", ColorAction, "love", "good"),
	NewPictogram(2251, "Don't Like", ColorAction, "hate", "bad"),
	NewPictogram(2255, "See", ColorAction, "look", "watch"),
	NewPictogram(2254, "Hear", ColorAction, "listen"),

	// Objects and places
	NewPictogram(2421, "Toilet", ColorNoun, "bathroom", "wc"),
	NewPictogram(2341, "House", ColorNoun, "home"),
	NewPictogram(2334, "School", ColorNoun, "class"),
	NewPictogram(2311, "Water", ColorNoun, "liquid"),
	NewPictogram(2506, "Apple", ColorNoun, "fruit"),
	NewPictogram(2507, "Banana", ColorNoun, "fruit"),
	NewPictogram(2522, "Cookie", ColorNoun, "snack"),
	NewPictogram(3078, "Tablet", ColorNoun, "ipad", "screen"),

	// Descriptors
	NewPictogram(2292, "Good", ColorDesc, "great"),
	NewPictogram(2293, "Bad", ColorDesc, "awful"),
	NewPictogram(2297, "Big", ColorDesc, "large"),
	NewPictogram(2298, "Little", ColorDesc, "small"),
	NewPictogram(2304, "Hot", ColorDesc, "warm"),
	NewPictogram(2305, "Cold", ColorDesc, "freezing"),
	NewPictogram(5698, "Happy", ColorDesc, "glad"),
	NewPictogram(5700, "Sad", ColorDesc, "upset", "crying"),
}

var Categories = []Category{
	{ID: "all", Name: "All", Color: "bg-white"},
	{ID: "people", Name: "People", Color: "bg-yellow-100"},
	{ID: "actions", Name: "Actions", Color: "bg-green-100"},
	{ID: "food", Name: "Food", Color: "bg-orange-100"},
	{ID: "feelings", Name: "Feelings", Color: "bg-blue-100"},
}

// FindPictogram looks up a core vocabulary entry by id.
func FindPictogram(id int) (Pictogram, bool) {
	for _, p := range CoreVocabulary {
		if p.ID == id {
			return p, true
		}
	}
	return Pictogram{}, false
}

// MatchPictogram returns the first core vocabulary entry named by word.
// Exact text matches win over keyword matches, so "water" resolves to the
// Water noun rather than the Drink action.
func MatchPictogram(word string) (Pictogram, bool) {
	for _, p := range CoreVocabulary {
		if p.Keywords[0] == normalizeWord(word) {
			return p, true
		}
	}
	for _, p := range CoreVocabulary {
		if p.Matches(word) {
			return p, true
		}
	}
	return Pictogram{}, false
}
