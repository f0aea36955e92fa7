package emotion

import "strings"

// Tag is the emotion label detected in a piece of text.
type Tag string

const (
	Happy   Tag = "😄 Happy"
	Sad     Tag = "😢 Sad"
	Angry   Tag = "😠 Angry"
	Anxious Tag = "😟 Anxious"
	Calm    Tag = "😌 Calm"
	Neutral Tag = "😐 Neutral"
)

// Group binds a tag to the keywords that select it.
type Group struct {
	Tag      Tag
	Keywords []string
}

// DefaultGroups returns the built-in keyword groups in priority order.
// Groups are not disjoint ("stressed out but happy" matches Happy and Anxious);
// the first matching group wins. Keywords are phrases where a bare word would
// also hit unrelated words ("mad" in "made", "exam" in "example").
func DefaultGroups() []Group {
	return []Group{
		{Tag: Happy, Keywords: []string{
			"happy", "glad", "great", "excited", "joyful", "awesome", "amazing", "wonderful", "grateful", "proud",
		}},
		{Tag: Sad, Keywords: []string{
			"sad", "feel down", "feeling down", "crying", "lonely", "depressed", "upset", "hopeless",
			"missing you", "homesick", "heartbroken", "feel empty",
		}},
		{Tag: Angry, Keywords: []string{
			"angry", "mad at", "so mad", "furious", "annoyed", "i hate", "hate it", "hate this", "frustrat", "irritat", "unfair",
		}},
		{Tag: Anxious, Keywords: []string{
			"anxious", "anxiety", "worried", "worry", "nervous", "stress", "panic", "scared", "afraid", "overwhelm",
			"exams", "my exam", "the exam",
		}},
		{Tag: Calm, Keywords: []string{
			"calm", "relaxed", "peaceful", "i'm fine", "feeling fine", "i'm okay", "feeling okay", "well rested", "feel content",
		}},
	}
}

// Detector classifies free text by ordered keyword groups.
type Detector struct {
	groups  []Group
	neutral Tag
}

// NewDetector copies groups and lower-cases their keywords. Empty keywords are dropped
// so they can never match every input.
func NewDetector(groups []Group, neutral Tag) *Detector {
	normalized := make([]Group, 0, len(groups))
	for _, g := range groups {
		keywords := make([]string, 0, len(g.Keywords))
		for _, word := range g.Keywords {
			word = strings.ToLower(strings.TrimSpace(word))
			if word == "" {
				continue
			}
			keywords = append(keywords, word)
		}
		normalized = append(normalized, Group{Tag: g.Tag, Keywords: keywords})
	}
	if neutral == "" {
		neutral = Neutral
	}
	return &Detector{groups: normalized, neutral: neutral}
}

// Detect returns the tag of the first group with a keyword contained in text,
// or the neutral tag when nothing matches.
func (d *Detector) Detect(text string) Tag {
	normalized := strings.ToLower(text)
	if strings.TrimSpace(normalized) == "" {
		return d.neutral
	}

	for _, g := range d.groups {
		for _, word := range g.Keywords {
			if strings.Contains(normalized, word) {
				return g.Tag
			}
		}
	}
	return d.neutral
}

var defaultDetector = NewDetector(DefaultGroups(), Neutral)

// Detect classifies text with the default keyword groups.
func Detect(text string) Tag {
	return defaultDetector.Detect(text)
}
