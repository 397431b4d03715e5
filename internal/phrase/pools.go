package phrase

// Sentence-opener pools, keyed to the sentiment of the thought being
// voiced. Every rendered reply starts with a uniform-random member of
// the pool for its category, so tests assert pool membership rather
// than exact strings.

// NewKnowledge opens replies to statements the agent did not know.
var NewKnowledge = []string{
	"Exciting news!",
	"Interesting!",
	"I love learning new things!",
	"That is good to know.",
	"I did not expect that!",
}

// ExistingKnowledge opens replies to statements the agent already knew.
var ExistingKnowledge = []string{
	"I know!",
	"That sounds familiar.",
	"Someone mentioned this before.",
	"Right, I remember.",
}

// ConflictingKnowledge opens replies when claims contradict.
var ConflictingKnowledge = []string{
	"Wait a second.",
	"I am confused.",
	"That does not match what I heard.",
	"Hmm, are you sure?",
}

// Curiosity opens clarifying questions about knowledge gaps.
var Curiosity = []string{
	"I am curious.",
	"I wonder.",
	"Let me ask you something.",
	"There is something I want to know.",
}

// Happy opens bonding replies over shared knowledge.
var Happy = []string{
	"Nice!",
	"I love that!",
	"How fun!",
	"That makes me happy.",
}

// TrustPhrases are complete replies for a trusted speaker.
var TrustPhrases = []string{
	"I think you are an honest person.",
	"I believe what you tell me.",
	"I trust you.",
}

// NoTrustPhrases are complete replies for an untrusted speaker.
var NoTrustPhrases = []string{
	"I am not sure I can believe you.",
	"I do not know if I should trust what you say.",
	"I find that hard to believe.",
}

// NoAnswer is the pool for questions the agent cannot answer.
var NoAnswer = []string{
	"I do not know.",
	"I have no idea.",
	"I wouldn't know.",
	"I never heard anything about that.",
}

// OutOfWords is the fallback pool used when no thought renders at all.
// Distinct from a nil reply: the agent does answer, it just admits it
// has nothing to say.
var OutOfWords = []string{
	"I am out of words.",
	"I do not know what to say.",
}

// InPool reports whether s starts with some member of pool. Rendered
// replies prepend a pool opener, so prefix matching is the membership
// check tests and scorers rely on.
func InPool(pool []string, s string) bool {
	for _, p := range pool {
		if len(s) >= len(p) && s[:len(p)] == p {
			return true
		}
	}
	return false
}
