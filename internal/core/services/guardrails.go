package services

import "strings"

// dissatisfactionPhrases are multi-word cues that a user wants a
// human or is unhappy with the bot's answers.
var dissatisfactionPhrases = []string{
	"raise ticket",
	"contact support",
	"need support",
	"connect me with agent",
	"talk to agent",
	"open ticket",
	"technical issue",
	"customer care",
	"help me",
	"this isn't helpful",
	"doesn't work",
	"not what I asked",
	"I'm confused",
	"not what I needed",
	"can't get it to work",
	"this is wrong",
}

// dissatisfactionWords are broad single-word cues. Deliberately
// trigger-happy: escalating too often beats trapping a frustrated
// user in a bot loop.
var dissatisfactionWords = []string{
	"ticket",
	"support",
	"help",
	"assist",
	"problem",
	"issue",
	"agent",
	"customer service",
	"contact",
}

// DetectDissatisfaction reports whether a user message should raise a
// support ticket. Matching is a case-insensitive substring check.
func DetectDissatisfaction(message string) bool {
	lowered := strings.ToLower(message)
	for _, phrase := range dissatisfactionPhrases {
		if strings.Contains(lowered, strings.ToLower(phrase)) {
			return true
		}
	}
	for _, word := range dissatisfactionWords {
		if strings.Contains(lowered, word) {
			return true
		}
	}
	return false
}
