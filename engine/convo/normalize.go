package convo

import (
	"regexp"
	"strings"
)

var wordSeparator = regexp.MustCompile(`[.!?, ]+`)

var (
	askAboutPattern  = regexp.MustCompile(`^ask ((.+?) )?about (.+)$`)
	whatAboutPattern = regexp.MustCompile(`^what about (.+)$`)
	knowAboutPattern = regexp.MustCompile(`^(do you know|i want to know) about (.+)$`)
)

// Normalize lower-cases player input, splits it into words on punctuation
// and spaces, drops the word "the", and rejoins the words with single spaces.
func Normalize(raw string) string {
	words := wordSeparator.Split(strings.ToLower(raw), -1)
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if w != "the" {
			kept = append(kept, w)
		}
	}
	return strings.TrimSpace(strings.Join(kept, " "))
}

// ExtractTopic returns the topic phrase of normalized input. Questions of the
// form "ask [x] about <topic>", "what about <topic>", "do you know about
// <topic>" and "i want to know about <topic>" yield <topic>; anything else is
// returned whole.
func ExtractTopic(normalized string) string {
	if m := askAboutPattern.FindStringSubmatch(normalized); m != nil {
		return m[3]
	}
	if m := whatAboutPattern.FindStringSubmatch(normalized); m != nil {
		return m[1]
	}
	if m := knowAboutPattern.FindStringSubmatch(normalized); m != nil {
		return m[2]
	}
	return normalized
}
