package convo

import (
	"fmt"
	"regexp"

	"github.com/nathoo/dirt/types"
)

// Verb matches normalized player input and extracts arguments from it.
type Verb interface {
	Match(normalized string) (types.Args, bool)
}

// SimpleMatchingVerb matches input that is exactly one of its phrases.
type SimpleMatchingVerb struct {
	phrases map[string]bool
}

// NewSimpleMatchingVerb returns a verb matching any of phrases.
func NewSimpleMatchingVerb(phrases ...string) *SimpleMatchingVerb {
	v := &SimpleMatchingVerb{phrases: make(map[string]bool, len(phrases))}
	for _, p := range phrases {
		v.phrases[p] = true
	}
	return v
}

// Match succeeds with empty arguments when normalized is one of the phrases.
func (v *SimpleMatchingVerb) Match(normalized string) (types.Args, bool) {
	if !v.phrases[normalized] {
		return types.Args{}, false
	}
	return types.Args{Positional: []string{}, Named: map[string]string{}}, true
}

// PatternVerb matches input against a regular expression. Unnamed groups
// become positional arguments, named groups become named arguments.
type PatternVerb struct {
	re *regexp.Regexp
}

// NewPatternVerb compiles pattern into a verb.
func NewPatternVerb(pattern string) (*PatternVerb, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling verb pattern %q: %w", pattern, err)
	}
	return &PatternVerb{re: re}, nil
}

// Match runs the pattern against normalized input.
func (v *PatternVerb) Match(normalized string) (types.Args, bool) {
	m := v.re.FindStringSubmatch(normalized)
	if m == nil {
		return types.Args{}, false
	}
	args := types.Args{Positional: []string{}, Named: map[string]string{}}
	for i, name := range v.re.SubexpNames() {
		if i == 0 {
			continue
		}
		if name == "" {
			args.Positional = append(args.Positional, m[i])
		} else {
			args.Named[name] = m[i]
		}
	}
	return args, true
}
