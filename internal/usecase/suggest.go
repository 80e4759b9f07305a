package usecase

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

const maxSuggestions = 3

// suggestions returns the closest candidates to name, best match first
func suggestions(name string, candidates []string) []string {
	matches := fuzzy.Find(name, candidates)
	var out []string
	for i, m := range matches {
		if i == maxSuggestions {
			break
		}
		out = append(out, m.Str)
	}
	return out
}

// didYouMean renders suggestions as an error suffix
func didYouMean(name string, candidates []string) string {
	s := suggestions(name, candidates)
	if len(s) == 0 {
		return ""
	}
	return fmt.Sprintf(" - did you mean %s?", strings.Join(s, ", "))
}
