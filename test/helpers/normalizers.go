package helpers

import (
	"regexp"
	"strings"
)

// Normalizer processes output to remove dynamic content
type Normalizer interface {
	Normalize(output string) string
}

// ColorNormalizer removes ANSI color codes and other control sequences
type ColorNormalizer struct{}

func (n ColorNormalizer) Normalize(output string) string {
	return regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`).ReplaceAllString(output, "")
}

// DurationNormalizer replaces run times such as "(35ms)" or "(1.2s)"
type DurationNormalizer struct{}

func (n DurationNormalizer) Normalize(output string) string {
	return regexp.MustCompile(`\((\d+(\.\d+)?(ms|s|m))+\)`).ReplaceAllString(output, "(<DURATION>)")
}

// GetDefaultNormalizers returns the default set of normalizers
func GetDefaultNormalizers() []Normalizer {
	return []Normalizer{
		ColorNormalizer{},
		DurationNormalizer{},
	}
}

func Normalize(text string, normalizers []Normalizer) string {
	normalized := text
	for _, n := range normalizers {
		normalized = n.Normalize(normalized)
	}

	normalized = strings.ReplaceAll(normalized, "\r\n", "\n")
	normalized = strings.TrimSpace(normalized)

	if normalized != "" {
		normalized = normalized + "\n"
	}
	return normalized
}
