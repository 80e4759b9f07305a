package interactive

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"

	"github.com/enio-ireland/nx/internal/domain/config"
	"github.com/enio-ireland/nx/internal/usecase"
)

// PromptAdapter asks the user for values with promptui
type PromptAdapter struct {
	config *config.RuntimeConfig
}

// NewPromptAdapter creates a new prompt adapter
func NewPromptAdapter(cfg *config.RuntimeConfig) *PromptAdapter {
	return &PromptAdapter{config: cfg}
}

// Prompt reads a free-form value
func (p *PromptAdapter) Prompt(ctx context.Context, label string, validate func(string) error) (string, error) {
	if p.config.NonInteractive {
		return "", fmt.Errorf("cannot prompt for %q in non-interactive mode", label)
	}

	prompt := promptui.Prompt{
		Label:    label,
		Validate: validate,
	}
	value, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("prompt cancelled: %w", err)
	}
	return strings.TrimSpace(value), nil
}

// Select picks one of items and returns its index
func (p *PromptAdapter) Select(ctx context.Context, label string, items []string) (int, error) {
	if p.config.NonInteractive {
		return -1, fmt.Errorf("interactive selection not available in non-interactive mode")
	}

	if len(items) == 0 {
		return -1, fmt.Errorf("nothing to select")
	}

	if len(items) == 1 {
		return 0, nil
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:             label,
		Items:             items,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: len(items) > 10,
		Searcher:          fuzzySearcher(items),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return -1, fmt.Errorf("selection cancelled: %w", err)
	}
	return index, nil
}

// fuzzySearcher matches by substring first, then fuzzily
func fuzzySearcher(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(items[index])

		if strings.Contains(item, input) {
			return true
		}

		return len(fuzzy.Find(input, []string{item})) > 0
	}
}

// Ensure the adapter implements the interface
var _ usecase.Prompter = (*PromptAdapter)(nil)
