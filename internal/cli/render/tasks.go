package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/enio-ireland/nx/internal/domain"
	"github.com/enio-ireland/nx/internal/usecase"
)

const divider = "———————————————————————————————————————————————"

// TasksRenderer prints task output and the run summary
type TasksRenderer struct {
	out io.Writer
	Styler
}

// NewTasksRenderer creates a new tasks renderer
func NewTasksRenderer(out io.Writer, color bool) *TasksRenderer {
	return &TasksRenderer{out: out, Styler: Styler{Enabled: color}}
}

// Render prints every task in order followed by the summary
func (r *TasksRenderer) Render(result *usecase.RunTasksResult) error {
	for _, task := range result.Results {
		r.renderTask(task)
	}
	r.renderSummary(result)
	return nil
}

func (r *TasksRenderer) renderTask(result *domain.TaskResult) {
	header := fmt.Sprintf("> nx run %s", result.Task.ID)
	if result.CacheStatus == domain.CacheLocalHit {
		header += "  " + r.Dim("[local cache]")
	}
	fmt.Fprintf(r.out, "\n%s\n\n", r.Bold(header))

	output := strings.TrimRight(result.TerminalOutput, "\n")
	if output != "" {
		fmt.Fprintln(r.out, output)
	}
	fmt.Fprintln(r.out)
}

func (r *TasksRenderer) renderSummary(result *usecase.RunTasksResult) {
	total := len(result.Results)
	subject := r.subject(result)
	took := formatDuration(result.Duration)

	fmt.Fprintf(r.out, " %s\n\n", r.Dim(divider))

	if result.Succeeded() {
		fmt.Fprintf(r.out, "%s\n\n", r.Banner(fmt.Sprintf("Successfully ran target %s for %s (%s)", result.Target, subject, took)))
		if result.CacheHits > 0 {
			writeBody(r.out, r.Dim(fmt.Sprintf("Nx read the output from the cache instead of running the command for %d out of %d tasks.", result.CacheHits, total)), "")
		}
		return
	}

	failed := len(result.Failed)
	fmt.Fprintf(r.out, "%s\n\n", r.ErrorBanner(fmt.Sprintf("Ran target %s for %s (%s)", result.Target, subject, took)))
	writeBody(r.out,
		r.Red(fmt.Sprintf(" ✖    %d/%d failed", failed, total)),
		fmt.Sprintf(" ✔    %d/%d succeeded [%d read from cache]", total-failed, total, result.CacheHits),
		"",
		"Failed tasks:",
		"",
	)
	writeBody(r.out, lo.Map(result.Failed, func(id domain.TaskID, _ int) string {
		return "- " + id.String()
	})...)
	fmt.Fprintln(r.out)
}

func (r *TasksRenderer) subject(result *usecase.RunTasksResult) string {
	if len(result.Results) == 1 {
		return "project " + result.Results[0].Task.ID.Project
	}
	return fmt.Sprintf("%d projects", len(result.Results))
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Round(10 * time.Millisecond).String()
}
