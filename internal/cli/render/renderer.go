package render

import (
	"io"

	"github.com/enio-ireland/nx/internal/usecase"
)

// Renderer prints the result of a use case
type Renderer[T any] interface {
	Render(result T) error
}

// RenderFunc adapts a render method to Renderer
type RenderFunc[T any] func(result T) error

func (f RenderFunc[T]) Render(result T) error {
	return f(result)
}

var (
	_ Renderer[*usecase.RunTasksResult] = (*TasksRenderer)(nil)
	_ Renderer[*usecase.ReportResult]   = (*ReportRenderer)(nil)
)

// NewGenerateRenderer renders generator output as change lines
func NewGenerateRenderer(out io.Writer, color bool) Renderer[*usecase.GenerateResult] {
	return RenderFunc[*usecase.GenerateResult](NewChangesRenderer(out, color).RenderGenerate)
}

// NewInitRenderer renders the outcome of nx init
func NewInitRenderer(out io.Writer, color bool) Renderer[*usecase.InitWorkspaceResult] {
	return RenderFunc[*usecase.InitWorkspaceResult](NewWorkspaceRenderer(out, color).RenderInit)
}
