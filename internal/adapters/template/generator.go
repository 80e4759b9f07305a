package template

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/enio-ireland/nx/internal/adapters/registry"
	"github.com/enio-ireland/nx/internal/domain"
	"github.com/enio-ireland/nx/internal/domain/config"
	"github.com/enio-ireland/nx/internal/usecase"
)

//go:embed all:files
var files embed.FS

const (
	templateExt  = ".tmpl"
	nameToken    = "__name__"
	defaultScope = "proj"
)

// Data is what generator templates are rendered with
type Data struct {
	Name         string
	FileName     string
	ClassName    string
	PropertyName string
	ProjectRoot  string
	// Offset is the relative path from the project root back to the workspace
	Offset     string
	ImportPath string
	Version    string
	Options    map[string]string
}

// GeneratorAdapter renders the file sets of catalog generators into a tree
type GeneratorAdapter struct {
	config  *config.RuntimeConfig
	catalog *registry.Catalog
}

// NewGeneratorAdapter creates a new generator adapter
func NewGeneratorAdapter(cfg *config.RuntimeConfig, catalog *registry.Catalog) *GeneratorAdapter {
	return &GeneratorAdapter{config: cfg, catalog: catalog}
}

// Generate renders plugin:generator for opts.Name. The project directory must
// not exist yet.
func (g *GeneratorAdapter) Generate(ctx context.Context, plugin, generator string, tree usecase.Tree, opts usecase.GeneratorOptions) error {
	spec, ok := g.catalog.Generator(plugin, generator)
	if !ok {
		return fmt.Errorf("%w: %s:%s", domain.ErrGeneratorNotFound, plugin, generator)
	}

	if splitWords(opts.Name) == nil {
		return fmt.Errorf("invalid project name %q", opts.Name)
	}
	data := g.data(spec, opts)
	if _, err := os.Stat(filepath.Join(tree.Root(), filepath.FromSlash(data.ProjectRoot))); err == nil {
		return fmt.Errorf("%w: %s", domain.ErrFileExists, data.ProjectRoot)
	}

	root := path.Join("files", spec.Template)
	return fs.WalkDir(files, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel := strings.TrimPrefix(p, root+"/")
		content, err := files.ReadFile(p)
		if err != nil {
			return err
		}
		if strings.HasSuffix(rel, templateExt) {
			rel = strings.TrimSuffix(rel, templateExt)
			if content, err = render(p, content, data); err != nil {
				return err
			}
		}
		rel = strings.ReplaceAll(rel, nameToken, data.FileName)
		return tree.Create(path.Join(data.ProjectRoot, rel), content)
	})
}

func (g *GeneratorAdapter) data(spec *registry.GeneratorSpec, opts usecase.GeneratorOptions) Data {
	words := splitWords(opts.Name)
	fileName := strings.ToLower(strings.Join(words, "-"))

	dir := opts.Directory
	if dir == "" {
		dir = spec.Directory
	}
	projectRoot := path.Clean(path.Join(dir, fileName))

	scope := opts.Extra["scope"]
	if scope == "" {
		scope = defaultScope
	}
	importPath := opts.Extra["importPath"]
	if importPath == "" {
		importPath = fmt.Sprintf("@%s/%s", scope, fileName)
	}

	className := className(words)
	return Data{
		Name:         opts.Name,
		FileName:     fileName,
		ClassName:    className,
		PropertyName: propertyName(className),
		ProjectRoot:  projectRoot,
		Offset:       strings.Repeat("../", strings.Count(projectRoot, "/")+1),
		ImportPath:   importPath,
		Version:      g.config.Version,
		Options:      opts.Extra,
	}
}

func render(name string, content []byte, data Data) ([]byte, error) {
	t, err := template.New(name).Option("missingkey=zero").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// splitWords breaks a name on separators and lower-to-upper case boundaries
func splitWords(name string) []string {
	var words []string
	var current []rune
	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && i > 0 && unicode.IsLower(runes[i-1]):
			flush()
			current = append(current, r)
		default:
			current = append(current, r)
		}
	}
	flush()
	return words
}

func className(words []string) string {
	title := cases.Title(language.Und)
	var b strings.Builder
	for _, w := range words {
		b.WriteString(title.String(w))
	}
	return b.String()
}

func propertyName(class string) string {
	if class == "" {
		return ""
	}
	r := []rune(class)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// Ensure GeneratorAdapter implements GeneratorRunner
var _ usecase.GeneratorRunner = (*GeneratorAdapter)(nil)
