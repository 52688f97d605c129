// Package render defines the template-rendering contract consumed by
// the server, and an html/template-backed implementation.
package render

import (
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
)

// ErrTemplateNotFound is returned when the named template is not
// loaded. The server maps it to 404; any other render error maps
// to 500.
var ErrTemplateNotFound = errors.New("template not found")

// Context carries the values handed to a template.
type Context map[string]any

// Renderer renders a named template with a context.
type Renderer interface {
	Render(name string, ctx Context) (string, error)
}

// TemplateRenderer renders html/template files loaded from a set of
// directories. Templates are keyed by file name; later directories
// override earlier ones.
type TemplateRenderer struct {
	templates map[string]*template.Template
}

// NewTemplateRenderer loads every .html file from the given
// directories.
func NewTemplateRenderer(dirs []string) (*TemplateRenderer, error) {
	r := &TemplateRenderer{templates: make(map[string]*template.Template)}

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to read template directory %s: %w", dir, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			tmpl, err := template.ParseFiles(path)
			if err != nil {
				return nil, fmt.Errorf("failed to parse template %s: %w", path, err)
			}
			r.templates[entry.Name()] = tmpl
		}
	}

	return r, nil
}

// Render executes the named template with the given context.
func (r *TemplateRenderer) Render(name string, ctx Context) (string, error) {
	tmpl, ok := r.templates[name]
	if !ok {
		return "", fmt.Errorf("template %q: %w", name, ErrTemplateNotFound)
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, map[string]any(ctx)); err != nil {
		return "", fmt.Errorf("failed to render template %q: %w", name, err)
	}
	return b.String(), nil
}
