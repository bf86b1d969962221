package layout

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// ContentData carries the fields a panel content template can render.
type ContentData struct {
	// Title is the configured window title. May be empty.
	Title string
	// Label is the registry label. Always set.
	Label string
	// Shortcut is the panel's toggle shortcut. May be empty.
	Shortcut string
}

// DisplayTitle returns the title, falling back to the label when no title
// is configured.
func (d ContentData) DisplayTitle() string {
	if d.Title != "" {
		return d.Title
	}
	return d.Label
}

// Template is a compiled panel content template. The rendered output is
// Pango markup suitable for gtk.Label.SetMarkup.
type Template struct {
	name string
	tmpl *template.Template
}

// templateFuncs returns the functions available inside content templates.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		// escape makes arbitrary text safe inside Pango markup.
		"escape": html.EscapeString,
		"truncate": func(s string, maxLen int) string {
			if len(s) <= maxLen {
				return s
			}
			if maxLen <= 3 {
				return s[:maxLen]
			}
			return s[:maxLen-3] + "..."
		},
		"upper": strings.ToUpper,
		"lower": strings.ToLower,
	}
}

// Parse compiles a content template from its source text.
func Parse(name, text string) (*Template, error) {
	tmpl, err := template.New(name).Funcs(templateFuncs()).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse content template %q: %w", name, err)
	}
	return &Template{name: name, tmpl: tmpl}, nil
}

// Name returns the template's name.
func (t *Template) Name() string {
	return t.name
}

// Render executes the template against data.
func (t *Template) Render(data ContentData) (string, error) {
	var sb strings.Builder
	if err := t.tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render content template %q: %w", t.name, err)
	}
	return sb.String(), nil
}

// LoadTemplate loads and compiles a template from file. The template name is
// the file's base name without extension.
func LoadTemplate(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open template: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Parse(name, string(data))
}

// Loader handles loading content templates from various sources.
type Loader struct {
	templatesDir string
}

// NewLoader creates a new template loader.
func NewLoader(templatesDir string) *Loader {
	return &Loader{templatesDir: templatesDir}
}

// Load loads a content template by name.
// Checks user directory first, then falls back to embedded templates.
func (l *Loader) Load(name string) (*Template, error) {
	if name == "" {
		name = "default"
	}

	// Check user directory first
	if l.templatesDir != "" {
		templatePath := filepath.Join(l.templatesDir, name+".tmpl")
		if _, err := os.Stat(templatePath); err == nil {
			return LoadTemplate(templatePath)
		}
	}

	if tmpl, ok := GetEmbeddedTemplate(name); ok {
		return tmpl, nil
	}

	return nil, fmt.Errorf("content template not found: %s", name)
}

// DefaultTemplate returns the embedded default content template.
func DefaultTemplate() *Template {
	tmpl, ok := GetEmbeddedTemplate("default")
	if !ok {
		// The default template is compiled into the binary; not finding
		// it means the embed itself is broken.
		panic("layout: embedded default template missing or invalid")
	}
	return tmpl
}
