package layout

import (
	"embed"
	"strings"
)

//go:embed templates/*.tmpl
var EmbeddedTemplates embed.FS

// GetEmbeddedTemplate returns an embedded template by name.
// The name should not include the .tmpl extension.
func GetEmbeddedTemplate(name string) (*Template, bool) {
	path := "templates/" + name + ".tmpl"
	data, err := EmbeddedTemplates.ReadFile(path)
	if err != nil {
		return nil, false
	}

	tmpl, err := Parse(name, string(data))
	if err != nil {
		return nil, false
	}

	return tmpl, true
}

// ListEmbeddedTemplates returns the names of all embedded templates.
func ListEmbeddedTemplates() []string {
	entries, err := EmbeddedTemplates.ReadDir("templates")
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".tmpl") {
			name := strings.TrimSuffix(entry.Name(), ".tmpl")
			names = append(names, name)
		}
	}
	return names
}
