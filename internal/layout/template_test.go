package layout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:    "plain text",
			input:   "hello",
			wantErr: false,
		},
		{
			name:    "field references",
			input:   "{{.Title}} {{.Label}} {{.Shortcut}}",
			wantErr: false,
		},
		{
			name:    "template functions",
			input:   "{{escape .Title}} {{upper .Label}} {{truncate .Label 5}}",
			wantErr: false,
		},
		{
			name:    "unterminated action",
			input:   "{{escape .Title",
			wantErr: true,
		},
		{
			name:    "unknown function",
			input:   "{{colorize .Title}}",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Parse(tt.name, tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, tmpl)
			assert.Equal(t, tt.name, tmpl.Name())
		})
	}
}

func TestRender(t *testing.T) {
	data := ContentData{
		Title:    "Scratch Terminal",
		Label:    "scratchpad",
		Shortcut: "ctrl+shift+space",
	}

	t.Run("title fallback", func(t *testing.T) {
		tmpl, err := Parse("t", "{{.DisplayTitle}}")
		require.NoError(t, err)

		out, err := tmpl.Render(data)
		require.NoError(t, err)
		assert.Equal(t, "Scratch Terminal", out)

		out, err = tmpl.Render(ContentData{Label: "notes"})
		require.NoError(t, err)
		assert.Equal(t, "notes", out)
	})

	t.Run("escape markup characters", func(t *testing.T) {
		tmpl, err := Parse("t", "{{escape .Title}}")
		require.NoError(t, err)

		out, err := tmpl.Render(ContentData{Title: "R&D <notes>", Label: "notes"})
		require.NoError(t, err)
		assert.Equal(t, "R&amp;D &lt;notes&gt;", out)
	})

	t.Run("truncate", func(t *testing.T) {
		tmpl, err := Parse("t", "{{truncate .Label 7}}")
		require.NoError(t, err)

		out, err := tmpl.Render(data)
		require.NoError(t, err)
		assert.Equal(t, "scra...", out)
	})

	t.Run("upper and lower", func(t *testing.T) {
		tmpl, err := Parse("t", "{{upper .Label}}/{{lower .Title}}")
		require.NoError(t, err)

		out, err := tmpl.Render(data)
		require.NoError(t, err)
		assert.Equal(t, "SCRATCHPAD/scratch terminal", out)
	})

	t.Run("unknown field fails at render", func(t *testing.T) {
		tmpl, err := Parse("t", "{{.Urgency}}")
		require.NoError(t, err)

		_, err = tmpl.Render(data)
		assert.Error(t, err)
	})
}

func TestDefaultTemplateRender(t *testing.T) {
	tmpl := DefaultTemplate()
	require.NotNil(t, tmpl)

	out, err := tmpl.Render(ContentData{
		Title:    "Scratch",
		Label:    "scratchpad",
		Shortcut: "ctrl+space",
	})
	require.NoError(t, err)
	assert.Contains(t, out, ">Scratch</span>")
	assert.Contains(t, out, "ctrl+space toggles this panel")

	// Without a shortcut the hint line is omitted entirely.
	out, err = tmpl.Render(ContentData{Label: "notes"})
	require.NoError(t, err)
	assert.Contains(t, out, ">notes</span>")
	assert.NotContains(t, out, "toggles this panel")
}

func TestGetEmbeddedTemplate(t *testing.T) {
	tests := []struct {
		name      string
		template  string
		wantFound bool
	}{
		{"default", "default", true},
		{"compact", "compact", true},
		{"minimal", "minimal", true},
		{"detailed", "detailed", true},
		{"nonexistent", "nonexistent", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, found := GetEmbeddedTemplate(tt.template)
			assert.Equal(t, tt.wantFound, found)
			if tt.wantFound {
				require.NotNil(t, tmpl)
				// Every embedded template renders cleanly.
				out, err := tmpl.Render(ContentData{Label: "scratchpad"})
				require.NoError(t, err)
				assert.Contains(t, out, "scratchpad")
			}
		})
	}
}

func TestListEmbeddedTemplates(t *testing.T) {
	templates := ListEmbeddedTemplates()
	assert.Contains(t, templates, "default")
	assert.Contains(t, templates, "compact")
	assert.Contains(t, templates, "minimal")
	assert.Contains(t, templates, "detailed")
}

func TestLoader(t *testing.T) {
	loader := NewLoader("")

	// Should load embedded default
	tmpl, err := loader.Load("default")
	require.NoError(t, err)
	assert.NotNil(t, tmpl)

	// Should error for unknown
	_, err = loader.Load("unknown")
	assert.Error(t, err)

	// Empty name should load default
	tmpl, err = loader.Load("")
	require.NoError(t, err)
	assert.NotNil(t, tmpl)
}

func TestLoaderUserDir(t *testing.T) {
	dir := t.TempDir()

	customPath := filepath.Join(dir, "custom.tmpl")
	err := os.WriteFile(customPath, []byte("custom: {{.Label}}"), 0644)
	require.NoError(t, err)

	// A user template shadowing an embedded name wins.
	overridePath := filepath.Join(dir, "default.tmpl")
	err = os.WriteFile(overridePath, []byte("override: {{.Label}}"), 0644)
	require.NoError(t, err)

	loader := NewLoader(dir)

	tmpl, err := loader.Load("custom")
	require.NoError(t, err)
	out, err := tmpl.Render(ContentData{Label: "scratchpad"})
	require.NoError(t, err)
	assert.Equal(t, "custom: scratchpad", out)

	tmpl, err = loader.Load("default")
	require.NoError(t, err)
	out, err = tmpl.Render(ContentData{Label: "scratchpad"})
	require.NoError(t, err)
	assert.Equal(t, "override: scratchpad", out)

	// Names without a user file still resolve to embedded templates.
	_, err = loader.Load("compact")
	require.NoError(t, err)
}

func TestLoadTemplateFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "side.tmpl")
	err := os.WriteFile(path, []byte("{{upper .Label}}"), 0644)
	require.NoError(t, err)

	tmpl, err := LoadTemplate(path)
	require.NoError(t, err)
	assert.Equal(t, "side", tmpl.Name())

	out, err := tmpl.Render(ContentData{Label: "notes"})
	require.NoError(t, err)
	assert.Equal(t, "NOTES", out)

	_, err = LoadTemplate(filepath.Join(dir, "missing.tmpl"))
	assert.Error(t, err)
}
