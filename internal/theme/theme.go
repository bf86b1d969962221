package theme

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

// importRegex matches @import "file.css"; or @import 'file.css'; or @import url("file.css");
var importRegex = regexp.MustCompile(`@import\s+(?:url\s*\(\s*)?["']([^"']+)["']\s*\)?;?`)

// Theme represents a CSS theme with metadata.
type Theme struct {
	Name      string    // Theme name (without .css extension)
	Path      string    // Full path to the CSS file (empty for default)
	CSS       string    // The CSS content with imports inlined
	Imports   []string  // Resolved paths of inlined @import files
	ModTime   time.Time // Newest modification time across Path and Imports
	IsDefault bool      // True if this is the embedded default theme
}

// NewTheme creates a new Theme by loading a CSS file.
// CSS @import statements are resolved and inlined.
func NewTheme(name, path string) (*Theme, error) {
	css, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	baseDir := filepath.Dir(path)
	seen := make(map[string]bool)
	processedCSS := ProcessImports(string(css), baseDir, seen)

	t := &Theme{
		Name:    name,
		Path:    path,
		CSS:     processedCSS,
		Imports: importPaths(seen),
		ModTime: info.ModTime(),
	}
	if latest, err := t.latestModTime(); err == nil {
		t.ModTime = latest
	}
	return t, nil
}

// ProcessImports resolves and inlines @import statements in CSS.
// Imports are resolved relative to baseDir.
// The seen map prevents circular imports and collects the resolved paths.
func ProcessImports(css string, baseDir string, seen map[string]bool) string {
	if seen == nil {
		seen = make(map[string]bool)
	}

	return importRegex.ReplaceAllStringFunc(css, func(match string) string {
		// Extract the file path from the @import statement
		submatch := importRegex.FindStringSubmatch(match)
		if len(submatch) < 2 {
			return match // Keep original if parsing fails
		}

		importPath := submatch[1]

		// Resolve the path
		var fullPath string
		if filepath.IsAbs(importPath) {
			fullPath = importPath
		} else {
			fullPath = filepath.Join(baseDir, importPath)
		}

		// Prevent circular imports
		if seen[fullPath] {
			return "/* circular import prevented: " + importPath + " */"
		}
		seen[fullPath] = true

		// Try to read the imported file
		importedCSS, err := os.ReadFile(fullPath)
		if err != nil {
			// Check if it's an embedded partial (files starting with underscore)
			baseName := filepath.Base(importPath)
			if strings.HasPrefix(baseName, "_") {
				if embeddedCSS, found := GetEmbeddedPartial(baseName); found {
					return "/* imported (embedded): " + importPath + " */\n" + embeddedCSS
				}
			}
			// Also try as a regular embedded theme
			themeName := strings.TrimSuffix(baseName, ".css")
			if embeddedCSS, found := GetEmbeddedTheme(themeName); found {
				return "/* imported (embedded): " + importPath + " */\n" + embeddedCSS
			}
			return "/* import failed: " + importPath + " - " + err.Error() + " */"
		}

		// Recursively process imports in the imported file
		importedBaseDir := filepath.Dir(fullPath)
		processedImport := ProcessImports(string(importedCSS), importedBaseDir, seen)

		return "/* imported: " + importPath + " */\n" + processedImport
	})
}

// importPaths returns the sorted resolved paths collected by ProcessImports.
func importPaths(seen map[string]bool) []string {
	if len(seen) == 0 {
		return nil
	}
	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// NewDefaultTheme creates the embedded default theme.
func NewDefaultTheme() *Theme {
	css, _ := GetEmbeddedTheme(DefaultThemeName)
	return &Theme{
		Name:      DefaultThemeName,
		Path:      "",
		CSS:       css,
		ModTime:   time.Time{},
		IsDefault: true,
	}
}

// latestModTime returns the newest modification time across the theme file
// and every file it inlines. Imports that no longer exist are skipped; they
// may come and go between reloads.
func (t *Theme) latestModTime() (time.Time, error) {
	info, err := os.Stat(t.Path)
	if err != nil {
		return time.Time{}, err
	}
	latest := info.ModTime()
	for _, p := range t.Imports {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		if info.ModTime().After(latest) {
			latest = info.ModTime()
		}
	}
	return latest, nil
}

// Reload reloads the theme from disk.
// A change to the theme file or to any inlined @import triggers a reload.
// Returns true if the content changed.
func (t *Theme) Reload() (bool, error) {
	if t.IsDefault {
		return false, nil
	}

	latest, err := t.latestModTime()
	if err != nil {
		return false, err
	}
	if !latest.After(t.ModTime) {
		return false, nil
	}

	css, err := os.ReadFile(t.Path)
	if err != nil {
		return false, err
	}

	baseDir := filepath.Dir(t.Path)
	seen := make(map[string]bool)
	processedCSS := ProcessImports(string(css), baseDir, seen)

	oldCSS := t.CSS
	t.CSS = processedCSS
	t.Imports = importPaths(seen)
	t.ModTime = latest

	return oldCSS != t.CSS, nil
}

// CreateThemesDir creates the user themes directory if it doesn't exist.
func CreateThemesDir() error {
	themesDir, err := ThemesDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(themesDir, 0755)
}
