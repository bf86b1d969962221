package daemon

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/spot/internal/config"
	"github.com/jmylchreest/spot/internal/layout"
	"github.com/jmylchreest/spot/internal/theme"
)

// ContentFactory builds the root content widget for a panel window,
// replacing the default template-rendered label. Embedders use it to
// put live widgets in panels.
type ContentFactory func(cfg config.WindowConfig) (gtk.Widgetter, error)

// PanelWindow pairs one configured panel with its GTK window.
type PanelWindow struct {
	label   string
	window  *gtk.Window
	content *gtk.Label // nil when a content factory supplied the widget
}

// Label returns the panel label the window was built for.
func (p *PanelWindow) Label() string {
	return p.label
}

// Window returns the underlying GTK window.
func (p *PanelWindow) Window() *gtk.Window {
	return p.window
}

// Update applies the live-reloadable parts of a window entry: the
// title and the rendered content markup. A nil template leaves the
// content untouched. Must run on the GTK main loop.
func (p *PanelWindow) Update(wc config.WindowConfig, tmpl *layout.Template) error {
	p.window.SetTitle(windowTitle(wc))

	if p.content == nil || tmpl == nil {
		return nil
	}
	markup, err := tmpl.Render(contentData(wc))
	if err != nil {
		return err
	}
	p.content.SetMarkup(markup)
	return nil
}

// Windows owns the GTK windows for the configured panels, keyed by
// label. Windows are built once at startup; the panel set cannot change
// without a restart.
type Windows struct {
	mu     sync.RWMutex
	logger *slog.Logger
	loader *layout.Loader

	factory ContentFactory
	byLabel map[string]*PanelWindow
}

// NewWindows creates an empty window set that renders content through
// loader.
func NewWindows(loader *layout.Loader, logger *slog.Logger) *Windows {
	if logger == nil {
		logger = slog.Default()
	}
	return &Windows{
		logger:  logger,
		loader:  loader,
		byLabel: make(map[string]*PanelWindow),
	}
}

// SetContentFactory installs a custom content builder used for every
// window built afterwards.
func (w *Windows) SetContentFactory(factory ContentFactory) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.factory = factory
}

// Build creates one window per configured panel. Labels that already
// have a window are skipped. Must run on the GTK main loop.
func (w *Windows) Build(app *gtk.Application, cfg *config.DaemonConfig) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, wc := range cfg.Windows {
		if _, exists := w.byLabel[wc.Label]; exists {
			continue
		}
		pw, err := w.build(app, wc, cfg)
		if err != nil {
			return fmt.Errorf("failed to build window %q: %w", wc.Label, err)
		}
		w.byLabel[wc.Label] = pw
	}

	w.logger.Debug("panel windows built", "count", len(w.byLabel))
	return nil
}

// build constructs the GTK window for one panel entry.
func (w *Windows) build(app *gtk.Application, wc config.WindowConfig, cfg *config.DaemonConfig) (*PanelWindow, error) {
	win := gtk.NewWindow()
	win.SetApplication(app)
	win.SetDecorated(false)
	win.SetResizable(false)
	win.SetTitle(windowTitle(wc))

	width, height := cfg.WindowSize(&wc)
	win.SetDefaultSize(width, height)

	// Theming hooks: one class shared by every panel, one per label
	win.AddCSSClass(theme.PanelClass)
	win.AddCSSClass(theme.PanelLabelClass(wc.Label))

	// State classes track the surface's mapped state so themes can style
	// show/hide transitions. Windows start hidden.
	win.AddCSSClass(theme.HiddenClass)
	win.ConnectMap(func() {
		win.RemoveCSSClass(theme.HiddenClass)
		win.AddCSSClass(theme.VisibleClass)
	})
	win.ConnectUnmap(func() {
		win.RemoveCSSClass(theme.VisibleClass)
		win.AddCSSClass(theme.HiddenClass)
	})

	pw := &PanelWindow{label: wc.Label, window: win}

	if w.factory != nil {
		widget, err := w.factory(wc)
		if err != nil {
			return nil, err
		}
		win.SetChild(widget)
		return pw, nil
	}

	tmpl, err := w.loader.Load(wc.ContentTemplate)
	if err != nil {
		return nil, err
	}
	markup, err := tmpl.Render(contentData(wc))
	if err != nil {
		return nil, err
	}

	box := gtk.NewBox(gtk.OrientationVertical, 0)
	box.AddCSSClass(theme.ContentClass)

	lbl := gtk.NewLabel("")
	lbl.SetMarkup(markup)
	lbl.SetWrap(true)
	lbl.SetHExpand(true)
	lbl.SetVExpand(true)
	box.Append(lbl)

	win.SetChild(box)
	pw.content = lbl

	return pw, nil
}

// Get returns the window for a label.
func (w *Windows) Get(label string) (*PanelWindow, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	pw, exists := w.byLabel[label]
	return pw, exists
}

// Labels returns the built labels in sorted order.
func (w *Windows) Labels() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	labels := make([]string, 0, len(w.byLabel))
	for label := range w.byLabel {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Count returns the number of built windows.
func (w *Windows) Count() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.byLabel)
}

// Each calls fn for every built window in label order.
func (w *Windows) Each(fn func(pw *PanelWindow)) {
	w.mu.RLock()
	windows := make([]*PanelWindow, 0, len(w.byLabel))
	for _, pw := range w.byLabel {
		windows = append(windows, pw)
	}
	w.mu.RUnlock()

	sort.Slice(windows, func(i, j int) bool { return windows[i].label < windows[j].label })
	for _, pw := range windows {
		fn(pw)
	}
}

// ApplyConfig applies the live-reloadable window settings from a
// reloaded config: titles and content templates. Geometry and the
// panel set itself stay as built. Must run on the GTK main loop.
func (w *Windows) ApplyConfig(cfg *config.DaemonConfig) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for _, wc := range cfg.Windows {
		pw, exists := w.byLabel[wc.Label]
		if !exists {
			continue
		}

		var tmpl *layout.Template
		if pw.content != nil {
			t, err := w.loader.Load(wc.ContentTemplate)
			if err != nil {
				w.logger.Warn("keeping previous content template", "label", wc.Label, "error", err)
			} else {
				tmpl = t
			}
		}

		if err := pw.Update(wc, tmpl); err != nil {
			w.logger.Warn("failed to update window content", "label", wc.Label, "error", err)
		}
	}
}

// Close destroys every built window. Must run on the GTK main loop.
func (w *Windows) Close() {
	w.mu.Lock()
	windows := w.byLabel
	w.byLabel = make(map[string]*PanelWindow)
	w.mu.Unlock()

	for _, pw := range windows {
		pw.window.Destroy()
	}

	w.logger.Debug("panel windows destroyed", "count", len(windows))
}

// windowTitle falls back to the label when no title is configured.
func windowTitle(wc config.WindowConfig) string {
	if wc.Title != "" {
		return wc.Title
	}
	return wc.Label
}

// contentData maps a window entry to the fields templates can render.
func contentData(wc config.WindowConfig) layout.ContentData {
	return layout.ContentData{
		Title:    wc.Title,
		Label:    wc.Label,
		Shortcut: wc.Shortcut,
	}
}
