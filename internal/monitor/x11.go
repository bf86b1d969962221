package monitor

import (
	"fmt"
	"log/slog"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xinerama"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// X11Locator reads monitor geometry over an X11 connection. It also
// works under XWayland, which is how Wayland sessions are served.
type X11Locator struct {
	xu       *xgbutil.XUtil
	conn     *xgb.Conn
	screen   *xproto.ScreenInfo
	xinerama bool
	logger   *slog.Logger
}

// NewX11Locator connects to the display named by the DISPLAY variable.
func NewX11Locator(logger *slog.Logger) (*X11Locator, error) {
	if logger == nil {
		logger = slog.Default()
	}

	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X display: %w", err)
	}
	conn := xu.Conn()

	l := &X11Locator{
		xu:     xu,
		conn:   conn,
		screen: xproto.Setup(conn).DefaultScreen(conn),
		logger: logger,
	}

	// Xinerama gives per-monitor geometry; without it the whole root
	// window counts as a single monitor.
	if err := xinerama.Init(conn); err == nil {
		l.xinerama = true
	} else {
		logger.Debug("xinerama unavailable, treating the screen as one monitor", "error", err)
	}

	return l, nil
}

// Name identifies the locator in logs and status output.
func (l *X11Locator) Name() string { return "x11" }

// Close releases the X connection.
func (l *X11Locator) Close() {
	if l.conn != nil {
		l.conn.Close()
	}
}

// All returns every monitor known to the X server.
func (l *X11Locator) All() ([]Info, error) {
	if !l.xinerama {
		return []Info{l.wholeScreen()}, nil
	}

	reply, err := xinerama.QueryScreens(l.conn).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to query screens: %w", err)
	}
	if len(reply.ScreenInfo) == 0 {
		return []Info{l.wholeScreen()}, nil
	}

	monitors := make([]Info, 0, len(reply.ScreenInfo))
	for i, s := range reply.ScreenInfo {
		monitors = append(monitors, Info{
			Name:    fmt.Sprintf("screen-%d", i),
			X:       int(s.XOrg),
			Y:       int(s.YOrg),
			Width:   int(s.Width),
			Height:  int(s.Height),
			Scale:   1.0,
			Primary: i == 0,
		})
	}
	return monitors, nil
}

// UnderPointer returns the monitor the pointer is on, or nil when the
// pointer is outside every monitor.
func (l *X11Locator) UnderPointer() (*Info, error) {
	pointer, err := xproto.QueryPointer(l.conn, l.screen.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to query pointer: %w", err)
	}

	monitors, err := l.All()
	if err != nil {
		return nil, err
	}

	x, y := int(pointer.RootX), int(pointer.RootY)
	found := pickMonitor(monitors, x, y)
	if found == nil {
		l.logger.Debug("pointer outside every monitor", "x", x, "y", y)
	}
	return found, nil
}

// wholeScreen reports the root window as a single monitor. X11 geometry
// is already physical pixels, so the scale is 1.
func (l *X11Locator) wholeScreen() Info {
	return Info{
		Name:    "screen-0",
		Width:   int(l.screen.WidthInPixels),
		Height:  int(l.screen.HeightInPixels),
		Scale:   1.0,
		Primary: true,
	}
}
