// Package main is the entry point for the spotd panel daemon.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"reflect"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/spot/internal/audio"
	"github.com/jmylchreest/spot/internal/config"
	"github.com/jmylchreest/spot/internal/daemon"
	"github.com/jmylchreest/spot/internal/dbus"
	"github.com/jmylchreest/spot/internal/journal"
	"github.com/jmylchreest/spot/internal/layout"
	"github.com/jmylchreest/spot/internal/model"
	"github.com/jmylchreest/spot/internal/panel"
	"github.com/jmylchreest/spot/internal/platform"
	"github.com/jmylchreest/spot/internal/shortcut"
	"github.com/jmylchreest/spot/internal/theme"
)

const (
	appID   = "dev.jmylchreest.spotd"
	appName = "spotd"
)

var (
	// Build-time variables
	version = "dev"
)

func main() {
	configPath := flag.String("config", "", "Path to the daemon config file")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		println(appName, "version", version)
		os.Exit(0)
	}

	// Set up structured logging. The level sits behind a LevelVar so a
	// config reload can change it without rebuilding the handler.
	logLevel := new(slog.LevelVar)
	logLevel.Set(slog.LevelInfo)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("starting spotd", "version", version)

	// Load configuration
	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logLevel.Set(parseLogLevel(cfg.Log.Level))

	// Create the libadwaita application
	app := adw.NewApplication(appID, 0)

	// Shared state between GTK main loop and signal handlers
	var (
		registry      *panel.Registry
		hotkeys       *shortcut.HotkeyBackend
		windows       *daemon.Windows
		dbusServer    *dbus.PanelServer
		themeLoader   *theme.Loader
		audioManager  *audio.Manager
		eventJournal  *journal.Journal
		configWatcher *daemon.ConfigWatcher
		notifier      *daemon.Notifier
		running       atomic.Bool
	)

	// Set up signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)
		cancel()

		// Stop components in GTK main loop context
		glib.IdleAdd(func() {
			if running.Load() {
				if audioManager != nil {
					audioManager.Stop()
				}
				if themeLoader != nil {
					themeLoader.StopHotReload()
				}
				if configWatcher != nil {
					_ = configWatcher.Stop()
				}
				if registry != nil {
					_ = registry.Close()
				}
				if hotkeys != nil {
					_ = hotkeys.Close()
				}
				if dbusServer != nil {
					_ = dbusServer.Stop()
				}
				if windows != nil {
					windows.Close()
				}
				if eventJournal != nil {
					_ = eventJournal.Close()
				}
				app.Quit()
			}
		})
	}()

	// Handle application activation
	app.ConnectActivate(func() {
		if running.Load() {
			logger.Warn("application already running")
			return
		}
		running.Store(true)

		// Initialize theme loader
		themeLoader = theme.NewLoader(logger)
		if err := themeLoader.LoadTheme(cfg.Theme.Name); err != nil {
			logger.Warn("failed to load theme, using default", "error", err)
		}
		themeLoader.Apply(nil)
		themeLoader.StartHotReload(ctx)

		// Open the event journal
		if cfg.Journal.Enabled {
			journalPath := cfg.JournalPath()
			persistence, err := journal.NewJSONLPersistence(journalPath)
			if err != nil {
				logger.Warn("failed to open journal file, keeping events in memory",
					"path", journalPath, "error", err)
				eventJournal = journal.NewJournal(nil, cfg.Journal.MaxEntries)
			} else {
				eventJournal = journal.NewJournal(persistence, cfg.Journal.MaxEntries)
				if err := eventJournal.Hydrate(); err != nil {
					logger.Warn("failed to hydrate journal", "error", err)
				}
				logger.Info("event journal opened", "path", journalPath, "count", eventJournal.Count())
			}
		}

		// Initialize audio manager
		audioManager = audio.NewManager(cfg, logger)
		if err := audioManager.Start(ctx); err != nil {
			logger.Warn("failed to start audio manager", "error", err)
		}

		// Detect the panel backend for this session
		backend := platform.Detect(logger)
		available, detail := backend.Available()
		if !available {
			logger.Warn("panel backend unavailable, windows stay unmanaged",
				"backend", backend.Name(), "reason", detail)
		}

		// Initialize the panel registry and its shortcut backend
		hotkeys = shortcut.NewHotkeyBackend(logger)
		registry = panel.NewRegistry(backend, hotkeys, logger)

		// Initialize D-Bus server
		dbusServer = dbus.NewPanelServer(registry, logger)
		dbusServer.SetServerInfo(dbus.ServerInfo{
			Version:       version,
			Backend:       backend.Name(),
			BackendDetail: detail,
		})

		// Fan registry events out to the journal, the bus and the audio
		// cues. Registration events fire before the bus name is claimed;
		// those reach the journal only.
		registry.SetEventCallback(func(ev *model.Event) {
			if eventJournal != nil {
				if err := eventJournal.Append(ev); err != nil {
					logger.Warn("failed to journal event",
						"kind", string(ev.Kind), "label", ev.Label, "error", err)
				}
			}
			if err := dbusServer.EmitEvent(ev); err != nil {
				logger.Debug("skipped event signal", "kind", string(ev.Kind), "error", err)
			}
			go func() {
				if err := audioManager.PlayForEvent(ev.Kind); err != nil {
					logger.Debug("failed to play event sound", "kind", string(ev.Kind), "error", err)
				}
			}()
		})

		// Build the panel windows
		windows = daemon.NewWindows(layout.NewLoader(templatesDir()), logger)
		if err := windows.Build(&app.Application, cfg); err != nil {
			logger.Error("failed to build panel windows", "error", err)
			app.Quit()
			return
		}

		// Convert each window into a managed panel. Conversion must happen
		// before a window is first mapped, so it runs right after the build
		// while every panel is still hidden.
		windows.Each(func(pw *daemon.PanelWindow) {
			wc := cfg.FindWindow(pw.Label())
			if wc == nil {
				return
			}
			opts := platform.Options{
				Position: cfg.WindowPosition(wc),
				Margin:   cfg.Defaults.Margin,
			}
			if err := registry.Init(platform.NewGtkWindow(wc.Label, pw.Window()), *wc, opts); err != nil {
				var shortcutErr *panel.ShortcutError
				if errors.As(err, &shortcutErr) {
					// The panel is registered; only its shortcut is missing
					logger.Warn("panel shortcut unavailable",
						"label", wc.Label, "accel", shortcutErr.Accel, "error", shortcutErr.Cause)
					return
				}
				logger.Error("failed to register panel", "label", wc.Label, "error", err)
			}
		})

		if err := registry.RegisterCloseShortcut(cfg.GlobalCloseShortcut); err != nil {
			logger.Warn("close shortcut unavailable",
				"accel", cfg.GlobalCloseShortcut, "error", err)
		}

		// Start D-Bus server
		if err := dbusServer.Start(); err != nil {
			logger.Error("failed to start D-Bus server", "error", err)
			app.Quit()
			return
		}

		// Desktop notifications ride the server's bus connection
		notifier = daemon.NewNotifier(logger)
		notifier.SetSendFunc(daemon.DesktopSendFunc(dbusServer.Connection()))
		notifier.NotifyStartup(version)

		// Initialize config watcher for hot-reload
		var watcherErr error
		if *configPath != "" {
			configWatcher, watcherErr = daemon.NewConfigWatcherFor(*configPath, logger)
		} else {
			configWatcher, watcherErr = daemon.NewConfigWatcher(logger)
		}
		if watcherErr != nil {
			logger.Warn("failed to create config watcher", "error", watcherErr)
		} else {
			configWatcher.SetReloadCallback(func(newConfig *config.DaemonConfig) {
				// Apply the reloadable subset on the GTK main loop
				glib.IdleAdd(func() {
					// Panel windows are created once at startup; a changed
					// panel set or close shortcut needs a restart
					if !reflect.DeepEqual(newConfig.Config, cfg.Config) {
						notifier.NotifyRestartRequired()
					}

					audioManager.UpdateConfig(newConfig)
					windows.ApplyConfig(newConfig)

					if newConfig.Theme.Name != cfg.Theme.Name {
						if err := themeLoader.LoadTheme(newConfig.Theme.Name); err != nil {
							logger.Warn("failed to load new theme",
								"theme", newConfig.Theme.Name, "error", err)
							notifier.NotifyThemeError(err)
						} else {
							themeLoader.Apply(nil)
							themeLoader.StartHotReload(ctx)
						}
					}

					if eventJournal != nil && newConfig.Journal.MaxEntries != cfg.Journal.MaxEntries {
						if err := eventJournal.SetMaxEntries(newConfig.Journal.MaxEntries); err != nil {
							logger.Warn("failed to apply journal cap", "error", err)
						}
					}
					if newConfig.Journal.Enabled != cfg.Journal.Enabled ||
						newConfig.Journal.Path != cfg.Journal.Path {
						logger.Info("journal file settings apply on restart")
					}

					if newConfig.Log.Level != cfg.Log.Level {
						logLevel.Set(parseLogLevel(newConfig.Log.Level))
						logger.Info("log level changed", "level", newConfig.Log.Level)
					}

					// Update the config reference
					cfg = newConfig

					// Notify user
					notifier.NotifyConfigReloaded()
				})
			})
			configWatcher.SetErrorCallback(func(err error) {
				// Config validation failed - notify user
				notifier.NotifyConfigError(err)
			})
			if err := configWatcher.Start(cfg); err != nil {
				logger.Warn("failed to start config watcher", "error", err)
			}
		}

		logger.Info("spotd ready",
			"bus_name", dbus.BusName,
			"backend", backend.Name(),
			"panels", registry.Count(),
		)

		// Create a hidden window to keep the application running
		// (GTK apps quit when all windows are closed)
		keepAliveWindow := gtk.NewWindow()
		keepAliveWindow.SetApplication(&app.Application)
		keepAliveWindow.SetDefaultSize(1, 1)
		keepAliveWindow.SetDecorated(false)
		keepAliveWindow.SetVisible(false)
	})

	// Handle shutdown
	app.ConnectShutdown(func() {
		logger.Info("application shutting down")
		if audioManager != nil {
			audioManager.Stop()
		}
		if themeLoader != nil {
			themeLoader.StopHotReload()
		}
		if configWatcher != nil {
			_ = configWatcher.Stop()
		}
		if registry != nil {
			_ = registry.Close()
		}
		if hotkeys != nil {
			_ = hotkeys.Close()
		}
		if dbusServer != nil {
			_ = dbusServer.Stop()
		}
		if windows != nil {
			windows.Close()
		}
		if eventJournal != nil {
			_ = eventJournal.Close()
		}
		running.Store(false)
	})

	// Run the application
	status := app.Run(os.Args)

	// Ensure context is cancelled
	cancel()

	if status != 0 {
		logger.Error("application exited with error", "status", status)
		os.Exit(status)
	}

	logger.Info("spotd stopped")
}

// loadConfig loads the daemon config from an explicit path or the
// default location.
func loadConfig(path string) (*config.DaemonConfig, error) {
	if path != "" {
		return config.LoadDaemonConfigFrom(path)
	}
	return config.LoadDaemonConfig()
}

// parseLogLevel maps a config level string to a slog level. Unknown
// values fall back to warn, matching the config default.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// templatesDir returns the user content template directory. The loader
// falls back to embedded templates when the directory has no match.
func templatesDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, "spot", "templates")
}
