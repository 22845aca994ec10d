// Package main is the entry point for the appshell demo harness.
//
// It builds a root context from a TOML settings file and the environment,
// loads Lua scripts as child contexts, and keeps the settings file under
// watch so edits reload into the root's own layer live.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/appshell/internal/app"
	"github.com/dshills/appshell/internal/plugin"
	"github.com/dshills/appshell/internal/settings/loader"
	"github.com/dshills/appshell/internal/settings/watcher"
	"github.com/dshills/appshell/internal/store"
)

// EventSettingsReloaded is notified after the watched settings file is
// reloaded into the root context.
const EventSettingsReloaded = "settings.reloaded"

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  = flag.String("config", "appshell.toml", "settings file")
		pluginDir   = flag.String("plugins", "", "directory of .lua child scripts")
		dataPath    = flag.String("data", "", "object store file (default: in-memory)")
		logLevel    = flag.String("log-level", "info", "debug|info|warn|error")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("appshell %s (%s)\n", version, commit)
		return 0
	}

	logger := app.NewLogger(app.LoggerConfig{
		Level:  app.ParseLogLevel(*logLevel),
		Output: os.Stderr,
		Prefix: "appshell",
	})

	opts := []app.Option{app.WithLogger(logger)}
	if *dataPath != "" {
		opts = append(opts, app.WithObjectStore(store.NewFile(*dataPath)))
	}

	root := app.New(opts...)

	// Settings: file first, environment overrides on top.
	tomlLoader := loader.NewTOMLLoader(*configPath)
	if err := loadSettings(root, tomlLoader); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Lua children.
	if *pluginDir != "" {
		host := plugin.NewHost()
		defer host.Close()

		factories, err := host.Factories(*pluginDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		if err := root.LoadChildren(factories); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		logger.Info("loaded %d script children from %s", len(factories), *pluginDir)
	}

	// Live reload of the settings file.
	w, err := watcher.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create watcher: %v\n", err)
		return 1
	}
	defer w.Close()

	w.OnChange(func(ev watcher.Event) {
		if err := loadSettings(root, tomlLoader); err != nil {
			logger.Error("settings reload failed: %v", err)
			return
		}
		logger.Info("settings reloaded after %s", ev.Op)
		if err := root.Notify(EventSettingsReloaded, ev.Path); err != nil {
			logger.Error("settings reload notification failed: %v", err)
		}
	})
	if err := w.Watch(*configPath); err != nil {
		logger.Warn("settings file not watchable: %v", err)
	}

	logger.Info("running with locale %s; press Ctrl-C to exit", root.Language())

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	<-signals

	logger.Info("shutting down")
	return 0
}

// loadSettings merges the file and environment sources into the root's own
// settings layer, environment last so it wins.
func loadSettings(root *app.Context, tomlLoader *loader.TOMLLoader) error {
	entries, err := tomlLoader.Load()
	if err != nil {
		return err
	}
	root.AddSettings(entries)

	envEntries, err := loader.NewEnvLoader().Load()
	if err != nil {
		return err
	}
	root.AddSettings(envEntries)
	return nil
}
