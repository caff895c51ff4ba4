package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/llehouerou/imgview/internal/app"
	"github.com/llehouerou/imgview/internal/cache"
	"github.com/llehouerou/imgview/internal/config"
	"github.com/llehouerou/imgview/internal/engine"
	"github.com/llehouerou/imgview/internal/errmsg"
	"github.com/llehouerou/imgview/internal/icons"
	"github.com/llehouerou/imgview/internal/keymap"
	"github.com/llehouerou/imgview/internal/logging"
	"github.com/llehouerou/imgview/internal/source"
	"github.com/llehouerou/imgview/internal/state"
	"github.com/llehouerou/imgview/internal/stderr"
	"github.com/llehouerou/imgview/internal/termimg"
	"github.com/llehouerou/imgview/internal/viewer"
)

const (
	usage = "usage: imgview <image> [image ...]"

	// recentLimit caps the gallery rebuilt from view history.
	recentLimit = 20
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
	}

	logPath := cfg.Log.File
	if logPath == "" {
		if logPath, err = logging.DefaultFile(); err != nil {
			return errors.New(errmsg.Format(errmsg.OpInitialize, err))
		}
	}
	logger, logFile, err := logging.Setup(logPath, cfg.Log.Level)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	defer logFile.Close()

	icons.Init(cfg.Icons)

	if err := stderr.Start(logger); err != nil {
		logger.Warn().Err(err).Msg("stderr capture unavailable")
	}
	defer stderr.Stop()

	var st state.Interface
	if mgr, err := state.Open(cfg.HistorySize(), logger); err != nil {
		logger.Warn().Err(err).Msg(errmsg.Format(errmsg.OpStateOpen, err))
	} else {
		st = mgr
		defer mgr.Close()
	}

	gallery, fullscreen := initialGallery(args, st, logger)
	if gallery.Len() == 0 {
		return errors.New(usage)
	}

	eng := newEngine(cfg, logger)
	v := newViewer(cfg, eng, gallery.Current(), logger)
	sub := v.Subscribe()

	bindings, unknown := keymap.WithOverrides(keymap.All, cfg.Keys)
	for _, name := range unknown {
		logger.Warn().Str("action", name).Msg("unknown action in key config")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runErr := make(chan error, 1)
	go func() { runErr <- v.Run(ctx) }()

	model := app.New(app.Options{
		Viewer:          v,
		Subscription:    sub,
		Canvas:          eng,
		State:           st,
		Gallery:         gallery,
		Bindings:        bindings,
		Logger:          logger.With().Str("component", "app").Logger(),
		StartFullScreen: fullscreen,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		cancel()
		<-runErr
		return fmt.Errorf("run program: %w", err)
	}

	cancel()
	if err := <-runErr; err != nil {
		return err
	}
	return nil
}

// initialGallery returns the locators given on the command line or, without
// arguments, the gallery of the previous session.
func initialGallery(args []string, st state.Interface, logger zerolog.Logger) (app.Gallery, bool) {
	if len(args) > 0 {
		return app.NewGallery(args, 0), false
	}
	if st == nil {
		return app.Gallery{}, false
	}

	saved, err := st.GetViewer()
	if err != nil {
		logger.Warn().Err(err).Msg("failed to restore viewer state")
		return app.Gallery{}, false
	}
	if saved == nil {
		return recentGallery(st, logger), false
	}

	locators := saved.Gallery
	pos := saved.Position
	if len(locators) == 0 && saved.Locator != "" {
		locators, pos = []string{saved.Locator}, 0
	}
	logger.Info().Str("locator", saved.Locator).Int("images", len(locators)).Msg("restored previous session")
	return app.NewGallery(locators, pos), saved.FullScreen
}

// recentGallery holds the most recently viewed locators when no viewer state
// was saved.
func recentGallery(st state.Interface, logger zerolog.Logger) app.Gallery {
	recent, err := st.History(recentLimit)
	if err != nil {
		logger.Warn().Err(err).Msg(errmsg.Format(errmsg.OpHistoryLoad, err))
		return app.Gallery{}
	}
	locators := make([]string, 0, len(recent))
	for _, e := range recent {
		locators = append(locators, e.Locator)
	}
	return app.NewGallery(locators, 0)
}

func newEngine(cfg *config.Config, logger zerolog.Logger) *engine.Engine {
	zoom := cfg.GetZoomConfig()
	return engine.New(engine.Config{
		MinZoom:    zoom.Min,
		MaxZoom:    zoom.Max,
		ZoomStep:   zoom.Step,
		Background: cfg.BackgroundColor(),
		Protocol:   cfg.Protocol,
	}, engine.WithLogger(logger.With().Str("component", "engine").Logger()))
}

func newViewer(cfg *config.Config, eng *engine.Engine, locator string, logger zerolog.Logger) *viewer.Viewer {
	fetch := cfg.GetFetchConfig()
	opts := []viewer.Option{
		viewer.WithFetcher(source.NewFetcher(source.FetcherConfig{
			Timeout:   fetch.Timeout(),
			UserAgent: fetch.UserAgent,
			MaxBytes:  fetch.MaxBytes(),
		})),
		viewer.WithLogger(logger.With().Str("component", "viewer").Logger()),
	}

	if cfg.DiskCacheEnabled() {
		disk, err := cache.NewDisk(cfg.Cache.Dir, cfg.CacheMaxAge())
		if err != nil {
			logger.Warn().Err(err).Msg(errmsg.Format(errmsg.OpImageCache, err))
		} else {
			opts = append(opts, viewer.WithStore(disk))
		}
	}

	return viewer.New(eng, source.Locator(locator), surface(), opts...)
}

// surface is the canvas size below which the status bar fits, taken from the
// terminal before the TUI starts.
func surface() viewer.SurfaceSize {
	win, err := termimg.QueryWindow()
	if err != nil || win.Cols == 0 || win.Rows == 0 {
		win = termimg.Window{Cols: 80, Rows: 24}
	}
	width, height := win.PixelSize(win.Cols, max(win.Rows-1, 1))
	return viewer.SurfaceSize{Width: width, Height: height}
}
