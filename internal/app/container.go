package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/doeshing/scrnstr/internal/application/actions"
	"github.com/doeshing/scrnstr/internal/application/capture"
	"github.com/doeshing/scrnstr/internal/application/dispatch"
	"github.com/doeshing/scrnstr/internal/application/doctor"
	"github.com/doeshing/scrnstr/internal/application/feedback"
	apphistory "github.com/doeshing/scrnstr/internal/application/history"
	"github.com/doeshing/scrnstr/internal/domain"
	"github.com/doeshing/scrnstr/internal/infrastructure/ai"
	"github.com/doeshing/scrnstr/internal/infrastructure/cache"
	"github.com/doeshing/scrnstr/internal/infrastructure/config"
	"github.com/doeshing/scrnstr/internal/infrastructure/delegate"
	"github.com/doeshing/scrnstr/internal/infrastructure/history"
	"github.com/doeshing/scrnstr/internal/infrastructure/notify"
	"github.com/doeshing/scrnstr/internal/infrastructure/pim"
	"github.com/doeshing/scrnstr/internal/infrastructure/system"
	"github.com/doeshing/scrnstr/internal/infrastructure/watcher"
	"github.com/doeshing/scrnstr/internal/pkg/clock"
	"github.com/doeshing/scrnstr/internal/pkg/filesystem"
	"github.com/doeshing/scrnstr/internal/pkg/logger"
	"github.com/doeshing/scrnstr/internal/ports"
)

const (
	defaultCalendarName = "Personal"
	commandTimeout      = 10 * time.Second
)

// Options selects the configuration and log verbosity.
type Options struct {
	ConfigPath string
	Verbose    bool
}

// Container holds every collaborator for the lifetime of the process.
type Container struct {
	Config         domain.Config
	ConfigLoader   *config.FileLoader
	ConfigProvider ports.ConfigProvider
	Logger         *logger.ZapLogger
	Clock          ports.Clock

	StateStore    *history.SQLiteStore
	HistoryStore  *apphistory.Store
	Board         *notify.Board
	PIM           *pim.Store
	Delegate      *delegate.Client
	Runner        *system.LocalRunner
	Clipboard     *system.Clipboard
	Network       *system.NMCLISuggester
	Maps          *system.MapOpener
	Index         *watcher.DirIndex
	ResultCache   *cache.FileCache
	Registry      *dispatch.Registry
	DoctorService *doctor.Service

	factory        *ai.Factory
	classifierOnce sync.Once
	classifier     ports.Classifier
	classifierErr  error
}

// BuildContainer constructs the dependency graph. The classifier is built
// lazily so commands that never classify work without an API key.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	cfgLoader := config.NewFileLoader(opts.ConfigPath)
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logger.New(opts.Verbose)
	clk := clock.New()
	dataDir := filesystem.DataPath(cfg.Storage.DataDir)

	stateStore := history.NewSQLiteStore(dataDir)
	if stateStore.Degraded() {
		log.Warn("sqlite unavailable, history falls back to files", map[string]interface{}{"dir": dataDir})
	}

	pimStore, err := pim.Open(filepath.Join(dataDir, "pim.db"), clk)
	if err != nil {
		_ = stateStore.Close()
		return nil, err
	}
	if _, err := pimStore.EnsureCalendar(ctx, defaultCalendarName, true); err != nil {
		log.Warn("default calendar unavailable", map[string]interface{}{"error": err.Error()})
	}

	runner := system.NewLocalRunner(commandTimeout)
	clipboard := system.NewClipboard(log.Named("clipboard"))
	index := watcher.NewDirIndex(cfg.Capture)
	client := delegate.NewClient(cfg.Actions.ServerURL, delegate.Options{
		RequestsPerSecond: cfg.Actions.RequestsPerSecond,
		Burst:             cfg.Actions.Burst,
	})

	c := &Container{
		Config:         cfg,
		ConfigLoader:   cfgLoader,
		ConfigProvider: cfgLoader,
		Logger:         log,
		Clock:          clk,
		StateStore:     stateStore,
		HistoryStore:   apphistory.NewStore(stateStore, log.Named("history")),
		Board:          notify.NewBoard(filepath.Join(dataDir, "notifications"), clk),
		PIM:            pimStore,
		Delegate:       client,
		Runner:         runner,
		Network:        system.NewNMCLISuggester(runner),
		Maps:           system.NewMapOpener(runner, cfg.Actions.MapsURL),
		Index:          index,
		ResultCache:    cache.NewFileCache(filepath.Join(dataDir, "cache", "results"), cfg.Classifier.CacheEntries, cfg.Classifier.CacheTTL(), clk),
		factory:        ai.NewFactory(),
	}
	if clipboard.Enabled() {
		c.Clipboard = clipboard
	}

	deps := actions.Deps{
		BillsDir:      cfg.Actions.BillsDir,
		ShareContacts: cfg.Actions.ShareContacts,
		Resolver:      actions.FileResolver{},
		Calendar:      pimStore,
		Contacts:      pimStore,
		Alarms:        pimStore,
		Network:       c.Network,
		Maps:          c.Maps,
		Share:         client,
		Watchlist:     client,
		Clock:         clk,
		Location:      time.Local,
		Logger:        log.Named("actions"),
	}
	if c.Clipboard != nil {
		deps.Clipboard = c.Clipboard
	}
	c.Registry = dispatch.NewRegistry(log.Named("dispatch"))
	c.Registry.RegisterAll(actions.Handlers(deps))

	c.DoctorService = &doctor.Service{
		ConfigProvider: cfgLoader,
		Network:        c.Network,
		Remote:         client,
	}
	if c.Clipboard != nil {
		c.DoctorService.Clipboard = c.Clipboard
	}
	return c, nil
}

// Classifier returns the configured classifier, building it on first use.
// Results are cached unless classifier.cache_entries is negative.
func (c *Container) Classifier(ctx context.Context) (ports.Classifier, error) {
	c.classifierOnce.Do(func() {
		c.classifier, c.classifierErr = c.factory.ForSettings(ctx, c.Config.Classifier)
		if c.classifierErr == nil && c.Config.Classifier.CacheEntries >= 0 {
			c.classifier = cache.Wrap(c.classifier, c.ResultCache, c.Logger.Named("cache"))
		}
	})
	return c.classifier, c.classifierErr
}

// NewPresenter builds a presenter on the given surfaces. A nil overlay, or
// overlay_enabled: false, leaves only the notification channel.
func (c *Container) NewPresenter(overlay ports.OverlaySurface, notifications ports.NotificationSurface, exec feedback.Executor) *feedback.Presenter {
	if !c.Config.Feedback.OverlayEnabled {
		overlay = nil
	}
	return feedback.NewPresenter(overlay, notifications, nil, c.Clock, exec, c.Logger.Named("feedback"), feedback.Options{
		AutoDismiss:    c.Config.Feedback.AutoDismiss(),
		SwipeThreshold: c.Config.Feedback.SwipeThreshold,
	})
}

// NewDispatcher builds a dispatcher over the handler registry.
func (c *Container) NewDispatcher(messenger ports.Messenger) *dispatch.Dispatcher {
	return dispatch.NewDispatcher(c.Registry, messenger, c.Logger.Named("dispatch"))
}

// NewOrchestrator wires the capture pipeline.
func (c *Container) NewOrchestrator(classifier ports.Classifier, presenter capture.Presenter, dispatcher capture.ActionDispatcher) *capture.Orchestrator {
	return capture.NewOrchestrator(capture.Config{
		Classifier: classifier,
		Index:      c.Index,
		Presenter:  presenter,
		History:    c.HistoryStore,
		Dispatcher: dispatcher,
		Clock:      c.Clock,
		Logger:     c.Logger.Named("capture"),
		Settings:   c.Config.Capture,
		Timeout:    c.Config.Classifier.Timeout(),
	})
}

// NewWatcher builds the capture source over the configured directories.
func (c *Container) NewWatcher() *watcher.FSWatcher {
	return watcher.NewFSWatcher(c.Config.Capture.WatchDirs, c.Clock, c.Logger.Named("watcher"))
}

// Close releases database handles and flushes logs.
func (c *Container) Close() error {
	err := errors.Join(c.StateStore.Close(), c.PIM.Close())
	_ = c.Logger.Sync()
	return err
}
