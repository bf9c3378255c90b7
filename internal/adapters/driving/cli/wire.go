package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/custodia-labs/quill/internal/adapters/driven/config/file"
	"github.com/custodia-labs/quill/internal/core/domain"
	"github.com/custodia-labs/quill/internal/core/ports/driven"
	"github.com/custodia-labs/quill/internal/core/ports/driving"
	"github.com/custodia-labs/quill/internal/core/services"
	"github.com/custodia-labs/quill/internal/keyword"
	logpkg "github.com/custodia-labs/quill/internal/logger"
	"github.com/custodia-labs/quill/internal/sources/bufferwords"
	"github.com/custodia-labs/quill/internal/sources/counter"
	"github.com/custodia-labs/quill/internal/sources/filesystem"
	"github.com/custodia-labs/quill/internal/sources/static"
)

// annotationStandalone marks commands that run without services.
const annotationStandalone = "quill/standalone"

// bootstrap builds services from the config file unless they were injected.
func bootstrap(cmd *cobra.Command, _ []string) error {
	if completionService != nil || cmd.Annotations[annotationStandalone] == "true" {
		return nil
	}

	path := configPath
	if path == "" {
		p, err := file.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	// First pass reads the log settings so the real store can log.
	probe, err := file.NewConfigStore(path, nil)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	app, err := services.NewSettingsService(probe, nil).Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	if logFile != "" {
		app.Log.Path = logFile
	}

	log, err := logpkg.New(app.Log, verbose)
	if err != nil {
		return err
	}

	store, err := file.NewConfigStore(path, log)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	completor := services.NewCompletor(app.Completion, log)
	registry := keyword.NewRegistry()
	if err := registerSources(completor, app.Sources, registry, log); err != nil {
		_ = completor.Close()
		return err
	}

	completionService = completor
	settingsService = services.NewSettingsService(store, log)
	configStore = store
	matchers = registry
	logger = log

	cleanup = func() {
		if err := completor.Close(); err != nil {
			log.Warn("closing completor", zap.Error(err))
		}
		_ = log.Sync()
	}

	log.Info("quill started",
		zap.String("version", version),
		zap.String("command", cmd.CommandPath()),
		zap.String("config", path),
		zap.Strings("sources", completor.Sources()))
	return nil
}

// teardown releases what bootstrap built.
func teardown(_ *cobra.Command, _ []string) error {
	if cleanup != nil {
		cleanup()
		cleanup = nil
		SetServices(nil)
	}
	return nil
}

// registerSources registers the enabled sources in the configured order.
func registerSources(
	c driving.CompletionService,
	s domain.SourceSettings,
	registry *keyword.Registry,
	log *zap.Logger,
) error {
	for _, kind := range s.Enabled {
		var src driven.Source
		switch kind {
		case domain.SourceBuffer:
			src = bufferwords.New(registry.Split, s.AllBuffers, log)
		case domain.SourceFilesystem:
			src = filesystem.New("", log)
		case domain.SourceStatic:
			src = static.New(s.StaticWords...)
		case domain.SourceCounter:
			src = counter.New(0)
		default:
			return fmt.Errorf("unknown source %q: %w", kind, domain.ErrInvalidInput)
		}
		if err := c.Register(kind.String(), src); err != nil {
			return fmt.Errorf("registering %s: %w", kind, err)
		}
	}
	return nil
}

// watchConfig re-applies completion settings whenever the config changes.
// The returned function stops watching and waits for the watcher to exit.
func watchConfig(ctx context.Context) (stop func()) {
	if configStore == nil || settingsService == nil {
		return func() {}
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := configStore.Watch(ctx, reloadSettings); err != nil {
			logger.Warn("config watch stopped", zap.Error(err))
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

func reloadSettings() {
	app, err := settingsService.Get()
	if err != nil {
		logger.Warn("reading settings", zap.Error(err))
		return
	}
	if err := completionService.SetSettings(app.Completion); err != nil {
		logger.Warn("applying completion settings", zap.Error(err))
		return
	}
	logger.Info("completion settings applied",
		zap.Int("max_results", app.Completion.MaxResults),
		zap.Duration("debounce", app.Completion.Debounce))
}
