package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/stepr/internal/config"
	"github.com/mark3labs/stepr/internal/definition"
	"github.com/mark3labs/stepr/internal/journal"
	"github.com/mark3labs/stepr/internal/logger"
	"github.com/mark3labs/stepr/internal/nats"
	"github.com/mark3labs/stepr/internal/session"
	"github.com/mark3labs/stepr/internal/stepper"
)

var globalFlags struct {
	dataDir  string
	logLevel string
	logFile  string
}

// loadConfig loads the layered configuration, applies the global flags on
// top and configures the logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if globalFlags.dataDir != "" {
		cfg.DataDir = globalFlags.dataDir
	}
	if globalFlags.logLevel != "" {
		cfg.LogLevel = globalFlags.logLevel
	}
	if globalFlags.logFile != "" {
		cfg.LogFile = globalFlags.logFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if cfg.LogLevel != "" {
		level, _ := logger.ParseLevel(cfg.LogLevel)
		logger.Default.SetLevel(level)
	}
	if cfg.LogFile != "" {
		if err := logger.Default.SetFile(cfg.LogFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cannot open log file: %v\n", err)
		}
	}
	return cfg, nil
}

func journalDir(cfg *config.Config) string {
	return filepath.Join(cfg.DataDir, "nats")
}

// baseOptions maps the config onto stepper options. Options passed by the
// caller go after these and override them; the definition overrides the
// config for every setting it leaves set.
func baseOptions(cfg *config.Config, w *definition.Wizard, bidi *stepper.Bidi) []stepper.Option {
	base := []stepper.Option{
		stepper.WithGlobalOptions(cfg.GlobalOptions()),
		stepper.WithDirectionality(bidi),
	}
	if w.Linear == nil {
		base = append(base, stepper.WithLinear(cfg.Linear))
	}
	if w.Orientation == "" && cfg.Orientation != "" {
		base = append(base, stepper.WithOrientation(stepper.ParseOrientation(cfg.Orientation)))
	}
	return base
}

// wizardRuntime is a loaded wizard session plus the resources backing it.
type wizardRuntime struct {
	sess    *session.Session
	bidi    *stepper.Bidi
	journal *nats.Embedded
}

// openWizard loads the definition at path and builds its session. With the
// journal enabled, progress is recorded and resume restores the last state.
func openWizard(ctx context.Context, cfg *config.Config, path string, resume bool, opts ...stepper.Option) (*wizardRuntime, error) {
	w, err := definition.Load(path)
	if err != nil {
		return nil, err
	}

	rt := &wizardRuntime{bidi: stepper.NewBidi(stepper.ParseDirection(cfg.Direction))}
	base := baseOptions(cfg, w, rt.bidi)
	opts = append(base, opts...)

	if !cfg.Journal {
		if resume {
			logger.Warn("Resume requested but the journal is disabled")
		}
		rt.sess, err = session.New(w, opts...)
		if err != nil {
			return nil, err
		}
		return rt, nil
	}

	rt.journal, err = nats.Open(ctx, journalDir(cfg))
	if err != nil {
		return nil, err
	}
	store := journal.NewStore(rt.journal.JS, rt.journal.Stream)

	if resume {
		state, err := store.LoadState(ctx, w.Slug())
		if err != nil {
			_ = rt.journal.Close()
			return nil, fmt.Errorf("failed to load journal: %w", err)
		}
		rt.sess, err = session.Resume(ctx, w, state, opts...)
		if err != nil {
			_ = rt.journal.Close()
			return nil, err
		}
	} else {
		rt.sess, err = session.New(w, opts...)
		if err != nil {
			_ = rt.journal.Close()
			return nil, err
		}
	}

	rt.sess.AttachRecorder(journal.NewRecorder(store, w.Slug()))
	return rt, nil
}

// Close flushes the journal and stops the embedded server.
func (rt *wizardRuntime) Close() error {
	var errs []error
	if err := rt.sess.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to flush journal: %w", err))
	}
	if rt.journal != nil {
		if err := rt.journal.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
