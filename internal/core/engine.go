// Package core wires configuration, the event bus, and per-tool runners
// into the single orchestrator both frontends talk to.
package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/spl-lab/spl-workbench/internal/config"
	"github.com/spl-lab/spl-workbench/internal/events"
	"github.com/spl-lab/spl-workbench/internal/logging"
	"github.com/spl-lab/spl-workbench/internal/runner"
	"github.com/spl-lab/spl-workbench/internal/specula"
	"github.com/spl-lab/spl-workbench/internal/validation"
)

// Engine is the orchestrator shared by the GUI and CLI frontends. It owns
// the configuration, the event bus, and one runner per tool.
type Engine struct {
	config   *config.Config
	eventBus *events.EventBus
	log      *logging.Logger

	mu      sync.RWMutex
	runners map[string]*runner.Runner
}

// NewEngine creates an engine around cfg. A nil cfg loads the config from
// the default path, falling back to defaults when no file exists.
func NewEngine(cfg *config.Config, log *logging.Logger) (*Engine, error) {
	if cfg == nil {
		var err error
		cfg, err = config.LoadConfigCSV("")
		if err != nil {
			return nil, fmt.Errorf("failed to load default config: %w", err)
		}
	}

	eventBus := events.NewEventBus(cfg.EventBuffer)
	if log == nil {
		log = logging.NewLogger("cli", eventBus)
	}

	return &Engine{
		config:   cfg,
		eventBus: eventBus,
		log:      log,
		runners:  make(map[string]*runner.Runner),
	}, nil
}

// GetConfig returns the current configuration.
func (e *Engine) GetConfig() *config.Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.config
}

// UpdateConfig validates and swaps in a new configuration.
func (e *Engine) UpdateConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	e.mu.Lock()
	e.config = cfg
	e.mu.Unlock()
	e.log.Info().
		Str("python", cfg.PythonExe).
		Str("scripts_dir", cfg.ScriptsDir).
		Msg("Configuration updated")
	return nil
}

// LoadConfig reads a config file and makes it current. An empty path means
// the default location.
func (e *Engine) LoadConfig(path string) error {
	cfg, err := config.LoadConfigCSV(path)
	if err != nil {
		return err
	}
	return e.UpdateConfig(cfg)
}

// SaveConfig persists the current configuration. An empty path means the
// default location.
func (e *Engine) SaveConfig(path string) error {
	return config.SaveConfigCSV(e.GetConfig(), path)
}

// EventBus exposes the engine's event bus for frontend subscriptions.
func (e *Engine) EventBus() *events.EventBus {
	return e.eventBus
}

// Logger returns the engine's logger.
func (e *Engine) Logger() *logging.Logger {
	return e.log
}

// Runner returns the runner owning the named tool, creating it on first use.
// Each tool has exactly one runner, so concurrent launches of the same tool
// surface runner.ErrBusy instead of racing.
func (e *Engine) Runner(tool string) *runner.Runner {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.runners[tool]
	if !ok {
		r = runner.New(tool, e.eventBus, e.log)
		e.runners[tool] = r
	}
	return r
}

// Launch resolves a command against the configured interpreter and scripts
// directory and starts it on the command's tool runner. The scripts
// directory is checked before spawning so a misconfigured path reads as a
// configuration problem rather than a run failure.
func (e *Engine) Launch(ctx context.Context, cmd specula.Command, onDone func(runner.Result)) (string, error) {
	cfg := e.GetConfig()
	if err := validation.DirExists("scripts directory", cfg.ScriptsDir); err != nil {
		return "", &runner.SpawnError{Err: err}
	}
	argv := cmd.Argv(cfg.PythonExe, cfg.ScriptsDir)
	// The scripts resolve their calibration tree relative to where they run.
	return e.Runner(cmd.Tool).Start(ctx, argv, cfg.ScriptsDir, onDone)
}

// Cancel terminates the active run for a tool, if any.
func (e *Engine) Cancel(tool string) {
	e.mu.RLock()
	r, ok := e.runners[tool]
	e.mu.RUnlock()
	if ok {
		r.Cancel()
	}
}

// Busy reports whether the named tool currently has an active run.
func (e *Engine) Busy(tool string) bool {
	e.mu.RLock()
	r, ok := e.runners[tool]
	e.mu.RUnlock()
	return ok && r.Active()
}

// Close cancels every active run and shuts down the event bus.
func (e *Engine) Close() {
	e.mu.Lock()
	runners := make([]*runner.Runner, 0, len(e.runners))
	for _, r := range e.runners {
		runners = append(runners, r)
	}
	e.mu.Unlock()
	for _, r := range runners {
		r.Cancel()
	}
	e.eventBus.Close()
}
