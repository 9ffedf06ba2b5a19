package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/statsdash/internal/services"
	"github.com/desertthunder/statsdash/internal/session"
	"github.com/desertthunder/statsdash/internal/shared"
	"github.com/desertthunder/statsdash/internal/tasks"
	"github.com/urfave/cli/v3"
)

const defaultLoginTimeout = 2 * time.Minute

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config       *shared.Config
	configPath   string
	api          *services.APIService
	tokens       *session.TokenManager
	httpClient   *http.Client
	logger       *log.Logger
	output       io.Writer
	engine       *tasks.FetchEngine
	openURL      func(string) error
	loginTimeout time.Duration
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config       *shared.Config
	ConfigPath   string
	API          *services.APIService
	Tokens       *session.TokenManager
	HTTPClient   *http.Client
	Logger       *log.Logger
	Output       io.Writer
	OpenURL      func(string) error
	LoginTimeout time.Duration
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.API == nil {
		opts.API = services.NewAPIService(opts.Config.Backend.BaseURL, opts.HTTPClient)
	}
	if opts.Tokens == nil {
		opts.Tokens = session.NewTokenManager()
	}
	if opts.OpenURL == nil {
		opts.OpenURL = shared.OpenBrowser
	}
	if opts.LoginTimeout <= 0 {
		opts.LoginTimeout = defaultLoginTimeout
	}

	r := &Runner{
		config:       opts.Config,
		configPath:   opts.ConfigPath,
		api:          opts.API,
		tokens:       opts.Tokens,
		httpClient:   opts.HTTPClient,
		output:       opts.Output,
		openURL:      opts.OpenURL,
		loginTimeout: opts.LoginTimeout,
	}
	r.SetLogger(opts.Logger)
	return r
}

// SetLogger replaces the logger and rebuilds the fetch engine around it.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	r.engine = tasks.NewFetchEngine(r.api,
		tasks.WithRateLimit(r.config.Fetch.RequestsPerSecond),
		tasks.WithTimeout(r.config.Backend.Timeout()),
		tasks.WithLogger(logger),
	)
}

// newMachine returns a state machine sharing the runner's token manager.
func (r *Runner) newMachine() *session.Machine {
	return session.NewMachine(r.tokens, r.config.Backend.LoginURL())
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		tuiCommand, statsCommand, loginCommand, historyCommand, setupCommand, apiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
