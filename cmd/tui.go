package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/statsdash/internal/server"
	"github.com/desertthunder/statsdash/internal/shared"
	"github.com/desertthunder/statsdash/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive dashboard.
//
// The redirect listener runs for the lifetime of the program so a login can happen at any time.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(shared.ParseLogLevel(r.config.Log.Level))
	r.SetLogger(fileLogger)

	if token := cmd.String("token"); token != "" {
		r.tokens.Set(token)
	}

	opts := ui.Options{
		Machine: r.newMachine(),
		Engine:  r.engine,
		OpenURL: r.openURL,
		Logger:  fileLogger,
	}

	if repo, closeFn, err := r.openArchive(); err != nil {
		r.logger.Warn("snapshot archive unavailable, saving disabled", "error", err)
	} else {
		defer closeFn()
		opts.Archive = repo
	}

	p := tea.NewProgram(ui.NewModel(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))

	handler := server.NewTokenHandler(r.tokens, func(string) {
		p.Send(ui.CredentialCapturedMsg())
	})
	listener, err := server.Listen(r.config.Server.Addr(), server.NewRedirectRouter(handler, r.logger), r.logger)
	if err != nil {
		return fmt.Errorf("failed to start redirect listener: %w", err)
	}
	defer listener.Shutdown(context.Background())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
