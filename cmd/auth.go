package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/statsdash/internal/server"
	"github.com/desertthunder/statsdash/internal/session"
	"github.com/desertthunder/statsdash/internal/shared"
	"github.com/urfave/cli/v3"
)

// Login runs the browser login flow and reports whether a credential arrived.
//
// The credential only lives for the duration of the command.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	machine := r.newMachine()
	if err := r.browserLogin(ctx, machine); err != nil {
		return err
	}

	r.writePlainln("✓ Login successful")
	r.writePlain("Credentials are not stored; run 'statsdash stats' or 'statsdash tui' to load your stats.\n")
	return nil
}

// authenticate moves machine to Authenticated using the --token or --redirect-url flag, falling back to the browser flow.
func (r *Runner) authenticate(ctx context.Context, cmd *cli.Command, machine *session.Machine) error {
	switch {
	case cmd.String("token") != "":
		r.tokens.Set(cmd.String("token"))
	case cmd.String("redirect-url") != "":
		loc, err := session.NewStaticLocation(cmd.String("redirect-url"))
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
		}
		if _, ok := r.tokens.Capture(loc); !ok {
			return fmt.Errorf("%w: redirect URL has no %s parameter", shared.ErrInvalidArgument, session.TokenParam)
		}
		r.logger.Debug("captured credential from redirect URL", "url", loc.String())
	default:
		return r.browserLogin(ctx, machine)
	}

	return machine.Authenticate()
}

// browserLogin opens the backend login page and waits for the redirect listener to capture a credential.
func (r *Runner) browserLogin(ctx context.Context, machine *session.Machine) error {
	loginURL, err := machine.Login()
	if err != nil {
		return err
	}

	captured := make(chan struct{}, 1)
	handler := server.NewTokenHandler(r.tokens, func(string) {
		select {
		case captured <- struct{}{}:
		default:
		}
	})

	listener, err := server.Listen(r.config.Server.Addr(), server.NewRedirectRouter(handler, r.logger), r.logger)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer listener.Shutdown(context.Background())

	r.writePlain("→ Opening browser to log in...\n")
	if err := r.openURL(loginURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", loginURL)
	}

	r.writePlain("→ Waiting for the redirect to %s (%v timeout)...\n", listener.URL(), r.loginTimeout)

	timeout := time.NewTimer(r.loginTimeout)
	defer timeout.Stop()

	select {
	case <-captured:
	case err, ok := <-listener.Errors():
		if !ok {
			return fmt.Errorf("%w: redirect listener stopped", shared.ErrServiceUnavailable)
		}
		return fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return fmt.Errorf("%w: login timed out after %v", shared.ErrTimeout, r.loginTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}

	return machine.Authenticate()
}
