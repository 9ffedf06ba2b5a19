package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/statsdash/internal/services"
	"github.com/desertthunder/statsdash/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet makes a direct GET request to the backend
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	token := cmd.String("token")
	pretty := cmd.Bool("pretty")

	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}

	r.logger.Info("GET request", "path", path, "bearer", token != "")

	var resp *services.APIResponse
	var err error
	if token != "" {
		resp, err = r.api.GetBearer(ctx, path, token)
	} else {
		resp, err = r.api.Get(ctx, path)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if !resp.OK() {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, resp.BodyText())
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, pretty)
	}

	return r.writePlain("%s\n", resp.BodyText())
}
