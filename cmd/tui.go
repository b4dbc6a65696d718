package main

import (
	"context"

	"github.com/desertthunder/chinook/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive table browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.config.Logging.Echo {
		r.logger.Warn("logging.echo is enabled; log lines will be drawn over the browser")
	}
	return ui.Run(ctx, r.store, cmd.Bool("verbose"))
}
