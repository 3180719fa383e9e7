// Command stripegen generates a typed Go client from the Stripe OpenAPI document.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/arlyon/async-stripe-sub040/cmd/stripegen/commands"
	"github.com/arlyon/async-stripe-sub040/internal/ui"
	"github.com/arlyon/async-stripe-sub040/oaserrors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.Execute(ctx)
	stop()
	if err != nil {
		ui.PrintError(os.Stderr, err)
		os.Exit(oaserrors.ExitCode(err))
	}
}
