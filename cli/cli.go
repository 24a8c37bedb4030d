package cli

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Execute runs cmd as the root command of a binary. Interrupts cancel the command context.
func Execute(appName, version string, cmd *cobra.Command) {
	cmd.Short = appName
	cmd.Version = version

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		log.Fatal("failed to execute root command", zap.Error(err))
	}
}
