// scanctl is a command-line interface over a local document draft store.
// It operates directly on the on-disk store rooted at --root, without
// requiring the HTTP service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	rootPath string
	logLevel string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "scanctl: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scanctl",
		Short: "Local scanned-document store CLI",
		Long: `scanctl manages a local scanned-document store: saving page images as
document drafts, finalizing them into shareable PDFs, and listing,
renaming, or deleting stored documents.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&rootPath, "root", ".data/scans", "Store root directory")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.AddCommand(
		newSaveCmd(),
		newFinalizeCmd(),
		newListCmd(),
		newRenameCmd(),
		newDeleteCmd(),
		newShareCmd(),
		newPagesCmd(),
	)
	return cmd
}
