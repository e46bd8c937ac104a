package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd, closeApp := newRootCmd()
	return runRoot(ctx, rootCmd, closeApp)
}

// runRoot releases the blob store after every run. Cobra skips post-run hooks
// when a command fails, so the close cannot live in PersistentPostRunE.
func runRoot(ctx context.Context, rootCmd *cobra.Command, closeApp func() error) error {
	err := rootCmd.ExecuteContext(ctx)
	if closeErr := closeApp(); closeErr != nil {
		return errors.Join(err, closeErr)
	}
	return err
}

func newRootCmd() (*cobra.Command, func() error) {
	rootCmd := &cobra.Command{
		Use:           "poolify",
		Short:         "Poolify: group-buy pools for quick-commerce orders",
		Long:          "poolify shows the active group-buy pools around your hostel with live countdowns, and lets you search, filter, join and start pools from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp(context.Background())
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd, func() error { return nil }
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newDashboardCmd(app),
		newPoolCmd(app),
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
	)

	return rootCmd, app.close
}
