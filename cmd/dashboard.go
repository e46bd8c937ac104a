package cmd

import (
	"errors"
	"fmt"

	"github.com/bnema/poolify-cli/internal/adapters/navigation"
	dashboardrender "github.com/bnema/poolify-cli/internal/adapters/render/dashboard"
	"github.com/bnema/poolify-cli/internal/application"
	"github.com/bnema/poolify-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newDashboardCmd(app *app) *cobra.Command {
	var once bool
	var search string
	var platform string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show active pools with live countdowns",
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := parsePlatformFilter(platform)
			if err != nil {
				return err
			}
			query := application.ViewQuery{Search: search, Platform: filter}

			nav := navigation.NewWriter(nil)
			defer replayNavigation(cmd.OutOrStdout(), nav)

			dash := app.dashboard(nav)
			if err := dash.Open(cmd.Context()); err != nil {
				if errors.Is(err, domain.ErrNoSession) {
					return nil
				}
				return err
			}

			if once {
				output := app.renderer(dash.Render(query), dashboardrender.RenderOptions{Selected: -1})
				_, err = fmt.Fprintln(cmd.OutOrStdout(), output)
				return err
			}

			_, err = app.live(cmd.Context(), dash, application.NewTimers(app.clock), dashboardrender.Options{
				Query:  query,
				Tick:   app.cfg.Tick,
				Watch:  app.watchStore,
				Input:  cmd.InOrStdin(),
				Output: cmd.OutOrStdout(),
			})
			return err
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "Render a single frame and exit")
	cmd.Flags().StringVar(&search, "search", "", "Only show pools matching this text")
	cmd.Flags().StringVar(&platform, "platform", "", "Only show pools for this platform (blinkit, zepto, instamart, other, all)")

	return cmd
}
