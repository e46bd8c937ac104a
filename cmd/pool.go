package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bnema/poolify-cli/internal/adapters/navigation"
	"github.com/bnema/poolify-cli/internal/application"
	"github.com/bnema/poolify-cli/internal/domain"
	"github.com/jaswdr/faker"
	"github.com/spf13/cobra"
)

type poolListing struct {
	ID        string    `json:"id" yaml:"id"`
	Platform  string    `json:"platform" yaml:"platform"`
	Creator   string    `json:"creator" yaml:"creator"`
	Items     []string  `json:"items" yaml:"items"`
	Members   int       `json:"members" yaml:"members"`
	MaxUsers  int       `json:"maxUsers" yaml:"max_users"`
	Savings   float64   `json:"estimatedSavings" yaml:"estimated_savings"`
	ExpiresAt time.Time `json:"expiresAt" yaml:"expires_at"`
	Remaining string    `json:"remaining" yaml:"remaining"`
	Urgent    bool      `json:"urgent" yaml:"urgent"`
	Joined    bool      `json:"joined" yaml:"joined"`
}

func newPoolCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool",
		Short: "List, join and manage pools",
	}

	cmd.AddCommand(
		newPoolListCmd(app),
		newPoolJoinCmd(app),
		newPoolViewCmd(app),
		newPoolCreateCmd(app),
		newPoolSeedCmd(app),
		newPoolPruneCmd(app),
	)

	return cmd
}

func newPoolListCmd(app *app) *cobra.Command {
	var output string
	var search string
	var platform string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active pools",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := validateOutput(output)
			if err != nil {
				return err
			}
			filter, err := parsePlatformFilter(platform)
			if err != nil {
				return err
			}

			nav := navigation.NewWriter(cmd.OutOrStdout())
			dash := app.dashboard(nav)
			if err := dash.Open(cmd.Context()); err != nil {
				if errors.Is(err, domain.ErrNoSession) {
					return nil
				}
				return err
			}

			req := dash.Render(application.ViewQuery{Search: search, Platform: filter})
			if format != outputText {
				listings := make([]poolListing, 0, len(req.Cards))
				for _, card := range req.Cards {
					listings = append(listings, newPoolListing(card))
				}
				return writeStructured(cmd.OutOrStdout(), format, listings)
			}

			if len(req.Cards) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), req.EmptyMessage)
				return nil
			}
			for _, card := range req.Cards {
				writeCardLine(cmd.OutOrStdout(), card)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputText, "Output format: text, json or yaml")
	cmd.Flags().StringVar(&search, "search", "", "Only list pools matching this text")
	cmd.Flags().StringVar(&platform, "platform", "", "Only list pools for this platform")

	return cmd
}

func newPoolListing(card application.Card) poolListing {
	return poolListing{
		ID:        string(card.ID),
		Platform:  string(card.Platform),
		Creator:   card.CreatorName,
		Items:     append(append([]string{}, card.Items...), moreTag(card)...),
		Members:   card.Members,
		MaxUsers:  card.MaxUsers,
		Savings:   card.Savings,
		ExpiresAt: card.ExpiresAt.UTC(),
		Remaining: card.Countdown.Clock(),
		Urgent:    card.Countdown.Urgent,
		Joined:    card.Joined,
	}
}

func moreTag(card application.Card) []string {
	tags := card.ItemTags()
	if len(tags) > len(card.Items) {
		return tags[len(card.Items):]
	}
	return nil
}

func writeCardLine(w io.Writer, card application.Card) {
	marks := ""
	switch {
	case card.Joined:
		marks = "  [joined]"
	case card.Full:
		marks = "  [full]"
	}
	if card.Countdown.Urgent {
		marks += "  [urgent]"
	}

	_, _ = fmt.Fprintf(w, "%s  %-9s  %-12s  %s  %s  %s%s\n",
		sanitizeForTerminal(string(card.ID)),
		sanitizeForTerminal(card.PlatformName),
		sanitizeForTerminal(card.CreatorName),
		card.MembersLabel(),
		card.SavingsLabel(),
		card.Countdown.Label(),
		marks,
	)
}

func newPoolJoinCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "join <pool-id>",
		Short: "Join a pool as the current user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dash := app.dashboard(navigation.NewWriter(cmd.OutOrStdout()))
			if err := dash.Open(cmd.Context()); err != nil {
				return err
			}

			pool, err := dash.Join(cmd.Context(), domain.PoolID(strings.TrimSpace(args[0])))
			if err != nil {
				var joinErr *domain.JoinError
				if errors.As(err, &joinErr) {
					return errors.New(joinErr.UserMessage())
				}
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Joined %s pool! (members: %d/%d)\n", pool.Platform.DisplayName(), len(pool.JoinedUsers), pool.MaxUsers)
			return nil
		},
	}
}

func newPoolViewCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view [pool-id]",
		Short: "Show one pool, by default the last one viewed",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// The detail is printed here, so the pool-detail hand-off stays quiet.
			nav := navigation.NewWriter(nil)
			dash := app.dashboard(nav)
			if err := dash.Open(cmd.Context()); err != nil {
				if errors.Is(err, domain.ErrNoSession) {
					replayNavigation(cmd.OutOrStdout(), nav)
				}
				return err
			}

			var id domain.PoolID
			if len(args) == 1 {
				id = domain.PoolID(strings.TrimSpace(args[0]))
				if err := dash.View(cmd.Context(), id); err != nil {
					return err
				}
			} else {
				stored, err := app.sessions.ViewingPoolID(cmd.Context())
				if err != nil {
					return err
				}
				if stored == "" {
					return errors.New("no pool viewed yet; pass a pool id")
				}
				id = stored
			}

			pool, err := app.poolService().Find(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("view pool %s: %w", id, err)
			}

			writePoolDetail(cmd.OutOrStdout(), pool, application.NewCard(pool, dash.Session(), app.clock.Now()))
			return nil
		},
	}
}

func writePoolDetail(w io.Writer, pool domain.Pool, card application.Card) {
	items := "none"
	if len(pool.Items) > 0 {
		items = sanitizeForTerminal(strings.Join(pool.Items, ", "))
	}

	members := "none"
	if len(pool.JoinedUsers) > 0 {
		names := make([]string, 0, len(pool.JoinedUsers))
		for _, member := range pool.JoinedUsers {
			names = append(names, sanitizeForTerminal(string(member)))
		}
		members = strings.Join(names, ", ")
	}

	_, _ = fmt.Fprintf(w, "pool: %s\n", pool.ID)
	_, _ = fmt.Fprintf(w, "platform: %s\n", card.PlatformName)
	_, _ = fmt.Fprintf(w, "created by: %s\n", sanitizeForTerminal(card.CreatorName))
	_, _ = fmt.Fprintf(w, "items: %s\n", items)
	_, _ = fmt.Fprintf(w, "members: %s (%s)\n", card.MembersLabel(), members)
	_, _ = fmt.Fprintf(w, "savings: %s\n", card.SavingsLabel())
	_, _ = fmt.Fprintf(w, "time left: %s\n", card.Countdown.Label())
	_, _ = fmt.Fprintf(w, "joined: %t\n", card.Joined)
}

func newPoolCreateCmd(app *app) *cobra.Command {
	var platform string
	var items []string
	var maxUsers int
	var savings float64
	var minutes int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Start a new pool as the current user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, err := parsePlatform(platform, false)
			if err != nil {
				return err
			}
			if minutes <= 0 {
				return fmt.Errorf("minutes must be positive, got %d", minutes)
			}

			session, state, err := app.sessionService(navigation.NewWriter(cmd.OutOrStdout())).Resolve(cmd.Context())
			if err != nil {
				return err
			}
			if state != application.StateAuthenticated {
				return fmt.Errorf("create pool: %w; run `poolify login` first", domain.ErrNoSession)
			}

			pool, err := app.poolService().Create(cmd.Context(), application.CreatePoolCommand{
				Creator:          session,
				Platform:         parsed,
				Items:            items,
				MaxUsers:         maxUsers,
				EstimatedSavings: savings,
				Duration:         time.Duration(minutes) * time.Minute,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created %s pool %s (expires in %s)\n",
				pool.Platform.DisplayName(), pool.ID, domain.NewCountdown(pool.ID, pool.ExpiresAt, app.clock.Now()).Label())
			return nil
		},
	}

	cmd.Flags().StringVar(&platform, "platform", "", "Platform: blinkit, zepto, instamart or other")
	cmd.Flags().StringSliceVar(&items, "items", nil, "Items to pool (comma separated or repeated)")
	cmd.Flags().IntVar(&maxUsers, "max-users", domain.DefaultMaxUsers, "Maximum members including you")
	cmd.Flags().Float64Var(&savings, "savings", 0, "Estimated savings amount")
	cmd.Flags().IntVar(&minutes, "minutes", 30, "Minutes until the pool expires")
	_ = cmd.MarkFlagRequired("platform")

	return cmd
}

func newPoolSeedCmd(app *app) *cobra.Command {
	var random int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace stored pools with the demo pools",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if random < 0 {
				return fmt.Errorf("random must not be negative, got %d", random)
			}

			svc := app.poolService()
			pools, err := svc.SeedDemo(cmd.Context())
			if err != nil {
				return err
			}

			if random > 0 {
				pools = append(pools, application.RandomPools(faker.New(), app.clock.Now(), random)...)
				if err := svc.Persist(cmd.Context(), pools); err != nil {
					return err
				}
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d pools\n", len(pools))
			return nil
		},
	}

	cmd.Flags().IntVar(&random, "random", 0, "Also add this many random pools")

	return cmd
}

func newPoolPruneCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired pools from storage",
		RunE: func(cmd *cobra.Command, _ []string) error {
			removed, err := app.poolService().Prune(cmd.Context())
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d expired pools\n", removed)
			return nil
		},
	}
}
