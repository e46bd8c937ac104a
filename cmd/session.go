package cmd

import (
	"fmt"

	"github.com/bnema/poolify-cli/internal/adapters/navigation"
	"github.com/bnema/poolify-cli/internal/application"
	"github.com/bnema/poolify-cli/internal/domain"
	"github.com/spf13/cobra"
)

type whoamiOutput struct {
	ID          string `json:"id" yaml:"id"`
	Email       string `json:"email" yaml:"email"`
	DisplayName string `json:"displayName" yaml:"display_name"`
	Hostel      string `json:"hostel" yaml:"hostel"`
}

func newLoginCmd(app *app) *cobra.Command {
	var email string
	var name string
	var hostel string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Start a local session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := app.sessionService(nil).Login(cmd.Context(), application.LoginCommand{
				Email:       email,
				DisplayName: name,
				Hostel:      hostel,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s <%s> (%s)\n",
				sanitizeForTerminal(session.DisplayName), sanitizeForTerminal(session.Email), sanitizeForTerminal(session.Hostel))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&name, "name", "", "Display name (defaults to the email name)")
	cmd.Flags().StringVar(&hostel, "hostel", "", "Hostel (defaults to the saved preference)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the local session and every stored pool",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.sessionService(navigation.NewWriter(cmd.OutOrStdout())).Logout(cmd.Context()); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(app *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the current user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := validateOutput(output)
			if err != nil {
				return err
			}

			session, state, err := app.sessionService(nil).Resolve(cmd.Context())
			if err != nil {
				return err
			}
			if state != application.StateAuthenticated {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}

			name := domain.DisplayNameFor(session.DisplayName, session.Email)
			if format != outputText {
				return writeStructured(cmd.OutOrStdout(), format, whoamiOutput{
					ID:          session.ID,
					Email:       session.Email,
					DisplayName: name,
					Hostel:      session.Hostel,
				})
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "name: %s\n", sanitizeForTerminal(name))
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "email: %s\n", sanitizeForTerminal(session.Email))
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "id: %s\n", sanitizeForTerminal(session.ID))
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "hostel: %s\n", sanitizeForTerminal(session.Hostel))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputText, "Output format: text, json or yaml")

	return cmd
}
