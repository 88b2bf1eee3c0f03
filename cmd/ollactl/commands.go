package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/OlaWorkspace/olla-website-sub000/internal/auth"
	"github.com/OlaWorkspace/olla-website-sub000/internal/config"
	"github.com/OlaWorkspace/olla-website-sub000/internal/db"
	"github.com/OlaWorkspace/olla-website-sub000/internal/onboarding"
	"github.com/OlaWorkspace/olla-website-sub000/internal/profile"
	"github.com/OlaWorkspace/olla-website-sub000/internal/subscription"
)

var verbose bool

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ollactl",
		Short:         "Operate the Olla backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log database activity")

	onboardingCmd := &cobra.Command{
		Use:   "onboarding",
		Short: "Inspect onboarding progress",
	}
	onboardingCmd.AddCommand(newOnboardingStatusCmd(), newMarkProfessionalCmd())

	root.AddCommand(
		newMigrateCmd(),
		newPromoteAdminCmd(),
		newPlansCmd(),
		onboardingCmd,
	)
	return root
}

// session is what every database-backed command runs against.
type session struct {
	cfg    *config.Config
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func openSession(ctx context.Context) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := zap.NewNop()
	if verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return nil, err
		}
	}

	pool, err := db.Connect(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, pool: pool, logger: logger}, nil
}

func (s *session) Close() {
	s.pool.Close()
	_ = s.logger.Sync()
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if err := db.MigratePool(cmd.Context(), s.pool, s.logger); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

func newPromoteAdminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "promote-admin EMAIL",
		Short: "Grant the ADMIN role to an existing account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			users := auth.NewService(auth.NewPostgresUserRepository(s.pool))
			user, err := users.PromoteToAdmin(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("promote %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", user.Email, user.Role)
			return nil
		},
	}
}

func newPlansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "List the subscription plan catalogue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalogue, err := subscription.DefaultCatalogue()
			if err != nil {
				return err
			}
			return printPlans(cmd.OutOrStdout(), catalogue.Plans())
		},
	}
}

func printPlans(w io.Writer, plans []subscription.Plan) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tNAME\tPRICE\tSTAFF\tTIERS\tTRIAL")
	for _, p := range plans {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%dd\n",
			p.Code, p.Name, p.PriceCents, limit(p.MaxStaff), limit(p.MaxTiers), p.TrialDays)
	}
	return tw.Flush()
}

func limit(n int) string {
	if n == 0 {
		return "unlimited"
	}
	return fmt.Sprint(n)
}

func newOnboardingStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status USER_ID",
		Short: "Show the stored onboarding status of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			store, err := profile.NewStore(s.cfg, s.pool)
			if err != nil {
				return err
			}
			p, err := store.GetProfile(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("lookup %s: %w", args[0], err)
			}
			return printProfile(cmd.OutOrStdout(), p)
		},
	}
}

func printProfile(w io.Writer, p *onboarding.Profile) error {
	status := onboarding.ParseStatusPtr(p.Status)
	_, err := fmt.Fprintf(w, "user:         %s\nrole:         %s\nprofessional: %t\nstatus:       %s\nnext page:    %s\n",
		p.UserID, p.Role, p.Professional, status, onboarding.CanonicalPath(status))
	return err
}

func newMarkProfessionalCmd() *cobra.Command {
	var unset bool
	cmd := &cobra.Command{
		Use:   "mark-professional USER_ID",
		Short: "Mark an account as a professional so it enters onboarding",
		Long: `Marks the account as a professional. An account without an onboarding
status starts at "none"; existing progress is kept. Use --unset to revert
the flag.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			store, err := profile.NewStore(s.cfg, s.pool)
			if err != nil {
				return err
			}
			return markProfessional(cmd.Context(), cmd.OutOrStdout(), store, args[0], !unset)
		},
	}
	cmd.Flags().BoolVar(&unset, "unset", false, "clear the professional flag instead")
	return cmd
}

func markProfessional(ctx context.Context, w io.Writer, store profile.Store, userID string, professional bool) error {
	if err := store.SetProfessional(ctx, userID, professional); err != nil {
		return fmt.Errorf("mark %s: %w", userID, err)
	}
	p, err := store.GetProfile(ctx, userID)
	if err != nil {
		return fmt.Errorf("lookup %s: %w", userID, err)
	}
	return printProfile(w, p)
}
