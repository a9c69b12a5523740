package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"urbanincidents/internal/interfaces/cli/account"
	"urbanincidents/internal/interfaces/cli/bootstrap"
	"urbanincidents/internal/interfaces/cli/catalog"
	"urbanincidents/internal/interfaces/cli/incident"
	"urbanincidents/internal/interfaces/cli/migrate"
	"urbanincidents/internal/shared/errors"
	"urbanincidents/internal/shared/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(exitCode(err))
	}
}

func newRootCommand() *cobra.Command {
	opts := &bootstrap.Options{}

	rootCmd := &cobra.Command{
		Use:           "urbanincidents",
		Short:         "Urban incident tracking",
		Long:          `Report municipal incidents such as dirt or damaged street furniture, track them through review and resolution, and manage the incident type catalog.`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envVar := os.Getenv("ENV"); envVar != "" && !cmd.Flags().Changed("env") {
				opts.Env = envVar
			}
			if opts.Password == "" {
				opts.Password = os.Getenv("URBANINCIDENTS_PASSWORD")
			}
			return opts.Validate()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.Env, "env", "e", "development", "Environment (development, test, production)")
	flags.StringVar(&opts.As, "as", "", "Email of the acting user")
	flags.StringVar(&opts.Password, "password", "", "Password of the acting user (or URBANINCIDENTS_PASSWORD)")
	flags.BoolVar(&opts.AutoMigrate, "auto-migrate", false, "Apply pending migrations before running the command")
	flags.StringVar(&opts.Output, "output", bootstrap.OutputJSON, "Output format (json, yaml)")

	rootCmd.AddCommand(
		migrate.NewCommand(opts),
		incident.NewCommand(opts),
		catalog.NewCommand(opts),
		account.NewCommand(opts),
	)

	return rootCmd
}

// exitCode reports the failure and maps application errors to distinct codes.
func exitCode(err error) int {
	fmt.Fprintln(os.Stderr, "Error:", err)

	switch {
	case errors.IsValidationError(err):
		return 2
	case errors.IsNotAuthorizedError(err), errors.IsInvalidCredentialsError(err), errors.IsUnauthorizedError(err):
		return 3
	case errors.IsNotFoundError(err):
		return 4
	case errors.IsAlreadyExistsError(err), errors.IsIncidentInProgressError(err), errors.IsInUseError(err):
		return 5
	case errors.IsConcurrencyExhaustedError(err):
		return 6
	default:
		return 1
	}
}
