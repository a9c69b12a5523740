// Package account holds the commands that register and look up users.
package account

import (
	"context"

	"github.com/spf13/cobra"

	"urbanincidents/internal/application/user/usecases"
	"urbanincidents/internal/interfaces/cli/bootstrap"
)

func NewCommand(opts *bootstrap.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Register and look up users",
	}

	cmd.AddCommand(newRegisterCommand(opts), newShowCommand(opts), newWhoAmICommand(opts))

	return cmd
}

func newRegisterCommand(opts *bootstrap.Options) *cobra.Command {
	var command usecases.RegisterUserCommand

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a citizen account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return bootstrap.Run(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				registered, err := app.Users.RegisterUser(ctx, command)
				if err != nil {
					return err
				}
				return opts.Write(cmd.OutOrStdout(), registered)
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&command.Email, "email", "", "Email, which is also the login")
	flags.StringVar(&command.Name, "name", "", "First name")
	flags.StringVar(&command.Surname, "surname", "", "Surname")
	flags.StringVar(&command.BirthDate, "birth-date", "", "Birth date as YYYY-MM-DD")
	flags.StringVar(&command.Address, "address", "", "Postal address")
	flags.StringVar(&command.Phone, "phone", "", "Spanish phone number")
	flags.StringVar(&command.Password, "new-password", "", "Password for the new account")
	for _, name := range []string{"email", "name", "surname", "birth-date", "address", "phone", "new-password"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func newShowCommand(opts *bootstrap.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <email>",
		Short: "Show a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return bootstrap.Run(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				found, err := app.Users.GetUser(ctx, args[0])
				if err != nil {
					return err
				}
				return opts.Write(cmd.OutOrStdout(), found)
			})
		},
	}
}

func newWhoAmICommand(opts *bootstrap.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Check the --as/--password credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return bootstrap.Run(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				caller, err := app.Caller(ctx, opts)
				if err != nil {
					return err
				}
				return opts.Write(cmd.OutOrStdout(), map[string]any{
					"email":    caller.Email(),
					"is_admin": caller.IsAdmin(),
				})
			})
		},
	}
}
