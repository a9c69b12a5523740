// Package catalog holds the commands that manage incident types.
package catalog

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"urbanincidents/internal/application/incident/usecases"
	"urbanincidents/internal/interfaces/cli/bootstrap"
)

func NewCommand(opts *bootstrap.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "type",
		Aliases: []string{"types"},
		Short:   "Manage the incident type catalog",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List incident types",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return bootstrap.Run(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
					types, err := app.Incidents.ListTypes(ctx)
					if err != nil {
						return err
					}
					return opts.Write(cmd.OutOrStdout(), types)
				})
			},
		},
		&cobra.Command{
			Use:   "show <name>",
			Short: "Show one incident type",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return bootstrap.Run(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
					found, err := app.Incidents.GetType(ctx, args[0])
					if err != nil {
						return err
					}
					return opts.Write(cmd.OutOrStdout(), found)
				})
			},
		},
		&cobra.Command{
			Use:   "create <name>",
			Short: "Add an incident type (admin only)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return bootstrap.Run(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
					caller, err := app.Caller(ctx, opts)
					if err != nil {
						return err
					}
					created, err := app.Incidents.CreateType(ctx, usecases.CreateTypeCommand{Caller: caller, Name: args[0]})
					if err != nil {
						return err
					}
					return opts.Write(cmd.OutOrStdout(), created)
				})
			},
		},
		&cobra.Command{
			Use:   "delete <name>",
			Short: "Remove an incident type no incident refers to (admin only)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return bootstrap.Run(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
					caller, err := app.Caller(ctx, opts)
					if err != nil {
						return err
					}
					if err := app.Incidents.DeleteType(ctx, usecases.DeleteTypeCommand{Caller: caller, Name: args[0]}); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Incident type %q deleted\n", args[0])
					return nil
				})
			},
		},
	)

	return cmd
}
