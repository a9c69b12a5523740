package incident

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"

	"urbanincidents/internal/application/incident/usecases"
	"urbanincidents/internal/interfaces/cli/bootstrap"
	"urbanincidents/internal/shared/constants"
	"urbanincidents/internal/shared/errors"
)

func NewCommand(opts *bootstrap.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "incident",
		Short: "Report and manage incidents",
	}

	cmd.AddCommand(
		newReportCommand(opts),
		newShowCommand(opts),
		newListCommand(opts),
		newSetStateCommand(opts),
		newDeleteCommand(opts),
		newPhotoCommand(opts),
	)

	return cmd
}

func parseID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.NewValidationError(fmt.Sprintf("invalid incident id %q", arg))
	}
	return uint(id), nil
}

func newReportCommand(opts *bootstrap.Options) *cobra.Command {
	var (
		command    usecases.CreateIncidentCommand
		reportedAt string
		photoPath  string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Report a new incident as the --as user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			command.ReportedAt = time.Now().UTC()
			if reportedAt != "" {
				parsed, err := time.Parse(time.RFC3339, reportedAt)
				if err != nil {
					return fmt.Errorf("--reported-at must be RFC 3339: %w", err)
				}
				command.ReportedAt = parsed
			}

			if photoPath != "" {
				photo, err := os.ReadFile(photoPath)
				if err != nil {
					return fmt.Errorf("failed to read photo: %w", err)
				}
				command.Photo = photo
			}

			return bootstrap.Run(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				reporter, err := app.Caller(ctx, opts)
				if err != nil {
					return err
				}
				command.Reporter = reporter

				created, err := app.Incidents.CreateIncident(ctx, command)
				if err != nil {
					return err
				}
				return opts.Write(cmd.OutOrStdout(), created)
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&command.TypeName, "type", "", "Incident type name")
	flags.StringVar(&command.Description, "description", "", "What happened")
	flags.StringVar(&command.Location, "location", "", "Human readable location")
	flags.Float32Var(&command.Latitude, "lat", 0, "Latitude in degrees")
	flags.Float32Var(&command.Longitude, "lng", 0, "Longitude in degrees")
	flags.StringVar(&command.Department, "department", "", "Department in charge")
	flags.StringVar(&reportedAt, "reported-at", "", "Report time in RFC 3339 (default: now)")
	flags.StringVar(&photoPath, "photo", "", "Path to a photo of the incident")
	for _, name := range []string{"type", "description", "location", "lat", "lng", "department"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func newShowCommand(opts *bootstrap.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one incident",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return bootstrap.Run(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				found, err := app.Incidents.GetIncident(ctx, id)
				if err != nil {
					return err
				}
				return opts.Write(cmd.OutOrStdout(), found)
			})
		},
	}
}

func newListCommand(opts *bootstrap.Options) *cobra.Command {
	var (
		reporter string
		query    usecases.SearchIncidentsQuery
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List incidents by reporter, or filtered by type and state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return bootstrap.Run(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				if reporter != "" {
					list, err := app.Incidents.ListUserIncidents(ctx, reporter)
					if err != nil {
						return err
					}
					return opts.Write(cmd.OutOrStdout(), list)
				}

				list, err := app.Incidents.SearchIncidents(ctx, query)
				if err != nil {
					return err
				}
				return opts.Write(cmd.OutOrStdout(), list)
			})
		},
	}

	cmd.Flags().StringVar(&reporter, "reporter", "", "Only incidents reported by this email")
	cmd.Flags().StringVar(&query.TypeName, "type", "", "Filter by incident type name")
	cmd.Flags().StringVar(&query.State, "state", "", "Filter by state (PENDING, UNDER_REVIEW, RESOLVED)")
	cmd.MarkFlagsMutuallyExclusive("reporter", "type")
	cmd.MarkFlagsMutuallyExclusive("reporter", "state")

	return cmd
}

func newSetStateCommand(opts *bootstrap.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "set-state <id> <state>",
		Short: "Move an incident to another state (admin only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return bootstrap.Run(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				caller, err := app.Caller(ctx, opts)
				if err != nil {
					return err
				}
				updated, err := app.Incidents.SetState(ctx, usecases.SetIncidentStateCommand{
					Caller:     caller,
					IncidentID: id,
					State:      args[1],
				})
				if err != nil {
					return err
				}
				return opts.Write(cmd.OutOrStdout(), updated)
			})
		},
	}
}

func newDeleteCommand(opts *bootstrap.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an incident",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return bootstrap.Run(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				caller, err := app.Caller(ctx, opts)
				if err != nil {
					return err
				}
				if err := app.Incidents.DeleteIncident(ctx, usecases.DeleteIncidentCommand{Caller: caller, IncidentID: id}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Incident %d deleted\n", id)
				return nil
			})
		},
	}
}

type photoResult struct {
	ID          uint   `json:"id"`
	Path        string `json:"path"`
	ContentType string `json:"content_type"`
	Bytes       int    `json:"bytes"`
}

func newPhotoCommand(opts *bootstrap.Options) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "photo <id>",
		Short: "Save the photo attached to an incident",
		Long:  "Save the photo attached to an incident. Without --out the file is named after the incident with an extension matching the detected content type.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return bootstrap.Run(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				photo, err := app.Incidents.GetIncidentPhoto(ctx, id)
				if err != nil {
					return err
				}
				if len(photo) == 0 {
					return errors.NewNotFoundError(fmt.Sprintf("incident %d has no photo", id))
				}

				detected := mimetype.Detect(photo)
				path := out
				if path == "" {
					path = fmt.Sprintf("incident-%d%s", id, detected.Extension())
				}
				if err := os.WriteFile(path, photo, constants.PhotoFileMode); err != nil {
					return fmt.Errorf("failed to write photo: %w", err)
				}
				return opts.Write(cmd.OutOrStdout(), photoResult{
					ID:          id,
					Path:        path,
					ContentType: detected.String(),
					Bytes:       len(photo),
				})
			})
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "File to write the photo to (default incident-<id>.<ext>)")

	return cmd
}
