package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"salescore/internal/analytics"
	"salescore/pkg/domain"
)

func newClientsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clients",
		Short: "Client commands",
	}
	cmd.AddCommand(newClientsListCmd(app))
	cmd.AddCommand(newClientsAddCmd(app))
	cmd.AddCommand(newClientsDeleteCmd(app))
	return cmd
}

func newClientsListCmd(app *App) *cobra.Command {
	var f analytics.ClientFilter
	var status, clientType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clients, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f.Status = domain.CommunicationStatus(strings.TrimSpace(status))
			f.Type = domain.ClientType(strings.TrimSpace(clientType))
			return run(cmd, app, func(ctx context.Context, s *session) (any, error) {
				return s.svc.FindClients(ctx, f)
			})
		},
	}

	cmd.Flags().StringVar(&f.Query, "query", "", "Match name, INN, city, phone, email or contacts")
	cmd.Flags().StringVar(&status, "status", "", "Communication status")
	cmd.Flags().StringVar(&clientType, "type", "", "Client type (prospect|active|key|inactive)")
	cmd.Flags().StringVar(&f.ResponsibleID, "responsible", "", "Responsible employee id")
	cmd.Flags().BoolVar(&f.Overdue, "overdue", false, "Only clients whose next contact is due")
	return cmd
}

func newClientsAddCmd(app *App) *cobra.Command {
	var c domain.Client
	var clientType string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.Name = strings.TrimSpace(c.Name)
			c.ClientType = domain.ClientType(strings.TrimSpace(clientType))
			if c.CommunicationStatus == "" {
				c.CommunicationStatus = domain.CommunicationNone
			}
			return run(cmd, app, func(ctx context.Context, s *session) (any, error) {
				created, res, err := s.svc.AddClient(ctx, c)
				if err != nil {
					return nil, err
				}
				return withViolations(created, res), nil
			})
		},
	}

	cmd.Flags().StringVar(&c.Name, "name", "", "Company name")
	cmd.Flags().StringVar(&c.Phone, "phone", "", "Phone")
	cmd.Flags().StringVar(&c.Email, "email", "", "Email")
	cmd.Flags().StringVar(&c.City, "city", "", "City")
	cmd.Flags().StringVar(&c.INN, "inn", "", "Taxpayer number")
	cmd.Flags().StringVar(&c.ResponsibleID, "responsible", "", "Responsible employee id")
	cmd.Flags().StringVar(&clientType, "type", string(domain.ClientTypeProspect), "Client type (prospect|active|key|inactive)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newClientsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <client-id>",
		Short: "Delete a client (orders and payments referencing it are kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, func(ctx context.Context, s *session) (any, error) {
				found, err := s.svc.DeleteClient(ctx, args[0])
				if err != nil {
					return nil, err
				}
				return map[string]any{"id": args[0], "deleted": found}, nil
			})
		},
	}
}

// withViolations pairs a record with the warnings its commit produced.
func withViolations(record any, res domain.Result) map[string]any {
	out := map[string]any{"record": record}
	if len(res.Violations) > 0 {
		out["violations"] = res.Violations
	}
	return out
}
