package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/solargrid/solargrid-web/internal/apiclient"
	"github.com/solargrid/solargrid-web/internal/models"
	"github.com/solargrid/solargrid-web/internal/session"
	"github.com/solargrid/solargrid-web/internal/solargrid"
)

func newGridsCmd(o *options) *cobra.Command {
	c := &cobra.Command{
		Use:     "grids",
		Aliases: []string{"grid"},
		Short:   "Manage your solar grids",
	}
	c.AddCommand(newGridsListCmd(o), newGridsCreateCmd(o), newGridsDeleteCmd(o))
	return c
}

// gridService checks the gates and returns a service bound to the local Session.
func gridService(cmd *cobra.Command, o *options) (*solargrid.Service, *session.Session, error) {
	store, err := o.store()
	if err != nil {
		return nil, nil, err
	}
	s, err := requireRole(cmd.Context(), store, session.RoleUser)
	if err != nil {
		return nil, nil, err
	}
	return solargrid.NewService(o.client(store)), s, nil
}

func failure(action string, err error) error {
	return fmt.Errorf("%s: %s", action, strings.Join(apiclient.Notices(err), "; "))
}

func newGridsListCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your solar grids",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, s, err := gridService(cmd, o)
			if err != nil {
				return err
			}
			grids, err := svc.ListByUser(cmd.Context(), s.UserID)
			if err != nil {
				return failure("failed to list solar grids", err)
			}
			out := cmd.OutOrStdout()
			if len(grids) == 0 {
				pterm.Info.WithWriter(out).Println("No solar grids yet")
				return nil
			}
			data := pterm.TableData{{"ID", "NAME", "AGE", "POWER OUTPUT", "DESCRIPTION"}}
			for _, g := range grids {
				data = append(data, []string{
					strconv.FormatInt(g.ID, 10),
					g.Name,
					strconv.Itoa(g.Age),
					strconv.FormatFloat(g.PowerOutput, 'f', -1, 64),
					g.Description,
				})
			}
			return pterm.DefaultTable.WithHasHeader().WithWriter(out).WithData(data).Render()
		},
	}
}

func newGridsCreateCmd(o *options) *cobra.Command {
	var g models.SolarGrid
	c := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a solar grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g.Name = strings.TrimSpace(args[0])
			if len(g.Name) < 3 {
				return fmt.Errorf("name size must be at least 3")
			}
			svc, _, err := gridService(cmd, o)
			if err != nil {
				return err
			}
			id, err := svc.Create(cmd.Context(), g)
			if err != nil {
				return failure("failed to create solar grid", err)
			}
			pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("%s (id %d)", solargrid.NoticeCreated, id)
			return nil
		},
	}
	c.Flags().IntVar(&g.Age, "age", 0, "Age in years")
	c.Flags().Float64Var(&g.PowerOutput, "power-output", 0, "Power output")
	c.Flags().StringVar(&g.Description, "description", "", "Description")
	return c
}

func newGridsDeleteCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a solar grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid id %q", args[0])
			}
			svc, _, err := gridService(cmd, o)
			if err != nil {
				return err
			}
			if err := svc.Delete(cmd.Context(), id); err != nil {
				return failure("failed to delete solar grid", err)
			}
			pterm.Success.WithWriter(cmd.OutOrStdout()).Println(solargrid.NoticeDeleted)
			return nil
		},
	}
}
