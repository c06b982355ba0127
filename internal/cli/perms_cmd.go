package cli

import (
	"fmt"

	"github.com/alexanderramin/incidentboard/internal/access"
	"github.com/alexanderramin/incidentboard/internal/cli/formatter"
	"github.com/alexanderramin/incidentboard/internal/domain"
	"github.com/spf13/cobra"
)

func newPermsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:         "perms [ROLE]",
		Short:       "Show what each role may do",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{annotationOffline: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				role, ok := access.ParseRole(args[0])
				if !ok {
					return fmt.Errorf("unknown role %q", args[0])
				}
				fmt.Fprint(out, roleTable(role))
				return nil
			}
			fmt.Fprint(out, permissionMatrix())
			return nil
		},
	}
}

func roleTable(role domain.Role) string {
	granted := access.Granted(role)
	if len(granted) == 0 {
		return fmt.Sprintf("%s %s\n", formatter.Bold(string(role)), formatter.Dim("(sin permisos)"))
	}
	rows := make([][]string, 0, len(granted))
	for _, c := range granted {
		rows = append(rows, []string{c.String()})
	}
	return formatter.RenderTable([]string{string(role)}, rows)
}

func permissionMatrix() string {
	headers := []string{"permiso"}
	for _, r := range domain.Roles {
		headers = append(headers, string(r))
	}
	rows := make([][]string, 0, len(access.Capabilities))
	for _, c := range access.Capabilities {
		row := []string{c.String()}
		for _, r := range domain.Roles {
			mark := formatter.Dim("·")
			if access.HasCapability(r, c) {
				mark = formatter.StyleGreen.Render("✓")
			}
			row = append(row, mark)
		}
		rows = append(rows, row)
	}
	return formatter.RenderTable(headers, rows)
}
