package cli

import (
	"fmt"

	"github.com/alexanderramin/incidentboard/internal/cli/formatter"
	"github.com/alexanderramin/incidentboard/internal/seed"
	"github.com/spf13/cobra"
)

func newSeedCmd(app *App) *cobra.Command {
	var file string
	var force bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load users and incidents",
		Long: `Load users and incidents from a YAML file, or the built-in demo data
when --file is omitted. Users are matched by email, so seeding twice does not
duplicate them. Incidents are only added to an empty board unless --force.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadSeedFile(file)
			if err != nil {
				return err
			}
			res, err := seed.Apply(cmd.Context(), app.Backend, f, force)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %d\n", formatter.Dim("Usuarios:"), res.Users)
			if res.SkippedIncidents {
				fmt.Fprintln(out, formatter.Dim("Incidencias: ya existen, omitidas (usa --force para añadirlas)"))
				return nil
			}
			fmt.Fprintf(out, "%s %d\n", formatter.Dim("Incidencias:"), res.Incidents)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "seed YAML file (default: built-in demo data)")
	cmd.Flags().BoolVar(&force, "force", false, "add incidents even when the board is not empty")
	return cmd
}

func loadSeedFile(path string) (*seed.File, error) {
	if path == "" {
		return seed.Demo()
	}
	return seed.Read(path)
}
