package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/alexanderramin/incidentboard/internal/board"
	"github.com/alexanderramin/incidentboard/internal/cli/formatter"
	"github.com/alexanderramin/incidentboard/internal/config"
	"github.com/alexanderramin/incidentboard/internal/domain"
	"github.com/spf13/cobra"
)

func newMoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move ID STATUS",
		Short: "Change an incident's status",
		Long: `Move an incident to another status as the given user, with the same
permission rules as the board. STATUS is Pendiente, "En curso" or Resuelto
(or pending, in_progress, resolved).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid incident id %q", args[0])
			}
			to, ok := domain.ParseStatus(args[1])
			if !ok {
				return fmt.Errorf("unknown status %q (want Pendiente, En curso or Resuelto)", args[1])
			}
			if app.Config.User <= 0 {
				return errors.New("--user is required")
			}

			ctx := cmd.Context()
			u, err := app.Backend.GetUser(ctx, app.Config.User)
			if err != nil {
				return fmt.Errorf("loading user %d: %w", app.Config.User, err)
			}
			viewer := u.Viewer()

			incidents, err := board.Load(ctx, app.Backend, viewer)
			if err != nil {
				return err
			}
			store := board.NewStore(incidents)
			defer store.Close()
			ctrl := board.NewController(store, viewer, app.Backend, board.WithLogger(app.logger()))

			if !ctrl.CanTransition() {
				_, err := ctrl.Request(board.Intent{IncidentID: id, To: to, Index: -1})
				printNotice(cmd, err)
				return err
			}
			inc, ok := store.Get(id)
			if !ok {
				return fmt.Errorf("incident #%d: %w", id, board.ErrNotFound)
			}
			out := cmd.OutOrStdout()
			if inc.Status == to {
				fmt.Fprintf(out, "Incidencia #%d ya está en %s\n", id, to)
				return nil
			}

			stop := formatter.StartSpinner(cmd.ErrOrStderr(), app.interactive(), "Guardando...")
			err = ctrl.Move(ctx, board.Intent{IncidentID: id, From: inc.Status, To: to, Index: -1})
			stop()
			if err != nil {
				printNotice(cmd, err)
				return err
			}
			fmt.Fprintf(out, "Incidencia #%d: %s → %s\n", id, inc.Status, to)
			return nil
		},
	}
	cmd.Flags().Int64(config.FlagName(config.KeyUser), 0, "acting user id")
	return cmd
}

func printNotice(cmd *cobra.Command, err error) {
	if n, ok := board.NoticeFor(err); ok {
		fmt.Fprintln(cmd.ErrOrStderr(), formatter.StyleRed.Render(n.Message))
	}
}
