package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/incidentboard/internal/config"
	"github.com/alexanderramin/incidentboard/internal/domain"
	"github.com/spf13/cobra"
)

func newBoardCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the incident board",
		Long: `Open the interactive incident board for one user. The user's role
decides which incidents are shown and whether cards can be moved.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			viewer, err := resolveViewer(cmd.Context(), app)
			if err != nil {
				return err
			}
			app.logger().Info("board opened", "viewer_id", viewer.ID, "role", string(viewer.Role))
			return runBoard(cmd.Context(), app, viewer)
		},
	}
	cmd.Flags().Int64(config.FlagName(config.KeyUser), 0, "viewer user id (prompted when omitted)")
	return cmd
}

// resolveViewer returns the configured user, or asks for one on a
// terminal. Inactive users cannot open a board.
func resolveViewer(ctx context.Context, app *App) (domain.User, error) {
	if id := app.Config.User; id > 0 {
		u, err := app.Backend.GetUser(ctx, id)
		if err != nil {
			return domain.User{}, fmt.Errorf("loading user %d: %w", id, err)
		}
		if !u.Active() {
			return domain.User{}, fmt.Errorf("user %d (%s) is inactive", u.ID, u.Name)
		}
		return *u, nil
	}

	if !app.interactive() {
		return domain.User{}, errors.New("--user is required when stdin is not a terminal")
	}
	users, err := app.Backend.ListUsers(ctx)
	if err != nil {
		return domain.User{}, fmt.Errorf("listing users: %w", err)
	}
	active := activeUsers(users)
	if len(active) == 0 {
		return domain.User{}, errors.New("no active users; run 'incidentboard seed' first")
	}
	pick := app.PickViewer
	if pick == nil {
		pick = pickViewerForm
	}
	return pick(active)
}
