package cli

import (
	"fmt"

	"github.com/alexanderramin/incidentboard/internal/cli/formatter"
	"github.com/alexanderramin/incidentboard/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// boardHuhTheme returns a huh theme matching the board palette.
func boardHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// activeUsers keeps the users that may open a board, in input order.
func activeUsers(users []domain.User) []domain.User {
	out := make([]domain.User, 0, len(users))
	for _, u := range users {
		if u.Active() {
			out = append(out, u)
		}
	}
	return out
}

func viewerOptions(users []domain.User) []huh.Option[int64] {
	opts := make([]huh.Option[int64], 0, len(users))
	for _, u := range users {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s (%s)", u.Name, u.Role), u.ID))
	}
	return opts
}

// pickViewerForm runs a select over users on the terminal.
func pickViewerForm(users []domain.User) (domain.User, error) {
	var id int64
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int64]().
				Title("¿Quién eres?").
				Options(viewerOptions(users)...).
				Value(&id),
		),
	).WithTheme(boardHuhTheme()).WithShowHelp(false)
	if err := form.Run(); err != nil {
		return domain.User{}, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.User{}, fmt.Errorf("no user with id %d", id)
}
