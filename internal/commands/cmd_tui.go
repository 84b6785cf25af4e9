package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/ticked/internal/core/task"
	"github.com/hay-kot/ticked/internal/ticked"
	"github.com/hay-kot/ticked/internal/tui"
)

type TuiCmd struct {
	flags *Flags
	app   *ticked.App

	view string
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags, app *ticked.App) *TuiCmd {
	return &TuiCmd{
		flags: flags,
		app:   app,
	}
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "view",
			Usage:       "initial filter of the interactive list (all, active, completed)",
			Sources:     cli.EnvVars("TICKED_VIEW"),
			Value:       string(task.FilterAll),
			Destination: &cmd.view,
		},
	}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(_ context.Context, _ *cli.Command) error {
	filter, err := task.ParseFilter(cmd.view)
	if err != nil {
		return err
	}
	cmd.app.Tasks.SetFilter(filter)

	m := tui.New(cmd.app.Tasks, cmd.app.Notify, tui.Options{
		List:     cmd.app.List,
		ToastTTL: cmd.app.Config.Notifications.ToastTTL,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	return nil
}
