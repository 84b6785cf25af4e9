package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/ticked/internal/core/styles"
	"github.com/hay-kot/ticked/internal/ticked"
)

type ToggleCmd struct {
	flags *Flags
	app   *ticked.App
}

// NewToggleCmd creates a new toggle command
func NewToggleCmd(flags *Flags, app *ticked.App) *ToggleCmd {
	return &ToggleCmd{flags: flags, app: app}
}

// Register adds the toggle command to the application
func (cmd *ToggleCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "toggle",
		Aliases:     []string{"done"},
		Usage:       "Toggle todos between active and completed",
		UsageText:   "ticked toggle <id>...",
		Description: "Flips the completed state of each todo. Ids may be shortened to any unique prefix.",
		Action:      cmd.run,
	})

	return app
}

func (cmd *ToggleCmd) run(ctx context.Context, c *cli.Command) error {
	tasks, err := resolveTasks(cmd.app.Tasks, c.Args().Slice())
	if err != nil {
		return err
	}

	for _, t := range tasks {
		if err := cmd.app.Tasks.Toggle(ctx, t.ID); err != nil {
			return fmt.Errorf("toggle %s: %w", shortID(t.ID), err)
		}

		updated, _ := cmd.app.Tasks.Get(t.ID)
		icon := styles.UncheckedStyle.Render(styles.IconUnchecked)
		if updated.Completed {
			icon = styles.CheckedStyle.Render(styles.IconChecked)
		}
		_, _ = fmt.Fprintf(c.Root().Writer, "%s %s %s\n", icon, styles.IDStyle.Render(shortID(t.ID)), updated.Text)
	}

	return nil
}
