package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/ticked/internal/core/task"
	"github.com/hay-kot/ticked/internal/ticked"
)

type RmCmd struct {
	flags *Flags
	app   *ticked.App

	// flags
	yes       bool
	completed bool
}

// NewRmCmd creates a new rm command
func NewRmCmd(flags *Flags, app *ticked.App) *RmCmd {
	return &RmCmd{flags: flags, app: app}
}

// Register adds the rm command to the application
func (cmd *RmCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "rm",
		Usage:     "Delete todos",
		UsageText: "ticked rm [--yes] <id>... | ticked rm --completed [--yes]",
		Description: `Deletes todos by id or unique id prefix. --completed deletes every completed
todo instead.

Asks for confirmation unless --yes is given; without a terminal --yes is required.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "skip the confirmation prompt",
				Destination: &cmd.yes,
			},
			&cli.BoolFlag{
				Name:        "completed",
				Usage:       "delete all completed todos",
				Destination: &cmd.completed,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *RmCmd) run(ctx context.Context, c *cli.Command) error {
	defer echoNotifications(cmd.app.Notify, c.Root().ErrWriter)()

	var (
		tasks []task.Task
		err   error
	)
	if cmd.completed {
		cmd.app.Tasks.SetFilter(task.FilterCompleted)
		tasks = cmd.app.Tasks.Visible()
		if len(tasks) == 0 {
			_, _ = fmt.Fprintln(c.Root().ErrWriter, "No completed todos")
			return nil
		}
	} else {
		tasks, err = resolveTasks(cmd.app.Tasks, c.Args().Slice())
		if err != nil {
			return err
		}
	}

	if !cmd.yes {
		ok, err := confirm(fmt.Sprintf("Delete %d todo(s)?", len(tasks)), describe(tasks))
		if err != nil {
			return err
		}
		if !ok {
			_, _ = fmt.Fprintln(c.Root().ErrWriter, "Nothing deleted")
			return nil
		}
	}

	for _, t := range tasks {
		if err := cmd.app.Tasks.Delete(ctx, t.ID); err != nil {
			return fmt.Errorf("delete %s: %w", shortID(t.ID), err)
		}
	}

	return nil
}

func describe(tasks []task.Task) string {
	lines := make([]string, len(tasks))
	for i, t := range tasks {
		lines[i] = shortID(t.ID) + "  " + t.Text
	}
	return strings.Join(lines, "\n")
}
