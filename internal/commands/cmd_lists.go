package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/ticked/internal/core/styles"
	"github.com/hay-kot/ticked/internal/ticked"
)

type ListsCmd struct {
	flags *Flags
	app   *ticked.App
}

// NewListsCmd creates a new lists command
func NewListsCmd(flags *Flags, app *ticked.App) *ListsCmd {
	return &ListsCmd{flags: flags, app: app}
}

// Register adds the lists command to the application
func (cmd *ListsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "lists",
		Usage:       "Show the named lists that hold todos",
		UsageText:   "ticked lists",
		Description: "Prints every list that has stored todos. Select one with --list <name>. The current list is marked.",
		Action:      cmd.run,
	})

	return app
}

func (cmd *ListsCmd) run(ctx context.Context, c *cli.Command) error {
	lists, err := cmd.app.Lists(ctx)
	if err != nil {
		return err
	}

	for _, name := range lists {
		label := name
		if label == "" {
			label = "(default)"
		}

		marker := " "
		if name == cmd.app.List {
			marker = styles.TaskCursorStyle.Render(styles.IconCursor)
			label = styles.CommandHeaderStyle.Render(label)
		}
		_, _ = fmt.Fprintf(c.Root().Writer, "%s %s\n", marker, label)
	}

	return nil
}
