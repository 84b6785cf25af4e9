package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/ticked/internal/core/styles"
	"github.com/hay-kot/ticked/internal/ticked"
)

type AddCmd struct {
	flags *Flags
	app   *ticked.App
}

// NewAddCmd creates a new add command
func NewAddCmd(flags *Flags, app *ticked.App) *AddCmd {
	return &AddCmd{flags: flags, app: app}
}

// Register adds the add command to the application
func (cmd *AddCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "add",
		Usage:     "Add a todo",
		UsageText: "ticked add <text...>",
		Description: `Adds a todo to the top of the list. All arguments are joined with spaces.

When no text is given and the terminal is interactive, a prompt is shown.
Blank text is ignored.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *AddCmd) run(ctx context.Context, c *cli.Command) error {
	defer echoNotifications(cmd.app.Notify, c.Root().ErrWriter)()

	text := strings.Join(c.Args().Slice(), " ")
	if text == "" && isInteractive() {
		var err error
		text, err = promptText("New todo", "")
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}
	}

	created, ok, err := cmd.app.Tasks.Create(ctx, text)
	if err != nil {
		return fmt.Errorf("add todo: %w", err)
	}
	if !ok {
		_, _ = fmt.Fprintln(c.Root().ErrWriter, "Nothing added: text is blank")
		return nil
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "%s %s\n", styles.IDStyle.Render(shortID(created.ID)), created.Text)
	return nil
}
