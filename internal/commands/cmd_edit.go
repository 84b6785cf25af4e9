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

type EditCmd struct {
	flags *Flags
	app   *ticked.App
}

// NewEditCmd creates a new edit command
func NewEditCmd(flags *Flags, app *ticked.App) *EditCmd {
	return &EditCmd{flags: flags, app: app}
}

// Register adds the edit command to the application
func (cmd *EditCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "edit",
		Usage:     "Change the text of a todo",
		UsageText: "ticked edit <id> [text...]",
		Description: `Replaces the text of a todo. Without new text on an interactive terminal, a
prompt prefilled with the current text is shown.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *EditCmd) run(ctx context.Context, c *cli.Command) error {
	defer echoNotifications(cmd.app.Notify, c.Root().ErrWriter)()

	args := c.Args().Slice()
	if len(args) == 0 {
		return errors.New("a task id is required")
	}

	t, err := cmd.app.Tasks.Find(args[0])
	if err != nil {
		return err
	}

	text := strings.Join(args[1:], " ")
	if strings.TrimSpace(text) == "" {
		if !isInteractive() {
			return errors.New("new text is required")
		}
		text, err = promptText("Edit todo", t.Text)
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}
	}

	store := cmd.app.Tasks
	store.BeginEdit(t.ID, t.Text)
	store.UpdateEditBuffer(text)
	if err := store.CommitEdit(ctx); err != nil {
		return fmt.Errorf("edit todo: %w", err)
	}

	if _, active := store.Edit(); active {
		store.CancelEdit()
		return errors.New("text cannot be blank")
	}

	updated, _ := store.Get(t.ID)
	_, _ = fmt.Fprintf(c.Root().Writer, "%s %s\n", styles.IDStyle.Render(shortID(updated.ID)), updated.Text)
	return nil
}
