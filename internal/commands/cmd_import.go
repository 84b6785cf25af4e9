package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/ticked/internal/core/task"
	"github.com/hay-kot/ticked/internal/ticked"
	"github.com/hay-kot/ticked/pkg/iojson"
)

type ImportCmd struct {
	flags *Flags
	app   *ticked.App

	reader iojson.FileReader

	// flags
	yes bool
}

// NewImportCmd creates a new import command. stdin is read when no file is
// given; nil means os.Stdin.
func NewImportCmd(flags *Flags, app *ticked.App, stdin io.Reader) *ImportCmd {
	return &ImportCmd{flags: flags, app: app, reader: iojson.FileReader{Stdin: stdin}}
}

// Register adds the import command to the application
func (cmd *ImportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "import",
		Usage:     "Replace the list with todos from JSON",
		UsageText: "ticked import [-f file] [--yes]",
		Description: `Reads a JSON array of todos (as written by 'ticked export') from a file or
stdin and replaces the current list with it. Comments and trailing commas are
allowed. The input is validated before anything is written.

Replacing a non-empty list asks for confirmation unless --yes is given.`,
		Flags: []cli.Flag{
			cmd.reader.Flag(),
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "skip the confirmation prompt",
				Destination: &cmd.yes,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ImportCmd) run(ctx context.Context, c *cli.Command) error {
	defer echoNotifications(cmd.app.Notify, c.Root().ErrWriter)()

	data, err := cmd.reader.Read()
	if err != nil {
		return err
	}

	tasks, err := task.Decode(data)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	if existing := cmd.app.Tasks.Counts().All; existing > 0 && !cmd.yes {
		ok, err := confirm(
			fmt.Sprintf("Replace %d existing todo(s)?", existing),
			fmt.Sprintf("%d todo(s) will be imported", len(tasks)),
		)
		if err != nil {
			return err
		}
		if !ok {
			_, _ = fmt.Fprintln(c.Root().ErrWriter, "Nothing imported")
			return nil
		}
	}

	if err := cmd.app.Tasks.Replace(ctx, tasks); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	return nil
}
