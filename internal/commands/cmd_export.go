package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/ticked/internal/ticked"
	"github.com/hay-kot/ticked/pkg/iojson"
)

type ExportCmd struct {
	flags *Flags
	app   *ticked.App

	// flags
	output string
}

// NewExportCmd creates a new export command
func NewExportCmd(flags *Flags, app *ticked.App) *ExportCmd {
	return &ExportCmd{flags: flags, app: app}
}

// Register adds the export command to the application
func (cmd *ExportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "export",
		Usage:     "Write the list as JSON",
		UsageText: "ticked export [-o file]",
		Description: `Writes every todo of the current list as a JSON array, in the same format
that is stored. The output can be restored with 'ticked import'.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "write to file instead of stdout",
				Destination: &cmd.output,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ExportCmd) run(_ context.Context, c *cli.Command) error {
	var out io.Writer = c.Root().Writer

	if cmd.output != "" && cmd.output != "-" {
		f, err := os.Create(cmd.output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	return iojson.WriteWith(out, c.Root().ErrWriter, cmd.app.Tasks.Tasks())
}
