package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/ticked/internal/core/styles"
	"github.com/hay-kot/ticked/internal/core/task"
	"github.com/hay-kot/ticked/internal/ticked"
	"github.com/hay-kot/ticked/pkg/iojson"
)

const (
	formatText     = "text"
	formatJSON     = "json"
	formatMarkdown = "markdown"
)

type LsCmd struct {
	flags *Flags
	app   *ticked.App

	// flags
	filter string
	match  string
	format string
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags, app *ticked.App) *LsCmd {
	return &LsCmd{flags: flags, app: app}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List todos",
		UsageText: "ticked ls [--filter all|active|completed] [--match glob] [--format text|json|markdown]",
		Description: `Displays the todos of the current list, newest first.

--match keeps only todos whose text matches a glob pattern (case-insensitive),
for example --match '*milk*'.

--format json writes one JSON object per line. --format markdown renders a
task list; on a terminal it is styled with the active theme.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "filter",
				Usage:       "which todos to show (all, active, completed)",
				Value:       string(task.FilterAll),
				Destination: &cmd.filter,
			},
			&cli.StringFlag{
				Name:        "match",
				Aliases:     []string{"m"},
				Usage:       "glob pattern matched against todo text",
				Destination: &cmd.match,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json, markdown)",
				Value:       formatText,
				Destination: &cmd.format,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	filter, err := task.ParseFilter(cmd.filter)
	if err != nil {
		return err
	}

	if cmd.match != "" && !doublestar.ValidatePattern(strings.ToLower(cmd.match)) {
		return fmt.Errorf("invalid --match pattern %q", cmd.match)
	}

	cmd.app.Tasks.SetFilter(filter)
	tasks := cmd.matching(cmd.app.Tasks.Visible())

	out := c.Root().Writer

	switch cmd.format {
	case formatJSON:
		for _, t := range tasks {
			if err := iojson.WriteLine(out, t); err != nil {
				return fmt.Errorf("encode todo: %w", err)
			}
		}
		return nil
	case formatMarkdown:
		return cmd.writeMarkdown(c, tasks)
	case formatText:
	default:
		return fmt.Errorf("invalid format %q: must be one of text, json, markdown", cmd.format)
	}

	if len(tasks) == 0 {
		_, _ = fmt.Fprintln(c.Root().ErrWriter, "No todos found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tDONE\tCREATED\tTEXT")
	for _, t := range tasks {
		done := " "
		if t.Completed {
			done = "x"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			shortID(t.ID), done, t.CreatedAt.Local().Format(time.DateTime), t.Text)
	}
	_ = w.Flush()

	counts := cmd.app.Tasks.Counts()
	_, _ = fmt.Fprintln(c.Root().ErrWriter, styles.MutedStyle.Render(
		fmt.Sprintf("%d of %d shown, %d active", len(tasks), counts.All, counts.Active)))

	return nil
}

func (cmd *LsCmd) matching(tasks []task.Task) []task.Task {
	if cmd.match == "" {
		return tasks
	}

	pattern := strings.ToLower(cmd.match)
	out := tasks[:0]
	for _, t := range tasks {
		if ok, _ := doublestar.Match(pattern, strings.ToLower(t.Text)); ok {
			out = append(out, t)
		}
	}
	return out
}

func (cmd *LsCmd) writeMarkdown(c *cli.Command, tasks []task.Task) error {
	md := renderMarkdown(listTitle(cmd.app.List), tasks)

	out := c.Root().Writer
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		_, err := fmt.Fprint(out, md)
		return err
	}

	width := 80
	if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
		width = w
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("create markdown renderer: %w", err)
	}

	rendered, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}

	_, err = fmt.Fprint(out, rendered)
	return err
}

func listTitle(list string) string {
	if list == "" {
		return "Todos"
	}
	return "Todos: " + list
}

// renderMarkdown formats tasks as a GitHub-style task list.
func renderMarkdown(title string, tasks []task.Task) string {
	var b strings.Builder
	b.WriteString("# " + title + "\n\n")

	if len(tasks) == 0 {
		b.WriteString("_Nothing to do._\n")
		return b.String()
	}

	for _, t := range tasks {
		box := "[ ]"
		if t.Completed {
			box = "[x]"
		}
		b.WriteString("- " + box + " " + t.Text + "\n")
	}
	return b.String()
}
