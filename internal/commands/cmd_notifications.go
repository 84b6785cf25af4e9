package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/ticked/internal/ticked"
	"github.com/hay-kot/ticked/pkg/iojson"
)

type NotificationsCmd struct {
	flags *Flags
	app   *ticked.App

	// flags
	jsonOutput bool
}

// NewNotificationsCmd creates a new notifications command
func NewNotificationsCmd(flags *Flags, app *ticked.App) *NotificationsCmd {
	return &NotificationsCmd{flags: flags, app: app}
}

// Register adds the notifications command to the application
func (cmd *NotificationsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:    "notifications",
		Aliases: []string{"notif"},
		Usage:   "Inspect the notification history",
		Description: `Notifications ("Todo added", "Todo deleted", ...) are recorded when
notifications.persist is enabled and the sqlite backend is in use. History is
kept per list: use --list to inspect or clear another list's notifications.`,
		Commands: []*cli.Command{
			{
				Name:      "ls",
				Usage:     "List the current list's notifications, newest first",
				UsageText: "ticked notifications ls [--json]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON lines",
						Destination: &cmd.jsonOutput,
					},
				},
				Action: cmd.runList,
			},
			{
				Name:      "clear",
				Usage:     "Delete the current list's notifications",
				UsageText: "ticked notifications clear",
				Action:    cmd.runClear,
			},
		},
	})

	return app
}

func (cmd *NotificationsCmd) runList(ctx context.Context, c *cli.Command) error {
	if !cmd.app.Notify.Persistent() {
		_, _ = fmt.Fprintln(c.Root().ErrWriter, "Notification history is disabled")
		return nil
	}

	history, err := cmd.app.Notify.History(ctx)
	if err != nil {
		return fmt.Errorf("list notifications: %w", err)
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, n := range history {
			if err := iojson.WriteLine(out, n); err != nil {
				return fmt.Errorf("encode notification: %w", err)
			}
		}
		return nil
	}

	if len(history) == 0 {
		_, _ = fmt.Fprintln(c.Root().ErrWriter, "No notifications")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TIME\tLEVEL\tMESSAGE")
	for _, n := range history {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", n.CreatedAt.Local().Format(time.DateTime), n.Level, n.Message)
	}
	return w.Flush()
}

func (cmd *NotificationsCmd) runClear(ctx context.Context, c *cli.Command) error {
	n, err := cmd.app.Notify.Clear(ctx)
	if err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "Cleared %d notification(s) from %s\n", n, listTitle(cmd.app.List))
	return nil
}
