package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/hay-kot/ticked/internal/core/notify"
	"github.com/hay-kot/ticked/internal/core/styles"
	"github.com/hay-kot/ticked/internal/core/task"
	"github.com/hay-kot/ticked/internal/core/validate"
	tuinotify "github.com/hay-kot/ticked/internal/tui/notify"
)

// isInteractive reports whether prompts can be shown. Tests replace it.
var isInteractive = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// echoNotifications prints every notification published on bus to w until
// the returned function is called.
func echoNotifications(bus *tuinotify.Bus, w io.Writer) func() {
	return bus.Subscribe(func(n notify.Notification) {
		_, _ = fmt.Fprintln(w, renderNotification(n))
	})
}

func renderNotification(n notify.Notification) string {
	switch n.Level {
	case notify.LevelError:
		return styles.ErrorStyle.Render(styles.IconError) + " " + n.Message
	case notify.LevelWarning:
		return styles.WarningStyle.Render(styles.IconWarning) + " " + n.Message
	default:
		return styles.IDStyle.Render(styles.IconInfo) + " " + n.Message
	}
}

// resolveTasks maps id arguments (full ids or unique prefixes) to tasks.
func resolveTasks(store *task.Store, refs []string) ([]task.Task, error) {
	if len(refs) == 0 {
		return nil, errors.New("at least one task id is required")
	}

	out := make([]task.Task, 0, len(refs))
	for _, ref := range refs {
		t, err := store.Find(ref)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// confirm asks a yes/no question. Without a terminal it refuses so that
// scripts must pass --yes explicitly.
func confirm(title, description string) (bool, error) {
	if !isInteractive() {
		return false, errors.New("confirmation required; re-run with --yes")
	}

	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithTheme(styles.FormTheme()).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}

// promptText asks for a single line of task text.
func promptText(title, initial string) (string, error) {
	value := initial
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Value(&value).
				Validate(validate.TaskText),
		),
	).WithTheme(styles.FormTheme()).Run()
	if err != nil {
		return "", err
	}
	return value, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
