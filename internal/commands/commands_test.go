package commands

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/ticked/internal/core/config"
	"github.com/hay-kot/ticked/internal/core/task"
	"github.com/hay-kot/ticked/internal/ticked"
	"github.com/hay-kot/ticked/pkg/tuitest"
)

var fixedNow = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

type harness struct {
	t     *testing.T
	flags *Flags
	app   *ticked.App

	out    bytes.Buffer
	errOut bytes.Buffer
}

func newHarness(t *testing.T, backend string) *harness {
	t.Helper()

	prev := isInteractive
	isInteractive = func() bool { return false }
	t.Cleanup(func() { isInteractive = prev })

	cfg := config.DefaultConfig()
	cfg.DataDir = filepath.Join(t.TempDir(), "data")
	cfg.Storage.Backend = backend

	ids := []string{"a1b2c3d4e5", "b2c3d4e5f6", "c3d4e5f6a7", "d4e5f6a7b8"}
	next := 0
	app, err := ticked.Open(context.Background(), &cfg, "",
		task.WithClock(task.ClockFunc(func() time.Time { return fixedNow })),
		task.WithIDGenerator(task.IDFunc(func() string {
			id := ids[next]
			next++
			return id
		})),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	return &harness{
		t:     t,
		flags: &Flags{Config: &cfg},
		app:   app,
	}
}

// run executes args against a fresh command tree. Output buffers are reset
// before each run.
func (h *harness) run(stdin io.Reader, args ...string) error {
	h.t.Helper()
	h.out.Reset()
	h.errOut.Reset()

	root := &cli.Command{
		Name:           "ticked",
		Writer:         &h.out,
		ErrWriter:      &h.errOut,
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
	root = NewAddCmd(h.flags, h.app).Register(root)
	root = NewLsCmd(h.flags, h.app).Register(root)
	root = NewToggleCmd(h.flags, h.app).Register(root)
	root = NewEditCmd(h.flags, h.app).Register(root)
	root = NewRmCmd(h.flags, h.app).Register(root)
	root = NewExportCmd(h.flags, h.app).Register(root)
	root = NewImportCmd(h.flags, h.app, stdin).Register(root)
	root = NewListsCmd(h.flags, h.app).Register(root)
	root = NewNotificationsCmd(h.flags, h.app).Register(root)
	root = NewConfigValidateCmd(h.flags).Register(root)

	return root.Run(context.Background(), append([]string{"ticked"}, args...))
}

func (h *harness) stdout() string { return tuitest.StripANSI(h.out.String()) }
func (h *harness) stderr() string { return tuitest.StripANSI(h.errOut.String()) }

func (h *harness) mustRun(args ...string) {
	h.t.Helper()
	require.NoError(h.t, h.run(nil, args...))
}

func TestAdd_JoinsArguments(t *testing.T) {
	h := newHarness(t, config.BackendMemory)

	h.mustRun("add", "Buy", "milk")

	assert.Contains(t, h.stdout(), "a1b2c3d4 Buy milk")
	assert.Contains(t, h.stderr(), task.MsgAdded)

	tasks := h.app.Tasks.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].Text)
}

func TestAdd_BlankIsIgnored(t *testing.T) {
	h := newHarness(t, config.BackendMemory)

	h.mustRun("add", "   ")

	assert.Contains(t, h.stderr(), "Nothing added")
	assert.Empty(t, h.app.Tasks.Tasks())
}

func TestLs_Text(t *testing.T) {
	h := newHarness(t, config.BackendMemory)
	h.mustRun("add", "Buy milk")
	h.mustRun("add", "Walk dog")
	h.mustRun("toggle", "a1b2")

	h.mustRun("ls")
	out := h.stdout()
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "TEXT")
	assert.Contains(t, out, "Buy milk")
	assert.Contains(t, out, "Walk dog")
	assert.Less(t, strings.Index(out, "Walk dog"), strings.Index(out, "Buy milk"), "newest first")
	assert.Contains(t, h.stderr(), "2 of 2 shown, 1 active")

	h.mustRun("ls", "--filter", "active")
	assert.NotContains(t, h.stdout(), "Buy milk")
	assert.Contains(t, h.stdout(), "Walk dog")

	h.mustRun("ls", "--filter", "completed")
	assert.Contains(t, h.stdout(), "Buy milk")
	assert.NotContains(t, h.stdout(), "Walk dog")
}

func TestLs_Match(t *testing.T) {
	h := newHarness(t, config.BackendMemory)
	h.mustRun("add", "Buy milk")
	h.mustRun("add", "Walk dog")

	h.mustRun("ls", "--match", "*MILK*")
	assert.Contains(t, h.stdout(), "Buy milk")
	assert.NotContains(t, h.stdout(), "Walk dog")

	h.mustRun("ls", "--match", "nothing*")
	assert.Empty(t, h.stdout())
	assert.Contains(t, h.stderr(), "No todos found")

	assert.Error(t, h.run(nil, "ls", "--match", "[unclosed"))
}

func TestLs_InvalidOptions(t *testing.T) {
	h := newHarness(t, config.BackendMemory)

	assert.ErrorContains(t, h.run(nil, "ls", "--filter", "done"), "invalid filter")
	assert.ErrorContains(t, h.run(nil, "ls", "--format", "xml"), "invalid format")
}

func TestLs_JSONLines(t *testing.T) {
	h := newHarness(t, config.BackendMemory)
	h.mustRun("add", "Buy milk")
	h.mustRun("add", "Walk dog")

	h.mustRun("ls", "--format", "json")

	var got []task.Task
	scanner := bufio.NewScanner(strings.NewReader(h.out.String()))
	for scanner.Scan() {
		var tk task.Task
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &tk))
		got = append(got, tk)
	}
	assert.Equal(t, h.app.Tasks.Tasks(), got)
}

func TestLs_Markdown(t *testing.T) {
	h := newHarness(t, config.BackendMemory)
	h.mustRun("add", "Buy milk")
	h.mustRun("add", "Walk dog")
	h.mustRun("toggle", "a1b2")

	h.mustRun("ls", "--format", "markdown")

	assert.Equal(t, "# Todos\n\n- [ ] Walk dog\n- [x] Buy milk\n", h.out.String())
}

func TestRenderMarkdown_Empty(t *testing.T) {
	assert.Equal(t, "# Todos: work\n\n_Nothing to do._\n", renderMarkdown(listTitle("work"), nil))
}

func TestToggle(t *testing.T) {
	h := newHarness(t, config.BackendMemory)
	h.mustRun("add", "Buy milk")
	h.mustRun("add", "Walk dog")

	h.mustRun("toggle", "a1b2", "b2c3")
	for _, tk := range h.app.Tasks.Tasks() {
		assert.True(t, tk.Completed)
		require.NotNil(t, tk.CompletedAt)
		assert.Equal(t, fixedNow, *tk.CompletedAt)
	}
	assert.Contains(t, h.stdout(), "a1b2c3d4 Buy milk")

	h.mustRun("toggle", "a1b2c3d4e5")
	got, ok := h.app.Tasks.Get("a1b2c3d4e5")
	require.True(t, ok)
	assert.False(t, got.Completed)
	assert.Nil(t, got.CompletedAt)
}

func TestToggle_Errors(t *testing.T) {
	h := newHarness(t, config.BackendMemory)
	h.mustRun("add", "one")

	assert.Error(t, h.run(nil, "toggle"))
	assert.ErrorIs(t, h.run(nil, "toggle", "zzz"), task.ErrNotFound)
}

func TestEdit(t *testing.T) {
	h := newHarness(t, config.BackendMemory)
	h.mustRun("add", "Buy milk")

	h.mustRun("edit", "a1", "Buy", "oat", "milk")

	got, ok := h.app.Tasks.Get("a1b2c3d4e5")
	require.True(t, ok)
	assert.Equal(t, "Buy oat milk", got.Text)
	assert.Contains(t, h.stderr(), task.MsgUpdated)
	_, active := h.app.Tasks.Edit()
	assert.False(t, active)
}

func TestEdit_Errors(t *testing.T) {
	h := newHarness(t, config.BackendMemory)
	h.mustRun("add", "Buy milk")

	assert.ErrorContains(t, h.run(nil, "edit"), "id is required")
	assert.ErrorContains(t, h.run(nil, "edit", "a1"), "new text is required")
	assert.ErrorContains(t, h.run(nil, "edit", "a1", "  "), "new text is required")
	assert.ErrorContains(t, h.run(nil, "edit", "zz", "Buy bread"), "zz")

	got, _ := h.app.Tasks.Get("a1b2c3d4e5")
	assert.Equal(t, "Buy milk", got.Text)
	_, active := h.app.Tasks.Edit()
	assert.False(t, active, "failed edit leaves no session behind")
}

func TestRm(t *testing.T) {
	h := newHarness(t, config.BackendMemory)
	h.mustRun("add", "Buy milk")
	h.mustRun("add", "Walk dog")

	err := h.run(nil, "rm", "a1")
	assert.ErrorContains(t, err, "--yes")
	assert.Len(t, h.app.Tasks.Tasks(), 2)

	h.mustRun("rm", "--yes", "a1")
	tasks := h.app.Tasks.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Walk dog", tasks[0].Text)
	assert.Contains(t, h.stderr(), task.MsgDeleted)
}

func TestRm_Completed(t *testing.T) {
	h := newHarness(t, config.BackendMemory)
	h.mustRun("add", "one")
	h.mustRun("add", "two")
	h.mustRun("add", "three")
	h.mustRun("toggle", "a1", "c3")

	h.mustRun("rm", "--completed", "-y")

	tasks := h.app.Tasks.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "two", tasks[0].Text)

	h.mustRun("rm", "--completed", "-y")
	assert.Contains(t, h.stderr(), "No completed todos")
}

func TestExportImport_RoundTrip(t *testing.T) {
	h := newHarness(t, config.BackendMemory)
	h.mustRun("add", "Buy milk")
	h.mustRun("add", "Walk dog")
	h.mustRun("toggle", "a1")
	want := h.app.Tasks.Tasks()

	h.mustRun("export")
	exported := h.out.String()

	decoded, err := task.Decode([]byte(exported))
	require.NoError(t, err)
	assert.Equal(t, want, decoded)

	h.mustRun("rm", "-y", "a1", "b2")
	require.Empty(t, h.app.Tasks.Tasks())

	require.NoError(t, h.run(strings.NewReader(exported), "import"))
	assert.Equal(t, want, h.app.Tasks.Tasks())
	assert.Contains(t, h.stderr(), "Imported 2 todos")
}

func TestExport_ToFile(t *testing.T) {
	h := newHarness(t, config.BackendMemory)
	h.mustRun("add", "Buy milk")

	path := filepath.Join(t.TempDir(), "todos.json")
	h.mustRun("export", "-o", path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	decoded, err := task.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, h.app.Tasks.Tasks(), decoded)
}

func TestImport_CommentsAndConfirmation(t *testing.T) {
	h := newHarness(t, config.BackendMemory)
	input := `[
		// imported from elsewhere
		{"id": "x1", "text": "Water plants", "completed": false, "createdAt": "2026-10-01T08:00:00Z"},
	]`

	require.NoError(t, h.run(strings.NewReader(input), "import"))
	tasks := h.app.Tasks.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Water plants", tasks[0].Text)

	err := h.run(strings.NewReader(input), "import")
	assert.ErrorContains(t, err, "--yes", "replacing a non-empty list needs confirmation")

	require.NoError(t, h.run(strings.NewReader(input), "import", "--yes"))
}

func TestImport_RejectsMalformed(t *testing.T) {
	h := newHarness(t, config.BackendMemory)
	h.mustRun("add", "keep me")

	err := h.run(strings.NewReader(`[{"id":"x"}]`), "import", "--yes")
	assert.ErrorIs(t, err, task.ErrMalformedState)

	tasks := h.app.Tasks.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "keep me", tasks[0].Text)
}

func TestLists(t *testing.T) {
	h := newHarness(t, config.BackendMemory)
	h.mustRun("add", "one")

	h.mustRun("lists")
	assert.Contains(t, h.stdout(), "(default)")
}

func TestNotifications_Disabled(t *testing.T) {
	h := newHarness(t, config.BackendMemory)

	h.mustRun("notifications", "ls")
	assert.Contains(t, h.stderr(), "disabled")
}

func TestNotifications_ListAndClear(t *testing.T) {
	h := newHarness(t, config.BackendSQLite)
	h.mustRun("add", "Buy milk")
	h.mustRun("rm", "-y", "a1")

	h.mustRun("notifications", "ls")
	assert.Contains(t, h.stdout(), "MESSAGE")
	assert.Contains(t, h.stdout(), task.MsgAdded)
	assert.Contains(t, h.stdout(), task.MsgDeleted)

	h.mustRun("notifications", "ls", "--json")
	lines := strings.Split(strings.TrimSpace(h.out.String()), "\n")
	assert.Len(t, lines, 2)

	h.mustRun("notifications", "clear")
	assert.Contains(t, h.stdout(), "Cleared 2 notification(s)")

	h.mustRun("notifications", "ls")
	assert.Contains(t, h.stderr(), "No notifications")
}

func TestConfigValidate(t *testing.T) {
	h := newHarness(t, config.BackendMemory)

	h.mustRun("config", "validate")
	assert.Contains(t, h.stdout(), "Configuration is valid")

	h.mustRun("config", "validate", "--format", "json")
	var res struct {
		Valid bool `json:"valid"`
	}
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &res))
	assert.True(t, res.Valid)
}

func TestConfigValidate_Invalid(t *testing.T) {
	h := newHarness(t, config.BackendMemory)
	file := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	h.flags.Config.DataDir = file

	h.mustRun("config", "validate", "--format", "json")

	var res struct {
		Valid  bool `json:"valid"`
		Errors []struct {
			Field string `json:"field"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &res))
	assert.False(t, res.Valid)
	require.NotEmpty(t, res.Errors)
	assert.Equal(t, "data_dir", res.Errors[0].Field)

	assert.Error(t, h.run(nil, "config", "validate"))
	assert.Contains(t, h.stdout(), "data_dir")
}
