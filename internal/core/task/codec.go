package task

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrMalformedState marks persisted data that cannot be trusted: bad JSON,
// the wrong shape, unparseable timestamps, blank text or duplicate ids.
var ErrMalformedState = errors.New("malformed persisted task list")

//go:embed schema.json
var schemaJSON string

const schemaURL = "https://ticked.local/schemas/tasks.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	return compiler.Compile(schemaURL)
})

// Encode serializes tasks as the persisted JSON array. A nil list encodes as [].
func Encode(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("encode tasks: %w", err)
	}
	return data, nil
}

// Decode parses and validates a persisted task list. Every failure wraps
// ErrMalformedState; nothing is partially returned.
func Decode(data []byte) ([]Task, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedState, err)
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compile task schema: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedState, schemaErrorSummary(err))
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	var tasks []Task
	if err := dec.Decode(&tasks); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedState, err)
	}

	if err := validateTasks(tasks); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedState, err)
	}

	for i := range tasks {
		tasks[i] = normalize(tasks[i])
	}

	return tasks, nil
}

// validateTasks checks the invariants the schema cannot express.
func validateTasks(tasks []Task) error {
	seen := make(map[string]struct{}, len(tasks))
	for i, t := range tasks {
		if strings.TrimSpace(t.ID) == "" {
			return fmt.Errorf("task %d: empty id", i)
		}
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("task %d: duplicate id %q", i, t.ID)
		}
		seen[t.ID] = struct{}{}

		if strings.TrimSpace(t.Text) == "" {
			return fmt.Errorf("task %d: blank text", i)
		}
		if t.CreatedAt.IsZero() {
			return fmt.Errorf("task %d: missing createdAt", i)
		}
	}
	return nil
}

// normalize drops completedAt on incomplete tasks so absence has one form.
func normalize(t Task) Task {
	if !t.Completed {
		t.CompletedAt = nil
	}
	return t
}

// schemaErrorSummary reports the first leaf cause of a schema failure.
func schemaErrorSummary(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}

	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}

	loc := ve.InstanceLocation
	if loc == "" {
		loc = "/"
	}
	return fmt.Sprintf("%s: %s", loc, ve.Message)
}
