package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/atulkashyap404/taskmaster/internal/model"
)

const todoSchemaURL = "taskmaster://todo.schema.json"

// todoSchema describes one persisted record.
const todoSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["id", "title", "completed", "createdAt", "priority", "category"],
  "properties": {
    "id":          {"type": "string", "minLength": 1},
    "title":       {"type": "string"},
    "description": {"type": ["string", "null"]},
    "completed":   {"type": "boolean"},
    "createdAt":   {"type": "string", "format": "date-time"},
    "dueDate":     {"type": ["string", "null"], "format": "date-time"},
    "priority":    {"enum": ["low", "medium", "high"]},
    "category":    {"enum": ["personal", "work", "shopping", "health", "other"]}
  }
}`

func compileTodoSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(todoSchemaURL, strings.NewReader(todoSchema)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	return compiler.Compile(todoSchemaURL)
}

// encode serializes the collection the way it is stored in the slot.
func encode(todos []model.Todo) ([]byte, error) {
	if todos == nil {
		todos = []model.Todo{}
	}
	b, err := json.MarshalIndent(todos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return b, nil
}

// decode is best effort: an unreadable document yields an empty
// collection, and records that fail validation or repeat an ID are skipped.
func decode(data []byte, schema *jsonschema.Schema, logger *log.Logger) []model.Todo {
	if len(bytes.TrimSpace(data)) == 0 {
		return []model.Todo{}
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		logger.Warn("discarding unreadable slot", "err", err)
		return []model.Todo{}
	}

	out := make([]model.Todo, 0, len(raws))
	seen := make(map[string]struct{}, len(raws))
	for i, raw := range raws {
		if schema != nil {
			var doc any
			if err := json.Unmarshal(raw, &doc); err != nil {
				logger.Warn("skipping record", "index", i, "err", err)
				continue
			}
			if err := schema.Validate(doc); err != nil {
				logger.Warn("skipping invalid record", "index", i, "err", schemaMessage(err))
				continue
			}
		}
		var t model.Todo
		if err := json.Unmarshal(raw, &t); err != nil {
			logger.Warn("skipping record", "index", i, "err", err)
			continue
		}
		if _, dup := seen[t.ID]; dup {
			logger.Warn("skipping duplicate id", "index", i, "id", t.ID)
			continue
		}
		if t.DueDate != nil && t.DueDate.IsZero() {
			t.DueDate = nil
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out
}

func schemaMessage(err error) string {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err.Error()
	}
	var msgs []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := strings.TrimPrefix(e.InstanceLocation, "/")
			if loc == "" {
				msgs = append(msgs, e.Message)
			} else {
				msgs = append(msgs, loc+": "+e.Message)
			}
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	return strings.Join(msgs, "; ")
}
