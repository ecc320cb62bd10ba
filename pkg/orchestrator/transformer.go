package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-eticket/pkg/model"
	"github.com/goliatone/go-eticket/pkg/requirements"
)

// Transformer mutates a step after the catalog built it and before the
// decorators run. Implementations can relabel fields, add UI hints or
// rewrite copy for a deployment.
type Transformer interface {
	Transform(ctx context.Context, step *model.Step) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, step *model.Step) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, step *model.Step) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, step)
}

// JSONPresetTransformer applies declarative overrides loaded from a JSON
// document keyed by step id:
//
//	{
//	  "customs": {
//	    "title": "Customs",
//	    "fields": {
//	      "customs.hasCurrency": {"label": "Carrying more than 10,000 USD?", "uiHints": {"component": "radio"}}
//	    }
//	  }
//	}
//
// Field keys are matched against the full path first, then against the path
// with traveler indices removed, so one patch covers every traveler slot.
type JSONPresetTransformer struct {
	document map[string]jsonStepPatch
}

type jsonStepPatch struct {
	Title       string                    `json:"title"`
	Description string                    `json:"description"`
	Fields      map[string]jsonFieldPatch `json:"fields"`
}

type jsonFieldPatch struct {
	Label       string            `json:"label"`
	Description string            `json:"description"`
	Placeholder string            `json:"placeholder"`
	Layout      string            `json:"layout"`
	UIHints     map[string]string `json:"uiHints"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document map[string]jsonStepPatch
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON transformer document from the
// provided filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the patches registered for step.ID.
func (t *JSONPresetTransformer) Transform(ctx context.Context, step *model.Step) error {
	if step == nil {
		return errors.New("json preset transformer: step is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	patch, ok := t.document[step.ID]
	if !ok {
		return nil
	}
	if patch.Title != "" {
		step.Title = patch.Title
	}
	if patch.Description != "" {
		step.Description = patch.Description
	}

	for path, fieldPatch := range patch.Fields {
		field := findFieldByPath(step, path)
		if field == nil {
			return fmt.Errorf("json preset transformer: field %q not found in step %q", path, step.ID)
		}
		applyFieldPatch(field, fieldPatch)
	}
	return nil
}

func applyFieldPatch(field *model.Field, patch jsonFieldPatch) {
	if patch.Label != "" {
		field.Label = patch.Label
	}
	if patch.Description != "" {
		field.Description = patch.Description
	}
	if patch.Placeholder != "" {
		field.Placeholder = patch.Placeholder
	}
	if patch.Layout != "" {
		field.Layout = patch.Layout
	}
	if len(patch.UIHints) > 0 {
		field.UIHints = mergeStringMap(field.UIHints, patch.UIHints)
	}
}

func findFieldByPath(step *model.Step, path string) *model.Field {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	for si := range step.Sections {
		fields := step.Sections[si].Fields
		for fi := range fields {
			if fields[fi].Path == path || requirements.CanonicalPath(fields[fi].Path) == path {
				return &fields[fi]
			}
		}
	}
	return nil
}

func mergeStringMap(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
