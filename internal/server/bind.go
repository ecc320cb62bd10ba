package server

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-eticket/pkg/fieldadapter"
	"github.com/goliatone/go-eticket/pkg/formstate"
	"github.com/goliatone/go-eticket/pkg/model"
)

// bindStep copies the posted inputs of step into form. Text is trimmed and a
// blank input unsets the field. Boolean radios are written through the
// adapter mapping; a checkbox is true only when posted.
func bindStep(form *formstate.Form, step model.Step, posted url.Values, mapping fieldadapter.Mapping) error {
	for _, field := range step.Fields() {
		raw := strings.TrimSpace(posted.Get(field.Path))
		switch field.Type {
		case model.FieldTypeCheckbox:
			if err := form.Field(field.Path).SetBool(raw != "" && raw != "false"); err != nil {
				return fmt.Errorf("server: bind %s: %w", field.Path, err)
			}
		case model.FieldTypeBoolean:
			if raw == "" {
				form.Unset(field.Path)
				continue
			}
			if err := fieldadapter.NewBool(form.Field(field.Path), mapping).SetValue(raw); err != nil {
				return fmt.Errorf("server: bind %s: %w", field.Path, err)
			}
		default:
			if raw == "" {
				form.Unset(field.Path)
				continue
			}
			if err := form.Set(field.Path, raw); err != nil {
				return fmt.Errorf("server: bind %s: %w", field.Path, err)
			}
		}
	}
	return nil
}
