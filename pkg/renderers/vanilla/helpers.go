package vanilla

import (
	"strings"

	"github.com/goliatone/go-eticket/pkg/ids"
	"github.com/goliatone/go-eticket/pkg/model"
	"github.com/goliatone/go-eticket/pkg/renderers/vanilla/components"
)

// describedBy lists the ids of the description and error elements for
// aria-describedby, in that order.
func describedBy(field model.Field, invalid bool) string {
	var refs []string
	if sanitizeText(field.Description) != "" {
		refs = append(refs, ids.DescriptionID(field.ID))
	}
	if invalid {
		refs = append(refs, ids.ErrorID(field.ID))
	}
	return strings.Join(refs, " ")
}

// sanitizeClassList drops tokens using the renderer's own "et-" namespace so
// hints cannot restyle the chrome.
func sanitizeClassList(value string) string {
	tokens := strings.Fields(value)
	keep := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if strings.HasPrefix(token, "et-") {
			continue
		}
		keep = append(keep, token)
	}
	return strings.Join(keep, " ")
}

func componentLabelsItself(componentName string) bool {
	switch strings.TrimSpace(componentName) {
	case components.NameRadio, components.NameBoolean, components.NameCheckbox:
		return true
	default:
		return false
	}
}
