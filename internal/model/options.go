package model

import (
	"github.com/goliatone/go-eticket/pkg/fieldadapter"
	"github.com/goliatone/go-eticket/pkg/ids"
)

// Options configures the behaviour of the Builder.
type Options struct {
	Labeler    func(string) string
	IDs        *ids.Generator
	BoolLabels fieldadapter.Labels
	// BoolMapping supplies the option values of yes/no questions.
	BoolMapping fieldadapter.Mapping
}

func defaultOptions() Options {
	return Options{
		Labeler:     DefaultLabeler,
		IDs:         ids.New(),
		BoolLabels:  fieldadapter.DefaultLabels(),
		BoolMapping: fieldadapter.YesNo,
	}
}
