package server

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-eticket/pkg/fieldadapter"
	"github.com/goliatone/go-eticket/pkg/formstate"
	"github.com/goliatone/go-eticket/pkg/model"
)

func bindFixture() model.Step {
	return model.Step{
		ID: "customs",
		Sections: []model.Section{{
			ID: "goods",
			Fields: []model.Field{
				{Path: "customs.carriesTaxableGoods", Type: model.FieldTypeBoolean},
				{Path: "customs.taxableGoodsDescription", Type: model.FieldTypeTextarea},
				{Path: "customs.declarationAccepted", Type: model.FieldTypeCheckbox},
				{Path: "customs.portOfEntry", Type: model.FieldTypeText},
			},
		}},
	}
}

func TestBindStep(t *testing.T) {
	form := formstate.New(formstate.WithValues(map[string]any{
		"customs": map[string]any{"portOfEntry": "SDQ", "declarationAccepted": true},
	}))
	posted := url.Values{
		"customs.carriesTaxableGoods":     {"yes"},
		"customs.taxableGoodsDescription": {"  two laptops \n"},
		"customs.portOfEntry":             {"   "},
	}

	if err := bindStep(form, bindFixture(), posted, fieldadapter.YesNo); err != nil {
		t.Fatalf("bind: %v", err)
	}

	want := map[string]any{
		"customs": map[string]any{
			"carriesTaxableGoods":     true,
			"taxableGoodsDescription": "two laptops",
			"declarationAccepted":     false,
		},
	}
	if diff := cmp.Diff(want, form.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestBindStep_UnansweredBooleanStaysUnset(t *testing.T) {
	form := formstate.New()
	if err := bindStep(form, bindFixture(), url.Values{"customs.carriesTaxableGoods": {"maybe"}}, fieldadapter.YesNo); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if got, _ := form.Get("customs.carriesTaxableGoods"); got != false {
		t.Fatalf("unknown radio value should map to false, got %#v", got)
	}

	form = formstate.New()
	if err := bindStep(form, bindFixture(), url.Values{}, fieldadapter.YesNo); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if _, ok := form.Get("customs.carriesTaxableGoods"); ok {
		t.Fatalf("blank radio should stay unset")
	}
}
