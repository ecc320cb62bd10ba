package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-eticket/pkg/fieldadapter"
	"github.com/goliatone/go-eticket/pkg/formstate"
	"github.com/goliatone/go-eticket/pkg/renderers/tui"
	"github.com/goliatone/go-eticket/pkg/steps"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cfg := writeFile(t, "eticket.yaml", "log_level: error\n")
	cmd.SetArgs(append(args, "--config", cfg))
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestRequirementsCommand_RequiredOnly(t *testing.T) {
	path := writeFile(t, "requirements.yaml", `fields:
  contactInfo.email: true
  contactInfo.phone: false
  customs.declarationAccepted: true
`)

	out, err := execute(t, "requirements", "--requirements", path, "--required")
	if err != nil {
		t.Fatalf("requirements: %v", err)
	}

	var got []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n")[1:] {
		got = append(got, strings.Fields(line)[0])
	}
	want := []string{"contactInfo.email", "customs.declarationAccepted"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("required paths mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderCommand_JSON(t *testing.T) {
	values := writeFile(t, "values.json", `{"customs":{"carriesCurrency":true}}`)

	out, err := execute(t, "render", steps.CustomsDeclarationID, "--format", "json", "--values", values)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var doc struct {
		ID     string   `json:"id"`
		Hidden []string `json:"hidden"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if doc.ID != steps.CustomsDeclarationID {
		t.Fatalf("expected step %q, got %q", steps.CustomsDeclarationID, doc.ID)
	}
	for _, path := range doc.Hidden {
		if path == "customs.currencyAmount" {
			t.Fatalf("currency amount should be visible once carriesCurrency is true: %v", doc.Hidden)
		}
	}
}

func TestRenderCommand_HTMLToFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "contact.html")

	if _, err := execute(t, "render", steps.ContactInfoID, "-o", target); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), `name="contactInfo.email"`) {
		t.Fatalf("expected the email input in the rendered step")
	}
}

func TestRenderCommand_UnknownFormat(t *testing.T) {
	_, err := execute(t, "render", steps.ContactInfoID, "--format", "yaml")
	if err == nil || !strings.Contains(err.Error(), `unknown format "yaml"`) {
		t.Fatalf("expected unknown format error, got %v", err)
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "theme.yaml")
	content := `name: harbor
assets:
  prefix: /theme
  dir: static
variants:
  dark:
    tokens:
      primary: "#0b3d91"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	loaded, err := loadManifest(path)
	if err != nil {
		t.Fatalf("loadManifest: %v", err)
	}
	if loaded.Manifest.Name != "harbor" {
		t.Fatalf("expected manifest name harbor, got %q", loaded.Manifest.Name)
	}
	if loaded.Dir != dir {
		t.Fatalf("expected dir %q, got %q", dir, loaded.Dir)
	}
	if want := filepath.Join(dir, "static"); loaded.AssetsDir != want {
		t.Fatalf("expected assets dir %q, got %q", want, loaded.AssetsDir)
	}
}

func TestLoadManifest_RequiresName(t *testing.T) {
	path := writeFile(t, "theme.yaml", "description: unnamed\n")
	if _, err := loadManifest(path); err == nil {
		t.Fatal("expected an error for a manifest without a name")
	}
}

// scriptedDriver answers input, select and confirm prompts in order.
type scriptedDriver struct {
	inputs   []string
	selects  []int
	confirms []bool
}

func (d *scriptedDriver) Input(context.Context, tui.InputConfig) (string, error) {
	if len(d.inputs) == 0 {
		return "", errors.New("no input scripted")
	}
	answer := d.inputs[0]
	d.inputs = d.inputs[1:]
	return answer, nil
}

func (d *scriptedDriver) TextArea(context.Context, tui.TextAreaConfig) (string, error) {
	return "", errors.New("no textarea scripted")
}

func (d *scriptedDriver) Select(context.Context, tui.SelectConfig) (int, error) {
	if len(d.selects) == 0 {
		return -1, errors.New("no select scripted")
	}
	idx := d.selects[0]
	d.selects = d.selects[1:]
	return idx, nil
}

func (d *scriptedDriver) Confirm(context.Context, tui.ConfirmConfig) (bool, error) {
	if len(d.confirms) == 0 {
		return false, errors.New("no confirm scripted")
	}
	answer := d.confirms[0]
	d.confirms = d.confirms[1:]
	return answer, nil
}

func (d *scriptedDriver) Info(context.Context, string) error { return nil }

func TestFillDeclaration(t *testing.T) {
	catalog := steps.New(steps.WithDefinitions(steps.CustomsDeclaration(), steps.Review()))
	driver := &scriptedDriver{
		// "No" to currency, animals or food and taxable goods.
		selects:  []int{1, 1, 1},
		confirms: []bool{true},
	}
	prompts, err := tui.New(tui.WithPromptDriver(driver), tui.WithRules(catalog.Rules()))
	if err != nil {
		t.Fatal(err)
	}

	nav, err := fillDeclaration(context.Background(), catalog, 1, prompts, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("fillDeclaration: %v", err)
	}
	if !nav.IsLast() {
		t.Fatalf("expected to finish on the last step")
	}

	want := map[string]any{
		"customs": map[string]any{
			"carriesCurrency":      false,
			"carriesAnimalsOrFood": false,
			"carriesTaxableGoods":  false,
			"declarationAccepted":  true,
		},
	}
	if diff := cmp.Diff(want, nav.Form().Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if len(driver.selects) != 0 || len(driver.confirms) != 0 {
		t.Fatalf("unused answers: %+v", driver)
	}
}

func TestFillDeclaration_CustomBoolMapping(t *testing.T) {
	mapping := fieldadapter.Mapping{TrueValue: "si", FalseValue: "no"}
	catalog := steps.New(
		steps.WithDefinitions(steps.CustomsDeclaration(), steps.Review()),
		steps.WithBoolMapping(mapping),
	)
	driver := &scriptedDriver{
		// First option to currency, then the amount; "no" to the rest.
		selects:  []int{0, 1, 1},
		inputs:   []string{"15000"},
		confirms: []bool{true},
	}
	prompts, err := tui.New(
		tui.WithPromptDriver(driver),
		tui.WithRules(catalog.Rules()),
		tui.WithBoolMapping(catalog.BoolMapping()),
	)
	if err != nil {
		t.Fatal(err)
	}

	nav, err := fillDeclaration(context.Background(), catalog, 1, prompts, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("fillDeclaration: %v", err)
	}

	want := map[string]any{
		"customs": map[string]any{
			"carriesCurrency":      true,
			"currencyAmount":       "15000",
			"carriesAnimalsOrFood": false,
			"carriesTaxableGoods":  false,
			"declarationAccepted":  true,
		},
	}
	if diff := cmp.Diff(want, nav.Form().Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if len(driver.inputs) != 0 || len(driver.selects) != 0 {
		t.Fatalf("unused answers: %+v", driver)
	}
}

func TestWriteDeclaration(t *testing.T) {
	form := formstate.New()
	_ = form.Set("contactInfo.email", "ana@example.com")
	_ = form.Set("customs.carriesCurrency", true)
	_ = form.Set("customs.currencyAmount", "15000")
	_ = form.Set("travelers.0.passport.number", "X1234567")

	path := filepath.Join(t.TempDir(), "declaration.json")
	if err := writeDeclaration(path, form); err != nil {
		t.Fatalf("writeDeclaration: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got steps.Declaration
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, raw)
	}
	want := steps.Declaration{
		Travelers: []steps.Traveler{{Passport: steps.Passport{Number: "X1234567"}}},
		Contact:   steps.Contact{Email: "ana@example.com"},
		Customs:   steps.Customs{CarriesCurrency: true, CurrencyAmount: "15000"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("declaration mismatch (-want +got):\n%s", diff)
	}
}

func TestFillDeclaration_Aborted(t *testing.T) {
	catalog := steps.New(steps.WithDefinitions(steps.Review()))
	prompts, err := tui.New(tui.WithPromptDriver(&scriptedDriver{}))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fillDeclaration(context.Background(), catalog, 1, prompts, &bytes.Buffer{}); err == nil {
		t.Fatal("expected the driver error to stop the fill")
	}
}
