package server

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/goliatone/go-eticket/internal/metrics"
	"github.com/goliatone/go-eticket/internal/store"
	"github.com/goliatone/go-eticket/pkg/fieldadapter"
	"github.com/goliatone/go-eticket/pkg/orchestrator"
	"github.com/goliatone/go-eticket/pkg/steps"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fixture struct {
	server  *Server
	drafts  *store.Memory
	metrics *metrics.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	catalog := steps.New(steps.WithDefinitions(
		steps.ContactInfo(),
		steps.CustomsDeclaration(),
		steps.Review(),
	))
	return newFixtureWithCatalog(t, catalog)
}

func newFixtureWithCatalog(t *testing.T, catalog *steps.Catalog) *fixture {
	t.Helper()
	drafts := store.NewMemory()
	m := metrics.New()
	srv, err := New(Config{
		Orchestrator:  orchestrator.New(orchestrator.WithCatalog(catalog)),
		Store:         drafts,
		Metrics:       m,
		SessionSecret: testSecret,
		SessionMaxAge: time.Hour,
	})
	require.NoError(t, err)
	return &fixture{server: srv, drafts: drafts, metrics: m}
}

// client replays cookies between requests against the handler.
type client struct {
	handler http.Handler
	cookies map[string]*http.Cookie
}

func (f *fixture) client() *client {
	return &client{handler: f.server.Handler(), cookies: map[string]*http.Cookie{}}
}

func (c *client) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	for _, cookie := range rec.Result().Cookies() {
		c.cookies[cookie.Name] = cookie
	}
	return rec
}

func (c *client) get(target string) *httptest.ResponseRecorder {
	return c.do(http.MethodGet, target, nil)
}

func (c *client) post(target string, form url.Values) *httptest.ResponseRecorder {
	return c.do(http.MethodPost, target, form)
}

func validContact() url.Values {
	return url.Values{
		"contactInfo.email":            {"ana@example.com"},
		"contactInfo.phone":            {"+1 809 555 0101"},
		"contactInfo.residenceCountry": {"DO"},
		"contactInfo.residenceCity":    {"Santo Domingo"},
		"contactInfo.residenceAddress": {"Calle El Conde 1"},
		"contactInfo.stayAddress":      {"Hotel Colonial"},
	}
}

func noCustoms() url.Values {
	return url.Values{
		"customs.carriesCurrency":      {"no"},
		"customs.carriesAnimalsOrFood": {"no"},
		"customs.carriesTaxableGoods":  {"no"},
	}
}

func TestNew_RequiresStoreAndSecret(t *testing.T) {
	_, err := New(Config{SessionSecret: testSecret})
	assert.ErrorIs(t, err, ErrNoStore)

	_, err = New(Config{Store: store.NewMemory()})
	assert.ErrorIs(t, err, ErrNoSecret)
}

func TestStart_CreatesDraftAndRedirects(t *testing.T) {
	f := newFixture(t)
	c := f.client()

	rec := c.get("/")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/steps/contact-info", rec.Header().Get("Location"))
	assert.Contains(t, c.cookies, defaultSessionName)
	assert.Equal(t, 1, f.drafts.Len())

	// A second visit resumes the same draft.
	rec = c.get("/")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 1, f.drafts.Len())
}

func TestStart_PerTravelerSteps(t *testing.T) {
	f := newFixtureWithCatalog(t, steps.New())
	c := f.client()

	rec := c.get("/?travelers=2")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/steps/personal-info?traveler=0", rec.Header().Get("Location"))

	rec = c.get("/steps/personal-info?traveler=0")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="travelers.0.personalInfo.firstName"`)

	rec = c.get("/steps/personal-info?traveler=1")
	assert.Equal(t, http.StatusSeeOther, rec.Code, "second traveler not reached yet")
}

func TestStart_RejectsBadTravelerCount(t *testing.T) {
	f := newFixture(t)
	for _, raw := range []string{"0", "11", "two"} {
		rec := f.client().get("/?travelers=" + raw)
		assert.Equal(t, http.StatusBadRequest, rec.Code, raw)
	}
}

func TestStep_Navigation(t *testing.T) {
	f := newFixture(t)

	rec := f.client().get("/steps/contact-info")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"), "no draft yet")

	c := f.client()
	c.get("/")

	rec = c.get("/steps/contact-info")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "<form")
	assert.Contains(t, body, `name="_step" value="contact-info"`)
	assert.Contains(t, body, "Step 1 of 3")

	rec = c.get("/steps/customs")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/steps/contact-info", rec.Header().Get("Location"))

	rec = c.get("/steps/boarding-pass")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStepSubmit_InvalidRerenders(t *testing.T) {
	f := newFixture(t)
	c := f.client()
	c.get("/")

	form := validContact()
	form.Set("contactInfo.email", "not-an-email")
	form.Del("contactInfo.phone")

	rec := c.post("/steps/contact-info", form)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Enter a valid email address")
	assert.Contains(t, body, "Phone number is required")
	assert.Contains(t, body, `value="not-an-email"`)

	// The rejected values and errors survive a reload.
	rec = c.get("/steps/contact-info")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Phone number is required")
}

func TestStepSubmit_HiddenFollowUpsAreSkipped(t *testing.T) {
	f := newFixture(t)
	c := f.client()
	c.get("/")
	require.Equal(t, http.StatusSeeOther, c.post("/steps/contact-info", validContact()).Code)

	form := noCustoms()
	form.Set("customs.carriesCurrency", "yes")
	rec := c.post("/steps/customs", form)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Declare the amount carried")

	rec = c.post("/steps/customs", noCustoms())
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/steps/review", rec.Header().Get("Location"))
}

func TestDeclaration_FullFlow(t *testing.T) {
	f := newFixture(t)
	c := f.client()
	c.get("/")

	rec := c.post("/steps/contact-info", validContact())
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/steps/customs", rec.Header().Get("Location"))

	rec = c.post("/steps/customs", noCustoms())
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = c.post("/steps/review", url.Values{})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "You must accept the declaration")

	rec = c.post("/steps/review", url.Values{"customs.declarationAccepted": {"true"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, reviewPath, rec.Header().Get("Location"))

	rec = c.get(reviewPath)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Contact information")
	assert.Contains(t, body, "ana@example.com")
	assert.Contains(t, body, `href="/steps/customs"`)
	assert.Contains(t, body, "Submit declaration")

	rec = c.post("/submit", url.Values{})
	require.Equal(t, http.StatusOK, rec.Code)
	var got receipt
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 1, got.Travelers)
	assert.Equal(t, "ana@example.com", got.Declaration.Contact.Email)
	assert.Equal(t, "DO", got.Declaration.Contact.ResidenceCountry)
	assert.False(t, got.Declaration.Customs.CarriesCurrency)
	assert.True(t, got.Declaration.Customs.DeclarationAccepted)

	// Posting again returns the stored receipt.
	rec = c.post("/submit", url.Values{})
	require.Equal(t, http.StatusOK, rec.Code)
	var again receipt
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &again))
	assert.Equal(t, got.Declaration, again.Declaration)

	rec = c.post("/steps/contact-info", validContact())
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = c.get(reviewPath)
	assert.Contains(t, rec.Body.String(), "has been submitted")
}

func TestStepSubmit_CustomBoolMapping(t *testing.T) {
	catalog := steps.New(
		steps.WithDefinitions(steps.ContactInfo(), steps.CustomsDeclaration(), steps.Review()),
		steps.WithBoolMapping(fieldadapter.Mapping{TrueValue: "si", FalseValue: "no"}),
	)
	f := newFixtureWithCatalog(t, catalog)
	c := f.client()
	c.get("/")
	require.Equal(t, http.StatusSeeOther, c.post("/steps/contact-info", validContact()).Code)

	form := noCustoms()
	form.Set("customs.carriesCurrency", "si")
	rec := c.post("/steps/customs", form)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, "the amount becomes required")
	assert.Contains(t, rec.Body.String(), "Declare the amount carried")

	form.Set("customs.currencyAmount", "15000")
	rec = c.post("/steps/customs", form)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = c.get("/steps/customs")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="customs.carriesCurrency" value="si" checked`)

	c.post("/steps/review", url.Values{"customs.declarationAccepted": {"true"}})
	rec = c.post("/submit", url.Values{})
	require.Equal(t, http.StatusOK, rec.Code)
	var got receipt
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.Declaration.Customs.CarriesCurrency)
	assert.Equal(t, "15000", got.Declaration.Customs.CurrencyAmount)
}

func TestReview_RequiresLastStep(t *testing.T) {
	f := newFixture(t)
	c := f.client()
	c.get("/")

	rec := c.get(reviewPath)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/steps/contact-info", rec.Header().Get("Location"))
}

func TestReview_JSON(t *testing.T) {
	f := newFixture(t)
	c := f.client()
	c.get("/")
	c.post("/steps/contact-info", validContact())
	c.post("/steps/customs", noCustoms())
	c.post("/steps/review", url.Values{"customs.declarationAccepted": {"true"}})

	rec := c.get(reviewPath + "?format=json")
	require.Equal(t, http.StatusOK, rec.Code)
	var payload struct {
		Sections []struct {
			StepID string `json:"step_id"`
			Rows   []struct {
				Label  string `json:"label"`
				Answer string `json:"answer"`
			} `json:"rows"`
		} `json:"sections"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Sections, 3)
	assert.Equal(t, "customs", payload.Sections[1].StepID)
	assert.Equal(t, "No", payload.Sections[1].Rows[0].Answer)
}

func TestSubmit_Incomplete(t *testing.T) {
	f := newFixture(t)

	rec := f.client().post("/submit", url.Values{})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	c := f.client()
	c.get("/")
	rec = c.post("/submit", url.Values{})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var got rejection
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "contact-info", got.Step)
	assert.Equal(t, "/steps/contact-info", got.Redirect)
	assert.Equal(t, "Email is required", got.Fields["contactInfo.email"])
}

func TestHealthAssetsAndMetrics(t *testing.T) {
	f := newFixture(t)
	c := f.client()

	rec := c.get("/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())

	rec = c.get("/assets/eticket-vanilla.css")
	assert.Equal(t, http.StatusOK, rec.Code)

	c.get("/")
	form := validContact()
	form.Del("contactInfo.email")
	c.post("/steps/contact-info", form)

	rec = c.get("/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `eticket_step_submissions_total{outcome="invalid",step="contact-info"} 1`)
	assert.Contains(t, body, `eticket_field_validation_failures_total{field="contactInfo.email"} 1`)
	assert.Contains(t, body, "eticket_drafts_created_total 1")
}

func TestSession_TamperedCookieStartsOver(t *testing.T) {
	f := newFixture(t)
	c := f.client()
	c.get("/")
	c.cookies[defaultSessionName].Value = "garbage"

	rec := c.get("/steps/contact-info")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestServeListener_Shutdown(t *testing.T) {
	f := newFixture(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.server.ServeListener(ctx, ln) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

type flakyStore struct {
	*store.Memory
	down bool
}

func (f *flakyStore) Ping(context.Context) error {
	if f.down {
		return errors.New("connection refused")
	}
	return nil
}

// racingStore saves a second copy of the draft after every load, as a
// request from another tab would.
type racingStore struct {
	*store.Memory
	race bool
}

func (r *racingStore) Load(ctx context.Context, id string) (*store.Draft, error) {
	draft, err := r.Memory.Load(ctx, id)
	if err != nil || !r.race {
		return draft, err
	}
	other, err := r.Memory.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	other.Values["contactInfo"] = map[string]any{"email": "other@example.com"}
	if err := r.Memory.Save(ctx, other); err != nil {
		return nil, err
	}
	return draft, nil
}

func TestStepSubmit_ConcurrentWriteConflicts(t *testing.T) {
	drafts := &racingStore{Memory: store.NewMemory()}
	catalog := steps.New(steps.WithDefinitions(steps.ContactInfo(), steps.Review()))
	srv, err := New(Config{
		Orchestrator:  orchestrator.New(orchestrator.WithCatalog(catalog)),
		Store:         drafts,
		SessionSecret: testSecret,
		SessionMaxAge: time.Hour,
	})
	require.NoError(t, err)
	c := (&fixture{server: srv}).client()
	c.get("/")

	drafts.race = true
	rec := c.post("/steps/contact-info", validContact())
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "reload")

	drafts.race = false
	rec = c.get("/steps/contact-info")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `value="other@example.com"`, "the other write is kept")
	assert.NotContains(t, body, "ana@example.com")

	rec = c.post("/steps/contact-info", validContact())
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestHealth_PingsStore(t *testing.T) {
	drafts := &flakyStore{Memory: store.NewMemory()}
	srv, err := New(Config{Store: drafts, SessionSecret: testSecret})
	require.NoError(t, err)
	c := &client{handler: srv.Handler(), cookies: map[string]*http.Cookie{}}

	assert.Equal(t, http.StatusOK, c.get("/healthz").Code)

	drafts.down = true
	assert.Equal(t, http.StatusServiceUnavailable, c.get("/healthz").Code)
}

func TestAssets_ExtraPrefixes(t *testing.T) {
	srv, err := New(Config{
		Store:         store.NewMemory(),
		SessionSecret: testSecret,
		Assets: map[string]fs.FS{
			"/assets/themes/acme/": fstest.MapFS{"theme.css": {Data: []byte(":root{}")}},
		},
	})
	require.NoError(t, err)
	c := &client{handler: srv.Handler(), cookies: map[string]*http.Cookie{}}

	rec := c.get("/assets/themes/acme/theme.css")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ":root{}", rec.Body.String())
}

func TestCountriesLookup(t *testing.T) {
	f := newFixture(t)
	c := f.client()

	rec := c.get("/api/countries?q=dominican")
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Data []struct {
			Value string `json:"value"`
			Label string `json:"label"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
	require.Len(t, payload.Data, 1)
	assert.Equal(t, "DO", payload.Data[0].Value)
}
