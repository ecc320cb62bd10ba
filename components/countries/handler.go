package countries

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/goliatone/go-eticket/pkg/model"
	"github.com/goliatone/go-eticket/pkg/steps"
)

// HTTPError lets a guard choose the response status.
type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

type optionResponse struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type searchResponse struct {
	Data []optionResponse `json:"data"`
}

// Handler builds the search handler with default options plus overrides.
func Handler(fns ...OptionFn) http.Handler {
	return HandlerWithOptions(NewOptions(fns...))
}

// HandlerWithOptions builds the handler from a pre-built Options value.
func HandlerWithOptions(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	countries := opts.Countries
	if countries == nil {
		countries = steps.CountryOptions()
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		if opts.Guard != nil {
			if err := opts.Guard(r); err != nil {
				writeGuardError(w, err)
				return
			}
		}

		query := r.URL.Query()
		results := Search(countries, query.Get(opts.SearchParam), parseInt(query.Get(opts.LimitParam)), opts)

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		_ = json.NewEncoder(w).Encode(searchResponse{Data: toResponse(results)})
	})
}

func toResponse(options []model.Option) []optionResponse {
	out := make([]optionResponse, 0, len(options))
	for _, option := range options {
		out = append(out, optionResponse{Value: option.Value, Label: option.Label})
	}
	return out
}

func writeGuardError(w http.ResponseWriter, err error) {
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr.StatusCode() > 0 {
		code = httpErr.StatusCode()
	}
	http.Error(w, http.StatusText(code), code)
}

func parseInt(raw string) int {
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
