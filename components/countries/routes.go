package countries

import (
	"errors"
	"net/http"
	"strings"
)

// Mux is satisfied by *http.ServeMux and chi.Router.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// RegisterRoutes mounts the handler under basePath and returns the pattern.
func RegisterRoutes(mux Mux, basePath string, fns ...OptionFn) (string, error) {
	if mux == nil {
		return "", errors.New("countries: missing mux")
	}
	opts := NewOptions(fns...)
	pattern := mountPath(basePath, opts.RoutePath)
	mux.Handle(pattern, HandlerWithOptions(opts))
	return pattern, nil
}

func mountPath(basePath, routePath string) string {
	basePath = strings.TrimSpace(basePath)
	routePath = strings.TrimSpace(routePath)
	if !strings.HasPrefix(routePath, "/") {
		routePath = "/" + routePath
	}
	if basePath == "" || basePath == "/" {
		return routePath
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	return strings.TrimRight(basePath, "/") + routePath
}
