package eticket

import (
	"io/fs"

	"github.com/goliatone/go-eticket/pkg/renderers/vanilla"
)

// EmbeddedTemplates exposes the built-in step templates so callers can reuse
// or override them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// EmbeddedAssets exposes the default stylesheet served under /assets/.
func EmbeddedAssets() fs.FS {
	return vanilla.AssetsFS()
}
