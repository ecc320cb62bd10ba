package render

import (
	"context"

	"github.com/goliatone/go-eticket/pkg/model"
)

// Renderer converts a wizard step into a byte representation (HTML, terminal
// transcript, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, step model.Step, options RenderOptions) ([]byte, error)
}
