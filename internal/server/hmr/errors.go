package hmr

import (
	"errors"

	"github.com/prajithkb/metro/internal/core/domain"
)

// formatError normalizes any build failure into the error payload shape.
// Transform and resolution errors are reported verbatim with their file and
// line; anything else is wrapped with best-effort field extraction and never
// propagated raw to the client.
func formatError(err error) errorBody {
	var transformErr *domain.TransformError
	if errors.As(err, &transformErr) {
		return errorBody{
			Type:    transformErr.Type,
			Message: transformErr.Message,
			Errors: []errorDescription{{
				Description: transformErr.Message,
				Filename:    transformErr.Filename,
				LineNumber:  transformErr.LineNumber,
			}},
		}
	}

	return errorBody{
		Type:    "InternalError",
		Message: err.Error(),
		Errors: []errorDescription{{
			Description: err.Error(),
		}},
	}
}
