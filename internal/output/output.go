package output

import (
	"context"

	"github.com/crimson-sun/fairnorm/internal/model"
)

// Output defines the interface for normalized record destinations.
type Output interface {
	Write(ctx context.Context, rec model.NormalizedRecord) error
	Close() error
}
