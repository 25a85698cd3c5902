// Package multi tees accepted records to several outputs, typically the file
// archive and stdout when run with --tee.
package multi

import (
	"context"
	"errors"
	"fmt"

	"github.com/crimson-sun/fairnorm/internal/model"
	"github.com/crimson-sun/fairnorm/internal/output"
)

// Tee writes each record to every output in order. A failing output does not
// stop delivery to the ones after it.
type Tee struct {
	outputs []output.Output
}

// New creates a Tee. Nested Tees are flattened.
func New(outputs ...output.Output) *Tee {
	t := &Tee{}
	for _, o := range outputs {
		if inner, ok := o.(*Tee); ok {
			t.outputs = append(t.outputs, inner.outputs...)
			continue
		}
		t.outputs = append(t.outputs, o)
	}
	return t
}

// Len returns the number of outputs fed.
func (t *Tee) Len() int { return len(t.outputs) }

// Write delivers rec to every output. The returned error joins each failure,
// tagged with the output's position and the record's identity.
func (t *Tee) Write(ctx context.Context, rec model.NormalizedRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var errs []error
	for i, o := range t.outputs {
		if err := o.Write(ctx, rec); err != nil {
			errs = append(errs, fmt.Errorf("output %d: record %s: %w", i, rec.IdentityID, err))
		}
	}
	return errors.Join(errs...)
}

// Close closes every output, last first.
func (t *Tee) Close() error {
	var errs []error
	for i := len(t.outputs) - 1; i >= 0; i-- {
		if err := t.outputs[i].Close(); err != nil {
			errs = append(errs, fmt.Errorf("output %d: close: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
