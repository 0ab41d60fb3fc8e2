package validator

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/tablecheck/pkg/table"
)

// faultError carries a recovered panic out of a shard goroutine.
type faultError struct {
	cause any
}

func (e *faultError) Error() string { return ErrUnexpectedFault.Error() }

// ValidateParallel produces the same outcome as Validate but runs the
// per-row checks over row shards concurrently. Uniqueness, cross-field and
// aggregate checks need the whole table and run after the shards are merged.
// The only error returned is the context's, when it is done before the
// shards finish.
func ValidateParallel(ctx context.Context, t *table.Table, s *Schema, shards int) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	if shards <= 1 || t.Len() < 2 || s == nil {
		return Validate(t, s), nil
	}

	if out := guard(func() Outcome {
		if vs := s.checkStructure(t); len(vs) > 0 {
			return failed(vs)
		}
		return Outcome{Success: true}
	}); !out.Success {
		return out, nil
	}

	n := t.Len()
	shards = min(shards, n)
	size := (n + shards - 1) / shards
	results := make([]Violations, shards)

	g, gctx := errgroup.WithContext(ctx)
	for i := range shards {
		from, to := i*size, min((i+1)*size, n)
		if from >= to {
			break
		}
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = &faultError{cause: r}
				}
			}()
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.checkRows(t, from, to)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		var fe *faultError
		if errors.As(err, &fe) {
			return faultOutcome(fe.cause), nil
		}
		return Outcome{}, err
	}

	merged := Merge(results...)
	return guard(func() Outcome {
		return s.finish(t, append(merged, s.checkUnique(t)...))
	}), nil
}
