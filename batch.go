package transit

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// MapSlice maps every element of src concurrently, running at most limit
// mappings at once (limit <= 0 means no limit). The result preserves the
// order of src. The first failure cancels the remaining work and is
// returned. A nil src yields a nil result.
func MapSlice[S, D any](ctx context.Context, m *Mapper[S, D], src []S, limit int) (out []D, err error) {
	if src == nil {
		return nil, nil
	}

	start := time.Now()
	defer func() {
		emitBatchComplete(ctx, m.src.String(), m.dst.String(), len(src), time.Since(start), err)
	}()

	out = make([]D, len(src))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i := range src {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return m.MapInto(gctx, src[i], &out[i])
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
