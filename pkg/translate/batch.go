package translate

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// TranslateAll translates texts with at most limit requests in flight.
// A text that fails to translate yields "" at its index; only cancellation
// of ctx fails the whole call.
func (c *Client) TranslateAll(ctx context.Context, texts []string, to string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 4
	}
	out := make([]string, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, text := range texts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s, err := c.Translate(gctx, text, to)
			if err != nil {
				log.Warn().Err(err).Int("index", i).Msg("batch translation failed")
				return nil
			}
			out[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
