package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"BiasFeed/internal/domain"
	"BiasFeed/internal/logging"
	"BiasFeed/internal/ports"
)

// Chain implements ContentSource by trying providers in order: the first one is
// the live provider, the rest are fallbacks. Exactly one provider's result is
// returned per call.
type Chain[T any] struct {
	providers []ports.ContentProvider[T]
	logger    *slog.Logger
	sink      ports.EventSink
}

var _ ports.ContentSource[domain.Article] = (*Chain[domain.Article])(nil)

// NewChain wires the ordered provider list.
func NewChain[T any](providers []ports.ContentProvider[T], log *slog.Logger, sink ports.EventSink) *Chain[T] {
	return &Chain[T]{
		providers: providers,
		logger:    log,
		sink:      logging.OrNop(sink),
	}
}

// NewChainFromRegistry resolves names against reg and builds a chain.
func NewChainFromRegistry[T any](reg *Registry[T], names []string, log *slog.Logger, sink ports.EventSink) (*Chain[T], error) {
	if reg == nil {
		return nil, fmt.Errorf("provider registry is not configured")
	}
	providers, err := reg.ResolveAll(names)
	if err != nil {
		return nil, fmt.Errorf("build chain: %w", err)
	}
	return NewChain(providers, log, sink), nil
}

// Fetch asks each provider in turn. A provider that errors or returns nothing
// hands over to the next one; the last provider's empty result is returned as is.
func (c *Chain[T]) Fetch(ctx context.Context, req domain.FetchRequest) ([]T, error) {
	if len(c.providers) == 0 {
		return nil, &domain.SourceError{Provider: "chain", Cause: errors.New("no providers configured")}
	}

	req = req.Normalized()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var (
		lastErr  error
		lastName string
	)
	for i, p := range c.providers {
		name := p.Name()
		attrs := []slog.Attr{slog.String("provider", name), slog.String("kind", string(req.Kind))}
		if i == 0 {
			c.sink.Record(ctx, "source.live_attempted", attrs...)
		} else {
			c.sink.Record(ctx, "source.fallback_attempted", append(attrs, slog.String("previous", lastName))...)
		}

		items, err := p.Fetch(ctx, req)
		lastName = name
		switch {
		case err != nil:
			lastErr = err
			c.sink.Record(ctx, "source.provider_failed", append(attrs, slog.String("error", err.Error()))...)
			c.debug("provider failed", "provider", name, "error", err)
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, &domain.SourceError{Provider: name, Cause: ctxErr}
			}
			continue
		case len(items) == 0 && i < len(c.providers)-1:
			lastErr = domain.ErrEmptyResult
			c.sink.Record(ctx, "source.provider_empty", attrs...)
			c.debug("provider empty", "provider", name)
			continue
		}

		c.debug("provider served request", "provider", name, "count", len(items))
		return items, nil
	}

	c.sink.Record(ctx, "source.exhausted", slog.String("provider", lastName), slog.String("error", lastErr.Error()))
	return nil, &domain.SourceError{Provider: lastName, Cause: lastErr}
}

func (c *Chain[T]) debug(msg string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
