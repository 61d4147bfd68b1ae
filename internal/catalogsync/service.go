package catalogsync

import (
	"context"
	"fmt"
	"github.com/ariefcatur/healtheek-storefront/internal/catalog"
	"github.com/ariefcatur/healtheek-storefront/internal/events"
	kafkax "github.com/ariefcatur/healtheek-storefront/internal/kafka"
	"github.com/ariefcatur/healtheek-storefront/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// CountStore is the uncached catalog store the worker recounts from.
type CountStore interface {
	catalog.Reader
	SetProductCounts(ctx context.Context, counts map[string]int) error
}

type Invalidator interface {
	Invalidate(ctx context.Context) error
}

type Service struct {
	Store CountStore
	Cache Invalidator
	Redis *redis.Client
	Log   *zap.Logger
	Name  string
}

// HandleCatalogChanged is installed as the catalog.changed consumer handler.
// The dedup mark is written only after success so a failed event is redelivered.
func (s *Service) HandleCatalogChanged(ctx context.Context, m kafkago.Message) error {
	if t := kafkax.Header(m, "x-event-type"); t != "" && t != events.EventCatalogChanged {
		return nil
	}
	var env events.Envelope
	if err := kafkax.UnmarshalEnvelope(m.Value, &env); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	if env.EventType != events.EventCatalogChanged {
		return nil
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, s.Name, env.EventID)
	if seen, err := redisx.Exists(ctx, s.Redis, dkey); err != nil {
		s.Log.Warn("dedup lookup", zap.String("event_id", env.EventID), zap.Error(err))
	} else if seen {
		return nil
	}

	p, err := kafkax.UnwrapPayload[events.CatalogChangedPayload](env.Payload)
	if err != nil {
		return err
	}
	log := s.Log.With(zap.String("event_id", env.EventID), zap.String("entity", p.Entity),
		zap.String("entity_id", p.EntityID), zap.String("action", p.Action))

	switch p.Entity {
	case events.EntityProduct, events.EntityCategory:
		if err := s.Recount(ctx); err != nil {
			return err
		}
		if err := s.Cache.Invalidate(ctx); err != nil {
			return fmt.Errorf("invalidate catalog cache: %w", err)
		}
		log.Info("catalog refreshed")
	default:
		log.Debug("catalog change ignored")
	}

	if _, err := redisx.MarkOnce(ctx, s.Redis, dkey, redisx.TTLDedup); err != nil {
		log.Warn("dedup mark", zap.Error(err))
	}
	return nil
}

// Recount rewrites every category's informational product count.
func (s *Service) Recount(ctx context.Context) error {
	products, err := s.Store.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}
	categories, err := s.Store.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	if err := s.Store.SetProductCounts(ctx, catalog.CountByCategory(products, categories)); err != nil {
		return fmt.Errorf("set product counts: %w", err)
	}
	return nil
}
