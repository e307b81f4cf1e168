package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/internal/domain"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/internal/repository"
)

const keyPrefix = "drink:"

var cacheLookups = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "drinks_cache_lookups_total",
		Help: "Drink cache lookups by result (hit, miss, error).",
	},
	[]string{"result"},
)

// CachedDrinkRepository is a read-through, write-through cache in front of
// another repository.DrinkRepository. Cache failures are logged and never fail
// a call.
type CachedDrinkRepository struct {
	next   repository.DrinkRepository
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedDrinkRepository wraps next with a Redis cache keyed by drink id.
func NewCachedDrinkRepository(next repository.DrinkRepository, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedDrinkRepository {
	return &CachedDrinkRepository{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func key(id string) string {
	return keyPrefix + id
}

// FindByID serves from the cache and fills it on a miss.
func (r *CachedDrinkRepository) FindByID(ctx context.Context, id string) (*domain.Drink, error) {
	data, err := r.client.Get(ctx, key(id)).Bytes()
	switch {
	case err == nil:
		var d domain.Drink
		uerr := json.Unmarshal(data, &d)
		if uerr == nil {
			cacheLookups.WithLabelValues("hit").Inc()
			return &d, nil
		}
		cacheLookups.WithLabelValues("error").Inc()
		r.warn(ctx, "decode cached drink", id, uerr)
	case errors.Is(err, redis.Nil):
		cacheLookups.WithLabelValues("miss").Inc()
	default:
		cacheLookups.WithLabelValues("error").Inc()
		r.warn(ctx, "redis get drink", id, err)
	}

	d, err := r.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.store(ctx, d)
	return d, nil
}

func (r *CachedDrinkRepository) FindAll(ctx context.Context, q repository.DrinkQuery) ([]domain.Drink, int, error) {
	return r.next.FindAll(ctx, q)
}

func (r *CachedDrinkRepository) Add(ctx context.Context, d *domain.Drink) error {
	return r.next.Add(ctx, d)
}

// Update writes through and replaces the cached copy. When the new value
// cannot be cached the old entry is dropped instead.
func (r *CachedDrinkRepository) Update(ctx context.Context, d *domain.Drink) error {
	if err := r.next.Update(ctx, d); err != nil {
		return err
	}
	if !r.store(ctx, d) {
		r.invalidate(ctx, d.ID)
	}
	return nil
}

// DeleteByID deletes through and drops the cached copy.
func (r *CachedDrinkRepository) DeleteByID(ctx context.Context, id string) error {
	if err := r.next.DeleteByID(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *CachedDrinkRepository) store(ctx context.Context, d *domain.Drink) bool {
	data, err := json.Marshal(d)
	if err != nil {
		r.warn(ctx, "marshal drink", d.ID, err)
		return false
	}
	if err := r.client.Set(ctx, key(d.ID), data, r.ttl).Err(); err != nil {
		r.warn(ctx, "redis set drink", d.ID, err)
		return false
	}
	return true
}

func (r *CachedDrinkRepository) invalidate(ctx context.Context, id string) {
	if err := r.client.Del(ctx, key(id)).Err(); err != nil {
		r.warn(ctx, "redis del drink", id, err)
	}
}

func (r *CachedDrinkRepository) warn(ctx context.Context, op, id string, err error) {
	r.logger.WarnContext(ctx, "drink cache unavailable",
		slog.String("op", op),
		slog.String("drink_id", id),
		slog.String("error", fmt.Sprint(err)),
	)
}
