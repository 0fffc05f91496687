package service

import (
	redisx "github.com/pavlenko-dev/venue-go/internal/redis"
	postgres "github.com/pavlenko-dev/venue-go/internal/repository/postgres"
	redis "github.com/pavlenko-dev/venue-go/internal/repository/redis"
	"github.com/pavlenko-dev/venue-go/internal/service/audit"
	"github.com/pavlenko-dev/venue-go/internal/service/quote"
	"github.com/pavlenko-dev/venue-go/internal/service/rooms"
	"github.com/pavlenko-dev/venue-go/internal/service/schedule"
)

type Services struct {
	Quote    *quote.Service
	Audit    *audit.Service
	Schedule *schedule.Service
	Rooms    *rooms.Service
}

type Config struct {
	Quote    quote.Config
	Audit    audit.Config
	Schedule schedule.Config
	Rooms    rooms.Config
}

func NewServices(
	store *postgres.Store,
	cache *redis.Cache,
	pubsub *redisx.BookingsPubSub,
	limiter *redis.SlidingWindowLimiter,
	cfg Config,
) *Services {
	return &Services{
		Quote:    quote.New(store, cache, limiter, cfg.Quote),
		Audit:    audit.New(store, cache, pubsub, cfg.Audit),
		Schedule: schedule.New(store, cache, pubsub, cfg.Schedule),
		Rooms:    rooms.New(store, cache, pubsub, cfg.Rooms),
	}
}
