package positions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/haulpoint/fleetops-backend/pkg/logger"
	"github.com/haulpoint/fleetops-backend/pkg/telematics"
	"github.com/redis/go-redis/v9"
)

const defaultCacheTTL = 30 * time.Second

type positionCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	PositionKey(remoteDeviceID string) string
}

type positionsGateway interface {
	DevicePositions(ctx context.Context, remoteDeviceIDs []string) (map[string]telematics.Position, error)
}

// Resolver returns last-known device positions, serving from the Redis cache
// and batching the misses into one platform call.
type Resolver struct {
	cache    positionCache
	gateway  positionsGateway
	logg     *logger.Logger
	cacheTTL time.Duration
}

// NewResolver builds a position resolver.
func NewResolver(cache positionCache, gateway positionsGateway, logg *logger.Logger, cacheTTL time.Duration) (*Resolver, error) {
	if cache == nil {
		return nil, fmt.Errorf("position cache required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("gateway required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	return &Resolver{cache: cache, gateway: gateway, logg: logg, cacheTTL: cacheTTL}, nil
}

// LastKnown resolves positions for the given remote device ids. Devices with
// no reported position are simply absent from the result. Cache failures are
// treated as misses.
func (r *Resolver) LastKnown(ctx context.Context, remoteDeviceIDs []string) (map[string]telematics.Position, error) {
	result := make(map[string]telematics.Position, len(remoteDeviceIDs))
	var misses []string

	for _, id := range remoteDeviceIDs {
		if id == "" {
			continue
		}
		raw, err := r.cache.Get(ctx, r.cache.PositionKey(id))
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				r.logg.Warn(r.logg.WithField(ctx, "remote_device_id", id), "position cache read failed")
			}
			misses = append(misses, id)
			continue
		}
		var pos telematics.Position
		if err := json.Unmarshal([]byte(raw), &pos); err != nil {
			misses = append(misses, id)
			continue
		}
		result[id] = pos
	}

	if len(misses) == 0 {
		return result, nil
	}

	fresh, err := r.gateway.DevicePositions(ctx, misses)
	if err != nil {
		return nil, err
	}

	for id, pos := range fresh {
		result[id] = pos
		encoded, err := json.Marshal(pos)
		if err != nil {
			continue
		}
		if err := r.cache.Set(ctx, r.cache.PositionKey(id), string(encoded), r.cacheTTL); err != nil {
			r.logg.Warn(r.logg.WithField(ctx, "remote_device_id", id), "position cache write failed")
		}
	}
	return result, nil
}
