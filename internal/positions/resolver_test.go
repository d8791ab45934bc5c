package positions

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/haulpoint/fleetops-backend/pkg/logger"
	"github.com/haulpoint/fleetops-backend/pkg/telematics"
	"github.com/redis/go-redis/v9"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "positions-test", Output: io.Discard})
}

type fakeCache struct {
	values map[string]string
	sets   map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]string{}, sets: map[string]string{}}
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	if value, ok := c.values[key]; ok {
		return value, nil
	}
	return "", redis.Nil
}

func (c *fakeCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, _ := value.(string)
	c.sets[key] = raw
	c.values[key] = raw
	return nil
}

func (c *fakeCache) PositionKey(remoteDeviceID string) string {
	return "fleetops:position:" + remoteDeviceID
}

type fakeGateway struct {
	positions map[string]telematics.Position
	err       error
	requests  [][]string
}

func (g *fakeGateway) DevicePositions(_ context.Context, remoteDeviceIDs []string) (map[string]telematics.Position, error) {
	g.requests = append(g.requests, remoteDeviceIDs)
	return g.positions, g.err
}

func TestLastKnownServesFromCache(t *testing.T) {
	cache := newFakeCache()
	cached, _ := json.Marshal(telematics.Position{Latitude: 1, Longitude: 2, RecordedAt: 3})
	cache.values["fleetops:position:D1"] = string(cached)
	gateway := &fakeGateway{}

	resolver, err := NewResolver(cache, gateway, testLogger(), time.Minute)
	if err != nil {
		t.Fatalf("NewResolver returned error: %v", err)
	}

	result, err := resolver.LastKnown(context.Background(), []string{"D1"})
	if err != nil {
		t.Fatalf("LastKnown returned error: %v", err)
	}
	if result["D1"].Latitude != 1 {
		t.Fatalf("unexpected position: %+v", result["D1"])
	}
	if len(gateway.requests) != 0 {
		t.Fatalf("cache hit still reached the platform: %v", gateway.requests)
	}
}

func TestLastKnownBatchesMisses(t *testing.T) {
	cache := newFakeCache()
	cached, _ := json.Marshal(telematics.Position{Latitude: 1})
	cache.values["fleetops:position:D1"] = string(cached)
	gateway := &fakeGateway{positions: map[string]telematics.Position{
		"D2": {Latitude: 2},
		"D3": {Latitude: 3},
	}}

	resolver, err := NewResolver(cache, gateway, testLogger(), time.Minute)
	if err != nil {
		t.Fatalf("NewResolver returned error: %v", err)
	}

	result, err := resolver.LastKnown(context.Background(), []string{"D1", "D2", "D3", ""})
	if err != nil {
		t.Fatalf("LastKnown returned error: %v", err)
	}
	if len(result) != 3 {
		t.Fatalf("expected 3 positions, got %d", len(result))
	}
	if len(gateway.requests) != 1 {
		t.Fatalf("expected one batched platform call, got %d", len(gateway.requests))
	}
	if got := gateway.requests[0]; len(got) != 2 || got[0] != "D2" || got[1] != "D3" {
		t.Fatalf("unexpected batch: %v", got)
	}
	if _, ok := cache.sets["fleetops:position:D2"]; !ok {
		t.Fatalf("fresh position not written back to cache")
	}
}

func TestLastKnownPropagatesGatewayError(t *testing.T) {
	gateway := &fakeGateway{err: context.DeadlineExceeded}
	resolver, err := NewResolver(newFakeCache(), gateway, testLogger(), time.Minute)
	if err != nil {
		t.Fatalf("NewResolver returned error: %v", err)
	}

	if _, err := resolver.LastKnown(context.Background(), []string{"D1"}); err == nil {
		t.Fatalf("expected gateway error to propagate")
	}
}

func TestLastKnownDeviceWithoutPosition(t *testing.T) {
	gateway := &fakeGateway{positions: map[string]telematics.Position{}}
	resolver, err := NewResolver(newFakeCache(), gateway, testLogger(), time.Minute)
	if err != nil {
		t.Fatalf("NewResolver returned error: %v", err)
	}

	result, err := resolver.LastKnown(context.Background(), []string{"D-silent"})
	if err != nil {
		t.Fatalf("LastKnown returned error: %v", err)
	}
	if len(result) != 0 {
		t.Fatalf("expected empty result, got %v", result)
	}
}
