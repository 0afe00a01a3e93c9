// Package devices keeps the registered gateway device credentials.
//
// The registry is a small key-value collaborator injected into the web
// layer: the delivery workflow itself only ever sees a device id chosen by
// the caller.
package devices

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Device is one outbound gateway credential a user can send through.
type Device struct {
	ID    string `json:"device_id"`
	Label string `json:"name"`
}

// Registry lists, adds, and removes devices.
type Registry interface {
	List(ctx context.Context) ([]Device, error)
	Add(ctx context.Context, d Device) error
	Remove(ctx context.Context, id string) error
}

// redisKey is the hash holding device id -> label.
const redisKey = "whatsapp_devices"

// RedisRegistry stores devices in a Redis hash so every instance of the
// service shares one device list.
type RedisRegistry struct {
	rdb *redis.Client
}

// NewRedisRegistry wraps an existing Redis client.
func NewRedisRegistry(rdb *redis.Client) *RedisRegistry {
	return &RedisRegistry{rdb: rdb}
}

func (r *RedisRegistry) List(ctx context.Context) ([]Device, error) {
	entries, err := r.rdb.HGetAll(ctx, redisKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}

	out := make([]Device, 0, len(entries))
	for id, label := range entries {
		out = append(out, Device{ID: id, Label: label})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

func (r *RedisRegistry) Add(ctx context.Context, d Device) error {
	if err := validate(d); err != nil {
		return err
	}
	if err := r.rdb.HSet(ctx, redisKey, d.ID, d.Label).Err(); err != nil {
		return fmt.Errorf("add device: %w", err)
	}
	return nil
}

func (r *RedisRegistry) Remove(ctx context.Context, id string) error {
	if err := r.rdb.HDel(ctx, redisKey, id).Err(); err != nil {
		return fmt.Errorf("remove device: %w", err)
	}
	return nil
}

// MemoryRegistry is the fallback when Redis is not configured, and the
// test double. Safe for concurrent use.
type MemoryRegistry struct {
	mu      sync.RWMutex
	devices map[string]string
}

// NewMemoryRegistry returns an empty MemoryRegistry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{devices: make(map[string]string)}
}

func (r *MemoryRegistry) List(ctx context.Context) ([]Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Device, 0, len(r.devices))
	for id, label := range r.devices {
		out = append(out, Device{ID: id, Label: label})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

func (r *MemoryRegistry) Add(ctx context.Context, d Device) error {
	if err := validate(d); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.devices[d.ID] = d.Label
	return nil
}

func (r *MemoryRegistry) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.devices, id)
	return nil
}

func validate(d Device) error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("device id is required")
	}
	if strings.TrimSpace(d.Label) == "" {
		return fmt.Errorf("device name is required")
	}
	return nil
}
