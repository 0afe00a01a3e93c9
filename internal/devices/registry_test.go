package devices

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisRegistry(t *testing.T) *RedisRegistry {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisRegistry(rdb)
}

func registries(t *testing.T) map[string]Registry {
	return map[string]Registry{
		"redis":  newRedisRegistry(t),
		"memory": NewMemoryRegistry(),
	}
}

func TestRegistry_AddListRemove(t *testing.T) {
	for name, reg := range registries(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if err := reg.Add(ctx, Device{ID: "dev-2", Label: "Warehouse"}); err != nil {
				t.Fatalf("Add() error = %v", err)
			}
			if err := reg.Add(ctx, Device{ID: "dev-1", Label: "Front desk"}); err != nil {
				t.Fatalf("Add() error = %v", err)
			}

			list, err := reg.List(ctx)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(list) != 2 {
				t.Fatalf("len = %d, want 2", len(list))
			}
			// Sorted by label.
			if list[0].Label != "Front desk" || list[1].Label != "Warehouse" {
				t.Errorf("order = %q, %q", list[0].Label, list[1].Label)
			}
			if list[0].ID != "dev-1" {
				t.Errorf("list[0].ID = %q, want dev-1", list[0].ID)
			}

			if err := reg.Remove(ctx, "dev-2"); err != nil {
				t.Fatalf("Remove() error = %v", err)
			}
			list, err = reg.List(ctx)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(list) != 1 || list[0].ID != "dev-1" {
				t.Errorf("after remove = %+v", list)
			}
		})
	}
}

func TestRegistry_AddOverwritesLabel(t *testing.T) {
	for name, reg := range registries(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if err := reg.Add(ctx, Device{ID: "dev-1", Label: "Old"}); err != nil {
				t.Fatalf("Add() error = %v", err)
			}
			if err := reg.Add(ctx, Device{ID: "dev-1", Label: "New"}); err != nil {
				t.Fatalf("Add() error = %v", err)
			}

			list, err := reg.List(ctx)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(list) != 1 || list[0].Label != "New" {
				t.Errorf("list = %+v, want single device labelled New", list)
			}
		})
	}
}

func TestRegistry_AddRejectsBlankFields(t *testing.T) {
	for name, reg := range registries(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if err := reg.Add(ctx, Device{ID: "", Label: "x"}); err == nil {
				t.Error("Add() with blank id expected error")
			}
			if err := reg.Add(ctx, Device{ID: "x", Label: "  "}); err == nil {
				t.Error("Add() with blank label expected error")
			}
		})
	}
}

func TestRegistry_RemoveUnknownIsNoop(t *testing.T) {
	for name, reg := range registries(t) {
		t.Run(name, func(t *testing.T) {
			if err := reg.Remove(context.Background(), "ghost"); err != nil {
				t.Errorf("Remove(unknown) error = %v, want nil", err)
			}
		})
	}
}

func TestRegistry_ListEmpty(t *testing.T) {
	for name, reg := range registries(t) {
		t.Run(name, func(t *testing.T) {
			list, err := reg.List(context.Background())
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(list) != 0 {
				t.Errorf("len = %d, want 0", len(list))
			}
		})
	}
}
