package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	red "github.com/redis/go-redis/v9"

	"github.com/Velroxe/Khatri-College/internal/repository"
)

func newTestRedis(t *testing.T) (*red.Client, *miniredis.Miniredis) {
	t.Helper()

	server, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := red.NewClient(&red.Options{Addr: server.Addr()})

	t.Cleanup(func() {
		_ = client.Close()
		server.Close()
	})

	return client, server
}

func TestCache_SetAndGet(t *testing.T) {
	client, server := newTestRedis(t)
	cache := NewCache(client, "college")

	ctx := context.Background()
	ttl := 1 * time.Minute

	if err := cache.Set(ctx, "dashboard:stats", []byte(`{"totalStudents":4}`), ttl); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	payload, err := cache.Get(ctx, "dashboard:stats")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if string(payload) != `{"totalStudents":4}` {
		t.Fatalf("unexpected payload: %s", payload)
	}

	remaining := server.TTL("college:dashboard:stats")
	if remaining <= 0 || remaining > ttl {
		t.Fatalf("expected ttl within (0, %v], got %v", ttl, remaining)
	}
}

func TestCache_GetMiss(t *testing.T) {
	client, _ := newTestRedis(t)
	cache := NewCache(client, "college")

	if _, err := cache.Get(context.Background(), "dashboard:stats"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected repository.ErrNotFound, got %v", err)
	}
}

func TestCache_ExpiredEntryMisses(t *testing.T) {
	client, server := newTestRedis(t)
	cache := NewCache(client, "college")

	ctx := context.Background()
	if err := cache.Set(ctx, "dashboard:stats", []byte("x"), time.Second); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	server.FastForward(2 * time.Second)

	if _, err := cache.Get(ctx, "dashboard:stats"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected repository.ErrNotFound after expiry, got %v", err)
	}
}

func TestCache_Delete(t *testing.T) {
	client, _ := newTestRedis(t)
	cache := NewCache(client, "college")

	ctx := context.Background()
	if err := cache.Set(ctx, "dashboard:stats", []byte("x"), time.Minute); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := cache.Delete(ctx, "dashboard:stats"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := cache.Get(ctx, "dashboard:stats"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected repository.ErrNotFound after delete, got %v", err)
	}

	// Deleting a missing key is not an error.
	if err := cache.Delete(ctx, "dashboard:stats"); err != nil {
		t.Fatalf("Delete of a missing key returned error: %v", err)
	}
}
