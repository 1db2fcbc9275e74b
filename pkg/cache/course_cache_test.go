package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type listing struct {
	IDs []string `json:"ids"`
}

func newTestCache(t *testing.T) (*CourseCache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCourseCache(client, "test", time.Minute), srv
}

func TestCourseCacheRoundTripAndInvalidate(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	var got listing
	hit, err := c.Get(ctx, "all", &got)
	if err != nil || hit {
		t.Fatalf("expected miss, hit=%v err=%v", hit, err)
	}
	if err := c.Set(ctx, "all", listing{IDs: []string{"a", "b"}}); err != nil {
		t.Fatalf("set: %v", err)
	}
	hit, err = c.Get(ctx, "all", &got)
	if err != nil || !hit {
		t.Fatalf("expected hit, hit=%v err=%v", hit, err)
	}
	if len(got.IDs) != 2 || got.IDs[0] != "a" {
		t.Fatalf("unexpected cached value: %+v", got)
	}

	if err := c.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	hit, err = c.Get(ctx, "all", &got)
	if err != nil || hit {
		t.Fatalf("expected miss after invalidate, hit=%v err=%v", hit, err)
	}
}

func TestCourseCacheEntriesExpire(t *testing.T) {
	c, srv := newTestCache(t)
	ctx := context.Background()
	if err := c.Set(ctx, "category:go", listing{IDs: []string{"x"}}); err != nil {
		t.Fatalf("set: %v", err)
	}
	srv.FastForward(2 * time.Minute)
	var got listing
	if hit, _ := c.Get(ctx, "category:go", &got); hit {
		t.Fatalf("expected entry to expire")
	}
}

func TestCourseCacheCorruptEntryIsMiss(t *testing.T) {
	c, srv := newTestCache(t)
	if err := srv.Set("test:courses:0:all", "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	var got listing
	hit, err := c.Get(context.Background(), "all", &got)
	if err != nil || hit {
		t.Fatalf("expected corrupt entry to be a miss, hit=%v err=%v", hit, err)
	}
}

func TestCourseCacheReportsRedisErrors(t *testing.T) {
	c, srv := newTestCache(t)
	srv.Close()
	var got listing
	if _, err := c.Get(context.Background(), "all", &got); err == nil {
		t.Fatalf("expected error when redis is down")
	}
}
