package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func testStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, "sess:", 30*time.Minute), mr
}

func indexed(t *testing.T, mr *miniredis.Miniredis, userKey, sessionID string) bool {
	t.Helper()
	if !mr.Exists(userKey) {
		return false
	}
	ok, err := mr.IsMember(userKey, sessionID)
	if err != nil {
		t.Fatalf("ismember %s: %v", userKey, err)
	}
	return ok
}

func TestBindAndLookup(t *testing.T) {
	store, mr := testStore(t)
	ctx := context.Background()

	if err := store.Bind(ctx, "s1", "u1", "tok-1"); err != nil {
		t.Fatalf("bind: %v", err)
	}

	if ttl := mr.TTL("sess:s1"); ttl != 30*time.Minute {
		t.Fatalf("session ttl = %v, want 30m", ttl)
	}
	if !indexed(t, mr, "sess:user:u1", "s1") {
		t.Fatal("session id missing from user index")
	}

	token, err := store.Lookup(ctx, "s1")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if token != "tok-1" {
		t.Fatalf("token = %q, want %q", token, "tok-1")
	}
}

func TestLookupRefreshesWindow(t *testing.T) {
	store, mr := testStore(t)
	ctx := context.Background()

	if err := store.Bind(ctx, "s1", "u1", "tok-1"); err != nil {
		t.Fatalf("bind: %v", err)
	}

	mr.FastForward(10 * time.Minute)
	if ttl := mr.TTL("sess:s1"); ttl != 20*time.Minute {
		t.Fatalf("ttl before lookup = %v, want 20m", ttl)
	}

	if _, err := store.Lookup(ctx, "s1"); err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if ttl := mr.TTL("sess:s1"); ttl != 30*time.Minute {
		t.Fatalf("ttl after lookup = %v, want the full 30m again", ttl)
	}
}

func TestLookupUnknownSession(t *testing.T) {
	store, _ := testStore(t)

	if _, err := store.Lookup(context.Background(), "ghost"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("lookup ghost: err = %v, want ErrSessionNotFound", err)
	}
}

func TestClearRemovesIndexEntry(t *testing.T) {
	store, mr := testStore(t)
	ctx := context.Background()

	if err := store.Bind(ctx, "s1", "u1", "tok-1"); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if err := store.Clear(ctx, "s1"); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if mr.Exists("sess:s1") {
		t.Fatal("session key survived clear")
	}
	if indexed(t, mr, "sess:user:u1", "s1") {
		t.Fatal("user index still lists cleared session")
	}
}

func TestClearUserRevokesAllSessions(t *testing.T) {
	store, mr := testStore(t)
	ctx := context.Background()

	for _, sid := range []string{"s1", "s2"} {
		if err := store.Bind(ctx, sid, "u1", "tok-"+sid); err != nil {
			t.Fatalf("bind %s: %v", sid, err)
		}
	}
	if err := store.Bind(ctx, "s3", "u2", "tok-s3"); err != nil {
		t.Fatalf("bind s3: %v", err)
	}

	if err := store.ClearUser(ctx, "u1"); err != nil {
		t.Fatalf("clear user: %v", err)
	}

	for _, key := range []string{"sess:s1", "sess:s2", "sess:user:u1"} {
		if mr.Exists(key) {
			t.Fatalf("%s survived user revocation", key)
		}
	}
	if _, err := store.Lookup(ctx, "s3"); err != nil {
		t.Fatalf("other user's session gone: %v", err)
	}
}

func TestSweepPrunesDanglingIndexMembers(t *testing.T) {
	store, mr := testStore(t)
	ctx := context.Background()

	if err := store.Bind(ctx, "stale", "u1", "tok-stale"); err != nil {
		t.Fatalf("bind stale: %v", err)
	}
	mr.FastForward(31 * time.Minute)
	if err := store.Bind(ctx, "fresh", "u1", "tok-fresh"); err != nil {
		t.Fatalf("bind fresh: %v", err)
	}

	pruned, err := store.Sweep(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if pruned != 1 {
		t.Fatalf("pruned = %d, want 1", pruned)
	}
	if indexed(t, mr, "sess:user:u1", "stale") {
		t.Fatal("stale session still indexed after sweep")
	}
	if !indexed(t, mr, "sess:user:u1", "fresh") {
		t.Fatal("sweep dropped a live session from the index")
	}
}
