package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/db/redis"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain"
)

func TestKV_SaveLoadRoundTrip(t *testing.T) {
	store := newMockKVStore()
	s := NewKV(store, "ccmt:", 30*time.Minute)
	sel := mustSelection(t)

	if err := s.Save(context.Background(), "abc", sel); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, ok := store.data["ccmt:session:abc"]; !ok {
		t.Fatalf("expected key ccmt:session:abc, have %v", store.data)
	}
	if store.lastTTL != 30*time.Minute {
		t.Errorf("ttl = %v", store.lastTTL)
	}

	got, err := s.Load(context.Background(), "abc")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	assertSameSelection(t, sel, got)
}

func TestKV_LoadMissing(t *testing.T) {
	s := NewKV(newMockKVStore(), "ccmt:", time.Minute)
	_, err := s.Load(context.Background(), "nope")
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestKV_LoadStoreError(t *testing.T) {
	store := newMockKVStore()
	store.getErr = errors.New("connection reset")
	s := NewKV(store, "ccmt:", time.Minute)

	_, err := s.Load(context.Background(), "abc")
	if err == nil || errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected store error, got %v", err)
	}
}

func TestKV_LoadCorrupt(t *testing.T) {
	store := newMockKVStore()
	store.data["ccmt:session:abc"] = []byte("{not json")
	s := NewKV(store, "ccmt:", time.Minute)

	if _, err := s.Load(context.Background(), "abc"); err == nil {
		t.Error("expected error for corrupt payload")
	}
}

func TestKV_SaveError(t *testing.T) {
	store := newMockKVStore()
	store.setErr = errors.New("OOM")
	s := NewKV(store, "ccmt:", time.Minute)

	if err := s.Save(context.Background(), "abc", mustSelection(t)); err == nil {
		t.Error("expected error")
	}
}

func TestKV_Delete(t *testing.T) {
	store := newMockKVStore()
	s := NewKV(store, "ccmt:", time.Minute)
	_ = s.Save(context.Background(), "abc", mustSelection(t))

	if err := s.Delete(context.Background(), "abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Load(context.Background(), "abc"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound after delete, got %v", err)
	}
}

func TestKV_Ping(t *testing.T) {
	store := newMockKVStore()
	store.pingErr = errors.New("down")
	if err := NewKV(store, "", time.Minute).Ping(context.Background()); err == nil {
		t.Error("expected ping error")
	}
}

func TestKV_OverRedisStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "ccmt:session:gone")).
		Return(mock.Result(mock.RedisNil()))

	s := NewKV(redis.NewStoreForTest(c), "ccmt:", time.Minute)
	if _, err := s.Load(context.Background(), "gone"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}
