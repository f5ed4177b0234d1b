package kv

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupDatabaseStoreTest(t *testing.T) *DatabaseStore {
	t.Helper()
	dsn := fmt.Sprintf("file:kv_store_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	store, err := NewDatabaseStore(db)
	if err != nil {
		t.Fatalf("create database store failed: %v", err)
	}
	return store
}

func TestDatabaseStoreRoundtrip(t *testing.T) {
	store := setupDatabaseStoreTest(t)
	ctx := context.Background()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got: %v", err)
	}

	if err := store.Set(ctx, "k1", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	value, err := store.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(value) != `{"a":1}` {
		t.Fatalf("unexpected value: %s", value)
	}

	// 覆盖写入
	if err := store.Set(ctx, "k1", []byte(`{"a":2}`)); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	value, err = store.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(value) != `{"a":2}` {
		t.Fatalf("expected overwritten value, got: %s", value)
	}

	if err := store.Delete(ctx, "k1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "k1"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound after delete, got: %v", err)
	}
}

func TestDatabaseStoreListByPrefix(t *testing.T) {
	store := setupDatabaseStoreTest(t)
	ctx := context.Background()

	for _, key := range []string{"fc:cart:u1", "fc:cart:u2", "other:u3"} {
		if err := store.Set(ctx, key, []byte("{}")); err != nil {
			t.Fatalf("set failed: %v", err)
		}
	}

	keys, err := store.List(ctx, "fc:cart:")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %d: %v", len(keys), keys)
	}
}

func TestOpenDatabaseStoreRejectsUnknownDriver(t *testing.T) {
	if _, err := OpenDatabaseStore("oracle", "dsn"); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}
