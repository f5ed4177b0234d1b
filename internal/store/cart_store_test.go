package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/freshcart/internal/kv"
	"github.com/freshcart/internal/models"

	"github.com/shopspring/decimal"
)

func testItem(productID string, quantity int) models.CartItem {
	return models.CartItem{
		ProductID: productID,
		Name:      "测试商品 " + productID,
		Price:     models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		Stock:     20,
		Quantity:  quantity,
		Unit:      "份",
	}
}

func TestLoadMissingKeyIsEmptyCart(t *testing.T) {
	store := NewCartStore(kv.NewMemoryStore(), "fc:cart:u1")

	items, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(items))
	}
}

func TestSaveLoadRoundtripPreservesOrder(t *testing.T) {
	store := NewCartStore(kv.NewMemoryStore(), "fc:cart:u1")
	ctx := context.Background()

	saved := []models.CartItem{testItem("p3", 1), testItem("p1", 2), testItem("p2", 3)}
	if err := store.Save(ctx, saved); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded) != 3 {
		t.Fatalf("expected 3 items, got %d", len(loaded))
	}
	for i := range saved {
		if loaded[i].ProductID != saved[i].ProductID || loaded[i].Quantity != saved[i].Quantity {
			t.Fatalf("roundtrip mismatch at %d: %+v vs %+v", i, loaded[i], saved[i])
		}
	}
}

func TestLoadRecordTracksUpdatedAt(t *testing.T) {
	store := NewCartStore(kv.NewMemoryStore(), "fc:cart:u1")
	ctx := context.Background()

	before := time.Now().Add(-time.Second)
	if err := store.Save(ctx, []models.CartItem{testItem("p1", 1)}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	record, err := store.LoadRecord(ctx)
	if err != nil {
		t.Fatalf("load record failed: %v", err)
	}
	if record.UpdatedAt.Before(before) {
		t.Fatalf("updated_at not refreshed on save: %v", record.UpdatedAt)
	}
}

func TestLoadRejectsUnsupportedVersion(t *testing.T) {
	mem := kv.NewMemoryStore()
	ctx := context.Background()

	payload, err := json.Marshal(models.CartRecord{Version: 99, Items: []models.CartItem{testItem("p1", 1)}})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if err := mem.Set(ctx, "fc:cart:u1", payload); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	store := NewCartStore(mem, "fc:cart:u1")
	if _, err := store.Load(ctx); !errors.Is(err, ErrRecordInvalid) {
		t.Fatalf("expected ErrRecordInvalid, got: %v", err)
	}
}

func TestLoadRejectsCorruptPayload(t *testing.T) {
	mem := kv.NewMemoryStore()
	ctx := context.Background()
	if err := mem.Set(ctx, "fc:cart:u1", []byte("{broken")); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	store := NewCartStore(mem, "fc:cart:u1")
	if _, err := store.Load(ctx); !errors.Is(err, ErrRecordInvalid) {
		t.Fatalf("expected ErrRecordInvalid, got: %v", err)
	}
}

func TestClearRemovesRecord(t *testing.T) {
	store := NewCartStore(kv.NewMemoryStore(), "fc:cart:u1")
	ctx := context.Background()

	if err := store.Save(ctx, []models.CartItem{testItem("p1", 1)}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("repeated clear failed: %v", err)
	}
	items, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load after clear failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty cart after clear, got %d items", len(items))
	}
}
