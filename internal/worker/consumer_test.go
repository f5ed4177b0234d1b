package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/freshcart/internal/config"
	"github.com/freshcart/internal/kv"
	"github.com/freshcart/internal/models"
	"github.com/freshcart/internal/provider"
	"github.com/freshcart/internal/queue"
	"github.com/freshcart/internal/service"

	"github.com/shopspring/decimal"
)

func setupConsumerTest(t *testing.T, retentionDays int) (*Consumer, kv.Store) {
	t.Helper()
	mem := kv.NewMemoryStore()
	queueClient, err := queue.NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("create queue client failed: %v", err)
	}
	container := &provider.Container{
		Cfg: &config.Config{
			Cart: config.CartConfig{
				KeyPrefix:     "fc",
				RetentionDays: retentionDays,
			},
		},
		KV:    mem,
		Carts: service.NewManager(mem, "fc", 0),
		Queue: queueClient,
	}
	return NewConsumer(container), mem
}

func seedCartRecord(t *testing.T, mem kv.Store, key string, updatedAt time.Time) {
	t.Helper()
	record := models.CartRecord{
		Version: 1,
		Items: []models.CartItem{{
			ProductID: "p1",
			Name:      "散养鸡蛋",
			Price:     models.NewMoneyFromDecimal(decimal.NewFromInt(12)),
			Stock:     30,
			Quantity:  1,
			Unit:      "盒",
		}},
		UpdatedAt: updatedAt,
	}
	payload, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("marshal record failed: %v", err)
	}
	if err := mem.Set(context.Background(), key, payload); err != nil {
		t.Fatalf("seed record failed: %v", err)
	}
}

func TestIsStale(t *testing.T) {
	consumer, _ := setupConsumerTest(t, 1)
	now := time.Now()

	if !consumer.IsStale(now.Add(-25*time.Hour), now) {
		t.Fatalf("record older than retention should be stale")
	}
	if consumer.IsStale(now.Add(-time.Hour), now) {
		t.Fatalf("record within retention should not be stale")
	}

	// 留存期为 0 表示不清理
	disabled, _ := setupConsumerTest(t, 0)
	if disabled.IsStale(now.Add(-24*365*time.Hour), now) {
		t.Fatalf("retention disabled should never report stale")
	}
}

func TestHandleCartPruneClearsStaleCart(t *testing.T) {
	consumer, mem := setupConsumerTest(t, 1)
	ctx := context.Background()
	seedCartRecord(t, mem, "fc:cart:old", time.Now().Add(-48*time.Hour))

	task, err := queue.NewCartPruneTask(queue.CartPrunePayload{CartID: "old"})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleCartPrune(ctx, task); err != nil {
		t.Fatalf("prune failed: %v", err)
	}
	if _, err := mem.Get(ctx, "fc:cart:old"); !errors.Is(err, kv.ErrKeyNotFound) {
		t.Fatalf("expected record removed, got: %v", err)
	}
}

func TestHandleCartPruneSkipsFreshCart(t *testing.T) {
	consumer, mem := setupConsumerTest(t, 1)
	ctx := context.Background()
	seedCartRecord(t, mem, "fc:cart:fresh", time.Now())

	task, err := queue.NewCartPruneTask(queue.CartPrunePayload{CartID: "fresh"})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleCartPrune(ctx, task); err != nil {
		t.Fatalf("prune failed: %v", err)
	}
	if _, err := mem.Get(ctx, "fc:cart:fresh"); err != nil {
		t.Fatalf("fresh record should survive prune: %v", err)
	}
}

func TestHandleCartPruneClearsCorruptRecord(t *testing.T) {
	consumer, mem := setupConsumerTest(t, 1)
	ctx := context.Background()
	if err := mem.Set(ctx, "fc:cart:bad", []byte("{broken")); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	task, err := queue.NewCartPruneTask(queue.CartPrunePayload{CartID: "bad"})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleCartPrune(ctx, task); err != nil {
		t.Fatalf("prune failed: %v", err)
	}
	if _, err := mem.Get(ctx, "fc:cart:bad"); !errors.Is(err, kv.ErrKeyNotFound) {
		t.Fatalf("expected corrupt record removed, got: %v", err)
	}
}

func TestEnqueueStaleCartsWithRetentionDisabled(t *testing.T) {
	consumer, mem := setupConsumerTest(t, 0)
	ctx := context.Background()
	seedCartRecord(t, mem, "fc:cart:old", time.Now().Add(-24*365*time.Hour))

	if err := consumer.EnqueueStaleCarts(ctx, time.Now()); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if _, err := mem.Get(ctx, "fc:cart:old"); err != nil {
		t.Fatalf("scan must not touch records directly: %v", err)
	}
}
