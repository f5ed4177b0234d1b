package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/freshcart/internal/logger"
	"github.com/freshcart/internal/provider"
	"github.com/freshcart/internal/queue"
	"github.com/freshcart/internal/store"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskCartPrune, c.handleCartPrune)
}

// Retention 闲置购物车留存时长；0 表示不清理
func (c *Consumer) Retention() time.Duration {
	if c == nil || c.Cfg == nil || c.Cfg.Cart.RetentionDays <= 0 {
		return 0
	}
	return time.Duration(c.Cfg.Cart.RetentionDays) * 24 * time.Hour
}

// EnqueueStaleCarts 扫描持久化购物车，为超过留存期的记录推送清理任务
func (c *Consumer) EnqueueStaleCarts(ctx context.Context, now time.Time) error {
	retention := c.Retention()
	if retention <= 0 {
		return nil
	}
	prefix := c.Carts.KeyPrefix()
	keys, err := c.KV.List(ctx, prefix)
	if err != nil {
		return err
	}
	cutoff := now.Add(-retention)
	for _, key := range keys {
		cartID := strings.TrimPrefix(key, prefix)
		if cartID == "" {
			continue
		}
		record, err := store.NewCartStore(c.KV, key).LoadRecord(ctx)
		if err != nil {
			if errors.Is(err, store.ErrRecordInvalid) {
				// 无法解析的记录同样进入清理流程
				logger.Warnw("worker_cart_record_invalid", "key", key, "error", err)
			} else {
				logger.Warnw("worker_cart_scan_load_failed", "key", key, "error", err)
				continue
			}
		} else if !record.UpdatedAt.Before(cutoff) {
			continue
		}
		if err := c.Queue.EnqueueCartPrune(queue.CartPrunePayload{CartID: cartID}); err != nil {
			logger.Warnw("worker_cart_prune_enqueue_failed", "cart_id", cartID, "error", err)
		}
	}
	return nil
}

// IsStale 判断购物车记录是否超过留存期
func (c *Consumer) IsStale(updatedAt time.Time, now time.Time) bool {
	retention := c.Retention()
	if retention <= 0 {
		return false
	}
	return updatedAt.Before(now.Add(-retention))
}

func (c *Consumer) handleCartPrune(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_cart_prune_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.CartPrunePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_cart_prune_unmarshal_failed", "error", err)
		return err
	}
	if payload.CartID == "" {
		logger.Debugw("worker_cart_prune_skip_invalid_payload")
		return nil
	}

	key := c.Carts.CartKey(payload.CartID)
	record, err := store.NewCartStore(c.KV, key).LoadRecord(ctx)
	if err == nil && !c.IsStale(record.UpdatedAt, time.Now()) {
		// 扫描之后又被更新过，跳过
		logger.Debugw("worker_cart_prune_skip_fresh", "cart_id", payload.CartID)
		return nil
	}
	if err != nil && !errors.Is(err, store.ErrRecordInvalid) {
		logger.Warnw("worker_cart_prune_load_failed", "cart_id", payload.CartID, "error", err)
		return err
	}

	if err := c.Carts.Cart(payload.CartID).Clear(ctx); err != nil {
		logger.Warnw("worker_cart_prune_clear_failed", "cart_id", payload.CartID, "error", err)
		return err
	}
	logger.Infow("worker_cart_pruned", "cart_id", payload.CartID)
	return nil
}
