package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/freshcart/internal/constants"
	"github.com/freshcart/internal/kv"
	"github.com/freshcart/internal/models"
)

// ErrRecordInvalid 持久化记录无法解析或版本不受支持
var ErrRecordInvalid = errors.New("购物车记录无效")

// CartStore 购物车持久化适配器
// 整个集合在单个 key 下整体读写，不感知购物车语义。
type CartStore struct {
	kv  kv.Store
	key string
}

// NewCartStore 创建购物车存储
func NewCartStore(store kv.Store, key string) *CartStore {
	return &CartStore{kv: store, key: key}
}

// Key 返回存储 key
func (s *CartStore) Key() string {
	return s.key
}

// Load 读取持久化集合；key 不存在视为空购物车
func (s *CartStore) Load(ctx context.Context) ([]models.CartItem, error) {
	record, err := s.LoadRecord(ctx)
	if err != nil {
		return nil, err
	}
	return record.Items, nil
}

// LoadRecord 读取完整记录（含版本与更新时间）
func (s *CartStore) LoadRecord(ctx context.Context) (models.CartRecord, error) {
	empty := models.CartRecord{Version: constants.CartSchemaVersion, Items: []models.CartItem{}}
	payload, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return empty, nil
	}
	if err != nil {
		return models.CartRecord{}, fmt.Errorf("load cart failed: %w", err)
	}

	var record models.CartRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return models.CartRecord{}, fmt.Errorf("%w: %v", ErrRecordInvalid, err)
	}
	if record.Version != constants.CartSchemaVersion {
		return models.CartRecord{}, fmt.Errorf("%w: unsupported version %d", ErrRecordInvalid, record.Version)
	}
	if record.Items == nil {
		record.Items = []models.CartItem{}
	}
	return record, nil
}

// Save 整体覆盖持久化集合，保持加入顺序
func (s *CartStore) Save(ctx context.Context, items []models.CartItem) error {
	if items == nil {
		items = []models.CartItem{}
	}
	record := models.CartRecord{
		Version:   constants.CartSchemaVersion,
		Items:     items,
		UpdatedAt: time.Now(),
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, payload); err != nil {
		return fmt.Errorf("save cart failed: %w", err)
	}
	return nil
}

// Clear 删除持久化集合，幂等
func (s *CartStore) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("clear cart failed: %w", err)
	}
	return nil
}
