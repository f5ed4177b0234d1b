package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/freshcart/internal/logger"
	"github.com/freshcart/internal/models"
	"github.com/freshcart/internal/store"
)

const defaultLockWait = 3 * time.Second

// CartService 购物车一致性引擎
// 所有变更操作都是一次 load → transform → save 循环，并通过进程内互斥串行化，
// 避免两次并发变更互相覆盖（lost update）。纯查询只做 load。
type CartService struct {
	store    *store.CartStore
	lock     chan struct{}
	lockWait time.Duration
}

// NewCartService 创建购物车服务
func NewCartService(cartStore *store.CartStore, lockWait time.Duration) *CartService {
	if lockWait <= 0 {
		lockWait = defaultLockWait
	}
	return &CartService{
		store:    cartStore,
		lock:     make(chan struct{}, 1),
		lockWait: lockWait,
	}
}

// GetItems 获取当前集合
// 读失败降级为空集合：瞬时存储故障不应让纯展示路径崩溃。
func (s *CartService) GetItems(ctx context.Context) []models.CartItem {
	items, err := s.store.Load(ctx)
	if err != nil {
		logger.Warnw("cart_read_degraded", "key", s.store.Key(), "error", err)
		return []models.CartItem{}
	}
	return items
}

// AddItem 加入商品；已存在时累加数量并按加购时的库存快照封顶
// 合并时不用新快照刷新 price/stock，避免会话内已展示的价格被悄悄改变。
func (s *CartService) AddItem(ctx context.Context, snapshot models.CatalogSnapshot, quantity int) ([]models.CartItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()
	opCtx, cancel := context.WithTimeout(ctx, s.lockWait)
	defer cancel()

	items, err := s.store.Load(opCtx)
	if err != nil {
		return nil, asPersistence(err)
	}

	if idx := indexOf(items, snapshot.ProductID); idx >= 0 {
		merged := items[idx].Quantity + quantity
		items[idx].Quantity = clamp(merged, items[idx].Stock)
	} else if clamped := clamp(quantity, snapshot.Stock); clamped >= 1 {
		items = append(items, models.NewCartItem(snapshot, clamped))
	}
	// 库存快照为 0 时封顶结果 < 1，按不变量不落行

	if err := s.store.Save(opCtx, items); err != nil {
		return nil, asPersistence(err)
	}
	return items, nil
}

// UpdateQuantity 设置商品数量；<= 0 时删除该行（经数量的唯一删除路径），幂等
func (s *CartService) UpdateQuantity(ctx context.Context, productID string, quantity int) ([]models.CartItem, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()
	opCtx, cancel := context.WithTimeout(ctx, s.lockWait)
	defer cancel()

	items, err := s.store.Load(opCtx)
	if err != nil {
		return nil, asPersistence(err)
	}

	idx := indexOf(items, productID)
	if idx < 0 {
		return nil, ErrItemNotFound
	}
	if quantity <= 0 {
		items = append(items[:idx], items[idx+1:]...)
	} else {
		items[idx].Quantity = clamp(quantity, items[idx].Stock)
	}

	if err := s.store.Save(opCtx, items); err != nil {
		return nil, asPersistence(err)
	}
	return items, nil
}

// RemoveItem 删除商品行；不存在时不视为错误
func (s *CartService) RemoveItem(ctx context.Context, productID string) ([]models.CartItem, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()
	opCtx, cancel := context.WithTimeout(ctx, s.lockWait)
	defer cancel()

	items, err := s.store.Load(opCtx)
	if err != nil {
		return nil, asPersistence(err)
	}
	if idx := indexOf(items, productID); idx >= 0 {
		items = append(items[:idx], items[idx+1:]...)
	}
	if err := s.store.Save(opCtx, items); err != nil {
		return nil, asPersistence(err)
	}
	return items, nil
}

// Clear 删除整个持久化集合，幂等
func (s *CartService) Clear(ctx context.Context) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()
	opCtx, cancel := context.WithTimeout(ctx, s.lockWait)
	defer cancel()

	if err := s.store.Clear(opCtx); err != nil {
		return asPersistence(err)
	}
	return nil
}

// Total 计算小计、总件数与合计；读失败降级为零值
func (s *CartService) Total(ctx context.Context) models.CartTotal {
	items := s.GetItems(ctx)
	subtotal := models.Money{}
	count := 0
	for _, item := range items {
		subtotal = subtotal.Add(item.Price.Mul(item.Quantity))
		count += item.Quantity
	}
	return models.CartTotal{
		Subtotal:  subtotal,
		ItemCount: count,
		Total:     subtotal,
	}
}

// Contains 判断商品是否在购物车中
func (s *CartService) Contains(ctx context.Context, productID string) bool {
	return s.Quantity(ctx, productID) > 0
}

// Quantity 返回商品当前数量；不存在返回 0
func (s *CartService) Quantity(ctx context.Context, productID string) int {
	items := s.GetItems(ctx)
	if idx := indexOf(items, productID); idx >= 0 {
		return items[idx].Quantity
	}
	return 0
}

// acquire 获取串行化互斥；等待超过上限视为存储故障，避免悬挂调用卡死队列
func (s *CartService) acquire(ctx context.Context) error {
	timer := time.NewTimer(s.lockWait)
	defer timer.Stop()
	select {
	case s.lock <- struct{}{}:
		return nil
	case <-timer.C:
		return fmt.Errorf("%w: 串行化等待超时", ErrPersistence)
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrPersistence, ctx.Err())
	}
}

func (s *CartService) release() {
	<-s.lock
}

func asPersistence(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrPersistence) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}

func indexOf(items []models.CartItem, productID string) int {
	for i := range items {
		if items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func clamp(quantity, stock int) int {
	if quantity > stock {
		return stock
	}
	return quantity
}
