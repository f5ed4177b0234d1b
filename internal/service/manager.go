package service

import (
	"strings"
	"sync"
	"time"

	"github.com/freshcart/internal/kv"
	"github.com/freshcart/internal/store"
)

// Manager 按购物车 ID 分发已串行化的 CartService 实例
// 取代源实现的全局单例：每个 ID 一个实例，互不共享状态。
type Manager struct {
	mu       sync.Mutex
	kv       kv.Store
	prefix   string
	lockWait time.Duration
	carts    map[string]*CartService
}

// NewManager 创建购物车管理器
func NewManager(kvStore kv.Store, prefix string, lockWait time.Duration) *Manager {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "fc"
	}
	return &Manager{
		kv:       kvStore,
		prefix:   prefix,
		lockWait: lockWait,
		carts:    make(map[string]*CartService),
	}
}

// Cart 获取指定 ID 的购物车服务，同一 ID 始终返回同一实例
func (m *Manager) Cart(cartID string) *CartService {
	m.mu.Lock()
	defer m.mu.Unlock()
	if svc, ok := m.carts[cartID]; ok {
		return svc
	}
	svc := NewCartService(store.NewCartStore(m.kv, m.CartKey(cartID)), m.lockWait)
	m.carts[cartID] = svc
	return svc
}

// CartKey 生成购物车存储 key
func (m *Manager) CartKey(cartID string) string {
	return m.prefix + ":cart:" + cartID
}

// KeyPrefix 返回所有购物车 key 的公共前缀（留存扫描用）
func (m *Manager) KeyPrefix() string {
	return m.prefix + ":cart:"
}

// Store 返回底层键值存储
func (m *Manager) Store() kv.Store {
	return m.kv
}
