package provider

import (
	"fmt"
	"time"

	"github.com/freshcart/internal/config"
	"github.com/freshcart/internal/constants"
	"github.com/freshcart/internal/kv"
	"github.com/freshcart/internal/queue"
	"github.com/freshcart/internal/service"
)

// Container 依赖容器：显式装配，取代全局单例
type Container struct {
	Cfg   *config.Config
	KV    kv.Store
	Carts *service.Manager
	Queue *queue.Client
}

// NewContainer 创建依赖容器
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	kvStore, err := buildKVStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("init cart storage failed: %w", err)
	}

	lockWait := time.Duration(cfg.Cart.LockWaitMS) * time.Millisecond
	carts := service.NewManager(kvStore, cfg.Cart.KeyPrefix, lockWait)

	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		return nil, fmt.Errorf("init queue client failed: %w", err)
	}

	return &Container{
		Cfg:   cfg,
		KV:    kvStore,
		Carts: carts,
		Queue: queueClient,
	}, nil
}

func buildKVStore(cfg *config.Config) (kv.Store, error) {
	switch cfg.Cart.Storage {
	case constants.CartStorageRedis:
		return kv.NewRedisStore(&cfg.Redis)
	case "", constants.CartStorageDatabase:
		return kv.OpenDatabaseStore(cfg.Database.Driver, cfg.Database.DSN)
	case constants.CartStorageMemory:
		return kv.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported cart storage: %s", cfg.Cart.Storage)
	}
}
