package kv

import (
	"context"
	"errors"
)

// ErrKeyNotFound key 不存在
var ErrKeyNotFound = errors.New("key 不存在")

// Store 键值字节存储抽象（put/get/delete by key）
// 购物车整体序列化后存于单个 key，存储层不感知购物车语义。
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]string, error)
}
