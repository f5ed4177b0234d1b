package handlers

import "github.com/freshcart/internal/provider"

// Handler 购物车 API 处理器入口
type Handler struct {
	*provider.Container
}

// New 创建处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
