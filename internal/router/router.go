package router

import (
	"github.com/freshcart/internal/config"
	"github.com/freshcart/internal/http/handlers"
	"github.com/freshcart/internal/logger"
	"github.com/freshcart/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	handler := handlers.New(c)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		carts := apiV1.Group("/carts/:cart_id")
		{
			carts.GET("", handler.GetCart)
			carts.DELETE("", handler.ClearCart)
			carts.GET("/total", handler.GetCartTotal)
			carts.POST("/items", handler.AddCartItem)
			carts.GET("/items/:product_id", handler.GetCartItemState)
			carts.PUT("/items/:product_id", handler.UpdateCartItem)
			carts.DELETE("/items/:product_id", handler.DeleteCartItem)
		}
	}

	return r
}
