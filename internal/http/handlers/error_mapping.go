package handlers

import (
	"errors"

	"github.com/freshcart/internal/http/response"
	"github.com/freshcart/internal/logger"
	"github.com/freshcart/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, msg: "数量无效"},
	{target: service.ErrItemNotFound, code: response.CodeNotFound, msg: "购物车项不存在"},
	{target: service.ErrPersistence, code: response.CodeInternal, msg: "购物车暂时不可用"},
}

func respondWithMappedError(c *gin.Context, err error) {
	for _, rule := range cartErrorRules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, err)
			return
		}
	}
	respondError(c, response.CodeInternal, "购物车暂时不可用", err)
}

func respondError(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		requestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// requestLog 提供携带 request_id 的日志实例。
func requestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}
