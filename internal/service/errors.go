package service

import "errors"

// 购物车引擎错误
var (
	// ErrInvalidQuantity 调用方传入了非正数量
	ErrInvalidQuantity = errors.New("数量无效")
	// ErrItemNotFound 购物车中不存在该商品
	ErrItemNotFound = errors.New("购物车项不存在")
	// ErrPersistence 存储读写失败
	ErrPersistence = errors.New("购物车存储失败")
)
