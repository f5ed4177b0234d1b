package models

import "time"

// CatalogSnapshot 商品目录快照（加购时由调用方传入）
// 字段按值拷贝进购物车项，之后目录变化不会回写到购物车。
type CatalogSnapshot struct {
	ProductID    string   `json:"product_id"`
	Name         string   `json:"name"`
	Price        Money    `json:"price"`
	Stock        int      `json:"stock"`
	Unit         string   `json:"unit"`
	ProviderName string   `json:"provider_name"`
	Images       []string `json:"images"`
}

// CartItem 购物车项
type CartItem struct {
	ProductID    string   `json:"product_id"`    // 商品ID（集合内唯一）
	Name         string   `json:"name"`          // 商品名称（快照）
	Price        Money    `json:"price"`         // 单价（快照）
	Stock        int      `json:"stock"`         // 加购时的库存快照，数量上限
	Quantity     int      `json:"quantity"`      // 数量（>= 1）
	Unit         string   `json:"unit"`          // 计量单位（快照）
	ProviderName string   `json:"provider_name"` // 供应商名称（快照）
	Images       []string `json:"images"`        // 图片数组（快照）
}

// NewCartItem 从目录快照创建购物车项
func NewCartItem(snapshot CatalogSnapshot, quantity int) CartItem {
	return CartItem{
		ProductID:    snapshot.ProductID,
		Name:         snapshot.Name,
		Price:        snapshot.Price,
		Stock:        snapshot.Stock,
		Quantity:     quantity,
		Unit:         snapshot.Unit,
		ProviderName: snapshot.ProviderName,
		Images:       snapshot.Images,
	}
}

// CartRecord 持久化的购物车记录（单 key 整体读写）
type CartRecord struct {
	Version   int        `json:"version"`    // schema 版本，读取时校验
	Items     []CartItem `json:"items"`      // 按加入顺序排列
	UpdatedAt time.Time  `json:"updated_at"` // 最后写入时间，留存清理依据
}

// CartTotal 购物车汇总
type CartTotal struct {
	Subtotal  Money `json:"subtotal"`   // Σ(单价 × 数量)
	ItemCount int   `json:"item_count"` // 总件数（非行数）
	Total     Money `json:"total"`      // 目前等于小计，税费/优惠留待后续
}
