package queue

import (
	"encoding/json"

	"github.com/freshcart/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskCartPrune 闲置购物车清理任务
	TaskCartPrune = constants.TaskCartPrune
)

// CartPrunePayload 清理任务载荷
type CartPrunePayload struct {
	CartID string `json:"cart_id"`
}

// NewCartPruneTask 创建清理任务
func NewCartPruneTask(payload CartPrunePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCartPrune, body), nil
}
