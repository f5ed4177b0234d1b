package constants

// 购物车存储驱动常量
const (
	CartStorageRedis    = "redis"
	CartStorageDatabase = "database"
	CartStorageMemory   = "memory"
)

// 购物车记录 schema 版本
const (
	CartSchemaVersion = 1
)

// 队列名称常量
const (
	QueueDefault = "default"
)

// 异步任务类型常量
const (
	TaskCartPrune = "cart:prune"
)
