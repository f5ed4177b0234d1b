package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite" // 纯 Go SQLite 驱动（基于 modernc.org/sqlite）
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// KVRecord 键值表行
type KVRecord struct {
	Key       string    `gorm:"primarykey;type:varchar(255)"` // 存储 key
	Value     []byte    `gorm:"not null"`                     // 序列化内容
	UpdatedAt time.Time `gorm:"index"`                        // 更新时间
}

// TableName 指定表名
func (KVRecord) TableName() string {
	return "kv_records"
}

// DatabaseStore 数据库键值存储（sqlite / postgres）
type DatabaseStore struct {
	db *gorm.DB
}

// OpenDatabaseStore 按驱动打开数据库并迁移键值表
func OpenDatabaseStore(driver, dsn string) (*DatabaseStore, error) {
	normalized := strings.ToLower(strings.TrimSpace(driver))
	var dialector gorm.Dialector
	switch normalized {
	case "", "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres", "postgresql":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}
	return NewDatabaseStore(db)
}

// NewDatabaseStore 基于已打开的连接创建存储
func NewDatabaseStore(db *gorm.DB) (*DatabaseStore, error) {
	if db == nil {
		return nil, errors.New("db is nil")
	}
	if err := db.AutoMigrate(&KVRecord{}); err != nil {
		return nil, err
	}
	return &DatabaseStore{db: db}, nil
}

// Get 读取 key
func (s *DatabaseStore) Get(ctx context.Context, key string) ([]byte, error) {
	var record KVRecord
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return record.Value, nil
}

// Set 写入 key（整行覆盖，单语句内原子）
func (s *DatabaseStore) Set(ctx context.Context, key string, value []byte) error {
	record := KVRecord{Key: key, Value: value, UpdatedAt: time.Now()}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&record).Error
}

// Delete 删除 key
func (s *DatabaseStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where("key = ?", key).Delete(&KVRecord{}).Error
}

// List 按前缀列出 key
func (s *DatabaseStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := s.db.WithContext(ctx).Model(&KVRecord{}).
		Where("key LIKE ?", prefix+"%").
		Pluck("key", &keys).Error
	if err != nil {
		return nil, err
	}
	return keys, nil
}
