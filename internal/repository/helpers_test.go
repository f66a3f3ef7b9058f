package repository

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"peermall/internal/model"
	"peermall/pkg/kvstore"
)

var errBroken = errors.New("disk on fire")

// brokenStore 所有操作都失败
type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (string, bool, error) { return "", false, errBroken }
func (brokenStore) Set(context.Context, string, string) error         { return errBroken }
func (brokenStore) Remove(context.Context, string) error              { return errBroken }
func (brokenStore) Keys(context.Context, string) ([]string, error)    { return nil, errBroken }
func (brokenStore) Snapshot(context.Context) (map[string]string, error) {
	return nil, errBroken
}
func (brokenStore) CountAll(context.Context, string) (int64, error) { return 0, errBroken }

var _ kvstore.Store = brokenStore{}

func setupRepoTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取连接池失败: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&model.Inquiry{}, &model.Reply{}, &model.CommunityPost{})
	if err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	return db
}
