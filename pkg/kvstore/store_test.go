package kvstore

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ==================== 测试辅助 ====================

func setupKVTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&KVEntry{}); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	return db
}

// backends 两种实现跑同一组用例
func backends(t *testing.T, quota int64) map[string]Store {
	return map[string]Store{
		"memory": NewMemoryStore(quota),
		"gorm":   NewGormStore(setupKVTestDB(t), quota),
	}
}

// ==================== 测试用例 ====================

func TestStore_SetGetRemove(t *testing.T) {
	for name, store := range backends(t, 0) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, ok, err := store.Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, store.Set(ctx, "userEmail", "a@b.com"))
			require.NoError(t, store.Set(ctx, "userEmail", "c@d.com"))

			v, ok, err := store.Get(ctx, "userEmail")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "c@d.com", v)

			require.NoError(t, store.Remove(ctx, "userEmail"))
			require.NoError(t, store.Remove(ctx, "userEmail"))
			_, ok, _ = store.Get(ctx, "userEmail")
			assert.False(t, ok)
		})
	}
}

func TestStore_EmptyKey(t *testing.T) {
	for name, store := range backends(t, 0) {
		t.Run(name, func(t *testing.T) {
			err := store.Set(context.Background(), "", "x")
			assert.ErrorIs(t, err, ErrEmptyKey)
		})
	}
}

func TestStore_NamespacesAreIsolated(t *testing.T) {
	for name, store := range backends(t, 0) {
		t.Run(name, func(t *testing.T) {
			a := WithNamespace(context.Background(), "device-a")
			b := WithNamespace(context.Background(), "device-b")

			require.NoError(t, store.Set(a, "isLoggedIn", "true"))

			_, ok, err := store.Get(b, "isLoggedIn")
			require.NoError(t, err)
			assert.False(t, ok)

			snap, err := store.Snapshot(a)
			require.NoError(t, err)
			assert.Equal(t, map[string]string{"isLoggedIn": "true"}, snap)
		})
	}
}

func TestStore_KeysPrefixIsLiteral(t *testing.T) {
	for name, store := range backends(t, 0) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Set(ctx, "peermall_acme", "{}"))
			require.NoError(t, store.Set(ctx, "peermall_Beta", "{}"))
			require.NoError(t, store.Set(ctx, "peermalls", "[]"))
			require.NoError(t, store.Set(ctx, "peermallX", "{}"))
			require.NoError(t, store.Set(ctx, "PEERMALL_upper", "{}"))

			keys, err := store.Keys(ctx, "peermall_")
			require.NoError(t, err)
			sort.Strings(keys)
			assert.Equal(t, []string{"peermall_Beta", "peermall_acme"}, keys)

			n, err := store.CountAll(ctx, "peermall_")
			require.NoError(t, err)
			assert.Equal(t, int64(2), n)
		})
	}
}

func TestStore_Quota(t *testing.T) {
	for name, store := range backends(t, 20) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			// 3 + 7 = 10 字节
			require.NoError(t, store.Set(ctx, "abc", "1234567"))

			err := store.Set(ctx, "def", "123456789ab")
			assert.True(t, errors.Is(err, ErrQuotaExceeded), "got %v", err)

			// 覆盖同一键时不计算旧值
			require.NoError(t, store.Set(ctx, "abc", "12345678901234567"))

			// 其他命名空间独立计额
			other := WithNamespace(ctx, "other")
			require.NoError(t, store.Set(other, "def", "123456789ab"))
		})
	}
}

func TestStore_QuotaCountsBytes(t *testing.T) {
	// "한글" 2 个字符，6 字节
	for name, store := range backends(t, 16) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			// 1 + 6 = 7 字节
			require.NoError(t, store.Set(ctx, "a", "한글"))

			// 7 + 1 + 9 = 17 字节，超额
			err := store.Set(ctx, "b", "한글한")
			assert.ErrorIs(t, err, ErrQuotaExceeded)

			// 7 + 1 + 6 = 14 字节
			require.NoError(t, store.Set(ctx, "b", "한글"))
		})
	}
}

func TestNamespaceFrom_Default(t *testing.T) {
	assert.Equal(t, DefaultNamespace, NamespaceFrom(context.Background()))
	assert.Equal(t, "x", NamespaceFrom(WithNamespace(context.Background(), "x")))
}
