package kvstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVEntry 键值表的一行
type KVEntry struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Namespace string    `gorm:"size:64;not null;uniqueIndex:idx_kv_ns_key"`
	Key       string    `gorm:"column:entry_key;size:255;not null;uniqueIndex:idx_kv_ns_key"`
	Value     string    `gorm:"column:entry_value;type:text;not null"`
	UpdatedAt time.Time
}

func (KVEntry) TableName() string {
	return "kv_entries"
}

// gormStore 基于 gorm 的实现（sqlite / postgres）
type gormStore struct {
	db         *gorm.DB
	quotaBytes int64
}

// NewGormStore 创建数据库键值存储，quotaBytes<=0 表示不限额
// 调用方需先 AutoMigrate(&KVEntry{})
func NewGormStore(db *gorm.DB, quotaBytes int64) Store {
	return &gormStore{db: db, quotaBytes: quotaBytes}
}

func (s *gormStore) Get(ctx context.Context, key string) (string, bool, error) {
	var entry KVEntry
	err := s.db.WithContext(ctx).
		Where("namespace = ? AND entry_key = ?", NamespaceFrom(ctx), key).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

func (s *gormStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	ns := NamespaceFrom(ctx)

	if s.quotaBytes > 0 {
		var used int64
		err := s.db.WithContext(ctx).Model(&KVEntry{}).
			Select("COALESCE(SUM(" + s.byteLength("entry_key") + " + " + s.byteLength("entry_value") + "), 0)").
			Where("namespace = ? AND entry_key <> ?", ns, key).
			Scan(&used).Error
		if err != nil {
			return err
		}
		if used+entrySize(key, value) > s.quotaBytes {
			return fmt.Errorf("%w: namespace %s", ErrQuotaExceeded, ns)
		}
	}

	entry := KVEntry{Namespace: ns, Key: key, Value: value, UpdatedAt: time.Now()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"entry_value", "updated_at"}),
	}).Create(&entry).Error
}

// byteLength 按字节计长，与 entrySize 一致；sqlite 和 postgres 的 LENGTH 对文本按字符计
func (s *gormStore) byteLength(column string) string {
	switch s.db.Dialector.Name() {
	case "postgres":
		return "OCTET_LENGTH(" + column + ")"
	case "sqlite":
		return "LENGTH(CAST(" + column + " AS BLOB))"
	default:
		return "LENGTH(" + column + ")"
	}
}

func (s *gormStore) Remove(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).
		Where("namespace = ? AND entry_key = ?", NamespaceFrom(ctx), key).
		Delete(&KVEntry{}).Error
}

func (s *gormStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := s.db.WithContext(ctx).Model(&KVEntry{}).
		Where("namespace = ? AND entry_key LIKE ? ESCAPE '\\'", NamespaceFrom(ctx), escapeLike(prefix)+"%").
		Pluck("entry_key", &keys).Error
	if err != nil {
		return nil, err
	}

	// sqlite 的 LIKE 对 ASCII 不区分大小写，这里再按字节前缀过滤一次
	out := keys[:0]
	for _, k := range keys {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	return out, nil
}

func (s *gormStore) Snapshot(ctx context.Context) (map[string]string, error) {
	var entries []KVEntry
	if err := s.db.WithContext(ctx).
		Where("namespace = ?", NamespaceFrom(ctx)).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		out[e.Key] = e.Value
	}
	return out, nil
}

func (s *gormStore) CountAll(ctx context.Context, prefix string) (int64, error) {
	var keys []string
	err := s.db.WithContext(ctx).Model(&KVEntry{}).
		Where("entry_key LIKE ? ESCAPE '\\'", escapeLike(prefix)+"%").
		Pluck("entry_key", &keys).Error
	if err != nil {
		return 0, err
	}
	var n int64
	for _, k := range keys {
		if strings.HasPrefix(k, prefix) {
			n++
		}
	}
	return n, nil
}
