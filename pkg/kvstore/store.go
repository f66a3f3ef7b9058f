// Package kvstore 提供按设备命名空间隔离的持久化键值存储。
// 每个命名空间对应一台客户端设备，语义上等同于该浏览器的 localStorage：
// 键和值都是字符串，写入是整值覆盖，最后写入者胜出。
package kvstore

import (
	"context"
	"errors"
	"strings"
)

// DefaultNamespace 未携带设备标识时使用的命名空间
const DefaultNamespace = "default"

var (
	// ErrQuotaExceeded 命名空间占用超过配额
	ErrQuotaExceeded = errors.New("kvstore: quota exceeded")
	// ErrEmptyKey 键为空
	ErrEmptyKey = errors.New("kvstore: empty key")
)

// Store 键值存储接口，命名空间从 ctx 中读取（见 WithNamespace）
type Store interface {
	// Get 读取单个键，不存在时 ok=false
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set 写入（覆盖）单个键
	Set(ctx context.Context, key, value string) error
	// Remove 删除单个键，键不存在不是错误
	Remove(ctx context.Context, key string) error
	// Keys 返回当前命名空间内以 prefix 开头的全部键，顺序不保证
	Keys(ctx context.Context, prefix string) ([]string, error)
	// Snapshot 返回当前命名空间的全部键值
	Snapshot(ctx context.Context) (map[string]string, error)
	// CountAll 统计所有命名空间内以 prefix 开头的键数量（用于监控）
	CountAll(ctx context.Context, prefix string) (int64, error)
}

// ==================== 命名空间上下文 ====================

type namespaceKey struct{}

// WithNamespace 把设备命名空间写入 context
func WithNamespace(ctx context.Context, namespace string) context.Context {
	return context.WithValue(ctx, namespaceKey{}, namespace)
}

// NamespaceFrom 从 context 读取命名空间，缺省为 DefaultNamespace
func NamespaceFrom(ctx context.Context) string {
	if ns, ok := ctx.Value(namespaceKey{}).(string); ok && ns != "" {
		return ns
	}
	return DefaultNamespace
}

// entrySize 配额按键长加值长计算
func entrySize(key, value string) int64 {
	return int64(len(key) + len(value))
}

// escapeLike 转义 LIKE 通配符，配合 ESCAPE '\' 使用
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
