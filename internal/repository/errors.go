package repository

import "errors"

// ==================== 错误定义 ====================

var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("记录不存在")
	// ErrDuplicateKey 键已存在
	ErrDuplicateKey = errors.New("记录已存在")
	// ErrStorage 存储读写失败（含配额超限），调用方展示提示即可，不要重试
	ErrStorage = errors.New("存储失败")
	// ErrCorruptData 已存数据无法解析，拒绝覆盖写
	ErrCorruptData = errors.New("存储数据损坏")
)
