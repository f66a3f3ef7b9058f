package utils

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const dataURLBase64 = ";base64,"

// EncodeDataURL 把图片字节编码为 base64 data URL
func EncodeDataURL(mime string, data []byte) string {
	return "data:" + mime + dataURLBase64 + base64.StdEncoding.EncodeToString(data)
}

// ParseImageDataURL 解析 base64 图片 data URL，返回 MIME 和原始字节
// 只接受 image/* 类型
func ParseImageDataURL(s string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, ErrNotDataURL
	}
	mime, payload, ok := strings.Cut(rest, dataURLBase64)
	if !ok {
		return "", nil, fmt.Errorf("%w: 仅支持 base64 编码", ErrNotDataURL)
	}
	if !strings.HasPrefix(mime, "image/") {
		return "", nil, fmt.Errorf("%w: %s", ErrNotImage, mime)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode data url failed: %w", err)
	}
	return mime, data, nil
}

var (
	ErrNotDataURL = errors.New("not a data url")
	ErrNotImage   = errors.New("data url is not an image")
)
