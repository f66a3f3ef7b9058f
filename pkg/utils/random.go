package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// RandomIntInRange 在 [min, max] 闭区间内均匀取随机数
func RandomIntInRange(min, max int64) (int64, error) {
	if max < min {
		return 0, fmt.Errorf("invalid range [%d, %d]", min, max)
	}
	n, err := rand.Int(rand.Reader, big.NewInt(max-min+1))
	if err != nil {
		return 0, err
	}
	return min + n.Int64(), nil
}

// GenerateNumericCode 生成 6 位数字验证码 (100000..999999)
func GenerateNumericCode() (string, error) {
	n, err := RandomIntInRange(100000, 999999)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n), nil
}
