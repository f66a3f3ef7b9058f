package model

import "time"

// QRCodeListKey QR 码列表的存储键
const QRCodeListKey = "qrCodes"

// QR 码内容类型
const (
	QRTypeURL   = "url"
	QRTypeText  = "text"
	QRTypeShop  = "shop"
	QRTypeEmail = "email"
	QRTypePhone = "phone"
)

// QRCodeArtifact 生成过的 QR 码
type QRCodeArtifact struct {
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	Image     string    `json:"image"` // PNG data URL
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}
