package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/skip2/go-qrcode"

	"peermall/internal/api/dto"
	"peermall/internal/model"
	"peermall/internal/repository"
	"peermall/pkg/utils"
)

// QRRenderer 把文本渲染为 PNG
type QRRenderer interface {
	RenderPNG(content string) ([]byte, error)
}

// PNGRenderer 基于 go-qrcode 的渲染器
type PNGRenderer struct {
	Size  int
	Level qrcode.RecoveryLevel
}

// NewPNGRenderer 默认 256px、中等纠错
func NewPNGRenderer() *PNGRenderer {
	return &PNGRenderer{Size: 256, Level: qrcode.Medium}
}

func (r *PNGRenderer) RenderPNG(content string) ([]byte, error) {
	return qrcode.Encode(content, r.Level, r.Size)
}

// ==================== QRCodeService ====================

var qrTypes = map[string]bool{
	model.QRTypeURL:   true,
	model.QRTypeText:  true,
	model.QRTypeShop:  true,
	model.QRTypeEmail: true,
	model.QRTypePhone: true,
}

// QRCodeService 生成并保存 QR 码
type QRCodeService struct {
	repo     repository.QRCodeRepository
	renderer QRRenderer
	now      func() time.Time
}

// NewQRCodeService 创建 QR 码服务
func NewQRCodeService(repo repository.QRCodeRepository, renderer QRRenderer) *QRCodeService {
	return &QRCodeService{repo: repo, renderer: renderer, now: time.Now}
}

// List 已保存的 QR 码
func (s *QRCodeService) List(ctx context.Context) []model.QRCodeArtifact {
	return s.repo.List(ctx)
}

// Generate 渲染并追加到列表
func (s *QRCodeService) Generate(ctx context.Context, req *dto.QRCodeCreateReq) (*model.QRCodeArtifact, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	qrType := req.Type
	if qrType == "" {
		qrType = model.QRTypeURL
	}
	if !qrTypes[qrType] {
		return nil, fmt.Errorf("%w: %s", ErrInvalidQRType, qrType)
	}

	png, err := s.renderer.RenderPNG(qrPayload(qrType, content))
	if err != nil {
		return nil, fmt.Errorf("渲染 QR 码失败: %w", err)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = content
	}

	artifact := model.QRCodeArtifact{
		Name:      name,
		Content:   content,
		Image:     utils.EncodeDataURL("image/png", png),
		Type:      qrType,
		CreatedAt: s.now(),
	}
	if err := s.repo.Append(ctx, artifact); err != nil {
		return nil, err
	}
	return &artifact, nil
}

// Delete 按下标删除
func (s *QRCodeService) Delete(ctx context.Context, index int) error {
	return s.repo.RemoveAt(ctx, index)
}

// qrPayload 邮箱和电话使用标准 URI 前缀
func qrPayload(qrType, content string) string {
	switch qrType {
	case model.QRTypeEmail:
		if !strings.HasPrefix(content, "mailto:") {
			return "mailto:" + content
		}
	case model.QRTypePhone:
		if !strings.HasPrefix(content, "tel:") {
			return "tel:" + content
		}
	}
	return content
}

// ErrInvalidQRType 不支持的 QR 码类型
var ErrInvalidQRType = errors.New("不支持的 QR 码类型")
