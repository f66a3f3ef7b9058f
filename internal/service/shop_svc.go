package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"peermall/internal/api/dto"
	"peermall/internal/model"
	"peermall/internal/repository"
	"peermall/pkg/logger"
)

// ==================== ShopService 店铺服务 ====================

// ShopService 店铺服务，所有修改都是整条记录读改写
type ShopService struct {
	repo     repository.ShopRepository
	validate *validator.Validate
	now      func() time.Time
}

// NewShopService 创建店铺服务
func NewShopService(repo repository.ShopRepository) *ShopService {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("shopurl", func(fl validator.FieldLevel) bool {
		return model.ValidShopURL(fl.Field().String())
	})
	return &ShopService{repo: repo, validate: v, now: time.Now}
}

// List 当前设备的全部店铺
func (s *ShopService) List(ctx context.Context) []model.ShopRecord {
	return s.repo.List(ctx)
}

// Get 按地址获取店铺
func (s *ShopService) Get(ctx context.Context, shopURL string) (*model.ShopRecord, error) {
	shop, ok := s.repo.GetByURL(ctx, shopURL)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrShopNotFound, shopURL)
	}
	return shop, nil
}

// ListByOwner 按店主昵称筛选
func (s *ShopService) ListByOwner(ctx context.Context, nickname string) []model.ShopRecord {
	return s.repo.ListByOwner(ctx, nickname)
}

// Mine 当前登录用户的店铺
func (s *ShopService) Mine(ctx context.Context, session model.SessionFlag) []model.ShopRecord {
	if !session.IsAuthenticated() || session.Nickname == "" {
		return []model.ShopRecord{}
	}
	return s.repo.ListByOwner(ctx, session.Nickname)
}

// Create 创建店铺，ownerName 缺省为当前昵称
func (s *ShopService) Create(ctx context.Context, session model.SessionFlag, shop *model.ShopRecord) (*model.ShopRecord, error) {
	shop.ShopURL = strings.TrimSpace(shop.ShopURL)
	if shop.OwnerName == "" {
		shop.OwnerName = session.Nickname
	}

	now := s.now()
	shop.CreatedAt = now
	shop.UpdatedAt = now
	s.fillIDs(shop)

	if err := s.validateShop(shop); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, shop); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("[Shop] 店铺已创建",
		zap.String("shop_url", shop.ShopURL), zap.String("owner", shop.OwnerName))
	return shop, nil
}

// Update 整条替换，保留 createdAt；未填 ownerName 时沿用原值
func (s *ShopService) Update(ctx context.Context, shopURL string, shop *model.ShopRecord) (*model.ShopRecord, error) {
	existing, err := s.Get(ctx, shopURL)
	if err != nil {
		return nil, err
	}

	shop.ShopURL = existing.ShopURL
	shop.CreatedAt = existing.CreatedAt
	shop.UpdatedAt = s.now()
	if shop.OwnerName == "" {
		shop.OwnerName = existing.OwnerName
	}
	s.fillIDs(shop)

	if err := s.validateShop(shop); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, shop); err != nil {
		return nil, err
	}
	return shop, nil
}

// Delete 删除店铺，不存在也视为成功
func (s *ShopService) Delete(ctx context.Context, shopURL string) error {
	if err := s.repo.Delete(ctx, shopURL); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("[Shop] 店铺已删除", zap.String("shop_url", shopURL))
	return nil
}

// ==================== 商品 ====================

// AddProduct 新增商品
func (s *ShopService) AddProduct(ctx context.Context, shopURL string, req *dto.ProductReq) (*model.Product, error) {
	shop, err := s.Get(ctx, shopURL)
	if err != nil {
		return nil, err
	}

	product := model.Product{
		ID:        uuid.NewString(),
		CreatedAt: s.now(),
	}
	applyProduct(&product, req)
	if err := s.validate.Struct(product); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidProduct, err.Error())
	}

	shop.Products = append(shop.Products, product)
	if err := s.saveProducts(ctx, shop); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct 修改商品
func (s *ShopService) UpdateProduct(ctx context.Context, shopURL, productID string, req *dto.ProductReq) (*model.Product, error) {
	shop, err := s.Get(ctx, shopURL)
	if err != nil {
		return nil, err
	}

	idx := shop.FindProduct(productID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}

	product := shop.Products[idx]
	applyProduct(&product, req)
	if err := s.validate.Struct(product); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidProduct, err.Error())
	}

	shop.Products[idx] = product
	if err := s.saveProducts(ctx, shop); err != nil {
		return nil, err
	}
	return &product, nil
}

// RemoveProduct 删除商品
func (s *ShopService) RemoveProduct(ctx context.Context, shopURL, productID string) error {
	shop, err := s.Get(ctx, shopURL)
	if err != nil {
		return err
	}

	idx := shop.FindProduct(productID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	shop.Products = append(shop.Products[:idx], shop.Products[idx+1:]...)
	return s.saveProducts(ctx, shop)
}

// ==================== 辅助方法 ====================

func (s *ShopService) saveProducts(ctx context.Context, shop *model.ShopRecord) error {
	shop.UpdatedAt = s.now()
	return s.repo.Update(ctx, shop)
}

// fillIDs 为缺少 ID 的广告和商品补 UUID
func (s *ShopService) fillIDs(shop *model.ShopRecord) {
	for i := range shop.AdSettings {
		if shop.AdSettings[i].ID == "" {
			shop.AdSettings[i].ID = uuid.NewString()
		}
	}
	for i := range shop.Products {
		if shop.Products[i].ID == "" {
			shop.Products[i].ID = uuid.NewString()
		}
		if shop.Products[i].CreatedAt.IsZero() {
			shop.Products[i].CreatedAt = shop.UpdatedAt
		}
	}
}

func (s *ShopService) validateShop(shop *model.ShopRecord) error {
	if err := s.validate.Struct(shop); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s 不合法 (%s)", ErrInvalidShop, verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %s", ErrInvalidShop, err.Error())
	}
	return nil
}

func applyProduct(p *model.Product, req *dto.ProductReq) {
	p.Name = strings.TrimSpace(req.Name)
	p.Price = req.Price
	p.Description = req.Description
	p.ImageURL = req.ImageURL
	p.Category = req.Category
}

// ==================== 错误定义 ====================

var (
	ErrShopNotFound    = fmt.Errorf("店铺不存在: %w", repository.ErrNotFound)
	ErrProductNotFound = fmt.Errorf("商品不存在: %w", repository.ErrNotFound)
	ErrInvalidShop     = errors.New("店铺信息不合法")
	ErrInvalidProduct  = errors.New("商品信息不合法")
)
