package model

import (
	"regexp"
	"time"
)

// ShopKeyPrefix 单店铺记录的键前缀，完整键为 ShopKeyPrefix + shopUrl
const ShopKeyPrefix = "peermall_"

// shopURLPattern 店铺地址只允许字母、数字、下划线和连字符
var shopURLPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// ValidShopURL 店铺地址是否合法，最长 64 个字符
func ValidShopURL(shopURL string) bool {
	return len(shopURL) <= 64 && shopURLPattern.MatchString(shopURL)
}

// LegacyShopCollectionKey 旧版整表存储的集合键（JSON 数组），只在迁移时读取
const LegacyShopCollectionKey = "peermalls"

// 页面模板
const (
	ThemeTemplateBasic  = "basic"
	ThemeTemplateLuxury = "luxury"
	ThemeTemplateNovas  = "novas"
)

// ShopRecord 一个租户创建的店铺（Peermall）
// shopUrl 是唯一键，由创建者指定，之后不再变化；每次保存整条替换
type ShopRecord struct {
	// 1. 身份
	ShopURL string `json:"shopUrl" validate:"required,max=64,shopurl"`

	// 2. 基本信息
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description,omitempty" validate:"max=2000"`
	OwnerName   string `json:"ownerName"` // 对应 session 昵称，不做外键校验
	Category    string `json:"category,omitempty"`

	// 3. 联系方式
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`

	// 4. 图片
	Logo       string `json:"logo,omitempty"`
	ImageURL   string `json:"imageUrl,omitempty"`
	FaviconURL string `json:"faviconUrl,omitempty"`

	// 5. 可选设置块
	HeroSettings   *HeroSettings   `json:"heroSettings,omitempty"`
	FooterSettings *FooterSettings `json:"footerSettings,omitempty"`
	ThemeSettings  *ThemeSettings  `json:"themeSettings,omitempty" validate:"omitempty"`
	AdSettings     []Advertisement `json:"adSettings,omitempty" validate:"dive"`

	// 6. 商品
	Products []Product `json:"products,omitempty" validate:"dive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StorageKey 记录在 KV 存储中的键
func (s *ShopRecord) StorageKey() string {
	return ShopKeyPrefix + s.ShopURL
}

// FindProduct 按 ID 查找商品下标，找不到返回 -1
func (s *ShopRecord) FindProduct(id string) int {
	for i := range s.Products {
		if s.Products[i].ID == id {
			return i
		}
	}
	return -1
}

// HeroSettings 首屏设置
type HeroSettings struct {
	Title           string `json:"title,omitempty"`
	Subtitle        string `json:"subtitle,omitempty"`
	BackgroundImage string `json:"backgroundImage,omitempty"`
	ButtonText      string `json:"buttonText,omitempty"`
	ButtonLink      string `json:"buttonLink,omitempty"`
}

// FooterSettings 页脚设置
type FooterSettings struct {
	Text       string       `json:"text,omitempty"`
	Links      []FooterLink `json:"links,omitempty"`
	ShowSocial bool         `json:"showSocial"`
}

// FooterLink 页脚链接
type FooterLink struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// ThemeSettings 主题设置
type ThemeSettings struct {
	Template     string `json:"template,omitempty" validate:"omitempty,oneof=basic luxury novas"`
	PrimaryColor string `json:"primaryColor,omitempty" validate:"omitempty,hexcolor"`
	FontFamily   string `json:"fontFamily,omitempty"`
}

// Product 店铺内商品，随店铺记录整体保存
type Product struct {
	ID          string    `json:"id" validate:"required"`
	Name        string    `json:"name" validate:"required,max=100"`
	Price       int64     `json:"price" validate:"gte=0"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Category    string    `json:"category,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
