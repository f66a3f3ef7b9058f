// Package seed 写入内置的演示数据（咨询、社区帖子、示例店铺）
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"peermall/internal/model"
	"peermall/internal/repository"
	"peermall/internal/service"
	"peermall/pkg/logger"
)

//go:embed sample.yaml
var sampleYAML []byte

// ==================== 数据结构 ====================

// Sample 演示数据
type Sample struct {
	Inquiries []SampleInquiry `yaml:"inquiries"`
	Posts     []SamplePost    `yaml:"posts"`
	Shops     []SampleShop    `yaml:"shops"`
}

type SampleInquiry struct {
	Title   string        `yaml:"title"`
	Content string        `yaml:"content"`
	Author  string        `yaml:"author"`
	Status  string        `yaml:"status"`
	Replies []SampleReply `yaml:"replies"`
}

type SampleReply struct {
	Author  string `yaml:"author"`
	Content string `yaml:"content"`
	Admin   bool   `yaml:"admin"`
}

type SamplePost struct {
	Title    string   `yaml:"title"`
	Content  string   `yaml:"content"`
	Author   string   `yaml:"author"`
	Category string   `yaml:"category"`
	Tags     []string `yaml:"tags"`
}

type SampleShop struct {
	ShopURL     string          `yaml:"shopUrl"`
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	OwnerName   string          `yaml:"ownerName"`
	Category    string          `yaml:"category"`
	Template    string          `yaml:"template"`
	Products    []SampleProduct `yaml:"products"`
}

type SampleProduct struct {
	Name  string `yaml:"name"`
	Price int64  `yaml:"price"`
}

// Load 解析内置演示数据
func Load() (*Sample, error) {
	return Parse(sampleYAML)
}

// Parse 解析 YAML 演示数据
func Parse(data []byte) (*Sample, error) {
	var s Sample
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("解析演示数据失败: %w", err)
	}
	for i, inq := range s.Inquiries {
		if inq.Status != "" && !model.InquiryStatus(inq.Status).Valid() {
			return nil, fmt.Errorf("%w: inquiries[%d] status %q", ErrInvalidSample, i, inq.Status)
		}
	}
	return &s, nil
}

// ==================== Seeder ====================

// Seeder 演示数据写入器
type Seeder struct {
	inquiries repository.InquiryRepository
	posts     repository.PostRepository
	shops     *service.ShopService
}

// Result 写入结果
type Result struct {
	Inquiries int `json:"inquiries"`
	Posts     int `json:"posts"`
	Shops     int `json:"shops"`
}

// New 创建 Seeder，shops 为空时不写示例店铺
func New(inquiries repository.InquiryRepository, posts repository.PostRepository, shops *service.ShopService) *Seeder {
	return &Seeder{inquiries: inquiries, posts: posts, shops: shops}
}

// Seed 写入演示数据
// 咨询板和社区只在表为空时写入；店铺写入 ctx 所在的设备命名空间，已存在的地址跳过
func (s *Seeder) Seed(ctx context.Context, sample *Sample) (*Result, error) {
	log := logger.FromContext(ctx)
	result := &Result{}

	// 1. 咨询板
	counts, err := s.inquiries.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	if total(counts) == 0 {
		for _, item := range sample.Inquiries {
			inquiry := toInquiry(item)
			if err := s.inquiries.Create(ctx, &inquiry); err != nil {
				return result, fmt.Errorf("写入咨询失败: %w", err)
			}
			result.Inquiries++
		}
	} else {
		log.Info("[Seed] 咨询板已有数据，跳过")
	}

	// 2. 社区
	n, err := s.posts.Count(ctx)
	if err != nil {
		return result, err
	}
	if n == 0 {
		for _, item := range sample.Posts {
			post := model.CommunityPost{
				Title:    item.Title,
				Content:  item.Content,
				Author:   item.Author,
				Category: item.Category,
				Tags:     item.Tags,
			}
			if err := s.posts.Create(ctx, &post); err != nil {
				return result, fmt.Errorf("写入帖子失败: %w", err)
			}
			result.Posts++
		}
	} else {
		log.Info("[Seed] 社区已有数据，跳过")
	}

	// 3. 示例店铺
	if s.shops != nil {
		for _, item := range sample.Shops {
			shop := toShop(item)
			_, err := s.shops.Create(ctx, model.SessionFlag{Nickname: item.OwnerName}, &shop)
			if errors.Is(err, repository.ErrDuplicateKey) {
				continue
			}
			if err != nil {
				return result, fmt.Errorf("写入店铺 %s 失败: %w", item.ShopURL, err)
			}
			result.Shops++
		}
	}

	log.Info("[Seed] 演示数据写入完成",
		zap.Int("inquiries", result.Inquiries),
		zap.Int("posts", result.Posts),
		zap.Int("shops", result.Shops))
	return result, nil
}

// ==================== 转换 ====================

func toInquiry(item SampleInquiry) model.Inquiry {
	status := model.InquiryStatus(item.Status)
	if status == "" {
		status = model.InquiryStatusReceived
	}
	inquiry := model.Inquiry{
		Title:   item.Title,
		Content: item.Content,
		Author:  item.Author,
		Status:  status,
	}
	for _, r := range item.Replies {
		inquiry.Replies = append(inquiry.Replies, model.Reply{
			Author:  r.Author,
			Content: r.Content,
			IsAdmin: r.Admin,
		})
	}
	return inquiry
}

func toShop(item SampleShop) model.ShopRecord {
	shop := model.ShopRecord{
		ShopURL:     item.ShopURL,
		Name:        item.Name,
		Description: item.Description,
		OwnerName:   item.OwnerName,
		Category:    item.Category,
	}
	if item.Template != "" {
		shop.ThemeSettings = &model.ThemeSettings{Template: item.Template}
	}
	for _, p := range item.Products {
		shop.Products = append(shop.Products, model.Product{Name: p.Name, Price: p.Price})
	}
	return shop
}

func total(counts map[model.InquiryStatus]int64) int64 {
	var n int64
	for _, c := range counts {
		n += c
	}
	return n
}

// ==================== 错误定义 ====================

var (
	ErrInvalidSample = errors.New("演示数据不合法")
)
