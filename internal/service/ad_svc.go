package service

import (
	"context"
	"time"

	"peermall/internal/model"
)

// SelectLiveAds 筛选 page 页在 now 时刻应展示的广告，按广告位分组
// 纯函数，不修改入参；同一广告位内保持输入顺序
// 结果包含全部标准广告位（可能为空切片）
func SelectLiveAds(ads []model.Advertisement, page string, now time.Time) map[model.AdPosition][]model.Advertisement {
	out := make(map[model.AdPosition][]model.Advertisement, len(model.AdPositions))
	for _, pos := range model.AdPositions {
		out[pos] = []model.Advertisement{}
	}

	for i := range ads {
		if !ads[i].IsLive(page, now) {
			continue
		}
		ad := ads[i]
		ad.TargetPages = append([]string(nil), ads[i].TargetPages...)
		out[ad.Position] = append(out[ad.Position], ad)
	}
	return out
}

// AdService 店铺广告展示
type AdService struct {
	shops *ShopService
	now   func() time.Time
}

// NewAdService 创建广告服务
func NewAdService(shops *ShopService) *AdService {
	return &AdService{shops: shops, now: time.Now}
}

// LiveAds 读取店铺并按当前时间筛选广告
func (s *AdService) LiveAds(ctx context.Context, shopURL, page string) (map[model.AdPosition][]model.Advertisement, error) {
	shop, err := s.shops.Get(ctx, shopURL)
	if err != nil {
		return nil, err
	}
	return SelectLiveAds(shop.AdSettings, page, s.now()), nil
}
