package dto

import "peermall/internal/model"

// ================== Shop DTO ==================

// ProductReq 新增/修改商品请求
type ProductReq struct {
	Name        string `json:"name" binding:"required,max=100"`
	Price       int64  `json:"price" binding:"gte=0"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Category    string `json:"category"`
}

// ShopAdsReq 广告查询参数
type ShopAdsReq struct {
	Page string `form:"page,default=home"`
}

// ShopAdsResp 按广告位分组的在投广告
type ShopAdsResp struct {
	ShopURL string                                       `json:"shopUrl"`
	Page    string                                       `json:"page"`
	Ads     map[model.AdPosition][]model.Advertisement `json:"ads"`
}
