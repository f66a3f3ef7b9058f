package controller

import (
	"github.com/gin-gonic/gin"

	"peermall/internal/api/dto"
	"peermall/internal/middleware"
	"peermall/internal/model"
	"peermall/internal/service"
)

// ShopController 店铺管理
type ShopController struct {
	shopSvc *service.ShopService
	adSvc   *service.AdService
}

// NewShopController 创建店铺控制器
func NewShopController(shopSvc *service.ShopService, adSvc *service.AdService) *ShopController {
	return &ShopController{
		shopSvc: shopSvc,
		adSvc:   adSvc,
	}
}

// List 店铺列表
// @Summary 当前设备的全部店铺
// @Tags Shop (店铺管理)
// @Produce json
// @Success 200 {array} model.ShopRecord
// @Router /api/shops [get]
func (c *ShopController) List(ctx *gin.Context) {
	success(ctx, "ok", c.shopSvc.List(ctx.Request.Context()))
}

// Mine 我的店铺
// @Summary 当前登录用户的店铺
// @Tags Shop (店铺管理)
// @Produce json
// @Success 200 {array} model.ShopRecord
// @Router /api/shops/mine [get]
func (c *ShopController) Mine(ctx *gin.Context) {
	success(ctx, "ok", c.shopSvc.Mine(ctx.Request.Context(), middleware.GetSession(ctx)))
}

// ListByOwner 按店主筛选
// @Summary 按店主昵称筛选
// @Tags Shop (店铺管理)
// @Produce json
// @Param nickname path string true "店主昵称"
// @Success 200 {array} model.ShopRecord
// @Router /api/shops/owner/{nickname} [get]
func (c *ShopController) ListByOwner(ctx *gin.Context) {
	success(ctx, "ok", c.shopSvc.ListByOwner(ctx.Request.Context(), ctx.Param("nickname")))
}

// Get 店铺详情
// @Summary 店铺详情
// @Tags Shop (店铺管理)
// @Produce json
// @Param url path string true "店铺地址"
// @Success 200 {object} model.ShopRecord
// @Failure 404 {object} map[string]interface{}
// @Router /api/shops/{url} [get]
func (c *ShopController) Get(ctx *gin.Context) {
	shop, err := c.shopSvc.Get(ctx.Request.Context(), ctx.Param("url"))
	if err != nil {
		fail(ctx, err)
		return
	}
	success(ctx, "ok", shop)
}

// LiveAds 在投广告
// @Summary 按广告位分组的在投广告
// @Tags Shop (店铺管理)
// @Produce json
// @Param url path string true "店铺地址"
// @Param page query string false "页面" default(home)
// @Success 200 {object} dto.ShopAdsResp
// @Router /api/shops/{url}/ads [get]
func (c *ShopController) LiveAds(ctx *gin.Context) {
	var req dto.ShopAdsReq
	if err := ctx.ShouldBindQuery(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	url := ctx.Param("url")
	ads, err := c.adSvc.LiveAds(ctx.Request.Context(), url, req.Page)
	if err != nil {
		fail(ctx, err)
		return
	}
	success(ctx, "ok", dto.ShopAdsResp{ShopURL: url, Page: req.Page, Ads: ads})
}

// Create 创建店铺
// @Summary 创建店铺
// @Tags Shop (店铺管理)
// @Accept json
// @Produce json
// @Param request body model.ShopRecord true "店铺"
// @Success 200 {object} model.ShopRecord
// @Failure 409 {object} map[string]interface{} "地址已被占用"
// @Router /api/shops [post]
func (c *ShopController) Create(ctx *gin.Context) {
	var shop model.ShopRecord
	if err := ctx.ShouldBindJSON(&shop); err != nil {
		badRequest(ctx, err)
		return
	}

	created, err := c.shopSvc.Create(ctx.Request.Context(), middleware.GetSession(ctx), &shop)
	if err != nil {
		fail(ctx, err)
		return
	}
	success(ctx, "店铺已创建", created)
}

// Update 保存店铺（整条替换）
// @Summary 保存店铺
// @Tags Shop (店铺管理)
// @Accept json
// @Produce json
// @Param url path string true "店铺地址"
// @Param request body model.ShopRecord true "店铺"
// @Success 200 {object} model.ShopRecord
// @Router /api/shops/{url} [put]
func (c *ShopController) Update(ctx *gin.Context) {
	var shop model.ShopRecord
	if err := ctx.ShouldBindJSON(&shop); err != nil {
		badRequest(ctx, err)
		return
	}

	updated, err := c.shopSvc.Update(ctx.Request.Context(), ctx.Param("url"), &shop)
	if err != nil {
		fail(ctx, err)
		return
	}
	success(ctx, "店铺已保存", updated)
}

// Delete 删除店铺
// @Summary 删除店铺
// @Tags Shop (店铺管理)
// @Param url path string true "店铺地址"
// @Router /api/shops/{url} [delete]
func (c *ShopController) Delete(ctx *gin.Context) {
	if err := c.shopSvc.Delete(ctx.Request.Context(), ctx.Param("url")); err != nil {
		fail(ctx, err)
		return
	}
	success(ctx, "店铺已删除", nil)
}

// ==================== 商品 ====================

// AddProduct 新增商品
// @Summary 新增商品
// @Tags Shop (店铺管理)
// @Accept json
// @Produce json
// @Param url path string true "店铺地址"
// @Param request body dto.ProductReq true "商品"
// @Success 200 {object} model.Product
// @Router /api/shops/{url}/products [post]
func (c *ShopController) AddProduct(ctx *gin.Context) {
	var req dto.ProductReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	product, err := c.shopSvc.AddProduct(ctx.Request.Context(), ctx.Param("url"), &req)
	if err != nil {
		fail(ctx, err)
		return
	}
	success(ctx, "商品已添加", product)
}

// UpdateProduct 修改商品
// @Summary 修改商品
// @Tags Shop (店铺管理)
// @Accept json
// @Produce json
// @Param url path string true "店铺地址"
// @Param pid path string true "商品 ID"
// @Param request body dto.ProductReq true "商品"
// @Success 200 {object} model.Product
// @Router /api/shops/{url}/products/{pid} [put]
func (c *ShopController) UpdateProduct(ctx *gin.Context) {
	var req dto.ProductReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	product, err := c.shopSvc.UpdateProduct(ctx.Request.Context(), ctx.Param("url"), ctx.Param("pid"), &req)
	if err != nil {
		fail(ctx, err)
		return
	}
	success(ctx, "商品已更新", product)
}

// RemoveProduct 删除商品
// @Summary 删除商品
// @Tags Shop (店铺管理)
// @Param url path string true "店铺地址"
// @Param pid path string true "商品 ID"
// @Router /api/shops/{url}/products/{pid} [delete]
func (c *ShopController) RemoveProduct(ctx *gin.Context) {
	if err := c.shopSvc.RemoveProduct(ctx.Request.Context(), ctx.Param("url"), ctx.Param("pid")); err != nil {
		fail(ctx, err)
		return
	}
	success(ctx, "商品已删除", nil)
}
