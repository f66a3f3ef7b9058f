package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"peermall/internal/api/dto"
	"peermall/internal/service"
)

// ==================== QRCodeController ====================

// QRCodeController QR 码
type QRCodeController struct {
	qrSvc *service.QRCodeService
}

// NewQRCodeController 创建 QR 码控制器
func NewQRCodeController(qrSvc *service.QRCodeService) *QRCodeController {
	return &QRCodeController{qrSvc: qrSvc}
}

// List 已生成的 QR 码
// @Summary 已生成的 QR 码
// @Tags QRCode
// @Router /api/qrcodes [get]
func (c *QRCodeController) List(ctx *gin.Context) {
	success(ctx, "ok", c.qrSvc.List(ctx.Request.Context()))
}

// Generate 生成 QR 码
// @Summary 生成 QR 码
// @Tags QRCode
// @Accept json
// @Param request body dto.QRCodeCreateReq true "内容"
// @Router /api/qrcodes [post]
func (c *QRCodeController) Generate(ctx *gin.Context) {
	var req dto.QRCodeCreateReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	artifact, err := c.qrSvc.Generate(ctx.Request.Context(), &req)
	if err != nil {
		fail(ctx, err)
		return
	}
	success(ctx, "QR 码已生成", artifact)
}

// Delete 删除 QR 码
// @Summary 按下标删除 QR 码
// @Tags QRCode
// @Param index path int true "下标"
// @Router /api/qrcodes/{index} [delete]
func (c *QRCodeController) Delete(ctx *gin.Context) {
	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的下标"})
		return
	}

	if err := c.qrSvc.Delete(ctx.Request.Context(), index); err != nil {
		fail(ctx, err)
		return
	}
	success(ctx, "已删除", nil)
}

// ==================== StorageController ====================

// StorageController 设备存储导入导出
type StorageController struct {
	storageSvc *service.StorageService
}

// NewStorageController 创建存储控制器
func NewStorageController(storageSvc *service.StorageService) *StorageController {
	return &StorageController{storageSvc: storageSvc}
}

// Export 导出
// @Summary 导出当前设备的全部键值
// @Tags Storage
// @Router /api/storage/export [get]
func (c *StorageController) Export(ctx *gin.Context) {
	snap, err := c.storageSvc.Export(ctx.Request.Context())
	if err != nil {
		fail(ctx, err)
		return
	}
	success(ctx, "ok", snap)
}

// Import 导入
// @Summary 导入浏览器 localStorage 导出，并迁移旧版集合键
// @Tags Storage
// @Accept json
// @Param request body dto.StorageImportReq true "键值"
// @Router /api/storage/import [post]
func (c *StorageController) Import(ctx *gin.Context) {
	var req dto.StorageImportReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	resp, err := c.storageSvc.Import(ctx.Request.Context(), req.Entries)
	if err != nil {
		fail(ctx, err)
		return
	}
	success(ctx, "导入完成", resp)
}
