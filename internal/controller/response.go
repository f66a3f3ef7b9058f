package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"peermall/internal/repository"
	"peermall/internal/service"
	"peermall/pkg/logger"
)

// success 统一成功响应
func success(ctx *gin.Context, message string, data interface{}) {
	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": message,
		"data":    data,
	})
}

// badRequest 参数绑定失败
func badRequest(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, gin.H{
		"code":    400,
		"message": "参数错误: " + err.Error(),
	})
}

// fail 按错误类型映射 HTTP 状态码
func fail(ctx *gin.Context, err error) {
	status := statusOf(err)
	message := err.Error()

	switch {
	case status >= http.StatusInternalServerError:
		logger.FromContext(ctx.Request.Context()).Error("请求处理失败",
			zap.String("path", ctx.FullPath()), zap.Error(err))
		if status == http.StatusServiceUnavailable {
			message = "保存失败，存储空间不足或暂时不可用"
		} else {
			message = "服务器内部错误"
		}
	case status == http.StatusNotFound:
		logger.FromContext(ctx.Request.Context()).Debug("资源不存在", zap.Error(err))
	}

	ctx.JSON(status, gin.H{
		"code":    status,
		"message": message,
	})
}

func statusOf(err error) int {
	switch {
	case service.IsValidationError(err), errors.Is(err, service.ErrCodeMismatch):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrDuplicateKey),
		errors.Is(err, service.ErrNoPendingCode),
		errors.Is(err, service.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, repository.ErrStorage):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}
