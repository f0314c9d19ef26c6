package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"skillswap/internal/service"
	pkgerrors "skillswap/pkg/errors"
	"skillswap/pkg/response"
)

// handleServiceError 按错误分类输出响应，业务码与信息取自 AppError
func handleServiceError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrInvalidCredentials) {
		response.Unauthorized(c, service.ErrInvalidCredentials.Code, service.ErrInvalidCredentials.Message)
		return
	}

	var appErr *pkgerrors.AppError
	if !errors.As(err, &appErr) {
		_ = c.Error(err)
		response.InternalError(c)
		return
	}

	switch appErr.Kind {
	case pkgerrors.KindValidation, pkgerrors.KindInvalidState:
		response.BadRequest(c, appErr.Code, appErr.Message)
	case pkgerrors.KindNotFound:
		response.NotFound(c, appErr.Code, appErr.Message)
	case pkgerrors.KindForbidden:
		response.Forbidden(c, appErr.Code, appErr.Message)
	case pkgerrors.KindConflict:
		response.Conflict(c, appErr.Code, appErr.Message)
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, 50000, "服务器内部错误")
	}
}
