package handler

import (
	"github.com/gin-gonic/gin"

	"skillswap/internal/dto"
	"skillswap/internal/service"
	"skillswap/pkg/response"
)

// UserHandler 用户模块 HTTP 处理器
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// GetUser 查看用户资料（私密资料仅本人可见）
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	id, ok := MustGetIDParam(c, service.ErrUserNotFound)
	if !ok {
		return
	}

	result, err := h.userSvc.GetProfile(c.Request.Context(), callerID, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, result)
}

// UpdateMe 更新本人资料
// PUT /api/v1/users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.userSvc.UpdateProfile(c.Request.Context(), callerID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, result)
}
