package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	pkgerrors "skillswap/pkg/errors"
	"skillswap/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetIDParam 提取路径参数 :id，非 UUID 时按 notFound 响应
func MustGetIDParam(c *gin.Context, notFound *pkgerrors.AppError) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		handleServiceError(c, notFound)
		return "", false
	}
	return id, true
}

// tokenIdentity 当前 Access Token 的 JTI 与过期时间，由 JWTAuth 注入
func tokenIdentity(c *gin.Context) (string, time.Time, bool) {
	jti := c.GetString("token_jti")
	if jti == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", time.Time{}, false
	}
	return jti, c.GetTime("token_exp"), true
}
