package handler

import (
	"context"
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"skillswap/internal/dto"
	"skillswap/internal/service"
	"skillswap/pkg/response"
)

// SwapHandler 交换请求模块 HTTP 处理器
type SwapHandler struct {
	swapSvc service.SwapService
}

// NewSwapHandler 创建 SwapHandler
func NewSwapHandler(swapSvc service.SwapService) *SwapHandler {
	return &SwapHandler{swapSvc: swapSvc}
}

// Create 发起交换请求
// POST /api/v1/swaps/request
func (h *SwapHandler) Create(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.swapSvc.Create(c.Request.Context(), callerID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, result)
}

// List 我的交换请求
// GET /api/v1/swaps?status=pending&role=incoming
func (h *SwapHandler) List(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SwapListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, err := h.swapSvc.List(c.Request.Context(), callerID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OKList(c, list, len(list))
}

// Get 交换请求详情（仅参与方可见）
// GET /api/v1/swaps/:id
func (h *SwapHandler) Get(c *gin.Context) {
	h.transition(c, h.swapSvc.Get)
}

// Accept 接收方接受
// PUT /api/v1/swaps/:id/accept
func (h *SwapHandler) Accept(c *gin.Context) {
	h.transition(c, h.swapSvc.Accept)
}

// Reject 接收方拒绝
// PUT /api/v1/swaps/:id/reject
func (h *SwapHandler) Reject(c *gin.Context) {
	h.transition(c, h.swapSvc.Reject)
}

// Cancel 发起方取消
// PUT /api/v1/swaps/:id/cancel
func (h *SwapHandler) Cancel(c *gin.Context) {
	h.transition(c, h.swapSvc.Cancel)
}

// Complete 完成交换，可附带本人评分与评价
// PUT /api/v1/swaps/:id/complete
func (h *SwapHandler) Complete(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	id, ok := MustGetIDParam(c, service.ErrSwapNotFound)
	if !ok {
		return
	}

	// 空请求体表示不评分直接完成
	var req dto.CompleteSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.swapSvc.Complete(c.Request.Context(), callerID, id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, result)
}

// transition 无请求体的单记录操作
func (h *SwapHandler) transition(c *gin.Context, op func(ctx context.Context, callerID, id string) (*dto.SwapResponse, error)) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	id, ok := MustGetIDParam(c, service.ErrSwapNotFound)
	if !ok {
		return
	}

	result, err := op(c.Request.Context(), callerID, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, result)
}
