package dto

// ── 交换请求模块 DTO ──

// CreateSwapRequest 发起交换请求
type CreateSwapRequest struct {
	ToUserID       string `json:"to_user_id"      binding:"required,uuid"`
	RequestedSkill string `json:"requested_skill" binding:"required,max=50"`
	OfferedSkill   string `json:"offered_skill"   binding:"required,max=50"`
	Message        string `json:"message"         binding:"required,max=1000"`
	ProposedTime   string `json:"proposed_time"   binding:"required,max=200"`
}

// CompleteSwapRequest 完成交换请求，rating 与 feedback 需同时提供或同时省略
type CompleteSwapRequest struct {
	Rating   *int    `json:"rating"`
	Feedback *string `json:"feedback"`
}

// SwapListRequest 交换请求列表查询参数
type SwapListRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=pending accepted rejected cancelled completed"`
	Role   string `form:"role"   binding:"omitempty,oneof=incoming outgoing"`
}
