package dto

import "time"

// ── 认证模块响应 ──

// TokenResponse 登录响应
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresIn   int          `json:"expires_in"` // Access Token 有效期（秒）
	User        UserResponse `json:"user"`
}

// ── 用户模块响应 ──

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Email         string   `json:"email,omitempty"` // 仅本人可见
	Location      string   `json:"location"`
	Bio           string   `json:"bio"`
	IsPublic      bool     `json:"is_public"`
	SkillsOffered []string `json:"skills_offered"`
	SkillsWanted  []string `json:"skills_wanted"`
	Rating        float64  `json:"rating"`
	SwapCount     int      `json:"swap_count"`
}

// UserBrief 交换请求中内嵌的用户摘要
type UserBrief struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
}

// ── 交换请求模块响应 ──

// SwapResponse 交换请求响应
type SwapResponse struct {
	ID               string     `json:"id"`
	FromUserID       string     `json:"from_user_id"`
	ToUserID         string     `json:"to_user_id"`
	FromUser         *UserBrief `json:"from_user,omitempty"`
	ToUser           *UserBrief `json:"to_user,omitempty"`
	RequestedSkill   string     `json:"requested_skill"`
	OfferedSkill     string     `json:"offered_skill"`
	Status           string     `json:"status"`
	Message          string     `json:"message"`
	ProposedTime     string     `json:"proposed_time"`
	AcceptedAt       *time.Time `json:"accepted_at"`
	CompletedAt      *time.Time `json:"completed_at"`
	FromUserRating   *int       `json:"from_user_rating"`
	ToUserRating     *int       `json:"to_user_rating"`
	FromUserFeedback *string    `json:"from_user_feedback"`
	ToUserFeedback   *string    `json:"to_user_feedback"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
