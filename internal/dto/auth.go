package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Name          string   `json:"name"           binding:"required,min=2,max=50"`
	Email         string   `json:"email"          binding:"required,email,max=255"`
	Password      string   `json:"password"       binding:"required,min=6,max=72"`
	Location      string   `json:"location"       binding:"omitempty,max=100"`
	Bio           string   `json:"bio"            binding:"omitempty,max=500"`
	SkillsOffered []string `json:"skills_offered" binding:"omitempty,max=50,dive,required,max=50"`
	SkillsWanted  []string `json:"skills_wanted"  binding:"omitempty,max=50,dive,required,max=50"`
	IsPublic      *bool    `json:"is_public"`
}
