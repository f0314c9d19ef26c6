package dto

// ── 用户模块 DTO ──

// UpdateProfileRequest 更新个人资料请求，rating / swap_count 不可经此修改
type UpdateProfileRequest struct {
	Name          *string   `json:"name"           binding:"omitempty,min=2,max=50"`
	Location      *string   `json:"location"       binding:"omitempty,max=100"`
	Bio           *string   `json:"bio"            binding:"omitempty,max=500"`
	SkillsOffered *[]string `json:"skills_offered" binding:"omitempty,max=50,dive,required,max=50"`
	SkillsWanted  *[]string `json:"skills_wanted"  binding:"omitempty,max=50,dive,required,max=50"`
	IsPublic      *bool     `json:"is_public"`
}
