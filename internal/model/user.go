package model

// User 用户表，对应 users
// Rating / SwapCount / RatingSum / RatingCount 仅由评分聚合写入
type User struct {
	UserID        string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name          string      `gorm:"type:varchar(50);not null"                      json:"name"`
	Email         string      `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash  string      `gorm:"type:varchar(255);not null"                     json:"-"`
	Location      string      `gorm:"type:varchar(100);not null;default:''"          json:"location"`
	Bio           string      `gorm:"type:varchar(500);not null;default:''"          json:"bio"`
	IsPublic      bool        `gorm:"not null;default:true"                          json:"is_public"`
	SkillsOffered StringArray `gorm:"type:text[];not null;default:'{}'"              json:"skills_offered"`
	SkillsWanted  StringArray `gorm:"type:text[];not null;default:'{}'"              json:"skills_wanted"`
	Rating        float64     `gorm:"not null;default:0"                             json:"rating"`
	SwapCount     int         `gorm:"not null;default:0"                             json:"swap_count"`
	RatingSum     int         `gorm:"not null;default:0"                             json:"-"`
	RatingCount   int         `gorm:"not null;default:0"                             json:"-"`
	VersionedModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// Reputation 用户信誉快照
type Reputation struct {
	Rating      float64
	SwapCount   int
	RatingSum   int
	RatingCount int
}

// Reputation 返回当前信誉字段
func (u *User) Reputation() Reputation {
	return Reputation{
		Rating:      u.Rating,
		SwapCount:   u.SwapCount,
		RatingSum:   u.RatingSum,
		RatingCount: u.RatingCount,
	}
}

// SetReputation 覆盖信誉字段
func (u *User) SetReputation(r Reputation) {
	u.Rating = r.Rating
	u.SwapCount = r.SwapCount
	u.RatingSum = r.RatingSum
	u.RatingCount = r.RatingCount
}
