package model

import "time"

// SwapStatus 交换请求状态
type SwapStatus string

const (
	SwapStatusPending   SwapStatus = "pending"
	SwapStatusAccepted  SwapStatus = "accepted"
	SwapStatusRejected  SwapStatus = "rejected"
	SwapStatusCancelled SwapStatus = "cancelled"
	SwapStatusCompleted SwapStatus = "completed"
)

// IsTerminal 是否为终态
func (s SwapStatus) IsTerminal() bool {
	return s == SwapStatusRejected || s == SwapStatusCancelled || s == SwapStatusCompleted
}

// Valid 是否为已知状态
func (s SwapStatus) Valid() bool {
	switch s {
	case SwapStatusPending, SwapStatusAccepted, SwapStatusRejected, SwapStatusCancelled, SwapStatusCompleted:
		return true
	}
	return false
}

// Participant 请求参与方角色
type Participant int

const (
	// NotParticipant 非参与方
	NotParticipant Participant = iota
	// Requester 发起方（from_user）
	Requester
	// Recipient 接收方（to_user）
	Recipient
)

func (p Participant) String() string {
	switch p {
	case Requester:
		return "requester"
	case Recipient:
		return "recipient"
	default:
		return "none"
	}
}

// SwapRequest 技能交换请求表，对应 swap_requests
type SwapRequest struct {
	SwapRequestID    string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"swap_request_id"`
	FromUserID       string     `gorm:"type:uuid;not null"                             json:"from_user_id"`
	ToUserID         string     `gorm:"type:uuid;not null"                             json:"to_user_id"`
	RequestedSkill   string     `gorm:"type:varchar(50);not null"                      json:"requested_skill"`
	OfferedSkill     string     `gorm:"type:varchar(50);not null"                      json:"offered_skill"`
	Status           SwapStatus `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	Message          string     `gorm:"type:varchar(1000);not null"                    json:"message"`
	ProposedTime     string     `gorm:"type:varchar(200);not null"                     json:"proposed_time"`
	AcceptedAt       *time.Time `json:"accepted_at,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	FromUserRating   *int       `gorm:"type:smallint"                                  json:"from_user_rating,omitempty"`
	ToUserRating     *int       `gorm:"type:smallint"                                  json:"to_user_rating,omitempty"`
	FromUserFeedback *string    `gorm:"type:varchar(500)"                              json:"from_user_feedback,omitempty"`
	ToUserFeedback   *string    `gorm:"type:varchar(500)"                              json:"to_user_feedback,omitempty"`
	VersionedModel

	// 关联
	FromUser *User `gorm:"foreignKey:FromUserID;references:UserID" json:"from_user,omitempty"`
	ToUser   *User `gorm:"foreignKey:ToUserID;references:UserID"   json:"to_user,omitempty"`
}

// TableName 指定表名
func (SwapRequest) TableName() string { return "swap_requests" }

// ParticipantOf 解析用户在该请求中的角色
func (s *SwapRequest) ParticipantOf(userID string) Participant {
	switch userID {
	case s.FromUserID:
		return Requester
	case s.ToUserID:
		return Recipient
	default:
		return NotParticipant
	}
}

// UserOf 返回指定角色对应的用户 ID
func (s *SwapRequest) UserOf(p Participant) string {
	switch p {
	case Requester:
		return s.FromUserID
	case Recipient:
		return s.ToUserID
	default:
		return ""
	}
}

// ── 评分槽位 ──

// RatingSlot 单方评分槽位
type RatingSlot struct {
	Rating   *int
	Feedback *string
}

// Filled 槽位是否已评分
func (r RatingSlot) Filled() bool { return r.Rating != nil }

func (s *SwapRequest) slotPtrs(p Participant) (**int, **string) {
	switch p {
	case Requester:
		return &s.FromUserRating, &s.FromUserFeedback
	case Recipient:
		return &s.ToUserRating, &s.ToUserFeedback
	default:
		return nil, nil
	}
}

// Slot 读取某一方的评分槽位
func (s *SwapRequest) Slot(p Participant) RatingSlot {
	rating, feedback := s.slotPtrs(p)
	if rating == nil {
		return RatingSlot{}
	}
	return RatingSlot{Rating: *rating, Feedback: *feedback}
}

// SetSlot 写入某一方的评分槽位，写一次语义由调用方保证
func (s *SwapRequest) SetSlot(p Participant, rating int, feedback string) {
	r, f := s.slotPtrs(p)
	if r == nil {
		return
	}
	*r = &rating
	*f = &feedback
}

// BothRated 双方评分均已写入
func (s *SwapRequest) BothRated() bool {
	return s.FromUserRating != nil && s.ToUserRating != nil
}
