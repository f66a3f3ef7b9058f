package model

// InquiryStatus 咨询状态
type InquiryStatus string

const (
	InquiryStatusReceived   InquiryStatus = "접수됨"
	InquiryStatusInProgress InquiryStatus = "답변중"
	InquiryStatusAnswered   InquiryStatus = "답변완료"
)

// Valid 是否合法状态
func (s InquiryStatus) Valid() bool {
	switch s {
	case InquiryStatusReceived, InquiryStatusInProgress, InquiryStatusAnswered:
		return true
	}
	return false
}

// Inquiry 用户提交的咨询工单
type Inquiry struct {
	BaseModel
	Title   string        `gorm:"size:200;not null" json:"title"`
	Content string        `gorm:"type:text" json:"content"`
	Author  string        `gorm:"size:100;index" json:"author"`
	Status  InquiryStatus `gorm:"size:20;index" json:"status"`

	// 按创建顺序排列
	Replies []Reply `gorm:"foreignKey:InquiryID;constraint:OnDelete:CASCADE" json:"replies"`
}

func (Inquiry) TableName() string {
	return "inquiries"
}

// Reply 工单回复
type Reply struct {
	BaseModel
	InquiryID int64  `gorm:"index;not null" json:"inquiryId"`
	Author    string `gorm:"size:100" json:"author"`
	Content   string `gorm:"type:text;not null" json:"content"`
	IsAdmin   bool   `gorm:"default:false" json:"isAdmin"`
}

func (Reply) TableName() string {
	return "inquiry_replies"
}
