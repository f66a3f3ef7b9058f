package model

import "gorm.io/datatypes"

// CommunityPost 社区帖子
type CommunityPost struct {
	BaseModel
	Title    string                      `gorm:"size:200;not null" json:"title"`
	Content  string                      `gorm:"type:text" json:"content"`
	Author   string                      `gorm:"size:100;index" json:"author"`
	Category string                      `gorm:"size:50;index" json:"category"`
	Tags     datatypes.JSONSlice[string] `json:"tags"`
	Views    int                         `gorm:"default:0" json:"views"`
	Likes    int                         `gorm:"default:0" json:"likes"`
}

func (CommunityPost) TableName() string {
	return "community_posts"
}
