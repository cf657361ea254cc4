package model

type ResourceType string

const (
	ResourceCourse        ResourceType = "course"
	ResourceChallenge     ResourceType = "challenge"
	ResourceDocumentation ResourceType = "documentation"
	ResourceVideo         ResourceType = "video"
)

// Known 是否为前端可识别的资源类型，未知类型照常保存并按通用资源展示
func (t ResourceType) Known() bool {
	switch t {
	case ResourceCourse, ResourceChallenge, ResourceDocumentation, ResourceVideo:
		return true
	}
	return false
}

// Resource 推荐给用户的学习资源，每次生成追加新行
// swagger:model Resource
type Resource struct {
	BaseModel
	UserID      uint         `gorm:"index;not null" json:"userId"`
	Type        ResourceType `gorm:"size:50;not null" json:"type"`
	Title       string       `gorm:"type:text;not null" json:"title"`
	Description string       `gorm:"type:text;not null" json:"description"`
	Level       *string      `gorm:"size:100" json:"level,omitempty"`
	Duration    *string      `gorm:"size:100" json:"duration,omitempty"`
	ImageURL    *string      `gorm:"type:text" json:"imageUrl,omitempty"`
	Link        string       `gorm:"type:text;not null" json:"link"`
}

func (Resource) TableName() string {
	return "resources"
}
