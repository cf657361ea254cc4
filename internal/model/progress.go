package model

// ProgressItem 技能/主题的完成百分比，(user_id, name) 唯一
// swagger:model ProgressItem
type ProgressItem struct {
	BaseModel
	UserID     uint   `gorm:"uniqueIndex:idx_progress_user_name;not null" json:"userId"`
	Name       string `gorm:"size:191;uniqueIndex:idx_progress_user_name;not null" json:"name"`
	Percentage int    `gorm:"not null;default:0" json:"percentage"`
}

func (ProgressItem) TableName() string {
	return "progress"
}
