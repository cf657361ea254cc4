package model

import "gorm.io/datatypes"

// Assessment 用户的编程背景问卷结果，每个用户至多一条
// swagger:model Assessment
type Assessment struct {
	BaseModel
	UserID          uint                        `gorm:"uniqueIndex;not null" json:"userId"`
	ExperienceLevel string                      `gorm:"type:text;not null" json:"experienceLevel"`
	Languages       datatypes.JSONSlice[string] `gorm:"not null" json:"languages"`
	LearningGoal    string                      `gorm:"type:text;not null" json:"learningGoal"`
	GoalDetails     *string                     `gorm:"type:text" json:"goalDetails"`
	LearningStyle   string                      `gorm:"type:text;not null" json:"learningStyle"`
	TimeCommitment  string                      `gorm:"type:text;not null" json:"timeCommitment"`
}

func (Assessment) TableName() string {
	return "assessments"
}

// PrimaryLanguage 返回第一门语言，为空时默认 JavaScript
func (a *Assessment) PrimaryLanguage() string {
	if len(a.Languages) == 0 || a.Languages[0] == "" {
		return "JavaScript"
	}
	return a.Languages[0]
}
