package model

import "gorm.io/datatypes"

// CodeExample 指导内容附带的示例代码
type CodeExample struct {
	Title    string `json:"title"`
	Code     string `json:"code"`
	Language string `json:"language"`
}

// Guidance 个性化学习指导，每个用户至多一条，重新生成时原地覆盖
// swagger:model Guidance
type Guidance struct {
	BaseModel
	UserID      uint                             `gorm:"uniqueIndex;not null" json:"userId"`
	Content     string                           `gorm:"type:text;not null" json:"content"`
	CodeExample datatypes.JSONType[*CodeExample] `json:"codeExample" swaggertype:"object"`
}

func (Guidance) TableName() string {
	return "guidance"
}

// Example 返回示例代码，没有时为 nil
func (g *Guidance) Example() *CodeExample {
	return g.CodeExample.Data()
}
