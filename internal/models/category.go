// internal/models/category.go
package models

type Category struct {
	BaseModel
	Name  string `json:"name" gorm:"size:255;not null"`
	Slug  string `json:"slug" gorm:"size:255;uniqueIndex;not null"`
	Image string `json:"image" gorm:"type:text"`
	// Count is the number of products referencing Slug. It is maintained
	// incrementally and is not floored at zero.
	Count int `json:"count"`
}
