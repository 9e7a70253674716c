package model

// Tag labels recipes, e.g. "Breakfast" with slug "breakfast" and color "#E26C2D".
type Tag struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Name  string `gorm:"type:varchar(200);uniqueIndex:idx_tags_name;uniqueIndex:unique_tags,priority:1;not null" json:"name"`
	Color string `gorm:"type:varchar(7);uniqueIndex:idx_tags_color;uniqueIndex:unique_tags,priority:3;not null" json:"color"`
	Slug  string `gorm:"type:varchar(200);uniqueIndex:idx_tags_slug;uniqueIndex:unique_tags,priority:2;not null" json:"slug"`

	Recipes []RecipeTag `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Tag) TableName() string {
	return "tags"
}
