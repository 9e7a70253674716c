package model

import "time"

type FavoriteRecipe struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:unique_favorite,priority:1" json:"user_id"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:unique_favorite,priority:2;index" json:"recipe_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (FavoriteRecipe) TableName() string {
	return "favorite_recipes"
}
