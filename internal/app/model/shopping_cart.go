package model

import "time"

type ShoppingCart struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:unique_shoppingcart,priority:1" json:"user_id"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:unique_shoppingcart,priority:2;index" json:"recipe_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (ShoppingCart) TableName() string {
	return "shopping_carts"
}
