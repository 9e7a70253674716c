package model

import "time"

type Recipe struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AuthorID    uint      `gorm:"not null;index" json:"author_id"`
	Name        string    `gorm:"type:varchar(200);not null" json:"name"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	Image       string    `gorm:"type:varchar(500);not null;default:''" json:"image"`
	CookingTime int       `gorm:"not null;check:chk_recipes_cooking_time,cooking_time >= 1" json:"cooking_time"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Author      User               `gorm:"foreignKey:AuthorID" json:"-"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	Tags        []RecipeTag        `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	FavoritedBy []FavoriteRecipe   `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	InCartsOf   []ShoppingCart     `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// RecipeIngredient is one line of a recipe: an ingredient and its amount.
type RecipeIngredient struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	RecipeID     uint `gorm:"not null;uniqueIndex:unique_ingredients_in_the_recipe,priority:1" json:"recipe_id"`
	IngredientID uint `gorm:"not null;uniqueIndex:unique_ingredients_in_the_recipe,priority:2;index" json:"ingredient_id"`
	Amount       int  `gorm:"not null;check:chk_recipe_ingredients_amount,amount >= 1" json:"amount"`

	Ingredient Ingredient `gorm:"foreignKey:IngredientID" json:"-"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

type RecipeTag struct {
	TagID    uint `gorm:"primaryKey" json:"tag_id"`
	RecipeID uint `gorm:"primaryKey;index" json:"recipe_id"`

	Tag Tag `gorm:"foreignKey:TagID" json:"-"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}
