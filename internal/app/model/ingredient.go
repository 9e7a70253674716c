package model

// Ingredient is a catalog entry. The (name, measurement unit) pair is unique,
// so "salt, g" and "salt, pinch" are different ingredients.
type Ingredient struct {
	ID              uint   `gorm:"primarykey" json:"id"`
	Name            string `gorm:"type:varchar(200);not null;uniqueIndex:idx_ingredients_name_unit,priority:1" json:"name"`
	MeasurementUnit string `gorm:"type:varchar(200);not null;uniqueIndex:idx_ingredients_name_unit,priority:2" json:"measurement_unit"`

	Recipes []RecipeIngredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}
