package service

import (
	"bytes"
	"fmt"

	"github.com/foodgram/foodgram-backend/internal/app/repository"
	"github.com/foodgram/foodgram-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

const shoppingListSheet = "Shopping list"

type ShoppingListService interface {
	Lines(userID uint) ([]repository.ShoppingListLine, error)
	RenderText(lines []repository.ShoppingListLine) []byte
	RenderXLSX(lines []repository.ShoppingListLine) ([]byte, error)
}

type shoppingListService struct {
	recipeRepo repository.RecipeRepository
}

func NewShoppingListService(recipeRepo repository.RecipeRepository) ShoppingListService {
	return &shoppingListService{recipeRepo: recipeRepo}
}

// Lines aggregates the user's cart, one line per (ingredient name, unit).
func (s *shoppingListService) Lines(userID uint) ([]repository.ShoppingListLine, error) {
	lines, err := s.recipeRepo.ShoppingList(userID)
	if err != nil {
		return nil, err
	}

	logger.Info("Shopping list built", map[string]interface{}{
		"user_id": userID,
		"lines":   len(lines),
	})
	return lines, nil
}

// RenderText writes "<name>  - <amount>(<unit>)" per line. An empty cart
// renders as an empty body.
func (s *shoppingListService) RenderText(lines []repository.ShoppingListLine) []byte {
	var buf bytes.Buffer
	for _, line := range lines {
		fmt.Fprintf(&buf, "%s  - %d(%s)\n", line.Name, line.Amount, line.MeasurementUnit)
	}
	return buf.Bytes()
}

func (s *shoppingListService) RenderXLSX(lines []repository.ShoppingListLine) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", shoppingListSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(shoppingListSheet, "A1", &[]interface{}{"Ingredient", "Amount", "Unit"}); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	for i, line := range lines {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{line.Name, line.Amount, line.MeasurementUnit}
		if err := f.SetSheetRow(shoppingListSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf.Bytes(), nil
}
