// Package seed reads catalog files for bulk import.
package seed

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/foodgram/foodgram-backend/internal/app/model"
	"github.com/xuri/excelize/v2"
)

var ErrUnsupportedFormat = errors.New("unsupported file format")

// ReadIngredients loads (name, measurement_unit) pairs from a .csv, .json
// or .xlsx file. CSV and XLSX rows are "name,unit"; a header row whose first
// cell is "name" is skipped. JSON is a list of {name, measurement_unit}.
func ReadIngredients(path string) ([]model.Ingredient, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open CSV file: %w", err)
		}
		defer f.Close()
		return ReadIngredientsCSV(f)
	case ".json":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open JSON file: %w", err)
		}
		defer f.Close()
		return ReadIngredientsJSON(f)
	case ".xlsx":
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open XLSX file: %w", err)
		}
		defer f.Close()
		return readIngredientsXLSX(f)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
}

func ReadIngredientsCSV(r io.Reader) ([]model.Ingredient, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return fromRows(rows), nil
}

func ReadIngredientsJSON(r io.Reader) ([]model.Ingredient, error) {
	var items []struct {
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
	}
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}

	ingredients := make([]model.Ingredient, 0, len(items))
	for _, item := range items {
		ingredients = append(ingredients, model.Ingredient{Name: item.Name, MeasurementUnit: item.MeasurementUnit})
	}
	return ingredients, nil
}

// ReadIngredientsXLSX reads the first sheet of a workbook.
func ReadIngredientsXLSX(r io.Reader) ([]model.Ingredient, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX: %w", err)
	}
	defer f.Close()
	return readIngredientsXLSX(f)
}

func readIngredientsXLSX(f *excelize.File) ([]model.Ingredient, error) {
	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("no sheets found in XLSX file")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return fromRows(rows), nil
}

// fromRows keeps the first two cells of each row. Short rows are dropped.
func fromRows(rows [][]string) []model.Ingredient {
	ingredients := make([]model.Ingredient, 0, len(rows))
	for i, row := range rows {
		if len(row) < 2 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if i == 0 && strings.EqualFold(name, "name") {
			continue
		}
		ingredients = append(ingredients, model.Ingredient{
			Name:            name,
			MeasurementUnit: strings.TrimSpace(row[1]),
		})
	}
	return ingredients
}
