package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dadalto/producao-api/models"
)

// CatalogService maintains the model value catalog: one unit price per model
// name, last write wins, no price history.
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a catalog service bound to the given database handle.
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// RegisterModelInput carries the fields for registering or updating a catalog entry.
type RegisterModelInput struct {
	Name      string
	Category  string
	Sizes     string
	UnitPrice decimal.Decimal
}

// RegisterModel upserts a catalog entry by model name. The category assigned
// here drives the batch-quantity policy at issuance time.
func (s *CatalogService) RegisterModel(input RegisterModelInput) (*models.ProductModel, error) {
	if input.Name == "" {
		return nil, NewValidationError("model name is required")
	}
	if input.UnitPrice.IsNegative() {
		return nil, NewValidationError("unit price must not be negative, got %s", input.UnitPrice)
	}

	var model models.ProductModel
	err := s.db.Where("name = ?", input.Name).First(&model).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		model = models.ProductModel{
			Name:      input.Name,
			Category:  input.Category,
			Sizes:     input.Sizes,
			UnitPrice: input.UnitPrice,
			Active:    true,
		}
		if err := s.db.Create(&model).Error; err != nil {
			if isUniqueViolation(err) {
				return nil, &ConflictError{Message: fmt.Sprintf("model %q was registered concurrently", input.Name)}
			}
			return nil, fmt.Errorf("create catalog entry: %w", err)
		}
		return &model, nil
	case err != nil:
		return nil, fmt.Errorf("look up catalog entry: %w", err)
	}

	updates := map[string]interface{}{
		"category":   input.Category,
		"sizes":      input.Sizes,
		"unit_price": input.UnitPrice,
	}
	if err := s.db.Model(&model).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update catalog entry: %w", err)
	}
	model.Category = input.Category
	model.Sizes = input.Sizes
	model.UnitPrice = input.UnitPrice
	return &model, nil
}

// SetPrice upserts the unit price for a model name, keeping any existing
// category and sizes.
func (s *CatalogService) SetPrice(name string, price decimal.Decimal) (*models.ProductModel, error) {
	if name == "" {
		return nil, NewValidationError("model name is required")
	}
	if price.IsNegative() {
		return nil, NewValidationError("unit price must not be negative, got %s", price)
	}

	var model models.ProductModel
	err := s.db.Where("name = ?", name).First(&model).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		model = models.ProductModel{Name: name, UnitPrice: price, Active: true}
		if err := s.db.Create(&model).Error; err != nil {
			if isUniqueViolation(err) {
				return nil, &ConflictError{Message: fmt.Sprintf("price for model %q was set concurrently", name)}
			}
			return nil, fmt.Errorf("create catalog entry: %w", err)
		}
		return &model, nil
	case err != nil:
		return nil, fmt.Errorf("look up catalog entry: %w", err)
	}

	if err := s.db.Model(&model).Update("unit_price", price).Error; err != nil {
		return nil, fmt.Errorf("update unit price: %w", err)
	}
	model.UnitPrice = price
	return &model, nil
}

// GetPrice returns the unit price for a model name and whether the model is
// registered in the catalog.
func (s *CatalogService) GetPrice(name string) (decimal.Decimal, bool, error) {
	var model models.ProductModel
	err := s.db.Where("name = ?", name).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("look up catalog entry: %w", err)
	}
	return model.UnitPrice, true, nil
}

// GetModel resolves a catalog entry by model name.
func (s *CatalogService) GetModel(name string) (*models.ProductModel, error) {
	var model models.ProductModel
	if err := s.db.Where("name = ?", name).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "model"}
		}
		return nil, fmt.Errorf("look up catalog entry: %w", err)
	}
	return &model, nil
}

// ListModels returns all catalog entries ordered by name.
func (s *CatalogService) ListModels() ([]models.ProductModel, error) {
	var entries []models.ProductModel
	if err := s.db.Order("name ASC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list catalog entries: %w", err)
	}
	return entries, nil
}
