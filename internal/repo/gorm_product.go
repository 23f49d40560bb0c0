package repo

import (
	"context"

	"gorm.io/gorm"

	"devicehub-api/internal/models"
)

// GormProductRepo はProductRepoのMySQL実装
type GormProductRepo struct{ db *gorm.DB }

func NewGormProductRepo(db *gorm.DB) *GormProductRepo {
	return &GormProductRepo{db: db}
}

func (r *GormProductRepo) CreateProduct(ctx context.Context, product *models.Product) error {
	return mapError(r.db.WithContext(ctx).Create(product).Error)
}

func (r *GormProductRepo) GetProduct(ctx context.Context, productID string) (models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", productID).Error; err != nil {
		return models.Product{}, mapError(err)
	}
	return product, nil
}

func (r *GormProductRepo) ListProducts(ctx context.Context, page, perPage int) ([]models.Product, error) {
	page, perPage = normalizePage(page, perPage)
	var products []models.Product
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&products).Error
	return products, mapError(err)
}

func (r *GormProductRepo) UpdateProduct(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"model":    product.Model,
			"name":     product.Name,
			"describe": product.Describe,
		})
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormProductRepo) DeleteProduct(ctx context.Context, productID string) error {
	return mapError(r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", productID).Error)
}
