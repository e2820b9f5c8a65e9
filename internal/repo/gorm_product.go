package repo

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/shopit/internal/models"
)

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	if p.ID == "" {
		p.ID = newID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if p.Images == nil {
		p.Images = []models.Image{}
	}
	if p.Reviews == nil {
		p.Reviews = []models.Review{}
	}
	if err := r.DB.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var product models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, translateGormErr(err, "")
	}
	return &product, nil
}

func (r *GormRepo) filteredProducts(ctx context.Context, f ProductFilter) *gorm.DB {
	q := r.DB.WithContext(ctx).Model(&models.Product{})
	if f.Keyword != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(f.Keyword)+"%")
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.PriceGTE != nil {
		q = q.Where("price >= ?", *f.PriceGTE)
	}
	if f.PriceLTE != nil {
		q = q.Where("price <= ?", *f.PriceLTE)
	}
	if f.RatingsGTE != nil {
		q = q.Where("ratings >= ?", *f.RatingsGTE)
	}
	return q
}

// ListProducts returns one page of matches and the number of matches before paging.
func (r *GormRepo) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, int64, error) {
	var total int64
	if err := r.filteredProducts(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := r.filteredProducts(ctx, f).Order("created_at ASC").Order("id ASC")
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	items := make([]models.Product, 0)
	if err := q.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *GormRepo) CountProducts(ctx context.Context) (int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *GormRepo) UpdateProduct(ctx context.Context, id string, params UpdateProductParams) (*models.Product, error) {
	prod, err := r.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		prod.Name = *params.Name
	}
	if params.Price != nil {
		prod.Price = *params.Price
	}
	if params.Description != nil {
		prod.Description = *params.Description
	}
	if params.Category != nil {
		prod.Category = *params.Category
	}
	if params.Seller != nil {
		prod.Seller = *params.Seller
	}
	if params.Stock != nil {
		prod.Stock = *params.Stock
	}
	if params.Images != nil {
		prod.Images = *params.Images
	}

	if err := r.DB.WithContext(ctx).Save(prod).Error; err != nil {
		return nil, err
	}
	return prod, nil
}

func (r *GormRepo) SetReviews(ctx context.Context, id string, reviews []models.Review, ratings float64) (*models.Product, error) {
	prod, err := r.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	prod.Reviews = reviews
	prod.NumOfReviews = len(reviews)
	prod.Ratings = ratings

	if err := r.DB.WithContext(ctx).Save(prod).Error; err != nil {
		return nil, err
	}
	return prod, nil
}

func (r *GormRepo) AdjustStock(ctx context.Context, id string, delta int) error {
	if err := checkID(id); err != nil {
		return err
	}
	res := r.DB.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).
		UpdateColumn("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	res := r.DB.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
