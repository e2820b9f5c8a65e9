package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Skotchmaster/shopit/internal/apperr"
	"github.com/Skotchmaster/shopit/internal/events"
	"github.com/Skotchmaster/shopit/internal/logging"
	"github.com/Skotchmaster/shopit/internal/models"
	"github.com/Skotchmaster/shopit/internal/repo"
	"github.com/Skotchmaster/shopit/internal/search"
	"github.com/Skotchmaster/shopit/internal/util"
)

const (
	MsgProductNotFound = "Product not found"
	MsgReviewNotFound  = "Review not found"
)

type ProductService struct {
	products repo.ProductRepository
	index    search.Index
	events   events.Publisher
	perPage  int
}

// NewProductService accepts a nil index; search then falls back to the
// store's keyword filter.
func NewProductService(products repo.ProductRepository, index search.Index, pub events.Publisher, perPage int) *ProductService {
	if pub == nil {
		pub = events.Nop{}
	}
	if perPage <= 0 {
		perPage = util.DefaultPageSize
	}
	return &ProductService{products: products, index: index, events: pub, perPage: perPage}
}

type ProductQuery struct {
	Keyword    string
	Category   string
	PriceGTE   *float64
	PriceLTE   *float64
	RatingsGTE *float64
	Page       int
}

type ProductPage struct {
	Products              []models.Product
	ProductCount          int64
	FilteredProductsCount int64
	ResPerPage            int
}

type ProductInput struct {
	Name        string
	Price       float64
	Description string
	Category    string
	Seller      string
	Stock       int
	Images      []models.Image
}

func (s *ProductService) List(ctx context.Context, q ProductQuery) (*ProductPage, error) {
	total, err := s.products.CountProducts(ctx)
	if err != nil {
		return nil, err
	}

	offset, limit := util.Calculate(q.Page, s.perPage)
	items, filtered, err := s.products.ListProducts(ctx, repo.ProductFilter{
		Keyword:    q.Keyword,
		Category:   q.Category,
		PriceGTE:   q.PriceGTE,
		PriceLTE:   q.PriceLTE,
		RatingsGTE: q.RatingsGTE,
		Offset:     offset,
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}

	return &ProductPage{
		Products:              items,
		ProductCount:          total,
		FilteredProductsCount: filtered,
		ResPerPage:            limit,
	}, nil
}

// Search runs a full text query against the search index, or a keyword
// listing when no index is configured or the index call fails.
func (s *ProductService) Search(ctx context.Context, query string, page, size int) (int64, []models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "product.search")
	if size <= 0 {
		size = s.perPage
	}
	offset, limit := util.Calculate(page, size)

	if s.index != nil {
		total, items, err := s.index.Search(ctx, query, offset, limit)
		if err == nil {
			return total, items, nil
		}
		l.Error("search_index_failed", "error", err)
	}

	items, total, err := s.products.ListProducts(ctx, repo.ProductFilter{Keyword: query, Offset: offset, Limit: limit})
	if err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.products.GetProduct(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, apperr.NotFound(MsgProductNotFound)
	}
	return p, err
}

func validateProduct(in ProductInput) error {
	if in.Category != "" && !models.ValidCategory(in.Category) {
		return apperr.Validation("Please select correct category for product")
	}
	if in.Price < 0 {
		return apperr.Validation("Product price cannot be negative")
	}
	if in.Stock < 0 {
		return apperr.Validation("Product stock cannot be negative")
	}
	return nil
}

func (s *ProductService) Create(ctx context.Context, userID string, in ProductInput) (*models.Product, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}

	p, err := s.products.CreateProduct(ctx, &models.Product{
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
		Category:    in.Category,
		Seller:      in.Seller,
		Stock:       in.Stock,
		Images:      in.Images,
		User:        userID,
	})
	if err != nil {
		return nil, err
	}

	s.reindex(ctx, p)
	events.Emit(ctx, s.events, events.TopicProducts, "product.created", p.ID, map[string]any{"name": p.Name, "price": p.Price})
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, id string, params repo.UpdateProductParams) (*models.Product, error) {
	in := ProductInput{}
	if params.Category != nil {
		in.Category = *params.Category
	}
	if params.Price != nil {
		in.Price = *params.Price
	}
	if params.Stock != nil {
		in.Stock = *params.Stock
	}
	if err := validateProduct(in); err != nil {
		return nil, err
	}

	p, err := s.products.UpdateProduct(ctx, id, params)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, apperr.NotFound(MsgProductNotFound)
	}
	if err != nil {
		return nil, err
	}

	s.reindex(ctx, p)
	events.Emit(ctx, s.events, events.TopicProducts, "product.updated", p.ID, nil)
	return p, nil
}

// Delete removes the product named by id.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	err := s.products.DeleteProduct(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return apperr.NotFound(MsgProductNotFound)
	}
	if err != nil {
		return err
	}

	if s.index != nil {
		if err := s.index.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Error("search_delete_failed", "product_id", id, "error", err)
		}
	}
	events.Emit(ctx, s.events, events.TopicProducts, "product.deleted", id, nil)
	return nil
}

func (s *ProductService) reindex(ctx context.Context, p *models.Product) {
	if s.index == nil {
		return
	}
	if err := s.index.IndexProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Error("search_index_failed", "product_id", p.ID, "error", err)
	}
}

// UpsertReview adds the user's review or replaces the one they already left,
// then recomputes the product's average rating.
func (s *ProductService) UpsertReview(ctx context.Context, user *models.User, productID string, rating float64, comment string) (*models.Product, error) {
	if rating < 1 || rating > 5 {
		return nil, apperr.Validation("Rating must be between 1 and 5")
	}

	p, err := s.Get(ctx, productID)
	if err != nil {
		return nil, err
	}

	reviews := append([]models.Review(nil), p.Reviews...)
	replaced := false
	for i := range reviews {
		if reviews[i].User == user.ID {
			reviews[i].Rating = rating
			reviews[i].Comment = comment
			reviews[i].Name = user.Name
			replaced = true
			break
		}
	}
	if !replaced {
		reviews = append(reviews, models.Review{
			ID:      uuid.NewString(),
			User:    user.ID,
			Name:    user.Name,
			Rating:  rating,
			Comment: comment,
		})
	}

	updated, err := s.products.SetReviews(ctx, p.ID, reviews, averageRating(reviews))
	if err != nil {
		return nil, err
	}
	s.reindex(ctx, updated)
	return updated, nil
}

func (s *ProductService) Reviews(ctx context.Context, productID string) ([]models.Review, error) {
	p, err := s.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.Reviews == nil {
		return []models.Review{}, nil
	}
	return p.Reviews, nil
}

// DeleteReview lets the review's author or an admin remove it.
func (s *ProductService) DeleteReview(ctx context.Context, user *models.User, productID, reviewID string) (*models.Product, error) {
	p, err := s.Get(ctx, productID)
	if err != nil {
		return nil, err
	}

	reviews := make([]models.Review, 0, len(p.Reviews))
	var target *models.Review
	for i := range p.Reviews {
		if p.Reviews[i].ID == reviewID {
			target = &p.Reviews[i]
			continue
		}
		reviews = append(reviews, p.Reviews[i])
	}
	if target == nil {
		return nil, apperr.NotFound(MsgReviewNotFound)
	}
	if target.User != user.ID && user.Role != models.RoleAdmin {
		return nil, apperr.Forbidden(fmt.Sprintf("Role (%s) is not allowed to delete this review", user.Role))
	}

	updated, err := s.products.SetReviews(ctx, p.ID, reviews, averageRating(reviews))
	if err != nil {
		return nil, err
	}
	s.reindex(ctx, updated)
	return updated, nil
}

func averageRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum float64
	for _, r := range reviews {
		sum += r.Rating
	}
	return sum / float64(len(reviews))
}
