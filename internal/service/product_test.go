package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shopit/internal/apperr"
	"github.com/Skotchmaster/shopit/internal/models"
	"github.com/Skotchmaster/shopit/internal/repo"
)

func seedCatalog(t *testing.T, svc *ProductService, n int) []*models.Product {
	t.Helper()
	out := make([]*models.Product, 0, n)
	for i := 0; i < n; i++ {
		p, err := svc.Create(context.Background(), uuid.NewString(), ProductInput{
			Name:        fmt.Sprintf("Camera %d", i),
			Price:       float64(100 * (i + 1)),
			Description: "a camera",
			Category:    "Cameras",
			Seller:      "Sony",
			Stock:       10,
		})
		require.NoError(t, err)
		out = append(out, p)
	}
	return out
}

func TestProductService_ListPaginates(t *testing.T) {
	store := newTestStore(t)
	svc := NewProductService(store, nil, nil, 4)
	seedCatalog(t, svc, 6)
	ctx := context.Background()

	page, err := svc.List(ctx, ProductQuery{Page: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 6, page.ProductCount)
	assert.EqualValues(t, 6, page.FilteredProductsCount)
	assert.Equal(t, 4, page.ResPerPage)
	assert.Len(t, page.Products, 2)

	lte := 250.0
	page, err = svc.List(ctx, ProductQuery{PriceLTE: &lte})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.FilteredProductsCount)
	assert.EqualValues(t, 6, page.ProductCount)
}

func TestProductService_CRUDAndIndex(t *testing.T) {
	store := newTestStore(t)
	idx := newFakeIndex()
	pub := &recordingPublisher{}
	svc := NewProductService(store, idx, pub, 4)
	ctx := context.Background()

	_, err := svc.Create(ctx, uuid.NewString(), ProductInput{Name: "X", Category: "Toys"})
	requireAppErr(t, err, apperr.KindValidation, "Please select correct category for product")

	p := seedCatalog(t, svc, 1)[0]
	assert.Contains(t, idx.indexed, p.ID)

	name := "Renamed"
	updated, err := svc.Update(ctx, p.ID, repo.UpdateProductParams{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "Renamed", idx.indexed[p.ID].Name)

	missing := uuid.NewString()
	_, err = svc.Update(ctx, missing, repo.UpdateProductParams{Name: &name})
	requireAppErr(t, err, apperr.KindNotFound, MsgProductNotFound)

	require.NoError(t, svc.Delete(ctx, p.ID))
	assert.Equal(t, []string{p.ID}, idx.deleted)
	_, err = svc.Get(ctx, p.ID)
	requireAppErr(t, err, apperr.KindNotFound, MsgProductNotFound)

	err = svc.Delete(ctx, p.ID)
	requireAppErr(t, err, apperr.KindNotFound, MsgProductNotFound)

	assert.Equal(t, []string{"product.created", "product.updated", "product.deleted"}, pub.types())
}

func TestProductService_SearchFallsBackToStore(t *testing.T) {
	store := newTestStore(t)
	idx := newFakeIndex()
	svc := NewProductService(store, idx, nil, 4)
	seedCatalog(t, svc, 3)
	ctx := context.Background()

	total, items, err := svc.Search(ctx, "camera", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, items, 3)

	idx.err = errors.New("index unavailable")
	total, items, err = svc.Search(ctx, "Camera 1", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Camera 1", items[0].Name)

	plain := NewProductService(store, nil, nil, 4)
	total, _, err = plain.Search(ctx, "camera", 1, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
}

func TestProductService_Reviews(t *testing.T) {
	store := newTestStore(t)
	svc := NewProductService(store, nil, nil, 4)
	p := seedCatalog(t, svc, 1)[0]
	ctx := context.Background()

	alice := &models.User{ID: uuid.NewString(), Name: "Alice", Role: models.RoleUser}
	bob := &models.User{ID: uuid.NewString(), Name: "Bob", Role: models.RoleUser}
	admin := &models.User{ID: uuid.NewString(), Name: "Root", Role: models.RoleAdmin}

	_, err := svc.UpsertReview(ctx, alice, p.ID, 9, "")
	requireAppErr(t, err, apperr.KindValidation, "Rating must be between 1 and 5")

	_, err = svc.UpsertReview(ctx, alice, p.ID, 4, "good")
	require.NoError(t, err)
	updated, err := svc.UpsertReview(ctx, bob, p.ID, 2, "meh")
	require.NoError(t, err)
	assert.Equal(t, 2, updated.NumOfReviews)
	assert.Equal(t, 3.0, updated.Ratings)

	updated, err = svc.UpsertReview(ctx, alice, p.ID, 5, "great")
	require.NoError(t, err)
	assert.Equal(t, 2, updated.NumOfReviews)
	assert.Equal(t, 3.5, updated.Ratings)

	reviews, err := svc.Reviews(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	aliceReview := reviews[0]
	assert.Equal(t, alice.ID, aliceReview.User)
	assert.Equal(t, "great", aliceReview.Comment)

	_, err = svc.DeleteReview(ctx, bob, p.ID, aliceReview.ID)
	requireAppErr(t, err, apperr.KindForbidden, "Role (user) is not allowed to delete this review")

	_, err = svc.DeleteReview(ctx, alice, p.ID, uuid.NewString())
	requireAppErr(t, err, apperr.KindNotFound, MsgReviewNotFound)

	updated, err = svc.DeleteReview(ctx, admin, p.ID, aliceReview.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.NumOfReviews)
	assert.Equal(t, 2.0, updated.Ratings)

	updated, err = svc.DeleteReview(ctx, bob, p.ID, updated.Reviews[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.NumOfReviews)
	assert.Equal(t, 0.0, updated.Ratings)
}
