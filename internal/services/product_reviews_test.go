package services

import (
	"context"
	"testing"

	"storefront-service/internal/domain"
	mysqlrepo "storefront-service/internal/repository/mysql"
	"storefront-service/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newReviewFixture(t *testing.T) (*ProductService, *gorm.DB) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	svc := NewProductService(
		mysqlrepo.NewProductRepository(db, log),
		mysqlrepo.NewCategoryRepository(db),
		mysqlrepo.NewReviewRepository(db),
		log,
	)
	return svc, db
}

func TestProductService_AddReviewOncePerUser(t *testing.T) {
	svc, db := newReviewFixture(t)
	ctx := context.Background()
	ada := testutil.SeedUser(t, db, "ada@example.com", domain.RoleCustomer)
	lamp := testutil.SeedProduct(t, db, "Lamp", "40.00", "0", 3)

	review, err := svc.AddReview(ctx, ada.ID, lamp.ID, ReviewInput{Rating: 5, Comment: "  Bright  "})
	require.NoError(t, err)
	assert.NotZero(t, review.ID)
	assert.Equal(t, "Bright", review.Comment)

	_, err = svc.AddReview(ctx, ada.ID, lamp.ID, ReviewInput{Rating: 1})
	assert.ErrorIs(t, err, ErrAlreadyReviewed)

	var count int64
	require.NoError(t, db.Model(&domain.Review{}).Where("product_id = ?", lamp.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestProductService_AddReviewRejections(t *testing.T) {
	svc, db := newReviewFixture(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, db, "critic@example.com", domain.RoleCustomer)
	active := testutil.SeedProduct(t, db, "Desk", "150.00", "0", 2)
	retired := testutil.SeedProduct(t, db, "Old Desk", "90.00", "0", 2)
	require.NoError(t, db.Model(&domain.Product{}).Where("id = ?", retired.ID).Update("is_active", false).Error)

	tests := []struct {
		name          string
		productID     uint64
		rating        int
		expectedError error
		field         string
	}{
		{name: "rating too low", productID: active.ID, rating: 0, field: "rating"},
		{name: "rating too high", productID: active.ID, rating: 6, field: "rating"},
		{name: "missing product", productID: 999, rating: 4, expectedError: ErrProductNotFound},
		{name: "inactive product", productID: retired.ID, rating: 4, expectedError: ErrProductNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddReview(ctx, user.ID, tt.productID, ReviewInput{Rating: tt.rating})
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestProductService_DetailAggregatesReviews(t *testing.T) {
	svc, db := newReviewFixture(t)
	ctx := context.Background()

	lighting := &domain.Category{Name: "Lighting", Slug: "lighting"}
	require.NoError(t, db.Create(lighting).Error)
	lamp := testutil.SeedProduct(t, db, "Lamp", "40.00", "0", 3)
	bulb := testutil.SeedProduct(t, db, "Bulb", "4.00", "0", 50)
	shade := testutil.SeedProduct(t, db, "Shade", "12.00", "0", 5)
	testutil.SeedProduct(t, db, "Rug", "80.00", "0", 1)
	for _, id := range []uint64{lamp.ID, bulb.ID, shade.ID} {
		require.NoError(t, db.Model(&domain.Product{}).Where("id = ?", id).Update("category_id", lighting.ID).Error)
	}
	require.NoError(t, db.Model(&domain.Product{}).Where("id = ?", shade.ID).Update("is_active", false).Error)

	empty, err := svc.Detail(ctx, lamp.ID)
	require.NoError(t, err)
	assert.True(t, empty.AvgRating.IsZero())
	assert.Equal(t, int64(0), empty.ReviewCount)
	assert.NotNil(t, empty.Reviews)

	var last *domain.User
	for i, rating := range []int{5, 4, 4} {
		last = testutil.SeedUser(t, db, "reviewer"+string(rune('a'+i))+"@example.com", domain.RoleCustomer)
		_, err := svc.AddReview(ctx, last.ID, lamp.ID, ReviewInput{Rating: rating})
		require.NoError(t, err)
	}

	detail, err := svc.Detail(ctx, lamp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lamp", detail.Name)
	assert.True(t, dec("4.3").Equal(detail.AvgRating), detail.AvgRating.String())
	assert.Equal(t, int64(3), detail.ReviewCount)
	require.Len(t, detail.Reviews, 3)
	assert.Equal(t, last.ID, detail.Reviews[0].UserID)
	assert.Equal(t, "Test", detail.Reviews[0].FirstName)
	require.Len(t, detail.RelatedProducts, 1)
	assert.Equal(t, bulb.ID, detail.RelatedProducts[0].ID)

	_, err = svc.Detail(ctx, 999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}
