package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/triorate/triorate-backend/internal/app/model"
	"github.com/triorate/triorate-backend/internal/app/repository"
	"github.com/triorate/triorate-backend/internal/db"
	"gorm.io/gorm"
)

func setupReviewServiceTest(t *testing.T) (*gorm.DB, *ReviewService) {
	gdb, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(gdb) })

	entityRepo := repository.NewEntityRepository(gdb)
	svc := NewReviewService(entityRepo, nil, nil, nil)
	return gdb, svc
}

func createTestUser(t *testing.T, gdb *gorm.DB, username string, role model.UserRole) *model.User {
	user := &model.User{
		Email:        username + "@example.com",
		PasswordHash: "hash",
		Username:     username,
		Role:         role,
	}
	require.NoError(t, gdb.Create(user).Error)
	return user
}

func createTestMovie(t *testing.T, gdb *gorm.DB, name string) *model.Movie {
	movie := &model.Movie{Name: name}
	require.NoError(t, gdb.Create(movie).Error)
	return movie
}

func TestReviewService_Upsert_Addition(t *testing.T) {
	gdb, svc := setupReviewServiceTest(t)
	user := createTestUser(t, gdb, "alice", model.RoleReviewer)
	movie := createTestMovie(t, gdb, "Arrival")

	entity, outcome, err := svc.Upsert(context.Background(), model.KindMovie, movie.ID, user.ID, 8, "stunning")
	require.NoError(t, err)

	assert.Equal(t, OutcomeAddition, outcome)
	rating, numReviews := entity.Aggregates()
	assert.Equal(t, 8.0, rating)
	assert.Equal(t, 1, numReviews)

	reviews := entity.ReviewList()
	require.Len(t, reviews, 1)
	assert.Equal(t, user.ID, reviews[0].UserID)
	assert.Equal(t, 8.0, reviews[0].Rating)
	assert.Equal(t, "stunning", reviews[0].Comment)
	assert.Equal(t, "alice", reviews[0].User.Username)
}

func TestReviewService_Upsert_ReplacesOwnReview(t *testing.T) {
	gdb, svc := setupReviewServiceTest(t)
	alice := createTestUser(t, gdb, "alice", model.RoleReviewer)
	bob := createTestUser(t, gdb, "bob", model.RoleReviewer)
	movie := createTestMovie(t, gdb, "Arrival")

	_, _, err := svc.Upsert(context.Background(), model.KindMovie, movie.ID, alice.ID, 6, "first pass")
	require.NoError(t, err)
	_, _, err = svc.Upsert(context.Background(), model.KindMovie, movie.ID, bob.ID, 9, "")
	require.NoError(t, err)

	entity, err := repository.NewEntityRepository(gdb).FindByKind(model.KindMovie, movie.ID)
	require.NoError(t, err)
	firstID := entity.ReviewList()[0].ID

	// alice resubmits; her review moves to the tail with a fresh id
	entity, outcome, err := svc.Upsert(context.Background(), model.KindMovie, movie.ID, alice.ID, 10, "rewatched it")
	require.NoError(t, err)

	assert.Equal(t, OutcomeModification, outcome)
	reviews := entity.ReviewList()
	require.Len(t, reviews, 2)
	assert.Equal(t, bob.ID, reviews[0].UserID)
	assert.Equal(t, alice.ID, reviews[1].UserID)
	assert.Equal(t, 10.0, reviews[1].Rating)
	assert.Equal(t, "rewatched it", reviews[1].Comment)
	assert.NotEqual(t, firstID, reviews[1].ID)

	_, numReviews := entity.Aggregates()
	assert.Equal(t, 2, numReviews)

	// the store holds exactly one row per author, no duplicates
	var rows int64
	require.NoError(t, gdb.Model(&model.Review{}).
		Where("subject_type = ? AND subject_id = ?", "movies", movie.ID).
		Count(&rows).Error)
	assert.EqualValues(t, 2, rows)
}

func TestReviewService_Upsert_AggregateRounding(t *testing.T) {
	gdb, svc := setupReviewServiceTest(t)
	movie := createTestMovie(t, gdb, "Arrival")

	users := []*model.User{
		createTestUser(t, gdb, "u1", model.RoleReviewer),
		createTestUser(t, gdb, "u2", model.RoleReviewer),
		createTestUser(t, gdb, "u3", model.RoleReviewer),
	}

	_, _, err := svc.Upsert(context.Background(), model.KindMovie, movie.ID, users[0].ID, 7, "")
	require.NoError(t, err)
	entity, _, err := svc.Upsert(context.Background(), model.KindMovie, movie.ID, users[1].ID, 8, "")
	require.NoError(t, err)

	rating, _ := entity.Aggregates()
	assert.Equal(t, 7.5, rating)

	// (7+8+7)/3 = 7.333... rounds to one decimal
	entity, _, err = svc.Upsert(context.Background(), model.KindMovie, movie.ID, users[2].ID, 7, "")
	require.NoError(t, err)
	rating, _ = entity.Aggregates()
	assert.Equal(t, 7.3, rating)
}

func TestReviewService_Upsert_EntityNotFound(t *testing.T) {
	gdb, svc := setupReviewServiceTest(t)
	user := createTestUser(t, gdb, "alice", model.RoleReviewer)

	_, _, err := svc.Upsert(context.Background(), model.KindMovie, 9999, user.ID, 5, "")
	assert.ErrorIs(t, err, ErrEntityNotFound)
}

func TestReviewService_Delete_OwnReview(t *testing.T) {
	gdb, svc := setupReviewServiceTest(t)
	user := createTestUser(t, gdb, "alice", model.RoleReviewer)
	movie := createTestMovie(t, gdb, "Arrival")

	_, _, err := svc.Upsert(context.Background(), model.KindMovie, movie.ID, user.ID, 8, "")
	require.NoError(t, err)

	entity, err := svc.Delete(context.Background(), model.KindMovie, movie.ID, nil, user.ID, false)
	require.NoError(t, err)

	rating, numReviews := entity.Aggregates()
	assert.Equal(t, 0.0, rating)
	assert.Equal(t, 0, numReviews)
	assert.Empty(t, entity.ReviewList())

	var rows int64
	require.NoError(t, gdb.Model(&model.Review{}).
		Where("subject_type = ? AND subject_id = ?", "movies", movie.ID).
		Count(&rows).Error)
	assert.Zero(t, rows)
}

func TestReviewService_Delete_NoReviewPosted(t *testing.T) {
	gdb, svc := setupReviewServiceTest(t)
	alice := createTestUser(t, gdb, "alice", model.RoleReviewer)
	bob := createTestUser(t, gdb, "bob", model.RoleReviewer)
	movie := createTestMovie(t, gdb, "Arrival")

	_, _, err := svc.Upsert(context.Background(), model.KindMovie, movie.ID, alice.ID, 8, "")
	require.NoError(t, err)

	// bob never reviewed this movie
	_, err = svc.Delete(context.Background(), model.KindMovie, movie.ID, nil, bob.ID, false)
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestReviewService_Delete_ByReviewID(t *testing.T) {
	gdb, svc := setupReviewServiceTest(t)
	alice := createTestUser(t, gdb, "alice", model.RoleReviewer)
	bob := createTestUser(t, gdb, "bob", model.RoleReviewer)
	admin := createTestUser(t, gdb, "root", model.RoleAdmin)
	movie := createTestMovie(t, gdb, "Arrival")

	entity, _, err := svc.Upsert(context.Background(), model.KindMovie, movie.ID, alice.ID, 8, "")
	require.NoError(t, err)
	aliceReviewID := entity.ReviewList()[0].ID

	// another reviewer cannot delete alice's review
	_, err = svc.Delete(context.Background(), model.KindMovie, movie.ID, &aliceReviewID, bob.ID, false)
	assert.ErrorIs(t, err, ErrNotReviewOwner)

	// an admin can
	entity, err = svc.Delete(context.Background(), model.KindMovie, movie.ID, &aliceReviewID, admin.ID, true)
	require.NoError(t, err)
	assert.Empty(t, entity.ReviewList())
}

func TestReviewService_Delete_UnknownReviewID(t *testing.T) {
	gdb, svc := setupReviewServiceTest(t)
	alice := createTestUser(t, gdb, "alice", model.RoleReviewer)
	movie := createTestMovie(t, gdb, "Arrival")

	_, _, err := svc.Upsert(context.Background(), model.KindMovie, movie.ID, alice.ID, 8, "")
	require.NoError(t, err)

	missing := uint(4242)
	_, err = svc.Delete(context.Background(), model.KindMovie, movie.ID, &missing, alice.ID, false)
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestReviewService_KindsAreIsolated(t *testing.T) {
	gdb, svc := setupReviewServiceTest(t)
	user := createTestUser(t, gdb, "alice", model.RoleReviewer)
	movie := createTestMovie(t, gdb, "Arrival")
	book := &model.Book{Title: "Story of Your Life"}
	require.NoError(t, gdb.Create(book).Error)

	_, _, err := svc.Upsert(context.Background(), model.KindMovie, movie.ID, user.ID, 8, "")
	require.NoError(t, err)
	bookEntity, outcome, err := svc.Upsert(context.Background(), model.KindBook, book.ID, user.ID, 9, "")
	require.NoError(t, err)

	// a review on the movie never counts as the user's book review
	assert.Equal(t, OutcomeAddition, outcome)
	_, numReviews := bookEntity.Aggregates()
	assert.Equal(t, 1, numReviews)

	movieEntity, err := repository.NewEntityRepository(gdb).FindByKind(model.KindMovie, movie.ID)
	require.NoError(t, err)
	_, numReviews = movieEntity.Aggregates()
	assert.Equal(t, 1, numReviews)
}
