package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/triorate/triorate-backend/internal/app/model"
	"github.com/triorate/triorate-backend/internal/app/repository"
	"github.com/triorate/triorate-backend/internal/db"
	"gorm.io/gorm"
)

func setupEntityServiceTest(t *testing.T) (*gorm.DB, *EntityService) {
	gdb, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(gdb) })

	svc := NewEntityService(repository.NewEntityRepository(gdb), nil)
	return gdb, svc
}

func TestEntityService_List(t *testing.T) {
	gdb, svc := setupEntityServiceTest(t)
	require.NoError(t, gdb.Create(&model.Restaurant{Name: "Golden Noodle House"}).Error)
	require.NoError(t, gdb.Create(&model.Restaurant{Name: "La Taqueria"}).Error)

	data, err := svc.List(context.Background(), model.KindRestaurant)
	require.NoError(t, err)

	var restaurants []model.Restaurant
	require.NoError(t, json.Unmarshal(data, &restaurants))
	assert.Len(t, restaurants, 2)
}

func TestEntityService_Get_NotFound(t *testing.T) {
	_, svc := setupEntityServiceTest(t)

	_, err := svc.Get(model.KindBook, 777)
	assert.ErrorIs(t, err, ErrEntityNotFound)
}

func TestEntityService_Create(t *testing.T) {
	_, svc := setupEntityServiceTest(t)

	book := &model.Book{Title: "The Left Hand of Darkness"}
	require.NoError(t, svc.Create(context.Background(), book))
	assert.NotZero(t, book.ID)

	loaded, err := svc.Get(model.KindBook, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "The Left Hand of Darkness", loaded.Label())
}

func TestEntityService_Delete_CascadesReviews(t *testing.T) {
	gdb, svc := setupEntityServiceTest(t)
	user := createTestUser(t, gdb, "alice", model.RoleReviewer)
	movie := createTestMovie(t, gdb, "Arrival")

	reviewSvc := NewReviewService(repository.NewEntityRepository(gdb), nil, nil, nil)
	_, _, err := reviewSvc.Upsert(context.Background(), model.KindMovie, movie.ID, user.ID, 8, "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), model.KindMovie, movie.ID))

	_, err = svc.Get(model.KindMovie, movie.ID)
	assert.ErrorIs(t, err, ErrEntityNotFound)

	var orphans int64
	require.NoError(t, gdb.Model(&model.Review{}).
		Where("subject_type = ? AND subject_id = ?", "movies", movie.ID).
		Count(&orphans).Error)
	assert.Zero(t, orphans)
}
