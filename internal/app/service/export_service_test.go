package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/triorate/triorate-backend/internal/app/model"
	"github.com/triorate/triorate-backend/internal/app/repository"
	"github.com/triorate/triorate-backend/internal/db"
)

func TestExportService_BuildReviewWorkbook(t *testing.T) {
	gdb, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(gdb) })

	entityRepo := repository.NewEntityRepository(gdb)
	reviewSvc := NewReviewService(entityRepo, nil, nil, nil)

	alice := createTestUser(t, gdb, "alice", model.RoleReviewer)
	movie := createTestMovie(t, gdb, "Arrival")
	book := &model.Book{Title: "Story of Your Life"}
	require.NoError(t, gdb.Create(book).Error)

	_, _, err = reviewSvc.Upsert(context.Background(), model.KindMovie, movie.ID, alice.ID, 8, "great")
	require.NoError(t, err)
	_, _, err = reviewSvc.Upsert(context.Background(), model.KindBook, book.ID, alice.ID, 9, "better")
	require.NoError(t, err)

	f, err := NewExportService(entityRepo).BuildReviewWorkbook()
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Movies", "Restaurants", "Books"}, f.GetSheetList())

	rows, err := f.GetRows("Movies")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Kind", "Entry", "Reviewer", "Rating", "Comment", "Posted At"}, rows[0][:6])
	assert.Equal(t, "Arrival", rows[1][1])
	assert.Equal(t, "alice", rows[1][2])
	assert.Equal(t, "8.0", rows[1][3])

	rows, err = f.GetRows("Restaurants")
	require.NoError(t, err)
	require.Len(t, rows, 1) // header only

	rows, err = f.GetRows("Books")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Story of Your Life", rows[1][1])
}
