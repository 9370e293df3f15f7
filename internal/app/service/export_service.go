package service

import (
	"fmt"
	"time"

	"github.com/triorate/triorate-backend/internal/app/model"
	"github.com/triorate/triorate-backend/internal/app/repository"
	"github.com/xuri/excelize/v2"
)

// ExportService builds the admin XLSX dump of every review across all
// entity kinds.
type ExportService struct {
	entityRepo *repository.EntityRepository
}

func NewExportService(entityRepo *repository.EntityRepository) *ExportService {
	return &ExportService{entityRepo: entityRepo}
}

var exportHeader = []string{"Kind", "Entry", "Reviewer", "Rating", "Comment", "Posted At"}

// BuildReviewWorkbook assembles one sheet per entity kind, each listing
// that kind's reviews. The caller owns closing the returned file.
func (s *ExportService) BuildReviewWorkbook() (*excelize.File, error) {
	f := excelize.NewFile()

	for i, kind := range model.Kinds {
		sheet := sheetNameFor(kind)
		if i == 0 {
			f.SetSheetName(f.GetSheetName(0), sheet)
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, fmt.Errorf("failed to create sheet %s: %w", sheet, err)
			}
		}

		if err := writeRow(f, sheet, 1, exportHeader); err != nil {
			return nil, err
		}

		targets, err := s.targetsOf(kind)
		if err != nil {
			return nil, err
		}

		row := 2
		for _, target := range targets {
			for _, review := range target.ReviewList() {
				cells := []string{
					string(kind),
					target.Label(),
					review.User.Username,
					fmt.Sprintf("%.1f", review.Rating),
					review.Comment,
					review.CreatedAt.Format(time.RFC3339),
				}
				if err := writeRow(f, sheet, row, cells); err != nil {
					return nil, err
				}
				row++
			}
		}
	}

	return f, nil
}

func (s *ExportService) targetsOf(kind model.Kind) ([]model.ReviewTarget, error) {
	list, err := s.entityRepo.ListByKind(kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list %ss for export: %w", kind, err)
	}
	var targets []model.ReviewTarget
	switch entities := list.(type) {
	case []model.Movie:
		for i := range entities {
			targets = append(targets, &entities[i])
		}
	case []model.Restaurant:
		for i := range entities {
			targets = append(targets, &entities[i])
		}
	case []model.Book:
		for i := range entities {
			targets = append(targets, &entities[i])
		}
	}
	return targets, nil
}

func sheetNameFor(kind model.Kind) string {
	switch kind {
	case model.KindMovie:
		return "Movies"
	case model.KindRestaurant:
		return "Restaurants"
	case model.KindBook:
		return "Books"
	}
	return string(kind)
}

func writeRow(f *excelize.File, sheet string, row int, cells []string) error {
	for col, value := range cells {
		name, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, name, value); err != nil {
			return fmt.Errorf("failed to write cell %s!%s: %w", sheet, name, err)
		}
	}
	return nil
}
