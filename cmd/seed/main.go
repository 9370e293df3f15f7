package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/triorate/triorate-backend/config"
	"github.com/triorate/triorate-backend/internal/app/model"
	"github.com/triorate/triorate-backend/internal/db"
	"github.com/triorate/triorate-backend/pkg/util"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Seeds the admin account and a starter catalog. An optional XLSX file
// imports additional catalog entries, one sheet per kind (Movies,
// Restaurants, Books).
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	if err := seedAdmin(db.GetDB()); err != nil {
		log.Fatal("Failed to seed admin:", err)
	}

	if err := seedSampleCatalog(db.GetDB()); err != nil {
		log.Fatal("Failed to seed catalog:", err)
	}

	if len(os.Args) > 1 {
		count, err := importCatalogXLSX(db.GetDB(), os.Args[1])
		if err != nil {
			log.Fatal("Failed to import XLSX:", err)
		}
		fmt.Printf("Imported %d catalog entries from %s\n", count, os.Args[1])
	}

	fmt.Println("Seed complete")
}

func seedAdmin(gdb *gorm.DB) error {
	email := getenv("SEED_ADMIN_EMAIL", "admin@triorate.local")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = util.RandomString(16)
		fmt.Printf("Generated admin password: %s\n", password)
	}

	var existing model.User
	err := gdb.Where("email = ?", email).First(&existing).Error
	if err == nil {
		fmt.Println("Admin account already exists, skipping")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return err
	}
	return gdb.Create(&model.User{
		Email:        email,
		PasswordHash: hash,
		Username:     "admin",
		Role:         model.RoleAdmin,
	}).Error
}

func seedSampleCatalog(gdb *gorm.DB) error {
	var count int64
	if err := gdb.Model(&model.Movie{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		fmt.Println("Catalog already seeded, skipping samples")
		return nil
	}

	movies := []model.Movie{
		{Name: "Blade Runner 2049", TagLine: "The key to the future is finally unearthed.", Genres: []string{"Science Fiction", "Drama"}, ReleaseDate: "2017-10-06", Runtime: 164},
		{Name: "Spirited Away", Genres: []string{"Animation", "Fantasy"}, ReleaseDate: "2001-07-20", Runtime: 125},
	}
	restaurants := []model.Restaurant{
		{Name: "Golden Noodle House", Price: "$$", City: "Portland", Categories: []string{"Chinese", "Noodles"}},
		{Name: "La Taqueria", Price: "$", City: "San Francisco", Categories: []string{"Mexican"}},
	}
	books := []model.Book{
		{Title: "The Left Hand of Darkness", Authors: []string{"Ursula K. Le Guin"}, PageCount: 304, PublishedDate: "1969"},
		{Title: "Kitchen Confidential", Authors: []string{"Anthony Bourdain"}, PageCount: 312, PublishedDate: "2000"},
	}

	if err := gdb.Create(&movies).Error; err != nil {
		return err
	}
	if err := gdb.Create(&restaurants).Error; err != nil {
		return err
	}
	return gdb.Create(&books).Error
}

// importCatalogXLSX reads one sheet per kind. Row 1 is the header; the
// first column is the name/title, the second an optional description.
func importCatalogXLSX(gdb *gorm.DB, filePath string) (int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	imported := 0
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return imported, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
		}

		for i, row := range rows {
			if i == 0 || len(row) == 0 || row[0] == "" {
				continue
			}
			name := row[0]
			desc := ""
			if len(row) > 1 {
				desc = row[1]
			}

			var target model.ReviewTarget
			switch sheet {
			case "Movies":
				runtime := 0
				if len(row) > 2 {
					runtime, _ = strconv.Atoi(row[2])
				}
				target = &model.Movie{Name: name, Description: desc, Runtime: runtime}
			case "Restaurants":
				target = &model.Restaurant{Name: name, City: desc}
			case "Books":
				target = &model.Book{Title: name, Description: desc}
			default:
				continue
			}

			if err := gdb.Create(target).Error; err != nil {
				return imported, fmt.Errorf("failed to insert %q from %s: %w", name, sheet, err)
			}
			imported++
		}
	}
	return imported, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
