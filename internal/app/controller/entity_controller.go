package controller

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/triorate/triorate-backend/internal/app/model"
	"github.com/triorate/triorate-backend/internal/app/service"
	"github.com/triorate/triorate-backend/internal/errors"
	"github.com/triorate/triorate-backend/internal/middleware"
)

// EntityController serves the catalog endpoints. The same handlers run for
// all three kinds; the router binds each kind's routes via the closures
// below.
type EntityController struct {
	entityService *service.EntityService
}

func NewEntityController(entityService *service.EntityService) *EntityController {
	return &EntityController{
		entityService: entityService,
	}
}

type CreateMovieRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	TagLine     string   `json:"tagLine"`
	Genres      []string `json:"genres"`
	ReleaseDate string   `json:"releaseDate"`
	Runtime     int      `json:"runtime"`
	TmdbID      string   `json:"tmdbId"`
	ImdbID      string   `json:"imdbId"`
	ImageURL    string   `json:"imageUrl"`
	BackdropURL string   `json:"backdropUrl"`
}

type CreateRestaurantRequest struct {
	Name       string   `json:"name" binding:"required"`
	YelpID     string   `json:"yelpId"`
	URL        string   `json:"url"`
	Price      string   `json:"price"`
	Phone      string   `json:"phone"`
	Address    string   `json:"address"`
	City       string   `json:"city"`
	Categories []string `json:"categories"`
	ImageURL   string   `json:"imageUrl"`
}

type CreateBookRequest struct {
	Title         string   `json:"title" binding:"required"`
	ISBN          string   `json:"isbn"`
	GoogleID      string   `json:"googleId"`
	OpenLibraryID string   `json:"openlibraryId"`
	Authors       []string `json:"authors"`
	Subjects      []string `json:"subjects"`
	Description   string   `json:"description"`
	PageCount     int      `json:"pageCount"`
	PublishedDate string   `json:"publishedDate"`
	ImageURL      string   `json:"imageUrl"`
}

// List returns every entity of a kind
// GET /api/v1/{movies,restaurants,books}
func (ctrl *EntityController) List(kind model.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := middleware.GetLoggerFromContext(c)

		data, err := ctrl.entityService.List(c.Request.Context(), kind)
		if err != nil {
			log.Error("Failed to list entities", err, map[string]interface{}{
				"kind": string(kind),
			})
			errors.InternalError(c, "")
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", data)
	}
}

// Get returns one entity with its reviews
// GET /api/v1/{movies,restaurants,books}/:id
func (ctrl *EntityController) Get(kind model.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := middleware.GetLoggerFromContext(c)

		id, ok := parseID(c)
		if !ok {
			return
		}

		entity, err := ctrl.entityService.Get(kind, id)
		if err != nil {
			if stderrors.Is(err, service.ErrEntityNotFound) {
				errors.NotFound(c, errors.EntityNotFound, fmt.Sprintf("%s not found", kind))
				return
			}
			log.Error("Failed to load entity", err, map[string]interface{}{
				"kind": string(kind),
				"id":   id,
			})
			errors.InternalError(c, "")
			return
		}
		c.JSON(http.StatusOK, entity)
	}
}

// CreateMovie adds a movie to the catalog (admin)
// POST /api/v1/movies
func (ctrl *EntityController) CreateMovie(c *gin.Context) {
	var req CreateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Name is required")
		return
	}
	ctrl.create(c, &model.Movie{
		Name:        req.Name,
		Description: req.Description,
		TagLine:     req.TagLine,
		Genres:      req.Genres,
		ReleaseDate: req.ReleaseDate,
		Runtime:     req.Runtime,
		TmdbID:      req.TmdbID,
		ImdbID:      req.ImdbID,
		ImageURL:    req.ImageURL,
		BackdropURL: req.BackdropURL,
	})
}

// CreateRestaurant adds a restaurant to the catalog (admin)
// POST /api/v1/restaurants
func (ctrl *EntityController) CreateRestaurant(c *gin.Context) {
	var req CreateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Name is required")
		return
	}
	ctrl.create(c, &model.Restaurant{
		Name:       req.Name,
		YelpID:     req.YelpID,
		URL:        req.URL,
		Price:      req.Price,
		Phone:      req.Phone,
		Address:    req.Address,
		City:       req.City,
		Categories: req.Categories,
		ImageURL:   req.ImageURL,
	})
}

// CreateBook adds a book to the catalog (admin)
// POST /api/v1/books
func (ctrl *EntityController) CreateBook(c *gin.Context) {
	var req CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Title is required")
		return
	}
	ctrl.create(c, &model.Book{
		Title:         req.Title,
		ISBN:          req.ISBN,
		GoogleID:      req.GoogleID,
		OpenLibraryID: req.OpenLibraryID,
		Authors:       req.Authors,
		Subjects:      req.Subjects,
		Description:   req.Description,
		PageCount:     req.PageCount,
		PublishedDate: req.PublishedDate,
		ImageURL:      req.ImageURL,
	})
}

func (ctrl *EntityController) create(c *gin.Context, target model.ReviewTarget) {
	log := middleware.GetLoggerFromContext(c)

	if err := ctrl.entityService.Create(c.Request.Context(), target); err != nil {
		log.Error("Failed to create entity", err, map[string]interface{}{
			"kind":  string(target.TargetKind()),
			"label": target.Label(),
		})
		errors.RespondWithParsedError(c, err, string(target.TargetKind()))
		return
	}

	log.Info("Entity created", map[string]interface{}{
		"kind":  string(target.TargetKind()),
		"id":    target.TargetID(),
		"label": target.Label(),
	})
	c.JSON(http.StatusCreated, target)
}

// Delete removes one entity and all of its reviews (admin)
// DELETE /api/v1/{movies,restaurants,books}/:id
func (ctrl *EntityController) Delete(kind model.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := middleware.GetLoggerFromContext(c)

		id, ok := parseID(c)
		if !ok {
			return
		}

		if err := ctrl.entityService.Delete(c.Request.Context(), kind, id); err != nil {
			if stderrors.Is(err, service.ErrEntityNotFound) {
				errors.NotFound(c, errors.EntityNotFound, fmt.Sprintf("%s not found", kind))
				return
			}
			log.Error("Failed to delete entity", err, map[string]interface{}{
				"kind": string(kind),
				"id":   id,
			})
			errors.InternalError(c, "")
			return
		}

		log.Info("Entity deleted", map[string]interface{}{
			"kind": string(kind),
			"id":   id,
		})
		c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%s deleted", kind)})
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid id")
		return 0, false
	}
	return uint(id), true
}
