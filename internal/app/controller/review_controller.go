package controller

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/triorate/triorate-backend/internal/app/model"
	"github.com/triorate/triorate-backend/internal/app/service"
	"github.com/triorate/triorate-backend/internal/errors"
	"github.com/triorate/triorate-backend/internal/middleware"
)

type ReviewController struct {
	reviewService *service.ReviewService
}

func NewReviewController(reviewService *service.ReviewService) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
	}
}

// UpsertReviewRequest carries one review for exactly one entity. The three
// selector fields are mutually exclusive; the first one set (movie,
// restaurant, book order) wins.
type UpsertReviewRequest struct {
	MovieID      *uint    `json:"movieID"`
	RestaurantID *uint    `json:"restaurantID"`
	BookID       *uint    `json:"bookID"`
	Rating       *float64 `json:"rating" binding:"required,gte=0,lte=10"`
	Comment      string   `json:"comment"`
}

type DeleteReviewRequest struct {
	MovieID      *uint `json:"movieID"`
	RestaurantID *uint `json:"restaurantID"`
	BookID       *uint `json:"bookID"`
	ReviewID     *uint `json:"reviewID"`
}

// selectorOf resolves which entity a request addresses. ok is false when no
// selector field was set.
func selectorOf(movieID, restaurantID, bookID *uint) (model.Kind, uint, bool) {
	switch {
	case movieID != nil:
		return model.KindMovie, *movieID, true
	case restaurantID != nil:
		return model.KindRestaurant, *restaurantID, true
	case bookID != nil:
		return model.KindBook, *bookID, true
	}
	return "", 0, false
}

// UpsertReview creates or replaces the caller's review on one entity
// POST /api/review
func (ctrl *ReviewController) UpsertReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)
	if !exists || !role.CanReview() {
		log.Warn("Review submission without reviewer privilege", map[string]interface{}{
			"user_id": userID,
			"role":    role,
		})
		errors.Unauthorized(c, "")
		return
	}

	var req UpsertReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid review payload", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "A rating between 0 and 10 is required")
		return
	}

	kind, entityID, ok := selectorOf(req.MovieID, req.RestaurantID, req.BookID)
	if !ok {
		// no entity addressed, nothing to do
		c.Status(http.StatusNoContent)
		return
	}

	entity, outcome, err := ctrl.reviewService.Upsert(c.Request.Context(), kind, entityID, userID, *req.Rating, req.Comment)
	if err != nil {
		if stderrors.Is(err, service.ErrEntityNotFound) {
			errors.NotFound(c, errors.EntityNotFound, fmt.Sprintf("%s not found", kind))
			return
		}
		log.Error("Failed to save review", err, map[string]interface{}{
			"user_id": userID,
			"kind":    string(kind),
			"id":      entityID,
		})
		errors.InternalError(c, "")
		return
	}

	log.Info("Review saved", map[string]interface{}{
		"user_id": userID,
		"kind":    string(kind),
		"id":      entityID,
		"type":    string(outcome),
	})

	c.JSON(http.StatusOK, gin.H{
		string(kind): entity,
		"type":       outcome,
		"label":      entity.Label(),
	})
}

// DeleteReview removes one review from an entity. Without a reviewID the
// caller's own review is targeted; admins may delete any review by id
// DELETE /api/review
func (ctrl *ReviewController) DeleteReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)
	if !exists || !role.CanReview() {
		errors.Unauthorized(c, "")
		return
	}

	var req DeleteReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request body")
		return
	}

	kind, entityID, ok := selectorOf(req.MovieID, req.RestaurantID, req.BookID)
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}

	_, err := ctrl.reviewService.Delete(c.Request.Context(), kind, entityID, req.ReviewID, userID, role.IsAdmin())
	if err != nil {
		switch {
		case stderrors.Is(err, service.ErrEntityNotFound):
			errors.NotFound(c, errors.EntityNotFound, fmt.Sprintf("%s not found", kind))
		case stderrors.Is(err, service.ErrReviewNotFound):
			errors.NotFound(c, errors.ReviewNotFound, fmt.Sprintf("You have not posted a review on that %s", kind))
		case stderrors.Is(err, service.ErrNotReviewOwner):
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthzOwnerOnly, "You do not have permissions to delete that review")
		default:
			log.Error("Failed to delete review", err, map[string]interface{}{
				"user_id": userID,
				"kind":    string(kind),
				"id":      entityID,
			})
			errors.InternalError(c, "")
		}
		return
	}

	log.Info("Review deleted", map[string]interface{}{
		"user_id": userID,
		"kind":    string(kind),
		"id":      entityID,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
}
