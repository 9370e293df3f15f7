package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/triorate/triorate-backend/internal/app/model"
	"github.com/triorate/triorate-backend/internal/app/repository"
	"github.com/triorate/triorate-backend/internal/cache"
	"github.com/triorate/triorate-backend/internal/websocket"
	"github.com/triorate/triorate-backend/pkg/logger"
	"github.com/triorate/triorate-backend/pkg/notify/discord"
	"gorm.io/gorm"
)

var (
	ErrEntityNotFound = errors.New("entity not found")
	ErrReviewNotFound = errors.New("review not found")
	ErrNotReviewOwner = errors.New("not the review owner")
)

// ReviewOutcome tells the caller whether an upsert created a new review or
// replaced the author's existing one.
type ReviewOutcome string

const (
	OutcomeAddition     ReviewOutcome = "addition"
	OutcomeModification ReviewOutcome = "modification"
	OutcomeDeletion     ReviewOutcome = "deletion"
)

// ReviewEvent is broadcast over the WebSocket feed after every committed
// review mutation.
type ReviewEvent struct {
	Event    string        `json:"event"`
	Type     ReviewOutcome `json:"type"`
	Kind     model.Kind    `json:"kind"`
	EntityID uint          `json:"entityId"`
	Label    string        `json:"label"`
	Rating   float64       `json:"rating"`
}

// ReviewService owns the review lifecycle on every entity kind: upsert,
// delete and the aggregate bookkeeping both share. The cache, hub and
// webhook are optional; a nil value disables that fan-out.
type ReviewService struct {
	entityRepo *repository.EntityRepository
	cache      *cache.EntityCache
	hub        *websocket.Hub
	webhook    *discord.Client
}

func NewReviewService(entityRepo *repository.EntityRepository, entityCache *cache.EntityCache, hub *websocket.Hub, webhook *discord.Client) *ReviewService {
	return &ReviewService{
		entityRepo: entityRepo,
		cache:      entityCache,
		hub:        hub,
		webhook:    webhook,
	}
}

// Upsert records a user's review on an entity. A user holds at most one
// review per entity: an existing review by the same author is removed from
// its position and the new one appended at the tail with a fresh id, so the
// review list stays ordered by recency of (re)submission.
func (s *ReviewService) Upsert(ctx context.Context, kind model.Kind, entityID, userID uint, rating float64, comment string) (model.ReviewTarget, ReviewOutcome, error) {
	target, err := s.entityRepo.FindByKind(kind, entityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrEntityNotFound
		}
		return nil, "", fmt.Errorf("failed to load %s %d: %w", kind, entityID, err)
	}

	reviews := target.ReviewList()
	outcome := OutcomeAddition
	var removed *model.Review
	for i := range reviews {
		if reviews[i].UserID == userID {
			prior := reviews[i]
			removed = &prior
			reviews = append(reviews[:i], reviews[i+1:]...)
			outcome = OutcomeModification
			break
		}
	}

	added := model.Review{
		UserID:  userID,
		Rating:  rating,
		Comment: comment,
	}
	reviews = append(reviews, added)

	target.SetReviewList(reviews)
	target.SetAggregate(aggregateRating(reviews), len(reviews))

	if err := s.entityRepo.ApplyReviewMutation(target, removed, &added); err != nil {
		return nil, "", fmt.Errorf("failed to save review: %w", err)
	}

	// reload so the response carries store-assigned ids and review authors
	fresh, err := s.entityRepo.FindByKind(kind, entityID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to reload %s %d: %w", kind, entityID, err)
	}

	s.fanOut(ctx, fresh, outcome, rating)
	return fresh, outcome, nil
}

// Delete removes one review from an entity. When reviewID is non-nil only
// that exact review matches; otherwise the caller's own review is targeted.
// Only the review's author or an admin may delete it.
func (s *ReviewService) Delete(ctx context.Context, kind model.Kind, entityID uint, reviewID *uint, callerID uint, isAdmin bool) (model.ReviewTarget, error) {
	target, err := s.entityRepo.FindByKind(kind, entityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntityNotFound
		}
		return nil, fmt.Errorf("failed to load %s %d: %w", kind, entityID, err)
	}

	reviews := target.ReviewList()
	idx := -1
	for i := range reviews {
		if reviewID != nil {
			if reviews[i].ID == *reviewID {
				idx = i
				break
			}
			continue
		}
		if reviews[i].UserID == callerID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrReviewNotFound
	}

	removed := reviews[idx]
	if removed.UserID != callerID && !isAdmin {
		return nil, ErrNotReviewOwner
	}

	reviews = append(reviews[:idx], reviews[idx+1:]...)
	target.SetReviewList(reviews)
	target.SetAggregate(aggregateRating(reviews), len(reviews))

	if err := s.entityRepo.ApplyReviewMutation(target, &removed, nil); err != nil {
		return nil, fmt.Errorf("failed to delete review: %w", err)
	}

	fresh, err := s.entityRepo.FindByKind(kind, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload %s %d: %w", kind, entityID, err)
	}

	s.fanOut(ctx, fresh, OutcomeDeletion, removed.Rating)
	return fresh, nil
}

// aggregateRating is the arithmetic mean rounded to one decimal place, 0
// when there are no reviews.
func aggregateRating(reviews []model.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum float64
	for _, r := range reviews {
		sum += r.Rating
	}
	return math.Round(sum/float64(len(reviews))*10) / 10
}

// fanOut invalidates the list cache, broadcasts to the WebSocket feed and
// announces on Discord. All three are best-effort.
func (s *ReviewService) fanOut(ctx context.Context, target model.ReviewTarget, outcome ReviewOutcome, rating float64) {
	kind := target.TargetKind()
	if s.cache != nil {
		s.cache.Invalidate(ctx, kind)
	}
	if s.hub != nil {
		s.hub.Broadcast(ReviewEvent{
			Event:    "review",
			Type:     outcome,
			Kind:     kind,
			EntityID: target.TargetID(),
			Label:    target.Label(),
			Rating:   rating,
		})
	}
	if s.webhook != nil {
		msg := reviewWebhookMessage(target, outcome, rating)
		go func() {
			sendCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.webhook.Send(sendCtx, msg); err != nil {
				logger.Warn("Discord webhook delivery failed", map[string]interface{}{
					"kind":  string(kind),
					"error": err.Error(),
				})
			}
		}()
	}
}

func reviewWebhookMessage(target model.ReviewTarget, outcome ReviewOutcome, rating float64) discord.WebhookMessage {
	var title string
	color := discord.ColorGreen
	switch outcome {
	case OutcomeModification:
		title = fmt.Sprintf("Review updated on %s", target.Label())
		color = discord.ColorOrange
	case OutcomeDeletion:
		title = fmt.Sprintf("Review deleted from %s", target.Label())
		color = discord.ColorRed
	default:
		title = fmt.Sprintf("New review on %s", target.Label())
	}

	avgRating, numReviews := target.Aggregates()
	return discord.WebhookMessage{
		Embeds: []discord.Embed{{
			Title: title,
			Color: color,
			Fields: []discord.EmbedField{
				{Name: "Kind", Value: string(target.TargetKind()), Inline: true},
				{Name: "Rating", Value: fmt.Sprintf("%.1f / 10", rating), Inline: true},
				{Name: "Average", Value: fmt.Sprintf("%.1f (%d reviews)", avgRating, numReviews), Inline: true},
			},
		}},
	}
}
