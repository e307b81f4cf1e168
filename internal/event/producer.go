package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/internal/domain"
	pkgkafka "github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/kafka"
)

// Kafka topics for catalog events.
var (
	TopicDrinkCreated  = pkgkafka.Topic(AggregateTypeDrink, "created")
	TopicDrinkUpdated  = pkgkafka.Topic(AggregateTypeDrink, "updated")
	TopicDrinkDeleted  = pkgkafka.Topic(AggregateTypeDrink, "deleted")
	TopicDrinkRated    = pkgkafka.Topic(AggregateTypeDrink, "rated")
	TopicDrinkWished   = pkgkafka.Topic(AggregateTypeDrink, "wished")
	TopicReviewCreated = pkgkafka.Topic(AggregateTypeReview, "created")
	TopicReviewUpdated = pkgkafka.Topic(AggregateTypeReview, "updated")
	TopicReviewDeleted = pkgkafka.Topic(AggregateTypeReview, "deleted")
	TopicUserCreated   = pkgkafka.Topic(AggregateTypeUser, "created")
)

// Aggregate type constants.
const (
	AggregateTypeDrink  = "drink"
	AggregateTypeReview = "review"
	AggregateTypeUser   = "user"
)

// Source identifies events originating from this service.
const Source = "drinks-api"

// DrinkData is the payload for drink.created and drink.updated events.
type DrinkData struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	ImageURL     string  `json:"image_url"`
	Type         string  `json:"type"`
	AvgRating    float64 `json:"avg_rating"`
	NumOfReviews int     `json:"num_of_reviews"`
	NumOfWish    int     `json:"num_of_wish"`
}

// DrinkDeletedData is the payload for a drink.deleted event.
type DrinkDeletedData struct {
	ID string `json:"id"`
}

// DrinkRatedData is the payload for a drink.rated event. Action is one of
// added, updated or deleted.
type DrinkRatedData struct {
	ID           string  `json:"id"`
	Action       string  `json:"action"`
	AvgRating    float64 `json:"avg_rating"`
	NumOfReviews int     `json:"num_of_reviews"`
}

// DrinkWishedData is the payload for a drink.wished event. Delta is +1 or -1.
type DrinkWishedData struct {
	ID        string `json:"id"`
	Delta     int    `json:"delta"`
	NumOfWish int    `json:"num_of_wish"`
}

// ReviewData is the payload for review events.
type ReviewData struct {
	ID      string `json:"id"`
	DrinkID string `json:"drink_id"`
	UserID  string `json:"user_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

// UserCreatedData is the payload for a user.created event.
type UserCreatedData struct {
	ID string `json:"id"`
}

// Producer publishes catalog domain events.
type Producer struct {
	publisher pkgkafka.Publisher
	logger    *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(publisher pkgkafka.Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		publisher: publisher,
		logger:    logger,
	}
}

func drinkData(d *domain.Drink) DrinkData {
	return DrinkData{
		ID:           d.ID,
		Name:         d.Name,
		ImageURL:     d.ImageURL,
		Type:         string(d.Type),
		AvgRating:    float64(d.AvgRating),
		NumOfReviews: d.NumOfReviews,
		NumOfWish:    d.NumOfWish,
	}
}

func reviewData(r *domain.Review) ReviewData {
	return ReviewData{
		ID:      r.ID,
		DrinkID: r.DrinkID,
		UserID:  r.UserID,
		Rating:  int(r.Rating),
		Comment: r.Comment,
	}
}

func (p *Producer) PublishDrinkCreated(ctx context.Context, d *domain.Drink) error {
	return p.publish(ctx, TopicDrinkCreated, d.ID, AggregateTypeDrink, drinkData(d))
}

func (p *Producer) PublishDrinkUpdated(ctx context.Context, d *domain.Drink) error {
	return p.publish(ctx, TopicDrinkUpdated, d.ID, AggregateTypeDrink, drinkData(d))
}

func (p *Producer) PublishDrinkDeleted(ctx context.Context, drinkID string) error {
	return p.publish(ctx, TopicDrinkDeleted, drinkID, AggregateTypeDrink, DrinkDeletedData{ID: drinkID})
}

// PublishDrinkRated reports a change to a drink's rating statistics.
func (p *Producer) PublishDrinkRated(ctx context.Context, d *domain.Drink, action string) error {
	return p.publish(ctx, TopicDrinkRated, d.ID, AggregateTypeDrink, DrinkRatedData{
		ID:           d.ID,
		Action:       action,
		AvgRating:    float64(d.AvgRating),
		NumOfReviews: d.NumOfReviews,
	})
}

// PublishDrinkWished reports a wish being added (+1) or removed (-1).
func (p *Producer) PublishDrinkWished(ctx context.Context, d *domain.Drink, delta int) error {
	return p.publish(ctx, TopicDrinkWished, d.ID, AggregateTypeDrink, DrinkWishedData{
		ID:        d.ID,
		Delta:     delta,
		NumOfWish: d.NumOfWish,
	})
}

func (p *Producer) PublishReviewCreated(ctx context.Context, r *domain.Review) error {
	return p.publish(ctx, TopicReviewCreated, r.ID, AggregateTypeReview, reviewData(r))
}

func (p *Producer) PublishReviewUpdated(ctx context.Context, r *domain.Review) error {
	return p.publish(ctx, TopicReviewUpdated, r.ID, AggregateTypeReview, reviewData(r))
}

func (p *Producer) PublishReviewDeleted(ctx context.Context, r *domain.Review) error {
	return p.publish(ctx, TopicReviewDeleted, r.ID, AggregateTypeReview, reviewData(r))
}

func (p *Producer) PublishUserCreated(ctx context.Context, userID string) error {
	return p.publish(ctx, TopicUserCreated, userID, AggregateTypeUser, UserCreatedData{ID: userID})
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	evt, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, Source, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.publisher.Publish(ctx, topic, evt); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)

	return nil
}
