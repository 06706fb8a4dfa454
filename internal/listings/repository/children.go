package repository

import (
	"context"
	"fmt"
	"time"

	"nestbay/pkg/config"
	"nestbay/pkg/events"
	"nestbay/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Subcollections of a listing live in sibling collections keyed by
// listing_id so each can be queried and batch-deleted on its own.

type ReviewRepository interface {
	Insert(ctx context.Context, review *model.Review) error
	FindByListing(ctx context.Context, listingID string, limit int, offset int64) ([]*model.Review, error)
	CountByListing(ctx context.Context, listingID string) (int64, error)
	FindAllByListing(ctx context.Context, listingID string) ([]*model.Review, error)
	HasByListing(ctx context.Context, listingID string) (bool, error)
	DeleteByListing(ctx context.Context, listingID string) (int64, error)
}

type CalendarRepository interface {
	UpsertDays(ctx context.Context, listingID string, days []model.CalendarDay) error
	FindByListing(ctx context.Context, listingID string, from, to time.Time) ([]*model.CalendarDay, error)
	HasByListing(ctx context.Context, listingID string) (bool, error)
	DeleteByListing(ctx context.Context, listingID string) (int64, error)
}

type MediaRepository interface {
	Insert(ctx context.Context, item *model.MediaItem) error
	FindByListing(ctx context.Context, listingID string) ([]*model.MediaItem, error)
	HasByListing(ctx context.Context, listingID string) (bool, error)
	DeleteByListing(ctx context.Context, listingID string) (int64, error)
}

type mongoReviewRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoReviewRepository(cfg *config.Config) ReviewRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReviewRepository{
		cfg:        cfg,
		collection: db.Collection(events.CollectionListingReviews),
	}
}

func (r *mongoReviewRepository) Insert(ctx context.Context, review *model.Review) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	review.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, review)
	if err != nil {
		return fmt.Errorf("failed to insert review: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		review.ID = oid.Hex()
	}
	return nil
}

func (r *mongoReviewRepository) FindByListing(ctx context.Context, listingID string, limit int, offset int64) ([]*model.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"listing_id": listingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var reviews []*model.Review
	if err = cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	return reviews, nil
}

func (r *mongoReviewRepository) CountByListing(ctx context.Context, listingID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"listing_id": listingID})
	if err != nil {
		return 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	return count, nil
}

// FindAllByListing loads every review of a listing. Used by the rating
// recompute, which needs the full set rather than a page.
func (r *mongoReviewRepository) FindAllByListing(ctx context.Context, listingID string) ([]*model.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"listing_id": listingID})
	if err != nil {
		return nil, fmt.Errorf("failed to find reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var reviews []*model.Review
	if err = cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	return reviews, nil
}

func (r *mongoReviewRepository) HasByListing(ctx context.Context, listingID string) (bool, error) {
	return hasByListing(ctx, r.cfg, r.collection, listingID)
}

func (r *mongoReviewRepository) DeleteByListing(ctx context.Context, listingID string) (int64, error) {
	return deleteByListing(ctx, r.cfg, r.collection, listingID)
}

type mongoCalendarRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoCalendarRepository(cfg *config.Config) CalendarRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCalendarRepository{
		cfg:        cfg,
		collection: db.Collection(events.CollectionListingCalendar),
	}
}

// UpsertDays writes availability one day per document, keyed on
// listing_id+date, so repeated submissions of the same range converge.
func (r *mongoCalendarRepository) UpsertDays(ctx context.Context, listingID string, days []model.CalendarDay) error {
	if len(days) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	models := make([]mongo.WriteModel, 0, len(days))
	for _, day := range days {
		date := day.Date.UTC().Truncate(24 * time.Hour)
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"listing_id": listingID, "date": date}).
			SetUpdate(bson.M{"$set": bson.M{"available": day.Available}}).
			SetUpsert(true))
	}

	if _, err := r.collection.BulkWrite(ctx, models); err != nil {
		return fmt.Errorf("failed to upsert calendar days: %w", err)
	}
	return nil
}

func (r *mongoCalendarRepository) FindByListing(ctx context.Context, listingID string, from, to time.Time) ([]*model.CalendarDay, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"listing_id": listingID}
	dateRange := bson.M{}
	if !from.IsZero() {
		dateRange["$gte"] = from
	}
	if !to.IsZero() {
		dateRange["$lte"] = to
	}
	if len(dateRange) > 0 {
		filter["date"] = dateRange
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find calendar days: %w", err)
	}
	defer cursor.Close(ctx)

	var days []*model.CalendarDay
	if err = cursor.All(ctx, &days); err != nil {
		return nil, fmt.Errorf("failed to decode calendar days: %w", err)
	}
	return days, nil
}

func (r *mongoCalendarRepository) HasByListing(ctx context.Context, listingID string) (bool, error) {
	return hasByListing(ctx, r.cfg, r.collection, listingID)
}

func (r *mongoCalendarRepository) DeleteByListing(ctx context.Context, listingID string) (int64, error) {
	return deleteByListing(ctx, r.cfg, r.collection, listingID)
}

type mongoMediaRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoMediaRepository(cfg *config.Config) MediaRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoMediaRepository{
		cfg:        cfg,
		collection: db.Collection(events.CollectionListingMedia),
	}
}

func (r *mongoMediaRepository) Insert(ctx context.Context, item *model.MediaItem) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	item.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, item)
	if err != nil {
		return fmt.Errorf("failed to insert media item: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		item.ID = oid.Hex()
	}
	return nil
}

func (r *mongoMediaRepository) FindByListing(ctx context.Context, listingID string) ([]*model.MediaItem, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"listing_id": listingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find media items: %w", err)
	}
	defer cursor.Close(ctx)

	var items []*model.MediaItem
	if err = cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode media items: %w", err)
	}
	return items, nil
}

func (r *mongoMediaRepository) HasByListing(ctx context.Context, listingID string) (bool, error) {
	return hasByListing(ctx, r.cfg, r.collection, listingID)
}

func (r *mongoMediaRepository) DeleteByListing(ctx context.Context, listingID string) (int64, error) {
	return deleteByListing(ctx, r.cfg, r.collection, listingID)
}

func deleteByListing(ctx context.Context, cfg *config.Config, collection *mongo.Collection, listingID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.WriteTimeout)
	defer cancel()

	result, err := collection.DeleteMany(ctx, bson.M{"listing_id": listingID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete %s for listing %s: %w", collection.Name(), listingID, err)
	}
	return result.DeletedCount, nil
}

// hasByListing reports whether a listing has any children in the
// collection. Capped at one document so the check costs a single
// index probe.
func hasByListing(ctx context.Context, cfg *config.Config, collection *mongo.Collection, listingID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ReadTimeout)
	defer cancel()

	count, err := collection.CountDocuments(ctx, bson.M{"listing_id": listingID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check for children: %w", err)
	}
	return count > 0, nil
}
