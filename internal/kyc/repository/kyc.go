package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	kycerrors "nestbay/internal/kyc/errors"
	"nestbay/pkg/config"
	"nestbay/pkg/events"
	"nestbay/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = events.CollectionKYCRequests

type KYCRepository interface {
	Create(ctx context.Context, request *model.KYCRequest) error
	FindByID(ctx context.Context, id string) (*model.KYCRequest, error)
	FindByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.KYCRequest, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	UpdateReview(ctx context.Context, id string, status, reviewerID, note string, updatedAt time.Time) error
}

type mongoKYCRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoKYCRepository(cfg *config.Config) KYCRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoKYCRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoKYCRepository) Create(ctx context.Context, request *model.KYCRequest) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	request.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, request)
	if err != nil {
		return fmt.Errorf("failed to create KYC request: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		request.ID = oid.Hex()
	}
	return nil
}

func (r *mongoKYCRepository) FindByID(ctx context.Context, id string) (*model.KYCRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", kycerrors.ErrInvalidID, id)
	}

	var request model.KYCRequest
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&request)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, kycerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find KYC request: %w", err)
	}

	return &request, nil
}

func (r *mongoKYCRepository) FindByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.KYCRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find KYC requests: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []*model.KYCRequest
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode KYC requests: %w", err)
	}
	return requests, nil
}

func (r *mongoKYCRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to count KYC requests: %w", err)
	}
	return count, nil
}

func (r *mongoKYCRepository) UpdateReview(ctx context.Context, id string, status, reviewerID, note string, updatedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", kycerrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"status":      status,
			"reviewer_id": reviewerID,
			"note":        note,
			"updated_at":  updatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update KYC request: %w", err)
	}
	if result.MatchedCount == 0 {
		return kycerrors.ErrNotFound
	}
	return nil
}
