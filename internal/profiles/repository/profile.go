package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	profileserrors "nestbay/internal/profiles/errors"
	"nestbay/pkg/config"
	"nestbay/pkg/events"
	"nestbay/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const CollectionName = events.CollectionProfiles

type ProfileRepository interface {
	Create(ctx context.Context, profile *model.Profile) error
	FindByUser(ctx context.Context, userID string) (*model.Profile, error)
	Update(ctx context.Context, userID string, profile *model.Profile) error
	// UpdateKYCStatus mirrors a verification outcome onto the profile.
	// Reports whether a profile matched, absent profiles are the
	// caller's no-op case.
	UpdateKYCStatus(ctx context.Context, userID string, status string, updatedAt time.Time) (bool, error)
}

type mongoProfileRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoProfileRepository(cfg *config.Config) ProfileRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoProfileRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoProfileRepository) Create(ctx context.Context, profile *model.Profile) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	profile.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, profile)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", profileserrors.ErrDuplicateUser, profile.UserID)
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		profile.ID = oid.Hex()
	}
	return nil
}

func (r *mongoProfileRepository) FindByUser(ctx context.Context, userID string) (*model.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var profile model.Profile
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, profileserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	return &profile, nil
}

func (r *mongoProfileRepository) Update(ctx context.Context, userID string, profile *model.Profile) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	profile.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	update := bson.M{
		"$set": bson.M{
			"display_name": profile.DisplayName,
			"email":        profile.Email,
			"phone":        profile.Phone,
			"role":         profile.Role,
			"updated_at":   profile.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"user_id": userID}, update)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if result.MatchedCount == 0 {
		return profileserrors.ErrNotFound
	}
	return nil
}

func (r *mongoProfileRepository) UpdateKYCStatus(ctx context.Context, userID string, status string, updatedAt time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"kyc_status": status,
			"updated_at": updatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"user_id": userID}, update)
	if err != nil {
		return false, fmt.Errorf("failed to update profile kyc status: %w", err)
	}
	return result.MatchedCount > 0, nil
}
