package repository

import (
	"context"
	"errors"
	"fmt"

	bookingserrors "nestbay/internal/bookings/errors"
	"nestbay/pkg/config"
	"nestbay/pkg/events"
	"nestbay/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ListingReader gives the booking workflow read access to listings
// without owning their lifecycle.
type ListingReader interface {
	FindByID(ctx context.Context, id string) (*model.Listing, error)
}

type mongoListingReader struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoListingReader(cfg *config.Config) ListingReader {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoListingReader{
		cfg:        cfg,
		collection: db.Collection(events.CollectionListings),
	}
}

func (r *mongoListingReader) FindByID(ctx context.Context, id string) (*model.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var listing model.Listing
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&listing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to find listing: %w", err)
	}

	return &listing, nil
}
