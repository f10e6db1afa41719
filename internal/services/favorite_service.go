package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/IamAKX/propso-v2-sub000/internal/db"
	"github.com/IamAKX/propso-v2-sub000/internal/models"
	"github.com/IamAKX/propso-v2-sub000/internal/utils"
)

// IFavoriteService defines the interface for bookmark operations.
type IFavoriteService interface {
	AddFavorite(ctx context.Context, userID, propertyID utils.SixID) (*models.Favorite, error)
	RemoveFavorite(ctx context.Context, userID, propertyID utils.SixID) error
	ListFavorites(ctx context.Context, userID utils.SixID) ([]models.Property, error)
}

const favoritesCollection = "favorites"

// favoriteService implements IFavoriteService.
type favoriteService struct {
	db *mongo.Database
}

// NewFavoriteService creates a new FavoriteService.
func NewFavoriteService(mongoDb *mongo.Database) IFavoriteService {
	return &favoriteService{db: mongoDb}
}

// AddFavorite bookmarks a property for a user. Only approved listings can
// be bookmarked. Adding an existing bookmark returns the existing one.
func (s *favoriteService) AddFavorite(ctx context.Context, userID, propertyID utils.SixID) (*models.Favorite, error) {
	err := s.db.Collection(propertiesCollection).
		FindOne(ctx, bson.M{"_id": propertyID, "approved": models.StatusApproved}).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: property %s", ErrNotFound, propertyID.String())
		}
		return nil, fmt.Errorf("error checking property %s: %w", propertyID.String(), err)
	}

	collection := s.db.Collection(favoritesCollection)

	favorite := &models.Favorite{
		Base:       models.NewBase(),
		UserID:     userID,
		PropertyID: propertyID,
		CreatedAt:  time.Now().UTC(),
	}
	_, insertErr := collection.InsertOne(ctx, favorite)
	if insertErr != nil {
		// The compound (user, property) unique index rejects duplicates;
		// treat that as success and return the existing bookmark.
		if db.IsMongoDuplicateKeyError(insertErr) {
			var existing models.Favorite
			findErr := collection.FindOne(ctx, bson.M{"user_id": userID, "property_id": propertyID}).Decode(&existing)
			if findErr != nil {
				return nil, fmt.Errorf("failed to load existing favorite: %w", findErr)
			}
			return &existing, nil
		}
		return nil, fmt.Errorf("failed to insert favorite: %w", insertErr)
	}
	return favorite, nil
}

// RemoveFavorite deletes a user's bookmark on a property.
func (s *favoriteService) RemoveFavorite(ctx context.Context, userID, propertyID utils.SixID) error {
	res, err := s.db.Collection(favoritesCollection).
		DeleteOne(ctx, bson.M{"user_id": userID, "property_id": propertyID})
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: favorite for property %s", ErrNotFound, propertyID.String())
	}
	return nil
}

// ListFavorites returns the still-approved properties a user has bookmarked.
// Bookmarks whose property has since been sold or deleted are skipped.
func (s *favoriteService) ListFavorites(ctx context.Context, userID utils.SixID) ([]models.Property, error) {
	cursor, err := s.db.Collection(favoritesCollection).Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites for user %s: %w", userID.String(), err)
	}
	defer cursor.Close(ctx)

	var favorites []models.Favorite
	if err = cursor.All(ctx, &favorites); err != nil {
		return nil, fmt.Errorf("failed to decode favorites: %w", err)
	}

	properties := []models.Property{}
	for _, f := range favorites {
		var property models.Property
		err := s.db.Collection(propertiesCollection).
			FindOne(ctx, bson.M{"_id": f.PropertyID, "approved": models.StatusApproved}).
			Decode(&property)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				continue
			}
			return nil, fmt.Errorf("error loading favorite property %s: %w", f.PropertyID.String(), err)
		}
		properties = append(properties, property)
	}
	return properties, nil
}
