package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/IamAKX/propso-v2-sub000/internal/models"
	"github.com/IamAKX/propso-v2-sub000/internal/storage"
)

// ICleanupService removes everything that references a property when the
// property itself is being deleted: remote media objects, favorites, leads,
// and finally the property document.
type ICleanupService interface {
	PurgeProperty(ctx context.Context, property *models.Property) error
}

// cleanupService implements ICleanupService.
type cleanupService struct {
	db      *mongo.Database
	storage storage.IObjectStorage
}

// NewCleanupService creates a new CleanupService.
func NewCleanupService(db *mongo.Database, store storage.IObjectStorage) ICleanupService {
	return &cleanupService{db: db, storage: store}
}

// PurgeProperty deletes all remote media objects for the property, then its
// favorites, then its leads, then the property document itself. Media goes
// first so a crash mid-cleanup leaves DB rows a retry can still find.
// Per-object storage failures are logged and swallowed; database failures
// propagate and abort the remainder.
func (s *cleanupService) PurgeProperty(ctx context.Context, property *models.Property) error {
	links := property.MediaLinks()

	// Best-effort concurrent deletion of every media object. Individual
	// failures never cancel siblings; we wait for all to settle.
	var wg sync.WaitGroup
	for _, link := range links {
		wg.Add(1)
		go func(link string) {
			defer wg.Done()
			if err := s.storage.Delete(ctx, link); err != nil {
				log.Printf("WARN: failed to delete media object %s for property %s: %v", link, property.ID.String(), err)
			}
		}(link)
	}
	wg.Wait()

	if _, err := s.db.Collection("favorites").DeleteMany(ctx, bson.M{"property_id": property.ID}); err != nil {
		return fmt.Errorf("failed to delete favorites for property %s: %w", property.ID.String(), err)
	}

	if _, err := s.db.Collection("leads").DeleteMany(ctx, bson.M{"property_id": property.ID}); err != nil {
		return fmt.Errorf("failed to delete leads for property %s: %w", property.ID.String(), err)
	}

	if _, err := s.db.Collection("properties").DeleteOne(ctx, bson.M{"_id": property.ID}); err != nil {
		return fmt.Errorf("failed to delete property %s: %w", property.ID.String(), err)
	}

	return nil
}
