package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/IamAKX/propso-v2-sub000/internal/config"
	"github.com/IamAKX/propso-v2-sub000/internal/db"
	"github.com/IamAKX/propso-v2-sub000/internal/models"
	"github.com/IamAKX/propso-v2-sub000/internal/storage"
	"github.com/IamAKX/propso-v2-sub000/internal/utils"
)

// IPropertyService mediates all operations on property listings: creation,
// updates, the approval lifecycle, and the embedded media list.
type IPropertyService interface {
	CreateProperty(ctx context.Context, actor Actor, input PropertyInput) (*models.Property, error)
	FindPropertyByID(ctx context.Context, propertyID utils.SixID) (*models.Property, error)
	GetProperty(ctx context.Context, propertyID utils.SixID, actor Actor) (*models.Property, error)
	UpdateProperty(ctx context.Context, propertyID utils.SixID, actor Actor, updates PropertyUpdate) (*models.Property, error)
	Approve(ctx context.Context, propertyID utils.SixID, actor Actor) (*models.Property, error)
	Reject(ctx context.Context, propertyID utils.SixID, actor Actor) error
	MarkSold(ctx context.Context, propertyID utils.SixID, actor Actor) (*models.Property, error)
	Delete(ctx context.Context, propertyID utils.SixID, actor Actor) error
	AddFiles(ctx context.Context, propertyID utils.SixID, actor Actor, files []NewMediaFile) (*models.Property, error)
	RemoveFile(ctx context.Context, propertyID utils.SixID, fileID int, actor Actor) (*models.Property, error)
	Search(ctx context.Context, filter PropertySearchFilter) ([]models.Property, error)
	FindByOwner(ctx context.Context, ownerID utils.SixID) ([]models.Property, error)
	ListPending(ctx context.Context, limit int) ([]models.Property, error)
}

const propertiesCollection = "properties"

// PropertyInput carries the caller-supplied fields for a new property.
// Any status the caller supplies is ignored; creation always starts Pending.
type PropertyInput struct {
	Title        string                  `json:"title"`
	Subtitle     string                  `json:"subtitle"`
	Price        string                  `json:"price"`
	Rooms        int                     `json:"rooms"`
	Location     string                  `json:"location"`
	City         models.City             `json:"city"`
	MainImage    string                  `json:"main_image"`
	Images       []models.MediaReference `json:"images"`
	Type         models.PropertyType     `json:"type"`
	Area         float64                 `json:"area"`
	AreaUnit     string                  `json:"area_unit"`
	Description  string                  `json:"description"`
	ContactPhone string                  `json:"contact_phone"`
}

// PropertyUpdate is the allow-listed set of mutable fields. Nil means
// "leave unchanged". ID, owner and approval status are deliberately absent;
// status moves only through the lifecycle operations.
type PropertyUpdate struct {
	Title        *string                  `json:"title"`
	Subtitle     *string                  `json:"subtitle"`
	Price        *string                  `json:"price"`
	Rooms        *int                     `json:"rooms"`
	Location     *string                  `json:"location"`
	City         *models.City             `json:"city"`
	MainImage    *string                  `json:"main_image"`
	Images       *[]models.MediaReference `json:"images"`
	Type         *models.PropertyType     `json:"type"`
	Area         *float64                 `json:"area"`
	AreaUnit     *string                  `json:"area_unit"`
	Description  *string                  `json:"description"`
	ContactPhone *string                  `json:"contact_phone"`
}

// NewMediaFile is one uploaded file to append to a property's media list.
type NewMediaFile struct {
	Link    string `json:"link"`
	IsVideo bool   `json:"is_video"`
}

// PropertySearchFilter narrows the public property search.
type PropertySearchFilter struct {
	City     *models.City
	Type     *models.PropertyType
	MinPrice *float64
	MaxPrice *float64
	Limit    int
	Skip     int
}

// propertyService implements IPropertyService.
type propertyService struct {
	db      *mongo.Database
	cfg     *config.Config
	rdb     *redis.Client // nil disables search caching
	storage storage.IObjectStorage
	cleanup ICleanupService
}

// NewPropertyService creates a new PropertyService.
func NewPropertyService(mongoDb *mongo.Database, cfg *config.Config, rdb *redis.Client, store storage.IObjectStorage, cleanup ICleanupService) IPropertyService {
	return &propertyService{db: mongoDb, cfg: cfg, rdb: rdb, storage: store, cleanup: cleanup}
}

// CreateProperty persists a new listing in Pending status owned by the actor.
func (s *propertyService) CreateProperty(ctx context.Context, actor Actor, input PropertyInput) (*models.Property, error) {
	if !input.City.IsValid() {
		return nil, fmt.Errorf("%w: unknown city %q", ErrValidation, input.City)
	}
	if !input.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown property type %q", ErrValidation, input.Type)
	}

	collection := s.db.Collection(propertiesCollection)
	now := time.Now().UTC()
	ownerID := actor.UserID

	var property *models.Property
	operation := func() error {
		property = &models.Property{
			Base:         models.NewBase(),
			Title:        input.Title,
			Subtitle:     input.Subtitle,
			Price:        input.Price,
			Rooms:        input.Rooms,
			Location:     input.Location,
			City:         input.City,
			MainImage:    input.MainImage,
			Type:         input.Type,
			Area:         input.Area,
			AreaUnit:     input.AreaUnit,
			Description:  input.Description,
			ContactPhone: input.ContactPhone,
			Approved:     models.StatusPending, // always, regardless of caller input
			OwnerID:      &ownerID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		property.Images = stampMediaList(property.ID, input.Images)
		_, insertErr := collection.InsertOne(ctx, property)
		return insertErr
	}

	if err := db.Try(operation); err != nil {
		return nil, fmt.Errorf("failed to insert property for user %s: %w", ownerID.String(), err)
	}
	return property, nil
}

// stampMediaList rewrites the media list with sequential ids starting at 1
// and the owning property id on every entry.
func stampMediaList(propertyID utils.SixID, files []models.MediaReference) []models.MediaReference {
	out := make([]models.MediaReference, 0, len(files))
	for i, f := range files {
		out = append(out, models.MediaReference{
			ID:         i + 1,
			Link:       f.Link,
			IsVideo:    f.IsVideo,
			PropertyID: propertyID,
		})
	}
	return out
}

// FindPropertyByID returns a property for general consumption: only
// Approved listings are visible here.
func (s *propertyService) FindPropertyByID(ctx context.Context, propertyID utils.SixID) (*models.Property, error) {
	var property models.Property
	filter := bson.M{"_id": propertyID, "approved": models.StatusApproved}
	err := s.db.Collection(propertiesCollection).FindOne(ctx, filter).Decode(&property)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: property %s", ErrNotFound, propertyID.String())
		}
		return nil, fmt.Errorf("error finding property %s: %w", propertyID.String(), err)
	}
	return &property, nil
}

// GetProperty returns a property in any status for its owner or an admin.
func (s *propertyService) GetProperty(ctx context.Context, propertyID utils.SixID, actor Actor) (*models.Property, error) {
	property, err := s.findAny(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && !actor.Owns(property.OwnerID) {
		// Non-owners still get the public view of an approved listing.
		if property.Approved == models.StatusApproved {
			return property, nil
		}
		return nil, fmt.Errorf("%w: property %s", ErrForbidden, propertyID.String())
	}
	return property, nil
}

// findAny loads a property regardless of status.
func (s *propertyService) findAny(ctx context.Context, propertyID utils.SixID) (*models.Property, error) {
	var property models.Property
	err := s.db.Collection(propertiesCollection).FindOne(ctx, bson.M{"_id": propertyID}).Decode(&property)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: property %s", ErrNotFound, propertyID.String())
		}
		return nil, fmt.Errorf("error finding property %s: %w", propertyID.String(), err)
	}
	return &property, nil
}

// UpdateProperty applies the allow-listed field updates in a single update
// statement. The media list, when supplied, is persisted in the same write.
func (s *propertyService) UpdateProperty(ctx context.Context, propertyID utils.SixID, actor Actor, updates PropertyUpdate) (*models.Property, error) {
	property, err := s.findAny(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && !actor.Owns(property.OwnerID) {
		return nil, fmt.Errorf("%w: property %s is not owned by actor", ErrForbidden, propertyID.String())
	}

	set := bson.M{}
	if updates.Title != nil {
		set["title"] = *updates.Title
	}
	if updates.Subtitle != nil {
		set["subtitle"] = *updates.Subtitle
	}
	if updates.Price != nil {
		set["price"] = *updates.Price
	}
	if updates.Rooms != nil {
		set["rooms"] = *updates.Rooms
	}
	if updates.Location != nil {
		set["location"] = *updates.Location
	}
	if updates.City != nil {
		if !updates.City.IsValid() {
			return nil, fmt.Errorf("%w: unknown city %q", ErrValidation, *updates.City)
		}
		set["city"] = *updates.City
	}
	if updates.MainImage != nil {
		set["main_image"] = *updates.MainImage
	}
	if updates.Images != nil {
		images := *updates.Images
		for i := range images {
			images[i].PropertyID = propertyID
		}
		set["images"] = images
	}
	if updates.Type != nil {
		if !updates.Type.IsValid() {
			return nil, fmt.Errorf("%w: unknown property type %q", ErrValidation, *updates.Type)
		}
		set["type"] = *updates.Type
	}
	if updates.Area != nil {
		set["area"] = *updates.Area
	}
	if updates.AreaUnit != nil {
		set["area_unit"] = *updates.AreaUnit
	}
	if updates.Description != nil {
		set["description"] = *updates.Description
	}
	if updates.ContactPhone != nil {
		set["contact_phone"] = *updates.ContactPhone
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("%w: no updatable fields provided", ErrValidation)
	}
	set["updated_at"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Property
	err = s.db.Collection(propertiesCollection).
		FindOneAndUpdate(ctx, bson.M{"_id": propertyID}, bson.M{"$set": set}, opts).
		Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: property %s", ErrNotFound, propertyID.String())
		}
		return nil, fmt.Errorf("failed to update property %s: %w", propertyID.String(), err)
	}
	return &updated, nil
}

// setStatus is the shared admin-gated status transition.
func (s *propertyService) setStatus(ctx context.Context, propertyID utils.SixID, actor Actor, status models.ApprovalStatus) (*models.Property, error) {
	if !actor.IsAdmin {
		return nil, fmt.Errorf("%w: admin capability required", ErrForbidden)
	}

	update := bson.M{"$set": bson.M{
		"approved":   status,
		"updated_at": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Property
	err := s.db.Collection(propertiesCollection).
		FindOneAndUpdate(ctx, bson.M{"_id": propertyID}, update, opts).
		Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: property %s", ErrNotFound, propertyID.String())
		}
		return nil, fmt.Errorf("failed to set property %s status to %s: %w", propertyID.String(), status, err)
	}
	return &updated, nil
}

// Approve marks a pending listing as approved. Approving an already
// approved listing is harmless; the result is the same.
func (s *propertyService) Approve(ctx context.Context, propertyID utils.SixID, actor Actor) (*models.Property, error) {
	return s.setStatus(ctx, propertyID, actor, models.StatusApproved)
}

// MarkSold marks an approved listing as sold, hiding it from the public
// search while keeping the record and its media.
func (s *propertyService) MarkSold(ctx context.Context, propertyID utils.SixID, actor Actor) (*models.Property, error) {
	return s.setStatus(ctx, propertyID, actor, models.StatusSold)
}

// Reject removes the property entirely. There is no persisted Rejected
// state; rejection is destructive and irreversible.
func (s *propertyService) Reject(ctx context.Context, propertyID utils.SixID, actor Actor) error {
	return s.purge(ctx, propertyID, actor)
}

// Delete removes the property entirely, independent of its approval state.
// Cleanup side effects are identical to Reject.
func (s *propertyService) Delete(ctx context.Context, propertyID utils.SixID, actor Actor) error {
	return s.purge(ctx, propertyID, actor)
}

func (s *propertyService) purge(ctx context.Context, propertyID utils.SixID, actor Actor) error {
	if !actor.IsAdmin {
		return fmt.Errorf("%w: admin capability required", ErrForbidden)
	}
	property, err := s.findAny(ctx, propertyID)
	if err != nil {
		return err
	}
	return s.cleanup.PurgeProperty(ctx, property)
}

// AddFiles appends uploaded media to the property's list, assigning each
// entry the next sequential id, and persists the merged list in one write.
func (s *propertyService) AddFiles(ctx context.Context, propertyID utils.SixID, actor Actor, files []NewMediaFile) (*models.Property, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files supplied", ErrValidation)
	}

	property, err := s.findAny(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && !actor.Owns(property.OwnerID) {
		return nil, fmt.Errorf("%w: property %s is not owned by actor", ErrForbidden, propertyID.String())
	}

	nextID := models.NextMediaID(property.Images)
	merged := append([]models.MediaReference{}, property.Images...)
	for i, f := range files {
		merged = append(merged, models.MediaReference{
			ID:         nextID + i,
			Link:       f.Link,
			IsVideo:    f.IsVideo,
			PropertyID: propertyID,
		})
	}

	return s.persistMediaList(ctx, propertyID, merged)
}

// RemoveFile deletes one media entry and its remote object. Unlike bulk
// cleanup, a storage failure here propagates: the caller asked for this
// specific object to go away.
func (s *propertyService) RemoveFile(ctx context.Context, propertyID utils.SixID, fileID int, actor Actor) (*models.Property, error) {
	property, err := s.findAny(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && !actor.Owns(property.OwnerID) {
		return nil, fmt.Errorf("%w: property %s is not owned by actor", ErrForbidden, propertyID.String())
	}

	idx := -1
	for i, m := range property.Images {
		if m.ID == fileID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: media file %d on property %s", ErrNotFound, fileID, propertyID.String())
	}

	if err := s.storage.Delete(ctx, property.Images[idx].Link); err != nil {
		return nil, fmt.Errorf("failed to delete media object for file %d: %w", fileID, err)
	}

	remainder := append([]models.MediaReference{}, property.Images[:idx]...)
	remainder = append(remainder, property.Images[idx+1:]...)
	return s.persistMediaList(ctx, propertyID, remainder)
}

func (s *propertyService) persistMediaList(ctx context.Context, propertyID utils.SixID, list []models.MediaReference) (*models.Property, error) {
	update := bson.M{"$set": bson.M{
		"images":     list,
		"updated_at": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Property
	err := s.db.Collection(propertiesCollection).
		FindOneAndUpdate(ctx, bson.M{"_id": propertyID}, update, opts).
		Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: property %s", ErrNotFound, propertyID.String())
		}
		return nil, fmt.Errorf("failed to persist media list for property %s: %w", propertyID.String(), err)
	}
	return &updated, nil
}

// Search returns approved listings matching the filter. Results are cached
// in Redis for a short TTL when a client is configured.
func (s *propertyService) Search(ctx context.Context, filter PropertySearchFilter) ([]models.Property, error) {
	cacheKey := searchCacheKey(filter)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var results []models.Property
			if jsonErr := json.Unmarshal([]byte(cached), &results); jsonErr == nil {
				return results, nil
			}
			// Unreadable cache entry; fall through to the database.
		} else if !errors.Is(err, redis.Nil) {
			log.Printf("WARN: redis error reading search cache: %v", err)
		}
	}

	query := bson.M{"approved": models.StatusApproved}
	if filter.City != nil {
		query["city"] = *filter.City
	}
	if filter.Type != nil {
		query["type"] = *filter.Type
	}
	// Price is stored as text; compare numerically server-side.
	var priceExprs []bson.M
	if filter.MinPrice != nil {
		priceExprs = append(priceExprs, bson.M{"$gte": bson.A{bson.M{"$toDouble": "$price"}, *filter.MinPrice}})
	}
	if filter.MaxPrice != nil {
		priceExprs = append(priceExprs, bson.M{"$lte": bson.A{bson.M{"$toDouble": "$price"}, *filter.MaxPrice}})
	}
	if len(priceExprs) == 1 {
		query["$expr"] = priceExprs[0]
	} else if len(priceExprs) > 1 {
		query["$expr"] = bson.M{"$and": priceExprs}
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(int64(filter.Skip)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := s.db.Collection(propertiesCollection).Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to execute property search: %w", err)
	}
	defer cursor.Close(ctx)

	results := []models.Property{}
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode property search results: %w", err)
	}

	if s.rdb != nil {
		if data, jsonErr := json.Marshal(results); jsonErr == nil {
			if setErr := s.rdb.Set(ctx, cacheKey, data, s.cfg.SearchCacheTTL).Err(); setErr != nil {
				log.Printf("WARN: redis error writing search cache: %v", setErr)
			}
		}
	}

	return results, nil
}

func searchCacheKey(f PropertySearchFilter) string {
	city, ptype := "", ""
	if f.City != nil {
		city = string(*f.City)
	}
	if f.Type != nil {
		ptype = string(*f.Type)
	}
	minP, maxP := "", ""
	if f.MinPrice != nil {
		minP = fmt.Sprintf("%g", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		maxP = fmt.Sprintf("%g", *f.MaxPrice)
	}
	return fmt.Sprintf("property:search:%s:%s:%s:%s:%d:%d", city, ptype, minP, maxP, f.Limit, f.Skip)
}

// FindByOwner returns all of an owner's properties regardless of status.
func (s *propertyService) FindByOwner(ctx context.Context, ownerID utils.SixID) ([]models.Property, error) {
	cursor, err := s.db.Collection(propertiesCollection).Find(ctx,
		bson.M{"owner_id": ownerID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query properties for owner %s: %w", ownerID.String(), err)
	}
	defer cursor.Close(ctx)

	results := []models.Property{}
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode owner properties: %w", err)
	}
	return results, nil
}

// ListPending returns the admin approval queue, oldest first.
func (s *propertyService) ListPending(ctx context.Context, limit int) ([]models.Property, error) {
	if limit <= 0 {
		limit = 50
	}
	cursor, err := s.db.Collection(propertiesCollection).Find(ctx,
		bson.M{"approved": models.StatusPending},
		options.Find().SetLimit(int64(limit)).SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query pending properties: %w", err)
	}
	defer cursor.Close(ctx)

	results := []models.Property{}
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode pending properties: %w", err)
	}
	return results, nil
}
