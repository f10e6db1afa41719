package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/IamAKX/propso-v2-sub000/internal/config"
	"github.com/IamAKX/propso-v2-sub000/internal/models"
)

// ISettingsService exposes platform settings stored in Mongo, with an
// in-memory cache invalidated via Redis pub/sub across instances.
type ISettingsService interface {
	PublicConfig(ctx context.Context) (map[string]interface{}, error)
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, actor Actor, key string, value interface{}) error
	Reload(ctx context.Context) error
}

const (
	settingsCollection     = "settings"
	settingsUpdatesChannel = "settings_updates"
)

type settingsService struct {
	db    *mongo.Database
	cfg   *config.Config
	rdb   *redis.Client
	cache map[string]interface{}
	mutex sync.RWMutex
}

// NewSettingsService creates a new SettingsService and primes its cache.
func NewSettingsService(mongoDb *mongo.Database, cfg *config.Config, rdb *redis.Client) ISettingsService {
	s := &settingsService{
		db:    mongoDb,
		cfg:   cfg,
		rdb:   rdb,
		cache: make(map[string]interface{}),
	}
	if err := s.Reload(context.Background()); err != nil {
		log.Printf("WARNING: failed to load settings from DB: %v. Serving env defaults only.", err)
	}
	go s.watchUpdates(context.Background())
	return s
}

// Reload replaces the cache with the current settings collection contents.
func (s *settingsService) Reload(ctx context.Context) error {
	cursor, err := s.db.Collection(settingsCollection).Find(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to query settings: %w", err)
	}
	defer cursor.Close(ctx)

	fresh := make(map[string]interface{})
	for cursor.Next(ctx) {
		var entry models.Setting
		if err := cursor.Decode(&entry); err != nil {
			log.Printf("Warning: skipping undecodable setting: %v", err)
			continue
		}
		fresh[entry.Key] = entry.Value
	}
	if err := cursor.Err(); err != nil {
		return fmt.Errorf("error iterating settings cursor: %w", err)
	}

	s.mutex.Lock()
	s.cache = fresh
	s.mutex.Unlock()
	return nil
}

// Get returns a cached setting value.
func (s *settingsService) Get(ctx context.Context, key string) (interface{}, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	val, ok := s.cache[key]
	return val, ok
}

// Set upserts a setting and notifies other instances to reload. Admin only.
func (s *settingsService) Set(ctx context.Context, actor Actor, key string, value interface{}) error {
	if !actor.IsAdmin {
		return fmt.Errorf("%w: admin capability required", ErrForbidden)
	}
	if key == "" {
		return fmt.Errorf("%w: setting key is required", ErrValidation)
	}

	opts := options.Update().SetUpsert(true)
	_, err := s.db.Collection(settingsCollection).UpdateOne(ctx,
		bson.M{"_id": key},
		bson.M{"$set": bson.M{"value": value}, "$currentDate": bson.M{"updated_at": true}},
		opts)
	if err != nil {
		return fmt.Errorf("failed to upsert setting %q: %w", key, err)
	}

	s.mutex.Lock()
	s.cache[key] = value
	s.mutex.Unlock()

	if s.rdb != nil {
		if err := s.rdb.Publish(ctx, settingsUpdatesChannel, key).Err(); err != nil {
			log.Printf("Warning: failed to publish settings update for %q: %v", key, err)
		}
	}
	return nil
}

// PublicConfig assembles the payload served to clients: the enumerations the
// UI needs to render forms, plus any overridable display settings.
func (s *settingsService) PublicConfig(ctx context.Context) (map[string]interface{}, error) {
	payload := map[string]interface{}{
		"app_name":       s.cfg.AppName,
		"cities":         models.AllCities,
		"property_types": models.AllPropertyTypes,
		"transactions":   []models.TransactionType{models.TransactionBuy, models.TransactionRent, models.TransactionSell},
		"area_units":     []string{"sqft", "sqyd", "acre", "cent"},
	}

	s.mutex.RLock()
	for key, val := range s.cache {
		payload[key] = val
	}
	s.mutex.RUnlock()
	return payload, nil
}

func (s *settingsService) watchUpdates(ctx context.Context) {
	if s.rdb == nil {
		return
	}

	pubsub := s.rdb.Subscribe(ctx, settingsUpdatesChannel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		log.Printf("CRITICAL: settings pub/sub subscription failed: %v", err)
		return
	}

	for msg := range pubsub.Channel() {
		log.Printf("Settings change notification for %q, reloading", msg.Payload)
		if err := s.Reload(context.Background()); err != nil {
			log.Printf("ERROR reloading settings after notification: %v", err)
		}
	}
}
