package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/IamAKX/propso-v2-sub000/internal/auth"
	"github.com/IamAKX/propso-v2-sub000/internal/config"
	"github.com/IamAKX/propso-v2-sub000/internal/db"
	"github.com/IamAKX/propso-v2-sub000/internal/models"
	"github.com/IamAKX/propso-v2-sub000/internal/utils"
)

// IUserService defines the interface for account operations.
type IUserService interface {
	Register(ctx context.Context, name, email, phone, password string, role models.Role) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	FindByID(ctx context.Context, userID utils.SixID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	AddKycDocument(ctx context.Context, userID utils.SixID, actor Actor, key, kind string) (*models.User, error)
	VerifyUser(ctx context.Context, userID utils.SixID, actor Actor) (*models.User, error)
	SetStatus(ctx context.Context, userID utils.SixID, actor Actor, status models.UserStatus) (*models.User, error)
	DeleteUser(ctx context.Context, userID utils.SixID, actor Actor) error
}

const usersCollection = "users"

// userService implements IUserService.
type userService struct {
	db  *mongo.Database
	cfg *config.Config
}

// NewUserService creates a new UserService.
func NewUserService(mongoDb *mongo.Database, cfg *config.Config) IUserService {
	return &userService{db: mongoDb, cfg: cfg}
}

// Register creates a new account in CREATED status. Admin accounts cannot be
// self-registered.
func (s *userService) Register(ctx context.Context, name, email, phone, password string, role models.Role) (*models.User, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if role == "" {
		role = models.RoleBuyer
	}
	if !role.IsValid() || role == models.RoleAdmin {
		return nil, fmt.Errorf("%w: invalid role %q", ErrValidation, role)
	}
	if s.cfg != nil && s.cfg.PasswordRegexp != "" {
		re, reErr := regexp.Compile(s.cfg.PasswordRegexp)
		if reErr == nil && !re.MatchString(password) {
			return nil, fmt.Errorf("%w: password does not meet requirements", ErrValidation)
		}
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	collection := s.db.Collection(usersCollection)
	now := time.Now().UTC()

	var user *models.User
	operation := func() error {
		user = &models.User{
			Base:         models.NewBase(),
			Name:         name,
			Email:        email,
			Phone:        phone,
			PasswordHash: hash,
			Role:         role,
			Status:       models.UserCreated,
			Verified:     false,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		_, insertErr := collection.InsertOne(ctx, user)
		return insertErr
	}

	// The unique email index makes a duplicate registration surface as a
	// duplicate key error on every retry; report it as a validation failure.
	if err := db.Try(operation); err != nil {
		if db.IsMongoDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: email %s is already registered", ErrValidation, email)
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return user, nil
}

// Authenticate checks credentials and returns the account. Suspended
// accounts cannot log in.
func (s *userService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, fmt.Errorf("%w: invalid credentials", ErrForbidden)
	}
	if user.Status == models.UserSuspended {
		return nil, fmt.Errorf("%w: account is suspended", ErrForbidden)
	}
	return user, nil
}

// FindByID returns the account with the given id.
func (s *userService) FindByID(ctx context.Context, userID utils.SixID) (*models.User, error) {
	var user models.User
	err := s.db.Collection(usersCollection).FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID.String())
		}
		return nil, fmt.Errorf("error finding user %s: %w", userID.String(), err)
	}
	return &user, nil
}

// FindByEmail returns the account with the given email.
func (s *userService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.Collection(usersCollection).FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: user with email %s", ErrNotFound, email)
		}
		return nil, fmt.Errorf("error finding user by email: %w", err)
	}
	return &user, nil
}

// AddKycDocument attaches an uploaded identity document reference to the
// account and moves it to PENDING review. Users manage only their own
// documents; admins may attach on anyone's behalf.
func (s *userService) AddKycDocument(ctx context.Context, userID utils.SixID, actor Actor, key, kind string) (*models.User, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: document key is required", ErrValidation)
	}
	if !actor.IsAdmin && actor.UserID != userID {
		return nil, fmt.Errorf("%w: cannot attach KYC documents to another account", ErrForbidden)
	}

	doc := models.KycDocument{
		Key:        key,
		Kind:       kind,
		UploadedAt: time.Now().UTC(),
	}
	update := bson.M{
		"$push": bson.M{"kyc_documents": doc},
		"$set": bson.M{
			"status":     models.UserPending,
			"updated_at": time.Now().UTC(),
		},
	}
	return s.findOneAndUpdate(ctx, userID, update)
}

// VerifyUser marks the account as verified and ACTIVE. Admin only.
func (s *userService) VerifyUser(ctx context.Context, userID utils.SixID, actor Actor) (*models.User, error) {
	if !actor.IsAdmin {
		return nil, fmt.Errorf("%w: admin capability required", ErrForbidden)
	}
	update := bson.M{"$set": bson.M{
		"verified":   true,
		"status":     models.UserActive,
		"updated_at": time.Now().UTC(),
	}}
	return s.findOneAndUpdate(ctx, userID, update)
}

// SetStatus sets the account lifecycle state. Admin only.
func (s *userService) SetStatus(ctx context.Context, userID utils.SixID, actor Actor, status models.UserStatus) (*models.User, error) {
	if !actor.IsAdmin {
		return nil, fmt.Errorf("%w: admin capability required", ErrForbidden)
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown user status %q", ErrValidation, status)
	}
	update := bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}}
	return s.findOneAndUpdate(ctx, userID, update)
}

func (s *userService) findOneAndUpdate(ctx context.Context, userID utils.SixID, update bson.M) (*models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.User
	err := s.db.Collection(usersCollection).
		FindOneAndUpdate(ctx, bson.M{"_id": userID}, update, opts).
		Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID.String())
		}
		return nil, fmt.Errorf("failed to update user %s: %w", userID.String(), err)
	}
	return &updated, nil
}

// DeleteUser removes an account and cascades through its data: the user's
// leads and favorites are deleted, while their properties are kept with the
// owner reference cleared.
func (s *userService) DeleteUser(ctx context.Context, userID utils.SixID, actor Actor) error {
	if !actor.IsAdmin && actor.UserID != userID {
		return fmt.Errorf("%w: cannot delete another account", ErrForbidden)
	}
	if _, err := s.FindByID(ctx, userID); err != nil {
		return err
	}

	// Listings survive the owner; they just become unowned.
	_, err := s.db.Collection(propertiesCollection).UpdateMany(ctx,
		bson.M{"owner_id": userID},
		bson.M{"$unset": bson.M{"owner_id": ""}, "$set": bson.M{"updated_at": time.Now().UTC()}})
	if err != nil {
		return fmt.Errorf("failed to orphan properties for user %s: %w", userID.String(), err)
	}

	if _, err := s.db.Collection(leadsCollection).DeleteMany(ctx, bson.M{"owner_id": userID}); err != nil {
		return fmt.Errorf("failed to delete leads for user %s: %w", userID.String(), err)
	}

	if _, err := s.db.Collection(favoritesCollection).DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return fmt.Errorf("failed to delete favorites for user %s: %w", userID.String(), err)
	}

	if _, err := s.db.Collection(usersCollection).DeleteOne(ctx, bson.M{"_id": userID}); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", userID.String(), err)
	}
	return nil
}
