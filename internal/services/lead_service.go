package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/IamAKX/propso-v2-sub000/internal/config"
	"github.com/IamAKX/propso-v2-sub000/internal/db"
	"github.com/IamAKX/propso-v2-sub000/internal/models"
	"github.com/IamAKX/propso-v2-sub000/internal/utils"
)

// ILeadService defines the interface for lead (customer enquiry) operations.
type ILeadService interface {
	CreateLead(ctx context.Context, actor Actor, input LeadInput) (*models.Lead, error)
	FindLeadByID(ctx context.Context, leadID utils.SixID, actor Actor) (*models.Lead, error)
	FindLeadsByOwner(ctx context.Context, ownerID utils.SixID) ([]models.Lead, error)
	ListAllLeads(ctx context.Context, actor Actor, limit int) ([]models.Lead, error)
	SetStatus(ctx context.Context, leadID utils.SixID, actor Actor, status models.LeadStatus) (*models.Lead, error)
	AddComment(ctx context.Context, leadID utils.SixID, actor Actor, text string) (*models.Lead, error)
	DeleteLead(ctx context.Context, leadID utils.SixID, actor Actor) error
	DeleteLeadsByOwner(ctx context.Context, ownerID utils.SixID) error
}

const leadsCollection = "leads"

// LeadInput carries the caller-supplied fields for a new lead.
type LeadInput struct {
	Name         string                 `json:"name"`
	Email        string                 `json:"email"`
	Phone        string                 `json:"phone"`
	Transaction  models.TransactionType `json:"transaction"`
	PropertyType models.PropertyType    `json:"property_type"`
	PropertyID   *utils.SixID           `json:"property_id"`
}

// leadService implements ILeadService.
type leadService struct {
	db  *mongo.Database
	cfg *config.Config
}

// NewLeadService creates a new LeadService.
func NewLeadService(mongoDb *mongo.Database, cfg *config.Config) ILeadService {
	return &leadService{db: mongoDb, cfg: cfg}
}

// CreateLead persists a new enquiry in Open status owned by the actor.
func (s *leadService) CreateLead(ctx context.Context, actor Actor, input LeadInput) (*models.Lead, error) {
	if input.Name == "" || input.Email == "" {
		return nil, fmt.Errorf("%w: lead requires a name and an email", ErrValidation)
	}
	if !input.Transaction.IsValid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", ErrValidation, input.Transaction)
	}
	if !input.PropertyType.IsValid() {
		return nil, fmt.Errorf("%w: unknown property type %q", ErrValidation, input.PropertyType)
	}
	// A lead raised against a property belongs to that property's owner, so
	// enquiries from anonymous visitors land with the right agent. Leads with
	// no property reference belong to whoever logged them.
	ownerID := actor.UserID
	if input.PropertyID != nil {
		var property models.Property
		err := s.db.Collection(propertiesCollection).
			FindOne(ctx, bson.M{"_id": *input.PropertyID}).Decode(&property)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, fmt.Errorf("%w: property %s", ErrNotFound, input.PropertyID.String())
			}
			return nil, fmt.Errorf("error checking property %s: %w", input.PropertyID.String(), err)
		}
		if property.OwnerID != nil {
			ownerID = *property.OwnerID
		}
	}

	collection := s.db.Collection(leadsCollection)
	now := time.Now().UTC()

	var lead *models.Lead
	operation := func() error {
		lead = &models.Lead{
			Base:         models.NewBase(),
			Name:         input.Name,
			Email:        input.Email,
			Phone:        input.Phone,
			Transaction:  input.Transaction,
			PropertyType: input.PropertyType,
			Status:       models.LeadOpen,
			Comments:     []models.LeadComment{},
			PropertyID:   input.PropertyID,
			OwnerID:      ownerID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		_, insertErr := collection.InsertOne(ctx, lead)
		return insertErr
	}

	if err := db.Try(operation); err != nil {
		return nil, fmt.Errorf("failed to insert lead for user %s: %w", actor.UserID.String(), err)
	}
	return lead, nil
}

// FindLeadByID returns a lead visible to its owner or an admin.
func (s *leadService) FindLeadByID(ctx context.Context, leadID utils.SixID, actor Actor) (*models.Lead, error) {
	lead, err := s.findAny(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && !actor.Owns(&lead.OwnerID) {
		return nil, fmt.Errorf("%w: lead %s is not owned by actor", ErrForbidden, leadID.String())
	}
	return lead, nil
}

func (s *leadService) findAny(ctx context.Context, leadID utils.SixID) (*models.Lead, error) {
	var lead models.Lead
	err := s.db.Collection(leadsCollection).FindOne(ctx, bson.M{"_id": leadID}).Decode(&lead)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: lead %s", ErrNotFound, leadID.String())
		}
		return nil, fmt.Errorf("error finding lead %s: %w", leadID.String(), err)
	}
	return &lead, nil
}

// FindLeadsByOwner returns all of a user's leads, newest first.
func (s *leadService) FindLeadsByOwner(ctx context.Context, ownerID utils.SixID) ([]models.Lead, error) {
	cursor, err := s.db.Collection(leadsCollection).Find(ctx,
		bson.M{"owner_id": ownerID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query leads for owner %s: %w", ownerID.String(), err)
	}
	defer cursor.Close(ctx)

	results := []models.Lead{}
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode leads: %w", err)
	}
	return results, nil
}

// ListAllLeads returns every lead for admin review.
func (s *leadService) ListAllLeads(ctx context.Context, actor Actor, limit int) ([]models.Lead, error) {
	if !actor.IsAdmin {
		return nil, fmt.Errorf("%w: admin capability required", ErrForbidden)
	}
	if limit <= 0 {
		limit = 100
	}
	cursor, err := s.db.Collection(leadsCollection).Find(ctx, bson.M{},
		options.Find().SetLimit(int64(limit)).SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query leads: %w", err)
	}
	defer cursor.Close(ctx)

	results := []models.Lead{}
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode leads: %w", err)
	}
	return results, nil
}

// SetStatus toggles a lead between Open and Closed.
func (s *leadService) SetStatus(ctx context.Context, leadID utils.SixID, actor Actor, status models.LeadStatus) (*models.Lead, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown lead status %q", ErrValidation, status)
	}
	lead, err := s.findAny(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && !actor.Owns(&lead.OwnerID) {
		return nil, fmt.Errorf("%w: lead %s is not owned by actor", ErrForbidden, leadID.String())
	}

	update := bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Lead
	err = s.db.Collection(leadsCollection).
		FindOneAndUpdate(ctx, bson.M{"_id": leadID}, update, opts).
		Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: lead %s", ErrNotFound, leadID.String())
		}
		return nil, fmt.Errorf("failed to set lead %s status: %w", leadID.String(), err)
	}
	return &updated, nil
}

// AddComment appends a note to the lead's comment trail. Comments are
// append-only; ids are assigned sequentially the same way media ids are.
func (s *leadService) AddComment(ctx context.Context, leadID utils.SixID, actor Actor, text string) (*models.Lead, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: comment text is required", ErrValidation)
	}
	lead, err := s.findAny(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && !actor.Owns(&lead.OwnerID) {
		return nil, fmt.Errorf("%w: lead %s is not owned by actor", ErrForbidden, leadID.String())
	}

	comment := models.LeadComment{
		ID:        models.NextCommentID(lead.Comments),
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	update := bson.M{
		"$push": bson.M{"comments": comment},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Lead
	err = s.db.Collection(leadsCollection).
		FindOneAndUpdate(ctx, bson.M{"_id": leadID}, update, opts).
		Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: lead %s", ErrNotFound, leadID.String())
		}
		return nil, fmt.Errorf("failed to add comment to lead %s: %w", leadID.String(), err)
	}
	return &updated, nil
}

// DeleteLead removes a single lead.
func (s *leadService) DeleteLead(ctx context.Context, leadID utils.SixID, actor Actor) error {
	lead, err := s.findAny(ctx, leadID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin && !actor.Owns(&lead.OwnerID) {
		return fmt.Errorf("%w: lead %s is not owned by actor", ErrForbidden, leadID.String())
	}
	if _, err := s.db.Collection(leadsCollection).DeleteOne(ctx, bson.M{"_id": leadID}); err != nil {
		return fmt.Errorf("failed to delete lead %s: %w", leadID.String(), err)
	}
	return nil
}

// DeleteLeadsByOwner removes every lead created by a user; used by the
// account-deletion cascade.
func (s *leadService) DeleteLeadsByOwner(ctx context.Context, ownerID utils.SixID) error {
	if _, err := s.db.Collection(leadsCollection).DeleteMany(ctx, bson.M{"owner_id": ownerID}); err != nil {
		return fmt.Errorf("failed to delete leads for owner %s: %w", ownerID.String(), err)
	}
	return nil
}
