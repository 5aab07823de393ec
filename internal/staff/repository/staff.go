package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	stafferrors "github.com/Luckywi/admin-balzac/internal/staff/errors"
	"github.com/Luckywi/admin-balzac/pkg/config"
	"github.com/Luckywi/admin-balzac/pkg/model"
)

const (
	CollectionName = "staff"
)

type StaffRepository interface {
	Create(ctx context.Context, member *model.StaffMember) error
	FindByID(ctx context.Context, id string) (*model.StaffMember, error)
	FindAll(ctx context.Context) ([]*model.StaffMember, error)
	Replace(ctx context.Context, id string, member *model.StaffMember) error
	Delete(ctx context.Context, id string) error
}

type mongoStaffRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoStaffRepository(cfg *config.Config) StaffRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoStaffRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
func (r *mongoStaffRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoStaffRepository) Create(ctx context.Context, member *model.StaffMember) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	member.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	_, err := r.collection.InsertOne(ctx, member)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", stafferrors.ErrAlreadyExists, member.ID)
		}
		return fmt.Errorf("failed to create staff member: %w", err)
	}

	return nil
}

func (r *mongoStaffRepository) FindByID(ctx context.Context, id string) (*model.StaffMember, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var member model.StaffMember
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&member)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, stafferrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find staff member: %w", err)
	}

	return &member, nil
}

func (r *mongoStaffRepository) FindAll(ctx context.Context) ([]*model.StaffMember, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find staff members: %w", err)
	}
	defer cursor.Close(ctx)

	var members []*model.StaffMember
	if err = cursor.All(ctx, &members); err != nil {
		return nil, fmt.Errorf("failed to decode staff members: %w", err)
	}

	return members, nil
}

func (r *mongoStaffRepository) Replace(ctx context.Context, id string, member *model.StaffMember) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	member.ID = id
	member.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": id}, member)
	if err != nil {
		return fmt.Errorf("failed to replace staff member: %w", err)
	}

	if result.MatchedCount == 0 {
		return stafferrors.ErrNotFound
	}

	return nil
}

func (r *mongoStaffRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete staff member: %w", err)
	}

	if result.DeletedCount == 0 {
		return stafferrors.ErrNotFound
	}

	return nil
}
