package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	catalogerrors "github.com/Luckywi/admin-balzac/internal/catalog/errors"
	"github.com/Luckywi/admin-balzac/pkg/config"
	"github.com/Luckywi/admin-balzac/pkg/model"
)

const (
	SectionCollectionName = "sections"
)

type SectionRepository interface {
	Create(ctx context.Context, section *model.Section) error
	FindByID(ctx context.Context, id string) (*model.Section, error)
	FindAll(ctx context.Context) ([]*model.Section, error)
	Delete(ctx context.Context, id string) error
}

type mongoSectionRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSectionRepository(cfg *config.Config) SectionRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSectionRepository{
		cfg:        cfg,
		collection: db.Collection(SectionCollectionName),
	}
}

func (r *mongoSectionRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoSectionRepository) Create(ctx context.Context, section *model.Section) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	section.ID = ""
	section.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	result, err := r.collection.InsertOne(ctx, section)
	if err != nil {
		return fmt.Errorf("failed to create section: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		section.ID = oid.Hex()
	}
	return nil
}

func (r *mongoSectionRepository) FindByID(ctx context.Context, id string) (*model.Section, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, id)
	}

	var section model.Section
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&section)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalogerrors.ErrSectionNotFound
		}
		return nil, fmt.Errorf("failed to find section: %w", err)
	}

	return &section, nil
}

func (r *mongoSectionRepository) FindAll(ctx context.Context) ([]*model.Section, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "title", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find sections: %w", err)
	}
	defer cursor.Close(ctx)

	var sections []*model.Section
	if err = cursor.All(ctx, &sections); err != nil {
		return nil, fmt.Errorf("failed to decode sections: %w", err)
	}

	return sections, nil
}

func (r *mongoSectionRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete section: %w", err)
	}

	if result.DeletedCount == 0 {
		return catalogerrors.ErrSectionNotFound
	}

	return nil
}
