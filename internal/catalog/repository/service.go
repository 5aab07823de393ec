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
	ServiceCollectionName = "services"
)

type ServiceRepository interface {
	Create(ctx context.Context, svc *model.Service) error
	FindByID(ctx context.Context, id string) (*model.Service, error)
	FindAll(ctx context.Context) ([]*model.Service, error)
	FindBySection(ctx context.Context, sectionID string) ([]*model.Service, error)
	CountBySection(ctx context.Context, sectionID string) (int64, error)
	Update(ctx context.Context, id string, svc *model.Service) error
	Delete(ctx context.Context, id string) error
}

type mongoServiceRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoServiceRepository(cfg *config.Config) ServiceRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoServiceRepository{
		cfg:        cfg,
		collection: db.Collection(ServiceCollectionName),
	}
}

func (r *mongoServiceRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoServiceRepository) Create(ctx context.Context, svc *model.Service) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	svc.ID = ""
	svc.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	result, err := r.collection.InsertOne(ctx, svc)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		svc.ID = oid.Hex()
	}
	return nil
}

func (r *mongoServiceRepository) FindByID(ctx context.Context, id string) (*model.Service, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, id)
	}

	var svc model.Service
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&svc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalogerrors.ErrServiceNotFound
		}
		return nil, fmt.Errorf("failed to find service: %w", err)
	}

	return &svc, nil
}

func (r *mongoServiceRepository) FindAll(ctx context.Context) ([]*model.Service, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "section_id", Value: 1}, {Key: "title", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find services: %w", err)
	}
	defer cursor.Close(ctx)

	var services []*model.Service
	if err = cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("failed to decode services: %w", err)
	}

	return services, nil
}

func (r *mongoServiceRepository) FindBySection(ctx context.Context, sectionID string) ([]*model.Service, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "title", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"section_id": sectionID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find services by section: %w", err)
	}
	defer cursor.Close(ctx)

	var services []*model.Service
	if err = cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("failed to decode services: %w", err)
	}

	return services, nil
}

func (r *mongoServiceRepository) CountBySection(ctx context.Context, sectionID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"section_id": sectionID})
	if err != nil {
		return 0, fmt.Errorf("failed to count services by section: %w", err)
	}
	return count, nil
}

func (r *mongoServiceRepository) Update(ctx context.Context, id string, svc *model.Service) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"title":       svc.Title,
			"description": svc.Description,
			"duration":    svc.Duration,
			"price":       svc.Price,
			"section_id":  svc.SectionID,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update service: %w", err)
	}

	if result.MatchedCount == 0 {
		return catalogerrors.ErrServiceNotFound
	}

	return nil
}

func (r *mongoServiceRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}

	if result.DeletedCount == 0 {
		return catalogerrors.ErrServiceNotFound
	}

	return nil
}
