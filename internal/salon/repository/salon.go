package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	salonerrors "github.com/Luckywi/admin-balzac/internal/salon/errors"
	"github.com/Luckywi/admin-balzac/pkg/config"
	"github.com/Luckywi/admin-balzac/pkg/model"
)

const (
	CollectionName = "salon"
)

type SalonRepository interface {
	Get(ctx context.Context) (*model.SalonConfig, error)
	Upsert(ctx context.Context, cfg *model.SalonConfig) error
}

type mongoSalonRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSalonRepository(cfg *config.Config) SalonRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSalonRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
func (r *mongoSalonRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoSalonRepository) Get(ctx context.Context) (*model.SalonConfig, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var salonCfg model.SalonConfig
	err := r.collection.FindOne(ctx, bson.M{"_id": model.SalonConfigID}).Decode(&salonCfg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, salonerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find salon configuration: %w", err)
	}

	return &salonCfg, nil
}

func (r *mongoSalonRepository) Upsert(ctx context.Context, salonCfg *model.SalonConfig) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	salonCfg.ID = model.SalonConfigID
	salonCfg.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": model.SalonConfigID}, salonCfg, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert salon configuration: %w", err)
	}

	return nil
}
