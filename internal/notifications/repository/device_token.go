package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	notificationserrors "github.com/Luckywi/admin-balzac/internal/notifications/errors"
	"github.com/Luckywi/admin-balzac/pkg/config"
	"github.com/Luckywi/admin-balzac/pkg/model"
)

const (
	CollectionName = "deviceTokens"
)

type DeviceTokenRepository interface {
	Upsert(ctx context.Context, token *model.DeviceToken) error
	FindAll(ctx context.Context) ([]*model.DeviceToken, error)
	Delete(ctx context.Context, token string) error
}

type mongoDeviceTokenRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoDeviceTokenRepository(cfg *config.Config) DeviceTokenRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoDeviceTokenRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoDeviceTokenRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

// Upsert registers the device. The token is the document id, so
// re-registering the same device is a no-op rather than a duplicate.
func (r *mongoDeviceTokenRepository) Upsert(ctx context.Context, token *model.DeviceToken) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	update := bson.M{
		"$set": bson.M{"platform": token.Platform},
		"$setOnInsert": bson.M{
			"created_at": time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateByID(ctx, token.Token, update, opts)
	if err != nil {
		return fmt.Errorf("failed to register device token: %w", err)
	}

	return nil
}

func (r *mongoDeviceTokenRepository) FindAll(ctx context.Context) ([]*model.DeviceToken, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to find device tokens: %w", err)
	}
	defer cursor.Close(ctx)

	var tokens []*model.DeviceToken
	if err = cursor.All(ctx, &tokens); err != nil {
		return nil, fmt.Errorf("failed to decode device tokens: %w", err)
	}

	return tokens, nil
}

func (r *mongoDeviceTokenRepository) Delete(ctx context.Context, token string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": token})
	if err != nil {
		return fmt.Errorf("failed to delete device token: %w", err)
	}

	if result.DeletedCount == 0 {
		return notificationserrors.ErrTokenNotFound
	}

	return nil
}
