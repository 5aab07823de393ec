package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Luckywi/admin-balzac/pkg/config"
	"github.com/Luckywi/admin-balzac/pkg/model"
)

const (
	LockCollectionName = "rdv_locks"
)

// RdvLockRepository provides operations for advisory slot locks
type RdvLockRepository interface {
	Create(ctx context.Context, lock *model.RdvLock) (*model.RdvLock, error)
	FindByID(ctx context.Context, lockID string) (*model.RdvLock, error)
	Delete(ctx context.Context, lockID string) error
}

type mongoRdvLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewRdvLockRepository(cfg *config.Config) RdvLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	r := &mongoRdvLockRepository{
		cfg:        cfg,
		collection: db.Collection(LockCollectionName),
	}
	r.ensureTTLIndex()
	return r
}

// ensureTTLIndex has Mongo reap locks once expires_at passes, so a crash
// between acquire and release cannot brick a slot. The reaper runs on a
// coarse interval; the service additionally takes over expired locks on
// duplicate key, so bookings never wait for it.
func (r *mongoRdvLockRepository) ensureTTLIndex() {
	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		r.cfg.Log.Warn("Failed to ensure rdv lock TTL index", "error", err)
	}
}

// Returns duplicate key error if lock already exists
func (r *mongoRdvLockRepository) Create(ctx context.Context, lock *model.RdvLock) (*model.RdvLock, error) {
	lock.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		return nil, err
	}

	return lock, nil
}

// FindByID returns the lock or mongo.ErrNoDocuments.
func (r *mongoRdvLockRepository) FindByID(ctx context.Context, lockID string) (*model.RdvLock, error) {
	var lock model.RdvLock
	if err := r.collection.FindOne(ctx, bson.M{"_id": lockID}).Decode(&lock); err != nil {
		return nil, err
	}
	return &lock, nil
}

// Delete removes an advisory lock
func (r *mongoRdvLockRepository) Delete(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}
