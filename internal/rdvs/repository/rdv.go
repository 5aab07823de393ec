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

	rdvserrors "github.com/Luckywi/admin-balzac/internal/rdvs/errors"
	"github.com/Luckywi/admin-balzac/pkg/config"
	mongotx "github.com/Luckywi/admin-balzac/pkg/db/mongo"
	"github.com/Luckywi/admin-balzac/pkg/model"
)

const (
	CollectionName = "rdvs"
)

type RdvRepository interface {
	Create(ctx context.Context, rdv *model.Rdv) error
	FindByID(ctx context.Context, id string) (*model.Rdv, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Rdv, error)
	FindByDay(ctx context.Context, day time.Time, staffID string) ([]*model.Rdv, error)
	Update(ctx context.Context, id string, rdv *model.Rdv) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	Watch(ctx context.Context) (<-chan RdvChange, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

// RdvChange identifies the staff day touched by a write to the rdvs
// collection. Deletes do not carry the document, so Known is false and
// subscribers have to refresh conservatively.
type RdvChange struct {
	StaffID string
	Day     time.Time
	Known   bool
}

type mongoRdvRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoRdvRepository(cfg *config.Config) RdvRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRdvRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// When inside a transaction (SessionContext), returns the original context
// unchanged with a no-op cancel function, as wrapping a SessionContext would
// break transaction semantics.
func (r *mongoRdvRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoRdvRepository) Create(ctx context.Context, rdv *model.Rdv) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	rdv.ID = ""
	rdv.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	result, err := r.collection.InsertOne(ctx, rdv)
	if err != nil {
		return fmt.Errorf("failed to create rdv: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		rdv.ID = oid.Hex()
	}
	return nil
}

func (r *mongoRdvRepository) FindByID(ctx context.Context, id string) (*model.Rdv, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", rdvserrors.ErrInvalidID, id)
	}

	var rdv model.Rdv
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&rdv)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, rdvserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find rdv: %w", err)
	}

	return &rdv, nil
}

func (r *mongoRdvRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Rdv, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "start", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find rdvs: %w", err)
	}
	defer cursor.Close(ctx)

	var rdvs []*model.Rdv
	if err = cursor.All(ctx, &rdvs); err != nil {
		return nil, fmt.Errorf("failed to decode rdvs: %w", err)
	}

	return rdvs, nil
}

// FindByDay returns the rdvs starting on the calendar day of `day` in
// local time, optionally filtered to one staff member, sorted by start.
func (r *mongoRdvRepository) FindByDay(ctx context.Context, day time.Time, staffID string) ([]*model.Rdv, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	filter := bson.M{
		"start": bson.M{"$gte": dayStart, "$lt": dayEnd},
	}
	if staffID != "" {
		filter["staff_id"] = staffID
	}

	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find rdvs by day: %w", err)
	}
	defer cursor.Close(ctx)

	var rdvs []*model.Rdv
	if err = cursor.All(ctx, &rdvs); err != nil {
		return nil, fmt.Errorf("failed to decode rdvs: %w", err)
	}

	return rdvs, nil
}

func (r *mongoRdvRepository) Update(ctx context.Context, id string, rdv *model.Rdv) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", rdvserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"staff_id":     rdv.StaffID,
			"start":        rdv.Start,
			"end":          rdv.End,
			"client_name":  rdv.ClientName,
			"client_phone": rdv.ClientPhone,
			"notes":        rdv.Notes,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update rdv: %w", err)
	}

	if result.MatchedCount == 0 {
		return rdvserrors.ErrNotFound
	}

	return nil
}

func (r *mongoRdvRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", rdvserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete rdv: %w", err)
	}

	if result.DeletedCount == 0 {
		return rdvserrors.ErrNotFound
	}

	return nil
}

func (r *mongoRdvRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count rdvs: %w", err)
	}

	return count, nil
}

// Watch opens a change stream on the rdvs collection and converts its
// events to RdvChange values. The returned channel is closed when the
// stream ends; the caller owns ctx and stops the stream by cancelling it.
func (r *mongoRdvRepository) Watch(ctx context.Context) (<-chan RdvChange, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"operationType": bson.M{"$in": []string{"insert", "update", "replace", "delete"}},
		}}},
	}

	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	stream, err := r.collection.Watch(ctx, pipeline, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to watch rdvs: %w", err)
	}

	changes := make(chan RdvChange)
	go func() {
		defer close(changes)
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), r.cfg.ReadTimeout)
			defer cancel()
			if err := stream.Close(closeCtx); err != nil {
				r.cfg.Log.Warn("Failed to close rdvs change stream", "error", err)
			}
		}()

		for stream.Next(ctx) {
			var event struct {
				FullDocument *model.Rdv `bson:"fullDocument"`
			}
			if err := stream.Decode(&event); err != nil {
				r.cfg.Log.Warn("Failed to decode rdvs change event", "error", err)
				continue
			}

			change := RdvChange{}
			if event.FullDocument != nil {
				change.StaffID = event.FullDocument.StaffID
				change.Day = event.FullDocument.Start
				change.Known = true
			}

			select {
			case changes <- change:
			case <-ctx.Done():
				return
			}
		}

		if err := stream.Err(); err != nil && !errors.Is(err, context.Canceled) {
			r.cfg.Log.Error("Rdvs change stream failed", "error", err)
		}
	}()

	return changes, nil
}

func (r *mongoRdvRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
