package catalogRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"choreify/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoCatalogRepo implements CatalogRepository using MongoDB.
type MongoCatalogRepo struct {
	coll   *mongo.Collection
	logger *zap.Logger
}

// NewMongoCatalogRepo creates a catalog backed by the "services" collection.
func NewMongoCatalogRepo(db *mongo.Database, logger *zap.Logger) *MongoCatalogRepo {
	repo := &MongoCatalogRepo{coll: db.Collection("services"), logger: logger}

	if err := repo.ensureIndexes(); err != nil {
		logger.Warn("failed to create catalog indexes", zap.Error(err))
	}
	return repo
}

// newContext derives a context with the given timeout.
func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}

func (r *MongoCatalogRepo) ensureIndexes() error {
	ctx, cancel := newContext(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "active", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoCatalogRepo) List(ctx context.Context, category string) ([]models.Service, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"active": true}
	if category != "" {
		filter["category"] = category
	}
	opts := options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer cursor.Close(ctx)

	services := []models.Service{}
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("failed to decode services: %w", err)
	}
	return services, nil
}

func (r *MongoCatalogRepo) GetBySlug(ctx context.Context, slug string) (*models.Service, error) {
	return r.findOne(ctx, bson.M{"slug": slug, "active": true})
}

func (r *MongoCatalogRepo) GetByID(ctx context.Context, id string) (*models.Service, error) {
	return r.findOne(ctx, bson.M{"id": id, "active": true})
}

func (r *MongoCatalogRepo) findOne(ctx context.Context, filter bson.M) (*models.Service, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var svc models.Service
	if err := r.coll.FindOne(ctx, filter).Decode(&svc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find service: %w", err)
	}
	return &svc, nil
}

// Seed upserts services by id. Existing documents keep their createdAt.
func (r *MongoCatalogRepo) Seed(ctx context.Context, services []models.Service) error {
	ctx, cancel := newContext(ctx, 30*time.Second)
	defer cancel()

	now := time.Now()
	writes := make([]mongo.WriteModel, 0, len(services))
	for _, svc := range services {
		svc.UpdatedAt = now
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"id": svc.ID}).
			SetUpdate(bson.M{
				"$set": bson.M{
					"slug":        svc.Slug,
					"name":        svc.Name,
					"category":    svc.Category,
					"description": svc.Description,
					"basePrice":   svc.BasePrice,
					"options":     svc.Options,
					"active":      svc.Active,
					"updatedAt":   svc.UpdatedAt,
				},
				"$setOnInsert": bson.M{"createdAt": now},
			}).
			SetUpsert(true))
	}
	if len(writes) == 0 {
		return nil
	}

	res, err := r.coll.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}
	r.logger.Info("Catalog seeded",
		zap.Int64("inserted", res.UpsertedCount),
		zap.Int64("updated", res.ModifiedCount))
	return nil
}
