package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/branchpulse/branchpulse/internal/domain/models"
)

// VisitStore defines the visit-record persistence operations. Analytics
// callers only fetch; the submission workflow also writes.
type VisitStore interface {
	FetchVisits(ctx context.Context, filter models.VisitFilter) ([]models.VisitRecord, error)
	GetVisit(ctx context.Context, id string) (models.VisitRecord, error)
	InsertVisit(ctx context.Context, record models.VisitRecord) error
	UpdateVisitStatus(ctx context.Context, id string, status models.VisitStatus, at time.Time) error
}

// LocationStore supplies the roster denominators for coverage ratios.
type LocationStore interface {
	CountTotal(ctx context.Context, category *models.Category) (int, error)
	CountByCategory(ctx context.Context) (map[models.Category]int, error)
	UpsertLocations(ctx context.Context, locations []models.Location) (int, error)
}

// Repository implements VisitStore and LocationStore against MongoDB.
type Repository struct {
	client        *mongo.Client
	dbName        string
	visitsColl    string
	locationsColl string
}

// NewRepository connects to MongoDB and verifies the connection.
func NewRepository(ctx context.Context, uri, dbName string) (*Repository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Repository{
		client:        client,
		dbName:        dbName,
		visitsColl:    "visit_records",
		locationsColl: "locations",
	}, nil
}

func (r *Repository) visits() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(r.visitsColl)
}

func (r *Repository) locations() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(r.locationsColl)
}

// FetchVisits returns records matching the filter, oldest first.
func (r *Repository) FetchVisits(ctx context.Context, filter models.VisitFilter) ([]models.VisitRecord, error) {
	query := bson.M{}

	if filter.From != nil || filter.To != nil {
		dateRange := bson.M{}
		if filter.From != nil {
			dateRange["$gte"] = *filter.From
		}
		if filter.To != nil {
			dateRange["$lte"] = *filter.To
		}
		query["visit_date"] = dateRange
	}
	if filter.Category != nil {
		query["category"] = *filter.Category
	}
	if filter.AgentID != "" {
		query["agent_id"] = filter.AgentID
	}
	if len(filter.StatusIn) > 0 {
		query["status"] = bson.M{"$in": filter.StatusIn}
	}

	opts := options.Find().SetSort(bson.D{{Key: "visit_date", Value: 1}, {Key: "created_at", Value: 1}})
	cursor, err := r.visits().Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("query visit records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.VisitRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode visit records: %w", err)
	}
	return records, nil
}

// GetVisit returns one record by id.
func (r *Repository) GetVisit(ctx context.Context, id string) (models.VisitRecord, error) {
	var record models.VisitRecord
	if err := r.visits().FindOne(ctx, bson.M{"_id": id}).Decode(&record); err != nil {
		return models.VisitRecord{}, fmt.Errorf("find visit record %s: %w", id, err)
	}
	return record, nil
}

// InsertVisit stores a newly created record.
func (r *Repository) InsertVisit(ctx context.Context, record models.VisitRecord) error {
	if _, err := r.visits().InsertOne(ctx, record); err != nil {
		return fmt.Errorf("insert visit record: %w", err)
	}
	return nil
}

// UpdateVisitStatus applies a status transition.
func (r *Repository) UpdateVisitStatus(ctx context.Context, id string, status models.VisitStatus, at time.Time) error {
	update := bson.M{"$set": bson.M{"status": status, "updated_at": at}}
	result, err := r.visits().UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("update visit record %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("update visit record %s: %w", id, mongo.ErrNoDocuments)
	}
	return nil
}

// CountTotal counts roster locations, optionally narrowed to one tier.
func (r *Repository) CountTotal(ctx context.Context, category *models.Category) (int, error) {
	query := bson.M{}
	if category != nil {
		query["category"] = *category
	}
	count, err := r.locations().CountDocuments(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("count locations: %w", err)
	}
	return int(count), nil
}

// CountByCategory returns one roster count per branch tier.
func (r *Repository) CountByCategory(ctx context.Context) (map[models.Category]int, error) {
	counts := make(map[models.Category]int, len(models.Categories()))
	for _, category := range models.Categories() {
		count, err := r.locations().CountDocuments(ctx, bson.M{"category": category})
		if err != nil {
			return nil, fmt.Errorf("count locations in category %s: %w", category, err)
		}
		counts[category] = int(count)
	}
	return counts, nil
}

// UpsertLocations writes roster entries keyed by location id, replacing
// existing ones. Returns the number of rows written.
func (r *Repository) UpsertLocations(ctx context.Context, locations []models.Location) (int, error) {
	written := 0
	for _, location := range locations {
		opts := options.Replace().SetUpsert(true)
		if _, err := r.locations().ReplaceOne(ctx, bson.M{"_id": location.ID}, location, opts); err != nil {
			return written, fmt.Errorf("upsert location %s: %w", location.ID, err)
		}
		written++
	}
	return written, nil
}

// Close closes the MongoDB connection.
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
