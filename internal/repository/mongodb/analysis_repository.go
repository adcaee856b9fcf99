package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/layerfarm/internal/domain/models"
)

const analysesCollection = "analysis_records"

// AnalysisRepository stores analysis audit rows in MongoDB.
type AnalysisRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewAnalysisRepository connects to MongoDB and verifies the connection.
func NewAnalysisRepository(ctx context.Context, uri string, dbName string) (*AnalysisRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &AnalysisRepository{
		client:   client,
		dbName:   dbName,
		collName: analysesCollection,
	}, nil
}

func (r *AnalysisRepository) collection() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(r.collName)
}

// SaveAnalysis inserts one audit document and returns its id.
func (r *AnalysisRepository) SaveAnalysis(ctx context.Context, record models.AnalysisRecord) (string, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	if _, err := r.collection().InsertOne(ctx, record); err != nil {
		return "", fmt.Errorf("failed to insert analysis record: %w", err)
	}
	return record.ID, nil
}

// ListAnalyses returns the newest audit documents, optionally for one type.
func (r *AnalysisRepository) ListAnalyses(ctx context.Context, analysisType string, limit int) ([]models.AnalysisRecord, error) {
	filter := bson.M{}
	if analysisType != "" {
		filter["type"] = analysisType
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis records: %w", err)
	}
	defer cursor.Close(ctx)

	records := make([]models.AnalysisRecord, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode analysis records: %w", err)
	}
	return records, nil
}

// Close closes the MongoDB connection.
func (r *AnalysisRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
