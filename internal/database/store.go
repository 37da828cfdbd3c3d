// server/internal/database/store.go
package database

import (
	"context"
	"errors"
	"fmt"

	"warehouse-pickup-api-server/internal/models"
	"warehouse-pickup-api-server/internal/queue"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore là hiện thực MongoDB của queue.Store. Apply chạy toàn bộ change
// set trong một transaction: hoặc tất cả document được ghi, hoặc không gì cả.
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) requests() *mongo.Collection { return s.db.Collection("pickup_requests") }
func (s *MongoStore) gates() *mongo.Collection    { return s.db.Collection("gates") }

func (s *MongoStore) RequestByID(ctx context.Context, requestID string) (*models.PickupRequest, error) {
	var r models.PickupRequest
	err := s.requests().FindOne(ctx, bson.M{"requestID": requestID}).Decode(&r)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, queue.ErrNotFound
		}
		return nil, fmt.Errorf("find request: %w", err)
	}
	return &r, nil
}

func (s *MongoStore) ActiveRequestByOrder(ctx context.Context, salesOrderNumber string) (*models.PickupRequest, error) {
	var r models.PickupRequest
	err := s.requests().FindOne(ctx, bson.M{
		"salesOrderNumber": salesOrderNumber,
		"status":           bson.M{"$in": models.ActiveStatuses},
	}).Decode(&r)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find active request by order: %w", err)
	}
	return &r, nil
}

func (s *MongoStore) Requests(ctx context.Context, includeTerminal bool) ([]models.PickupRequest, error) {
	filter := bson.M{}
	if !includeTerminal {
		filter["status"] = bson.M{"$in": models.ActiveStatuses}
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.requests().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("query requests: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.PickupRequest
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode requests: %w", err)
	}
	if out == nil {
		out = []models.PickupRequest{}
	}
	return out, nil
}

func (s *MongoStore) InsertRequest(ctx context.Context, r *models.PickupRequest) error {
	_, err := s.requests().InsertOne(ctx, r)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return queue.ErrDuplicateOrder
		}
		return fmt.Errorf("insert request: %w", err)
	}
	return nil
}

func (s *MongoStore) GateByID(ctx context.Context, gateID string) (*models.Gate, error) {
	var g models.Gate
	err := s.gates().FindOne(ctx, bson.M{"gateID": gateID}).Decode(&g)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, queue.ErrNotFound
		}
		return nil, fmt.Errorf("find gate: %w", err)
	}
	return &g, nil
}

func (s *MongoStore) GateByNumber(ctx context.Context, number int) (*models.Gate, error) {
	var g models.Gate
	err := s.gates().FindOne(ctx, bson.M{"gateNumber": number}).Decode(&g)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find gate by number: %w", err)
	}
	return &g, nil
}

func (s *MongoStore) Gates(ctx context.Context) ([]models.Gate, error) {
	opts := options.Find().SetSort(bson.D{{Key: "gateNumber", Value: 1}})
	cursor, err := s.gates().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("query gates: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.Gate
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode gates: %w", err)
	}
	if out == nil {
		out = []models.Gate{}
	}
	return out, nil
}

func (s *MongoStore) Queue(ctx context.Context, gateID string) ([]models.PickupRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "queuePosition", Value: 1}})
	cursor, err := s.requests().Find(ctx, bson.M{
		"assignedGateID": gateID,
		"status":         models.StatusInQueue,
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("query queue: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.PickupRequest
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode queue: %w", err)
	}
	return out, nil
}

func (s *MongoStore) ProcessingAt(ctx context.Context, gateID string) (*models.PickupRequest, error) {
	var r models.PickupRequest
	err := s.requests().FindOne(ctx, bson.M{
		"assignedGateID": gateID,
		"status":         models.StatusProcessing,
	}).Decode(&r)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find processing request: %w", err)
	}
	return &r, nil
}

func (s *MongoStore) RecentCompletions(ctx context.Context, limit int) ([]models.PickupRequest, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "completedAt", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := s.requests().Find(ctx, bson.M{
		"status":      models.StatusCompleted,
		"completedAt": bson.M{"$ne": nil},
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("query completions: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.PickupRequest
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode completions: %w", err)
	}
	return out, nil
}

func (s *MongoStore) Apply(ctx context.Context, cs queue.ChangeSet) error {
	if cs.Empty() {
		return nil
	}

	session, err := s.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	callback := func(sessCtx mongo.SessionContext) (interface{}, error) {
		upsert := options.Replace().SetUpsert(true)
		for _, r := range cs.Requests {
			if _, err := s.requests().ReplaceOne(sessCtx, bson.M{"requestID": r.RequestID}, r, upsert); err != nil {
				return nil, err // Lỗi sẽ khiến transaction bị abort
			}
		}
		for _, g := range cs.Gates {
			if _, err := s.gates().ReplaceOne(sessCtx, bson.M{"gateID": g.GateID}, g, upsert); err != nil {
				return nil, err
			}
		}
		for _, id := range cs.DeleteGateIDs {
			if _, err := s.gates().DeleteOne(sessCtx, bson.M{"gateID": id}); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}

	if _, err := session.WithTransaction(ctx, callback); err != nil {
		return fmt.Errorf("apply change set: %w", err)
	}
	return nil
}
