package session

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// storedSession is the Mongo document for one browser context.
type storedSession struct {
	ContextID string    `bson:"_id"`
	Session   Session   `bson:"session"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MongoRepository implements Repository using a Mongo collection.
// Each browser context is one document replaced as a whole on Put. updatedAt
// is bumped on every read so a TTL index on it only reclaims idle contexts.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Name() string { return "mongo" }

func (r *MongoRepository) Put(ctx context.Context, id string, s *Session) error {
	doc := storedSession{ContextID: id, Session: *s, UpdatedAt: time.Now().UTC()}
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": id}, doc, opts)
	return err
}

func (r *MongoRepository) Get(ctx context.Context, id string) (*Session, error) {
	var doc storedSession
	touch := bson.M{"$set": bson.M{"updatedAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, touch, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &doc.Session, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
