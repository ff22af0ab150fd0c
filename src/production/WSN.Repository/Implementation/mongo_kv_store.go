package implementation

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	interfaces "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Repository/Interfaces"
)

type kvDocument struct {
	Key   string `bson:"_id"`
	Value []byte `bson:"value"`
}

// MongoKVStore persists documents in a single collection keyed by _id.
type MongoKVStore struct {
	coll *mongo.Collection
}

func NewMongoKVStore(coll *mongo.Collection) *MongoKVStore {
	return &MongoKVStore{coll: coll}
}

func (s *MongoKVStore) Get(ctx context.Context, key string, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var doc kvDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return interfaces.ErrNotFound
		}
		return err
	}

	if err := json.Unmarshal(doc.Value, out); err != nil {
		return fmt.Errorf("failed to unmarshal value for key %s: %w", key, err)
	}
	return nil
}

func (s *MongoKVStore) Set(ctx context.Context, key string, value interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for key %s: %w", key, err)
	}

	doc := kvDocument{Key: key, Value: raw}
	opts := options.Replace().SetUpsert(true)
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, opts)
	return err
}

func (s *MongoKVStore) GetByPrefix(ctx context.Context, prefix string) ([]interfaces.KVEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"_id": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(prefix)}}
	opts := options.Find().SetSort(bson.M{"_id": 1})

	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var entries []interfaces.KVEntry
	for cur.Next(ctx) {
		var doc kvDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		entries = append(entries, interfaces.KVEntry{Key: doc.Key, Value: doc.Value})
	}

	return entries, cur.Err()
}

func (s *MongoKVStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": key})
	return err
}
