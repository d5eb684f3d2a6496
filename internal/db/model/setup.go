package model

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/babylonlabs-io/staking-ledger/internal/config"
)

const (
	LedgerSnapshotCollection = "ledger_snapshot"
	LedgerEventsCollection   = "ledger_events"
)

type index struct {
	Indexes map[string]int
	Unique  bool
}

var collections = map[string][]index{
	LedgerSnapshotCollection: {{Indexes: map[string]int{}}},
	LedgerEventsCollection: {
		{Indexes: map[string]int{"sequence": 1}, Unique: true},
		{Indexes: map[string]int{"type": 1, "sequence": 1}, Unique: false},
		{Indexes: map[string]int{"caller": 1, "sequence": 1}, Unique: false},
	},
}

// Setup creates the collections and their indexes. It's safe to run on every start.
func Setup(ctx context.Context, cfg *config.DbConfig) error {
	credential := options.Credential{
		Username: cfg.Username,
		Password: cfg.Password,
	}
	clientOps := options.Client().ApplyURI(cfg.Address).SetAuth(credential)
	client, err := mongo.Connect(ctx, clientOps)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(ctx); err != nil {
			log.Ctx(ctx).Err(err).Msg("failed to disconnect setup client")
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	database := client.Database(cfg.DbName)
	for collection, idxs := range collections {
		if err := createCollection(ctx, database, collection); err != nil {
			return err
		}

		for _, idx := range idxs {
			if len(idx.Indexes) == 0 {
				continue
			}
			if err := createIndex(ctx, database, collection, idx); err != nil {
				return err
			}
		}
	}

	log.Ctx(ctx).Info().Msg("collections and indexes created")
	return nil
}

func createCollection(ctx context.Context, database *mongo.Database, name string) error {
	existing, err := database.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	if err := database.CreateCollection(ctx, name); err != nil {
		return fmt.Errorf("failed to create collection %s: %w", name, err)
	}
	return nil
}

func createIndex(ctx context.Context, database *mongo.Database, collection string, idx index) error {
	keys := bson.D{}
	// sequence must come last in compound indexes
	for field, order := range idx.Indexes {
		if field == "sequence" {
			continue
		}
		keys = append(keys, bson.E{Key: field, Value: order})
	}
	if order, ok := idx.Indexes["sequence"]; ok {
		keys = append(keys, bson.E{Key: "sequence", Value: order})
	}

	model := mongo.IndexModel{
		Keys:    keys,
		Options: options.Index().SetUnique(idx.Unique),
	}
	if _, err := database.Collection(collection).Indexes().CreateOne(ctx, model); err != nil {
		return fmt.Errorf("failed to create index on %s: %w", collection, err)
	}
	return nil
}
