package db

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/babylonlabs-io/staking-ledger/internal/db/model"
)

func (db *Database) SaveLedgerEvent(ctx context.Context, event *model.LedgerEventDocument) error {
	_, err := db.collection(model.LedgerEventsCollection).InsertOne(ctx, event)
	if err != nil {
		var writeErr mongo.WriteException
		if errors.As(err, &writeErr) {
			for _, e := range writeErr.WriteErrors {
				if mongo.IsDuplicateKeyError(e) {
					return &DuplicateKeyError{
						Key:     fmt.Sprint(event.Sequence),
						Message: "ledger event already exists",
					}
				}
			}
		}
		return err
	}

	return nil
}

func (db *Database) GetLedgerEvents(
	ctx context.Context, afterSequence uint64, limit int64,
) ([]*model.LedgerEventDocument, error) {
	filter := bson.M{"sequence": bson.M{"$gt": afterSequence}}
	opts := options.Find().SetSort(bson.D{{Key: "sequence", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := db.collection(model.LedgerEventsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []*model.LedgerEventDocument
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}

	return events, nil
}

func (db *Database) GetLastEventSequence(ctx context.Context) (uint64, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "sequence", Value: -1}})

	var event model.LedgerEventDocument
	err := db.collection(model.LedgerEventsCollection).FindOne(ctx, bson.M{}, opts).Decode(&event)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return event.Sequence, nil
}
