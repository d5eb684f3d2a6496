package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/babylonlabs-io/staking-ledger/internal/db/model"
)

const ledgerSnapshotID = "singleton"

type ledgerSnapshotDoc struct {
	ID                            string `bson:"_id"`
	*model.LedgerSnapshotDocument `bson:",inline"`
}

func (db *Database) GetLedgerSnapshot(ctx context.Context) (*model.LedgerSnapshotDocument, error) {
	filter := bson.M{"_id": ledgerSnapshotID}
	res := db.collection(model.LedgerSnapshotCollection).FindOne(ctx, filter)

	var doc ledgerSnapshotDoc
	err := res.Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     ledgerSnapshotID,
				Message: "ledger snapshot not found",
			}
		}
		return nil, err
	}

	return doc.LedgerSnapshotDocument, nil
}

func (db *Database) SaveLedgerSnapshot(ctx context.Context, snapshot *model.LedgerSnapshotDocument) error {
	doc := ledgerSnapshotDoc{
		ID:                     ledgerSnapshotID,
		LedgerSnapshotDocument: snapshot,
	}

	// older sequences never overwrite newer ones
	filter := bson.M{
		"_id":      ledgerSnapshotID,
		"sequence": bson.M{"$lte": snapshot.Sequence},
	}
	opts := options.Replace().SetUpsert(true)
	_, err := db.collection(model.LedgerSnapshotCollection).ReplaceOne(ctx, filter, doc, opts)
	if mongo.IsDuplicateKeyError(err) {
		// the stored snapshot is newer, the upsert collided on _id
		return nil
	}
	return err
}
