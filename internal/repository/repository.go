package repository

import (
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ErrInvalidID is returned when an identifier is not a valid ObjectID.
var ErrInvalidID = errors.New("invalid object id")

func objectIDFromHex(id string) (bson.ObjectID, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.ObjectID{}, ErrInvalidID
	}
	return objectID, nil
}

// paginate applies limit and offset to a find. A zero limit returns every match.
func paginate(findOptions *options.FindOptionsBuilder, limit, offset uint64) *options.FindOptionsBuilder {
	if limit > 0 {
		findOptions.SetLimit(int64(limit))
	}
	if offset > 0 {
		findOptions.SetSkip(int64(offset))
	}
	return findOptions
}
