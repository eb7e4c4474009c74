package store

import (
	"context"
	"time"

	"github.com/harshbookstore/backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *DB) InsertBook(ctx context.Context, book *models.Book) (primitive.ObjectID, error) {
	res, err := db.Books().InsertOne(ctx, book, options.InsertOne())
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

// ApprovedBooks returns the public catalog: approved records only, newest
// first. Pending books never appear here.
func (db *DB) ApprovedBooks(ctx context.Context) ([]models.Book, error) {
	cur, err := db.Books().Find(ctx, bson.M{"isApproved": true}, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	books := []models.Book{}
	if err := cur.All(ctx, &books); err != nil {
		return nil, err
	}
	return books, nil
}

func (db *DB) CountBooks(ctx context.Context) (int64, error) {
	return db.Books().CountDocuments(ctx, bson.M{})
}

func (db *DB) CountPendingApprovals(ctx context.Context) (int64, error) {
	return db.Books().CountDocuments(ctx, bson.M{"isApproved": false})
}

// DistinctUploaders resolves the distinct uploader display names across all
// records before the caller counts them.
func (db *DB) DistinctUploaders(ctx context.Context) ([]string, error) {
	vals, err := db.Books().Distinct(ctx, "uploader", bson.M{})
	if err != nil {
		return nil, err
	}
	uploaders := make([]string, 0, len(vals))
	for _, v := range vals {
		if s, ok := v.(string); ok {
			uploaders = append(uploaders, s)
		}
	}
	return uploaders, nil
}

// CountByGenre groups every record by its genre string, one entry per
// distinct genre present regardless of approval state.
func (db *DB) CountByGenre(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$genre",
			"count": bson.M{"$sum": 1},
		}}},
	}
	cur, err := db.Books().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Genre string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Genre] = row.Count
	}
	return counts, nil
}

// MonthlyCounts groups records created in the given calendar year by
// creation month (1=January), ascending. When approvedOnly is set, only
// currently-approved records are counted.
func (db *DB) MonthlyCounts(ctx context.Context, year int, approvedOnly bool) (map[int]int64, error) {
	match := bson.M{
		"createdAt": bson.M{
			"$gte": time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
			"$lt":  time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	if approvedOnly {
		match["isApproved"] = true
	}
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$month": "$createdAt"},
			"count": bson.M{"$sum": 1},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
	cur, err := db.Books().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Month int32 `bson:"_id"`
		Count int64 `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	counts := make(map[int]int64, len(rows))
	for _, row := range rows {
		counts[int(row.Month)] = row.Count
	}
	return counts, nil
}
