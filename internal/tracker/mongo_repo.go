package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/exercisetracker/internal/telemetry/tracing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/otel/attribute"
)

const MongoCollection = "exercise_logs"

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	Exercises []Exercise         `bson:"exercises"`
}

func (d *userDocument) toUser() *User {
	exercises := d.Exercises
	if exercises == nil {
		exercises = make([]Exercise, 0)
	}
	return &User{
		ID:        d.ID.Hex(),
		Username:  d.Username,
		Exercises: exercises,
	}
}

// MongoRepo stores one document per user, with the exercise log embedded
// as an array in that document.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{
		col: db.Collection(MongoCollection),
	}
}

// EnsureIndexes creates the unique username index.
func (r *MongoRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("ux_username"),
	})
	if err != nil {
		return fmt.Errorf("create username index: %w", err)
	}
	return nil
}

func (r *MongoRepo) CreateUser(ctx context.Context, username string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.tracker.mongo.create-user")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	doc := userDocument{
		Username:  username,
		Exercises: make([]Exercise, 0),
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("mongo insert: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	doc.ID = oid
	span.SetAttributes(attribute.String("user.id", oid.Hex()))

	return doc.toUser(), nil
}

func (r *MongoRepo) UserByUsername(ctx context.Context, username string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.tracker.mongo.user-by-username")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.findOne(ctx, bson.M{"username": username})
}

func (r *MongoRepo) UserByID(ctx context.Context, id string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.tracker.mongo.user-by-id")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", id))

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoRepo) AppendExercise(ctx context.Context, userID string, exercise Exercise) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.tracker.mongo.append-exercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrNotFound
	}

	var doc userDocument
	err = r.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$push": bson.M{"exercises": exercise}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo push exercise: %w", err)
	}

	return doc.toUser(), nil
}

func (r *MongoRepo) Ping(ctx context.Context) error {
	return r.col.Database().Client().Ping(ctx, readpref.Primary())
}

func (r *MongoRepo) findOne(ctx context.Context, filter bson.M) (*User, error) {
	var doc userDocument
	err := r.col.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo find one: %w", err)
	}
	return doc.toUser(), nil
}
