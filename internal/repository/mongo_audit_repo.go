package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/noah-isme/stc-api/internal/models"
)

// Collection names used by the document store.
const (
	mongoUsersCollection       = "users"
	mongoTestsCollection       = "tests"
	mongoSubmissionsCollection = "submissions"
)

type mongoUser struct {
	ID    interface{} `bson:"_id"`
	Name  string      `bson:"name"`
	Email string      `bson:"email"`
	Role  string      `bson:"role"`
}

type mongoTest struct {
	ID         interface{} `bson:"_id"`
	Name       string      `bson:"name"`
	TotalMarks float64     `bson:"totalMarks"`
	CreatedBy  interface{} `bson:"createdBy"`
}

type mongoSubmission struct {
	ID               interface{} `bson:"_id"`
	TestID           interface{} `bson:"testId"`
	UserID           interface{} `bson:"userId"`
	ObtainedMarks    *float64    `bson:"obtainedMarks"`
	SubmittedAt      *time.Time  `bson:"submittedAt"`
	SubmissionReason string      `bson:"submissionReason"`
	ViolationReason  string      `bson:"violationReason"`
}

type mongoAuditRepository struct {
	db *mongo.Database
}

// NewMongoAuditRepository builds an AuditRepository over the users, tests and submissions collections.
func NewMongoAuditRepository(db *mongo.Database) AuditRepository {
	return &mongoAuditRepository{db: db}
}

func (r *mongoAuditRepository) ListUsersByRole(ctx context.Context, role string) ([]models.User, error) {
	var docs []mongoUser
	if err := r.findAll(ctx, mongoUsersCollection, bson.M{"role": role}, &docs); err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, doc.toModel())
	}
	return users, nil
}

func (r *mongoAuditRepository) ListTestsByCreator(ctx context.Context, creatorID string) ([]models.Test, error) {
	var docs []mongoTest
	if err := r.findAll(ctx, mongoTestsCollection, bson.M{"createdBy": objectIDOrString(creatorID)}, &docs); err != nil {
		return nil, err
	}

	tests := make([]models.Test, 0, len(docs))
	for _, doc := range docs {
		tests = append(tests, doc.toModel())
	}
	return tests, nil
}

func (r *mongoAuditRepository) ListSubmissionsByTestIDs(ctx context.Context, testIDs []string) ([]models.Submission, error) {
	if len(testIDs) == 0 {
		return []models.Submission{}, nil
	}

	var docs []mongoSubmission
	filter := bson.M{"testId": bson.M{"$in": objectIDsOrStrings(testIDs)}}
	if err := r.findAll(ctx, mongoSubmissionsCollection, filter, &docs); err != nil {
		return nil, err
	}

	submissions := make([]models.Submission, 0, len(docs))
	userIDs := make([]string, 0, len(docs))
	refTestIDs := make([]string, 0, len(docs))
	for _, doc := range docs {
		submission := doc.toModel()
		submissions = append(submissions, submission)
		userIDs = append(userIDs, submission.UserID)
		refTestIDs = append(refTestIDs, submission.TestID)
	}

	users, err := r.usersByID(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	tests, err := r.testsByID(ctx, refTestIDs)
	if err != nil {
		return nil, err
	}

	for i := range submissions {
		if user, ok := users[submissions[i].UserID]; ok {
			submissions[i].User = &user
		}
		if test, ok := tests[submissions[i].TestID]; ok {
			submissions[i].Test = &test
		}
	}

	return submissions, nil
}

func (r *mongoAuditRepository) GetTestByID(ctx context.Context, id string) (models.Test, error) {
	var doc mongoTest
	err := r.db.Collection(mongoTestsCollection).
		FindOne(ctx, bson.M{"_id": objectIDOrString(id)}).
		Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Test{}, ErrNotFound
		}
		return models.Test{}, fmt.Errorf("find test %s: %w", id, err)
	}

	return doc.toModel(), nil
}

func (r *mongoAuditRepository) ListSubmissions(ctx context.Context) ([]models.Submission, error) {
	var docs []mongoSubmission
	if err := r.findAll(ctx, mongoSubmissionsCollection, bson.M{}, &docs); err != nil {
		return nil, err
	}

	submissions := make([]models.Submission, 0, len(docs))
	for _, doc := range docs {
		submissions = append(submissions, doc.toModel())
	}
	return submissions, nil
}

func (r *mongoAuditRepository) usersByID(ctx context.Context, ids []string) (map[string]models.User, error) {
	result := make(map[string]models.User)
	if len(ids) == 0 {
		return result, nil
	}

	var docs []mongoUser
	if err := r.findAll(ctx, mongoUsersCollection, bson.M{"_id": bson.M{"$in": objectIDsOrStrings(ids)}}, &docs); err != nil {
		return nil, err
	}
	for _, doc := range docs {
		user := doc.toModel()
		result[user.ID] = user
	}
	return result, nil
}

func (r *mongoAuditRepository) testsByID(ctx context.Context, ids []string) (map[string]models.Test, error) {
	result := make(map[string]models.Test)
	if len(ids) == 0 {
		return result, nil
	}

	var docs []mongoTest
	if err := r.findAll(ctx, mongoTestsCollection, bson.M{"_id": bson.M{"$in": objectIDsOrStrings(ids)}}, &docs); err != nil {
		return nil, err
	}
	for _, doc := range docs {
		test := doc.toModel()
		result[test.ID] = test
	}
	return result, nil
}

func (r *mongoAuditRepository) findAll(ctx context.Context, collection string, filter interface{}, out interface{}) error {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return fmt.Errorf("find %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("decode %s: %w", collection, err)
	}
	return nil
}

func (d mongoUser) toModel() models.User {
	return models.User{ID: idString(d.ID), Name: d.Name, Email: d.Email, Role: d.Role}
}

func (d mongoTest) toModel() models.Test {
	return models.Test{ID: idString(d.ID), Name: d.Name, TotalMarks: d.TotalMarks, CreatedBy: idString(d.CreatedBy)}
}

func (d mongoSubmission) toModel() models.Submission {
	return models.Submission{
		ID:               idString(d.ID),
		TestID:           idString(d.TestID),
		UserID:           idString(d.UserID),
		ObtainedMarks:    d.ObtainedMarks,
		SubmittedAt:      d.SubmittedAt,
		SubmissionReason: d.SubmissionReason,
		ViolationReason:  d.ViolationReason,
	}
}

func idString(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// objectIDOrString converts hex identifiers back to ObjectIDs so both id styles can be queried.
func objectIDOrString(id string) interface{} {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return oid
	}
	return id
}

func objectIDsOrStrings(ids []string) bson.A {
	values := make(bson.A, 0, len(ids))
	for _, id := range ids {
		values = append(values, objectIDOrString(id))
	}
	return values
}
