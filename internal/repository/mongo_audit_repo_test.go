package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/noah-isme/stc-api/internal/models"
)

func TestMongoAuditRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mentorID := primitive.NewObjectID()
	studentID := primitive.NewObjectID()
	testID := primitive.NewObjectID()

	mt.Run("lists mentors by role", func(mt *mtest.T) {
		repo := NewMongoAuditRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.users", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: mentorID}, {Key: "name", Value: "Grace"}, {Key: "email", Value: "grace@example.com"}, {Key: "role", Value: models.RoleMentor}},
		))

		mentors, err := repo.ListUsersByRole(context.Background(), models.RoleMentor)
		require.NoError(mt, err)
		require.Len(mt, mentors, 1)
		require.Equal(mt, mentorID.Hex(), mentors[0].ID)
		require.Equal(mt, "Grace", mentors[0].Name)
	})

	mt.Run("populates submission relations", func(mt *mtest.T) {
		repo := NewMongoAuditRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "db.submissions", mtest.FirstBatch,
				bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "testId", Value: testID}, {Key: "userId", Value: studentID}, {Key: "obtainedMarks", Value: int32(42)}},
			),
			mtest.CreateCursorResponse(0, "db.users", mtest.FirstBatch,
				bson.D{{Key: "_id", Value: studentID}, {Key: "name", Value: "Linus"}, {Key: "email", Value: "linus@example.com"}, {Key: "role", Value: models.RoleStudent}},
			),
			mtest.CreateCursorResponse(0, "db.tests", mtest.FirstBatch,
				bson.D{{Key: "_id", Value: testID}, {Key: "name", Value: "Algorithms"}, {Key: "totalMarks", Value: int32(50)}, {Key: "createdBy", Value: mentorID}},
			),
		)

		submissions, err := repo.ListSubmissionsByTestIDs(context.Background(), []string{testID.Hex()})
		require.NoError(mt, err)
		require.Len(mt, submissions, 1)
		require.Equal(mt, 42.0, submissions[0].Obtained())
		require.NotNil(mt, submissions[0].User)
		require.Equal(mt, "Linus", submissions[0].User.Name)
		require.NotNil(mt, submissions[0].Test)
		require.Equal(mt, 50.0, submissions[0].Test.TotalMarks)
	})

	mt.Run("missing test maps to not found", func(mt *mtest.T) {
		repo := NewMongoAuditRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.tests", mtest.FirstBatch))

		_, err := repo.GetTestByID(context.Background(), testID.Hex())
		require.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("command failure is surfaced", func(mt *mtest.T) {
		repo := NewMongoAuditRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 11600, Message: "interrupted"}))

		_, err := repo.GetTestByID(context.Background(), testID.Hex())
		require.Error(mt, err)
		require.NotErrorIs(mt, err, ErrNotFound)
	})
}

func TestObjectIDOrStringKeepsPlainIdentifiers(t *testing.T) {
	oid := primitive.NewObjectID()
	require.Equal(t, oid, objectIDOrString(oid.Hex()))
	require.Equal(t, "t-1", objectIDOrString("t-1"))
	require.Equal(t, "t-1", idString("t-1"))
	require.Equal(t, oid.Hex(), idString(oid))
	require.Equal(t, "", idString(nil))
}
