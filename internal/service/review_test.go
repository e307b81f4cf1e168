package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/internal/domain"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/internal/event"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/internal/repository/memory"
	apperrors "github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/errors"
)

func newTestReviewService(t *testing.T) (*ReviewService, *recordingPublisher) {
	t.Helper()
	producer, pub := newTestProducer()
	return NewReviewService(memory.NewReviewRepository(), producer, newTestLogger(), WithClock(tickingClock())), pub
}

func createReview(t *testing.T, svc *ReviewService, drinkID, userID string, rating int) *ReviewOutput {
	t.Helper()
	out, err := svc.CreateReview(context.Background(), &CreateReviewInput{
		DrinkID: drinkID,
		UserID:  userID,
		Rating:  rating,
		Comment: "good",
	})
	require.NoError(t, err)
	return out
}

// ============================================================================
// CreateReview / FindReview
// ============================================================================

func TestCreateReview_Success(t *testing.T) {
	svc, pub := newTestReviewService(t)
	ctx := context.Background()

	created := createReview(t, svc, "d1", "heumsi", 4)
	assert.Equal(t, domain.NewReviewID("d1", "heumsi"), created.ReviewID)
	assert.Equal(t, 4, created.Rating)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.Equal(t, float64(testNow.Unix()+1), created.CreatedAt)

	found, err := svc.FindReview(ctx, &FindReviewInput{ReviewID: created.ReviewID})
	require.NoError(t, err)
	assert.Equal(t, created, found)
	assert.Equal(t, []string{event.TopicReviewCreated}, pub.published())
}

func TestCreateReview_SecondReviewIsConflict(t *testing.T) {
	svc, _ := newTestReviewService(t)
	createReview(t, svc, "d1", "heumsi", 4)

	_, err := svc.CreateReview(context.Background(), &CreateReviewInput{DrinkID: "d1", UserID: "heumsi", Rating: 2})
	requireFailure(t, err, apperrors.KindResourceConflict)
}

func TestCreateReview_InvalidInput(t *testing.T) {
	svc, _ := newTestReviewService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreateReviewInput
	}{
		{"rating too high", CreateReviewInput{DrinkID: "d1", UserID: "u", Rating: 6}},
		{"rating negative", CreateReviewInput{DrinkID: "d1", UserID: "u", Rating: -1}},
		{"comment too long", CreateReviewInput{DrinkID: "d1", UserID: "u", Rating: 3, Comment: strings.Repeat("a", domain.MaxCommentLen+1)}},
		{"missing drink", CreateReviewInput{UserID: "u", Rating: 3}},
		{"user id too long", CreateReviewInput{DrinkID: "d1", UserID: strings.Repeat("u", domain.MaxUserIDLen+1), Rating: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.input
			_, err := svc.CreateReview(ctx, &in)
			requireFailure(t, err, apperrors.KindParameters)
		})
	}
}

func TestFindReview_NotFound(t *testing.T) {
	svc, _ := newTestReviewService(t)

	_, err := svc.FindReview(context.Background(), &FindReviewInput{ReviewID: "missing"})
	requireFailure(t, err, apperrors.KindResourceNotFound)
}

// ============================================================================
// FindReviews
// ============================================================================

func TestFindReviews_FilterAndOrder(t *testing.T) {
	svc, _ := newTestReviewService(t)
	ctx := context.Background()

	createReview(t, svc, "d1", "alice", 2)
	createReview(t, svc, "d1", "bob", 5)
	createReview(t, svc, "d2", "alice", 3)

	out, err := svc.FindReviews(ctx, &FindReviewsInput{DrinkID: "d1", Order: "like_desc"})
	require.NoError(t, err)
	assert.Equal(t, 2, out.TotalCount)
	require.Len(t, out.Items, 2)
	assert.Equal(t, 5, out.Items[0].Rating)
	assert.Equal(t, 2, out.Items[1].Rating)

	out, err = svc.FindReviews(ctx, &FindReviewsInput{UserID: "alice"})
	require.NoError(t, err)
	assert.Equal(t, 2, out.TotalCount)
	assert.Equal(t, "d2", out.Items[0].DrinkID, "newest first")

	out, err = svc.FindReviews(ctx, &FindReviewsInput{DrinkID: "nothing"})
	require.NoError(t, err)
	assert.Empty(t, out.Items)
	assert.Equal(t, 1, out.Page)
	assert.Equal(t, 20, out.PerPage)
}

// ============================================================================
// UpdateReview / DeleteReview
// ============================================================================

func TestUpdateReview_ReportsOldRating(t *testing.T) {
	svc, pub := newTestReviewService(t)
	ctx := context.Background()
	created := createReview(t, svc, "d1", "heumsi", 4)

	out, err := svc.UpdateReview(ctx, &UpdateReviewInput{
		ReviewID: created.ReviewID,
		UserID:   "heumsi",
		Rating:   1,
		Comment:  "changed my mind",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, out.OldRating)
	assert.Equal(t, "good", out.OldComment)
	assert.Equal(t, 1, out.Review.Rating)
	assert.Equal(t, "changed my mind", out.Review.Comment)
	assert.Equal(t, created.CreatedAt, out.Review.CreatedAt)
	assert.Greater(t, out.Review.UpdatedAt, created.UpdatedAt)
	assert.Contains(t, pub.published(), event.TopicReviewUpdated)
}

func TestUpdateReview_Failures(t *testing.T) {
	svc, _ := newTestReviewService(t)
	ctx := context.Background()
	created := createReview(t, svc, "d1", "heumsi", 4)

	_, err := svc.UpdateReview(ctx, &UpdateReviewInput{ReviewID: created.ReviewID, UserID: "intruder", Rating: 1})
	requireFailure(t, err, apperrors.KindUnauthorized)

	_, err = svc.UpdateReview(ctx, &UpdateReviewInput{ReviewID: created.ReviewID, UserID: "heumsi", Rating: 9})
	requireFailure(t, err, apperrors.KindParameters)

	_, err = svc.UpdateReview(ctx, &UpdateReviewInput{ReviewID: "missing", UserID: "heumsi", Rating: 1})
	requireFailure(t, err, apperrors.KindResourceNotFound)

	found, err := svc.FindReview(ctx, &FindReviewInput{ReviewID: created.ReviewID})
	require.NoError(t, err)
	assert.Equal(t, 4, found.Rating)
}

func TestDeleteReview(t *testing.T) {
	svc, pub := newTestReviewService(t)
	ctx := context.Background()
	created := createReview(t, svc, "d1", "heumsi", 4)

	_, err := svc.DeleteReview(ctx, &DeleteReviewInput{ReviewID: created.ReviewID, UserID: "someone"})
	requireFailure(t, err, apperrors.KindUnauthorized)

	out, err := svc.DeleteReview(ctx, &DeleteReviewInput{ReviewID: created.ReviewID, UserID: "heumsi"})
	require.NoError(t, err)
	assert.Equal(t, 4, out.Review.Rating)
	assert.Contains(t, pub.published(), event.TopicReviewDeleted)

	_, err = svc.FindReview(ctx, &FindReviewInput{ReviewID: created.ReviewID})
	requireFailure(t, err, apperrors.KindResourceNotFound)

	// The same user may review the drink again once the old review is gone.
	createReview(t, svc, "d1", "heumsi", 3)
}

func TestRestoreReview(t *testing.T) {
	svc, pub := newTestReviewService(t)
	ctx := context.Background()
	created := createReview(t, svc, "d1", "heumsi", 4)

	deleted, err := svc.DeleteReview(ctx, &DeleteReviewInput{ReviewID: created.ReviewID, UserID: "heumsi"})
	require.NoError(t, err)

	restored, err := svc.RestoreReview(ctx, deleted)
	require.NoError(t, err)
	assert.Equal(t, created, restored)

	found, err := svc.FindReview(ctx, &FindReviewInput{ReviewID: created.ReviewID})
	require.NoError(t, err)
	assert.Equal(t, created, found)
	assert.Equal(t, []string{event.TopicReviewCreated, event.TopicReviewDeleted, event.TopicReviewCreated}, pub.published())

	_, err = svc.RestoreReview(ctx, deleted)
	requireFailure(t, err, apperrors.KindResourceConflict)

	_, err = svc.RestoreReview(ctx, &DeleteReviewOutput{Review: *created})
	requireFailure(t, err, apperrors.KindParameters)
}
