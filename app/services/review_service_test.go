package services

import (
	"context"
	"strings"
	"testing"

	"github.com/Rakhulsr/go-perfumery/app/models"
	"github.com/Rakhulsr/go-perfumery/app/utils/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewCreateAndDuplicate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ada := e.user(t, "ada", models.RoleCustomer)
	p := e.perfume(t, "Rose", "10.00", 5)

	review, err := e.review.Create(ctx, ada, p.ID, "5", "  Lovely  ")
	require.NoError(t, err)
	assert.Equal(t, "Lovely", review.Comment)

	_, err = e.review.Create(ctx, ada, p.ID, "4", "Again")
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))

	_, err = e.review.Create(ctx, ada, 9999, "4", "Nope")
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestReviewValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ada := e.user(t, "ada", models.RoleCustomer)
	p := e.perfume(t, "Rose", "10.00", 5)

	tests := []struct {
		rating, comment, want string
	}{
		{"x", "ok", "Rating must be a valid number between 1 and 5"},
		{"6", "ok", "Rating must be between 1 and 5"},
		{"0", "ok", "Rating must be between 1 and 5"},
		{"3", "   ", "Comment is required"},
		{"3", strings.Repeat("a", 501), "Comment too long (max 500 characters)"},
	}
	for _, tt := range tests {
		_, err := e.review.Create(ctx, ada, p.ID, tt.rating, tt.comment)
		require.Error(t, err)
		assert.Equal(t, tt.want, apperror.From(err).Message)
	}
}

func TestReviewStatsAndDelete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ada := e.user(t, "ada", models.RoleCustomer)
	bob := e.user(t, "bob", models.RoleCustomer)
	admin := e.user(t, "root", models.RoleAdmin)
	p := e.perfume(t, "Rose", "10.00", 5)

	r1, err := e.review.Create(ctx, ada, p.ID, "5", "Great")
	require.NoError(t, err)
	_, err = e.review.Create(ctx, bob, p.ID, "4", "Good")
	require.NoError(t, err)

	pr, err := e.review.ForPerfume(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.5, pr.AverageRating)
	assert.EqualValues(t, 2, pr.TotalReviews)
	assert.Len(t, pr.Reviews, 2)

	overview, err := e.review.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4.5, overview.GlobalAverage)
	require.Len(t, overview.PerPerfume, 1)

	groups, total, err := e.review.GroupedByPerfume(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, groups, 1)
	assert.Equal(t, "Rose", groups[0].PerfumeName)

	_, err = e.review.Delete(ctx, bob, p.ID, r1.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))

	_, err = e.review.Delete(ctx, ada, p.ID+1, r1.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	deleted, err := e.review.Delete(ctx, admin, 0, r1.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted.Perfume)
	assert.Equal(t, "Rose", deleted.Perfume.Name)

	_, err = e.review.ForUser(ctx, ada, bob.UserID)
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))

	mine, err := e.review.ForUser(ctx, bob, bob.UserID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}
