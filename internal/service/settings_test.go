package service

import (
	"context"
	"testing"

	"quizmart/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsSeededDefaults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	v, err := f.settings.GetInt64(ctx, domain.SettingQuizCommissionPercent)
	require.NoError(t, err)
	assert.Equal(t, int64(10), v)

	v, err = f.settings.GetInt64(ctx, domain.SettingCourseApprovalFeeCents)
	require.NoError(t, err)
	assert.Equal(t, int64(500), v)
}

func TestSettingsSetOverrides(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.settings.Set(ctx, domain.SettingQuizCommissionPercent, "25"))
	v, err := f.settings.GetInt64(ctx, domain.SettingQuizCommissionPercent)
	require.NoError(t, err)
	assert.Equal(t, int64(25), v)

	all, err := f.settings.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, len(domain.DefaultSettings))
}

func TestSettingsOverrideChangesSplit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, domain.RoleInstructor)
	buyer := f.user(t, domain.RoleStudent)
	q := f.quiz(t, author.ID, true, 1000, domain.QuizStatusPublished)
	f.fund(t, buyer.ID, 1000)

	require.NoError(t, f.settings.Set(ctx, domain.SettingQuizCommissionPercent, "30"))

	res, err := f.settlement.PurchaseQuiz(ctx, buyer, q.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(700), res.AuthorCreditedCents)
	assert.Equal(t, int64(300), res.PlatformRevenueCents)
}
