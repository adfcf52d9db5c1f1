package app_test

import (
	"context"
	"testing"
	"time"

	"cgf-quiz/internal/app"
	"cgf-quiz/internal/domain"
	"cgf-quiz/internal/infra/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreshInstallScenario(t *testing.T) {
	ctrl := newTestController(memory.NewStore())
	st := ctrl.Snapshot()

	assert.Equal(t, 10, st.QuestionCount)
	assert.Equal(t, []string{"all", "CGF Management", "Incident Response", "Red Zone Security", "Site Repairs"}, st.Categories)
	assert.Nil(t, st.Session)
	assert.Nil(t, st.LatestResult)
}

func TestRedZonePerfectScoreScenario(t *testing.T) {
	ctx := context.Background()
	ctrl := newTestController(memory.NewStore())

	require.True(t, ctrl.ChooseCategory("Red Zone Security").OK)
	out := ctrl.StartQuiz()
	require.True(t, out.OK)
	assert.Equal(t, 2, out.State.Session.Total)

	require.True(t, ctrl.Answer(1).OK)
	require.True(t, ctrl.Next().OK)
	require.True(t, ctrl.Answer(1).OK)
	out = ctrl.Submit(ctx)

	require.True(t, out.OK)
	require.NotNil(t, out.Result)
	assert.Equal(t, 2, out.Result.Score)
	assert.Equal(t, 2, out.Result.Total)
	assert.Equal(t, 100, out.Result.Percentage)
	assert.Equal(t, app.StateCompleted, out.State.Session.State)
	assert.Equal(t, out.Result.ID, out.State.LatestResult.ID)
	assert.Equal(t, 1, out.State.ResultCount)
}

func TestStartQuizOnEmptyCategory(t *testing.T) {
	ctrl := newTestController(memory.NewStore())

	out := ctrl.StartQuiz()
	require.False(t, out.OK)
	assert.Equal(t, domain.KindInvalidState, out.Failure.Kind)

	ctrl.ChooseCategory("Does Not Exist")
	out = ctrl.StartQuiz()
	require.False(t, out.OK)
	assert.Equal(t, domain.KindEmptyCategory, out.Failure.Kind)
	assert.Equal(t, app.StateConfigured, out.State.Session.State)
}

func TestDeleteDuringQuizDoesNotAffectSession(t *testing.T) {
	ctx := context.Background()
	ctrl := newTestController(memory.NewStore())

	ctrl.ChooseCategory("Site Repairs")
	require.True(t, ctrl.StartQuiz().OK)
	before := ctrl.Snapshot().Session
	require.Equal(t, 3, before.Total)

	require.True(t, ctrl.DeleteQuestion(ctx, 0).OK)
	require.True(t, ctrl.DeleteQuestion(ctx, 0).OK)

	after := ctrl.Snapshot().Session
	assert.Equal(t, 3, after.Total)
	assert.Equal(t, before.Question.Text, after.Question.Text)

	ctrl.Answer(1)
	out := ctrl.Submit(ctx)
	require.True(t, out.OK)
	assert.Len(t, out.Result.Questions, 3)
	assert.Equal(t, int64(1), out.Result.Questions[0].ID)
	assert.Equal(t, 1, out.Result.Score)
	assert.Equal(t, 33, out.Result.Percentage)
}

func TestDeleteTranslatesFilteredPosition(t *testing.T) {
	ctx := context.Background()
	ctrl := newTestController(memory.NewStore())

	ctrl.FilterQuestions("Red Zone Security")
	view := ctrl.AdminView()
	require.Len(t, view, 2)
	assert.Equal(t, 5, view[0].BankIndex)
	assert.Equal(t, 6, view[1].BankIndex)

	out := ctrl.DeleteQuestion(ctx, 1)
	require.True(t, out.OK)
	assert.Equal(t, 9, out.State.QuestionCount)

	view = ctrl.AdminView()
	require.Len(t, view, 1)
	assert.Equal(t, int64(6), view[0].Question.ID)

	ctrl.FilterQuestions(domain.AllCategories)
	for _, e := range ctrl.AdminView() {
		assert.NotEqual(t, int64(7), e.Question.ID)
	}
}

func TestDeleteOutOfRangeLeavesBank(t *testing.T) {
	ctrl := newTestController(memory.NewStore())

	out := ctrl.DeleteQuestion(context.Background(), 99)
	require.False(t, out.OK)
	assert.Equal(t, domain.KindOutOfRange, out.Failure.Kind)
	assert.Equal(t, 10, out.State.QuestionCount)

	ctrl.FilterQuestions("Red Zone Security")
	out = ctrl.DeleteQuestion(context.Background(), 2)
	require.False(t, out.OK)
	assert.Equal(t, domain.KindOutOfRange, out.Failure.Kind)
}

func TestAddQuestionWithOneAnswerFails(t *testing.T) {
	ctrl := newTestController(memory.NewStore())

	out := ctrl.AddQuestion(context.Background(), domain.QuestionInput{
		Text: "Only one?", Category: "Site Repairs", Answers: []string{"yes"}, Correct: intPtr(0),
	})
	require.False(t, out.OK)
	assert.Equal(t, domain.KindValidation, out.Failure.Kind)
	assert.Equal(t, "answers", out.Failure.Field)
	assert.Equal(t, 10, out.State.QuestionCount)
}

func TestAddQuestionCreatesCategory(t *testing.T) {
	ctrl := newTestController(memory.NewStore())

	out := ctrl.AddQuestion(context.Background(), domain.QuestionInput{
		Text: "Which door needs a TIN?", Category: "Access Control", Answers: []string{"All", "None"}, Correct: intPtr(0),
	})
	require.True(t, out.OK)
	assert.Contains(t, out.State.Categories, "Access Control")
	assert.Equal(t, 11, out.State.QuestionCount)
}

func TestImportMalformedBatchRejected(t *testing.T) {
	ctrl := newTestController(memory.NewStore())

	out := ctrl.ImportQuestions(context.Background(), []byte(`[
		{"text":"1","answers":["a","b"],"correct":0},
		{"text":"2","answers":["a","b"],"correct":0},
		{"text":"3","answers":"a,b","correct":0},
		{"text":"4","answers":["a","b"],"correct":0},
		{"text":"5","answers":["a","b"],"correct":0}
	]`))
	require.False(t, out.OK)
	assert.Equal(t, domain.KindImportFormat, out.Failure.Kind)
	require.NotNil(t, out.Failure.Position)
	assert.Equal(t, 2, *out.Failure.Position)
	assert.Equal(t, 10, out.State.QuestionCount)
}

func TestExportImportDoublesCollection(t *testing.T) {
	ctrl := newTestController(memory.NewStore())

	data, err := ctrl.ExportQuestions()
	require.NoError(t, err)
	out := ctrl.ImportQuestions(context.Background(), data)
	require.True(t, out.OK)
	assert.Equal(t, 10, out.Imported)
	assert.Equal(t, 20, out.State.QuestionCount)
}

func TestExportFilename(t *testing.T) {
	name := app.ExportFilename(time.Date(2026, 10, 16, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, "cgf-quiz-questions-2026-10-16.json", name)
}

func TestRetakeBuildsFreshSession(t *testing.T) {
	ctx := context.Background()
	ctrl := newTestController(memory.NewStore())

	assert.False(t, ctrl.Retake().OK)

	ctrl.ChooseCategory("CGF Management")
	ctrl.StartQuiz()
	assert.False(t, ctrl.Retake().OK, "retake is only offered after submit")
	ctrl.Answer(3)
	require.True(t, ctrl.Submit(ctx).OK)

	out := ctrl.Retake()
	require.True(t, out.OK)
	assert.Equal(t, app.StateConfigured, out.State.Session.State)
	assert.Equal(t, "CGF Management", out.State.Session.Category)

	out = ctrl.StartQuiz()
	require.True(t, out.OK)
	assert.Equal(t, domain.Unanswered, out.State.Session.Selected)
	assert.Equal(t, 0, out.State.Session.Index)
}

func TestRetakeAfterRestartUsesLatestCategory(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	ctrl := newTestController(store)
	ctrl.ChooseCategory("Incident Response")
	ctrl.StartQuiz()
	require.True(t, ctrl.Submit(ctx).OK)

	restarted := newTestController(store)
	out := restarted.Retake()
	require.True(t, out.OK)
	assert.Equal(t, "Incident Response", out.State.Session.Category)
}

func TestChooseCategoryDuringQuizRejected(t *testing.T) {
	ctrl := newTestController(memory.NewStore())
	ctrl.ChooseCategory(domain.AllCategories)
	ctrl.StartQuiz()

	out := ctrl.ChooseCategory("Site Repairs")
	require.False(t, out.OK)
	assert.Equal(t, domain.KindInvalidState, out.Failure.Kind)
	assert.Equal(t, app.StateInProgress, out.State.Session.State)
}

func TestHistoryMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	ctrl := newTestController(memory.NewStore())
	ctrl.SetHistoryLimit(2)

	for _, cat := range []string{"Site Repairs", "Red Zone Security", "Incident Response"} {
		ctrl.ChooseCategory(cat)
		require.True(t, ctrl.StartQuiz().OK)
		require.True(t, ctrl.Submit(ctx).OK)
	}

	history := ctrl.History(0)
	require.Len(t, history, 2)
	assert.Equal(t, "Incident Response", history[0].Category)
	assert.Equal(t, "Red Zone Security", history[1].Category)
	assert.Len(t, ctrl.History(10), 3)
	assert.Equal(t, "Site Repairs", ctrl.AllResults()[0].Category)

	review, ok := ctrl.Review()
	require.True(t, ok)
	assert.Len(t, review, 2)
}

func TestSubmitWarnsWhenResultNotSaved(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{Store: memory.NewStore()}
	ctrl := newTestController(store)

	ctrl.ChooseCategory("Red Zone Security")
	ctrl.StartQuiz()
	store.failSet = true
	out := ctrl.Submit(ctx)

	require.True(t, out.OK)
	assert.NotEmpty(t, out.Warning)
	assert.Equal(t, 1, out.State.ResultCount)
}

func TestClearAllNeedsTwoConfirmations(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	ctrl := newTestController(store)

	ctrl.ChooseCategory("Red Zone Security")
	ctrl.StartQuiz()
	ctrl.Submit(ctx)
	ctrl.DeleteQuestion(ctx, 0)

	for _, confirms := range [][2]bool{{false, false}, {true, false}, {false, true}} {
		out := ctrl.ClearAll(ctx, confirms[0], confirms[1])
		require.False(t, out.OK)
		assert.Equal(t, domain.KindConfirmRequired, out.Failure.Kind)
		assert.Equal(t, 9, out.State.QuestionCount)
		assert.Equal(t, 1, out.State.ResultCount)
	}

	out := ctrl.ClearAll(ctx, true, true)
	require.True(t, out.OK)
	assert.Equal(t, 10, out.State.QuestionCount)
	assert.Equal(t, 0, out.State.ResultCount)
	assert.Nil(t, out.State.Session)

	reopened := newTestController(store)
	assert.Equal(t, 10, reopened.Snapshot().QuestionCount)
	assert.Empty(t, reopened.History(0))
}

func TestResetQuestions(t *testing.T) {
	ctx := context.Background()
	ctrl := newTestController(memory.NewStore())
	ctrl.DeleteQuestion(ctx, 0)

	out := ctrl.ResetQuestions(ctx)
	require.True(t, out.OK)
	assert.Equal(t, 10, out.State.QuestionCount)
}

func TestOpenReportsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ctrl := app.NewController(memory.NewStore(), discardLogger())
	assert.ErrorIs(t, ctrl.Open(ctx), context.Canceled)
}
