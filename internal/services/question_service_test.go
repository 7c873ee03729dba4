package services

import (
	"context"
	"testing"

	"github.com/SAP-F-2025/interview-prep-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func answerPtr(s string) *models.AnswerValue {
	v := models.AnswerValue(s)
	return &v
}

func TestQuestionService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewQuestionService(f.repo, f.logger, f.validator)

	created, err := svc.CreateQuestion(ctx, "admin", &CreateQuestionRequest{
		Prompt:        "Go has generics",
		Kind:          models.KindTrueFalse,
		Category:      "go",
		Difficulty:    models.DifficultyBeginner,
		CorrectAnswer: answerPtr(" TRUE "),
		TimeAllocated: 30,
		Points:        1,
	})
	require.NoError(t, err)
	require.NotNil(t, created.CorrectAnswer)
	assert.Equal(t, "true", *created.CorrectAnswer)
	assert.Equal(t, "admin", created.CreatedBy)

	got, err := svc.GetQuestion(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Prompt, got.Prompt)

	_, err = svc.GetQuestion(ctx, "missing")
	assert.ErrorIs(t, err, ErrQuestionNotFound)

	_, err = svc.CreateQuestion(ctx, "admin", &CreateQuestionRequest{
		Prompt:        "Describe a conflict",
		Kind:          models.KindBehavioral,
		Category:      "behavioral",
		Difficulty:    models.DifficultyBeginner,
		TimeAllocated: 120,
		Points:        10,
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	_, err = svc.CreateQuestion(ctx, "admin", &CreateQuestionRequest{
		Prompt:        "Pick",
		Kind:          models.KindMultipleChoice,
		Category:      "go",
		Difficulty:    models.DifficultyBeginner,
		Options:       []string{"a", "b"},
		CorrectAnswer: answerPtr("c"),
		TimeAllocated: 30,
		Points:        1,
	})
	assert.True(t, IsValidation(err))

	kind := models.KindTrueFalse
	list, err := svc.ListQuestions(ctx, &ListQuestionsRequest{Kind: &kind})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)
	require.Len(t, list.Questions, 1)
	assert.Equal(t, created.ID, list.Questions[0].ID)
}
