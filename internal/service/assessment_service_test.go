package service

import (
	"codementor_backend/internal/model"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGuidancer struct {
	calls int
	err   error
}

func (s *stubGuidancer) Generate(_ context.Context, _ uint, _ *model.Assessment) (*model.Guidance, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &model.Guidance{Content: "ok"}, nil
}

func validInput() AssessmentInput {
	return AssessmentInput{
		ExperienceLevel: "Beginner (little to no coding experience)",
		Languages:       []string{"Python"},
		LearningGoal:    "Learn programming fundamentals",
		LearningStyle:   "Interactive exercises",
		TimeCommitment:  "5-10 hours per week",
	}
}

func TestAssessmentInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(in *AssessmentInput)
		field   string
		message string
	}{
		{"missing experience", func(in *AssessmentInput) { in.ExperienceLevel = "  " }, "experienceLevel", "Please select your experience level"},
		{"no languages", func(in *AssessmentInput) { in.Languages = nil }, "languages", "Please select at least one programming language"},
		{"blank languages", func(in *AssessmentInput) { in.Languages = []string{"", " "} }, "languages", "Please select at least one programming language"},
		{"language too long", func(in *AssessmentInput) { in.Languages = []string{"Go", strings.Repeat("x", MaxLanguageLength+1)} }, "languages", "Language names must be at most 100 characters"},
		{"missing goal", func(in *AssessmentInput) { in.LearningGoal = "" }, "learningGoal", "Please select your learning goal"},
		{"missing style", func(in *AssessmentInput) { in.LearningStyle = "" }, "learningStyle", "Please select your preferred learning style"},
		{"missing time", func(in *AssessmentInput) { in.TimeCommitment = "" }, "timeCommitment", "Please select your time commitment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			err := in.Validate()
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, tt.message, ve.Message)
		})
	}
}

func TestAssessmentInput_LanguageAtLimit(t *testing.T) {
	in := validInput()
	in.Languages = []string{strings.Repeat("語", MaxLanguageLength)}
	require.NoError(t, in.Validate())
}

func TestAssessmentInput_Normalizes(t *testing.T) {
	blank := "   "
	in := validInput()
	in.Languages = []string{" Python ", "Go", "Python", ""}
	in.GoalDetails = &blank
	in.LearningGoal = "  Build web applications "

	require.NoError(t, in.Validate())
	assert.Equal(t, []string{"Python", "Go"}, in.Languages)
	assert.Nil(t, in.GoalDetails)
	assert.Equal(t, "Build web applications", in.LearningGoal)
}

func TestSubmit_ValidationHasNoSideEffects(t *testing.T) {
	store := newFakeStore()
	gen := &stubGuidancer{}
	svc := NewAssessmentService(store, gen)

	in := validInput()
	in.Languages = nil
	_, err := svc.Submit(context.Background(), 1, in)
	assert.True(t, IsValidationError(err))
	assert.Empty(t, store.assessments)
	assert.Zero(t, gen.calls)
}

func TestSubmit_GuidanceFailureDoesNotFailAssessment(t *testing.T) {
	store := newFakeStore()
	gen := &stubGuidancer{err: &StorageError{Op: "persist guidance", Err: errors.New("boom")}}
	svc := NewAssessmentService(store, gen)

	a, err := svc.Submit(context.Background(), 1, validInput())
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, 1, gen.calls)

	stored, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, []string{"Python"}, []string(stored.Languages))
}

func TestSubmit_Resubmission(t *testing.T) {
	store := newFakeStore()
	svc := NewAssessmentService(store, &stubGuidancer{})
	ctx := context.Background()

	first, err := svc.Submit(ctx, 1, validInput())
	require.NoError(t, err)

	in := validInput()
	in.ExperienceLevel = "Advanced (experienced with multiple languages)"
	second, err := svc.Submit(ctx, 1, in)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, store.assessments, 1)
	assert.Equal(t, "Advanced (experienced with multiple languages)", store.assessments[1].ExperienceLevel)
}

func TestSubmit_StorageFailure(t *testing.T) {
	store := newFakeStore()
	store.assessmentErr = errors.New("connection reset")
	gen := &stubGuidancer{}
	svc := NewAssessmentService(store, gen)

	_, err := svc.Submit(context.Background(), 1, validInput())
	assert.True(t, IsStorageError(err))
	assert.Zero(t, gen.calls)
}

func TestAssessmentGet_Absent(t *testing.T) {
	svc := NewAssessmentService(newFakeStore(), nil)
	a, err := svc.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.Nil(t, a)
}
