package service

import (
	"context"
	"errors"
	"testing"

	"vidquiz/internal/domain"
	"vidquiz/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newQuizServiceFixture() (QuizService, *MockTranscriptFetcher, *MockTextGenerator, *MockQuizRepository, *MockAttemptRepository, *MockCache, *MockLeaderboardCache) {
	fetcher := new(MockTranscriptFetcher)
	generator := new(MockTextGenerator)
	quizRepo := new(MockQuizRepository)
	attemptRepo := new(MockAttemptRepository)
	cacheMock := new(MockCache)
	leaderboard := new(MockLeaderboardCache)
	svc := NewQuizService(fetcher, generator, quizRepo, attemptRepo, cacheMock, leaderboard)
	return svc, fetcher, generator, quizRepo, attemptRepo, cacheMock, leaderboard
}

func TestGenerateQuiz(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, fetcher, generator, quizRepo, _, cacheMock, leaderboard := newQuizServiceFixture()

		rawOutput := "```json\n[" +
			`{"question":"What is Go?","options":["A language","A bird","A game","A planet"],"correctAnswer":"A language","explanation":"Go is a programming language."},` +
			`{"question":"Who created Go?","options":["Google","Apple","IBM","Mozilla"],"correctAnswer":"Google","explanation":"Go was created at Google."},` +
			`{"question":"What year was Go released?","options":["2009","1999","2015","2001"],"correctAnswer":"2009","explanation":"Go was released in 2009."}` +
			"]\n```"

		fetcher.On("Fetch", ctx, "https://youtu.be/abc12345678").Return("a transcript about the Go language", nil)
		generator.On("Generate", ctx, mock.AnythingOfType("string")).Return(rawOutput, nil)
		quizRepo.On("SaveQuiz", ctx, mock.AnythingOfType("*domain.Quiz")).Return(nil)
		cacheMock.On("Delete", ctx, mock.AnythingOfType("string")).Return(nil)
		leaderboard.On("Invalidate", ctx).Return(nil)

		quiz, err := svc.GenerateQuiz(ctx, "user-1", dto.GenerateQuizRequest{
			VideoURL:          "https://youtu.be/abc12345678",
			NumberOfQuestions: 3,
			Difficulty:        "medium",
			QuestionType:      "multiple-choice",
		})

		assert.NoError(t, err)
		assert.NotNil(t, quiz)
		assert.NotEmpty(t, quiz.ID)
		assert.Equal(t, "user-1", quiz.UserID)
		assert.Equal(t, 3, quiz.TotalQuestions)
		assert.Len(t, quiz.Questions, 3)
		assert.Equal(t, "A language", quiz.Questions[0].CorrectAnswer)
		assert.Equal(t, "Quiz for https://youtu.be/abc12345678", quiz.Title)
		quizRepo.AssertExpectations(t)
	})

	t.Run("UnsupportedQuestionTypeSkipsRemoteCalls", func(t *testing.T) {
		svc, fetcher, generator, _, _, _, _ := newQuizServiceFixture()

		quiz, err := svc.GenerateQuiz(ctx, "user-1", dto.GenerateQuizRequest{
			VideoURL:          "https://youtu.be/abc12345678",
			NumberOfQuestions: 3,
			Difficulty:        "medium",
			QuestionType:      "matching",
		})

		assert.Nil(t, quiz)
		var domainErr *domain.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeUnsupportedQuestionType, domainErr.Code)
		fetcher.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
		generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})

	t.Run("TranscriptErrorIsTerminal", func(t *testing.T) {
		svc, fetcher, generator, _, _, _, _ := newQuizServiceFixture()

		fetcher.On("Fetch", ctx, "https://youtu.be/abc12345678").
			Return("", domain.NewNoTranscriptError("abc12345678"))

		quiz, err := svc.GenerateQuiz(ctx, "user-1", dto.GenerateQuizRequest{
			VideoURL:          "https://youtu.be/abc12345678",
			NumberOfQuestions: 3,
			Difficulty:        "easy",
			QuestionType:      "true-false",
		})

		assert.Nil(t, quiz)
		var domainErr *domain.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeNoTranscript, domainErr.Code)
		generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})

	t.Run("MalformedModelOutputIsNotRetried", func(t *testing.T) {
		svc, fetcher, generator, quizRepo, _, _, _ := newQuizServiceFixture()

		fetcher.On("Fetch", ctx, "https://youtu.be/abc12345678").Return("a transcript", nil)
		generator.On("Generate", ctx, mock.AnythingOfType("string")).Return("[{not json at all", nil).Once()

		quiz, err := svc.GenerateQuiz(ctx, "user-1", dto.GenerateQuizRequest{
			VideoURL:          "https://youtu.be/abc12345678",
			NumberOfQuestions: 2,
			Difficulty:        "hard",
			QuestionType:      "multiple-choice",
		})

		assert.Nil(t, quiz)
		var domainErr *domain.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeMalformedOutput, domainErr.Code)
		generator.AssertNumberOfCalls(t, "Generate", 1)
		quizRepo.AssertNotCalled(t, "SaveQuiz", mock.Anything, mock.Anything)
	})

	t.Run("EmptyQuestionArrayIsNotSaved", func(t *testing.T) {
		svc, fetcher, generator, quizRepo, _, _, _ := newQuizServiceFixture()

		fetcher.On("Fetch", ctx, "https://youtu.be/abc12345678").Return("a transcript", nil)
		generator.On("Generate", ctx, mock.AnythingOfType("string")).Return("```json\n[]\n```", nil)

		quiz, err := svc.GenerateQuiz(ctx, "user-1", dto.GenerateQuizRequest{
			VideoURL:          "https://youtu.be/abc12345678",
			NumberOfQuestions: 3,
			Difficulty:        "medium",
			QuestionType:      "multiple-choice",
		})

		assert.Nil(t, quiz)
		var domainErr *domain.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeMalformedOutput, domainErr.Code)
		quizRepo.AssertNotCalled(t, "SaveQuiz", mock.Anything, mock.Anything)
	})

	t.Run("ExplicitTitleIsKept", func(t *testing.T) {
		svc, fetcher, generator, quizRepo, _, cacheMock, leaderboard := newQuizServiceFixture()

		rawOutput := `[{"question":"Is water wet?","options":["True","False"],"correctAnswer":"True","explanation":"It is."}]`
		fetcher.On("Fetch", ctx, mock.Anything).Return("a transcript", nil)
		generator.On("Generate", ctx, mock.Anything).Return(rawOutput, nil)
		quizRepo.On("SaveQuiz", ctx, mock.Anything).Return(nil)
		cacheMock.On("Delete", ctx, mock.Anything).Return(nil)
		leaderboard.On("Invalidate", ctx).Return(nil)

		quiz, err := svc.GenerateQuiz(ctx, "user-1", dto.GenerateQuizRequest{
			VideoURL:          "https://youtu.be/abc12345678",
			Title:             "My Custom Quiz",
			NumberOfQuestions: 1,
			Difficulty:        "easy",
			QuestionType:      "true-false",
		})

		assert.NoError(t, err)
		assert.Equal(t, "My Custom Quiz", quiz.Title)
	})
}

func TestGetQuiz(t *testing.T) {
	ctx := context.Background()

	t.Run("NotFound", func(t *testing.T) {
		svc, _, _, quizRepo, _, _, _ := newQuizServiceFixture()
		quizRepo.On("GetQuizByID", ctx, "missing").Return(nil, nil)

		quiz, err := svc.GetQuiz(ctx, "missing", "user-1")
		assert.Nil(t, quiz)
		var domainErr *domain.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeNotFound, domainErr.Code)
	})

	t.Run("ForbiddenForOtherUser", func(t *testing.T) {
		svc, _, _, quizRepo, _, _, _ := newQuizServiceFixture()
		quizRepo.On("GetQuizByID", ctx, "quiz-1").Return(&domain.Quiz{ID: "quiz-1", UserID: "owner"}, nil)

		quiz, err := svc.GetQuiz(ctx, "quiz-1", "intruder")
		assert.Nil(t, quiz)
		var domainErr *domain.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeForbidden, domainErr.Code)
	})
}

func TestSubmitQuiz(t *testing.T) {
	ctx := context.Background()

	storedQuiz := func() *domain.Quiz {
		return &domain.Quiz{
			ID:           "quiz-1",
			UserID:       "user-1",
			QuestionType: domain.MultipleChoice,
			Questions: []domain.GeneratedQuestion{
				{Question: "Q1", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: "a", Explanation: "x"},
				{Question: "Q2", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: "b", Explanation: "y"},
				{Question: "Q3", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: "c", Explanation: "z"},
				{Question: "Q4", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: "d", Explanation: "w"},
			},
		}
	}

	t.Run("ScoresServerSide", func(t *testing.T) {
		svc, _, _, quizRepo, attemptRepo, cacheMock, leaderboard := newQuizServiceFixture()

		quizRepo.On("GetQuizByID", ctx, "quiz-1").Return(storedQuiz(), nil)
		quizRepo.On("UpdateQuizResult", ctx, mock.AnythingOfType("*domain.Quiz")).Return(nil)
		attemptRepo.On("SaveAttempt", ctx, mock.AnythingOfType("*domain.Attempt")).Return(nil)
		cacheMock.On("Delete", ctx, mock.AnythingOfType("string")).Return(nil)
		leaderboard.On("Invalidate", ctx).Return(nil)

		resp, err := svc.SubmitQuiz(ctx, "quiz-1", "user-1", dto.SubmitQuizRequest{
			Answers:   []string{"a", "b", "x", "d"},
			TimeSpent: 120,
		})

		assert.NoError(t, err)
		assert.Equal(t, 3, resp.CorrectAnswers)
		assert.Equal(t, 4, resp.TotalQuestions)
		assert.Equal(t, 75.0, resp.Score)
		assert.False(t, resp.Results[2].IsCorrect)
		assert.True(t, resp.Results[3].IsCorrect)
		quizRepo.AssertExpectations(t)
		attemptRepo.AssertExpectations(t)
	})

	t.Run("MissingAnswersCountAsWrong", func(t *testing.T) {
		svc, _, _, quizRepo, attemptRepo, cacheMock, leaderboard := newQuizServiceFixture()

		quizRepo.On("GetQuizByID", ctx, "quiz-1").Return(storedQuiz(), nil)
		quizRepo.On("UpdateQuizResult", ctx, mock.Anything).Return(nil)
		attemptRepo.On("SaveAttempt", ctx, mock.Anything).Return(nil)
		cacheMock.On("Delete", ctx, mock.Anything).Return(nil)
		leaderboard.On("Invalidate", ctx).Return(nil)

		resp, err := svc.SubmitQuiz(ctx, "quiz-1", "user-1", dto.SubmitQuizRequest{
			Answers: []string{"a"},
		})

		assert.NoError(t, err)
		assert.Equal(t, 1, resp.CorrectAnswers)
		assert.Equal(t, 25.0, resp.Score)
	})

	t.Run("FillInTheBlanksIsCaseInsensitive", func(t *testing.T) {
		svc, _, _, quizRepo, attemptRepo, cacheMock, leaderboard := newQuizServiceFixture()

		quiz := &domain.Quiz{
			ID:           "quiz-2",
			UserID:       "user-1",
			QuestionType: domain.FillInTheBlanks,
			Questions: []domain.GeneratedQuestion{
				{Question: "The capital of France is ___.", CorrectAnswer: "Paris", Explanation: "x"},
			},
		}
		quizRepo.On("GetQuizByID", ctx, "quiz-2").Return(quiz, nil)
		quizRepo.On("UpdateQuizResult", ctx, mock.Anything).Return(nil)
		attemptRepo.On("SaveAttempt", ctx, mock.Anything).Return(nil)
		cacheMock.On("Delete", ctx, mock.Anything).Return(nil)
		leaderboard.On("Invalidate", ctx).Return(nil)

		resp, err := svc.SubmitQuiz(ctx, "quiz-2", "user-1", dto.SubmitQuizRequest{
			Answers: []string{"  paris "},
		})

		assert.NoError(t, err)
		assert.Equal(t, 1, resp.CorrectAnswers)
		assert.Equal(t, 100.0, resp.Score)
	})

	t.Run("AttemptSaveFailureDoesNotFailSubmission", func(t *testing.T) {
		svc, _, _, quizRepo, attemptRepo, cacheMock, leaderboard := newQuizServiceFixture()

		quizRepo.On("GetQuizByID", ctx, "quiz-1").Return(storedQuiz(), nil)
		quizRepo.On("UpdateQuizResult", ctx, mock.Anything).Return(nil)
		attemptRepo.On("SaveAttempt", ctx, mock.Anything).Return(errors.New("db down"))
		cacheMock.On("Delete", ctx, mock.Anything).Return(nil)
		leaderboard.On("Invalidate", ctx).Return(nil)

		resp, err := svc.SubmitQuiz(ctx, "quiz-1", "user-1", dto.SubmitQuizRequest{
			Answers: []string{"a", "b", "c", "d"},
		})

		assert.NoError(t, err)
		assert.Equal(t, 100.0, resp.Score)
	})
}
