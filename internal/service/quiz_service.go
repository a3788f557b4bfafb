package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vidquiz/internal/domain"
	"vidquiz/internal/dto"
	"vidquiz/internal/logger"
	"vidquiz/internal/quizgen"
	"vidquiz/internal/util"

	"go.uber.org/zap"
)

// QuizService orchestrates quiz generation and grading.
type QuizService interface {
	GenerateQuiz(ctx context.Context, userID string, req dto.GenerateQuizRequest) (*domain.Quiz, error)
	GetQuiz(ctx context.Context, quizID string, userID string) (*domain.Quiz, error)
	SubmitQuiz(ctx context.Context, quizID string, userID string, req dto.SubmitQuizRequest) (*dto.SubmitQuizResponse, error)
	GetHistory(ctx context.Context, userID string) ([]*domain.Quiz, error)
}

type quizServiceImpl struct {
	transcripts domain.TranscriptFetcher
	generator   domain.TextGenerator
	quizRepo    domain.QuizRepository
	attemptRepo domain.AttemptRepository
	cache       domain.Cache
	leaderboard domain.LeaderboardCache
}

// NewQuizService creates a new instance of QuizService.
func NewQuizService(
	transcripts domain.TranscriptFetcher,
	generator domain.TextGenerator,
	quizRepo domain.QuizRepository,
	attemptRepo domain.AttemptRepository,
	cache domain.Cache,
	leaderboard domain.LeaderboardCache,
) QuizService {
	return &quizServiceImpl{
		transcripts: transcripts,
		generator:   generator,
		quizRepo:    quizRepo,
		attemptRepo: attemptRepo,
		cache:       cache,
		leaderboard: leaderboard,
	}
}

// GenerateQuiz runs the full generation pipeline. Every stage error is
// terminal for the request; there is no retry against the model.
func (s *quizServiceImpl) GenerateQuiz(ctx context.Context, userID string, req dto.GenerateQuizRequest) (*domain.Quiz, error) {
	appLogger := logger.Get()

	prefs := req.Preferences()
	if err := prefs.Validate(); err != nil {
		return nil, err
	}

	transcript, err := s.transcripts.Fetch(ctx, req.VideoURL)
	if err != nil {
		appLogger.Warn("Transcript fetch failed",
			zap.String("videoUrl", req.VideoURL),
			zap.Error(err))
		return nil, err
	}

	prompt, err := quizgen.BuildPrompt(transcript, prefs)
	if err != nil {
		return nil, err
	}

	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		appLogger.Error("Text generation failed",
			zap.String("videoUrl", req.VideoURL),
			zap.Error(err))
		return nil, err
	}

	candidate, err := quizgen.ExtractJSON(raw)
	if err != nil {
		appLogger.Warn("No JSON payload in model output",
			zap.Int("rawLength", len(raw)),
			zap.Error(err))
		return nil, err
	}

	questions, err := quizgen.ValidateQuestions(candidate, prefs)
	if err != nil {
		appLogger.Warn("Generated questions failed validation",
			zap.String("questionType", string(prefs.QuestionType)),
			zap.Error(err))
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = fmt.Sprintf("Quiz for %s", req.VideoURL)
	}

	now := time.Now()
	quiz := &domain.Quiz{
		ID:             util.NewULID(),
		UserID:         userID,
		Title:          title,
		VideoURL:       req.VideoURL,
		Difficulty:     prefs.Difficulty,
		QuestionType:   prefs.QuestionType,
		TotalQuestions: len(questions),
		Questions:      questions,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := quiz.Validate(); err != nil {
		return nil, err
	}
	if err := s.quizRepo.SaveQuiz(ctx, quiz); err != nil {
		return nil, fmt.Errorf("failed to save quiz: %w", err)
	}

	s.invalidateAggregates(ctx, userID)

	appLogger.Info("Quiz generated",
		zap.String("quizID", quiz.ID),
		zap.String("userID", userID),
		zap.Int("questions", len(questions)))
	return quiz, nil
}

func (s *quizServiceImpl) GetQuiz(ctx context.Context, quizID string, userID string) (*domain.Quiz, error) {
	quiz, err := s.quizRepo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(quizID)
	}
	if quiz.UserID != userID {
		return nil, domain.NewForbiddenError("quiz belongs to another user")
	}
	return quiz, nil
}

// SubmitQuiz grades the submitted answers server-side and records the
// attempt. Missing answers count as wrong; extra answers are ignored.
func (s *quizServiceImpl) SubmitQuiz(ctx context.Context, quizID string, userID string, req dto.SubmitQuizRequest) (*dto.SubmitQuizResponse, error) {
	appLogger := logger.Get()

	quiz, err := s.GetQuiz(ctx, quizID, userID)
	if err != nil {
		return nil, err
	}
	if len(quiz.Questions) == 0 {
		return nil, domain.NewInternalError("quiz has no questions", nil)
	}

	correct := 0
	results := make([]dto.AnswerResult, 0, len(quiz.Questions))
	for i, question := range quiz.Questions {
		var answer string
		if i < len(req.Answers) {
			answer = req.Answers[i]
		}
		isCorrect := answerMatches(quiz.QuestionType, question.CorrectAnswer, answer)
		if isCorrect {
			correct++
		}
		results = append(results, dto.AnswerResult{
			Question:      question.Question,
			UserAnswer:    answer,
			CorrectAnswer: question.CorrectAnswer,
			IsCorrect:     isCorrect,
			Explanation:   question.Explanation,
		})
	}

	score := float64(correct) / float64(len(quiz.Questions)) * 100

	quiz.Score = score
	quiz.CorrectAnswers = correct
	quiz.TimeSpent = req.TimeSpent
	quiz.UpdatedAt = time.Now()
	if err := s.quizRepo.UpdateQuizResult(ctx, quiz); err != nil {
		return nil, fmt.Errorf("failed to update quiz result: %w", err)
	}

	attempt := &domain.Attempt{
		ID:             util.NewULID(),
		QuizID:         quiz.ID,
		UserID:         userID,
		Answers:        req.Answers,
		Score:          score,
		CorrectAnswers: correct,
		TimeSpent:      req.TimeSpent,
		CreatedAt:      time.Now(),
	}
	if err := s.attemptRepo.SaveAttempt(ctx, attempt); err != nil {
		// The graded result is already persisted on the quiz; losing the
		// attempt row is not worth failing the request over.
		appLogger.Error("Failed to save attempt", zap.String("quizID", quiz.ID), zap.Error(err))
	}

	s.invalidateAggregates(ctx, userID)

	appLogger.Info("Quiz submitted",
		zap.String("quizID", quiz.ID),
		zap.String("userID", userID),
		zap.Float64("score", score))

	return &dto.SubmitQuizResponse{
		Success:        true,
		Score:          score,
		CorrectAnswers: correct,
		TotalQuestions: len(quiz.Questions),
		Results:        results,
	}, nil
}

func (s *quizServiceImpl) GetHistory(ctx context.Context, userID string) ([]*domain.Quiz, error) {
	quizzes, err := s.quizRepo.GetQuizzesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz history: %w", err)
	}
	return quizzes, nil
}

// invalidateAggregates drops the cached statistics and leaderboard after a
// write. Cache failures are logged and swallowed.
func (s *quizServiceImpl) invalidateAggregates(ctx context.Context, userID string) {
	appLogger := logger.Get()
	if err := s.cache.Delete(ctx, statisticsCacheKey(userID)); err != nil {
		appLogger.Warn("Failed to invalidate statistics cache", zap.String("userID", userID), zap.Error(err))
	}
	if err := s.leaderboard.Invalidate(ctx); err != nil {
		appLogger.Warn("Failed to invalidate leaderboard cache", zap.Error(err))
	}
}

// answerMatches compares a submitted answer against the stored one.
// Fill-in-the-blanks tolerates case and surrounding whitespace; the other
// types compare the exact option text.
func answerMatches(questionType domain.QuestionType, correctAnswer, answer string) bool {
	if questionType == domain.FillInTheBlanks {
		return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(correctAnswer))
	}
	return answer == correctAnswer
}
