package dto

import (
	"time"

	"vidquiz/internal/domain"
)

// GenerateQuizRequest represents the request body for generating a quiz
// from a YouTube video.
// @Description Request body for quiz generation
type GenerateQuizRequest struct {
	VideoURL          string `json:"videoUrl" validate:"required"`
	Title             string `json:"title"`
	NumberOfQuestions int    `json:"numberOfQuestions"`
	Difficulty        string `json:"difficulty"`
	QuestionType      string `json:"questionType"`
}

// Preferences converts the request into domain quiz preferences.
func (r *GenerateQuizRequest) Preferences() domain.QuizPreferences {
	return domain.QuizPreferences{
		NumberOfQuestions: r.NumberOfQuestions,
		Difficulty:        domain.Difficulty(r.Difficulty),
		QuestionType:      domain.QuestionType(r.QuestionType),
	}
}

// QuestionPayload represents a single quiz question in the API response.
type QuestionPayload struct {
	Question      string   `json:"question"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// QuizResponse represents a quiz in the API response.
// @Description Quiz information
type QuizResponse struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	VideoURL       string            `json:"videoUrl"`
	Difficulty     string            `json:"difficulty"`
	QuestionType   string            `json:"questionType"`
	TotalQuestions int               `json:"totalQuestions"`
	Questions      []QuestionPayload `json:"questions"`
	Score          float64           `json:"score"`
	CorrectAnswers int               `json:"correctAnswers"`
	TimeSpent      int               `json:"timeSpent"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// GenerateQuizResponse wraps a freshly generated quiz.
type GenerateQuizResponse struct {
	Success bool         `json:"success"`
	Quiz    QuizResponse `json:"quiz"`
}

// QuizHistoryResponse represents the user's past quizzes.
type QuizHistoryResponse struct {
	Success bool           `json:"success"`
	Quizzes []QuizResponse `json:"quizzes"`
}

// SubmitQuizRequest represents the request body for submitting answers.
// @Description Request body for quiz submission
type SubmitQuizRequest struct {
	Answers   []string `json:"answers" validate:"required"`
	TimeSpent int      `json:"timeSpent"`
}

// SubmitQuizResponse reports the graded result of a submission.
type SubmitQuizResponse struct {
	Success        bool           `json:"success"`
	Score          float64        `json:"score"`
	CorrectAnswers int            `json:"correctAnswers"`
	TotalQuestions int            `json:"totalQuestions"`
	Results        []AnswerResult `json:"results"`
}

// AnswerResult describes the grading of a single answer.
type AnswerResult struct {
	Question      string `json:"question"`
	UserAnswer    string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	IsCorrect     bool   `json:"isCorrect"`
	Explanation   string `json:"explanation"`
}

// StatisticsResponse represents aggregate quiz statistics for a user.
type StatisticsResponse struct {
	Success      bool                   `json:"success"`
	TotalQuizzes int                    `json:"totalQuizzes"`
	AverageScore float64                `json:"averageScore"`
	BestScore    float64                `json:"bestScore"`
	TotalTime    int                    `json:"totalTime"`
	ProgressData []domain.ProgressPoint `json:"progressData"`
}

// LeaderboardResponse represents the ranked leaderboard.
type LeaderboardResponse struct {
	Success     bool                      `json:"success"`
	Leaderboard []domain.LeaderboardEntry `json:"leaderboard"`
}

// ErrorResponse represents an error in the API response.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Error   string `json:"error"`
}

// NewQuizResponse maps a domain quiz to its API representation.
func NewQuizResponse(q *domain.Quiz) QuizResponse {
	questions := make([]QuestionPayload, 0, len(q.Questions))
	for _, question := range q.Questions {
		questions = append(questions, QuestionPayload{
			Question:      question.Question,
			Options:       question.Options,
			CorrectAnswer: question.CorrectAnswer,
			Explanation:   question.Explanation,
		})
	}
	return QuizResponse{
		ID:             q.ID,
		Title:          q.Title,
		VideoURL:       q.VideoURL,
		Difficulty:     string(q.Difficulty),
		QuestionType:   string(q.QuestionType),
		TotalQuestions: q.TotalQuestions,
		Questions:      questions,
		Score:          q.Score,
		CorrectAnswers: q.CorrectAnswers,
		TimeSpent:      q.TimeSpent,
		CreatedAt:      q.CreatedAt,
	}
}
