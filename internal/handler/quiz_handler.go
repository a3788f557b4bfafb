package handler

import (
	"vidquiz/internal/domain"
	"vidquiz/internal/dto"
	"vidquiz/internal/middleware"
	"vidquiz/internal/service"

	"github.com/gofiber/fiber/v2"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	quizService service.QuizService
	userService service.UserService
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(quizService service.QuizService, userService service.UserService) *QuizHandler {
	return &QuizHandler{
		quizService: quizService,
		userService: userService,
	}
}

func currentUserID(c *fiber.Ctx) (string, error) {
	userID, ok := c.Locals(middleware.UserIDKey).(string)
	if !ok || userID == "" {
		return "", domain.NewUnauthorizedError("authentication required")
	}
	return userID, nil
}

// Generate godoc
// @Summary Generate a quiz from a YouTube video
// @Description Fetches the video transcript and generates quiz questions from it
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.GenerateQuizRequest true "Generation parameters"
// @Success 200 {object} dto.GenerateQuizResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /quiz/generate [post]
func (h *QuizHandler) Generate(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req dto.GenerateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	quiz, err := h.quizService.GenerateQuiz(c.Context(), userID, req)
	if err != nil {
		return err
	}

	return c.JSON(dto.GenerateQuizResponse{
		Success: true,
		Quiz:    dto.NewQuizResponse(quiz),
	})
}

// Get godoc
// @Summary Get a quiz by ID
// @Tags quiz
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.GenerateQuizResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /quiz/{id} [get]
func (h *QuizHandler) Get(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	quiz, err := h.quizService.GetQuiz(c.Context(), c.Params("id"), userID)
	if err != nil {
		return err
	}

	return c.JSON(dto.GenerateQuizResponse{
		Success: true,
		Quiz:    dto.NewQuizResponse(quiz),
	})
}

// Submit godoc
// @Summary Submit answers for a quiz
// @Description Grades the submitted answers and records the attempt
// @Tags quiz
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Param request body dto.SubmitQuizRequest true "Submitted answers"
// @Success 200 {object} dto.SubmitQuizResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /quiz/{id}/submit [post]
func (h *QuizHandler) Submit(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req dto.SubmitQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if len(req.Answers) == 0 {
		return domain.NewInvalidInputError("answers are required")
	}

	result, err := h.quizService.SubmitQuiz(c.Context(), c.Params("id"), userID, req)
	if err != nil {
		return err
	}

	return c.JSON(result)
}

// History godoc
// @Summary Get the current user's quiz history
// @Tags quiz
// @Produce json
// @Success 200 {object} dto.QuizHistoryResponse
// @Router /quiz/history [get]
func (h *QuizHandler) History(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	quizzes, err := h.quizService.GetHistory(c.Context(), userID)
	if err != nil {
		return err
	}

	responses := make([]dto.QuizResponse, 0, len(quizzes))
	for _, quiz := range quizzes {
		responses = append(responses, dto.NewQuizResponse(quiz))
	}

	return c.JSON(dto.QuizHistoryResponse{
		Success: true,
		Quizzes: responses,
	})
}

// Statistics godoc
// @Summary Get the current user's quiz statistics
// @Tags quiz
// @Produce json
// @Success 200 {object} dto.StatisticsResponse
// @Router /quiz/statistics [get]
func (h *QuizHandler) Statistics(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	stats, err := h.userService.GetStatistics(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(dto.StatisticsResponse{
		Success:      true,
		TotalQuizzes: stats.TotalQuizzes,
		AverageScore: stats.AverageScore,
		BestScore:    stats.BestScore,
		TotalTime:    stats.TotalTime,
		ProgressData: stats.Progress,
	})
}

// Leaderboard godoc
// @Summary Get the global leaderboard
// @Tags quiz
// @Produce json
// @Success 200 {object} dto.LeaderboardResponse
// @Router /quiz/leaderboard [get]
func (h *QuizHandler) Leaderboard(c *fiber.Ctx) error {
	entries, err := h.userService.GetLeaderboard(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(dto.LeaderboardResponse{
		Success:     true,
		Leaderboard: entries,
	})
}
