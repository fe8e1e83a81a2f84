package controller

import (
	"strconv"

	"github.com/OmarCypha700/nexus-academy-backend/internal/service"
	"github.com/OmarCypha700/nexus-academy-backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// CreateQuiz godoc
// @Summary Create a quiz under a lesson
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateQuizRequest true "Quiz payload"
// @Success 201 {object} util.Response
// @Router /api/v1/quizzes [post]
func (ctrl *QuizController) CreateQuiz(c *gin.Context) {
	var req service.CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	quiz, err := ctrl.QuizService.CreateQuiz(util.GetUserFromContext(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Created(c, quiz)
}

// GetQuiz godoc
// @Summary Get a quiz with questions and answers, for authoring
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Quiz ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/quizzes/{id} [get]
func (ctrl *QuizController) GetQuiz(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	quiz, err := ctrl.QuizService.GetQuiz(util.GetUserFromContext(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, quiz)
}

// UpdateQuiz godoc
// @Summary Update quiz settings
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Quiz ID"
// @Param request body service.UpdateQuizRequest true "Quiz fields"
// @Success 200 {object} util.Response
// @Router /api/v1/quizzes/{id} [put]
func (ctrl *QuizController) UpdateQuiz(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	quiz, err := ctrl.QuizService.UpdateQuiz(util.GetUserFromContext(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, quiz)
}

// DeleteQuiz godoc
// @Summary Delete a quiz and its questions; attempts are kept
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Quiz ID"
// @Success 200 {object} util.Response
// @Router /api/v1/quizzes/{id} [delete]
func (ctrl *QuizController) DeleteQuiz(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.QuizService.DeleteQuiz(util.GetUserFromContext(c), id); err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, nil)
}

// ListByLesson godoc
// @Summary List quizzes under a lesson
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Success 200 {object} util.Response
// @Router /api/v1/lessons/{id}/quizzes [get]
func (ctrl *QuizController) ListByLesson(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	quizzes, err := ctrl.QuizService.ListByLesson(util.GetUserFromContext(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, quizzes)
}

// CreateQuestion godoc
// @Summary Add a question to a quiz
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateQuestionRequest true "Question payload"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/v1/questions [post]
func (ctrl *QuizController) CreateQuestion(c *gin.Context) {
	var req service.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	question, err := ctrl.QuizService.CreateQuestion(util.GetUserFromContext(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Created(c, question)
}

// UpdateQuestion godoc
// @Summary Update a question
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Param request body service.UpdateQuestionRequest true "Question fields"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/v1/questions/{id} [put]
func (ctrl *QuizController) UpdateQuestion(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	question, err := ctrl.QuizService.UpdateQuestion(util.GetUserFromContext(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, question)
}

// DeleteQuestion godoc
// @Summary Delete a question
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Success 200 {object} util.Response
// @Router /api/v1/questions/{id} [delete]
func (ctrl *QuizController) DeleteQuestion(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.QuizService.DeleteQuestion(util.GetUserFromContext(c), id); err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, nil)
}

// TakeQuiz godoc
// @Summary Get a quiz for taking: questions without answers
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Quiz ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/v1/quizzes/{id}/take [get]
func (ctrl *QuizController) TakeQuiz(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	view, err := ctrl.QuizService.TakeQuiz(util.GetUserFromContext(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, view)
}

// SubmitQuiz godoc
// @Summary Submit answers for grading
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Quiz ID"
// @Param request body service.SubmitQuizRequest true "Submitted answers keyed by question id"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/v1/quizzes/{id}/submit [post]
func (ctrl *QuizController) SubmitQuiz(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.SubmitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	result, err := ctrl.QuizService.SubmitQuiz(util.GetUserFromContext(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, result)
}

// MyResults godoc
// @Summary Get the caller's attempt history and best score for a quiz
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Quiz ID"
// @Success 200 {object} util.Response
// @Router /api/v1/quizzes/{id}/results [get]
func (ctrl *QuizController) MyResults(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	results, err := ctrl.QuizService.MyResults(util.GetUserFromContext(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, results)
}

// ListAttempts godoc
// @Summary Page through all students' attempts for a quiz
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Quiz ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} util.Response
// @Router /api/v1/quizzes/{id}/attempts [get]
func (ctrl *QuizController) ListAttempts(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	rows, total, err := ctrl.QuizService.ListAttempts(util.GetUserFromContext(c), id, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.PageResponse{List: rows, Total: total, Page: page, Limit: limit})
}

// GetAttempt godoc
// @Summary Get one quiz attempt
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Attempt ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/attempts/{id} [get]
func (ctrl *QuizController) GetAttempt(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	attempt, err := ctrl.QuizService.GetAttempt(util.GetUserFromContext(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, attempt)
}

// ListQuestions godoc
// @Summary List a quiz's questions with answers, for authoring
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Quiz ID"
// @Success 200 {object} util.Response
// @Router /api/v1/quizzes/{id}/questions [get]
func (ctrl *QuizController) ListQuestions(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	questions, err := ctrl.QuizService.ListQuestions(util.GetUserFromContext(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, questions)
}
