package controller

import (
	"github.com/OmarCypha700/nexus-academy-backend/internal/service"
	"github.com/OmarCypha700/nexus-academy-backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LessonController struct {
	LessonService *service.LessonService
}

func NewLessonController(lessonService *service.LessonService) *LessonController {
	return &LessonController{LessonService: lessonService}
}

// CreateLesson godoc
// @Summary Create a lesson
// @Tags lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateLessonRequest true "Lesson payload"
// @Success 201 {object} util.Response
// @Router /api/v1/lessons [post]
func (ctrl *LessonController) CreateLesson(c *gin.Context) {
	var req service.CreateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	lesson, err := ctrl.LessonService.CreateLesson(util.GetUserFromContext(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Created(c, lesson)
}

// GetLesson godoc
// @Summary Get one lesson
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/lessons/{id} [get]
func (ctrl *LessonController) GetLesson(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	lesson, err := ctrl.LessonService.GetLesson(util.GetUserFromContext(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, lesson)
}

// UpdateLesson godoc
// @Summary Update a lesson
// @Tags lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Param request body service.UpdateLessonRequest true "Lesson fields"
// @Success 200 {object} util.Response
// @Router /api/v1/lessons/{id} [put]
func (ctrl *LessonController) UpdateLesson(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	lesson, err := ctrl.LessonService.UpdateLesson(util.GetUserFromContext(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, lesson)
}

// DeleteLesson godoc
// @Summary Delete a lesson
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Success 200 {object} util.Response
// @Router /api/v1/lessons/{id} [delete]
func (ctrl *LessonController) DeleteLesson(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.LessonService.DeleteLesson(util.GetUserFromContext(c), id); err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, nil)
}

// ListByCourse godoc
// @Summary List a course's lessons in order
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response
// @Router /api/v1/courses/{id}/lessons [get]
func (ctrl *LessonController) ListByCourse(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	lessons, err := ctrl.LessonService.ListByCourse(util.GetUserFromContext(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, lessons)
}

// ListByModule godoc
// @Summary List a module's lessons in order
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param id path int true "Module ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/modules/{id}/lessons [get]
func (ctrl *LessonController) ListByModule(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	lessons, err := ctrl.LessonService.ListByModule(util.GetUserFromContext(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, lessons)
}
