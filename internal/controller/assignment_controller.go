package controller

import (
	"github.com/OmarCypha700/nexus-academy-backend/internal/service"
	"github.com/OmarCypha700/nexus-academy-backend/internal/util"

	"github.com/gin-gonic/gin"
)

// 20 MB upload ceiling for assignment files.
const maxUploadSize = 20 << 20

type AssignmentController struct {
	AssignmentService *service.AssignmentService
	StorageService    *service.StorageService
}

func NewAssignmentController(assignmentService *service.AssignmentService, storageService *service.StorageService) *AssignmentController {
	return &AssignmentController{AssignmentService: assignmentService, StorageService: storageService}
}

// CreateAssignment godoc
// @Summary Create an assignment under a lesson
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateAssignmentRequest true "Assignment payload"
// @Success 201 {object} util.Response
// @Router /api/v1/assignments [post]
func (ctrl *AssignmentController) CreateAssignment(c *gin.Context) {
	var req service.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	assignment, err := ctrl.AssignmentService.CreateAssignment(util.GetUserFromContext(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Created(c, assignment)
}

// UpdateAssignment godoc
// @Summary Update an assignment
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Param request body service.UpdateAssignmentRequest true "Assignment fields"
// @Success 200 {object} util.Response
// @Router /api/v1/assignments/{id} [put]
func (ctrl *AssignmentController) UpdateAssignment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	assignment, err := ctrl.AssignmentService.UpdateAssignment(util.GetUserFromContext(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, assignment)
}

// DeleteAssignment godoc
// @Summary Delete an assignment
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} util.Response
// @Router /api/v1/assignments/{id} [delete]
func (ctrl *AssignmentController) DeleteAssignment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.AssignmentService.DeleteAssignment(util.GetUserFromContext(c), id); err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, nil)
}

// ListByLesson godoc
// @Summary List a lesson's assignments
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Success 200 {object} util.Response
// @Router /api/v1/lessons/{id}/assignments [get]
func (ctrl *AssignmentController) ListByLesson(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	assignments, err := ctrl.AssignmentService.ListByLesson(util.GetUserFromContext(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, assignments)
}

// UploadFile godoc
// @Summary Upload an assignment file, returns its URL
// @Tags assignments
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Assignment file"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/v1/assignments/upload [post]
func (ctrl *AssignmentController) UploadFile(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		util.BadRequest(c, "file is required")
		return
	}
	if header.Size > maxUploadSize {
		util.BadRequest(c, "file exceeds 20MB limit")
		return
	}

	file, err := header.Open()
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	defer file.Close()

	url, err := ctrl.StorageService.Upload(c.Request.Context(), header.Filename, header.Size, file)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Created(c, gin.H{"fileUrl": url})
}
