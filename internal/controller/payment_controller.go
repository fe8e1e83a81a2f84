package controller

import (
	"github.com/OmarCypha700/nexus-academy-backend/internal/service"
	"github.com/OmarCypha700/nexus-academy-backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PaymentController struct {
	PaymentService *service.PaymentService
}

func NewPaymentController(paymentService *service.PaymentService) *PaymentController {
	return &PaymentController{PaymentService: paymentService}
}

// Initialize godoc
// @Summary Start a payment for a paid course
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/v1/courses/{id}/payments [post]
func (ctrl *PaymentController) Initialize(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	resp, err := ctrl.PaymentService.InitializePayment(c.Request.Context(), util.GetUserFromContext(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Created(c, resp)
}

// Verify godoc
// @Summary Verify a payment and enroll on success
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param reference path string true "Payment reference"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/payments/{reference}/verify [post]
func (ctrl *PaymentController) Verify(c *gin.Context) {
	reference := c.Param("reference")
	if reference == "" {
		util.BadRequest(c, "invalid reference")
		return
	}

	payment, err := ctrl.PaymentService.VerifyPayment(c.Request.Context(), util.GetUserFromContext(c), reference)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, payment)
}

// MyPayments godoc
// @Summary List the caller's payments
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/v1/my/payments [get]
func (ctrl *PaymentController) MyPayments(c *gin.Context) {
	payments, err := ctrl.PaymentService.ListMyPayments(util.GetUserFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, payments)
}
