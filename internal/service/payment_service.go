package service

import (
	"context"
	"errors"
	"time"

	"github.com/OmarCypha700/nexus-academy-backend/internal/config"
	"github.com/OmarCypha700/nexus-academy-backend/internal/model"
	"github.com/OmarCypha700/nexus-academy-backend/internal/repository"
	"github.com/OmarCypha700/nexus-academy-backend/internal/util"
	"github.com/OmarCypha700/nexus-academy-backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PaymentService struct {
	PaymentRepo    *repository.PaymentRepository
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	UserRepo       *repository.UserRepository
	Paystack       *PaystackClient
	Config         *config.PaystackConfig
}

func NewPaymentService(paymentRepo *repository.PaymentRepository, courseRepo *repository.CourseRepository,
	enrollmentRepo *repository.EnrollmentRepository, userRepo *repository.UserRepository,
	paystack *PaystackClient, cfg *config.PaystackConfig) *PaymentService {
	return &PaymentService{
		PaymentRepo:    paymentRepo,
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		UserRepo:       userRepo,
		Paystack:       paystack,
		Config:         cfg,
	}
}

type InitializePaymentResponse struct {
	Reference        string  `json:"reference"`
	AuthorizationURL string  `json:"authorizationUrl"`
	AccessCode       string  `json:"accessCode"`
	Amount           float64 `json:"amount"`
	Currency         string  `json:"currency"`
}

// InitializePayment starts a gateway transaction for a paid course and
// records it as pending. Free courses don't go through the gateway.
func (s *PaymentService) InitializePayment(ctx context.Context, actor *util.Claims, courseID uint) (*InitializePaymentResponse, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if course.Price <= 0 {
		return nil, util.ErrCourseIsFree
	}

	enrolled, err := s.EnrollmentRepo.Exists(actor.UserID, courseID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, util.ErrAlreadyEnrolled
	}

	currency := s.Config.Currency
	if currency == "" {
		currency = "GHS"
	}

	reference := uuid.NewString()
	payment := &model.Payment{
		UserID:    actor.UserID,
		CourseID:  courseID,
		Reference: reference,
		Amount:    course.Price,
		Currency:  currency,
		Status:    model.PaymentPending,
	}
	if err := s.PaymentRepo.Create(payment); err != nil {
		return nil, err
	}

	data, err := s.Paystack.Initialize(ctx, actor.Email, reference, currency, course.Price)
	if err != nil {
		logger.Log.Error("payment initialization failed",
			zap.String("reference", reference),
			zap.Uint("course_id", courseID),
			zap.Error(err))
		return nil, err
	}

	return &InitializePaymentResponse{
		Reference:        reference,
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
		Amount:           course.Price,
		Currency:         currency,
	}, nil
}

// VerifyPayment checks the gateway's verdict on a transaction and, on
// success, enrolls the student. Safe to call repeatedly for the same
// reference.
func (s *PaymentService) VerifyPayment(ctx context.Context, actor *util.Claims, reference string) (*model.Payment, error) {
	payment, err := s.PaymentRepo.FindByReference(reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPaymentNotFound
		}
		return nil, err
	}
	if payment.UserID != actor.UserID && actor.Role != model.Admin {
		return nil, util.ErrPermissionDenied
	}
	if payment.Status == model.PaymentSuccess {
		return payment, nil
	}

	data, err := s.Paystack.Verify(ctx, reference)
	if err != nil {
		return nil, err
	}

	switch data.Status {
	case "success":
		payment.Status = model.PaymentSuccess
		payment.Channel = data.Channel
		now := time.Now()
		if data.PaidAt != nil {
			if paidAt, perr := time.Parse(time.RFC3339, *data.PaidAt); perr == nil {
				now = paidAt
			}
		}
		payment.PaidAt = &now
	case "failed", "abandoned":
		payment.Status = model.PaymentFailed
	default:
		// Still pending at the gateway; leave the record as is.
		return payment, nil
	}

	if err := s.PaymentRepo.Update(payment); err != nil {
		return nil, err
	}

	if payment.Status == model.PaymentSuccess {
		enrolled, err := s.EnrollmentRepo.Exists(payment.UserID, payment.CourseID)
		if err != nil {
			return nil, err
		}
		if !enrolled {
			enrollment := &model.Enrollment{StudentID: payment.UserID, CourseID: payment.CourseID}
			if err := s.EnrollmentRepo.Create(enrollment); err != nil {
				return nil, err
			}
		}
		logger.Log.Info("payment verified",
			zap.String("reference", reference),
			zap.Uint("user_id", payment.UserID),
			zap.Uint("course_id", payment.CourseID))
	}
	return payment, nil
}

func (s *PaymentService) ListMyPayments(actor *util.Claims) ([]model.Payment, error) {
	return s.PaymentRepo.ListByUser(actor.UserID)
}
