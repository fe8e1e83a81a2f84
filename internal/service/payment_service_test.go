package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/OmarCypha700/nexus-academy-backend/internal/config"
	"github.com/OmarCypha700/nexus-academy-backend/internal/model"
	"github.com/OmarCypha700/nexus-academy-backend/internal/repository"
	"github.com/OmarCypha700/nexus-academy-backend/internal/util"
	"github.com/OmarCypha700/nexus-academy-backend/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakePaystack mimics the two transaction endpoints the service uses.
type fakePaystack struct {
	verifyStatus string
}

func (f *fakePaystack) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/transaction/initialize", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  true,
			"message": "Authorization URL created",
			"data": map[string]interface{}{
				"authorization_url": "https://checkout.example.com/abc",
				"access_code":       "abc",
				"reference":         body["reference"],
			},
		})
	})
	mux.HandleFunc("/transaction/verify/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  true,
			"message": "Verification successful",
			"data": map[string]interface{}{
				"status":   f.verifyStatus,
				"amount":   4999,
				"currency": "GHS",
				"channel":  "card",
			},
		})
	})
	return mux
}

type paymentFixture struct {
	db      *gorm.DB
	svc     *PaymentService
	student *util.Claims
	course  *model.Course
	gateway *fakePaystack
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()

	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	student := &model.User{Username: "kofi", Email: "kofi@example.com", Role: model.Student}
	require.NoError(t, db.Create(student).Error)

	course := &model.Course{Title: "Paid course", Price: 49.99}
	require.NoError(t, db.Create(course).Error)

	gateway := &fakePaystack{verifyStatus: "success"}
	server := httptest.NewServer(gateway.handler())
	t.Cleanup(server.Close)

	cfg := &config.PaystackConfig{SecretKey: "sk_test", BaseURL: server.URL, Currency: "GHS"}
	svc := NewPaymentService(
		repository.NewPaymentRepository(db),
		repository.NewCourseRepository(db),
		repository.NewEnrollmentRepository(db),
		repository.NewUserRepository(db),
		NewPaystackClient(cfg),
		cfg,
	)

	return &paymentFixture{
		db:      db,
		svc:     svc,
		student: &util.Claims{UserID: student.ID, Role: model.Student, Email: student.Email},
		course:  course,
		gateway: gateway,
	}
}

func TestInitializePayment(t *testing.T) {
	f := newPaymentFixture(t)

	resp, err := f.svc.InitializePayment(t.Context(), f.student, f.course.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Reference)
	assert.Equal(t, "https://checkout.example.com/abc", resp.AuthorizationURL)
	assert.Equal(t, 49.99, resp.Amount)

	var payment model.Payment
	require.NoError(t, f.db.Where("reference = ?", resp.Reference).First(&payment).Error)
	assert.Equal(t, model.PaymentPending, payment.Status)
}

func TestInitializePaymentFreeCourse(t *testing.T) {
	f := newPaymentFixture(t)
	free := &model.Course{Title: "Free course", Price: 0}
	require.NoError(t, f.db.Create(free).Error)

	_, err := f.svc.InitializePayment(t.Context(), f.student, free.ID)
	assert.ErrorIs(t, err, util.ErrCourseIsFree)
}

func TestVerifyPaymentEnrollsOnSuccess(t *testing.T) {
	f := newPaymentFixture(t)

	resp, err := f.svc.InitializePayment(t.Context(), f.student, f.course.ID)
	require.NoError(t, err)

	payment, err := f.svc.VerifyPayment(t.Context(), f.student, resp.Reference)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentSuccess, payment.Status)
	assert.Equal(t, "card", payment.Channel)
	require.NotNil(t, payment.PaidAt)

	var count int64
	require.NoError(t, f.db.Model(&model.Enrollment{}).
		Where("student_id = ? AND course_id = ?", f.student.UserID, f.course.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// Verifying again is a no-op, not a second enrollment.
	_, err = f.svc.VerifyPayment(t.Context(), f.student, resp.Reference)
	require.NoError(t, err)
	require.NoError(t, f.db.Model(&model.Enrollment{}).
		Where("student_id = ? AND course_id = ?", f.student.UserID, f.course.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestVerifyPaymentFailed(t *testing.T) {
	f := newPaymentFixture(t)
	f.gateway.verifyStatus = "failed"

	resp, err := f.svc.InitializePayment(t.Context(), f.student, f.course.ID)
	require.NoError(t, err)

	payment, err := f.svc.VerifyPayment(t.Context(), f.student, resp.Reference)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentFailed, payment.Status)

	var count int64
	require.NoError(t, f.db.Model(&model.Enrollment{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestVerifyPaymentWrongUser(t *testing.T) {
	f := newPaymentFixture(t)

	resp, err := f.svc.InitializePayment(t.Context(), f.student, f.course.ID)
	require.NoError(t, err)

	other := &util.Claims{UserID: 999, Role: model.Student}
	_, err = f.svc.VerifyPayment(t.Context(), other, resp.Reference)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestVerifyPaymentUnknownReference(t *testing.T) {
	f := newPaymentFixture(t)
	_, err := f.svc.VerifyPayment(t.Context(), f.student, "nope")
	assert.ErrorIs(t, err, util.ErrPaymentNotFound)
}
