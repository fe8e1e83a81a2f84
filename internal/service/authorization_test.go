package service

import (
	"testing"

	"github.com/OmarCypha700/nexus-academy-backend/internal/model"
	"github.com/OmarCypha700/nexus-academy-backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnrollments struct {
	enrolled map[[2]uint]bool
}

func (f *fakeEnrollments) Exists(studentID, courseID uint) (bool, error) {
	return f.enrolled[[2]uint{studentID, courseID}], nil
}

func claimsFor(id uint, role model.UserRole) *util.Claims {
	return &util.Claims{UserID: id, Role: role}
}

func courseOwnedBy(courseID, instructorID uint) *model.Course {
	c := &model.Course{InstructorID: &instructorID}
	c.ID = courseID
	return c
}

func TestAuthorize(t *testing.T) {
	enrollments := &fakeEnrollments{enrolled: map[[2]uint]bool{
		{10, 1}: true,
	}}
	authz := NewAuthorizationService(enrollments)
	course := courseOwnedBy(1, 2)

	tests := []struct {
		name   string
		actor  *util.Claims
		action Action
		want   bool
	}{
		{"admin manages anything", claimsFor(99, model.Admin), ActionManage, true},
		{"admin views anything", claimsFor(99, model.Admin), ActionView, true},
		{"owner manages own course", claimsFor(2, model.Instructor), ActionManage, true},
		{"owner views own course", claimsFor(2, model.Instructor), ActionView, true},
		{"other instructor cannot manage", claimsFor(3, model.Instructor), ActionManage, false},
		{"other instructor cannot view", claimsFor(3, model.Instructor), ActionView, false},
		{"enrolled student views", claimsFor(10, model.Student), ActionView, true},
		{"enrolled student cannot manage", claimsFor(10, model.Student), ActionManage, false},
		{"unenrolled student cannot view", claimsFor(11, model.Student), ActionView, false},
		{"nil actor denied", nil, ActionView, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := authz.Authorize(tt.actor, course, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuthorizeOrphanedCourse(t *testing.T) {
	authz := NewAuthorizationService(&fakeEnrollments{enrolled: map[[2]uint]bool{}})

	// Instructor deleted, InstructorID nil: nobody but admin manages.
	course := &model.Course{}
	course.ID = 1

	ok, err := authz.Authorize(claimsFor(2, model.Instructor), course, ActionManage)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = authz.Authorize(claimsFor(99, model.Admin), course, ActionManage)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRequireViewMapsStudentDenialToNotEnrolled(t *testing.T) {
	authz := NewAuthorizationService(&fakeEnrollments{enrolled: map[[2]uint]bool{}})
	course := courseOwnedBy(1, 2)

	err := authz.RequireView(claimsFor(11, model.Student), course)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)

	err = authz.RequireView(claimsFor(3, model.Instructor), course)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	err = authz.RequireManage(claimsFor(3, model.Instructor), course)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}
