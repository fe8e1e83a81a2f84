package service

import (
	"errors"

	"github.com/OmarCypha700/nexus-academy-backend/internal/model"
	"github.com/OmarCypha700/nexus-academy-backend/internal/repository"
	"github.com/OmarCypha700/nexus-academy-backend/internal/util"

	"gorm.io/gorm"
)

type DashboardService struct {
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	ProgressRepo   *repository.ProgressRepository
	AttemptRepo    *repository.AttemptRepository
	AssignmentRepo *repository.AssignmentRepository
	UserRepo       *repository.UserRepository
	QuizRepo       *repository.QuizRepository
	Authz          *AuthorizationService
}

func NewDashboardService(courseRepo *repository.CourseRepository, enrollmentRepo *repository.EnrollmentRepository,
	progressRepo *repository.ProgressRepository, attemptRepo *repository.AttemptRepository,
	assignmentRepo *repository.AssignmentRepository, userRepo *repository.UserRepository,
	quizRepo *repository.QuizRepository, authz *AuthorizationService) *DashboardService {
	return &DashboardService{
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		ProgressRepo:   progressRepo,
		AttemptRepo:    attemptRepo,
		AssignmentRepo: assignmentRepo,
		UserRepo:       userRepo,
		QuizRepo:       quizRepo,
		Authz:          authz,
	}
}

// StudentDashboard summarizes a student's learning at a glance.
type StudentDashboard struct {
	EnrolledCourses     int                 `json:"enrolledCourses"`
	LessonsCompleted    int                 `json:"lessonsCompleted"`
	QuizzesPassed       int                 `json:"quizzesPassed"`
	RecentAttempts      []model.QuizAttempt `json:"recentAttempts"`
	UpcomingAssignments []model.Assignment  `json:"upcomingAssignments"`
}

func (s *DashboardService) StudentOverview(studentID uint) (*StudentDashboard, error) {
	enrollments, err := s.EnrollmentRepo.ListByStudent(studentID)
	if err != nil {
		return nil, err
	}

	progress, err := s.ProgressRepo.ListByStudent(studentID)
	if err != nil {
		return nil, err
	}
	completed := 0
	for _, p := range progress {
		if p.Completed {
			completed++
		}
	}

	attempts, err := s.AttemptRepo.ListByStudent(studentID)
	if err != nil {
		return nil, err
	}
	// Count each quiz once, passed if any attempt passed.
	passedQuizzes := make(map[uint]bool)
	for _, a := range attempts {
		if a.Passed {
			passedQuizzes[a.QuizID] = true
		}
	}

	recent := attempts
	if len(recent) > 5 {
		recent = recent[:5]
	}

	courseIDs := make([]uint, 0, len(enrollments))
	for _, e := range enrollments {
		courseIDs = append(courseIDs, e.CourseID)
	}
	var upcoming []model.Assignment
	if len(courseIDs) > 0 {
		upcoming, err = s.AssignmentRepo.ListUpcomingByCourses(courseIDs)
		if err != nil {
			return nil, err
		}
	}

	return &StudentDashboard{
		EnrolledCourses:     len(enrollments),
		LessonsCompleted:    completed,
		QuizzesPassed:       len(passedQuizzes),
		RecentAttempts:      recent,
		UpcomingAssignments: upcoming,
	}, nil
}

// InstructorCourseStat is one course row on the instructor dashboard.
type InstructorCourseStat struct {
	CourseID     uint   `json:"courseId"`
	Title        string `json:"title"`
	StudentCount int64  `json:"studentCount"`
	LessonCount  int64  `json:"lessonCount"`
	QuizCount    int    `json:"quizCount"`
}

type InstructorDashboard struct {
	CourseCount   int                    `json:"courseCount"`
	TotalStudents int64                  `json:"totalStudents"`
	Courses       []InstructorCourseStat `json:"courses"`
}

func (s *DashboardService) InstructorOverview(instructorID uint) (*InstructorDashboard, error) {
	courses, err := s.CourseRepo.ListByInstructor(instructorID)
	if err != nil {
		return nil, err
	}
	totalStudents, err := s.EnrollmentRepo.CountByInstructor(instructorID)
	if err != nil {
		return nil, err
	}

	dashboard := &InstructorDashboard{
		CourseCount:   len(courses),
		TotalStudents: totalStudents,
		Courses:       make([]InstructorCourseStat, 0, len(courses)),
	}
	for _, c := range courses {
		stat := InstructorCourseStat{CourseID: c.ID, Title: c.Title}
		if n, err := s.EnrollmentRepo.CountByCourse(c.ID); err == nil {
			stat.StudentCount = n
		}
		if n, err := s.CourseRepo.CountLessons(c.ID); err == nil {
			stat.LessonCount = n
		}
		if quizzes, err := s.QuizRepo.ListByCourse(c.ID); err == nil {
			stat.QuizCount = len(quizzes)
		}
		dashboard.Courses = append(dashboard.Courses, stat)
	}
	return dashboard, nil
}

// StudentProgressRow is one enrolled student's progress in a course the
// instructor manages.
type StudentProgressRow struct {
	StudentID       uint    `json:"studentId"`
	Username        string  `json:"username"`
	FirstName       string  `json:"firstName"`
	LastName        string  `json:"lastName"`
	Email           string  `json:"email"`
	LessonsComplete int64   `json:"lessonsComplete"`
	TotalLessons    int64   `json:"totalLessons"`
	ProgressPercent float64 `json:"progressPercent"`
}

func (s *DashboardService) CourseStudents(actor *util.Claims, courseID uint) ([]StudentProgressRow, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if err := s.Authz.RequireManage(actor, course); err != nil {
		return nil, err
	}

	students, err := s.UserRepo.ListStudentsByCourse(courseID)
	if err != nil {
		return nil, err
	}
	totalLessons, err := s.CourseRepo.CountLessons(courseID)
	if err != nil {
		return nil, err
	}

	rows := make([]StudentProgressRow, 0, len(students))
	for _, u := range students {
		row := StudentProgressRow{
			StudentID:    u.ID,
			Username:     u.Username,
			FirstName:    u.FirstName,
			LastName:     u.LastName,
			Email:        u.Email,
			TotalLessons: totalLessons,
		}
		if n, err := s.ProgressRepo.CountCompleted(u.ID, courseID); err == nil {
			row.LessonsComplete = n
		}
		row.ProgressPercent = progressPercent(row.LessonsComplete, totalLessons)
		rows = append(rows, row)
	}
	return rows, nil
}

// StudentDetail is one student's standing in a course: progress plus
// their attempts, for the instructor's drill-down view.
type StudentDetail struct {
	Student  model.User          `json:"student"`
	Progress StudentProgressRow  `json:"progress"`
	Attempts []model.QuizAttempt `json:"attempts"`
}

func (s *DashboardService) CourseStudentDetail(actor *util.Claims, courseID, studentID uint) (*StudentDetail, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if err := s.Authz.RequireManage(actor, course); err != nil {
		return nil, err
	}

	enrolled, err := s.EnrollmentRepo.Exists(studentID, courseID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, util.ErrNotEnrolled
	}

	student, err := s.UserRepo.FindByID(studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	student.Password = ""

	totalLessons, err := s.CourseRepo.CountLessons(courseID)
	if err != nil {
		return nil, err
	}
	completedLessons, err := s.ProgressRepo.CountCompleted(studentID, courseID)
	if err != nil {
		return nil, err
	}

	// Only this course's attempts; the manage grant covers nothing else.
	attempts, err := s.AttemptRepo.ListByStudentAndCourse(studentID, courseID)
	if err != nil {
		return nil, err
	}

	return &StudentDetail{
		Student: *student,
		Progress: StudentProgressRow{
			StudentID:       student.ID,
			Username:        student.Username,
			FirstName:       student.FirstName,
			LastName:        student.LastName,
			Email:           student.Email,
			LessonsComplete: completedLessons,
			TotalLessons:    totalLessons,
			ProgressPercent: progressPercent(completedLessons, totalLessons),
		},
		Attempts: attempts,
	}, nil
}
