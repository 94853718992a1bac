package service

import (
	"context"

	"github.com/codeadapt/learn-gateway/internal/catalog"
	"github.com/codeadapt/learn-gateway/internal/model"
	"github.com/codeadapt/learn-gateway/internal/session"
)

// LearnerService is the entry point of the learner routes: catalog browsing
// and access to the learner's course sessions.
type LearnerService struct {
	catalog  catalog.Catalog
	sessions *session.Manager
}

// NewLearnerService creates a new LearnerService.
func NewLearnerService(cat catalog.Catalog, sessions *session.Manager) *LearnerService {
	return &LearnerService{catalog: cat, sessions: sessions}
}

// ListCourses returns the course list.
func (s *LearnerService) ListCourses(ctx context.Context) ([]model.Course, error) {
	return s.catalog.ListCourses(ctx)
}

// ListTopics returns a course's topics in navigation order.
func (s *LearnerService) ListTopics(ctx context.Context, courseID int) ([]model.TopicSummary, error) {
	return s.catalog.ListTopics(ctx, courseID)
}

// Session returns the learner's session for a course, opening it if needed.
func (s *LearnerService) Session(ctx context.Context, learnerID, courseID int) (*session.Controller, error) {
	return s.sessions.Open(ctx, learnerID, courseID)
}

// AttachSession is Session for a live connection: the session is kept out of the
// idle sweep until release is called.
func (s *LearnerService) AttachSession(ctx context.Context, learnerID, courseID int) (*session.Controller, func(), error) {
	return s.sessions.Attach(ctx, learnerID, courseID)
}

// CloseSession destroys the learner's session for a course.
func (s *LearnerService) CloseSession(ctx context.Context, learnerID, courseID int) bool {
	return s.sessions.Close(ctx, learnerID, courseID)
}
