package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fundverse/fundverse-server/internal/models"
	"github.com/fundverse/fundverse-server/internal/repository"
)

// projectTransitions is the allowed edge set of the project review graph.
// Approved and Rejected are terminal.
var projectTransitions = map[models.ReviewStatus][]models.ReviewStatus{
	models.StatusPending:          {models.StatusUnderReview},
	models.StatusUnderReview:      {models.StatusApproved, models.StatusRejected, models.StatusRequiresRevision},
	models.StatusRequiresRevision: {models.StatusUnderReview},
}

func transitionAllowed(from, to models.ReviewStatus) bool {
	for _, next := range projectTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ReviewService handles idea and project submissions and their review
// lifecycles.
type ReviewService struct {
	repo   repository.Repository
	access *AccessService
	logger *logrus.Logger
}

// NewReviewService creates a new ReviewService
func NewReviewService(repo repository.Repository, access *AccessService, logger *logrus.Logger) *ReviewService {
	return &ReviewService{repo: repo, access: access, logger: logger}
}

// SubmitIdea records a raw idea in Pending state. Any registered user may
// submit.
func (s *ReviewService) SubmitIdea(ctx context.Context, submitterID, title, description string) (int64, error) {
	if strings.TrimSpace(title) == "" {
		return 0, models.ErrInvalidInput("title is required")
	}
	if len(strings.TrimSpace(description)) < 10 {
		return 0, models.ErrInvalidInput("description must be at least 10 characters")
	}

	idea := &models.Idea{
		Title:       title,
		Description: description,
		SubmittedBy: submitterID,
		SubmittedAt: time.Now(),
		Status:      models.StatusPending,
	}
	if err := s.repo.CreateIdea(ctx, idea); err != nil {
		return 0, fmt.Errorf("error creating idea: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"ideaId":    idea.ID,
		"submitter": submitterID,
	}).Info("idea submitted")

	return idea.ID, nil
}

// ApproveIdea moves a pending idea to Approved.
func (s *ReviewService) ApproveIdea(ctx context.Context, callerID string, ideaID int64) error {
	return s.decideIdea(ctx, callerID, ideaID, models.StatusApproved)
}

// RejectIdea moves a pending idea to Rejected.
func (s *ReviewService) RejectIdea(ctx context.Context, callerID string, ideaID int64) error {
	return s.decideIdea(ctx, callerID, ideaID, models.StatusRejected)
}

func (s *ReviewService) decideIdea(ctx context.Context, callerID string, ideaID int64, decision models.ReviewStatus) error {
	if err := s.access.EnsureAdmin(ctx, callerID); err != nil {
		return err
	}

	idea, err := s.repo.GetIdea(ctx, ideaID)
	if err != nil {
		return fmt.Errorf("error getting idea: %w", err)
	}
	if idea == nil {
		return models.ErrNotFound("idea %d not found", ideaID)
	}
	if idea.Status != models.StatusPending {
		return models.ErrInvalidStatusTransition(idea.Status, decision)
	}

	if err := s.repo.UpdateIdeaStatus(ctx, ideaID, decision); err != nil {
		return fmt.Errorf("error updating idea status: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"ideaId":   ideaID,
		"decision": decision,
		"reviewer": callerID,
	}).Info("idea reviewed")

	return nil
}

// GetIdea returns one idea by id.
func (s *ReviewService) GetIdea(ctx context.Context, ideaID int64) (*models.Idea, error) {
	idea, err := s.repo.GetIdea(ctx, ideaID)
	if err != nil {
		return nil, fmt.Errorf("error getting idea: %w", err)
	}
	if idea == nil {
		return nil, models.ErrNotFound("idea %d not found", ideaID)
	}
	return idea, nil
}

// ListIdeas returns all ideas, newest first.
func (s *ReviewService) ListIdeas(ctx context.Context) ([]models.Idea, error) {
	return s.repo.ListIdeas(ctx)
}

// SubmitProject records a full project submission in Pending state. Only
// admins and innovators may submit.
func (s *ReviewService) SubmitProject(ctx context.Context, submitterID string, req *models.SubmitProjectRequest) (int64, error) {
	if err := s.access.EnsureAdminOrInnovator(ctx, submitterID); err != nil {
		return 0, err
	}

	if strings.TrimSpace(req.Title) == "" {
		return 0, models.ErrInvalidInput("title is required")
	}
	if len(strings.TrimSpace(req.Description)) < 10 {
		return 0, models.ErrInvalidInput("description must be at least 10 characters")
	}
	if req.FundingGoal <= 0 {
		return 0, models.ErrInvalidInput("funding goal must be greater than zero")
	}
	if strings.TrimSpace(req.LegalEntity) == "" || strings.TrimSpace(req.ContactInfo) == "" {
		return 0, models.ErrInvalidInput("legal entity and contact info are required")
	}
	if req.DurationDays <= 0 {
		return 0, models.ErrInvalidInput("duration must be greater than zero")
	}

	milestones := make([]models.Milestone, 0, len(req.Milestones))
	for i, m := range req.Milestones {
		if strings.TrimSpace(m.Title) == "" {
			return 0, models.ErrInvalidInput("milestone %d is missing a title", i)
		}
		if m.Amount <= 0 {
			return 0, models.ErrInvalidInput("milestone %d amount must be greater than zero", i)
		}
		milestones = append(milestones, models.Milestone{
			Title:       m.Title,
			Description: m.Description,
			Amount:      m.Amount,
			DueDate:     m.DueDate,
		})
	}

	project := &models.Project{
		Title:                req.Title,
		Description:          req.Description,
		FundingGoal:          req.FundingGoal,
		LegalEntity:          req.LegalEntity,
		ContactInfo:          req.ContactInfo,
		Category:             req.Category,
		BusinessRegistration: req.BusinessRegistration,
		SubmittedBy:          submitterID,
		SubmittedAt:          time.Now(),
		Status:               models.StatusPending,
		DurationDays:         req.DurationDays,
		Milestones:           milestones,
		DocumentIDs:          req.DocumentIDs,
	}
	if err := s.repo.CreateProject(ctx, project); err != nil {
		return 0, fmt.Errorf("error creating project: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"projectId": project.ID,
		"submitter": submitterID,
	}).Info("project submitted")

	return project.ID, nil
}

// ReviewProject applies one transition on the project review graph and stamps
// the reviewer, time and notes. Illegal edges are rejected without mutation.
func (s *ReviewService) ReviewProject(ctx context.Context, callerID string, projectID int64, target models.ReviewStatus, notes string) (*models.Project, error) {
	if err := s.access.EnsureAdmin(ctx, callerID); err != nil {
		return nil, err
	}

	switch target {
	case models.StatusUnderReview, models.StatusApproved, models.StatusRejected, models.StatusRequiresRevision:
	default:
		return nil, models.ErrInvalidInput("unknown review status %q", target)
	}

	project, err := s.repo.GetProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("error getting project: %w", err)
	}
	if project == nil {
		return nil, models.ErrNotFound("project %d not found", projectID)
	}
	if !transitionAllowed(project.Status, target) {
		return nil, models.ErrInvalidStatusTransition(project.Status, target)
	}

	now := time.Now()
	project.Status = target
	project.Reviewer = &callerID
	project.ReviewedAt = &now
	if notes != "" {
		project.AdminNotes = &notes
	}

	if err := s.repo.UpdateProjectReview(ctx, project); err != nil {
		return nil, fmt.Errorf("error updating project review: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"projectId": projectID,
		"status":    target,
		"reviewer":  callerID,
	}).Info("project reviewed")

	return project, nil
}

// GetProject returns one project with its milestones and document ids.
func (s *ReviewService) GetProject(ctx context.Context, projectID int64) (*models.Project, error) {
	project, err := s.repo.GetProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("error getting project: %w", err)
	}
	if project == nil {
		return nil, models.ErrNotFound("project %d not found", projectID)
	}
	return project, nil
}

// ListProjects returns projects, optionally filtered by status.
func (s *ReviewService) ListProjects(ctx context.Context, status *models.ReviewStatus) ([]models.Project, error) {
	return s.repo.ListProjects(ctx, status)
}

// ListProjectsBySubmitter returns the caller's own submissions.
func (s *ReviewService) ListProjectsBySubmitter(ctx context.Context, userID string) ([]models.Project, error) {
	return s.repo.ListProjectsBySubmitter(ctx, userID)
}
