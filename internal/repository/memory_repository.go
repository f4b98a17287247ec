package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fundverse/fundverse-server/internal/models"
)

// MemoryRepository implements Repository with in-process maps. It backs the
// test suite and local development; the Postgres implementation mirrors its
// semantics.
type MemoryRepository struct {
	mu sync.Mutex

	users         map[string]*models.User
	usersByEmail  map[string]string
	campaigns     map[int64]*models.Campaign
	contributions map[string]*models.Contribution
	channelTotals map[int64]map[models.FundingChannel]int64
	documents     map[int64]*models.Document
	ideas         map[int64]*models.Idea
	projects      map[int64]*models.Project
	methods       map[int64]*models.PaymentMethod
	verifications map[int64]*models.PaymentVerification
	dealLinks     map[int64][]int64
	mints         map[mintKey]*models.MintRecord

	nextCampaignID     int64
	nextDocumentID     int64
	nextIdeaID         int64
	nextProjectID      int64
	nextMethodID       int64
	nextVerificationID int64
}

type mintKey struct {
	spvID  int64
	dealID int64
	owner  string
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:         make(map[string]*models.User),
		usersByEmail:  make(map[string]string),
		campaigns:     make(map[int64]*models.Campaign),
		contributions: make(map[string]*models.Contribution),
		channelTotals: make(map[int64]map[models.FundingChannel]int64),
		documents:     make(map[int64]*models.Document),
		ideas:         make(map[int64]*models.Idea),
		projects:      make(map[int64]*models.Project),
		methods:       make(map[int64]*models.PaymentMethod),
		verifications: make(map[int64]*models.PaymentVerification),
		dealLinks:     make(map[int64][]int64),
		mints:         make(map[mintKey]*models.MintRecord),
	}
}

// User repository methods

func (r *MemoryRepository) CreateUser(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	clone := *user
	r.users[user.ID] = &clone
	r.usersByEmail[user.Email] = user.ID
	return nil
}

func (r *MemoryRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.usersByEmail[email]
	if !ok {
		return nil, nil
	}
	clone := *r.users[id]
	return &clone, nil
}

func (r *MemoryRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	clone := *user
	return &clone, nil
}

func (r *MemoryRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *MemoryRepository) UpdateUserRole(ctx context.Context, id string, role models.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return models.ErrNotFound("user %s not found", id)
	}
	user.Role = role
	user.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MemoryRepository) DemoteAdmin(ctx context.Context, id string, role models.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return models.ErrNotFound("user %s not found", id)
	}
	if user.Role == models.RoleAdmin && role != models.RoleAdmin {
		admins := 0
		for _, u := range r.users {
			if u.Role == models.RoleAdmin {
				admins++
			}
		}
		if admins <= 1 {
			return models.ErrInvalidInput("cannot remove the last admin")
		}
	}
	user.Role = role
	user.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MemoryRepository) CountAdmins(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, u := range r.users {
		if u.Role == models.RoleAdmin {
			count++
		}
	}
	return count, nil
}

func (r *MemoryRepository) CountUsers(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users), nil
}

// Campaign repository methods

func (r *MemoryRepository) CreateCampaign(ctx context.Context, campaign *models.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextCampaignID++
	campaign.ID = r.nextCampaignID

	now := time.Now().UTC()
	campaign.CreatedAt = now
	campaign.UpdatedAt = now

	clone := *campaign
	clone.DocIDs = append([]int64(nil), campaign.DocIDs...)
	r.campaigns[campaign.ID] = &clone
	return nil
}

func (r *MemoryRepository) GetCampaign(ctx context.Context, id int64) (*models.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cloneCampaign(id), nil
}

func (r *MemoryRepository) cloneCampaign(id int64) *models.Campaign {
	campaign, ok := r.campaigns[id]
	if !ok {
		return nil
	}
	clone := *campaign
	clone.DocIDs = append([]int64(nil), campaign.DocIDs...)
	return &clone
}

func (r *MemoryRepository) ListCampaigns(ctx context.Context) ([]models.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	campaigns := make([]models.Campaign, 0, len(r.campaigns))
	for id := range r.campaigns {
		campaigns = append(campaigns, *r.cloneCampaign(id))
	}
	sort.Slice(campaigns, func(i, j int) bool { return campaigns[i].ID < campaigns[j].ID })
	return campaigns, nil
}

func (r *MemoryRepository) UpdateCampaignStatus(ctx context.Context, id int64, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	campaign, ok := r.campaigns[id]
	if !ok {
		return models.ErrNotFound("campaign %d not found", id)
	}
	campaign.Status = status
	campaign.UpdatedAt = time.Now().UTC()
	return nil
}

// Funding repository methods

func (r *MemoryRepository) AddContribution(ctx context.Context, contribution *models.Contribution) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, seen := r.contributions[contribution.ID]; seen {
		return false, nil
	}
	campaign, ok := r.campaigns[contribution.CampaignID]
	if !ok {
		return false, models.ErrNotFound("campaign %d not found", contribution.CampaignID)
	}

	contribution.CreatedAt = time.Now().UTC()
	clone := *contribution
	r.contributions[contribution.ID] = &clone

	totals, ok := r.channelTotals[contribution.CampaignID]
	if !ok {
		totals = make(map[models.FundingChannel]int64)
		r.channelTotals[contribution.CampaignID] = totals
	}
	totals[contribution.Channel] += contribution.Amount

	campaign.AmountRaised += contribution.Amount
	campaign.CurrentFunding += contribution.Amount
	campaign.UpdatedAt = contribution.CreatedAt
	return true, nil
}

func (r *MemoryRepository) GetChannelTotals(ctx context.Context, campaignID int64) (map[models.FundingChannel]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	totals := make(map[models.FundingChannel]int64)
	for channel, amount := range r.channelTotals[campaignID] {
		totals[channel] = amount
	}
	return totals, nil
}

// Document repository methods

func (r *MemoryRepository) CreateDocument(ctx context.Context, doc *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextDocumentID++
	doc.ID = r.nextDocumentID
	doc.CreatedAt = time.Now().UTC()

	clone := *doc
	r.documents[doc.ID] = &clone
	return nil
}

func (r *MemoryRepository) GetDocument(ctx context.Context, id int64) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.documents[id]
	if !ok {
		return nil, nil
	}
	clone := *doc
	return &clone, nil
}

func (r *MemoryRepository) FinalizeDocument(ctx context.Context, docID int64, size int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.documents[docID]
	if !ok {
		return models.ErrNotFound("document %d not found", docID)
	}
	campaign, ok := r.campaigns[doc.CampaignID]
	if !ok {
		return models.ErrNotFound("campaign %d not found", doc.CampaignID)
	}

	doc.Size = size
	doc.Finalized = true
	campaign.DocIDs = append(campaign.DocIDs, docID)
	campaign.UpdatedAt = time.Now().UTC()
	return nil
}

// Idea repository methods

func (r *MemoryRepository) CreateIdea(ctx context.Context, idea *models.Idea) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextIdeaID++
	idea.ID = r.nextIdeaID
	idea.SubmittedAt = time.Now().UTC()

	clone := *idea
	r.ideas[idea.ID] = &clone
	return nil
}

func (r *MemoryRepository) GetIdea(ctx context.Context, id int64) (*models.Idea, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idea, ok := r.ideas[id]
	if !ok {
		return nil, nil
	}
	clone := *idea
	return &clone, nil
}

func (r *MemoryRepository) UpdateIdeaStatus(ctx context.Context, id int64, status models.ReviewStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idea, ok := r.ideas[id]
	if !ok {
		return models.ErrNotFound("idea %d not found", id)
	}
	idea.Status = status
	return nil
}

func (r *MemoryRepository) ListIdeas(ctx context.Context) ([]models.Idea, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ideas := make([]models.Idea, 0, len(r.ideas))
	for _, idea := range r.ideas {
		ideas = append(ideas, *idea)
	}
	sort.Slice(ideas, func(i, j int) bool { return ideas[i].ID < ideas[j].ID })
	return ideas, nil
}

// Project repository methods

func (r *MemoryRepository) CreateProject(ctx context.Context, project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextProjectID++
	project.ID = r.nextProjectID
	project.SubmittedAt = time.Now().UTC()
	for i := range project.Milestones {
		project.Milestones[i].ID = int64(i)
		project.Milestones[i].ProjectID = project.ID
	}

	r.projects[project.ID] = cloneProject(project)
	return nil
}

func cloneProject(p *models.Project) *models.Project {
	clone := *p
	clone.Milestones = append([]models.Milestone(nil), p.Milestones...)
	clone.DocumentIDs = append([]int64(nil), p.DocumentIDs...)
	if p.AdminNotes != nil {
		notes := *p.AdminNotes
		clone.AdminNotes = &notes
	}
	if p.ReviewedAt != nil {
		at := *p.ReviewedAt
		clone.ReviewedAt = &at
	}
	if p.Reviewer != nil {
		rev := *p.Reviewer
		clone.Reviewer = &rev
	}
	return &clone
}

func (r *MemoryRepository) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	project, ok := r.projects[id]
	if !ok {
		return nil, nil
	}
	return cloneProject(project), nil
}

func (r *MemoryRepository) UpdateProjectReview(ctx context.Context, project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.projects[project.ID]; !ok {
		return models.ErrNotFound("project %d not found", project.ID)
	}
	r.projects[project.ID] = cloneProject(project)
	return nil
}

func (r *MemoryRepository) ListProjects(ctx context.Context, status *models.ReviewStatus) ([]models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	projects := make([]models.Project, 0, len(r.projects))
	for _, p := range r.projects {
		if status != nil && p.Status != *status {
			continue
		}
		projects = append(projects, *cloneProject(p))
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].ID < projects[j].ID })
	return projects, nil
}

func (r *MemoryRepository) ListProjectsBySubmitter(ctx context.Context, userID string) ([]models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	projects := make([]models.Project, 0)
	for _, p := range r.projects {
		if p.SubmittedBy == userID {
			projects = append(projects, *cloneProject(p))
		}
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].ID < projects[j].ID })
	return projects, nil
}

// Payment method repository methods

func (r *MemoryRepository) CreatePaymentMethod(ctx context.Context, method *models.PaymentMethod) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextMethodID++
	method.ID = r.nextMethodID
	method.CreatedAt = time.Now().UTC()

	clone := *method
	r.methods[method.ID] = &clone
	return nil
}

func (r *MemoryRepository) GetPaymentMethod(ctx context.Context, id int64) (*models.PaymentMethod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	method, ok := r.methods[id]
	if !ok {
		return nil, nil
	}
	clone := *method
	return &clone, nil
}

func (r *MemoryRepository) ListUserPaymentMethods(ctx context.Context, owner string) ([]models.PaymentMethod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	methods := make([]models.PaymentMethod, 0)
	for _, m := range r.methods {
		if m.Owner == owner && m.IsActive {
			methods = append(methods, *m)
		}
	}
	sort.Slice(methods, func(i, j int) bool { return methods[i].ID < methods[j].ID })
	return methods, nil
}

func (r *MemoryRepository) DeactivatePaymentMethod(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	method, ok := r.methods[id]
	if !ok {
		return models.ErrNotFound("payment method %d not found", id)
	}
	method.IsActive = false
	return nil
}

// Payment verification repository methods

func (r *MemoryRepository) CreatePaymentVerification(ctx context.Context, verification *models.PaymentVerification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextVerificationID++
	verification.ID = r.nextVerificationID
	verification.CreatedAt = time.Now().UTC()

	r.verifications[verification.ID] = cloneVerification(verification)
	return nil
}

func cloneVerification(v *models.PaymentVerification) *models.PaymentVerification {
	clone := *v
	if v.VerifiedAt != nil {
		at := *v.VerifiedAt
		clone.VerifiedAt = &at
	}
	if v.TokenID != nil {
		token := *v.TokenID
		clone.TokenID = &token
	}
	return &clone
}

func (r *MemoryRepository) GetPaymentVerification(ctx context.Context, id int64) (*models.PaymentVerification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	verification, ok := r.verifications[id]
	if !ok {
		return nil, nil
	}
	return cloneVerification(verification), nil
}

func (r *MemoryRepository) UpdatePaymentVerification(ctx context.Context, verification *models.PaymentVerification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.verifications[verification.ID]; !ok {
		return models.ErrNotFound("payment verification %d not found", verification.ID)
	}
	r.verifications[verification.ID] = cloneVerification(verification)
	return nil
}

func (r *MemoryRepository) ListInvestorPayments(ctx context.Context, investor string) ([]models.PaymentVerification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	payments := make([]models.PaymentVerification, 0)
	for _, v := range r.verifications {
		if v.Investor == investor {
			payments = append(payments, *cloneVerification(v))
		}
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].ID < payments[j].ID })
	return payments, nil
}

// SPV deal mapping repository methods

func (r *MemoryRepository) LinkCampaignDeal(ctx context.Context, campaignID, dealID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.campaigns[campaignID]; !ok {
		return models.ErrNotFound("campaign %d not found", campaignID)
	}
	for _, existing := range r.dealLinks[campaignID] {
		if existing == dealID {
			return nil
		}
	}
	r.dealLinks[campaignID] = append(r.dealLinks[campaignID], dealID)
	return nil
}

func (r *MemoryRepository) GetCampaignDeals(ctx context.Context, campaignID int64) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.dealLinks[campaignID]...), nil
}

// Certificate mint record repository methods

func (r *MemoryRepository) GetMintRecord(ctx context.Context, spvID, dealID int64, owner string) (*models.MintRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.mints[mintKey{spvID, dealID, owner}]
	if !ok {
		return nil, nil
	}
	clone := *record
	return &clone, nil
}

func (r *MemoryRepository) RecordMint(ctx context.Context, record *models.MintRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record.CreatedAt = time.Now().UTC()
	clone := *record
	r.mints[mintKey{record.SpvID, record.DealID, record.Owner}] = &clone
	return nil
}
