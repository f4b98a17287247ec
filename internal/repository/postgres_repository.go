package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/fundverse/fundverse-server/internal/models"
)

// PostgresRepository implements the Repository interface using PostgreSQL
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{
		db: db,
	}
}

// GetDB returns the underlying database connection
func (r *PostgresRepository) GetDB() *sqlx.DB {
	return r.db
}

// nextID claims the next value from the per-entity sequence row. Ids are
// monotonic and never reused, even across deletes.
func nextID(ctx context.Context, tx *sql.Tx, entity string) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx,
		`UPDATE id_sequences
		SET current_value = current_value + 1
		WHERE entity = $1
		RETURNING current_value`,
		entity).Scan(&id)
	return id, err
}

// User repository methods

func (r *PostgresRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, name, password, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Name, user.Password, user.Role, user.CreatedAt, user.UpdatedAt)

	return err
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT * FROM users WHERE email = $1`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT * FROM users WHERE id = $1`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (r *PostgresRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.SelectContext(ctx, &users, `SELECT * FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *PostgresRepository) UpdateUserRole(ctx context.Context, id string, role models.Role) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET role = $1, updated_at = $2 WHERE id = $3`,
		role, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrNotFound("user %s not found", id)
	}
	return nil
}

func (r *PostgresRepository) DemoteAdmin(ctx context.Context, id string, role models.Role) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	var current models.Role
	err = tx.QueryRowContext(ctx,
		`SELECT role FROM users WHERE id = $1 FOR UPDATE`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		err = models.ErrNotFound("user %s not found", id)
		return err
	}
	if err != nil {
		return err
	}

	if current == models.RoleAdmin && role != models.RoleAdmin {
		// Locking every admin row serializes concurrent demotions; two of
		// them cannot both observe a safe count.
		rows, qerr := tx.QueryContext(ctx,
			`SELECT id FROM users WHERE role = $1 FOR UPDATE`, models.RoleAdmin)
		if qerr != nil {
			err = qerr
			return err
		}
		admins := 0
		for rows.Next() {
			admins++
		}
		if err = rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()
		if admins <= 1 {
			err = models.ErrInvalidInput("cannot remove the last admin")
			return err
		}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET role = $1, updated_at = $2 WHERE id = $3`,
		role, time.Now().UTC(), id)
	if err != nil {
		return err
	}

	err = tx.Commit()
	return err
}

func (r *PostgresRepository) CountAdmins(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM users WHERE role = $1`, models.RoleAdmin)
	return count, err
}

func (r *PostgresRepository) CountUsers(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`)
	return count, err
}

// Campaign repository methods

func (r *PostgresRepository) CreateCampaign(ctx context.Context, campaign *models.Campaign) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	campaign.ID, err = nextID(ctx, tx, "campaign")
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	campaign.CreatedAt = now
	campaign.UpdatedAt = now

	query := `
		INSERT INTO campaigns (id, title, description, funding_goal, current_funding,
			legal_entity, contact_info, category, business_registration, status,
			amount_raised, goal, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err = tx.ExecContext(ctx, query,
		campaign.ID, campaign.Title, campaign.Description, campaign.FundingGoal,
		campaign.CurrentFunding, campaign.LegalEntity, campaign.ContactInfo,
		campaign.Category, campaign.BusinessRegistration, campaign.Status,
		campaign.AmountRaised, campaign.Goal, campaign.EndDate,
		campaign.CreatedAt, campaign.UpdatedAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PostgresRepository) GetCampaign(ctx context.Context, id int64) (*models.Campaign, error) {
	var campaign models.Campaign
	err := r.db.GetContext(ctx, &campaign, `SELECT * FROM campaigns WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	err = r.db.SelectContext(ctx, &campaign.DocIDs,
		`SELECT doc_id FROM campaign_docs WHERE campaign_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, err
	}

	return &campaign, nil
}

func (r *PostgresRepository) ListCampaigns(ctx context.Context) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	err := r.db.SelectContext(ctx, &campaigns, `SELECT * FROM campaigns ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return campaigns, nil
}

func (r *PostgresRepository) UpdateCampaignStatus(ctx context.Context, id int64, status string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE campaigns SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrNotFound("campaign %d not found", id)
	}
	return nil
}

// Funding repository methods

func (r *PostgresRepository) AddContribution(ctx context.Context, contribution *models.Contribution) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	contribution.CreatedAt = time.Now().UTC()

	// The unique id makes replays a no-op.
	result, err := tx.ExecContext(ctx,
		`INSERT INTO contributions (id, campaign_id, channel, amount, payment_method_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING`,
		contribution.ID, contribution.CampaignID, contribution.Channel,
		contribution.Amount, contribution.PaymentMethodID, contribution.CreatedAt)
	if err != nil {
		return false, err
	}
	inserted, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if inserted == 0 {
		err = tx.Commit()
		return false, err
	}

	// Channel counter and the campaign's own raised amount move together.
	result, err = tx.ExecContext(ctx,
		`UPDATE campaigns
		SET amount_raised = amount_raised + $1,
			current_funding = current_funding + $1,
			updated_at = $2
		WHERE id = $3`,
		contribution.Amount, contribution.CreatedAt, contribution.CampaignID)
	if err != nil {
		return false, err
	}
	updated, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if updated == 0 {
		err = models.ErrNotFound("campaign %d not found", contribution.CampaignID)
		return false, err
	}

	err = tx.Commit()
	return err == nil, err
}

func (r *PostgresRepository) GetChannelTotals(ctx context.Context, campaignID int64) (map[models.FundingChannel]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT channel, COALESCE(SUM(amount), 0)
		FROM contributions
		WHERE campaign_id = $1
		GROUP BY channel`,
		campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[models.FundingChannel]int64)
	for rows.Next() {
		var channel models.FundingChannel
		var amount int64
		if err := rows.Scan(&channel, &amount); err != nil {
			return nil, err
		}
		totals[channel] = amount
	}
	return totals, rows.Err()
}

// Document repository methods

func (r *PostgresRepository) CreateDocument(ctx context.Context, doc *models.Document) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	doc.ID, err = nextID(ctx, tx, "document")
	if err != nil {
		return err
	}
	doc.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO documents (id, campaign_id, name, content_type, size, uploaded_at, finalized, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = tx.ExecContext(ctx, query,
		doc.ID, doc.CampaignID, doc.Name, doc.ContentType, doc.Size,
		doc.UploadedAt, doc.Finalized, doc.CreatedAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PostgresRepository) GetDocument(ctx context.Context, id int64) (*models.Document, error) {
	var doc models.Document
	err := r.db.GetContext(ctx, &doc, `SELECT * FROM documents WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

func (r *PostgresRepository) FinalizeDocument(ctx context.Context, docID int64, size int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	var campaignID int64
	err = tx.QueryRowContext(ctx,
		`UPDATE documents SET size = $1, finalized = TRUE WHERE id = $2 RETURNING campaign_id`,
		size, docID).Scan(&campaignID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = models.ErrNotFound("document %d not found", docID)
		}
		return err
	}

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO campaign_docs (campaign_id, doc_id, position)
		VALUES ($1, $2, (SELECT COALESCE(MAX(position), 0) + 1 FROM campaign_docs WHERE campaign_id = $1))`,
		campaignID, docID)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE campaigns SET updated_at = $1 WHERE id = $2`, now, campaignID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Idea repository methods

func (r *PostgresRepository) CreateIdea(ctx context.Context, idea *models.Idea) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	idea.ID, err = nextID(ctx, tx, "idea")
	if err != nil {
		return err
	}
	idea.SubmittedAt = time.Now().UTC()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO ideas (id, title, description, submitted_by, submitted_at, status)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		idea.ID, idea.Title, idea.Description, idea.SubmittedBy, idea.SubmittedAt, idea.Status)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PostgresRepository) GetIdea(ctx context.Context, id int64) (*models.Idea, error) {
	var idea models.Idea
	err := r.db.GetContext(ctx, &idea, `SELECT * FROM ideas WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &idea, nil
}

func (r *PostgresRepository) UpdateIdeaStatus(ctx context.Context, id int64, status models.ReviewStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE ideas SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrNotFound("idea %d not found", id)
	}
	return nil
}

func (r *PostgresRepository) ListIdeas(ctx context.Context) ([]models.Idea, error) {
	var ideas []models.Idea
	err := r.db.SelectContext(ctx, &ideas, `SELECT * FROM ideas ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return ideas, nil
}

// Project repository methods

func (r *PostgresRepository) CreateProject(ctx context.Context, project *models.Project) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	project.ID, err = nextID(ctx, tx, "project")
	if err != nil {
		return err
	}
	project.SubmittedAt = time.Now().UTC()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO projects (id, title, description, funding_goal, legal_entity,
			contact_info, category, business_registration, submitted_by, submitted_at,
			status, duration_days, admin_notes, reviewed_at, reviewer)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		project.ID, project.Title, project.Description, project.FundingGoal,
		project.LegalEntity, project.ContactInfo, project.Category,
		project.BusinessRegistration, project.SubmittedBy, project.SubmittedAt,
		project.Status, project.DurationDays, project.AdminNotes,
		project.ReviewedAt, project.Reviewer)
	if err != nil {
		return err
	}

	for i := range project.Milestones {
		m := &project.Milestones[i]
		m.ID = int64(i)
		m.ProjectID = project.ID
		_, err = tx.ExecContext(ctx,
			`INSERT INTO milestones (id, project_id, title, description, amount, due_date, completed)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			m.ID, m.ProjectID, m.Title, m.Description, m.Amount, m.DueDate, m.Completed)
		if err != nil {
			return err
		}
	}

	for _, docID := range project.DocumentIDs {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO project_docs (project_id, doc_id) VALUES ($1, $2)`,
			project.ID, docID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PostgresRepository) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	var project models.Project
	err := r.db.GetContext(ctx, &project, `SELECT * FROM projects WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := r.loadProjectChildren(ctx, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *PostgresRepository) loadProjectChildren(ctx context.Context, project *models.Project) error {
	err := r.db.SelectContext(ctx, &project.Milestones,
		`SELECT * FROM milestones WHERE project_id = $1 ORDER BY id`, project.ID)
	if err != nil {
		return err
	}
	return r.db.SelectContext(ctx, &project.DocumentIDs,
		`SELECT doc_id FROM project_docs WHERE project_id = $1 ORDER BY doc_id`, project.ID)
}

func (r *PostgresRepository) UpdateProjectReview(ctx context.Context, project *models.Project) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE projects
		SET status = $1, admin_notes = $2, reviewed_at = $3, reviewer = $4
		WHERE id = $5`,
		project.Status, project.AdminNotes, project.ReviewedAt, project.Reviewer, project.ID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrNotFound("project %d not found", project.ID)
	}
	return nil
}

func (r *PostgresRepository) ListProjects(ctx context.Context, status *models.ReviewStatus) ([]models.Project, error) {
	query := `SELECT * FROM projects`
	args := []interface{}{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY id`

	var projects []models.Project
	err := r.db.SelectContext(ctx, &projects, query, args...)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		if err := r.loadProjectChildren(ctx, &projects[i]); err != nil {
			return nil, err
		}
	}
	return projects, nil
}

func (r *PostgresRepository) ListProjectsBySubmitter(ctx context.Context, userID string) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.SelectContext(ctx, &projects,
		`SELECT * FROM projects WHERE submitted_by = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		if err := r.loadProjectChildren(ctx, &projects[i]); err != nil {
			return nil, err
		}
	}
	return projects, nil
}

// Payment method repository methods

func (r *PostgresRepository) CreatePaymentMethod(ctx context.Context, method *models.PaymentMethod) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	method.ID, err = nextID(ctx, tx, "payment_method")
	if err != nil {
		return err
	}
	method.CreatedAt = time.Now().UTC()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO payment_methods (id, owner, method_type, provider, masked_account, currency, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		method.ID, method.Owner, method.MethodType, method.Provider,
		method.MaskedAccount, method.Currency, method.IsActive, method.CreatedAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PostgresRepository) GetPaymentMethod(ctx context.Context, id int64) (*models.PaymentMethod, error) {
	var method models.PaymentMethod
	err := r.db.GetContext(ctx, &method, `SELECT * FROM payment_methods WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &method, nil
}

func (r *PostgresRepository) ListUserPaymentMethods(ctx context.Context, owner string) ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	err := r.db.SelectContext(ctx, &methods,
		`SELECT * FROM payment_methods WHERE owner = $1 AND is_active ORDER BY id`, owner)
	if err != nil {
		return nil, err
	}
	return methods, nil
}

func (r *PostgresRepository) DeactivatePaymentMethod(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE payment_methods SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrNotFound("payment method %d not found", id)
	}
	return nil
}

// Payment verification repository methods

func (r *PostgresRepository) CreatePaymentVerification(ctx context.Context, verification *models.PaymentVerification) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	verification.ID, err = nextID(ctx, tx, "payment_verification")
	if err != nil {
		return err
	}
	verification.CreatedAt = time.Now().UTC()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO payment_verifications (id, investor, spv_id, deal_id, amount,
			payment_method_id, status, fractions, token_id, created_at, verified_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		verification.ID, verification.Investor, verification.SpvID, verification.DealID,
		verification.Amount, verification.PaymentMethodID, verification.Status,
		verification.Fractions, verification.TokenID, verification.CreatedAt,
		verification.VerifiedAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PostgresRepository) GetPaymentVerification(ctx context.Context, id int64) (*models.PaymentVerification, error) {
	var verification models.PaymentVerification
	err := r.db.GetContext(ctx, &verification,
		`SELECT * FROM payment_verifications WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &verification, nil
}

func (r *PostgresRepository) UpdatePaymentVerification(ctx context.Context, verification *models.PaymentVerification) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE payment_verifications
		SET status = $1, fractions = $2, token_id = $3, verified_at = $4
		WHERE id = $5`,
		verification.Status, verification.Fractions, verification.TokenID,
		verification.VerifiedAt, verification.ID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrNotFound("payment verification %d not found", verification.ID)
	}
	return nil
}

func (r *PostgresRepository) ListInvestorPayments(ctx context.Context, investor string) ([]models.PaymentVerification, error) {
	var payments []models.PaymentVerification
	err := r.db.SelectContext(ctx, &payments,
		`SELECT * FROM payment_verifications WHERE investor = $1 ORDER BY id`, investor)
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// SPV deal mapping repository methods

func (r *PostgresRepository) LinkCampaignDeal(ctx context.Context, campaignID, dealID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO spv_deal_links (campaign_id, deal_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (campaign_id, deal_id) DO NOTHING`,
		campaignID, dealID, time.Now().UTC())
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return models.ErrNotFound("campaign %d not found", campaignID)
		}
		return err
	}
	return nil
}

func (r *PostgresRepository) GetCampaignDeals(ctx context.Context, campaignID int64) ([]int64, error) {
	var dealIDs []int64
	err := r.db.SelectContext(ctx, &dealIDs,
		`SELECT deal_id FROM spv_deal_links WHERE campaign_id = $1 ORDER BY created_at`, campaignID)
	if err != nil {
		return nil, err
	}
	return dealIDs, nil
}

// Certificate mint record repository methods

func (r *PostgresRepository) GetMintRecord(ctx context.Context, spvID, dealID int64, owner string) (*models.MintRecord, error) {
	var record models.MintRecord
	err := r.db.GetContext(ctx, &record,
		`SELECT * FROM mint_records WHERE spv_id = $1 AND deal_id = $2 AND owner = $3`,
		spvID, dealID, owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *PostgresRepository) RecordMint(ctx context.Context, record *models.MintRecord) error {
	record.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO mint_records (spv_id, deal_id, owner, token_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (spv_id, deal_id, owner) DO NOTHING`,
		record.SpvID, record.DealID, record.Owner, record.TokenID, record.CreatedAt)
	return err
}
