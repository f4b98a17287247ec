package models

import (
	"time"
)

// Role of a registered user. Membership in the admin/innovator groups is
// stored here and nowhere else, so a role read can never disagree with the
// group it is derived from.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleInnovator Role = "innovator"
	RoleUser      Role = "user"
)

// ReviewStatus is shared by ideas and projects, but the two follow different
// transition rules (see service.ReviewService).
type ReviewStatus string

const (
	StatusPending          ReviewStatus = "pending"
	StatusUnderReview      ReviewStatus = "under_review"
	StatusApproved         ReviewStatus = "approved"
	StatusRejected         ReviewStatus = "rejected"
	StatusRequiresRevision ReviewStatus = "requires_revision"
)

// PaymentStatus of a payment verification.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentVerified PaymentStatus = "verified"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// FundingChannel identifies which of the three contribution entry points an
// amount arrived through.
type FundingChannel string

const (
	ChannelNative      FundingChannel = "native"
	ChannelTraditional FundingChannel = "traditional"
	ChannelSpv         FundingChannel = "spv"
)

// User represents a registered user in the system
type User struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Name      string    `db:"name" json:"name"`
	Password  string    `db:"password" json:"-"` // Password hash, not returned in JSON
	Role      Role      `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Campaign is the funding record owned by the campaign ledger. Amounts are
// integer minor units. DocIDs is append-only and ordered by attach time.
type Campaign struct {
	ID                   int64     `db:"id" json:"id"`
	Title                string    `db:"title" json:"title"`
	Description          string    `db:"description" json:"description"`
	FundingGoal          int64     `db:"funding_goal" json:"fundingGoal"`
	CurrentFunding       int64     `db:"current_funding" json:"currentFunding"`
	LegalEntity          string    `db:"legal_entity" json:"legalEntity"`
	ContactInfo          string    `db:"contact_info" json:"contactInfo"`
	Category             string    `db:"category" json:"category"`
	BusinessRegistration bool      `db:"business_registration" json:"businessRegistration"`
	Status               string    `db:"status" json:"status"`
	AmountRaised         int64     `db:"amount_raised" json:"amountRaised"`
	Goal                 int64     `db:"goal" json:"goal"`
	EndDate              int64     `db:"end_date" json:"endDate"` // unix seconds
	CreatedAt            time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt            time.Time `db:"updated_at" json:"updatedAt"`
	DocIDs               []int64   `db:"-" json:"docIds"`
}

// CampaignCard is the listing projection of a campaign.
type CampaignCard struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Category     string `json:"category"`
	AmountRaised int64  `json:"amountRaised"`
	Goal         int64  `json:"goal"`
	EndDate      int64  `json:"endDate"`
	DaysLeft     int64  `json:"daysLeft"` // negative => ended
}

// UnifiedFunding aggregates the three contribution channels for one campaign.
// TotalRaised is always recomputed from the other three, never stored.
type UnifiedFunding struct {
	Goal              int64 `json:"goal"`
	NativeRaised      int64 `json:"nativeRaised"`
	TraditionalRaised int64 `json:"traditionalRaised"`
	SpvRaised         int64 `json:"spvRaised"`
	TotalRaised       int64 `json:"totalRaised"`
}

// Contribution is one credited funding event. ID is a caller-supplied
// idempotency key; replays of the same key are ignored.
type Contribution struct {
	ID              string         `db:"id" json:"id"`
	CampaignID      int64          `db:"campaign_id" json:"campaignId"`
	Channel         FundingChannel `db:"channel" json:"channel"`
	Amount          int64          `db:"amount" json:"amount"`
	PaymentMethodID *int64         `db:"payment_method_id" json:"paymentMethodId,omitempty"`
	CreatedAt       time.Time      `db:"created_at" json:"createdAt"`
}

// Document metadata. Raw bytes live in the blob store, keyed by ID.
type Document struct {
	ID          int64     `db:"id" json:"id"`
	CampaignID  int64     `db:"campaign_id" json:"campaignId"`
	Name        string    `db:"name" json:"name"`
	ContentType string    `db:"content_type" json:"contentType"`
	Size        int64     `db:"size" json:"size"`
	UploadedAt  int64     `db:"uploaded_at" json:"uploadedAt"`
	Finalized   bool      `db:"finalized" json:"finalized"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// Idea is a raw submission reviewed through the simple two-state path.
type Idea struct {
	ID          int64        `db:"id" json:"id"`
	Title       string       `db:"title" json:"title"`
	Description string       `db:"description" json:"description"`
	SubmittedBy string       `db:"submitted_by" json:"submittedBy"`
	SubmittedAt time.Time    `db:"submitted_at" json:"submittedAt"`
	Status      ReviewStatus `db:"status" json:"status"`
}

// Milestone of a project.
type Milestone struct {
	ID          int64  `db:"id" json:"id"`
	ProjectID   int64  `db:"project_id" json:"-"`
	Title       string `db:"title" json:"title"`
	Description string `db:"description" json:"description"`
	Amount      int64  `db:"amount" json:"amount"`
	DueDate     int64  `db:"due_date" json:"dueDate"`
	Completed   bool   `db:"completed" json:"completed"`
}

// Project is a full submission reviewed through the strict transition graph.
type Project struct {
	ID                   int64        `db:"id" json:"id"`
	Title                string       `db:"title" json:"title"`
	Description          string       `db:"description" json:"description"`
	FundingGoal          int64        `db:"funding_goal" json:"fundingGoal"`
	LegalEntity          string       `db:"legal_entity" json:"legalEntity"`
	ContactInfo          string       `db:"contact_info" json:"contactInfo"`
	Category             string       `db:"category" json:"category"`
	BusinessRegistration bool         `db:"business_registration" json:"businessRegistration"`
	SubmittedBy          string       `db:"submitted_by" json:"submittedBy"`
	SubmittedAt          time.Time    `db:"submitted_at" json:"submittedAt"`
	Status               ReviewStatus `db:"status" json:"status"`
	DurationDays         int          `db:"duration_days" json:"durationDays"`
	Milestones           []Milestone  `db:"-" json:"milestones"`
	DocumentIDs          []int64      `db:"-" json:"documentIds"`
	AdminNotes           *string      `db:"admin_notes" json:"adminNotes,omitempty"`
	ReviewedAt           *time.Time   `db:"reviewed_at" json:"reviewedAt,omitempty"`
	Reviewer             *string      `db:"reviewer" json:"reviewer,omitempty"`
}

// PaymentMethod stores only the masked account form. The raw identifier is
// validated at registration and discarded.
type PaymentMethod struct {
	ID            int64     `db:"id" json:"id"`
	Owner         string    `db:"owner" json:"owner"`
	MethodType    string    `db:"method_type" json:"methodType"` // "card", "wallet", "bank", ...
	Provider      string    `db:"provider" json:"provider"`
	MaskedAccount string    `db:"masked_account" json:"maskedAccount"`
	Currency      string    `db:"currency" json:"currency"`
	IsActive      bool      `db:"is_active" json:"isActive"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

// PaymentVerification tracks one payment through pending/verified/failed/
// refunded. TokenID is set once a certificate has been minted for it.
type PaymentVerification struct {
	ID              int64         `db:"id" json:"id"`
	Investor        string        `db:"investor" json:"investor"`
	SpvID           int64         `db:"spv_id" json:"spvId"`
	DealID          int64         `db:"deal_id" json:"dealId"`
	Amount          int64         `db:"amount" json:"amount"`
	PaymentMethodID int64         `db:"payment_method_id" json:"paymentMethodId"`
	Status          PaymentStatus `db:"status" json:"status"`
	Fractions       int64         `db:"fractions" json:"fractions"`
	TokenID         *int64        `db:"token_id" json:"tokenId,omitempty"`
	CreatedAt       time.Time     `db:"created_at" json:"createdAt"`
	VerifiedAt      *time.Time    `db:"verified_at" json:"verifiedAt,omitempty"`
}

// SpvDealLink is the weak campaign -> remote deal mapping kept by the
// orchestrator. The deal itself is owned by the external controller.
type SpvDealLink struct {
	CampaignID int64     `db:"campaign_id" json:"campaignId"`
	DealID     int64     `db:"deal_id" json:"dealId"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// MintRecord makes certificate minting idempotent per (spv, deal, owner).
type MintRecord struct {
	SpvID     int64     `db:"spv_id" json:"spvId"`
	DealID    int64     `db:"deal_id" json:"dealId"`
	Owner     string    `db:"owner" json:"owner"`
	TokenID   int64     `db:"token_id" json:"tokenId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
