package models

// Request models
type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateCampaignRequest struct {
	Title                string `json:"title" binding:"required"`
	Description          string `json:"description" binding:"required"`
	FundingGoal          int64  `json:"fundingGoal" binding:"required,gt=0"`
	LegalEntity          string `json:"legalEntity" binding:"required"`
	ContactInfo          string `json:"contactInfo" binding:"required"`
	Category             string `json:"category" binding:"required"`
	BusinessRegistration bool   `json:"businessRegistration"`
	Goal                 int64  `json:"goal" binding:"required,gt=0"`
	EndDate              int64  `json:"endDate" binding:"required,gt=0"`
}

// ContributionRequest covers all three funding channels. ContributionID is a
// caller-supplied idempotency key; PaymentMethodID is required only on the
// traditional channel.
type ContributionRequest struct {
	ContributionID  string `json:"contributionId" binding:"required"`
	Amount          int64  `json:"amount" binding:"required,gt=0"`
	PaymentMethodID int64  `json:"paymentMethodId"`
}

type StartUploadRequest struct {
	Name        string `json:"name" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	TotalChunks int    `json:"totalChunks" binding:"required,gt=0"`
	UploadedAt  int64  `json:"uploadedAt"`
}

// UploadChunkRequest carries chunk bytes base64-encoded in JSON.
type UploadChunkRequest struct {
	ChunkIndex int    `json:"chunkIndex"`
	Data       []byte `json:"data" binding:"required"`
	IsFinal    bool   `json:"isFinal"`
}

type UploadDocRequest struct {
	Name        string `json:"name" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	Data        []byte `json:"data" binding:"required"`
	UploadedAt  int64  `json:"uploadedAt"`
}

type SubmitIdeaRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
}

type MilestoneInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	DueDate     int64  `json:"dueDate" binding:"required,gt=0"`
}

type SubmitProjectRequest struct {
	Title                string           `json:"title" binding:"required"`
	Description          string           `json:"description" binding:"required"`
	FundingGoal          int64            `json:"fundingGoal" binding:"required,gt=0"`
	LegalEntity          string           `json:"legalEntity"`
	ContactInfo          string           `json:"contactInfo"`
	Category             string           `json:"category"`
	BusinessRegistration bool             `json:"businessRegistration"`
	DurationDays         int              `json:"durationDays" binding:"required,gt=0"`
	Milestones           []MilestoneInput `json:"milestones"`
	DocumentIDs          []int64          `json:"documentIds"`
}

type ReviewProjectRequest struct {
	Status ReviewStatus `json:"status" binding:"required"`
	Notes  *string      `json:"notes"`
}

type RegisterPaymentMethodRequest struct {
	MethodType        string `json:"methodType" binding:"required"`
	Provider          string `json:"provider" binding:"required"`
	AccountIdentifier string `json:"accountIdentifier" binding:"required"`
	Currency          string `json:"currency" binding:"required"`
}

type InitiatePaymentRequest struct {
	SpvID           int64 `json:"spvId" binding:"required"`
	DealID          int64 `json:"dealId" binding:"required"`
	Amount          int64 `json:"amount" binding:"required,gt=0"`
	PaymentMethodID int64 `json:"paymentMethodId" binding:"required"`
}

type CreateSpvDealRequest struct {
	CampaignID    int64 `json:"campaignId" binding:"required"`
	EquityPercent uint8 `json:"equityPercent" binding:"required,lte=100"`
	TotalRaise    int64 `json:"totalRaise" binding:"required,gt=0"`
	FractionPrice int64 `json:"fractionPrice" binding:"required,gt=0"`
}

type LinkSpvDealRequest struct {
	CampaignID int64 `json:"campaignId" binding:"required"`
	DealID     int64 `json:"dealId" binding:"required"`
}

type SetRoleRequest struct {
	Role Role `json:"role" binding:"required,oneof=admin innovator user"`
}

// Response models
type AuthResponse struct {
	Status    string `json:"status"`
	UserID    string `json:"userId,omitempty"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	Role      Role   `json:"role,omitempty"`
	Token     string `json:"token,omitempty"`
	ExpiresIn int    `json:"expiresIn,omitempty"`
}

type IDResponse struct {
	Status string `json:"status"`
	ID     int64  `json:"id"`
}

type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type ReviewResultResponse struct {
	Status string       `json:"status"`
	ID     int64        `json:"id"`
	Result ReviewStatus `json:"result"`
}

type CompleteInvestmentResponse struct {
	Status    string `json:"status"`
	PaymentID int64  `json:"paymentId"`
	TokenID   int64  `json:"tokenId"`
	Fractions int64  `json:"fractions"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
