package models

import (
	"time"

	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/catalog"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/configurator"
)

// ErrorResponse represents the standard error response format
type ErrorResponse struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

type ErrorDetail struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// TokenResponse is the subset of the OAuth token grant exposed to callers
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	InstanceURL string `json:"instance_url"`
	TokenType   string `json:"token_type"`
}

// ProductListRequest selects a catalog, or a category when IsCategory is set
type ProductListRequest struct {
	CatalogID  string `json:"catalogId,omitempty"`
	IsCategory bool   `json:"isCategory,omitempty"`
}

// ProductListResponse wraps a product listing
type ProductListResponse struct {
	Result []catalog.Product `json:"result"`
}

// ProductDetailResponse wraps a single catalog snapshot
type ProductDetailResponse struct {
	Result *catalog.Product `json:"result"`
}

// ShowcaseProduct is a product card on the landing page
type ShowcaseProduct struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	MonthlyPrice float64 `json:"monthlyPrice"`
	Image        string  `json:"image"`
	Type         string  `json:"type"`
}

// ShowcaseResponse lists showcase cards
type ShowcaseResponse struct {
	Category string            `json:"category"`
	Products []ShowcaseProduct `json:"products"`
	Count    int               `json:"count"`
}

// SubmissionRequest is a session configuration plus the chosen lease
type SubmissionRequest struct {
	configurator.Configuration
	Financing *configurator.Financing `json:"financing,omitempty"`
}

// SubmissionData carries the upstream record id of a placed order or quote
type SubmissionData struct {
	OrderID string `json:"orderId,omitempty"`
	QuoteID string `json:"quoteId,omitempty"`
}

// SubmissionResponse is returned after a successful order or quote
type SubmissionResponse struct {
	Success bool           `json:"success"`
	Data    SubmissionData `json:"data"`
	Message string         `json:"message"`
}

// CreateSessionRequest starts a configuration session
type CreateSessionRequest struct {
	ProductID string `json:"productId"`
}

// UpdateSelectionRequest sets an attribute value or a component id
type UpdateSelectionRequest struct {
	Value string `json:"value"`
}

// SessionSubmitRequest carries the lease choice for a session submission
type SessionSubmitRequest struct {
	LeaseTerm   int      `json:"leaseTerm,omitempty"`
	DownPayment *float64 `json:"downPayment,omitempty"`
}

// SessionView is the full state of a configuration session
type SessionView struct {
	ID                 string                          `json:"id"`
	ProductID          string                          `json:"productId"`
	Status             configurator.Status             `json:"status"`
	Error              string                          `json:"error,omitempty"`
	Steps              []configurator.Step             `json:"steps,omitempty"`
	Options            []configurator.StepOptions      `json:"options,omitempty"`
	UnsupportedGroups  []configurator.UnsupportedGroup `json:"unsupportedGroups,omitempty"`
	CurrentStep        int                             `json:"currentStep"`
	SelectedAttributes map[string]string               `json:"selectedAttributes"`
	SelectedComponents map[string]string               `json:"selectedComponents"`
	BasePrice          float64                         `json:"basePrice"`
	TotalPrice         float64                         `json:"totalPrice"`
	MonthlyEstimate    float64                         `json:"monthlyEstimate"`
	Summary            *configurator.Summary           `json:"summary,omitempty"`
	LeaseTerms         []configurator.LeaseTerm        `json:"leaseTerms,omitempty"`
	ExpiresAt          time.Time                       `json:"expiresAt"`
}

// SubmissionRecord is a row of the submission ledger
type SubmissionRecord struct {
	ID             int64     `json:"id"`
	CorrelationID  string    `json:"correlationId"`
	Kind           string    `json:"kind"`
	SessionID      string    `json:"sessionId,omitempty"`
	ProductID      string    `json:"productId"`
	ProductName    string    `json:"productName,omitempty"`
	TotalPrice     float64   `json:"totalPrice"`
	LeaseTerm      int       `json:"leaseTerm,omitempty"`
	APR            float64   `json:"apr,omitempty"`
	DownPayment    float64   `json:"downPayment,omitempty"`
	MonthlyPayment float64   `json:"monthlyPayment,omitempty"`
	Status         string    `json:"status"`
	ExternalID     string    `json:"externalId,omitempty"`
	Error          string    `json:"error,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// SubmissionListResponse is returned by the admin ledger endpoint
type SubmissionListResponse struct {
	Submissions []SubmissionRecord `json:"submissions"`
	Count       int                `json:"count"`
}
