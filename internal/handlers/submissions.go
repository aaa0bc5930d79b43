package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/commerce"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/models"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/storage"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/telemetry"
)

// Submissions places orders and quotes and reads back the ledger
type Submissions interface {
	Submit(ctx context.Context, kind commerce.SubmissionKind, sessionID string, req models.SubmissionRequest) (*commerce.SubmissionResult, error)
	List(ctx context.Context, opts storage.ListOptions) ([]models.SubmissionRecord, error)
}

// SubmissionHandler handles order and quote placement
type SubmissionHandler struct {
	submissions Submissions
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(submissions Submissions) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions}
}

// PlaceOrder handles POST /api/products/order
func (h *SubmissionHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	h.place(w, r, commerce.KindOrder)
}

// PlaceQuote handles POST /api/products/quote
func (h *SubmissionHandler) PlaceQuote(w http.ResponseWriter, r *http.Request) {
	h.place(w, r, commerce.KindQuote)
}

func (h *SubmissionHandler) place(w http.ResponseWriter, r *http.Request, kind commerce.SubmissionKind) {
	telemetry.SetSubmissionKind(r.Context(), string(kind))

	var req models.SubmissionRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeInvalidJSON(w, r, err)
		return
	}
	if details := validateSubmission(req); len(details) > 0 {
		writeErrorResponse(w, http.StatusBadRequest, "validation_error", "Invalid "+string(kind)+" request", details)
		return
	}

	respondSubmission(w, r, h.submissions, kind, "", req)
}

// respondSubmission submits req and writes the client-facing outcome
func respondSubmission(w http.ResponseWriter, r *http.Request, submissions Submissions, kind commerce.SubmissionKind, sessionID string, req models.SubmissionRequest) {
	result, err := submissions.Submit(r.Context(), kind, sessionID, req)
	if err != nil {
		slog.Warn("Submission failed",
			"kind", kind,
			"session_id", sessionID,
			"product_id", req.ProductID,
			"error", err)
		writeCommerceError(w, "place "+string(kind), err)
		return
	}

	resp := models.SubmissionResponse{Success: true}
	if kind == commerce.KindQuote {
		resp.Data.QuoteID = result.ID
		resp.Message = "Quote created successfully"
	} else {
		resp.Data.OrderID = result.ID
		resp.Message = "Order placed successfully"
	}
	writeJSONResponse(w, http.StatusOK, resp)
}

func validateSubmission(req models.SubmissionRequest) []models.ErrorDetail {
	var details []models.ErrorDetail
	if strings.TrimSpace(req.ProductID) == "" {
		details = append(details, models.ErrorDetail{Field: "productId", Issue: "required"})
	}
	if req.ProductData == nil {
		details = append(details, models.ErrorDetail{Field: "productData", Issue: "required"})
	}
	if req.TotalPrice < 0 {
		details = append(details, models.ErrorDetail{Field: "totalPrice", Issue: "must not be negative"})
	}
	if f := req.Financing; f != nil && f.LeaseTerm < 0 {
		details = append(details, models.ErrorDetail{Field: "financing.leaseTerm", Issue: "must not be negative"})
	}
	return details
}

// ListSubmissions handles GET /v1/admin/submissions
func (h *SubmissionHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	opts := storage.ListOptions{
		Kind:   query.Get("kind"),
		Status: query.Get("status"),
	}

	if opts.Kind != "" && opts.Kind != string(commerce.KindOrder) && opts.Kind != string(commerce.KindQuote) {
		writeErrorResponse(w, http.StatusBadRequest, "invalid_parameter", "Invalid kind filter", []models.ErrorDetail{
			{Field: "kind", Issue: "must be order or quote"},
		})
		return
	}
	if opts.Status != "" && opts.Status != storage.StatusSucceeded && opts.Status != storage.StatusFailed {
		writeErrorResponse(w, http.StatusBadRequest, "invalid_parameter", "Invalid status filter", []models.ErrorDetail{
			{Field: "status", Issue: "must be " + storage.StatusSucceeded + " or " + storage.StatusFailed},
		})
		return
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			writeErrorResponse(w, http.StatusBadRequest, "invalid_parameter", "Invalid limit", []models.ErrorDetail{
				{Field: "limit", Issue: "must be a positive integer"},
			})
			return
		}
		opts.Limit = limit
	}

	records, err := h.submissions.List(r.Context(), opts)
	if err != nil {
		slog.Error("Failed to list submissions", "error", err)
		writeErrorResponse(w, http.StatusInternalServerError, "ledger_error", "Failed to read submissions", nil)
		return
	}

	writeJSONResponse(w, http.StatusOK, models.SubmissionListResponse{
		Submissions: records,
		Count:       len(records),
	})
}
