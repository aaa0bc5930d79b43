package commerce

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/catalog"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/models"

	"github.com/tidwall/gjson"
)

// SubmissionKind distinguishes orders from quotes
type SubmissionKind string

const (
	KindOrder SubmissionKind = "order"
	KindQuote SubmissionKind = "quote"
)

const quoteValidityDays = 30

// SubmissionResult identifies the record created upstream
type SubmissionResult struct {
	Kind              SubmissionKind
	ID                string
	RequestIdentifier string
}

type orderUser struct {
	ID        string
	Name      string
	ContactID string
	AccountID string
}

type placeRequest struct {
	PricingPref          string               `json:"pricingPref"`
	ConfigurationInput   string               `json:"configurationInput"`
	ConfigurationOptions configurationOptions `json:"configurationOptions"`
	Graph                recordGraph          `json:"graph"`
}

type configurationOptions struct {
	ValidateProductCatalog    bool `json:"validateProductCatalog"`
	ValidateAmendRenewCancel  bool `json:"validateAmendRenewCancel"`
	ExecuteConfigurationRules bool `json:"executeConfigurationRules"`
	AddDefaultConfiguration   bool `json:"addDefaultConfiguration"`
}

type recordGraph struct {
	GraphID string        `json:"graphId"`
	Records []graphRecord `json:"records"`
}

type graphRecord struct {
	ReferenceID string                 `json:"referenceId"`
	Record      map[string]interface{} `json:"record"`
}

func sobject(objectType string, fields map[string]interface{}) map[string]interface{} {
	fields["attributes"] = map[string]string{
		"type":   objectType,
		"method": "POST",
	}
	return fields
}

func newPlaceRequest(records ...graphRecord) placeRequest {
	return placeRequest{
		PricingPref:        "System",
		ConfigurationInput: "RunAndAllowErrors",
		Graph: recordGraph{
			GraphID: "graphId",
			Records: records,
		},
	}
}

// PlaceOrder creates a sales order for the configured vehicle
func (c *Client) PlaceOrder(ctx context.Context, req models.SubmissionRequest) (*SubmissionResult, error) {
	return c.submit(ctx, KindOrder, req)
}

// PlaceQuote creates a quote for the configured vehicle
func (c *Client) PlaceQuote(ctx context.Context, req models.SubmissionRequest) (*SubmissionResult, error) {
	return c.submit(ctx, KindQuote, req)
}

func (c *Client) submit(ctx context.Context, kind SubmissionKind, req models.SubmissionRequest) (*SubmissionResult, error) {
	if err := c.cfg.require(submissionKeys...); err != nil {
		return nil, err
	}
	if _, err := c.cfg.versionSegment(); err != nil {
		return nil, err
	}
	if req.ProductID == "" || req.ProductData == nil {
		return nil, &SubmissionError{Kind: string(kind), Err: errors.New("configuration has no product data")}
	}
	if len(req.ProductData.Prices) == 0 {
		return nil, &SubmissionError{Kind: string(kind), Err: errors.New("product has no price book entry")}
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.SubmissionTimeout)
	defer cancel()

	result, err := c.place(ctx, kind, req)
	if err != nil {
		if isTimeout(ctx, err) {
			err = fmt.Errorf("%w after %s: %v", ErrSubmissionTimeout, c.cfg.SubmissionTimeout, err)
		}
		slog.Error("Submission failed",
			"kind", kind,
			"product_id", req.ProductID,
			"error", err)
		return nil, &SubmissionError{Kind: string(kind), Err: err}
	}

	slog.Info("Submission placed",
		"kind", kind,
		"product_id", req.ProductID,
		"external_id", result.ID,
		"total_price", req.TotalPrice)
	return result, nil
}

func (c *Client) place(ctx context.Context, kind SubmissionKind, req models.SubmissionRequest) (*SubmissionResult, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get access token: %w", err)
	}

	user, err := c.lookupUser(ctx, token)
	if err != nil {
		return nil, err
	}

	var (
		path    string
		idField string
		payload placeRequest
	)
	switch kind {
	case KindQuote:
		path, idField = "commerce/quotes/actions/place", "quoteId"
		payload = quoteGraph(user, req, c.now().AddDate(0, 0, quoteValidityDays).Format("2006-01-02"))
	default:
		path, idField = "commerce/sales-orders/actions/place", "orderId"
		payload = orderGraph(user, req, c.now().Format("2006-01-02"))
	}

	endpoint, err := c.cfg.dataURL(c.cfg.BaseEndpoint, path)
	if err != nil {
		return nil, err
	}

	resp, err := c.send(ctx, http.MethodPost, endpoint, token.AccessToken, payload)
	if err != nil {
		return nil, err
	}
	operation := string(kind) + " placement"
	body, err := readBody(resp, operation, http.StatusOK, http.StatusCreated)
	if err != nil {
		return nil, err
	}

	if success := gjson.GetBytes(body, "success"); success.Exists() && !success.Bool() {
		return nil, &UpstreamError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Message:    upstreamMessage(body),
			Body:       truncate(string(body), maxErrorBody),
		}
	}

	return &SubmissionResult{
		Kind:              kind,
		ID:                gjson.GetBytes(body, idField).String(),
		RequestIdentifier: gjson.GetBytes(body, "requestIdentifier").String(),
	}, nil
}

var soqlEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// soqlLiteral escapes s for use inside a quoted SOQL string
func soqlLiteral(s string) string {
	return soqlEscaper.Replace(s)
}

// lookupUser resolves the configured ordering user on the token's instance
func (c *Client) lookupUser(ctx context.Context, token *models.TokenResponse) (*orderUser, error) {
	base := token.InstanceURL
	if base == "" {
		base = c.cfg.BaseEndpoint
	}
	endpoint, err := c.cfg.dataURL(base, "query/")
	if err != nil {
		return nil, err
	}

	soql := fmt.Sprintf("SELECT Id, Name, ContactId, AccountId FROM User WHERE Name = '%s' LIMIT 1",
		soqlLiteral(c.cfg.OrderUser))
	endpoint += "?q=" + url.QueryEscape(soql)

	resp, err := c.send(ctx, http.MethodGet, endpoint, token.AccessToken, nil)
	if err != nil {
		return nil, err
	}
	body, err := readBody(resp, "user lookup", http.StatusOK)
	if err != nil {
		return nil, err
	}

	record := gjson.GetBytes(body, "records.0")
	if !record.Exists() {
		return nil, fmt.Errorf("%w: %q", ErrUserNotFound, c.cfg.OrderUser)
	}

	return &orderUser{
		ID:        record.Get("Id").String(),
		Name:      record.Get("Name").String(),
		ContactID: record.Get("ContactId").String(),
		AccountID: record.Get("AccountId").String(),
	}, nil
}

func orderGraph(user *orderUser, req models.SubmissionRequest, effectiveDate string) placeRequest {
	price := req.ProductData.Prices[0]
	return newPlaceRequest(
		graphRecord{
			ReferenceID: "refOrder",
			Record: sobject("Order", map[string]interface{}{
				"Name":            user.Name + "-" + req.ProductData.Name,
				"BillToContactId": user.ContactID,
				"AccountId":       user.AccountID,
				"EffectiveDate":   effectiveDate,
				"Pricebook2Id":    price.PriceBookID,
			}),
		},
		graphRecord{
			ReferenceID: "refAppUsageAssign",
			Record: sobject("AppUsageAssignment", map[string]interface{}{
				"RecordId":     "@{refOrder.id}",
				"AppUsageType": "RevenueLifecycleManagement",
			}),
		},
		graphRecord{
			ReferenceID: "refOrderItem",
			Record: sobject("OrderItem", map[string]interface{}{
				"OrderId":          "@{refOrder.id}",
				"Quantity":         1,
				"PricebookEntryId": price.PriceBookEntryID,
				"Product2Id":       req.ProductID,
				"UnitPrice":        req.TotalPrice,
				"Description":      req.ProductData.Description,
			}),
		},
	)
}

func quoteGraph(user *orderUser, req models.SubmissionRequest, expirationDate string) placeRequest {
	price := req.ProductData.Prices[0]
	return newPlaceRequest(
		graphRecord{
			ReferenceID: "refQuote",
			Record: sobject("Quote", map[string]interface{}{
				"Name":           user.Name + "-" + req.ProductData.Name,
				"ContactId":      user.ContactID,
				"Pricebook2Id":   price.PriceBookID,
				"ExpirationDate": expirationDate,
				"Description":    financingNote(req),
			}),
		},
		graphRecord{
			ReferenceID: "refQuoteLine",
			Record: sobject("QuoteLineItem", map[string]interface{}{
				"QuoteId":          "@{refQuote.id}",
				"Quantity":         1,
				"PricebookEntryId": price.PriceBookEntryID,
				"Product2Id":       req.ProductID,
				"UnitPrice":        req.TotalPrice,
				"Description":      req.ProductData.Description,
			}),
		},
	)
}

// financingNote renders the lease choice for the quote description
func financingNote(req models.SubmissionRequest) string {
	name := catalog.Decode(req.ProductData.Name)
	if req.Financing == nil {
		return name
	}
	f := req.Financing
	return fmt.Sprintf("%s: %d months at %.1f%% APR, %.0f down, %.0f per month",
		name, f.LeaseTerm, f.APR, f.DownPayment, f.MonthlyPayment)
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
