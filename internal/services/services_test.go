package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/catalog"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/commerce"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/configurator"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/models"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProduct(id string) *catalog.Product {
	return &catalog.Product{
		ID:     id,
		Name:   "Aurora GT",
		Prices: []catalog.Price{{Price: 20000, IsDefault: true, PriceBookID: "01s", PriceBookEntryID: "01u"}},
		AttributeCategories: []catalog.AttributeCategory{{
			Code: "EXT",
			Name: "Exterior",
			Records: []catalog.AttributeRecord{{
				ID:           "attr-colour",
				Name:         catalog.ColourAttribute,
				DefaultValue: "BLK",
				AttributePickList: &catalog.AttributePickList{Values: []catalog.PickListValue{
					{Code: "BLK", DisplayValue: "Solid Black"},
					{Code: "WHT", DisplayValue: "Pearl White"},
				}},
			}},
		}},
	}
}

var errCatalogDown = errors.New("catalog unavailable")

type stubFetcher struct{}

func (stubFetcher) FetchCatalog(ctx context.Context, productID string) (*catalog.Product, error) {
	if productID == "missing" {
		return nil, errCatalogDown
	}
	return testProduct(productID), nil
}

type recordingMetrics struct {
	mu          sync.Mutex
	sessions    map[string]int
	loadFails   int
	submissions map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{sessions: map[string]int{}, submissions: map[string]int{}}
}

func (m *recordingMetrics) RegisterSessionCreated(ctx context.Context, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[status]++
}

func (m *recordingMetrics) RegisterCatalogLoadFailure(ctx context.Context, errorMessage string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadFails++
}

func (m *recordingMetrics) RegisterSubmission(ctx context.Context, kind, outcome string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submissions[kind+"/"+outcome]++
}

func newTestSessionService(t *testing.T, metrics SessionMetrics) *SessionService {
	t.Helper()
	s := NewSessionService(stubFetcher{}, time.Minute, time.Minute, metrics)
	t.Cleanup(s.Close)
	return s
}

func TestSessionServiceCreateAndView(t *testing.T) {
	metrics := newRecordingMetrics()
	s := newTestSessionService(t, metrics)

	id, err := s.Create(context.Background(), "01tA")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	view, err := s.View(id)
	require.NoError(t, err)

	assert.Equal(t, configurator.StatusReady, view.Status)
	assert.Equal(t, "BLK", view.SelectedAttributes[catalog.ColourAttribute])
	assert.Equal(t, 20000.0, view.BasePrice)
	assert.Equal(t, 21000.0, view.TotalPrice, "non-white default colour carries the surcharge")
	assert.Equal(t, configurator.SidebarEstimate(21000), view.MonthlyEstimate)
	assert.Equal(t, []configurator.StepKind{configurator.StepModel, configurator.StepColor, configurator.StepSummary},
		configurator.Plan{Steps: view.Steps}.Kinds())
	require.NotNil(t, view.Summary)
	assert.Len(t, view.LeaseTerms, 4)
	assert.True(t, view.ExpiresAt.After(time.Now()))
	assert.Equal(t, 1, metrics.sessions["ready"])
}

func TestSessionServiceCreateLoadFailure(t *testing.T) {
	metrics := newRecordingMetrics()
	s := newTestSessionService(t, metrics)

	id, err := s.Create(context.Background(), "missing")

	var loadErr *configurator.CatalogLoadError
	require.ErrorAs(t, err, &loadErr)
	require.NotEmpty(t, id, "failed sessions stay readable")

	view, err := s.View(id)
	require.NoError(t, err)
	assert.Equal(t, configurator.StatusError, view.Status)
	assert.Contains(t, view.Error, "failed to fetch product data for missing")
	assert.Empty(t, view.Steps)
	assert.Nil(t, view.Summary)
	assert.Equal(t, 1, metrics.sessions["error"])
	assert.Equal(t, 1, metrics.loadFails)
}

func TestSessionServiceRequiresProduct(t *testing.T) {
	s := newTestSessionService(t, nil)
	_, err := s.Create(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrProductRequired)
}

func TestSessionServiceMutationsAndDelete(t *testing.T) {
	s := newTestSessionService(t, nil)
	id, err := s.Create(context.Background(), "01tA")
	require.NoError(t, err)

	err = s.With(id, func(session *configurator.Session) error {
		return session.UpdateAttribute(catalog.ColourAttribute, "WHT")
	})
	require.NoError(t, err)

	view, err := s.View(id)
	require.NoError(t, err)
	assert.Equal(t, 20000.0, view.TotalPrice)

	err = s.With(id, func(session *configurator.Session) error {
		return session.UpdateAttribute("Sunroof", "YES")
	})
	assert.ErrorIs(t, err, configurator.ErrUnknownAttribute)

	require.NoError(t, s.Delete(id))
	assert.ErrorIs(t, s.Delete(id), ErrSessionNotFound)
	_, err = s.View(id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 0, s.GetStats()["total_session_locks"], "eviction forgets the session lock")
}

func TestSessionServiceSerialisesAccess(t *testing.T) {
	s := newTestSessionService(t, nil)
	id, err := s.Create(context.Background(), "01tA")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			code := "BLK"
			if i%2 == 0 {
				code = "WHT"
			}
			_ = s.With(id, func(session *configurator.Session) error {
				session.Navigator().Next()
				return session.UpdateAttribute(catalog.ColourAttribute, code)
			})
		}(i)
	}
	wg.Wait()

	view, err := s.View(id)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, view.TotalPrice, view.BasePrice)
	assert.Equal(t, len(view.Steps)-1, view.CurrentStep)
}

func TestSessionServiceExpiry(t *testing.T) {
	s := NewSessionService(stubFetcher{}, 20*time.Millisecond, time.Hour, nil)
	defer s.Close()

	id, err := s.Create(context.Background(), "01tA")
	require.NoError(t, err)
	assert.Equal(t, 1, s.Count())

	time.Sleep(40 * time.Millisecond)

	_, err = s.View(id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionServiceInspectSharesLock(t *testing.T) {
	s := newTestSessionService(t, nil)
	id, err := s.Create(context.Background(), "01tA")
	require.NoError(t, err)

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- s.Inspect(id, func(*configurator.Session) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	viewed := make(chan error, 1)
	go func() {
		_, err := s.View(id)
		viewed <- err
	}()

	select {
	case err := <-viewed:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("view blocked behind another reader")
	}
	close(release)
	require.NoError(t, <-done)

	assert.ErrorIs(t, s.Inspect("nope", func(*configurator.Session) error { return nil }), ErrSessionNotFound)
}

func TestBuildSessionViewOptions(t *testing.T) {
	raw, err := os.ReadFile("../catalog/testdata/product.json")
	require.NoError(t, err)
	var detail models.ProductDetailResponse
	require.NoError(t, json.Unmarshal(raw, &detail))

	session := configurator.NewSession(detail.Result.ID, configurator.CatalogFetcherFunc(
		func(ctx context.Context, productID string) (*catalog.Product, error) {
			return detail.Result, nil
		}))
	require.NoError(t, session.Load(context.Background()))

	view := BuildSessionView("sess-1", session, time.Now())
	require.Len(t, view.Options, len(view.Steps))

	var colors, packages *configurator.StepOptions
	for i := range view.Options {
		switch view.Options[i].Kind {
		case configurator.StepColor:
			colors = &view.Options[i]
		case configurator.StepPackages:
			packages = &view.Options[i]
		}
	}

	require.NotNil(t, colors)
	require.Len(t, colors.Colors, 2)
	assert.Equal(t, "Solid Black", colors.Colors[0].DisplayValue)
	assert.True(t, colors.Colors[0].Selected)
	assert.Equal(t, 0.0, colors.Colors[1].Price)

	require.NotNil(t, packages)
	assert.Equal(t, "grp-pkg", packages.GroupID)
	require.Len(t, packages.Components, 1)
	tech := packages.Components[0]
	assert.Equal(t, "pkg-tech", tech.ID)
	assert.Equal(t, 3200.0, tech.Price)
	assert.False(t, tech.Selected)
	assert.Equal(t, []string{"Heads-up display", "360 camera", "Adaptive cruise", "Premium audio"}, tech.Features)

	encoded, err := json.Marshal(view)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"features":["Heads-up display"`)
	assert.Contains(t, string(encoded), `"displayValue":"Pearl White"`)
}

type stubSubmitter struct {
	err   error
	calls []commerce.SubmissionKind
}

func (s *stubSubmitter) PlaceOrder(ctx context.Context, req models.SubmissionRequest) (*commerce.SubmissionResult, error) {
	s.calls = append(s.calls, commerce.KindOrder)
	if s.err != nil {
		return nil, s.err
	}
	return &commerce.SubmissionResult{Kind: commerce.KindOrder, ID: "801ORD"}, nil
}

func (s *stubSubmitter) PlaceQuote(ctx context.Context, req models.SubmissionRequest) (*commerce.SubmissionResult, error) {
	s.calls = append(s.calls, commerce.KindQuote)
	if s.err != nil {
		return nil, s.err
	}
	return &commerce.SubmissionResult{Kind: commerce.KindQuote, ID: "0Q0QUO"}, nil
}

type memoryLedger struct {
	records []models.SubmissionRecord
	err     error
}

func (l *memoryLedger) Record(ctx context.Context, rec models.SubmissionRecord) (int64, error) {
	if l.err != nil {
		return 0, l.err
	}
	l.records = append(l.records, rec)
	return int64(len(l.records)), nil
}

func (l *memoryLedger) List(ctx context.Context, opts storage.ListOptions) ([]models.SubmissionRecord, error) {
	return l.records, nil
}

func testRequest() models.SubmissionRequest {
	return models.SubmissionRequest{
		Configuration: configurator.Configuration{
			ProductID:   "01tA",
			ProductData: testProduct("01tA"),
			BasePrice:   20000,
			TotalPrice:  21000,
		},
		Financing: &configurator.Financing{LeaseTerm: 36, APR: 3.5, DownPayment: 4200, MonthlyPayment: 492},
	}
}

func TestSubmissionServiceRecordsSuccess(t *testing.T) {
	submitter := &stubSubmitter{}
	ledger := &memoryLedger{}
	metrics := newRecordingMetrics()
	s := NewSubmissionService(submitter, ledger, metrics)

	result, err := s.Submit(context.Background(), commerce.KindQuote, "sess-1", testRequest())
	require.NoError(t, err)
	assert.Equal(t, "0Q0QUO", result.ID)
	assert.Equal(t, []commerce.SubmissionKind{commerce.KindQuote}, submitter.calls)

	require.Len(t, ledger.records, 1)
	rec := ledger.records[0]
	assert.NotEmpty(t, rec.CorrelationID)
	assert.Equal(t, "quote", rec.Kind)
	assert.Equal(t, "sess-1", rec.SessionID)
	assert.Equal(t, "Aurora GT", rec.ProductName)
	assert.Equal(t, 36, rec.LeaseTerm)
	assert.Equal(t, storage.StatusSucceeded, rec.Status)
	assert.Equal(t, "0Q0QUO", rec.ExternalID)
	assert.Equal(t, 1, metrics.submissions["quote/succeeded"])
}

func TestSubmissionServiceRecordsFailure(t *testing.T) {
	timeout := &commerce.SubmissionError{Kind: "order", Err: fmt.Errorf("%w after 30s", commerce.ErrSubmissionTimeout)}
	ledger := &memoryLedger{}
	metrics := newRecordingMetrics()
	s := NewSubmissionService(&stubSubmitter{err: timeout}, ledger, metrics)

	_, err := s.Submit(context.Background(), commerce.KindOrder, "", testRequest())

	assert.ErrorIs(t, err, commerce.ErrSubmissionTimeout)
	require.Len(t, ledger.records, 1)
	assert.Equal(t, storage.StatusFailed, ledger.records[0].Status)
	assert.Contains(t, ledger.records[0].Error, "submission timed out")
	assert.Equal(t, 1, metrics.submissions["order/failed"])
}

func TestSubmissionServiceLedgerFailureIsNotFatal(t *testing.T) {
	s := NewSubmissionService(&stubSubmitter{}, &memoryLedger{err: errors.New("disk full")}, nil)

	result, err := s.Submit(context.Background(), commerce.KindOrder, "", testRequest())
	require.NoError(t, err)
	assert.Equal(t, "801ORD", result.ID)
}

func TestSubmissionServiceWithoutLedger(t *testing.T) {
	s := NewSubmissionService(&stubSubmitter{}, nil, nil)

	records, err := s.List(context.Background(), storage.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, records)
}

type stubCatalogClient struct {
	products []catalog.Product
	err      error
}

func (c stubCatalogClient) ListProducts(ctx context.Context, req models.ProductListRequest) ([]catalog.Product, error) {
	return c.products, c.err
}

func (c stubCatalogClient) Product(ctx context.Context, productID string) (*catalog.Product, error) {
	for i := range c.products {
		if c.products[i].ID == productID {
			return &c.products[i], nil
		}
	}
	return nil, errCatalogDown
}

func TestShowcase(t *testing.T) {
	client := stubCatalogClient{products: []catalog.Product{
		{
			ID:          "01tA",
			Name:        "Aurora &amp; Co GT",
			Description: "<p>Grand <b>tourer</b></p>",
			ProductCode: "SEDAN",
			DisplayURL:  "https://cdn.example.com/a.png?w=800&amp;h=600",
			Prices:      []catalog.Price{{Price: 40000, IsDefault: true}},
			Categories:  []catalog.Category{{Name: "Dream Lease"}},
		},
		{ID: "01tB", Name: "Fleet Van", Categories: []catalog.Category{{Name: "Fleet"}}},
		{ID: "01tC", Name: "Comet", Categories: []catalog.Category{{Name: "Dream Lease"}}},
	}}
	s := NewCatalogService(client, "Dream Lease")

	resp, err := s.Showcase(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Dream Lease", resp.Category)
	require.Equal(t, 2, resp.Count)

	first := resp.Products[0]
	assert.Equal(t, "Aurora & Co GT", first.Name)
	assert.Equal(t, "Grand tourer", first.Description)
	assert.Equal(t, "sedan", first.Type)
	assert.Equal(t, "https://cdn.example.com/a.png?w=800&h=600", first.Image)
	assert.Equal(t, 40000.0, first.Price)
	assert.Equal(t, 754.84, first.MonthlyPrice)

	second := resp.Products[1]
	assert.Equal(t, defaultShowcaseDescription, second.Description)
	assert.Equal(t, "vehicle", second.Type)
	assert.Equal(t, defaultShowcaseImages[1], second.Image)
	assert.Equal(t, 0.0, second.MonthlyPrice)
}

func TestShowcaseUpstreamError(t *testing.T) {
	s := NewCatalogService(stubCatalogClient{err: errCatalogDown}, "Dream Lease")
	_, err := s.Showcase(context.Background())
	assert.ErrorIs(t, err, errCatalogDown)
}
