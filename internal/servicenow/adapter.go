package servicenow

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/pal-assistant/internal/domain"
)

const tableQuery = "sysparm_query=state!=6^state!=7&sysparm_limit=10"

var tableNames = map[domain.TicketCategory]string{
	domain.TicketCategoryIncident: "incident",
	domain.TicketCategoryRequest:  "sc_request",
	domain.TicketCategoryChange:   "change_request",
}

// Options configures an Adapter.
type Options struct {
	Credentials        domain.Credentials
	ProxyURL           string
	CustomIncidentsURL string
	HTTPClient         *http.Client
	Now                func() time.Time
}

// Adapter reads tickets from a ServiceNow instance and degrades to built-in
// records whenever the instance is unconfigured or unreachable. None of its
// fetch operations return errors.
type Adapter struct {
	mu                 sync.RWMutex
	creds              domain.Credentials
	proxyURL           string
	customIncidentsURL string
	client             *http.Client
	now                func() time.Time
	logger             *zap.Logger
}

// NewAdapter constructs an adapter with the initial credentials in opts.
func NewAdapter(opts Options, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Adapter{
		creds:              opts.Credentials,
		proxyURL:           opts.ProxyURL,
		customIncidentsURL: opts.CustomIncidentsURL,
		client:             client,
		now:                now,
		logger:             logger,
	}
}

// SetConfig replaces the live credentials used by subsequent fetches.
func (a *Adapter) SetConfig(creds domain.Credentials) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.creds = creds
}

// Config returns the live credentials.
func (a *Adapter) Config() domain.Credentials {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.creds
}

// IsConfigured reports whether both credential fields are set.
func (a *Adapter) IsConfigured() bool {
	return a.Config().Complete()
}

// FetchIncidents returns open incidents.
func (a *Adapter) FetchIncidents(ctx context.Context) []domain.Ticket {
	return a.fetchCategory(ctx, domain.TicketCategoryIncident)
}

// FetchRequests returns open service requests.
func (a *Adapter) FetchRequests(ctx context.Context) []domain.Ticket {
	return a.fetchCategory(ctx, domain.TicketCategoryRequest)
}

// FetchChanges returns open change requests.
func (a *Adapter) FetchChanges(ctx context.Context) []domain.Ticket {
	return a.fetchCategory(ctx, domain.TicketCategoryChange)
}

// FetchAllTickets reads the three categories concurrently and concatenates
// them as incidents, requests, changes.
func (a *Adapter) FetchAllTickets(ctx context.Context) []domain.Ticket {
	fetchers := []func(context.Context) []domain.Ticket{
		a.FetchIncidents,
		a.FetchRequests,
		a.FetchChanges,
	}
	return fanOut(ctx, fetchers)
}

// FetchDashboard mirrors the dashboard refresh: incidents from the custom
// assignment feed, requests and changes from the instance.
func (a *Adapter) FetchDashboard(ctx context.Context, userID, token string) []domain.Ticket {
	fetchers := []func(context.Context) []domain.Ticket{
		func(ctx context.Context) []domain.Ticket { return a.FetchCustomIncidents(ctx, userID, token) },
		a.FetchRequests,
		a.FetchChanges,
	}
	return fanOut(ctx, fetchers)
}

func fanOut(ctx context.Context, fetchers []func(context.Context) []domain.Ticket) []domain.Ticket {
	results := make([][]domain.Ticket, len(fetchers))
	var g errgroup.Group
	for i, fetch := range fetchers {
		i, fetch := i, fetch
		g.Go(func() error {
			results[i] = fetch(ctx)
			return nil
		})
	}
	_ = g.Wait()

	var all []domain.Ticket
	for _, batch := range results {
		all = append(all, batch...)
	}
	if all == nil {
		all = []domain.Ticket{}
	}
	return all
}

func (a *Adapter) fetchCategory(ctx context.Context, category domain.TicketCategory) []domain.Ticket {
	creds := a.Config()
	if !creds.Complete() {
		return FallbackTickets(category)
	}

	endpoint := fmt.Sprintf("%s/api/now/table/%s?%s", strings.TrimRight(creds.BaseURL, "/"), tableNames[category], tableQuery)
	var body tableResponse
	if err := a.getJSON(ctx, endpoint, "Bearer "+creds.BearerToken, &body); err != nil {
		a.logger.Warn("servicenow fetch failed; serving fallback tickets",
			zap.String("category", string(category)),
			zap.Error(err))
		return FallbackTickets(category)
	}
	if body.Result == nil {
		a.logger.Warn("servicenow response missing result; serving fallback tickets",
			zap.String("category", string(category)))
		return FallbackTickets(category)
	}
	return toTickets(body.Result, category, a.now())
}

// FetchCustomIncidents reads incidents assigned to userID from the assignment
// feed through the CORS relay. Failures yield an empty list.
func (a *Adapter) FetchCustomIncidents(ctx context.Context, userID, token string) []domain.Ticket {
	target, err := url.Parse(a.customIncidentsURL)
	if err != nil {
		a.logger.Warn("invalid custom incidents url", zap.Error(err))
		return []domain.Ticket{}
	}
	q := target.Query()
	q.Set("userId", userID)
	target.RawQuery = q.Encode()

	proxied, err := url.Parse(a.proxyURL)
	if err != nil {
		a.logger.Warn("invalid proxy url", zap.Error(err))
		return []domain.Ticket{}
	}
	pq := proxied.Query()
	pq.Set("url", target.String())
	proxied.RawQuery = pq.Encode()

	var body customIncidentResponse
	if err := a.getJSON(ctx, proxied.String(), "Bearer "+token, &body); err != nil {
		a.logger.Warn("custom incidents fetch failed", zap.String("user_id", userID), zap.Error(err))
		return []domain.Ticket{}
	}
	return customToTickets(body.Incidents)
}

func (a *Adapter) getJSON(ctx context.Context, endpoint, authorization string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", authorization)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("servicenow api error: %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
