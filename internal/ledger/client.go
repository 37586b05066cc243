// Package ledger implements the HTTP client for the external billing
// provider. Collections are paginated with limit/offset; a page shorter than
// the limit terminates the loop.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/runwayhq/runway/internal/config"
	ledgerdomain "github.com/runwayhq/runway/internal/ledger/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// pageLimit is the provider's hard cap on records per page.
const pageLimit = 100

const dateLayout = "2006-01-02"

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *zap.Logger
}

type Params struct {
	fx.In

	Cfg config.Config
	Log *zap.Logger
}

func NewClient(p Params) *Client {
	return &Client{
		baseURL: strings.TrimRight(p.Cfg.Ledger.BaseURL, "/"),
		token:   p.Cfg.Ledger.AccessToken,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     p.Log.Named("ledger.client"),
	}
}

// ready reports the configuration error surfaced before any remote call.
func (c *Client) ready() error {
	if strings.TrimSpace(c.token) == "" {
		return config.ErrMissingLedgerToken
	}
	return nil
}

type page[T any] struct {
	Data []T `json:"data"`
}

// fetchAll walks a collection page by page until a short page, accumulating
// every record. Pagination is inherently serial: the next offset only exists
// once the previous page arrived.
func fetchAll[T any](ctx context.Context, c *Client, resource string, filters url.Values) ([]T, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	var all []T
	offset := 0
	for {
		query := url.Values{}
		for key, values := range filters {
			for _, value := range values {
				query.Add(key, value)
			}
		}
		query.Set("limit", strconv.Itoa(pageLimit))
		query.Set("offset", strconv.Itoa(offset))

		var batch page[T]
		if err := c.get(ctx, resource, fmt.Sprintf("%s/%s?%s", c.baseURL, resource, query.Encode()), &batch); err != nil {
			return nil, err
		}

		all = append(all, batch.Data...)
		c.log.Debug("fetched page",
			zap.String("resource", resource),
			zap.Int("batch", len(batch.Data)),
			zap.Int("total", len(all)),
			zap.Int("offset", offset),
		)

		if len(batch.Data) < pageLimit {
			return all, nil
		}
		offset += pageLimit
	}
}

func (c *Client) get(ctx context.Context, resource, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("access_token", c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &ledgerdomain.Error{Resource: resource, StatusCode: resp.StatusCode}
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// FetchCustomers lists customers created on or after since. A zero since
// fetches the full collection.
func (c *Client) FetchCustomers(ctx context.Context, since time.Time) ([]ledgerdomain.Customer, error) {
	filters := url.Values{}
	if !since.IsZero() {
		filters.Set("dateCreated[ge]", since.Format(dateLayout))
	}
	return fetchAll[ledgerdomain.Customer](ctx, c, "customers", filters)
}

// FetchSubscriptions lists subscriptions, optionally restricted to one status.
// An empty status returns the provider default set. Cumulative subscriber
// counts need the whole history, so no date filter is applied.
func (c *Client) FetchSubscriptions(ctx context.Context, status ledgerdomain.SubscriptionStatus) ([]ledgerdomain.Subscription, error) {
	filters := url.Values{}
	if status != "" {
		filters.Set("status", string(status))
	}
	return fetchAll[ledgerdomain.Subscription](ctx, c, "subscriptions", filters)
}

// FetchReceivedPayments lists settled payments with a payment date on or
// after since.
func (c *Client) FetchReceivedPayments(ctx context.Context, since time.Time) ([]ledgerdomain.Payment, error) {
	filters := url.Values{}
	filters.Set("status", string(ledgerdomain.PaymentStatusReceived))
	filters.Set("paymentDate[ge]", since.Format(dateLayout))
	return fetchAll[ledgerdomain.Payment](ctx, c, "payments", filters)
}

// FetchOverduePayments lists past-due payments with a due date on or before
// dueOnOrBefore.
func (c *Client) FetchOverduePayments(ctx context.Context, dueOnOrBefore time.Time) ([]ledgerdomain.Payment, error) {
	filters := url.Values{}
	filters.Set("status", string(ledgerdomain.PaymentStatusOverdue))
	filters.Set("dueDate[le]", dueOnOrBefore.Format(dateLayout))
	return fetchAll[ledgerdomain.Payment](ctx, c, "payments", filters)
}

// GetCustomer fetches one customer identity.
func (c *Client) GetCustomer(ctx context.Context, id string) (*ledgerdomain.Customer, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	var customer ledgerdomain.Customer
	if err := c.get(ctx, "customers", fmt.Sprintf("%s/customers/%s", c.baseURL, url.PathEscape(id)), &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// Ping verifies the configured token with a minimal authenticated request.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.ready(); err != nil {
		return err
	}

	var batch page[ledgerdomain.Customer]
	return c.get(ctx, "customers", fmt.Sprintf("%s/customers?limit=1", c.baseURL), &batch)
}

var Module = fx.Module("ledger.client",
	fx.Provide(NewClient),
)
