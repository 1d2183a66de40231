package dataapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"orderdesk/internal/logger"
	"orderdesk/internal/metrics"

	"github.com/99designs/gqlgen/graphql"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// maxErrorBody caps how much of a failed response body ends up in errors and logs.
const maxErrorBody = 2048

// Client is the order desk's view of the remote data API.
type Client interface {
	CreateCustomer(ctx context.Context, input CreateCustomerInput) (*Customer, error)
	CreateOrder(ctx context.Context, input CreateOrderInput) (*CreatedOrder, error)
	SearchProducts(ctx context.Context, term string) ([]Product, error)
	SearchCustomers(ctx context.Context, term string) ([]Customer, error)
	StoreSettings(ctx context.Context) (*StoreSettings, error)
	Orders(ctx context.Context, page, perPage int) ([]OrderSummary, error)
	Order(ctx context.Context, id int) (*Order, error)
}

type client struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// NewClient returns a Client posting GraphQL operations to endpoint. timeout bounds each
// call; there is no retry.
func NewClient(endpoint, token string, timeout time.Duration) (Client, error) {
	if err := ValidateOperations(); err != nil {
		return nil, err
	}
	if token == "" {
		logger.L().Warn("data api token is empty, requests are sent unauthenticated")
	}

	return &client{
		endpoint: endpoint,
		token:    token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func (c *client) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*Customer, error) {
	var data struct {
		CreateCustomer *Customer `json:"createCustomer"`
	}
	if err := c.do(ctx, opCreateCustomer, map[string]any{"input": input}, &data); err != nil {
		return nil, err
	}
	if data.CreateCustomer == nil {
		return nil, errors.Wrap(ErrEmptyData, opCreateCustomer.name)
	}
	return data.CreateCustomer, nil
}

func (c *client) CreateOrder(ctx context.Context, input CreateOrderInput) (*CreatedOrder, error) {
	var data struct {
		CreateOrder *CreatedOrder `json:"createOrder"`
	}
	if err := c.do(ctx, opCreateOrder, map[string]any{"input": input}, &data); err != nil {
		return nil, err
	}
	if data.CreateOrder == nil {
		return nil, errors.Wrap(ErrEmptyData, opCreateOrder.name)
	}
	return data.CreateOrder, nil
}

func (c *client) SearchProducts(ctx context.Context, term string) ([]Product, error) {
	var data struct {
		SearchProducts []Product `json:"searchProducts"`
	}
	if err := c.do(ctx, opSearchProducts, map[string]any{"searchTerm": term}, &data); err != nil {
		return nil, err
	}
	return data.SearchProducts, nil
}

func (c *client) SearchCustomers(ctx context.Context, term string) ([]Customer, error) {
	var data struct {
		SearchCustomers []Customer `json:"searchCustomers"`
	}
	if err := c.do(ctx, opSearchCustomers, map[string]any{"searchTerm": term}, &data); err != nil {
		return nil, err
	}
	return data.SearchCustomers, nil
}

// StoreSettings falls back to tax-inclusive pricing when the store has no settings row.
func (c *client) StoreSettings(ctx context.Context) (*StoreSettings, error) {
	var data struct {
		StoreSettings *StoreSettings `json:"storeSettings"`
	}
	if err := c.do(ctx, opStoreSettings, nil, &data); err != nil {
		return nil, err
	}
	if data.StoreSettings == nil {
		return &StoreSettings{TaxIncludedInPrice: true}, nil
	}
	return data.StoreSettings, nil
}

func (c *client) Orders(ctx context.Context, page, perPage int) ([]OrderSummary, error) {
	var data struct {
		Orders struct {
			Edges []struct {
				Node OrderSummary `json:"node"`
			} `json:"edges"`
		} `json:"orders"`
	}
	vars := map[string]any{"page": page, "perPage": perPage}
	if err := c.do(ctx, opOrders, vars, &data); err != nil {
		return nil, err
	}

	out := make([]OrderSummary, 0, len(data.Orders.Edges))
	for _, e := range data.Orders.Edges {
		out = append(out, e.Node)
	}
	return out, nil
}

func (c *client) Order(ctx context.Context, id int) (*Order, error) {
	var data struct {
		Order *Order `json:"order"`
	}
	if err := c.do(ctx, opOrderDetails, map[string]any{"id": id}, &data); err != nil {
		return nil, err
	}
	if data.Order == nil {
		return nil, ErrOrderNotFound
	}
	return data.Order, nil
}

// do posts one operation and decodes its data into out. Transport failures, non-2xx
// statuses, undecodable bodies and GraphQL errors all come back as errors.
func (c *client) do(ctx context.Context, op operation, vars map[string]any, out any) (err error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "dataapi"),
		zap.String("operation", op.name),
	)

	body, err := json.Marshal(graphql.RawParams{
		Query:         strings.TrimSpace(op.query),
		OperationName: op.name,
		Variables:     vars,
	})
	if err != nil {
		log.Error("failed to marshal request", zap.Error(err))
		return errors.Wrap(err, "marshal "+op.name)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		log.Error("failed creating request", zap.Error(err))
		return errors.Wrap(err, "build "+op.name)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if reqID := logger.RequestIDFrom(ctx); reqID != "" {
		req.Header.Set(logger.RequestIDHeader, reqID)
	}

	timer := metrics.StartTimer()
	defer func() { metrics.Default().ObserveDataAPI(timer.Duration(), err) }()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("data api request failed", zap.Error(err))
		return errors.Wrap(err, op.name)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("failed to read response body", zap.Error(err))
		return errors.Wrap(err, "read "+op.name)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := truncate(raw, maxErrorBody)
		log.Error("data api returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.String("response", snippet),
		)
		return errors.Wrap(&StatusError{StatusCode: resp.StatusCode, Body: snippet}, op.name)
	}

	var envelope graphql.Response
	if err := json.Unmarshal(raw, &envelope); err != nil {
		log.Error("failed decoding response envelope", zap.Error(err))
		return errors.Wrap(err, "decode "+op.name)
	}
	if len(envelope.Errors) > 0 {
		log.Warn("data api returned graphql errors", zap.String("errors", envelope.Errors.Error()))
		return errors.Wrap(envelope.Errors, op.name)
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return errors.Wrap(ErrEmptyData, op.name)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		log.Error("failed decoding response data", zap.Error(err))
		return errors.Wrap(err, "decode "+op.name)
	}

	log.Debug("data api call done", zap.Duration("duration", timer.Duration()))
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
