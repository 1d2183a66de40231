package dataapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"orderdesk/internal/logger"
	"orderdesk/internal/metrics"

	"github.com/99designs/gqlgen/graphql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// MockRoundTripper lets a test answer HTTP requests in-process.
type MockRoundTripper func(req *http.Request) (*http.Response, error)

func (f MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

func newTestClient(t *testing.T, rt MockRoundTripper) *client {
	t.Helper()
	c, err := NewClient("https://data.example.test/graphql", "tok", time.Second)
	require.NoError(t, err)
	cl := c.(*client)
	cl.httpClient.Transport = rt
	return cl
}

func decodeParams(t *testing.T, req *http.Request) graphql.RawParams {
	t.Helper()
	var params graphql.RawParams
	require.NoError(t, json.NewDecoder(req.Body).Decode(&params))
	return params
}

func TestValidateOperations(t *testing.T) {
	assert.NoError(t, ValidateOperations())
}

func TestClient_CreateOrder(t *testing.T) {
	input := CreateOrderInput{
		CustomerID:      7,
		ShippingAddress: AddressInput{Address: "1 Main St"},
		BillingAddress:  AddressInput{Address: "1 Main St"},
		OrderItems: []OrderItemInput{
			{ProductID: intPtr(3), Quantity: 2},
		},
		ShippingFees: Number(decimal.RequireFromString("10.50")),
		TaxRate:      Number(decimal.NewFromInt(18)),
		Tags:         []string{"vip"},
	}

	t.Run("Success", func(t *testing.T) {
		c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, http.MethodPost, req.Method)
			assert.Equal(t, "Bearer tok", req.Header.Get("Authorization"))
			assert.Equal(t, "req-1", req.Header.Get(logger.RequestIDHeader))

			params := decodeParams(t, req)
			assert.Equal(t, "CreateOrder", params.OperationName)
			assert.Contains(t, params.Query, "createOrder(input: $input)")

			in := params.Variables["input"].(map[string]any)
			assert.Equal(t, json.Number("10.5"), toNumber(in["shippingFees"]))
			assert.Equal(t, json.Number("7"), toNumber(in["customerId"]))
			items := in["orderItems"].([]any)
			assert.Len(t, items, 1)

			return jsonResponse(http.StatusOK, `{"data":{"createOrder":{"id":"101","total":246.00}}}`), nil
		})

		ctx := logger.WithRequestID(context.Background(), "req-1")
		got, err := c.CreateOrder(ctx, input)

		require.NoError(t, err)
		assert.Equal(t, ID("101"), got.ID)
		assert.True(t, got.Total.Equal(decimal.NewFromInt(246)))
	})

	t.Run("NumericID", func(t *testing.T) {
		c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{"data":{"createOrder":{"id":101,"total":1}}}`), nil
		})

		got, err := c.CreateOrder(context.Background(), input)

		require.NoError(t, err)
		assert.Equal(t, "101", got.ID.String())
	})

	t.Run("GraphQLError", func(t *testing.T) {
		c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{"errors":[{"message":"customer not found"}],"data":null}`), nil
		})

		_, err := c.CreateOrder(context.Background(), input)

		require.Error(t, err)
		var list gqlerror.List
		assert.True(t, errors.As(err, &list))
		assert.Contains(t, err.Error(), "customer not found")
	})

	t.Run("APIError", func(t *testing.T) {
		c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusBadGateway, `upstream down`), nil
		})

		_, err := c.CreateOrder(context.Background(), input)

		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
		assert.Equal(t, "upstream down", statusErr.Body)
	})

	t.Run("NetworkError", func(t *testing.T) {
		c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		})

		_, err := c.CreateOrder(context.Background(), input)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("InvalidJSONResponse", func(t *testing.T) {
		c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{invalid-json`), nil
		})

		_, err := c.CreateOrder(context.Background(), input)
		assert.Error(t, err)
	})

	t.Run("NullPayload", func(t *testing.T) {
		c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{"data":{"createOrder":null}}`), nil
		})

		_, err := c.CreateOrder(context.Background(), input)
		assert.ErrorIs(t, err, ErrEmptyData)
	})
}

func TestClient_CreateCustomer(t *testing.T) {
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		params := decodeParams(t, req)
		assert.Equal(t, "CreateCustomer", params.OperationName)
		in := params.Variables["input"].(map[string]any)
		assert.Equal(t, "Ana", in["name"])

		return jsonResponse(http.StatusOK, `{"data":{"createCustomer":{"id":"9","name":"Ana","email":"ana@example.com","phone":"0812","address":"Jl. Mawar 1"}}}`), nil
	})

	got, err := c.CreateCustomer(context.Background(), CreateCustomerInput{Name: "Ana", Email: "ana@example.com", Phone: "0812", Address: "Jl. Mawar 1"})

	require.NoError(t, err)
	assert.Equal(t, ID("9"), got.ID)
	assert.Equal(t, "ana@example.com", *got.Email)
}

func TestClient_Search(t *testing.T) {
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		params := decodeParams(t, req)
		assert.Equal(t, "mug", params.Variables["searchTerm"])

		switch params.OperationName {
		case "SearchProducts":
			return jsonResponse(http.StatusOK, `{"data":{"searchProducts":[{"id":"1","name":"Mug","description":null,"price":12.5}]}}`), nil
		case "SearchCustomers":
			return jsonResponse(http.StatusOK, `{"data":{"searchCustomers":[]}}`), nil
		}
		return jsonResponse(http.StatusBadRequest, "unexpected"), nil
	})

	products, err := c.SearchProducts(context.Background(), "mug")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "12.5", products[0].Price.String())
	assert.Nil(t, products[0].Description)

	customers, err := c.SearchCustomers(context.Background(), "mug")
	require.NoError(t, err)
	assert.Empty(t, customers)
}

func TestClient_StoreSettings(t *testing.T) {
	t.Run("Configured", func(t *testing.T) {
		c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{"data":{"storeSettings":{"taxIncludedInPrice":false}}}`), nil
		})

		got, err := c.StoreSettings(context.Background())
		require.NoError(t, err)
		assert.False(t, got.TaxIncludedInPrice)
	})

	t.Run("MissingDefaultsToIncluded", func(t *testing.T) {
		c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{"data":{"storeSettings":null}}`), nil
		})

		got, err := c.StoreSettings(context.Background())
		require.NoError(t, err)
		assert.True(t, got.TaxIncludedInPrice)
	})
}

func TestClient_Orders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var params graphql.RawParams
		_ = json.NewDecoder(r.Body).Decode(&params)

		w.Header().Set("Content-Type", "application/json")
		switch params.OperationName {
		case "GetOrders":
			_, _ = io.WriteString(w, `{"data":{"orders":{"edges":[
				{"node":{"id":"1","status":"PENDING","createdAt":"2024-01-01","customer":{"firstName":"Ana","lastName":"Putri","email":"a@x"},"total":100}},
				{"node":{"id":"2","status":"PAID","createdAt":"2024-01-02","customer":null,"total":5.5}}
			]}}}`)
		case "OrderDetails":
			if params.Variables["id"] == float64(1) {
				_, _ = io.WriteString(w, `{"data":{"order":{"id":"1","status":"PENDING","createdAt":"2024-01-01","total":100,
					"discount":0,"shippingFees":10,"taxRate":18,"notes":"n","customer":{"firstName":"Ana","lastName":null,"email":"a@x","phoneNumber":"1"},
					"orderItems":[{"product":{"name":"Mug"},"quantity":2,"price":45}],
					"shippingAddress":{"address":"Jl. Mawar 1","landmark":null,"city":"Bandung","state":null,"pincode":"40111","phone":"1"}}}}`)
				return
			}
			_, _ = io.WriteString(w, `{"data":{"order":null}}`)
		}
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "", time.Second)
	require.NoError(t, err)

	orders, err := c.Orders(context.Background(), 1, 20)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "Ana Putri", orders[0].Customer.FullName())
	assert.Equal(t, "", orders[1].Customer.FullName())

	detail, err := c.Order(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Mug", detail.OrderItems[0].Product.Name)
	assert.Equal(t, "Bandung", *detail.ShippingAddress.City)
	assert.True(t, detail.TaxRate.Equal(decimal.NewFromInt(18)))

	_, err = c.Order(context.Background(), 2)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestID_UnmarshalJSON(t *testing.T) {
	var ids []ID
	require.NoError(t, json.Unmarshal([]byte(`["a1", 42, null]`), &ids))
	assert.Equal(t, []ID{"a1", "42", ""}, ids)
}

func intPtr(i int) *int { return &i }

func toNumber(v any) json.Number {
	switch n := v.(type) {
	case float64:
		return json.Number(decimal.NewFromFloat(n).String())
	case json.Number:
		return n
	}
	return ""
}

func TestClient_RecordsCallMetrics(t *testing.T) {
	before := metrics.Default().Snapshot()
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		if decodeParams(t, req).OperationName == opStoreSettings.name {
			return jsonResponse(http.StatusOK, `{"data":{"storeSettings":null}}`), nil
		}
		return nil, errors.New("connection reset")
	})

	_, err := c.StoreSettings(context.Background())
	require.NoError(t, err)
	_, err = c.SearchProducts(context.Background(), "kettle")
	require.Error(t, err)

	after := metrics.Default().Snapshot()
	assert.GreaterOrEqual(t, after.DataAPICalls-before.DataAPICalls, uint64(2))
	assert.GreaterOrEqual(t, after.DataAPIErrors-before.DataAPIErrors, uint64(1))
}
