package productclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory/pkg/productclient"
)

type recorded struct {
	method string
	path   string
	auth   string
	ctype  string
	body   string
}

func newServer(t *testing.T, status int, response string) (*httptest.Server, *recorded) {
	t.Helper()

	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*rec = recorded{
			method: r.Method,
			path:   r.URL.Path,
			auth:   r.Header.Get("Authorization"),
			ctype:  r.Header.Get("Content-Type"),
			body:   string(body),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestClient_List(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `[{"_id":"1","name":"Widget","quantity":4,"supplier":"Acme"}]`)
	client := productclient.New(srv.URL+"/", productclient.WithToken("tok"))

	products, err := client.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []productclient.Product{{ID: "1", Name: "Widget", Quantity: 4, Supplier: "Acme"}}, products)
	assert.Equal(t, http.MethodGet, rec.method)
	assert.Equal(t, "/api/products", rec.path)
	assert.Equal(t, "Bearer tok", rec.auth)
}

func TestClient_Create(t *testing.T) {
	srv, rec := newServer(t, http.StatusCreated, `{"_id":"1","name":"Widget","quantity":4}`)
	client := productclient.New(srv.URL)

	product, err := client.Create(context.Background(), productclient.Input{Name: "Widget", Quantity: "4"})
	require.NoError(t, err)
	assert.Equal(t, "1", product.ID)
	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "application/json", rec.ctype)
	assert.JSONEq(t, `{"name":"Widget","quantity":"4","supplier":""}`, rec.body)
	assert.Empty(t, rec.auth)
}

func TestClient_Update(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `{"_id":"abc","name":"Widget","quantity":10}`)
	client := productclient.New(srv.URL)

	product, err := client.Update(context.Background(), "abc", productclient.Input{Name: "Widget", Quantity: "10"})
	require.NoError(t, err)
	assert.Equal(t, 10, product.Quantity)
	assert.Equal(t, http.MethodPut, rec.method)
	assert.Equal(t, "/api/products/abc", rec.path)
}

func TestClient_Delete(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `{"message":"Product deleted"}`)
	client := productclient.New(srv.URL)

	require.NoError(t, client.Delete(context.Background(), "abc"))
	assert.Equal(t, http.MethodDelete, rec.method)
	assert.Equal(t, "/api/products/abc", rec.path)
}

func TestClient_APIError(t *testing.T) {
	srv, _ := newServer(t, http.StatusNotFound, `{"message":"Product not found"}`)
	client := productclient.New(srv.URL)

	err := client.Delete(context.Background(), "abc")
	var apiErr *productclient.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Product not found", apiErr.Message)
}

func TestClient_Unreachable(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `[]`)
	url := srv.URL
	srv.Close()

	_, err := productclient.New(url, productclient.WithTimeout(time.Second)).List(context.Background())
	assert.Error(t, err)
}

func TestClient_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := productclient.New("http://127.0.0.1:1").List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_ExpiredDeadline(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `[]`)
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := productclient.New(srv.URL).List(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, rec.method, "no request is sent once the deadline has passed")
}

func TestInput_JSON(t *testing.T) {
	data, err := json.Marshal(productclient.Input{Name: "Widget", Quantity: "0"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Widget","quantity":"0","supplier":""}`, string(data))
}
