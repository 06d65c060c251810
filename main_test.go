package main

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory/internal/config"
	"inventory/internal/logger"
	"inventory/pkg/productclient"
	"inventory/pkg/productform"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()

	t.Setenv("STORE_DRIVER", config.DriverMemory)
	t.Setenv("SEED_DEMO_DATA", "true")
	t.Setenv("RABBITMQ_URL", "")
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func TestSetup_FormAgainstServer(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	server, cleanup, err := setup(ctx, cfg, logger.Discard())
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = server.Listener(ln) }()
	t.Cleanup(func() {
		assert.NoError(t, server.Shutdown())
		assert.NoError(t, cleanup(context.Background()))
	})

	client := productclient.New("http://" + ln.Addr().String())

	products, err := client.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "Laptop", products[0].Name)

	form := productform.New(client, products)

	form.SetName("Widget")
	form.SetQuantity("4")
	form.SetSupplier("Acme")
	created, err := form.Submit(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 4, created.Quantity)
	require.Len(t, form.Products(), 4)

	form.Edit(created)
	form.SetQuantity("10")
	updated, err := form.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, updated.Quantity)
	assert.Equal(t, 10, form.Products()[3].Quantity)

	require.NoError(t, client.Delete(ctx, created.ID))

	// Saving an edit of a deleted product fails and keeps the form as is.
	form.Edit(updated)
	form.SetName("Gone")
	_, err = form.Submit(ctx)
	assert.ErrorIs(t, err, productform.ErrSaveFailed)
	assert.Equal(t, "Gone", form.Values().Name)

	// An empty quantity fails the store schema on create.
	form.Cancel()
	form.SetName("No quantity")
	form.SetQuantity("")
	_, err = form.Submit(ctx)
	assert.ErrorIs(t, err, productform.ErrSaveFailed)

	remaining, err := client.List(ctx)
	require.NoError(t, err)
	assert.Len(t, remaining, 3)
}

func TestSetup_BadRabbitMQ(t *testing.T) {
	cfg := testConfig(t)
	cfg.RabbitMQ.URL = "not-a-url"

	_, _, err := setup(context.Background(), cfg, logger.Discard())
	assert.Error(t, err)
}
