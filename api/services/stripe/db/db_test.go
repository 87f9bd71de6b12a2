package db_test

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripe "github.com/stripe/stripe-go/v82"

	config "github.com/tbeaudouin05/stripe-checkout-subscription/api/config"
	database "github.com/tbeaudouin05/stripe-checkout-subscription/api/database"
	stripedb "github.com/tbeaudouin05/stripe-checkout-subscription/api/services/stripe/db"
)

var testDB *sql.DB

var testEventIDs = []string{"evt_db_test_1", "evt_db_test_2"}

func TestMain(m *testing.M) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// The audit log is optional; without a database there is nothing to test here.
		os.Exit(0)
	}
	// Prevent tests from running against production database
	config.CheckNotProdDB(&config.Config{DatabaseURL: dsn})

	var err error
	testDB, err = database.Open(context.Background(), dsn)
	if err != nil {
		panic(err)
	}
	if err := stripedb.NewEventStore(testDB).EnsureSchema(context.Background()); err != nil {
		panic(err)
	}
	cleanup()
	code := m.Run()
	cleanup()
	_ = testDB.Close()
	os.Exit(code)
}

func cleanup() {
	for _, id := range testEventIDs {
		_, _ = testDB.Exec("DELETE FROM webhook_event WHERE id = $1", id)
	}
}

func TestRecordEvent_InsertsOnce(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database test in -short mode")
	}
	ctx := context.Background()
	store := stripedb.NewEventStore(testDB)
	evt := stripe.Event{ID: testEventIDs[0], Type: stripe.EventTypeCheckoutSessionCompleted, Created: 1700000000}

	require.NoError(t, store.RecordEvent(ctx, evt))
	require.NoError(t, store.RecordEvent(ctx, evt))

	n, err := store.CountEvents(ctx, evt.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var typ string
	require.NoError(t, testDB.QueryRow("SELECT type FROM webhook_event WHERE id = $1", evt.ID).Scan(&typ))
	assert.Equal(t, "checkout.session.completed", typ)
}

func TestRecordEvent_WithoutCreated(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database test in -short mode")
	}
	ctx := context.Background()
	store := stripedb.NewEventStore(testDB)

	require.NoError(t, store.RecordEvent(ctx, stripe.Event{ID: testEventIDs[1], Type: "invoice.paid"}))

	var created sql.NullTime
	require.NoError(t, testDB.QueryRow("SELECT created_at FROM webhook_event WHERE id = $1", testEventIDs[1]).Scan(&created))
	assert.False(t, created.Valid)
}

func TestCountEvents_Unknown(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database test in -short mode")
	}
	n, err := stripedb.NewEventStore(testDB).CountEvents(context.Background(), "evt_never_seen")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
