package http

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/convograph/dialogd/internal/config"
	"github.com/convograph/dialogd/internal/engine"
	"github.com/convograph/dialogd/internal/intent"
	"github.com/convograph/dialogd/internal/logging"
	"github.com/convograph/dialogd/internal/response"
	"github.com/convograph/dialogd/internal/store"
	"github.com/convograph/dialogd/internal/validation"
	"github.com/convograph/dialogd/policy"
	"github.com/convograph/dialogd/tests/helpers"
)

func newTestHandler(t *testing.T) (*Handler, *store.SQLiteStore) {
	t.Helper()

	db := helpers.NewTestSQLiteStore(t)

	admission, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	require.NoError(t, err)

	cfg := &config.Config{
		MaxMessageLength:  1000,
		ContextWindowSize: 6,
		HistoryLimit:      50,
		ExportLimit:       1000,
	}
	log := logging.New(io.Discard, "silent")

	eng := engine.New(
		validation.New(cfg.MaxMessageLength, admission),
		intent.NewClassifier(),
		response.NewGenerator(nil),
		db,
		cfg.ContextWindowSize,
		log,
	)

	return NewHandler(eng, db, cfg, log), db
}
