package jobs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-desk/models"
)

type stubAuditor struct {
	audit models.InventoryAudit
	err   error
	calls int
}

func (s *stubAuditor) Audit(context.Context) (models.InventoryAudit, error) {
	s.calls++
	return s.audit, s.err
}

func TestInitCronJobs(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := cron.New()

	require.NoError(t, InitCronJobs(c, "", &stubAuditor{}, logger))
	assert.Empty(t, c.Entries())

	require.NoError(t, InitCronJobs(c, "@every 1h", &stubAuditor{}, logger))
	assert.Len(t, c.Entries(), 1)

	assert.Error(t, InitCronJobs(c, "not a schedule", &stubAuditor{}, logger))
}

func TestRunAuditLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	desynced := &stubAuditor{audit: models.InventoryAudit{
		BookedWithoutBooking: []models.Room{{RoomNumber: "101"}},
	}}
	RunAudit(context.Background(), desynced, logger)
	assert.Equal(t, 1, desynced.calls)
	assert.Contains(t, buf.String(), `"level":"WARN"`)
	assert.Contains(t, buf.String(), `"booked_without_booking":["101"]`)

	buf.Reset()
	RunAudit(context.Background(), &stubAuditor{err: errors.New("db down")}, logger)
	assert.Contains(t, buf.String(), `"level":"ERROR"`)

	buf.Reset()
	RunAudit(context.Background(), &stubAuditor{}, logger)
	assert.Contains(t, buf.String(), "inventory audit clean")
}
