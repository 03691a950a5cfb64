package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"hotel-desk/models"
)

// Auditor reports rooms whose occupancy flag disagrees with bookings.
type Auditor interface {
	Audit(ctx context.Context) (models.InventoryAudit, error)
}

const auditTimeout = time.Minute

// InitCronJobs registers the inventory audit on c. An empty schedule
// registers nothing. The caller starts and stops c.
func InitCronJobs(c *cron.Cron, schedule string, auditor Auditor, logger *slog.Logger) error {
	if schedule == "" {
		logger.Info("inventory audit disabled")
		return nil
	}
	_, err := c.AddFunc(schedule, func() { RunAudit(context.Background(), auditor, logger) })
	if err != nil {
		return err
	}
	logger.Info("cron jobs initialized", "audit_schedule", schedule)
	return nil
}

// RunAudit runs one audit and logs the outcome. It never modifies rooms.
func RunAudit(ctx context.Context, auditor Auditor, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(ctx, auditTimeout)
	defer cancel()

	audit, err := auditor.Audit(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "inventory audit failed", "error", err)
		return
	}
	if audit.Consistent() {
		logger.InfoContext(ctx, "inventory audit clean")
		return
	}
	logger.WarnContext(ctx, "inventory audit found desynced rooms",
		"booked_without_booking", roomNumbers(audit.BookedWithoutBooking),
		"free_with_booking", roomNumbers(audit.FreeWithBooking))
}

func roomNumbers(rooms []models.Room) []string {
	out := make([]string, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, r.RoomNumber)
	}
	return out
}
