package scheduler

import (
	"log"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"misradcrm_backend/internals/configs"
	"misradcrm_backend/internals/features/finance/fees/model"
)

// StartOverdueScheduler flips sent calculations past their due date to
// overdue, once a night. Returns the cron so main can Stop it on shutdown.
func StartOverdueScheduler(db *gorm.DB) *cron.Cron {
	loc, err := time.LoadLocation("Asia/Jerusalem")
	if err != nil {
		loc = time.UTC
	}

	c := cron.New(cron.WithLocation(loc))
	_, err = c.AddFunc("15 2 * * *", func() {
		SweepOverdueFees(db)
	})
	if err != nil {
		log.Println("[ERROR] register overdue sweep:", err)
		return c
	}

	c.Start()
	log.Println("⏰ overdue fee sweep scheduled (daily 02:15)")
	return c
}

// SweepOverdueFees is the actual sweep, exported so it can be triggered
// manually from an admin endpoint or a one-off job.
func SweepOverdueFees(db *gorm.DB) {
	// FEE_OVERDUE_GRACE_DAYS postpones the flip past the due date.
	grace := 0
	if n, err := strconv.Atoi(configs.GetEnv("FEE_OVERDUE_GRACE_DAYS", "0")); err == nil && n >= 0 {
		grace = n
	}
	cutoff := time.Now().AddDate(0, 0, -grace)

	res := db.Model(&model.FeeCalculationModel{}).
		Where("fee_calculation_status = ?", model.FeeStatusSent).
		Where("fee_calculation_due_date IS NOT NULL AND fee_calculation_due_date < ?", cutoff).
		Update("fee_calculation_status", model.FeeStatusOverdue)

	if res.Error != nil {
		log.Println("[ERROR] overdue sweep:", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("⏰ overdue sweep: %d calculations flipped", res.RowsAffected)
	}
}
