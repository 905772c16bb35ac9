package utils

import (
	"chainlearn/database"
	"chainlearn/models"
	courseService "chainlearn/services/course"
	"log"
	"strconv"
	"time"

	"github.com/jinzhu/now"
	"github.com/robfig/cron/v3"
)

// logReconciler logs reconciler events with timestamp
func logReconciler(message string) {
	log.Printf("[RECONCILER %s] %s", time.Now().Format(time.RFC3339), message)
}

// ProcessPendingEnrollments sweeps transactions where the payment confirmed
// on-chain but the enrollment write never landed, and replays the write.
func ProcessPendingEnrollments(manager *courseService.EnrollmentManager, store courseService.Store) {
	pending, err := store.ListPendingEnrollmentTransactions()
	if err != nil {
		logReconciler("Error fetching pending enrollments: " + err.Error())
		return
	}

	if len(pending) == 0 {
		return
	}
	logReconciler("Found " + strconv.Itoa(len(pending)) + " pending enrollments to reconcile")

	for _, tx := range pending {
		course, err := store.GetCourse(tx.CourseID)
		if err != nil || course == nil {
			logReconciler("Skipping reference " + tx.Reference + ": course not found")
			continue
		}

		if _, err := manager.RetryEnrollmentWrite(tx.LearnerAddress, course, tx.Reference); err != nil {
			logReconciler("Reference " + tx.Reference + " still failing: " + err.Error())
			continue
		}
		logReconciler("Recovered enrollment for " + tx.LearnerAddress + " in course " + course.Title)

		// Tell the learner their access is back
		go func(learnerAddress, courseTitle string) {
			var user models.User
			if err := database.Database.Db.Where("wallet_address = ?", learnerAddress).First(&user).Error; err == nil {
				if mailErr := SendEnrollmentRecoveredEmail(user, courseTitle); mailErr != nil {
					logReconciler("Recovery email failed: " + mailErr.Error())
				}
			}
		}(tx.LearnerAddress, course.Title)
	}
}

// LogDailyEnrollmentSummary counts today's enrollment activity.
func LogDailyEnrollmentSummary() {
	db := database.Database.Db
	dayStart := now.BeginningOfDay()

	var completed, stuck int64
	db.Model(&models.Transactions{}).
		Where("transaction_type = ? AND status = ? AND created_at >= ?",
			models.TransactionTypeEnrollment, models.TransactionStatusCompleted, dayStart).
		Count(&completed)
	db.Model(&models.Transactions{}).
		Where("transaction_type = ? AND status = ?",
			models.TransactionTypeEnrollment, models.TransactionStatusPendingEnrollment).
		Count(&stuck)

	logReconciler("Daily summary: " + strconv.Itoa(int(completed)) + " enrollments today, " + strconv.Itoa(int(stuck)) + " awaiting reconciliation")
}

// InitializeReconcileScheduler starts the pending-enrollment sweeper.
func InitializeReconcileScheduler(manager *courseService.EnrollmentManager, store courseService.Store) *cron.Cron {
	logReconciler("Initializing enrollment reconciler...")

	c := cron.New()

	// Sweep every 5 minutes
	c.AddFunc("*/5 * * * *", func() {
		ProcessPendingEnrollments(manager, store)
	})

	// Daily summary at midnight UTC
	c.AddFunc("0 0 * * *", func() {
		LogDailyEnrollmentSummary()
	})

	c.Start()
	logReconciler("Enrollment reconciler started - sweeps every 5 minutes")
	return c
}
