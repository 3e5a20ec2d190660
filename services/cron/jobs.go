package cron

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/umsams/umsams-api/model"
)

// SendDeadlineReminders notifies applicants whose submitted applications
// target a scholarship with a deadline within the next 3 days.
// Runs daily at 8 AM.
func (m *CronManager) SendDeadlineReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	jobName := "deadline_reminders"

	today := time.Now().UTC().Truncate(24 * time.Hour)
	cutoff := today.Add(3 * 24 * time.Hour)

	var scholarships []model.Scholarship
	err := m.db.WithContext(ctx).
		Where("deadline >= ? AND deadline <= ?", today, cutoff).
		Find(&scholarships).Error
	if err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to query scholarships: %w", err))
		return
	}

	if len(scholarships) == 0 {
		m.logJobComplete(jobName, "No approaching deadlines")
		return
	}

	notified := 0
	failed := 0

	for _, scholarship := range scholarships {
		var applications []model.Application
		err := m.db.WithContext(ctx).
			Where("scholarship_id = ? AND status = ?", scholarship.ID, model.ApplicationStatusSubmitted).
			Find(&applications).Error
		if err != nil {
			log.Printf("[CRON] Failed to query applications for scholarship %d: %v", scholarship.ID, err)
			failed++
			continue
		}

		deadline := scholarship.Deadline.Format("2006-01-02")
		message := fmt.Sprintf("Reminder: the deadline for %s is %s.", scholarship.Name, deadline)

		for _, application := range applications {
			if _, err := m.notifications.CreateNotification(ctx, application.UserID, message); err != nil {
				log.Printf("[CRON] Failed to notify user %d: %v", application.UserID, err)
				failed++
				continue
			}

			// Email is best effort; the in-app notification is the record
			if m.email.IsConfigured() {
				var user model.User
				if err := m.db.WithContext(ctx).First(&user, application.UserID).Error; err == nil {
					_ = m.email.SendDeadlineReminderEmail(user.Email, user.FirstName, scholarship.Name, deadline)
				}
			}

			notified++
		}
	}

	m.logJobComplete(jobName, fmt.Sprintf("Notified %d applicants, failed %d", notified, failed))
}

// CleanupExpiredResetTokens deletes password reset tokens that are
// expired or already used. Runs every hour.
func (m *CronManager) CleanupExpiredResetTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	jobName := "cleanup_reset_tokens"

	result := m.db.WithContext(ctx).
		Where("expires_at < ? OR used_at IS NOT NULL", time.Now()).
		Delete(&model.PasswordResetToken{})
	if result.Error != nil {
		m.logJobError(jobName, fmt.Errorf("failed to delete reset tokens: %w", result.Error))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Deleted %d reset tokens", result.RowsAffected))
}

// CleanupOldNotifications deletes read notifications older than 90 days.
// Runs daily at 2 AM.
func (m *CronManager) CleanupOldNotifications() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	jobName := "cleanup_notifications"

	cutoff := time.Now().Add(-90 * 24 * time.Hour)

	result := m.db.WithContext(ctx).
		Where("is_read = ? AND created_at < ?", true, cutoff).
		Delete(&model.Notification{})
	if result.Error != nil {
		m.logJobError(jobName, fmt.Errorf("failed to delete notifications: %w", result.Error))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Deleted %d old notifications", result.RowsAffected))
}
