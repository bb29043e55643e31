package entity

import "time"

type NotificationType string

const (
	NotificationTransaction  NotificationType = "transaction"
	NotificationGoalAchieved NotificationType = "goal_achieved"
	NotificationBalance      NotificationType = "balance"
	NotificationReminder     NotificationType = "reminder"
)

type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	CreatedAt time.Time        `json:"createdAt"`
	IsRead    bool             `json:"isRead"`
}
