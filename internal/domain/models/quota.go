package models

// DailyQuota is the durable application counter for one calendar day.
// Submissions reserve a slot with a conditional increment, so concurrent
// batches cannot jointly exceed the daily limit.
type DailyQuota struct {
	Day  string `gorm:"primaryKey;size:10"` // YYYY-MM-DD, UTC
	Used int
}
