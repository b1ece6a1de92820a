package models

import "time"

type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "pending"
	ApplicationSubmitted ApplicationStatus = "submitted"
	ApplicationFailed    ApplicationStatus = "failed"
	ApplicationInterview ApplicationStatus = "interview"
	ApplicationRejected  ApplicationStatus = "rejected"
	ApplicationOffer     ApplicationStatus = "offer"
)

type ApplicationMethod string

const (
	MethodForm      ApplicationMethod = "form"
	MethodEmail     ApplicationMethod = "email"
	MethodEasyApply ApplicationMethod = "easy_apply"
	MethodDryRun    ApplicationMethod = "dry_run"
)

// Application is one submission attempt for a job. A job may accumulate
// several attempts; rows are never rewritten past a terminal outcome except
// to record a later response.
type Application struct {
	ID    int `gorm:"primaryKey"`
	JobID int `gorm:"not null;index"`
	Job   *Job

	CoverLetter      string
	Method           ApplicationMethod `gorm:"size:50;default:form"`
	Status           ApplicationStatus `gorm:"size:50;default:pending"`
	SubmissionResult string
	ResponseReceived bool

	Notes           string
	RejectionReason string

	CreatedAt  time.Time
	AppliedAt  *time.Time
	ResponseAt *time.Time
}
