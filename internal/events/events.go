package events

var (
	JobMatchedTopic           = "JobMatchedEvent"
	StatusChangedTopic        = "StatusChangedEvent"
	ApplicationSubmittedTopic = "ApplicationSubmittedEvent"
)

type JobMatched struct {
	JobID   int
	Title   string
	Company string
	Score   float64
}

type StatusChanged struct {
	JobID     int
	OldStatus string
	NewStatus string
	Notes     string
}

type ApplicationSubmitted struct {
	JobID   int
	Title   string
	Company string
	URL     string
	Method  string
	Success bool
	Message string
}
