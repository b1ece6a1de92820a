package models

import (
	"encoding/json"
	"time"

	log "github.com/sirupsen/logrus"
)

type Status string

const (
	StatusNew       Status = "new"
	StatusMatched   Status = "matched"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusApplied   Status = "applied"
	StatusInterview Status = "interview"
	StatusOffer     Status = "offer"
	StatusAccepted  Status = "accepted"
)

// Job is a scraped posting moving through the application workflow.
// URL is the dedup key; skill lists are stored as JSON arrays.
type Job struct {
	ID int `gorm:"primaryKey"`

	Title        string `gorm:"size:255;not null"`
	Company      string `gorm:"size:255;not null"`
	Location     string `gorm:"size:255"`
	Description  string
	Requirements string

	URL      string `gorm:"size:500;not null;uniqueIndex"`
	Platform string `gorm:"size:50;not null;index"`
	JobType  string `gorm:"size:50"`
	WorkMode string `gorm:"size:50"`

	SalaryMin      int
	SalaryMax      int
	SalaryCurrency string `gorm:"size:10"`

	MatchScore    float64 `gorm:"index"`
	SemanticScore float64
	Skills        string // required skills supplied by the JD parser, JSON array
	MatchedSkills string
	MissingSkills string

	Status        Status `gorm:"size:50;default:new;index"`
	IsApproved    bool
	ApprovalNotes string
	IsEasyApply   bool

	PostedDate *time.Time
	ScrapedAt  time.Time `gorm:"autoCreateTime"`
	MatchedAt  *time.Time
	ApprovedAt *time.Time
	AppliedAt  *time.Time
	UpdatedAt  time.Time
}

func (j *Job) SkillsList() []string {
	return decodeStrings(j.Skills)
}

func (j *Job) MatchedSkillsList() []string {
	return decodeStrings(j.MatchedSkills)
}

func (j *Job) MissingSkillsList() []string {
	return decodeStrings(j.MissingSkills)
}

func (j *Job) SetSkills(skills []string) {
	j.Skills = encodeStrings(skills)
}

func (j *Job) SetMatchedSkills(skills []string) {
	j.MatchedSkills = encodeStrings(skills)
}

func (j *Job) SetMissingSkills(skills []string) {
	j.MissingSkills = encodeStrings(skills)
}

func encodeStrings(values []string) string {
	if len(values) == 0 {
		return ""
	}
	data, err := json.Marshal(values)
	if err != nil {
		log.Errorf("failed to encode string list: %v", err)
		return ""
	}
	return string(data)
}

func decodeStrings(raw string) []string {
	if raw == "" {
		return nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		log.Errorf("failed to decode string list: %v", err)
		return nil
	}
	return values
}
