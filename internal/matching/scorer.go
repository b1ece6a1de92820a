package matching

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/sankalpm/applybot/internal/domain/models"
)

// Weights combines the four sub-scores into a composite match score.
// Loading code is responsible for making sure they sum to 1.0.
type Weights struct {
	Skills         float64
	RoleTitle      float64
	WorkMode       float64
	EmploymentType float64
}

func DefaultWeights() Weights {
	return Weights{Skills: 0.40, RoleTitle: 0.30, WorkMode: 0.15, EmploymentType: 0.15}
}

// Breakdown carries the sub-scores behind a composite match score, plus the
// profile skills that were (not) found in the job text.
type Breakdown struct {
	Skill      float64
	Role       float64
	WorkMode   float64
	Employment float64
	Total      float64

	MatchedSkills []string
	MissingSkills []string
}

// roleFamilies are title patterns grouped under the role names candidates
// actually put in their preferences.
var roleFamilies = map[string][]*regexp.Regexp{
	"ml engineer": compilePatterns(
		`ml\s*engineer`,
		`machine\s*learning\s*engineer`,
		`ai\s*engineer`,
		`deep\s*learning\s*engineer`,
	),
	"data scientist": compilePatterns(
		`data\s*scientist`,
		`senior\s*data\s*scientist`,
		`lead\s*data\s*scientist`,
		`research\s*scientist`,
	),
	"data analyst": compilePatterns(
		`data\s*analyst`,
		`business\s*analyst`,
		`analytics\s*engineer`,
		`bi\s*analyst`,
	),
	"data engineer": compilePatterns(
		`data\s*engineer`,
		`etl\s*engineer`,
		`data\s*platform`,
	),
}

var techKeywords = []string{"engineer", "developer", "analyst", "scientist", "data", "ml", "ai"}

var remoteSynonyms = []string{"remote", "work from home", "wfh", "anywhere"}

// Scorer computes the composite match score for a job/profile pair.
// Deterministic and side-effect free.
type Scorer struct {
	weights    Weights
	normalizer *Normalizer
}

func NewScorer(weights Weights, normalizer *Normalizer) *Scorer {
	return &Scorer{weights: weights, normalizer: normalizer}
}

// Score returns the full breakdown; Total is the weighted sum rounded to
// two decimals and always lands in [0,100].
func (s *Scorer) Score(job *models.Job, profile *models.UserProfile) Breakdown {
	b := Breakdown{
		Role:       s.roleScore(job, profile),
		WorkMode:   s.workModeScore(job, profile),
		Employment: s.employmentScore(job, profile),
	}
	b.Skill, b.MatchedSkills, b.MissingSkills = s.skillScore(job, profile)

	total := b.Skill*s.weights.Skills +
		b.Role*s.weights.RoleTitle +
		b.WorkMode*s.weights.WorkMode +
		b.Employment*s.weights.EmploymentType
	b.Total = math.Round(total*100) / 100

	return b
}

func (s *Scorer) skillScore(job *models.Job, profile *models.UserProfile) (float64, []string, []string) {
	declared := profile.Skills.AllSkills()
	if len(declared) == 0 {
		return 50, nil, nil // neutral when the profile lists no skills
	}

	jobText := strings.ToLower(fmt.Sprintf("%s %s %s", job.Title, job.Description, job.Requirements))

	var matched, missing []string

	for _, skill := range declared {
		// A skill counts once, no matter how many of its forms appear.
		found := false
		for _, form := range s.normalizer.Normalize(skill) {
			if strings.Contains(jobText, form) {
				found = true
				break
			}
		}
		if found {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}

	score := math.Min(float64(len(matched))/float64(len(declared))*100, 100)
	return score, matched, missing
}

func (s *Scorer) roleScore(job *models.Job, profile *models.UserProfile) float64 {
	title := strings.ToLower(job.Title)

	for _, target := range profile.Preferences.Roles {
		targetLower := strings.ToLower(target)

		if strings.Contains(title, targetLower) {
			return 100
		}

		for family, patterns := range roleFamilies {
			if !strings.Contains(targetLower, family) {
				continue
			}
			for _, pattern := range patterns {
				if pattern.MatchString(title) {
					return 100
				}
			}
		}

		if ratio := editRatio(targetLower, title); ratio > 0.6 {
			return ratio * 100
		}
	}

	for _, keyword := range techKeywords {
		if strings.Contains(title, keyword) {
			return 50
		}
	}

	return 20
}

func (s *Scorer) workModeScore(job *models.Job, profile *models.UserProfile) float64 {
	jobMode := strings.ToLower(job.WorkMode)
	jobLocation := strings.ToLower(job.Location)

	for _, preferred := range profile.Preferences.WorkModes {
		mode := strings.ToLower(preferred)

		if mode != "" && (strings.Contains(jobMode, mode) || strings.Contains(jobLocation, mode)) {
			return 100
		}

		if contains(remoteSynonyms, mode) {
			for _, synonym := range remoteSynonyms {
				if strings.Contains(jobMode, synonym) || strings.Contains(jobLocation, synonym) {
					return 100
				}
			}
		}

		if mode == "hybrid" && strings.Contains(jobLocation, "hybrid") {
			return 100
		}
	}

	if jobMode == "" && !anyModeToken(jobLocation) {
		return 70 // nothing recognizable to disagree with
	}

	return 40
}

func anyModeToken(location string) bool {
	for _, token := range []string{"remote", "hybrid", "onsite"} {
		if strings.Contains(location, token) {
			return true
		}
	}
	return false
}

func (s *Scorer) employmentScore(job *models.Job, profile *models.UserProfile) float64 {
	jobType := strings.ToLower(job.JobType)
	title := strings.ToLower(job.Title)

	for _, preferred := range profile.Preferences.EmploymentTypes {
		prefType := strings.ToLower(preferred)

		if prefType != "" && strings.Contains(jobType, prefType) {
			return 100
		}
		if prefType == "internship" && strings.Contains(title, "intern") {
			return 100
		}
		if prefType == "full-time" && (strings.Contains(jobType, "full-time") || strings.Contains(jobType, "fulltime")) {
			return 100
		}
	}

	if jobType == "" {
		return 70
	}

	return 50
}

func compilePatterns(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, pattern := range patterns {
		compiled[i] = regexp.MustCompile(`(?i)` + pattern)
	}
	return compiled
}
