package matching

import (
	"context"
	"math"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	log "github.com/sirupsen/logrus"
)

const DefaultSkillThreshold = 0.7

// Mixing weights for resume-to-job matching: text similarity vs skill score.
const (
	textSimilarityWeight = 0.4
	skillScoreWeight     = 0.6
)

// Similarity scores two texts in [0,1]. Implementations are picked once at
// construction, not probed per call.
type Similarity interface {
	Score(ctx context.Context, a, b string) (float64, error)
	Kind() string
}

// Embedder is the vector backend seam; nil means no backend is installed.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type embeddingSimilarity struct {
	embedder Embedder
}

func (s *embeddingSimilarity) Kind() string { return "semantic" }

func (s *embeddingSimilarity) Score(ctx context.Context, a, b string) (float64, error) {
	va, err := s.embedder.Embed(ctx, a)
	if err != nil {
		return 0, err
	}
	vb, err := s.embedder.Embed(ctx, b)
	if err != nil {
		return 0, err
	}
	return cosine(va, vb), nil
}

type fuzzySimilarity struct{}

func (fuzzySimilarity) Kind() string { return "fuzzy" }

func (fuzzySimilarity) Score(_ context.Context, a, b string) (float64, error) {
	return editRatio(strings.ToLower(a), strings.ToLower(b)), nil
}

type wordOverlap struct{}

func (wordOverlap) Kind() string { return "overlap" }

func (wordOverlap) Score(_ context.Context, a, b string) (float64, error) {
	return jaccard(tokenize(a), tokenize(b)), nil
}

// SkillDetail explains how one required skill was (or wasn't) matched.
type SkillDetail struct {
	Skill       string  `json:"skill"`
	MatchType   string  `json:"match_type"`
	Score       float64 `json:"score"`
	MatchedWith string  `json:"matched_with,omitempty"`
	Closest     string  `json:"closest,omitempty"`
}

type SkillMatch struct {
	Score    float64
	Matching []string
	Missing  []string
	Details  []SkillDetail
}

type ResumeMatch struct {
	OverallScore  float64
	SemanticScore float64
	SkillScore    float64
	Matching      []string
	Missing       []string
	Details       []SkillDetail
}

// SemanticMatcher layers similarity matching over exact skill membership.
// With an embedding backend it scores semantically; without one, skills
// fall back to edit-distance ratio and full texts to word overlap.
type SemanticMatcher struct {
	skillSim  Similarity
	textSim   Similarity
	threshold float64
}

func NewSemanticMatcher(embedder Embedder) *SemanticMatcher {
	m := &SemanticMatcher{threshold: DefaultSkillThreshold}

	if embedder != nil {
		backend := &embeddingSimilarity{embedder: embedder}
		m.skillSim = backend
		m.textSim = backend
	} else {
		log.Warn("no embedding backend available, downgrading to string similarity")
		m.skillSim = fuzzySimilarity{}
		m.textSim = wordOverlap{}
	}

	return m
}

func (m *SemanticMatcher) SetThreshold(threshold float64) {
	m.threshold = threshold
}

// MatchSkills scores required job skills against profile skills. Exact
// case-insensitive membership wins outright; otherwise the configured
// similarity strategy decides at the threshold, recording the closest
// candidate for missing skills.
func (m *SemanticMatcher) MatchSkills(ctx context.Context, profileSkills, jobSkills []string) SkillMatch {
	if len(profileSkills) == 0 || len(jobSkills) == 0 {
		return SkillMatch{Missing: jobSkills}
	}

	profileLower := make([]string, len(profileSkills))
	for i, skill := range profileSkills {
		profileLower[i] = strings.ToLower(skill)
	}

	result := SkillMatch{}

	for _, jobSkill := range jobSkills {
		jobLower := strings.ToLower(jobSkill)

		if contains(profileLower, jobLower) {
			result.Matching = append(result.Matching, jobSkill)
			result.Details = append(result.Details, SkillDetail{
				Skill:       jobSkill,
				MatchType:   "exact",
				Score:       1.0,
				MatchedWith: jobSkill,
			})
			continue
		}

		bestScore, bestMatch := 0.0, ""
		for _, profileSkill := range profileSkills {
			score, err := m.skillSim.Score(ctx, jobSkill, profileSkill)
			if err != nil {
				log.Errorf("similarity scoring failed for %q: %v", jobSkill, err)
				continue
			}
			if score > bestScore {
				bestScore, bestMatch = score, profileSkill
			}
		}

		if bestScore >= m.threshold {
			result.Matching = append(result.Matching, jobSkill)
			result.Details = append(result.Details, SkillDetail{
				Skill:       jobSkill,
				MatchType:   m.skillSim.Kind(),
				Score:       bestScore,
				MatchedWith: bestMatch,
			})
		} else {
			result.Missing = append(result.Missing, jobSkill)
			result.Details = append(result.Details, SkillDetail{
				Skill:     jobSkill,
				MatchType: "missing",
				Score:     bestScore,
				Closest:   bestMatch,
			})
		}
	}

	result.Score = float64(len(result.Matching)) / float64(len(jobSkills)) * 100
	return result
}

// MatchResumeToJob mixes full-text similarity with the skill score. When
// either skill list is absent the text similarity stands alone.
func (m *SemanticMatcher) MatchResumeToJob(ctx context.Context, resumeText, jobDescription string,
	resumeSkills, jobSkills []string) ResumeMatch {

	result := ResumeMatch{}

	textScore, err := m.textSim.Score(ctx, resumeText, jobDescription)
	if err != nil {
		log.Errorf("text similarity failed: %v", err)
	}
	result.SemanticScore = textScore * 100

	// Text-only fallback: without both skill lists there is no diff to
	// report, so the matching/missing sets stay empty.
	if len(resumeSkills) == 0 || len(jobSkills) == 0 {
		result.OverallScore = result.SemanticScore
		return result
	}

	skillMatch := m.MatchSkills(ctx, resumeSkills, jobSkills)
	result.SkillScore = skillMatch.Score
	result.Matching = skillMatch.Matching
	result.Missing = skillMatch.Missing
	result.Details = skillMatch.Details

	result.OverallScore = textSimilarityWeight*result.SemanticScore + skillScoreWeight*result.SkillScore
	return result
}

// editRatio is a normalized edit-distance ratio: 1 - distance/maxLen.
func editRatio(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 1
	}
	distance := levenshtein.ComputeDistance(a, b)
	return 1 - float64(distance)/float64(longest)
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func tokenize(text string) map[string]struct{} {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]struct{}, len(words))
	for _, word := range words {
		set[word] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for word := range a {
		if _, ok := b[word]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
