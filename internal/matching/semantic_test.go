package matching

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmbedder struct {
	vectors map[string][]float32
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if v, ok := s.vectors[strings.ToLower(text)]; ok {
		return v, nil
	}
	return []float32{0, 0, 1}, nil
}

func Test_MatchSkills_ExactMatchWinsOutright(t *testing.T) {
	m := NewSemanticMatcher(nil)

	result := m.MatchSkills(context.Background(), []string{"Python", "SQL"}, []string{"python"})

	assert.Equal(t, float64(100), result.Score)
	assert.Equal(t, []string{"python"}, result.Matching)
	require.Len(t, result.Details, 1)
	assert.Equal(t, "exact", result.Details[0].MatchType)
	assert.Equal(t, 1.0, result.Details[0].Score)
}

func Test_MatchSkills_FuzzyFallbackBelowThreshold(t *testing.T) {
	// No embedding backend: Python matches exactly, Spark stays below the
	// 0.7 edit-distance threshold against both profile skills.
	m := NewSemanticMatcher(nil)

	result := m.MatchSkills(context.Background(), []string{"Python", "SQL"}, []string{"Python", "Spark"})

	assert.Equal(t, float64(50), result.Score)
	assert.Equal(t, []string{"Python"}, result.Matching)
	assert.Equal(t, []string{"Spark"}, result.Missing)

	require.Len(t, result.Details, 2)
	assert.Equal(t, "missing", result.Details[1].MatchType)
	assert.NotEmpty(t, result.Details[1].Closest)
}

func Test_MatchSkills_FuzzyAcceptsNearVariants(t *testing.T) {
	m := NewSemanticMatcher(nil)

	result := m.MatchSkills(context.Background(), []string{"postgresql"}, []string{"postgresql9"})

	require.Len(t, result.Matching, 1)
	assert.Equal(t, "fuzzy", result.Details[0].MatchType)
	assert.GreaterOrEqual(t, result.Details[0].Score, 0.7)
}

func Test_MatchSkills_SemanticBackendUsedWhenPresent(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"kubernetes": {1, 0, 0},
		"k8s":        {0.95, 0.05, 0},
	}}
	m := NewSemanticMatcher(embedder)

	result := m.MatchSkills(context.Background(), []string{"k8s"}, []string{"kubernetes"})

	require.Len(t, result.Matching, 1)
	assert.Equal(t, "semantic", result.Details[0].MatchType)
	assert.Equal(t, "k8s", result.Details[0].MatchedWith)
}

func Test_MatchSkills_EmptyInputs(t *testing.T) {
	m := NewSemanticMatcher(nil)

	result := m.MatchSkills(context.Background(), nil, []string{"Go"})
	assert.Zero(t, result.Score)
	assert.Equal(t, []string{"Go"}, result.Missing)

	result = m.MatchSkills(context.Background(), []string{"Go"}, nil)
	assert.Zero(t, result.Score)
	assert.Empty(t, result.Matching)
}

func Test_MatchResumeToJob_MixesTextAndSkillScores(t *testing.T) {
	m := NewSemanticMatcher(nil)

	result := m.MatchResumeToJob(context.Background(),
		"python developer with sql experience",
		"python developer with sql experience",
		[]string{"Python", "SQL"},
		[]string{"Python", "Spark"},
	)

	// Identical texts give word overlap 1.0; half the skills match.
	assert.InDelta(t, 100.0, result.SemanticScore, 0.001)
	assert.InDelta(t, 50.0, result.SkillScore, 0.001)
	assert.InDelta(t, 0.4*100+0.6*50, result.OverallScore, 0.001)
}

func Test_MatchResumeToJob_TextOnlyWhenSkillsAbsent(t *testing.T) {
	m := NewSemanticMatcher(nil)

	result := m.MatchResumeToJob(context.Background(),
		"golang services and kafka pipelines",
		"golang services and kafka pipelines",
		nil, nil,
	)

	assert.Equal(t, result.SemanticScore, result.OverallScore)
	assert.Zero(t, result.SkillScore)
}

func Test_MatchResumeToJob_NoResumeSkillsReportsNoDiff(t *testing.T) {
	m := NewSemanticMatcher(nil)

	result := m.MatchResumeToJob(context.Background(),
		"golang services and kafka pipelines",
		"golang services and kafka pipelines",
		nil, []string{"Go", "Kafka"},
	)

	assert.Equal(t, result.SemanticScore, result.OverallScore)
	assert.Empty(t, result.Matching)
	assert.Empty(t, result.Missing)
}

func Test_EditRatio(t *testing.T) {
	assert.Equal(t, 1.0, editRatio("python", "python"))
	assert.Equal(t, 0.0, editRatio("", "abc"))
	assert.Equal(t, 1.0, editRatio("", ""))
	assert.Greater(t, editRatio("postgres", "postgresql"), 0.7)
	assert.Less(t, editRatio("spark", "sql"), 0.7)
}

func Test_Cosine(t *testing.T) {
	assert.InDelta(t, 1.0, cosine([]float32{1, 0}, []float32{2, 0}), 0.001)
	assert.InDelta(t, 0.0, cosine([]float32{1, 0}, []float32{0, 1}), 0.001)
	assert.Zero(t, cosine([]float32{1}, []float32{1, 2}))
}
