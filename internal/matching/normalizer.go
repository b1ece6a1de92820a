package matching

import "strings"

// skillSynonyms maps a canonical skill to the spellings that should count
// as the same thing when scanning job text.
var skillSynonyms = map[string][]string{
	"python":                      {"python3", "python 3", "py"},
	"machine learning":            {"ml", "machine-learning", "machinelearning"},
	"deep learning":               {"dl", "deep-learning", "deeplearning", "neural networks"},
	"natural language processing": {"nlp", "natural-language-processing"},
	"computer vision":             {"cv", "image processing", "opencv"},
	"tensorflow":                  {"tf", "tensor flow", "tensor-flow"},
	"pytorch":                     {"torch", "py-torch"},
	"scikit-learn":                {"sklearn", "scikit learn", "scikitlearn"},
	"data science":                {"data-science", "datascience"},
	"data analysis":               {"data-analysis", "dataanalysis"},
	"data engineering":            {"data-engineering", "dataengineering"},
	"sql":                         {"mysql", "postgresql", "postgres", "sqlite", "oracle"},
	"aws":                         {"amazon web services", "amazon-web-services"},
	"gcp":                         {"google cloud", "google-cloud", "google cloud platform"},
	"azure":                       {"microsoft azure", "ms azure"},
}

// Normalizer expands skill tokens into their canonical form plus known
// synonyms. Pure lookup over a fixed table.
type Normalizer struct {
	synonyms map[string][]string
}

func NewNormalizer() *Normalizer {
	return &Normalizer{synonyms: skillSynonyms}
}

// Normalize returns the lowercased skill together with every registered
// form of it. Unknown skills come back as a single-element set.
func (n *Normalizer) Normalize(skill string) []string {
	lowered := strings.ToLower(strings.TrimSpace(skill))
	forms := []string{lowered}

	for base, synonyms := range n.synonyms {
		if lowered != base && !contains(synonyms, lowered) {
			continue
		}
		if lowered != base {
			forms = append(forms, base)
		}
		for _, synonym := range synonyms {
			if synonym != lowered {
				forms = append(forms, synonym)
			}
		}
	}

	return forms
}

// Expand builds the deduplicated set of all forms of all given skills.
func (n *Normalizer) Expand(skills []string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, skill := range skills {
		for _, form := range n.Normalize(skill) {
			set[form] = struct{}{}
		}
	}
	return set
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
