package importer

import (
	"regexp"
	"strings"
)

type tagRule struct {
	tag     string
	pattern *regexp.Regexp
}

var tagRules = []tagRule{
	{"PWDs", regexp.MustCompile(`(?i)\b(pwds?|persons? with disabilit(y|ies)|differently[- ]abled|disability[- ]friendly|inclusive hiring)\b`)},
	{"Senior Citizens", regexp.MustCompile(`(?i)\b(senior citizens?|seniors|retirees?|elderly)\b`)},
	{"Youth", regexp.MustCompile(`(?i)\b(youth|fresh graduates?|fresh grads?|students?|entry[- ]level|no experience (required|needed))\b`)},
	{"Work from Home", regexp.MustCompile(`(?i)\b(work from home|wfh|remote|home[- ]based|telecommute)\b`)},
	{"Part-time", regexp.MustCompile(`(?i)\bpart[- ]time\b`)},
	{"Full-time", regexp.MustCompile(`(?i)\bfull[- ]time\b`)},
}

// InferTags returns the inclusion tags whose keywords appear in any of the
// given texts, in a fixed order.
func InferTags(texts ...string) []string {
	joined := strings.Join(texts, "\n")
	out := make([]string, 0, len(tagRules))
	for _, r := range tagRules {
		if r.pattern.MatchString(joined) {
			out = append(out, r.tag)
		}
	}
	return out
}

// jobType maps a board's work type label onto the listing types used here.
func jobType(workType string, tags []string) string {
	for _, t := range tags {
		if t == "Work from Home" {
			return "remote"
		}
	}
	w := strings.ToLower(workType)
	switch {
	case strings.Contains(w, "part"):
		return "part-time"
	case strings.Contains(w, "contract"), strings.Contains(w, "temp"):
		return "contract"
	default:
		return "full-time"
	}
}
