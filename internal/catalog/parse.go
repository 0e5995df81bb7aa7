package catalog

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"review-eval/internal/models"
)

const reviewUnavailable = "Review not available."

var (
	summaryRe    = regexp.MustCompile(`(?s)\*\*Summary\*\*(.*?)(?:\*\*Strengths\*\*|\z)`)
	strengthsRe  = regexp.MustCompile(`(?s)\*\*Strengths\*\*(.*?)(?:\*\*Weaknesses\*\*|\z)`)
	weaknessesRe = regexp.MustCompile(`(?s)\*\*Weaknesses\*\*(.*?)(?:\*\*Questions\*\*|\z)`)
	questionsRe  = regexp.MustCompile(`(?s)\*\*Questions\*\*(.*)`)
)

// ParseReview splits generated review markdown into section points. The
// summary is a single point; the other sections are "-" bullet lists.
func ParseReview(text string) models.ReviewContent {
	content := models.ReviewContent{}

	if m := summaryRe.FindStringSubmatch(text); m != nil {
		if summary := strings.TrimSpace(m[1]); summary != "" {
			content[models.SectionSummary] = []string{summary}
		}
	}

	for _, sec := range []struct {
		re      *regexp.Regexp
		section models.Section
	}{
		{strengthsRe, models.SectionStrengths},
		{weaknessesRe, models.SectionWeaknesses},
		{questionsRe, models.SectionQuestions},
	} {
		m := sec.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if points := splitPoints(m[1]); len(points) > 0 {
			content[sec.section] = points
		}
	}

	return content
}

func splitPoints(block string) []string {
	var points []string
	for _, raw := range strings.Split(strings.TrimSpace(block), "\n-") {
		p := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(raw), "-"))
		if p != "" {
			points = append(points, p)
		}
	}
	return points
}

type reviewEntry struct {
	InferenceReview string              `json:"inference_review"`
	Prediction      string              `json:"prediction"`
	Sections        map[string][]string `json:"sections"`
}

// decodeEntry turns one value of a variant file into review content. Entries
// that carry no review text become a single "not available" summary.
func decodeEntry(raw json.RawMessage) models.ReviewContent {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return unavailable()
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return orUnavailable(ParseReview(text))
	}

	var entry reviewEntry
	if err := json.Unmarshal(raw, &entry); err == nil {
		if len(entry.Sections) > 0 {
			return orUnavailable(sectionsContent(entry.Sections))
		}
		if entry.InferenceReview != "" {
			return orUnavailable(ParseReview(entry.InferenceReview))
		}
		if entry.Prediction != "" {
			return orUnavailable(ParseReview(entry.Prediction))
		}
	}

	return unavailable()
}

func unavailable() models.ReviewContent {
	return models.ReviewContent{models.SectionSummary: {reviewUnavailable}}
}

// orUnavailable keeps every review set rateable: text without any section
// markers still gets one Summary point.
func orUnavailable(content models.ReviewContent) models.ReviewContent {
	if content.PointCount() == 0 {
		return unavailable()
	}
	return content
}

func sectionsContent(sections map[string][]string) models.ReviewContent {
	content := models.ReviewContent{}
	for name, points := range sections {
		sec, ok := models.ParseSection(name)
		if !ok {
			continue
		}
		var kept []string
		for _, p := range points {
			if p = strings.TrimSpace(p); p != "" {
				kept = append(kept, p)
			}
		}
		if len(kept) > 0 {
			content[sec] = kept
		}
	}
	return content
}
