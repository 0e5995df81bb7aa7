package catalog

import (
	"encoding/json"
	"testing"

	"review-eval/internal/models"

	"github.com/google/go-cmp/cmp"
)

func TestParseReview(t *testing.T) {
	tests := []struct {
		name string
		text string
		want models.ReviewContent
	}{
		{
			name: "all sections",
			text: "**Summary**\nThe paper proposes X.\n\n**Strengths**\n- Clear writing\n- Strong baselines\n\n" +
				"**Weaknesses**\n- Small dataset\n\n**Questions**\n- Why Y?\n- What about Z?",
			want: models.ReviewContent{
				models.SectionSummary:    {"The paper proposes X."},
				models.SectionStrengths:  {"Clear writing", "Strong baselines"},
				models.SectionWeaknesses: {"Small dataset"},
				models.SectionQuestions:  {"Why Y?", "What about Z?"},
			},
		},
		{
			name: "multi-line bullets keep continuation text",
			text: "**Strengths**\n- First point\n  continues here\n- Second",
			want: models.ReviewContent{
				models.SectionStrengths: {"First point\n  continues here", "Second"},
			},
		},
		{
			name: "missing sections are empty",
			text: "**Summary** only a summary",
			want: models.ReviewContent{
				models.SectionSummary: {"only a summary"},
			},
		},
		{
			name: "blank summary and empty bullets dropped",
			text: "**Summary**\n\n**Strengths**\n-\n- kept\n-   ",
			want: models.ReviewContent{
				models.SectionStrengths: {"kept"},
			},
		},
		{
			name: "no markers",
			text: "free text without structure",
			want: models.ReviewContent{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseReview(tc.text)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("ParseReview() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeEntry(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want models.ReviewContent
	}{
		{
			name: "plain string",
			raw:  `"**Summary** s\n**Strengths**\n- a"`,
			want: models.ReviewContent{
				models.SectionSummary:   {"s"},
				models.SectionStrengths: {"a"},
			},
		},
		{
			name: "inference_review wins over prediction",
			raw:  `{"inference_review": "**Summary** from inference", "prediction": "**Summary** from prediction"}`,
			want: models.ReviewContent{models.SectionSummary: {"from inference"}},
		},
		{
			name: "prediction fallback",
			raw:  `{"prediction": "**Summary** predicted"}`,
			want: models.ReviewContent{models.SectionSummary: {"predicted"}},
		},
		{
			name: "pre-split sections",
			raw:  `{"sections": {"Summary": ["one", "two"], "Questions": ["q", " "], "Other": ["x"]}}`,
			want: models.ReviewContent{
				models.SectionSummary:   {"one", "two"},
				models.SectionQuestions: {"q"},
			},
		},
		{
			name: "null entry",
			raw:  `null`,
			want: models.ReviewContent{models.SectionSummary: {reviewUnavailable}},
		},
		{
			name: "text without section markers",
			raw:  `"## Summary\nplain heading review\n- a point"`,
			want: models.ReviewContent{models.SectionSummary: {reviewUnavailable}},
		},
		{
			name: "inference_review without section markers",
			raw:  `{"inference_review": "just prose"}`,
			want: models.ReviewContent{models.SectionSummary: {reviewUnavailable}},
		},
		{
			name: "sections with only unknown names",
			raw:  `{"sections": {"Other": ["x"]}}`,
			want: models.ReviewContent{models.SectionSummary: {reviewUnavailable}},
		},
		{
			name: "number entry",
			raw:  `42`,
			want: models.ReviewContent{models.SectionSummary: {reviewUnavailable}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := decodeEntry(json.RawMessage(tc.raw))
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("decodeEntry() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
