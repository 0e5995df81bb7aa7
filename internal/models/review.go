package models

import "fmt"

type Section string

const (
	SectionSummary    Section = "Summary"
	SectionStrengths  Section = "Strengths"
	SectionWeaknesses Section = "Weaknesses"
	SectionQuestions  Section = "Questions"
)

// Sections is the display and storage order of review sections.
var Sections = []Section{SectionSummary, SectionStrengths, SectionWeaknesses, SectionQuestions}

func ParseSection(s string) (Section, bool) {
	for _, sec := range Sections {
		if string(sec) == s {
			return sec, true
		}
	}
	return "", false
}

// ReviewContent holds the points of one generated review, keyed by section.
type ReviewContent map[Section][]string

func (rc ReviewContent) PointCount() int {
	n := 0
	for _, sec := range Sections {
		n += len(rc[sec])
	}
	return n
}

// Review is a candidate review as shown to a rater. Variant is never rendered.
type Review struct {
	Label    string        `json:"label"`
	Variant  string        `json:"-"`
	Sections []ReviewBlock `json:"sections"`
}

type ReviewBlock struct {
	Section Section `json:"section"`
	Points  []Point `json:"points"`
}

type Point struct {
	Key   string `json:"key"`
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// PointKey is the form key identifying one rating selector.
func PointKey(label string, section Section, index int) string {
	return fmt.Sprintf("%s.%s.%d", label, section, index)
}

// NewReview lays out content as labelled blocks in section order. Empty
// sections are kept so the page can say so.
func NewReview(label, variant string, content ReviewContent) Review {
	r := Review{Label: label, Variant: variant}
	for _, sec := range Sections {
		block := ReviewBlock{Section: sec}
		for i, text := range content[sec] {
			block.Points = append(block.Points, Point{
				Key:   PointKey(label, sec, i),
				Index: i,
				Text:  text,
			})
		}
		r.Sections = append(r.Sections, block)
	}
	return r
}

func (r *Review) PointCount() int {
	n := 0
	for _, b := range r.Sections {
		n += len(b.Points)
	}
	return n
}

// ReviewLabel returns A, B, ..., Z, AA, AB, ... for a zero-based position.
func ReviewLabel(pos int) string {
	label := ""
	for pos >= 0 {
		label = string(rune('A'+pos%26)) + label
		pos = pos/26 - 1
	}
	return label
}
