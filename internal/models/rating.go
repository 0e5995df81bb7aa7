package models

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	GradeUnrated            = "Select..."
	GradeCompletelyDisagree = "Completely Disagree"
	GradeMostlyDisagree     = "Mostly Disagree"
	GradeMostlyAgree        = "Mostly Agree"
	GradeCompletelyAgree    = "Completely Agree"
)

// Grades are the selectable scores, weakest agreement first.
var Grades = []string{
	GradeCompletelyDisagree,
	GradeMostlyDisagree,
	GradeMostlyAgree,
	GradeCompletelyAgree,
}

func IsGrade(s string) bool {
	for _, g := range Grades {
		if g == s {
			return true
		}
	}
	return false
}

// IsUnrated treats the empty value and the placeholder option alike.
func IsUnrated(s string) bool {
	return s == "" || s == GradeUnrated
}

// RatingRecord is one appended results row.
type RatingRecord struct {
	SubmissionID uuid.UUID `json:"submission_id" db:"submission_id"`
	Timestamp    time.Time `json:"timestamp" db:"created_at"`
	UserID       string    `json:"user" db:"user_id"`
	PaperID      string    `json:"paper_id" db:"paper_id"`
	ReviewLabel  string    `json:"review_label" db:"review_label"`
	Variant      string    `json:"review_variant" db:"review_variant"`
	Source       string    `json:"source" db:"source"`
	Section      Section   `json:"section" db:"section"`
	PointIndex   int       `json:"point_index" db:"point_index"`
	PointText    string    `json:"point_text" db:"point_text"`
	Rating       string    `json:"rating" db:"rating"`
}

// RecordHeader is the CSV header matching RatingRecord.Row.
var RecordHeader = []string{
	"submission_id",
	"timestamp",
	"user",
	"paper_id",
	"review_label",
	"review_variant",
	"source",
	"section",
	"point_index",
	"point_text",
	"rating",
}

func (r *RatingRecord) Row() []string {
	return []string{
		r.SubmissionID.String(),
		r.Timestamp.Format(time.RFC3339),
		r.UserID,
		r.PaperID,
		r.ReviewLabel,
		r.Variant,
		r.Source,
		string(r.Section),
		strconv.Itoa(r.PointIndex),
		r.PointText,
		r.Rating,
	}
}

type SubmitEvaluationRequest struct {
	Ratings map[string]string `json:"ratings" binding:"required"`
}

type SubmitEvaluationResponse struct {
	SubmissionID uuid.UUID `json:"submission_id"`
	Rows         int       `json:"rows"`
}
