package catalog

import (
	"fmt"
	"sort"

	"review-eval/internal/storage"
)

type ProblemKind string

const (
	ProblemUnknownRater   ProblemKind = "unknown_rater"
	ProblemUnknownPaper   ProblemKind = "unknown_paper"
	ProblemMissingPDF     ProblemKind = "missing_pdf"
	ProblemMissingVariant ProblemKind = "missing_variant"
	ProblemNoAssignment   ProblemKind = "no_assignment"
)

type Problem struct {
	Kind    ProblemKind
	UserID  string
	PaperID string
	Detail  string
}

func (p Problem) String() string {
	switch {
	case p.PaperID != "":
		return fmt.Sprintf("[%s] user=%s paper=%s: %s", p.Kind, p.UserID, p.PaperID, p.Detail)
	default:
		return fmt.Sprintf("[%s] user=%s: %s", p.Kind, p.UserID, p.Detail)
	}
}

// Check walks every assignment and reports what a rater would hit as a load
// error. Results are ordered by user then paper.
func (c *Catalog) Check() []Problem {
	var problems []Problem

	for _, r := range c.raters {
		if len(c.PapersFor(r.ID)) == 0 {
			problems = append(problems, Problem{Kind: ProblemNoAssignment, UserID: r.ID, Detail: "no papers assigned"})
		}
	}

	users := make([]string, 0, len(c.assignments))
	for id := range c.assignments {
		users = append(users, id)
	}
	sort.Strings(users)

	variantsBySource := make(map[string][]string)
	for _, s := range c.manifest.Sources {
		for _, v := range s.Variants {
			variantsBySource[s.Name] = append(variantsBySource[s.Name], v.Name)
		}
	}

	for _, user := range users {
		if _, ok := c.ratersByID[user]; !ok {
			problems = append(problems, Problem{Kind: ProblemUnknownRater, UserID: user, Detail: "listed in mapping.csv but not in user.csv"})
		}
		for _, paperID := range c.assignments[user].PaperIDs {
			p, err := c.Paper(paperID)
			if err != nil {
				problems = append(problems, Problem{Kind: ProblemUnknownPaper, UserID: user, PaperID: paperID, Detail: "not found in any source"})
				continue
			}
			if !storage.Exists(p.PDFPath) {
				problems = append(problems, Problem{Kind: ProblemMissingPDF, UserID: user, PaperID: paperID, Detail: "PDF missing at " + p.PDFPath})
			}
			for _, v := range variantsBySource[p.Source] {
				if !p.HasVariant(v) {
					problems = append(problems, Problem{Kind: ProblemMissingVariant, UserID: user, PaperID: paperID, Detail: "no review for variant " + v})
				}
			}
		}
	}

	return problems
}
