package results

import "sort"

// Progress is how often one rater has submitted one paper.
type Progress struct {
	UserID        string
	PaperID       string
	Submissions   int
	Rows          int
	LastSubmitted string
}

// Summarize groups result rows by (user, paper). Rows with too few columns
// are skipped. The output is sorted by user then paper.
func Summarize(rows [][]string) []Progress {
	type key struct{ user, paper string }
	byKey := make(map[key]*Progress)
	seen := make(map[key]map[string]bool)

	for _, row := range rows {
		if len(row) < 4 {
			continue
		}
		k := key{user: row[2], paper: row[3]}
		p, ok := byKey[k]
		if !ok {
			p = &Progress{UserID: k.user, PaperID: k.paper}
			byKey[k] = p
			seen[k] = make(map[string]bool)
		}
		p.Rows++
		if !seen[k][row[0]] {
			seen[k][row[0]] = true
			p.Submissions++
		}
		// RFC3339 UTC timestamps sort lexically.
		if row[1] > p.LastSubmitted {
			p.LastSubmitted = row[1]
		}
	}

	out := make([]Progress, 0, len(byKey))
	for _, p := range byKey {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].PaperID < out[j].PaperID
	})
	return out
}
