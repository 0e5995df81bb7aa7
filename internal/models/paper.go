package models

// Paper is a paper known to one of the review sources, with the raw review
// content of every variant that has an entry for it.
type Paper struct {
	ID       string                   `json:"id"`
	Source   string                   `json:"source"`
	PDFPath  string                   `json:"-"`
	Variants []string                 `json:"-"`
	Reviews  map[string]ReviewContent `json:"-"`
}

// EvaluationForm is everything the rating page needs for one paper.
type EvaluationForm struct {
	Paper        Paper    `json:"paper"`
	UserID       string   `json:"user_id"`
	PDFAvailable bool     `json:"pdf_available"`
	Reviews      []Review `json:"reviews"`
	Grades       []string `json:"grades"`
}

func (p *Paper) HasReviews() bool {
	return len(p.Variants) > 0
}

func (p *Paper) HasVariant(name string) bool {
	_, ok := p.Reviews[name]
	return ok
}

func (f *EvaluationForm) PointCount() int {
	n := 0
	for i := range f.Reviews {
		n += f.Reviews[i].PointCount()
	}
	return n
}
