package models

// Rater is a human evaluator listed in user.csv.
type Rater struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Assignment lists the papers a rater has to evaluate, in mapping.csv column order.
type Assignment struct {
	UserID   string   `json:"user_id"`
	PaperIDs []string `json:"paper_ids"`
}

type CreateSessionRequest struct {
	User string `form:"user" json:"user" binding:"required"`
}

type RaterPapersResponse struct {
	Rater  Rater    `json:"rater"`
	Papers []string `json:"papers"`
}

func (a *Assignment) Has(paperID string) bool {
	for _, id := range a.PaperIDs {
		if id == paperID {
			return true
		}
	}
	return false
}
