package testutils

import (
	"os"
	"path/filepath"
	"testing"
)

// Fixture dataset:
//
//	alice -> P1, P2    bob -> P2, P3    carol -> (none)
//	P1 (COLM):    5_3 and 5_5, two Summary points each
//	P2 (COLM):    5_3 has 5 points, 5_5 has 2 points
//	P3 (NeurIPS): 5_3 only, PDF missing
const (
	P1Points = 4
	P2Points = 7
)

const usersCSV = `Name , User
Alice Smith,alice
Bob Jones,bob
Carol White,carol
`

const mappingCSV = `user,paper_1,paper_2
alice,P1,P2
bob,P2,P3
`

const sourcesYAML = `sources:
  - name: COLM
    pdf_dir: pdfs_colm
    variants:
      - name: "5_3"
        file: data_colm/5_3.json
      - name: "5_5"
        file: data_colm/5_5.json
  - name: NeurIPS
    pdf_dir: pdfs_neurips
    variants:
      - name: "5_3"
        file: data_neurips/5_3.json
      - name: "5_5"
        file: data_neurips/5_5.json
`

const colm53 = `{
  "P1": {"sections": {"Summary": ["P1 summary one (5_3)", "P1 summary two (5_3)"]}},
  "P2": {"inference_review": "**Summary**\nP2 summary (5_3)\n**Strengths**\n- **strong** one\n- strong two\n**Weaknesses**\n- weak one\n**Questions**\n- question one"}
}`

const colm55 = `{
  "P1": {"sections": {"Summary": ["P1 summary one (5_5)", "P1 summary two (5_5)"]}},
  "P2": "**Summary**\nP2 summary (5_5)\n**Strengths**\n- only strength"
}`

const neurips53 = `{
  "P3": {"prediction": "**Summary**\nP3 summary\n**Questions**\n- q"}
}`

type Dataset struct {
	Root        string
	DataDir     string
	SourcesFile string
	ResultsPath string
}

// WriteDataset lays out the fixture dataset under a fresh temp dir.
func WriteDataset(t testing.TB) Dataset {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		"data/user.csv":         usersCSV,
		"data/mapping.csv":      mappingCSV,
		"sources.yaml":          sourcesYAML,
		"data_colm/5_3.json":    colm53,
		"data_colm/5_5.json":    colm55,
		"data_neurips/5_3.json": neurips53,
		"pdfs_colm/P1.pdf":      "%PDF-1.4 P1",
		"pdfs_colm/P2.pdf":      "%PDF-1.4 P2",
	}
	for name, content := range files {
		WriteFile(t, filepath.Join(root, name), content)
	}

	return Dataset{
		Root:        root,
		DataDir:     filepath.Join(root, "data"),
		SourcesFile: filepath.Join(root, "sources.yaml"),
		ResultsPath: filepath.Join(root, "data", "evaluation_results.csv"),
	}
}

func WriteFile(t testing.TB, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
