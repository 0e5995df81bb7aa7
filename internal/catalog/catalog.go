package catalog

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"review-eval/internal/errdefs"
	"review-eval/internal/models"
	"review-eval/internal/storage"

	"go.uber.org/zap"
)

var ErrPaperNotFound = fmt.Errorf("paper %w", errdefs.ErrNotFound)

type Options struct {
	DataDir     string
	SourcesFile string
}

// Catalog is the read-only view of raters, assignments and review sources,
// loaded once at startup.
type Catalog struct {
	raters      []models.Rater
	ratersByID  map[string]models.Rater
	assignments map[string]models.Assignment
	papers      map[string]*models.Paper
	manifest    *Manifest
}

func Load(opts Options, logger *zap.Logger) (*Catalog, error) {
	raters, err := readRaters(filepath.Join(opts.DataDir, "user.csv"))
	if err != nil {
		return nil, err
	}
	assignments, err := readAssignments(filepath.Join(opts.DataDir, "mapping.csv"))
	if err != nil {
		return nil, err
	}

	baseDir := "."
	if _, err := os.Stat(opts.SourcesFile); err == nil {
		baseDir = filepath.Dir(opts.SourcesFile)
	}
	manifest, err := LoadManifest(opts.SourcesFile, baseDir)
	if err != nil {
		return nil, err
	}

	c := &Catalog{
		raters:      raters,
		ratersByID:  make(map[string]models.Rater, len(raters)),
		assignments: assignments,
		papers:      make(map[string]*models.Paper),
		manifest:    manifest,
	}
	for _, r := range raters {
		c.ratersByID[r.ID] = r
	}

	for _, src := range manifest.Sources {
		if err := c.loadSource(src, logger); err != nil {
			return nil, err
		}
	}

	logger.Info("catalog loaded",
		zap.Int("raters", len(c.raters)),
		zap.Int("assignments", len(c.assignments)),
		zap.Int("papers", len(c.papers)),
		zap.Int("sources", len(manifest.Sources)),
	)
	return c, nil
}

func (c *Catalog) loadSource(src Source, logger *zap.Logger) error {
	files := storage.NewLocalStorage(src.PDFDir)

	for _, v := range src.Variants {
		entries, err := readVariantFile(v.File)
		if err != nil {
			return fmt.Errorf("source %s variant %s: %w", src.Name, v.Name, err)
		}
		if entries == nil {
			logger.Warn("variant file missing", zap.String("source", src.Name), zap.String("file", v.File))
			continue
		}

		for id, raw := range entries {
			p, ok := c.papers[id]
			if ok && p.Source != src.Name {
				// An earlier source already owns this paper.
				continue
			}
			if !ok {
				pdfPath, err := files.PDFPath(id)
				if err != nil {
					logger.Warn("skipping paper with unusable id", zap.String("source", src.Name), zap.String("paper_id", id))
					continue
				}
				p = &models.Paper{
					ID:      id,
					Source:  src.Name,
					PDFPath: pdfPath,
					Reviews: make(map[string]models.ReviewContent),
				}
				c.papers[id] = p
			}
			p.Reviews[v.Name] = decodeEntry(raw)
		}
	}

	// Variants follow manifest order, whatever order the files were read in.
	for _, p := range c.papers {
		if p.Source != src.Name {
			continue
		}
		p.Variants = p.Variants[:0]
		for _, v := range src.Variants {
			if p.HasVariant(v.Name) {
				p.Variants = append(p.Variants, v.Name)
			}
		}
	}
	return nil
}

// readVariantFile returns nil, nil when the file does not exist.
func readVariantFile(path string) (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	entries := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return entries, nil
}

func (c *Catalog) Raters() []models.Rater {
	out := make([]models.Rater, len(c.raters))
	copy(out, c.raters)
	return out
}

func (c *Catalog) Rater(id string) (models.Rater, bool) {
	r, ok := c.ratersByID[id]
	return r, ok
}

// PapersFor returns exactly the papers assigned to userID.
func (c *Catalog) PapersFor(userID string) []string {
	a, ok := c.assignments[userID]
	if !ok {
		return nil
	}
	out := make([]string, len(a.PaperIDs))
	copy(out, a.PaperIDs)
	return out
}

func (c *Catalog) IsAssigned(userID, paperID string) bool {
	a, ok := c.assignments[userID]
	return ok && a.Has(paperID)
}

func (c *Catalog) Paper(id string) (*models.Paper, error) {
	p, ok := c.papers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPaperNotFound, id)
	}
	return p, nil
}

func (c *Catalog) Sources() []Source {
	return c.manifest.Sources
}

func readRaters(path string) ([]models.Rater, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	nameCol, idCol := rows.column("Name"), rows.column("User")
	if nameCol < 0 || idCol < 0 {
		return nil, fmt.Errorf("%s: expected Name and User columns", path)
	}

	var raters []models.Rater
	seen := make(map[string]bool)
	for _, rec := range rows.records {
		id := rows.cell(rec, idCol)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		name := rows.cell(rec, nameCol)
		if name == "" {
			name = id
		}
		raters = append(raters, models.Rater{ID: id, Name: name})
	}
	return raters, nil
}

func readAssignments(path string) (map[string]models.Assignment, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	userCol := rows.column("user")
	if userCol < 0 {
		return nil, fmt.Errorf("%s: expected a user column", path)
	}

	var paperCols []int
	for i, h := range rows.header {
		if strings.HasPrefix(strings.ToLower(h), "paper") {
			paperCols = append(paperCols, i)
		}
	}
	sort.SliceStable(paperCols, func(i, j int) bool {
		return naturalLess(rows.header[paperCols[i]], rows.header[paperCols[j]])
	})

	assignments := make(map[string]models.Assignment)
	for _, rec := range rows.records {
		user := rows.cell(rec, userCol)
		if user == "" {
			continue
		}
		a := assignments[user]
		a.UserID = user
		for _, col := range paperCols {
			if id := rows.cell(rec, col); id != "" && !a.Has(id) {
				a.PaperIDs = append(a.PaperIDs, id)
			}
		}
		assignments[user] = a
	}
	return assignments, nil
}

// naturalLess orders paper_2 before paper_10.
func naturalLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

type csvRows struct {
	header  []string
	records [][]string
}

func readCSV(path string) (*csvRows, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s is empty", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return &csvRows{header: header, records: records}, nil
}

func (r *csvRows) column(name string) int {
	for i, h := range r.header {
		if h == name {
			return i
		}
	}
	return -1
}

func (r *csvRows) cell(rec []string, col int) string {
	if col >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[col])
}
