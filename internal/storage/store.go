package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/atomoptics/trapscan/internal/optim"
)

// Store persists sweep runs under a base directory, one directory per run:
// metadata.json plus one CSV per result grid.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string    `json:"id"`
	Model     string    `json:"model"`
	Timestamp time.Time `json:"timestamp"`
	Range1    []float64 `json:"range1"`
	Range2    []float64 `json:"range2"`
	Workers   int       `json:"workers"`
}

// gridNames maps grid file names to their slice within a Result.
func gridNames(res *optim.Result) map[string][][]float64 {
	return map[string][][]float64{
		"position":  res.Position,
		"depth":     res.Depth,
		"height":    res.Height,
		"frequency": res.Frequency,
	}
}

func (s *Store) Save(model string, workers int, res *optim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", model, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Model:     model,
		Timestamp: time.Now(),
		Range1:    res.Range1,
		Range2:    res.Range2,
		Workers:   workers,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	for name, grid := range gridNames(res) {
		if err := writeGrid(filepath.Join(runDir, name+".csv"), grid); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadGrid reads one result grid of a stored run; name is one of position,
// depth, height, frequency.
func (s *Store) LoadGrid(runID, name string) ([][]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, name+".csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	grid := make([][]float64, 0, len(records))
	for _, record := range records {
		row := make([]float64, 0, len(record))
		for _, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("storage: bad grid value %q: %w", field, err)
			}
			row = append(row, v)
		}
		grid = append(grid, row)
	}
	return grid, nil
}

// LoadResult reassembles a full sweep result from disk.
func (s *Store) LoadResult(runID string) (*optim.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	res := &optim.Result{Range1: meta.Range1, Range2: meta.Range2}
	for name, dst := range map[string]*[][]float64{
		"position":  &res.Position,
		"depth":     &res.Depth,
		"height":    &res.Height,
		"frequency": &res.Frequency,
	} {
		grid, err := s.LoadGrid(runID, name)
		if err != nil {
			return nil, err
		}
		*dst = grid
	}
	return res, nil
}

func writeGrid(path string, grid [][]float64) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	for _, row := range grid {
		record := make([]string, len(row))
		for j, v := range row {
			record[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
