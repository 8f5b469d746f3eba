package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/sim"
)

var ErrNoPositions = errors.New("storage: run has no recorded positions")

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
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Preset    string             `json:"preset,omitempty"`
	Scenario  string             `json:"scenario,omitempty"`
	Frames    int                `json:"frames"`
	Nodes     int                `json:"nodes"`
	Params    dynamo.Params      `json:"params"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes metadata.json and nodes.csv into a fresh run directory and
// returns the run ID. nodes.csv has one row per recorded frame and node.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	runID, runDir, err := s.newRunDir()
	if err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Frames = result.Frames
	meta.Metrics = result.Metrics
	if len(result.Positions) > 0 {
		meta.Nodes = len(result.Positions[0])
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeNodes(filepath.Join(runDir, "nodes.csv"), result); err != nil {
		return "", err
	}
	return runID, nil
}

func (s *Store) newRunDir() (string, string, error) {
	base := fmt.Sprintf("cloth_%d", time.Now().Unix())
	runID := base
	for i := 1; ; i++ {
		dir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return runID, dir, nil
		}
		if !os.IsExist(err) {
			if os.IsNotExist(err) {
				if err := s.Init(); err != nil {
					return "", "", err
				}
				continue
			}
			return "", "", err
		}
		runID = fmt.Sprintf("%s_%d", base, i)
	}
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeNodes(path string, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"sample", "time", "node", "x", "y"}); err != nil {
		return err
	}
	for k, frame := range result.Positions {
		ts := ""
		if k < len(result.Times) {
			ts = strconv.FormatFloat(result.Times[k], 'f', 6, 64)
		}
		sample := strconv.Itoa(k)
		for i, p := range frame {
			row := []string{
				sample,
				ts,
				strconv.Itoa(i),
				strconv.FormatFloat(p.X, 'f', 4, 64),
				strconv.FormatFloat(p.Y, 'f', 4, 64),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, newest first.
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
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadPositions reads nodes.csv back into per-sample position slices.
func (s *Store) LoadPositions(runID string) ([][]dynamo.Vec2, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "nodes.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 5

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(records) < 2 {
		return nil, nil, ErrNoPositions
	}

	var (
		frames [][]dynamo.Vec2
		times  []float64
	)
	for _, rec := range records[1:] {
		sample, err := strconv.Atoi(rec[0])
		if err != nil {
			continue
		}
		x, errX := strconv.ParseFloat(rec[3], 64)
		y, errY := strconv.ParseFloat(rec[4], 64)
		if errX != nil || errY != nil {
			continue
		}
		for sample >= len(frames) {
			frames = append(frames, nil)
			t, _ := strconv.ParseFloat(rec[1], 64)
			times = append(times, t)
		}
		frames[sample] = append(frames[sample], dynamo.Vec2{X: x, Y: y})
	}
	return frames, times, nil
}

// Trajectory extracts one node's path from loaded positions.
func Trajectory(frames [][]dynamo.Vec2, node int) ([]dynamo.Vec2, error) {
	out := make([]dynamo.Vec2, 0, len(frames))
	for k, f := range frames {
		if node < 0 || node >= len(f) {
			return nil, fmt.Errorf("sample %d: %w", k, dynamo.ErrNodeIndex)
		}
		out = append(out, f[node])
	}
	return out, nil
}
