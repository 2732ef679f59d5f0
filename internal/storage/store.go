package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/san-kum/cablesim/internal/config"
	"github.com/san-kum/cablesim/internal/dynamo"
	"github.com/san-kum/cablesim/internal/sim"
)

const (
	metadataFile   = "metadata.json"
	statesFile     = "states.csv"
	forcesFile     = "forces.csv"
	experimentFile = "experiment.yaml"
)

// Store keeps one directory per run under baseDir.
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
	Name      string             `json:"name"`
	Model     string             `json:"model"`
	Timestamp time.Time          `json:"timestamp"`
	Dim       int                `json:"dim"`
	Dt        float64            `json:"dt"`
	Steps     int                `json:"steps"`
	Tags      []string           `json:"tags"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes the metadata, the state and force histories and the
// experiment that produced them. It returns the new run ID.
func (s *Store) Save(cfg *config.Config, result *sim.Result) (string, error) {
	now := time.Now()
	runID, runDir, err := s.makeRunDir(cfg.Name, now)
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Name:      cfg.Name,
		Model:     cfg.Body.Model,
		Timestamp: now,
		Dim:       int(result.Dim),
		Dt:        cfg.Dt,
		Steps:     len(result.Forces),
		Tags:      result.Tags,
		Metrics:   finiteMetrics(result.Metrics),
	}

	if err := writeFile(filepath.Join(runDir, metadataFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}); err != nil {
		return "", err
	}
	if err := writeFile(filepath.Join(runDir, statesFile), func(w io.Writer) error {
		return WriteStatesCSV(w, result)
	}); err != nil {
		return "", err
	}
	if err := writeFile(filepath.Join(runDir, forcesFile), func(w io.Writer) error {
		return WriteForcesCSV(w, result)
	}); err != nil {
		return "", err
	}
	if err := config.Save(filepath.Join(runDir, experimentFile), cfg); err != nil {
		return "", err
	}
	return runID, nil
}

// finiteMetrics drops values JSON cannot represent.
func finiteMetrics(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for name, v := range in {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[name] = v
		}
	}
	return out
}

// makeRunDir creates <name>_<unix>, adding a counter when two runs share
// a second.
func (s *Store) makeRunDir(name string, now time.Time) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	base := fmt.Sprintf("%s_%d", name, now.Unix())
	runID := base
	for i := 2; ; i++ {
		dir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return runID, dir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
		runID = fmt.Sprintf("%s_%d", base, i)
	}
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "write %s", filepath.Base(path))
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteStatesCSV writes time,x0..x{2d-1}, one row per recorded state.
func WriteStatesCSV(out io.Writer, result *sim.Result) error {
	w := csv.NewWriter(out)
	if len(result.States) == 0 {
		return nil
	}

	header := []string{"time"}
	for i := range result.States[0] {
		header = append(header, fmt.Sprintf("x%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, state := range result.States {
		row := []string{formatFloat(result.Times[i])}
		for _, val := range state {
			row = append(row, formatFloat(val))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteForcesCSV writes time,<tag>..., one row per step. The time is the
// start of the step the force was evaluated at.
func WriteForcesCSV(out io.Writer, result *sim.Result) error {
	w := csv.NewWriter(out)
	if err := w.Write(append([]string{"time"}, result.Tags...)); err != nil {
		return err
	}
	for i, forces := range result.Forces {
		row := []string{formatFloat(result.Times[i])}
		for _, tag := range result.Tags {
			row = append(row, formatFloat(forces[tag]))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
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
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrapf(err, "run %s metadata", runID)
	}
	return &meta, nil
}

// LoadConfig returns the experiment a run was produced from.
func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, experimentFile))
}

func (s *Store) readCSV(runID, name string) ([][]string, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, name))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "run %s %s", runID, name)
	}
	return records, nil
}

func parseRow(record []string) ([]float64, error) {
	out := make([]float64, len(record))
	for i, field := range record {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (s *Store) LoadStates(runID string) ([]dynamo.State, []float64, error) {
	records, err := s.readCSV(runID, statesFile)
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []dynamo.State{}, []float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	states := make([]dynamo.State, 0, len(records)-1)
	for i, record := range records[1:] {
		row, err := parseRow(record)
		if err != nil || len(row) < 2 {
			return nil, nil, errors.Errorf("run %s %s row %d: malformed", runID, statesFile, i+1)
		}
		times = append(times, row[0])
		states = append(states, dynamo.State(row[1:]))
	}
	return states, times, nil
}

// LoadForces returns the per-step force maps and the tags in column order.
func (s *Store) LoadForces(runID string) ([]map[string]float64, []string, error) {
	records, err := s.readCSV(runID, forcesFile)
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, errors.Errorf("run %s %s: missing header", runID, forcesFile)
	}

	tags := records[0][1:]
	forces := make([]map[string]float64, 0, len(records)-1)
	for i, record := range records[1:] {
		row, err := parseRow(record)
		if err != nil || len(row) != len(tags)+1 {
			return nil, nil, errors.Errorf("run %s %s row %d: malformed", runID, forcesFile, i+1)
		}
		f := make(map[string]float64, len(tags))
		for j, tag := range tags {
			f[tag] = row[j+1]
		}
		forces = append(forces, f)
	}
	return forces, tags, nil
}

// LoadResult rebuilds the histories of a saved run. Controls are not
// persisted and come back empty.
func (s *Store) LoadResult(runID string) (*RunMetadata, *sim.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	states, times, err := s.LoadStates(runID)
	if err != nil {
		return nil, nil, err
	}
	forces, tags, err := s.LoadForces(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, &sim.Result{
		Dim:     dynamo.Dim(meta.Dim),
		Tags:    tags,
		States:  states,
		Forces:  forces,
		Times:   times,
		Metrics: meta.Metrics,
	}, nil
}
