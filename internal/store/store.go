// Package store persists computed trajectories under a data directory:
// per-run metadata as JSON alongside the state history as CSV.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/gun"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata summarizes one saved trajectory.
type RunMetadata struct {
	ID                  string    `json:"id"`
	Gun                 string    `json:"gun"`
	Timestamp           time.Time `json:"timestamp"`
	Acc                 float64   `json:"acc"`
	Steps               int       `json:"steps"`
	States              int       `json:"states"`
	MuzzleVelocity      float64   `json:"muzzle_velocity,omitempty"`
	PeakAveragePressure float64   `json:"peak_average_pressure,omitempty"`
	BurnoutPoint        float64   `json:"burnout_point,omitempty"`
}

// Save writes one run and returns its ID.
func (s *Store) Save(g *gun.Gun, states gun.StateList, acc float64, steps int) (string, error) {
	runID := fmt.Sprintf("%s_%d", sanitize(g.Name), time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Gun:       g.Name,
		Timestamp: time.Now(),
		Acc:       acc,
		Steps:     steps,
		States:    len(states),
	}
	if v, err := states.MuzzleVelocity(); err == nil {
		meta.MuzzleVelocity = v
	}
	if p, err := states.PeakAveragePressure(); err == nil {
		meta.PeakAveragePressure = p
	}
	if b, err := states.BurnoutPoint(); err == nil {
		meta.BurnoutPoint = b
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

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	header := []string{"significance", "time_s", "travel_m", "velocity_ms", "breech_pa", "average_pa", "shot_pa"}
	nCharges := len(g.Charges)
	for i := 0; i < nCharges; i++ {
		header = append(header, fmt.Sprintf("psi_%d", i+1))
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, st := range states {
		row := []string{
			string(st.Marker),
			strconv.FormatFloat(st.Time(), 'g', -1, 64),
			strconv.FormatFloat(st.Travel(), 'g', -1, 64),
			strconv.FormatFloat(st.Velocity(), 'g', -1, 64),
			strconv.FormatFloat(st.BreechPressure(), 'g', -1, 64),
			strconv.FormatFloat(st.AveragePressure(), 'g', -1, 64),
			strconv.FormatFloat(st.ShotPressure(), 'g', -1, 64),
		}
		for _, psi := range st.VolumeBurnupFractions() {
			row = append(row, strconv.FormatFloat(psi, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

// Load reads one run's metadata.
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

// List returns all run metadata, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var runs []RunMetadata
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := s.Load(e.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

// LoadHistory reads back the numeric columns of a saved run: times,
// average pressures and velocities.
func (s *Store) LoadHistory(runID string) (times, pressures, velocities []float64, err error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, nil, err
	}

	for i, rec := range records {
		if i == 0 || len(rec) < 7 {
			continue
		}
		t, err1 := strconv.ParseFloat(rec[1], 64)
		p, err2 := strconv.ParseFloat(rec[5], 64)
		v, err3 := strconv.ParseFloat(rec[3], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		times = append(times, t)
		pressures = append(pressures, p)
		velocities = append(velocities, v)
	}
	return times, pressures, velocities, nil
}

func sanitize(name string) string {
	if name == "" {
		return "run"
	}
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r == ' ' || r == '/' || r == '\\':
			out = append(out, '_')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
