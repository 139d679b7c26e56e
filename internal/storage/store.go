package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/rigidsim/internal/world"
)

var ErrRunNotFound = errors.New("storage: run not found")

var timelineHeader = []string{
	"step", "time", "bodies", "active_bodies", "islands", "active_islands",
	"handlers", "sub_pairs", "pairs_added", "pairs_removed", "slept", "woke",
}

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
	Scene     string             `json:"scene"`
	Preset    string             `json:"preset,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	Steps     int                `json:"steps"`
	Workers   int                `json:"workers"`
	Bodies    int                `json:"bodies"`
	Elapsed   time.Duration      `json:"elapsed_ns"`
	Summary   map[string]float64 `json:"summary"`
}

// Save writes metadata.json and timeline.csv under a fresh run directory.
// ID, Timestamp and Summary are filled in.
func (s *Store) Save(meta RunMetadata, timeline []world.Stats) (string, error) {
	meta.Timestamp = time.Now()
	meta.ID = fmt.Sprintf("%s_%d", meta.Scene, meta.Timestamp.UnixNano())
	meta.Summary = Summarize(timeline)
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", fmt.Errorf("write metadata: %w", err)
	}

	csvFile, err := os.Create(filepath.Join(runDir, "timeline.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(timelineHeader); err != nil {
		return "", err
	}
	for _, st := range timeline {
		if err := w.Write(statsRow(st)); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("write timeline: %w", err)
	}

	return meta.ID, nil
}

func statsRow(st world.Stats) []string {
	itoa := strconv.Itoa
	return []string{
		itoa(st.Step),
		strconv.FormatFloat(st.Time, 'f', 6, 64),
		itoa(st.Bodies), itoa(st.ActiveBodies),
		itoa(st.Islands), itoa(st.ActiveIslands),
		itoa(st.Handlers), itoa(st.SubPairs),
		itoa(st.PairsAdded), itoa(st.PairsRemoved),
		itoa(st.Slept), itoa(st.Woke),
	}
}

// List returns every readable run, oldest first.
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
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata %s: %w", runID, err)
	}

	return &meta, nil
}

func (s *Store) LoadTimeline(runID string) ([]world.Stats, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "timeline.csv"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(timelineHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read timeline %s: %w", runID, err)
	}
	if len(records) < 2 {
		return []world.Stats{}, nil
	}

	timeline := make([]world.Stats, 0, len(records)-1)
	for i, record := range records[1:] {
		st, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("timeline %s row %d: %w", runID, i+1, err)
		}
		timeline = append(timeline, st)
	}

	return timeline, nil
}

func parseRow(record []string) (world.Stats, error) {
	var st world.Stats
	var err error
	if st.Time, err = strconv.ParseFloat(record[1], 64); err != nil {
		return st, err
	}
	ints := []*int{
		&st.Step, nil, &st.Bodies, &st.ActiveBodies, &st.Islands, &st.ActiveIslands,
		&st.Handlers, &st.SubPairs, &st.PairsAdded, &st.PairsRemoved, &st.Slept, &st.Woke,
	}
	for i, dst := range ints {
		if dst == nil {
			continue
		}
		if *dst, err = strconv.Atoi(record[i]); err != nil {
			return st, err
		}
	}
	return st, nil
}
