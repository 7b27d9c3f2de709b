package storage

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/ark1700/fractal-generator/internal/fractal"
)

// Store keeps one directory per generation run with its parameters and
// per-band timings. Pixels are never written; only their checksum is kept.
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
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Params    fractal.Params `json:"params"`
	Mode      string         `json:"mode"`
	Backend   string         `json:"backend"`
	BandRows  int            `json:"band_rows"`
	Bands     int            `json:"bands"`
	ElapsedMs float64        `json:"elapsed_ms"`
	Checksum  string         `json:"checksum,omitempty"`
	Status    string         `json:"status"`
	Error     string         `json:"error,omitempty"`

	Metrics map[string]float64 `json:"metrics,omitempty"`
}

// BandTiming records how long one band took to compute and deliver.
type BandTiming struct {
	StartRow int     `json:"start_row"`
	Height   int     `json:"height"`
	Progress int     `json:"progress"`
	Millis   float64 `json:"ms"`
}

const (
	StatusComplete = "complete"
	StatusError    = "error"
	StatusCanceled = "canceled"
)

// Checksum hashes pixel data so runs can be compared without storing images.
func Checksum(pix []uint8) string {
	sum := sha256.Sum256(pix)
	return hex.EncodeToString(sum[:])
}

func (s *Store) Save(meta RunMetadata, bands []BandTiming) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("%s_%d", meta.Mode, meta.Timestamp.UnixNano())
	}
	meta.Bands = len(bands)

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
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "bands.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"start_row", "height", "progress", "ms"}); err != nil {
		return "", err
	}
	for _, b := range bands {
		row := []string{
			strconv.Itoa(b.StartRow),
			strconv.Itoa(b.Height),
			strconv.Itoa(b.Progress),
			strconv.FormatFloat(b.Millis, 'f', 3, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return meta.ID, nil
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
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

func (s *Store) LoadBands(runID string) ([]BandTiming, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "bands.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 4

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	bands := make([]BandTiming, 0, len(records))
	for i, record := range records {
		if i == 0 {
			continue
		}

		var b BandTiming
		if b.StartRow, err = strconv.Atoi(record[0]); err != nil {
			return nil, fmt.Errorf("bands.csv line %d: %w", i+1, err)
		}
		if b.Height, err = strconv.Atoi(record[1]); err != nil {
			return nil, fmt.Errorf("bands.csv line %d: %w", i+1, err)
		}
		if b.Progress, err = strconv.Atoi(record[2]); err != nil {
			return nil, fmt.Errorf("bands.csv line %d: %w", i+1, err)
		}
		if b.Millis, err = strconv.ParseFloat(record[3], 64); err != nil {
			return nil, fmt.Errorf("bands.csv line %d: %w", i+1, err)
		}
		bands = append(bands, b)
	}
	return bands, nil
}

type ExportData struct {
	RunMetadata
	BandTimings []BandTiming `json:"band_timings"`
}

// ExportJSON writes a run and its band timings as indented JSON.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	bands, err := s.LoadBands(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{RunMetadata: *meta, BandTimings: bands})
}
