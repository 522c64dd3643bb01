package history

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/five82/thermo/internal/clock"
	"github.com/five82/thermo/internal/logging"
)

// Metric keys.
const (
	Temperature = "temperature_history"
	DeviceState = "device_state_history"
)

// DefaultWindow is how long samples are kept.
const DefaultWindow = 5 * time.Minute

// LabelLayout formats Sample.Label.
const LabelLayout = "15:04:05"

// Sample is one recorded reading.
type Sample struct {
	Value      float64   `json:"value"`
	CapturedAt time.Time `json:"timestamp"`
	Label      string    `json:"label"`
}

// StorageReadError reports a window that could not be loaded or decoded.
type StorageReadError struct {
	Key string
	Err error
}

func (e *StorageReadError) Error() string {
	return fmt.Sprintf("read history %s: %v", e.Key, e.Err)
}

func (e *StorageReadError) Unwrap() error { return e.Err }

// Store appends samples and prunes them by age. It expects a single writer.
type Store struct {
	storage Storage
	clock   clock.Clock
	window  time.Duration
	logger  logging.Logger
}

// New returns a Store over storage. A non-positive window uses DefaultWindow.
func New(storage Storage, clk clock.Clock, window time.Duration, logger logging.Logger) *Store {
	if storage == nil {
		storage = NewMemoryStorage()
	}
	if clk == nil {
		clk = clock.Real
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Store{storage: storage, clock: clk, window: window, logger: logger}
}

// Append records value for metric now and returns the pruned window. A failed
// save is logged and the in-memory window is still returned.
func (s *Store) Append(metric string, value float64) []Sample {
	now := s.clock.Now()
	samples := Prune(s.read(metric), now, s.window)
	samples = append(samples, Sample{Value: value, CapturedAt: now, Label: now.Format(LabelLayout)})
	samples = Prune(samples, now, s.window)

	data, err := json.Marshal(samples)
	if err == nil {
		err = s.storage.Save(metric, data)
	}
	if err != nil {
		s.logger.Warn("history save failed", "key", metric, "err", err)
	}
	return samples
}

// Window returns the samples for metric that are still inside the window.
func (s *Store) Window(metric string) []Sample {
	return Prune(s.read(metric), s.clock.Now(), s.window)
}

// Series returns chart labels and values for metric.
func (s *Store) Series(metric string) ([]string, []float64) {
	return Split(s.Window(metric))
}

// Values returns just the sample values for metric, oldest first.
func (s *Store) Values(metric string) []float64 {
	_, values := s.Series(metric)
	return values
}

func (s *Store) read(metric string) []Sample {
	samples, err := s.load(metric)
	if err != nil {
		s.logger.Warn("history unreadable, starting empty", "key", metric, "err", err)
		return nil
	}
	return samples
}

func (s *Store) load(metric string) ([]Sample, error) {
	data, err := s.storage.Load(metric)
	if err != nil {
		return nil, &StorageReadError{Key: metric, Err: err}
	}
	if len(data) == 0 {
		return nil, nil
	}
	var samples []Sample
	if err := json.Unmarshal(data, &samples); err != nil {
		return nil, &StorageReadError{Key: metric, Err: fmt.Errorf("decode: %w", err)}
	}
	return samples, nil
}

// Prune drops samples captured more than window before now. Order is kept.
func Prune(samples []Sample, now time.Time, window time.Duration) []Sample {
	cutoff := now.Add(-window)
	out := make([]Sample, 0, len(samples)+1)
	for _, sample := range samples {
		if !sample.CapturedAt.Before(cutoff) {
			out = append(out, sample)
		}
	}
	return out
}

// Split separates samples into labels and values.
func Split(samples []Sample) ([]string, []float64) {
	labels := make([]string, len(samples))
	values := make([]float64, len(samples))
	for i, sample := range samples {
		labels[i] = sample.Label
		values[i] = sample.Value
	}
	return labels, values
}

// DeviceStateLevel maps a device state to its chart level: off 0, cooling 1,
// heating 2. Anything else, including "encendido", plots as 0.
func DeviceStateLevel(state string) float64 {
	switch strings.ToUpper(strings.TrimSpace(state)) {
	case "ENFRIANDO":
		return 1
	case "CALENTANDO":
		return 2
	default:
		return 0
	}
}
