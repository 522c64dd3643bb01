package history_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/five82/thermo/internal/clock"
	"github.com/five82/thermo/internal/history"
	"github.com/five82/thermo/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestAppendReturnsWindow(t *testing.T) {
	fake := clock.NewFake(t0)
	s := history.New(history.NewMemoryStorage(), fake, 5*time.Minute, logging.Logger{})

	s.Append(history.Temperature, 20.0)
	fake.Advance(10 * time.Second)
	got := s.Append(history.Temperature, 20.5)

	require.Len(t, got, 2)
	assert.Equal(t, 20.0, got[0].Value)
	assert.Equal(t, "09:00:10", got[1].Label)
	assert.True(t, got[1].CapturedAt.Equal(t0.Add(10*time.Second)))
}

func TestAppendPrunesExpired(t *testing.T) {
	fake := clock.NewFake(t0)
	s := history.New(history.NewMemoryStorage(), fake, 5*time.Minute, logging.Logger{})

	s.Append(history.Temperature, 19.0)
	fake.Advance(3 * time.Minute)
	s.Append(history.Temperature, 20.0)
	fake.Advance(3 * time.Minute)
	got := s.Append(history.Temperature, 21.0)

	_, values := history.Split(got)
	assert.Equal(t, []float64{20.0, 21.0}, values)
	for _, sample := range s.Window(history.Temperature) {
		assert.LessOrEqual(t, fake.Now().Sub(sample.CapturedAt), 5*time.Minute)
	}
}

func TestWindowPrunesOnRead(t *testing.T) {
	fake := clock.NewFake(t0)
	s := history.New(history.NewMemoryStorage(), fake, time.Minute, logging.Logger{})
	s.Append(history.Temperature, 19.0)

	fake.Set(t0.Add(2 * time.Minute))

	assert.Empty(t, s.Window(history.Temperature))
}

func TestMetricsAreIndependent(t *testing.T) {
	s := history.New(history.NewMemoryStorage(), clock.NewFake(t0), 0, logging.Logger{})

	s.Append(history.Temperature, 22.0)
	s.Append(history.DeviceState, 2)
	s.Append(history.DeviceState, 1)

	assert.Equal(t, []float64{22.0}, s.Values(history.Temperature))
	assert.Equal(t, []float64{2, 1}, s.Values(history.DeviceState))
}

func TestPruneIsIdempotent(t *testing.T) {
	now := t0.Add(10 * time.Minute)
	samples := []history.Sample{
		{Value: 1, CapturedAt: t0},
		{Value: 2, CapturedAt: now.Add(-5 * time.Minute)},
		{Value: 3, CapturedAt: now.Add(-time.Minute)},
		{Value: 3, CapturedAt: now.Add(-time.Minute)},
	}

	once := history.Prune(samples, now, 5*time.Minute)
	twice := history.Prune(once, now, 5*time.Minute)

	assert.Equal(t, once, twice)
	assert.Len(t, once, 3, "boundary sample is kept, repeated timestamps both stay")
}

func TestPersistedLayout(t *testing.T) {
	storage := history.NewMemoryStorage()
	s := history.New(storage, clock.NewFake(t0), 0, logging.Logger{})
	s.Append(history.Temperature, 21.5)

	data, err := storage.Load(history.Temperature)
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, 21.5, raw[0]["value"])
	assert.Equal(t, "2026-03-01T09:00:00Z", raw[0]["timestamp"])
	assert.Equal(t, "09:00:00", raw[0]["label"])
}

func TestCorruptHistoryFailsOpen(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.Wrap(slog.New(slog.NewTextHandler(&buf, nil)))
	storage := history.NewMemoryStorage()
	require.NoError(t, storage.Save(history.Temperature, []byte("{not json")))
	s := history.New(storage, clock.NewFake(t0), 0, logger)

	assert.Empty(t, s.Window(history.Temperature))
	assert.Contains(t, buf.String(), "history unreadable")

	got := s.Append(history.Temperature, 20.0)
	assert.Len(t, got, 1)
}

type brokenStorage struct{ err error }

func (b brokenStorage) Load(string) ([]byte, error) { return nil, b.err }
func (b brokenStorage) Save(string, []byte) error  { return b.err }

func TestStorageErrorsAreSwallowed(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.Wrap(slog.New(slog.NewTextHandler(&buf, nil)))
	s := history.New(brokenStorage{errors.New("disk gone")}, clock.NewFake(t0), 0, logger)

	got := s.Append(history.Temperature, 20.0)

	assert.Len(t, got, 1, "in-memory window still returned")
	assert.Contains(t, buf.String(), "history save failed")
}

func TestStorageReadErrorUnwraps(t *testing.T) {
	cause := errors.New("boom")
	err := error(&history.StorageReadError{Key: history.Temperature, Err: cause})

	assert.ErrorIs(t, err, cause)
	assert.EqualError(t, err, "read history temperature_history: boom")
}

func TestDeviceStateLevel(t *testing.T) {
	assert.Equal(t, 0.0, history.DeviceStateLevel("APAGADO"))
	assert.Equal(t, 1.0, history.DeviceStateLevel("enfriando"))
	assert.Equal(t, 2.0, history.DeviceStateLevel("CALENTANDO"))
	assert.Equal(t, 0.0, history.DeviceStateLevel("ENCENDIDO"))
	assert.Equal(t, 0.0, history.DeviceStateLevel("Error"))
}

func TestSQLiteStorageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db", "history.db")
	storage, err := history.OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	data, err := storage.Load(history.Temperature)
	require.NoError(t, err)
	require.Nil(t, data)

	fake := clock.NewFake(t0)
	s := history.New(storage, fake, 0, logging.Logger{})
	s.Append(history.Temperature, 20.0)
	fake.Advance(time.Second)
	s.Append(history.Temperature, 20.4)

	require.NoError(t, storage.Close())

	reopened, err := history.OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	again := history.New(reopened, fake, 0, logging.Logger{})
	assert.Equal(t, []float64{20.0, 20.4}, again.Values(history.Temperature))
}

func TestLookupRange(t *testing.T) {
	r, ok := history.LookupRange("6h")
	require.True(t, ok)
	assert.True(t, r.Remote)
	assert.Equal(t, 360, r.Limit)

	local, ok := history.LookupRange(history.DefaultRangeKey)
	require.True(t, ok)
	assert.False(t, local.Remote)

	_, ok = history.LookupRange("1w")
	assert.False(t, ok)
}
