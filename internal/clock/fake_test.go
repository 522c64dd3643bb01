package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func TestFake_AfterFiresOnlyOnceDeadlineReached(t *testing.T) {
	f := NewFake(epoch)
	ch := f.After(2 * time.Second)

	f.Advance(time.Second)
	assert.Empty(t, ch, "After fired before deadline")

	f.Advance(time.Second)
	require.Len(t, ch, 1, "After did not fire at deadline")
	got := <-ch
	assert.True(t, got.Equal(epoch.Add(2*time.Second)), "After delivered %v", got)
	assert.Zero(t, f.Pending())
}

func TestFake_AfterZeroFiresImmediately(t *testing.T) {
	f := NewFake(epoch)
	assert.Len(t, f.After(0), 1, "After(0) should fire immediately")
}

func TestFake_TickerRepeatsUntilStopped(t *testing.T) {
	f := NewFake(epoch)
	tk := f.NewTicker(time.Second)

	for i := 0; i < 3; i++ {
		f.Advance(time.Second)
		select {
		case <-tk.C():
		default:
			t.Fatalf("tick %d missing", i)
		}
	}

	tk.Stop()
	f.Advance(time.Second)
	assert.Empty(t, tk.C(), "stopped ticker fired")
}

func TestFake_SetDoesNotFire(t *testing.T) {
	f := NewFake(epoch)
	ch := f.After(time.Second)
	f.Set(epoch.Add(time.Hour))

	assert.True(t, f.Now().Equal(epoch.Add(time.Hour)), "Now = %v", f.Now())
	assert.Empty(t, ch, "Set should not fire timers")
}
