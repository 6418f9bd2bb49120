package debounce

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBurstCoalescesToOneRun(t *testing.T) {
	d := New(30 * time.Millisecond)
	defer d.Stop()

	var runs int32
	for i := 0; i < 5; i++ {
		d.Trigger(func() { atomic.AddInt32(&runs, 1) })
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))
}

func TestLastTriggerWins(t *testing.T) {
	d := New(20 * time.Millisecond)
	defer d.Stop()

	var got int32
	d.Trigger(func() { atomic.StoreInt32(&got, 1) })
	d.Trigger(func() { atomic.StoreInt32(&got, 2) })

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(2), atomic.LoadInt32(&got))
}

func TestStopCancelsPendingRun(t *testing.T) {
	d := New(20 * time.Millisecond)

	var runs int32
	d.Trigger(func() { atomic.AddInt32(&runs, 1) })
	d.Stop()

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&runs))
}

func TestSpacedTriggersEachRun(t *testing.T) {
	d := New(10 * time.Millisecond)
	defer d.Stop()

	var runs int32
	d.Trigger(func() { atomic.AddInt32(&runs, 1) })
	time.Sleep(50 * time.Millisecond)
	d.Trigger(func() { atomic.AddInt32(&runs, 1) })
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, int32(2), atomic.LoadInt32(&runs))
}
