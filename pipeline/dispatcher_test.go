package pipeline

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDispatcherSingleSubscriberDemand(t *testing.T) {
	d := NewDispatcher[int]()
	sub := d.Subscribe()

	done := make(chan bool)
	go func() {
		done <- d.Emit(1)
	}()

	select {
	case <-sub.C():
		t.Fatal("value delivered before demand was requested")
	case <-time.After(20 * time.Millisecond):
	}

	sub.Request(1)
	assert.Equal(t, 1, <-sub.C())
	assert.True(t, <-done)
}

func TestDispatcherArrivalOrderFanout(t *testing.T) {
	d := NewDispatcher[int]()
	first := d.Subscribe()
	second := d.Subscribe()
	first.Request(1)
	second.Request(1)

	assert.True(t, d.Emit(10))
	assert.Equal(t, 10, <-first.C())

	assert.True(t, d.Emit(20))
	assert.Equal(t, 20, <-second.C())
}

func TestDispatcherCancelRemovesSubscriber(t *testing.T) {
	d := NewDispatcher[int]()
	sub := d.Subscribe()
	sub.Request(5)
	sub.Cancel()

	_, open := <-sub.C()
	assert.False(t, open)

	other := d.Subscribe()
	other.Request(1)
	assert.True(t, d.Emit(7))
	assert.Equal(t, 7, <-other.C())
}

func TestDispatcherCloseUnblocksEmit(t *testing.T) {
	d := NewDispatcher[int]()
	d.Subscribe()

	var wg sync.WaitGroup
	wg.Add(1)
	var result bool
	go func() {
		defer wg.Done()
		result = d.Emit(1)
	}()

	time.Sleep(20 * time.Millisecond)
	d.Close()
	wg.Wait()
	assert.False(t, result)
}

func TestDispatcherWorkConservingAcrossManyItems(t *testing.T) {
	d := NewDispatcher[int]()
	sub := d.Subscribe()
	sub.Request(3)

	go func() {
		for i := 0; i < 3; i++ {
			d.Emit(i)
		}
	}()

	for i := 0; i < 3; i++ {
		assert.Equal(t, i, <-sub.C())
	}
}
