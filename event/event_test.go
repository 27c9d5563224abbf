package event

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"corewar/point"
)

func TestCollectSinkAccumulatesInOrder(t *testing.T) {
	s := &CollectSink{}
	s.Emit(Event{Type: Executed, PC: point.Point{X: 1}})
	s.Emit(Event{Type: ProcessKilled, PC: point.Point{X: 2}})

	assert.Len(t, s.Events, 2)
	assert.Equal(t, Executed, s.Events[0].Type)
	assert.Equal(t, ProcessKilled, s.Events[1].Type)
}

func TestTeeForwardsToBoth(t *testing.T) {
	a := &CollectSink{}
	b := &CollectSink{}
	tee := Tee{A: a, B: b}

	tee.Emit(Event{Type: Write})

	assert.Len(t, a.Events, 1)
	assert.Len(t, b.Events, 1)
}

func TestNopSinkDiscards(t *testing.T) {
	var s NopSink
	assert.NotPanics(t, func() { s.Emit(Event{Type: Executed}) })
}
