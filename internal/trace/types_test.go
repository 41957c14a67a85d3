package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTagsAddDeduplicates(t *testing.T) {
	var tags Tags
	tags.Add(Fetch)
	tags.Add(Branch)
	tags.Add(Fetch)
	assert.Equal(t, Tags{Fetch, Branch}, tags)
	assert.Equal(t, Fetch, tags.Primary())
}

func TestTagsStringsCarryHashPrefix(t *testing.T) {
	tags := Tags{Trap, Hook}
	assert.Equal(t, []string{"#trap", "#hook"}, tags.Strings())
}

func TestEventAnnotate(t *testing.T) {
	ev := NewEvent(0x1000, "fetch", "LDA", "mode=imm")
	ev.Annotate("a", "0x41")
	assert.Equal(t, "0x41", ev.Annotations.Get("a"))
	assert.Equal(t, "#fetch", ev.PrimaryTag())
}

func TestRingOverwritesOldestWhenFull(t *testing.T) {
	r := NewRing(3)
	for i := 0; i < 5; i++ {
		r.Push(NewEvent(uint16(i), "fetch", "NOP", ""))
	}

	recent := r.Recent(3)
	assert.Len(t, recent, 3)
	assert.Equal(t, uint16(2), recent[0].PC)
	assert.Equal(t, uint16(4), recent[2].PC)
}

func TestRingRecentClampsToCount(t *testing.T) {
	r := NewRing(8)
	r.Push(NewEvent(0x10, "fetch", "NOP", ""))

	recent := r.Recent(5)
	assert.Len(t, recent, 1)
	assert.Equal(t, uint16(0x10), recent[0].PC)
}
