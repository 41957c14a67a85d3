package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeHookFiresWithinRange(t *testing.T) {
	ht := NewHookTable()
	var fired []uint16
	ht.Add(HookCode, 0x1000, 0x1002, func(pc uint16, length int, userData any) {
		fired = append(fired, pc)
	}, nil, nil)

	ht.FireCode(0x1000, 1)
	ht.FireCode(0x1001, 1)
	ht.FireCode(0x1002, 1) // end is exclusive, should not fire

	assert.Equal(t, []uint16{0x1000, 0x1001}, fired)
}

func TestHookFastPathSingleAddress(t *testing.T) {
	ht := NewHookTable()
	ht.Add(HookCode, 0x2000, 0x2001, func(pc uint16, length int, userData any) {}, nil, nil)
	assert.True(t, ht.code.fastValid)
}

func TestHookFastPathInvalidatedByRangeHook(t *testing.T) {
	ht := NewHookTable()
	ht.Add(HookCode, 0x2000, 0x2001, func(pc uint16, length int, userData any) {}, nil, nil)
	ht.Add(HookCode, 0x3000, 0x3010, func(pc uint16, length int, userData any) {}, nil, nil)
	assert.False(t, ht.code.fastValid)
}

func TestHookFastPathInvalidatedByDuplicateAddress(t *testing.T) {
	ht := NewHookTable()
	ht.Add(HookCode, 0x2000, 0x2001, func(pc uint16, length int, userData any) {}, nil, nil)
	ht.Add(HookCode, 0x2000, 0x2001, func(pc uint16, length int, userData any) {}, nil, nil)
	assert.False(t, ht.code.fastValid)
}

func TestHookRemovalStopsFiring(t *testing.T) {
	ht := NewHookTable()
	fired := false
	handle := ht.Add(HookCode, 0x4000, 0x4001, func(pc uint16, length int, userData any) {
		fired = true
	}, nil, nil)
	ht.Del(handle)
	ht.FireCode(0x4000, 1)
	assert.False(t, fired)
}

func TestHookRemovalRebuildsFastMap(t *testing.T) {
	ht := NewHookTable()
	h1 := ht.Add(HookCode, 0x1000, 0x1001, func(pc uint16, length int, userData any) {}, nil, nil)
	ht.Add(HookCode, 0x2000, 0x2001, func(pc uint16, length int, userData any) {}, nil, nil)
	ht.Del(h1)
	assert.True(t, ht.code.fastValid)
	assert.Len(t, ht.code.fast, 1)
	_, ok := ht.code.fast[0x2000]
	assert.True(t, ok)
}

func TestMemHookSlicesValuePerSubRange(t *testing.T) {
	ht := NewHookTable()
	type seen struct {
		addr uint16
		val  []byte
	}
	var got []seen
	ht.Add(HookMemWrite, 0x2000, 0x2002, nil, func(access int, addr uint16, size int, value []byte, userData any) {
		got = append(got, seen{addr, append([]byte(nil), value...)})
	}, nil)

	ht.FireMemWriteBulk(0x1FFF, 4, []byte{0xAA, 0xBB, 0xCC, 0xDD})

	assert.Equal(t, []seen{
		{0x2000, []byte{0xBB, 0xCC}},
	}, got)
}

func TestMemHookRangeCoveringFullBulkWrite(t *testing.T) {
	ht := NewHookTable()
	var gotAddr uint16
	var gotVal []byte
	ht.Add(HookMemWrite, 0x3000, 0x3010, nil, func(access int, addr uint16, size int, value []byte, userData any) {
		gotAddr = addr
		gotVal = value
	}, nil)

	ht.FireMemWriteBulk(0x3004, 3, []byte{1, 2, 3})
	assert.Equal(t, uint16(0x3004), gotAddr)
	assert.Equal(t, []byte{1, 2, 3}, gotVal)
}
