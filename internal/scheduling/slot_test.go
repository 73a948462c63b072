package scheduling

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlot_Bands(t *testing.T) {
	tests := []struct {
		name     string
		urgency  int
		count    int
		wantTime string
	}{
		{name: "high urgency first slot", urgency: 9, count: 0, wantTime: "09:00"},
		{name: "high urgency second slot", urgency: 8, count: 1, wantTime: "09:30"},
		{name: "high urgency last slot", urgency: 10, count: 5, wantTime: "11:30"},
		{name: "medium urgency first slot", urgency: 5, count: 0, wantTime: "12:00"},
		{name: "medium urgency third slot", urgency: 7, count: 2, wantTime: "13:00"},
		{name: "low urgency first slot", urgency: 3, count: 0, wantTime: "15:00"},
		{name: "low urgency last slot", urgency: 1, count: 3, wantTime: "16:30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateSlot(tt.urgency, tt.count)
			assert.Equal(t, tt.wantTime, got.String())
		})
	}
}

func TestGenerateSlot_WithinBusinessHours(t *testing.T) {
	for urgency := 1; urgency <= 10; urgency++ {
		for count := 0; count < 40; count++ {
			got := GenerateSlot(urgency, count)

			minutes := got.Hour*60 + got.Minute
			assert.GreaterOrEqual(t, minutes, 9*60,
				"urgency %d count %d before opening", urgency, count)
			assert.Less(t, minutes, 17*60,
				"urgency %d count %d after closing", urgency, count)
			assert.Contains(t, []int{0, 30}, got.Minute)
		}
	}
}

func TestGenerateSlot_BandBoundaries(t *testing.T) {
	for count := 0; count < 20; count++ {
		high := GenerateSlot(8, count)
		assert.Less(t, high.Hour, 12, "high urgency must stay in the morning")

		medium := GenerateSlot(4, count)
		assert.GreaterOrEqual(t, medium.Hour, 12)
		assert.Less(t, medium.Hour, 15)

		low := GenerateSlot(3, count)
		assert.GreaterOrEqual(t, low.Hour, 15)
	}
}

func TestGenerateSlot_CyclesWithinBand(t *testing.T) {
	bandSizes := map[int]int{9: 6, 5: 6, 2: 4}

	for urgency, size := range bandSizes {
		t.Run(fmt.Sprintf("urgency_%d", urgency), func(t *testing.T) {
			for count := 0; count < size*2; count++ {
				assert.Equal(t,
					GenerateSlot(urgency, count),
					GenerateSlot(urgency, count+size),
					"slots must cycle with period %d", size)
			}
		})
	}
}
