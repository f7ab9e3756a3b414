package advance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeAvailableAdvance(t *testing.T) {
	tests := []struct {
		name               string
		dailyWage          int64
		transport          int64
		estimatedDeduction int64
		alreadyAdvanced    int64
		want               int64
	}{
		{"mid-month headroom", 180000, 8000, 40000, 60000, 88000},
		{"already over-advanced clamps to zero", 180000, 8000, 40000, 200000, 0},
		{"no prior advances", 180000, 8000, 40000, 0, 148000},
		{"deductions exceed gross", 50000, 0, 80000, 0, 0},
		{"all zero", 0, 0, 0, 0, 0},
		{"exactly exhausted", 100000, 0, 40000, 60000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeAvailableAdvance(tt.dailyWage, tt.transport, tt.estimatedDeduction, tt.alreadyAdvanced)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, int64(0))
		})
	}
}

func TestDefaultConfirmAmount(t *testing.T) {
	amount := int64(30000)

	specified := AdvanceRequest{
		Type:            TypeSpecified,
		RequestedAmount: &amount,
		Detail:          RequestDetail{AvailableAdvance: 88000},
	}
	assert.Equal(t, int64(30000), specified.DefaultConfirmAmount())

	max := AdvanceRequest{
		Type:   TypeMax,
		Detail: RequestDetail{AvailableAdvance: 88000},
	}
	assert.Equal(t, int64(88000), max.DefaultConfirmAmount())
}

func TestDecided(t *testing.T) {
	assert.False(t, (&AdvanceRequest{Status: StatusPending}).Decided())
	assert.True(t, (&AdvanceRequest{Status: StatusApproved}).Decided())
	assert.True(t, (&AdvanceRequest{Status: StatusRejected}).Decided())
}
