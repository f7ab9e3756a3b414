package advance

// ComputeAvailableAdvance returns the maximum permissible mid-month
// advance: provisional gross pay minus estimated deductions minus what
// was already advanced this month, floored at zero. Inputs are
// provisional estimates; divergence from the payroll close is expected
// and disclosed to the approver, not resolved here.
func ComputeAvailableAdvance(dailyWage, transport, estimatedDeduction, alreadyAdvanced int64) int64 {
	grossPay := dailyWage + transport
	available := grossPay - estimatedDeduction - alreadyAdvanced
	if available < 0 {
		return 0
	}
	return available
}
