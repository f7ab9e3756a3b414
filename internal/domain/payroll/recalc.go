package payroll

import (
	"strconv"
	"strings"
)

// ParseAmount parses an operator-entered cell value into yen. Anything
// that is not a plain non-negative integer is rejected so the caller can
// leave the record untouched.
func ParseAmount(raw string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if v < 0 {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// ApplyEdit sets an editable field, records the override, and recomputes
// the derived totals. Applying the same edit twice leaves the record in
// the same state as applying it once: totals are always recomputed from
// the full field set, never accumulated.
func (r *PayrollRecord) ApplyEdit(field EditableField, amount int64) error {
	if amount < 0 {
		return ErrInvalidAmount
	}

	switch field {
	case FieldOvertime:
		r.Overtime = amount
	case FieldIncomeTax:
		r.IncomeTax = amount
	case FieldAdvance:
		r.Advance = amount
	case FieldOtherDeduction:
		r.OtherDeduction = amount
	default:
		return ErrUnknownField
	}

	r.markEdited(field)
	r.Recalculate()
	return nil
}

// Recalculate rebuilds the three derived totals from the full field set,
// in a fixed order: pay subtotal, then deduction subtotal, then net pay.
// Net pay may go negative; no floor is enforced.
func (r *PayrollRecord) Recalculate() {
	r.PayTotal = r.BasePay + r.Overtime + r.Transport
	r.DeductionTotal = r.IncomeTax + r.SocialInsurance + r.ResidentTax + r.Advance + r.OtherDeduction
	r.NetPay = r.PayTotal - r.DeductionTotal
}

func (r *PayrollRecord) markEdited(field EditableField) {
	if r.WasEdited(field) {
		return
	}
	r.EditedFields = append(r.EditedFields, field)
}
