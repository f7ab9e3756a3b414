package payroll

import (
	"context"
	"fmt"
	"testing"

	"github.com/hakenworks/staffing-backend-go/internal/domain/advance"
	"github.com/hakenworks/staffing-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== IN-MEMORY FAKES =====

type fakePayrollRepo struct {
	runs        map[string]payroll.PayrollRun
	records     map[string][]payroll.PayrollRecord
	sourceRows  map[string][]payroll.SourceRow
	priorTotals map[string]int64
	nextID      int
}

func newFakePayrollRepo() *fakePayrollRepo {
	return &fakePayrollRepo{
		runs:        make(map[string]payroll.PayrollRun),
		records:     make(map[string][]payroll.PayrollRecord),
		sourceRows:  make(map[string][]payroll.SourceRow),
		priorTotals: make(map[string]int64),
	}
}

func (f *fakePayrollRepo) GetRun(_ context.Context, month string) (payroll.PayrollRun, error) {
	run, ok := f.runs[month]
	if !ok {
		return payroll.PayrollRun{}, payroll.ErrRunNotFound
	}
	return run, nil
}

func (f *fakePayrollRepo) SaveRun(_ context.Context, run payroll.PayrollRun) (payroll.PayrollRun, error) {
	f.runs[run.ProcessingMonth] = run
	return run, nil
}

func (f *fakePayrollRepo) ListRecords(_ context.Context, month string) ([]payroll.PayrollRecord, error) {
	return f.records[month], nil
}

func (f *fakePayrollRepo) GetRecord(_ context.Context, month string, workerID string) (payroll.PayrollRecord, error) {
	for _, r := range f.records[month] {
		if r.WorkerID == workerID {
			return r, nil
		}
	}
	return payroll.PayrollRecord{}, payroll.ErrRecordNotFound
}

func (f *fakePayrollRepo) UpdateRecord(_ context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	records := f.records[record.ProcessingMonth]
	for i, r := range records {
		if r.WorkerID == record.WorkerID {
			records[i] = record
			return record, nil
		}
	}
	return payroll.PayrollRecord{}, payroll.ErrRecordNotFound
}

func (f *fakePayrollRepo) ReplaceRecords(_ context.Context, month string, records []payroll.PayrollRecord) ([]payroll.PayrollRecord, error) {
	stored := make([]payroll.PayrollRecord, 0, len(records))
	for _, r := range records {
		f.nextID++
		r.ID = fmt.Sprintf("rec-%d", f.nextID)
		stored = append(stored, r)
	}
	f.records[month] = stored
	return stored, nil
}

func (f *fakePayrollRepo) DeleteRecords(_ context.Context, month string) error {
	delete(f.records, month)
	return nil
}

func (f *fakePayrollRepo) GetSourceRows(_ context.Context, month string) ([]payroll.SourceRow, error) {
	return f.sourceRows[month], nil
}

func (f *fakePayrollRepo) GetPriorMonthNetTotal(_ context.Context, month string) (int64, error) {
	return f.priorTotals[month], nil
}

type stubAdvanceRepo struct {
	totals map[string]int64 // workerID -> approved monthly total
}

func (s *stubAdvanceRepo) Create(_ context.Context, req advance.AdvanceRequest) (advance.AdvanceRequest, error) {
	return req, nil
}

func (s *stubAdvanceRepo) GetByID(_ context.Context, _ string) (advance.AdvanceRequest, error) {
	return advance.AdvanceRequest{}, advance.ErrRequestNotFound
}

func (s *stubAdvanceRepo) List(_ context.Context, _ advance.RequestFilter) ([]advance.AdvanceRequest, int64, error) {
	return nil, 0, nil
}

func (s *stubAdvanceRepo) UpdateDecision(_ context.Context, req advance.AdvanceRequest) (advance.AdvanceRequest, error) {
	return req, nil
}

func (s *stubAdvanceRepo) MonthlyApprovedTotal(_ context.Context, workerID string, _ string) (int64, error) {
	return s.totals[workerID], nil
}

func (s *stubAdvanceRepo) History(_ context.Context, _ string, _ string) ([]advance.HistoryEntry, error) {
	return nil, nil
}

func (s *stubAdvanceRepo) GetProvisionalEarnings(_ context.Context, _ string, _ string) (advance.ProvisionalEarnings, error) {
	return advance.ProvisionalEarnings{}, advance.ErrWorkerNotFound
}

// ===== TEST SETUP =====

const testMonth = "2025-07"

func newTestService() (payroll.PayrollService, *fakePayrollRepo) {
	repo := newFakePayrollRepo()
	repo.sourceRows[testMonth] = []payroll.SourceRow{
		{
			WorkerID:        "w-001",
			WorkerNumber:    "0001",
			WorkerName:      "Yamada Taro",
			WorkDays:        20,
			Hours:           decimal.NewFromFloat(160.0),
			BasePay:         200000,
			Transport:       8000,
			SocialInsurance: 9000,
			ResidentTax:     4000,
			IncomeTax:       6000,
		},
		{
			WorkerID:        "w-002",
			WorkerNumber:    "0002",
			WorkerName:      "Suzuki Hanako",
			WorkDays:        18,
			Hours:           decimal.NewFromFloat(144.0),
			BasePay:         180000,
			Transport:       6000,
			SocialInsurance: 8000,
			ResidentTax:     3500,
			IncomeTax:       5000,
		},
	}

	advances := &stubAdvanceRepo{totals: map[string]int64{"w-001": 60000}}
	return NewPayrollService(repo, advances), repo
}

func editReq(workerID, field, value string) payroll.EditRecordRequest {
	return payroll.EditRecordRequest{WorkerID: workerID, Field: field, Value: value}
}

// ===== AGGREGATION =====

func TestRunAggregation_SeedsRecords(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	run, err := svc.RunAggregation(ctx, testMonth)
	require.NoError(t, err)

	assert.Equal(t, string(payroll.StatusAggregatedUnapproved), run.Status)
	assert.Equal(t, 2, run.Step)
	require.Len(t, run.Records, 2)

	first := run.Records[0]
	assert.Equal(t, "w-001", first.WorkerID)
	assert.Equal(t, int64(60000), first.Advance, "approved advance total seeds the advance cell")
	assert.Equal(t, int64(208000), first.PayTotal)
	assert.Equal(t, int64(79000), first.DeductionTotal)
	assert.Equal(t, int64(129000), first.NetPay)
	assert.Empty(t, first.EditedFields)

	second := run.Records[1]
	assert.Equal(t, int64(0), second.Advance, "worker without advances seeds zero")
}

func TestRunAggregation_ResetsEdits(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.RunAggregation(ctx, testMonth)
	require.NoError(t, err)

	_, err = svc.EditField(ctx, testMonth, editReq("w-001", "overtime", "15000"))
	require.NoError(t, err)

	run, err := svc.RunAggregation(ctx, testMonth)
	require.NoError(t, err)

	for _, r := range run.Records {
		assert.Empty(t, r.EditedFields)
	}
	assert.Equal(t, int64(0), run.Records[0].Overtime, "re-aggregation discards overrides")
}

func TestRunAggregation_RejectedAfterSubmit(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.RunAggregation(ctx, testMonth)
	require.NoError(t, err)
	_, err = svc.SubmitForApproval(ctx, testMonth)
	require.NoError(t, err)

	_, err = svc.RunAggregation(ctx, testMonth)
	assert.ErrorIs(t, err, payroll.ErrInvalidTransition)
}

func TestRunAggregation_InvalidMonth(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.RunAggregation(ctx, "2025-13")
	assert.ErrorIs(t, err, payroll.ErrInvalidMonth)
}

// ===== INLINE EDITS =====

func TestEditField_RecomputesTotals(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.RunAggregation(ctx, testMonth)
	require.NoError(t, err)

	record, err := svc.EditField(ctx, testMonth, editReq("w-001", "overtime", "15000"))
	require.NoError(t, err)

	assert.Equal(t, int64(223000), record.PayTotal)
	assert.Equal(t, int64(79000), record.DeductionTotal)
	assert.Equal(t, int64(144000), record.NetPay)
	assert.Equal(t, []string{"overtime"}, record.EditedFields)
}

func TestEditField_InvalidValueLeavesRecordUntouched(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()

	_, err := svc.RunAggregation(ctx, testMonth)
	require.NoError(t, err)
	before, err := repo.GetRecord(ctx, testMonth, "w-001")
	require.NoError(t, err)

	_, err = svc.EditField(ctx, testMonth, editReq("w-001", "overtime", "abc"))
	assert.ErrorIs(t, err, payroll.ErrInvalidAmount)

	_, err = svc.EditField(ctx, testMonth, editReq("w-001", "overtime", "-500"))
	assert.ErrorIs(t, err, payroll.ErrInvalidAmount)

	after, err := repo.GetRecord(ctx, testMonth, "w-001")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestEditField_UnknownField(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.RunAggregation(ctx, testMonth)
	require.NoError(t, err)

	_, err = svc.EditField(ctx, testMonth, editReq("w-001", "base_pay", "1"))
	assert.ErrorIs(t, err, payroll.ErrUnknownField)
}

func TestEditField_LockedRun(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.RunAggregation(ctx, testMonth)
	require.NoError(t, err)
	_, err = svc.SubmitForApproval(ctx, testMonth)
	require.NoError(t, err)

	_, err = svc.EditField(ctx, testMonth, editReq("w-001", "overtime", "15000"))
	assert.ErrorIs(t, err, payroll.ErrRunLocked)

	_, err = svc.Approve(ctx, testMonth)
	require.NoError(t, err)

	_, err = svc.EditField(ctx, testMonth, editReq("w-001", "overtime", "15000"))
	assert.ErrorIs(t, err, payroll.ErrRunLocked)
}

// ===== WORKFLOW =====

func TestWorkflow_FullCycle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	run, err := svc.GetRun(ctx, testMonth)
	require.NoError(t, err)
	assert.Equal(t, string(payroll.StatusNotAggregated), run.Status)
	assert.Equal(t, 1, run.Step)

	run, err = svc.RunAggregation(ctx, testMonth)
	require.NoError(t, err)
	assert.Equal(t, 2, run.Step)

	run, err = svc.SubmitForApproval(ctx, testMonth)
	require.NoError(t, err)
	assert.Equal(t, string(payroll.StatusPendingApproval), run.Status)
	assert.Equal(t, 3, run.Step)

	run, err = svc.Approve(ctx, testMonth)
	require.NoError(t, err)
	assert.Equal(t, string(payroll.StatusApprovedFinal), run.Status)
	assert.Equal(t, 4, run.Step)
	assert.NotNil(t, run.ApprovedAt)
}

func TestWorkflow_RejectPreservesEdits(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.RunAggregation(ctx, testMonth)
	require.NoError(t, err)
	_, err = svc.EditField(ctx, testMonth, editReq("w-001", "overtime", "15000"))
	require.NoError(t, err)
	_, err = svc.SubmitForApproval(ctx, testMonth)
	require.NoError(t, err)

	run, err := svc.Reject(ctx, testMonth)
	require.NoError(t, err)

	assert.Equal(t, string(payroll.StatusAggregatedUnapproved), run.Status)
	assert.Equal(t, int64(15000), run.Records[0].Overtime)
	assert.Equal(t, []string{"overtime"}, run.Records[0].EditedFields)

	// Editing re-opens after rejection.
	_, err = svc.EditField(ctx, testMonth, editReq("w-001", "income_tax", "7000"))
	assert.NoError(t, err)
}

func TestWorkflow_IllegalTransitions(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.RunAggregation(ctx, testMonth)
	require.NoError(t, err)

	_, err = svc.Approve(ctx, testMonth)
	assert.ErrorIs(t, err, payroll.ErrInvalidTransition)

	_, err = svc.Reject(ctx, testMonth)
	assert.ErrorIs(t, err, payroll.ErrInvalidTransition)

	_, err = svc.SubmitForApproval(ctx, testMonth)
	require.NoError(t, err)
	_, err = svc.SubmitForApproval(ctx, testMonth)
	assert.ErrorIs(t, err, payroll.ErrInvalidTransition)
}

func TestWorkflow_ClearRun(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.RunAggregation(ctx, testMonth)
	require.NoError(t, err)
	_, err = svc.SubmitForApproval(ctx, testMonth)
	require.NoError(t, err)
	_, err = svc.Approve(ctx, testMonth)
	require.NoError(t, err)

	// ClearRun is legal from any status.
	run, err := svc.ClearRun(ctx, testMonth)
	require.NoError(t, err)
	assert.Equal(t, string(payroll.StatusNotAggregated), run.Status)
	assert.Empty(t, run.Records)
	assert.Nil(t, run.AggregatedAt)
	assert.Nil(t, run.ApprovedAt)
}

// ===== SUMMARY =====

func TestGetSummary(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()
	repo.priorTotals[testMonth] = 250000

	_, err := svc.RunAggregation(ctx, testMonth)
	require.NoError(t, err)

	summary, err := svc.GetSummary(ctx, testMonth)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.WorkerCount)
	assert.Equal(t, int64(394000), summary.PayTotalSum)
	assert.Equal(t, int64(95500), summary.DeductionTotalSum)
	assert.Equal(t, int64(298500), summary.NetPaySum)
	assert.Equal(t, int64(250000), summary.PriorMonthNetTotal)
	require.NotNil(t, summary.NetChangePercent)
	assert.Equal(t, "19.4", summary.NetChangePercent.String())
}

func TestGetSummary_RecomputedAfterEdit(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.RunAggregation(ctx, testMonth)
	require.NoError(t, err)

	before, err := svc.GetSummary(ctx, testMonth)
	require.NoError(t, err)

	_, err = svc.EditField(ctx, testMonth, editReq("w-001", "overtime", "15000"))
	require.NoError(t, err)

	after, err := svc.GetSummary(ctx, testMonth)
	require.NoError(t, err)

	assert.Equal(t, before.PayTotalSum+15000, after.PayTotalSum)
	assert.Equal(t, before.NetPaySum+15000, after.NetPaySum)
}

func TestGetSummary_NoPriorReference(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.RunAggregation(ctx, testMonth)
	require.NoError(t, err)

	summary, err := svc.GetSummary(ctx, testMonth)
	require.NoError(t, err)
	assert.Nil(t, summary.NetChangePercent)
}

// ===== EXPORT =====

func TestExportRecords_GatedOnFinalization(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.RunAggregation(ctx, testMonth)
	require.NoError(t, err)

	_, err = svc.ExportRecords(ctx, testMonth)
	assert.ErrorIs(t, err, payroll.ErrRunNotFinalized)

	_, err = svc.SubmitForApproval(ctx, testMonth)
	require.NoError(t, err)
	_, err = svc.ExportRecords(ctx, testMonth)
	assert.ErrorIs(t, err, payroll.ErrRunNotFinalized)

	_, err = svc.Approve(ctx, testMonth)
	require.NoError(t, err)

	export, err := svc.ExportRecords(ctx, testMonth)
	require.NoError(t, err)
	assert.Len(t, export.Records, 2)
	assert.NotNil(t, export.ApprovedAt)
}
