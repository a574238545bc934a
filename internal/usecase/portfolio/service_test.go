package portfolio

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/ventureflow/internal/domain"
	"github.com/simaogato/ventureflow/internal/usecase/preset"
)

// MockSessionRepository is a mock implementation of SessionRepository for testing
// Update runs fn against the session returned by the expectation.
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionRepository) Update(ctx context.Context, id uuid.UUID, fn func(*domain.Session) error) (*domain.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	session := args.Get(0).(*domain.Session)
	if err := fn(session); err != nil {
		return nil, err
	}
	return session, args.Error(1)
}

func (m *MockSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSessionRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func newTestService(repo *MockSessionRepository) *PortfolioService {
	service := NewPortfolioService(repo, nil)
	service.Now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }
	return service
}

func completeRecord(company, year, hold, amount, multiple string) domain.InvestmentRecord {
	record := domain.NewEmptyRecord()
	record.Company = company
	record.Year = year
	record.Hold = hold
	record.Amount = amount
	record.Multiple = multiple
	return record
}

func TestStartSession(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockSessionRepository)
	service := newTestService(mockRepo)

	mockRepo.On("Create", ctx, mock.MatchedBy(func(s *domain.Session) bool {
		return len(s.Records) == 1 && !s.ChartsVisible
	})).Return(nil)
	mockRepo.On("Count", ctx).Return(1, nil)

	session, err := service.StartSession(ctx)

	require.NoError(t, err)
	assert.Len(t, session.Records, 1)
	assert.Equal(t, service.Now(), session.CreatedAt)
	mockRepo.AssertExpectations(t)
}

func TestStartSession_CreateFails(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockSessionRepository)
	service := newTestService(mockRepo)

	mockRepo.On("Create", ctx, mock.Anything).Return(errors.New("store full"))

	session, err := service.StartSession(ctx)

	assert.Nil(t, session)
	assert.ErrorContains(t, err, "failed to create session")
	mockRepo.AssertNotCalled(t, "Count", mock.Anything)
}

func TestAddAndDeleteRecord(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockSessionRepository)
	service := newTestService(mockRepo)

	session := domain.NewSession(time.Now())
	first := session.Records[0].ID
	mockRepo.On("Update", ctx, session.ID).Return(session, nil)

	added, err := service.AddRecord(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, session.Records, 2)
	assert.Equal(t, added.ID, session.Records[1].ID)

	require.NoError(t, service.DeleteRecord(ctx, session.ID, first))
	require.Len(t, session.Records, 1)
	assert.Equal(t, added.ID, session.Records[0].ID)

	err = service.DeleteRecord(ctx, session.ID, added.ID)
	assert.ErrorIs(t, err, domain.ErrLastRecord)
}

func TestAddRecord_UnknownSession(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockSessionRepository)
	service := newTestService(mockRepo)

	id := uuid.New()
	mockRepo.On("Update", ctx, id).Return(nil, domain.ErrSessionNotFound)

	_, err := service.AddRecord(ctx, id)

	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestUpdateRecord(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockSessionRepository)
	service := newTestService(mockRepo)

	session := domain.NewSession(time.Now())
	recordID := session.Records[0].ID
	mockRepo.On("Update", ctx, session.ID).Return(session, nil)

	updated, err := service.UpdateRecord(ctx, session.ID, recordID, map[domain.Field]string{
		domain.FieldCompany: "Acme",
		domain.FieldMarket:  string(domain.MarketBrainHealth),
		domain.FieldYear:    "2",
	})

	require.NoError(t, err)
	assert.Equal(t, "Acme", updated.Company)
	assert.Equal(t, domain.MarketBrainHealth, updated.Market)
	assert.Equal(t, "2", updated.Year)
}

func TestUpdateRecord_UnknownFieldRejectsWholeUpdate(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockSessionRepository)
	service := newTestService(mockRepo)

	session := domain.NewSession(time.Now())
	recordID := session.Records[0].ID
	mockRepo.On("Update", ctx, session.ID).Return(session, nil)

	_, err := service.UpdateRecord(ctx, session.ID, recordID, map[domain.Field]string{
		domain.FieldCompany:       "Acme",
		domain.Field("valuation"): "9",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidField)
	assert.Equal(t, "", session.Records[0].Company)
}

func TestApplyEdits_SkipsStaleRows(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockSessionRepository)
	service := newTestService(mockRepo)

	session := domain.NewSession(time.Now())
	recordID := session.Records[0].ID
	mockRepo.On("Update", ctx, session.ID).Return(session, nil)

	err := service.ApplyEdits(ctx, session.ID, []domain.RecordEdit{
		{RecordID: uuid.New(), Field: domain.FieldCompany, Value: "Gone"},
		{RecordID: recordID, Field: domain.FieldCompany, Value: "Acme"},
		{RecordID: recordID, Field: domain.FieldHold, Value: "3"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Acme", session.Records[0].Company)
	assert.Equal(t, "3", session.Records[0].Hold)
}

func TestApplyEdits_EmptyBatchSkipsStore(t *testing.T) {
	mockRepo := new(MockSessionRepository)
	service := newTestService(mockRepo)

	require.NoError(t, service.ApplyEdits(context.Background(), uuid.New(), nil))
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockSessionRepository)
	service := newTestService(mockRepo)

	session := domain.NewSession(time.Now())
	session.AddRecord()
	session.ChartsVisible = true
	mockRepo.On("Update", ctx, session.ID).Return(session, nil)

	require.NoError(t, service.Clear(ctx, session.ID))

	assert.Len(t, session.Records, 1)
	assert.False(t, session.ChartsVisible)
}

func TestGenerateCharts(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockSessionRepository)
	service := newTestService(mockRepo)

	session := domain.NewSession(time.Now())
	session.ReplaceRecords([]domain.InvestmentRecord{completeRecord("Acme", "0", "2", "1000000", "2")})
	mockRepo.On("Update", ctx, session.ID).Return(session, nil)

	charts, err := service.GenerateCharts(ctx, session.ID)

	require.NoError(t, err)
	assert.True(t, session.ChartsVisible)
	require.NotNil(t, charts.Timeline)
	require.NotNil(t, charts.Cashflow)
	assert.Equal(t, 4.0, charts.Timeline.AxisMax)
	assert.Equal(t, 4, charts.Cashflow.Horizon)
	assert.Equal(t, "", session.Notice)
}

func TestGenerateCharts_NoCompleteRow(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockSessionRepository)
	service := newTestService(mockRepo)

	session := domain.NewSession(time.Now())
	session.ChartsVisible = true
	session.Records[0].Company = "Half filled"
	mockRepo.On("Update", ctx, session.ID).Return(session, nil)

	charts, err := service.GenerateCharts(ctx, session.ID)

	assert.Nil(t, charts)
	assert.ErrorIs(t, err, domain.ErrNoChartData)
	assert.False(t, session.ChartsVisible)
	assert.Equal(t, NoticeNoCompleteInvestment, session.Notice)
}

func TestDeriveCharts_TimelineOnly(t *testing.T) {
	records := []domain.InvestmentRecord{completeRecord("Acme", "1", "2", "", "")}

	charts, err := DeriveCharts(records)

	require.NoError(t, err)
	require.NotNil(t, charts.Timeline)
	assert.Nil(t, charts.Cashflow)
}

func TestDeriveCharts_CashflowOutOfRangeKeepsTimeline(t *testing.T) {
	tests := []struct {
		name    string
		records []domain.InvestmentRecord
	}{
		{name: "horizon too large", records: []domain.InvestmentRecord{completeRecord("Far", "999", "1", "10", "2")}},
		{name: "value overflow", records: []domain.InvestmentRecord{completeRecord("Huge", "0", "1", "1e308", "10")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			charts, err := DeriveCharts(tt.records)

			require.NoError(t, err)
			require.NotNil(t, charts.Timeline)
			assert.Len(t, charts.Timeline.Bars, 1)
			assert.Nil(t, charts.Cashflow)
			assert.Equal(t, NoticeCashflowOutOfRange, charts.CashflowNotice)
		})
	}
}

func TestGenerateCharts_CashflowOutOfRange(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockSessionRepository)
	service := newTestService(mockRepo)

	session := domain.NewSession(time.Now())
	session.ReplaceRecords([]domain.InvestmentRecord{completeRecord("Far", "999", "1", "10", "2")})
	mockRepo.On("Update", ctx, session.ID).Return(session, nil)

	charts, err := service.GenerateCharts(ctx, session.ID)

	require.NoError(t, err)
	assert.True(t, session.ChartsVisible)
	assert.Nil(t, charts.Cashflow)
	assert.Equal(t, NoticeCashflowOutOfRange, session.Notice)
}

func TestDeriveCharts_NoData(t *testing.T) {
	charts, err := DeriveCharts([]domain.InvestmentRecord{domain.NewEmptyRecord()})

	assert.Nil(t, charts)
	assert.ErrorIs(t, err, domain.ErrNoChartData)
}

func TestCharts_DoesNotChangeSession(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockSessionRepository)
	service := newTestService(mockRepo)

	session := domain.NewSession(time.Now())
	session.ReplaceRecords([]domain.InvestmentRecord{completeRecord("Acme", "1", "2", "5", "2")})
	mockRepo.On("GetByID", ctx, session.ID).Return(session, nil)

	charts, err := service.Charts(ctx, session.ID)

	require.NoError(t, err)
	assert.NotNil(t, charts.Cashflow)
	assert.False(t, session.ChartsVisible)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUnlockPreset(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockSessionRepository)
	service := newTestService(mockRepo)

	session := domain.NewSession(time.Now())
	mockRepo.On("Update", ctx, session.ID).Return(session, nil)

	require.NoError(t, service.OpenPreset(ctx, session.ID))
	assert.True(t, session.Gate.IsOpen())

	records, err := service.UnlockPreset(ctx, session.ID, preset.Passphrase)

	require.NoError(t, err)
	assert.Len(t, records, len(preset.TowerPortfolio))
	assert.Len(t, session.Records, len(preset.TowerPortfolio))
	assert.True(t, session.ChartsVisible)
	assert.False(t, session.Gate.IsOpen())
}

func TestUnlockPreset_WrongPassphrase(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockSessionRepository)
	service := newTestService(mockRepo)

	session := domain.NewSession(time.Now())
	session.Records[0].Company = "Keep me"
	mockRepo.On("Update", ctx, session.ID).Return(session, nil)

	require.NoError(t, service.OpenPreset(ctx, session.ID))
	records, err := service.UnlockPreset(ctx, session.ID, "Tower2024")

	assert.Nil(t, records)
	assert.ErrorIs(t, err, domain.ErrIncorrectPassphrase)
	assert.True(t, session.Gate.IsOpen(), "dialog stays open")
	assert.Equal(t, "", session.Gate.Input)
	assert.Equal(t, "Keep me", session.Records[0].Company)

	notice, err := service.TakeNotice(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, NoticeIncorrectPassword, notice)
}

func TestUnlockPreset_WrongPassphraseWithoutDialogRaisesNoNotice(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockSessionRepository)
	service := newTestService(mockRepo)

	session := domain.NewSession(time.Now())
	mockRepo.On("Update", ctx, session.ID).Return(session, nil)

	_, err := service.UnlockPreset(ctx, session.ID, "nope")

	assert.ErrorIs(t, err, domain.ErrIncorrectPassphrase)
	assert.Equal(t, "", session.Notice)
}

func TestCancelPreset(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockSessionRepository)
	service := newTestService(mockRepo)

	session := domain.NewSession(time.Now())
	session.Gate.Open()
	session.Gate.Input = "tow"
	mockRepo.On("Update", ctx, session.ID).Return(session, nil)

	require.NoError(t, service.CancelPreset(ctx, session.ID))

	assert.False(t, session.Gate.IsOpen())
	assert.Equal(t, "", session.Gate.Input)
}

func TestPresetRecords(t *testing.T) {
	records, err := PresetRecords(preset.Passphrase)
	require.NoError(t, err)
	assert.Len(t, records, len(preset.TowerPortfolio))

	records, err = PresetRecords("")
	assert.Nil(t, records)
	assert.ErrorIs(t, err, domain.ErrIncorrectPassphrase)
}
