package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kopesha/lending-backend/internal/core/domain"
	portssvc "github.com/kopesha/lending-backend/internal/core/ports/services"
	"github.com/kopesha/lending-backend/internal/dto"
	"github.com/kopesha/lending-backend/internal/handlers"
	"github.com/kopesha/lending-backend/internal/platform/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ReconciliationService ---
type MockReconciliationService struct {
	mock.Mock
}

func (m *MockReconciliationService) ReconcilePayment(ctx context.Context, notification dto.PaymentNotification) dto.PaymentAck {
	args := m.Called(ctx, notification)
	return args.Get(0).(dto.PaymentAck)
}

var _ portssvc.ReconciliationSvcFacade = (*MockReconciliationService)(nil)

// --- Mock DisbursementService ---
type MockDisbursementService struct {
	mock.Mock
}

func (m *MockDisbursementService) Disburse(ctx context.Context, loanID, staffID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockDisbursementService) AdjustCapital(ctx context.Context, req dto.AdjustCapitalRequest, staffID string) (*domain.CapitalAccount, error) {
	args := m.Called(ctx, req, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CapitalAccount), args.Error(1)
}
func (m *MockDisbursementService) GetCapitalAccount(ctx context.Context) (*domain.CapitalAccount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CapitalAccount), args.Error(1)
}
func (m *MockDisbursementService) ListLedgerEntries(ctx context.Context, params dto.ListLedgerEntriesParams) (*dto.ListLedgerEntriesResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListLedgerEntriesResponse), args.Error(1)
}
func (m *MockDisbursementService) HandlePayoutResult(ctx context.Context, result dto.PayoutResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

var _ portssvc.DisbursementSvcFacade = (*MockDisbursementService)(nil)

// --- Test Suite ---
type PaymentCallbackHandlerTestSuite struct {
	suite.Suite
	router                    *gin.Engine
	mockReconciliationService *MockReconciliationService
	mockDisbursementService   *MockDisbursementService
}

func (suite *PaymentCallbackHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	suite.mockReconciliationService = new(MockReconciliationService)
	suite.mockDisbursementService = new(MockDisbursementService)

	cfg := &config.Config{CallbackRateLimit: "1000-M"}
	services := &portssvc.ServiceContainer{
		Reconciliation: suite.mockReconciliationService,
		Disbursement:   suite.mockDisbursementService,
	}
	handlers.RegisterRoutes(suite.router, cfg, services)
}

func (suite *PaymentCallbackHandlerTestSuite) postJSON(url string, body []byte) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *PaymentCallbackHandlerTestSuite) TestPaymentConfirmation_Success() {
	notification := dto.PaymentNotification{
		TransactionID:    "QXZ123ABC",
		BillingReference: "32165498",
		Amount:           decimal.NewFromInt(1500),
		SenderPhone:      "254711222333",
	}
	body, _ := json.Marshal(notification)

	suite.mockReconciliationService.On("ReconcilePayment", mock.Anything, notification).Return(dto.SuccessAck()).Once()

	w := suite.postJSON("/api/v1/payments/confirmation", body)

	suite.Equal(http.StatusOK, w.Code)
	var ack dto.PaymentAck
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &ack))
	suite.Equal(0, ack.ResultCode)
	suite.mockReconciliationService.AssertExpectations(suite.T())
}

func (suite *PaymentCallbackHandlerTestSuite) TestPaymentConfirmation_MalformedBodyStillAcks() {
	w := suite.postJSON("/api/v1/payments/confirmation", []byte(`{"transaction_id":`))

	suite.Equal(http.StatusOK, w.Code)
	var ack dto.PaymentAck
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &ack))
	suite.Equal(0, ack.ResultCode)
	suite.mockReconciliationService.AssertNotCalled(suite.T(), "ReconcilePayment", mock.Anything, mock.Anything)
}

func (suite *PaymentCallbackHandlerTestSuite) TestPayoutResult_Delivered() {
	result := dto.PayoutResult{ResultCode: 0, OriginatorID: "loan-1", TransactionID: "TX9"}
	body, _ := json.Marshal(result)

	suite.mockDisbursementService.On("HandlePayoutResult", mock.Anything, result).Return(nil).Once()

	w := suite.postJSON("/api/v1/payments/payout-result", body)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockDisbursementService.AssertExpectations(suite.T())
}

func (suite *PaymentCallbackHandlerTestSuite) TestPayoutResult_FailureCodeStillAcks() {
	result := dto.PayoutResult{ResultCode: 2001, OriginatorID: "loan-2", TransactionID: "TX10"}
	body, _ := json.Marshal(result)

	suite.mockDisbursementService.On("HandlePayoutResult", mock.Anything, result).Return(nil).Once()

	w := suite.postJSON("/api/v1/payments/payout-result", body)

	suite.Equal(http.StatusOK, w.Code)
	var ack dto.PaymentAck
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &ack))
	suite.Equal(0, ack.ResultCode)
}

func (suite *PaymentCallbackHandlerTestSuite) TestHealthEndpoint() {
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

func TestPaymentCallbackHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentCallbackHandlerTestSuite))
}
