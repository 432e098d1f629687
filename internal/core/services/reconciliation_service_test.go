package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kopesha/lending-backend/internal/apperrors"
	"github.com/kopesha/lending-backend/internal/core/domain"
	portssvc "github.com/kopesha/lending-backend/internal/core/ports/services"
	"github.com/kopesha/lending-backend/internal/core/services"
	"github.com/kopesha/lending-backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ReconciliationServiceTestSuite struct {
	suite.Suite
	mockCustomerRepo *MockCustomerRepository
	mockRepaymentSvc *MockRepaymentSvc
	service          portssvc.ReconciliationSvcFacade
}

func (s *ReconciliationServiceTestSuite) SetupTest() {
	s.mockCustomerRepo = new(MockCustomerRepository)
	s.mockRepaymentSvc = new(MockRepaymentSvc)
	s.service = services.NewReconciliationService(s.mockCustomerRepo, s.mockRepaymentSvc)
}

func candidate(loanID, customerID, nationalID, phoneNumber string, createdAt time.Time) domain.ReconciliationCandidate {
	return domain.ReconciliationCandidate{
		Loan: domain.Loan{
			LoanID:     loanID,
			CustomerID: customerID,
			Status:     domain.LoanActive,
			AuditFields: domain.AuditFields{
				CreatedAt: createdAt,
			},
		},
		Customer: domain.Customer{
			CustomerID: customerID,
			NationalID: nationalID,
			Phone:      phoneNumber,
		},
	}
}

func (s *ReconciliationServiceTestSuite) expectCandidates(candidates []domain.ReconciliationCandidate) {
	s.mockCustomerRepo.On("FindReconciliationCandidates", mock.Anything, []domain.LoanStatus{
		domain.LoanActive, domain.LoanOverdue, domain.LoanDisbursed,
	}).Return(candidates, nil).Once()
}

func (s *ReconciliationServiceTestSuite) TestReconcile_ExactNationalIDBeatsSubstring() {
	ctx := context.Background()
	base := time.Now().UTC().Add(-48 * time.Hour)
	candidates := []domain.ReconciliationCandidate{
		candidate("loan-substr", "cust-1", "990011223", "0711000001", base),
		candidate("loan-exact", "cust-2", "11223", "0711000002", base.Add(time.Hour)),
	}
	s.expectCandidates(candidates)
	s.mockRepaymentSvc.On("RecordRepayment", ctx, "loan-exact", decimal.NewFromInt(1000), "MPESA", "TX-1", "").
		Return(&domain.Repayment{RepaymentID: "r1"}, nil).Once()

	ack := s.service.ReconcilePayment(ctx, dto.PaymentNotification{
		TransactionID:    "TX-1",
		BillingReference: "11223",
		Amount:           decimal.NewFromInt(1000),
	})

	s.Equal(0, ack.ResultCode)
	s.mockRepaymentSvc.AssertExpectations(s.T())
}

func (s *ReconciliationServiceTestSuite) TestReconcile_SubstringNationalID() {
	ctx := context.Background()
	candidates := []domain.ReconciliationCandidate{
		candidate("loan-1", "cust-1", "32165498", "0711000001", time.Now().UTC()),
	}
	s.expectCandidates(candidates)
	s.mockRepaymentSvc.On("RecordRepayment", ctx, "loan-1", mock.Anything, "MPESA", "TX-2", "").
		Return(&domain.Repayment{}, nil).Once()

	ack := s.service.ReconcilePayment(ctx, dto.PaymentNotification{
		TransactionID:    "TX-2",
		BillingReference: "65498",
		Amount:           decimal.NewFromInt(500),
	})

	s.Equal(0, ack.ResultCode)
}

func (s *ReconciliationServiceTestSuite) TestReconcile_LoanIDFragment() {
	ctx := context.Background()
	candidates := []domain.ReconciliationCandidate{
		candidate("a1b2c3d4-0000-0000-0000-000000000000", "cust-1", "99999999", "0711000001", time.Now().UTC()),
	}
	s.expectCandidates(candidates)
	s.mockRepaymentSvc.On("RecordRepayment", ctx, "a1b2c3d4-0000-0000-0000-000000000000", mock.Anything, "MPESA", "TX-3", "").
		Return(&domain.Repayment{}, nil).Once()

	ack := s.service.ReconcilePayment(ctx, dto.PaymentNotification{
		TransactionID:    "TX-3",
		BillingReference: "a1b2c3d4",
		Amount:           decimal.NewFromInt(500),
	})

	s.Equal(0, ack.ResultCode)
}

func (s *ReconciliationServiceTestSuite) TestReconcile_PhoneFallbackNormalizesPrefix() {
	ctx := context.Background()
	candidates := []domain.ReconciliationCandidate{
		candidate("loan-phone", "cust-1", "", "0711222333", time.Now().UTC()),
	}
	s.expectCandidates(candidates)
	// Sender is in international form, customer stored the local 07 form.
	s.mockRepaymentSvc.On("RecordRepayment", ctx, "loan-phone", mock.Anything, "MPESA", "TX-4", "").
		Return(&domain.Repayment{}, nil).Once()

	ack := s.service.ReconcilePayment(ctx, dto.PaymentNotification{
		TransactionID: "TX-4",
		SenderPhone:   "254711222333",
		Amount:        decimal.NewFromInt(500),
	})

	s.Equal(0, ack.ResultCode)
}

func (s *ReconciliationServiceTestSuite) TestReconcile_EarliestLoanWinsWithinTier() {
	ctx := context.Background()
	base := time.Now().UTC().Add(-72 * time.Hour)
	// Both customers share the national ID fragment; candidates arrive ordered
	// by loan creation time and the first hit in the tier wins.
	candidates := []domain.ReconciliationCandidate{
		candidate("loan-older", "cust-1", "555777", "0711000001", base),
		candidate("loan-newer", "cust-2", "555777", "0711000002", base.Add(24*time.Hour)),
	}
	s.expectCandidates(candidates)
	s.mockRepaymentSvc.On("RecordRepayment", ctx, "loan-older", mock.Anything, "MPESA", "TX-5", "").
		Return(&domain.Repayment{}, nil).Once()

	ack := s.service.ReconcilePayment(ctx, dto.PaymentNotification{
		TransactionID:    "TX-5",
		BillingReference: "555777",
		Amount:           decimal.NewFromInt(500),
	})

	s.Equal(0, ack.ResultCode)
	s.mockRepaymentSvc.AssertExpectations(s.T())
}

func (s *ReconciliationServiceTestSuite) TestReconcile_NoMatchStillAcksSuccess() {
	ctx := context.Background()
	candidates := []domain.ReconciliationCandidate{
		candidate("loan-1", "cust-1", "11111111", "0711000001", time.Now().UTC()),
	}
	s.expectCandidates(candidates)

	ack := s.service.ReconcilePayment(ctx, dto.PaymentNotification{
		TransactionID:    "TX-6",
		BillingReference: "zzzz",
		SenderPhone:      "0799999999",
		Amount:           decimal.NewFromInt(500),
	})

	s.Equal(0, ack.ResultCode)
	s.mockRepaymentSvc.AssertNotCalled(s.T(), "RecordRepayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ReconciliationServiceTestSuite) TestReconcile_DuplicateDeliveryAcksSuccess() {
	ctx := context.Background()
	candidates := []domain.ReconciliationCandidate{
		candidate("loan-1", "cust-1", "11111111", "0711000001", time.Now().UTC()),
	}
	s.expectCandidates(candidates)
	s.mockRepaymentSvc.On("RecordRepayment", ctx, "loan-1", mock.Anything, "MPESA", "TX-7", "").
		Return(nil, apperrors.ErrDuplicateReference).Once()

	ack := s.service.ReconcilePayment(ctx, dto.PaymentNotification{
		TransactionID:    "TX-7",
		BillingReference: "11111111",
		Amount:           decimal.NewFromInt(500),
	})

	s.Equal(0, ack.ResultCode)
}

func (s *ReconciliationServiceTestSuite) TestReconcile_CandidateLoadFailureAcksSuccess() {
	ctx := context.Background()
	s.mockCustomerRepo.On("FindReconciliationCandidates", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused")).Once()

	ack := s.service.ReconcilePayment(ctx, dto.PaymentNotification{
		TransactionID: "TX-8",
		Amount:        decimal.NewFromInt(500),
	})

	s.Equal(0, ack.ResultCode)
	s.mockRepaymentSvc.AssertNotCalled(s.T(), "RecordRepayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReconciliationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}
