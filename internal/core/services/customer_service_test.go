package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/kopesha/lending-backend/internal/apperrors"
	"github.com/kopesha/lending-backend/internal/core/domain"
	"github.com/kopesha/lending-backend/internal/core/services"
	"github.com/kopesha/lending-backend/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCreateCustomer(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockCustomerRepository)
	service := services.NewCustomerService(mockRepo)

	mockRepo.On("SaveCustomer", ctx, mock.MatchedBy(func(c domain.Customer) bool {
		return c.FullName == "Wanjiku Kamau" && c.NationalID == "32165498" && c.CustomerID != ""
	})).Return(nil).Once()

	customer, err := service.CreateCustomer(ctx, dto.CreateCustomerRequest{
		FullName:   "Wanjiku Kamau",
		Phone:      "0711222333",
		NationalID: "32165498",
		Region:     "Nakuru",
	}, "staff-1")

	assert.NoError(t, err)
	assert.NotNil(t, customer)
	assert.Equal(t, "staff-1", customer.CreatedBy)
	mockRepo.AssertExpectations(t)
}

func TestCreateCustomer_DuplicateNationalID(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockCustomerRepository)
	service := services.NewCustomerService(mockRepo)

	mockRepo.On("SaveCustomer", ctx, mock.Anything).Return(apperrors.ErrDuplicate).Once()

	customer, err := service.CreateCustomer(ctx, dto.CreateCustomerRequest{
		FullName:   "Wanjiku Kamau",
		NationalID: "32165498",
	}, "staff-1")

	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	assert.Nil(t, customer)
}

func TestGetCustomerByID(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockCustomerRepository)
	service := services.NewCustomerService(mockRepo)

	expected := &domain.Customer{CustomerID: uuid.NewString(), FullName: "Wanjiku Kamau"}
	mockRepo.On("FindCustomerByID", ctx, expected.CustomerID).Return(expected, nil).Once()

	customer, err := service.GetCustomerByID(ctx, expected.CustomerID)

	assert.NoError(t, err)
	assert.Equal(t, expected, customer)
}

func TestGetCustomerByID_NotFound(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockCustomerRepository)
	service := services.NewCustomerService(mockRepo)

	mockRepo.On("FindCustomerByID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	customer, err := service.GetCustomerByID(ctx, "missing")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Nil(t, customer)
}
