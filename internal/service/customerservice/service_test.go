package customerservice_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"minierp/internal/domain"
	apperror "minierp/internal/errors"
	"minierp/internal/pkg/logger"
	"minierp/internal/pkg/validation"
	"minierp/internal/service/customerservice"
)

// MockCustomerRepository é uma implementação mock da interface CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) CreateCustomer(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	args := m.Called(ctx, customer)
	return args.Get(0).(domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) GetCustomerByID(ctx context.Context, id string) (domain.Customer, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) GetAllCustomers(ctx context.Context) ([]domain.Customer, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Customer), args.Error(1)
}

func strPtr(s string) *string { return &s }

func newService(repo *MockCustomerRepository) *customerservice.Service {
	return customerservice.NewService(repo, validation.New(), logger.NewNop())
}

func TestCreateCustomer_Success(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	mockRepo.On("CreateCustomer", mock.Anything, mock.MatchedBy(func(c domain.Customer) bool {
		return c.ID != "" && c.Name == "Acme" && c.Email != nil && *c.Email == "buyer@acme.io" && c.Phone == nil
	})).Return(domain.Customer{ID: "c1", Name: "Acme"}, nil)

	result, err := newService(mockRepo).CreateCustomer(context.Background(), domain.CustomerCreateRequest{
		Name:  " Acme ",
		Email: strPtr("buyer@acme.io"),
		Phone: strPtr("  "),
	})

	assert.NoError(t, err)
	assert.Equal(t, "c1", result.ID)
	mockRepo.AssertExpectations(t)
}

func TestCreateCustomer_Fail_Validation(t *testing.T) {
	cases := map[string]domain.CustomerCreateRequest{
		"empty name":    {Name: ""},
		"invalid email": {Name: "Acme", Email: strPtr("not-an-email")},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			mockRepo := new(MockCustomerRepository)
			_, err := newService(mockRepo).CreateCustomer(context.Background(), req)

			assert.IsType(t, &apperror.ValidationError{}, err)
			mockRepo.AssertNotCalled(t, "CreateCustomer", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateCustomer_Fail_DuplicateEmail(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	dup := apperror.NewConstraintViolationError("duplicate value violates unique constraint", "customers_email_key", nil)
	mockRepo.On("CreateCustomer", mock.Anything, mock.Anything).Return(domain.Customer{}, dup)

	_, err := newService(mockRepo).CreateCustomer(context.Background(), domain.CustomerCreateRequest{
		Name: "Acme", Email: strPtr("dup@acme.io"),
	})

	assert.IsType(t, &apperror.ConstraintViolationError{}, err)
}

func TestGetCustomerByID(t *testing.T) {
	id := uuid.NewString()
	mockRepo := new(MockCustomerRepository)
	mockRepo.On("GetCustomerByID", mock.Anything, id).Return(domain.Customer{ID: id, Name: "Acme"}, nil)
	svc := newService(mockRepo)

	c, err := svc.GetCustomerByID(context.Background(), id)
	assert.NoError(t, err)
	assert.Equal(t, "Acme", c.Name)

	_, err = svc.GetCustomerByID(context.Background(), "not-a-uuid")
	assert.IsType(t, &apperror.ValidationError{}, err)
}

func TestListCustomers(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	mockRepo.On("GetAllCustomers", mock.Anything).Return([]domain.Customer{{ID: "a"}, {ID: "b"}}, nil)

	customers, err := newService(mockRepo).ListCustomers(context.Background())

	assert.NoError(t, err)
	assert.Len(t, customers, 2)
}
