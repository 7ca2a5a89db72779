package tickets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/trainbooking/internal/domain"
	"github.com/Domenick1991/trainbooking/internal/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockTrainStore struct {
	mock.Mock
}

func (m *MockTrainStore) GetByID(ctx context.Context, id int64) (*domain.Train, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Train), args.Error(1)
}

type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) Save(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error) {
	args := m.Called(ctx, ticket)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) DeleteByID(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) PublishWithRetry(ctx context.Context, topic, key string, value interface{}, maxRetries int) error {
	args := m.Called(ctx, topic, key, value, maxRetries)
	return args.Error(0)
}

type fixture struct {
	users   *MockUserStore
	trains  *MockTrainStore
	tickets *MockTicketRepository
	service *TicketService
	now     time.Time
}

func newFixture(opts ...TicketServiceOption) *fixture {
	f := &fixture{
		users:   &MockUserStore{},
		trains:  &MockTrainStore{},
		tickets: &MockTicketRepository{},
		now:     time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	opts = append([]TicketServiceOption{WithClock(func() time.Time { return f.now })}, opts...)
	f.service = NewTicketService(f.users, f.trains, f.tickets, opts...)
	return f
}

func (f *fixture) assertExpectations(t *testing.T) {
	f.users.AssertExpectations(t)
	f.trains.AssertExpectations(t)
	f.tickets.AssertExpectations(t)
}

func johnDoe() *domain.User {
	return &domain.User{ID: 1, Name: "John Doe", Email: "john.doe@example.com"}
}

func rajdhani() *domain.Train {
	return &domain.Train{ID: 1, Name: "Rajdhani Express", Source: "New Delhi", Destination: "Mumbai Central", BasePrice: 1500, DiscountPercentage: 10}
}

func storedTicket() *domain.Ticket {
	return &domain.Ticket{
		ID:          1,
		UserID:      1,
		TrainID:     1,
		User:        johnDoe(),
		Train:       rajdhani(),
		BookingDate: time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
		FinalPrice:  1350,
	}
}

func TestTicketService_List(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	stored := []domain.Ticket{*storedTicket(), {ID: 2, UserID: 1, TrainID: 1, FinalPrice: 1350}}
	f.tickets.On("List", ctx).Return(stored, nil).Once()

	result, err := f.service.List(ctx)

	assert.NoError(t, err)
	assert.Equal(t, stored, result)
	assert.Equal(t, "John Doe", result[0].User.Name)
	f.assertExpectations(t)
}

func TestTicketService_List_StoreError(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.tickets.On("List", ctx).Return(nil, errors.New("connection reset")).Once()

	_, err := f.service.List(ctx)

	assert.EqualError(t, err, "connection reset")
}

func TestTicketService_GetByID_Exists(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	ticket := storedTicket()
	f.tickets.On("GetByID", ctx, int64(1)).Return(ticket, nil).Once()

	result, err := f.service.GetByID(ctx, 1)

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, int64(1), result.ID)
	assert.Equal(t, "John Doe", result.User.Name)
	assert.Equal(t, "Rajdhani Express", result.Train.Name)
	f.assertExpectations(t)
}

func TestTicketService_GetByID_Missing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.tickets.On("GetByID", ctx, int64(1)).Return(nil, nil).Once()

	result, err := f.service.GetByID(ctx, 1)

	assert.NoError(t, err)
	assert.Nil(t, result)
	f.assertExpectations(t)
}

// expectSave assigns id to the ticket handed to Save, the way the Postgres
// store does on insert.
func expectSave(m *MockTicketRepository, ctx context.Context, id int64) *mock.Call {
	return m.On("Save", ctx, mock.AnythingOfType("*domain.Ticket")).
		Run(func(args mock.Arguments) { args.Get(1).(*domain.Ticket).ID = id })
}

func TestTicketService_Create(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	user, train := johnDoe(), rajdhani()
	f.users.On("GetByID", ctx, int64(1)).Return(user, nil).Once()
	f.trains.On("GetByID", ctx, int64(1)).Return(train, nil).Once()

	var saved *domain.Ticket
	f.tickets.On("Save", ctx, mock.AnythingOfType("*domain.Ticket")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*domain.Ticket)
			saved.ID = 1
		}).
		Return(storedTicket(), nil).Once()

	result, err := f.service.Create(ctx, CreateTicketInput{UserID: 1, TrainID: 1})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, int64(1), result.ID)
	assert.Equal(t, "John Doe", result.User.Name)
	assert.Equal(t, "Rajdhani Express", result.Train.Name)
	assert.InDelta(t, 1350.00, result.FinalPrice, 0.01)

	require.NotNil(t, saved)
	assert.Same(t, user, saved.User)
	assert.Same(t, train, saved.Train)
	assert.Equal(t, int64(1), saved.UserID)
	assert.Equal(t, int64(1), saved.TrainID)
	assert.Equal(t, f.now, saved.BookingDate)
	assert.InDelta(t, 1350.00, saved.FinalPrice, 0.01)
	f.assertExpectations(t)
}

func TestTicketService_Create_NoDiscount(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	train := rajdhani()
	train.DiscountPercentage = 0
	f.users.On("GetByID", ctx, int64(1)).Return(johnDoe(), nil).Once()
	f.trains.On("GetByID", ctx, int64(1)).Return(train, nil).Once()
	expectSave(f.tickets, ctx, 5).Return(&domain.Ticket{ID: 5, FinalPrice: 1500}, nil).Once()

	result, err := f.service.Create(ctx, CreateTicketInput{UserID: 1, TrainID: 1})

	require.NoError(t, err)
	assert.InDelta(t, 1500.00, result.FinalPrice, 0.01)
	f.tickets.AssertCalled(t, "Save", ctx, mock.MatchedBy(func(tk *domain.Ticket) bool {
		return tk.FinalPrice == 1500
	}))
}

func TestTicketService_Create_MissingUser(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.users.On("GetByID", ctx, int64(7)).Return(nil, nil).Once()

	result, err := f.service.Create(ctx, CreateTicketInput{UserID: 7, TrainID: 1})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.EqualError(t, err, "user 7: not found")
	f.trains.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	f.tickets.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestTicketService_Create_MissingTrain(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.users.On("GetByID", ctx, int64(1)).Return(johnDoe(), nil).Once()
	f.trains.On("GetByID", ctx, int64(9)).Return(nil, nil).Once()

	result, err := f.service.Create(ctx, CreateTicketInput{UserID: 1, TrainID: 9})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.EqualError(t, err, "train 9: not found")
	f.tickets.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestTicketService_Create_StoreErrors(t *testing.T) {
	storeErr := errors.New("connection refused")

	t.Run("user lookup", func(t *testing.T) {
		f := newFixture()
		ctx := context.Background()
		f.users.On("GetByID", ctx, int64(1)).Return(nil, storeErr).Once()

		_, err := f.service.Create(ctx, CreateTicketInput{UserID: 1, TrainID: 1})

		assert.ErrorIs(t, err, storeErr)
		assert.NotErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("save", func(t *testing.T) {
		f := newFixture()
		ctx := context.Background()
		f.users.On("GetByID", ctx, int64(1)).Return(johnDoe(), nil).Once()
		f.trains.On("GetByID", ctx, int64(1)).Return(rajdhani(), nil).Once()
		f.tickets.On("Save", ctx, mock.AnythingOfType("*domain.Ticket")).Return(nil, storeErr).Once()

		result, err := f.service.Create(ctx, CreateTicketInput{UserID: 1, TrainID: 1})

		assert.Nil(t, result)
		assert.ErrorIs(t, err, storeErr)
	})
}

func TestTicketService_Update(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	janeDoe := &domain.User{ID: 2, Name: "Jane Doe", Email: "jane.doe@example.com"}
	shatabdi := &domain.Train{ID: 2, Name: "Shatabdi Express", Source: "Chennai", Destination: "Bangalore", BasePrice: 800, DiscountPercentage: 5}
	existing := storedTicket()
	bookedAt := existing.BookingDate

	f.tickets.On("GetByID", ctx, int64(1)).Return(existing, nil).Once()
	f.users.On("GetByID", ctx, int64(2)).Return(janeDoe, nil).Once()
	f.trains.On("GetByID", ctx, int64(2)).Return(shatabdi, nil).Once()
	f.tickets.On("Save", ctx, existing).Return(existing, nil).Once()

	result, err := f.service.Update(ctx, 1, UpdateTicketInput{UserID: 2, TrainID: 2})

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", result.User.Name)
	assert.Equal(t, "Shatabdi Express", result.Train.Name)
	assert.Equal(t, int64(2), result.UserID)
	assert.Equal(t, int64(2), result.TrainID)
	assert.Equal(t, bookedAt, result.BookingDate)
	assert.InDelta(t, 760.00, result.FinalPrice, 0.01)
	f.assertExpectations(t)
}

func TestTicketService_Update_SameTrainKeepsPrice(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	existing := storedTicket()
	existing.FinalPrice = 1200
	repriced := rajdhani()
	repriced.DiscountPercentage = 50

	f.tickets.On("GetByID", ctx, int64(1)).Return(existing, nil).Once()
	f.users.On("GetByID", ctx, int64(2)).Return(&domain.User{ID: 2, Name: "Jane Doe"}, nil).Once()
	f.trains.On("GetByID", ctx, int64(1)).Return(repriced, nil).Once()
	f.tickets.On("Save", ctx, existing).Return(existing, nil).Once()

	result, err := f.service.Update(ctx, 1, UpdateTicketInput{UserID: 2, TrainID: 1})

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", result.User.Name)
	assert.Equal(t, 1200.0, result.FinalPrice)
	f.assertExpectations(t)
}

func TestTicketService_Update_Missing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.tickets.On("GetByID", ctx, int64(1)).Return(nil, nil).Once()

	result, err := f.service.Update(ctx, 1, UpdateTicketInput{UserID: 2, TrainID: 2})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.EqualError(t, err, "ticket 1: not found")
	f.users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	f.tickets.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestTicketService_Update_MissingReplacement(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.tickets.On("GetByID", ctx, int64(1)).Return(storedTicket(), nil).Once()
	f.users.On("GetByID", ctx, int64(2)).Return(&domain.User{ID: 2, Name: "Jane Doe"}, nil).Once()
	f.trains.On("GetByID", ctx, int64(3)).Return(nil, nil).Once()

	_, err := f.service.Update(ctx, 1, UpdateTicketInput{UserID: 2, TrainID: 3})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	f.tickets.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestTicketService_Delete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.tickets.On("DeleteByID", ctx, int64(1)).Return(nil).Once()

	assert.NoError(t, f.service.Delete(ctx, 1))
	f.tickets.AssertNumberOfCalls(t, "DeleteByID", 1)
	f.tickets.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestTicketService_Delete_StoreError(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.tickets.On("DeleteByID", ctx, int64(1)).Return(errors.New("connection refused")).Once()

	assert.EqualError(t, f.service.Delete(ctx, 1), "delete ticket 1: connection refused")
}

func TestTicketService_CalculatePrice(t *testing.T) {
	service := NewTicketService(nil, nil, nil)

	assert.InDelta(t, 1350.00, service.CalculatePrice(1500.00, 10.0), 0.01)
	assert.InDelta(t, 1500.00, service.CalculatePrice(1500.00, 0.0), 0.01)
}

func TestTicketService_PublishesEvents(t *testing.T) {
	producer := &MockProducer{}
	f := newFixture(WithProducer(producer, "ticket-events"), WithNotificationsTopic("ticket-notifications"))
	ctx := context.Background()

	f.users.On("GetByID", ctx, int64(1)).Return(johnDoe(), nil).Once()
	f.trains.On("GetByID", ctx, int64(1)).Return(rajdhani(), nil).Once()
	expectSave(f.tickets, ctx, 11).Return(storedTicket(), nil).Once()

	isCreated := mock.MatchedBy(func(e kafka.TicketEvent) bool {
		return e.Type == kafka.TicketCreated && e.Email == "john.doe@example.com"
	})
	producer.On("PublishWithRetry", ctx, "ticket-events", "1", isCreated, 1).Return(nil).Once()
	producer.On("PublishWithRetry", ctx, "ticket-notifications", "1", isCreated, 1).Return(nil).Once()

	_, err := f.service.Create(ctx, CreateTicketInput{UserID: 1, TrainID: 1})

	require.NoError(t, err)
	producer.AssertExpectations(t)
}

func TestTicketService_PublishFailureIsNotFatal(t *testing.T) {
	producer := &MockProducer{}
	f := newFixture(WithProducer(producer, "ticket-events"), WithNotificationsTopic("ticket-notifications"))
	ctx := context.Background()

	f.tickets.On("DeleteByID", ctx, int64(4)).Return(nil).Once()
	producer.On("PublishWithRetry", ctx, "ticket-events", "4", mock.AnythingOfType("kafka.TicketEvent"), 1).
		Return(errors.New("broker unavailable")).Once()

	assert.NoError(t, f.service.Delete(ctx, 4))
	producer.AssertNumberOfCalls(t, "PublishWithRetry", 1)
}

func TestTicketService_PublishRetries(t *testing.T) {
	testCases := []struct {
		name     string
		retries  int
		expected int
	}{
		{name: "configured", retries: 3, expected: 3},
		{name: "zero falls back to one attempt", retries: 0, expected: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			producer := &MockProducer{}
			f := newFixture(WithProducer(producer, "ticket-events"), WithPublishRetries(tc.retries))
			ctx := context.Background()

			f.tickets.On("DeleteByID", ctx, int64(4)).Return(nil).Once()
			producer.On("PublishWithRetry", ctx, "ticket-events", "4", mock.AnythingOfType("kafka.TicketEvent"), tc.expected).
				Return(nil).Once()

			assert.NoError(t, f.service.Delete(ctx, 4))
			producer.AssertExpectations(t)
		})
	}
}
