package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/ultimate-tictactoe/internal/entity"
)

type mockRoundRepo struct {
	mock.Mock
}

func newMockRoundRepo(t interface {
	mock.TestingT
	Cleanup(func())
}) *mockRoundRepo {
	m := &mockRoundRepo{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *mockRoundRepo) CreateOrUpdate(ctx context.Context, round *entity.Round) error {
	args := m.Called(ctx, round)
	return args.Error(0)
}

func (m *mockRoundRepo) GetByID(ctx context.Context, id string) (*entity.Round, error) {
	args := m.Called(ctx, id)

	round, _ := args.Get(0).(*entity.Round)
	return round, args.Error(1)
}

func (m *mockRoundRepo) DeleteByID(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockPresenter struct {
	mock.Mock
}

func newMockPresenter(t interface {
	mock.TestingT
	Cleanup(func())
}) *mockPresenter {
	m := &mockPresenter{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *mockPresenter) Notify(ctx context.Context, reason entity.RejectionReason) {
	m.Called(ctx, reason)
}

func (m *mockPresenter) Celebrate(ctx context.Context, round *entity.Round) {
	m.Called(ctx, round)
}
