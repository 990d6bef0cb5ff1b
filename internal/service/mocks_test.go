package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/ledger-server/internal/storage/account"
	"github.com/carson-networks/ledger-server/internal/storage/category"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

type mockTransactionReader struct {
	mock.Mock
}

func (m *mockTransactionReader) FindByID(ctx context.Context, id int64) (*transaction.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *mockTransactionReader) ListRoots(ctx context.Context, filter *transaction.RootFilter) ([]*transaction.Transaction, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Transaction), args.Error(1)
}

func (m *mockTransactionReader) ListSplitLines(ctx context.Context, parentID int64) ([]*transaction.Transaction, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Transaction), args.Error(1)
}

func (m *mockTransactionReader) ListRange(ctx context.Context, filter *transaction.RangeFilter) ([]*transaction.Transaction, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Transaction), args.Error(1)
}

func (m *mockTransactionReader) SumEffectsByAccount(ctx context.Context) ([]*transaction.AccountEffect, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.AccountEffect), args.Error(1)
}

type mockAccountReader struct {
	mock.Mock
}

func (m *mockAccountReader) FindByID(ctx context.Context, id int64) (*account.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *mockAccountReader) List(ctx context.Context, filter *account.AccountFilter) ([]*account.Account, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.Account), args.Error(1)
}

type mockCategoryReader struct {
	mock.Mock
}

func (m *mockCategoryReader) FindByID(ctx context.Context, id int64) (*category.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.Category), args.Error(1)
}

func (m *mockCategoryReader) List(ctx context.Context, filter *category.CategoryFilter) ([]*category.Category, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*category.Category), args.Error(1)
}
