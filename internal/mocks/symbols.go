package mocks

import (
	"context"

	"github.com/seu-repo/pictovoz/internal/domain"
)

// MockSymbolSearch is a mock implementation of SymbolSearch
type MockSymbolSearch struct {
	SearchFunc  func(ctx context.Context, query, locale string) []domain.Symbol
	GetByIDFunc func(ctx context.Context, id int) *domain.Symbol
	Queries     []string
}

func (m *MockSymbolSearch) Search(ctx context.Context, query, locale string) []domain.Symbol {
	m.Queries = append(m.Queries, query)
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, locale)
	}
	return nil
}

func (m *MockSymbolSearch) GetByID(ctx context.Context, id int) *domain.Symbol {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil
}
