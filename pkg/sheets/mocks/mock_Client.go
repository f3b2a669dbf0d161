// Package mocks provides test doubles for the sheets client.
package mocks

import (
	"context"

	mock "github.com/stretchr/testify/mock"
)

// MockClient is a mock type for the sheets.Client interface.
type MockClient struct {
	mock.Mock
}

// SheetTitles provides a mock function with given fields: ctx
func (_m *MockClient) SheetTitles(ctx context.Context) ([]string, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for SheetTitles")
	}

	var r0 []string
	if rf, ok := ret.Get(0).(func(context.Context) []string); ok {
		r0 = rf(ctx)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]string)
	}

	return r0, ret.Error(1)
}

// AddSheet provides a mock function with given fields: ctx, title
func (_m *MockClient) AddSheet(ctx context.Context, title string) error {
	ret := _m.Called(ctx, title)

	if len(ret) == 0 {
		panic("no return value specified for AddSheet")
	}

	return ret.Error(0)
}

// GetValues provides a mock function with given fields: ctx, rng
func (_m *MockClient) GetValues(ctx context.Context, rng string) ([][]string, error) {
	ret := _m.Called(ctx, rng)

	if len(ret) == 0 {
		panic("no return value specified for GetValues")
	}

	var r0 [][]string
	if rf, ok := ret.Get(0).(func(context.Context, string) [][]string); ok {
		r0 = rf(ctx, rng)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([][]string)
	}

	return r0, ret.Error(1)
}

// UpdateValues provides a mock function with given fields: ctx, rng, values
func (_m *MockClient) UpdateValues(ctx context.Context, rng string, values [][]string) error {
	ret := _m.Called(ctx, rng, values)

	if len(ret) == 0 {
		panic("no return value specified for UpdateValues")
	}

	return ret.Error(0)
}

// AppendValues provides a mock function with given fields: ctx, rng, values
func (_m *MockClient) AppendValues(ctx context.Context, rng string, values [][]string) (int, error) {
	ret := _m.Called(ctx, rng, values)

	if len(ret) == 0 {
		panic("no return value specified for AppendValues")
	}

	var r0 int
	if rf, ok := ret.Get(0).(func(context.Context, string, [][]string) int); ok {
		r0 = rf(ctx, rng, values)
	} else {
		r0 = ret.Int(0)
	}

	return r0, ret.Error(1)
}

// NewMockClient creates a new instance of MockClient. It also registers a
// testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	m := &MockClient{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
