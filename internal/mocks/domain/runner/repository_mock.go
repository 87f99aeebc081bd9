// Code generated by mockery v2.53.5. DO NOT EDIT.

package runnermock

import (
	context "context"

	runner "github.com/probegapp/probeg/internal/domain/runner"
	mock "github.com/stretchr/testify/mock"

	time "time"
)

// Repository is an autogenerated mock type for the Repository type
type Repository struct {
	mock.Mock
}

// Create provides a mock function with given fields: ctx, item
func (_m *Repository) Create(ctx context.Context, item runner.Runner) (runner.Runner, error) {
	ret := _m.Called(ctx, item)

	if len(ret) == 0 {
		panic("no return value specified for Create")
	}

	var r0 runner.Runner
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, runner.Runner) (runner.Runner, error)); ok {
		return rf(ctx, item)
	}
	if rf, ok := ret.Get(0).(func(context.Context, runner.Runner) runner.Runner); ok {
		r0 = rf(ctx, item)
	} else {
		r0 = ret.Get(0).(runner.Runner)
	}

	if rf, ok := ret.Get(1).(func(context.Context, runner.Runner) error); ok {
		r1 = rf(ctx, item)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Delete provides a mock function with given fields: ctx, runnerID
func (_m *Repository) Delete(ctx context.Context, runnerID string) error {
	ret := _m.Called(ctx, runnerID)

	if len(ret) == 0 {
		panic("no return value specified for Delete")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string) error); ok {
		r0 = rf(ctx, runnerID)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// FindByName provides a mock function with given fields: ctx, lastName, firstName, birthDate
func (_m *Repository) FindByName(ctx context.Context, lastName string, firstName string, birthDate *time.Time) ([]runner.Runner, error) {
	ret := _m.Called(ctx, lastName, firstName, birthDate)

	if len(ret) == 0 {
		panic("no return value specified for FindByName")
	}

	var r0 []runner.Runner
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, string, *time.Time) ([]runner.Runner, error)); ok {
		return rf(ctx, lastName, firstName, birthDate)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string, string, *time.Time) []runner.Runner); ok {
		r0 = rf(ctx, lastName, firstName, birthDate)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]runner.Runner)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string, string, *time.Time) error); ok {
		r1 = rf(ctx, lastName, firstName, birthDate)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// GetByID provides a mock function with given fields: ctx, runnerID
func (_m *Repository) GetByID(ctx context.Context, runnerID string) (runner.Runner, bool, error) {
	ret := _m.Called(ctx, runnerID)

	if len(ret) == 0 {
		panic("no return value specified for GetByID")
	}

	var r0 runner.Runner
	var r1 bool
	var r2 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (runner.Runner, bool, error)); ok {
		return rf(ctx, runnerID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) runner.Runner); ok {
		r0 = rf(ctx, runnerID)
	} else {
		r0 = ret.Get(0).(runner.Runner)
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) bool); ok {
		r1 = rf(ctx, runnerID)
	} else {
		r1 = ret.Get(1).(bool)
	}

	if rf, ok := ret.Get(2).(func(context.Context, string) error); ok {
		r2 = rf(ctx, runnerID)
	} else {
		r2 = ret.Error(2)
	}

	return r0, r1, r2
}

// GetByTelegramID provides a mock function with given fields: ctx, telegramID
func (_m *Repository) GetByTelegramID(ctx context.Context, telegramID int64) (runner.Runner, bool, error) {
	ret := _m.Called(ctx, telegramID)

	if len(ret) == 0 {
		panic("no return value specified for GetByTelegramID")
	}

	var r0 runner.Runner
	var r1 bool
	var r2 error
	if rf, ok := ret.Get(0).(func(context.Context, int64) (runner.Runner, bool, error)); ok {
		return rf(ctx, telegramID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, int64) runner.Runner); ok {
		r0 = rf(ctx, telegramID)
	} else {
		r0 = ret.Get(0).(runner.Runner)
	}

	if rf, ok := ret.Get(1).(func(context.Context, int64) bool); ok {
		r1 = rf(ctx, telegramID)
	} else {
		r1 = ret.Get(1).(bool)
	}

	if rf, ok := ret.Get(2).(func(context.Context, int64) error); ok {
		r2 = rf(ctx, telegramID)
	} else {
		r2 = ret.Error(2)
	}

	return r0, r1, r2
}

// LinkTelegram provides a mock function with given fields: ctx, runnerID, telegramID
func (_m *Repository) LinkTelegram(ctx context.Context, runnerID string, telegramID int64) error {
	ret := _m.Called(ctx, runnerID, telegramID)

	if len(ret) == 0 {
		panic("no return value specified for LinkTelegram")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string, int64) error); ok {
		r0 = rf(ctx, runnerID, telegramID)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// Update provides a mock function with given fields: ctx, item
func (_m *Repository) Update(ctx context.Context, item runner.Runner) error {
	ret := _m.Called(ctx, item)

	if len(ret) == 0 {
		panic("no return value specified for Update")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, runner.Runner) error); ok {
		r0 = rf(ctx, item)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// NewRepository creates a new instance of Repository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *Repository {
	mock := &Repository{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
