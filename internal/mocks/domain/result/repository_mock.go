// Code generated by mockery v2.53.5. DO NOT EDIT.

package resultmock

import (
	context "context"

	result "github.com/probegapp/probeg/internal/domain/result"
	mock "github.com/stretchr/testify/mock"
)

// Repository is an autogenerated mock type for the Repository type
type Repository struct {
	mock.Mock
}

// DeleteByRace provides a mock function with given fields: ctx, raceID
func (_m *Repository) DeleteByRace(ctx context.Context, raceID string) error {
	ret := _m.Called(ctx, raceID)

	if len(ret) == 0 {
		panic("no return value specified for DeleteByRace")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string) error); ok {
		r0 = rf(ctx, raceID)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// DeleteByRunner provides a mock function with given fields: ctx, runnerID
func (_m *Repository) DeleteByRunner(ctx context.Context, runnerID string) error {
	ret := _m.Called(ctx, runnerID)

	if len(ret) == 0 {
		panic("no return value specified for DeleteByRunner")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string) error); ok {
		r0 = rf(ctx, runnerID)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// GetByID provides a mock function with given fields: ctx, resultID
func (_m *Repository) GetByID(ctx context.Context, resultID string) (result.Result, bool, error) {
	ret := _m.Called(ctx, resultID)

	if len(ret) == 0 {
		panic("no return value specified for GetByID")
	}

	var r0 result.Result
	var r1 bool
	var r2 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (result.Result, bool, error)); ok {
		return rf(ctx, resultID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) result.Result); ok {
		r0 = rf(ctx, resultID)
	} else {
		r0 = ret.Get(0).(result.Result)
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) bool); ok {
		r1 = rf(ctx, resultID)
	} else {
		r1 = ret.Get(1).(bool)
	}

	if rf, ok := ret.Get(2).(func(context.Context, string) error); ok {
		r2 = rf(ctx, resultID)
	} else {
		r2 = ret.Error(2)
	}

	return r0, r1, r2
}

// ListByRace provides a mock function with given fields: ctx, raceID
func (_m *Repository) ListByRace(ctx context.Context, raceID string) ([]result.Result, error) {
	ret := _m.Called(ctx, raceID)

	if len(ret) == 0 {
		panic("no return value specified for ListByRace")
	}

	var r0 []result.Result
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) ([]result.Result, error)); ok {
		return rf(ctx, raceID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) []result.Result); ok {
		r0 = rf(ctx, raceID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]result.Result)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, raceID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// ListByRunner provides a mock function with given fields: ctx, runnerID
func (_m *Repository) ListByRunner(ctx context.Context, runnerID string) ([]result.Result, error) {
	ret := _m.Called(ctx, runnerID)

	if len(ret) == 0 {
		panic("no return value specified for ListByRunner")
	}

	var r0 []result.Result
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) ([]result.Result, error)); ok {
		return rf(ctx, runnerID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) []result.Result); ok {
		r0 = rf(ctx, runnerID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]result.Result)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, runnerID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// PersonalBests provides a mock function with given fields: ctx, runnerID
func (_m *Repository) PersonalBests(ctx context.Context, runnerID string) ([]result.PersonalBest, error) {
	ret := _m.Called(ctx, runnerID)

	if len(ret) == 0 {
		panic("no return value specified for PersonalBests")
	}

	var r0 []result.PersonalBest
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) ([]result.PersonalBest, error)); ok {
		return rf(ctx, runnerID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) []result.PersonalBest); ok {
		r0 = rf(ctx, runnerID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]result.PersonalBest)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, runnerID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Reassign provides a mock function with given fields: ctx, resultID, runnerID
func (_m *Repository) Reassign(ctx context.Context, resultID string, runnerID string) error {
	ret := _m.Called(ctx, resultID, runnerID)

	if len(ret) == 0 {
		panic("no return value specified for Reassign")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string, string) error); ok {
		r0 = rf(ctx, resultID, runnerID)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// Upsert provides a mock function with given fields: ctx, item
func (_m *Repository) Upsert(ctx context.Context, item result.Result) (result.Result, bool, error) {
	ret := _m.Called(ctx, item)

	if len(ret) == 0 {
		panic("no return value specified for Upsert")
	}

	var r0 result.Result
	var r1 bool
	var r2 error
	if rf, ok := ret.Get(0).(func(context.Context, result.Result) (result.Result, bool, error)); ok {
		return rf(ctx, item)
	}
	if rf, ok := ret.Get(0).(func(context.Context, result.Result) result.Result); ok {
		r0 = rf(ctx, item)
	} else {
		r0 = ret.Get(0).(result.Result)
	}

	if rf, ok := ret.Get(1).(func(context.Context, result.Result) bool); ok {
		r1 = rf(ctx, item)
	} else {
		r1 = ret.Get(1).(bool)
	}

	if rf, ok := ret.Get(2).(func(context.Context, result.Result) error); ok {
		r2 = rf(ctx, item)
	} else {
		r2 = ret.Error(2)
	}

	return r0, r1, r2
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
