// Code generated by mockery v2.53.5. DO NOT EDIT.

package racemock

import (
	context "context"

	race "github.com/probegapp/probeg/internal/domain/race"
	mock "github.com/stretchr/testify/mock"

	time "time"
)

// Repository is an autogenerated mock type for the Repository type
type Repository struct {
	mock.Mock
}

// Create provides a mock function with given fields: ctx, item
func (_m *Repository) Create(ctx context.Context, item race.Race) (race.Race, error) {
	ret := _m.Called(ctx, item)

	if len(ret) == 0 {
		panic("no return value specified for Create")
	}

	var r0 race.Race
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, race.Race) (race.Race, error)); ok {
		return rf(ctx, item)
	}
	if rf, ok := ret.Get(0).(func(context.Context, race.Race) race.Race); ok {
		r0 = rf(ctx, item)
	} else {
		r0 = ret.Get(0).(race.Race)
	}

	if rf, ok := ret.Get(1).(func(context.Context, race.Race) error); ok {
		r1 = rf(ctx, item)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Delete provides a mock function with given fields: ctx, raceID
func (_m *Repository) Delete(ctx context.Context, raceID string) error {
	ret := _m.Called(ctx, raceID)

	if len(ret) == 0 {
		panic("no return value specified for Delete")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string) error); ok {
		r0 = rf(ctx, raceID)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// GetByID provides a mock function with given fields: ctx, raceID
func (_m *Repository) GetByID(ctx context.Context, raceID string) (race.Race, bool, error) {
	ret := _m.Called(ctx, raceID)

	if len(ret) == 0 {
		panic("no return value specified for GetByID")
	}

	var r0 race.Race
	var r1 bool
	var r2 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (race.Race, bool, error)); ok {
		return rf(ctx, raceID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) race.Race); ok {
		r0 = rf(ctx, raceID)
	} else {
		r0 = ret.Get(0).(race.Race)
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) bool); ok {
		r1 = rf(ctx, raceID)
	} else {
		r1 = ret.Get(1).(bool)
	}

	if rf, ok := ret.Get(2).(func(context.Context, string) error); ok {
		r2 = rf(ctx, raceID)
	} else {
		r2 = ret.Error(2)
	}

	return r0, r1, r2
}

// GetByNameAndDate provides a mock function with given fields: ctx, name, date
func (_m *Repository) GetByNameAndDate(ctx context.Context, name string, date time.Time) (race.Race, bool, error) {
	ret := _m.Called(ctx, name, date)

	if len(ret) == 0 {
		panic("no return value specified for GetByNameAndDate")
	}

	var r0 race.Race
	var r1 bool
	var r2 error
	if rf, ok := ret.Get(0).(func(context.Context, string, time.Time) (race.Race, bool, error)); ok {
		return rf(ctx, name, date)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string, time.Time) race.Race); ok {
		r0 = rf(ctx, name, date)
	} else {
		r0 = ret.Get(0).(race.Race)
	}

	if rf, ok := ret.Get(1).(func(context.Context, string, time.Time) bool); ok {
		r1 = rf(ctx, name, date)
	} else {
		r1 = ret.Get(1).(bool)
	}

	if rf, ok := ret.Get(2).(func(context.Context, string, time.Time) error); ok {
		r2 = rf(ctx, name, date)
	} else {
		r2 = ret.Error(2)
	}

	return r0, r1, r2
}

// GetByWebsiteURL provides a mock function with given fields: ctx, websiteURL
func (_m *Repository) GetByWebsiteURL(ctx context.Context, websiteURL string) (race.Race, bool, error) {
	ret := _m.Called(ctx, websiteURL)

	if len(ret) == 0 {
		panic("no return value specified for GetByWebsiteURL")
	}

	var r0 race.Race
	var r1 bool
	var r2 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (race.Race, bool, error)); ok {
		return rf(ctx, websiteURL)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) race.Race); ok {
		r0 = rf(ctx, websiteURL)
	} else {
		r0 = ret.Get(0).(race.Race)
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) bool); ok {
		r1 = rf(ctx, websiteURL)
	} else {
		r1 = ret.Get(1).(bool)
	}

	if rf, ok := ret.Get(2).(func(context.Context, string) error); ok {
		r2 = rf(ctx, websiteURL)
	} else {
		r2 = ret.Error(2)
	}

	return r0, r1, r2
}

// ListUpcoming provides a mock function with given fields: ctx, from, limit
func (_m *Repository) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]race.Race, error) {
	ret := _m.Called(ctx, from, limit)

	if len(ret) == 0 {
		panic("no return value specified for ListUpcoming")
	}

	var r0 []race.Race
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, time.Time, int) ([]race.Race, error)); ok {
		return rf(ctx, from, limit)
	}
	if rf, ok := ret.Get(0).(func(context.Context, time.Time, int) []race.Race); ok {
		r0 = rf(ctx, from, limit)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]race.Race)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, time.Time, int) error); ok {
		r1 = rf(ctx, from, limit)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// ListWithProtocols provides a mock function with given fields: ctx, source, limit
func (_m *Repository) ListWithProtocols(ctx context.Context, source string, limit int) ([]race.Race, error) {
	ret := _m.Called(ctx, source, limit)

	if len(ret) == 0 {
		panic("no return value specified for ListWithProtocols")
	}

	var r0 []race.Race
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, int) ([]race.Race, error)); ok {
		return rf(ctx, source, limit)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string, int) []race.Race); ok {
		r0 = rf(ctx, source, limit)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]race.Race)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string, int) error); ok {
		r1 = rf(ctx, source, limit)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Search provides a mock function with given fields: ctx, filter
func (_m *Repository) Search(ctx context.Context, filter race.SearchFilter) ([]race.Race, int, error) {
	ret := _m.Called(ctx, filter)

	if len(ret) == 0 {
		panic("no return value specified for Search")
	}

	var r0 []race.Race
	var r1 int
	var r2 error
	if rf, ok := ret.Get(0).(func(context.Context, race.SearchFilter) ([]race.Race, int, error)); ok {
		return rf(ctx, filter)
	}
	if rf, ok := ret.Get(0).(func(context.Context, race.SearchFilter) []race.Race); ok {
		r0 = rf(ctx, filter)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]race.Race)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, race.SearchFilter) int); ok {
		r1 = rf(ctx, filter)
	} else {
		r1 = ret.Get(1).(int)
	}

	if rf, ok := ret.Get(2).(func(context.Context, race.SearchFilter) error); ok {
		r2 = rf(ctx, filter)
	} else {
		r2 = ret.Error(2)
	}

	return r0, r1, r2
}

// Update provides a mock function with given fields: ctx, item
func (_m *Repository) Update(ctx context.Context, item race.Race) error {
	ret := _m.Called(ctx, item)

	if len(ret) == 0 {
		panic("no return value specified for Update")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, race.Race) error); ok {
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
