package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"hotelpms/internal/domain"
	"hotelpms/internal/repository"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) FindConflicts(ctx context.Context, kind domain.RoomKind, roomID int64, start, end time.Time, excludeReservationID int64) ([]repository.SegmentConflict, error) {
	args := m.Called(ctx, kind, roomID, start, end, excludeReservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.SegmentConflict), args.Error(1)
}

func (m *MockStore) ComponentRoomIDs(ctx context.Context, virtualRoomID int64) ([]int64, error) {
	args := m.Called(ctx, virtualRoomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockStore) VirtualRoomIDsContaining(ctx context.Context, roomID int64) ([]int64, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockStore) RoomExists(ctx context.Context, kind domain.RoomKind, roomID int64) (bool, error) {
	args := m.Called(ctx, kind, roomID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) SegmentsForRoomRange(ctx context.Context, kind domain.RoomKind, roomID int64, from, to time.Time) ([]domain.ReservationSegment, error) {
	args := m.Called(ctx, kind, roomID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReservationSegment), args.Error(1)
}

func date(s string) time.Time {
	t, _ := time.Parse(time.DateOnly, s)
	return t
}

func conflict(segID, resID int64, kind domain.RoomKind, roomID int64) repository.SegmentConflict {
	return repository.SegmentConflict{
		SegmentID:     segID,
		ReservationID: resID,
		RoomKind:      kind,
		RoomID:        roomID,
		StartDate:     date("2027-05-01"),
		EndDate:       date("2027-05-04"),
	}
}

func TestCheckRoomAvailability_FreePhysicalRoom(t *testing.T) {
	store := new(MockStore)
	store.On("RoomExists", mock.Anything, domain.RoomKindPhysical, int64(1)).Return(true, nil)
	store.On("FindConflicts", mock.Anything, domain.RoomKindPhysical, int64(1), mock.Anything, mock.Anything, int64(0)).
		Return([]repository.SegmentConflict{}, nil)
	store.On("VirtualRoomIDsContaining", mock.Anything, int64(1)).Return([]int64{}, nil)

	svc := NewService(store)
	res, err := svc.CheckRoomAvailability(context.Background(), domain.RoomKindPhysical, 1, date("2027-05-01"), date("2027-05-04"), 0)

	assert.NoError(t, err)
	assert.True(t, res.Available)
	assert.Empty(t, res.Conflicts)
}

func TestCheckRoomAvailability_DirectConflict(t *testing.T) {
	store := new(MockStore)
	store.On("RoomExists", mock.Anything, domain.RoomKindPhysical, int64(1)).Return(true, nil)
	store.On("FindConflicts", mock.Anything, domain.RoomKindPhysical, int64(1), mock.Anything, mock.Anything, int64(0)).
		Return([]repository.SegmentConflict{conflict(11, 5, domain.RoomKindPhysical, 1)}, nil)
	store.On("VirtualRoomIDsContaining", mock.Anything, int64(1)).Return([]int64{}, nil)

	svc := NewService(store)
	res, err := svc.CheckRoomAvailability(context.Background(), domain.RoomKindPhysical, 1, date("2027-05-02"), date("2027-05-03"), 0)

	assert.NoError(t, err)
	assert.False(t, res.Available)
	assert.Len(t, res.Conflicts, 1)
	assert.Equal(t, int64(5), res.Conflicts[0].ReservationID)
}

// A booking on a virtual room must block each of its component rooms.
func TestCheckRoomAvailability_VirtualBlocksComponent(t *testing.T) {
	store := new(MockStore)
	store.On("RoomExists", mock.Anything, domain.RoomKindPhysical, int64(2)).Return(true, nil)
	store.On("FindConflicts", mock.Anything, domain.RoomKindPhysical, int64(2), mock.Anything, mock.Anything, int64(0)).
		Return([]repository.SegmentConflict{}, nil)
	store.On("VirtualRoomIDsContaining", mock.Anything, int64(2)).Return([]int64{40}, nil)
	store.On("FindConflicts", mock.Anything, domain.RoomKindVirtual, int64(40), mock.Anything, mock.Anything, int64(0)).
		Return([]repository.SegmentConflict{conflict(21, 9, domain.RoomKindVirtual, 40)}, nil)

	svc := NewService(store)
	res, err := svc.CheckRoomAvailability(context.Background(), domain.RoomKindPhysical, 2, date("2027-05-01"), date("2027-05-03"), 0)

	assert.NoError(t, err)
	assert.False(t, res.Available)
	assert.Equal(t, domain.RoomKindVirtual, res.Conflicts[0].RoomKind)
}

// A booking on a component room must block the virtual room containing it.
func TestCheckRoomAvailability_ComponentBlocksVirtual(t *testing.T) {
	store := new(MockStore)
	store.On("RoomExists", mock.Anything, domain.RoomKindVirtual, int64(40)).Return(true, nil)
	store.On("FindConflicts", mock.Anything, domain.RoomKindVirtual, int64(40), mock.Anything, mock.Anything, int64(0)).
		Return([]repository.SegmentConflict{}, nil)
	store.On("ComponentRoomIDs", mock.Anything, int64(40)).Return([]int64{2, 3}, nil)
	store.On("FindConflicts", mock.Anything, domain.RoomKindPhysical, int64(2), mock.Anything, mock.Anything, int64(0)).
		Return([]repository.SegmentConflict{}, nil)
	store.On("FindConflicts", mock.Anything, domain.RoomKindPhysical, int64(3), mock.Anything, mock.Anything, int64(0)).
		Return([]repository.SegmentConflict{conflict(31, 12, domain.RoomKindPhysical, 3)}, nil)
	store.On("VirtualRoomIDsContaining", mock.Anything, int64(2)).Return([]int64{40}, nil)
	store.On("VirtualRoomIDsContaining", mock.Anything, int64(3)).Return([]int64{40}, nil)

	svc := NewService(store)
	res, err := svc.CheckRoomAvailability(context.Background(), domain.RoomKindVirtual, 40, date("2027-05-01"), date("2027-05-03"), 0)

	assert.NoError(t, err)
	assert.False(t, res.Available)
	assert.Len(t, res.Conflicts, 1)
	assert.Equal(t, int64(3), res.Conflicts[0].RoomID)
}

// Components sharing a virtual room must not surface the same blocking
// segment twice.
func TestCheckRoomAvailability_DeduplicatesSharedSegment(t *testing.T) {
	shared := conflict(50, 14, domain.RoomKindVirtual, 40)

	store := new(MockStore)
	store.On("RoomExists", mock.Anything, domain.RoomKindVirtual, int64(40)).Return(true, nil)
	store.On("FindConflicts", mock.Anything, domain.RoomKindVirtual, int64(40), mock.Anything, mock.Anything, int64(0)).
		Return([]repository.SegmentConflict{shared}, nil)
	store.On("ComponentRoomIDs", mock.Anything, int64(40)).Return([]int64{2, 3}, nil)
	store.On("FindConflicts", mock.Anything, domain.RoomKindPhysical, mock.Anything, mock.Anything, mock.Anything, int64(0)).
		Return([]repository.SegmentConflict{}, nil)
	store.On("VirtualRoomIDsContaining", mock.Anything, int64(2)).Return([]int64{40}, nil)
	store.On("VirtualRoomIDsContaining", mock.Anything, int64(3)).Return([]int64{40}, nil)

	svc := NewService(store)
	res, err := svc.CheckRoomAvailability(context.Background(), domain.RoomKindVirtual, 40, date("2027-05-01"), date("2027-05-03"), 0)

	assert.NoError(t, err)
	assert.Len(t, res.Conflicts, 1)
}

func TestCheckRoomAvailability_UnknownRoom(t *testing.T) {
	store := new(MockStore)
	store.On("RoomExists", mock.Anything, domain.RoomKindPhysical, int64(999)).Return(false, nil)

	svc := NewService(store)
	_, err := svc.CheckRoomAvailability(context.Background(), domain.RoomKindPhysical, 999, date("2027-05-01"), date("2027-05-03"), 0)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestCheckRoomAvailability_BadRange(t *testing.T) {
	store := new(MockStore)
	svc := NewService(store)

	_, err := svc.CheckRoomAvailability(context.Background(), domain.RoomKindPhysical, 1, date("2027-05-03"), date("2027-05-03"), 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRoomCalendar_MergesAndClamps(t *testing.T) {
	segs := []domain.ReservationSegment{
		{StartDate: date("2027-04-28"), EndDate: date("2027-05-02")},
		{StartDate: date("2027-05-02"), EndDate: date("2027-05-05")},
		{StartDate: date("2027-05-10"), EndDate: date("2027-05-20")},
	}

	store := new(MockStore)
	store.On("RoomExists", mock.Anything, domain.RoomKindPhysical, int64(1)).Return(true, nil)
	store.On("SegmentsForRoomRange", mock.Anything, domain.RoomKindPhysical, int64(1), mock.Anything, mock.Anything).
		Return(segs, nil)

	svc := NewService(store)
	busy, err := svc.RoomCalendar(context.Background(), domain.RoomKindPhysical, 1, date("2027-05-01"), date("2027-05-15"))

	assert.NoError(t, err)
	assert.Len(t, busy, 2)
	assert.Equal(t, date("2027-05-01"), busy[0].Start)
	assert.Equal(t, date("2027-05-05"), busy[0].End)
	assert.Equal(t, date("2027-05-10"), busy[1].Start)
	assert.Equal(t, date("2027-05-15"), busy[1].End)
}
