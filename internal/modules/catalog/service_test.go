package catalog

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"hotelpms/internal/database"
	"hotelpms/internal/domain"
	"hotelpms/internal/repository"
)

func setup(t *testing.T) (*Service, *gorm.DB) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping sqlite test on windows because CGO is disabled")
	}
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: ":memory:"}), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	svc := NewService(
		repository.NewRoomRepository(db),
		repository.NewVirtualRoomRepository(db),
		repository.NewClientRepository(db),
	)
	return svc, db
}

func mustRoom(t *testing.T, svc *Service, number string, maxPeople int) *domain.Room {
	room, err := svc.CreateRoom(context.Background(), CreateRoomRequest{
		Number:    number,
		RoomType:  string(domain.RoomDouble),
		MaxPeople: maxPeople,
	})
	require.NoError(t, err)
	return room
}

func TestCreateRoom_DefaultsToAvailable(t *testing.T) {
	svc, _ := setup(t)

	room := mustRoom(t, svc, "101", 2)
	assert.Equal(t, domain.RoomAvailable, room.Status)
	assert.NotZero(t, room.ID)
}

func TestCreateRoom_RejectsBadInput(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	_, err := svc.CreateRoom(ctx, CreateRoomRequest{Number: "101", RoomType: "penthouse", MaxPeople: 2})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateRoom(ctx, CreateRoomRequest{Number: "101", RoomType: string(domain.RoomDouble), MaxPeople: 0})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateRoom(ctx, CreateRoomRequest{Number: "101", RoomType: string(domain.RoomDouble), MaxPeople: 2, Status: "closed"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateRoom_PartialFields(t *testing.T) {
	svc, _ := setup(t)
	room := mustRoom(t, svc, "101", 2)

	name := "Renovated Double"
	status := string(domain.RoomUnavailable)
	updated, err := svc.UpdateRoom(context.Background(), room.ID, UpdateRoomRequest{
		Name:   &name,
		Status: &status,
	})

	require.NoError(t, err)
	assert.Equal(t, "Renovated Double", updated.Name)
	assert.Equal(t, domain.RoomUnavailable, updated.Status)
	assert.Equal(t, "101", updated.Number)
}

func TestGetRoom_NotFound(t *testing.T) {
	svc, _ := setup(t)
	_, err := svc.GetRoom(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRoom_BlockedByVirtualRoom(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	r1 := mustRoom(t, svc, "101", 2)
	r2 := mustRoom(t, svc, "102", 2)

	_, err := svc.CreateVirtualRoom(ctx, VirtualRoomRequest{
		Name:    "Apartment",
		RoomIDs: []int64{r1.ID, r2.ID},
	})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteRoom(ctx, r1.ID), ErrRoomInUse)
}

func TestDeleteRoom_BlockedByOccupancy(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	room := mustRoom(t, svc, "101", 2)

	res := domain.Reservation{MainClientID: 1, Status: domain.ReservationActive}
	require.NoError(t, db.Create(&res).Error)
	seg := domain.ReservationSegment{
		ReservationID: res.ID,
		RoomKind:      domain.RoomKindPhysical,
		RoomID:        room.ID,
		StartDate:     time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2027, 6, 5, 0, 0, 0, 0, time.UTC),
		GuestCount:    2,
		BaseRate:      100,
		IsActive:      true,
	}
	require.NoError(t, db.Create(&seg).Error)

	assert.ErrorIs(t, svc.DeleteRoom(ctx, room.ID), ErrRoomOccupied)

	// Deactivated occupancy no longer blocks deletion.
	require.NoError(t, db.Model(&seg).Update("is_active", false).Error)
	assert.NoError(t, svc.DeleteRoom(ctx, room.ID))
}

func TestCreateVirtualRoom_DerivesCapacity(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	r1 := mustRoom(t, svc, "101", 2)
	r2 := mustRoom(t, svc, "102", 3)

	vr, err := svc.CreateVirtualRoom(ctx, VirtualRoomRequest{
		Name:    "Family Suite",
		RoomIDs: []int64{r1.ID, r2.ID},
	})

	require.NoError(t, err)
	assert.Equal(t, 5, vr.Capacity)
	require.Len(t, vr.Components, 2)
	assert.Equal(t, r1.ID, vr.Components[0].RoomID)
	assert.Equal(t, 0, vr.Components[0].Position)
	assert.Equal(t, r2.ID, vr.Components[1].RoomID)
	assert.True(t, vr.Components[0].Required)
}

func TestCreateVirtualRoom_RejectsDuplicatesAndUnknownRooms(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	r1 := mustRoom(t, svc, "101", 2)

	_, err := svc.CreateVirtualRoom(ctx, VirtualRoomRequest{Name: "X", RoomIDs: []int64{r1.ID, r1.ID}})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateVirtualRoom(ctx, VirtualRoomRequest{Name: "X", RoomIDs: []int64{r1.ID, 777}})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.CreateVirtualRoom(ctx, VirtualRoomRequest{Name: "X", RoomIDs: nil})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateVirtualRoom_ReplacesComponents(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	r1 := mustRoom(t, svc, "101", 2)
	r2 := mustRoom(t, svc, "102", 2)
	r3 := mustRoom(t, svc, "103", 4)

	vr, err := svc.CreateVirtualRoom(ctx, VirtualRoomRequest{Name: "Apartment", RoomIDs: []int64{r1.ID, r2.ID}})
	require.NoError(t, err)
	assert.Equal(t, 4, vr.Capacity)

	updated, err := svc.UpdateVirtualRoom(ctx, vr.ID, VirtualRoomRequest{Name: "Bigger Apartment", RoomIDs: []int64{r1.ID, r3.ID}})
	require.NoError(t, err)
	assert.Equal(t, 6, updated.Capacity)
	require.Len(t, updated.Components, 2)
	assert.Equal(t, r3.ID, updated.Components[1].RoomID)
}

func TestUpdateVirtualRoom_BlockedByOccupancy(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	r1 := mustRoom(t, svc, "101", 2)
	r2 := mustRoom(t, svc, "102", 2)

	vr, err := svc.CreateVirtualRoom(ctx, VirtualRoomRequest{Name: "Apartment", RoomIDs: []int64{r1.ID, r2.ID}})
	require.NoError(t, err)

	res := domain.Reservation{MainClientID: 1, Status: domain.ReservationActive}
	require.NoError(t, db.Create(&res).Error)
	require.NoError(t, db.Create(&domain.ReservationSegment{
		ReservationID: res.ID,
		RoomKind:      domain.RoomKindVirtual,
		RoomID:        vr.ID,
		StartDate:     time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2027, 6, 5, 0, 0, 0, 0, time.UTC),
		GuestCount:    4,
		BaseRate:      300,
		IsActive:      true,
	}).Error)

	_, err = svc.UpdateVirtualRoom(ctx, vr.ID, VirtualRoomRequest{Name: "Apartment", RoomIDs: []int64{r1.ID}})
	assert.ErrorIs(t, err, ErrRoomOccupied)

	assert.ErrorIs(t, svc.DeleteVirtualRoom(ctx, vr.ID), ErrRoomOccupied)
}

func TestDeleteVirtualRoom_KeepsPhysicalRooms(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	r1 := mustRoom(t, svc, "101", 2)
	r2 := mustRoom(t, svc, "102", 2)

	vr, err := svc.CreateVirtualRoom(ctx, VirtualRoomRequest{Name: "Apartment", RoomIDs: []int64{r1.ID, r2.ID}})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteVirtualRoom(ctx, vr.ID))

	_, err = svc.GetVirtualRoom(ctx, vr.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	room, err := svc.GetRoom(ctx, r1.ID)
	require.NoError(t, err)
	assert.Equal(t, "101", room.Number)
}

func TestClients_CreateAndGet(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	client, err := svc.CreateClient(ctx, CreateClientRequest{
		FirstName: "Aizhan",
		LastName:  "Bekova",
		Email:     "aizhan@example.com",
	})
	require.NoError(t, err)

	got, err := svc.GetClient(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, "Aizhan Bekova", got.FullName())

	_, err = svc.GetClient(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
