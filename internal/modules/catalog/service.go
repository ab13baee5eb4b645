package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"hotelpms/internal/domain"
	"hotelpms/internal/repository"
)

// Service manages the room registry and the virtual room composer. The
// allocation engine only reads this catalog; all mutation goes through
// here.
type Service struct {
	rooms        *repository.RoomRepository
	virtualRooms *repository.VirtualRoomRepository
	clients      *repository.ClientRepository
}

func NewService(
	rooms *repository.RoomRepository,
	virtualRooms *repository.VirtualRoomRepository,
	clients *repository.ClientRepository,
) *Service {
	return &Service{
		rooms:        rooms,
		virtualRooms: virtualRooms,
		clients:      clients,
	}
}

/* ---------- ROOMS ---------- */

func validRoomType(t domain.RoomType) bool {
	switch t {
	case domain.RoomSingle, domain.RoomDouble, domain.RoomTwin, domain.RoomSuite, domain.RoomFamily:
		return true
	}
	return false
}

func (s *Service) CreateRoom(ctx context.Context, req CreateRoomRequest) (*domain.Room, error) {
	if req.MaxPeople <= 0 || !validRoomType(domain.RoomType(req.RoomType)) {
		return nil, ErrValidation
	}
	status := domain.RoomAvailable
	if req.Status != "" {
		status = domain.RoomStatus(req.Status)
		if status != domain.RoomAvailable && status != domain.RoomUnavailable {
			return nil, ErrValidation
		}
	}

	room := &domain.Room{
		Number:      req.Number,
		Name:        req.Name,
		Description: req.Description,
		RoomType:    domain.RoomType(req.RoomType),
		MaxPeople:   req.MaxPeople,
		Floor:       req.Floor,
		Status:      status,
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *Service) GetRoom(ctx context.Context, id int64) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return room, err
}

func (s *Service) ListRooms(ctx context.Context, status domain.RoomStatus, limit, offset int) ([]domain.Room, int64, error) {
	return s.rooms.List(ctx, status, limit, offset)
}

func (s *Service) UpdateRoom(ctx context.Context, id int64, req UpdateRoomRequest) (*domain.Room, error) {
	room, err := s.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Number != nil {
		room.Number = *req.Number
	}
	if req.Name != nil {
		room.Name = *req.Name
	}
	if req.Description != nil {
		room.Description = *req.Description
	}
	if req.RoomType != nil {
		if !validRoomType(domain.RoomType(*req.RoomType)) {
			return nil, ErrValidation
		}
		room.RoomType = domain.RoomType(*req.RoomType)
	}
	if req.MaxPeople != nil {
		if *req.MaxPeople <= 0 {
			return nil, ErrValidation
		}
		room.MaxPeople = *req.MaxPeople
	}
	if req.Floor != nil {
		room.Floor = *req.Floor
	}
	if req.Status != nil {
		st := domain.RoomStatus(*req.Status)
		if st != domain.RoomAvailable && st != domain.RoomUnavailable {
			return nil, ErrValidation
		}
		room.Status = st
	}

	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// DeleteRoom refuses while the room still holds occupancy or backs a
// virtual room; history and composition must not dangle.
func (s *Service) DeleteRoom(ctx context.Context, id int64) error {
	if _, err := s.GetRoom(ctx, id); err != nil {
		return err
	}

	occupied, err := s.rooms.HasActiveSegments(ctx, domain.RoomKindPhysical, id)
	if err != nil {
		return err
	}
	if occupied {
		return ErrRoomOccupied
	}

	inUse, err := s.rooms.InVirtualRoom(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return ErrRoomInUse
	}
	return s.rooms.Delete(ctx, id)
}

/* ---------- VIRTUAL ROOMS ---------- */

// buildComponents resolves the requested room ids, rejecting unknown or
// duplicated rooms, and returns the component rows plus the derived
// capacity.
func (s *Service) buildComponents(ctx context.Context, roomIDs []int64) ([]domain.VirtualRoomComponent, int, error) {
	if len(roomIDs) == 0 {
		return nil, 0, ErrValidation
	}
	seen := map[int64]struct{}{}
	for _, id := range roomIDs {
		if _, dup := seen[id]; dup {
			return nil, 0, ErrValidation
		}
		seen[id] = struct{}{}
	}

	rooms, err := s.rooms.GetByIDs(ctx, roomIDs)
	if err != nil {
		return nil, 0, err
	}
	byID := make(map[int64]domain.Room, len(rooms))
	for _, r := range rooms {
		byID[r.ID] = r
	}

	components := make([]domain.VirtualRoomComponent, 0, len(roomIDs))
	capacity := 0
	for i, id := range roomIDs {
		room, ok := byID[id]
		if !ok {
			return nil, 0, fmt.Errorf("%w: room %d", ErrNotFound, id)
		}
		capacity += room.MaxPeople
		components = append(components, domain.VirtualRoomComponent{
			RoomID:   id,
			Position: i,
			Required: true,
		})
	}
	return components, capacity, nil
}

func (s *Service) CreateVirtualRoom(ctx context.Context, req VirtualRoomRequest) (*domain.VirtualRoom, error) {
	components, capacity, err := s.buildComponents(ctx, req.RoomIDs)
	if err != nil {
		return nil, err
	}

	vr := &domain.VirtualRoom{
		Name:        req.Name,
		Description: req.Description,
		Capacity:    capacity,
		Components:  components,
	}
	if err := s.virtualRooms.CreateWithComponents(ctx, vr); err != nil {
		return nil, err
	}
	return s.GetVirtualRoom(ctx, vr.ID)
}

func (s *Service) GetVirtualRoom(ctx context.Context, id int64) (*domain.VirtualRoom, error) {
	vr, err := s.virtualRooms.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return vr, err
}

func (s *Service) ListVirtualRooms(ctx context.Context, limit, offset int) ([]domain.VirtualRoom, int64, error) {
	return s.virtualRooms.List(ctx, limit, offset)
}

// UpdateVirtualRoom replaces the component set and recomputes capacity.
// Rejected while the composite still carries active segments: re-homing
// booked occupancy is not defined.
func (s *Service) UpdateVirtualRoom(ctx context.Context, id int64, req VirtualRoomRequest) (*domain.VirtualRoom, error) {
	vr, err := s.GetVirtualRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	occupied, err := s.virtualRooms.HasActiveSegments(ctx, id)
	if err != nil {
		return nil, err
	}
	if occupied {
		return nil, ErrRoomOccupied
	}

	components, capacity, err := s.buildComponents(ctx, req.RoomIDs)
	if err != nil {
		return nil, err
	}

	vr.Name = req.Name
	vr.Description = req.Description
	vr.Capacity = capacity
	vr.Components = components
	if err := s.virtualRooms.UpdateWithComponents(ctx, vr); err != nil {
		return nil, err
	}
	return s.GetVirtualRoom(ctx, id)
}

func (s *Service) DeleteVirtualRoom(ctx context.Context, id int64) error {
	if _, err := s.GetVirtualRoom(ctx, id); err != nil {
		return err
	}

	occupied, err := s.virtualRooms.HasActiveSegments(ctx, id)
	if err != nil {
		return err
	}
	if occupied {
		return ErrRoomOccupied
	}
	return s.virtualRooms.Delete(ctx, id)
}

/* ---------- CLIENTS ---------- */

func (s *Service) CreateClient(ctx context.Context, req CreateClientRequest) (*domain.Client, error) {
	client := &domain.Client{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Notes:     req.Notes,
	}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *Service) GetClient(ctx context.Context, id int64) (*domain.Client, error) {
	client, err := s.clients.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return client, err
}

func (s *Service) ListClients(ctx context.Context, limit, offset int) ([]domain.Client, int64, error) {
	return s.clients.List(ctx, limit, offset)
}
