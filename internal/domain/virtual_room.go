package domain

import "time"

// VirtualRoom is a composite booking unit made of several physical rooms.
// Capacity is always derived from the components, never set directly.
type VirtualRoom struct {
	ID          int64                  `json:"id"`
	Name        string                 `json:"name" validate:"required"`
	Description string                 `json:"description,omitempty" gorm:"type:text"`
	Capacity    int                    `json:"capacity"`
	Components  []VirtualRoomComponent `json:"components" gorm:"foreignKey:VirtualRoomID"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// VirtualRoomComponent binds one physical room into a virtual room at a
// fixed position. All components are currently required.
type VirtualRoomComponent struct {
	ID            int64 `json:"id"`
	VirtualRoomID int64 `json:"virtual_room_id"`
	RoomID        int64 `json:"room_id" validate:"required"`
	Position      int   `json:"position"`
	Required      bool  `json:"required"`

	Room *Room `json:"room,omitempty" gorm:"foreignKey:RoomID"`
}

// DerivedCapacity sums component capacities.
func (v *VirtualRoom) DerivedCapacity() int {
	total := 0
	for _, c := range v.Components {
		if c.Room != nil {
			total += c.Room.MaxPeople
		}
	}
	return total
}

// ComponentRoomIDs returns the physical room ids in component order.
func (v *VirtualRoom) ComponentRoomIDs() []int64 {
	ids := make([]int64, 0, len(v.Components))
	for _, c := range v.Components {
		ids = append(ids, c.RoomID)
	}
	return ids
}
