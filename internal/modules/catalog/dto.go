package catalog

type CreateRoomRequest struct {
	Number      string `json:"number" binding:"required"`
	Name        string `json:"name"`
	Description string `json:"description"`
	RoomType    string `json:"room_type" binding:"required"`
	MaxPeople   int    `json:"max_people" binding:"required"`
	Floor       int    `json:"floor"`
	Status      string `json:"status"`
}

type UpdateRoomRequest struct {
	Number      *string `json:"number"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	RoomType    *string `json:"room_type"`
	MaxPeople   *int    `json:"max_people"`
	Floor       *int    `json:"floor"`
	Status      *string `json:"status"`
}

// VirtualRoomRequest carries the component room ids in display order.
// Capacity is never part of the request; it is always recomputed from
// the components server-side.
type VirtualRoomRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	RoomIDs     []int64 `json:"room_ids" binding:"required"`
}

type CreateClientRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
	Notes     string `json:"notes"`
}
