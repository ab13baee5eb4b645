package domain

import "time"

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomUnavailable RoomStatus = "unavailable"
)

type RoomType string

const (
	RoomSingle RoomType = "single"
	RoomDouble RoomType = "double"
	RoomTwin   RoomType = "twin"
	RoomSuite  RoomType = "suite"
	RoomFamily RoomType = "family"
)

// Room is a physical room. The allocation engine treats it as read-only;
// rows are mutated only through the catalog CRUD.
type Room struct {
	ID          int64      `json:"id"`
	Number      string     `json:"number" validate:"required"`
	Name        string     `json:"name,omitempty"`
	Description string     `json:"description,omitempty" gorm:"type:text"`
	RoomType    RoomType   `json:"room_type" validate:"required"`
	MaxPeople   int        `json:"max_people" validate:"required,gt=0"`
	Floor       int        `json:"floor,omitempty"`
	Status      RoomStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
