package domain

import (
	"github.com/google/uuid"
	"github.com/hengly4433/hotel-system/pkg/civildate"
)

type RoomAvailability struct {
	RoomID    uuid.UUID      `json:"room_id"`
	From      civildate.Date `json:"from"`
	To        civildate.Date `json:"to"`
	Available bool           `json:"available"`
}

type DateAvailability struct {
	Date      civildate.Date `json:"date"`
	Reserved  int64          `json:"reserved"`
	Available int64          `json:"available"`
}

type RoomTypeAvailability struct {
	RoomTypeID uuid.UUID          `json:"room_type_id"`
	Name       string             `json:"name"`
	Code       string             `json:"code"`
	TotalRooms int64              `json:"total_rooms"`
	Dates      []DateAvailability `json:"dates"`
}

// NightCount is one grouped row of held nights for a room type on a date.
type NightCount struct {
	RoomTypeID uuid.UUID
	StayDate   civildate.Date
	Count      int64
}
