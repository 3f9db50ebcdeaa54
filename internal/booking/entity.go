package booking

import "time"

type RoomStatus string

const (
	RoomEmpty    RoomStatus = "empty"
	RoomOccupied RoomStatus = "occupied"
	RoomBags     RoomStatus = "bags"
)

func (s RoomStatus) Valid() bool {
	switch s {
	case RoomEmpty, RoomOccupied, RoomBags:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusPast      Status = "past"
	StatusCancelled Status = "cancelled"
)

type Room struct {
	ID          string     `json:"id"          yaml:"id"`
	Name        string     `json:"name"        yaml:"name"`
	RoomNumber  string     `json:"roomNumber"  yaml:"room_number"`
	Capacity    int        `json:"capacity"    yaml:"capacity"`
	Status      RoomStatus `json:"status"      yaml:"status"`
	LastUpdated time.Time  `json:"lastUpdated" yaml:"-"`
}

type TimeSlot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Available bool   `json:"available"`
}

// Booking keeps a snapshot of the room name and number taken at creation time.
type Booking struct {
	ID         string `json:"id"`
	RoomID     string `json:"roomId"`
	RoomName   string `json:"roomName"`
	RoomNumber string `json:"roomNumber"`
	Date       string `json:"date"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	Status     Status `json:"status"`
}

type User struct {
	ID    string `json:"id"    yaml:"id"`
	Name  string `json:"name"  yaml:"name"`
	Email string `json:"email" yaml:"email"`
}

type CreateInput struct {
	RoomID    string `json:"roomId"    validate:"required"`
	Date      string `json:"date"      validate:"required,datetime=2006-01-02"`
	StartTime string `json:"startTime" validate:"required,datetime=15:04"`
	EndTime   string `json:"endTime"   validate:"required,datetime=15:04"`
}
