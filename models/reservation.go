package models

import "time"

// Reservation is a single booking request. Date and time are stored as the
// ISO strings the API exchanges ("2006-01-02" / "15:04") so ordering in SQL
// matches chronological order.
type Reservation struct {
	ID              uint      `gorm:"primaryKey" json:"reservation_id"`
	FirstName       string    `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName        string    `gorm:"type:varchar(100);not null" json:"last_name"`
	MobileNumber    string    `gorm:"type:varchar(30);not null" json:"mobile_number"`
	ReservationDate string    `gorm:"type:varchar(10);not null;index" json:"reservation_date"`
	ReservationTime string    `gorm:"type:varchar(5);not null" json:"reservation_time"`
	People          int       `gorm:"not null" json:"people"`
	Status          string    `gorm:"type:varchar(20);not null;default:'booked'" json:"status"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}
