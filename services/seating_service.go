package services

import (
	"errors"
	"fmt"

	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/utils"
	"gorm.io/gorm"
)

// SeatingService owns the seat/finish transition pair. It is the only place a
// table and its reservation are mutated together, so every entry point runs in
// a single transaction and the writes are guarded: an UPDATE that matches zero
// rows means another request won the race, and the transaction rolls back with
// a 409.
type SeatingService struct {
	db *gorm.DB
}

func NewSeatingService(db *gorm.DB) *SeatingService {
	return &SeatingService{db: db}
}

// Seat assigns a booked reservation to a free table and marks the reservation
// seated. Returns the updated table.
func (s *SeatingService) Seat(tableID, reservationID uint) (*models.Table, error) {
	var seated models.Table

	err := s.db.Transaction(func(tx *gorm.DB) error {
		reservation, err := loadReservationForSeating(tx, reservationID)
		if err != nil {
			return err
		}

		var table models.Table
		if err := tx.First(&table, tableID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFoundError(fmt.Sprintf("table %d not found", tableID))
			}
			return err
		}
		if table.Occupied {
			return utils.ValidationError("table is already occupied")
		}

		if err := seatInTx(tx, &table, reservation); err != nil {
			return err
		}
		seated = table
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &seated, nil
}

// Finish releases an occupied table and drives its reservation to finished.
func (s *SeatingService) Finish(tableID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var table models.Table
		if err := tx.First(&table, tableID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFoundError(fmt.Sprintf("table %d not found", tableID))
			}
			return err
		}
		if !table.Occupied || table.ReservationID == nil {
			return utils.ValidationError("table is not occupied")
		}

		res := tx.Model(&models.Reservation{}).
			Where("id = ? AND status = ?", *table.ReservationID, models.StatusSeated).
			Update("status", models.StatusFinished)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.ConflictError("reservation state changed during finish")
		}

		res = tx.Model(&models.Table{}).
			Where("id = ? AND occupied = ?", table.ID, true).
			Updates(map[string]interface{}{"occupied": false, "reservation_id": nil})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.ConflictError("table was finished by another request")
		}
		return nil
	})
}

// SeatNewTable seats a reservation at a freshly inserted table as part of the
// caller's transaction. Used by the pre-seated table creation path.
func SeatNewTable(tx *gorm.DB, table *models.Table, reservationID uint) error {
	reservation, err := loadReservationForSeating(tx, reservationID)
	if err != nil {
		return err
	}
	return seatInTx(tx, table, reservation)
}

func loadReservationForSeating(tx *gorm.DB, reservationID uint) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := tx.First(&reservation, reservationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundError(fmt.Sprintf("reservation %d not found", reservationID))
		}
		return nil, err
	}

	switch reservation.Status {
	case models.StatusSeated:
		return nil, utils.ValidationError("reservation is already seated")
	case models.StatusFinished:
		return nil, utils.ValidationError("a finished reservation cannot be seated")
	case models.StatusCancelled:
		return nil, utils.ValidationError("a cancelled reservation cannot be seated")
	}
	return &reservation, nil
}

// seatInTx performs the two guarded writes. The table must have been checked
// as unoccupied (or be a fresh insert) by the caller.
func seatInTx(tx *gorm.DB, table *models.Table, reservation *models.Reservation) error {
	if reservation.People > table.Capacity {
		return utils.ValidationError("table does not have sufficient capacity")
	}

	res := tx.Model(&models.Table{}).
		Where("id = ? AND occupied = ?", table.ID, false).
		Updates(map[string]interface{}{"occupied": true, "reservation_id": reservation.ID})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ConflictError("table was occupied by another request")
	}

	res = tx.Model(&models.Reservation{}).
		Where("id = ? AND status = ?", reservation.ID, models.StatusBooked).
		Update("status", models.StatusSeated)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ConflictError("reservation was seated by another request")
	}

	table.Occupied = true
	table.ReservationID = &reservation.ID
	return nil
}
