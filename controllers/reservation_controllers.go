package controllers

import (
	"fmt"
	"math"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/events"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/utils"
	"gorm.io/gorm"
)

// Opening rules: closed on Tuesdays, last seating one hour before the 22:30
// close.
const (
	openingTime     = "10:30"
	lastSeatingTime = "21:30"
)

const closedWeekday = time.Tuesday

var timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// mobile_number values are normalized to digits before matching, so the same
// REPLACE chain has to run on the stored column. Works on both MySQL and
// SQLite.
const normalizedMobileColumn = "REPLACE(REPLACE(REPLACE(REPLACE(mobile_number, '-', ''), '(', ''), ')', ''), ' ', '')"

type ReservationController struct {
	DB *gorm.DB
}

func NewReservationController(db *gorm.DB) *ReservationController {
	return &ReservationController{DB: db}
}

// reservationPayload keeps People untyped so a fractional or non-numeric value
// can be reported as "people is not a number" instead of a bind failure.
type reservationPayload struct {
	FirstName       string      `json:"first_name"`
	LastName        string      `json:"last_name"`
	MobileNumber    string      `json:"mobile_number"`
	ReservationDate string      `json:"reservation_date"`
	ReservationTime string      `json:"reservation_time"`
	People          interface{} `json:"people"`
	Status          string      `json:"status"`
}

// CreateReservation -> POST /reservations
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var payload reservationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondError(c, utils.ValidationError(err.Error()))
		return
	}

	reservation, err := validateReservation(&payload)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	if payload.Status == models.StatusSeated || payload.Status == models.StatusFinished {
		utils.RespondError(c, utils.ValidationError(
			fmt.Sprintf("status cannot be %q on a new reservation", payload.Status)))
		return
	}
	reservation.Status = models.StatusBooked

	if err := rc.DB.Create(reservation).Error; err != nil {
		utils.RespondError(c, err)
		return
	}

	events.Broadcast(events.Message{Event: events.EventReservationUpdate, Data: reservation})
	utils.InfoLogger.Printf("New reservation %d: %s %s on %s %s (party of %d)",
		reservation.ID, reservation.FirstName, reservation.LastName,
		reservation.ReservationDate, reservation.ReservationTime, reservation.People)
	utils.RespondJSON(c, http.StatusCreated, reservation)
}

// ListReservations -> GET /reservations?date=&mobile_number=
//
// A date filter shows that day's active reservations ordered by time; a
// mobile_number filter runs the punctuation-insensitive search ordered by
// date; no filter returns everything.
func (rc *ReservationController) ListReservations(c *gin.Context) {
	var reservations []models.Reservation

	if mobile := c.Query("mobile_number"); mobile != "" {
		err := rc.DB.
			Where(normalizedMobileColumn+" LIKE ?", "%"+digitsOnly(mobile)+"%").
			Order("reservation_date").
			Find(&reservations).Error
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.RespondJSON(c, http.StatusOK, reservations)
		return
	}

	query := rc.DB.Order("reservation_date, reservation_time")
	if date := c.Query("date"); date != "" {
		query = rc.DB.
			Where("reservation_date = ? AND status NOT IN ?",
				date, []string{models.StatusFinished, models.StatusCancelled}).
			Order("reservation_time")
	}
	if err := query.Find(&reservations).Error; err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, reservations)
}

// GetReservationByID -> GET /reservations/:reservation_id
func (rc *ReservationController) GetReservationByID(c *gin.Context) {
	reservation, err := rc.findReservation(c.Param("reservation_id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, reservation)
}

// UpdateReservation -> PUT /reservations/:reservation_id
//
// Full edit of the booking fields; everything is re-validated exactly as on
// create. Status is not editable through this path.
func (rc *ReservationController) UpdateReservation(c *gin.Context) {
	reservation, err := rc.findReservation(c.Param("reservation_id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	if models.TerminalStatus(reservation.Status) {
		utils.RespondError(c, utils.ValidationError(
			fmt.Sprintf("a %s reservation cannot be updated", reservation.Status)))
		return
	}

	var payload reservationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondError(c, utils.ValidationError(err.Error()))
		return
	}

	updated, err := validateReservation(&payload)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	reservation.FirstName = updated.FirstName
	reservation.LastName = updated.LastName
	reservation.MobileNumber = updated.MobileNumber
	reservation.ReservationDate = updated.ReservationDate
	reservation.ReservationTime = updated.ReservationTime
	reservation.People = updated.People

	if err := rc.DB.Save(reservation).Error; err != nil {
		utils.RespondError(c, err)
		return
	}

	events.Broadcast(events.Message{Event: events.EventReservationUpdate, Data: reservation})
	utils.RespondJSON(c, http.StatusOK, reservation)
}

// UpdateReservationStatus -> PUT /reservations/:reservation_id/status
func (rc *ReservationController) UpdateReservationStatus(c *gin.Context) {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, utils.ValidationError(err.Error()))
		return
	}

	if !models.ValidStatus(body.Status) {
		utils.RespondError(c, utils.ValidationError(
			fmt.Sprintf("status %q is not valid", body.Status)))
		return
	}

	reservation, err := rc.findReservation(c.Param("reservation_id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	if models.TerminalStatus(reservation.Status) {
		utils.RespondError(c, utils.ValidationError(
			fmt.Sprintf("a %s reservation cannot be updated", reservation.Status)))
		return
	}

	if body.Status == reservation.Status {
		utils.RespondJSON(c, http.StatusOK, reservation)
		return
	}

	if reservation.Status == models.StatusSeated && body.Status == models.StatusFinished {
		utils.RespondError(c, utils.ValidationError(
			"a seated reservation can only be finished through its table"))
		return
	}
	if !models.CanTransitionDirectly(reservation.Status, body.Status) {
		utils.RespondError(c, utils.ValidationError(
			fmt.Sprintf("cannot change status from %q to %q", reservation.Status, body.Status)))
		return
	}

	reservation.Status = body.Status
	if err := rc.DB.Save(reservation).Error; err != nil {
		utils.RespondError(c, err)
		return
	}

	events.Broadcast(events.Message{Event: events.EventReservationUpdate, Data: reservation})
	utils.InfoLogger.Printf("Reservation %d status changed to %s", reservation.ID, reservation.Status)
	utils.RespondJSON(c, http.StatusOK, reservation)
}

func (rc *ReservationController) findReservation(idParam string) (*models.Reservation, error) {
	id, err := parseID(idParam)
	if err != nil {
		return nil, utils.NotFoundError(fmt.Sprintf("reservation %s not found", idParam))
	}

	var reservation models.Reservation
	if err := rc.DB.First(&reservation, id).Error; err != nil {
		return nil, utils.NotFoundError(fmt.Sprintf("reservation %d not found", id))
	}
	return &reservation, nil
}

// validateReservation applies the booking rules in order and returns the first
// failure. On success the returned record carries the validated fields but no
// status.
func validateReservation(payload *reservationPayload) (*models.Reservation, error) {
	required := []struct {
		name  string
		value string
	}{
		{"first_name", payload.FirstName},
		{"last_name", payload.LastName},
		{"mobile_number", payload.MobileNumber},
		{"reservation_date", payload.ReservationDate},
		{"reservation_time", payload.ReservationTime},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return nil, utils.ValidationError(field.name + " is missing")
		}
	}

	date, err := time.Parse("2006-01-02", payload.ReservationDate)
	if err != nil {
		return nil, utils.ValidationError("reservation_date is not a valid date")
	}
	if !timePattern.MatchString(payload.ReservationTime) {
		return nil, utils.ValidationError("reservation_time is not a valid time")
	}

	people, err := parsePeople(payload.People)
	if err != nil {
		return nil, err
	}

	when, err := time.ParseInLocation("2006-01-02 15:04",
		payload.ReservationDate+" "+payload.ReservationTime, time.Local)
	if err != nil {
		return nil, utils.ValidationError("reservation_date is not a valid date")
	}
	if !when.After(time.Now()) {
		return nil, utils.ValidationError("reservation must be in the future")
	}
	if date.Weekday() == closedWeekday {
		return nil, utils.ValidationError("restaurant is closed on Tuesdays")
	}
	if payload.ReservationTime < openingTime || payload.ReservationTime > lastSeatingTime {
		return nil, utils.ValidationError(
			fmt.Sprintf("reservation_time must be between %s and %s", openingTime, lastSeatingTime))
	}

	return &models.Reservation{
		FirstName:       strings.TrimSpace(payload.FirstName),
		LastName:        strings.TrimSpace(payload.LastName),
		MobileNumber:    strings.TrimSpace(payload.MobileNumber),
		ReservationDate: payload.ReservationDate,
		ReservationTime: payload.ReservationTime,
		People:          people,
	}, nil
}

func parsePeople(value interface{}) (int, error) {
	switch n := value.(type) {
	case nil:
		return 0, utils.ValidationError("people is missing")
	case float64:
		if n != math.Trunc(n) {
			return 0, utils.ValidationError("people is not a number")
		}
		if n == 0 {
			return 0, utils.ValidationError("people is zero")
		}
		if n < 0 {
			return 0, utils.ValidationError("people must be greater than zero")
		}
		return int(n), nil
	default:
		return 0, utils.ValidationError("people is not a number")
	}
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
