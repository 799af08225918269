package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/events"
	"github.com/yeremiapane/reservation-app/services"
	"github.com/yeremiapane/reservation-app/utils"
	"gorm.io/gorm"
)

type SeatingController struct {
	service *services.SeatingService
}

func NewSeatingController(db *gorm.DB) *SeatingController {
	return &SeatingController{service: services.NewSeatingService(db)}
}

// SeatReservation -> PUT /tables/:table_id/seat
func (sc *SeatingController) SeatReservation(c *gin.Context) {
	idParam := c.Param("table_id")
	tableID, err := parseID(idParam)
	if err != nil {
		utils.RespondError(c, utils.NotFoundError(fmt.Sprintf("table %s not found", idParam)))
		return
	}

	var body struct {
		ReservationID *uint `json:"reservation_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.ReservationID == nil {
		utils.RespondError(c, utils.ValidationError("reservation_id is missing"))
		return
	}

	table, err := sc.service.Seat(tableID, *body.ReservationID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	events.Broadcast(events.Message{Event: events.EventTableSeated, Data: table})
	utils.InfoLogger.Printf("Reservation %d seated at table %d", *body.ReservationID, table.ID)
	utils.RespondJSON(c, http.StatusOK, table)
}

// FinishTable -> DELETE /tables/:table_id/seat
func (sc *SeatingController) FinishTable(c *gin.Context) {
	idParam := c.Param("table_id")
	tableID, err := parseID(idParam)
	if err != nil {
		utils.RespondError(c, utils.NotFoundError(fmt.Sprintf("table %s not found", idParam)))
		return
	}

	if err := sc.service.Finish(tableID); err != nil {
		utils.RespondError(c, err)
		return
	}

	events.Broadcast(events.Message{Event: events.EventTableFinished, Data: gin.H{"table_id": tableID}})
	utils.InfoLogger.Printf("Table %d finished", tableID)
	utils.RespondJSON(c, http.StatusOK, gin.H{"table_id": tableID})
}
