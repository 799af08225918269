package controllers

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/events"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/services"
	"github.com/yeremiapane/reservation-app/utils"
	"gorm.io/gorm"
)

type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

// CreateTable -> POST /tables
//
// Passing reservation_id creates the table already seated: the insert and the
// seat writes share one transaction.
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		TableName     string      `json:"table_name"`
		Capacity      interface{} `json:"capacity"`
		ReservationID *uint       `json:"reservation_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.ValidationError(err.Error()))
		return
	}

	if req.TableName == "" {
		utils.RespondError(c, utils.ValidationError("table_name is missing"))
		return
	}
	if utf8.RuneCountInString(req.TableName) < 2 {
		utils.RespondError(c, utils.ValidationError("table_name must have at least two characters"))
		return
	}
	capacity, err := parseCapacity(req.Capacity)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	table := models.Table{
		TableName: req.TableName,
		Capacity:  capacity,
	}

	err = tc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&table).Error; err != nil {
			return err
		}
		if req.ReservationID != nil {
			return services.SeatNewTable(tx, &table, *req.ReservationID)
		}
		return nil
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	events.Broadcast(events.Message{Event: events.EventTableUpdate, Data: table})
	utils.InfoLogger.Printf("New table created: %s (capacity=%d, occupied=%t)",
		table.TableName, table.Capacity, table.Occupied)
	utils.RespondJSON(c, http.StatusCreated, table)
}

// GetAllTables -> GET /tables, ordered by table name.
func (tc *TableController) GetAllTables(c *gin.Context) {
	var tables []models.Table
	if err := tc.DB.Preload("Reservation").Order("table_name").Find(&tables).Error; err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, tables)
}

// GetTableByID -> GET /tables/:table_id
func (tc *TableController) GetTableByID(c *gin.Context) {
	idParam := c.Param("table_id")
	id, err := parseID(idParam)
	if err != nil {
		utils.RespondError(c, utils.NotFoundError(fmt.Sprintf("table %s not found", idParam)))
		return
	}

	var table models.Table
	if err := tc.DB.Preload("Reservation").First(&table, id).Error; err != nil {
		utils.RespondError(c, utils.NotFoundError(fmt.Sprintf("table %d not found", id)))
		return
	}
	utils.RespondJSON(c, http.StatusOK, table)
}

func parseCapacity(value interface{}) (int, error) {
	switch n := value.(type) {
	case nil:
		return 0, utils.ValidationError("capacity is missing")
	case float64:
		if n != math.Trunc(n) {
			return 0, utils.ValidationError("capacity is not a valid number")
		}
		if n == 0 {
			return 0, utils.ValidationError("capacity cannot be zero")
		}
		if n < 0 {
			return 0, utils.ValidationError("capacity must be greater than zero")
		}
		return int(n), nil
	default:
		return 0, utils.ValidationError("capacity is not a valid number")
	}
}

func parseID(param string) (uint, error) {
	id, err := strconv.ParseUint(param, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
