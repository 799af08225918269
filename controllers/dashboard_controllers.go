package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/utils"
	"gorm.io/gorm"
)

type DashboardController struct {
	DB *gorm.DB
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{DB: db}
}

// GetDashboardStats -> GET /dashboard/stats
func (dc *DashboardController) GetDashboardStats(c *gin.Context) {
	reservationCounts := map[string]int64{}
	for _, status := range []string{
		models.StatusBooked, models.StatusSeated, models.StatusFinished, models.StatusCancelled,
	} {
		var count int64
		if err := dc.DB.Model(&models.Reservation{}).
			Where("status = ?", status).Count(&count).Error; err != nil {
			utils.RespondError(c, err)
			return
		}
		reservationCounts[status] = count
	}

	var occupied, total int64
	if err := dc.DB.Model(&models.Table{}).Where("occupied = ?", true).Count(&occupied).Error; err != nil {
		utils.RespondError(c, err)
		return
	}
	if err := dc.DB.Model(&models.Table{}).Count(&total).Error; err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, gin.H{
		"reservations": reservationCounts,
		"tables": gin.H{
			"occupied":  occupied,
			"available": total - occupied,
			"total":     total,
		},
	})
}
