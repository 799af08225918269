package router

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/controllers"
	"github.com/yeremiapane/reservation-app/middlewares"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	reservationCtrl := controllers.NewReservationController(db)
	tableCtrl := controllers.NewTableController(db)
	seatingCtrl := controllers.NewSeatingController(db)
	dashboardCtrl := controllers.NewDashboardController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Stricter limit on the write endpoints
	write := r.Group("/")
	write.Use(middlewares.NewStrictRateLimiter())
	{
		write.POST("/reservations", reservationCtrl.CreateReservation)
		write.POST("/tables", tableCtrl.CreateTable)
	}

	// RESERVATIONS
	r.GET("/reservations", reservationCtrl.ListReservations)
	r.GET("/reservations/:reservation_id", reservationCtrl.GetReservationByID)
	r.PUT("/reservations/:reservation_id", reservationCtrl.UpdateReservation)
	r.PUT("/reservations/:reservation_id/status", reservationCtrl.UpdateReservationStatus)

	// TABLES & SEATING
	r.GET("/tables", tableCtrl.GetAllTables)
	r.GET("/tables/:table_id", tableCtrl.GetTableByID)
	r.PUT("/tables/:table_id/seat", seatingCtrl.SeatReservation)
	r.DELETE("/tables/:table_id/seat", seatingCtrl.FinishTable)

	// DASHBOARD
	r.GET("/dashboard/stats", dashboardCtrl.GetDashboardStats)

	// WebSocket endpoint for live dashboard updates
	r.GET("/ws", controllers.EventsHandler)

	return r
}
