package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/reservation-app/controllers"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/utils"
)

// setupTestDB opens a named in-memory SQLite database so every pooled
// connection sees the same data, isolated per test.
func setupTestDB(t *testing.T) *gorm.DB {
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Reservation{}, &models.Table{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func performRequest(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf *bytes.Buffer
	if body != nil {
		payload, _ := json.Marshal(body)
		buf = bytes.NewBuffer(payload)
	} else {
		buf = bytes.NewBuffer(nil)
	}
	req, _ := http.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return response
}

// futureDate returns a date daysAhead from now, skipping over Tuesdays.
func futureDate(daysAhead int) string {
	d := time.Now().AddDate(0, 0, daysAhead)
	for d.Weekday() == time.Tuesday {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format("2006-01-02")
}

func nextTuesday() string {
	d := time.Now().AddDate(0, 0, 1)
	for d.Weekday() != time.Tuesday {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format("2006-01-02")
}

func validReservationBody() map[string]interface{} {
	return map[string]interface{}{
		"first_name":       "Rick",
		"last_name":        "Sanchez",
		"mobile_number":    "202-555-0164",
		"reservation_date": futureDate(1),
		"reservation_time": "17:30",
		"people":           2,
	}
}

func setupReservationRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	reservationCtrl := controllers.NewReservationController(db)
	router.POST("/reservations", reservationCtrl.CreateReservation)
	router.GET("/reservations", reservationCtrl.ListReservations)
	router.GET("/reservations/:reservation_id", reservationCtrl.GetReservationByID)
	router.PUT("/reservations/:reservation_id", reservationCtrl.UpdateReservation)
	router.PUT("/reservations/:reservation_id/status", reservationCtrl.UpdateReservationStatus)
	return router
}

func TestCreateReservation(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	router := setupReservationRouter(db)

	w := performRequest(router, "POST", "/reservations", validReservationBody())
	assert.Equal(t, http.StatusCreated, w.Code)

	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Rick", data["first_name"])
	assert.Equal(t, "booked", data["status"])
	assert.NotZero(t, data["reservation_id"])
}

func TestCreateReservationValidation(t *testing.T) {
	utils.InitLogger()

	cases := []struct {
		name    string
		mutate  func(body map[string]interface{})
		message string
	}{
		{
			name:    "missing first name",
			mutate:  func(b map[string]interface{}) { delete(b, "first_name") },
			message: "first_name is missing",
		},
		{
			name:    "blank last name",
			mutate:  func(b map[string]interface{}) { b["last_name"] = "  " },
			message: "last_name is missing",
		},
		{
			name:    "unparsable date",
			mutate:  func(b map[string]interface{}) { b["reservation_date"] = "not-a-date" },
			message: "reservation_date is not a valid date",
		},
		{
			name:    "invalid time",
			mutate:  func(b map[string]interface{}) { b["reservation_time"] = "25:00" },
			message: "reservation_time is not a valid time",
		},
		{
			name:    "people zero",
			mutate:  func(b map[string]interface{}) { b["people"] = 0 },
			message: "people is zero",
		},
		{
			name:    "people fractional",
			mutate:  func(b map[string]interface{}) { b["people"] = 3.5 },
			message: "people is not a number",
		},
		{
			name:    "people as string",
			mutate:  func(b map[string]interface{}) { b["people"] = "four" },
			message: "people is not a number",
		},
		{
			name:    "people missing",
			mutate:  func(b map[string]interface{}) { delete(b, "people") },
			message: "people is missing",
		},
		{
			name: "date in the past",
			mutate: func(b map[string]interface{}) {
				b["reservation_date"] = "2020-01-06"
			},
			message: "reservation must be in the future",
		},
		{
			name:    "closed on tuesdays",
			mutate:  func(b map[string]interface{}) { b["reservation_date"] = nextTuesday() },
			message: "restaurant is closed on Tuesdays",
		},
		{
			name:    "before opening",
			mutate:  func(b map[string]interface{}) { b["reservation_time"] = "09:00" },
			message: "reservation_time must be between 10:30 and 21:30",
		},
		{
			name:    "after last seating",
			mutate:  func(b map[string]interface{}) { b["reservation_time"] = "22:00" },
			message: "reservation_time must be between 10:30 and 21:30",
		},
		{
			name:    "created as seated",
			mutate:  func(b map[string]interface{}) { b["status"] = "seated" },
			message: `status cannot be "seated"`,
		},
		{
			name:    "created as finished",
			mutate:  func(b map[string]interface{}) { b["status"] = "finished" },
			message: `status cannot be "finished"`,
		},
	}

	db := setupTestDB(t)
	router := setupReservationRouter(db)

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := validReservationBody()
			tc.mutate(body)

			w := performRequest(router, "POST", "/reservations", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, decodeBody(t, w)["error"], tc.message)
		})
	}

	// Nothing should have been persisted.
	var count int64
	db.Model(&models.Reservation{}).Count(&count)
	assert.Zero(t, count)
}

func TestListReservationsByDate(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	router := setupReservationRouter(db)

	date := futureDate(3)
	otherDate := futureDate(5)
	db.Create(&models.Reservation{FirstName: "Late", LastName: "Diner", MobileNumber: "111-2222",
		ReservationDate: date, ReservationTime: "20:00", People: 2, Status: "booked"})
	db.Create(&models.Reservation{FirstName: "Early", LastName: "Diner", MobileNumber: "111-3333",
		ReservationDate: date, ReservationTime: "11:00", People: 4, Status: "booked"})
	db.Create(&models.Reservation{FirstName: "Done", LastName: "Diner", MobileNumber: "111-4444",
		ReservationDate: date, ReservationTime: "12:00", People: 2, Status: "finished"})
	db.Create(&models.Reservation{FirstName: "Other", LastName: "Day", MobileNumber: "111-5555",
		ReservationDate: otherDate, ReservationTime: "12:00", People: 2, Status: "booked"})

	w := performRequest(router, "GET", "/reservations?date="+date, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	data := decodeBody(t, w)["data"].([]interface{})
	assert.Len(t, data, 2)

	first := data[0].(map[string]interface{})
	second := data[1].(map[string]interface{})
	assert.Equal(t, "11:00", first["reservation_time"])
	assert.Equal(t, "20:00", second["reservation_time"])

	// The unfiltered list still includes the finished reservation.
	w = performRequest(router, "GET", "/reservations", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["data"].([]interface{}), 4)
}

func TestSearchReservationsByMobileNumber(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	router := setupReservationRouter(db)

	db.Create(&models.Reservation{FirstName: "Jess", LastName: "Day", MobileNumber: "555-1234",
		ReservationDate: futureDate(2), ReservationTime: "13:00", People: 2, Status: "booked"})

	for _, query := range []string{"5551234", "555-1234", "(555) 1234", "551"} {
		w := performRequest(router, "GET", "/reservations?mobile_number="+query, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeBody(t, w)["data"].([]interface{})
		assert.Len(t, data, 1, "query %q should match the stored number", query)
	}

	w := performRequest(router, "GET", "/reservations?mobile_number=999", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["data"].([]interface{}), 0)
}

func TestGetReservationNotFound(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	router := setupReservationRouter(db)

	w := performRequest(router, "GET", "/reservations/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "reservation 999 not found")
}

func TestUpdateReservation(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	router := setupReservationRouter(db)

	reservation := models.Reservation{FirstName: "Nick", LastName: "Miller", MobileNumber: "555-0000",
		ReservationDate: futureDate(2), ReservationTime: "18:00", People: 2, Status: "booked"}
	db.Create(&reservation)

	body := validReservationBody()
	body["first_name"] = "Nicholas"
	body["people"] = 4

	w := performRequest(router, "PUT", "/reservations/1", body)
	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.Reservation
	db.First(&updated, reservation.ID)
	assert.Equal(t, "Nicholas", updated.FirstName)
	assert.Equal(t, 4, updated.People)
	assert.Equal(t, "booked", updated.Status)

	// Edits are re-validated like creates.
	body["reservation_time"] = "25:00"
	w = performRequest(router, "PUT", "/reservations/1", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(router, "PUT", "/reservations/999", validReservationBody())
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateReservationTerminalStatusIsImmutable(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	router := setupReservationRouter(db)

	finished := models.Reservation{FirstName: "Done", LastName: "Guest", MobileNumber: "555-0100",
		ReservationDate: futureDate(2), ReservationTime: "18:00", People: 2, Status: "finished"}
	cancelled := models.Reservation{FirstName: "Gone", LastName: "Guest", MobileNumber: "555-0200",
		ReservationDate: futureDate(2), ReservationTime: "18:00", People: 2, Status: "cancelled"}
	db.Create(&finished)
	db.Create(&cancelled)

	body := validReservationBody()
	body["first_name"] = "Rewritten"

	w := performRequest(router, "PUT", "/reservations/1", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "finished reservation cannot be updated")

	w = performRequest(router, "PUT", "/reservations/2", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "cancelled reservation cannot be updated")

	// Both records are untouched.
	var untouched models.Reservation
	db.First(&untouched, finished.ID)
	assert.Equal(t, "Done", untouched.FirstName)
	var untouchedCancelled models.Reservation
	db.First(&untouchedCancelled, cancelled.ID)
	assert.Equal(t, "Gone", untouchedCancelled.FirstName)
}

func TestUpdateReservationStatus(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	router := setupReservationRouter(db)

	booked := models.Reservation{FirstName: "A", LastName: "B", MobileNumber: "555-0001",
		ReservationDate: futureDate(2), ReservationTime: "18:00", People: 2, Status: "booked"}
	finished := models.Reservation{FirstName: "C", LastName: "D", MobileNumber: "555-0002",
		ReservationDate: futureDate(2), ReservationTime: "18:00", People: 2, Status: "finished"}
	seated := models.Reservation{FirstName: "E", LastName: "F", MobileNumber: "555-0003",
		ReservationDate: futureDate(2), ReservationTime: "18:00", People: 2, Status: "seated"}
	db.Create(&booked)
	db.Create(&finished)
	db.Create(&seated)

	w := performRequest(router, "PUT", "/reservations/1/status", map[string]string{"status": "cancelled"})
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "cancelled", data["status"])

	// Cancelled is terminal now.
	w = performRequest(router, "PUT", "/reservations/1/status", map[string]string{"status": "booked"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "cancelled reservation cannot be updated")

	w = performRequest(router, "PUT", "/reservations/1/status", map[string]string{"status": "definitely-not-a-status"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "is not valid")

	w = performRequest(router, "PUT", "/reservations/2/status", map[string]string{"status": "booked"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "finished reservation cannot be updated")

	// seated -> finished must go through the table, never a direct update.
	w = performRequest(router, "PUT", "/reservations/3/status", map[string]string{"status": "finished"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "through its table")

	w = performRequest(router, "PUT", "/reservations/999/status", map[string]string{"status": "cancelled"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
