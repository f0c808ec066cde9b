package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"libmanager/pkg/models"
	"libmanager/pkg/reservation"
)

func createReservation(c *gin.Context) {
	var request struct {
		ItemID uint `json:"itemId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	created, err := reservations.Borrow(c.Request.Context(), c.GetString("username"), request.ItemID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func getMyReservations(c *gin.Context) {
	found, err := reservations.ByUser(c.Request.Context(), c.GetString("username"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

func searchReservations(c *gin.Context) {
	date, err := queryDate(c, "date")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format"})
		return
	}

	filter := reservation.Filter{
		Username: queryString(c, "username"),
		Title:    queryString(c, "title"),
		Date:     date,
	}
	if raw := queryString(c, "id"); raw != nil {
		id, err := strconv.ParseUint(*raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation id"})
			return
		}
		value := uint(id)
		filter.ID = &value
	}
	if category := queryString(c, "category"); category != nil {
		cat := models.Category(*category)
		filter.Category = &cat
	}

	found, err := reservations.Search(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

func getReservation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation id"})
		return
	}

	found, err := reservations.Get(c.Request.Context(), uint(id))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

func cancelReservation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation id"})
		return
	}

	if err := reservations.Cancel(c.Request.Context(), uint(id)); err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusNoContent, "application/json", nil)
}
