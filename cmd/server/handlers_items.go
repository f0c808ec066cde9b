package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"libmanager/pkg/catalog"
	"libmanager/pkg/models"
)

func listItems(c *gin.Context) {
	releaseDate, err := queryDate(c, "releaseDate")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format"})
		return
	}

	filter := catalog.ItemFilter{
		Title:       queryString(c, "title"),
		Creator:     queryString(c, "creator"),
		Publisher:   queryString(c, "publisher"),
		Genre:       queryString(c, "genre"),
		ISBN:        queryString(c, "isbn"),
		ReleaseDate: releaseDate,
	}
	if category := queryString(c, "category"); category != nil {
		cat := models.Category(*category)
		filter.Category = &cat
	}
	if available, ok := c.GetQuery("available"); ok && available != "" {
		parsed, err := strconv.ParseBool(available)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid available flag"})
			return
		}
		filter.Available = &parsed
	}

	found, err := items.Search(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

func getItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	item, err := items.Get(c.Request.Context(), uint(id))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

type itemRequest struct {
	Category    string `json:"category" binding:"required,oneof=BOOK DVD"`
	Title       string `json:"title" binding:"required"`
	Creator     string `json:"creator" binding:"required"`
	Genre       string `json:"genre" binding:"required"`
	ReleaseDate string `json:"releaseDate" binding:"required"`
	TotalCopies int    `json:"totalCopies" binding:"gte=0"`
	Publisher   string `json:"publisher"`
	ISBN        string `json:"isbn"`
	Duration    string `json:"duration"`
}

func createItem(c *gin.Context) {
	var request itemRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	releaseDate, err := time.Parse(dbDateFormat, request.ReleaseDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format"})
		return
	}

	var item *models.Item
	switch models.Category(request.Category) {
	case models.CategoryBook:
		item, err = items.AddBook(c.Request.Context(), catalog.BookInput{
			Title:       request.Title,
			Author:      request.Creator,
			Publisher:   request.Publisher,
			Genre:       request.Genre,
			ISBN:        request.ISBN,
			ReleaseDate: releaseDate,
			TotalCopies: request.TotalCopies,
		})
	case models.CategoryDVD:
		item, err = items.AddDVD(c.Request.Context(), catalog.DVDInput{
			Title:       request.Title,
			Director:    request.Creator,
			Genre:       request.Genre,
			Duration:    request.Duration,
			ReleaseDate: releaseDate,
			TotalCopies: request.TotalCopies,
		})
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func updateItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	var request struct {
		Title       string `json:"title" binding:"required"`
		Creator     string `json:"creator" binding:"required"`
		Genre       string `json:"genre" binding:"required"`
		ReleaseDate string `json:"releaseDate" binding:"required"`
		TotalCopies int    `json:"totalCopies" binding:"gte=0"`
		Publisher   string `json:"publisher"`
		ISBN        string `json:"isbn"`
		Duration    string `json:"duration"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	releaseDate, err := time.Parse(dbDateFormat, request.ReleaseDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format"})
		return
	}

	item, err := items.Edit(c.Request.Context(), uint(id), catalog.EditInput{
		Title:       request.Title,
		Creator:     request.Creator,
		Publisher:   request.Publisher,
		Genre:       request.Genre,
		ISBN:        request.ISBN,
		Duration:    request.Duration,
		ReleaseDate: releaseDate,
		TotalCopies: request.TotalCopies,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func deleteItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	if err := items.Delete(c.Request.Context(), uint(id)); err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusNoContent, "application/json", nil)
}
