package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"libmanager/pkg/account"
)

func listUsers(c *gin.Context) {
	birthday, err := queryDate(c, "birthday")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format"})
		return
	}
	registered, err := queryDate(c, "registrationDate")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format"})
		return
	}

	filter := account.UserFilter{
		Username:         queryString(c, "username"),
		FirstName:        queryString(c, "firstName"),
		LastName:         queryString(c, "lastName"),
		Address:          queryString(c, "address"),
		Email:            queryString(c, "email"),
		Birthday:         birthday,
		RegistrationDate: registered,
	}

	users, err := accounts.Search(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func getUser(c *gin.Context) {
	user, err := accounts.Get(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func createUser(c *gin.Context) {
	var request struct {
		Username  string `json:"username" binding:"required,max=16"`
		FirstName string `json:"firstName" binding:"required"`
		LastName  string `json:"lastName" binding:"required"`
		Address   string `json:"address" binding:"required"`
		Email     string `json:"email" binding:"required,email"`
		Birthday  string `json:"birthday" binding:"required"`
		Password  string `json:"password" binding:"required,min=6"`
		Admin     bool   `json:"admin"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	birthday, err := time.Parse(dbDateFormat, request.Birthday)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format"})
		return
	}

	user, err := accounts.Add(c.Request.Context(), account.AddInput{
		Username:  request.Username,
		FirstName: request.FirstName,
		LastName:  request.LastName,
		Address:   request.Address,
		Email:     request.Email,
		Birthday:  birthday,
		Password:  request.Password,
		Admin:     request.Admin,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func updateUser(c *gin.Context) {
	var request struct {
		FirstName string `json:"firstName" binding:"required"`
		LastName  string `json:"lastName" binding:"required"`
		Address   string `json:"address" binding:"required"`
		Email     string `json:"email" binding:"required,email"`
		Birthday  string `json:"birthday" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	birthday, err := time.Parse(dbDateFormat, request.Birthday)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format"})
		return
	}

	user, err := accounts.Edit(c.Request.Context(), c.Param("username"), account.EditInput{
		FirstName: request.FirstName,
		LastName:  request.LastName,
		Address:   request.Address,
		Email:     request.Email,
		Birthday:  birthday,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func deleteUser(c *gin.Context) {
	if err := accounts.Delete(c.Request.Context(), c.Param("username")); err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusNoContent, "application/json", nil)
}
