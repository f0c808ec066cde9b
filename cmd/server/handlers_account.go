package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func login(c *gin.Context) {
	var request struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	authenticated, err := accounts.Login(c.Request.Context(), request.Username, request.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, authenticated)
}

func requestPasswordReset(c *gin.Context) {
	var request struct {
		Username string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if err := accounts.RequestPasswordReset(c.Request.Context(), request.Username); err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusNoContent, "application/json", nil)
}

func resetPassword(c *gin.Context) {
	var request struct {
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if err := accounts.ResetPassword(c.Request.Context(), request.Token, request.Password); err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusNoContent, "application/json", nil)
}
