// Package api provides the HTTP handlers and route registration for the
// catalog, menu, playback, and account endpoints.
package api

import "github.com/gin-gonic/gin"

// Envelope is the uniform JSON body for non-streaming endpoints
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Page represents one page of a listing
type Page struct {
	Items interface{} `json:"items"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Size  int         `json:"size"`
}

func respondOK(c *gin.Context, message string, data interface{}) {
	c.JSON(200, Envelope{Success: true, Message: message, Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: false, Message: message})
}
