package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// ParseStringIDParam reads a path parameter, answering 400 when it is blank.
func ParseStringIDParam(c *gin.Context, param string) string {
	idStr := strings.TrimSpace(c.Param(param))
	if idStr == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "invalid_request",
			Message: "Invalid " + param,
			Details: "ID cannot be empty",
		})
		return ""
	}
	return idStr
}

func getIntQuery(c *gin.Context, key string, defaultValue int) (int, bool) {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue, true
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "invalid_request",
			Message: "Invalid " + key,
			Details: "must be a whole number",
		})
		return 0, false
	}
	return value, true
}
