package middleware

import (
	"rayob-cms/helper"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = helper.RequestIDKey

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.NewString()
		}
		c.Set(helper.RequestIDKey, requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)
		c.Next()
	}
}
