package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"github.com/LENAX/plan-engine/pkg/api/dto"
	"github.com/gin-gonic/gin"
)

// Recovery panic恢复中间件
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("[Recovery] panic recovered: %v\n%s", err, debug.Stack())

				c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
					500,
					"Internal Server Error",
				))
				c.Abort()
			}
		}()
		c.Next()
	}
}
