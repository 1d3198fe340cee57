package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/taskassist-api/internal/errors"
)

const paramKeyPrefix = "param:"

// RequireIDParam parses the named path parameter as a positive ID and
// rejects the request with 400 otherwise. label names the entity in the
// error message.
func RequireIDParam(name, label string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param(name), 10, 64)
		if err != nil || id == 0 {
			apierrors.BadRequest(c, "Invalid "+label+" ID")
			c.Abort()
			return
		}

		c.Set(paramKeyPrefix+name, id)
		c.Next()
	}
}

// IDParam returns an ID parsed by RequireIDParam.
func IDParam(c *gin.Context, name string) uint64 {
	return c.GetUint64(paramKeyPrefix + name)
}
