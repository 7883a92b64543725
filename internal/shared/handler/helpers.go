package handler

import (
	"net/http"

	sharedError "github.com/changhyeonkim/hello-orm/internal/shared/error"
	"github.com/changhyeonkim/hello-orm/internal/shared/middleware"
	"github.com/changhyeonkim/hello-orm/internal/shared/validator"
	"github.com/gin-gonic/gin"
)

// BindJSON parses and validates JSON request body
// Returns true if binding succeeded, false if failed (response already sent)
//
// Usage:
//
//	var req RenameRequest
//	if !handler.BindJSON(c, &req) {
//	    return
//	}
func BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		// Add error to context for middleware logging
		c.Error(err)

		// Check if it's a validation error
		if resp, ok := validator.ToErrorResponse(err); ok {
			c.JSON(http.StatusBadRequest, resp.WithRequestID(middleware.GetRequestID(c)))
		} else {
			// JSON parsing error or other binding errors
			c.JSON(sharedError.InvalidRequest.Status, sharedError.InvalidRequest.WithRequestID(middleware.GetRequestID(c)))
		}
		return false
	}
	return true
}

// RespondError sends an error response with logging
//
// Usage:
//
//	if err := service.DoSomething(); err != nil {
//	    handler.RespondError(c, err, sharedError.InternalServerError)
//	    return
//	}
func RespondError(c *gin.Context, err error, errResp sharedError.ErrorResponse) {
	// Add error to context for middleware logging
	c.Error(err)

	if c.Request.Context().Err() != nil {
		errResp = sharedError.RequestTimeout
	}

	c.JSON(errResp.Status, errResp.WithRequestID(middleware.GetRequestID(c)))
}
