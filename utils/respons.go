package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    nil,
	})
}

// RespondServiceError writes a service failure. Unknown errors are logged and
// hidden behind a generic message.
func RespondServiceError(c *gin.Context, err error, overrides map[ErrorKind]int) {
	code := HTTPStatus(err, overrides)
	if code == http.StatusInternalServerError {
		if ErrorLogger != nil {
			ErrorLogger.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
		}
		c.AbortWithStatusJSON(code, JSONResponse{Status: false, Message: "Internal server error"})
		return
	}
	c.AbortWithStatusJSON(code, JSONResponse{Status: false, Message: err.Error()})
}
