package response

import (
	"log"
	"net/http"
	"time"

	"campusvoice.com/backend/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// Metadata is attached to every response body so clients can treat success and
// failure uniformly.
type Metadata struct {
	Timestamp  time.Time `json:"timestamp"`
	StatusCode int       `json:"status_code"`
	Success    bool      `json:"success"`
}

// Envelope is the body shape of every endpoint: {metadata, data} on success,
// {metadata, error} on failure.
type Envelope struct {
	Metadata Metadata    `json:"metadata"`
	Data     interface{} `json:"data,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// JSON writes a success envelope with the given status code.
func JSON(c *gin.Context, code int, data interface{}) {
	c.JSON(code, Envelope{
		Metadata: Metadata{
			Timestamp:  time.Now().UTC(),
			StatusCode: code,
			Success:    true,
		},
		Data: data,
	})
}

// Error writes a failure envelope. Internal errors are logged with their cause
// but the body only carries the stable message.
func Error(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	if code == http.StatusInternalServerError {
		log.Printf("[internal error] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}

	c.JSON(code, Envelope{
		Metadata: Metadata{
			Timestamp:  time.Now().UTC(),
			StatusCode: code,
			Success:    false,
		},
		Error: err.Error(),
	})
}
