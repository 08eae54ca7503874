package httperr

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// UploadedFileKey is set on the context by handlers that saved an uploaded
// file during the request, so the formatter can clean it up on failure.
const UploadedFileKey = "uploadedFile"

const genericMessage = "An unknown error occurred"

// Formatter is the single place that turns request errors into HTTP
// responses. Handlers attach one error and abort; this middleware runs after
// them, removes any upload the failed request left behind, and writes the
// error's status and message as JSON. Errors without a tag degrade to 500
// with a generic message. If the response was already written downstream
// the error is only logged, never double-written.
func Formatter(removeUpload func(string) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		if path, ok := c.Get(UploadedFileKey); ok {
			if rel, ok := path.(string); ok && removeUpload != nil {
				if cleanupErr := removeUpload(rel); cleanupErr != nil {
					log.Println("[HTTP] [ERROR] upload cleanup failed:", cleanupErr)
				}
			}
		}

		if c.Writer.Written() {
			log.Println("[HTTP] [ERROR] response already written, dropping error:", err)
			return
		}

		status := http.StatusInternalServerError
		message := genericMessage
		if httpErr, ok := From(err); ok {
			status = httpErr.Status()
			message = httpErr.Message
		}

		log.Printf("[HTTP] [ERROR] %s %s -> %d: %s", c.Request.Method, c.Request.URL.Path, status, err)
		c.JSON(status, gin.H{"message": message})
	}
}

// NoRoute responds to unmatched routes with the contract's generic 404 body.
func NoRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Could not find the route"})
	}
}
