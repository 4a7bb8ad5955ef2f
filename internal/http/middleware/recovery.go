// README: Panic recovery; logs the panic and answers 500.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func Recovery(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if p := recover(); p != nil {
				log.WithFields(logrus.Fields{
					"panic":      p,
					"path":       c.Request.URL.Path,
					"request_id": c.GetString(ctxKeyRequestID),
				}).Error("handler panicked")
				abort(c, http.StatusInternalServerError, "internal error")
			}
		}()
		c.Next()
	}
}
