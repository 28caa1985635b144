package daemon

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// abortWithError replies with err as a JSON string and records it on the
// context for the request logger.
func abortWithError(c *gin.Context, code int, err error) {
	c.IndentedJSON(code, err.Error())
	_ = c.AbortWithError(code, err)
}

// saveConfig persists the config. On failure it replies 500 and returns
// false.
func (d *Daemon) saveConfig(c *gin.Context) bool {
	if err := d.conf.Save(); err != nil {
		logrus.Errorf("saveConfig failed: %v", err)
		abortWithError(c, http.StatusInternalServerError, err)
		return false
	}
	return true
}
