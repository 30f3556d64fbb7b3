package v1

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	actionCreated = "created"
	actionUpdated = "updated"
	actionDeleted = "deleted"
)

func (h *handlerImpl) headerName(suffix string) string {
	return "X-" + h.appName + "-" + suffix
}

// writeAlert sets the X-<app>-alert and X-<app>-params headers announcing a
// change to an entity.
func (h *handlerImpl) writeAlert(c *gin.Context, entity, action string, id int64) {
	c.Header(h.headerName("alert"), h.appName+"."+entity+"."+action)
	c.Header(h.headerName("params"), strconv.FormatInt(id, 10))
}
