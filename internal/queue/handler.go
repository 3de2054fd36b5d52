package queue

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joshu-sajeev/cookbook/common"
)

type QueueHandler struct {
	service QueueServiceInterface
}

func NewQueueHandler(s QueueServiceInterface) *QueueHandler {
	return &QueueHandler{service: s}
}

var _ QueueHandlerInterface = (*QueueHandler)(nil)

// Trigger drains one batch of the image queue. It is called by the external
// scheduler and answers 200 with the counts, or 500 with {"error": ...}.
func (h *QueueHandler) Trigger(c *gin.Context) {
	res, err := h.service.Trigger(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// List returns recent queue items, optionally filtered by ?status=.
func (h *QueueHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.Error(common.Errf(http.StatusBadRequest, "invalid limit"))
			return
		}
		limit = n
	}

	items, err := h.service.List(c.Request.Context(), c.Query("status"), limit)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *QueueHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
