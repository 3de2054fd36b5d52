package recipe

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joshu-sajeev/cookbook/common"
	"github.com/joshu-sajeev/cookbook/internal/config"
	"github.com/joshu-sajeev/cookbook/internal/dto"
	"github.com/joshu-sajeev/cookbook/middleware"
)

// formOverhead leaves room for multipart boundaries and headers on top of
// the image itself.
const formOverhead = 1 << 20

type RecipeHandler struct {
	service RecipeServiceInterface
}

func NewRecipeHandler(s RecipeServiceInterface) *RecipeHandler {
	return &RecipeHandler{service: s}
}

var _ RecipeHandlerInterface = (*RecipeHandler)(nil)

// Create handles guest recipe submissions and returns 201 with the stored
// recipe. When an image URL is given the response carries the queue item.
func (h *RecipeHandler) Create(c *gin.Context) {
	var req dto.RecipeCreateDTO
	if !middleware.Bind(c, &req) {
		return
	}

	resp, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *RecipeHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id < 1 {
		c.Error(common.Errf(http.StatusBadRequest, "invalid ID"))
		return
	}

	resp, err := h.service.Get(c.Request.Context(), uint(id))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UploadImage accepts a multipart "image" field and stores it.
func (h *RecipeHandler) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, config.MaxImageBytes+formOverhead)

	fh, err := c.FormFile("image")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.Error(common.Errf(http.StatusRequestEntityTooLarge, "image exceeds %d MiB", config.MaxImageBytes>>20))
			return
		}
		c.Error(common.Errf(http.StatusBadRequest, "image file is required"))
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.Error(common.Errf(http.StatusBadRequest, "failed to read image"))
		return
	}
	defer f.Close()

	resp, err := h.service.UploadImage(c.Request.Context(), f, fh.Size)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
