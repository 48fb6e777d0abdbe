package contact

import (
	"net/http"

	"bloodgroup/internal/middleware"
	"bloodgroup/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(v1 *gin.RouterGroup) {
	v1.POST("/contact", h.Submit)
}

// Submit handles POST /contact. Anonymous visitors may write in.
func (h *Handler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Name, email and message are required.")
		return
	}

	msg, err := h.service.Submit(c.Request.Context(), middleware.IdentityFrom(c), req)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "CONTACT_FAILED", "Could not send your message, please try again.")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"id":      msg.ID,
		"message": "Message sent successfully!",
	})
}
