package admin

import (
	"errors"
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

// RegisterRoutes expects a group already guarded by middleware.AdminOnly.
// The service re-checks the identity either way.
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.GET("/dashboard", h.GetDashboard)
	admin.GET("/donors", h.SearchDonors)
}

func (h *Handler) GetDashboard(c *gin.Context) {
	d, err := h.service.Dashboard(c.Request.Context(), middleware.IdentityFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"users":       toUserRows(d.Users),
		"predictions": toPredictionRows(d.Predictions),
	})
}

// SearchDonors handles GET /admin/donors?blood=&city=.
func (h *Handler) SearchDonors(c *gin.Context) {
	var q DonorQuery
	if v, ok := c.GetQuery("blood"); ok {
		q.BloodGroup = &v
	}
	if v, ok := c.GetQuery("city"); ok {
		q.Location = &v
	}

	donors, err := h.service.Donors(c.Request.Context(), middleware.IdentityFrom(c), q)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"donors": toUserRows(donors),
		"count":  len(donors),
	})
}

func (h *Handler) fail(c *gin.Context, err error) {
	if errors.Is(err, ErrForbidden) {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied. Admins only.")
		return
	}
	_ = c.Error(err)
	response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Could not load admin data")
}
