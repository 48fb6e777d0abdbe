package prediction

import (
	"errors"
	"io"
	"net/http"
	"path"
	"strings"

	"bloodgroup/internal/middleware"
	"bloodgroup/internal/pkg/imaging"
	"bloodgroup/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const formField = "image"

// multipartSlack covers boundaries and part headers on top of the file itself.
const multipartSlack = 64 << 10

type Handler struct {
	service        *Service
	staticURLBase  string
	maxUploadBytes int64
}

func NewHandler(service *Service, staticURLBase string, maxUploadBytes int64) *Handler {
	return &Handler{
		service:        service,
		staticURLBase:  staticURLBase,
		maxUploadBytes: maxUploadBytes,
	}
}

// RegisterRoutes mounts /predict (anonymous allowed) and /history (login
// required). guards run before every upload.
func (h *Handler) RegisterRoutes(v1 *gin.RouterGroup, guards ...gin.HandlerFunc) {
	v1.POST("/predict", append(guards, h.Predict)...)
	v1.GET("/history", middleware.RequireAuth(), h.History)
}

// RegisterUploadRedirect keeps the legacy /uploads/<name> links working.
func (h *Handler) RegisterUploadRedirect(r gin.IRoutes) {
	r.GET("/uploads/:filename", h.RedirectUpload)
}

// Predict handles POST /predict with a multipart "image" file.
func (h *Handler) Predict(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartSlack)
	}

	fileHeader, err := c.FormFile(formField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			h.tooLarge(c)
			return
		}
		response.Error(c, http.StatusBadRequest, "NO_FILE", "No file uploaded.")
		return
	}
	if h.maxUploadBytes > 0 && fileHeader.Size > h.maxUploadBytes {
		h.tooLarge(c)
		return
	}
	if fileHeader.Filename == "" {
		response.Error(c, http.StatusBadRequest, "NO_FILE", "No file selected.")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusBadRequest, "INVALID_FILE", "Could not read uploaded file")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusBadRequest, "INVALID_FILE", "Could not read uploaded file")
		return
	}

	out := h.service.Predict(c.Request.Context(), imaging.Upload{
		Filename: fileHeader.Filename,
		Data:     data,
	}, middleware.IdentityFrom(c))

	body := toPredictResponse(out, h.staticURLBase)
	code := statusCode(out.Status)
	if code >= http.StatusBadRequest {
		if out.Err != nil {
			_ = c.Error(out.Err)
		}
		response.ErrorWithDetails(c, code, strings.ToUpper(string(out.Status)), out.Message, body)
		return
	}
	response.Success(c, code, body)
}

func (h *Handler) tooLarge(c *gin.Context) {
	response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "Uploaded file is too large")
}

// History handles GET /history for the logged-in user.
func (h *Handler) History(c *gin.Context) {
	items, err := h.service.History(c.Request.Context(), middleware.IdentityFrom(c))
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Login required")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "HISTORY_FAILED", "Could not load prediction history")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"predictions": toHistory(items, h.staticURLBase)})
}

func (h *Handler) RedirectUpload(c *gin.Context) {
	name := path.Base(c.Param("filename"))
	if name == "." || name == "/" {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "File not found")
		return
	}
	c.Redirect(http.StatusMovedPermanently, imageURL(h.staticURLBase, name))
}

func statusCode(s Status) int {
	switch s {
	case StatusRejected:
		return http.StatusBadRequest
	case StatusStorageFailed:
		return http.StatusInternalServerError
	case StatusFailed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusOK
	}
}
