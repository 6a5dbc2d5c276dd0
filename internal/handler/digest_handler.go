package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"holdops/internal/service"
)

// DigestHandler handles digest endpoints.
type DigestHandler struct {
	digestService service.DigestService
	now           func() time.Time
}

// NewDigestHandler creates a new DigestHandler.
func NewDigestHandler(digestService service.DigestService) *DigestHandler {
	return &DigestHandler{digestService: digestService, now: time.Now}
}

// digestRequest is the body of POST /digests. Year and month default to the
// previous calendar month.
type digestRequest struct {
	Companies  []string `json:"companies"`
	Year       int      `json:"year"`
	Month      int      `json:"month" binding:"omitempty,min=1,max=12"`
	Send       bool     `json:"send"`
	Recipients []string `json:"recipients" binding:"omitempty,dive,email"`
}

// Create handles POST /api/v1/digests
// @Summary      Generate digest
// @Description  Builds the monthly operations digest and optionally emails it
// @Tags         digests
// @Accept       json
// @Produce      json
// @Param        body body digestRequest false "Digest options"
// @Success      200 {object} APIResponse{data=domain.Digest}
// @Failure      400 {object} APIResponse
// @Security     BearerAuth
// @Router       /digests [post]
func (h *DigestHandler) Create(c *gin.Context) {
	var req digestRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
			return
		}
	}
	if req.Year == 0 || req.Month == 0 {
		prev := h.now().AddDate(0, 0, -h.now().Day())
		if req.Year == 0 {
			req.Year = prev.Year()
		}
		if req.Month == 0 {
			req.Month = int(prev.Month())
		}
	}

	ctx := c.Request.Context()
	digest, err := h.digestService.Generate(ctx, req.Companies, req.Year, req.Month)
	if err != nil {
		HandleError(c, err)
		return
	}
	if req.Send {
		digest, err = h.digestService.Send(ctx, digest, req.Recipients)
		if err != nil {
			HandleError(c, err)
			return
		}
	}
	RespondOK(c, digest)
}
