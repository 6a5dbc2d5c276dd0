package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"holdops/internal/service"
)

// maxKVBody caps the size of a stored value.
const maxKVBody = 1 << 20

// KVHandler proxies the key-value store.
type KVHandler struct {
	kvService service.KVService
}

// NewKVHandler creates a new KVHandler.
func NewKVHandler(kvService service.KVService) *KVHandler {
	return &KVHandler{kvService: kvService}
}

// kvKey returns the key path parameter without the wildcard's leading slash.
func kvKey(c *gin.Context) string {
	return strings.TrimPrefix(c.Param("key"), "/")
}

// Get handles GET /api/v1/kv/*key
func (h *KVHandler) Get(c *gin.Context) {
	v, err := h.kvService.Get(c.Request.Context(), kvKey(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"key": kvKey(c), "value": v})
}

// Put handles PUT /api/v1/kv/*key. The body is the raw JSON value; the
// optional ttl query parameter is a Go duration such as "24h".
func (h *KVHandler) Put(c *gin.Context) {
	var ttl time.Duration
	if v := c.Query("ttl"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid 'ttl': must be a non-negative duration like 30m or 24h")
			return
		}
		ttl = d
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxKVBody+1))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "could not read body")
		return
	}
	if len(body) > maxKVBody {
		RespondError(c, http.StatusRequestEntityTooLarge, "VALUE_TOO_LARGE", "value exceeds 1 MiB")
		return
	}

	if err := h.kvService.Set(c.Request.Context(), kvKey(c), json.RawMessage(body), ttl); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"key": kvKey(c)})
}

// Delete handles DELETE /api/v1/kv/*key
func (h *KVHandler) Delete(c *gin.Context) {
	if err := h.kvService.Delete(c.Request.Context(), kvKey(c)); err != nil {
		HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// List handles GET /api/v1/kv?prefix=
func (h *KVHandler) List(c *gin.Context) {
	entries, err := h.kvService.List(c.Request.Context(), c.Query("prefix"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondList(c, entries, len(entries))
}
