package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/MStartsev/postcard/internal/geocoding"
	"github.com/MStartsev/postcard/pkg/log"
	"github.com/MStartsev/postcard/pkg/response"
)

const msgLocationNotFound = "Локацію не знайдено"

// Geocode resolves a free-form place name to coordinates.
func (h *Handler) Geocode(c *gin.Context) {
	ctx := c.Request.Context()

	query := c.Query("q")
	if query == "" {
		response.BadRequest(c, "missing query parameter q")
		return
	}

	loc, err := h.geocoder.Resolve(ctx, query)
	if err != nil {
		// Transport failures surface to the client as not-found, the same
		// as zero matches; the log entry carries the real cause.
		if !errors.Is(err, geocoding.ErrNoMatch) {
			log.Ctx(ctx).Warn().Err(err).Str("query", query).Msg("geocoding lookup failed")
		}
		response.NotFound(c, msgLocationNotFound)
		return
	}

	response.Success(c, loc)
}
