package controllers

import (
	"errors"
	"fmt"
	"time"

	"frontdesk/pkg/resp"
	"frontdesk/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// fail writes the error envelope matching err's sentinel.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalid):
		resp.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrNotFound):
		resp.NotFound(c, err.Error())
	case errors.Is(err, services.ErrConflict):
		resp.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		resp.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrForbidden):
		resp.Forbidden(c, err.Error())
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		_ = c.Error(err)
		resp.ServerError(c, errors.New("internal error"))
	}
}

// bind decodes the JSON body; binding tag failures are a 400.
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		resp.BadRequest(c, err.Error())
		return false
	}
	return true
}

// timeQuery reads an optional RFC 3339 or YYYY-MM-DD query parameter.
func timeQuery(c *gin.Context, key string) (*time.Time, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%s: %q is not a date", key, v)
}

func window(c *gin.Context) (from, to *time.Time, ok bool) {
	var err error
	if from, err = timeQuery(c, "from"); err != nil {
		resp.BadRequest(c, err.Error())
		return nil, nil, false
	}
	if to, err = timeQuery(c, "to"); err != nil {
		resp.BadRequest(c, err.Error())
		return nil, nil, false
	}
	return from, to, true
}
