package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	apperrors "guestgate/internal/errors"
	"guestgate/internal/logger"
	"guestgate/internal/models"
	"guestgate/internal/services"
)

// correlationParams are the path parameters that identify a guest.
var correlationParams = []string{"confirmationNo", "nameId"}

// captureWriter tees every byte written to the client into body.
type captureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// AuditRecorder returns a Gin middleware that records every request together
// with the response it produced. The record is handed to svc after the
// response has been flushed, so persistence never delays the client.
// Bodies larger than maxBody are answered with 413 and never reach handlers.
func AuditRecorder(svc services.AuditServicer, maxBody int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		entry := &models.AuditLog{
			RequestMethod:    c.Request.Method,
			RequestPath:      c.Request.URL.Path,
			RequestHeaders:   headersJSON(c.Request.Header),
			RequestTimestamp: start,
			ClientIP:         c.ClientIP(),
			UserAgent:        optional(c.Request.UserAgent()),
			LicenseKey:       optional(c.GetHeader(APIKeyHeader)),
			ConfirmationNo:   correlationID(c),
		}
		body, err := readBody(c, maxBody)
		entry.RequestBody = body

		writer := &captureWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = writer

		if err != nil {
			RespondWithError(c, err)
			c.Abort()
		} else {
			c.Next()
		}

		writer.Flush()

		end := time.Now()
		entry.ResponseStatus = writer.Status()
		entry.ResponseTimestamp = end
		entry.DurationMS = end.Sub(start).Milliseconds()
		entry.ResponseBody = optional(writer.body.String())
		if entry.ResponseStatus >= http.StatusBadRequest {
			entry.ErrorMessage = errorMessage(writer.body.Bytes())
		}

		svc.Record(entry)
	}
}

// readBody returns the raw request body, read up to limit bytes, and restores
// it for downstream handlers. An empty body yields nil. A body over limit
// yields ErrBodyTooLarge.
func readBody(c *gin.Context, limit int64) (*string, error) {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return nil, nil
	}
	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, limit))
	_ = c.Request.Body.Close()
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperrors.ErrBodyTooLarge
		}
		logger.Get().Warnw("failed to read request body for audit", "error", err.Error(), "path", c.Request.URL.Path)
		return nil, nil
	}
	return optional(string(raw)), nil
}

// headersJSON encodes headers with lower-cased names and comma-joined values.
func headersJSON(h http.Header) datatypes.JSON {
	flat := make(map[string]string, len(h))
	for name, values := range h {
		flat[strings.ToLower(name)] = strings.Join(values, ", ")
	}
	raw, err := json.Marshal(flat)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

func correlationID(c *gin.Context) *int64 {
	for _, param := range correlationParams {
		if v := c.Param(param); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil
			}
			return &id
		}
	}
	return nil
}

// errorMessage extracts the "message" field of a JSON error envelope.
func errorMessage(body []byte) *string {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil
	}
	return optional(envelope.Message)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
