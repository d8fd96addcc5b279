package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"identity-api/internal/infrastructure/metrics"
)

const (
	maxLogBodySize = 1 << 12 // 4 KB
	masked         = "****"
)

var sensitiveKeys = map[string]struct{}{
	"password":     {},
	"access_token": {},
	"token":        {},
}

func RequestLogGin(logger *zap.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions ||
			c.Request.URL.Path == "/favicon.ico" ||
			strings.HasSuffix(c.Request.URL.Path, "/metrics") {
			c.Next()
			return
		}

		start := time.Now()

		var body string
		if c.Request.Body != nil {
			var buf bytes.Buffer
			_, _ = io.Copy(&buf, io.LimitReader(c.Request.Body, maxLogBodySize))
			// replay the logged prefix ahead of whatever was not read
			c.Request.Body = struct {
				io.Reader
				io.Closer
			}{io.MultiReader(bytes.NewReader(buf.Bytes()), c.Request.Body), c.Request.Body}
			body = maskBody(c.ContentType(), buf.Bytes())
		}

		c.Next()

		if m != nil {
			m.Counter.WithLabelValues("app_requests_total").Inc()
		}

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("url", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("body", body),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		}
		if rid := c.GetString(KeyRequestID); rid != "" {
			fields = append(fields, zap.String("request_id", rid))
		}
		if u, ok := CurrentUser(c); ok {
			fields = append(fields, zap.Stringer("caller_uuid", u.UUID))
		}
		if len(c.Errors) > 0 {
			logger.Error("HTTP request", append(fields, zap.String("errors", c.Errors.String()))...)
			return
		}
		logger.Info("HTTP request", fields...)
	}
}

func maskBody(contentType string, b []byte) string {
	if len(b) == 0 {
		return ""
	}

	switch contentType {
	case "application/x-www-form-urlencoded":
		q, err := url.ParseQuery(string(b))
		if err != nil {
			return "<unparseable form omitted>"
		}
		for k := range q {
			if _, ok := sensitiveKeys[strings.ToLower(k)]; ok {
				q.Set(k, masked)
			}
		}
		return q.Encode()
	case "multipart/form-data":
		return "<multipart/form-data omitted>"
	case "application/json":
		var v any
		if err := json.Unmarshal(b, &v); err != nil {
			// truncated or invalid, never log raw secrets
			return "<unparseable json omitted>"
		}
		out, _ := json.Marshal(maskValue(v))
		return string(out)
	default:
		return "<" + contentType + " omitted>"
	}
}

func maskValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			if _, ok := sensitiveKeys[strings.ToLower(k)]; ok {
				t[k] = masked
				continue
			}
			t[k] = maskValue(val)
		}
		return t
	case []any:
		for i := range t {
			t[i] = maskValue(t[i])
		}
		return t
	default:
		return v
	}
}
