package middleware

import (
	"bufio"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
)

// GzipConfig controls response compression.
type GzipConfig struct {
	// Level is a compress/gzip level; 0 selects gzip.DefaultCompression.
	Level int
	// Exclude lists path prefixes served uncompressed, such as endpoints
	// that negotiate their own encoding.
	Exclude []string
}

// Gzip compresses responses for clients that accept gzip.
func Gzip(cfg GzipConfig) gin.HandlerFunc {
	level := cfg.Level
	if level == 0 {
		level = gzip.DefaultCompression
	}
	pool := sync.Pool{New: func() any {
		gz, err := gzip.NewWriterLevel(io.Discard, level)
		if err != nil {
			gz = gzip.NewWriter(io.Discard)
		}
		return gz
	}}

	return func(c *gin.Context) {
		if !acceptsGzip(c.Request) || hasPrefix(c.Request.URL.Path, cfg.Exclude) {
			c.Next()
			return
		}

		gz := pool.Get().(*gzip.Writer)
		defer pool.Put(gz)
		gz.Reset(c.Writer)

		c.Header("Content-Encoding", "gzip")
		c.Writer.Header().Add("Vary", "Accept-Encoding")
		w := &gzipWriter{ResponseWriter: c.Writer, gz: gz}
		c.Writer = w

		c.Next()

		if w.Size() < 0 {
			// Nothing was written; skip the gzip trailer and the encoding.
			gz.Reset(io.Discard)
			w.Header().Del("Content-Encoding")
		}
		_ = gz.Close()
		c.Writer = w.ResponseWriter
	}
}

func acceptsGzip(r *http.Request) bool {
	if r.Method == http.MethodHead || r.Header.Get("Upgrade") != "" {
		return false
	}
	return strings.Contains(r.Header.Get("Accept-Encoding"), "gzip")
}

func hasPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// gzipWriter routes the body through gz. The wrapped writer's Size
// counts compressed bytes.
type gzipWriter struct {
	gin.ResponseWriter
	gz *gzip.Writer
}

func (w *gzipWriter) WriteHeader(code int) {
	w.Header().Del("Content-Length")
	w.ResponseWriter.WriteHeader(code)
}

func (w *gzipWriter) Write(data []byte) (int, error) {
	w.Header().Del("Content-Length")
	return w.gz.Write(data)
}

func (w *gzipWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

func (w *gzipWriter) Flush() {
	_ = w.gz.Flush()
	w.ResponseWriter.Flush()
}

func (w *gzipWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return nil, nil, errors.New("gzip: hijacking a compressed response")
}
