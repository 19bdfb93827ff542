package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

const (
	responseMetaKey = "dispatch.response_meta"

	metaCacheHit       = "cache_hit"
	metaBoardDate      = "board_date"
	metaProcessingTime = "processing_time_ms"
)

// WithResponseMeta attaches a metadata map to the request context so
// handlers can annotate their envelope. Processing time is filled in after
// the handler chain unless something already set it.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Set(responseMetaKey, map[string]interface{}{})
		c.Next()
		meta := ensureMeta(c)
		if _, exists := meta[metaProcessingTime]; !exists {
			meta[metaProcessingTime] = time.Since(start).Milliseconds()
		}
	}
}

// SetCacheHit records whether the board render model came from cache.
func SetCacheHit(c *gin.Context, hit bool) {
	ensureMeta(c)[metaCacheHit] = hit
}

// SetBoardDate records which day the response was composed for, so clients
// see the resolved date even when they omitted the query parameter.
func SetBoardDate(c *gin.Context, date string) {
	ensureMeta(c)[metaBoardDate] = date
}

// ExtractMeta returns the metadata map stored on the context, or nil when
// WithResponseMeta did not run.
func ExtractMeta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return nil
	}
	if meta, exists := c.Get(responseMetaKey); exists {
		if typed, ok := meta.(map[string]interface{}); ok {
			return typed
		}
	}
	return nil
}

func ensureMeta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return map[string]interface{}{}
	}
	if meta, exists := c.Get(responseMetaKey); exists {
		if typed, ok := meta.(map[string]interface{}); ok {
			return typed
		}
	}
	newMeta := make(map[string]interface{})
	c.Set(responseMetaKey, newMeta)
	return newMeta
}
