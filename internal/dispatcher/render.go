package dispatcher

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/hookhost/hookhost/internal/descriptor"
	"github.com/hookhost/hookhost/internal/hooks"
)

// renderContext carries the per-call facts renderDescriptor needs beyond
// the descriptor itself: whether the response came straight from cache
// (which must never be re-inserted), the cache key it would be stored
// under, and the two timing checkpoints §4.2/§6 ask the X-GMetrics
// header to report.
type renderContext struct {
	method    string
	cacheKey  string
	fromCache bool
	arrivedAt time.Time
	hookEntry time.Time
}

// renderDescriptor turns a hook's response descriptor into the HTTP
// response, per §4.2's "Response rendering" rules, and inserts the
// result into the cache when it qualifies (§4.2's cache-insertion
// predicate, restricted here to GET/HEAD per the open-question decision
// recorded in DESIGN.md).
func (s *Server) renderDescriptor(c fiber.Ctx, d descriptor.Descriptor, rc renderContext) error {
	if d.Error {
		s.Logger.WithField("cache_key", rc.cacheKey).Warn("hook signaled a fatal error")
		return writeSimpleError(c, fiber.StatusInternalServerError)
	}

	if d.Manual != "" {
		return s.renderManual(c, d)
	}

	if !d.Valid() {
		s.Logger.WithFields(map[string]any{"status": d.Status, "cache_key": rc.cacheKey}).Warn("hook returned an invalid descriptor")
		return writeSimpleError(c, fiber.StatusInternalServerError)
	}

	c.Status(d.Status)

	cacheable := true
	for _, name := range d.Headers.Keys() {
		value, _ := d.Headers.Get(name)
		if !validHeaderValue(value) {
			s.Logger.WithFields(map[string]any{"header": name, "cache_key": rc.cacheKey}).Warn("skipping invalid header value")
			continue
		}
		c.Set(name, value)
	}

	if d.HasEntityTag {
		c.Set(fiber.HeaderETag, d.EntityTag)
	} else {
		cacheable = false
	}
	if d.HasMaxAge {
		c.Set(fiber.HeaderCacheControl, fmt.Sprintf("max-age=%d, must-revalidate", d.MaxAge))
	} else {
		cacheable = false
	}

	if d.DataType != "" && strings.Contains(d.DataType, "/") {
		c.Set(fiber.HeaderContentType, d.DataType)
	} else {
		c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	}

	stage1Us := rc.hookEntry.Sub(rc.arrivedAt).Microseconds()
	stage2Us := time.Since(rc.hookEntry).Microseconds()
	c.Set("X-GMetrics", fmt.Sprintf("%dus, %dus", stage1Us, stage2Us))

	switch d.Data.Kind {
	case descriptor.KindBytes:
		c.Response().Header.SetContentLength(len(d.Data.Bytes))
		_ = c.Send(d.Data.Bytes)
	case descriptor.KindText:
		encoded := []byte(d.Data.Text)
		c.Response().Header.SetContentLength(len(encoded))
		_ = c.Send(encoded)
	case descriptor.KindStream:
		cacheable = false
		if d.Data.Length > 0 {
			c.Response().Header.SetContentLength(int(d.Data.Length))
		} else {
			c.Response().Header.Del(fiber.HeaderContentLength)
		}
		if _, err := io.Copy(c.Response().BodyWriter(), d.Data.Stream); err != nil {
			s.Logger.WithError(err).WithField("cache_key", rc.cacheKey).Warn("streaming response body failed")
		}
	default:
		cacheable = false
		c.Response().Header.Del(fiber.HeaderContentType)
		c.Response().Header.Del(fiber.HeaderETag)
		c.Response().Header.Del(fiber.HeaderCacheControl)
		return writeSimpleError(c, d.Status)
	}

	if !rc.fromCache && cacheable && (rc.method == fiber.MethodGet || rc.method == fiber.MethodHead) {
		size := int64(d.Data.Len())
		s.Cache.Put(rc.cacheKey, d, size, time.Now().Add(time.Duration(d.MaxAge)*time.Second))
	}

	return nil
}

// renderManual resolves d.Manual as a hook name and, if its chain
// exists, cedes control to it in DISPATCH mode with (request, response,
// descriptor); an absent target is a 502 per §7.
func (s *Server) renderManual(c fiber.Ctx, d descriptor.Descriptor) error {
	if _, ok := s.Registry.Lookup(d.Manual); !ok {
		s.Logger.WithField("manual_target", d.Manual).Warn("manual delegation target does not exist")
		return writeSimpleError(c, fiber.StatusBadGateway)
	}
	s.Registry.Dispatch(d.Manual, hooks.AllCats, false, []any{c.Request(), c.Response(), d})
	return nil
}

func validHeaderValue(v string) bool {
	return !strings.ContainsAny(v, "\r\n")
}

// writeSimpleError emits the minimal error body §4.2 calls for when a
// descriptor can't be rendered as intended.
func writeSimpleError(c fiber.Ctx, status int) error {
	return c.Status(status).SendString(descriptor.ReasonPhrase(status))
}
