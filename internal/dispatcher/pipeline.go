package dispatcher

import (
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/valyala/fasthttp"

	"github.com/hookhost/hookhost/internal/config"
	"github.com/hookhost/hookhost/internal/descriptor"
	"github.com/hookhost/hookhost/internal/hooks"
)

// Handle runs the full per-request pipeline described in §4.2: redirect
// policy, site resolution, method dispatch, body collection, hook
// execution, and response rendering.
func (s *Server) Handle(c fiber.Ctx) error {
	arrivedAt := time.Now()

	if handled, err := s.maybeRedirect(c); handled {
		return err
	}

	host := strings.TrimSpace(string(c.Request().Header.Peek(fiber.HeaderHost)))
	site, ok := s.Config.SiteFor(host)
	if !ok {
		return destroyConnection(c)
	}

	switch c.Method() {
	case fiber.MethodGet, fiber.MethodHead:
		return s.dispatchHooks(c, site, nil, nil, arrivedAt)
	case fiber.MethodPost:
		body, params, status := s.collectBody(c)
		if status != 0 {
			return writeSimpleError(c, status)
		}
		return s.dispatchHooks(c, site, body, params, arrivedAt)
	case fiber.MethodOptions:
		return writeSimpleError(c, fiber.StatusNotImplemented)
	default:
		return writeSimpleError(c, fiber.StatusMethodNotAllowed)
	}
}

// hookResult carries a Call continuation's outcome across the channel
// the per-request goroutine blocks on; Call itself never runs its
// callback synchronously (§5), so this channel is how an event-driven
// chain invocation is bridged back into this request's own goroutine.
type hookResult struct {
	value any
	err   error
}

// dispatchHooks resolves the cache key and hook target, runs the
// matching chain under CALL semantics, and hands the resulting
// descriptor to the renderer.
func (s *Server) dispatchHooks(c fiber.Ctx, site config.SiteConfig, body []byte, bodyParams map[string]string, arrivedAt time.Time) error {
	requestURL := c.OriginalURL()
	canonical := site.CanonicalHost()
	cacheKey := canonical + "$" + requestURL

	method := c.Method()
	if method == fiber.MethodGet || method == fiber.MethodHead {
		if cached, hit := s.Cache.Get(cacheKey); hit {
			return s.renderDescriptor(c, cached, renderContext{
				method:    method,
				cacheKey:  cacheKey,
				fromCache: true,
				arrivedAt: arrivedAt,
				hookEntry: time.Now(),
			})
		}
	}

	hookEntry := time.Now()

	parsedPath, rawQuery := splitURL(requestURL)
	queryParams := parseQueryParams(rawQuery)
	if len(bodyParams) > 0 {
		for k, v := range bodyParams {
			queryParams[k] = v
		}
	}

	mask := hooks.CategoryBit(site.CategoryLetter())
	trimmedPath := strings.TrimPrefix(parsedPath, "/")
	uriHookName := canonical + "$" + trimmedPath
	defaultHookName := canonical + "$"

	headers := requestHeaders(c)

	var hookName string
	var args []any
	switch {
	case s.Registry.CheckTarget(uriHookName, mask, false):
		hookName = uriHookName
		args = []any{queryParams, headers, body}
	case s.Registry.CheckTarget(defaultHookName, mask, false):
		hookName = defaultHookName
		args = []any{parsedPath, queryParams, headers, body}
	default:
		return writeSimpleError(c, fiber.StatusNotFound)
	}

	results := make(chan hookResult, 1)
	s.Registry.Call(hookName, mask, false, args, func(result any, err error) {
		results <- hookResult{value: result, err: err}
	})
	outcome := <-results

	d, ok := s.toDescriptor(outcome)
	if !ok {
		return writeSimpleError(c, fiber.StatusBadGateway)
	}

	return s.renderDescriptor(c, d, renderContext{
		method:    method,
		cacheKey:  cacheKey,
		fromCache: false,
		arrivedAt: arrivedAt,
		hookEntry: hookEntry,
	})
}

// toDescriptor converts a chain's terminal outcome into a descriptor,
// applying the safeHooks failure policy from §4.1/§7: with safeHooks on,
// a chain error (or a non-descriptor result) is converted into a
// fatal-error descriptor the renderer turns into a 500. With safeHooks
// off, ok is false and the caller renders a 502 directly instead of
// going through the descriptor renderer at all.
func (s *Server) toDescriptor(outcome hookResult) (descriptor.Descriptor, bool) {
	if outcome.err != nil {
		if !s.Config.SafeHooks {
			return descriptor.Descriptor{}, false
		}
		return descriptor.Descriptor{Error: true}, true
	}
	d, isDescriptor := outcome.value.(descriptor.Descriptor)
	if !isDescriptor {
		s.Logger.Warn("hook chain result was not a descriptor")
		if !s.Config.SafeHooks {
			return descriptor.Descriptor{}, false
		}
		return descriptor.Descriptor{Error: true}, true
	}
	return d, true
}

func splitURL(requestURL string) (path, rawQuery string) {
	if idx := strings.IndexByte(requestURL, '?'); idx >= 0 {
		return requestURL[:idx], requestURL[idx+1:]
	}
	return requestURL, ""
}

func parseQueryParams(rawQuery string) map[string]string {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return map[string]string{}
	}
	return flattenValues(values)
}

func requestHeaders(c fiber.Ctx) descriptor.Header {
	h := descriptor.NewHeader()
	c.Request().Header.VisitAll(func(key, value []byte) {
		h.Set(string(key), string(value))
	})
	return h
}

// destroyConnection implements the "unknown host, no fallback" outcome
// from §7: the request is dropped without a response by force-closing
// the underlying connection, matching the reference stack's use of
// *fasthttp.RequestCtx for connection-level control.
func destroyConnection(c fiber.Ctx) error {
	if rc, ok := c.Context().(*fasthttp.RequestCtx); ok {
		rc.SetConnectionClose()
		_ = rc.Conn().Close()
	}
	return nil
}
