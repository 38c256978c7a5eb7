package dispatcher

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/hookhost/hookhost/internal/list"
)

// uploadChunkSize is the unit the accumulated request body is re-split
// into before being fed through the pending-uploads admission check,
// modeling the chunked "end"/"error" accumulation the specification
// describes even though the underlying HTTP stack hands us the body
// already buffered.
const uploadChunkSize = 32 * 1024

// collectBody runs the POST body-collection phase (§4.2): a
// Content-Length over UploadMaxUnitSize is rejected before the buffered
// body is inspected; the body is otherwise accumulated against the process-wide
// UploadMaxStorage budget, and a urlencoded form body is parsed into a
// parameter map. status is non-zero when the caller must abort and
// respond with that status instead of proceeding to hook execution.
func (s *Server) collectBody(c fiber.Ctx) (body []byte, params map[string]string, status int) {
	contentLength := c.Request().Header.ContentLength()
	if contentLength > 0 && int64(contentLength) > s.Config.UploadMaxUnitSize {
		return nil, nil, fiber.StatusNotAcceptable
	}

	raw := c.Body()
	if int64(len(raw)) > s.Config.UploadMaxUnitSize {
		return nil, nil, fiber.StatusNotAcceptable
	}

	if err := s.admitUpload(raw); err != nil {
		return nil, nil, fiber.StatusNotAcceptable
	}

	contentType := strings.ToLower(string(c.Request().Header.ContentType()))
	var formParams map[string]string
	if strings.HasPrefix(contentType, fiber.MIMEApplicationForm) {
		formParams = parseFormParams(raw)
	}

	return append([]byte(nil), raw...), formParams, 0
}

// admitUpload re-chunks body and runs each chunk through the process-wide
// pendingUploads counter, mirroring the per-chunk increment/overflow
// check in §4.2's body-collection description. The counter is released
// by the accumulated size before returning regardless of outcome, per
// the spec's "on end, decrement by the per-request accumulated size".
func (s *Server) admitUpload(body []byte) error {
	if len(body) == 0 {
		return nil
	}

	chunks := list.NewQueue[[]byte](len(body)/uploadChunkSize + 1)
	for off := 0; off < len(body); off += uploadChunkSize {
		end := off + uploadChunkSize
		if end > len(body) {
			end = len(body)
		}
		chunks.Push(body[off:end])
	}

	var accumulated int64
	var admitErr error
	for {
		chunk, ok := chunks.Pop()
		if !ok {
			break
		}
		size := int64(len(chunk))
		accumulated += size
		if s.pendingUploads.Add(size) > s.Config.UploadMaxStorage {
			admitErr = fmt.Errorf("upload exceeds storage limit of %d bytes", s.Config.UploadMaxStorage)
			break
		}
	}
	s.pendingUploads.Add(-accumulated)
	return admitErr
}

// parseFormParams decodes an application/x-www-form-urlencoded body into
// a flat parameter map, keeping the first value for a repeated key.
func parseFormParams(body []byte) map[string]string {
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return map[string]string{}
	}
	return flattenValues(values)
}

func flattenValues(values url.Values) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}
