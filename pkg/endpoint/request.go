package endpoint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Request wraps an inbound HTTP request with the parsed pieces handlers
// care about. The dispatcher never retains it beyond one call.
type Request struct {
	// HTTP is the underlying request, owned by the server for the
	// duration of the call.
	HTTP *http.Request

	// Params holds the query parameters. Keys are unique; when a key
	// repeats, the last value wins.
	Params map[string]string

	// Data is the parsed body: the decoded value for application/json
	// payloads, a map[string]string for form submissions, nil otherwise.
	Data any

	// Raw is the unparsed request body.
	Raw []byte

	// ContentType is the media type of the request, without parameters.
	ContentType string

	// Page is the integer value of the "page" query parameter, 0 when
	// absent.
	Page int

	// User is the authenticated principal, set by an Authenticator.
	User string
}

// Method returns the HTTP method of the underlying request.
func (r *Request) Method() string { return r.HTTP.Method }

// Param returns a query parameter value, "" when absent.
func (r *Request) Param(name string) string { return r.Params[name] }

// Object returns the body as a generic JSON object. Form submissions are
// widened to map[string]any. Returns a 400 error for any other payload.
func (r *Request) Object() (map[string]any, error) {
	switch data := r.Data.(type) {
	case map[string]any:
		return data, nil
	case map[string]string:
		obj := make(map[string]any, len(data))
		for k, v := range data {
			obj[k] = v
		}
		return obj, nil
	default:
		return nil, BadRequest("expected an object payload")
	}
}

// Field returns a string field from the request body, "" when absent or
// not a string.
func (r *Request) Field(name string) string {
	switch data := r.Data.(type) {
	case map[string]any:
		if s, ok := data[name].(string); ok {
			return s
		}
	case map[string]string:
		return data[name]
	}
	return ""
}

// ParseRequest builds a Request from r, reading at most maxBody bytes of
// body. Parse failures are reported as *Error values so the caller can
// hand them straight back to the client.
func ParseRequest(r *http.Request, maxBody int64) (*Request, error) {
	req := &Request{
		HTTP:   r,
		Params: flattenQuery(r.URL.Query()),
	}

	if page, ok := req.Params["page"]; ok {
		n, err := strconv.Atoi(page)
		if err != nil {
			return nil, BadRequestf("%q is not a valid page number", page)
		}
		req.Page = n
	}

	ct, ctParams, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		// The original request may legitimately carry no content type.
		ct = "text/plain"
	}
	req.ContentType = ct

	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return req, nil
	}

	raw, err := readBody(r.Body, maxBody)
	if err != nil {
		return nil, err
	}
	req.Raw = raw

	switch {
	case ct == "application/json":
		if err := decodeJSON(raw, &req.Data); err != nil {
			return nil, BadRequestf("invalid JSON payload: %v", err)
		}
	case ct == "application/x-www-form-urlencoded":
		values, err := url.ParseQuery(string(raw))
		if err != nil {
			return nil, BadRequestf("invalid form payload: %v", err)
		}
		req.Data = flattenQuery(values)
	case strings.HasPrefix(ct, "multipart/form-data"):
		form, err := parseMultipart(raw, ctParams["boundary"], maxBody)
		if err != nil {
			return nil, err
		}
		req.Data = form
	}
	return req, nil
}

// flattenQuery reduces url.Values to a flat map, last value winning.
func flattenQuery(values url.Values) map[string]string {
	flat := make(map[string]string, len(values))
	for key, vs := range values {
		if len(vs) > 0 {
			flat[key] = vs[len(vs)-1]
		}
	}
	return flat
}

func readBody(body io.ReadCloser, maxBody int64) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	raw, err := io.ReadAll(io.LimitReader(body, maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if int64(len(raw)) > maxBody {
		return nil, NewError(http.StatusRequestEntityTooLarge, "request body too large")
	}
	return raw, nil
}

// decodeJSON decodes the payload with number fidelity preserved so that
// bodies survive an encode/decode round-trip unchanged.
func decodeJSON(raw []byte, out *any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(out)
}

func parseMultipart(raw []byte, boundary string, maxBody int64) (map[string]string, error) {
	if boundary == "" {
		return nil, BadRequest("invalid multipart payload: missing boundary")
	}
	reader := multipart.NewReader(bytes.NewReader(raw), boundary)
	form, err := reader.ReadForm(maxBody)
	if err != nil {
		return nil, BadRequestf("invalid multipart payload: %v", err)
	}
	defer func() { _ = form.RemoveAll() }()

	flat := make(map[string]string, len(form.Value))
	for key, vs := range form.Value {
		if len(vs) > 0 {
			flat[key] = vs[len(vs)-1]
		}
	}
	return flat, nil
}
