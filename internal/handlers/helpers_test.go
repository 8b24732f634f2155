package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func doRequest(r http.Handler, method, path string, body io.Reader, contentType string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, c := range cookies {
		if c != nil {
			req.AddCookie(c)
		}
	}
	r.ServeHTTP(w, req)
	return w
}

func getPage(r http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return doRequest(r, http.MethodGet, path, nil, "", cookies...)
}

func postForm(r http.Handler, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return doRequest(r, http.MethodPost, path, strings.NewReader(form.Encode()),
		"application/x-www-form-urlencoded", cookies...)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("response is not JSON (status=%d): %q", w.Code, w.Body.String())
	}
	return m
}

// responseCookie returns the last session cookie written, falling back to prev.
func responseCookie(w *httptest.ResponseRecorder, prev *http.Cookie) *http.Cookie {
	var found *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionName {
			found = c
		}
	}
	if found == nil {
		return prev
	}
	return found
}

// expectRedirect asserts a 302 to location and follows it with the updated
// session cookie.
func expectRedirect(t *testing.T, r http.Handler, w *httptest.ResponseRecorder, location string, prev *http.Cookie) (*httptest.ResponseRecorder, *http.Cookie) {
	t.Helper()
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d: %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Location"); got != location {
		t.Fatalf("expected redirect to %q, got %q", location, got)
	}
	cookie := responseCookie(w, prev)
	next := getPage(r, location, cookie)
	return next, responseCookie(next, cookie)
}

func pageFlashes(t *testing.T, body map[string]any, category string) []string {
	t.Helper()
	all, _ := body["flashes"].(map[string]any)
	raw, _ := all[category].([]any)
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		out = append(out, v.(string))
	}
	return out
}

func hasFlash(t *testing.T, body map[string]any, category, msg string) bool {
	t.Helper()
	for _, f := range pageFlashes(t, body, category) {
		if f == msg {
			return true
		}
	}
	return false
}

// sessionUserID decodes the session cookie and returns the stored user id.
func sessionUserID(t *testing.T, h *Handler, c *http.Cookie) (int, bool) {
	t.Helper()
	if c == nil {
		return 0, false
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	sess, err := h.sessions.Get(req, sessionName)
	if err != nil {
		t.Fatalf("decode session: %v", err)
	}
	id, ok := sess.Values[currUserKey].(int)
	return id, ok
}
