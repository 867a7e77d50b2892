package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/1broseidon/winpos/internal/positioner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	op   positioner.Operation
	args positioner.Args
}

type fakeInvoker struct{ calls []call }

func (f *fakeInvoker) Invoke(op positioner.Operation, args positioner.Args) (positioner.Result, error) {
	f.calls = append(f.calls, call{op, args})
	switch op {
	case positioner.OpGetActiveWindowInfo:
		return positioner.Result{JSON: `{"title":"a"}`, IsJSON: true}, nil
	case positioner.OpGetWindowInfo:
		return positioner.Result{JSON: `{"error":"Window with title containing \"` + args.Title + `\" not found"}`, IsJSON: true}, nil
	case positioner.OpGetMonitorInfo:
		return positioner.Result{JSON: `[]`, IsJSON: true}, nil
	default:
		return positioner.Result{Bool: true}, nil
	}
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestDocumentRoutes(t *testing.T) {
	inv := &fakeInvoker{}
	h := NewServer("127.0.0.1:0", inv).Handler()

	rec := do(t, h, "GET", "/api/windows/active", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"title":"a"}`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	rec = do(t, h, "GET", "/api/windows?title=zzz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"error":"Window with title containing \"zzz\" not found"}`, rec.Body.String())

	rec = do(t, h, "GET", "/api/monitors", "")
	assert.Equal(t, `[]`, rec.Body.String())

	require.Len(t, inv.calls, 3)
	assert.Equal(t, positioner.OpGetWindowInfo, inv.calls[1].op)
	assert.Equal(t, "zzz", inv.calls[1].args.Title)
}

func TestPosition_SelectsOperationFromBody(t *testing.T) {
	tests := []struct {
		name string
		body string
		want call
	}{
		{
			"title",
			`{"title":"firefox","x":100,"y":100,"width":1024,"height":768}`,
			call{positioner.OpPositionWindow, positioner.Args{Title: "firefox", X: 100, Y: 100, Width: 1024, Height: 768}},
		},
		{
			"class",
			`{"wm_class":"firefox","x":-5,"y":0,"width":1,"height":2}`,
			call{positioner.OpPositionWindowByClass, positioner.Args{Class: "firefox", X: -5, Width: 1, Height: 2}},
		},
		{
			"class and title",
			`{"wm_class":"firefox","title":"docs","width":3,"height":4}`,
			call{positioner.OpPositionWindowByClassAndTitle, positioner.Args{Class: "firefox", Title: "docs", Width: 3, Height: 4}},
		},
		{
			"empty title is still a title selector",
			`{"title":""}`,
			call{positioner.OpPositionWindow, positioner.Args{}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &fakeInvoker{}
			rec := do(t, NewServer("", inv).Handler(), "POST", "/api/windows/position", tt.body)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `{"operation":"`+string(tt.want.op)+`","success":true}`, rec.Body.String())
			require.Len(t, inv.calls, 1)
			assert.Equal(t, tt.want, inv.calls[0])
		})
	}
}

func TestPosition_BadRequests(t *testing.T) {
	for _, body := range []string{`{"x":1}`, `not json`, `{"title":"a","window":"b"}`, `{"title":"a","x":"1"}`} {
		inv := &fakeInvoker{}
		rec := do(t, NewServer("", inv).Handler(), "POST", "/api/windows/position", body)

		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Empty(t, inv.calls)
	}
}

func TestHealthAndMethods(t *testing.T) {
	h := NewServer("", &fakeInvoker{}).Handler()

	rec := do(t, h, "GET", "/api/health", "")
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(t, h, "GET", "/api/windows/position", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = do(t, h, "POST", "/api/monitors", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = do(t, h, "GET", "/api/nowhere", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
