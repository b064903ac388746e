package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ok := func(context.Context) error { return nil }
	bad := func(context.Context) error { return assertErr{} }

	cases := []struct {
		name       string
		checks     map[string]Check
		path       string
		want       int
		wantFailed []string
	}{
		{name: "healthz ok", checks: map[string]Check{"postgres": bad}, path: "/healthz", want: 200},
		{name: "readyz no checks", checks: nil, path: "/readyz", want: 200},
		{name: "readyz ok", checks: map[string]Check{"postgres": ok, "warehouse_table": ok}, path: "/readyz", want: 200},
		{
			name:       "readyz degraded",
			checks:     map[string]Check{"postgres": ok, "warehouse_table": bad},
			path:       "/readyz",
			want:       503,
			wantFailed: []string{"warehouse_table: err"},
		},
		{
			name:       "readyz all failing sorted",
			checks:     map[string]Check{"warehouse_table": bad, "postgres": bad},
			path:       "/readyz",
			want:       503,
			wantFailed: []string{"postgres: err", "warehouse_table: err"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			NewHealthHandler(tc.checks).Register(r)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
			if w.Code != tc.want {
				t.Fatalf("want %d got %d", tc.want, w.Code)
			}
			if tc.wantFailed == nil {
				return
			}
			var body struct {
				Status string   `json:"status"`
				Failed []string `json:"failed"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("json: %v", err)
			}
			if body.Status != "degraded" || len(body.Failed) != len(tc.wantFailed) {
				t.Fatalf("unexpected body: %+v", body)
			}
			for i := range tc.wantFailed {
				if body.Failed[i] != tc.wantFailed[i] {
					t.Fatalf("failed[%d]=%q want %q", i, body.Failed[i], tc.wantFailed[i])
				}
			}
		})
	}
}

type assertErr struct{}

func (assertErr) Error() string { return "err" }
