package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/top20pulse/internal/domain/dto"
	"github.com/guttosm/top20pulse/internal/service"
)

type mockSnapshotService struct {
	res   service.RunResult
	calls int
	ctx   context.Context
}

func (m *mockSnapshotService) Run(ctx context.Context) service.RunResult {
	m.calls++
	m.ctx = ctx
	return m.res
}

var _ service.SnapshotService = (*mockSnapshotService)(nil)

func setupRouterWithMock(s service.SnapshotService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s)
	r := gin.New()
	r.GET("/", h.Run)
	return r
}

func TestRun_TableDriven(t *testing.T) {
	cases := []struct {
		name   string
		res    service.RunResult
		status int
		want   dto.RunResponse
	}{
		{
			name:   "weekend",
			res:    service.RunResult{AccessStockData: "-", LoadDataToBQ: "-", StatusCode: 200},
			status: http.StatusOK,
			want:   dto.RunResponse{AccessStockData: "-", LoadDataToBQ: "-"},
		},
		{
			name:   "loaded",
			res:    service.RunResult{AccessStockData: service.MsgFetchOK, LoadDataToBQ: service.MsgLoadOK, StatusCode: 200},
			status: http.StatusOK,
			want:   dto.RunResponse{AccessStockData: "OK", LoadDataToBQ: "Successfully load data to BigQuery."},
		},
		{
			name:   "fetch failure",
			res:    service.RunResult{AccessStockData: service.MsgFetchFailed, LoadDataToBQ: "-", StatusCode: service.StatusFetchFailure},
			status: 701,
			want:   dto.RunResponse{AccessStockData: "Could not access TWSE or the source data format/fields had changed.", LoadDataToBQ: "-"},
		},
		{
			name:   "load failure",
			res:    service.RunResult{AccessStockData: service.MsgFetchOK, LoadDataToBQ: service.MsgLoadFailed, StatusCode: service.StatusLoadFailure},
			status: 601,
			want:   dto.RunResponse{AccessStockData: "OK", LoadDataToBQ: "Could not load data to BigQuery."},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockSnapshotService{res: tc.res}
			r := setupRouterWithMock(svc)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, w.Code)
			}
			var got dto.RunResponse
			if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if got != tc.want {
				t.Fatalf("body %+v, want %+v", got, tc.want)
			}
			if svc.calls != 1 {
				t.Fatalf("service called %d times", svc.calls)
			}
		})
	}
}

func TestRun_JSONKeys(t *testing.T) {
	r := setupRouterWithMock(&mockSnapshotService{res: service.RunResult{AccessStockData: "OK", LoadDataToBQ: "-", StatusCode: 200}})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	var raw map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(raw) != 2 || raw["accessStockData"] != "OK" || raw["loadDataToBQ"] != "-" {
		t.Fatalf("unexpected keys: %v", raw)
	}
}
