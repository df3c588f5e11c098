package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"scoreview/internal/report"
)

type fakeSource struct {
	worksheets  []string
	values      map[string][][]string
	valuesErr   error
	valuesCalls int
}

func (f *fakeSource) ListWorksheets(ctx context.Context) ([]string, error) {
	return f.worksheets, nil
}

func (f *fakeSource) Values(ctx context.Context, worksheet string) ([][]string, error) {
	f.valuesCalls++
	if f.valuesErr != nil {
		return nil, f.valuesErr
	}
	return f.values[worksheet], nil
}

func newTestRouter(src *fakeSource) *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := report.NewService(src, []string{"번호", "이름", "성별"}, 300*time.Second)
	h := NewHandler(svc, "sheet-id-123")

	r := gin.New()
	api := r.Group("/api")
	h.RegisterRoutes(api)
	return r
}

func classSource() *fakeSource {
	return &fakeSource{
		worksheets: []string{"1반", "2반"},
		values: map[string][][]string{
			"1반": {
				{"번호", "이름", "성별", "단원1"},
				{"1", "철수", "남", "90"},
				{"2", "영희", "여", "x"},
			},
		},
	}
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body []byte) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var payload map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &payload)
	return w, payload
}

func TestListWorksheets(t *testing.T) {
	r := newTestRouter(classSource())

	w, payload := doJSON(t, r, http.MethodGet, "/api/worksheets", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}

	names, _ := payload["worksheets"].([]any)
	if !reflect.DeepEqual(names, []any{"1반", "2반"}) {
		t.Fatalf("unexpected worksheets: %v", payload)
	}
}

func TestGetDashboard(t *testing.T) {
	r := newTestRouter(classSource())

	w, payload := doJSON(t, r, http.MethodGet, "/api/worksheets/1반", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}

	students, _ := payload["students"].([]any)
	if !reflect.DeepEqual(students, []any{"철수", "영희"}) {
		t.Fatalf("unexpected students: %v", payload["students"])
	}

	avgs, _ := payload["averages"].([]any)
	if len(avgs) != 1 {
		t.Fatalf("unexpected averages: %v", payload["averages"])
	}
	first, _ := avgs[0].(map[string]any)
	if first["mean"] != 90.0 {
		t.Fatalf("unexpected mean: %v", first)
	}
}

func TestGetDashboard_SchemaError(t *testing.T) {
	src := &fakeSource{
		values: map[string][][]string{"1반": {
			{"번호", "단원1"},
			{"1", "90"},
		}},
	}
	r := newTestRouter(src)

	w, payload := doJSON(t, r, http.MethodGet, "/api/worksheets/1반", nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}

	missing, _ := payload["missing"].([]any)
	if !reflect.DeepEqual(missing, []any{"이름", "성별"}) {
		t.Fatalf("unexpected missing columns: %v", payload["missing"])
	}
	if payload["table"] == nil {
		t.Fatalf("schema error response must carry the raw table")
	}
}

func TestGetDashboard_NoData(t *testing.T) {
	r := newTestRouter(&fakeSource{values: map[string][][]string{}})

	w, _ := doJSON(t, r, http.MethodGet, "/api/worksheets/빈시트", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}
}

func TestGetDashboard_LoadError(t *testing.T) {
	r := newTestRouter(&fakeSource{valuesErr: errors.New("network down")})

	w, _ := doJSON(t, r, http.MethodGet, "/api/worksheets/1반", nil)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}
}

func TestGetStudent_MissingScoreIsNull(t *testing.T) {
	r := newTestRouter(classSource())

	w, payload := doJSON(t, r, http.MethodGet, "/api/worksheets/1반/students/영희", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}

	rows, _ := payload["comparison"].([]any)
	if len(rows) != 1 {
		t.Fatalf("unexpected comparison: %v", payload["comparison"])
	}
	row, _ := rows[0].(map[string]any)
	if row["classAverage"] != 90.0 {
		t.Fatalf("unexpected class average: %v", row)
	}
	if score, present := row["studentScore"]; !present || score != nil {
		t.Fatalf("missing score must serialize as null: %v", row)
	}
}

func TestGetStudent_NotFound(t *testing.T) {
	r := newTestRouter(classSource())

	w, _ := doJSON(t, r, http.MethodGet, "/api/worksheets/1반/students/없는학생", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}
}

func TestRefresh_InvalidatesCache(t *testing.T) {
	src := classSource()
	r := newTestRouter(src)

	doJSON(t, r, http.MethodGet, "/api/worksheets/1반", nil)
	doJSON(t, r, http.MethodGet, "/api/worksheets/1반", nil)
	if src.valuesCalls != 1 {
		t.Fatalf("dashboard not cached: %d calls", src.valuesCalls)
	}

	w, _ := doJSON(t, r, http.MethodPost, "/api/refresh", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected refresh status: %d", w.Code)
	}

	doJSON(t, r, http.MethodGet, "/api/worksheets/1반", nil)
	if src.valuesCalls != 2 {
		t.Fatalf("refresh did not clear cache: %d calls", src.valuesCalls)
	}
}

func TestExport_DownloadOnce(t *testing.T) {
	r := newTestRouter(classSource())

	body, _ := json.Marshal(ExportRequest{Worksheet: "1반", Student: "철수"})
	w, payload := doJSON(t, r, http.MethodPost, "/api/export", body)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected export status: %d body=%s", w.Code, w.Body.String())
	}

	downloadURL, _ := payload["downloadUrl"].(string)
	if downloadURL == "" {
		t.Fatalf("missing downloadUrl: %v", payload)
	}

	w, _ = doJSON(t, r, http.MethodGet, downloadURL, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected download status: %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Fatalf("unexpected content type: %s", ct)
	}

	// 一次性令牌：第二次下载应失效
	w, _ = doJSON(t, r, http.MethodGet, downloadURL, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("token should be one-shot, got %d", w.Code)
	}
}

func TestExport_BadRequest(t *testing.T) {
	r := newTestRouter(classSource())

	w, _ := doJSON(t, r, http.MethodPost, "/api/export", []byte(`{"worksheet":"1반"}`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", w.Code)
	}
}
