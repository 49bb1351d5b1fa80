package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nguyentantai21042004/meetnote/internal/config"
	"github.com/nguyentantai21042004/meetnote/internal/jobs"
	"github.com/nguyentantai21042004/meetnote/internal/logger"
	"github.com/nguyentantai21042004/meetnote/internal/mailer"
	"github.com/nguyentantai21042004/meetnote/internal/notes"
	"github.com/nguyentantai21042004/meetnote/internal/processor"
)

type mockProcessor struct {
	mu          sync.Mutex
	dir         string
	ProcessFunc func(ctx context.Context, staged *processor.Staged, req processor.Request) (processor.Result, error)
	requests    []processor.Request
	staged      []*processor.Staged
}

func (m *mockProcessor) Stage(upload processor.Upload) (*processor.Staged, error) {
	dir, err := os.MkdirTemp(m.dir, "job-*")
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(upload.Filename))
	s := &processor.Staged{Dir: dir, Path: filepath.Join(dir, "upload"+ext), Ext: ext, Name: upload.Filename}

	m.mu.Lock()
	m.staged = append(m.staged, s)
	m.mu.Unlock()
	return s, nil
}

func (m *mockProcessor) Process(ctx context.Context, staged *processor.Staged, req processor.Request) (processor.Result, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	return m.ProcessFunc(ctx, staged, req)
}

func (m *mockProcessor) ProcessPath(ctx context.Context, path string, req processor.Request) (processor.Result, error) {
	return processor.Result{}, nil
}

func doneResult() processor.Result {
	n := notes.Notes{Items: map[notes.Category][]string{
		notes.Deadlines: {"It is due by Friday."},
	}}
	return processor.Result{
		Outcome:    processor.OutcomeDone,
		Transcript: "It is due by Friday.",
		Summary:    notes.Render(n),
		Notes:      n,
		Delivery:   &mailer.Delivery{Sent: true},
	}
}

type testServer struct {
	router *gin.Engine
	proc   *mockProcessor
	jobs   jobs.Manager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	root := t.TempDir()
	cfg := &config.Config{
		Server: config.ServerConfig{MaxUploadMB: 1},
		SMTP:   config.SMTPConfig{Subject: "Meeting Summary"},
		Paths:  config.PathsConfig{Temp: filepath.Join(root, "temp")},
	}
	log := logger.New("error")

	proc := &mockProcessor{
		dir: root,
		ProcessFunc: func(ctx context.Context, staged *processor.Staged, req processor.Request) (processor.Result, error) {
			return doneResult(), nil
		},
	}
	manager := jobs.New(1, time.Minute, time.Hour, log)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		manager.Shutdown(ctx)
	})

	h, err := NewHandler(proc, manager, cfg, log)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	router := gin.New()
	h.RegisterRoutes(router)

	return &testServer{router: router, proc: proc, jobs: manager}
}

func uploadForm(t *testing.T, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		if err != nil {
			t.Fatal(err)
		}
		part.Write(content)
	}
	for k, v := range fields {
		w.WriteField(k, v)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return body, w.FormDataContentType()
}

var validFields = map[string]string{
	"recipient": "boss@example.com",
	"sender":    "me@example.com",
	"password":  "app-password",
}

func (s *testServer) do(t *testing.T, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) wait(t *testing.T, id string) jobs.Snapshot {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	snap, err := s.jobs.Wait(ctx, id)
	if err != nil {
		t.Fatalf("Wait(%s) error = %v", id, err)
	}
	return snap
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d, body: %s", rec.Code, want, rec.Body.String())
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v, body: %s", err, rec.Body.String())
	}
	return env
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/health", nil, "")
	assertStatus(t, rec, http.StatusOK)
	if env := decodeEnvelope(t, rec); !env.Success {
		t.Errorf("health not successful: %s", rec.Body.String())
	}
}

func TestShowForm(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/", nil, "")
	assertStatus(t, rec, http.StatusOK)

	page := rec.Body.String()
	for _, want := range []string{
		`accept=".mp4,.txt"`,
		`name="recipient"`,
		`name="sender"`,
		`name="password" type="password"`,
		`action="/submit"`,
	} {
		if !strings.Contains(page, want) {
			t.Errorf("form missing %s", want)
		}
	}
}

func TestSubmitFormValidation(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		fields   map[string]string
		want     string
	}{
		{
			name:   "missing file",
			fields: validFields,
			want:   "please choose a .mp4 or .txt file",
		},
		{
			name:     "missing recipient",
			filename: "notes.txt",
			fields:   map[string]string{"sender": "me@example.com", "password": "pw"},
			want:     "please fill in: recipient email",
		},
		{
			name:     "blank fields",
			filename: "notes.txt",
			fields:   map[string]string{"recipient": "  ", "sender": "", "password": ""},
			want:     "please fill in: recipient email, sender email, app password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			body, ct := uploadForm(t, tt.filename, []byte("text"), tt.fields)

			rec := s.do(t, http.MethodPost, "/submit", body, ct)
			assertStatus(t, rec, http.StatusBadRequest)
			if !strings.Contains(rec.Body.String(), tt.want) {
				t.Errorf("page missing %q: %s", tt.want, rec.Body.String())
			}
			if len(s.proc.staged) != 0 {
				t.Error("invalid submission was staged")
			}
		})
	}
}

func TestSubmitFormFlow(t *testing.T) {
	s := newTestServer(t)
	body, ct := uploadForm(t, "meeting.txt", []byte("It is due by Friday."), validFields)

	rec := s.do(t, http.MethodPost, "/submit", body, ct)
	assertStatus(t, rec, http.StatusSeeOther)

	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "/jobs/") {
		t.Fatalf("Location = %q", loc)
	}
	id := strings.TrimPrefix(loc, "/jobs/")
	s.wait(t, id)

	page := s.do(t, http.MethodGet, loc, nil, "")
	assertStatus(t, page, http.StatusOK)
	html := page.Body.String()
	for _, want := range []string{
		"Email sent successfully!",
		"banner success",
		"Deadlines:\n- It is due by Friday.",
		"summary.docx",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("job page missing %q", want)
		}
	}
	if strings.Contains(html, `http-equiv="refresh"`) {
		t.Error("finished job page still auto-refreshes")
	}

	if got := s.proc.requests[0]; got.Recipient != "boss@example.com" || got.Sender != "me@example.com" || got.Password != "app-password" {
		t.Errorf("request = %+v", got)
	}
	if _, err := os.Stat(s.proc.staged[0].Dir); !os.IsNotExist(err) {
		t.Error("staging dir not released after job finished")
	}
}

func TestJobPageOutcomes(t *testing.T) {
	tests := []struct {
		name       string
		result     processor.Result
		err        error
		banner     string
		wantResult bool
	}{
		{
			name:   "unsupported type",
			result: processor.Failed(processor.ErrUnsupportedType),
			err:    processor.ErrUnsupportedType,
			banner: "Unsupported file type.",
		},
		{
			name:   "empty content",
			result: processor.Failed(processor.ErrEmptyContent),
			err:    processor.ErrEmptyContent,
			banner: "No content found.",
		},
		{
			name: "delivery failed keeps summary",
			result: func() processor.Result {
				r := doneResult()
				r.Outcome = processor.OutcomeDeliveryFailed
				r.Delivery = &mailer.Delivery{Err: "535 authentication failed"}
				return r
			}(),
			banner:     "Failed to send email: 535 authentication failed",
			wantResult: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			s.proc.ProcessFunc = func(ctx context.Context, staged *processor.Staged, req processor.Request) (processor.Result, error) {
				return tt.result, tt.err
			}

			body, ct := uploadForm(t, "file.txt", []byte("x"), validFields)
			rec := s.do(t, http.MethodPost, "/submit", body, ct)
			assertStatus(t, rec, http.StatusSeeOther)
			loc := rec.Header().Get("Location")
			s.wait(t, strings.TrimPrefix(loc, "/jobs/"))

			html := s.do(t, http.MethodGet, loc, nil, "").Body.String()
			if !strings.Contains(html, tt.banner) {
				t.Errorf("page missing banner %q", tt.banner)
			}
			if !strings.Contains(html, "banner error") {
				t.Error("expected error banner")
			}
			if got := strings.Contains(html, "<h2>Meeting Summary</h2>"); got != tt.wantResult {
				t.Errorf("summary panel shown = %v, want %v", got, tt.wantResult)
			}
		})
	}
}

func TestUploadTooLarge(t *testing.T) {
	s := newTestServer(t)
	body, ct := uploadForm(t, "big.txt", bytes.Repeat([]byte("a"), 2<<20), validFields)

	rec := s.do(t, http.MethodPost, "/api/v1/jobs", body, ct)
	assertStatus(t, rec, http.StatusRequestEntityTooLarge)
	if env := decodeEnvelope(t, rec); env.Success || !strings.Contains(env.Error, "1 MB") {
		t.Errorf("unexpected response: %s", rec.Body.String())
	}
}

func TestAPIJobLifecycle(t *testing.T) {
	s := newTestServer(t)
	body, ct := uploadForm(t, "meeting.txt", []byte("It is due by Friday."), validFields)

	rec := s.do(t, http.MethodPost, "/api/v1/jobs", body, ct)
	assertStatus(t, rec, http.StatusAccepted)

	var created struct {
		ID        string `json:"id"`
		StatusURL string `json:"status_url"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &created); err != nil {
		t.Fatal(err)
	}
	if created.ID == "" || created.StatusURL != "/api/v1/jobs/"+created.ID {
		t.Fatalf("unexpected create response: %+v", created)
	}
	s.wait(t, created.ID)

	rec = s.do(t, http.MethodGet, created.StatusURL, nil, "")
	assertStatus(t, rec, http.StatusOK)
	var got struct {
		Job     jobs.Snapshot `json:"job"`
		Message string        `json:"message"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Job.State != jobs.StateDone || got.Job.Result.Outcome != processor.OutcomeDone {
		t.Errorf("job = %+v", got.Job)
	}
	if got.Message != "Email sent successfully!" {
		t.Errorf("message = %q", got.Message)
	}

	rec = s.do(t, http.MethodGet, created.StatusURL+"/summary.docx", nil, "")
	assertStatus(t, rec, http.StatusOK)
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "meeting-summary.docx") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Error("docx body is not a zip archive")
	}

	rec = s.do(t, http.MethodDelete, created.StatusURL, nil, "")
	assertStatus(t, rec, http.StatusConflict)
}

func TestAPICancelRunningJob(t *testing.T) {
	s := newTestServer(t)
	started := make(chan struct{})
	s.proc.ProcessFunc = func(ctx context.Context, staged *processor.Staged, req processor.Request) (processor.Result, error) {
		close(started)
		<-ctx.Done()
		return processor.Failed(ctx.Err()), ctx.Err()
	}

	body, ct := uploadForm(t, "long.mp4", []byte("video"), validFields)
	rec := s.do(t, http.MethodPost, "/api/v1/jobs", body, ct)
	assertStatus(t, rec, http.StatusAccepted)
	var created struct {
		ID string `json:"id"`
	}
	json.Unmarshal(decodeEnvelope(t, rec).Data, &created)

	<-started
	page := s.do(t, http.MethodGet, "/jobs/"+created.ID, nil, "").Body.String()
	if !strings.Contains(page, `http-equiv="refresh"`) || !strings.Contains(page, "/cancel") {
		t.Error("running job page should auto-refresh and offer cancel")
	}

	rec = s.do(t, http.MethodDelete, "/api/v1/jobs/"+created.ID, nil, "")
	assertStatus(t, rec, http.StatusOK)

	if snap := s.wait(t, created.ID); snap.State != jobs.StateCancelled {
		t.Errorf("State = %s, want %s", snap.State, jobs.StateCancelled)
	}
	if html := s.do(t, http.MethodGet, "/jobs/"+created.ID, nil, "").Body.String(); !strings.Contains(html, "Job cancelled.") {
		t.Error("cancelled page missing banner")
	}
}

func TestWebCancelRedirects(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/jobs/unknown/cancel", nil, "")
	assertStatus(t, rec, http.StatusSeeOther)
	if loc := rec.Header().Get("Location"); loc != "/jobs/unknown" {
		t.Errorf("Location = %q", loc)
	}
}

func TestUnknownJob(t *testing.T) {
	s := newTestServer(t)

	assertStatus(t, s.do(t, http.MethodGet, "/jobs/missing", nil, ""), http.StatusNotFound)
	assertStatus(t, s.do(t, http.MethodGet, "/api/v1/jobs/missing", nil, ""), http.StatusNotFound)
	assertStatus(t, s.do(t, http.MethodDelete, "/api/v1/jobs/missing", nil, ""), http.StatusNotFound)
	assertStatus(t, s.do(t, http.MethodGet, "/api/v1/jobs/missing/summary.docx", nil, ""), http.StatusNotFound)
}
