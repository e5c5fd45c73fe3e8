package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() utils.Logger {
	return utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

var testActors = map[string]*services.Actor{
	"student-token":  {UserID: "stu", Role: models.RoleStudent},
	"educator-token": {UserID: "edu", Role: models.RoleEducator},
	"admin-token":    {UserID: "root", Role: models.RoleAdmin},
}

// ===== STUB SERVICES =====

type stubAuth struct {
	services.AuthService
	loginErr error
}

func (s *stubAuth) Authenticate(_ context.Context, token string) (*services.Actor, error) {
	if token == "inactive-token" {
		return nil, services.ErrAccountInactive
	}
	if a, ok := testActors[token]; ok {
		return a, nil
	}
	return nil, services.ErrUnauthenticated
}

func (s *stubAuth) SSOEnabled() bool { return false }

func (s *stubAuth) Login(_ context.Context, req *services.LoginRequest) (*services.AuthResult, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &services.AuthResult{
		User:      &models.User{ID: "stu", Email: req.Email, Role: models.RoleStudent},
		Token:     "signed-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func (s *stubAuth) Me(_ context.Context, userID string) (*services.MeResponse, error) {
	return &services.MeResponse{User: &models.User{ID: userID}}, nil
}

type stubCourse struct {
	services.CourseService
	gotActor *services.Actor
}

func (s *stubCourse) GetByID(_ context.Context, id uint, actor *services.Actor) (*services.CourseResponse, error) {
	s.gotActor = actor
	if id != 1 {
		return nil, services.ErrCourseNotFound
	}
	return &services.CourseResponse{Course: &models.Course{ID: 1, Title: "Intro to Go"}}, nil
}

func (s *stubCourse) List(_ context.Context, params *services.CourseListParams) (*models.PaginatedResponse, error) {
	courses := []*models.Course{{ID: 1, Title: "Intro to Go", Educator: &models.UserSummary{ID: "edu", Name: "Ed"}}}
	return models.NewPaginatedResponse(courses, len(courses), 1, models.PageParams{}), nil
}

type stubReview struct {
	services.ReviewService
}

func (s *stubReview) ListByCourse(_ context.Context, courseID uint, page models.PageParams) (*models.PaginatedResponse, error) {
	reviews := []*models.Review{{ID: 1, CourseID: courseID, UserID: "stu", Rating: 5, User: &models.UserSummary{ID: "stu", Name: "Sam"}}}
	return models.NewPaginatedResponse(reviews, len(reviews), 1, page), nil
}

type stubExport struct {
	services.ExportService
}

func (s *stubExport) AllEnrollments(context.Context) (*services.ExportFile, error) {
	return &services.ExportFile{Filename: "enrollments-2025-03-14.xlsx", Content: []byte("xlsx")}, nil
}

type stubAdmin struct {
	services.AdminService
}

func (s *stubAdmin) Stats(context.Context) (*models.AdminStats, error) {
	return &models.AdminStats{TotalEnrollments: 3}, nil
}

type stubMood struct {
	services.MoodService
	today *models.MoodEntry
}

func (s *stubMood) Today(context.Context, string) (*models.MoodEntry, error) {
	return s.today, nil
}

type stubUpload struct {
	services.UploadService
	got services.UploadedFile
}

func (s *stubUpload) UploadImage(_ context.Context, userID string, file services.UploadedFile) (*services.UploadResponse, error) {
	s.got = file
	return &services.UploadResponse{Key: "uploads/" + userID + "/x" + file.Extension, ContentType: file.ContentType, Size: file.Size}, nil
}

// stubManager returns the stubs above; unset services are nil and must not be called
type stubManager struct {
	services.ServiceManager
	auth   *stubAuth
	course *stubCourse
	review *stubReview
	export *stubExport
	admin  *stubAdmin
	mood   *stubMood
	upload *stubUpload
	health map[string]error
}

func newStubManager() *stubManager {
	return &stubManager{
		auth:   &stubAuth{},
		course: &stubCourse{},
		review: &stubReview{},
		export: &stubExport{},
		admin:  &stubAdmin{},
		mood:   &stubMood{},
		upload: &stubUpload{},
		health: map[string]error{"postgres": nil},
	}
}

func (m *stubManager) Auth() services.AuthService                     { return m.auth }
func (m *stubManager) Profile() services.ProfileService               { return nil }
func (m *stubManager) Course() services.CourseService                 { return m.course }
func (m *stubManager) Enrollment() services.EnrollmentService         { return nil }
func (m *stubManager) Recommendation() services.RecommendationService { return nil }
func (m *stubManager) Review() services.ReviewService                 { return m.review }
func (m *stubManager) Mood() services.MoodService                     { return m.mood }
func (m *stubManager) Discussion() services.DiscussionService         { return nil }
func (m *stubManager) AIContent() services.AIContentService           { return nil }
func (m *stubManager) Counseling() services.CounselingService         { return nil }
func (m *stubManager) Upload() services.UploadService                 { return m.upload }
func (m *stubManager) Admin() services.AdminService                   { return m.admin }
func (m *stubManager) Export() services.ExportService                 { return m.export }
func (m *stubManager) Dashboard() services.DashboardService           { return nil }

func (m *stubManager) HealthCheck(context.Context) map[string]error { return m.health }

func newTestRouter(m *stubManager) *gin.Engine {
	router := gin.New()
	SetupMiddleware(router, testLogger(), []string{"http://localhost:5173"})
	NewHandlerManager(m, CookieConfig{Name: "token"}, testLogger()).SetupRoutes(router)
	return router
}

func doRequest(router http.Handler, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

// ===== ROUTE TESTS =====

func TestAuthMiddleware(t *testing.T) {
	router := newTestRouter(newStubManager())

	tests := []struct {
		name   string
		path   string
		header map[string]string
		want   int
	}{
		{"no token", "/api/v1/auth/me", nil, http.StatusUnauthorized},
		{"unknown token", "/api/v1/auth/me", map[string]string{"Authorization": "Bearer nope"}, http.StatusUnauthorized},
		{"malformed header", "/api/v1/auth/me", map[string]string{"Authorization": "student-token"}, http.StatusUnauthorized},
		{"bearer token", "/api/v1/auth/me", map[string]string{"Authorization": "Bearer student-token"}, http.StatusOK},
		{"cookie", "/api/v1/auth/me", map[string]string{"Cookie": "token=student-token"}, http.StatusOK},
		{"inactive account", "/api/v1/auth/me", map[string]string{"Authorization": "Bearer inactive-token"}, http.StatusForbidden},
		{"student on admin route", "/api/v1/admin/stats", map[string]string{"Authorization": "Bearer student-token"}, http.StatusForbidden},
		{"educator on admin route", "/api/v1/admin/stats", map[string]string{"Authorization": "Bearer educator-token"}, http.StatusForbidden},
		{"admin on admin route", "/api/v1/admin/stats", map[string]string{"Authorization": "Bearer admin-token"}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodGet, tt.path, "", tt.header)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestRequireRoles_AdminPasses(t *testing.T) {
	router := gin.New()
	router.GET("/x", func(c *gin.Context) {
		setActor(c, &services.Actor{UserID: "root", Role: models.RoleAdmin})
	}, RequireRoles(models.RoleEducator), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := doRequest(router, http.MethodGet, "/x", "", nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
}

func TestLoginAndLogoutCookie(t *testing.T) {
	m := newStubManager()
	router := newTestRouter(m)

	w := doRequest(router, http.MethodPost, "/api/v1/auth/login", `{"email":"stu@example.com","password":"secret123"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", w.Code, w.Body.String())
	}
	cookie := w.Header().Get("Set-Cookie")
	if !strings.Contains(cookie, "token=signed-token") || !strings.Contains(cookie, "HttpOnly") {
		t.Errorf("Set-Cookie = %q, want httpOnly session cookie", cookie)
	}

	w = doRequest(router, http.MethodPost, "/api/v1/auth/logout", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("logout status = %d", w.Code)
	}
	if cookie := w.Header().Get("Set-Cookie"); !strings.Contains(cookie, "token=;") || !strings.Contains(cookie, "Max-Age=0") {
		t.Errorf("logout Set-Cookie = %q, want cleared cookie", cookie)
	}

	m.auth.loginErr = services.ErrInvalidCredentials
	w = doRequest(router, http.MethodPost, "/api/v1/auth/login", `{"email":"stu@example.com","password":"wrong"}`, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad credentials status = %d, want 401", w.Code)
	}

	w = doRequest(router, http.MethodPost, "/api/v1/auth/login", `{"email":`, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("malformed body status = %d, want 400", w.Code)
	}
}

func TestGetCourse(t *testing.T) {
	m := newStubManager()
	router := newTestRouter(m)

	tests := []struct {
		name      string
		path      string
		header    map[string]string
		want      int
		wantActor bool
	}{
		{"anonymous", "/api/v1/courses/1", nil, http.StatusOK, false},
		{"signed in", "/api/v1/courses/1", map[string]string{"Authorization": "Bearer educator-token"}, http.StatusOK, true},
		{"bad token is ignored", "/api/v1/courses/1", map[string]string{"Authorization": "Bearer nope"}, http.StatusOK, false},
		{"missing", "/api/v1/courses/2", nil, http.StatusNotFound, false},
		{"invalid id", "/api/v1/courses/abc", nil, http.StatusBadRequest, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m.course.gotActor = nil
			w := doRequest(router, http.MethodGet, tt.path, "", tt.header)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
			if (m.course.gotActor != nil) != tt.wantActor {
				t.Errorf("actor = %+v, want present=%v", m.course.gotActor, tt.wantActor)
			}
		})
	}
}

func TestPublicEndpointsHideAccountFields(t *testing.T) {
	router := newTestRouter(newStubManager())

	tests := []struct {
		path string
		name string
	}{
		{"/api/v1/courses", "Ed"},
		{"/api/v1/courses/1/reviews", "Sam"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := doRequest(router, http.MethodGet, tt.path, "", nil)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
			}
			body := w.Body.String()
			if !strings.Contains(body, `"name":"`+tt.name+`"`) {
				t.Errorf("body lacks author name: %s", body)
			}
			for _, field := range []string{`"email"`, `"last_login_at"`, `"is_active"`, `"provider"`} {
				if strings.Contains(body, field) {
					t.Errorf("body exposes %s: %s", field, body)
				}
			}
		})
	}
}

func TestTodayMood_Empty(t *testing.T) {
	router := newTestRouter(newStubManager())

	w := doRequest(router, http.MethodGet, "/api/v1/moods/today", "", map[string]string{"Authorization": "Bearer student-token"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Logged bool              `json:"logged"`
		Mood   *models.MoodEntry `json:"mood"`
	}
	decode(t, w, &body)
	if body.Logged || body.Mood != nil {
		t.Errorf("body = %+v, want nothing logged", body)
	}
}

func TestExportEnrollments(t *testing.T) {
	router := newTestRouter(newStubManager())

	w := doRequest(router, http.MethodGet, "/api/v1/admin/enrollments/export", "", map[string]string{"Authorization": "Bearer admin-token"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Header().Get("Content-Type"); got != xlsxContentType {
		t.Errorf("Content-Type = %q", got)
	}
	if got := w.Header().Get("Content-Disposition"); !strings.Contains(got, `filename="enrollments-2025-03-14.xlsx"`) {
		t.Errorf("Content-Disposition = %q", got)
	}
}

func TestHealth(t *testing.T) {
	m := newStubManager()
	router := newTestRouter(m)

	w := doRequest(router, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("healthy status = %d", w.Code)
	}

	m.health["redis"] = context.DeadlineExceeded
	w = doRequest(router, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("unhealthy status = %d, want 503", w.Code)
	}
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	decode(t, w, &body)
	if body.Status != "unhealthy" || body.Checks["postgres"] != "ok" || body.Checks["redis"] == "ok" {
		t.Errorf("body = %+v", body)
	}
}

func TestRequestIDAndSecurityHeaders(t *testing.T) {
	router := newTestRouter(newStubManager())

	w := doRequest(router, http.MethodGet, "/health", "", map[string]string{"X-Request-ID": "req-1"})
	if got := w.Header().Get("X-Request-ID"); got != "req-1" {
		t.Errorf("X-Request-ID = %q, want echoed", got)
	}
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}

	w = doRequest(router, http.MethodGet, "/health", "", nil)
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("request id not generated")
	}
}
