package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/eduportal/backend/internal/auth"
	"github.com/eduportal/backend/internal/models"
	"github.com/eduportal/backend/internal/realtime"
	"github.com/eduportal/backend/internal/storage"
	"github.com/eduportal/backend/internal/validation"
	"github.com/eduportal/backend/pkg/kv"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := validation.RegisterGin(); err != nil {
		panic(err)
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type client struct {
	t      *testing.T
	router *gin.Engine
}

func (c client) do(method, path, token string, body any) (int, envelope) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			c.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			c.t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w.Code, env
}

func (c client) expect(want int, method, path, token string, body any) envelope {
	c.t.Helper()
	code, env := c.do(method, path, token, body)
	if code != want {
		c.t.Fatalf("%s %s: status = %d, want %d (error %q)", method, path, code, want, env.Error)
	}
	return env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
	return v
}

func newClient(t *testing.T) client {
	t.Helper()
	store := storage.New(kv.NewMemory())
	if err := store.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	router := NewRouter(Deps{
		Store: store,
		JWT:   auth.NewJWTService("test-secret", 1),
		Hub:   realtime.NewHub(nil, nil),
	})
	return client{t: t, router: router}
}

func TestPublicRoutes(t *testing.T) {
	c := newClient(t)

	c.expect(http.StatusOK, http.MethodGet, "/health", "", nil)

	list := decode[[]models.Course](t, c.expect(http.StatusOK, http.MethodGet, "/courses", "", nil))
	if len(list) != len(storage.DefaultCourses) {
		t.Errorf("got %d courses, want defaults", len(list))
	}
	found := decode[[]models.Course](t, c.expect(http.StatusOK, http.MethodGet, "/courses?q=singh", "", nil))
	if len(found) != 1 || found[0].CourseName != "Database Systems" {
		t.Errorf("search = %+v", found)
	}

	parsed := c.expect(http.StatusOK, http.MethodPost, "/schedule/parse", "", map[string]string{"time": "tues 9 am"})
	var ok struct {
		Valid bool             `json:"valid"`
		Range models.TimeRange `json:"range"`
	}
	if err := json.Unmarshal(parsed.Data, &ok); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !ok.Valid || ok.Range.StartMinutes != 540 || ok.Range.EndMinutes != 600 || ok.Range.DayKey != models.Tuesday {
		t.Errorf("parse = %+v", ok)
	}

	bad := c.expect(http.StatusOK, http.MethodPost, "/schedule/parse", "", map[string]string{"time": "Funday 10 AM"})
	var fail struct {
		Valid bool   `json:"valid"`
		Hint  string `json:"hint"`
	}
	_ = json.Unmarshal(bad.Data, &fail)
	if fail.Valid || fail.Hint != validation.CourseTimeHint {
		t.Errorf("unparseable = %+v", fail)
	}

	c.expect(http.StatusUnauthorized, http.MethodGet, "/me/dashboard", "", nil)
}

func TestAuthFlow(t *testing.T) {
	c := newClient(t)

	signup := map[string]string{"name": "Asha", "email": "asha@uni.edu", "password": "pw"}
	created := decode[auth.TokenResponse](t, c.expect(http.StatusCreated, http.MethodPost, "/auth/register", "", signup))
	if created.Token == "" || created.User.Role != models.RoleUser {
		t.Errorf("register = %+v", created)
	}

	dup := c.expect(http.StatusConflict, http.MethodPost, "/auth/register", "", signup)
	if dup.Error != "This email is already registered. Please login." {
		t.Errorf("duplicate error = %q", dup.Error)
	}
	c.expect(http.StatusBadRequest, http.MethodPost, "/auth/register", "", map[string]string{"email": "x@uni.edu", "password": "pw"})

	c.expect(http.StatusUnauthorized, http.MethodPost, "/auth/login", "", map[string]string{"email": "asha@uni.edu", "password": "nope"})
	wrongRole := c.expect(http.StatusForbidden, http.MethodPost, "/auth/login", "",
		map[string]string{"email": "asha@uni.edu", "password": "pw", "role": "admin"})
	if wrongRole.Error != "This account is registered as user. Please select user." {
		t.Errorf("role mismatch error = %q", wrongRole.Error)
	}

	login := decode[auth.TokenResponse](t, c.expect(http.StatusOK, http.MethodPost, "/auth/login", "",
		map[string]string{"email": " ASHA@uni.edu", "password": "pw", "role": "student"}))

	me := decode[models.UserPublic](t, c.expect(http.StatusOK, http.MethodGet, "/session", login.Token, nil))
	if me.Email != "asha@uni.edu" {
		t.Errorf("session = %+v", me)
	}
	c.expect(http.StatusNoContent, http.MethodPost, "/auth/logout", login.Token, nil)
}

func TestRegistrationWorkflow(t *testing.T) {
	c := newClient(t)

	admin := decode[auth.TokenResponse](t, c.expect(http.StatusCreated, http.MethodPost, "/auth/register", "",
		map[string]string{"name": "Admin", "email": "admin@uni.edu", "password": "pw", "role": "admin"}))
	student := decode[auth.TokenResponse](t, c.expect(http.StatusCreated, http.MethodPost, "/auth/register", "",
		map[string]string{"name": "Ravi", "email": "ravi@uni.edu", "password": "pw"}))
	c.expect(http.StatusOK, http.MethodPost, "/auth/login", "",
		map[string]string{"email": "admin@uni.edu", "password": "pw", "role": "Admin"})

	c.expect(http.StatusForbidden, http.MethodPost, "/courses", student.Token,
		map[string]string{"courseName": "X", "faculty": "Y", "time": "Mon 9 AM"})
	badTime := c.expect(http.StatusBadRequest, http.MethodPost, "/courses", admin.Token,
		map[string]string{"courseName": "X", "faculty": "Y", "time": "soon"})
	if badTime.Error != validation.CourseTimeHint {
		t.Errorf("bad time error = %q", badTime.Error)
	}

	algebra := decode[models.Course](t, c.expect(http.StatusCreated, http.MethodPost, "/courses", admin.Token,
		map[string]string{"courseName": "Algebra", "faculty": "Dr. Paul", "time": "Fri 10:00 AM - 11:00 AM"}))
	biology := decode[models.Course](t, c.expect(http.StatusCreated, http.MethodPost, "/courses", admin.Token,
		map[string]string{"courseName": "Biology", "faculty": "Dr. Sen", "time": "Fri 10:30 AM - 11:30 AM"}))

	for _, id := range []int64{algebra.ID, biology.ID} {
		c.expect(http.StatusCreated, http.MethodPost, "/me/registrations", student.Token, map[string]int64{"courseId": id})
	}
	c.expect(http.StatusConflict, http.MethodPost, "/me/registrations", student.Token, map[string]int64{"courseId": algebra.ID})
	c.expect(http.StatusNotFound, http.MethodPost, "/me/registrations", student.Token, map[string]int64{"courseId": 777})

	pending := decode[[]models.EnrichedRegistration](t, c.expect(http.StatusOK, http.MethodGet, "/registrations?status=Pending", admin.Token, nil))
	if len(pending) != 2 {
		t.Fatalf("pending = %d, want 2", len(pending))
	}
	c.expect(http.StatusBadRequest, http.MethodGet, "/registrations?status=Later", admin.Token, nil)
	for _, r := range pending {
		c.expect(http.StatusOK, http.MethodPatch, fmt.Sprintf("/registrations/%d/status", r.ID), admin.Token,
			map[string]string{"status": "Approved"})
	}

	reports := decode[[]models.ConflictReport](t, c.expect(http.StatusOK, http.MethodGet, "/conflicts", admin.Token, nil))
	if len(reports) != 1 || reports[0].TimeAlert != "Friday 10:30 AM - 11:00 AM" {
		t.Fatalf("conflicts = %+v", reports)
	}

	sched := decode[models.StudentSchedule](t, c.expect(http.StatusOK, http.MethodGet, "/me/schedule", student.Token, nil))
	if len(sched.Courses) != 2 || len(sched.Warnings) != 1 {
		t.Errorf("schedule = %+v", sched)
	}
	dash := decode[models.StudentSummary](t, c.expect(http.StatusOK, http.MethodGet, "/me/dashboard", student.Token, nil))
	if len(dash.EnrolledCourses) != 2 {
		t.Errorf("student dashboard = %+v", dash)
	}

	c.expect(http.StatusNoContent, http.MethodPost, "/conflicts/"+reports[0].ID+"/resolve", admin.Token, nil)
	sum := decode[models.AdminSummary](t, c.expect(http.StatusOK, http.MethodGet, "/admin/dashboard", admin.Token, nil))
	if sum.ConflictAlerts != 1 || sum.ActiveConflictAlerts != 0 || sum.ApprovedRegistrations != 2 || sum.TotalStudents != 1 {
		t.Errorf("admin dashboard = %+v", sum)
	}

	roster := decode[[]models.StudentRoster](t, c.expect(http.StatusOK, http.MethodGet, "/users/students", admin.Token, nil))
	if len(roster) != 1 || len(roster[0].RegisteredCourses) != 2 {
		t.Errorf("roster = %+v", roster)
	}

	c.expect(http.StatusNoContent, http.MethodDelete, fmt.Sprintf("/courses/%d", algebra.ID), admin.Token, nil)
	c.expect(http.StatusNotFound, http.MethodDelete, fmt.Sprintf("/courses/%d", algebra.ID), admin.Token, nil)
	mine := decode[[]models.EnrichedRegistration](t, c.expect(http.StatusOK, http.MethodGet, "/me/registrations", student.Token, nil))
	if len(mine) != 1 || mine[0].CourseID != biology.ID {
		t.Errorf("registrations after delete = %+v", mine)
	}
}

func TestBlockedStudentCannotLogin(t *testing.T) {
	c := newClient(t)
	admin := decode[auth.TokenResponse](t, c.expect(http.StatusCreated, http.MethodPost, "/auth/register", "",
		map[string]string{"name": "Admin", "email": "admin@uni.edu", "password": "pw", "role": "admin"}))
	student := decode[auth.TokenResponse](t, c.expect(http.StatusCreated, http.MethodPost, "/auth/register", "",
		map[string]string{"name": "Meera", "email": "meera@uni.edu", "password": "pw"}))

	c.expect(http.StatusOK, http.MethodPatch, fmt.Sprintf("/users/%d/status", student.User.ID), admin.Token,
		map[string]string{"status": "Blocked"})
	c.expect(http.StatusBadRequest, http.MethodPatch, fmt.Sprintf("/users/%d/status", student.User.ID), admin.Token,
		map[string]string{"status": "Gone"})

	blocked := c.expect(http.StatusForbidden, http.MethodPost, "/auth/login", "",
		map[string]string{"email": "meera@uni.edu", "password": "pw"})
	if blocked.Error != "Your account is blocked by admin." {
		t.Errorf("blocked error = %q", blocked.Error)
	}

	list := decode[[]map[string]any](t, c.expect(http.StatusOK, http.MethodGet, "/users", admin.Token, nil))
	for _, u := range list {
		if _, ok := u["password"]; ok {
			t.Errorf("password leaked in user list: %v", u)
		}
	}
}
