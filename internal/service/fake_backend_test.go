package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/pratihub/pratihub_bot/internal/api"
	"github.com/pratihub/pratihub_bot/internal/model"
)

// fakeBackend бэкенд платформы в памяти
type fakeBackend struct {
	t *testing.T

	mu            sync.Mutex
	nextID        int
	calls         map[string]int
	users         []model.User
	teams         []model.Team
	days          []model.DaySlots
	appointments  []model.Appointment
	notifications []model.Notification
	boards        []model.ProjectProgress
	posts         []model.Post
	comments      []model.Comment

	failCancel bool
	failPut    bool
	latency    time.Duration
}

func newFakeBackend(t *testing.T) (*fakeBackend, *api.Client) {
	t.Helper()
	f := &fakeBackend{t: t, nextID: 100, calls: make(map[string]int)}
	srv := httptest.NewServer(f.routes())
	t.Cleanup(srv.Close)
	return f, api.NewClient(srv.URL, srv.Client(), zap.NewNop())
}

func (f *fakeBackend) id() model.ID {
	f.nextID++
	return model.ID(strconv.Itoa(f.nextID))
}

func (f *fakeBackend) count(pattern string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[pattern]
}

func (f *fakeBackend) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeBackend) handle(mux *http.ServeMux, pattern string, fn func(w http.ResponseWriter, r *http.Request)) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		latency := f.latency
		f.mu.Unlock()
		time.Sleep(latency)

		f.mu.Lock()
		defer f.mu.Unlock()
		f.calls[pattern]++
		fn(w, r)
	})
}

func (f *fakeBackend) decode(r *http.Request, v any) {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		f.t.Errorf("decode %s %s: %v", r.Method, r.URL.Path, err)
	}
}

func reply(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func (f *fakeBackend) routes() http.Handler {
	mux := http.NewServeMux()

	f.handle(mux, "GET /users", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, f.users)
	})
	f.handle(mux, "PATCH /users/{id}/activate", func(w http.ResponseWriter, r *http.Request) {
		f.setActive(r.PathValue("id"), true)
		reply(w, http.StatusOK, nil)
	})
	f.handle(mux, "PATCH /users/{id}/deactivate", func(w http.ResponseWriter, r *http.Request) {
		f.setActive(r.PathValue("id"), false)
		reply(w, http.StatusOK, nil)
	})
	f.handle(mux, "PATCH /users/{id}/emotional-status", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			EmotionalStatus string `json:"emotionalStatus"`
		}
		f.decode(r, &body)
		for i := range f.users {
			if f.users[i].ID.String() == r.PathValue("id") {
				f.users[i].EmotionalStatus = body.EmotionalStatus
			}
		}
		reply(w, http.StatusOK, nil)
	})

	f.handle(mux, "GET /teams", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, f.teams)
	})
	f.handle(mux, "POST /teams", func(w http.ResponseWriter, r *http.Request) {
		var team model.Team
		f.decode(r, &team)
		team.ID = f.id()
		f.teams = append(f.teams, team)
		reply(w, http.StatusCreated, team)
	})
	f.handle(mux, "POST /teams/{id}/members", func(w http.ResponseWriter, r *http.Request) {
		var member model.TeamMember
		f.decode(r, &member)
		for i := range f.teams {
			if f.teams[i].ID.String() == r.PathValue("id") {
				f.teams[i].Members = append(f.teams[i].Members, member)
				reply(w, http.StatusOK, f.teams[i])
				return
			}
		}
		reply(w, http.StatusNotFound, map[string]string{"message": "team not found"})
	})

	f.handle(mux, "GET /timeSlots", func(w http.ResponseWriter, r *http.Request) {
		adminID, date := r.URL.Query().Get("adminId"), r.URL.Query().Get("date")
		out := []model.DaySlots{}
		for _, d := range f.days {
			if d.AdminID.String() == adminID && d.Date == date {
				out = append(out, d)
			}
		}
		reply(w, http.StatusOK, out)
	})
	f.handle(mux, "POST /timeSlots", func(w http.ResponseWriter, r *http.Request) {
		var day model.DaySlots
		f.decode(r, &day)
		day.ID = f.id()
		f.days = append(f.days, day)
		reply(w, http.StatusCreated, day)
	})
	f.handle(mux, "PUT /timeSlots/{id}", func(w http.ResponseWriter, r *http.Request) {
		if f.failPut {
			reply(w, http.StatusInternalServerError, map[string]string{"message": "db down"})
			return
		}
		var day model.DaySlots
		f.decode(r, &day)
		for i := range f.days {
			if f.days[i].ID.String() == r.PathValue("id") {
				f.days[i].Slots = day.Slots
				reply(w, http.StatusOK, f.days[i])
				return
			}
		}
		reply(w, http.StatusNotFound, map[string]string{"message": "day not found"})
	})

	f.handle(mux, "GET /appointments", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		out := []model.Appointment{}
		for _, a := range f.appointments {
			if (q.Get("studentId") != "" && a.StudentID.String() == q.Get("studentId")) ||
				(q.Get("adminId") != "" && a.AdminID.String() == q.Get("adminId")) {
				out = append(out, a)
			}
		}
		reply(w, http.StatusOK, out)
	})
	f.handle(mux, "POST /appointments", func(w http.ResponseWriter, r *http.Request) {
		var in model.NewAppointment
		f.decode(r, &in)
		appt := model.Appointment{
			ID:        f.id(),
			StudentID: in.StudentID,
			AdminID:   in.AdminID,
			TeamID:    in.TeamID,
			Date:      in.Date,
			Time:      in.Time,
			Status:    in.Status,
		}
		f.appointments = append(f.appointments, appt)
		reply(w, http.StatusCreated, appt)
	})
	f.handle(mux, "PATCH /appointments/{id}/cancel", func(w http.ResponseWriter, r *http.Request) {
		if f.failCancel {
			reply(w, http.StatusInternalServerError, map[string]string{"message": "internal error"})
			return
		}
		for i := range f.appointments {
			if f.appointments[i].ID.String() == r.PathValue("id") {
				f.appointments[i].Status = model.AppointmentStatusCancelled
				reply(w, http.StatusOK, f.appointments[i])
				return
			}
		}
		reply(w, http.StatusNotFound, map[string]string{"message": "not found"})
	})

	f.handle(mux, "GET /notifications", func(w http.ResponseWriter, r *http.Request) {
		out := []model.Notification{}
		for _, n := range f.notifications {
			if n.UserID.String() == r.URL.Query().Get("userId") {
				out = append(out, n)
			}
		}
		reply(w, http.StatusOK, out)
	})
	f.handle(mux, "POST /notifications", func(w http.ResponseWriter, r *http.Request) {
		var in model.NewNotification
		f.decode(r, &in)
		n := model.Notification{ID: f.id(), UserID: in.UserID, Title: in.Title, Message: in.Message}
		f.notifications = append(f.notifications, n)
		reply(w, http.StatusCreated, n)
	})

	f.handle(mux, "GET /projectProgress", func(w http.ResponseWriter, r *http.Request) {
		out := []model.ProjectProgress{}
		for _, b := range f.boards {
			if b.TeamID.String() == r.URL.Query().Get("teamId") {
				out = append(out, b)
			}
		}
		reply(w, http.StatusOK, out)
	})
	f.handle(mux, "POST /projectProgress", func(w http.ResponseWriter, r *http.Request) {
		var b model.ProjectProgress
		f.decode(r, &b)
		b.ID = f.id()
		f.boards = append(f.boards, b)
		reply(w, http.StatusCreated, b)
	})
	f.handle(mux, "PATCH /projectProgress/{id}", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Phases []model.Phase `json:"phases"`
		}
		f.decode(r, &body)
		for i := range f.boards {
			if f.boards[i].ID.String() == r.PathValue("id") {
				f.boards[i].Phases = body.Phases
				reply(w, http.StatusOK, f.boards[i])
				return
			}
		}
		reply(w, http.StatusNotFound, map[string]string{"message": "not found"})
	})

	f.handle(mux, "GET /posts", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, f.posts)
	})
	f.handle(mux, "POST /posts", func(w http.ResponseWriter, r *http.Request) {
		var in model.NewPost
		f.decode(r, &in)
		p := model.Post{ID: f.id(), AuthorID: in.AuthorID, Title: in.Title, Content: in.Content, CreatedAt: time.Now().UTC().Format(time.RFC3339)}
		f.posts = append(f.posts, p)
		reply(w, http.StatusCreated, p)
	})
	f.handle(mux, "GET /comments", func(w http.ResponseWriter, r *http.Request) {
		out := []model.Comment{}
		for _, c := range f.comments {
			if c.PostID.String() == r.URL.Query().Get("postId") {
				out = append(out, c)
			}
		}
		reply(w, http.StatusOK, out)
	})
	f.handle(mux, "POST /comments", func(w http.ResponseWriter, r *http.Request) {
		var in model.NewComment
		f.decode(r, &in)
		c := model.Comment{ID: f.id(), PostID: in.PostID, AuthorID: in.AuthorID, Content: in.Content}
		f.comments = append(f.comments, c)
		reply(w, http.StatusCreated, c)
	})

	return mux
}

func (f *fakeBackend) setActive(id string, active bool) {
	for i := range f.users {
		if f.users[i].ID.String() == id {
			f.users[i].Active = active
		}
	}
}

func (f *fakeBackend) seedUsers() {
	f.users = []model.User{
		{ID: "1", Name: "Professora Lia", Email: "lia@pratihub.dev", Type: model.UserTypeAdmin, Active: true},
		{ID: "2", Name: "Ana", Email: "ana@pratihub.dev", Type: model.UserTypeStudent, Active: true},
		{ID: "3", Name: "Caio", Email: "caio@pratihub.dev", Type: model.UserTypeStudent, Active: true},
	}
}
