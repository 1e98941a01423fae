package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/folio-go/internal/middleware"
	"github.com/olegiv/folio-go/internal/model"
	"github.com/olegiv/folio-go/internal/service"
	"github.com/olegiv/folio-go/internal/store"
)

// newTestHandler creates a handler backed by a migrated temp database.
func newTestHandler(t *testing.T) (*Handler, *store.Queries) {
	t.Helper()

	f, err := os.CreateTemp("", "folio-api-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	f.Close()

	db, err := store.NewDB(f.Name())
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	if err := store.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("Migrate: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
		os.Remove(f.Name())
	})

	h := NewHandler(db, service.NewEventService(db), Options{UploadsDir: t.TempDir()})
	return h, store.New(db)
}

// newTestRouter mounts the API routes with the given user injected into
// every request context, standing in for the authentication middleware.
// A nil user leaves requests anonymous.
func newTestRouter(h *Handler, user *model.User) chi.Router {
	r := chi.NewRouter()
	if user != nil {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				ctx := context.WithValue(req.Context(), middleware.ContextKeyUser, *user)
				next.ServeHTTP(w, req.WithContext(ctx))
			})
		})
	}

	r.Get("/posts", h.ListPosts)
	r.Get("/posts/{slug}", h.GetPost)
	r.Post("/posts", h.CreatePost)
	r.Put("/posts/{slug}", h.UpdatePost)
	r.Delete("/posts/{slug}", h.DeletePost)
	r.Post("/posts/{slug}/excerpt", h.GenerateExcerpt)

	r.Get("/users", h.ListUsers)
	r.Get("/users/me", h.Me)
	r.Get("/users/{email}", h.GetUser)
	r.Put("/users", h.UpdateProfile)
	r.Put("/users/switch-role", h.SwitchRole)

	r.Route("/portfolios/{email}", func(r chi.Router) {
		r.Get("/", h.GetPortfolio)
		r.Post("/education", h.CreateEducation)
		r.Put("/education/{id}", h.UpdateEducation)
		r.Delete("/education/{id}", h.DeleteEducation)
		r.Post("/projects", h.CreateProject)
		r.Put("/projects/{id}", h.UpdateProject)
		r.Delete("/projects/{id}", h.DeleteProject)
		r.Post("/skills", h.CreateSkillCategory)
		r.Put("/skills/{id}", h.UpdateSkillCategory)
	})

	r.Get("/jobs", h.ListJobApplications)
	r.Post("/jobs", h.CreateJobApplication)
	r.Get("/jobs/{id}", h.GetJobApplication)
	r.Put("/jobs/{id}", h.UpdateJobApplication)
	r.Delete("/jobs/{id}", h.DeleteJobApplication)

	r.Get("/testimonials", h.ListTestimonials)
	r.Get("/testimonials/all", h.ListAllTestimonials)
	r.Post("/testimonials", h.CreateTestimonial)

	r.Get("/website-updates", h.ListWebsiteUpdates)
	r.Get("/website-updates/{id}", h.GetWebsiteUpdate)
	r.Post("/website-updates", h.CreateWebsiteUpdate)
	r.Put("/website-updates/{id}", h.UpdateWebsiteUpdate)
	r.Delete("/website-updates/{id}", h.DeleteWebsiteUpdate)

	r.Post("/contact", h.SubmitContact)
	r.Get("/contact", h.ListContactMessages)
	r.Delete("/contact/{id}", h.DeleteContactMessage)

	r.Get("/events", h.ListEvents)

	return r
}

// doRequest executes a request against the router. A non-nil body is
// JSON-encoded.
func doRequest(t *testing.T, router chi.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals the recorded response body into dst.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("unmarshaling response %q: %v", w.Body.String(), err)
	}
}

// assertStatus checks the recorded status code.
func assertStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Errorf("status = %d, want %d (body: %s)", w.Code, want, w.Body.String())
	}
}

// assertErrorMessage checks the flat error body.
func assertErrorMessage(t *testing.T, w *httptest.ResponseRecorder, want string) {
	t.Helper()
	var body map[string]string
	decodeBody(t, w, &body)
	if body["error"] != want {
		t.Errorf("error = %q, want %q", body["error"], want)
	}
}

// seedUser inserts a user record and returns it.
func seedUser(t *testing.T, q *store.Queries, email string, role model.Role) model.User {
	t.Helper()
	user, err := q.CreateUser(context.Background(), store.CreateUserParams{
		Email: email, SubjectID: "sub-" + email, Name: email, Role: role,
	})
	if err != nil {
		t.Fatalf("seeding user %s: %v", email, err)
	}
	return user
}
