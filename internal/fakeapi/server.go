// ABOUTME: In-memory implementation of the recipe API for tests and demos
// ABOUTME: Serves the same routes, status codes and partial-update semantics as the real service

package fakeapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/markalston/cooking-codex/internal/client"
)

// TokenTTL is the lifetime of issued tokens
const TokenTTL = 24 * time.Hour

type user struct {
	id       string
	username string
	hash     []byte
}

// Request is a recorded inbound request
type Request struct {
	Method string
	Path   string
	Body   []byte
}

// Server is a fake recipe API
type Server struct {
	mu       sync.Mutex
	users    map[string]*user // by username
	tokens   map[string]string
	recipes  map[string]*client.Recipe
	order    []string
	images   map[string][]byte
	failNext []int
	requests []Request
	now      func() time.Time
}

// New creates an empty fake API
func New() *Server {
	return &Server{
		users:   make(map[string]*user),
		tokens:  make(map[string]string),
		recipes: make(map[string]*client.Recipe),
		images:  make(map[string][]byte),
		now:     time.Now,
	}
}

// Handler returns the router serving the API
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.record, logRequest)

	r.HandleFunc("/login/", s.handleLogin).Methods("POST")
	r.HandleFunc("/users/", s.handleCreateUser).Methods("POST")
	r.HandleFunc("/media/recipe-image/{id}", s.handleGetImage).Methods("GET")

	authed := r.NewRoute().Subrouter()
	authed.Use(s.authenticate)
	authed.HandleFunc("/recipes/", s.handleListRecipes).Methods("GET")
	authed.HandleFunc("/recipes/", s.handleCreateRecipe).Methods("POST")
	authed.HandleFunc("/recipes/{id}/", s.handleGetRecipe).Methods("GET")
	authed.HandleFunc("/recipes/{id}/", s.handlePatchRecipe).Methods("PATCH")
	authed.HandleFunc("/recipes/{id}/", s.handleDeleteRecipe).Methods("DELETE")
	authed.HandleFunc("/recipes/{id}/image/", s.handleSetImage).Methods("POST")
	authed.HandleFunc("/recipes/{id}/image/", s.handleDeleteImage).Methods("DELETE")
	authed.HandleFunc("/stats/me/", s.handleStats).Methods("GET")

	return r
}

// AddUser registers an account directly and returns its id
func (s *Server) AddUser(username, password string) string {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &user{id: uuid.NewString(), username: username, hash: hash}
	s.users[username] = u
	return u.id
}

// IssueToken logs username in without a password check
func (s *Server) IssueToken(username string) client.LoginToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueLocked(s.users[username].id)
}

// Seed stores a recipe owned by username and returns it with its id
func (s *Server) Seed(username string, r client.Recipe) client.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	r = r.Clone()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.OwnerID = s.users[username].id
	normalize(&r)
	s.recipes[r.ID] = &r
	s.order = append(s.order, r.ID)
	return r.Clone()
}

// Recipe returns the stored recipe
func (s *Server) Recipe(id string) (client.Recipe, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.recipes[id]
	if !ok {
		return client.Recipe{}, false
	}
	return r.Clone(), true
}

// FailNext makes the next request answer with status, without side effects.
// Repeated calls queue further failures.
func (s *Server) FailNext(status int) {
	s.mu.Lock()
	s.failNext = append(s.failNext, status)
	s.mu.Unlock()
}

// ExpireTokens revokes every issued token, so authenticated calls get 401
func (s *Server) ExpireTokens() {
	s.mu.Lock()
	s.tokens = make(map[string]string)
	s.mu.Unlock()
}

// Requests returns the recorded requests in arrival order
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// CountRequests returns how many recorded requests match method and path
func (s *Server) CountRequests(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (s *Server) issueLocked(userID string) client.LoginToken {
	token := client.LoginToken{
		Type:   "Bearer",
		Token:  uuid.NewString(),
		Expiry: s.now().Add(TokenTTL).UTC().Truncate(time.Second),
	}
	s.tokens[token.Token] = userID
	return token
}

// record logs the request and applies any queued failure
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.requests = append(s.requests, Request{Method: r.Method, Path: r.URL.Path, Body: body})
		status := 0
		if len(s.failNext) > 0 {
			status = s.failNext[0]
			s.failNext = s.failNext[1:]
		}
		s.mu.Unlock()

		if status != 0 {
			w.WriteHeader(status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const prefix = "Bearer "
		auth := r.Header.Get("Authorization")
		if len(auth) <= len(prefix) || auth[:len(prefix)] != prefix {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		s.mu.Lock()
		userID, ok := s.tokens[auth[len(prefix):]]
		s.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		r.Header.Set("X-User-ID", userID)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var login client.Login
	if err := json.NewDecoder(r.Body).Decode(&login); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	u, ok := s.users[login.Username]
	s.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(u.hash, []byte(login.Password)) != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	s.mu.Lock()
	token := s.issueLocked(u.id)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, token)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req client.CreateUser
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	_, exists := s.users[req.Username]
	s.mu.Unlock()
	if exists {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	id := s.AddUser(req.Username, req.Password)
	writeJSON(w, http.StatusCreated, client.User{ID: id, Username: req.Username})
}

func (s *Server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-ID")
	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "perPage", 20)
	if page < 1 || perPage < 1 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	owned := make([]client.Recipe, 0)
	for _, id := range s.order {
		if rec := s.recipes[id]; rec.OwnerID == userID {
			owned = append(owned, rec.Clone())
		}
	}
	s.mu.Unlock()

	start := (page - 1) * perPage
	if start > len(owned) {
		start = len(owned)
	}
	end := min(start+perPage, len(owned))
	writeJSON(w, http.StatusOK, owned[start:end])
}

func (s *Server) handleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	var req client.CreateRecipe
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	rec := client.Recipe{
		ID:               uuid.NewString(),
		OwnerID:          r.Header.Get("X-User-ID"),
		Title:            req.Title,
		ShortDescription: req.ShortDescription,
		LongDescription:  req.LongDescription,
		Tags:             req.Tags,
		Ingredients:      req.Ingredients,
		Steps:            req.Steps,
	}
	if req.Info != nil {
		rec.Info = *req.Info
	}
	normalize(&rec)

	s.mu.Lock()
	s.recipes[rec.ID] = &rec
	s.order = append(s.order, rec.ID)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleGetRecipe(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	rec, status := s.ownedLocked(r, http.StatusNotFound)
	var out client.Recipe
	if rec != nil {
		out = rec.Clone()
	}
	s.mu.Unlock()

	if rec == nil {
		w.WriteHeader(status)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// handlePatchRecipe applies only the fields present in the body and
// echoes them back
func (s *Server) handlePatchRecipe(w http.ResponseWriter, r *http.Request) {
	var fields map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, status := s.ownedLocked(r, http.StatusForbidden)
	if rec == nil {
		w.WriteHeader(status)
		return
	}

	updated := rec.Clone()
	if err := applyPatch(&updated, fields); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	normalize(&updated)
	*rec = updated

	writeJSON(w, http.StatusOK, fields)
}

func (s *Server) handleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, status := s.ownedLocked(r, http.StatusForbidden)
	if rec == nil {
		w.WriteHeader(status)
		return
	}

	if rec.ImageID != nil {
		delete(s.images, *rec.ImageID)
	}
	delete(s.recipes, rec.ID)
	for i, id := range s.order {
		if id == rec.ID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetImage(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil || len(data) == 0 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, status := s.ownedLocked(r, http.StatusForbidden)
	if rec == nil {
		w.WriteHeader(status)
		return
	}

	imageID := uuid.NewString()
	s.images[imageID] = data
	if rec.ImageID != nil {
		delete(s.images, *rec.ImageID)
	}
	rec.ImageID = &imageID
	writeJSON(w, http.StatusCreated, imageID)
}

func (s *Server) handleDeleteImage(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, status := s.ownedLocked(r, http.StatusForbidden)
	if rec == nil {
		w.WriteHeader(status)
		return
	}

	if rec.ImageID != nil {
		delete(s.images, *rec.ImageID)
	}
	rec.ImageID = nil
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetImage(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	data, ok := s.images[mux.Vars(r)["id"]]
	s.mu.Unlock()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Write(data)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-ID")

	s.mu.Lock()
	stats := client.AccountStats{UserCount: int64(len(s.users))}
	for _, rec := range s.recipes {
		if rec.OwnerID == userID {
			stats.RecipeCount++
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, stats)
}

// ownedLocked finds the recipe in the route; a recipe owned by someone
// else yields notOwner
func (s *Server) ownedLocked(r *http.Request, notOwner int) (*client.Recipe, int) {
	rec, ok := s.recipes[mux.Vars(r)["id"]]
	if !ok {
		return nil, http.StatusNotFound
	}
	if rec.OwnerID != r.Header.Get("X-User-ID") {
		return nil, notOwner
	}
	return rec, http.StatusOK
}

func applyPatch(rec *client.Recipe, fields map[string]json.RawMessage) error {
	for key, raw := range fields {
		var err error
		switch key {
		case "title":
			err = json.Unmarshal(raw, &rec.Title)
		case "shortDescription":
			var v *string
			if err = json.Unmarshal(raw, &v); err == nil {
				rec.ShortDescription = v
			}
		case "longDescription":
			var v *string
			if err = json.Unmarshal(raw, &v); err == nil {
				rec.LongDescription = v
			}
		case "tags":
			var tags []string
			if err = json.Unmarshal(raw, &tags); err == nil {
				rec.Tags = tags
			}
		case "ingredients":
			// decode into a fresh slice so omitted fields do not inherit old values
			var ings []client.Ingredient
			if err = json.Unmarshal(raw, &ings); err == nil {
				rec.Ingredients = ings
			}
		case "steps":
			var steps []client.Step
			if err = json.Unmarshal(raw, &steps); err == nil {
				rec.Steps = steps
			}
		case "info":
			rec.Info = client.Info{}
			err = json.Unmarshal(raw, &rec.Info)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func normalize(rec *client.Recipe) {
	if rec.Tags == nil {
		rec.Tags = []string{}
	}
	if rec.Ingredients == nil {
		rec.Ingredients = []client.Ingredient{}
	}
	if rec.Steps == nil {
		rec.Steps = []client.Step{}
	}
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return -1
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
