// Package inventorytest provides an in-memory stand-in for the inventory
// server. It answers the same routes with the same messages and status
// codes so station code can be exercised end to end in tests.
package inventorytest

import (
	"crypto/rand"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"scanstation/infrastructure/inventory"
)

const sessionCookie = "session"

type user struct {
	ID           int64
	Username     string
	PasswordHash []byte
	Role         string
}

type battery struct {
	ID             int64
	Barcode        string
	Model          string
	MfgDate        string
	Status         string
	ActivationDate string
}

// Server is the fake inventory server. Zero value is not usable; call New.
type Server struct {
	mu        sync.Mutex
	users     map[int64]*user
	nextUser  int64
	sessions  map[string]int64
	stock     []*battery
	failNext  *failure
	inCalls   int
	today     func() time.Time
	beforeIn  func()
	router    *chi.Mux
	lastBatch []string
}

type failure struct {
	status  int
	message string
}

// New returns a server seeded with the default accounts admin/admin and
// abhisheka/12345678 (executive).
func New() *Server {
	s := &Server{
		users:    make(map[int64]*user),
		sessions: make(map[string]int64),
		today:    time.Now,
	}
	s.mustAddUser("admin", "admin", inventory.RoleAdmin)
	s.mustAddUser("abhisheka", "12345678", inventory.RoleExecutive)
	s.router = s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// FailNextStockIn makes the next stock-in call answer with status and message.
func (s *Server) FailNextStockIn(status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = &failure{status: status, message: message}
}

// BeforeStockIn installs a hook run at the start of every stock-in call,
// outside the server lock.
func (s *Server) BeforeStockIn(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beforeIn = fn
}

func (s *Server) StockInCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inCalls
}

// LastStockInBatch returns the barcodes of the most recent stock-in request.
func (s *Server) LastStockInBatch() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.lastBatch))
	copy(out, s.lastBatch)
	return out
}

// StockStatus returns the stored status of barcode, or "" when unknown.
func (s *Server) StockStatus(barcode string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b := s.findBattery(barcode); b != nil {
		return b.Status
	}
	return ""
}

// SetToday pins the activation date used by stock-out.
func (s *Server) SetToday(day time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.today = func() time.Time { return day }
}

func (s *Server) routes() *chi.Mux {
	r := chi.NewRouter()
	r.Post("/", s.handleLogin)
	r.Get("/home", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body>home</body></html>"))
	})
	r.Group(func(r chi.Router) {
		r.Use(s.requireLogin)
		r.Get("/api/get-stock", s.handleGetStock)
		r.Get("/api/get-activated", s.handleGetActivated)
		r.Get("/api/get-stock-summary", s.handleStockSummary)
		r.Post("/api/stock-in", s.handleStockIn)
		r.Post("/api/stock-out", s.handleStockOut)
		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.Get("/api/admin/users", s.handleListUsers)
			r.Post("/api/admin/users/add", s.handleAddUser)
			r.Post("/api/admin/users/delete", s.handleDeleteUser)
			r.Post("/api/admin/users/update-password", s.handleUpdatePassword)
			r.Get("/api/admin/download-report", s.handleDownloadReport)
		})
	})
	return r
}

func (s *Server) currentUser(r *http.Request) (*user, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.sessions[c.Value]
	if !ok {
		return nil, false
	}
	u, ok := s.users[id]
	if !ok {
		return nil, false
	}
	copied := *u
	return &copied, true
}

func (s *Server) requireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.currentUser(r); !ok {
			http.Redirect(w, r, "/?next="+r.URL.Path, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := s.currentUser(r)
		if !ok || u.Role != inventory.RoleAdmin {
			http.Redirect(w, r, "/home", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	username := r.FormValue("username")
	password := r.FormValue("password")

	s.mu.Lock()
	var found *user
	for _, u := range s.users {
		if u.Username == username {
			found = u
			break
		}
	}
	if found == nil || bcrypt.CompareHashAndPassword(found.PasswordHash, []byte(password)) != nil {
		s.mu.Unlock()
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	token := newToken()
	s.sessions[token] = found.ID
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: token, Path: "/", HttpOnly: true})
	http.Redirect(w, r, "/home", http.StatusFound)
}

func (s *Server) handleStockIn(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	hook := s.beforeIn
	s.mu.Unlock()
	if hook != nil {
		hook()
	}

	var body struct {
		Barcodes []string `json:"barcodes"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inCalls++
	s.lastBatch = append([]string(nil), body.Barcodes...)
	if f := s.failNext; f != nil {
		s.failNext = nil
		writeJSON(w, f.status, inventory.MessageResponse{Status: "error", Message: f.message})
		return
	}
	if len(body.Barcodes) == 0 {
		writeJSON(w, http.StatusBadRequest, inventory.MessageResponse{Status: "error", Message: "No barcodes provided"})
		return
	}
	added := 0
	for _, code := range body.Barcodes {
		if s.findBattery(code) != nil {
			continue
		}
		model, mfg := inventory.ParseBarcode(code)
		s.stock = append(s.stock, &battery{
			ID:      int64(len(s.stock) + 1),
			Barcode: code,
			Model:   model,
			MfgDate: mfg,
			Status:  inventory.StatusInStock,
		})
		added++
	}
	writeJSON(w, http.StatusCreated, inventory.MessageResponse{
		Status:  "success",
		Message: fmt.Sprintf("Received %d barcodes. Added %d new batteries to stock.", len(body.Barcodes), added),
	})
}

func (s *Server) handleStockOut(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Barcode string `json:"barcode"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	if body.Barcode == "" {
		writeJSON(w, http.StatusBadRequest, inventory.MessageResponse{Status: "error", Message: "No barcode provided"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.findBattery(body.Barcode)
	if b == nil {
		writeJSON(w, http.StatusNotFound, inventory.MessageResponse{Status: "error", Message: "Barcode not found: " + body.Barcode})
		return
	}
	b.Status = inventory.StatusActivated
	b.ActivationDate = s.today().Format("2006-01-02")
	writeJSON(w, http.StatusOK, inventory.MessageResponse{Status: "success", Message: fmt.Sprintf("Battery %s has been activated.", body.Barcode)})
}

func (s *Server) handleGetStock(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	rows := s.rowsWhere(inventory.StatusInStock, "")
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleGetActivated(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	rows := s.rowsWhere(inventory.StatusActivated, r.URL.Query().Get("date"))
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleStockSummary(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	counts := make(map[string]int)
	for _, b := range s.stock {
		if b.Status == inventory.StatusInStock {
			counts[b.Model]++
		}
	}
	s.mu.Unlock()

	rows := make([]inventory.SummaryRow, 0, len(counts))
	for model, n := range counts {
		rows = append(rows, inventory.SummaryRow{Model: model, BatteryCount: n})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Model < rows[j].Model })
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleListUsers(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	users := make([]inventory.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, inventory.User{ID: u.ID, Username: u.Username, Role: u.Role})
	}
	s.mu.Unlock()
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleAddUser(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	if body.Username == "" || body.Password == "" || body.Role == "" {
		writeJSON(w, http.StatusBadRequest, inventory.MessageResponse{Message: "All fields are required"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == body.Username {
			writeJSON(w, http.StatusConflict, inventory.MessageResponse{Message: "Username already exists"})
			return
		}
	}
	if err := s.addUserLocked(body.Username, body.Password, body.Role); err != nil {
		writeJSON(w, http.StatusInternalServerError, inventory.MessageResponse{Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, inventory.MessageResponse{Message: "User created successfully"})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	current, _ := s.currentUser(r)
	var body struct {
		ID json.Number `json:"id"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	id, err := body.ID.Int64()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, inventory.MessageResponse{Message: "invalid user id"})
		return
	}
	if id == current.ID {
		writeJSON(w, http.StatusForbidden, inventory.MessageResponse{Message: "You cannot delete your own account."})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if ok && u.Username == "admin" {
		writeJSON(w, http.StatusForbidden, inventory.MessageResponse{Message: "The default 'admin' user cannot be deleted."})
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, inventory.MessageResponse{Message: "User not found"})
		return
	}
	delete(s.users, id)
	writeJSON(w, http.StatusOK, inventory.MessageResponse{Message: "User deleted successfully"})
}

func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	current, _ := s.currentUser(r)
	var body struct {
		UserID   json.Number `json:"user_id"`
		Password string      `json:"password"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	id, err := body.UserID.Int64()
	if err != nil || body.Password == "" {
		writeJSON(w, http.StatusBadRequest, inventory.MessageResponse{Message: "User ID and new password are required."})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, inventory.MessageResponse{Message: "User not found."})
		return
	}
	if u.Username == "admin" && current.Username != "admin" {
		writeJSON(w, http.StatusForbidden, inventory.MessageResponse{Message: "Only the 'admin' user can change their own password."})
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.MinCost)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, inventory.MessageResponse{Message: err.Error()})
		return
	}
	u.PasswordHash = hash
	writeJSON(w, http.StatusOK, inventory.MessageResponse{Message: "Password updated successfully."})
}

func (s *Server) handleDownloadReport(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	date := r.URL.Query().Get("date")
	if status != inventory.StatusInStock && status != inventory.StatusActivated {
		http.Error(w, "Invalid report status", http.StatusBadRequest)
		return
	}
	if status == inventory.StatusInStock {
		date = ""
	}
	s.mu.Lock()
	rows := s.rowsWhere(status, date)
	today := s.today().Format("2006-01-02")
	s.mu.Unlock()

	filename := fmt.Sprintf("report_%s_%s.csv", strings.ReplaceAll(strings.ToLower(status), " ", "_"), today)
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.Header().Set("Content-Type", "text/csv")
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"barcode", "model", "mfg_date", "status", "activation_date"})
	for _, row := range rows {
		_ = cw.Write([]string{row.Barcode, row.Model, deref(row.MfgDate), row.Status, deref(row.ActivationDate)})
	}
	cw.Flush()
}

// rowsWhere lists batteries by status, newest first. Callers hold mu.
func (s *Server) rowsWhere(status, activationDate string) []inventory.StockRow {
	rows := make([]inventory.StockRow, 0)
	for i := len(s.stock) - 1; i >= 0; i-- {
		b := s.stock[i]
		if b.Status != status {
			continue
		}
		if activationDate != "" && b.ActivationDate != activationDate {
			continue
		}
		row := inventory.StockRow{Barcode: b.Barcode, Model: b.Model, Status: b.Status}
		if b.MfgDate != "" {
			mfg := b.MfgDate
			row.MfgDate = &mfg
		}
		if b.ActivationDate != "" {
			act := b.ActivationDate
			row.ActivationDate = &act
		}
		rows = append(rows, row)
	}
	return rows
}

func (s *Server) findBattery(barcode string) *battery {
	for _, b := range s.stock {
		if b.Barcode == barcode {
			return b
		}
	}
	return nil
}

func (s *Server) mustAddUser(username, password, role string) {
	if err := s.addUserLocked(username, password, role); err != nil {
		panic(err)
	}
}

func (s *Server) addUserLocked(username, password, role string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return err
	}
	s.nextUser++
	s.users[s.nextUser] = &user{ID: s.nextUser, Username: username, PasswordHash: hash, Role: role}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func newToken() string {
	buf := make([]byte, 24)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
