package adminusers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

const usersPath = "/tasker/admin/users"

// UsersPageQueryHandler renders the admin users list page.
func UsersPageQueryHandler(dir Directory, role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := LoadUsersPageData(r.Context(), dir)
		if err != nil {
			slog.Error("admin users: failed to load data", slog.Any("err", err))
			data.ErrorMessage = ErrorMessage(err)
		}
		data.Role = role
		if msg := r.URL.Query().Get("status"); msg != "" {
			data.Status = msg
		}
		if msg := r.URL.Query().Get("error"); msg != "" {
			data.ErrorMessage = msg
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(UsersListPage(data)))
	}
}

func CreateUserCommandHandler(dir Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectError(w, r, "invalid form data")
			return
		}
		msg, err := CreateUser(r.Context(), dir, r.FormValue("username"), r.FormValue("password"), r.FormValue("role"))
		if err != nil {
			redirectError(w, r, ErrorMessage(err))
			return
		}
		redirectStatus(w, r, msg)
	}
}

func DeleteUserCommandHandler(dir Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		msg, err := DeleteUser(r.Context(), dir, parseUserID(r))
		if err != nil {
			redirectError(w, r, ErrorMessage(err))
			return
		}
		redirectStatus(w, r, msg)
	}
}

func ChangePasswordCommandHandler(dir Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectError(w, r, "invalid form data")
			return
		}
		msg, err := ChangePassword(r.Context(), dir, parseUserID(r), r.FormValue("password"))
		if err != nil {
			redirectError(w, r, ErrorMessage(err))
			return
		}
		redirectStatus(w, r, msg)
	}
}

func parseUserID(r *http.Request) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(chi.URLParam(r, "id")), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func redirectError(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, usersPath+"?error="+url.QueryEscape(msg), http.StatusSeeOther)
}

func redirectStatus(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, usersPath+"?status="+url.QueryEscape(msg), http.StatusSeeOther)
}
