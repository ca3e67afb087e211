package handlers

import (
	"net/http"

	"github.com/abrezinsky/raffledraw/internal/auth"
)

// handleLoginPage renders the login form
func (h *Handlers) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	// If already logged in, go straight to the console
	if h.Auth.GetSessionFromRequest(r) {
		http.Redirect(w, r, "/host", http.StatusFound)
		return
	}

	h.templates.HostLogin.Execute(w, HostPageData{Title: "Host Login"})
}

// handleLogin processes login form submission
func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	password := r.FormValue("password")

	token, ok := h.Auth.Login(password)
	if !ok {
		h.templates.HostLogin.Execute(w, HostPageData{
			Title: "Host Login",
			Error: "Invalid password",
		})
		return
	}

	auth.SetSessionCookie(w, token)
	http.Redirect(w, r, "/host", http.StatusFound)
}

// handleLogout clears the session and redirects to login
func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.CookieName); err == nil {
		h.Auth.Logout(cookie.Value)
	}

	auth.ClearSessionCookie(w)
	http.Redirect(w, r, "/host/login", http.StatusFound)
}
