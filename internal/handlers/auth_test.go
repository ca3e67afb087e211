package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/abrezinsky/raffledraw/internal/auth"
)

func postLogin(t *testing.T, ts *testSetup, password string) *httptest.ResponseRecorder {
	t.Helper()

	form := url.Values{}
	form.Set("password", password)

	req := httptest.NewRequest(http.MethodPost, "/host/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	ts.router.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == auth.CookieName {
			return cookie
		}
	}
	return nil
}

// ==================== handleLoginPage Tests ====================

func TestHandleLoginPage_AlreadyLoggedIn(t *testing.T) {
	setup := newTestSetupWithTemplates(t)

	rec := setup.do(t, http.MethodGet, "/host/login", nil)

	// Should redirect to the console
	if rec.Code != http.StatusFound {
		t.Errorf("expected status %d, got %d", http.StatusFound, rec.Code)
	}
	if location := rec.Header().Get("Location"); location != "/host" {
		t.Errorf("expected redirect to /host, got %s", location)
	}
}

func TestHandleLoginPage_NotLoggedIn(t *testing.T) {
	setup := newTestSetupWithTemplates(t)

	rec := setup.doAnon(t, http.MethodGet, "/host/login", nil)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "Login") {
		t.Errorf("expected HTML login page, got: %s", body)
	}
}

// ==================== handleLogin Tests ====================

func TestHandleLogin_Success(t *testing.T) {
	setup := newTestSetupWithTemplates(t)

	rec := postLogin(t, setup, "test-password")

	if rec.Code != http.StatusFound {
		t.Errorf("expected status %d, got %d", http.StatusFound, rec.Code)
	}
	if location := rec.Header().Get("Location"); location != "/host" {
		t.Errorf("expected redirect to /host, got %s", location)
	}

	cookie := sessionCookie(rec)
	if cookie == nil || cookie.Value == "" {
		t.Fatal("expected session cookie to be set")
	}

	// The new session opens the host API
	req := httptest.NewRequest(http.MethodGet, "/api/raffles", nil)
	req.AddCookie(cookie)
	apiRec := httptest.NewRecorder()
	setup.router.ServeHTTP(apiRec, req)
	if apiRec.Code != http.StatusOK {
		t.Errorf("expected session to authorize the API, got %d", apiRec.Code)
	}
}

func TestHandleLogin_InvalidPassword(t *testing.T) {
	for _, password := range []string{"wrong-password", ""} {
		setup := newTestSetupWithTemplates(t)

		rec := postLogin(t, setup, password)

		// Should render login page with error
		if rec.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
		if body := rec.Body.String(); !strings.Contains(body, "Invalid password") {
			t.Errorf("expected error message in response, got: %s", body)
		}
		if sessionCookie(rec) != nil {
			t.Error("expected no session cookie")
		}
	}
}

// ==================== handleLogout Tests ====================

func TestHandleLogout_WithValidSession(t *testing.T) {
	setup := newTestSetupWithTemplates(t)

	rec := setup.do(t, http.MethodPost, "/host/logout", nil)

	if rec.Code != http.StatusFound {
		t.Errorf("expected status %d, got %d", http.StatusFound, rec.Code)
	}
	if location := rec.Header().Get("Location"); location != "/host/login" {
		t.Errorf("expected redirect to /host/login, got %s", location)
	}

	cookie := sessionCookie(rec)
	if cookie == nil || (cookie.MaxAge >= 0 && cookie.Value != "") {
		t.Error("expected session cookie to be cleared")
	}

	// The old token no longer works
	if rec := setup.do(t, http.MethodGet, "/api/raffles", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", rec.Code)
	}
}

func TestHandleLogout_WithoutSession(t *testing.T) {
	setup := newTestSetupWithTemplates(t)

	rec := setup.doAnon(t, http.MethodPost, "/host/logout", nil)

	if rec.Code != http.StatusFound {
		t.Errorf("expected status %d, got %d", http.StatusFound, rec.Code)
	}
	if location := rec.Header().Get("Location"); location != "/host/login" {
		t.Errorf("expected redirect to /host/login, got %s", location)
	}
}

func TestHandleLogout_WithInvalidSession(t *testing.T) {
	setup := newTestSetupWithTemplates(t)

	req := httptest.NewRequest(http.MethodPost, "/host/logout", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "invalid-token-xyz"})
	rec := httptest.NewRecorder()

	setup.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Errorf("expected status %d, got %d", http.StatusFound, rec.Code)
	}
	if location := rec.Header().Get("Location"); location != "/host/login" {
		t.Errorf("expected redirect to /host/login, got %s", location)
	}
}
