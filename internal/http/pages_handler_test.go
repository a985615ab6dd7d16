package http

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func postForm(env *testEnv, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return env.do(req)
}

func decodeToast(t *testing.T, c *http.Cookie) Toast {
	t.Helper()
	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		t.Fatalf("decode toast: %v", err)
	}
	var toast Toast
	if err := json.Unmarshal(raw, &toast); err != nil {
		t.Fatalf("unmarshal toast: %v", err)
	}
	return toast
}

func TestHome_AnonymousShowsSigninButton(t *testing.T) {
	env := newTestEnv(t, false)
	rec := env.do(httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `href="/auth/signin"`) || strings.Contains(body, "Signout") {
		t.Fatalf("unexpected home body: %s", body)
	}
}

func TestHome_SignedInShowsAvatarAndSignout(t *testing.T) {
	env := newTestEnv(t, false)
	env.seedUser(t, "user@example.com", "password123")
	login := postForm(env, "/auth/signin", url.Values{"email": {"user@example.com"}, "password": {"password123"}})
	cookie := findCookie(login, sessionCookieName)
	if cookie == nil {
		t.Fatalf("expected session cookie, got %d", login.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rec := env.do(req)
	body := rec.Body.String()
	if !strings.Contains(body, "Signout") || !strings.Contains(body, "/placeholder-avatar.png") {
		t.Fatalf("unexpected home body: %s", body)
	}
}

func TestSignInPage_RendersForm(t *testing.T) {
	env := newTestEnv(t, true)
	rec := env.do(httptest.NewRequest(http.MethodGet, "/auth/signin", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{`action="/auth/signin"`, `name="email"`, `name="password"`, "/api/auth/signin/google", `href="/auth/signup"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in body", want)
		}
	}
}

func TestSignInPage_HidesGoogleWhenDisabled(t *testing.T) {
	env := newTestEnv(t, false)
	rec := env.do(httptest.NewRequest(http.MethodGet, "/auth/signin", nil))
	if strings.Contains(rec.Body.String(), "/api/auth/signin/google") {
		t.Fatalf("google button must be hidden")
	}
}

func TestSignIn_ValidationErrorsRenderInline(t *testing.T) {
	env := newTestEnv(t, false)
	rec := postForm(env, "/auth/signin", url.Values{"email": {"not-an-email"}, "password": {"short"}})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Invalid email address.") || !strings.Contains(body, "Password must be at least 8 characters.") {
		t.Fatalf("expected field errors, got %s", body)
	}
	if !strings.Contains(body, `value="not-an-email"`) {
		t.Fatalf("expected email to be kept in the form")
	}
}

func TestSignIn_UnknownUserShowsToast(t *testing.T) {
	env := newTestEnv(t, false)
	rec := postForm(env, "/auth/signin", url.Values{"email": {"nobody@example.com"}, "password": {"password123"}})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Signin Failed") || !strings.Contains(body, "No user found. Please sign up first.") {
		t.Fatalf("expected failure toast, got %s", body)
	}
	if findCookie(rec, sessionCookieName) != nil {
		t.Fatalf("expected no session cookie")
	}
}

func TestSignIn_SuccessRedirectsHomeWithWelcome(t *testing.T) {
	env := newTestEnv(t, false)
	env.seedUser(t, "user@example.com", "password123")
	rec := postForm(env, "/auth/signin", url.Values{"email": {"user@example.com"}, "password": {"password123"}})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("expected 303 to /, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	toast := findCookie(rec, toastCookieName)
	if toast == nil {
		t.Fatalf("expected toast cookie")
	}
	if got := decodeToast(t, toast); got.Title != "Welcome!" || got.Description != "Successfully signed in" {
		t.Fatalf("unexpected toast: %+v", got)
	}

	home := httptest.NewRequest(http.MethodGet, "/", nil)
	home.AddCookie(findCookie(rec, sessionCookieName))
	home.AddCookie(toast)
	page := env.do(home)
	if !strings.Contains(page.Body.String(), "Successfully signed in") {
		t.Fatalf("expected toast on home page")
	}
	if cleared := findCookie(page, toastCookieName); cleared == nil || cleared.MaxAge >= 0 {
		t.Fatalf("expected toast to be consumed")
	}
}

func TestSignInPage_RedirectsWhenAuthenticated(t *testing.T) {
	env := newTestEnv(t, false)
	env.seedUser(t, "user@example.com", "password123")
	login := postForm(env, "/auth/signin", url.Values{"email": {"user@example.com"}, "password": {"password123"}})

	req := httptest.NewRequest(http.MethodGet, "/auth/signin", nil)
	req.AddCookie(findCookie(login, sessionCookieName))
	rec := env.do(req)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/" {
		t.Fatalf("expected 302 to /, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if findCookie(rec, toastCookieName) == nil {
		t.Fatalf("expected welcome toast")
	}
}

func TestSignUp_MismatchedPasswords(t *testing.T) {
	env := newTestEnv(t, false)
	rec := postForm(env, "/auth/signup", url.Values{
		"email":           {"new@example.com"},
		"password":        {"password123"},
		"confirmPassword": {"password124"},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Passwords do not match.") {
		t.Fatalf("expected mismatch message")
	}
	if len(env.repo.usersByID) != 0 {
		t.Fatalf("expected no user to be created")
	}
}

func TestSignUp_SuccessRedirectsToSignin(t *testing.T) {
	env := newTestEnv(t, false)
	rec := postForm(env, "/auth/signup", url.Values{
		"email":           {"new@example.com"},
		"password":        {"password123"},
		"confirmPassword": {"password123"},
	})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/auth/signin" {
		t.Fatalf("expected 303 to /auth/signin, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if _, ok := env.repo.usersByEmail["new@example.com"]; !ok {
		t.Fatalf("expected user to be created")
	}
	toast := findCookie(rec, toastCookieName)
	if toast == nil {
		t.Fatalf("expected toast cookie")
	}
	if got := decodeToast(t, toast); got.Title != "Signup Successful" {
		t.Fatalf("unexpected toast: %+v", got)
	}
}

func TestSignUp_DuplicateEmailShowsToast(t *testing.T) {
	env := newTestEnv(t, false)
	env.seedUser(t, "taken@example.com", "password123")
	rec := postForm(env, "/auth/signup", url.Values{
		"email":           {"taken@example.com"},
		"password":        {"password123"},
		"confirmPassword": {"password123"},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Email already in use.") {
		t.Fatalf("expected duplicate message")
	}
}

func TestPlaceholderAvatarIsServed(t *testing.T) {
	env := newTestEnv(t, false)
	rec := env.do(httptest.NewRequest(http.MethodGet, "/placeholder-avatar.png", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("unexpected content type %q", ct)
	}
}

func TestSignIn_NormalizesEmailBeforeValidating(t *testing.T) {
	env := newTestEnv(t, false)
	env.seedUser(t, "user@example.com", "password123")
	rec := postForm(env, "/auth/signin", url.Values{"email": {"  User@Example.com "}, "password": {"password123"}})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("expected 303 to /, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if findCookie(rec, sessionCookieName) == nil {
		t.Fatalf("expected session cookie")
	}
}

func TestSignUp_NormalizesEmailBeforeValidating(t *testing.T) {
	env := newTestEnv(t, false)
	rec := postForm(env, "/auth/signup", url.Values{
		"email":           {" New@Example.com  "},
		"password":        {"password123"},
		"confirmPassword": {"password123"},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if _, ok := env.repo.usersByEmail["new@example.com"]; !ok {
		t.Fatalf("expected normalized user to be stored")
	}
}
