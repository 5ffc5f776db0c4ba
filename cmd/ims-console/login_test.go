package main

import (
	"net/http"
	"testing"
)

func TestLoginSuccessNavigatesToDashboard(t *testing.T) {
	app := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user/validate" {
			t.Errorf("unexpected request %s", r.URL.Path)
			return
		}
		if got := r.URL.Query().Get("user_phone"); got != "1234567890" {
			t.Errorf("expected phone 1234567890, got %q", got)
		}
		w.Write([]byte(`{"status":"success","statusbool":true,"token":"T2","user_name":"Admin","user_id":1}`))
	}))

	m := NewLoginModel(app)
	results := runCmd(validateLogin(app, "1234567890", "567890"))
	if len(results) != 1 {
		t.Fatalf("expected 1 login result, got %d", len(results))
	}

	m, cmd := m.Update(results[0])

	var navigated bool
	for _, msg := range runCmd(cmd) {
		if nav, ok := msg.(NavigateMsg); ok {
			navigated = true
			if nav.view != ViewDashboard {
				t.Errorf("expected navigation to the dashboard, got view %d", nav.view)
			}
		}
	}
	if !navigated {
		t.Error("successful login must navigate to the dashboard")
	}

	if !app.Session.IsAuthenticated() || app.Session.Token() != "T2" {
		t.Errorf("expected persisted session token T2, got %q", app.Session.Token())
	}
	if app.Session.UserName() != "Admin" || app.Session.UserID() != 1 {
		t.Errorf("unexpected identity: %q %d", app.Session.UserName(), app.Session.UserID())
	}
	if m.authenticating {
		t.Error("busy indicator must clear once the result lands")
	}
}

func TestLoginFailureStaysOnForm(t *testing.T) {
	app := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"failure","statusbool":false,"message":"invalid credentials"}`))
	}))

	m := NewLoginModel(app)
	results := runCmd(validateLogin(app, "1234567890", "wrong"))

	m, cmd := m.Update(results[0])
	for _, msg := range runCmd(cmd) {
		if _, ok := msg.(NavigateMsg); ok {
			t.Fatal("failed login must not navigate away")
		}
	}
	if m.status == "" {
		t.Error("expected an operator-facing error message")
	}
}
