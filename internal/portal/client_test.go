package portal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/krsbot-dev/krsbot/internal/logging"
)

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	ep := Endpoints{
		AuthBase:      srv.URL,
		ServiceBase:   srv.URL,
		AvailableHash: "availhash",
		EnrolledHash:  "enrolledhash",
		ScheduleHash:  "schedhash",
		StatusHash:    "statushash",
	}
	return New(ep, 2*time.Second, discardLogger())
}

func TestAuthenticate_PrimaryShape(t *testing.T) {
	var gotPath, gotLang, gotOrigin, gotContentType string
	var gotForm url.Values
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotLang = r.Header.Get("Accept-Language")
		gotOrigin = r.Header.Get("Origin")
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		fmt.Fprint(w, `{"token":"tok-1","meta":{"status":200}}`)
	}))

	err := c.Authenticate(context.Background(), "student1", "s3cret")
	require.NoError(t, err)

	require.Equal(t, "/api/oauth/issueauth", gotPath)
	require.Equal(t, "id", gotLang)
	require.Equal(t, "https://sirama.telkomuniversity.ac.id", gotOrigin)
	require.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	require.Equal(t, "student1", gotForm.Get("username"))
	require.Equal(t, "s3cret", gotForm.Get("password"))

	require.True(t, c.Authenticated())
	require.False(t, c.Identified())
}

func TestAuthenticate_LegacyShape(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"access_token":"legacy-tok","token_type":"bearer","expires_in":3600}`)
	}))

	require.NoError(t, c.Authenticate(context.Background(), "u", "p"))
	require.True(t, c.Authenticated())
}

func TestAuthenticate_UpstreamMessage(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"meta":{"status":401,"message":"Wrong credentials"}}`)
	}))

	err := c.Authenticate(context.Background(), "u", "bad")
	require.Error(t, err)

	var ae *AuthError
	require.ErrorAs(t, err, &ae)
	require.Equal(t, "Wrong credentials", ae.Message)
	require.False(t, c.Authenticated())
}

func TestAuthenticate_UnrecognizedShape(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty object", `{}`},
		{"token without meta status", `{"token":"t"}`},
		{"not json", `<html>maintenance</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.body)
			}))

			err := c.Authenticate(context.Background(), "u", "p")
			var ae *AuthError
			require.ErrorAs(t, err, &ae)
			require.Equal(t, "Invalid response from server", ae.Message)
		})
	}
}

func TestAuthenticate_Non2xx(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway down", http.StatusServiceUnavailable)
	}))

	err := c.Authenticate(context.Background(), "u", "p")
	var ae *AuthError
	require.ErrorAs(t, err, &ae)
	require.Contains(t, ae.Message, "503")
	require.Contains(t, ae.Message, "gateway down")
}

func TestAuthenticate_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ep := Endpoints{AuthBase: srv.URL, ServiceBase: srv.URL}
	c := New(ep, time.Second, discardLogger())
	srv.Close()

	err := c.Authenticate(context.Background(), "u", "p")
	var ae *AuthError
	require.ErrorAs(t, err, &ae)
	require.Error(t, ae.Err)
}

func TestResolveIdentity_NumericID(t *testing.T) {
	var gotPath, gotAuthz string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuthz = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"numberid":123456,"fullname":"Budi Santoso","max_credit":24}`)
	}))
	c.token = "tok-7"

	p, err := c.ResolveIdentity(context.Background())
	require.NoError(t, err)

	require.Equal(t, "/read/api/read/issueprofile", gotPath)
	require.Equal(t, "Bearer tok-7", gotAuthz)
	require.Equal(t, "123456", p.NumberID.String())
	require.Equal(t, "Budi Santoso", p.Fullname)
	require.Equal(t, 24, p.MaxCredit)
	require.Equal(t, "123456", c.StudentID())
	require.True(t, c.Identified())
}

func TestResolveIdentity_StringID(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"numberid":"NIM-42","fullname":"Sari"}`)
	}))
	c.token = "tok"

	p, err := c.ResolveIdentity(context.Background())
	require.NoError(t, err)
	require.Equal(t, "NIM-42", p.NumberID.String())
}

func TestResolveIdentity_MissingStudentID(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"fullname":"No ID"}`)
	}))
	c.token = "tok"

	_, err := c.ResolveIdentity(context.Background())
	var ae *AuthError
	require.ErrorAs(t, err, &ae)
	require.False(t, c.Identified())
}

func TestResolveIdentity_RequiresToken(t *testing.T) {
	var calls int
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	_, err := c.ResolveIdentity(context.Background())
	require.ErrorIs(t, err, ErrNotAuthenticated)
	require.Zero(t, calls)
}

func TestLogout_ClearsSession(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c.token = "tok"
	c.studentID = "123"

	c.Logout()
	require.False(t, c.Authenticated())
	require.False(t, c.Identified())
	require.Empty(t, c.StudentID())

	// Safe to call twice.
	c.Logout()
}

func TestScopes(t *testing.T) {
	var gotPath string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, `{"scope":["read","transaction"]}`)
	}))
	c.token = "tok"

	scopes, err := c.Scopes(context.Background())
	require.NoError(t, err)
	require.Equal(t, "/api/oauth/issuescope", gotPath)
	require.Equal(t, []string{"read", "transaction"}, scopes)
}

func TestScopes_RequiresToken(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	_, err := c.Scopes(context.Background())
	require.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestStudentStatus(t *testing.T) {
	var gotPath string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, `{"status":"Aktif"}`)
	}))
	c.token = "tok"

	status, err := c.StudentStatus(context.Background())
	require.NoError(t, err)
	require.Equal(t, "/filter/api/read/statushash", gotPath)
	require.Equal(t, "Aktif", status)
}

func TestRawReads(t *testing.T) {
	var paths []string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		fmt.Fprint(w, `{"year":"2025/2026","semester":"Ganjil"}`)
	}))
	c.token = "tok"

	doc, err := c.AcademicYear(context.Background())
	require.NoError(t, err)
	require.JSONEq(t, `{"year":"2025/2026","semester":"Ganjil"}`, string(doc))

	_, err = c.RegistrationSchedule(context.Background())
	require.NoError(t, err)

	require.Equal(t, []string{
		"/course-schedule/academic/current-school-year",
		"/course-schedule/course/registration-schedule",
	}, paths)
}

func TestRawReads_InvalidJSON(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>`)
	}))
	c.token = "tok"

	_, err := c.AcademicYear(context.Background())
	var pe *PortalError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, FailureUpstream, pe.Kind)
}

func TestGetJSON_Non2xxIsTransportFailure(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such resource", http.StatusNotFound)
	}))
	c.token = "tok"

	_, err := c.Scopes(context.Background())
	var pe *PortalError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, FailureTransport, pe.Kind)
	require.Contains(t, pe.Message, "404")
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"auth error", &AuthError{Message: "Wrong credentials"}, "Wrong credentials"},
		{"portal error", &PortalError{Op: "add course", Kind: FailureUpstream, Message: "Quota penuh"}, "Quota penuh"},
		{"wrapped portal error", fmt.Errorf("run: %w", &PortalError{Op: "drop course", Message: "gone"}), "gone"},
		{"plain error", errors.New("boom"), "boom"},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ErrorMessage(tt.err))
		})
	}
}
