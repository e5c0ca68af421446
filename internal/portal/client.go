package portal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/krsbot-dev/krsbot/internal/logging"
)

// Client is a session against the registration portal for a single student
// account. Not safe for concurrent use; create one Client per account.
type Client struct {
	httpClient *http.Client
	endpoints  Endpoints
	logger     logging.Logger

	token     string
	studentID string
}

// New returns an unauthenticated Client. timeout bounds every request
// end to end.
func New(endpoints Endpoints, timeout time.Duration, logger logging.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoints:  endpoints,
		logger:     logger,
	}
}

// Authenticated reports whether a login token is held.
func (c *Client) Authenticated() bool {
	return c.token != ""
}

// Identified reports whether the full handshake is done, i.e. the student id
// has been resolved on top of the token. Course operations require this.
func (c *Client) Identified() bool {
	return c.token != "" && c.studentID != ""
}

// StudentID returns the resolved student id, empty before ResolveIdentity.
func (c *Client) StudentID() string {
	return c.studentID
}

type loginMeta struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

type loginResponse struct {
	Meta        loginMeta `json:"meta"`
	Token       string    `json:"token"`
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
}

// Authenticate exchanges the credentials for a bearer token. Two response
// shapes are accepted: the current {"token": ..., "meta": {"status": 200}} and
// the legacy {"access_token": ...}. Anything else fails with an AuthError
// carrying the server-reported message, or "Invalid response from server" when
// there is none. The token is held in memory only.
func (c *Client) Authenticate(ctx context.Context, username, password string) error {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := c.newRequest(ctx, http.MethodPost, c.endpoints.loginURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return &AuthError{Message: err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &AuthError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &AuthError{Message: err.Error(), Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &AuthError{Message: fmt.Sprintf("unexpected status %s: %s", resp.Status, snippet(body))}
	}

	var lr loginResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return &AuthError{Message: "Invalid response from server", Err: err}
	}

	switch {
	case lr.Token != "" && lr.Meta.Status == http.StatusOK:
		c.token = lr.Token
	case lr.AccessToken != "":
		c.token = lr.AccessToken
	default:
		msg := lr.Meta.Message
		if msg == "" {
			msg = "Invalid response from server"
		}
		return &AuthError{Message: msg}
	}

	c.logger.Info(ctx, "portal login succeeded", "username", username)
	return nil
}

// ResolveIdentity fetches the profile of the logged-in student and latches the
// student id for subsequent transactions. A profile without a "numberid" is a
// failure even when the read itself succeeded, since no transaction can be
// issued without it.
func (c *Client) ResolveIdentity(ctx context.Context) (*Profile, error) {
	if !c.Authenticated() {
		return nil, ErrNotAuthenticated
	}

	body, err := c.getJSON(ctx, "resolve identity", c.endpoints.profileURL())
	if err != nil {
		var pe *PortalError
		if errors.As(err, &pe) {
			return nil, &AuthError{Message: pe.Message, Err: pe.Err}
		}
		return nil, &AuthError{Message: err.Error(), Err: err}
	}

	var p Profile
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, &AuthError{Message: "Invalid response from server", Err: err}
	}
	if p.NumberID == "" {
		return nil, &AuthError{Message: "profile response carries no student id"}
	}

	c.studentID = p.NumberID.String()
	c.logger.Info(ctx, "identity resolved", "student_id", c.studentID, "fullname", p.Fullname)
	return &p, nil
}

// Logout drops the token and student id. Idempotent and purely local: the
// upstream has no logout endpoint, sessions simply lapse.
func (c *Client) Logout() {
	c.token = ""
	c.studentID = ""
	c.httpClient.CloseIdleConnections()
}

// Scopes fetches the access scopes granted to the current token.
func (c *Client) Scopes(ctx context.Context) ([]string, error) {
	const op = "fetch scopes"
	if !c.Authenticated() {
		return nil, ErrNotAuthenticated
	}

	body, err := c.getJSON(ctx, op, c.endpoints.scopesURL())
	if err != nil {
		return nil, err
	}

	var sr struct {
		Scope []string `json:"scope"`
	}
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, &PortalError{Op: op, Kind: FailureUpstream, Message: "malformed scope response", Err: err}
	}
	return sr.Scope, nil
}

// StudentStatus fetches the administrative standing of the student, e.g.
// whether the account is cleared to register this term.
func (c *Client) StudentStatus(ctx context.Context) (string, error) {
	const op = "fetch student status"
	if !c.Authenticated() {
		return "", ErrNotAuthenticated
	}

	body, err := c.getJSON(ctx, op, c.endpoints.studentStatusURL())
	if err != nil {
		return "", err
	}

	var sr struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &sr); err != nil {
		return "", &PortalError{Op: op, Kind: FailureUpstream, Message: "malformed status response", Err: err}
	}
	return sr.Status, nil
}

// AcademicYear fetches the current school-year document. The shape is
// upstream-defined and returned as-is.
func (c *Client) AcademicYear(ctx context.Context) (json.RawMessage, error) {
	return c.rawRead(ctx, "fetch academic year", c.endpoints.academicYearURL())
}

// RegistrationSchedule fetches the registration-period document, returned
// as-is like AcademicYear.
func (c *Client) RegistrationSchedule(ctx context.Context) (json.RawMessage, error) {
	return c.rawRead(ctx, "fetch registration schedule", c.endpoints.registrationScheduleURL())
}

func (c *Client) rawRead(ctx context.Context, op, rawurl string) (json.RawMessage, error) {
	if !c.Authenticated() {
		return nil, ErrNotAuthenticated
	}

	body, err := c.getJSON(ctx, op, rawurl)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, &PortalError{Op: op, Kind: FailureUpstream, Message: "response is not valid JSON"}
	}
	return json.RawMessage(body), nil
}

// newRequest builds a request with the pinned header set and, once logged in,
// the bearer token.
func (c *Client) newRequest(ctx context.Context, method, rawurl string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawurl, body)
	if err != nil {
		return nil, err
	}
	applyDefaultHeaders(req)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// getJSON performs one GET and returns the raw body. All failures come back as
// *PortalError with Kind FailureTransport; decoding is the caller's business.
func (c *Client) getJSON(ctx context.Context, op, rawurl string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, rawurl, nil)
	if err != nil {
		return nil, &PortalError{Op: op, Kind: FailureTransport, Message: err.Error(), Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &PortalError{Op: op, Kind: FailureTransport, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &PortalError{Op: op, Kind: FailureTransport, Message: err.Error(), Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &PortalError{
			Op:      op,
			Kind:    FailureTransport,
			Message: fmt.Sprintf("unexpected status %s: %s", resp.Status, snippet(body)),
		}
	}
	return body, nil
}

// snippet trims a response body down to something that fits in an error
// message.
func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
