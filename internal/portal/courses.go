package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// ListAvailable fetches the catalog of courses offered to the given study
// program at the given term level.
func (c *Client) ListAvailable(ctx context.Context, programID, termLevel int) ([]CourseSummary, error) {
	const op = "list available courses"
	if !c.Identified() {
		return nil, ErrNotAuthenticated
	}

	body, err := c.getJSON(ctx, op, c.endpoints.availableURL(programID, termLevel))
	if err != nil {
		return nil, err
	}

	var courses []CourseSummary
	if err := json.Unmarshal(body, &courses); err != nil {
		return nil, &PortalError{Op: op, Kind: FailureUpstream, Message: "malformed course catalog", Err: err}
	}
	return courses, nil
}

// ListEnrolled fetches the student's current registrations. The upstream
// occasionally answers with an object instead of an array when the cart is
// empty; that shape is tolerated and logged, and yields an empty list rather
// than an error. Invalid JSON is still an error.
func (c *Client) ListEnrolled(ctx context.Context) ([]EnrolledCourse, error) {
	const op = "list enrolled courses"
	if !c.Identified() {
		return nil, ErrNotAuthenticated
	}

	body, err := c.getJSON(ctx, op, c.endpoints.enrolledURL())
	if err != nil {
		return nil, err
	}

	var courses []EnrolledCourse
	if err := json.Unmarshal(body, &courses); err != nil {
		var probe any
		if jerr := json.Unmarshal(body, &probe); jerr != nil {
			return nil, &PortalError{Op: op, Kind: FailureUpstream, Message: "malformed enrollment list", Err: err}
		}
		if _, isArray := probe.([]any); isArray {
			return nil, &PortalError{Op: op, Kind: FailureUpstream, Message: "malformed enrollment list", Err: err}
		}
		c.logger.Warn(ctx, "enrollment list is not an array, treating as empty", "shape", fmt.Sprintf("%T", probe))
		return []EnrolledCourse{}, nil
	}
	return courses, nil
}

// GetSchedule fetches the weekly timetable as shift rows keyed by weekday.
func (c *Client) GetSchedule(ctx context.Context) ([]ScheduleSlot, error) {
	const op = "fetch schedule"
	if !c.Identified() {
		return nil, ErrNotAuthenticated
	}

	body, err := c.getJSON(ctx, op, c.endpoints.scheduleURL())
	if err != nil {
		return nil, err
	}

	var slots []ScheduleSlot
	if err := json.Unmarshal(body, &slots); err != nil {
		return nil, &PortalError{Op: op, Kind: FailureUpstream, Message: "malformed schedule", Err: err}
	}
	return slots, nil
}

type ackResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// AddCourse registers the student for a course. Success is recognized
// strictly by the acknowledgement field status == "Success"; every other
// value, and an absent one, is a failure. The returned string is the upstream
// acknowledgement message verbatim, with a default substituted when the
// portal sent none.
func (c *Client) AddCourse(ctx context.Context, courseID, enrollmentHash string) (string, error) {
	const op = "add course"
	if !c.Identified() {
		return "", ErrNotAuthenticated
	}

	form := url.Values{}
	form.Set("studentid", c.studentID)
	form.Set("courseid", courseID)

	req, err := c.newRequest(ctx, http.MethodPost, c.endpoints.addCourseURL(enrollmentHash), strings.NewReader(form.Encode()))
	if err != nil {
		return "", &PortalError{Op: op, Kind: FailureTransport, Message: err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	c.logger.Info(ctx, "adding course", "course_id", courseID, "student_id", c.studentID)
	return c.doAck(req, op, "Success record registration", "Failed to add course")
}

// DropCourse removes a registration. It takes the enrollment's registration
// id, not its course id; the upstream rejects the latter. flag is the
// upstream's deletion mode discriminator and is passed through untouched.
func (c *Client) DropCourse(ctx context.Context, registrationID, dropHash, flag string) (string, error) {
	const op = "drop course"
	if !c.Identified() {
		return "", ErrNotAuthenticated
	}

	rawurl := c.endpoints.dropCourseURL(dropHash, registrationID, c.studentID, flag)
	req, err := c.newRequest(ctx, http.MethodDelete, rawurl, nil)
	if err != nil {
		return "", &PortalError{Op: op, Kind: FailureTransport, Message: err.Error(), Err: err}
	}

	c.logger.Info(ctx, "dropping course", "registration_id", registrationID, "student_id", c.studentID)
	return c.doAck(req, op, "Berhasil menghapus data registration", "Failed to drop course")
}

// doAck performs a transaction request and interprets the portal's
// {status, message} acknowledgement. A body that is not an acknowledgement at
// all counts as a failure with the default message, same as an explicit
// non-Success status.
func (c *Client) doAck(req *http.Request, op, successDefault, failureDefault string) (string, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &PortalError{Op: op, Kind: FailureTransport, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &PortalError{Op: op, Kind: FailureTransport, Message: err.Error(), Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &PortalError{
			Op:      op,
			Kind:    FailureTransport,
			Message: fmt.Sprintf("unexpected status %s: %s", resp.Status, snippet(body)),
		}
	}

	var ack ackResponse
	if err := json.Unmarshal(body, &ack); err != nil {
		return "", &PortalError{Op: op, Kind: FailureUpstream, Message: failureDefault, Err: err}
	}
	if ack.Status != "Success" {
		msg := ack.Message
		if msg == "" {
			msg = failureDefault
		}
		return "", &PortalError{Op: op, Kind: FailureUpstream, Message: msg}
	}
	if ack.Message == "" {
		return successDefault, nil
	}
	return ack.Message, nil
}
