package portal

import "fmt"

// Endpoints carries the two portal base URLs and the opaque path hashes the
// upstream uses to address its read and transaction resources. The hashes are
// server-side routing tokens, not secrets; they change when the portal is
// redeployed, which is why they live in configuration rather than in code.
type Endpoints struct {
	AuthBase    string
	ServiceBase string

	AvailableHash string
	EnrolledHash  string
	ScheduleHash  string
	StatusHash    string
}

func (e Endpoints) loginURL() string {
	return e.AuthBase + "/api/oauth/issueauth"
}

func (e Endpoints) scopesURL() string {
	return e.AuthBase + "/api/oauth/issuescope"
}

func (e Endpoints) profileURL() string {
	return e.ServiceBase + "/read/api/read/issueprofile"
}

func (e Endpoints) studentStatusURL() string {
	return e.ServiceBase + "/filter/api/read/" + e.StatusHash
}

func (e Endpoints) academicYearURL() string {
	return e.ServiceBase + "/course-schedule/academic/current-school-year"
}

func (e Endpoints) registrationScheduleURL() string {
	return e.ServiceBase + "/course-schedule/course/registration-schedule"
}

func (e Endpoints) availableURL(programID, termLevel int) string {
	return fmt.Sprintf("%s/read/api/read/%s/%d/%d", e.ServiceBase, e.AvailableHash, programID, termLevel)
}

// Trailing slashes on the enrolled and schedule URLs are load-bearing: the
// upstream router 404s without them.
func (e Endpoints) enrolledURL() string {
	return e.ServiceBase + "/read/api/read/" + e.EnrolledHash + "/"
}

func (e Endpoints) scheduleURL() string {
	return e.ServiceBase + "/read/api/read/" + e.ScheduleHash + "/"
}

func (e Endpoints) addCourseURL(enrollmentHash string) string {
	return e.ServiceBase + "/trans/api/transaction/" + enrollmentHash
}

func (e Endpoints) dropCourseURL(dropHash, registrationID, studentID, flag string) string {
	return fmt.Sprintf("%s/trans/api/transaction/%s/%s/%s/%s", e.ServiceBase, dropHash, registrationID, studentID, flag)
}
