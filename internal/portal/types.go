package portal

import "encoding/json"

// FlexID tolerates upstream identifiers that arrive as JSON strings in some
// responses and as bare numbers in others.
type FlexID string

func (id *FlexID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = FlexID(n.String())
	return nil
}

func (id FlexID) String() string {
	return string(id)
}

// Profile is the identity record behind a logged-in session. NumberID is the
// student id every transaction endpoint keys on; the upstream field is
// literally called "numberid".
type Profile struct {
	NumberID  FlexID `json:"numberid"`
	Fullname  string `json:"fullname"`
	MaxCredit int    `json:"max_credit"`
}

// CourseSummary is one row of the offered-courses catalog. The catalog names
// its id field "courseid" while the enrolled listing uses "course_id"; the two
// row types stay separate because of that.
type CourseSummary struct {
	CourseID       FlexID `json:"courseid"`
	SubjectCode    string `json:"subject_code"`
	SubjectName    string `json:"subject_name"`
	Class          string `json:"class"`
	Credit         int    `json:"credit"`
	Category       string `json:"color"`
	Quota          int    `json:"quota"`
	RemainingQuota int    `json:"remaining_quota"`
}

// EnrolledCourse is one row of the student's current registrations.
// RegistrationID, not CourseID, is what the drop endpoint wants.
type EnrolledCourse struct {
	CourseID       FlexID `json:"course_id"`
	RegistrationID FlexID `json:"registrationid"`
	SubjectCode    string `json:"subject_code"`
	SubjectName    string `json:"subject_name"`
	Class          string `json:"class"`
	Credit         int    `json:"credit"`
	Category       string `json:"color"`
	Quota          int    `json:"quota"`
	RemainingQuota int    `json:"remaining_quota"`
	TakingStatus   string `json:"taking_status"`
}

// CourseMeeting is one scheduled meeting inside a time slot. Hours are the
// portal's preformatted strings ("07:30"), kept as-is.
type CourseMeeting struct {
	CourseName string `json:"course_name"`
	StartHour  string `json:"start_hour"`
	EndHour    string `json:"end_hour"`
	Credit     int    `json:"credit"`
}

// ScheduleSlot is one row of the weekly timetable: a shift label plus the
// meetings per weekday. Day keys are lowercase english names ("monday").
type ScheduleSlot struct {
	ShiftTime string                     `json:"shift_time"`
	Days      map[string][]CourseMeeting `json:"shift_data"`
}
