package hermes

import "strings"

const (
	subjectSessionPrefix = "compass.session."

	SubjectSessionWildcard = "compass.session.>"
	SubjectResponseSaved   = "compass.session.*.response"

	StreamName   = "COMPASS_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

func SubjectSessionCreated(sessionID string) string {
	return subjectSessionPrefix + sessionID + ".created"
}
func SubjectSessionResponse(sessionID string) string {
	return subjectSessionPrefix + sessionID + ".response"
}
func SubjectSessionReport(sessionID string) string {
	return subjectSessionPrefix + sessionID + ".report"
}

// SessionIDFromSubject extracts the session id token from a
// compass.session.{id}.{event} subject.
func SessionIDFromSubject(subject string) (string, bool) {
	rest, ok := strings.CutPrefix(subject, subjectSessionPrefix)
	if !ok {
		return "", false
	}
	id, _, ok := strings.Cut(rest, ".")
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
