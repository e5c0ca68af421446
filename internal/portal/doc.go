// Package portal implements the client for the university course-registration
// portal: the authenticate/resolve-identity handshake and the course
// operations (list available, list enrolled, weekly schedule, add, drop).
//
// One Client serves one student account and is not safe for concurrent use;
// deployments driving several accounts create one Client per account, so no
// token state is ever shared.
//
// The portal is fail-fast territory: every operation performs exactly one
// transport attempt under one fixed timeout. There is no retry and no token
// refresh; an expired token surfaces as an ordinary failed call and the
// caller re-runs Authenticate.
package portal
