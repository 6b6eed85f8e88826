package tui

// LogDataMsg carries bytes appended to the log.
type LogDataMsg struct {
	Data []byte
}

// FollowErrMsg reports that following the log stopped.
type FollowErrMsg struct {
	Err error
}
