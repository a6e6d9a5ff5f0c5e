package types

import "time"

// LogEntry is a sanitized request/response snapshot queued for the
// async request logger. Everything is copied out of fasthttp buffers
// before it lands here.
type LogEntry struct {
	ID              uint
	Method          string
	URL             string
	RequestBody     string
	ResponseBody    string
	RequestHeaders  string
	ResponseHeaders string
	StatusCode      int
	CreatedAt       time.Time
}
