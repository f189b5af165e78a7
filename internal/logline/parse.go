// Package logline parses the enhanced access log format emitted by the
// upstream nginx config.
//
// DESIGN: One line is a sequence of key:value tokens separated by '|':
//
//	time:02/Jan/2026:15:04:05 +0000|remote_addr:10.0.0.1|method:GET|uri:/|status:200|pool:blue|release:v42
//
// Values carry arbitrary characters except '|'; there is no escaping, a
// value containing the delimiter is truncated at its first occurrence.
// Unknown keys are ignored. Missing keys fall back to zero values, except
// pool and release which fall back to the "unknown" sentinel.
package logline

import (
	"errors"
	"strconv"
	"strings"
)

// PoolUnknown is the sentinel pool identifier for requests that cannot be
// attributed to a backend group.
const PoolUnknown = "unknown"

// ErrUnparsable is returned when a line contains no recognizable
// key:value token at all.
var ErrUnparsable = errors.New("logline: no key:value tokens found")

// Record is one parsed access log entry. It is a value type and is never
// mutated after Parse returns it.
type Record struct {
	Time                 string  // opaque timestamp passthrough
	RemoteAddr           string
	Method               string
	URI                  string
	Status               int     // 0 when absent or unparsable
	RequestTime          float64 // seconds, 0.0 when absent or unparsable
	UpstreamAddr         string
	UpstreamStatus       string
	UpstreamResponseTime string
	Pool                 string // PoolUnknown when absent
	Release              string // "unknown" when absent
}

// IsServerError reports whether the record carries a 5xx status.
func (r Record) IsServerError() bool {
	return r.Status >= 500 && r.Status < 600
}

// Parse turns one raw log line into a Record.
//
// Malformed numeric fields coerce to 0 / 0.0 rather than failing the whole
// line; this intentionally mirrors the upstream log producer's contract
// (a truly zero value and an unparsable one are indistinguishable).
// Parse fails only when the line yields no well-formed token whatsoever.
func Parse(line string) (Record, error) {
	rec := Record{
		Pool:    PoolUnknown,
		Release: PoolUnknown,
	}

	matched := 0
	for _, token := range strings.Split(line, "|") {
		key, value, ok := strings.Cut(token, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" || value == "" {
			continue
		}
		matched++

		switch key {
		case "time":
			rec.Time = value
		case "remote_addr":
			rec.RemoteAddr = value
		case "method":
			rec.Method = value
		case "uri":
			rec.URI = value
		case "status":
			if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
				rec.Status = n
			}
		case "request_time":
			if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
				rec.RequestTime = f
			}
		case "upstream_addr":
			rec.UpstreamAddr = value
		case "upstream_status":
			rec.UpstreamStatus = value
		case "upstream_response_time":
			rec.UpstreamResponseTime = value
		case "pool":
			rec.Pool = strings.TrimSpace(value)
		case "release":
			rec.Release = strings.TrimSpace(value)
		default:
			// unknown key, skip
		}
	}

	if matched == 0 {
		return Record{}, ErrUnparsable
	}

	if rec.Pool == "" {
		rec.Pool = PoolUnknown
	}
	if rec.Release == "" {
		rec.Release = PoolUnknown
	}

	return rec, nil
}
