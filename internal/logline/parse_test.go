package logline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opspulse/pool-watcher/internal/logline"
)

func TestParse_FullLine(t *testing.T) {
	line := "time:02/Jan/2026:15:04:05 +0000|remote_addr:10.0.0.1|method:GET|uri:/api/v1/items|status:200|request_time:0.034|upstream_addr:10.0.1.5:8080|upstream_status:200|upstream_response_time:0.031|pool:blue|release:v42"

	rec, err := logline.Parse(line)
	require.NoError(t, err)

	assert.Equal(t, "02/Jan/2026:15:04:05 +0000", rec.Time)
	assert.Equal(t, "10.0.0.1", rec.RemoteAddr)
	assert.Equal(t, "GET", rec.Method)
	assert.Equal(t, "/api/v1/items", rec.URI)
	assert.Equal(t, 200, rec.Status)
	assert.InDelta(t, 0.034, rec.RequestTime, 1e-9)
	assert.Equal(t, "10.0.1.5:8080", rec.UpstreamAddr)
	assert.Equal(t, "200", rec.UpstreamStatus)
	assert.Equal(t, "0.031", rec.UpstreamResponseTime)
	assert.Equal(t, "blue", rec.Pool)
	assert.Equal(t, "v42", rec.Release)
}

func TestParse_MissingKeysGetDefaults(t *testing.T) {
	rec, err := logline.Parse("method:GET|uri:/health")
	require.NoError(t, err)

	assert.Equal(t, "", rec.Time)
	assert.Equal(t, "", rec.RemoteAddr)
	assert.Equal(t, 0, rec.Status)
	assert.Equal(t, 0.0, rec.RequestTime)
	assert.Equal(t, logline.PoolUnknown, rec.Pool)
	assert.Equal(t, "unknown", rec.Release)
}

func TestParse_MalformedNumericsCoerceToZero(t *testing.T) {
	rec, err := logline.Parse("status:abc|request_time:x.y|pool:green")
	require.NoError(t, err)

	// Parsing of the rest of the line must survive the bad numbers.
	assert.Equal(t, 0, rec.Status)
	assert.Equal(t, 0.0, rec.RequestTime)
	assert.Equal(t, "green", rec.Pool)
}

func TestParse_UnknownKeysIgnored(t *testing.T) {
	rec, err := logline.Parse("status:200|shard:7|pool:blue")
	require.NoError(t, err)

	assert.Equal(t, 200, rec.Status)
	assert.Equal(t, "blue", rec.Pool)
}

func TestParse_UnmatchedLine(t *testing.T) {
	for _, line := range []string{
		"",
		"completely unmatched line with no delimiters",
		"|||",
	} {
		_, err := logline.Parse(line)
		assert.ErrorIs(t, err, logline.ErrUnparsable, "line %q", line)
	}
}

func TestParse_DelimiterTruncatesValue(t *testing.T) {
	// No escaping: a '|' inside the value ends it.
	rec, err := logline.Parse("uri:/search?q=a|b|status:200")
	require.NoError(t, err)

	assert.Equal(t, "/search?q=a", rec.URI)
	assert.Equal(t, 200, rec.Status)
}

func TestRecord_IsServerError(t *testing.T) {
	assert.False(t, logline.Record{Status: 200}.IsServerError())
	assert.False(t, logline.Record{Status: 404}.IsServerError())
	assert.False(t, logline.Record{Status: 0}.IsServerError())
	assert.True(t, logline.Record{Status: 500}.IsServerError())
	assert.True(t, logline.Record{Status: 503}.IsServerError())
	assert.True(t, logline.Record{Status: 599}.IsServerError())
	assert.False(t, logline.Record{Status: 600}.IsServerError())
}
