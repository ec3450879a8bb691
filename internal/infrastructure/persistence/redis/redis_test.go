package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStats(t *testing.T) {
	at := time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)

	st := parseStats(map[string]string{
		fieldAttempts:    "5",
		fieldSuccesses:   "3",
		fieldFailures:    "2",
		fieldLastAttempt: at.Format(time.RFC3339Nano),
		fieldLastError:   "Connection timeout",
	})

	assert.Equal(t, int64(5), st.TotalAttempts)
	assert.Equal(t, int64(3), st.TotalSuccesses)
	assert.Equal(t, int64(2), st.TotalFailures)
	require.NotNil(t, st.LastAttempt)
	assert.True(t, at.Equal(*st.LastAttempt))
	assert.Nil(t, st.LastSuccess)
	require.NotNil(t, st.LastError)
	assert.Equal(t, "Connection timeout", *st.LastError)
}

func TestParseStats_Empty(t *testing.T) {
	st := parseStats(map[string]string{fieldAttempts: "garbage"})
	assert.Zero(t, st.TotalAttempts)
	assert.Nil(t, st.LastError)
}

func TestConfigOptions(t *testing.T) {
	opts, err := Config{URL: "redis://:secret@cache:6380/2", DialTimeout: time.Second}.Options()
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, time.Second, opts.DialTimeout)

	opts, err = Config{Addr: "localhost:6379"}.Options()
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)

	_, err = Config{URL: "://bad"}.Options()
	assert.Error(t, err)
}

func TestStatsKey(t *testing.T) {
	assert.Equal(t, "webhook:grade-ledger:delivery", StatsKey("grade-ledger"))
}
