package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "reachscan.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Duration
		wantErr bool
	}{
		{name: "string", input: `"1500ms"`, want: Duration(1500 * time.Millisecond)},
		{name: "nanoseconds", input: `2000000000`, want: Duration(2 * time.Second)},
		{name: "bad string", input: `"soon"`, wantErr: true},
		{name: "bool", input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var d Duration

			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				require.ErrorIs(t, err, errInvalidDuration)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, d)
		})
	}
}

func TestDuration_MarshalJSON(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(Duration(250 * time.Millisecond))
	require.NoError(t, err)
	assert.JSONEq(t, `"250ms"`, string(b))
}

func TestSeconds(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Duration(1500*time.Millisecond), Seconds(1.5))
	assert.Equal(t, Duration(time.Second), Seconds(1))
}

func TestLoadScanConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadScanConfig("")
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultConcurrency, cfg.Concurrency)
	assert.Equal(t, DefaultResolveTimeout, cfg.ResolveTimeout)
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.True(t, cfg.Resolve())
}

func TestLoadScanConfig_File(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `{
		"start_ip": "192.168.1.1",
		"end_ip": "192.168.1.20",
		"port": 22,
		"timeout": "750ms",
		"concurrency": 8,
		"resolve_hostnames": false,
		"nameserver": "192.168.1.1",
		"db_path": "/tmp/history.db"
	}`)

	cfg, err := LoadScanConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 22, cfg.Port)
	assert.Equal(t, Duration(750*time.Millisecond), cfg.Timeout)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.False(t, cfg.Resolve())
	assert.Equal(t, "192.168.1.1", cfg.Nameserver)
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)

	req := cfg.ToRequest()
	assert.Equal(t, "192.168.1.1", req.StartIP)
	assert.Equal(t, "192.168.1.20", req.EndIP)
	assert.Equal(t, 22, req.Port)
	assert.Equal(t, 750*time.Millisecond, req.Timeout)
	assert.Equal(t, 8, req.Concurrency)
	assert.False(t, req.ResolveHostnames)
	assert.Equal(t, 2*time.Second, req.ResolveTimeout)
}

func TestLoadScanConfig_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{name: "port too large", body: `{"port": 70000}`, wantErr: errInvalidPort},
		{name: "negative port", body: `{"port": -1}`, wantErr: errInvalidPort},
		{name: "negative timeout", body: `{"timeout": "-1s"}`, wantErr: errInvalidTimeout},
		{name: "negative concurrency", body: `{"concurrency": -4}`, wantErr: errInvalidConcurrency},
		{name: "bad duration", body: `{"timeout": "fast"}`, wantErr: errInvalidDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := LoadScanConfig(writeConfig(t, tt.body))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	t.Parallel()

	var cfg ScanConfig

	err := LoadFile(filepath.Join(t.TempDir(), "nope.json"), &cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidateConfig_NonValidator(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateConfig(struct{}{}))
}
