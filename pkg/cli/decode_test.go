package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/getmockd/ewsparse/pkg/ews"
)

func decode(t *testing.T, opts decodeOptions, stdin string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := runDecode(context.Background(), opts, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRunDecode_Success(t *testing.T) {
	t.Parallel()

	out, _, err := decode(t, decodeOptions{
		Operation: "GetItem",
		Inputs:    []string{"testdata/getitem_success.xml"},
	}, "")
	require.NoError(t, err)

	var got struct {
		Source    string     `json:"source"`
		ID        string     `json:"id"`
		Operation string     `json:"operation"`
		Status    ews.Status `json:"status"`
		Items     struct {
			List []map[string]any `json:"list"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	assert.Equal(t, "testdata/getitem_success.xml", got.Source)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "GetItem", got.Operation)
	assert.Equal(t, "NoError", got.Status.Code)
	require.Len(t, got.Items.List, 2)
	assert.Contains(t, got.Items.List[0], "message")
}

func TestRunDecode_ProtocolError(t *testing.T) {
	t.Parallel()

	out, stderr, err := decode(t, decodeOptions{
		Operation: "GetItem",
		Inputs:    []string{"testdata/getitem_error.xml"},
	}, "")
	require.ErrorIs(t, err, ErrDecodeFailed)

	var got decodeResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "ErrorItemNotFound: Item not found", got.Error)
	require.NotNil(t, got.Status)
	assert.Equal(t, "ErrorItemNotFound", got.Status.Code)
	assert.Equal(t, "Item not found", got.Status.Message)
	assert.False(t, got.Resubscribe)
	assert.Nil(t, got.Items)

	assert.Contains(t, stderr, "ews response rejected")
}

func TestRunDecode_SubscriptionExpired(t *testing.T) {
	t.Parallel()

	out, _, err := decode(t, decodeOptions{
		Operation: "GetEvents",
		Inputs:    []string{"testdata/getevents_expired.xml"},
	}, "")
	require.ErrorIs(t, err, ErrDecodeFailed)

	var got decodeResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.Resubscribe)
	assert.Equal(t, "ErrorSubscriptionNotFound", got.Status.Code)
}

func TestRunDecode_GlobAndStdin(t *testing.T) {
	t.Parallel()

	body, err := os.ReadFile("testdata/getitem_success.xml")
	require.NoError(t, err)

	out, _, err := decode(t, decodeOptions{
		Operation: "get_item",
		Inputs:    []string{"testdata/getitem_*.xml", "-", "testdata/getitem_success.xml"},
	}, string(body))
	require.ErrorIs(t, err, ErrDecodeFailed, "getitem_error.xml fails")
	assert.Contains(t, err.Error(), "1 of 3")

	var got []decodeResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 3, "duplicate paths are decoded once")

	sources := make([]string, len(got))
	for i, r := range got {
		sources[i] = filepath.ToSlash(r.Source)
	}
	assert.Contains(t, sources, stdinName)
	assert.Contains(t, sources, "testdata/getitem_error.xml")
	assert.Contains(t, sources, "testdata/getitem_success.xml")
}

func TestRunDecode_UnreadableInputKeepsOtherResults(t *testing.T) {
	t.Parallel()

	body, err := os.ReadFile("testdata/getitem_success.xml")
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.xml"), body, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.xml"), bytes.Repeat([]byte("x"), ews.MaxBodySize+1), 0o600))

	out, _, err := decode(t, decodeOptions{
		Operation: "GetItem",
		Inputs:    []string{filepath.Join(dir, "*.xml")},
	}, "")
	require.ErrorIs(t, err, ErrDecodeFailed)
	assert.Contains(t, err.Error(), "1 of 2")

	var got []decodeResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)

	byName := map[string]decodeResult{}
	for _, r := range got {
		byName[filepath.Base(r.Source)] = r
	}
	assert.Empty(t, byName["a.xml"].Error)
	assert.NotNil(t, byName["a.xml"].Items)
	assert.Contains(t, byName["b.xml"].Error, "maximum response size")
	assert.Equal(t, "GetItem", byName["b.xml"].Operation)
}

func TestRunDecode_WhereAndQuery(t *testing.T) {
	t.Parallel()

	out, _, err := decode(t, decodeOptions{
		Operation: "GetItem",
		Where:     `item.message.is_read.text == "true"`,
		Query:     `$[*].message.subject.text`,
		Inputs:    []string{"testdata/getitem_success.xml"},
	}, "")
	require.NoError(t, err)

	var got struct {
		Items []string `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []string{"Lunch?"}, got.Items)
}

func TestRunDecode_SingleValueQuery(t *testing.T) {
	t.Parallel()

	out, _, err := decode(t, decodeOptions{
		Operation: "GetUserOofSettings",
		Query:     `$.oof_settings.oof_state.text`,
		Inputs:    []string{"testdata/oof.xml"},
	}, "")
	require.NoError(t, err)

	var got struct {
		Items []string `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []string{"Scheduled"}, got.Items)
}

func TestRunDecode_YAML(t *testing.T) {
	t.Parallel()

	out, _, err := decode(t, decodeOptions{
		globalOptions: globalOptions{Format: "yaml"},
		Operation:     "GetItem",
		Inputs:        []string{"testdata/getitem_success.xml"},
	}, "")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, "GetItem", got["operation"])
	items, ok := got["items"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, items["list"], 2)
}

func TestRunDecode_ConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "ewsparse.toml")
	logPath := filepath.Join(dir, "ewsparse.log")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
[logging]
level = "debug"
file = "`+filepath.ToSlash(logPath)+`"

[output]
format = "yaml"
pretty = false
`), 0o600))

	out, _, err := decode(t, decodeOptions{
		globalOptions: globalOptions{ConfigPath: cfgPath},
		Operation:     "GetItem",
		Inputs:        []string{"testdata/getitem_success.xml"},
	}, "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "source:"), "yaml output expected, got %q", out)

	logged, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(logged), `"msg":"ews response decoded"`)
}

func TestRunDecode_UsageErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    decodeOptions
		wantErr error
		wantMsg string
	}{
		{
			name:    "unknown operation",
			opts:    decodeOptions{Operation: "GetMailTips", Inputs: []string{"testdata/oof.xml"}},
			wantErr: ews.ErrUnknownOperation,
		},
		{
			name:    "no matching files",
			opts:    decodeOptions{Operation: "GetItem", Inputs: []string{"testdata/nothing-*.xml"}},
			wantErr: ErrNoInput,
		},
		{
			name:    "bad filter",
			opts:    decodeOptions{Operation: "GetItem", Where: "item ==", Inputs: []string{"testdata/oof.xml"}},
			wantMsg: "compile filter",
		},
		{
			name:    "bad format",
			opts:    decodeOptions{globalOptions: globalOptions{Format: "xml"}, Operation: "GetItem", Inputs: []string{"testdata/oof.xml"}},
			wantMsg: "output.format",
		},
		{
			name:    "missing config",
			opts:    decodeOptions{globalOptions: globalOptions{ConfigPath: "testdata/missing.yaml"}, Operation: "GetItem", Inputs: []string{"testdata/oof.xml"}},
			wantMsg: "failed to load config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, _, err := decode(t, tt.opts, "")
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
			assert.Empty(t, out)
		})
	}
}

func TestRunDecode_NotAnEnvelope(t *testing.T) {
	t.Parallel()

	out, _, err := decode(t, decodeOptions{Operation: "GetItem"}, `<html><body>Service Unavailable</body></html>`)
	require.ErrorIs(t, err, ErrDecodeFailed)

	var got decodeResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, stdinName, got.Source)
	assert.Contains(t, got.Error, "not a SOAP envelope")
	assert.Nil(t, got.Status)
}
