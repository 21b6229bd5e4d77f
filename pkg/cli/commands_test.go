package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/ewsparse/pkg/ews"
)

func TestRunStatus(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	err := runStatus(globalOptions{}, []string{"testdata/getitem_error.xml", "testdata/fault.xml"},
		strings.NewReader(""), &stdout, &stderr)
	require.NoError(t, err)

	var got []statusResult
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
	require.Len(t, got, 2)

	byName := map[string]statusResult{}
	for _, r := range got {
		byName[r.Source] = r
	}

	item := byName["testdata/getitem_error.xml"]
	assert.Equal(t, "1.1", item.SOAPVersion)
	require.NotNil(t, item.Status)
	assert.Equal(t, ews.ResponseClassError, item.Status.Class)
	assert.Equal(t, "ErrorItemNotFound", item.Status.Code)
	assert.Nil(t, item.Fault)

	fault := byName["testdata/fault.xml"]
	require.NotNil(t, fault.Fault)
	assert.Equal(t, "a:ErrorSchemaValidation", fault.Fault.Code)
	assert.Equal(t, "The request failed schema validation.", fault.Status.Message)
}

func TestRunStatus_Unreadable(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	err := runStatus(globalOptions{}, nil, strings.NewReader("not xml"), &stdout, &stderr)
	require.ErrorIs(t, err, ErrDecodeFailed)

	var got statusResult
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
	assert.NotEmpty(t, got.Error)
}

func TestRunOperations(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, runOperations(ews.DefaultRegistry(), true, &buf))

	var infos []operationInfo
	require.NoError(t, json.Unmarshal(buf.Bytes(), &infos))
	require.Len(t, infos, len(ews.Operations()))

	byName := map[string]operationInfo{}
	for _, info := range infos {
		byName[info.Name] = info
	}
	assert.Equal(t, operationInfo{Name: "GetItem", Gate: "protocol", Shape: "list", Path: "//m:Items/*"}, byName["GetItem"])
	assert.Equal(t, "subscription", byName["GetEvents"].Gate)
	assert.Equal(t, "metadata list", byName["GetEvents"].Shape)
	assert.Equal(t, "permissive", byName["Unsubscribe"].Gate)
	assert.Equal(t, "last", byName["CreateAttachment"].Shape)
	assert.Equal(t, "merge join", byName["ResolveNames"].Shape)
	assert.Equal(t, byName["CreateItem"].Shape, byName["UpdateItem"].Shape)
}

func TestRunOperations_Table(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, runOperations(ews.DefaultRegistry(), false, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, len(ews.Operations())+1)
	assert.True(t, strings.HasPrefix(lines[0], "OPERATION"))
	assert.Contains(t, buf.String(), "Subscription")
}

func TestExpandInputs(t *testing.T) {
	t.Parallel()

	paths, err := expandInputs(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{stdinName}, paths)

	paths, err = expandInputs([]string{"testdata/**/getitem_*.xml"})
	require.NoError(t, err)
	assert.Len(t, paths, 2)

	_, err = expandInputs([]string{"testdata/[.xml"})
	assert.Error(t, err)
}

func TestPrintVersion(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printVersion(&buf)
	assert.True(t, strings.HasPrefix(buf.String(), "ewsparse dev"))
}
