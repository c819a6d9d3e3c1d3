package mandate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeGetter struct {
	vals map[string]string
	err  error
}

func (f *fakeGetter) GetParameter(_ context.Context, name string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	v, ok := f.vals[name]
	if !ok {
		return "", fmt.Errorf("param not found: %s", name)
	}
	return v, nil
}

func TestNewParamStore_Validates(t *testing.T) {
	_, err := NewParamStore(nil, "/prefix")
	require.Error(t, err)

	_, err = NewParamStore(&fakeGetter{}, "  ")
	require.Error(t, err)
}

func TestParamStore_LoadMandate(t *testing.T) {
	g := &fakeGetter{vals: map[string]string{
		"/advisor-agent/mandates/evaluator": "Classify the input.",
	}}
	s, err := NewParamStore(g, "/advisor-agent/")
	require.NoError(t, err)

	text, err := s.LoadMandate(context.Background(), "evaluator")
	require.NoError(t, err)
	require.Equal(t, "Classify the input.", text)
}

func TestParamStore_MissingMandate(t *testing.T) {
	s, err := NewParamStore(&fakeGetter{vals: map[string]string{}}, "/advisor-agent")
	require.NoError(t, err)

	_, err = s.LoadMandate(context.Background(), "advisor")
	require.Error(t, err)
	require.Contains(t, err.Error(), "advisor")
}

func TestParamStore_EmptyMandateIsAnError(t *testing.T) {
	g := &fakeGetter{vals: map[string]string{"/p/mandates/advisor": "   "}}
	s, err := NewParamStore(g, "/p")
	require.NoError(t, err)

	_, err = s.LoadMandate(context.Background(), "advisor")
	require.Error(t, err)
	require.Contains(t, err.Error(), "empty")
}

func TestParamStore_EmptyRole(t *testing.T) {
	s, err := NewParamStore(&fakeGetter{}, "/p")
	require.NoError(t, err)

	_, err = s.LoadMandate(context.Background(), " ")
	require.Error(t, err)
}

func TestParamStore_GetterError(t *testing.T) {
	s, err := NewParamStore(&fakeGetter{err: errors.New("ssm unavailable")}, "/p")
	require.NoError(t, err)

	_, err = s.LoadMandate(context.Background(), "advisor")
	require.Error(t, err)
	require.Contains(t, err.Error(), "ssm unavailable")
}

func TestNewFileStore_Validates(t *testing.T) {
	_, err := NewFileStore(" ")
	require.Error(t, err)
}

func TestFileStore_LoadMandate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "profiler_mandate.txt"), []byte("Write a risk profile.\n"), 0o600))

	s, err := NewFileStore(dir)
	require.NoError(t, err)

	text, err := s.LoadMandate(context.Background(), "profiler")
	require.NoError(t, err)
	require.Equal(t, "Write a risk profile.\n", text)
}

func TestFileStore_MissingFile(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.LoadMandate(context.Background(), "profiler")
	require.Error(t, err)
}

func TestFileStore_EmptyFileIsAnError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "advisor_mandate.txt"), []byte("  \n"), 0o600))

	s, err := NewFileStore(dir)
	require.NoError(t, err)

	_, err = s.LoadMandate(context.Background(), "advisor")
	require.Error(t, err)
	require.Contains(t, err.Error(), "empty")
}
