package store

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFS(t *testing.T) {
	st, err := New(filepath.Join(t.TempDir(), "traces"))
	require.NoError(t, err)

	p, err := st.Put("b", strings.NewReader("5\nBreakLink 5\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(st.Root, "b", "trace.txt"), p)
	_, err = st.Put("a", strings.NewReader("1\n"))
	require.NoError(t, err)

	ids, err := st.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	f, err := st.Open("b")
	require.NoError(t, err)
	b, err := io.ReadAll(f)
	f.Close()
	require.NoError(t, err)
	assert.Equal(t, "5\nBreakLink 5\n", string(b))

	require.NoError(t, st.Remove("b"))
	_, err = st.Open("b")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(st.Remove("b"), ErrNotFound))
}

func TestFSTraceDirStaysUnderRoot(t *testing.T) {
	st, err := New(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(st.Root, "passwd"), st.TraceDir("../../etc/passwd"))
}
