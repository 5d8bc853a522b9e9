package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vacancyhunt/internal/store"
)

func newTestMenu(t *testing.T) *menu {
	t.Helper()
	st, err := store.OpenJSON(filepath.Join(t.TempDir(), "vacancies.json"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return &menu{store: st, pageSize: 20, log: zap.NewNop()}
}

func TestMenuRun_ExitChoice(t *testing.T) {
	m := newTestMenu(t)
	var out bytes.Buffer

	m.run(context.Background(), strings.NewReader("9\n"), &out)
	assert.Contains(t, out.String(), "Goodbye!")
}

func TestMenuRun_EOFAtMenuEndsSession(t *testing.T) {
	m := newTestMenu(t)
	var out bytes.Buffer

	m.run(context.Background(), strings.NewReader(""), &out)
	assert.NotContains(t, out.String(), "Goodbye!")
	assert.NotContains(t, out.String(), "Invalid choice")
}

func TestMenuRun_EOFMidDialogEndsSession(t *testing.T) {
	m := newTestMenu(t)
	var out bytes.Buffer

	// input closes at the count prompt; the dialog must not fall
	// through to the default and report a bad count
	m.run(context.Background(), strings.NewReader("2\n"), &out)
	assert.Contains(t, out.String(), "How many vacancies in the top")
	assert.NotContains(t, out.String(), "The number must be positive!")
	assert.NotContains(t, out.String(), "Goodbye!")
}

func TestMenuRun_EOFBetweenRangePromptsEndsSession(t *testing.T) {
	m := newTestMenu(t)
	var out bytes.Buffer

	m.run(context.Background(), strings.NewReader("6\n100\n"), &out)
	assert.Contains(t, out.String(), "Maximum salary")
	assert.NotContains(t, out.String(), "Invalid salary format!")
	assert.NotContains(t, out.String(), "vacancies in range")
}
