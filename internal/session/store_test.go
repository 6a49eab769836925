package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budget/internal/cache"
	"budget/internal/core"
)

func TestStoreGetOrCreate(t *testing.T) {
	s := NewStore(Config{}, nil)

	first, created := s.GetOrCreate("")
	require.True(t, created)
	require.NotEmpty(t, first.ID)

	again, created := s.GetOrCreate(first.ID)
	assert.False(t, created)
	assert.Same(t, first, again)

	other, created := s.GetOrCreate("unknown-id")
	assert.True(t, created)
	assert.NotEqual(t, first.ID, other.ID)
	assert.Equal(t, 2, s.Len())
}

func TestSessionsAreIsolated(t *testing.T) {
	s := NewStore(Config{}, nil)
	a := s.Create()
	b := s.Create()

	_, err := a.Budget.Create(core.Income, "Salary", 1000)
	require.NoError(t, err)

	assert.Len(t, a.Budget.Items(core.Income), 1)
	assert.Empty(t, b.Budget.Items(core.Income))
	assert.NotSame(t, a.List(core.Income), b.List(core.Income))
}

func TestSessionViews(t *testing.T) {
	sess := NewStore(Config{}, nil).Create()
	for _, kind := range []core.Kind{core.Income, core.Expense} {
		require.NotNil(t, sess.List(kind))
		require.NotNil(t, sess.EntryForm(kind))
		assert.Equal(t, kind, sess.List(kind).Kind)
	}
}

func TestCloseEditors(t *testing.T) {
	sess := NewStore(Config{}, nil).Create()
	inc, err := sess.Budget.Create(core.Income, "Salary", 1000)
	require.NoError(t, err)
	exp, err := sess.Budget.Create(core.Expense, "Rent", 400)
	require.NoError(t, err)
	sess.List(core.Income).Activate(inc)
	sess.List(core.Expense).Activate(exp)

	sess.CloseEditors()

	_, open := sess.List(core.Income).Editing()
	assert.False(t, open)
	_, open = sess.List(core.Expense).Editing()
	assert.False(t, open)
}

func TestStoreCapacity(t *testing.T) {
	s := NewStore(Config{MaxSessions: 2}, nil)
	oldest := s.Create()
	s.Create()
	s.Create()

	_, ok := s.Get(oldest.ID)
	assert.False(t, ok)
	assert.Equal(t, 2, s.Len())
}

func TestStoreCleanerWithManager(t *testing.T) {
	s := NewStore(Config{TTL: time.Millisecond}, nil)
	s.Create()
	time.Sleep(5 * time.Millisecond)

	m := cache.NewManager(nil)
	m.Register(s.Cleaner())
	assert.Equal(t, 1, m.CleanNow())
	assert.Zero(t, s.Len())
}

func TestStoreSeed(t *testing.T) {
	s := NewStore(Config{SeedCSV: "H\nSalary,1000,Rent,400"}, nil)
	sess := s.Create()

	assert.Len(t, sess.Budget.Items(core.Income), 1)
	assert.Len(t, sess.Budget.Items(core.Expense), 1)
}

func TestLoadSeedFile(t *testing.T) {
	text, err := LoadSeedFile("")
	require.NoError(t, err)
	assert.Empty(t, text)

	text, err = LoadSeedFile(filepath.Join(t.TempDir(), "missing.csv"))
	require.NoError(t, err)
	assert.Empty(t, text)

	path := filepath.Join(t.TempDir(), "seed.csv")
	require.NoError(t, os.WriteFile(path, []byte("H\na,1,,"), 0o644))
	text, err = LoadSeedFile(path)
	require.NoError(t, err)
	assert.Equal(t, "H\na,1,,", text)
}
