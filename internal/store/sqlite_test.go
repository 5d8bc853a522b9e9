package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vacancyhunt/internal/domain"
)

func openTempSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "vacancies.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLite_AddDedupByURL(t *testing.T) {
	s := openTempSQLite(t)

	added, err := s.Add(mustVacancy(t, "Go Developer", "https://hh.example/vacancy/1", "100000 RUR", "Acme"))
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.Add(mustVacancy(t, "Other", "https://hh.example/vacancy/1", "", "Globex"))
	require.NoError(t, err)
	assert.False(t, added)

	all, err := s.All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Go Developer", all[0].Title)
}

func TestSQLite_DeleteAndDeleteAll(t *testing.T) {
	s := openTempSQLite(t)
	for _, u := range []string{"https://hh.example/vacancy/1", "https://hh.example/vacancy/2"} {
		_, err := s.Add(mustVacancy(t, "T", u, "", ""))
		require.NoError(t, err)
	}

	found, err := s.Delete(domain.DeletionKey("https://hh.example/vacancy/1"))
	require.NoError(t, err)
	assert.True(t, found)

	found, err = s.Delete(domain.DeletionKey("https://hh.example/vacancy/1"))
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.DeleteAll())
	all, err := s.All()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSQLite_AddSurfacesBackendErrors(t *testing.T) {
	s := openTempSQLite(t)
	require.NoError(t, s.Close())

	added, err := s.Add(mustVacancy(t, "T", "https://hh.example/vacancy/9", "", ""))
	assert.Error(t, err)
	assert.False(t, added)

	_, err = s.lastChanges()
	assert.ErrorContains(t, err, "check insert outcome")
}

func TestSQLite_PreservesInsertionOrderAndFields(t *testing.T) {
	s := openTempSQLite(t)
	want := []domain.Vacancy{
		mustVacancy(t, "Первый", "https://hh.example/vacancy/1", "100 000-150 000 руб.", "Рога и Копыта"),
		mustVacancy(t, "Second", "https://hh.example/vacancy/2", "", "Acme"),
	}
	for _, v := range want {
		_, err := s.Add(v)
		require.NoError(t, err)
	}

	got, err := s.All()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSQLite_Queries(t *testing.T) {
	s := openTempSQLite(t)
	_, err := s.Add(mustVacancy(t, "Go Developer", "https://hh.example/vacancy/1", "150000 RUR", "Acme"))
	require.NoError(t, err)
	_, err = s.Add(mustVacancy(t, "Designer", "https://hh.example/vacancy/2", "90000 RUR", "Globex"))
	require.NoError(t, err)

	byKeyword, err := s.FilterByKeyword("go")
	require.NoError(t, err)
	require.Len(t, byKeyword, 1)
	assert.Equal(t, "Go Developer", byKeyword[0].Title)

	byEmployer, err := s.FilterByEmployer("globex")
	require.NoError(t, err)
	require.Len(t, byEmployer, 1)

	inRange, err := s.FilterBySalaryRange(100000, 200000)
	require.NoError(t, err)
	require.Len(t, inRange, 1)
	assert.Equal(t, "Go Developer", inRange[0].Title)

	top, err := s.TopBySalary(1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "Go Developer", top[0].Title)
}
