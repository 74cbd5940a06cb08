package repository_test

import (
	"database/sql"
	"testing"
	"time"

	"chweb/internal/repository"

	"github.com/stretchr/testify/require"
)

func TestFormatParseTime(t *testing.T) {
	value := time.Date(2024, 3, 1, 10, 0, 0, 123456789, time.UTC)
	formatted := repository.FormatTime(value)
	require.Equal(t, "2024-03-01T10:00:00.123456789Z", formatted)

	parsed, err := repository.ParseTime(formatted)
	require.NoError(t, err)
	require.True(t, value.Equal(parsed))

	_, err = repository.ParseTime("not-a-time")
	require.Error(t, err)
}

func TestParseNullTime(t *testing.T) {
	require.Nil(t, repository.ParseNullTime(sql.NullString{}))
	require.Nil(t, repository.ParseNullTime(sql.NullString{Valid: true, String: ""}))
	require.Nil(t, repository.ParseNullTime(sql.NullString{Valid: true, String: "garbage"}))

	got := repository.ParseNullTime(sql.NullString{Valid: true, String: "2024-03-01T10:00:00Z"})
	require.NotNil(t, got)
	require.Equal(t, 2024, got.Year())
}
