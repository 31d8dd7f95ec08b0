package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestService_NewReleases_Window(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	repo := new(mockRepo)
	repo.On("NewReleases", mock.Anything, now.Add(-newReleaseWindow), 6).Return([]Entry{}, nil)

	svc := NewService(repo)
	svc.now = func() time.Time { return now }

	_, err := svc.NewReleases(context.Background(), 6)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestIsISBN13(t *testing.T) {
	assert.True(t, isISBN13("9780000000111"))
	assert.False(t, isISBN13("978000000011"), "twelve digits")
	assert.False(t, isISBN13("97800000001112"), "fourteen digits")
	assert.False(t, isISBN13("978000000011X"), "non-digit")
	assert.False(t, isISBN13("vol-abc"))
}
