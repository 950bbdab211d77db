package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestProgressExpired(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	p := Progress{ExpiresAt: now.Add(time.Second)}
	assert.False(t, p.Expired(now))

	p.ExpiresAt = now.Add(-time.Second)
	assert.True(t, p.Expired(now))

	// Legacy rows without an expiry never expire.
	p.ExpiresAt = time.Time{}
	assert.False(t, p.Expired(now))
}

func TestProgressQuizAnswersRoundTrip(t *testing.T) {
	p := Progress{QuizAnswers: datatypes.NewJSONType(map[string]string{"0": "b", "3": "a"})}

	value, err := p.QuizAnswers.Value()
	require.NoError(t, err)

	var scanned datatypes.JSONType[map[string]string]
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, map[string]string{"0": "b", "3": "a"}, scanned.Data())
}
