package session

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestNewSession(t *testing.T) {
	sess := New()
	assert.NotEmpty(t, sess.ID)
	assert.NotEmpty(t, sess.CreatedAt)
	assert.Nil(t, sess.GroupName)
	assert.Zero(t, sess.CopiesPrinted)
	assert.False(t, sess.Complete())
}

func TestComplete(t *testing.T) {
	sess := New()
	sess.GroupName = strPtr("The Daltons")
	sess.Class = intPtr(1)
	sess.Choice = intPtr(6)
	sess.Email = strPtr("daltons@example.com")
	sess.PhotoPath = strPtr("/photos/abc.png")
	require.False(t, sess.Complete(), "story not yet generated")

	sess.GenerateStory()
	assert.True(t, sess.Complete())
}

func TestGenerateStorySubstitutesLand(t *testing.T) {
	sess := New()
	sess.Class = intPtr(0)
	sess.Choice = intPtr(0)
	sess.generateStory(0)

	require.NotNil(t, sess.StoryText)
	require.NotNil(t, sess.Headline)
	assert.NotContains(t, *sess.StoryText, "{land}")
	assert.Contains(t, *sess.StoryText, lands[0], "class 0 + choice 0 selects the first land")
	assert.Equal(t, "High Noon Reckoning", *sess.Headline)
}

func TestGenerateStoryLandRotation(t *testing.T) {
	// The land depends on class+choice modulo the land count, so the
	// same visitor picks reproduce the same backdrop.
	sess := New()
	sess.Class = intPtr(2)
	sess.Choice = intPtr(3)
	sess.generateStory(1)
	require.NotNil(t, sess.StoryText)
	assert.Contains(t, *sess.StoryText, lands[1])
}

func TestGenerateStoryHeadlines(t *testing.T) {
	for choice, want := range headlines {
		sess := New()
		sess.Class = intPtr(0)
		sess.Choice = intPtr(choice)
		sess.generateStory(0)
		require.NotNil(t, sess.Headline, "choice %d", choice)
		assert.Equal(t, want, *sess.Headline, "choice %d", choice)
	}
}

func TestGenerateStoryUnknownChoice(t *testing.T) {
	sess := New()
	sess.Class = intPtr(0)
	sess.Choice = intPtr(99)
	sess.generateStory(1)

	require.NotNil(t, sess.Headline)
	assert.Equal(t, fallbackHeadline, *sess.Headline)
	assert.NotContains(t, *sess.StoryText, "{land}")
}

func TestGenerateStoryWithoutPicks(t *testing.T) {
	sess := New()
	sess.GenerateStory()
	assert.Nil(t, sess.StoryText)
	assert.Nil(t, sess.Headline)
}

func TestCaptionsAllCarryPlaceholder(t *testing.T) {
	for i, pair := range captions {
		for j, c := range pair {
			if !strings.Contains(c, "{land}") {
				t.Errorf("captions[%d][%d] has no {land} placeholder", i, j)
			}
		}
	}
}
