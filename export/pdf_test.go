package export

import (
	"bytes"
	"testing"

	"adventure_shop/story"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscriptPDF(t *testing.T) {
	var buf bytes.Buffer
	turns := []story.Turn{
		{Text: "Welcome to the Haunted Village adventure!", IsBot: true},
		{Text: "look around"},
		{Text: "A café sign swings in the wind.\n\nHP: 10 | DEF: 10 | ATK: 10", IsBot: true},
	}

	err := TranscriptPDF(&buf, "Haunted Village", story.Stats{HP: 10, DEF: 10, ATK: 10}, turns)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 500)
}

func TestTranscriptPDFEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TranscriptPDF(&buf, "Empty", story.Stats{}, nil))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
