package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mailtoPrefix = "mailto:?subject=Property%20Redevelopment%20Report&body="

func TestBuildMailtoLink(t *testing.T) {
	link, err := BuildMailtoLink("Flood risk: Very Low & yields (gross) 3.6%!")
	require.NoError(t, err)
	assert.Equal(t, mailtoPrefix+"Flood%20risk%3A%20Very%20Low%20%26%20yields%20(gross)%203.6%25!", link)
}

func TestBuildMailtoLinkLengthGuard(t *testing.T) {
	room := MaxMailtoLength - len(mailtoPrefix)

	link, err := BuildMailtoLink(strings.Repeat("a", room))
	require.NoError(t, err)
	assert.Len(t, link, MaxMailtoLength)

	_, err = BuildMailtoLink(strings.Repeat("a", room+1))
	assert.ErrorIs(t, err, ErrMailtoTooLong)

	// Escaping counts towards the limit.
	_, err = BuildMailtoLink(strings.Repeat(" ", room/3+1))
	assert.ErrorIs(t, err, ErrMailtoTooLong)
}

func TestBuildMailtoLinkRequiresSummary(t *testing.T) {
	_, err := BuildMailtoLink("")
	assert.ErrorIs(t, err, ErrNoReport)
}

func TestDownloadContent(t *testing.T) {
	body, err := DownloadContent("line one\nline two")
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two", string(body))

	_, err = DownloadContent("")
	assert.ErrorIs(t, err, ErrNoReport)
}
