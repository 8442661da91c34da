package services

import (
	"errors"

	"propertyinsights/utils"
)

const (
	// MaxMailtoLength is the longest mailto link handed to a mail client.
	MaxMailtoLength = 2000

	MailSubject         = "Property Redevelopment Report"
	DownloadFilename    = "property_redevelopment_report.txt"
	DownloadContentType = "text/plain; charset=utf-8"
)

var ErrMailtoTooLong = errors.New("mailto link exceeds maximum length")

// MailtoFallbackMessage tells the user how to share a report too long for a mailto link.
const MailtoFallbackMessage = "The report is too long to be sent directly via a mailto link. Please download and attach it manually."

// BuildMailtoLink embeds the summary in a mailto link, refusing links longer
// than MaxMailtoLength.
func BuildMailtoLink(summary string) (string, error) {
	if summary == "" {
		return "", ErrNoReport
	}
	link := "mailto:?subject=" + utils.EncodeURIComponent(MailSubject) + "&body=" + utils.EncodeURIComponent(summary)
	if len(link) > MaxMailtoLength {
		return "", ErrMailtoTooLong
	}
	return link, nil
}

// DownloadContent is the attachment body: the summary verbatim.
func DownloadContent(summary string) ([]byte, error) {
	if summary == "" {
		return nil, ErrNoReport
	}
	return []byte(summary), nil
}
