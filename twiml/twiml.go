package twiml

import (
	"encoding/xml"
	"fmt"
)

/* Minimal voice-response document builder
 * The carrier expects a well-formed XML document describing the call
 * treatment (speak text, play audio, hang up). We only model the verbs
 * the gateway actually emits; the full grammar lives with the carrier.
 */

// Header is the XML declaration prepended to every document
const Header = xml.Header

// ContentType is the media type the carrier expects for voice documents
const ContentType = "text/xml"

// Response is the root element of a voice document
type Response struct {
	XMLName xml.Name `xml:"Response"`
	Verbs   []any
}

// Say speaks the given text to the caller
type Say struct {
	XMLName xml.Name `xml:"Say"`
	Voice   string   `xml:"voice,attr,omitempty"`
	Text    string   `xml:",chardata"`
}

// Play plays an audio file at the given URL
type Play struct {
	XMLName xml.Name `xml:"Play"`
	Loop    int      `xml:"loop,attr,omitempty"`
	URL     string   `xml:",chardata"`
}

// Hangup ends the call
type Hangup struct {
	XMLName xml.Name `xml:"Hangup"`
}

// Reject declines the call without answering
type Reject struct {
	XMLName xml.Name `xml:"Reject"`
	Reason  string   `xml:"reason,attr,omitempty"`
}

// New creates a response document with the given verbs
func New(verbs ...any) *Response {
	return &Response{Verbs: verbs}
}

// Render returns the document as an XML string with declaration
func (r *Response) Render() (string, error) {
	body, err := xml.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("marshaling voice document: %w", err)
	}
	return Header + string(body), nil
}

/* Unavailable is the fallback document sent when the business handler
 * missed its deadline. The carrier still receives a valid document, so
 * the caller hears a message instead of a dropped connection.
 */
func Unavailable() string {
	doc, err := New(
		Say{Text: "We are temporarily unable to take your call. Please try again shortly."},
		Hangup{},
	).Render()
	if err != nil {
		// Say/Hangup marshal unconditionally; keep a literal as the last resort
		return Header + "<Response><Hangup/></Response>"
	}
	return doc
}
