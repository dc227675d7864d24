package mail

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/emersion/go-message"
	"github.com/emersion/go-message/mail"
	"github.com/toolagent/toolagent/internal/utils"
	"golang.org/x/net/html/charset"
)

// SummaryRuneLimit is the amount of content runes kept per message.
const SummaryRuneLimit = 200

const (
	noSubject     = "(no subject)"
	unknownSender = "unknown sender"
)

func init() {
	// Chinese providers commonly send gbk and gb18030
	message.CharsetReader = charset.NewReaderLabel
}

// Summary of one message in the inbox. Err is set if the message could not be parsed.
type Summary struct {
	From    string
	Subject string
	Content string
	Err     error
}

// Summarize parses a raw RFC 5322 message.
func Summarize(r io.Reader) Summary {
	mr, err := mail.CreateReader(r)
	if err != nil && !message.IsUnknownCharset(err) {
		return Summary{Err: fmt.Errorf("failed to parse message: %w", err)}
	}
	defer mr.Close()

	s := Summary{
		Subject: decodeSubject(mr.Header),
		From:    decodeSender(mr.Header),
	}
	content, err := firstTextPart(mr)
	if err != nil {
		s.Content = fmt.Sprintf("[failed to extract content: %v]", err)
		return s
	}
	s.Content = utils.Truncate(utils.CollapseWhitespace(content), SummaryRuneLimit)
	return s
}

func decodeSubject(h mail.Header) string {
	subject, err := h.Subject()
	if err != nil {
		// Keep whatever is readable
		subject = h.Get("Subject")
		if dec, decErr := new(mime.WordDecoder).DecodeHeader(subject); decErr == nil {
			subject = dec
		}
	}
	if strings.TrimSpace(subject) == "" {
		return noSubject
	}
	return subject
}

func decodeSender(h mail.Header) string {
	addrs, err := h.AddressList("From")
	if err == nil && len(addrs) > 0 {
		return addrs[0].String()
	}
	raw := strings.TrimSpace(h.Get("From"))
	if raw == "" {
		return unknownSender
	}
	return raw
}

// firstTextPart returns the first text/plain part, else the first text/html part as text.
func firstTextPart(mr *mail.Reader) (string, error) {
	var html string
	foundHTML := false
	for {
		p, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil && !message.IsUnknownCharset(err) {
			return "", err
		}
		h, ok := p.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		ct, _, _ := h.ContentType()
		switch ct {
		case "text/plain", "":
			b, err := io.ReadAll(p.Body)
			if err != nil {
				return "", fmt.Errorf("failed to read text part: %w", err)
			}
			return string(b), nil
		case "text/html":
			if foundHTML {
				continue
			}
			text, err := utils.HTMLToText(p.Body)
			if err != nil {
				return "", fmt.Errorf("failed to convert html part: %w", err)
			}
			html, foundHTML = text, true
		}
	}
	return html, nil
}
