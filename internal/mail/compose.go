package mail

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/google/uuid"
)

// Email is a message to be sent. Cc and AttachmentPath are optional.
type Email struct {
	To             []string
	Cc             []string
	Subject        string
	Body           string
	IsHTML         bool
	AttachmentPath string
}

// Recipients is every address the message is delivered to.
func (e Email) Recipients() []string {
	ret := make([]string, 0, len(e.To)+len(e.Cc))
	ret = append(ret, e.To...)
	return append(ret, e.Cc...)
}

func addressList(addrs []string) []*mail.Address {
	ret := make([]*mail.Address, 0, len(addrs))
	for _, a := range addrs {
		ret = append(ret, &mail.Address{Address: a})
	}
	return ret
}

func messageID(from string) string {
	domain := "localhost"
	if at := strings.LastIndex(from, "@"); at >= 0 && at < len(from)-1 {
		domain = from[at+1:]
	}
	return fmt.Sprintf("%v@%v", uuid.NewString(), domain)
}

// Compose renders e as a MIME message from the given sender. An attachment
// is only included if the file exists.
func Compose(from string, e Email, date time.Time) ([]byte, error) {
	if len(e.To) == 0 {
		return nil, errors.New("no recipients")
	}
	var h mail.Header
	h.SetDate(date)
	h.SetAddressList("From", []*mail.Address{{Address: from}})
	h.SetAddressList("To", addressList(e.To))
	if len(e.Cc) > 0 {
		h.SetAddressList("Cc", addressList(e.Cc))
	}
	h.SetSubject(e.Subject)
	h.SetMessageID(messageID(from))

	bodyType := "text/plain"
	if e.IsHTML {
		bodyType = "text/html"
	}

	var attachment []byte
	if e.AttachmentPath != "" {
		b, err := os.ReadFile(e.AttachmentPath)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read attachment: %w", err)
		}
		attachment = b
	}

	var buf bytes.Buffer
	if attachment == nil {
		h.SetContentType(bodyType, map[string]string{"charset": "utf-8"})
		w, err := mail.CreateSingleInlineWriter(&buf, h)
		if err != nil {
			return nil, fmt.Errorf("failed to create message writer: %w", err)
		}
		if _, err := io.WriteString(w, e.Body); err != nil {
			return nil, fmt.Errorf("failed to write body: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("failed to close message: %w", err)
		}
		return buf.Bytes(), nil
	}

	mw, err := mail.CreateWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("failed to create message writer: %w", err)
	}
	var th mail.InlineHeader
	th.SetContentType(bodyType, map[string]string{"charset": "utf-8"})
	bw, err := mw.CreateSingleInline(th)
	if err != nil {
		return nil, fmt.Errorf("failed to create body part: %w", err)
	}
	if _, err := io.WriteString(bw, e.Body); err != nil {
		return nil, fmt.Errorf("failed to write body: %w", err)
	}
	if err := bw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close body part: %w", err)
	}

	var ah mail.AttachmentHeader
	ah.SetContentType("application/octet-stream", nil)
	ah.SetFilename(filepath.Base(e.AttachmentPath))
	aw, err := mw.CreateAttachment(ah)
	if err != nil {
		return nil, fmt.Errorf("failed to create attachment part: %w", err)
	}
	if _, err := aw.Write(attachment); err != nil {
		return nil, fmt.Errorf("failed to write attachment: %w", err)
	}
	if err := aw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close attachment: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close message: %w", err)
	}
	return buf.Bytes(), nil
}
