package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"slices"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
)

const (
	MinRecent = 1
	MaxRecent = 30
)

// imapClient is the subset of *client.Client used by Reader.
type imapClient interface {
	Login(username, password string) error
	Select(name string, readOnly bool) (*imap.MailboxStatus, error)
	Fetch(seqset *imap.SeqSet, items []imap.FetchItem, ch chan *imap.Message) error
	Logout() error
}

// Reader summarizes the most recent messages in the inbox.
type Reader struct {
	service string
	account Account
	dial    func(addr string) (imapClient, error)
}

// NewReader for the account of service.
func NewReader(service string, acc Account) *Reader {
	return &Reader{
		service: service,
		account: acc,
		dial: func(addr string) (imapClient, error) {
			c, err := client.DialTLS(addr, &tls.Config{ServerName: acc.IMAPHost})
			if err != nil {
				return nil, err
			}
			return c, nil
		},
	}
}

// Service which is read.
func (r *Reader) Service() string {
	return r.service
}

// ClampRecent keeps n within MinRecent and MaxRecent.
func ClampRecent(n int) int {
	return min(max(n, MinRecent), MaxRecent)
}

// Recent summarizes the last n messages of the inbox, newest first. n is clamped to 1..30.
// A message which fails to parse becomes a summary carrying the error.
func (r *Reader) Recent(ctx context.Context, n int) ([]Summary, error) {
	n = ClampRecent(n)
	addr := fmt.Sprintf("%v:993", r.account.IMAPHost)
	c, err := r.dial(addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to '%v': %w", addr, err)
	}
	defer c.Logout()

	if err := c.Login(r.account.Username, r.account.Password); err != nil {
		return nil, fmt.Errorf("failed to login: %w", err)
	}
	mbox, err := c.Select("INBOX", true)
	if err != nil {
		return nil, fmt.Errorf("failed to select inbox: %w", err)
	}
	if mbox.Messages == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	from := uint32(1)
	if mbox.Messages > uint32(n) {
		from = mbox.Messages - uint32(n) + 1
	}
	seqset := new(imap.SeqSet)
	seqset.AddRange(from, mbox.Messages)
	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{section.FetchItem()}

	messages := make(chan *imap.Message, n)
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqset, items, messages)
	}()

	fetched := make([]*imap.Message, 0, n)
	for msg := range messages {
		fetched = append(fetched, msg)
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}
	slices.SortFunc(fetched, func(a, b *imap.Message) int {
		switch {
		case a.SeqNum > b.SeqNum:
			return -1
		case a.SeqNum < b.SeqNum:
			return 1
		}
		return 0
	})

	ret := make([]Summary, 0, len(fetched))
	for _, msg := range fetched {
		ret = append(ret, summarizeFetched(msg))
	}
	return ret, nil
}

func summarizeFetched(msg *imap.Message) Summary {
	// Only the full body is requested, so any literal is it
	for _, body := range msg.Body {
		if body != nil {
			return Summarize(body)
		}
	}
	return Summary{Err: fmt.Errorf("server returned no body for message %v", msg.SeqNum)}
}
