package text

import (
	"context"
	"sync"

	"github.com/toolagent/toolagent/internal/models"
)

// scriptedCompleter replies to the n:th request with the n:th script
type scriptedCompleter struct {
	mu       sync.Mutex
	scripts  [][]models.CompletionEvent
	received []models.Chat
	block    bool
}

func (m *scriptedCompleter) Setup() error { return nil }

func (m *scriptedCompleter) StreamCompletions(ctx context.Context, chat models.Chat) (chan models.CompletionEvent, error) {
	m.mu.Lock()
	cpy := chat
	cpy.Messages = append([]models.Message(nil), chat.Messages...)
	m.received = append(m.received, cpy)
	var script []models.CompletionEvent
	if len(m.scripts) > 0 {
		script = m.scripts[0]
		m.scripts = m.scripts[1:]
	}
	m.mu.Unlock()

	ch := make(chan models.CompletionEvent)
	go func() {
		defer close(ch)
		if m.block {
			<-ctx.Done()
			return
		}
		for _, ev := range script {
			select {
			case ch <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

type recordingInvoker struct {
	calls []models.Call
	reply string
}

func (r *recordingInvoker) Invoke(call models.Call) string {
	r.calls = append(r.calls, call)
	return r.reply
}
