package goroutine

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recordingLogger struct {
	mu   sync.Mutex
	msgs []string
	done chan struct{}
}

func (l *recordingLogger) Errorf(format string, args ...interface{}) {
	l.mu.Lock()
	l.msgs = append(l.msgs, fmt.Sprintf(format, args...))
	l.mu.Unlock()
	close(l.done)
}

func TestSafeGo_RecoversPanic(t *testing.T) {
	log := &recordingLogger{done: make(chan struct{})}
	handler := NewRecoveryHandler(log)

	handler.SafeGo(func() { panic("boom") })

	select {
	case <-log.done:
	case <-time.After(time.Second):
		t.Fatal("panic не был залогирован")
	}
	log.mu.Lock()
	defer log.mu.Unlock()
	assert.Contains(t, log.msgs[0], "boom")
}

func TestSafeGo_RunsFunction(t *testing.T) {
	done := make(chan struct{})
	SafeGo(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("функция не была вызвана")
	}
}
