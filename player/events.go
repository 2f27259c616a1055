package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/abrplay/abrplay/log"
)

// observed lists the properties whose changes are mapped to host events.
var observed = []string{"pause", "eof-reached"}

// EventListener holds a persistent IPC connection and forwards translated mpv events.
type EventListener struct {
	socketPath string
	conn       net.Conn
	callback   func(Event)
	mu         sync.Mutex
	listening  bool
	done       chan struct{}
	logger     *log.Entry
}

// NewEventListener creates a listener for the given socket.
func NewEventListener(socketPath string, callback func(Event)) *EventListener {
	return &EventListener{
		socketPath: socketPath,
		callback:   callback,
		logger:     log.Component("mpv-events"),
	}
}

// Start subscribes to property changes and starts the read loop.
// Observers are registered on the listening connection because mpv scopes them per client.
func (el *EventListener) Start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.listening {
		return nil
	}

	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	for i, name := range observed {
		payload, err := json.Marshal(ipcCommand{
			Command:   []interface{}{"observe_property", i + 1, name},
			RequestID: requestIDs.Add(1),
		})
		if err != nil {
			conn.Close()
			return err
		}
		if _, err := conn.Write(append(payload, '\n')); err != nil {
			conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	el.conn = conn
	el.listening = true
	el.done = make(chan struct{})

	go el.readLoop(conn, el.done)

	el.logger.Infof("listening on %s", el.socketPath)
	return nil
}

// Stop closes the connection and waits for the read loop to exit.
func (el *EventListener) Stop() {
	el.mu.Lock()
	if !el.listening {
		el.mu.Unlock()
		return
	}
	el.listening = false
	conn, done := el.conn, el.done
	el.mu.Unlock()

	_ = conn.Close()
	<-done
}

func (el *EventListener) readLoop(conn net.Conn, done chan struct{}) {
	defer close(done)

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		var msg ipcMessage
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			continue
		}

		if event, ok := translate(msg); ok && el.callback != nil {
			el.callback(event)
		}
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		el.logger.Warnf("read error: %v", err)
	}
}

// translate maps one mpv message to a host event.
func translate(msg ipcMessage) (Event, bool) {
	switch msg.Event {
	case "property-change":
		switch msg.Name {
		case "pause":
			paused, ok := msg.Data.(bool)
			if !ok {
				return "", false
			}
			if paused {
				return EventPause, true
			}
			return EventPlay, true
		case "eof-reached":
			if reached, _ := msg.Data.(bool); reached {
				return EventEnded, true
			}
		}
	case "file-loaded":
		return EventDataLoaded, true
	case "end-file":
		if msg.Reason == "eof" {
			return EventEnded, true
		}
	}
	return "", false
}
