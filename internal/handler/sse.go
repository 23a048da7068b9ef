package handler

import (
	"bufio"
	"encoding/json"
	"fmt"
)

const keepAliveComment = ": keep-alive\n\n"

// writeEvent writes one server-sent event and flushes it. A flush error means
// the client has gone away.
func writeEvent(w *bufio.Writer, event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	return w.Flush()
}

func writeKeepAlive(w *bufio.Writer) error {
	if _, err := w.WriteString(keepAliveComment); err != nil {
		return err
	}
	return w.Flush()
}
