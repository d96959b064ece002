// Package hmr implements the live-update websocket server. Each connected
// client gets a three-message envelope per change batch: update-start, then
// update or error, then update-done. Clients rely on the start/done pair as
// a transaction boundary even when the middle message reports a failure.
package hmr

// message is the wire envelope; Type discriminates.
type message struct {
	Type string `json:"type"`
	Body any    `json:"body,omitempty"`
}

// updateBody is the payload of a successful update message.
type updateBody struct {
	Modules           []modulePayload   `json:"modules"`
	SourceURLs        map[string]string `json:"sourceURLs"`
	SourceMappingURLs map[string]string `json:"sourceMappingURLs"`
}

// modulePayload is one wrapped module in an update.
type modulePayload struct {
	ID   string `json:"id"`
	Code string `json:"code"`
}

// errorBody is the payload of an error message.
type errorBody struct {
	Type    string             `json:"type"`
	Message string             `json:"message"`
	Errors  []errorDescription `json:"errors"`
}

// errorDescription is one normalized failure inside an error payload.
type errorDescription struct {
	Description string `json:"description"`
	Filename    string `json:"filename,omitempty"`
	LineNumber  int    `json:"lineNumber,omitempty"`
}

func newUpdateStart() message { return message{Type: "update-start"} }
func newUpdateDone() message  { return message{Type: "update-done"} }

func newUpdate(body updateBody) message {
	return message{Type: "update", Body: body}
}

func newError(body errorBody) message {
	return message{Type: "error", Body: body}
}
