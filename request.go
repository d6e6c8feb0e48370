package astra

// Endpoint is the server path a request streams from.
type Endpoint string

const (
	EndpointChat   Endpoint = "/chat/stream"
	EndpointBlocks Endpoint = "/chat/stream-blocks"
	EndpointStudy  Endpoint = "/study/chat/stream"
)

// Context values accepted for chat requests.
const (
	ContextFocus          = "focus"
	ContextWorkbenchLeft  = "workbench-left"
	ContextWorkbenchRight = "workbench-right"
)

// Request describes one streamed exchange. Transports use their own defaults
// when fields are zero.
type Request struct {
	Endpoint        Endpoint // empty = EndpointChat
	Text            string
	SessionID       string
	AgentID         string
	Context         string // chat endpoints only
	SelectedPanelID string // study endpoint only
}

// Path returns the endpoint path, defaulting to EndpointChat.
func (r Request) Path() string {
	if r.Endpoint == "" {
		return string(EndpointChat)
	}
	return string(r.Endpoint)
}
