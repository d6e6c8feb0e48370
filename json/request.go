package json

import (
	"encoding/json"

	astra "github.com/shimonpozd/astra-web-client-sub000"
)

// chatRequest is the request body for the chat endpoints.
type chatRequest struct {
	Text      string `json:"text"`
	SessionID string `json:"session_id,omitempty"`
	AgentID   string `json:"agent_id,omitempty"`
	Context   string `json:"context,omitempty"`
}

// studyRequest is the request body for the study endpoint.
type studyRequest struct {
	SessionID       string `json:"session_id"`
	Text            string `json:"text"`
	AgentID         string `json:"agent_id,omitempty"`
	SelectedPanelID string `json:"selected_panel_id,omitempty"`
}

// MarshalRequest encodes the body the server expects for req's endpoint.
func MarshalRequest(req astra.Request) ([]byte, error) {
	if req.Endpoint == astra.EndpointStudy {
		return json.Marshal(studyRequest{
			SessionID:       req.SessionID,
			Text:            req.Text,
			AgentID:         req.AgentID,
			SelectedPanelID: req.SelectedPanelID,
		})
	}
	return json.Marshal(chatRequest{
		Text:      req.Text,
		SessionID: req.SessionID,
		AgentID:   req.AgentID,
		Context:   req.Context,
	})
}
