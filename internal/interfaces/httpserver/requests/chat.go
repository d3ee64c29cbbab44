package requests

// ChatRequest is the payload for posting one chat turn.
type ChatRequest struct {
	ConversationID string   `json:"conversation_id"`
	Message        string   `json:"message" binding:"required"`
	FileIDs        []string `json:"file_ids"`
}
