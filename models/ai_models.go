package models

const (
	ChatRoleUser = "user"
	ChatRoleBot  = "bot"
)

// ChatRequest is the input of a single grounded chat turn.
type ChatRequest struct {
	ReportContext string `json:"reportContext"`
	UserQuestion  string `json:"userQuestion"`
}

// ChatResponse is the structured output of a grounded chat turn.
type ChatResponse struct {
	BotResponse string `json:"botResponse"`
}

// ChatMessage is one entry of the chat history shown next to a report.
type ChatMessage struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	Text string `json:"text"`
}

// ChatQuestionRequest is the body of POST /api/v1/reports/current/chat.
type ChatQuestionRequest struct {
	Question string `json:"question"`
}

// PodcastAudioRequest is the input of text-to-speech conversion.
type PodcastAudioRequest struct {
	Text string `json:"text"`
}

// PodcastAudioResponse carries audio as data:audio/<mime>;base64,<data>.
type PodcastAudioResponse struct {
	AudioDataURI string `json:"audioDataUri"`
}

// ReadAloudRequest is the body of POST /api/v1/reports/current/read-aloud.
type ReadAloudRequest struct {
	Action string `json:"action"`
}
