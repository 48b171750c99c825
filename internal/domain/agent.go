package domain

// AgentAction is the structured intent attached to an agent reply.
type AgentAction string

const (
	ActionShowPictograms AgentAction = "SHOW_PICTOGRAMS"
)

// Fixed replies of the agent pipeline.
const (
	ReplyNoCredential = "I can't connect to my brain right now. Please check your API key."
	ReplyListening    = "I'm listening..."
	ReplyPictograms   = "Here are the pictograms for that."
	ReplyFailure      = "Sorry, I had trouble understanding that."
	DefaultMapTitle   = "View on Map"
)

// MapData is a location reference surfaced from backend grounding.
type MapData struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// AgentResponse is the normalized result of one agent turn. Action is set
// if and only if Keywords is non-empty.
type AgentResponse struct {
	Text     string      `json:"text"`
	Action   AgentAction `json:"action,omitempty"`
	Keywords []string    `json:"keywords,omitempty"`
	MapData  *MapData    `json:"mapData,omitempty"`
}

// ShowsPictograms reports whether the reply asks the board to display symbols.
func (r AgentResponse) ShowsPictograms() bool {
	return r.Action == ActionShowPictograms && len(r.Keywords) > 0
}

// LatLng is a geographic coordinate in degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// AgentContext carries per-request hints for the agent.
type AgentContext struct {
	IsNight  bool    `json:"is_night"`
	Location *LatLng `json:"location,omitempty"`
}

// TurnOutcome classifies how an agent turn ended.
type TurnOutcome string

const (
	TurnNormalized   TurnOutcome = "normalized"
	TurnFailed       TurnOutcome = "failed"
	TurnNoCredential TurnOutcome = "no_credential"
)

// TurnEvent is published after every agent turn. It never carries the
// conversation text.
type TurnEvent struct {
	ID           string      `json:"id"`
	Outcome      TurnOutcome `json:"outcome"`
	Action       AgentAction `json:"action,omitempty"`
	KeywordCount int         `json:"keyword_count"`
	HasMap       bool        `json:"has_map"`
	IsNight      bool        `json:"is_night"`
	LatencyMs    int64       `json:"latency_ms"`
	Timestamp    int64       `json:"timestamp"`
}
