package calculator

// DisplayRequest is the JSON body for POST /calculator/sessions/{id}/display.
type DisplayRequest struct {
	Input string `json:"input"` // "0"-"9", ".", or "ce"
}

// OperatorRequest is the JSON body for POST /calculator/sessions/{id}/operator.
type OperatorRequest struct {
	Operator string `json:"operator"` // "+", "-", "x", "/"
}

// KeysRequest is the JSON body for POST /calculator/sessions/{id}/keys.
type KeysRequest struct {
	Keys []string `json:"keys"`
}

// SessionResponse is the JSON response for all session endpoints.
type SessionResponse struct {
	ID               string `json:"id"`
	DisplayValue     string `json:"display_value"`
	StoredValue      string `json:"stored_value"`
	SelectedOperator string `json:"selected_operator"`
}

// EqualsResponse is the JSON response for POST /calculator/sessions/{id}/equals.
type EqualsResponse struct {
	SessionResponse
	Normalized bool   `json:"normalized"`
	Reason     string `json:"reason,omitempty"`
}

// KeypadResponse is the JSON response for GET /calculator/keypad.
type KeypadResponse struct {
	Numbers   []string `json:"numbers"`
	Operators []string `json:"operators"`
	Submit    string   `json:"submit"`
}

func newSessionResponse(id string, st State) SessionResponse {
	return SessionResponse{
		ID:               id,
		DisplayValue:     st.DisplayValue,
		StoredValue:      st.StoredValue,
		SelectedOperator: st.SelectedOperator,
	}
}
