package handler

// accessRequestBody is the REST access request payload.
type accessRequestBody struct {
	UserID string `json:"userId"`
	UIDHex string `json:"uidHex"`
	DoorID string `json:"doorId"`
}

// accessResponse is returned for both allowed and denied decisions.
type accessResponse struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
	UserID  string `json:"userId,omitempty"`
	DoorID  string `json:"doorId,omitempty"`
}
