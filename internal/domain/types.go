package domain

// RequestContext berisi identitas pemanggil hasil decode access token.
type RequestContext struct {
	UserID string `json:"userId"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role"`
}
