package models

// CreateURLRequest is the body of POST /api/v1/shorten.
type CreateURLRequest struct {
	LongURL     string  `json:"longUrl" binding:"required"`
	CustomAlias *string `json:"customAlias,omitempty"`
	ExpiresIn   *int64  `json:"expiresIn,omitempty"` // Seconds from now
	Password    *string `json:"password,omitempty"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// VerifyPasswordRequest is the body of POST /api/v1/url/:identifier/verify.
type VerifyPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// ClickContext carries per-request metadata for analytics recording. Empty
// fields are replaced with sentinel values by the recorder.
type ClickContext struct {
	Referer   string
	UserAgent string
	IPAddress string
	Country   string
}
