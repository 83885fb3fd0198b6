package dto

// Data Transfer Objects for the signup/token endpoints

// SignUpRequest: payload for requesting a confirmation code
type SignUpRequest struct {
	Username string `json:"username" binding:"required,max=150,username"`
	Email    string `json:"email" binding:"required,max=254,email"`
}

// SignUpResponse echoes the accepted payload; the code travels by mail
// only and never appears in a response body.
type SignUpResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TokenRequest: payload for exchanging a confirmation code
type TokenRequest struct {
	Username         string `json:"username" binding:"required,max=150"`
	ConfirmationCode string `json:"confirmation_code" binding:"required,max=256"`
}

// TokenResponse: the signed access token
type TokenResponse struct {
	Access string `json:"access"`
}
