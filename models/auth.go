package models

// ValidateResponse wraps /user/validate
type ValidateResponse struct {
	Status     string `json:"status"`
	StatusBool bool   `json:"statusbool"`
	Token      string `json:"token"`
	UserName   string `json:"user_name"`
	UserID     int    `json:"user_id"`
	Message    string `json:"message,omitempty"`
}

// OK reports whether the login attempt was accepted
func (r ValidateResponse) OK() bool {
	return r.Status == StatusSuccess && r.StatusBool
}
