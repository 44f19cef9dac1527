package dto

type TokenRequest struct {
	Username string `json:"username" validate:"required,max=100"`
}

func (r *TokenRequest) Validate() error {
	return Validate(r)
}
