package models

// SiteUser — запись из списка users внутри документа контента.
// Это прикладной гейт админки, а не сессия внешнего провайдера.
type SiteUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// swagger:model LoginRequest
type LoginRequest struct {
	Username string `json:"username" example:"admin"`
	Password string `json:"password" example:"admin"`
}

// swagger:model LoginResponse
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Username    string `json:"username"`
	Role        string `json:"role"`
}

// swagger:model UpsertUserRequest
type UpsertUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}
