package unit

type CreateUnitRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug" binding:"required"`
	Description string `json:"description"`
	Email       string `json:"email" binding:"omitempty,email"`
}

type UpdateUnitRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Email       string `json:"email" binding:"omitempty,email"`
	IsActive    *bool  `json:"is_active"`
}

type UnitResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	Email       string `json:"email,omitempty"`
	IsActive    bool   `json:"is_active"`
}
