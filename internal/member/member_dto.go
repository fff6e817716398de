package member

type CreateMemberRequest struct {
	FullName     string `json:"full_name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	UserID       string `json:"user_id" binding:"required,uuid"`
	MemberNumber string `json:"member_number"`
	Phone        string `json:"phone"`
	JoinDate     string `json:"join_date" binding:"required"`
	Role         string `json:"role"`
}

type UpdateMemberRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	IsActive *bool  `json:"is_active"`
}

type MemberResponse struct {
	ID           string `json:"id"`
	UnitID       string `json:"unit_id"`
	UserID       string `json:"user_id"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	MemberNumber string `json:"member_number,omitempty"`
	Phone        string `json:"phone,omitempty"`
	JoinDate     string `json:"join_date"`
	Role         string `json:"role"`
	IsActive     bool   `json:"is_active"`
}
