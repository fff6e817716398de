package domain

type EnforceRequest struct {
	MemberID string `json:"member_id" binding:"required"`
	UnitID   string `json:"unit_id" binding:"required"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}
