package contact

type SubmitRequest struct {
	Name    string `json:"name" form:"name" binding:"required,max=120"`
	Email   string `json:"email" form:"email" binding:"required,email"`
	Message string `json:"message" form:"message" binding:"required,max=5000"`
}
