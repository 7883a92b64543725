package member

type GetMemberResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type RenameRequest struct {
	Name string `json:"name" binding:"required,membername"`
}

type RegisterRequest struct {
	ID   int64  `json:"id" binding:"required,min=1"`
	Name string `json:"name" binding:"required,membername"`
}
