package request

// CreatePostRequest binds the multipart metadata fields; the image part is
// read from the form separately. The owner always comes from the bearer
// token, so a submitted user_id form field is ignored.
type CreatePostRequest struct {
	Title    string `form:"title" binding:"required,max=100"`
	Content  string `form:"content" binding:"required"`
	Category string `form:"category" binding:"required,max=50"`
}

// UpdatePostRequest uses pointers so absent fields stay untouched. Image
// and user_id are not bindable here: they are immutable after creation.
type UpdatePostRequest struct {
	Title    *string `json:"title" binding:"omitempty,max=100"`
	Content  *string `json:"content"`
	Category *string `json:"category" binding:"omitempty,max=50"`
}
