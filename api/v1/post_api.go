package v1

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"blogbox/api/v1/request"
	"blogbox/internal/metrics"
	"blogbox/internal/storage"
	"blogbox/service"

	"github.com/gin-gonic/gin"
)

// PostAPI exposes the post CRUD handlers. Mutating routes sit behind the
// auth middleware; the owner of a new post is the authenticated user.
type PostAPI struct {
	service *service.PostService
}

// NewPostAPI wires the post service into the HTTP handlers.
func NewPostAPI(s *service.PostService) *PostAPI {
	return &PostAPI{service: s}
}

// Create handles the multipart creation request: metadata fields plus a
// single "image" file part.
func (p *PostAPI) Create(c *gin.Context) {
	var req request.CreatePostRequest
	if err := c.ShouldBind(&req); err != nil {
		metrics.IncPostOp("create", "bad_request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 只取第一个 image 文件；缺失则 400
	file, err := c.FormFile("image")
	if err != nil {
		metrics.IncUpload("missing")
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	userID := c.GetUint64("user_id") // 由 AuthMiddleware 写入

	post, err := p.service.Create(req.Title, req.Content, req.Category, userID, file)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNoFile):
			metrics.IncUpload("missing")
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		case errors.Is(err, storage.ErrUpload):
			// 写盘失败也是上传错误，同样 400
			log.Printf("Error uploading image: %v", err)
			metrics.IncUpload("error")
			metrics.IncPostOp("create", "bad_request")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Error uploading image"})
		default:
			log.Printf("Error creating post: %v", err)
			metrics.IncPostOp("create", "internal_error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating post"})
		}
		return
	}
	metrics.IncUpload("success")
	metrics.IncPostOp("create", "success")
	c.JSON(http.StatusCreated, post)
}

// List returns all posts with their author projection.
func (p *PostAPI) List(c *gin.Context) {
	posts, err := p.service.ListAll()
	if err != nil {
		log.Printf("Error fetching posts: %v", err)
		metrics.IncPostOp("list", "internal_error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching posts"})
		return
	}
	metrics.IncPostOp("list", "success")
	c.JSON(http.StatusOK, posts)
}

// GetByID returns one post by id.
func (p *PostAPI) GetByID(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}
	post, err := p.service.GetByID(id)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		log.Printf("Error fetching post: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching post"})
		return
	}
	c.JSON(http.StatusOK, post)
}

// ListByUser returns the posts owned by one user; an owner without posts
// yields an empty array, not 404.
func (p *PostAPI) ListByUser(c *gin.Context) {
	userID, err := parseID(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	posts, err := p.service.ListByUser(userID)
	if err != nil {
		log.Printf("Error fetching posts by user ID: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching posts by user ID"})
		return
	}
	c.JSON(http.StatusOK, posts)
}

// Update applies a partial metadata update; image and owner never change.
func (p *PostAPI) Update(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}
	var req request.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.IncPostOp("update", "bad_request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	post, err := p.service.Update(id, service.PostUpdate{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
	})
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			metrics.IncPostOp("update", "not_found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		log.Printf("Error updating post: %v", err)
		metrics.IncPostOp("update", "internal_error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating post"})
		return
	}
	metrics.IncPostOp("update", "success")
	c.JSON(http.StatusOK, post)
}

// Delete removes a post; deleting a missing id is 404.
func (p *PostAPI) Delete(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}
	if err := p.service.Delete(id); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			metrics.IncPostOp("delete", "not_found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		log.Printf("Error deleting post: %v", err)
		metrics.IncPostOp("delete", "internal_error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting post"})
		return
	}
	metrics.IncPostOp("delete", "success")
	c.Status(http.StatusNoContent)
}

func parseID(raw string) (uint64, error) {
	return strconv.ParseUint(raw, 10, 64)
}
