package service

import (
	"errors"
	"log"
	"mime/multipart"

	"blogbox/dao"
	"blogbox/internal/storage"
	"blogbox/model"

	"gorm.io/gorm"
)

var ErrPostNotFound = errors.New("post not found")

// PostService combines the media ingestor and the post DAO. A post always
// references a file that was fully written before the row was committed.
type PostService struct {
	dao      *dao.PostDAO
	ingestor *storage.Ingestor
}

// NewPostService 创建一个新的 PostService 实例
func NewPostService(dao *dao.PostDAO, ingestor *storage.Ingestor) *PostService {
	return &PostService{dao: dao, ingestor: ingestor}
}

// PostUpdate carries the mutable metadata fields of a post. Nil pointers
// mean "leave unchanged"; image and owner are immutable and have no field
// here on purpose.
type PostUpdate struct {
	Title    *string
	Content  *string
	Category *string
}

// Create ingests the uploaded image first and only then inserts the row.
// If the insert fails, the already-written file is removed again so no
// orphaned file is left behind (compensating action; a hard crash between
// the two steps can still orphan a file).
func (s *PostService) Create(title, content, category string, userID uint64, file *multipart.FileHeader) (*model.Post, error) {
	mediaRef, err := s.ingestor.Ingest(file)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		Title:    title,
		Content:  content,
		Category: category,
		Image:    mediaRef,
		UserID:   userID,
	}
	if err := s.dao.CreatePost(post); err != nil {
		if rmErr := s.ingestor.Remove(mediaRef); rmErr != nil {
			log.Printf("remove orphaned upload %s failed: %v", mediaRef, rmErr)
		}
		return nil, err
	}
	return post, nil
}

// ListAll 返回全部帖子（带作者用户名）
func (s *PostService) ListAll() ([]model.Post, error) {
	return s.dao.ListAll()
}

// GetByID 按 ID 查询
func (s *PostService) GetByID(id uint64) (*model.Post, error) {
	post, err := s.dao.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

// ListByUser 按作者查询；作者没有帖子时返回空切片。
func (s *PostService) ListByUser(userID uint64) ([]model.Post, error) {
	return s.dao.ListByUser(userID)
}

// Update applies the supplied metadata fields and returns the fresh post.
// Fields not present in the request stay untouched; a missing post yields
// ErrPostNotFound.
func (s *PostService) Update(id uint64, upd PostUpdate) (*model.Post, error) {
	fields := make(map[string]interface{})
	if upd.Title != nil {
		fields["title"] = *upd.Title
	}
	if upd.Content != nil {
		fields["content"] = *upd.Content
	}
	if upd.Category != nil {
		fields["category"] = *upd.Category
	}
	if len(fields) > 0 {
		if err := s.dao.UpdatePost(id, fields); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrPostNotFound
			}
			return nil, err
		}
	}
	return s.GetByID(id)
}

// Delete removes the row by id. The stored file is intentionally kept:
// whether deletion should cascade to the file is an open question upstream,
// and removing it would change observable behavior.
func (s *PostService) Delete(id uint64) error {
	if err := s.dao.DeletePost(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	return nil
}
