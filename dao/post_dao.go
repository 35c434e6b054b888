package dao

import (
	"blogbox/model"

	"gorm.io/gorm"
)

type PostDAO struct {
	db *gorm.DB
}

// NewPostDAO 创建一个新的 PostDAO 实例
func NewPostDAO(db *gorm.DB) *PostDAO {
	return &PostDAO{db: db}
}

// withAuthor narrows the joined user record to the username projection.
func withAuthor(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username")
}

// CreatePost 插入一条帖子记录
func (dao *PostDAO) CreatePost(post *model.Post) error {
	return dao.db.Create(post).Error
}

// ListAll returns every post with its author projection. Rows come back in
// storage order; insertion order is not guaranteed. An empty blog yields an
// empty slice so the collection serializes as [].
func (dao *PostDAO) ListAll() ([]model.Post, error) {
	posts := make([]model.Post, 0)
	err := dao.db.Preload("Author", withAuthor).Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// GetByID 根据 ID 查询帖子（带作者用户名）
func (dao *PostDAO) GetByID(id uint64) (*model.Post, error) {
	var post model.Post
	err := dao.db.Preload("Author", withAuthor).First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ListByUser 查询某个用户的全部帖子；没有帖子时返回空切片而不是错误。
func (dao *PostDAO) ListByUser(userID uint64) ([]model.Post, error) {
	posts := make([]model.Post, 0)
	err := dao.db.Preload("Author", withAuthor).Where("user_id = ?", userID).Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdatePost applies a partial metadata update. Only title/content/category
// may appear in fields; image and user_id never change here. Returns
// gorm.ErrRecordNotFound when no row matched.
func (dao *PostDAO) UpdatePost(id uint64, fields map[string]interface{}) error {
	res := dao.db.Model(&model.Post{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Updates with identical values still reports affected rows on
		// MySQL only with CLIENT_FOUND_ROWS; check existence explicitly.
		var count int64
		if err := dao.db.Model(&model.Post{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}

// DeletePost 按 ID 删除；零行受影响视为不存在。
func (dao *PostDAO) DeletePost(id uint64) error {
	res := dao.db.Delete(&model.Post{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
