package dao

import (
	"testing"

	"blogbox/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreatePost(t *testing.T) {
	db, mock := newMockDB(t)
	dao := NewPostDAO(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `posts`").WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectCommit()

	post := &model.Post{Title: "T", Content: "C", Category: "Cat", Image: "image-1-a.png", UserID: 2}
	require.NoError(t, dao.CreatePost(post))
	assert.Equal(t, uint64(5), post.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDJoinsAuthor(t *testing.T) {
	db, mock := newMockDB(t)
	dao := NewPostDAO(db)

	postRows := sqlmock.NewRows([]string{"id", "title", "content", "category", "image", "user_id"}).
		AddRow(1, "T", "C", "Cat", "image-1-a.png", 2)
	mock.ExpectQuery("SELECT \\* FROM `posts`").WillReturnRows(postRows)

	authorRows := sqlmock.NewRows([]string{"id", "username"}).AddRow(2, "alice")
	mock.ExpectQuery("SELECT .+ FROM `users`").WillReturnRows(authorRows)

	post, err := dao.GetByID(1)
	require.NoError(t, err)
	assert.Equal(t, "T", post.Title)
	assert.Equal(t, uint64(2), post.UserID)
	require.NotNil(t, post.Author)
	assert.Equal(t, "alice", post.Author.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	dao := NewPostDAO(db)

	mock.ExpectQuery("SELECT \\* FROM `posts`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := dao.GetByID(99)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListAllEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	dao := NewPostDAO(db)

	mock.ExpectQuery("SELECT \\* FROM `posts`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	posts, err := dao.ListAll()
	require.NoError(t, err)
	// 空博客要序列化成 [] 而不是 null
	assert.NotNil(t, posts)
	assert.Len(t, posts, 0)
}

func TestListByUserEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	dao := NewPostDAO(db)

	mock.ExpectQuery("SELECT \\* FROM `posts`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	posts, err := dao.ListByUser(7)
	require.NoError(t, err)
	// 空结果是空切片而不是 nil，序列化成 [] 而不是 null
	assert.NotNil(t, posts)
	assert.Len(t, posts, 0)
}

func TestUpdatePost(t *testing.T) {
	db, mock := newMockDB(t)
	dao := NewPostDAO(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `posts` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := dao.UpdatePost(1, map[string]interface{}{"title": "new"})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePostNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	dao := NewPostDAO(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `posts` SET").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT count").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))

	err := dao.UpdatePost(99, map[string]interface{}{"title": "new"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeletePost(t *testing.T) {
	db, mock := newMockDB(t)
	dao := NewPostDAO(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `posts`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, dao.DeletePost(1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePostNotFound(t *testing.T) {
	// 零行受影响 ⇒ NotFound，而不是单独的存在性检查
	db, mock := newMockDB(t)
	dao := NewPostDAO(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `posts`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := dao.DeletePost(99)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
