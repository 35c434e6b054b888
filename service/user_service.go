package service

import (
	"errors"

	"blogbox/dao"
	"blogbox/internal/auth"
	"blogbox/model"
	"blogbox/utils"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	ErrUserExists      = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidPassword = errors.New("invalid password")
)

// UserService 负责注册与登录；登录成功时签发 1 小时有效的 token。
type UserService struct {
	dao *dao.UserDAO
}

// NewUserService 创建一个新的 UserService 实例
func NewUserService(dao *dao.UserDAO) *UserService {
	return &UserService{dao: dao}
}

// Register persists a freshly created user after hashing the password.
// Duplicate emails surface as ErrUserExists via the DB uniqueness constraint.
func (s *UserService) Register(user *model.User) error {
	hashed, err := utils.HashPassword(user.Password)
	if err != nil {
		return err
	}
	user.Password = hashed
	if err := s.dao.CreateUser(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserExists
		}
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return ErrUserExists
		}
		return err
	}
	return nil
}

// Login authenticates by email/password and issues a signed token.
// A missing account and a wrong password are reported separately so the
// router can map them to 404 vs 401.
func (s *UserService) Login(email, password string) (*model.User, string, error) {
	user, err := s.dao.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}

	// 校验密码
	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, "", ErrInvalidPassword
	}

	token, err := auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}
