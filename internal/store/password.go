package store

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword：bcrypt 默认代价
func HashPassword(pw string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
}

// CheckPassword：密码是否匹配摘要
func CheckPassword(u User, pw string) bool {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pw)) == nil
}

// 文档注释：写入演示账户
// 约束：账户已存在时视为成功，不覆盖已有密码
func SeedDemoUser(ctx context.Context, us Users) error {
	h, err := HashPassword("demo")
	if err != nil {
		return err
	}
	err = us.CreateUser(ctx, User{Email: "demo@demo.com", Name: "Lucas", PasswordHash: h})
	if errors.Is(err, ErrDuplicateEmail) {
		return nil
	}
	return err
}
