package repository

import (
	"errors"

	"gorm.io/gorm"
)

// notFound 将 gorm 的未找到错误转换为 nil 结果
func notFound[T any](v *T, err error) (*T, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}
