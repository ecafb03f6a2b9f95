package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound 查询没有命中任何记录
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicate 违反唯一约束
	ErrDuplicate = errors.New("repository: duplicate key")
	// ErrForeignKey 违反外键约束
	ErrForeignKey = errors.New("repository: foreign key violation")
)

// translate 把 gorm 的错误映射为本包的哨兵错误，原始错误保留在链上
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errors.Join(ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errors.Join(ErrDuplicate, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return errors.Join(ErrForeignKey, err)
	default:
		return err
	}
}
