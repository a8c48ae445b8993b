package service

import (
	"ReaView/internal/model"
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

func isDuplicateError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func userMap(users []*model.User) map[uint64]*model.User {
	m := make(map[uint64]*model.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return m
}

func idSet(ids []uint64) map[uint64]struct{} {
	m := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}
