package repository

import "errors"

var (
	ErrGameRecordNotFound = errors.New("game record not found")
	ErrMongodb            = errors.New("mongodb error")
	ErrRedis              = errors.New("redis error")
)
