package repository

import "errors"

// 見つからない
var ErrNotFound = errors.New("not found")

// 一意制約違反（email・コード・名前など）
var ErrDuplicate = errors.New("duplicate")
