package repository

import (
	"errors"
	"fmt"
)

// ValidationError 输入校验失败（金额非正、枚举值非法、缺少必填字段等）
// 对应 HTTP 400，不重试。
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError 更新/查询引用了不存在的记录，对应 HTTP 404
type NotFoundError struct {
	Entity string
	ID     any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s不存在: %v", e.Entity, e.ID)
}

// StoreError 底层存储失败，对应 HTTP 500，不自动重试
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s失败: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsValidation 判断是否为校验错误
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound 判断是否为记录不存在错误
func IsNotFound(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}

func validationErr(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func notFoundErr(entity string, id any) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
