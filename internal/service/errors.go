package service

import (
	"errors"
	"fmt"
)

// ValidationError 问卷或表单缺少必填字段，在产生任何副作用之前返回
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type ExternalCallKind string

const (
	ExternalUnavailable ExternalCallKind = "unavailable"
	ExternalEmpty       ExternalCallKind = "empty_response"
	ExternalMalformed   ExternalCallKind = "malformed_response"
)

// ExternalCallError 外部补全调用失败，只在生成器内部流转，由兜底逻辑吸收
type ExternalCallError struct {
	Kind ExternalCallKind
	Err  error
}

func (e *ExternalCallError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *ExternalCallError) Unwrap() error { return e.Err }

// StorageError 持久化失败
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
