package utils

import (
	"regexp"
	"strings"
)

var idPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateID 验证 ID 格式（组织、用户等）
func ValidateID(field, id string) error {
	// 1. 检查是否为空
	if strings.TrimSpace(id) == "" {
		return NewValidationError("EMPTY_ID", field+" cannot be empty")
	}

	// 2. 检查长度（最大 64 字符）
	if len(id) > 64 {
		return NewValidationError("ID_TOO_LONG", field+" exceeds maximum length")
	}

	// 3. 检查格式（只允许字母、数字、连字符、下划线）
	if !idPattern.MatchString(id) {
		return NewValidationError("INVALID_ID_FORMAT", field+" contains invalid characters")
	}

	return nil
}

// SplitList 解析列表参数，同时支持重复参数和逗号分隔
func SplitList(values []string) []string {
	var result []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				result = append(result, part)
			}
		}
	}
	return result
}

// ValidationError 验证错误
type ValidationError struct {
	Code    string
	Message string
}

// NewValidationError 创建验证错误
func NewValidationError(code, message string) *ValidationError {
	return &ValidationError{Code: code, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}
