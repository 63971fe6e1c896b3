package util

// ValidationError 携带给调用方的具体校验缺陷描述，控制器映射为 400
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	return e.Detail
}

func NewValidationError(detail string) *ValidationError {
	return &ValidationError{Detail: detail}
}
