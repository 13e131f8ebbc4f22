package repository

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

// UpstreamError は外部API（コマース）の2xx以外の応答
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream: %d %s", e.StatusCode, e.Message)
}

// StatusOf は err が持つ上流ステータス（無ければ0）
func StatusOf(err error) int {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.StatusCode
	}
	return 0
}
