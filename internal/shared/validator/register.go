package validator

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// MemberNameTag is the binding tag for member names
const MemberNameTag = "membername"

var validations = map[string]validator.Func{
	MemberNameTag: ValidateMemberName,
}

// GetValidator returns the validator instance from Gin binding
func GetValidator() (*validator.Validate, error) {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil, fmt.Errorf("validator 엔진을 가져올 수 없습니다")
	}
	return v, nil
}

// Register adds every custom tag of this package to v
func Register(v *validator.Validate) error {
	for _, tag := range Tags() {
		if err := v.RegisterValidation(tag, validations[tag]); err != nil {
			return fmt.Errorf("%s validator 등록 실패: %w", tag, err)
		}
	}
	return nil
}

// RegisterAll registers the custom tags on gin's binding engine
func RegisterAll() error {
	v, err := GetValidator()
	if err != nil {
		return fmt.Errorf("validator 엔진 가져오기 실패: %w", err)
	}

	if err := Register(v); err != nil {
		return err
	}

	slog.Info("공통 Validator 등록 완료", "validators", Tags())
	return nil
}

// Tags lists the custom tags in a stable order
func Tags() []string {
	tags := make([]string, 0, len(validations))
	for tag := range validations {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
