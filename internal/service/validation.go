package service

import (
	"fmt"
	"strings"

	"checklists/internal/apperr"
	"checklists/internal/model"
)

// MaxTitleLength bounds list and task titles, in bytes.
const MaxTitleLength = 500

func cleanTitle(raw, missingCode, what string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", apperr.Validation(missingCode, fmt.Sprintf("%s title is required", what))
	}
	if len(title) > MaxTitleLength {
		return "", apperr.Validation(apperr.CodeTitleTooLong,
			fmt.Sprintf("%s title exceeds %d characters", what, MaxTitleLength))
	}
	return title, nil
}

func checkPriority(p model.Priority) error {
	if !p.IsValid() {
		return apperr.Validation(apperr.CodeInvalidPriority,
			fmt.Sprintf("priority must be one of low, medium, high or empty, got %q", p))
	}
	return nil
}
