package task

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/example/task-manager/domain/apperror"
	domain "github.com/example/task-manager/domain/task"
)

// validateCreate checks a new task in a fixed order and trims its content.
// The first violated rule wins.
func validateCreate(t *domain.Task) error {
	if strings.TrimSpace(t.UserID) == "" {
		return apperror.Validation("user id is required")
	}

	title, err := requiredText("title", t.Title, domain.MaxTitleLength)
	if err != nil {
		return err
	}
	description, err := requiredText("description", t.Description, domain.MaxDescriptionLength)
	if err != nil {
		return err
	}

	t.Title = title
	t.Description = description
	return nil
}

// validateChanges checks only the fields present in c and returns them trimmed.
func validateChanges(c domain.Changes) (domain.Changes, error) {
	out := domain.Changes{Completed: c.Completed}

	if c.Title != nil {
		title, err := presentText("title", *c.Title, domain.MaxTitleLength)
		if err != nil {
			return domain.Changes{}, err
		}
		out.Title = &title
	}
	if c.Description != nil {
		description, err := presentText("description", *c.Description, domain.MaxDescriptionLength)
		if err != nil {
			return domain.Changes{}, err
		}
		out.Description = &description
	}
	return out, nil
}

func requiredText(field, value string, maxLen int) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", apperror.Validation(field + " is required")
	}
	if utf8.RuneCountInString(trimmed) > maxLen {
		return "", apperror.Validation(fmt.Sprintf("%s must not exceed %d characters", field, maxLen))
	}
	return trimmed, nil
}

func presentText(field, value string, maxLen int) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", apperror.Validation(field + " must not be empty")
	}
	if utf8.RuneCountInString(trimmed) > maxLen {
		return "", apperror.Validation(fmt.Sprintf("%s must not exceed %d characters", field, maxLen))
	}
	return trimmed, nil
}
