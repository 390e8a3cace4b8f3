package task

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/task-manager/domain/apperror"
	domain "github.com/example/task-manager/domain/task"
)

func TestValidateCreate(t *testing.T) {
	tests := []struct {
		name    string
		task    domain.Task
		wantErr string
	}{
		{
			name: "valid",
			task: domain.Task{UserID: "u1", Title: "Buy milk", Description: "2% milk"},
		},
		{
			name: "title at limit",
			task: domain.Task{UserID: "u1", Title: strings.Repeat("a", 100), Description: "d"},
		},
		{
			name: "multibyte title at limit",
			task: domain.Task{UserID: "u1", Title: strings.Repeat("é", 100), Description: "d"},
		},
		{
			name:    "user id checked first",
			task:    domain.Task{Title: "", Description: ""},
			wantErr: "user id is required",
		},
		{
			name:    "title before description",
			task:    domain.Task{UserID: "u1", Title: "  ", Description: ""},
			wantErr: "title is required",
		},
		{
			name:    "title too long",
			task:    domain.Task{UserID: "u1", Title: strings.Repeat("a", 101), Description: ""},
			wantErr: "title must not exceed 100 characters",
		},
		{
			name:    "description required",
			task:    domain.Task{UserID: "u1", Title: "t", Description: "\t\n"},
			wantErr: "description is required",
		},
		{
			name:    "description too long",
			task:    domain.Task{UserID: "u1", Title: "t", Description: strings.Repeat("d", 501)},
			wantErr: "description must not exceed 500 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := tt.task
			err := validateCreate(&tk)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestValidateCreate_TrimsContent(t *testing.T) {
	tk := domain.Task{UserID: "u1", Title: "  Buy milk ", Description: " 2% milk\n"}
	require.NoError(t, validateCreate(&tk))
	assert.Equal(t, "Buy milk", tk.Title)
	assert.Equal(t, "2% milk", tk.Description)
}

func TestValidateChanges(t *testing.T) {
	str := func(s string) *string { return &s }

	t.Run("absent fields untouched", func(t *testing.T) {
		done := true
		out, err := validateChanges(domain.Changes{Completed: &done})
		require.NoError(t, err)
		assert.Nil(t, out.Title)
		assert.Nil(t, out.Description)
		require.NotNil(t, out.Completed)
		assert.True(t, *out.Completed)
	})

	t.Run("present empty title rejected", func(t *testing.T) {
		_, err := validateChanges(domain.Changes{Title: str("   ")})
		assert.EqualError(t, err, "title must not be empty")
	})

	t.Run("present empty description rejected", func(t *testing.T) {
		_, err := validateChanges(domain.Changes{Description: str("")})
		assert.EqualError(t, err, "description must not be empty")
	})

	t.Run("too long", func(t *testing.T) {
		_, err := validateChanges(domain.Changes{Title: str(strings.Repeat("a", 101))})
		assert.EqualError(t, err, "title must not exceed 100 characters")

		_, err = validateChanges(domain.Changes{Description: str(strings.Repeat("a", 501))})
		assert.EqualError(t, err, "description must not exceed 500 characters")
	})

	t.Run("trimmed", func(t *testing.T) {
		out, err := validateChanges(domain.Changes{Title: str(" new ")})
		require.NoError(t, err)
		assert.Equal(t, "new", *out.Title)
	})
}
