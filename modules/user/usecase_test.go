package user

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/task-manager/domain/apperror"
	domain "github.com/example/task-manager/domain/user"
)

// memoryRepository is an in-memory Repository for use case tests.
type memoryRepository struct {
	mu      sync.Mutex
	byID    map[string]*domain.User
	nextID  int
	failErr error
	calls   int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{byID: make(map[string]*domain.User)}
}

func (r *memoryRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.failErr != nil {
		return nil, r.failErr
	}
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.failErr != nil {
		return nil, r.failErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memoryRepository) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.failErr != nil {
		return nil, r.failErr
	}
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return nil, ErrDuplicateEmail
		}
	}
	r.nextID++
	created := *u
	created.ID = fmt.Sprintf("user-%d", r.nextID)
	r.byID[created.ID] = &created
	cp := created
	return &cp, nil
}

var fixedNow = time.Date(2024, 3, 10, 12, 30, 45, 123000000, time.UTC)

func fixedClock() time.Time { return fixedNow }

func TestCreateUser_NormalizesEmail(t *testing.T) {
	repo := newMemoryRepository()
	uc := NewCreateUser(repo, fixedClock)

	u, err := uc.Execute(context.Background(), CreateUserInput{Email: " Foo@Bar.com "})
	require.NoError(t, err)

	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "foo@bar.com", u.Email)
	assert.True(t, u.CreatedAt.Equal(fixedNow))

	found, err := NewFindUser(repo).FindByEmail(context.Background(), "FOO@bar.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, u.ID, found.ID)
}

func TestCreateUser_DuplicateIgnoringCaseAndWhitespace(t *testing.T) {
	repo := newMemoryRepository()
	uc := NewCreateUser(repo, fixedClock)
	ctx := context.Background()

	_, err := uc.Execute(ctx, CreateUserInput{Email: "foo@bar.com"})
	require.NoError(t, err)

	_, err = uc.Execute(ctx, CreateUserInput{Email: "  FOO@BAR.COM"})
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	assert.Len(t, repo.byID, 1)
}

func TestCreateUser_StoreUniqueViolationIsConflict(t *testing.T) {
	repo := &racingRepository{memoryRepository: newMemoryRepository()}
	uc := NewCreateUser(repo, fixedClock)

	_, err := uc.Execute(context.Background(), CreateUserInput{Email: "foo@bar.com"})
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

// racingRepository hides existing users from FindByEmail so that the
// store's unique constraint is the only thing rejecting the duplicate.
type racingRepository struct {
	*memoryRepository
}

func (r *racingRepository) FindByEmail(context.Context, string) (*domain.User, error) {
	return nil, nil
}

func (r *racingRepository) Create(_ context.Context, _ *domain.User) (*domain.User, error) {
	return nil, ErrDuplicateEmail
}

func TestCreateUser_ValidationBeforeStore(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantMsg string
	}{
		{name: "missing", email: "", wantMsg: "email is required"},
		{name: "blank", email: "   ", wantMsg: "email is required"},
		{name: "malformed", email: "not-an-email", wantMsg: "invalid email format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemoryRepository()
			_, err := NewCreateUser(repo, fixedClock).Execute(context.Background(), CreateUserInput{Email: tt.email})

			require.Error(t, err)
			assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
			assert.EqualError(t, err, tt.wantMsg)
			assert.Zero(t, repo.calls)
		})
	}
}

func TestCreateUser_StoreFailureIsInternal(t *testing.T) {
	repo := newMemoryRepository()
	repo.failErr = errors.New("connection refused")

	_, err := NewCreateUser(repo, fixedClock).Execute(context.Background(), CreateUserInput{Email: "foo@bar.com"})
	require.Error(t, err)
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
	assert.ErrorIs(t, err, repo.failErr)
}

func TestFindUser_FindByEmail(t *testing.T) {
	repo := newMemoryRepository()
	uc := NewFindUser(repo)
	ctx := context.Background()

	u, err := uc.FindByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, u)

	_, err = uc.FindByEmail(ctx, "broken")
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = uc.FindByEmail(ctx, " ")
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestFindUser_FindByID(t *testing.T) {
	repo := newMemoryRepository()
	created, err := NewCreateUser(repo, fixedClock).Execute(context.Background(), CreateUserInput{Email: "a@b.co"})
	require.NoError(t, err)

	uc := NewFindUser(repo)
	ctx := context.Background()

	u, err := uc.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "a@b.co", u.Email)

	u, err = uc.FindByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, u)

	_, err = uc.FindByID(ctx, "  ")
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	assert.EqualError(t, err, "user id is required")
}
