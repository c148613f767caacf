package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fixmysite/portal/internal/application/credential/dto"
	"github.com/fixmysite/portal/internal/domain/credential"
	"github.com/fixmysite/portal/internal/domain/servicerequest"
	"github.com/fixmysite/portal/internal/domain/user"
	apperrors "github.com/fixmysite/portal/internal/shared/errors"
	"github.com/fixmysite/portal/internal/shared/logger"
)

type memCredentialRepo struct {
	rows    map[uint]*credential.Credential
	touched []uint
	nextID  uint
}

func newMemCredentialRepo() *memCredentialRepo {
	return &memCredentialRepo{rows: map[uint]*credential.Credential{}, nextID: 1}
}

func (m *memCredentialRepo) Create(_ context.Context, c *credential.Credential) error {
	if err := c.SetID(m.nextID); err != nil {
		return err
	}
	m.rows[m.nextID] = c
	m.nextID++
	return nil
}

func (m *memCredentialRepo) GetByID(_ context.Context, id uint) (*credential.Credential, error) {
	return m.rows[id], nil
}

func (m *memCredentialRepo) ListByUser(_ context.Context, userID uint) ([]*credential.Credential, error) {
	var out []*credential.Credential
	for id := uint(1); id < m.nextID; id++ {
		if c, ok := m.rows[id]; ok && c.UserID() == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCredentialRepo) ListByServiceRequest(_ context.Context, srID uint) ([]*credential.Credential, error) {
	var out []*credential.Credential
	for id := uint(1); id < m.nextID; id++ {
		if c, ok := m.rows[id]; ok && c.ServiceRequestID() == srID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCredentialRepo) TouchAccessed(_ context.Context, id uint, _ time.Time) error {
	m.touched = append(m.touched, id)
	return nil
}

func (m *memCredentialRepo) DeleteOwned(_ context.Context, id, userID uint) (bool, error) {
	c, ok := m.rows[id]
	if !ok || c.UserID() != userID {
		return false, nil
	}
	delete(m.rows, id)
	return true, nil
}

func (m *memCredentialRepo) DeleteByServiceRequestIDs(context.Context, []uint) error { return nil }

type mockRequestRepository struct {
	servicerequest.Repository
	owners map[uint]uint
}

func (m *mockRequestRepository) GetByID(_ context.Context, id uint) (*servicerequest.ServiceRequest, error) {
	owner, ok := m.owners[id]
	if !ok {
		return nil, nil
	}
	return servicerequest.ReconstructServiceRequest(servicerequest.ReconstructParams{ID: id, UserID: owner, Status: servicerequest.StatusNew})
}

type mockUserRepository struct {
	hash string
}

func (m *mockUserRepository) GetByID(_ context.Context, id uint) (*user.User, error) {
	return user.ReconstructUser(id, "Jane", "jane@example.com", m.hash, "", "", time.Now())
}

// reverseSealer stands in for AES-GCM with a reversible transform.
type reverseSealer struct{ fail bool }

func (s reverseSealer) Seal(plaintext string) ([]byte, []byte, error) {
	if s.fail {
		return nil, nil, errors.New("seal failed")
	}
	b := []byte(plaintext)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return b, []byte("iv-iv-iv-iv-"), nil
}

func (s reverseSealer) Open(ciphertext, _ []byte) (string, error) {
	b := append([]byte(nil), ciphertext...)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b), nil
}

func TestStoreCredential(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.CreateCredentialRequest
		wantErr func(error) bool
	}{
		{
			name: "username and password",
			req:  dto.CreateCredentialRequest{ServiceRequestID: 9, Username: "admin", Password: "hunter22"},
		},
		{
			name: "label and text",
			req:  dto.CreateCredentialRequest{ServiceRequestID: 9, Label: "FTP", Text: "ftp://secret"},
		},
		{
			name:    "username without password",
			req:     dto.CreateCredentialRequest{ServiceRequestID: 9, Username: "admin"},
			wantErr: apperrors.IsValidationError,
		},
		{
			name:    "foreign service request",
			req:     dto.CreateCredentialRequest{ServiceRequestID: 10, Label: "FTP", Text: "x"},
			wantErr: apperrors.IsNotFoundError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemCredentialRepo()
			uc := NewStoreCredentialUseCase(repo, &mockRequestRepository{owners: map[uint]uint{9: 3, 10: 4}}, reverseSealer{}, logger.NewNop())

			got, err := uc.Execute(context.Background(), 3, tt.req)
			if tt.wantErr != nil {
				assert.True(t, tt.wantErr(err), "unexpected error %v", err)
				assert.Empty(t, repo.rows)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uint(9), got.ServiceRequestID)

			stored := repo.rows[got.ID]
			secret, _ := reverseSealer{}.Open(stored.Ciphertext(), stored.IV())
			if tt.req.Text != "" {
				assert.Equal(t, tt.req.Text, secret)
			} else {
				assert.Equal(t, tt.req.Password, secret)
			}
		})
	}
}

func TestStoreCredentialForRequest_SealFailure(t *testing.T) {
	repo := newMemCredentialRepo()
	uc := NewStoreCredentialUseCase(repo, &mockRequestRepository{}, reverseSealer{fail: true}, logger.NewNop())

	_, err := uc.ExecuteForRequest(context.Background(), 9, 3, "WP admin", "pw")

	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "Failed to store credential. Contact support.", appErr.Message)
	assert.Empty(t, repo.rows)
}

func TestRevealCredential(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := newMemCredentialRepo()
	store := NewStoreCredentialUseCase(repo, &mockRequestRepository{owners: map[uint]uint{9: 3}}, reverseSealer{}, logger.NewNop())
	saved, err := store.Execute(context.Background(), 3, dto.CreateCredentialRequest{ServiceRequestID: 9, Label: "cPanel", Text: "s3cret!"})
	require.NoError(t, err)

	uc := NewRevealCredentialUseCase(repo, &mockUserRepository{hash: string(hash)}, reverseSealer{}, logger.NewNop())

	_, err = uc.Execute(context.Background(), 3, saved.ID, "wrong-password")
	assert.ErrorIs(t, err, credential.ErrInvalidPassword)
	assert.Empty(t, repo.touched)

	got, err := uc.Execute(context.Background(), 3, saved.ID, "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "s3cret!", got.Password)
	assert.Equal(t, []uint{saved.ID}, repo.touched)

	_, err = uc.Execute(context.Background(), 4, saved.ID, "correct-horse")
	assert.ErrorIs(t, err, credential.ErrCredentialNotFound)
}

func TestRevealCredentialForRequest(t *testing.T) {
	repo := newMemCredentialRepo()
	store := NewStoreCredentialUseCase(repo, &mockRequestRepository{}, reverseSealer{}, logger.NewNop())
	saved, err := store.ExecuteForRequest(context.Background(), 9, 3, "WP admin", "pa55")
	require.NoError(t, err)

	uc := NewRevealCredentialUseCase(repo, &mockUserRepository{}, reverseSealer{}, logger.NewNop())

	got, err := uc.ExecuteForRequest(context.Background(), 9, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "WP admin", got.Name)
	assert.Equal(t, "pa55", got.Secret)

	_, err = uc.ExecuteForRequest(context.Background(), 10, saved.ID)
	require.Error(t, err)
	assert.Equal(t, "Credential not found for this ticket.", apperrors.GetAppError(err).Message)
}

func TestListAndDeleteCredentials(t *testing.T) {
	repo := newMemCredentialRepo()
	store := NewStoreCredentialUseCase(repo, &mockRequestRepository{}, reverseSealer{}, logger.NewNop())
	first, err := store.ExecuteForRequest(context.Background(), 9, 3, "one", "1")
	require.NoError(t, err)
	_, err = store.ExecuteForRequest(context.Background(), 11, 4, "two", "2")
	require.NoError(t, err)

	list := NewListCredentialsUseCase(repo, logger.NewNop())
	mine, err := list.Execute(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "one", mine[0].Label)

	forRequest, err := list.ExecuteForRequest(context.Background(), 11)
	require.NoError(t, err)
	require.Len(t, forRequest, 1)

	del := NewDeleteCredentialUseCase(repo, logger.NewNop())
	err = del.Execute(context.Background(), 4, first.ID)
	assert.True(t, apperrors.IsNotFoundError(err))
	require.NoError(t, del.Execute(context.Background(), 3, first.ID))
	assert.NotContains(t, repo.rows, first.ID)
}
