package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fixora/helpdesk/internal/domain"
	"github.com/fixora/helpdesk/internal/repository"
)

type fakeUserRepo struct {
	nextID int64
	byID   map[int64]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[int64]domain.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, existing := range f.byID {
		if existing.Email == user.Email {
			return &pgconn.PgError{Code: "23505"}
		}
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.byID[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := f.byID[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.byID[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := user
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range f.byID {
		if user.Email == email {
			copied := user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetBySlackID(_ context.Context, slackUserID string) (*domain.User, error) {
	for _, user := range f.byID {
		if user.SlackUserID != nil && *user.SlackUserID == slackUserID {
			copied := user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) List(_ context.Context, filter repository.UserFilter) ([]domain.User, error) {
	var result []domain.User
	for _, user := range f.byID {
		if filter.Role != nil && user.Role != *filter.Role {
			continue
		}
		if len(filter.Roles) > 0 {
			matched := false
			for _, role := range filter.Roles {
				if user.Role == role {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		if filter.IsActive != nil && user.IsActive != *filter.IsActive {
			continue
		}
		result = append(result, user)
	}
	return result, nil
}

func (f *fakeUserRepo) seed(t *testing.T, svc *UserService, input CreateUserInput) *domain.User {
	t.Helper()
	user, err := svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestUserCreateNormalizesEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	user := repo.seed(t, svc, CreateUserInput{Email: "  Pat@Example.COM ", FullName: " Pat Doe "})
	if user.Email != "pat@example.com" {
		t.Errorf("email = %q, want lowercased", user.Email)
	}
	if user.Role != domain.UserRoleEmployee {
		t.Errorf("role = %s, want default employee", user.Role)
	}
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)
	repo.seed(t, svc, CreateUserInput{Email: "pat@example.com", FullName: "Pat"})

	_, err := svc.Create(context.Background(), CreateUserInput{Email: "pat@example.com", FullName: "Other"})
	if code := domainErrCode(t, err); code != "CONFLICT" {
		t.Errorf("code = %s, want CONFLICT", code)
	}
}

func TestUserGetByEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)
	seeded := repo.seed(t, svc, CreateUserInput{Email: "pat@example.com", FullName: "Pat"})

	found, err := svc.GetByEmail(context.Background(), " PAT@example.com ")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if found.ID != seeded.ID {
		t.Errorf("id = %d, want %d", found.ID, seeded.ID)
	}

	_, err = svc.GetByEmail(context.Background(), "nobody@example.com")
	if code := domainErrCode(t, err); code != "NOT_FOUND" {
		t.Errorf("code = %s, want NOT_FOUND", code)
	}
}

func TestUserGetBySlackID(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)
	slackID := "U0G9QF9C6"
	seeded := repo.seed(t, svc, CreateUserInput{
		Email: "pat@example.com", FullName: "Pat", SlackUserID: &slackID,
	})

	found, err := svc.GetBySlackID(context.Background(), slackID)
	if err != nil {
		t.Fatalf("get by slack id: %v", err)
	}
	if found.ID != seeded.ID {
		t.Errorf("id = %d, want %d", found.ID, seeded.ID)
	}

	_, err = svc.GetBySlackID(context.Background(), "U0MISSING")
	if code := domainErrCode(t, err); code != "NOT_FOUND" {
		t.Errorf("code = %s, want NOT_FOUND", code)
	}
}

func TestEnsureSlackUserProvisionsOnce(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	user, err := svc.EnsureSlackUser(context.Background(), "U0G9QF9C6")
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if user.Email != "u0g9qf9c6@slack.local" {
		t.Errorf("email = %q, want placeholder", user.Email)
	}
	if user.SlackUserID == nil || *user.SlackUserID != "U0G9QF9C6" {
		t.Errorf("slack id = %v, want U0G9QF9C6", user.SlackUserID)
	}
	if user.Role != domain.UserRoleEmployee {
		t.Errorf("role = %s, want employee", user.Role)
	}

	again, err := svc.EnsureSlackUser(context.Background(), "U0G9QF9C6")
	if err != nil {
		t.Fatalf("ensure again: %v", err)
	}
	if again.ID != user.ID {
		t.Errorf("second ensure created a new user: %d vs %d", again.ID, user.ID)
	}
	if len(repo.byID) != 1 {
		t.Errorf("directory size = %d, want 1", len(repo.byID))
	}
}

func TestITStaffFiltersRoles(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)
	repo.seed(t, svc, CreateUserInput{Email: "a@example.com", FullName: "A", Role: domain.UserRoleITSupport})
	repo.seed(t, svc, CreateUserInput{Email: "b@example.com", FullName: "B", Role: domain.UserRoleAdmin})
	repo.seed(t, svc, CreateUserInput{Email: "c@example.com", FullName: "C", Role: domain.UserRoleEmployee})
	inactive := repo.seed(t, svc, CreateUserInput{Email: "d@example.com", FullName: "D", Role: domain.UserRoleITSupport})

	deactivated := false
	if _, err := svc.Update(context.Background(), inactive.ID, UpdateUserInput{IsActive: &deactivated}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	staff, err := svc.ITStaff(context.Background())
	if err != nil {
		t.Fatalf("it staff: %v", err)
	}
	if len(staff) != 2 {
		t.Fatalf("staff = %d, want 2 (active it_support + admin)", len(staff))
	}
	for _, member := range staff {
		if member.Role != domain.UserRoleITSupport && member.Role != domain.UserRoleAdmin {
			t.Errorf("unexpected role %s in staff listing", member.Role)
		}
	}
}
