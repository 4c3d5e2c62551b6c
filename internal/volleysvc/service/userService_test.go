package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/volleyhub/volley-services/internal/volleysvc/apperr"
	"github.com/volleyhub/volley-services/internal/volleysvc/models"
)

type fakeUserStore struct {
	users map[string]*models.User
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	f := &fakeUserStore{users: map[string]*models.User{}}
	for _, u := range users {
		cp := *u
		f.users[u.ID] = &cp
	}
	return f
}

func (f *fakeUserStore) Create(ctx context.Context, user models.User) error {
	f.users[user.ID] = &user
	return nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, userID string) (*models.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) List(ctx context.Context) ([]*models.User, error) {
	var out []*models.User
	for _, u := range f.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeUserStore) ListByRole(ctx context.Context, role string) ([]*models.User, error) {
	var out []*models.User
	for _, u := range f.users {
		if u.Role == role {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeUserStore) UpdateRole(ctx context.Context, userID, role string, approvedAt *time.Time) (bool, error) {
	u, ok := f.users[userID]
	if !ok {
		return false, nil
	}
	u.Role = role
	if approvedAt != nil {
		u.ApprovedAt = approvedAt
	}
	return true, nil
}

func user(id, role string) *models.User {
	return &models.User{ID: id, Email: id + "@example.com", Name: id, Role: role, CreatedAt: time.Now()}
}

func TestGetOrCreateUserFirstSignIn(t *testing.T) {
	st := newFakeUserStore()
	svc := NewUserService(st)

	p := models.Principal{UserID: "uid-1", Email: "ada@example.com", Name: "Ada"}
	u, err := svc.GetOrCreateUser(context.Background(), p)
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}

	if u.Role != models.RoleGuest {
		t.Fatalf("role = %s, want guest", u.Role)
	}
	if u.ApprovedAt != nil {
		t.Fatal("fresh guest must not carry an approval stamp")
	}

	again, err := svc.GetOrCreateUser(context.Background(), p)
	if err != nil {
		t.Fatalf("second sign-in: %v", err)
	}
	if again.ID != u.ID || len(st.users) != 1 {
		t.Fatalf("second sign-in created a duplicate: %+v", st.users)
	}
}

func TestChangeRoleTransitions(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{models.RoleGuest, models.RoleCherry, true},
		{models.RoleGuest, models.RoleUser, true},
		{models.RoleGuest, models.RoleAdmin, true}, // direct escalation is allowed
		{models.RoleCherry, models.RoleUser, true},
		{models.RoleCherry, models.RoleAdmin, true},
		{models.RoleUser, models.RoleAdmin, true},
		{models.RoleUser, models.RoleCherry, false},
		{models.RoleUser, models.RoleGuest, false},
		{models.RoleCherry, models.RoleGuest, false},
		{models.RoleAdmin, models.RoleUser, false},
		{models.RoleAdmin, models.RoleGuest, false},
		{models.RoleGuest, models.RoleGuest, false},
		{models.RoleGuest, "owner", false},
	}

	for _, tc := range cases {
		st := newFakeUserStore(user("boss", models.RoleAdmin), user("target", tc.from))
		svc := NewUserService(st)

		u, err := svc.ChangeRole(context.Background(), "boss", "target", tc.to)
		if tc.ok {
			if err != nil {
				t.Fatalf("%s -> %s: unexpected error %v", tc.from, tc.to, err)
			}
			if u.Role != tc.to {
				t.Fatalf("%s -> %s: role = %s", tc.from, tc.to, u.Role)
			}
		} else if !apperr.IsValidation(err) {
			t.Fatalf("%s -> %s: expected validation error, got %v", tc.from, tc.to, err)
		}
	}
}

func TestChangeRoleApprovalStamp(t *testing.T) {
	st := newFakeUserStore(user("boss", models.RoleAdmin), user("newbie", models.RoleGuest))
	svc := NewUserService(st)

	u, err := svc.ChangeRole(context.Background(), "boss", "newbie", models.RoleUser)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if u.ApprovedAt == nil {
		t.Fatal("approval must stamp approvedAt")
	}
	stamp := *u.ApprovedAt

	// a later promotion leaves the stamp alone
	u, err = svc.ChangeRole(context.Background(), "boss", "newbie", models.RoleAdmin)
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	if u.ApprovedAt == nil || !u.ApprovedAt.Equal(stamp) {
		t.Fatalf("approvedAt moved: %v vs %v", u.ApprovedAt, stamp)
	}
}

func TestChangeRoleSelfGuard(t *testing.T) {
	st := newFakeUserStore(user("boss", models.RoleAdmin))
	svc := NewUserService(st)

	_, err := svc.ChangeRole(context.Background(), "boss", "boss", models.RoleUser)
	if !errors.Is(err, apperr.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
}

func TestChangeRoleNonAdminActor(t *testing.T) {
	st := newFakeUserStore(user("member", models.RoleUser), user("target", models.RoleGuest))
	svc := NewUserService(st)

	_, err := svc.ChangeRole(context.Background(), "member", "target", models.RoleUser)
	if !errors.Is(err, apperr.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
	if st.users["target"].Role != models.RoleGuest {
		t.Fatal("role changed despite denial")
	}
}

func TestChangeRoleTargetNotFound(t *testing.T) {
	st := newFakeUserStore(user("boss", models.RoleAdmin))
	svc := NewUserService(st)

	_, err := svc.ChangeRole(context.Background(), "boss", "ghost", models.RoleUser)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListPendingUsers(t *testing.T) {
	st := newFakeUserStore(
		user("boss", models.RoleAdmin),
		user("g1", models.RoleGuest),
		user("g2", models.RoleGuest),
		user("m1", models.RoleUser),
	)
	svc := NewUserService(st)

	pending, err := svc.ListPendingUsers(context.Background())
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending = %d, want 2", len(pending))
	}
	for _, u := range pending {
		if u.Role != models.RoleGuest {
			t.Fatalf("non-guest in pending list: %+v", u)
		}
	}
}
