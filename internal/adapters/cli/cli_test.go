package cli_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"po-generator/internal/adapters/cli"
	"po-generator/internal/app"
	"po-generator/internal/core"
)

type fakeService struct {
	app.ApplicationService

	users    []core.User
	created  app.CreateUserRequest
	filter   core.UserFilter
	rendered struct{ userID, poID int }
}

func (f *fakeService) CreateUser(_ context.Context, req app.CreateUserRequest) (*app.UserResult, error) {
	for _, u := range f.users {
		if u.Username == req.Username {
			return nil, &core.ConflictError{Resource: "user", Value: req.Username}
		}
	}
	f.created = req
	return &app.UserResult{User: &core.User{
		ID:          3,
		Username:    req.Username,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		IsStaff:     req.IsStaff || req.IsSuperuser,
		IsSuperuser: req.IsSuperuser,
	}}, nil
}

func (f *fakeService) ListUsers(_ context.Context, filter core.UserFilter) (*app.UsersResult, error) {
	f.filter = filter
	return &app.UsersResult{Users: f.users}, nil
}

func (f *fakeService) RenderPurchaseOrder(_ context.Context, userID, poID int) (*app.DocumentResult, error) {
	f.rendered.userID, f.rendered.poID = userID, poID
	if poID != 7 {
		return nil, core.ErrNotFound
	}
	return &app.DocumentResult{Filename: "PO_CIT030725-1.pdf", ContentType: "application/pdf", Content: []byte("%PDF-test")}, nil
}

func (f *fakeService) OutlinePurchaseOrder(_ context.Context, _, _ int, w io.Writer) error {
	_, err := io.WriteString(w, "text<   7.50  0.90 \"PURCHASE ORDER\"\n")
	return err
}

type fakeRuntime struct {
	svc      *fakeService
	migrated bool
}

func (r *fakeRuntime) Service(context.Context) (app.ApplicationService, error) { return r.svc, nil }

func (r *fakeRuntime) Migrate(context.Context) error {
	r.migrated = true
	return nil
}

func run(t *testing.T, rt cli.Runtime, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCommand(rt)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func seededUsers() []core.User {
	login := time.Date(2025, 3, 7, 9, 30, 0, 0, time.UTC)
	return []core.User{
		{ID: 1, Username: "alice", FirstName: "Alice", LastName: "Nguyen", Email: "alice@example.com",
			IsStaff: true, IsActive: true, LastLogin: &login},
		{ID: 2, Username: "bob", IsActive: true},
	}
}

func TestUsersCreate(t *testing.T) {
	svc := &fakeService{}
	out, err := run(t, &fakeRuntime{svc: svc},
		"users", "create", "carol", "pw", "--email", "carol@example.com", "--first-name", "Carol", "--superuser")
	require.NoError(t, err)

	assert.Equal(t, "carol", svc.created.Username)
	assert.Equal(t, "pw", svc.created.Password)
	assert.True(t, svc.created.IsSuperuser)
	assert.Contains(t, out, `Successfully created user "carol"`)
	assert.Contains(t, out, "Full Name: Carol")
	assert.Contains(t, out, "Staff Status: Yes")
	assert.Contains(t, out, "Superuser Status: Yes")
}

func TestUsersCreate_Duplicate(t *testing.T) {
	svc := &fakeService{users: seededUsers()}
	_, err := run(t, &fakeRuntime{svc: svc}, "users", "create", "alice", "pw")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `user "alice" already exists`)
}

func TestUsersCreate_ArgCount(t *testing.T) {
	_, err := run(t, &fakeRuntime{svc: &fakeService{}}, "users", "create", "only-name")
	assert.Error(t, err)
}

func TestUsersList(t *testing.T) {
	svc := &fakeService{users: seededUsers()}
	out, err := run(t, &fakeRuntime{svc: svc}, "users", "list", "--active", "--staff")
	require.NoError(t, err)

	assert.Equal(t, core.UserFilter{ActiveOnly: true, StaffOnly: true}, svc.filter)
	assert.Contains(t, out, "Found 2 users:")
	assert.Contains(t, out, strings.Repeat("=", 80))

	lines := strings.Split(out, "\n")
	var alice, bob string
	for _, l := range lines {
		switch {
		case strings.HasPrefix(l, "1 "):
			alice = l
		case strings.HasPrefix(l, "2 "):
			bob = l
		}
	}
	assert.Contains(t, alice, "Alice Nguyen")
	assert.Contains(t, alice, "2025-03-07 09:30")
	assert.Contains(t, bob, "Never")
	assert.Contains(t, bob, " - ")
}

func TestUsersList_Empty(t *testing.T) {
	out, err := run(t, &fakeRuntime{svc: &fakeService{}}, "users", "list", "--superusers")
	require.NoError(t, err)
	assert.Contains(t, out, "No users found matching the criteria")
}

func TestPORender_WritesFile(t *testing.T) {
	svc := &fakeService{users: seededUsers()}
	target := filepath.Join(t.TempDir(), "out.pdf")

	_, err := run(t, &fakeRuntime{svc: svc}, "po", "render", "7", "--user", "alice", "-o", target)
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-test"), data)
	assert.Equal(t, 1, svc.rendered.userID)
	assert.Equal(t, 7, svc.rendered.poID)
}

func TestPORender_Stdout(t *testing.T) {
	svc := &fakeService{users: seededUsers()}
	out, err := run(t, &fakeRuntime{svc: svc}, "po", "render", "7", "--user", "bob", "-o", "-")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-test", out)
}

func TestPORender_Outline(t *testing.T) {
	svc := &fakeService{users: seededUsers()}
	out, err := run(t, &fakeRuntime{svc: svc}, "po", "render", "7", "--user", "alice", "--outline")
	require.NoError(t, err)
	assert.Contains(t, out, "PURCHASE ORDER")
}

func TestPORender_Errors(t *testing.T) {
	svc := &fakeService{users: seededUsers()}
	rt := &fakeRuntime{svc: svc}

	_, err := run(t, rt, "po", "render", "7")
	assert.Error(t, err, "--user is required")

	_, err = run(t, rt, "po", "render", "abc", "--user", "alice")
	assert.ErrorContains(t, err, "invalid purchase order id")

	_, err = run(t, rt, "po", "render", "7", "--user", "mallory")
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = run(t, rt, "po", "render", "8", "--user", "alice", "-o", "-")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestMigrate(t *testing.T) {
	rt := &fakeRuntime{svc: &fakeService{}}
	out, err := run(t, rt, "migrate")
	require.NoError(t, err)
	assert.True(t, rt.migrated)
	assert.Contains(t, out, "Migrations applied.")
}
