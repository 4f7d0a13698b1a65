package services

import (
	"context"
	"testing"
	"time"

	"turbocms/internal/models"
	"turbocms/internal/utils"
)

const testSecret = "test-secret"

func newTestAuthService() *AuthService {
	return NewAuthService(NewSyncEngine(nil, time.Second))
}

func TestLoginDefaultAdmin(t *testing.T) {
	svc := newTestAuthService()

	resp, err := svc.Login(context.Background(), "admin", "admin", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("вход зашитым админом должен проходить: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("ответ без access-токена")
	}
	if resp.Role != "admin" {
		t.Fatalf("ожидалась роль admin, получено: %s", resp.Role)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestAuthService()

	if _, err := svc.Login(context.Background(), "admin", "неверный", testSecret, time.Hour); err != ErrInvalidCredentials {
		t.Fatalf("ожидалась ErrInvalidCredentials, получено: %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newTestAuthService()

	if _, err := svc.Login(context.Background(), "никто", "admin", testSecret, time.Hour); err != ErrInvalidCredentials {
		t.Fatalf("ожидалась ErrInvalidCredentials, получено: %v", err)
	}
}

// Пароль, сохранённый bcrypt-хэшем, тоже принимается.
func TestLoginBcryptStoredPassword(t *testing.T) {
	svc := newTestAuthService()
	ctx := context.Background()

	hash, err := utils.HashPassword("секрет123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if _, err := svc.CreateUser(ctx, models.UpsertUserRequest{Username: "mechanic", Password: hash}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if _, err := svc.Login(ctx, "mechanic", "секрет123", testSecret, time.Hour); err != nil {
		t.Fatalf("вход по bcrypt-хэшу должен проходить: %v", err)
	}
	if _, err := svc.Login(ctx, "mechanic", "другой", testSecret, time.Hour); err != ErrInvalidCredentials {
		t.Fatalf("неверный пароль при bcrypt-хэше: ожидалась ErrInvalidCredentials, получено %v", err)
	}
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	svc := newTestAuthService()

	if _, err := svc.CreateUser(context.Background(), models.UpsertUserRequest{Username: "admin", Password: "x"}); err != ErrUsernameTaken {
		t.Fatalf("ожидалась ErrUsernameTaken, получено: %v", err)
	}
}

func TestListUsersHidesPasswords(t *testing.T) {
	svc := newTestAuthService()

	users, err := svc.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) == 0 {
		t.Fatal("дефолтный пользователь должен присутствовать")
	}
	for _, u := range users {
		if u.Password != "" {
			t.Fatalf("пароль пользователя %s не должен отдаваться наружу", u.Username)
		}
	}
}

func TestDeleteLastUserForbidden(t *testing.T) {
	svc := newTestAuthService()
	ctx := context.Background()

	users, _ := svc.ListUsers(ctx)
	if len(users) != 1 {
		t.Fatalf("ожидался единственный дефолтный пользователь, получено: %d", len(users))
	}
	if err := svc.DeleteUser(ctx, users[0].ID); err == nil {
		t.Fatal("удаление последнего пользователя должно запрещаться")
	}

	// С двумя пользователями удаление работает.
	created, err := svc.CreateUser(ctx, models.UpsertUserRequest{Username: "second", Password: "x"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := svc.DeleteUser(ctx, created.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
}

func TestUpdateUserChangesRole(t *testing.T) {
	svc := newTestAuthService()
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, models.UpsertUserRequest{Username: "editor", Password: "x"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := svc.UpdateUser(ctx, created.ID, models.UpsertUserRequest{Role: "viewer"}); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	users, _ := svc.ListUsers(ctx)
	for _, u := range users {
		if u.ID == created.ID && u.Role != "viewer" {
			t.Fatalf("роль не обновилась: %s", u.Role)
		}
	}

	if err := svc.UpdateUser(ctx, "нет-такого", models.UpsertUserRequest{Role: "x"}); err != ErrUserNotFound {
		t.Fatalf("ожидалась ErrUserNotFound, получено: %v", err)
	}
}
