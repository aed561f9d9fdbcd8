package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/fareaz/eTuitionBd-Server/internal/errdefs"
	"github.com/fareaz/eTuitionBd-Server/internal/model"
	"github.com/fareaz/eTuitionBd-Server/internal/service"
	"github.com/fareaz/eTuitionBd-Server/internal/service/mocks"
)

func setupUser(t *testing.T) (*gomock.Controller, *service.UserService, *mocks.MockUserRepository, *mocks.MockCache) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserRepository(ctrl)
	cacheMock := mocks.NewMockCache(ctrl)
	return ctrl, service.NewUserService(users, cacheMock), users, cacheMock
}

func TestUserUpsert(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		ctrl, svc, users, cacheMock := setupUser(t)
		defer ctrl.Finish()

		input := &model.UpsertUserInput{Email: "new@example.com", Name: "New User"}
		users.EXPECT().Upsert(gomock.Any(), input).
			DoAndReturn(func(_ context.Context, in *model.UpsertUserInput) (*model.User, error) {
				assert.Equal(t, string(model.RoleStudent), in.Role)
				return &model.User{Id: uuid.New(), Email: in.Email, Role: model.RoleStudent}, nil
			})
		cacheMock.EXPECT().Delete(gomock.Any(), "role:new@example.com")

		user, err := svc.Upsert(context.Background(), input)
		assert.NoError(t, err)
		assert.Equal(t, model.RoleStudent, user.Role)
	})

	t.Run("Error_EmptyEmail", func(t *testing.T) {
		_, svc, _, _ := setupUser(t)

		_, err := svc.Upsert(context.Background(), &model.UpsertUserInput{Name: "No Email"})
		assert.True(t, errors.Is(err, errdefs.ErrInvalidArgument))
	})

	t.Run("Error_UnknownRole", func(t *testing.T) {
		_, svc, _, _ := setupUser(t)

		_, err := svc.Upsert(context.Background(), &model.UpsertUserInput{Email: "new@example.com", Role: "superuser"})
		assert.True(t, errors.Is(err, errdefs.ErrInvalidArgument))
	})
}

func TestUserGetRole(t *testing.T) {
	t.Run("CacheHit", func(t *testing.T) {
		ctrl, svc, _, cacheMock := setupUser(t)
		defer ctrl.Finish()

		cacheMock.EXPECT().Get(gomock.Any(), "role:tutor@example.com").Return([]byte("tutor"), true)

		role, err := svc.GetRole(context.Background(), "tutor@example.com")
		assert.NoError(t, err)
		assert.Equal(t, model.RoleTutor, role)
	})

	t.Run("CacheMissFillsCache", func(t *testing.T) {
		ctrl, svc, users, cacheMock := setupUser(t)
		defer ctrl.Finish()

		cacheMock.EXPECT().Get(gomock.Any(), "role:admin@example.com").Return(nil, false)
		users.EXPECT().GetByEmail(gomock.Any(), "admin@example.com").
			Return(userWithRole("admin@example.com", model.RoleAdmin), nil)
		cacheMock.EXPECT().Set(gomock.Any(), "role:admin@example.com", []byte("admin"), gomock.Any())

		role, err := svc.GetRole(context.Background(), "admin@example.com")
		assert.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, role)
	})

	t.Run("UnknownUserDefaultsToStudent", func(t *testing.T) {
		ctrl, svc, users, cacheMock := setupUser(t)
		defer ctrl.Finish()

		cacheMock.EXPECT().Get(gomock.Any(), "role:ghost@example.com").Return(nil, false)
		users.EXPECT().GetByEmail(gomock.Any(), "ghost@example.com").Return(nil, errdefs.ErrNotFound)

		role, err := svc.GetRole(context.Background(), "ghost@example.com")
		assert.NoError(t, err)
		assert.Equal(t, model.RoleStudent, role)
	})
}

func TestUserUpdate(t *testing.T) {
	name := "Renamed"

	t.Run("AdminUpdates", func(t *testing.T) {
		ctrl, svc, users, cacheMock := setupUser(t)
		defer ctrl.Finish()

		id := uuid.New()
		users.EXPECT().GetByEmail(gomock.Any(), "admin@example.com").
			Return(userWithRole("admin@example.com", model.RoleAdmin), nil)
		users.EXPECT().Update(gomock.Any(), id, gomock.Any()).
			Return(&model.User{Id: id, Email: "target@example.com", Name: name}, nil)
		cacheMock.EXPECT().Delete(gomock.Any(), "role:target@example.com")

		user, err := svc.Update(ctxWithEmail("admin@example.com"), id.String(), &model.UpdateUserInput{Name: &name})
		assert.NoError(t, err)
		assert.Equal(t, name, user.Name)
	})

	t.Run("Error_NonAdmin", func(t *testing.T) {
		ctrl, svc, users, _ := setupUser(t)
		defer ctrl.Finish()

		users.EXPECT().GetByEmail(gomock.Any(), "student@example.com").
			Return(userWithRole("student@example.com", model.RoleStudent), nil)

		_, err := svc.Update(ctxWithEmail("student@example.com"), uuid.NewString(), &model.UpdateUserInput{Name: &name})
		assert.True(t, errors.Is(err, errdefs.ErrPermissionDenied))
	})

	t.Run("Error_UnknownIdentity", func(t *testing.T) {
		// A verified email with no user record gets the empty role, not
		// a student default, and is still denied.
		ctrl, svc, users, _ := setupUser(t)
		defer ctrl.Finish()

		users.EXPECT().GetByEmail(gomock.Any(), "ghost@example.com").Return(nil, errdefs.ErrNotFound)

		_, err := svc.Update(ctxWithEmail("ghost@example.com"), uuid.NewString(), &model.UpdateUserInput{Name: &name})
		assert.True(t, errors.Is(err, errdefs.ErrPermissionDenied))
	})

	t.Run("Error_NoFields", func(t *testing.T) {
		ctrl, svc, users, _ := setupUser(t)
		defer ctrl.Finish()

		users.EXPECT().GetByEmail(gomock.Any(), "admin@example.com").
			Return(userWithRole("admin@example.com", model.RoleAdmin), nil)

		_, err := svc.Update(ctxWithEmail("admin@example.com"), uuid.NewString(), &model.UpdateUserInput{})
		assert.True(t, errors.Is(err, errdefs.ErrInvalidArgument))
	})
}

func TestUserSetRole(t *testing.T) {
	t.Run("AdminPromotes", func(t *testing.T) {
		ctrl, svc, users, cacheMock := setupUser(t)
		defer ctrl.Finish()

		id := uuid.New()
		users.EXPECT().GetByEmail(gomock.Any(), "admin@example.com").
			Return(userWithRole("admin@example.com", model.RoleAdmin), nil)
		users.EXPECT().SetRole(gomock.Any(), id, model.RoleTutor).
			Return(&model.User{Id: id, Email: "target@example.com", Role: model.RoleTutor}, nil)
		cacheMock.EXPECT().Delete(gomock.Any(), "role:target@example.com")

		user, err := svc.SetRole(ctxWithEmail("admin@example.com"), id.String(), "tutor")
		assert.NoError(t, err)
		assert.Equal(t, model.RoleTutor, user.Role)
	})

	t.Run("Error_UnknownRole", func(t *testing.T) {
		ctrl, svc, users, _ := setupUser(t)
		defer ctrl.Finish()

		users.EXPECT().GetByEmail(gomock.Any(), "admin@example.com").
			Return(userWithRole("admin@example.com", model.RoleAdmin), nil)

		_, err := svc.SetRole(ctxWithEmail("admin@example.com"), uuid.NewString(), "superuser")
		assert.True(t, errors.Is(err, errdefs.ErrInvalidArgument))
	})
}

func TestUserDelete(t *testing.T) {
	t.Run("AdminDeletes", func(t *testing.T) {
		ctrl, svc, users, _ := setupUser(t)
		defer ctrl.Finish()

		id := uuid.New()
		users.EXPECT().GetByEmail(gomock.Any(), "admin@example.com").
			Return(userWithRole("admin@example.com", model.RoleAdmin), nil)
		users.EXPECT().Delete(gomock.Any(), id).Return(nil)

		err := svc.Delete(ctxWithEmail("admin@example.com"), id.String())
		assert.NoError(t, err)
	})

	t.Run("Error_MalformedId", func(t *testing.T) {
		ctrl, svc, users, _ := setupUser(t)
		defer ctrl.Finish()

		users.EXPECT().GetByEmail(gomock.Any(), "admin@example.com").
			Return(userWithRole("admin@example.com", model.RoleAdmin), nil)

		err := svc.Delete(ctxWithEmail("admin@example.com"), "nope")
		assert.True(t, errors.Is(err, errdefs.ErrNotFound))
	})
}
