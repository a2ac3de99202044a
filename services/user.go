package services

import (
	"context"

	appContext "github.com/alphabatem/common/context"
	"github.com/focusflow/focusflow_api/dto"
	"github.com/focusflow/focusflow_api/model"
)

type UserService struct {
	appContext.DefaultService

	users UserStore
}

const USER_SVC = "user_svc"

func (svc UserService) Id() string {
	return USER_SVC
}

func (svc *UserService) Configure(ctx *appContext.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *UserService) Start() error {
	svc.users = svc.Service(DATABASE_SVC).(*DatabaseService).Users()
	return nil
}

func (svc *UserService) GetUserByID(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := svc.users.GetUser(ctx, userID)
	if err != nil {
		return nil, userLookupError(err, userID)
	}
	return toUserResponse(user), nil
}

func (svc *UserService) GetUserByUUID(ctx context.Context, userUUID string) (*dto.UserResponse, error) {
	user, err := svc.users.GetUserByUUID(ctx, userUUID)
	if err != nil {
		return nil, userLookupError(err, userUUID)
	}
	return toUserResponse(user), nil
}

func toUserResponse(user *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        user.ID,
		UUID:      user.UUID,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	}
}
