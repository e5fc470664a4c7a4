package api

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"task-planner/internal/deadline"
	"task-planner/internal/model"
	"task-planner/internal/notify"
	"task-planner/internal/service"
	"task-planner/internal/tasklist"
)

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) GenerateToken(user model.User) (string, error) {
	args := m.Called(user)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ValidateToken(token string) (*service.Claims, error) {
	args := m.Called(token)
	claims, _ := args.Get(0).(*service.Claims)
	return claims, args.Error(1)
}

func (m *MockAuthService) HashPassword(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ComparePasswords(hashed, password string) error {
	return m.Called(hashed, password).Error(0)
}

type MockUserService struct{ mock.Mock }

func (m *MockUserService) Register(ctx context.Context, input service.RegisterInput) (*model.User, error) {
	args := m.Called(ctx, input)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, email, password, deviceToken string) (string, *model.User, error) {
	args := m.Called(ctx, email, password, deviceToken)
	user, _ := args.Get(1).(*model.User)
	return args.String(0), user, args.Error(2)
}

func (m *MockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *MockUserService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	return m.Called(ctx, userID, oldPassword, newPassword).Error(0)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID uuid.UUID, name string, avatar *string) (*model.User, error) {
	args := m.Called(ctx, userID, name, avatar)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *MockUserService) ForgotPassword(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockUserService) UpdateDeviceToken(ctx context.Context, userID uuid.UUID, deviceToken string) error {
	return m.Called(ctx, userID, deviceToken).Error(0)
}

type MockCategoryService struct{ mock.Mock }

func (m *MockCategoryService) List(ctx context.Context, userID uuid.UUID) ([]model.Category, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]model.Category)
	return list, args.Error(1)
}

func (m *MockCategoryService) Get(ctx context.Context, userID, categoryID uuid.UUID) (*model.Category, error) {
	args := m.Called(ctx, userID, categoryID)
	category, _ := args.Get(0).(*model.Category)
	return category, args.Error(1)
}

func (m *MockCategoryService) Create(ctx context.Context, userID uuid.UUID, input service.CategoryInput) (*model.Category, error) {
	args := m.Called(ctx, userID, input)
	category, _ := args.Get(0).(*model.Category)
	return category, args.Error(1)
}

func (m *MockCategoryService) Update(ctx context.Context, userID, categoryID uuid.UUID, input service.CategoryInput) (*model.Category, error) {
	args := m.Called(ctx, userID, categoryID, input)
	category, _ := args.Get(0).(*model.Category)
	return category, args.Error(1)
}

func (m *MockCategoryService) Delete(ctx context.Context, userID, categoryID uuid.UUID) error {
	return m.Called(ctx, userID, categoryID).Error(0)
}

type MockTaskService struct {
	mock.Mock
	now time.Time
}

func (m *MockTaskService) List(ctx context.Context, userID uuid.UUID) ([]model.Task, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]model.Task)
	return list, args.Error(1)
}

func (m *MockTaskService) View(ctx context.Context, userID uuid.UUID, q service.ViewQuery) (tasklist.Result, error) {
	args := m.Called(ctx, userID, q)
	res, _ := args.Get(0).(tasklist.Result)
	return res, args.Error(1)
}

func (m *MockTaskService) CategoryView(ctx context.Context, userID, categoryID uuid.UUID, q service.ViewQuery) (tasklist.Result, error) {
	args := m.Called(ctx, userID, categoryID, q)
	res, _ := args.Get(0).(tasklist.Result)
	return res, args.Error(1)
}

func (m *MockTaskService) ListByStatus(ctx context.Context, userID uuid.UUID, completed bool) ([]model.Task, error) {
	args := m.Called(ctx, userID, completed)
	list, _ := args.Get(0).([]model.Task)
	return list, args.Error(1)
}

func (m *MockTaskService) Get(ctx context.Context, userID, taskID uuid.UUID) (*model.Task, error) {
	args := m.Called(ctx, userID, taskID)
	task, _ := args.Get(0).(*model.Task)
	return task, args.Error(1)
}

func (m *MockTaskService) Create(ctx context.Context, userID uuid.UUID, input service.TaskInput) (*model.Task, error) {
	args := m.Called(ctx, userID, input)
	task, _ := args.Get(0).(*model.Task)
	return task, args.Error(1)
}

func (m *MockTaskService) Update(ctx context.Context, userID, taskID uuid.UUID, input service.TaskInput) (*model.Task, error) {
	args := m.Called(ctx, userID, taskID, input)
	task, _ := args.Get(0).(*model.Task)
	return task, args.Error(1)
}

func (m *MockTaskService) ToggleStatus(ctx context.Context, userID, taskID uuid.UUID) (*model.Task, error) {
	args := m.Called(ctx, userID, taskID)
	task, _ := args.Get(0).(*model.Task)
	return task, args.Error(1)
}

func (m *MockTaskService) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	return m.Called(ctx, userID, taskID).Error(0)
}

func (m *MockTaskService) DueDate(ctx context.Context, userID, taskID uuid.UUID) (deadline.Date, error) {
	args := m.Called(ctx, userID, taskID)
	due, _ := args.Get(0).(deadline.Date)
	return due, args.Error(1)
}

func (m *MockTaskService) Now() time.Time { return m.now }

type MockSummaryService struct{ mock.Mock }

func (m *MockSummaryService) Summary(ctx context.Context, userID uuid.UUID) (service.TaskSummary, error) {
	args := m.Called(ctx, userID)
	summary, _ := args.Get(0).(service.TaskSummary)
	return summary, args.Error(1)
}

type MockNotificationScheduler struct{ mock.Mock }

func (m *MockNotificationScheduler) TriggerNow(ctx context.Context) (notify.Summary, error) {
	args := m.Called(ctx)
	summary, _ := args.Get(0).(notify.Summary)
	return summary, args.Error(1)
}
