package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/safespender/safespender-backend/internal/domain"
	"github.com/safespender/safespender-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users    map[string]*domain.User
	ByID     map[uuid.UUID]*domain.User
	CreateFn func(auth0ID, email string, name, pictureURL *string) (*domain.User, error)
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
		ByID:  make(map[uuid.UUID]*domain.User),
	}
}

func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByAuth0ID(auth0ID string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) Create(user *domain.User) (*domain.User, error) {
	user.ID = uuid.New()
	m.AddUser(user)
	return user, nil
}

func (m *MockUserRepository) Update(user *domain.User) (*domain.User, error) {
	if _, ok := m.ByID[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	m.AddUser(user)
	return user, nil
}

func (m *MockUserRepository) UpdateName(auth0ID string, name string) (*domain.User, error) {
	user, ok := m.Users[auth0ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user.Name = &name
	return user, nil
}

func (m *MockUserRepository) CreateOrGetByAuth0ID(auth0ID, email string, name, pictureURL *string) (*domain.User, error) {
	if m.CreateFn != nil {
		return m.CreateFn(auth0ID, email, name, pictureURL)
	}
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	user := &domain.User{
		ID:         uuid.New(),
		Auth0ID:    auth0ID,
		Email:      email,
		Name:       name,
		PictureURL: pictureURL,
	}
	m.AddUser(user)
	return user, nil
}

// AddUser seeds a user
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.Users[user.Auth0ID] = user
	m.ByID[user.ID] = user
}

// MockWorkspaceRepository is a mock implementation of domain.WorkspaceRepository
type MockWorkspaceRepository struct {
	Workspaces    map[int32]*domain.Workspace
	ByUserID      map[uuid.UUID]*domain.Workspace
	ByUserAuth0ID map[string]*domain.Workspace
	NextID        int32
	GetByUserIDFn func(userID uuid.UUID) (*domain.Workspace, error)
}

// NewMockWorkspaceRepository creates a new MockWorkspaceRepository
func NewMockWorkspaceRepository() *MockWorkspaceRepository {
	return &MockWorkspaceRepository{
		Workspaces:    make(map[int32]*domain.Workspace),
		ByUserID:      make(map[uuid.UUID]*domain.Workspace),
		ByUserAuth0ID: make(map[string]*domain.Workspace),
		NextID:        1,
	}
}

func (m *MockWorkspaceRepository) GetByID(id int32) (*domain.Workspace, error) {
	if ws, ok := m.Workspaces[id]; ok {
		return ws, nil
	}
	return nil, domain.ErrWorkspaceNotFound
}

func (m *MockWorkspaceRepository) GetByUserID(userID uuid.UUID) (*domain.Workspace, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(userID)
	}
	if ws, ok := m.ByUserID[userID]; ok {
		return ws, nil
	}
	return nil, domain.ErrWorkspaceNotFound
}

func (m *MockWorkspaceRepository) GetByUserAuth0ID(auth0ID string) (*domain.Workspace, error) {
	if ws, ok := m.ByUserAuth0ID[auth0ID]; ok {
		return ws, nil
	}
	return nil, domain.ErrWorkspaceNotFound
}

func (m *MockWorkspaceRepository) Create(workspace *domain.Workspace) (*domain.Workspace, error) {
	workspace.ID = m.NextID
	m.NextID++
	m.Workspaces[workspace.ID] = workspace
	m.ByUserID[workspace.UserID] = workspace
	return workspace, nil
}

func (m *MockWorkspaceRepository) Update(workspace *domain.Workspace) (*domain.Workspace, error) {
	if _, ok := m.Workspaces[workspace.ID]; !ok {
		return nil, domain.ErrWorkspaceNotFound
	}
	m.Workspaces[workspace.ID] = workspace
	m.ByUserID[workspace.UserID] = workspace
	return workspace, nil
}

func (m *MockWorkspaceRepository) Delete(id int32) error {
	ws, ok := m.Workspaces[id]
	if !ok {
		return domain.ErrWorkspaceNotFound
	}
	delete(m.Workspaces, id)
	delete(m.ByUserID, ws.UserID)
	return nil
}

// AddWorkspace seeds a workspace, optionally indexed by the owner's Auth0 ID
func (m *MockWorkspaceRepository) AddWorkspace(workspace *domain.Workspace, auth0ID string) {
	m.Workspaces[workspace.ID] = workspace
	m.ByUserID[workspace.UserID] = workspace
	if auth0ID != "" {
		m.ByUserAuth0ID[auth0ID] = workspace
	}
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions map[int32]*domain.Transaction
	NextID       int32
	CreateFn     func(transaction *domain.Transaction) (*domain.Transaction, error)
	ListFn       func(workspaceID int32, filters *domain.TransactionFilters) ([]*domain.Transaction, error)
	DeleteFn     func(workspaceID int32, id int32) error
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[int32]*domain.Transaction),
		NextID:       1,
	}
}

func (m *MockTransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	if m.CreateFn != nil {
		return m.CreateFn(transaction)
	}
	transaction.ID = m.NextID
	m.NextID++
	transaction.CreatedAt = time.Now()
	transaction.UpdatedAt = transaction.CreatedAt
	m.Transactions[transaction.ID] = transaction
	return transaction, nil
}

func (m *MockTransactionRepository) GetByID(workspaceID int32, id int32) (*domain.Transaction, error) {
	transaction, ok := m.Transactions[id]
	if !ok || transaction.WorkspaceID != workspaceID {
		return nil, domain.ErrTransactionNotFound
	}
	return transaction, nil
}

// ListByWorkspace returns matching transactions ordered by date, then id
func (m *MockTransactionRepository) ListByWorkspace(workspaceID int32, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	if m.ListFn != nil {
		return m.ListFn(workspaceID, filters)
	}
	result := []*domain.Transaction{}
	for _, t := range m.Transactions {
		if t.WorkspaceID != workspaceID {
			continue
		}
		if filters != nil {
			if filters.From != nil && t.Date.Before(*filters.From) {
				continue
			}
			if filters.To != nil && t.Date.After(*filters.To) {
				continue
			}
			if filters.Kind != nil && t.Kind != *filters.Kind {
				continue
			}
		}
		result = append(result, t)
	}
	slices.SortFunc(result, func(a, b *domain.Transaction) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return int(a.ID - b.ID)
	})
	return result, nil
}

func (m *MockTransactionRepository) Update(transaction *domain.Transaction) (*domain.Transaction, error) {
	existing, ok := m.Transactions[transaction.ID]
	if !ok || existing.WorkspaceID != transaction.WorkspaceID {
		return nil, domain.ErrTransactionNotFound
	}
	transaction.CreatedAt = existing.CreatedAt
	transaction.UpdatedAt = time.Now()
	m.Transactions[transaction.ID] = transaction
	return transaction, nil
}

func (m *MockTransactionRepository) Delete(workspaceID int32, id int32) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(workspaceID, id)
	}
	if _, err := m.GetByID(workspaceID, id); err != nil {
		return err
	}
	delete(m.Transactions, id)
	return nil
}

// AddTransaction seeds a transaction, assigning an ID when missing
func (m *MockTransactionRepository) AddTransaction(transaction *domain.Transaction) {
	if transaction.ID == 0 {
		transaction.ID = m.NextID
	}
	if transaction.ID >= m.NextID {
		m.NextID = transaction.ID + 1
	}
	m.Transactions[transaction.ID] = transaction
}

// MockExpenseRepository is a mock implementation of domain.ExpenseRepository
type MockExpenseRepository struct {
	Expenses map[int32]*domain.ExpenseDefinition
	NextID   int32
	ListFn   func(workspaceID int32) ([]*domain.ExpenseDefinition, error)
}

// NewMockExpenseRepository creates a new MockExpenseRepository
func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{
		Expenses: make(map[int32]*domain.ExpenseDefinition),
		NextID:   1,
	}
}

func (m *MockExpenseRepository) Create(expense *domain.ExpenseDefinition) (*domain.ExpenseDefinition, error) {
	expense.ID = m.NextID
	m.NextID++
	expense.UpdatedAt = time.Now()
	m.Expenses[expense.ID] = expense
	return expense, nil
}

func (m *MockExpenseRepository) GetByID(workspaceID int32, id int32) (*domain.ExpenseDefinition, error) {
	expense, ok := m.Expenses[id]
	if !ok || expense.WorkspaceID != workspaceID {
		return nil, domain.ErrExpenseNotFound
	}
	return expense, nil
}

func (m *MockExpenseRepository) ListByWorkspace(workspaceID int32) ([]*domain.ExpenseDefinition, error) {
	if m.ListFn != nil {
		return m.ListFn(workspaceID)
	}
	result := []*domain.ExpenseDefinition{}
	for _, e := range m.Expenses {
		if e.WorkspaceID == workspaceID {
			result = append(result, e)
		}
	}
	slices.SortFunc(result, func(a, b *domain.ExpenseDefinition) int { return int(a.ID - b.ID) })
	return result, nil
}

func (m *MockExpenseRepository) Update(expense *domain.ExpenseDefinition) (*domain.ExpenseDefinition, error) {
	if _, err := m.GetByID(expense.WorkspaceID, expense.ID); err != nil {
		return nil, err
	}
	expense.UpdatedAt = time.Now()
	m.Expenses[expense.ID] = expense
	return expense, nil
}

func (m *MockExpenseRepository) Delete(workspaceID int32, id int32) error {
	if _, err := m.GetByID(workspaceID, id); err != nil {
		return err
	}
	delete(m.Expenses, id)
	return nil
}

// AddExpense seeds an expense definition
func (m *MockExpenseRepository) AddExpense(expense *domain.ExpenseDefinition) {
	if expense.ID >= m.NextID {
		m.NextID = expense.ID + 1
	}
	m.Expenses[expense.ID] = expense
}

// MockSavingsGoalRepository is a mock implementation of domain.SavingsGoalRepository
type MockSavingsGoalRepository struct {
	Goals    map[int32]*domain.SavingsGoal
	NextID   int32
	ListFn   func(workspaceID int32) ([]*domain.SavingsGoal, error)
	AdjustFn func(workspaceID int32, id int32, delta decimal.Decimal) (*domain.SavingsGoal, error)
}

// NewMockSavingsGoalRepository creates a new MockSavingsGoalRepository
func NewMockSavingsGoalRepository() *MockSavingsGoalRepository {
	return &MockSavingsGoalRepository{
		Goals:  make(map[int32]*domain.SavingsGoal),
		NextID: 1,
	}
}

func (m *MockSavingsGoalRepository) Create(goal *domain.SavingsGoal) (*domain.SavingsGoal, error) {
	goal.ID = m.NextID
	m.NextID++
	goal.CreatedAt = time.Now()
	goal.UpdatedAt = goal.CreatedAt
	m.Goals[goal.ID] = goal
	return goal, nil
}

func (m *MockSavingsGoalRepository) GetByID(workspaceID int32, id int32) (*domain.SavingsGoal, error) {
	goal, ok := m.Goals[id]
	if !ok || goal.WorkspaceID != workspaceID {
		return nil, domain.ErrSavingsGoalNotFound
	}
	return goal, nil
}

func (m *MockSavingsGoalRepository) ListByWorkspace(workspaceID int32) ([]*domain.SavingsGoal, error) {
	if m.ListFn != nil {
		return m.ListFn(workspaceID)
	}
	result := []*domain.SavingsGoal{}
	for _, g := range m.Goals {
		if g.WorkspaceID == workspaceID {
			result = append(result, g)
		}
	}
	slices.SortFunc(result, func(a, b *domain.SavingsGoal) int { return int(a.ID - b.ID) })
	return result, nil
}

func (m *MockSavingsGoalRepository) Update(goal *domain.SavingsGoal) (*domain.SavingsGoal, error) {
	existing, err := m.GetByID(goal.WorkspaceID, goal.ID)
	if err != nil {
		return nil, err
	}
	goal.CreatedAt = existing.CreatedAt
	goal.UpdatedAt = time.Now()
	m.Goals[goal.ID] = goal
	return goal, nil
}

// AdjustCurrentAmount mirrors the database check that keeps current_amount non-negative
func (m *MockSavingsGoalRepository) AdjustCurrentAmount(workspaceID int32, id int32, delta decimal.Decimal) (*domain.SavingsGoal, error) {
	if m.AdjustFn != nil {
		return m.AdjustFn(workspaceID, id, delta)
	}
	goal, err := m.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}
	next := goal.CurrentAmount.Add(delta)
	if next.IsNegative() {
		return nil, domain.ErrExceedsGoalBalance
	}
	goal.CurrentAmount = next
	goal.UpdatedAt = time.Now()
	return goal, nil
}

func (m *MockSavingsGoalRepository) Delete(workspaceID int32, id int32) error {
	if _, err := m.GetByID(workspaceID, id); err != nil {
		return err
	}
	delete(m.Goals, id)
	return nil
}

// AddGoal seeds a savings goal
func (m *MockSavingsGoalRepository) AddGoal(goal *domain.SavingsGoal) {
	if goal.ID >= m.NextID {
		m.NextID = goal.ID + 1
	}
	m.Goals[goal.ID] = goal
}

// MockSalaryScheduleRepository is a mock implementation of domain.SalaryScheduleRepository
type MockSalaryScheduleRepository struct {
	Schedules map[int32]*domain.SalarySchedule
	NextID    int32
	GetFn     func(workspaceID int32) (*domain.SalarySchedule, error)
}

// NewMockSalaryScheduleRepository creates a new MockSalaryScheduleRepository
func NewMockSalaryScheduleRepository() *MockSalaryScheduleRepository {
	return &MockSalaryScheduleRepository{
		Schedules: make(map[int32]*domain.SalarySchedule),
		NextID:    1,
	}
}

func (m *MockSalaryScheduleRepository) GetByWorkspace(workspaceID int32) (*domain.SalarySchedule, error) {
	if m.GetFn != nil {
		return m.GetFn(workspaceID)
	}
	schedule, ok := m.Schedules[workspaceID]
	if !ok {
		return nil, domain.ErrSalaryScheduleNotFound
	}
	return schedule, nil
}

func (m *MockSalaryScheduleRepository) Upsert(schedule *domain.SalarySchedule) (*domain.SalarySchedule, error) {
	if existing, ok := m.Schedules[schedule.WorkspaceID]; ok {
		schedule.ID = existing.ID
	} else {
		schedule.ID = m.NextID
		m.NextID++
	}
	schedule.UpdatedAt = time.Now()
	m.Schedules[schedule.WorkspaceID] = schedule
	return schedule, nil
}

func (m *MockSalaryScheduleRepository) Delete(workspaceID int32) error {
	if _, ok := m.Schedules[workspaceID]; !ok {
		return domain.ErrSalaryScheduleNotFound
	}
	delete(m.Schedules, workspaceID)
	return nil
}

// MockProfileRepository is a mock implementation of domain.ProfileRepository
type MockProfileRepository struct {
	Profiles map[int32]*domain.FinancialProfile
	GetFn    func(workspaceID int32) (*domain.FinancialProfile, error)
	UpsertFn func(profile *domain.FinancialProfile) (*domain.FinancialProfile, error)
}

// NewMockProfileRepository creates a new MockProfileRepository
func NewMockProfileRepository() *MockProfileRepository {
	return &MockProfileRepository{Profiles: make(map[int32]*domain.FinancialProfile)}
}

func (m *MockProfileRepository) GetByWorkspace(workspaceID int32) (*domain.FinancialProfile, error) {
	if m.GetFn != nil {
		return m.GetFn(workspaceID)
	}
	profile, ok := m.Profiles[workspaceID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return profile, nil
}

func (m *MockProfileRepository) Upsert(profile *domain.FinancialProfile) (*domain.FinancialProfile, error) {
	if m.UpsertFn != nil {
		return m.UpsertFn(profile)
	}
	profile.UpdatedAt = time.Now()
	m.Profiles[profile.WorkspaceID] = profile
	return profile, nil
}

// MockObjectStore keeps uploaded objects in memory
type MockObjectStore struct {
	Objects  map[string][]byte
	Types    map[string]string
	UploadFn func(objectPath string) error
	mu       sync.Mutex
}

// NewMockObjectStore creates a new MockObjectStore
func NewMockObjectStore() *MockObjectStore {
	return &MockObjectStore{
		Objects: make(map[string][]byte),
		Types:   make(map[string]string),
	}
}

func (m *MockObjectStore) Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	if m.UploadFn != nil {
		if err := m.UploadFn(objectPath); err != nil {
			return "", err
		}
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, data); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[objectPath] = buf.Bytes()
	m.Types[objectPath] = contentType
	return objectPath, nil
}

func (m *MockObjectStore) Delete(ctx context.Context, objectPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, objectPath)
	delete(m.Types, objectPath)
	return nil
}

func (m *MockObjectStore) GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error) {
	return fmt.Sprintf("https://storage.test/%s?expires=%d", objectPath, int(expiry.Seconds())), nil
}

func (m *MockObjectStore) GeneratePresignedDownloadURL(ctx context.Context, objectPath, filename string, expiry time.Duration) (string, error) {
	return fmt.Sprintf("https://storage.test/%s?filename=%s&expires=%d", objectPath, filename, int(expiry.Seconds())), nil
}

// PublishedEvent is one event captured by MockEventPublisher
type PublishedEvent struct {
	WorkspaceID int32
	Event       websocket.Event
}

// MockEventPublisher records every published event
type MockEventPublisher struct {
	Events []PublishedEvent
	mu     sync.Mutex
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

func (m *MockEventPublisher) Publish(workspaceID int32, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{WorkspaceID: workspaceID, Event: event})
}

// Types returns the combined type of every captured event in publish order
func (m *MockEventPublisher) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.Events))
	for i, e := range m.Events {
		types[i] = e.Event.Type
	}
	return types
}
