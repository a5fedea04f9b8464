package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/dakshcoder1/Capstone-project-Final/internal/models"
	"github.com/dakshcoder1/Capstone-project-Final/internal/services"
	"golang.org/x/crypto/bcrypt"
)

// fakeUserService is an in-memory services.UserServiceProvider.
type fakeUserService struct {
	users   map[int64]models.User
	hashes  map[int64]string
	nextID  int64
	history *fakeHistoryService // cascade target, may be nil
}

func newFakeUserService() *fakeUserService {
	return &fakeUserService{
		users:  make(map[int64]models.User),
		hashes: make(map[int64]string),
	}
}

func (f *fakeUserService) Register(username, email, password string) (models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return models.User{}, services.ErrEmailTaken
		}
		if u.Username == username {
			return models.User{}, services.ErrUsernameTaken
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return models.User{}, err
	}
	f.nextID++
	user := models.User{
		ID:        f.nextID,
		Username:  username,
		Email:     email,
		CreatedAt: time.Now(),
	}
	f.users[user.ID] = user
	f.hashes[user.ID] = string(hash)
	return user, nil
}

func (f *fakeUserService) Authenticate(email, password string) (models.User, error) {
	for id, u := range f.users {
		if u.Email != email {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(f.hashes[id]), []byte(password)) != nil {
			return models.User{}, services.ErrInvalidCredentials
		}
		return u, nil
	}
	return models.User{}, services.ErrInvalidCredentials
}

func (f *fakeUserService) GetUserByID(id int64) (models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return models.User{}, services.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserService) GetAllUsers() ([]models.User, error) {
	users := make([]models.User, 0, len(f.users))
	for id := int64(1); id <= f.nextID; id++ {
		if user, ok := f.users[id]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

func (f *fakeUserService) DeleteUser(id int64) error {
	if _, ok := f.users[id]; !ok {
		return services.ErrUserNotFound
	}
	delete(f.users, id)
	delete(f.hashes, id)
	if f.history != nil {
		f.history.deleteForUser(id)
	}
	return nil
}

func (f *fakeUserService) CountUsers() (int, error) {
	return len(f.users), nil
}

// addUser seeds an account directly, bypassing registration.
func (f *fakeUserService) addUser(username, email string, isAdmin bool) models.User {
	f.nextID++
	user := models.User{
		ID:        f.nextID,
		Username:  username,
		Email:     email,
		IsAdmin:   isAdmin,
		CreatedAt: time.Now(),
	}
	f.users[user.ID] = user
	return user
}

// fakeHistoryService is an in-memory services.HistoryServiceProvider.
type fakeHistoryService struct {
	records   []models.HistoryRecord
	nextID    int64
	appendErr error
}

func newFakeHistoryService() *fakeHistoryService {
	return &fakeHistoryService{}
}

func (f *fakeHistoryService) Append(record models.HistoryRecord) (models.HistoryRecord, error) {
	if f.appendErr != nil {
		return models.HistoryRecord{}, f.appendErr
	}
	f.nextID++
	record.ID = f.nextID
	record.CreatedAt = time.Now()
	f.records = append(f.records, record)
	return record, nil
}

func (f *fakeHistoryService) GetForUser(userID int64) ([]models.HistoryRecord, error) {
	var owned []models.HistoryRecord
	for _, record := range f.records {
		if record.UserID == userID {
			owned = append(owned, record)
		}
	}
	return owned, nil
}

func (f *fakeHistoryService) GetAll() ([]models.HistoryRecord, error) {
	return append([]models.HistoryRecord(nil), f.records...), nil
}

func (f *fakeHistoryService) CountRecords() (int, error) {
	return len(f.records), nil
}

func (f *fakeHistoryService) deleteForUser(userID int64) {
	kept := f.records[:0]
	for _, record := range f.records {
		if record.UserID != userID {
			kept = append(kept, record)
		}
	}
	f.records = kept
}

// fakeGenerator is a canned TextGenerator.
type fakeGenerator struct {
	text string
	err  error
}

func (f *fakeGenerator) GenerateText(_ context.Context, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

var errGeneratorDown = errors.New("generator unavailable")
