package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/magabrotheeeer/auth-service/internal/models"
)

func byUserID(userID string) bson.M {
	return bson.M{"userId": userID}
}

// CreateUser сохраняет новый документ пользователя.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.mongodb.CreateUser"

	if _, err := s.users.InsertOne(ctx, user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &user, nil
}

// GetUserByUserID возвращает пользователя по userId.
func (s *Storage) GetUserByUserID(ctx context.Context, userID string) (*models.User, error) {
	const op = "storage.mongodb.GetUserByUserID"

	var u models.User
	if err := s.users.FindOne(ctx, byUserID(userID)).Decode(&u); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &u, nil
}

// GetUserByEmail возвращает пользователя по email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.mongodb.GetUserByEmail"

	var u models.User
	if err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &u, nil
}

// ListUsers возвращает всех пользователей в порядке регистрации.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "storage.mongodb.ListUsers"

	cur, err := s.users.Find(ctx, bson.D{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "userId", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var result []*models.User
	if err = cur.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateUser применяет частичное обновление и возвращает обновлённый документ.
func (s *Storage) UpdateUser(ctx context.Context, userID string, patch models.UserPatch, updatedAt time.Time) (*models.User, error) {
	const op = "storage.mongodb.UpdateUser"

	var u models.User
	err := s.users.FindOneAndUpdate(ctx, byUserID(userID), buildUpdate(patch, updatedAt),
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&u)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &u, nil
}

// IncrementLoginCount атомарно увеличивает loginCount через $inc и отмечает время входа.
func (s *Storage) IncrementLoginCount(ctx context.Context, userID string, at time.Time) (*models.User, error) {
	const op = "storage.mongodb.IncrementLoginCount"

	update := bson.M{
		"$inc": bson.M{"loginCount": 1},
		"$set": bson.M{"lastLoginAt": at, "updatedAt": at},
	}
	var u models.User
	err := s.users.FindOneAndUpdate(ctx, byUserID(userID), update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&u)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &u, nil
}

// DeleteUser удаляет документ пользователя и возвращает его.
func (s *Storage) DeleteUser(ctx context.Context, userID string) (*models.User, error) {
	const op = "storage.mongodb.DeleteUser"

	var u models.User
	if err := s.users.FindOneAndDelete(ctx, byUserID(userID)).Decode(&u); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &u, nil
}

// buildUpdate собирает $set только из заданных полей патча.
func buildUpdate(patch models.UserPatch, updatedAt time.Time) bson.M {
	set := bson.M{"updatedAt": updatedAt}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.NickName != nil {
		set["nickName"] = *patch.NickName
	}
	if patch.Role != nil {
		set["role"] = string(*patch.Role)
	}
	if patch.IsBlocked != nil {
		set["isBlocked"] = *patch.IsBlocked
	}
	if patch.LastLoginAt != nil {
		set["lastLoginAt"] = *patch.LastLoginAt
	}
	if patch.InvitedBy != nil {
		set["invitedBy"] = *patch.InvitedBy
	}
	if patch.LoginDays != nil {
		set["loginDays"] = *patch.LoginDays
	}
	return bson.M{"$set": set}
}
