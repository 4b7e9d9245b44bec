// Package mongodb реализует хранилище пользователей на MongoDB.
//
// Пользователи хранятся документами в коллекции users с уникальными
// индексами по userId и email. Счётчик входов увеличивается оператором $inc
// внутри FindOneAndUpdate, поэтому параллельные входы не теряют обновлений.
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/magabrotheeeer/auth-service/internal/storage"
)

// CollectionUsers — имя коллекции пользователей.
const CollectionUsers = "users"

// Storage инкапсулирует клиента MongoDB и коллекцию пользователей.
type Storage struct {
	client *mongo.Client
	users  *mongo.Collection
}

// New подключается к MongoDB, проверяет соединение и создаёт уникальные индексы.
func New(ctx context.Context, uri, database string) (*Storage, error) {
	const op = "storage.mongodb.New"

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s := &Storage{
		client: client,
		users:  client.Database(database).Collection(CollectionUsers),
	}
	if err = s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

// EnsureIndexes создаёт уникальные индексы по userId и email, если их ещё нет.
func (s *Storage) EnsureIndexes(ctx context.Context) error {
	const op = "storage.mongodb.EnsureIndexes"

	_, err := s.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_userId"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_email"),
		},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close разрывает соединение с MongoDB.
func (s *Storage) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// mapError переводит ошибки драйвера в ошибки пакета storage.
func mapError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return storage.ErrUserNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s", storage.ErrUserExists, err.Error())
	}
	return err
}
