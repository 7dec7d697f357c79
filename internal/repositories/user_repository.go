package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mindmaze-api/internal/database"
	"mindmaze-api/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrDuplicateUsername username 唯一索引冲突
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrUserNotFound 用户不存在
	ErrUserNotFound = errors.New("user not found")
)

// UserRepository defines the interface for user storage operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Count(ctx context.Context) (int64, error)
	TopByScore(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}

type userRepository struct {
	users *mongo.Collection
}

// NewUserRepository creates a user repository backed by the users collection
func NewUserRepository(db *database.Database) UserRepository {
	return NewUserRepositoryFromCollection(db.Collection(database.UsersCollection))
}

// NewUserRepositoryFromCollection creates a user repository on an explicit collection
func NewUserRepositoryFromCollection(users *mongo.Collection) UserRepository {
	return &userRepository{users: users}
}

// Create inserts a new user; the unique username index rejects duplicates
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	if _, err := r.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByUsername finds a user by exact username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.users.FindOne(ctx, bson.D{{Key: "username", Value: username}}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &user, nil
}

// Count returns the total number of registered users
func (r *userRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.users.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

// TopByScore returns users ordered by score descending, ties broken by username
func (r *userRepository) TopByScore(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "score", Value: -1}, {Key: "username", Value: 1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.D{{Key: "_id", Value: 0}, {Key: "username", Value: 1}, {Key: "score", Value: 1}})

	cursor, err := r.users.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer cursor.Close(ctx)

	entries := make([]models.LeaderboardEntry, 0, limit)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode leaderboard: %w", err)
	}
	return entries, nil
}
