package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/hausbase/membership/domain"
	apperrors "github.com/hausbase/membership/errors"
)

// UserRepository implements domain.UserRepository on MongoDB.
type UserRepository struct {
	users *mongo.Collection
}

// NewUserRepository creates the repository and ensures its indexes. The
// (email, login_origin) pair is unique so a local and a provider-linked
// account with the same email can coexist while each origin stays unique.
func NewUserRepository(ctx context.Context, db *mongo.Database) (*UserRepository, error) {
	repo := &UserRepository{users: db.Collection(UsersCollection)}

	_, err := repo.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "email", Value: 1}, {Key: "login_origin", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("email_login_origin_unique"),
		},
		{
			Keys:    bson.D{{Key: "phone_num", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("phone_num_unique"),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user indexes: %w", err)
	}

	return repo, nil
}

func (r *UserRepository) GetUserByEmailAndOrigin(ctx context.Context, email string, origin domain.LoginOrigin) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email, "login_origin": origin})
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) GetUserByPhoneNum(ctx context.Context, phoneNum string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"phone_num": phoneNum})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var user domain.User
	err := r.users.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("user lookup failed: %w", err)
	}

	return &user, nil
}

func (r *UserRepository) ExistsByPhoneNumAndEmail(ctx context.Context, phoneNum, email string) (bool, error) {
	count, err := r.users.CountDocuments(ctx, bson.M{"phone_num": phoneNum, "email": email}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("user existence check failed: %w", err)
	}

	return count > 0, nil
}

func (r *UserRepository) ExistsByPhoneNum(ctx context.Context, phoneNum string) (bool, error) {
	count, err := r.users.CountDocuments(ctx, bson.M{"phone_num": phoneNum}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("user existence check failed: %w", err)
	}

	return count > 0, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	res, err := r.users.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"password_hash": passwordHash}, "$currentDate": bson.M{"updated_at": true}},
	)
	if err != nil {
		return fmt.Errorf("password update failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) UpdateLifeStyle(ctx context.Context, id int64, lifeStyle string) error {
	res, err := r.users.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"life_style": lifeStyle}, "$currentDate": bson.M{"updated_at": true}},
	)
	if err != nil {
		return fmt.Errorf("life style update failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

var _ domain.UserRepository = (*UserRepository)(nil)
