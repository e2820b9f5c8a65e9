package repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Skotchmaster/shopit/internal/models"
)

func userProjection(o readOptions) bson.M {
	if o.withPassword {
		return nil
	}
	return bson.M{"password": 0}
}

func (r *MongoRepo) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	if u.ID == "" {
		u.ID = newID()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	if _, err := r.db.Collection(userCollection).InsertOne(ctx, u); err != nil {
		return nil, translateMongoErr(err, "email")
	}
	return u, nil
}

func (r *MongoRepo) GetUser(ctx context.Context, id string, opts ...ReadOption) (*models.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return r.findUser(ctx, collectReadOptions(opts), bson.M{"_id": id})
}

func (r *MongoRepo) GetUserByEmail(ctx context.Context, email string, opts ...ReadOption) (*models.User, error) {
	return r.findUser(ctx, collectReadOptions(opts), bson.M{"email": email})
}

func (r *MongoRepo) FindUserByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error) {
	return r.findUser(ctx, readOptions{}, bson.M{
		"resetPasswordToken":  tokenHash,
		"resetPasswordExpire": bson.M{"$gt": now},
	})
}

func (r *MongoRepo) findUser(ctx context.Context, o readOptions, filter bson.M) (*models.User, error) {
	findOpts := options.FindOne()
	if p := userProjection(o); p != nil {
		findOpts.SetProjection(p)
	}

	var user models.User
	if err := r.db.Collection(userCollection).FindOne(ctx, filter, findOpts).Decode(&user); err != nil {
		return nil, translateMongoErr(err, "")
	}
	return &user, nil
}

func (r *MongoRepo) SetResetToken(ctx context.Context, id string, tokenHash *string, expiresAt *time.Time) error {
	if err := checkID(id); err != nil {
		return err
	}

	var update bson.M
	if tokenHash == nil || expiresAt == nil {
		update = bson.M{"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpire": ""}}
	} else {
		update = bson.M{"$set": bson.M{"resetPasswordToken": *tokenHash, "resetPasswordExpire": *expiresAt}}
	}

	res, err := r.db.Collection(userCollection).UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepo) UpdateUser(ctx context.Context, id string, params UpdateUserParams) (*models.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	set := bson.M{}
	if params.Name != nil {
		set["name"] = *params.Name
	}
	if params.Email != nil {
		set["email"] = *params.Email
	}
	if params.Role != nil {
		set["role"] = *params.Role
	}
	if params.PasswordHash != nil {
		set["password"] = *params.PasswordHash
	}

	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if params.ClearReset {
		update["$unset"] = bson.M{"resetPasswordToken": "", "resetPasswordExpire": ""}
	}
	if len(update) == 0 {
		return r.GetUser(ctx, id)
	}

	var user models.User
	err := r.db.Collection(userCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		update,
		options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(bson.M{"password": 0}),
	).Decode(&user)
	if err != nil {
		return nil, translateMongoErr(err, "email")
	}
	return &user, nil
}

func (r *MongoRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	cursor, err := r.db.Collection(userCollection).Find(ctx, bson.M{},
		options.Find().SetProjection(bson.M{"password": 0}).SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	return decodeAll[models.User](ctx, cursor)
}

func (r *MongoRepo) DeleteUser(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	res, err := r.db.Collection(userCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
