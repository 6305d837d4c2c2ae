package mongo

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainuser "courtside/internal/domain/user"
)

type UserRepository struct {
	col *mongo.Collection
}

// NewUserRepository expects a unique index on email.
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection("users")}
}

func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *UserRepository) ByID(ctx context.Context, id domainuser.UserID) (*domainuser.User, error) {
	var doc userDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainuser.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *UserRepository) ByEmail(ctx context.Context, email string) (*domainuser.User, error) {
	var doc userDocument
	filter := bson.M{"email": strings.ToLower(strings.TrimSpace(email))}
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainuser.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *UserRepository) Save(ctx context.Context, u *domainuser.User) error {
	doc := newUserDocument(u)
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	if mongo.IsDuplicateKeyError(err) {
		return domainuser.ErrEmailTaken
	}
	return err
}

type userDocument struct {
	ID            string `bson:"_id"`
	FullName      string `bson:"full_name"`
	Email         string `bson:"email"`
	ContactNumber string `bson:"contact_number"`
	Designation   string `bson:"designation"`
	ProfileImage  string `bson:"profile_image,omitempty"`
	PasswordHash  string `bson:"password_hash"`
	CreatedAt     int64  `bson:"created_at"`
	UpdatedAt     int64  `bson:"updated_at"`
}

func newUserDocument(u *domainuser.User) userDocument {
	return userDocument{
		ID:            string(u.ID),
		FullName:      u.FullName,
		Email:         u.Email,
		ContactNumber: u.ContactNumber,
		Designation:   string(u.Designation),
		ProfileImage:  u.ProfileImage,
		PasswordHash:  u.PasswordHash,
		CreatedAt:     u.CreatedAt.UnixMilli(),
		UpdatedAt:     u.UpdatedAt.UnixMilli(),
	}
}

func (d userDocument) toAggregate() *domainuser.User {
	return &domainuser.User{
		ID:            domainuser.UserID(d.ID),
		FullName:      d.FullName,
		Email:         d.Email,
		ContactNumber: d.ContactNumber,
		Designation:   domainuser.Designation(d.Designation),
		ProfileImage:  d.ProfileImage,
		PasswordHash:  d.PasswordHash,
		CreatedAt:     timestampToTime(d.CreatedAt),
		UpdatedAt:     timestampToTime(d.UpdatedAt),
	}
}
