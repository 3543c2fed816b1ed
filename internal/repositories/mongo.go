package repositories

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Nakul-Jaglan/thob3d-assignment/internal/models"
)

const (
	usersCollection  = "users"
	assetsCollection = "assets"
)

type MongoStore struct {
	Client *mongo.Client
	DB     *mongo.Database
}

type userDocument struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Email     string    `bson:"email"`
	Password  string    `bson:"password"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type assetDocument struct {
	ID          string    `bson:"_id"`
	OwnerID     string    `bson:"owner_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description"`
	Image       string    `bson:"image"`
	URL         string    `bson:"url"`
	Category    string    `bson:"category"`
	Format      string    `bson:"format"`
	Size        *int64    `bson:"size"`
	Tags        []string  `bson:"tags"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

// ConnectMongo dials the server, verifies it with a ping and ensures the
// unique email index exists.
func ConnectMongo(ctx context.Context, url, database string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(database)
	_, err = db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create email index: %w", err)
	}

	log.Println("Successfully connected to mongo")
	return &MongoStore{Client: client, DB: db}, nil
}

func translateMongo(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	default:
		return err
	}
}

func toUserDocument(u models.User) userDocument {
	return userDocument{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Password:  u.Password,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (d userDocument) model() models.User {
	id, _ := uuid.Parse(d.ID)
	return models.User{
		ID:        id,
		Name:      d.Name,
		Email:     d.Email,
		Password:  d.Password,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func toAssetDocument(a models.Asset) assetDocument {
	return assetDocument{
		ID:          a.ID.String(),
		OwnerID:     a.OwnerID.String(),
		Name:        a.Name,
		Description: a.Description,
		Image:       a.Image,
		URL:         a.URL,
		Category:    string(a.Category),
		Format:      a.Format,
		Size:        a.Size,
		Tags:        []string(a.Tags),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func (d assetDocument) model() models.Asset {
	id, _ := uuid.Parse(d.ID)
	owner, _ := uuid.Parse(d.OwnerID)
	tags := pq.StringArray(d.Tags)
	if tags == nil {
		tags = pq.StringArray{}
	}
	return models.Asset{
		ID:          id,
		OwnerID:     owner,
		Name:        d.Name,
		Description: d.Description,
		Image:       d.Image,
		URL:         d.URL,
		Category:    models.Category(d.Category),
		Format:      d.Format,
		Size:        d.Size,
		Tags:        tags,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (s *MongoStore) users() *mongo.Collection  { return s.DB.Collection(usersCollection) }
func (s *MongoStore) assets() *mongo.Collection { return s.DB.Collection(assetsCollection) }

func (s *MongoStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	_, err := s.users().InsertOne(ctx, toUserDocument(*user))
	return translateMongo(err)
}

func (s *MongoStore) findUser(ctx context.Context, filter bson.M) (models.User, error) {
	var doc userDocument
	if err := s.users().FindOne(ctx, filter).Decode(&doc); err != nil {
		return models.User{}, translateMongo(err)
	}
	return doc.model(), nil
}

func (s *MongoStore) GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	return s.findUser(ctx, bson.M{"_id": id.String()})
}

func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *MongoStore) ListUsers(ctx context.Context) ([]models.User, error) {
	cur, err := s.users().Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, translateMongo(err)
	}
	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.model())
	}
	return users, nil
}

func (s *MongoStore) SaveUser(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	res, err := s.users().ReplaceOne(ctx, bson.M{"_id": user.ID.String()}, toUserDocument(*user))
	if err != nil {
		return translateMongo(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	res, err := s.users().DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return translateMongo(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) CreateAsset(ctx context.Context, asset *models.Asset) error {
	if asset.ID == uuid.Nil {
		asset.ID = uuid.New()
	}
	now := time.Now().UTC()
	asset.CreatedAt, asset.UpdatedAt = now, now
	_, err := s.assets().InsertOne(ctx, toAssetDocument(*asset))
	return translateMongo(err)
}

func (s *MongoStore) GetAsset(ctx context.Context, id uuid.UUID) (models.Asset, error) {
	var doc assetDocument
	if err := s.assets().FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		return models.Asset{}, translateMongo(err)
	}
	return doc.model(), nil
}

func (s *MongoStore) ListAssets(ctx context.Context) ([]models.Asset, error) {
	cur, err := s.assets().Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, translateMongo(err)
	}
	var docs []assetDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	assets := make([]models.Asset, 0, len(docs))
	for _, d := range docs {
		assets = append(assets, d.model())
	}
	return assets, nil
}

func (s *MongoStore) SaveAsset(ctx context.Context, asset *models.Asset) error {
	asset.UpdatedAt = time.Now().UTC()
	res, err := s.assets().ReplaceOne(ctx, bson.M{"_id": asset.ID.String()}, toAssetDocument(*asset))
	if err != nil {
		return translateMongo(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeleteAsset(ctx context.Context, id uuid.UUID) error {
	res, err := s.assets().DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return translateMongo(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) CountAssets(ctx context.Context) (int64, error) {
	return s.assets().CountDocuments(ctx, bson.M{})
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Client.Disconnect(ctx)
}
