package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/capture-moments/backend/internal/models"
)

// Document collection names.
const (
	colUsers         = "users"
	colPhotographers = "photographers"
	colBookings      = "booking"
	colReviews       = "reviews"
)

// MongoStore is the document adapter. Ids are generated here before insert,
// documents are plain attribute maps, and multi-document writes are not
// rolled back.
type MongoStore struct {
	client        *mongo.Client
	users         *mongo.Collection
	photographers *mongo.Collection
	bookings      *mongo.Collection
	reviews       *mongo.Collection
}

func NewMongoStore(client *mongo.Client, db *mongo.Database) *MongoStore {
	return &MongoStore{
		client:        client,
		users:         db.Collection(colUsers),
		photographers: db.Collection(colPhotographers),
		bookings:      db.Collection(colBookings),
		reviews:       db.Collection(colReviews),
	}
}

// OpenMongo connects and pings within timeout, then ensures the unique
// indexes exist.
func OpenMongo(ctx context.Context, uri, database string, timeout time.Duration) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(timeout).
		SetConnectTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w: %v", models.ErrBackendUnavailable, err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w: %v", models.ErrBackendUnavailable, err)
	}

	s := NewMongoStore(client, client.Database(database))
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	unique := func(key string) mongo.IndexModel {
		return mongo.IndexModel{Keys: bson.D{{Key: key, Value: 1}}, Options: options.Index().SetUnique(true)}
	}
	if _, err := s.users.Indexes().CreateMany(ctx, []mongo.IndexModel{unique("username"), unique("email")}); err != nil {
		return fmt.Errorf("mongo users indexes: %w", err)
	}
	if _, err := s.photographers.Indexes().CreateOne(ctx, unique("user_id")); err != nil {
		return fmt.Errorf("mongo photographers indexes: %w", err)
	}
	for _, col := range []*mongo.Collection{s.bookings, s.reviews} {
		_, err := col.Indexes().CreateMany(ctx, []mongo.IndexModel{
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
			{Keys: bson.D{{Key: "photographer_id", Value: 1}}},
		})
		if err != nil {
			return fmt.Errorf("mongo %s indexes: %w", col.Name(), err)
		}
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// CreateAccount writes the user document, then the profile document. If the
// profile write fails the user document stays behind.
func (s *MongoStore) CreateAccount(ctx context.Context, u *models.User, profile *models.Photographer) (*models.User, error) {
	n, err := s.users.CountDocuments(ctx, bson.M{"$or": bson.A{
		bson.M{"username": u.Username},
		bson.M{"email": u.Email},
	}})
	if err != nil {
		return nil, mongoError("create user", err)
	}
	if n > 0 {
		return nil, fmt.Errorf("create user: %w", models.ErrDuplicateIdentity)
	}

	created := *u
	created.ID = uuid.NewString()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}
	if _, err := s.users.InsertOne(ctx, userDoc(&created)); err != nil {
		return nil, mongoError("create user", err)
	}

	if profile != nil {
		p := *profile
		p.ID = uuid.NewString()
		p.UserID = created.ID
		if _, err := s.photographers.InsertOne(ctx, photographerDoc(&p)); err != nil {
			return nil, mongoError("create photographer", err)
		}
	}
	return &created, nil
}

func (s *MongoStore) UserByName(ctx context.Context, username string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"username": username})
}

func (s *MongoStore) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc bson.M
	if err := s.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mongoError("get user", err)
	}
	return userFromDoc(doc), nil
}

func (s *MongoStore) ListPhotographers(ctx context.Context) ([]models.Photographer, error) {
	docs, err := findAll(ctx, s.photographers, bson.M{}, nil)
	if err != nil {
		return nil, mongoError("list photographers", err)
	}
	out := make([]models.Photographer, 0, len(docs))
	for _, d := range docs {
		out = append(out, *photographerFromDoc(d))
	}
	return out, nil
}

func (s *MongoStore) PhotographerByID(ctx context.Context, id models.ID) (*models.Photographer, error) {
	return s.findPhotographer(ctx, bson.M{"_id": id})
}

func (s *MongoStore) PhotographerByUser(ctx context.Context, userID models.ID) (*models.Photographer, error) {
	return s.findPhotographer(ctx, bson.M{"user_id": userID})
}

func (s *MongoStore) findPhotographer(ctx context.Context, filter bson.M) (*models.Photographer, error) {
	var doc bson.M
	if err := s.photographers.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mongoError("get photographer", err)
	}
	return photographerFromDoc(doc), nil
}

func (s *MongoStore) UpdatePhotographer(ctx context.Context, p *models.Photographer) error {
	res, err := s.photographers.UpdateOne(ctx, bson.M{"_id": p.ID}, bson.M{"$set": bson.M{
		"Name":           p.Name,
		"Bio":            p.Bio,
		"Skills":         p.Specialty,
		"Location":       p.Location,
		"price_per_hour": p.PricePerHour,
		"Photo":          p.ProfileImage,
	}})
	if err != nil {
		return mongoError("update photographer", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update photographer: %w", models.ErrNotFound)
	}
	return nil
}

func (s *MongoStore) CreateBooking(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	created := *b
	created.ID = uuid.NewString()
	if _, err := s.bookings.InsertOne(ctx, bookingDoc(&created)); err != nil {
		return nil, mongoError("create booking", err)
	}
	return &created, nil
}

func (s *MongoStore) BookingByID(ctx context.Context, id models.ID) (*models.Booking, error) {
	var doc bson.M
	if err := s.bookings.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, mongoError("get booking", err)
	}
	return bookingFromDoc(doc), nil
}

func (s *MongoStore) UpdateBookingStatus(ctx context.Context, id models.ID, status models.BookingStatus) error {
	res, err := s.bookings.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": string(status)}})
	if err != nil {
		return mongoError("update booking", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update booking: %w", models.ErrNotFound)
	}
	return nil
}

func (s *MongoStore) BookingsByUser(ctx context.Context, userID models.ID) ([]models.Booking, error) {
	return s.findBookings(ctx, bson.M{"user_id": userID})
}

func (s *MongoStore) BookingsByPhotographer(ctx context.Context, photographerID models.ID) ([]models.Booking, error) {
	return s.findBookings(ctx, bson.M{"photographer_id": photographerID})
}

func (s *MongoStore) findBookings(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	docs, err := findAll(ctx, s.bookings, filter, nil)
	if err != nil {
		return nil, mongoError("list bookings", err)
	}
	out := make([]models.Booking, 0, len(docs))
	for _, d := range docs {
		out = append(out, *bookingFromDoc(d))
	}
	return out, nil
}

func (s *MongoStore) CreateReview(ctx context.Context, r *models.Review) (*models.Review, error) {
	created := *r
	created.ID = uuid.NewString()
	_, err := s.reviews.InsertOne(ctx, bson.M{
		"_id":             created.ID,
		"user_id":         created.UserID,
		"photographer_id": created.PhotographerID,
		"rating":          created.Rating,
		"comment":         created.Comment,
		"created_at":      created.CreatedAt,
	})
	if err != nil {
		return nil, mongoError("create review", err)
	}
	return &created, nil
}

func (s *MongoStore) ReviewsByPhotographer(ctx context.Context, photographerID models.ID) ([]models.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	docs, err := findAll(ctx, s.reviews, bson.M{"photographer_id": photographerID}, opts)
	if err != nil {
		return nil, mongoError("list reviews", err)
	}
	out := make([]models.Review, 0, len(docs))
	for _, d := range docs {
		out = append(out, models.Review{
			ID:             docString(d, "_id"),
			UserID:         docString(d, "user_id"),
			PhotographerID: docString(d, "photographer_id"),
			Rating:         int(docFloat(d, "rating")),
			Comment:        docString(d, "comment"),
			CreatedAt:      docTime(d, "created_at"),
		})
	}
	return out, nil
}

func findAll(ctx context.Context, col *mongo.Collection, filter bson.M, opts *options.FindOptions) ([]bson.M, error) {
	var findOpts []*options.FindOptions
	if opts != nil {
		findOpts = append(findOpts, opts)
	}
	cur, err := col.Find(ctx, filter, findOpts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// mongoError folds driver errors into the models error set.
func mongoError(op string, err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %w", op, models.ErrDuplicateIdentity)
	case mongo.IsTimeout(err), mongo.IsNetworkError(err), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w: %v", op, models.ErrBackendUnavailable, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
