package store

import (
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/capture-moments/backend/internal/models"
)

// Document shapes. Photographer attributes keep the capitalized names used by
// existing documents (Name, Skills, Location, Photo).

func userDoc(u *models.User) bson.M {
	return bson.M{
		"_id":             u.ID,
		"username":        u.Username,
		"email":           u.Email,
		"password":        u.Password,
		"is_photographer": u.IsPhotographer,
		"created_at":      u.CreatedAt,
	}
}

func userFromDoc(d bson.M) *models.User {
	return &models.User{
		ID:             docString(d, "_id"),
		Username:       docString(d, "username"),
		Email:          docString(d, "email"),
		Password:       docString(d, "password"),
		IsPhotographer: docBool(d, "is_photographer"),
		CreatedAt:      docTime(d, "created_at"),
	}
}

func photographerDoc(p *models.Photographer) bson.M {
	return bson.M{
		"_id":            p.ID,
		"user_id":        p.UserID,
		"Name":           p.Name,
		"Bio":            p.Bio,
		"Skills":         p.Specialty,
		"Location":       p.Location,
		"price_per_hour": p.PricePerHour,
		"Photo":          p.ProfileImage,
	}
}

func photographerFromDoc(d bson.M) *models.Photographer {
	return &models.Photographer{
		ID:           docString(d, "_id"),
		UserID:       docString(d, "user_id"),
		Name:         docString(d, "Name"),
		Bio:          docString(d, "Bio"),
		Specialty:    docString(d, "Skills"),
		Location:     docString(d, "Location"),
		PricePerHour: docFloat(d, "price_per_hour"),
		ProfileImage: docString(d, "Photo"),
	}
}

func bookingDoc(b *models.Booking) bson.M {
	return bson.M{
		"_id":             b.ID,
		"user_id":         b.UserID,
		"photographer_id": b.PhotographerID,
		"date":            b.Date,
		"time":            b.Time,
		"duration":        b.Duration,
		"status":          string(b.Status),
		"created_at":      b.CreatedAt,
	}
}

func bookingFromDoc(d bson.M) *models.Booking {
	return &models.Booking{
		ID:             docString(d, "_id"),
		UserID:         docString(d, "user_id"),
		PhotographerID: docString(d, "photographer_id"),
		Date:           docString(d, "date"),
		Time:           docString(d, "time"),
		Duration:       int(docFloat(d, "duration")),
		Status:         models.BookingStatus(docString(d, "status")),
		CreatedAt:      docTime(d, "created_at"),
	}
}

func docString(d bson.M, key string) string {
	switch v := d[key].(type) {
	case string:
		return v
	case primitive.ObjectID:
		return v.Hex()
	default:
		return ""
	}
}

func docBool(d bson.M, key string) bool {
	v, _ := d[key].(bool)
	return v
}

// docFloat accepts any BSON numeric type; hand-seeded documents mix them.
func docFloat(d bson.M, key string) float64 {
	switch v := d[key].(type) {
	case float64:
		return v
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case primitive.Decimal128:
		n, err := strconv.ParseFloat(v.String(), 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func docTime(d bson.M, key string) time.Time {
	switch v := d[key].(type) {
	case primitive.DateTime:
		return v.Time().UTC()
	case time.Time:
		return v.UTC()
	default:
		return time.Time{}
	}
}
