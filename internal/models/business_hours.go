// internal/models/business_hours.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// BusinessHours is one weekday's opening window. Times are "HH:MM:SS" clock
// strings in the warehouse timezone, the format the legacy schema stored.
type BusinessHours struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	DayOfWeek int                `bson:"dayOfWeek" json:"day_of_week"` // 0 = Sunday
	IsClosed  bool               `bson:"isClosed" json:"is_closed"`
	OpenTime  string             `bson:"openTime" json:"open_time"`
	CloseTime string             `bson:"closeTime" json:"close_time"`
}
