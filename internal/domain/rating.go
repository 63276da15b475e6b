package domain

import "time"

// Rating is one user rating of a movie on a 0–5 scale.
type Rating struct {
	UserID    int       `bson:"user_id" json:"user_id"`
	MovieID   int       `bson:"movie_id" json:"movie_id"`
	Rating    float64   `bson:"rating" json:"rating"`
	Timestamp time.Time `bson:"timestamp,omitempty" json:"timestamp,omitempty"`
}
