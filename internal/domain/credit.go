package domain

// CastMember is one embedded cast entry in a credit document.
type CastMember struct {
	CastID    int    `bson:"cast_id,omitempty" json:"cast_id,omitempty"`
	Character string `bson:"character,omitempty" json:"character,omitempty"`
	CreditID  string `bson:"credit_id,omitempty" json:"credit_id,omitempty"`
	Gender    Gender `bson:"gender" json:"gender"`
	PersonID  int    `bson:"id" json:"id"`
	Name      string `bson:"name" json:"name"`
	Order     int    `bson:"order,omitempty" json:"order,omitempty"`
}

// CrewMember is one embedded crew entry in a credit document.
type CrewMember struct {
	CreditID   string `bson:"credit_id,omitempty" json:"credit_id,omitempty"`
	Department string `bson:"department,omitempty" json:"department,omitempty"`
	Gender     Gender `bson:"gender" json:"gender"`
	PersonID   int    `bson:"id" json:"id"`
	Job        string `bson:"job,omitempty" json:"job,omitempty"`
	Name       string `bson:"name" json:"name"`
}

// Credit holds the full cast and crew of one movie.
type Credit struct {
	MovieID int          `bson:"movie_id" json:"movie_id"`
	Cast    []CastMember `bson:"cast,omitempty" json:"cast,omitempty"`
	Crew    []CrewMember `bson:"crew,omitempty" json:"crew,omitempty"`
}
