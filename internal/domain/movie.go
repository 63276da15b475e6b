package domain

import "time"

// Genre is an embedded genre entry on a movie document.
type Genre struct {
	ID   int    `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
}

// ProductionCompany is an embedded company entry on a movie document.
type ProductionCompany struct {
	ID   int    `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
}

// ProductionCountry is an embedded country entry on a movie document.
type ProductionCountry struct {
	ISO31661 string `bson:"iso_3166_1" json:"iso_3166_1"`
	Name     string `bson:"name" json:"name"`
}

// Movie represents one document in the movies collection.
type Movie struct {
	MovieID             int                 `bson:"movie_id" json:"movie_id"`
	Title               string              `bson:"title" json:"title"`
	OriginalTitle       string              `bson:"original_title,omitempty" json:"original_title,omitempty"`
	OriginalLanguage    string              `bson:"original_language,omitempty" json:"original_language,omitempty"`
	Overview            string              `bson:"overview,omitempty" json:"overview,omitempty"`
	Tagline             string              `bson:"tagline,omitempty" json:"tagline,omitempty"`
	Status              string              `bson:"status,omitempty" json:"status,omitempty"`
	ReleaseDate         time.Time           `bson:"release_date,omitempty" json:"release_date,omitempty"`
	Runtime             float64             `bson:"runtime,omitempty" json:"runtime,omitempty"`
	Genres              []Genre             `bson:"genres,omitempty" json:"genres,omitempty"`
	ProductionCompanies []ProductionCompany `bson:"production_companies,omitempty" json:"production_companies,omitempty"`
	ProductionCountries []ProductionCountry `bson:"production_countries,omitempty" json:"production_countries,omitempty"`
	VoteAverage         float64             `bson:"vote_average,omitempty" json:"vote_average,omitempty"`
	VoteCount           int                 `bson:"vote_count,omitempty" json:"vote_count,omitempty"`
}

// ReleaseYear returns the production year, or 0 when the release date is unknown.
func (m Movie) ReleaseYear() int {
	if m.ReleaseDate.IsZero() {
		return 0
	}
	return m.ReleaseDate.Year()
}

// GenreNames flattens the embedded genres to their names.
func (m Movie) GenreNames() []string {
	names := make([]string, len(m.Genres))
	for i, g := range m.Genres {
		names[i] = g.Name
	}
	return names
}
