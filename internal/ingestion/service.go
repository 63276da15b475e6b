package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"movie-catalog-api/internal/domain"
	"movie-catalog-api/internal/repository"
)

const insertBatchSize = 500

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
}

// Service loads the catalog dump files into the store and derives the
// denormalized gender-record collection from them.
type Service struct {
	movies  repository.MovieRepository
	credits repository.CreditRepository
	ratings repository.RatingRepository
	genders repository.GenderDataRepository
}

// NewService creates an ingestion service over the catalog repositories.
func NewService(
	movies repository.MovieRepository,
	credits repository.CreditRepository,
	ratings repository.RatingRepository,
	genders repository.GenderDataRepository,
) *Service {
	return &Service{
		movies:  movies,
		credits: credits,
		ratings: ratings,
		genders: genders,
	}
}

// RowError records one data row that could not be loaded.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Summary returns ingestion level metrics. A malformed row is skipped
// and reported here rather than aborting the load.
type Summary struct {
	JobID     string     `json:"jobId"`
	TotalRows int        `json:"totalRows"`
	Loaded    int        `json:"loaded"`
	Skipped   int        `json:"skipped"`
	RowErrors []RowError `json:"rowErrors,omitempty"`
}

func newSummary() Summary {
	return Summary{JobID: uuid.NewString()}
}

func (s *Summary) reject(row int, err error) {
	s.Skipped++
	s.RowErrors = append(s.RowErrors, RowError{Row: row, Message: err.Error()})
}

// LoadMovies ingests a movies_metadata dump.
func (s *Service) LoadMovies(ctx context.Context, fileName string, data io.Reader) (Summary, error) {
	summary := newSummary()

	table, err := readTable(fileName, data)
	if err != nil {
		return summary, err
	}
	summary.TotalRows = len(table.rows)

	cols := movieColumns{
		id:          table.column("id"),
		title:       table.column("title"),
		origTitle:   table.column("original_title"),
		origLang:    table.column("original_language"),
		overview:    table.column("overview"),
		tagline:     table.column("tagline"),
		status:      table.column("status"),
		releaseDate: table.column("release_date"),
		runtime:     table.column("runtime"),
		genres:      table.column("genres"),
		companies:   table.column("production_companies"),
		countries:   table.column("production_countries"),
		voteAvg:     table.column("vote_average"),
		voteCount:   table.column("vote_count"),
	}
	if cols.id < 0 || cols.title < 0 {
		return summary, errors.New("movies dump is missing the id or title column")
	}

	batch := make([]domain.Movie, 0, insertBatchSize)
	for i, row := range table.rows {
		movie, err := parseMovieRow(table, cols, row)
		if err != nil {
			summary.reject(i+2, err)
			continue
		}
		batch = append(batch, movie)
		if len(batch) == insertBatchSize {
			if err := s.flushMovies(ctx, &summary, batch); err != nil {
				return summary, err
			}
			batch = batch[:0]
		}
	}
	if err := s.flushMovies(ctx, &summary, batch); err != nil {
		return summary, err
	}
	return summary, nil
}

// LoadCredits ingests a credits dump.
func (s *Service) LoadCredits(ctx context.Context, fileName string, data io.Reader) (Summary, error) {
	summary := newSummary()

	table, err := readTable(fileName, data)
	if err != nil {
		return summary, err
	}
	summary.TotalRows = len(table.rows)

	idCol := table.column("id")
	castCol := table.column("cast")
	crewCol := table.column("crew")
	if idCol < 0 || castCol < 0 || crewCol < 0 {
		return summary, errors.New("credits dump is missing the id, cast or crew column")
	}

	batch := make([]domain.Credit, 0, insertBatchSize)
	for i, row := range table.rows {
		credit, err := parseCreditRow(table.cell(row, idCol), table.cell(row, castCol), table.cell(row, crewCol))
		if err != nil {
			summary.reject(i+2, err)
			continue
		}
		batch = append(batch, credit)
		if len(batch) == insertBatchSize {
			inserted, err := s.credits.InsertMany(ctx, batch)
			summary.Loaded += inserted
			if err != nil {
				return summary, fmt.Errorf("failed to insert credits: %w", err)
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		inserted, err := s.credits.InsertMany(ctx, batch)
		summary.Loaded += inserted
		if err != nil {
			return summary, fmt.Errorf("failed to insert credits: %w", err)
		}
	}
	return summary, nil
}

// LoadRatings ingests a ratings dump.
func (s *Service) LoadRatings(ctx context.Context, fileName string, data io.Reader) (Summary, error) {
	summary := newSummary()

	table, err := readTable(fileName, data)
	if err != nil {
		return summary, err
	}
	summary.TotalRows = len(table.rows)

	userCol := table.column("userId")
	movieCol := table.column("movieId")
	ratingCol := table.column("rating")
	tsCol := table.column("timestamp")
	if userCol < 0 || movieCol < 0 || ratingCol < 0 {
		return summary, errors.New("ratings dump is missing the userId, movieId or rating column")
	}

	batch := make([]domain.Rating, 0, insertBatchSize)
	for i, row := range table.rows {
		rating, err := parseRatingRow(
			table.cell(row, userCol),
			table.cell(row, movieCol),
			table.cell(row, ratingCol),
			table.cell(row, tsCol),
		)
		if err != nil {
			summary.reject(i+2, err)
			continue
		}
		batch = append(batch, rating)
		if len(batch) == insertBatchSize {
			inserted, err := s.ratings.InsertMany(ctx, batch)
			summary.Loaded += inserted
			if err != nil {
				return summary, fmt.Errorf("failed to insert ratings: %w", err)
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		inserted, err := s.ratings.InsertMany(ctx, batch)
		summary.Loaded += inserted
		if err != nil {
			return summary, fmt.Errorf("failed to insert ratings: %w", err)
		}
	}
	return summary, nil
}

// DeriveGenderRecords walks the loaded credits and writes one gender
// record per (movie, cast or crew member) pair. Cast members are filed
// under the Acting department; crew members keep their own. It returns
// the number of records written.
func (s *Service) DeriveGenderRecords(ctx context.Context) (int, error) {
	written := 0
	for pageNum := 1; ; pageNum++ {
		credits, _, err := s.credits.List(ctx, repository.Page{Number: pageNum, PerPage: insertBatchSize})
		if err != nil {
			return written, fmt.Errorf("failed to list credits: %w", err)
		}
		if len(credits) == 0 {
			return written, nil
		}

		ids := make([]int, 0, len(credits))
		for _, c := range credits {
			ids = append(ids, c.MovieID)
		}
		predicate := domain.Predicate{}.And(domain.InTerm{Field: "movie_id", IDs: ids})
		movies, _, err := s.movies.FindByQuery(ctx, predicate, repository.Page{Number: 1, PerPage: len(ids)})
		if err != nil {
			return written, fmt.Errorf("failed to load movies for gender records: %w", err)
		}
		byID := make(map[int]domain.Movie, len(movies))
		for _, m := range movies {
			byID[m.MovieID] = m
		}

		var records []domain.GenderRecord
		for _, credit := range credits {
			movie, ok := byID[credit.MovieID]
			if !ok {
				continue
			}
			records = append(records, genderRecordsFor(movie, credit)...)
		}
		if len(records) == 0 {
			continue
		}

		inserted, err := s.genders.InsertMany(ctx, records)
		written += inserted
		if err != nil {
			return written, fmt.Errorf("failed to insert gender records: %w", err)
		}
	}
}

func genderRecordsFor(movie domain.Movie, credit domain.Credit) []domain.GenderRecord {
	base := domain.GenderRecord{
		MovieID:   movie.MovieID,
		Title:     movie.Title,
		Year:      movie.ReleaseYear(),
		Genres:    movie.GenreNames(),
		Countries: make([]string, 0, len(movie.ProductionCountries)),
		Companies: make([]string, 0, len(movie.ProductionCompanies)),
	}
	for _, c := range movie.ProductionCountries {
		base.Countries = append(base.Countries, c.Name)
	}
	for _, c := range movie.ProductionCompanies {
		base.Companies = append(base.Companies, c.Name)
	}

	records := make([]domain.GenderRecord, 0, len(credit.Cast)+len(credit.Crew))
	for _, member := range credit.Cast {
		record := base
		record.Department = "Acting"
		record.Gender = member.Gender
		record.Name = member.Name
		records = append(records, record)
	}
	for _, member := range credit.Crew {
		record := base
		record.Department = member.Department
		record.Gender = member.Gender
		record.Name = member.Name
		records = append(records, record)
	}
	return records
}

func (s *Service) flushMovies(ctx context.Context, summary *Summary, batch []domain.Movie) error {
	if len(batch) == 0 {
		return nil
	}
	inserted, err := s.movies.InsertMany(ctx, batch)
	summary.Loaded += inserted
	if err != nil {
		return fmt.Errorf("failed to insert movies: %w", err)
	}
	return nil
}

type movieColumns struct {
	id, title, origTitle, origLang, overview, tagline, status int
	releaseDate, runtime, genres, companies, countries        int
	voteAvg, voteCount                                        int
}

func readTable(fileName string, data io.Reader) (tableData, error) {
	if data == nil {
		return tableData{}, errors.New("data reader is required")
	}
	payload, err := io.ReadAll(data)
	if err != nil {
		return tableData{}, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(payload) == 0 {
		return tableData{}, errors.New("file is empty")
	}
	return parseTable(fileName, payload)
}

func parseMovieRow(table tableData, cols movieColumns, row []string) (domain.Movie, error) {
	idText := table.cell(row, cols.id)
	movieID, err := strconv.Atoi(idText)
	if err != nil {
		return domain.Movie{}, fmt.Errorf("invalid movie id %q", idText)
	}

	movie := domain.Movie{
		MovieID:          movieID,
		Title:            table.cell(row, cols.title),
		OriginalTitle:    table.cell(row, cols.origTitle),
		OriginalLanguage: table.cell(row, cols.origLang),
		Overview:         table.cell(row, cols.overview),
		Tagline:          table.cell(row, cols.tagline),
		Status:           table.cell(row, cols.status),
	}
	if movie.Title == "" {
		return domain.Movie{}, errors.New("movie title is empty")
	}

	if text := table.cell(row, cols.releaseDate); text != "" {
		released, err := parseDate(text)
		if err != nil {
			return domain.Movie{}, err
		}
		movie.ReleaseDate = released
	}
	if text := table.cell(row, cols.runtime); text != "" {
		movie.Runtime, _ = strconv.ParseFloat(text, 64)
	}
	if text := table.cell(row, cols.voteAvg); text != "" {
		movie.VoteAverage, _ = strconv.ParseFloat(text, 64)
	}
	if text := table.cell(row, cols.voteCount); text != "" {
		count, _ := strconv.ParseFloat(text, 64)
		movie.VoteCount = int(count)
	}

	genres, err := parseRecordList(table.cell(row, cols.genres))
	if err != nil {
		return domain.Movie{}, fmt.Errorf("genres column: %w", err)
	}
	for _, g := range genres {
		movie.Genres = append(movie.Genres, domain.Genre{
			ID:   recordInt(g, "id"),
			Name: recordString(g, "name"),
		})
	}

	companies, err := parseRecordList(table.cell(row, cols.companies))
	if err != nil {
		return domain.Movie{}, fmt.Errorf("production_companies column: %w", err)
	}
	for _, c := range companies {
		movie.ProductionCompanies = append(movie.ProductionCompanies, domain.ProductionCompany{
			ID:   recordInt(c, "id"),
			Name: recordString(c, "name"),
		})
	}

	countries, err := parseRecordList(table.cell(row, cols.countries))
	if err != nil {
		return domain.Movie{}, fmt.Errorf("production_countries column: %w", err)
	}
	for _, c := range countries {
		movie.ProductionCountries = append(movie.ProductionCountries, domain.ProductionCountry{
			ISO31661: recordString(c, "iso_3166_1"),
			Name:     recordString(c, "name"),
		})
	}

	return movie, nil
}

func parseCreditRow(idText, castText, crewText string) (domain.Credit, error) {
	movieID, err := strconv.Atoi(idText)
	if err != nil {
		return domain.Credit{}, fmt.Errorf("invalid movie id %q", idText)
	}

	castRecords, err := parseRecordList(castText)
	if err != nil {
		return domain.Credit{}, fmt.Errorf("cast column: %w", err)
	}
	crewRecords, err := parseRecordList(crewText)
	if err != nil {
		return domain.Credit{}, fmt.Errorf("crew column: %w", err)
	}

	credit := domain.Credit{MovieID: movieID}
	for _, c := range castRecords {
		credit.Cast = append(credit.Cast, domain.CastMember{
			CastID:    recordInt(c, "cast_id"),
			Character: recordString(c, "character"),
			CreditID:  recordString(c, "credit_id"),
			Gender:    domain.Gender(recordInt(c, "gender")),
			PersonID:  recordInt(c, "id"),
			Name:      recordString(c, "name"),
			Order:     recordInt(c, "order"),
		})
	}
	for _, c := range crewRecords {
		credit.Crew = append(credit.Crew, domain.CrewMember{
			CreditID:   recordString(c, "credit_id"),
			Department: recordString(c, "department"),
			Gender:     domain.Gender(recordInt(c, "gender")),
			PersonID:   recordInt(c, "id"),
			Job:        recordString(c, "job"),
			Name:       recordString(c, "name"),
		})
	}
	return credit, nil
}

func parseRatingRow(userText, movieText, ratingText, tsText string) (domain.Rating, error) {
	userID, err := strconv.Atoi(userText)
	if err != nil {
		return domain.Rating{}, fmt.Errorf("invalid user id %q", userText)
	}
	movieID, err := strconv.Atoi(movieText)
	if err != nil {
		return domain.Rating{}, fmt.Errorf("invalid movie id %q", movieText)
	}
	value, err := strconv.ParseFloat(ratingText, 64)
	if err != nil || value < 0 || value > 5 {
		return domain.Rating{}, fmt.Errorf("invalid rating %q", ratingText)
	}

	rating := domain.Rating{UserID: userID, MovieID: movieID, Rating: value}
	if tsText != "" {
		seconds, err := strconv.ParseInt(tsText, 10, 64)
		if err != nil {
			return domain.Rating{}, fmt.Errorf("invalid timestamp %q", tsText)
		}
		rating.Timestamp = time.Unix(seconds, 0).UTC()
	}
	return rating, nil
}

func parseDate(text string) (time.Time, error) {
	text = strings.TrimSpace(text)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", text)
}
