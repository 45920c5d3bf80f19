// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// SQLite keeps everything in a single file (or in memory with ":memory:"),
// so the API can keep its data across restarts without running a separate
// database server.
//
// Importing go-sqlite3 registers the "sqlite3" driver with database/sql.
// The import is named rather than blank because constraint violations are
// inspected through sqlite3.Error.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/learnhub/learning-api/internal/config"
	"github.com/learnhub/learning-api/internal/storage"
	"github.com/learnhub/learning-api/internal/types"
)

// SQLite is the concrete implementation of storage.Storage.
type SQLite struct {
	Db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE COLLATE NOCASE,
	password_hash TEXT NOT NULL DEFAULT '',
	created_at    DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS students (
	id              TEXT PRIMARY KEY,
	first_name      TEXT NOT NULL,
	last_name       TEXT NOT NULL,
	display_name    TEXT NOT NULL,
	academic_level  TEXT,
	profile_picture TEXT,
	created_at      DATETIME NOT NULL,
	updated_at      DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS courses (
	id             TEXT PRIMARY KEY,
	title          TEXT NOT NULL,
	description    TEXT NOT NULL,
	instructor     TEXT NOT NULL,
	author_id      TEXT NOT NULL,
	price          REAL NOT NULL,
	original_price REAL,
	rating         REAL,
	review_count   INTEGER,
	student_count  INTEGER,
	thumbnail      TEXT NOT NULL,
	category       TEXT NOT NULL,
	level          TEXT NOT NULL,
	featured       BOOLEAN NOT NULL,
	published      BOOLEAN NOT NULL,
	created_at     DATETIME NOT NULL,
	duration       TEXT NOT NULL,
	lessons        INTEGER NOT NULL,
	tags           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS enrollments (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	id         TEXT NOT NULL UNIQUE,
	created_at DATETIME NOT NULL,
	student_id TEXT NOT NULL,
	course_id  TEXT NOT NULL,
	tutor_id   TEXT,
	UNIQUE (student_id, course_id)
);
`

// New opens the SQLite database at cfg.Path and creates the tables if
// they do not already exist.
func New(cfg config.Storage) (*SQLite, error) {
	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// One connection: ":memory:" databases are per-connection, and SQLite
	// serialises writers anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite.New: create tables: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// Close releases the connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// mapErr converts constraint violations into storage.ErrConflict.
func mapErr(op string, err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%s: %v: %w", op, err, storage.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// exec prepares query, runs it with args, and returns the affected row count.
func (s *SQLite) exec(op, query string, args ...any) (int64, error) {
	stmt, err := s.Db.Prepare(query)
	if err != nil {
		return 0, fmt.Errorf("%s: prepare: %w", op, err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(args...)
	if err != nil {
		return 0, mapErr(op, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: rows affected: %w", op, err)
	}
	return n, nil
}

// ── users ───────────────────────────────────────────────────────────────────

const userColumns = "id, email, password_hash, created_at"

func scanUser(row interface{ Scan(...any) error }) (types.User, error) {
	var u types.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

func (s *SQLite) CreateUser(user types.User) error {
	_, err := s.exec("CreateUser",
		"INSERT INTO users ("+userColumns+") VALUES (?, ?, ?, ?)",
		user.ID, user.Email, user.PasswordHash, user.CreatedAt,
	)
	return err
}

func (s *SQLite) GetUserByID(id string) (types.User, error) {
	u, err := scanUser(s.Db.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return types.User{}, fmt.Errorf("no user found with id %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return types.User{}, fmt.Errorf("GetUserByID: scan: %w", err)
	}
	return u, nil
}

func (s *SQLite) GetUserByEmail(email string) (types.User, error) {
	u, err := scanUser(s.Db.QueryRow("SELECT "+userColumns+" FROM users WHERE email = ? LIMIT 1", email))
	if errors.Is(err, sql.ErrNoRows) {
		return types.User{}, fmt.Errorf("no user found with email %s: %w", email, storage.ErrNotFound)
	}
	if err != nil {
		return types.User{}, fmt.Errorf("GetUserByEmail: scan: %w", err)
	}
	return u, nil
}

func (s *SQLite) GetUsers() ([]types.User, error) {
	rows, err := s.Db.Query("SELECT " + userColumns + " FROM users ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("GetUsers: query: %w", err)
	}
	defer rows.Close()

	users := make([]types.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("GetUsers: scan row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetUsers: rows iteration: %w", err)
	}
	return users, nil
}

// ── students ────────────────────────────────────────────────────────────────

const studentColumns = "id, first_name, last_name, display_name, academic_level, profile_picture, created_at, updated_at"

func scanStudent(row interface{ Scan(...any) error }) (types.Student, error) {
	var (
		st      types.Student
		level   sql.NullString
		picture sql.NullString
	)
	err := row.Scan(&st.ID, &st.FirstName, &st.LastName, &st.DisplayName,
		&level, &picture, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		return types.Student{}, err
	}
	if level.Valid {
		st.AcademicLevel = types.Ptr(types.AcademicLevel(level.String))
	}
	if picture.Valid {
		st.ProfilePicture = types.Ptr(picture.String)
	}
	return st, nil
}

func nullLevel(l *types.AcademicLevel) sql.NullString {
	if l == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*l), Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func (s *SQLite) CreateStudent(student types.Student) error {
	_, err := s.exec("CreateStudent",
		"INSERT INTO students ("+studentColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		student.ID, student.FirstName, student.LastName, student.DisplayName,
		nullLevel(student.AcademicLevel), nullString(student.ProfilePicture),
		student.CreatedAt, student.UpdatedAt,
	)
	return err
}

func (s *SQLite) GetStudentByID(id string) (types.Student, error) {
	st, err := scanStudent(s.Db.QueryRow("SELECT "+studentColumns+" FROM students WHERE id = ? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return types.Student{}, fmt.Errorf("no student found with id %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return types.Student{}, fmt.Errorf("GetStudentByID: scan: %w", err)
	}
	return st, nil
}

func (s *SQLite) GetStudents() ([]types.Student, error) {
	rows, err := s.Db.Query("SELECT " + studentColumns + " FROM students ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("GetStudents: query: %w", err)
	}
	defer rows.Close()

	students := make([]types.Student, 0)
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("GetStudents: scan row: %w", err)
		}
		students = append(students, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetStudents: rows iteration: %w", err)
	}
	return students, nil
}

func (s *SQLite) UpdateStudent(student types.Student) error {
	n, err := s.exec("UpdateStudent",
		`UPDATE students SET first_name = ?, last_name = ?, display_name = ?,
			academic_level = ?, profile_picture = ?, updated_at = ? WHERE id = ?`,
		student.FirstName, student.LastName, student.DisplayName,
		nullLevel(student.AcademicLevel), nullString(student.ProfilePicture),
		student.UpdatedAt, student.ID,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("UpdateStudent: id %s: %w", student.ID, storage.ErrNotFound)
	}
	return nil
}

// ── courses ─────────────────────────────────────────────────────────────────

const courseColumns = `id, title, description, instructor, author_id, price, original_price,
	rating, review_count, student_count, thumbnail, category, level, featured, published,
	created_at, duration, lessons, tags`

func scanCourse(row interface{ Scan(...any) error }) (types.Course, error) {
	var (
		c             types.Course
		originalPrice sql.NullFloat64
		rating        sql.NullFloat64
		reviewCount   sql.NullInt64
		studentCount  sql.NullInt64
		tags          string
	)
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Instructor, &c.AuthorID, &c.Price,
		&originalPrice, &rating, &reviewCount, &studentCount, &c.Thumbnail, &c.Category,
		&c.Level, &c.Featured, &c.Published, &c.CreatedAt, &c.Duration, &c.Lessons, &tags)
	if err != nil {
		return types.Course{}, err
	}
	if originalPrice.Valid {
		c.OriginalPrice = types.Ptr(originalPrice.Float64)
	}
	if rating.Valid {
		c.Rating = types.Ptr(rating.Float64)
	}
	if reviewCount.Valid {
		c.ReviewCount = types.Ptr(int(reviewCount.Int64))
	}
	if studentCount.Valid {
		c.StudentCount = types.Ptr(int(studentCount.Int64))
	}
	if err := json.Unmarshal([]byte(tags), &c.Tags); err != nil {
		return types.Course{}, fmt.Errorf("decode tags: %w", err)
	}
	return c, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func (s *SQLite) CreateCourse(course types.Course) error {
	tags := course.Tags
	if tags == nil {
		tags = []string{}
	}
	encoded, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("CreateCourse: encode tags: %w", err)
	}

	_, err = s.exec("CreateCourse",
		"INSERT INTO courses ("+courseColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		course.ID, course.Title, course.Description, course.Instructor, course.AuthorID, course.Price,
		nullFloat(course.OriginalPrice), nullFloat(course.Rating), nullInt(course.ReviewCount),
		nullInt(course.StudentCount), course.Thumbnail, course.Category, string(course.Level),
		course.Featured, course.Published, course.CreatedAt, course.Duration, course.Lessons,
		string(encoded),
	)
	return err
}

func (s *SQLite) GetCourseByID(id string) (types.Course, error) {
	c, err := scanCourse(s.Db.QueryRow("SELECT "+courseColumns+" FROM courses WHERE id = ? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return types.Course{}, fmt.Errorf("no course found with id %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return types.Course{}, fmt.Errorf("GetCourseByID: scan: %w", err)
	}
	return c, nil
}

func (s *SQLite) GetCourses() ([]types.Course, error) {
	rows, err := s.Db.Query("SELECT " + courseColumns + " FROM courses ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("GetCourses: query: %w", err)
	}
	defer rows.Close()

	courses := make([]types.Course, 0)
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("GetCourses: scan row: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetCourses: rows iteration: %w", err)
	}
	return courses, nil
}

// ── enrollments ─────────────────────────────────────────────────────────────

const enrollmentColumns = "id, created_at, student_id, course_id, tutor_id"

func scanEnrollment(row interface{ Scan(...any) error }) (types.Enrollment, error) {
	var (
		e     types.Enrollment
		tutor sql.NullString
	)
	if err := row.Scan(&e.ID, &e.CreatedAt, &e.StudentID, &e.CourseID, &tutor); err != nil {
		return types.Enrollment{}, err
	}
	if tutor.Valid {
		e.TutorID = types.Ptr(tutor.String)
	}
	return e, nil
}

// CreateEnrollment relies on UNIQUE(student_id, course_id) for the
// duplicate check, so it stays atomic across connections.
func (s *SQLite) CreateEnrollment(enrollment types.Enrollment) error {
	_, err := s.exec("CreateEnrollment",
		"INSERT INTO enrollments ("+enrollmentColumns+") VALUES (?, ?, ?, ?, ?)",
		enrollment.ID, enrollment.CreatedAt, enrollment.StudentID, enrollment.CourseID,
		nullString(enrollment.TutorID),
	)
	return err
}

func (s *SQLite) GetEnrollmentByID(id string) (types.Enrollment, error) {
	e, err := scanEnrollment(s.Db.QueryRow("SELECT "+enrollmentColumns+" FROM enrollments WHERE id = ? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return types.Enrollment{}, fmt.Errorf("no enrollment found with id %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return types.Enrollment{}, fmt.Errorf("GetEnrollmentByID: scan: %w", err)
	}
	return e, nil
}

func (s *SQLite) GetEnrollments() ([]types.Enrollment, error) {
	rows, err := s.Db.Query("SELECT " + enrollmentColumns + " FROM enrollments ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("GetEnrollments: query: %w", err)
	}
	defer rows.Close()

	enrollments := make([]types.Enrollment, 0)
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("GetEnrollments: scan row: %w", err)
		}
		enrollments = append(enrollments, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetEnrollments: rows iteration: %w", err)
	}
	return enrollments, nil
}

func (s *SQLite) DeleteEnrollmentByID(id string) error {
	n, err := s.exec("DeleteEnrollmentByID", "DELETE FROM enrollments WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no enrollment found with id %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

func (s *SQLite) DeleteEnrollmentByPair(studentID, courseID string) error {
	n, err := s.exec("DeleteEnrollmentByPair",
		"DELETE FROM enrollments WHERE student_id = ? AND course_id = ?", studentID, courseID)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no enrollment found for student %s in course %s: %w",
			studentID, courseID, storage.ErrNotFound)
	}
	return nil
}
