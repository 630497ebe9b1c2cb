package dal

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"gibber/shared"
	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"strings"
	"sync"
)

//go:generate mockgen --build_flags=--mod=mod -destination ../test/mocks/mock_repo.go -package mocks gibber/dal IRepo

const schemaVer = 1

//go:embed scripts/*
var scripts embed.FS

type IRepo interface {
	InitUpdateDb()
	GetProfile(username, domain string) (*Profile, error)
	GetProfileById(id string) (*Profile, error)
	SaveRemoteProfile(profile *Profile, newFiles []*File) error
	AddLocalProfile(profile *Profile) (isNew bool, err error)
	GetFile(id string) (*File, error)
	GetPost(id string) (*Post, error)
	UpsertPost(post *Post) (UpsertResult, error)
	GetPostsByProfile(profileId string, limit int) ([]*Post, error)
	GetPostCount(profileId string) (int, error)
	GetRowCounts() (map[string]int, error)
}

type Repo struct {
	cfg    *shared.Config
	logger shared.ILogger
	db     *sql.DB
	muDb   sync.RWMutex
}

func NewRepo(cfg *shared.Config, logger shared.ILogger) IRepo {

	var err error
	var db *sql.DB

	// https://phiresky.github.io/blog/2020/sqlite-performance-tuning/
	// _synchronous=1 is "normal"
	cstr := "file:%s?cache=shared&mode=rwc&_journal_mode=WAL&_synchronous=1&_busy_timeout=5000&_foreign_keys=1"
	db, err = sql.Open("sqlite3", fmt.Sprintf(cstr, cfg.DbFile))
	if err != nil {
		logger.Errorf("Failed to open/create DB file: %s: %v", cfg.DbFile, err)
		panic(err)
	}

	repo := Repo{
		cfg:    cfg,
		logger: logger,
		db:     db,
	}

	return &repo
}

func (repo *Repo) InitUpdateDb() {

	dbVer := 0
	sysParamsExists := false
	var err error
	var rows *sql.Rows

	rows, err = repo.db.Query("SELECT name FROM sqlite_master WHERE type='table' AND name='sys_params'")
	if err != nil {
		repo.logger.Errorf("Failed to check if 'sys_params' table exists: %v", err)
		panic(err)
	}
	for rows.Next() {
		sysParamsExists = true
	}
	_ = rows.Close()
	if !sysParamsExists {
		repo.logger.Printf("Database appears to be empty; current schema version is %d", schemaVer)
	} else {
		row := repo.db.QueryRow("SELECT val FROM sys_params WHERE name='schema_ver'")
		if err = row.Scan(&dbVer); err != nil {
			repo.logger.Errorf("Failed to query schema version: %v", err)
			panic(err)
		}
		repo.logger.Printf("Database is at version %d; current schema version is %d", dbVer, schemaVer)
	}
	for i := dbVer; i < schemaVer; i += 1 {
		nextVer := i + 1
		fn := fmt.Sprintf("scripts/create-%02d.sql", nextVer)
		repo.logger.Printf("Running %s", fn)
		var sqlBytes []byte
		if sqlBytes, err = scripts.ReadFile(fn); err != nil {
			repo.logger.Errorf("Failed to read init script %s: %v", fn, err)
			panic(err)
		}
		sqlStr := string(sqlBytes)
		if _, err = repo.db.Exec(sqlStr); err != nil {
			repo.logger.Errorf("Failed to execute init script %s: %v", fn, err)
			panic(err)
		}
		_, err = repo.db.Exec("UPDATE sys_params SET val=? WHERE name='schema_ver'", nextVer)
		if err != nil {
			repo.logger.Errorf("Failed to update schema_ver to %d: %v", i, err)
			panic(err)
		}
	}

	if dbVer == 0 {
		repo.mustAddInstanceActor()
	}
}

func (repo *Repo) mustAddInstanceActor() {

	if repo.cfg.Instance == nil {
		return
	}
	inst := repo.cfg.Instance
	profile := Profile{
		Id:        uuid.New().String(),
		Username:  strings.ToLower(inst.User),
		Domain:    repo.cfg.Host,
		Name:      inst.User,
		CreatedAt: inst.Published,
		FetchedAt: inst.Published,
	}
	if _, err := repo.AddLocalProfile(&profile); err != nil {
		repo.logger.Errorf("Failed to add instance actor '%s': %v", inst.User, err)
		panic(err)
	}
}

func isDuplicateKey(err error) bool {
	// MySQL: mysql.MySQLError; mysqlErr.Number == 1062
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint &&
			(sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique || sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey)
	}
	return false
}

const profileColumns = `id, username, domain, name, summary, followers_count, following_count,
	avatar_file_id, header_file_id, actor_uri, outbox_url, created_at, fetched_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*Profile, error) {
	var res Profile
	err := row.Scan(&res.Id, &res.Username, &res.Domain, &res.Name, &res.Summary,
		&res.FollowersCount, &res.FollowingCount, &res.AvatarFileId, &res.HeaderFileId,
		&res.ActorUri, &res.OutboxUrl, &res.CreatedAt, &res.FetchedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &res, nil
}

func (repo *Repo) GetProfile(username, domain string) (*Profile, error) {

	repo.muDb.RLock()
	defer repo.muDb.RUnlock()

	row := repo.db.QueryRow(`SELECT `+profileColumns+` FROM profiles WHERE username=? AND domain=?`,
		strings.ToLower(username), strings.ToLower(domain))
	profile, err := scanProfile(row)
	if err != nil || profile == nil {
		return nil, err
	}
	if err = repo.loadProfileFiles(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (repo *Repo) GetProfileById(id string) (*Profile, error) {

	repo.muDb.RLock()
	defer repo.muDb.RUnlock()

	row := repo.db.QueryRow(`SELECT `+profileColumns+` FROM profiles WHERE id=?`, id)
	profile, err := scanProfile(row)
	if err != nil || profile == nil {
		return nil, err
	}
	if err = repo.loadProfileFiles(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (repo *Repo) loadProfileFiles(profile *Profile) error {
	var err error
	if profile.AvatarFileId != nil {
		if profile.Avatar, err = repo.getFile(*profile.AvatarFileId); err != nil {
			return err
		}
	}
	if profile.HeaderFileId != nil {
		if profile.Header, err = repo.getFile(*profile.HeaderFileId); err != nil {
			return err
		}
	}
	return nil
}

func (repo *Repo) GetFile(id string) (*File, error) {

	repo.muDb.RLock()
	defer repo.muDb.RUnlock()

	return repo.getFile(id)
}

func (repo *Repo) getFile(id string) (*File, error) {

	row := repo.db.QueryRow(`SELECT id, url, source_url, mime, extension, name, size, width, height, created_at
		FROM files WHERE id=?`, id)
	var res File
	err := row.Scan(&res.Id, &res.Url, &res.SourceUrl, &res.Mime, &res.Extension, &res.Name,
		&res.Size, &res.Width, &res.Height, &res.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &res, nil
}

// SaveRemoteProfile stores the new files and inserts or updates the profile in a single transaction.
// An existing row for the same username and domain keeps its id, creation time and counters.
func (repo *Repo) SaveRemoteProfile(profile *Profile, newFiles []*File) (err error) {

	repo.muDb.Lock()
	defer repo.muDb.Unlock()

	var tx *sql.Tx
	if tx, err = repo.db.Begin(); err != nil {
		return
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, file := range newFiles {
		_, err = tx.Exec(`INSERT INTO files
			(id, url, source_url, mime, extension, name, size, width, height, created_at)
			VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			file.Id, file.Url, file.SourceUrl, file.Mime, file.Extension, file.Name,
			file.Size, file.Width, file.Height, file.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert file %s: %w", file.Id, err)
		}
	}

	_, err = tx.Exec(`INSERT INTO profiles
		(id, username, domain, name, summary, followers_count, following_count,
		 avatar_file_id, header_file_id, actor_uri, outbox_url, created_at, fetched_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(username, domain) DO UPDATE SET
			name=excluded.name, summary=excluded.summary,
			avatar_file_id=excluded.avatar_file_id, header_file_id=excluded.header_file_id,
			actor_uri=excluded.actor_uri, outbox_url=excluded.outbox_url, fetched_at=excluded.fetched_at`,
		profile.Id, profile.Username, profile.Domain, profile.Name, profile.Summary,
		profile.FollowersCount, profile.FollowingCount, profile.AvatarFileId, profile.HeaderFileId,
		profile.ActorUri, profile.OutboxUrl, profile.CreatedAt, profile.FetchedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert profile %s@%s: %w", profile.Username, profile.Domain, err)
	}

	return tx.Commit()
}

func (repo *Repo) AddLocalProfile(profile *Profile) (isNew bool, err error) {

	repo.muDb.Lock()
	defer repo.muDb.Unlock()

	isNew = true
	_, err = repo.db.Exec(`INSERT INTO profiles
		(id, username, domain, name, summary, created_at, fetched_at)
		VALUES(?, ?, ?, ?, ?, ?, ?)`,
		profile.Id, profile.Username, profile.Domain, profile.Name, profile.Summary,
		profile.CreatedAt, profile.FetchedAt)
	if err == nil {
		return
	}
	// Duplicate key: profile with this username already exists
	if isDuplicateKey(err) {
		isNew = false
		err = nil
	}
	return
}

func (repo *Repo) GetPost(id string) (*Post, error) {

	repo.muDb.RLock()
	defer repo.muDb.RUnlock()

	return repo.getPost(repo.db.QueryRow, id)
}

func (repo *Repo) getPost(queryRow func(query string, args ...any) *sql.Row, id string) (*Post, error) {

	row := queryRow(`SELECT id, profile_id, content, content_hash, created_at, updated_at
		FROM posts WHERE id=?`, id)
	var res Post
	err := row.Scan(&res.Id, &res.ProfileId, &res.Content, &res.ContentHash, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &res, nil
}

// ErrPostOwnedElsewhere is returned when a post id is already stored for a different profile.
var ErrPostOwnedElsewhere = errors.New("post belongs to another profile")

// UpsertPost inserts a post or updates the existing row with the same id.
// The write is skipped when neither the content hash nor the update time changed.
// A row is never moved to, or rewritten for, a different profile.
func (repo *Repo) UpsertPost(post *Post) (res UpsertResult, err error) {

	repo.muDb.Lock()
	defer repo.muDb.Unlock()

	var tx *sql.Tx
	if tx, err = repo.db.Begin(); err != nil {
		return
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var existing *Post
	if existing, err = repo.getPost(tx.QueryRow, post.Id); err != nil {
		return
	}
	if existing != nil && existing.ProfileId != post.ProfileId {
		err = ErrPostOwnedElsewhere
		return
	}
	if existing != nil && existing.ContentHash == post.ContentHash && existing.UpdatedAt.Equal(post.UpdatedAt) {
		err = tx.Commit()
		return PostUnchanged, err
	}

	_, err = tx.Exec(`INSERT INTO posts (id, profile_id, content, content_hash, created_at, updated_at)
		VALUES(?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			content=excluded.content, content_hash=excluded.content_hash, updated_at=excluded.updated_at
		WHERE posts.profile_id=excluded.profile_id`,
		post.Id, post.ProfileId, post.Content, post.ContentHash, post.CreatedAt, post.UpdatedAt)
	if err != nil {
		return
	}
	if err = tx.Commit(); err != nil {
		return
	}
	if existing == nil {
		return PostCreated, nil
	}
	return PostUpdated, nil
}

func (repo *Repo) GetPostsByProfile(profileId string, limit int) ([]*Post, error) {

	repo.muDb.RLock()
	defer repo.muDb.RUnlock()

	rows, err := repo.db.Query(`SELECT id, profile_id, content, content_hash, created_at, updated_at
		FROM posts WHERE profile_id=? ORDER BY created_at DESC LIMIT ?`, profileId, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []*Post{}
	for rows.Next() {
		p := Post{}
		if err = rows.Scan(&p.Id, &p.ProfileId, &p.Content, &p.ContentHash, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, &p)
	}
	return res, rows.Err()
}

func (repo *Repo) GetPostCount(profileId string) (int, error) {

	repo.muDb.RLock()
	defer repo.muDb.RUnlock()

	var count int
	row := repo.db.QueryRow(`SELECT COUNT(*) FROM posts WHERE profile_id=?`, profileId)
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *Repo) GetRowCounts() (map[string]int, error) {

	repo.muDb.RLock()
	defer repo.muDb.RUnlock()

	res := map[string]int{}
	for _, table := range []string{"profiles", "files", "posts"} {
		var count int
		row := repo.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table))
		if err := row.Scan(&count); err != nil {
			return nil, err
		}
		res[table] = count
	}
	return res, nil
}
